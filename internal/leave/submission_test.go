package leave_test

import (
	"context"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/profile"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Leave Submission", func() {
	var (
		h   *harness
		ctx context.Context
	)

	BeforeEach(func() {
		h = newHarness()
		ctx = context.Background()
	})

	Describe("annual leave", func() {
		It("accepts a valid request with three pending steps and a snapshot", func() {
			rec, err := h.service.Submit(ctx, employee, annualDTO())
			Expect(err).NotTo(HaveOccurred())

			Expect(rec.Status).To(Equal(leave.StatusPending))
			Expect(rec.EmployeeID).To(Equal(employee.ID))
			Expect(rec.Version).To(Equal(1))
			Expect(rec.Approvals).To(HaveLen(3))
			Expect(rec.Approvals[0].ApproverRole).To(Equal(internal.RoleSectionalHead))
			Expect(rec.Approvals[1].ApproverRole).To(Equal(internal.RoleDepartmentalHead))
			Expect(rec.Approvals[2].ApproverRole).To(Equal(internal.RoleHRDirector))
			for _, step := range rec.Approvals {
				Expect(step.Status).To(Equal(leave.StatusPending))
			}

			Expect(rec.LeaveBalanceBF).To(Equal(0))
			Expect(rec.CurrentYearLeave).To(Equal(30))
			Expect(rec.TotalLeaveDays).To(Equal(30))
			Expect(rec.LeaveTakenThisYear).To(Equal(0))
			Expect(rec.LeaveBalanceDue).To(Equal(30))
			Expect(rec.LeaveApplied).To(Equal(5))
			Expect(rec.LeaveBalanceCF).To(Equal(25))

			stored, err := h.repo.GetByID(ctx, rec.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.IsAnnual()).To(BeTrue())
			Expect(stored.Approvals).To(HaveLen(3))
			Expect(stored.StartDate).To(BeTemporally("==", date(2026, 3, 12)))
		})

		It("announces the new request", func() {
			_, err := h.service.Submit(ctx, employee, annualDTO())
			Expect(err).NotTo(HaveOccurred())
			h.bus.Wait()

			Expect(h.recorded.types()).To(ConsistOf(events.EventTypeLeaveSubmitted))
		})

		It("rejects more than thirty days regardless of balance", func() {
			dto := annualDTO()
			dto.DaysApplied = 31

			_, err := h.service.Submit(ctx, employee, dto)
			Expect(detailCodes(err)).To(ContainElement(string(internal.ErrCodeDaysOutOfRange)))
		})

		It("requires seven days of notice", func() {
			dto := annualDTO()
			dto.StartDate = day(6)
			dto.EndDate = day(8)
			dto.DaysApplied = 3

			_, err := h.service.Submit(ctx, employee, dto)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("must be submitted at least 7 days in advance"))
			Expect(detailCodes(err)).To(ConsistOf(string(internal.ErrCodeNoticePeriod)))
		})

		It("accepts a start exactly seven days out", func() {
			dto := annualDTO()
			dto.StartDate = day(7)
			dto.EndDate = day(7)
			dto.DaysApplied = 1

			_, err := h.service.Submit(ctx, employee, dto)
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a working-day mismatch", func() {
			dto := annualDTO()
			dto.DaysApplied = 6

			_, err := h.service.Submit(ctx, employee, dto)
			Expect(detailCodes(err)).To(ConsistOf(string(internal.ErrCodeWorkingDaysMismatch)))
		})

		It("rejects a request exceeding the available balance", func() {
			allocate(h, employee.ID, 3)

			_, err := h.service.Submit(ctx, employee, annualDTO())
			Expect(err).To(MatchError(internal.ErrInsufficientBalance))
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.Details).To(Equal(map[string]int{"available": 3, "requested": 5}))
		})

		It("checks the balance of the year the leave starts in", func() {
			h.now = time.Date(2026, 12, 14, 9, 0, 0, 0, time.UTC)
			allocate(h, employee.ID, 3)

			dto := annualDTO()
			dto.StartDate = "2027-01-04"
			dto.EndDate = "2027-01-08"

			rec, err := h.service.Submit(ctx, employee, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.CurrentYearLeave).To(Equal(30))
			Expect(rec.LeaveBalanceDue).To(Equal(30))
			Expect(rec.LeaveBalanceCF).To(Equal(25))

			next, err := h.balances.GetOrCreate(ctx, employee.ID, 2027)
			Expect(err).NotTo(HaveOccurred())
			Expect(next.CurrentYearLeave).To(Equal(30))
			current, err := h.balances.GetOrCreate(ctx, employee.ID, 2026)
			Expect(err).NotTo(HaveOccurred())
			Expect(current.CurrentYearLeave).To(Equal(3))
		})

		It("lists every missing field", func() {
			_, err := h.service.Submit(ctx, employee, leave.ApplyLeaveDTO{LeaveType: "Annual Leave", DaysApplied: 2})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			details := appErr.Details.(internal.ValidationErrors)
			fields := make([]string, 0)
			for _, e := range details.Errors {
				fields = append(fields, e.Field)
			}
			Expect(fields).To(ContainElements("employeeName", "personNumber", "department", "startDate", "endDate", "reason", "sector", "addressWhileAway"))
		})
	})

	Describe("short leave", func() {
		It("accepts a valid request with a supervisor step", func() {
			rec, err := h.service.Submit(ctx, employee, shortDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.IsShort()).To(BeTrue())
			Expect(rec.SupervisorName).To(Equal("Peter Otieno"))
			Expect(rec.Approvals).To(HaveLen(1))
			Expect(rec.Approvals[0].ApproverRole).To(Equal(internal.RoleSupervisor))
		})

		It("rejects days that do not match the working days across a weekend", func() {
			dto := shortDTO()
			dto.StartDate = day(4)
			dto.EndDate = day(7)
			dto.DaysApplied = 3

			_, err := h.service.Submit(ctx, employee, dto)
			Expect(detailCodes(err)).To(ConsistOf(string(internal.ErrCodeWorkingDaysMismatch)))
			Expect(err.Error()).To(ContainSubstring("2 working days"))
		})

		It("caps short leave at five days", func() {
			dto := shortDTO()
			dto.StartDate = day(0)
			dto.EndDate = day(7)
			dto.DaysApplied = 6

			_, err := h.service.Submit(ctx, employee, dto)
			Expect(detailCodes(err)).To(ContainElement(string(internal.ErrCodeDaysOutOfRange)))
		})

		It("rejects an end date before the start date", func() {
			dto := shortDTO()
			dto.StartDate = day(2)
			dto.EndDate = day(1)

			_, err := h.service.Submit(ctx, employee, dto)
			Expect(detailCodes(err)).To(ConsistOf(string(internal.ErrCodeInvalidDate)))
		})

		It("does not need notice or balance", func() {
			allocate(h, employee.ID, 0)

			_, err := h.service.Submit(ctx, employee, shortDTO())
			Expect(err).NotTo(HaveOccurred())
		})
	})

	It("rejects an unknown leave type", func() {
		dto := shortDTO()
		dto.LeaveType = "Sabbatical"

		_, err := h.service.Submit(ctx, employee, dto)
		Expect(detailCodes(err)).To(ConsistOf(string(internal.ErrCodeInvalidLeaveType)))
	})

	It("requires an identity", func() {
		_, err := h.service.Submit(ctx, internal.Identity{}, shortDTO())
		Expect(err).To(MatchError(internal.ErrMissingIdentity))
	})

	It("fills empty form fields from the profile", func() {
		_, err := h.profiles.Update(ctx, employee.ID, profile.UpdateProfileDTO{
			Name:              "Jane Wanjiku",
			PersonNumber:      "P-1001",
			Department:        "Finance",
			Sector:            "Treasury",
			SectionalHeadName: "Ann Sectional",
		})
		Expect(err).NotTo(HaveOccurred())

		dto := annualDTO()
		dto.EmployeeName = ""
		dto.PersonNumber = ""
		dto.Sector = ""
		dto.Department = "Audit"

		rec, err := h.service.Submit(ctx, employee, dto)
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.EmployeeName).To(Equal("Jane Wanjiku"))
		Expect(rec.PersonNumber).To(Equal("P-1001"))
		Expect(rec.Sector).To(Equal("Treasury"))
		Expect(rec.SectionalHeadName).To(Equal("Ann Sectional"))
		Expect(rec.Department).To(Equal("Audit"))
	})
})
