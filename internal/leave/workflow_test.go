package leave_test

import (
	"context"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/leave"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Leave Workflow", func() {
	var (
		h   *harness
		ctx context.Context
	)

	BeforeEach(func() {
		h = newHarness()
		ctx = context.Background()
	})

	Describe("annual leave", func() {
		var rec *leave.Record

		BeforeEach(func() {
			var err error
			rec, err = h.service.Submit(ctx, employee, annualDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		It("moves through the three steps and charges the balance on final approval", func() {
			got, err := h.service.Approve(ctx, sectional, rec.ID, leave.ApproveDTO{Status: "Approved"})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(leave.StatusPending))
			Expect(got.Stage()).To(Equal(leave.StageRecommendedBySectional))
			Expect(got.SectionalHeadRecommendation).To(Equal("Approved"))

			got, err = h.service.Approve(ctx, department, rec.ID, leave.ApproveDTO{Status: "Approved", Comment: "cover arranged"})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(leave.StatusPending))
			Expect(got.Approvals[1].Comment).To(Equal("cover arranged"))
			Expect(got.Approvals[1].ApproverID).To(Equal(department.ID))

			got, err = h.service.UpdateFields(ctx, hr, rec.ID, map[string]interface{}{
				leave.FieldApproverRecommendation: "Approved",
				leave.FieldApproverDate:           day(0),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(leave.StatusApproved))
			Expect(got.Stage()).To(Equal(leave.StageApproved))

			b, err := h.balances.Current(ctx, employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.LeaveTakenThisYear).To(Equal(5))
			Expect(b.Available()).To(Equal(25))

			stored, err := h.repo.GetByID(ctx, rec.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(leave.StatusApproved))
			Expect(stored.Version).To(Equal(4))
		})

		It("rejects the whole request when any step rejects", func() {
			got, err := h.service.UpdateFields(ctx, sectional, rec.ID, map[string]interface{}{
				leave.FieldSectionalHeadRecommendation: "Not Recommended",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(leave.StatusRejected))
			Expect(got.SectionalHeadRecommendation).To(Equal("Not Recommended"))
		})

		It("treats any HR recommendation other than Approved as a rejection", func() {
			got, err := h.service.UpdateFields(ctx, hr, rec.ID, map[string]interface{}{
				leave.FieldApproverRecommendation: "Maybe later",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(leave.StatusRejected))
		})

		It("restores the balance when an admin reverses an approval", func() {
			for _, actor := range []internal.Identity{sectional, department, hr} {
				_, err := h.service.Approve(ctx, actor, rec.ID, leave.ApproveDTO{Status: "Approved"})
				Expect(err).NotTo(HaveOccurred())
			}
			b, err := h.balances.Current(ctx, employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.LeaveTakenThisYear).To(Equal(5))

			got, err := h.service.Approve(ctx, admin, rec.ID, leave.ApproveDTO{Status: "Rejected", ActingAs: "HRDirector"})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(leave.StatusRejected))

			b, err = h.balances.Current(ctx, employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.LeaveTakenThisYear).To(Equal(0))
		})

		It("lets an admin decide the earliest pending step", func() {
			got, err := h.service.Approve(ctx, admin, rec.ID, leave.ApproveDTO{Status: "Approved"})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.StepStatus(internal.RoleSectionalHead)).To(Equal(leave.StatusApproved))
			Expect(got.StepStatus(internal.RoleDepartmentalHead)).To(Equal(leave.StatusPending))
		})

		It("rejects an actingAs role outside the trail", func() {
			_, err := h.service.Approve(ctx, admin, rec.ID, leave.ApproveDTO{Status: "Approved", ActingAs: "Supervisor"})
			Expect(detailCodes(err)).To(ConsistOf(string(internal.ErrCodeValidationFailed)))
		})

		It("keeps the supervisor out of annual leave", func() {
			_, err := h.service.Approve(ctx, supervisor, rec.ID, leave.ApproveDTO{Status: "Approved"})
			Expect(err).To(MatchError(internal.ErrForbiddenRole))
		})

		It("refuses further action once finalized", func() {
			_, err := h.service.Approve(ctx, sectional, rec.ID, leave.ApproveDTO{Status: "Rejected"})
			Expect(err).NotTo(HaveOccurred())

			_, err = h.service.Approve(ctx, department, rec.ID, leave.ApproveDTO{Status: "Approved"})
			Expect(err).To(MatchError(internal.ErrLeaveFinalized))
		})

		It("applies the permitted fields and drops the rest", func() {
			got, err := h.service.UpdateFields(ctx, department, rec.ID, map[string]interface{}{
				leave.FieldDepartmentalHeadDaysGranted: float64(4),
				leave.FieldDepartmentalHeadStartDate:   day(10),
				leave.FieldApproverRecommendation:      "Approved",
				"status":                               "Approved",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(*got.DepartmentalHeadDaysGranted).To(Equal(4))
			Expect(got.DepartmentalHeadStartDate).NotTo(BeNil())
			Expect(got.ApproverRecommendation).To(BeEmpty())
			Expect(got.Status).To(Equal(leave.StatusPending))
		})

		It("fails when no field is permitted", func() {
			_, err := h.service.UpdateFields(ctx, sectional, rec.ID, map[string]interface{}{
				leave.FieldApproverRecommendation: "Approved",
			})
			Expect(err).To(MatchError(internal.ErrNoValidFields))
		})

		It("keeps a free-text recommendation as a remark without deciding the step", func() {
			got, err := h.service.UpdateFields(ctx, sectional, rec.ID, map[string]interface{}{
				leave.FieldSectionalHeadRecommendation: "ok once handover notes are filed",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.SectionalHeadRecommendation).To(Equal("ok once handover notes are filed"))
			Expect(got.StepStatus(internal.RoleSectionalHead)).To(Equal(leave.StatusPending))
			Expect(got.Status).To(Equal(leave.StatusPending))
			Expect(got.Stage()).To(Equal(leave.StagePending))

			idx := got.StepIndex(internal.RoleSectionalHead)
			Expect(idx).To(BeNumerically(">=", 0))
			Expect(got.Approvals[idx].Comment).To(Equal("ok once handover notes are filed"))
			Expect(got.Approvals[idx].ApproverID).To(Equal(sectional.ID))

			got, err = h.service.UpdateFields(ctx, sectional, rec.ID, map[string]interface{}{
				leave.FieldSectionalHeadRecommendation: "Recommended",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.StepStatus(internal.RoleSectionalHead)).To(Equal(leave.StatusApproved))
			Expect(got.Stage()).To(Equal(leave.StageRecommendedBySectional))
		})

		It("rejects a negative days granted", func() {
			_, err := h.service.UpdateFields(ctx, department, rec.ID, map[string]interface{}{
				leave.FieldDepartmentalHeadDaysGranted: float64(-1),
			})
			Expect(detailCodes(err)).To(ConsistOf(string(internal.ErrCodeValidationFailed)))
		})

		It("announces every status change", func() {
			_, err := h.service.Approve(ctx, sectional, rec.ID, leave.ApproveDTO{Status: "Rejected"})
			Expect(err).NotTo(HaveOccurred())
			h.bus.Wait()

			Expect(h.recorded.types()).To(Equal([]string{
				events.EventTypeLeaveSubmitted,
				events.EventTypeLeaveStatusChanged,
			}))
		})
	})

	Describe("short leave", func() {
		var rec *leave.Record

		BeforeEach(func() {
			var err error
			rec, err = h.service.Submit(ctx, employee, shortDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		It("records the supervisor recommendation without deciding", func() {
			got, err := h.service.Approve(ctx, supervisor, rec.ID, leave.ApproveDTO{Status: "Approved", Comment: "fine by me"})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(leave.StatusPending))
			Expect(got.Recommendation).To(Equal("fine by me"))
			Expect(got.SupervisorRecommendation).To(Equal("Approved"))
			Expect(got.SupervisorDate).NotTo(BeNil())
		})

		It("lets HR decide even against the supervisor", func() {
			_, err := h.service.Approve(ctx, supervisor, rec.ID, leave.ApproveDTO{Status: "Rejected"})
			Expect(err).NotTo(HaveOccurred())

			got, err := h.service.Approve(ctx, hr, rec.ID, leave.ApproveDTO{Status: "Approved"})
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(leave.StatusApproved))
			Expect(got.ApproverRecommendation).To(Equal("Approved"))
		})

		It("counts approved short leave against the year", func() {
			_, err := h.service.Approve(ctx, hr, rec.ID, leave.ApproveDTO{Status: "Approved"})
			Expect(err).NotTo(HaveOccurred())

			b, err := h.balances.Current(ctx, employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.LeaveTakenThisYear).To(Equal(2))
		})

		It("keeps heads of section and department out", func() {
			_, err := h.service.Approve(ctx, sectional, rec.ID, leave.ApproveDTO{Status: "Approved"})
			Expect(err).To(MatchError(internal.ErrForbiddenRole))
			_, err = h.service.UpdateFields(ctx, department, rec.ID, map[string]interface{}{
				leave.FieldSupervisorRecommendation: "Approved",
			})
			Expect(err).To(MatchError(internal.ErrForbiddenRole))
		})

		It("keeps employees out", func() {
			_, err := h.service.Approve(ctx, employee, rec.ID, leave.ApproveDTO{Status: "Approved"})
			Expect(err).To(MatchError(internal.ErrForbiddenRole))
		})
	})

	It("rejects a status other than Approved or Rejected", func() {
		_, err := h.service.Approve(ctx, hr, "anything", leave.ApproveDTO{Status: "Pending"})
		Expect(err).To(MatchError(internal.ErrInvalidStatus))
	})

	It("reports an unknown leave", func() {
		_, err := h.service.Approve(ctx, hr, "missing", leave.ApproveDTO{Status: "Approved"})
		Expect(err).To(MatchError(internal.ErrLeaveNotFound))
	})

	It("surfaces a stale write as a version conflict", func() {
		rec, err := h.service.Submit(ctx, employee, shortDTO())
		Expect(err).NotTo(HaveOccurred())

		stale, err := h.repo.GetByID(ctx, rec.ID)
		Expect(err).NotTo(HaveOccurred())

		_, err = h.service.Approve(ctx, supervisor, rec.ID, leave.ApproveDTO{Status: "Approved"})
		Expect(err).NotTo(HaveOccurred())

		stale.Status = leave.StatusRejected
		Expect(h.repo.Update(ctx, stale)).To(MatchError(internal.ErrVersionConflict))
	})
})
