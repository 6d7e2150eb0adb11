package leave_test

import (
	"context"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/leave"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func ids(records []*leave.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

var _ = Describe("Leave Queries", func() {
	var (
		h   *harness
		ctx context.Context
	)

	BeforeEach(func() {
		h = newHarness()
		ctx = context.Background()
	})

	Describe("ListMine", func() {
		It("returns only the caller's leaves, newest first", func() {
			first, err := h.service.Submit(ctx, employee, shortDTO())
			Expect(err).NotTo(HaveOccurred())
			h.now = h.now.Add(time.Minute)
			second, err := h.service.Submit(ctx, employee, annualDTO())
			Expect(err).NotTo(HaveOccurred())
			_, err = h.service.Submit(ctx, colleague, shortDTO())
			Expect(err).NotTo(HaveOccurred())

			mine, err := h.service.ListMine(ctx, employee, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(mine)).To(Equal([]string{second.ID, first.ID}))

			annual, err := h.service.ListMine(ctx, employee, "Annual Leave")
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(annual)).To(Equal([]string{second.ID}))
		})

		It("rejects an unknown type filter", func() {
			_, err := h.service.ListMine(ctx, employee, "Sick Leave")
			Expect(detailCodes(err)).To(ConsistOf(string(internal.ErrCodeInvalidLeaveType)))
		})

		It("expires pending leaves whose start date has passed", func() {
			rec, err := h.service.Submit(ctx, employee, shortDTO())
			Expect(err).NotTo(HaveOccurred())

			h.now = monday.AddDate(0, 0, 1)
			mine, err := h.service.ListMine(ctx, employee, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(1))
			Expect(mine[0].Status).To(Equal(leave.StatusPending))

			h.now = monday.AddDate(0, 0, 2)
			mine, err = h.service.ListMine(ctx, employee, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(mine[0].Status).To(Equal(leave.StatusRejected))

			stored, err := h.repo.GetByID(ctx, rec.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(leave.StatusRejected))
			Expect(stored.Approvals[0].Comment).To(ContainSubstring("expired"))

			h.bus.Wait()
			Expect(h.recorded.types()).To(ContainElement(events.EventTypeLeaveStatusChanged))
		})

		It("leaves decided records alone", func() {
			rec, err := h.service.Submit(ctx, employee, shortDTO())
			Expect(err).NotTo(HaveOccurred())
			_, err = h.service.Approve(ctx, hr, rec.ID, leave.ApproveDTO{Status: "Approved"})
			Expect(err).NotTo(HaveOccurred())

			h.now = monday.AddDate(0, 1, 0)
			mine, err := h.service.ListMine(ctx, employee, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(mine[0].Status).To(Equal(leave.StatusApproved))
		})
	})

	Describe("PendingApprovals", func() {
		var short, annual *leave.Record

		BeforeEach(func() {
			var err error
			short, err = h.service.Submit(ctx, employee, shortDTO())
			Expect(err).NotTo(HaveOccurred())
			annual, err = h.service.Submit(ctx, colleague, annualDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		pending := func(actor internal.Identity) []string {
			records, err := h.service.PendingApprovals(ctx, actor, "")
			Expect(err).NotTo(HaveOccurred())
			return ids(records)
		}

		It("shows each role only what waits on it", func() {
			Expect(pending(supervisor)).To(ConsistOf(short.ID))
			Expect(pending(sectional)).To(ConsistOf(annual.ID))
			Expect(pending(department)).To(BeEmpty())
			Expect(pending(hr)).To(ConsistOf(short.ID))
			Expect(pending(admin)).To(ConsistOf(short.ID, annual.ID))
		})

		It("follows the annual trail in order", func() {
			_, err := h.service.Approve(ctx, sectional, annual.ID, leave.ApproveDTO{Status: "Approved"})
			Expect(err).NotTo(HaveOccurred())
			Expect(pending(sectional)).To(BeEmpty())
			Expect(pending(department)).To(ConsistOf(annual.ID))
			Expect(pending(hr)).To(ConsistOf(short.ID))

			_, err = h.service.Approve(ctx, department, annual.ID, leave.ApproveDTO{Status: "Approved"})
			Expect(err).NotTo(HaveOccurred())
			Expect(pending(department)).To(BeEmpty())
			Expect(pending(hr)).To(ConsistOf(short.ID, annual.ID))
		})

		It("filters by leave type", func() {
			records, err := h.service.PendingApprovals(ctx, admin, "Short Leave")
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(records)).To(ConsistOf(short.ID))
		})

		It("is closed to employees", func() {
			_, err := h.service.PendingApprovals(ctx, employee, "")
			Expect(err).To(MatchError(internal.ErrForbiddenRole))
		})
	})

	Describe("ListAll and AdminList", func() {
		BeforeEach(func() {
			_, err := h.service.Submit(ctx, employee, shortDTO())
			Expect(err).NotTo(HaveOccurred())
			_, err = h.service.Submit(ctx, colleague, annualDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		DescribeTable("ListAll access",
			func(actor internal.Identity, allowed bool) {
				records, err := h.service.ListAll(ctx, actor)
				if allowed {
					Expect(err).NotTo(HaveOccurred())
					Expect(records).To(HaveLen(2))
				} else {
					Expect(err).To(MatchError(internal.ErrForbiddenRole))
				}
			},
			Entry("employee", employee, false),
			Entry("supervisor", supervisor, false),
			Entry("sectional head", sectional, true),
			Entry("departmental head", department, true),
			Entry("hr director", hr, true),
			Entry("admin", admin, true),
		)

		It("lists one kind for HR and admins", func() {
			records, err := h.service.AdminList(ctx, hr, "Annual Leave")
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			Expect(records[0].IsAnnual()).To(BeTrue())
		})

		It("requires the leave type", func() {
			_, err := h.service.AdminList(ctx, admin, "")
			Expect(detailCodes(err)).To(ConsistOf(string(internal.ErrCodeInvalidLeaveType)))
		})

		It("keeps heads of department out of the admin list", func() {
			_, err := h.service.AdminList(ctx, department, "Short Leave")
			Expect(err).To(MatchError(internal.ErrForbiddenRole))
		})
	})

	Describe("Get", func() {
		var rec *leave.Record

		BeforeEach(func() {
			var err error
			rec, err = h.service.Submit(ctx, employee, shortDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns the leave to its owner and to approvers", func() {
			for _, actor := range []internal.Identity{employee, supervisor, hr} {
				got, err := h.service.Get(ctx, actor, rec.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(got.ID).To(Equal(rec.ID))
			}
		})

		It("hides it from other employees", func() {
			_, err := h.service.Get(ctx, colleague, rec.ID)
			Expect(err).To(MatchError(internal.ErrForbiddenRole))
		})

		It("reports a missing leave", func() {
			_, err := h.service.Get(ctx, hr, "nope")
			Expect(err).To(MatchError(internal.ErrLeaveNotFound))
		})
	})
})
