package leave_test

import (
	"time"

	"github.com/frahmantamala/leave-management/internal/leave"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ = Describe("WorkingDays", func() {
	newYear := leave.NewHolidaySet(date(2026, 1, 1))

	DescribeTable("counts weekdays that are not holidays",
		func(start, end time.Time, want int) {
			Expect(leave.WorkingDays(start, end, newYear)).To(Equal(want))
		},
		Entry("a single weekday", date(2026, 3, 2), date(2026, 3, 2), 1),
		Entry("a full working week", date(2026, 3, 2), date(2026, 3, 6), 5),
		Entry("a range spanning a weekend", date(2026, 3, 6), date(2026, 3, 9), 2),
		Entry("a weekend only", date(2026, 3, 7), date(2026, 3, 8), 0),
		Entry("a week containing a holiday", date(2025, 12, 29), date(2026, 1, 2), 4),
		Entry("end before start", date(2026, 3, 9), date(2026, 3, 2), 0),
	)

	It("ignores the time of day", func() {
		start := time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)
		end := time.Date(2026, 3, 3, 0, 1, 0, 0, time.UTC)
		Expect(leave.WorkingDays(start, end, nil)).To(Equal(2))
	})

	It("treats an empty holiday set as none", func() {
		Expect(leave.WorkingDays(date(2026, 1, 1), date(2026, 1, 1), leave.HolidaySet{})).To(Equal(1))
	})
})

var _ = Describe("ParseDate", func() {
	It("accepts calendar dates", func() {
		d, err := leave.ParseDate("2026-03-12")
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(Equal(date(2026, 3, 12)))
	})

	It("normalizes RFC3339 timestamps to UTC midnight", func() {
		d, err := leave.ParseDate("2026-03-12T01:30:00+03:00")
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(Equal(date(2026, 3, 11)))
	})

	It("rejects anything else", func() {
		_, err := leave.ParseDate("12/03/2026")
		Expect(err).To(HaveOccurred())
	})
})
