package leave

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// HolidaySet is the configured list of non-working calendar dates.
type HolidaySet map[string]struct{}

func NewHolidaySet(dates ...time.Time) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[NormalizeDate(d).Format(dateLayout)] = struct{}{}
	}
	return set
}

func (h HolidaySet) Contains(d time.Time) bool {
	_, ok := h[NormalizeDate(d).Format(dateLayout)]
	return ok
}

// NormalizeDate truncates t to midnight UTC of its UTC calendar day.
func NormalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the UTC midnight of that day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dateLayout, s, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return NormalizeDate(t), nil
}

// WorkingDays counts the days in [start, end] that fall Monday to Friday and are
// not holidays. It returns 0 when end is before start.
func WorkingDays(start, end time.Time, holidays HolidaySet) int {
	from, to := NormalizeDate(start), NormalizeDate(end)
	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		}
		if holidays.Contains(d) {
			continue
		}
		count++
	}
	return count
}
