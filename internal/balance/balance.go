package balance

import (
	"time"

	balanceDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/balance"
)

// Policy holds the entitlement rules applied when balances are created or rolled over.
type Policy struct {
	DefaultAllocation int
	MaxCarryForward   int
}

func DefaultPolicy() Policy {
	return Policy{DefaultAllocation: 30, MaxCarryForward: 15}
}

type Balance struct {
	ID                 string    `json:"id"`
	EmployeeID         string    `json:"employeeId"`
	Year               int       `json:"year"`
	LeaveBalanceBF     int       `json:"leaveBalanceBF"`
	CurrentYearLeave   int       `json:"currentYearLeave"`
	LeaveTakenThisYear int       `json:"leaveTakenThisYear"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Total is the entitlement for the year before anything is taken.
func (b *Balance) Total() int {
	return b.LeaveBalanceBF + b.CurrentYearLeave
}

func (b *Balance) Available() int {
	return b.Total() - b.LeaveTakenThisYear
}

// CarryForward is the unused entitlement rolled into the next year, capped at max.
func (b *Balance) CarryForward(max int) int {
	unused := b.Available()
	if unused > max {
		return max
	}
	return unused
}

// OpenYear sets the entitlement of a balance for the year after the one it was
// carried from. Days already taken are left for RecomputeTaken.
func (b *Balance) OpenYear(carried int, policy Policy, at time.Time) {
	b.LeaveBalanceBF = carried
	b.CurrentYearLeave = policy.DefaultAllocation
	b.UpdatedAt = at
}

func (b *Balance) ToResponse() BalanceResponse {
	return BalanceResponse{
		EmployeeID:         b.EmployeeID,
		Year:               b.Year,
		LeaveBalanceBF:     b.LeaveBalanceBF,
		CurrentYearLeave:   b.CurrentYearLeave,
		TotalLeaveDays:     b.Total(),
		LeaveTakenThisYear: b.LeaveTakenThisYear,
		Available:          b.Available(),
		UpdatedAt:          b.UpdatedAt,
	}
}

func NewBalance(id, employeeID string, year int, policy Policy) *Balance {
	now := time.Now().UTC()
	return &Balance{
		ID:               id,
		EmployeeID:       employeeID,
		Year:             year,
		CurrentYearLeave: policy.DefaultAllocation,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// YearBounds returns [Jan 1 of year, Jan 1 of year+1) in UTC.
func YearBounds(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

func ToDataModel(b *Balance) *balanceDatamodel.LeaveBalance {
	return &balanceDatamodel.LeaveBalance{
		ID:                 b.ID,
		EmployeeID:         b.EmployeeID,
		Year:               b.Year,
		LeaveBalanceBF:     b.LeaveBalanceBF,
		CurrentYearLeave:   b.CurrentYearLeave,
		LeaveTakenThisYear: b.LeaveTakenThisYear,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func FromDataModel(b *balanceDatamodel.LeaveBalance) *Balance {
	return &Balance{
		ID:                 b.ID,
		EmployeeID:         b.EmployeeID,
		Year:               b.Year,
		LeaveBalanceBF:     b.LeaveBalanceBF,
		CurrentYearLeave:   b.CurrentYearLeave,
		LeaveTakenThisYear: b.LeaveTakenThisYear,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}
