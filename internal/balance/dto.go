package balance

import (
	"time"

	errors "github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/common/validation"
)

type BalanceResponse struct {
	EmployeeID         string    `json:"employeeId"`
	Year               int       `json:"year"`
	LeaveBalanceBF     int       `json:"leaveBalanceBF"`
	CurrentYearLeave   int       `json:"currentYearLeave"`
	TotalLeaveDays     int       `json:"totalLeaveDays"`
	LeaveTakenThisYear int       `json:"leaveTakenThisYear"`
	Available          int       `json:"available"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// UpdateBalanceDTO is a partial update; nil fields are left untouched.
// EmployeeID defaults to the caller.
type UpdateBalanceDTO struct {
	EmployeeID         string `json:"employeeId"`
	Year               int    `json:"year" validate:"omitempty,gte=2000,lte=2100"`
	LeaveBalanceBF     *int   `json:"leaveBalanceBF" validate:"omitempty,gte=0"`
	CurrentYearLeave   *int   `json:"currentYearLeave" validate:"omitempty,gte=0"`
	LeaveTakenThisYear *int   `json:"leaveTakenThisYear" validate:"omitempty,gte=0"`
}

func (dto UpdateBalanceDTO) Validate() error {
	if dto.LeaveBalanceBF == nil && dto.CurrentYearLeave == nil && dto.LeaveTakenThisYear == nil {
		return errors.NewValidationError("at least one balance field is required", errors.ErrCodeInvalidBalanceUpdate)
	}
	if appErr := validation.Struct(dto); appErr != nil {
		return appErr
	}
	return nil
}

type ResetRequest struct {
	Year int `json:"year" validate:"omitempty,gte=2000,lte=2100"`
}

func (req ResetRequest) Validate() *errors.AppError {
	return validation.Struct(req)
}

type ResetFailure struct {
	EmployeeID string `json:"employeeId"`
	Error      string `json:"error"`
}

type ResetSummary struct {
	Year      int            `json:"year"`
	Processed int            `json:"processed"`
	Failed    int            `json:"failed"`
	Failures  []ResetFailure `json:"failures,omitempty"`
}
