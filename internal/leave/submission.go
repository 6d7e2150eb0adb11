package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/common/validation"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/google/uuid"
)

// Submit validates dto and stores a new Pending leave for actor.
func (s *Service) Submit(ctx context.Context, actor internal.Identity, dto ApplyLeaveDTO) (*Record, error) {
	if actor.IsZero() {
		return nil, internal.ErrMissingIdentity
	}

	kind, ok := ParseKind(dto.LeaveType)
	if !ok {
		s.logger.Warn("leave submission with unknown type", "employee_id", actor.ID, "leave_type", dto.LeaveType)
		return nil, internal.NewValidationFieldError("leaveType",
			fmt.Sprintf("leaveType must be %q or %q", KindShort, KindAnnual),
			internal.ErrCodeInvalidLeaveType)
	}

	s.prefill(ctx, actor.ID, &dto)

	if appErr := s.validateFields(kind, dto); appErr != nil {
		return nil, appErr
	}

	start, end, appErr := parsePeriod(dto)
	if appErr != nil {
		return nil, appErr
	}

	now := s.now()
	rec := &Record{
		Base: Base{
			ID:             uuid.New().String(),
			EmployeeID:     actor.ID,
			LeaveType:      kind,
			EmployeeName:   dto.EmployeeName,
			PersonNumber:   dto.PersonNumber,
			Department:     dto.Department,
			StartDate:      start,
			EndDate:        end,
			DaysApplied:    dto.DaysApplied,
			Reason:         dto.Reason,
			Status:         StatusPending,
			SubmissionDate: now,
			CreatedAt:      now,
			UpdatedAt:      now,
			Version:        1,
		},
	}

	switch kind {
	case KindShort:
		if err := s.checkShortRules(rec); err != nil {
			return nil, err
		}
		rec.ShortDetails = &ShortDetails{
			ChiefOfficerName:      dto.ChiefOfficerName,
			SupervisorName:        dto.SupervisorName,
			AssignedToName:        dto.AssignedToName,
			AssignedToDesignation: dto.AssignedToDesignation,
		}
		rec.Approvals = NewShortTrail()
	case KindAnnual:
		if err := s.checkAnnualRules(rec, now); err != nil {
			return nil, err
		}
		snapshot, err := s.snapshot(ctx, rec)
		if err != nil {
			return nil, err
		}
		rec.AnnualDetails = &AnnualDetails{
			Sector:               dto.Sector,
			AddressWhileAway:     dto.AddressWhileAway,
			EmailAddress:         dto.EmailAddress,
			PhoneNumber:          dto.PhoneNumber,
			SectionalHeadName:    dto.SectionalHeadName,
			DepartmentalHeadName: dto.DepartmentalHeadName,
			HRDirectorName:       dto.HRDirectorName,
			Snapshot:             snapshot,
		}
		rec.Approvals = NewAnnualTrail()
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, s.storageErr("create leave", err, "employee_id", actor.ID, "leave_type", kind)
	}

	s.logger.Info("leave submitted",
		"leave_id", rec.ID,
		"employee_id", actor.ID,
		"leave_type", kind,
		"days_applied", rec.DaysApplied)

	s.publish(ctx, events.NewLeaveSubmittedEvent(
		rec.ID, rec.EmployeeID, rec.EmployeeName, string(kind), rec.DaysApplied, rec.StartDate, rec.EndDate))

	return rec, nil
}

// prefill copies profile values into empty form fields.
func (s *Service) prefill(ctx context.Context, userID string, dto *ApplyLeaveDTO) {
	if s.profiles == nil {
		return
	}
	p, err := s.profiles.Get(ctx, userID)
	if err != nil || p == nil {
		if err != nil {
			s.logger.Warn("profile unavailable for form pre-fill", "employee_id", userID, "error", err)
		}
		return
	}

	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&dto.EmployeeName, p.Name)
	fill(&dto.PersonNumber, p.PersonNumber)
	fill(&dto.Department, p.Department)
	fill(&dto.ChiefOfficerName, p.ChiefOfficerName)
	fill(&dto.SupervisorName, p.SupervisorName)
	fill(&dto.Sector, p.Sector)
	fill(&dto.EmailAddress, p.Email)
	fill(&dto.PhoneNumber, p.PhoneNumber)
	fill(&dto.SectionalHeadName, p.SectionalHeadName)
	fill(&dto.DepartmentalHeadName, p.DepartmentalHeadName)
	fill(&dto.HRDirectorName, p.HRDirectorName)
}

func (s *Service) validateFields(kind Kind, dto ApplyLeaveDTO) *internal.AppError {
	maxDays := s.policy.ShortMaxDays
	if kind == KindAnnual {
		maxDays = s.policy.AnnualMaxDays
	}

	v := validation.NewValidator()
	v.Field("employeeName", dto.EmployeeName).Required().MaxLength(120)
	v.Field("personNumber", dto.PersonNumber).Required()
	v.Field("department", dto.Department).Required()
	v.Field("startDate", dto.StartDate).Required()
	v.Field("endDate", dto.EndDate).Required()
	v.Field("daysApplied", dto.DaysApplied).IntRange(1, maxDays, internal.ErrCodeDaysOutOfRange)
	v.Field("reason", dto.Reason).Required().MaxLength(1000)

	if kind == KindAnnual {
		v.Field("sector", dto.Sector).Required()
		v.Field("addressWhileAway", dto.AddressWhileAway).Required()
	}

	return validation.Merge(v.Validate(), validation.Struct(dto))
}

func parsePeriod(dto ApplyLeaveDTO) (time.Time, time.Time, *internal.AppError) {
	start, err := ParseDate(dto.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, internal.NewValidationFieldError("startDate", err.Error(), internal.ErrCodeInvalidDate)
	}
	end, err := ParseDate(dto.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, internal.NewValidationFieldError("endDate", err.Error(), internal.ErrCodeInvalidDate)
	}

	v := validation.NewValidator()
	v.Field("endDate", end).NotBefore(start, "startDate")
	if appErr := v.Validate(); appErr != nil {
		return time.Time{}, time.Time{}, appErr
	}
	return start, end, nil
}

func (s *Service) checkWorkingDays(rec *Record) *internal.AppError {
	working := WorkingDays(rec.StartDate, rec.EndDate, s.policy.Holidays)
	if working != rec.DaysApplied {
		return internal.NewValidationFieldError("daysApplied",
			fmt.Sprintf("daysApplied (%d) does not match the %d working days between startDate and endDate", rec.DaysApplied, working),
			internal.ErrCodeWorkingDaysMismatch)
	}
	return nil
}

func (s *Service) checkShortRules(rec *Record) error {
	if appErr := s.checkWorkingDays(rec); appErr != nil {
		return appErr
	}
	if rec.DaysApplied > s.policy.ShortMaxDays {
		return internal.NewValidationFieldError("daysApplied",
			fmt.Sprintf("short leave cannot exceed %d working days", s.policy.ShortMaxDays),
			internal.ErrCodeDaysOutOfRange)
	}
	return nil
}

func (s *Service) checkAnnualRules(rec *Record, now time.Time) error {
	earliest := NormalizeDate(now).AddDate(0, 0, s.policy.NoticeDays)
	if rec.StartDate.Before(earliest) {
		return internal.NewValidationFieldError("startDate",
			fmt.Sprintf("Annual leave must be submitted at least %d days in advance", s.policy.NoticeDays),
			internal.ErrCodeNoticePeriod)
	}
	if appErr := s.checkWorkingDays(rec); appErr != nil {
		return appErr
	}
	return nil
}

// snapshot checks the available balance of the year the leave starts in, the
// year approval charges, and captures the arithmetic shown on the annual leave form.
func (s *Service) snapshot(ctx context.Context, rec *Record) (Snapshot, error) {
	b, err := s.ledger.RecomputeTaken(ctx, rec.EmployeeID, rec.StartDate.Year())
	if err != nil {
		return Snapshot{}, err
	}

	available := b.Available()
	if available < rec.DaysApplied {
		s.logger.Warn("annual leave exceeds available balance",
			"employee_id", rec.EmployeeID,
			"available", available,
			"requested", rec.DaysApplied)
		return Snapshot{}, internal.ErrInsufficientBalance.WithDetails(map[string]int{
			"available": available,
			"requested": rec.DaysApplied,
		})
	}

	due := b.Total() - b.LeaveTakenThisYear
	return Snapshot{
		LeaveBalanceBF:     b.LeaveBalanceBF,
		CurrentYearLeave:   b.CurrentYearLeave,
		TotalLeaveDays:     b.Total(),
		LeaveTakenThisYear: b.LeaveTakenThisYear,
		LeaveBalanceDue:    due,
		LeaveApplied:       rec.DaysApplied,
		LeaveBalanceCF:     due - rec.DaysApplied,
	}, nil
}
