package balance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	balanceDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/balance"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	// GetByEmployeeYear returns nil, nil when no balance exists.
	GetByEmployeeYear(ctx context.Context, employeeID string, year int) (*balanceDatamodel.LeaveBalance, error)
	Create(ctx context.Context, balance *balanceDatamodel.LeaveBalance) error
	Save(ctx context.Context, balance *balanceDatamodel.LeaveBalance) error
	ListByYear(ctx context.Context, year int) ([]*balanceDatamodel.LeaveBalance, error)
}

// ApprovedDaysCounter sums daysApplied of approved leaves whose start date is in [from, to).
type ApprovedDaysCounter interface {
	SumApprovedDays(ctx context.Context, employeeID string, from, to time.Time) (int, error)
}

type Service struct {
	repo    RepositoryAPI
	counter ApprovedDaysCounter
	policy  Policy
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo RepositoryAPI, counter ApprovedDaysCounter, policy Policy, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:    repo,
		counter: counter,
		policy:  policy,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) CurrentYear() int {
	return s.now().Year()
}

// GetOrCreate returns the balance of employeeID for year, creating it with the
// policy defaults on first access.
func (s *Service) GetOrCreate(ctx context.Context, employeeID string, year int) (*Balance, error) {
	existing, err := s.repo.GetByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		s.logger.Error("failed to load leave balance", "employee_id", employeeID, "year", year, "error", err)
		return nil, internal.NewStorageError(err)
	}
	if existing != nil {
		return FromDataModel(existing), nil
	}

	fresh := NewBalance(uuid.New().String(), employeeID, year, s.policy)
	if err := s.repo.Create(ctx, ToDataModel(fresh)); err != nil {
		// a concurrent request may have created it first
		if again, getErr := s.repo.GetByEmployeeYear(ctx, employeeID, year); getErr == nil && again != nil {
			return FromDataModel(again), nil
		}
		s.logger.Error("failed to create leave balance", "employee_id", employeeID, "year", year, "error", err)
		return nil, internal.NewStorageError(err)
	}

	s.logger.Info("leave balance created", "employee_id", employeeID, "year", year)
	return fresh, nil
}

// RecomputeTaken sets leaveTakenThisYear to the sum of approved leaves starting in year.
// The row is written only when the value differs, so repeated calls are no-ops.
func (s *Service) RecomputeTaken(ctx context.Context, employeeID string, year int) (*Balance, error) {
	b, err := s.GetOrCreate(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}

	from, to := YearBounds(year)
	taken, err := s.counter.SumApprovedDays(ctx, employeeID, from, to)
	if err != nil {
		s.logger.Error("failed to sum approved leave days", "employee_id", employeeID, "year", year, "error", err)
		return nil, internal.NewStorageError(err)
	}

	if taken == b.LeaveTakenThisYear {
		return b, nil
	}

	previous := b.LeaveTakenThisYear
	b.LeaveTakenThisYear = taken
	b.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, ToDataModel(b)); err != nil {
		s.logger.Error("failed to save recomputed balance", "employee_id", employeeID, "year", year, "error", err)
		return nil, internal.NewStorageError(err)
	}

	s.logger.Info("leave taken recomputed",
		"employee_id", employeeID,
		"year", year,
		"previous", previous,
		"taken", taken)
	return b, nil
}

// Current returns the caller's balance for the current year, recomputed first.
func (s *Service) Current(ctx context.Context, employeeID string) (*Balance, error) {
	return s.RecomputeTaken(ctx, employeeID, s.CurrentYear())
}

// Update applies an administrative correction to a balance.
func (s *Service) Update(ctx context.Context, actor internal.Identity, dto UpdateBalanceDTO) (*Balance, error) {
	if !actor.HasRole(internal.RoleAdmin, internal.RoleHRDirector) {
		s.logger.Warn("balance update denied", "actor_id", actor.ID, "role", actor.Role)
		return nil, internal.ErrForbiddenRole
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	employeeID := dto.EmployeeID
	if employeeID == "" {
		employeeID = actor.ID
	}
	year := dto.Year
	if year == 0 {
		year = s.CurrentYear()
	}

	b, err := s.GetOrCreate(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}

	if dto.LeaveBalanceBF != nil {
		b.LeaveBalanceBF = *dto.LeaveBalanceBF
	}
	if dto.CurrentYearLeave != nil {
		b.CurrentYearLeave = *dto.CurrentYearLeave
	}
	if dto.LeaveTakenThisYear != nil {
		b.LeaveTakenThisYear = *dto.LeaveTakenThisYear
	}
	b.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, ToDataModel(b)); err != nil {
		s.logger.Error("failed to update leave balance", "employee_id", employeeID, "year", year, "error", err)
		return nil, internal.NewStorageError(err)
	}

	s.logger.Info("leave balance updated",
		"employee_id", employeeID,
		"year", year,
		"actor_id", actor.ID)
	return b, nil
}

// Reset runs AnnualReset on behalf of actor.
func (s *Service) Reset(ctx context.Context, actor internal.Identity, newYear int) (*ResetSummary, error) {
	if !actor.HasRole(internal.RoleAdmin, internal.RoleHRDirector) {
		s.logger.Warn("annual reset denied", "actor_id", actor.ID, "role", actor.Role)
		return nil, internal.ErrForbiddenRole
	}
	if newYear == 0 {
		newYear = s.CurrentYear()
	}
	return s.AnnualReset(ctx, newYear)
}

// AnnualReset carries every balance of newYear-1 into the matching newYear
// balance, creating it when missing. Prior-year rows are left untouched. A
// failure is recorded without stopping the sweep.
func (s *Service) AnnualReset(ctx context.Context, newYear int) (*ResetSummary, error) {
	rows, err := s.repo.ListByYear(ctx, newYear-1)
	if err != nil {
		s.logger.Error("failed to list balances for reset", "year", newYear-1, "error", err)
		return nil, internal.NewStorageError(err)
	}

	summary := &ResetSummary{Year: newYear}
	fail := func(employeeID, message string, err error) {
		summary.Failed++
		summary.Failures = append(summary.Failures, ResetFailure{
			EmployeeID: employeeID,
			Error:      fmt.Sprintf("%s: %v", message, err),
		})
		s.logger.Error("annual reset failed for balance", "employee_id", employeeID, "error", err)
	}

	for _, row := range rows {
		prior := FromDataModel(row)
		carried := prior.CarryForward(s.policy.MaxCarryForward)

		next, err := s.GetOrCreate(ctx, prior.EmployeeID, newYear)
		if err != nil {
			fail(prior.EmployeeID, "load failed", err)
			continue
		}
		next.OpenYear(carried, s.policy, s.now())

		if err := s.repo.Save(ctx, ToDataModel(next)); err != nil {
			fail(prior.EmployeeID, "save failed", err)
			continue
		}
		summary.Processed++
	}

	s.logger.Info("annual leave reset finished",
		"year", newYear,
		"processed", summary.Processed,
		"failed", summary.Failed)
	return summary, nil
}
