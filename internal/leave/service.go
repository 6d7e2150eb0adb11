package leave

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/balance"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/profile"
)

// RepositoryAPI stores both leave kinds behind one interface. GetByID tries
// short leaves first, then annual leaves.
type RepositoryAPI interface {
	Create(ctx context.Context, record *Record) error
	GetByID(ctx context.Context, id string) (*Record, error)
	// Update persists record when its version still matches storage and
	// increments record.Version. A stale version yields ErrVersionConflict.
	Update(ctx context.Context, record *Record) error
	// An empty kind selects both kinds. Results are newest first.
	ListByEmployee(ctx context.Context, employeeID string, kind Kind) ([]*Record, error)
	ListByStatus(ctx context.Context, kind Kind, status Status) ([]*Record, error)
	ListAll(ctx context.Context, kind Kind) ([]*Record, error)
	SumApprovedDays(ctx context.Context, employeeID string, from, to time.Time) (int, error)
}

type Ledger interface {
	GetOrCreate(ctx context.Context, employeeID string, year int) (*balance.Balance, error)
	RecomputeTaken(ctx context.Context, employeeID string, year int) (*balance.Balance, error)
}

type ProfileSource interface {
	Get(ctx context.Context, userID string) (*profile.Profile, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Policy is the submission rule set.
type Policy struct {
	Holidays      HolidaySet
	NoticeDays    int
	ShortMaxDays  int
	AnnualMaxDays int
}

func DefaultPolicy() Policy {
	p, _ := PolicyFromConfig(internal.DefaultLeaveConfig())
	return p
}

func PolicyFromConfig(cfg internal.LeaveConfig) (Policy, error) {
	dates, err := cfg.HolidayDates()
	if err != nil {
		return Policy{}, err
	}
	return Policy{
		Holidays:      NewHolidaySet(dates...),
		NoticeDays:    cfg.AnnualNoticeDays,
		ShortMaxDays:  cfg.ShortLeaveMaxDays,
		AnnualMaxDays: cfg.AnnualLeaveMaxDays,
	}, nil
}

type Service struct {
	repo      RepositoryAPI
	ledger    Ledger
	profiles  ProfileSource
	publisher Publisher
	policy    Policy
	logger    *slog.Logger
	now       func() time.Time
}

// NewService wires the workflow. profiles and publisher are optional.
func NewService(repo RepositoryAPI, ledger Ledger, profiles ProfileSource, publisher Publisher, policy Policy, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		ledger:    ledger,
		profiles:  profiles,
		publisher: publisher,
		policy:    policy,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) load(ctx context.Context, id string) (*Record, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storageErr("load leave", err, "leave_id", id)
	}
	return rec, nil
}

// storageErr passes AppErrors through and wraps everything else.
func (s *Service) storageErr(op string, err error, kv ...any) error {
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}
	s.logger.Error("failed to "+op, append(kv, "error", err)...)
	return internal.NewStorageError(err)
}

// publish never fails the caller.
func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish leave event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"error", err)
	}
}

func (s *Service) publishStatusChanged(ctx context.Context, actor internal.Identity, rec *Record, previous Status) {
	s.publish(ctx, events.NewLeaveStatusChangedEvent(
		rec.ID,
		rec.EmployeeID,
		string(rec.LeaveType),
		string(previous),
		string(rec.Status),
		string(rec.Stage()),
		actor.ID,
		string(actor.Role),
	))
}
