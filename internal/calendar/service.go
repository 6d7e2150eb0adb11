package calendar

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/common/validation"
)

var viewerRoles = []internal.Role{
	internal.RoleSectionalHead,
	internal.RoleDepartmentalHead,
	internal.RoleHRDirector,
	internal.RoleAdmin,
}

type Repository interface {
	ListApproved(ctx context.Context, w Window) ([]Entry, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Events returns approved leaves of both types overlapping the window.
func (s *Service) Events(ctx context.Context, actor internal.Identity, from, to string) ([]Event, error) {
	if actor.IsZero() {
		return nil, internal.ErrMissingIdentity
	}
	if !actor.HasRole(viewerRoles...) {
		return nil, internal.ErrForbiddenRole
	}

	w, appErr := parseWindow(from, to)
	if appErr != nil {
		return nil, appErr
	}

	entries, err := s.repo.ListApproved(ctx, w)
	if err != nil {
		s.logger.Error("failed to load calendar", "error", err)
		return nil, internal.NewStorageError(err)
	}

	out := make([]Event, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Event())
	}
	return out, nil
}

func parseWindow(from, to string) (Window, *internal.AppError) {
	var w Window
	v := validation.NewValidator()
	if from != "" {
		t, err := time.Parse(dateLayout, from)
		if err != nil {
			return w, internal.NewValidationFieldError("from", "from must be a YYYY-MM-DD date", internal.ErrCodeInvalidDate)
		}
		w.From = t
	}
	if to != "" {
		t, err := time.Parse(dateLayout, to)
		if err != nil {
			return w, internal.NewValidationFieldError("to", "to must be a YYYY-MM-DD date", internal.ErrCodeInvalidDate)
		}
		// inclusive end date
		w.To = t.AddDate(0, 0, 1)
	}
	if !w.To.IsZero() {
		v.Field("to", w.To.AddDate(0, 0, -1)).NotBefore(w.From, "from")
	}
	return w, v.Validate()
}
