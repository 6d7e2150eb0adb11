package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/profile"
)

type Repository interface {
	// GetByID returns internal.ErrUserNotFound when no row matches.
	GetByID(ctx context.Context, id string) (*User, error)
}

type ProfileSource interface {
	Get(ctx context.Context, userID string) (*profile.Profile, error)
}

type Service struct {
	repo     Repository
	profiles ProfileSource
	logger   *slog.Logger
}

func NewService(repo Repository, profiles ProfileSource, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		profiles: profiles,
		logger:   logger,
	}
}

func (s *Service) GetByID(ctx context.Context, userID string) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("failed to get user by id", "user_id", userID, "error", err)
		return nil, internal.NewStorageError(err)
	}
	return u, nil
}

// Me returns the caller with their profile attached. A missing profile is not an error.
func (s *Service) Me(ctx context.Context, actor internal.Identity) (*MeResponse, error) {
	u, err := s.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	var p *profile.Profile
	if s.profiles != nil {
		p, err = s.profiles.Get(ctx, actor.ID)
		if err != nil {
			s.logger.Warn("profile unavailable for current user", "user_id", actor.ID, "error", err)
			p = nil
		}
	}

	resp := NewMeResponse(u, p)
	return &resp, nil
}
