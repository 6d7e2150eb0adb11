package profile

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/common/validation"
	profileDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/profile"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	// GetByUserID returns nil, nil when the user has no profile yet.
	GetByUserID(ctx context.Context, userID string) (*profileDatamodel.Profile, error)
	Upsert(ctx context.Context, profile *profileDatamodel.Profile) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Get returns the user's profile, or an empty template when none is stored.
func (s *Service) Get(ctx context.Context, userID string) (*Profile, error) {
	row, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load profile", "user_id", userID, "error", err)
		return nil, internal.NewStorageError(err)
	}
	if row == nil {
		return Empty(userID), nil
	}
	return FromDataModel(row), nil
}

// Update stores the non-empty fields of dto, creating the profile on first save.
func (s *Service) Update(ctx context.Context, userID string, dto UpdateProfileDTO) (*Profile, error) {
	if appErr := validation.Struct(dto); appErr != nil {
		return nil, appErr
	}

	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !p.Merge(dto) && p.ID != "" {
		return p, nil
	}

	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.New().String()
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if err := s.repo.Upsert(ctx, ToDataModel(p)); err != nil {
		s.logger.Error("failed to save profile", "user_id", userID, "error", err)
		return nil, internal.NewStorageError(err)
	}

	s.logger.Info("profile saved", "user_id", userID)
	return p, nil
}
