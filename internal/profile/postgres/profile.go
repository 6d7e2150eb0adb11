package postgres

import (
	"context"
	"errors"

	profileDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/profile"
	"github.com/frahmantamala/leave-management/internal/profile"
	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) profile.RepositoryAPI {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*profileDatamodel.Profile, error) {
	var p profileDatamodel.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// Upsert inserts the profile or overwrites the row already owned by the same user.
func (r *ProfileRepository) Upsert(ctx context.Context, p *profileDatamodel.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing profileDatamodel.Profile
		err := tx.Where("user_id = ?", p.UserID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(p).Error
		}
		if err != nil {
			return err
		}
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		return tx.Model(&profileDatamodel.Profile{}).
			Where("id = ?", existing.ID).
			Select("*").
			Omit("id", "user_id", "created_at").
			Updates(p).Error
	})
}
