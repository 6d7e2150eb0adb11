package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/user"
	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const selectUser = `SELECT id, email, name, password_hash, role, COALESCE(department, '') AS department,
	is_active, created_at, updated_at FROM users`

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	var u user.User
	if err := r.db.GetContext(ctx, &u, selectUser+" WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &u, nil
}

// ListByRole returns active users holding role, ordered by name.
func (r *UserRepository) ListByRole(ctx context.Context, role internal.Role) ([]*user.User, error) {
	var out []*user.User
	if err := r.db.SelectContext(ctx, &out, selectUser+" WHERE role = $1 AND is_active = true ORDER BY name", string(role)); err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return out, nil
}
