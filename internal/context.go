package internal

import (
	"context"
	"time"
)

type Role string

const (
	RoleEmployee         Role = "Employee"
	RoleSupervisor       Role = "Supervisor"
	RoleSectionalHead    Role = "SectionalHead"
	RoleDepartmentalHead Role = "DepartmentalHead"
	RoleHRDirector       Role = "HRDirector"
	RoleAdmin            Role = "Admin"
)

var allRoles = []Role{
	RoleEmployee,
	RoleSupervisor,
	RoleSectionalHead,
	RoleDepartmentalHead,
	RoleHRDirector,
	RoleAdmin,
}

func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRole accepts the canonical role names only.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

func AllRoles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// Identity is the authenticated caller. It is passed explicitly into every
// workflow call; the request context only carries it between middleware and handler.
type Identity struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

func (i Identity) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

func (i Identity) IsZero() bool {
	return i.ID == ""
}

type ctxKey string

const ContextIdentityKey ctxKey = "identity"

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(ContextIdentityKey).(Identity)
	if !ok || id.IsZero() {
		return Identity{}, false
	}
	return id, true
}

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, id)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
