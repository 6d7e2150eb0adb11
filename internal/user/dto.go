package user

import "github.com/frahmantamala/leave-management/internal/profile"

// MeResponse is the body of GET /users/me.
type MeResponse struct {
	ID         string           `json:"id"`
	Email      string           `json:"email"`
	Name       string           `json:"name"`
	Role       string           `json:"role"`
	Department string           `json:"department"`
	IsActive   bool             `json:"isActive"`
	Profile    *profile.Profile `json:"profile,omitempty"`
}

func NewMeResponse(u *User, p *profile.Profile) MeResponse {
	return MeResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       string(u.Role),
		Department: u.Department,
		IsActive:   u.IsActive,
		Profile:    p,
	}
}
