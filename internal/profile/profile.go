package profile

import (
	"time"

	profileDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/profile"
)

// Profile is contact and org metadata used to pre-fill leave forms.
type Profile struct {
	ID                   string    `json:"id,omitempty"`
	UserID               string    `json:"userId"`
	Name                 string    `json:"name"`
	Department           string    `json:"department"`
	PhoneNumber          string    `json:"phoneNumber"`
	ProfilePicture       string    `json:"profilePicture"`
	ChiefOfficerName     string    `json:"chiefOfficerName"`
	SupervisorName       string    `json:"supervisorName"`
	PersonNumber         string    `json:"personNumber"`
	Email                string    `json:"email"`
	Sector               string    `json:"sector"`
	SectionalHeadName    string    `json:"sectionalHeadName"`
	DepartmentalHeadName string    `json:"departmentalHeadName"`
	HRDirectorName       string    `json:"HRDirectorName"`
	CreatedAt            time.Time `json:"createdAt,omitempty"`
	UpdatedAt            time.Time `json:"updatedAt,omitempty"`
}

// Empty is the template returned before a user saves a profile.
func Empty(userID string) *Profile {
	return &Profile{UserID: userID}
}

// Merge copies the non-empty fields of dto onto p and reports whether anything changed.
func (p *Profile) Merge(dto UpdateProfileDTO) bool {
	changed := false
	set := func(dst *string, v string) {
		if v != "" && *dst != v {
			*dst = v
			changed = true
		}
	}
	set(&p.Name, dto.Name)
	set(&p.Department, dto.Department)
	set(&p.PhoneNumber, dto.PhoneNumber)
	set(&p.ProfilePicture, dto.ProfilePicture)
	set(&p.ChiefOfficerName, dto.ChiefOfficerName)
	set(&p.SupervisorName, dto.SupervisorName)
	set(&p.PersonNumber, dto.PersonNumber)
	set(&p.Email, dto.Email)
	set(&p.Sector, dto.Sector)
	set(&p.SectionalHeadName, dto.SectionalHeadName)
	set(&p.DepartmentalHeadName, dto.DepartmentalHeadName)
	set(&p.HRDirectorName, dto.HRDirectorName)
	return changed
}

func ToDataModel(p *Profile) *profileDatamodel.Profile {
	return &profileDatamodel.Profile{
		ID:                   p.ID,
		UserID:               p.UserID,
		Name:                 p.Name,
		Department:           p.Department,
		PhoneNumber:          p.PhoneNumber,
		ProfilePicture:       p.ProfilePicture,
		ChiefOfficerName:     p.ChiefOfficerName,
		SupervisorName:       p.SupervisorName,
		PersonNumber:         p.PersonNumber,
		Email:                p.Email,
		Sector:               p.Sector,
		SectionalHeadName:    p.SectionalHeadName,
		DepartmentalHeadName: p.DepartmentalHeadName,
		HRDirectorName:       p.HRDirectorName,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func FromDataModel(p *profileDatamodel.Profile) *Profile {
	return &Profile{
		ID:                   p.ID,
		UserID:               p.UserID,
		Name:                 p.Name,
		Department:           p.Department,
		PhoneNumber:          p.PhoneNumber,
		ProfilePicture:       p.ProfilePicture,
		ChiefOfficerName:     p.ChiefOfficerName,
		SupervisorName:       p.SupervisorName,
		PersonNumber:         p.PersonNumber,
		Email:                p.Email,
		Sector:               p.Sector,
		SectionalHeadName:    p.SectionalHeadName,
		DepartmentalHeadName: p.DepartmentalHeadName,
		HRDirectorName:       p.HRDirectorName,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
