package profile

import "time"

type Profile struct {
	ID                   string    `gorm:"primaryKey;column:id"`
	UserID               string    `gorm:"column:user_id;uniqueIndex;not null"`
	Name                 string    `gorm:"column:name"`
	Department           string    `gorm:"column:department"`
	PhoneNumber          string    `gorm:"column:phone_number"`
	ProfilePicture       string    `gorm:"column:profile_picture"`
	ChiefOfficerName     string    `gorm:"column:chief_officer_name"`
	SupervisorName       string    `gorm:"column:supervisor_name"`
	PersonNumber         string    `gorm:"column:person_number"`
	Email                string    `gorm:"column:email"`
	Sector               string    `gorm:"column:sector"`
	SectionalHeadName    string    `gorm:"column:sectional_head_name"`
	DepartmentalHeadName string    `gorm:"column:departmental_head_name"`
	HRDirectorName       string    `gorm:"column:hr_director_name"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Profile) TableName() string { return "profiles" }
