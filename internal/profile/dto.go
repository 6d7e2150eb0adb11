package profile

type UpdateProfileDTO struct {
	Name                 string `json:"name" validate:"omitempty,max=120"`
	Department           string `json:"department" validate:"omitempty,max=120"`
	PhoneNumber          string `json:"phoneNumber" validate:"omitempty,max=32"`
	ProfilePicture       string `json:"profilePicture" validate:"omitempty,url"`
	ChiefOfficerName     string `json:"chiefOfficerName" validate:"omitempty,max=120"`
	SupervisorName       string `json:"supervisorName" validate:"omitempty,max=120"`
	PersonNumber         string `json:"personNumber" validate:"omitempty,max=64"`
	Email                string `json:"email" validate:"omitempty,email"`
	Sector               string `json:"sector" validate:"omitempty,max=120"`
	SectionalHeadName    string `json:"sectionalHeadName" validate:"omitempty,max=120"`
	DepartmentalHeadName string `json:"departmentalHeadName" validate:"omitempty,max=120"`
	HRDirectorName       string `json:"HRDirectorName" validate:"omitempty,max=120"`
}
