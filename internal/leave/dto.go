package leave

// ApplyLeaveDTO is the submission body for both kinds; fields that do not belong
// to the chosen leaveType are ignored.
type ApplyLeaveDTO struct {
	LeaveType    string `json:"leaveType"`
	EmployeeName string `json:"employeeName"`
	PersonNumber string `json:"personNumber"`
	Department   string `json:"department"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	DaysApplied  int    `json:"daysApplied"`
	Reason       string `json:"reason"`

	ChiefOfficerName      string `json:"chiefOfficerName,omitempty"`
	SupervisorName        string `json:"supervisorName,omitempty"`
	AssignedToName        string `json:"assignedToName,omitempty"`
	AssignedToDesignation string `json:"assignedToDesignation,omitempty"`

	Sector               string `json:"sector,omitempty"`
	AddressWhileAway     string `json:"addressWhileAway,omitempty"`
	EmailAddress         string `json:"emailAddress,omitempty" validate:"omitempty,email"`
	PhoneNumber          string `json:"phoneNumber,omitempty"`
	SectionalHeadName    string `json:"sectionalHeadName,omitempty"`
	DepartmentalHeadName string `json:"departmentalHeadName,omitempty"`
	HRDirectorName       string `json:"HRDirectorName,omitempty"`
}

// ApproveDTO is the body of a simple approval action. ActingAs lets an Admin
// pick which annual-leave step to decide.
type ApproveDTO struct {
	Status   string `json:"status"`
	Comment  string `json:"comment"`
	ActingAs string `json:"actingAs,omitempty"`
}

type ListResponse struct {
	Leaves []*Record `json:"leaves"`
	Count  int       `json:"count"`
}

func NewListResponse(records []*Record) ListResponse {
	if records == nil {
		records = []*Record{}
	}
	return ListResponse{Leaves: records, Count: len(records)}
}
