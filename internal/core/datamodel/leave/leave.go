package leave

import "time"

// ShortLeave is a row of short_leaves.
type ShortLeave struct {
	ID                       string     `gorm:"primaryKey;column:id"`
	EmployeeID               string     `gorm:"column:employee_id;index;not null"`
	EmployeeName             string     `gorm:"column:employee_name;not null"`
	PersonNumber             string     `gorm:"column:person_number"`
	Department               string     `gorm:"column:department"`
	ChiefOfficerName         string     `gorm:"column:chief_officer_name"`
	SupervisorName           string     `gorm:"column:supervisor_name"`
	AssignedToName           string     `gorm:"column:assigned_to_name"`
	AssignedToDesignation    string     `gorm:"column:assigned_to_designation"`
	StartDate                time.Time  `gorm:"column:start_date;not null"`
	EndDate                  time.Time  `gorm:"column:end_date;not null"`
	DaysApplied              int        `gorm:"column:days_applied;not null"`
	Reason                   string     `gorm:"column:reason;not null"`
	Recommendation           string     `gorm:"column:recommendation"`
	SupervisorRecommendation string     `gorm:"column:supervisor_recommendation"`
	SupervisorDate           *time.Time `gorm:"column:supervisor_date"`
	ApproverRecommendation   string     `gorm:"column:approver_recommendation"`
	ApproverDate             *time.Time `gorm:"column:approver_date"`
	Status                   string     `gorm:"column:status;index;not null"`
	Version                  int        `gorm:"column:version;not null;default:1"`
	SubmissionDate           time.Time  `gorm:"column:submission_date"`
	CreatedAt                time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (ShortLeave) TableName() string { return "short_leaves" }

// AnnualLeave is a row of annual_leaves, including the balance snapshot captured at submission.
type AnnualLeave struct {
	ID                             string     `gorm:"primaryKey;column:id"`
	EmployeeID                     string     `gorm:"column:employee_id;index;not null"`
	EmployeeName                   string     `gorm:"column:employee_name;not null"`
	PersonNumber                   string     `gorm:"column:person_number"`
	Department                     string     `gorm:"column:department"`
	Sector                         string     `gorm:"column:sector"`
	AddressWhileAway               string     `gorm:"column:address_while_away"`
	EmailAddress                   string     `gorm:"column:email_address"`
	PhoneNumber                    string     `gorm:"column:phone_number"`
	SectionalHeadName              string     `gorm:"column:sectional_head_name"`
	DepartmentalHeadName           string     `gorm:"column:departmental_head_name"`
	HRDirectorName                 string     `gorm:"column:hr_director_name"`
	StartDate                      time.Time  `gorm:"column:start_date;not null"`
	EndDate                        time.Time  `gorm:"column:end_date;not null"`
	DaysApplied                    int        `gorm:"column:days_applied;not null"`
	Reason                         string     `gorm:"column:reason;not null"`
	LeaveBalanceBF                 int        `gorm:"column:leave_balance_bf"`
	CurrentYearLeave               int        `gorm:"column:current_year_leave"`
	TotalLeaveDays                 int        `gorm:"column:total_leave_days"`
	LeaveTakenThisYear             int        `gorm:"column:leave_taken_this_year"`
	LeaveBalanceDue                int        `gorm:"column:leave_balance_due"`
	LeaveApplied                   int        `gorm:"column:leave_applied"`
	LeaveBalanceCF                 int        `gorm:"column:leave_balance_cf"`
	SectionalHeadRecommendation    string     `gorm:"column:sectional_head_recommendation"`
	SectionalHeadDate              *time.Time `gorm:"column:sectional_head_date"`
	DepartmentalHeadRecommendation string     `gorm:"column:departmental_head_recommendation"`
	DepartmentalHeadDate           *time.Time `gorm:"column:departmental_head_date"`
	DepartmentalHeadDaysGranted    *int       `gorm:"column:departmental_head_days_granted"`
	DepartmentalHeadStartDate      *time.Time `gorm:"column:departmental_head_start_date"`
	DepartmentalHeadLastDate       *time.Time `gorm:"column:departmental_head_last_date"`
	DepartmentalHeadResumeDate     *time.Time `gorm:"column:departmental_head_resume_date"`
	ApproverRecommendation         string     `gorm:"column:approver_recommendation"`
	ApproverDate                   *time.Time `gorm:"column:approver_date"`
	Status                         string     `gorm:"column:status;index;not null"`
	Version                        int        `gorm:"column:version;not null;default:1"`
	SubmissionDate                 time.Time  `gorm:"column:submission_date"`
	CreatedAt                      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (AnnualLeave) TableName() string { return "annual_leaves" }

// Approval is one step of a leave's approval trail. LeaveKind names the owning table.
type Approval struct {
	ID         string     `gorm:"primaryKey;column:id"`
	LeaveID    string     `gorm:"column:leave_id;index;not null"`
	LeaveKind  string     `gorm:"column:leave_kind;not null"`
	Position   int        `gorm:"column:position;not null"`
	Role       string     `gorm:"column:approver_role;not null"`
	ApproverID string     `gorm:"column:approver_id"`
	Status     string     `gorm:"column:status;not null"`
	Comment    string     `gorm:"column:comment"`
	UpdatedAt  *time.Time `gorm:"column:updated_at"`
}

func (Approval) TableName() string { return "leave_approvals" }
