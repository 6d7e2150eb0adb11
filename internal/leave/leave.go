package leave

import (
	"encoding/json"
	"time"

	"github.com/frahmantamala/leave-management/internal"
)

type Kind string

const (
	KindShort  Kind = "Short Leave"
	KindAnnual Kind = "Annual Leave"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindShort, KindAnnual:
		return Kind(s), true
	}
	return "", false
}

// Status is the persisted workflow state.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

func (s Status) IsFinal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Stage is a presentation label derived from the approval trail.
type Stage string

const (
	StagePending                   Stage = "Pending"
	StageRecommendedBySectional    Stage = "RecommendedBySectional"
	StageRecommendedByDepartmental Stage = "RecommendedByDepartmental"
	StageApproved                  Stage = "Approved"
	StageRejected                  Stage = "Rejected"
)

type ApprovalStep struct {
	ApproverRole internal.Role `json:"approverRole"`
	ApproverID   string        `json:"approverId,omitempty"`
	Status       Status        `json:"status"`
	Comment      string        `json:"comment,omitempty"`
	UpdatedAt    *time.Time    `json:"updatedAt,omitempty"`
}

func (s *ApprovalStep) mark(status Status, actorID, comment string, at time.Time) {
	s.Status = status
	s.ApproverID = actorID
	s.Comment = comment
	s.UpdatedAt = &at
}

// Base holds the fields every leave record carries.
type Base struct {
	ID                     string         `json:"id"`
	EmployeeID             string         `json:"employeeId"`
	LeaveType              Kind           `json:"leaveType"`
	EmployeeName           string         `json:"employeeName"`
	PersonNumber           string         `json:"personNumber"`
	Department             string         `json:"department"`
	StartDate              time.Time      `json:"startDate"`
	EndDate                time.Time      `json:"endDate"`
	DaysApplied            int            `json:"daysApplied"`
	Reason                 string         `json:"reason"`
	Status                 Status         `json:"status"`
	Approvals              []ApprovalStep `json:"approvals"`
	ApproverRecommendation string         `json:"approverRecommendation,omitempty"`
	ApproverDate           *time.Time     `json:"approverDate,omitempty"`
	SubmissionDate         time.Time      `json:"submissionDate"`
	CreatedAt              time.Time      `json:"createdAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`
	Version                int            `json:"version"`
}

type ShortDetails struct {
	ChiefOfficerName         string     `json:"chiefOfficerName,omitempty"`
	SupervisorName           string     `json:"supervisorName,omitempty"`
	AssignedToName           string     `json:"assignedToName,omitempty"`
	AssignedToDesignation    string     `json:"assignedToDesignation,omitempty"`
	Recommendation           string     `json:"recommendation,omitempty"`
	SupervisorRecommendation string     `json:"supervisorRecommendation,omitempty"`
	SupervisorDate           *time.Time `json:"supervisorDate,omitempty"`
}

// Snapshot is the balance arithmetic captured when an annual leave is submitted.
type Snapshot struct {
	LeaveBalanceBF     int `json:"leaveBalanceBF"`
	CurrentYearLeave   int `json:"currentYearLeave"`
	TotalLeaveDays     int `json:"totalLeaveDays"`
	LeaveTakenThisYear int `json:"leaveTakenThisYear"`
	LeaveBalanceDue    int `json:"leaveBalanceDue"`
	LeaveApplied       int `json:"leaveApplied"`
	LeaveBalanceCF     int `json:"leaveBalanceCF"`
}

type AnnualDetails struct {
	Sector                         string     `json:"sector,omitempty"`
	AddressWhileAway               string     `json:"addressWhileAway,omitempty"`
	EmailAddress                   string     `json:"emailAddress,omitempty"`
	PhoneNumber                    string     `json:"phoneNumber,omitempty"`
	SectionalHeadName              string     `json:"sectionalHeadName,omitempty"`
	DepartmentalHeadName           string     `json:"departmentalHeadName,omitempty"`
	HRDirectorName                 string     `json:"HRDirectorName,omitempty"`
	SectionalHeadRecommendation    string     `json:"sectionalHeadRecommendation,omitempty"`
	SectionalHeadDate              *time.Time `json:"sectionalHeadDate,omitempty"`
	DepartmentalHeadRecommendation string     `json:"departmentalHeadRecommendation,omitempty"`
	DepartmentalHeadDate           *time.Time `json:"departmentalHeadDate,omitempty"`
	DepartmentalHeadDaysGranted    *int       `json:"departmentalHeadDaysGranted,omitempty"`
	DepartmentalHeadStartDate      *time.Time `json:"departmentalHeadStartDate,omitempty"`
	DepartmentalHeadLastDate       *time.Time `json:"departmentalHeadLastDate,omitempty"`
	DepartmentalHeadResumeDate     *time.Time `json:"departmentalHeadResumeDate,omitempty"`
	Snapshot
}

// Record is a leave request of either kind. Exactly one of ShortDetails and
// AnnualDetails is set, matching LeaveType.
type Record struct {
	Base
	*ShortDetails
	*AnnualDetails
}

func (r *Record) Kind() Kind {
	return r.LeaveType
}

func (r *Record) IsShort() bool {
	return r.LeaveType == KindShort
}

func (r *Record) IsAnnual() bool {
	return r.LeaveType == KindAnnual
}

// NewShortTrail returns the supervisor step; the HR step is appended when HR acts.
func NewShortTrail() []ApprovalStep {
	return []ApprovalStep{
		{ApproverRole: internal.RoleSupervisor, Status: StatusPending},
	}
}

// NewAnnualTrail returns the three sequential steps in their fixed order.
func NewAnnualTrail() []ApprovalStep {
	return []ApprovalStep{
		{ApproverRole: internal.RoleSectionalHead, Status: StatusPending},
		{ApproverRole: internal.RoleDepartmentalHead, Status: StatusPending},
		{ApproverRole: internal.RoleHRDirector, Status: StatusPending},
	}
}

// StepIndex returns the position of role's step, or -1.
func (r *Record) StepIndex(role internal.Role) int {
	for i := range r.Approvals {
		if r.Approvals[i].ApproverRole == role {
			return i
		}
	}
	return -1
}

// StepStatus returns the status of role's step; a missing step reads as Pending.
func (r *Record) StepStatus(role internal.Role) Status {
	if i := r.StepIndex(role); i >= 0 {
		return r.Approvals[i].Status
	}
	return StatusPending
}

func (r *Record) step(role internal.Role) *ApprovalStep {
	if i := r.StepIndex(role); i >= 0 {
		return &r.Approvals[i]
	}
	r.Approvals = append(r.Approvals, ApprovalStep{ApproverRole: role, Status: StatusPending})
	return &r.Approvals[len(r.Approvals)-1]
}

// MarkStep records a decision on role's step, creating the step if needed.
func (r *Record) MarkStep(role internal.Role, status Status, actorID, comment string, at time.Time) {
	r.step(role).mark(status, actorID, comment, at)
}

// NoteStep records a comment on role's step and leaves its status as it was.
func (r *Record) NoteStep(role internal.Role, actorID, comment string, at time.Time) {
	s := r.step(role)
	s.mark(s.Status, actorID, comment, at)
}

// FirstPendingStep returns the role of the earliest pending step.
func (r *Record) FirstPendingStep() (internal.Role, bool) {
	for _, s := range r.Approvals {
		if s.Status == StatusPending {
			return s.ApproverRole, true
		}
	}
	return "", false
}

// RecomputeStatus derives the aggregate status from the trail. Annual leaves are
// Approved when every step is Approved and Rejected when any step is. Short leaves
// follow the HR step; the supervisor step is a recommendation only.
func (r *Record) RecomputeStatus() Status {
	switch r.LeaveType {
	case KindAnnual:
		allApproved := len(r.Approvals) > 0
		for _, s := range r.Approvals {
			if s.Status == StatusRejected {
				r.Status = StatusRejected
				return r.Status
			}
			if s.Status != StatusApproved {
				allApproved = false
			}
		}
		if allApproved {
			r.Status = StatusApproved
		} else {
			r.Status = StatusPending
		}
	default:
		r.Status = r.StepStatus(internal.RoleHRDirector)
	}
	return r.Status
}

func (r *Record) Stage() Stage {
	switch r.Status {
	case StatusApproved:
		return StageApproved
	case StatusRejected:
		return StageRejected
	}
	if r.IsAnnual() {
		if r.StepStatus(internal.RoleDepartmentalHead) == StatusApproved {
			return StageRecommendedByDepartmental
		}
		if r.StepStatus(internal.RoleSectionalHead) == StatusApproved {
			return StageRecommendedBySectional
		}
	}
	return StagePending
}

// Expire rejects a pending record whose start date has passed.
func (r *Record) Expire(at time.Time) bool {
	if r.Status != StatusPending || !r.StartDate.Before(NormalizeDate(at)) {
		return false
	}
	for i := range r.Approvals {
		if r.Approvals[i].Status == StatusPending {
			r.Approvals[i].mark(StatusRejected, "", "expired: start date passed before a decision", at)
		}
	}
	r.Status = StatusRejected
	r.UpdatedAt = at
	return true
}

func (r Record) MarshalJSON() ([]byte, error) {
	type alias Record
	a := alias(r)
	return json.Marshal(struct {
		*alias
		Stage Stage `json:"stage"`
	}{&a, r.Stage()})
}
