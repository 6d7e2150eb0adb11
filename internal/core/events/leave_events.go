package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLeaveSubmitted     = "leave.submitted"
	EventTypeLeaveStatusChanged = "leave.status_changed"
)

type LeaveSubmittedEvent struct {
	BaseEvent
	LeaveID      string    `json:"leave_id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	LeaveType    string    `json:"leave_type"`
	DaysApplied  int       `json:"days_applied"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

func NewLeaveSubmittedEvent(leaveID, employeeID, employeeName, leaveType string, daysApplied int, start, end time.Time) *LeaveSubmittedEvent {
	return &LeaveSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveSubmitted,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"leave_id":      leaveID,
				"employee_id":   employeeID,
				"employee_name": employeeName,
				"leave_type":    leaveType,
				"days_applied":  daysApplied,
				"start_date":    start.Format("2006-01-02"),
				"end_date":      end.Format("2006-01-02"),
			},
		},
		LeaveID:      leaveID,
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		LeaveType:    leaveType,
		DaysApplied:  daysApplied,
		StartDate:    start,
		EndDate:      end,
	}
}

type LeaveStatusChangedEvent struct {
	BaseEvent
	LeaveID        string `json:"leave_id"`
	EmployeeID     string `json:"employee_id"`
	LeaveType      string `json:"leave_type"`
	PreviousStatus string `json:"previous_status"`
	Status         string `json:"status"`
	Stage          string `json:"stage"`
	ActorID        string `json:"actor_id"`
	ActorRole      string `json:"actor_role"`
}

func NewLeaveStatusChangedEvent(leaveID, employeeID, leaveType, previousStatus, status, stage, actorID, actorRole string) *LeaveStatusChangedEvent {
	return &LeaveStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveStatusChanged,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"leave_id":        leaveID,
				"employee_id":     employeeID,
				"leave_type":      leaveType,
				"previous_status": previousStatus,
				"status":          status,
				"stage":           stage,
				"actor_id":        actorID,
				"actor_role":      actorRole,
			},
		},
		LeaveID:        leaveID,
		EmployeeID:     employeeID,
		LeaveType:      leaveType,
		PreviousStatus: previousStatus,
		Status:         status,
		Stage:          stage,
		ActorID:        actorID,
		ActorRole:      actorRole,
	}
}
