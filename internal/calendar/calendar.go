package calendar

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Entry is one approved leave as stored in either leave table.
type Entry struct {
	ID           string    `db:"id"`
	EmployeeID   string    `db:"employee_id"`
	EmployeeName string    `db:"employee_name"`
	Department   string    `db:"department"`
	LeaveType    string    `db:"leave_type"`
	StartDate    time.Time `db:"start_date"`
	EndDate      time.Time `db:"end_date"`
	DaysApplied  int       `db:"days_applied"`
}

// Event is the calendar view of an approved leave. End is inclusive.
type Event struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Start      string `json:"start"`
	End        string `json:"end"`
	LeaveType  string `json:"leaveType"`
	EmployeeID string `json:"employeeId"`
	Department string `json:"department,omitempty"`
}

func (e Entry) Event() Event {
	return Event{
		ID:         e.ID,
		Title:      fmt.Sprintf("%s - %s", e.EmployeeName, e.LeaveType),
		Start:      e.StartDate.Format(dateLayout),
		End:        e.EndDate.Format(dateLayout),
		LeaveType:  e.LeaveType,
		EmployeeID: e.EmployeeID,
		Department: e.Department,
	}
}

// Window bounds the calendar query. A zero bound is open.
type Window struct {
	From time.Time
	To   time.Time
}
