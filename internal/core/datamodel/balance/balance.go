package balance

import "time"

type LeaveBalance struct {
	ID                 string    `gorm:"primaryKey;column:id"`
	EmployeeID         string    `gorm:"column:employee_id;not null;uniqueIndex:idx_leave_balances_employee_year"`
	Year               int       `gorm:"column:year;not null;uniqueIndex:idx_leave_balances_employee_year"`
	LeaveBalanceBF     int       `gorm:"column:leave_balance_bf;not null;default:0"`
	CurrentYearLeave   int       `gorm:"column:current_year_leave;not null;default:30"`
	LeaveTakenThisYear int       `gorm:"column:leave_taken_this_year;not null;default:0"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (LeaveBalance) TableName() string { return "leave_balances" }
