package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/leave-management/internal/balance"
	balanceDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/balance"
	"gorm.io/gorm"
)

type BalanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) balance.RepositoryAPI {
	return &BalanceRepository{db: db}
}

func (r *BalanceRepository) GetByEmployeeYear(ctx context.Context, employeeID string, year int) (*balanceDatamodel.LeaveBalance, error) {
	var b balanceDatamodel.LeaveBalance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND year = ?", employeeID, year).
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BalanceRepository) Create(ctx context.Context, b *balanceDatamodel.LeaveBalance) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BalanceRepository) Save(ctx context.Context, b *balanceDatamodel.LeaveBalance) error {
	return r.db.WithContext(ctx).
		Model(&balanceDatamodel.LeaveBalance{}).
		Where("id = ?", b.ID).
		Updates(map[string]interface{}{
			"year":                  b.Year,
			"leave_balance_bf":      b.LeaveBalanceBF,
			"current_year_leave":    b.CurrentYearLeave,
			"leave_taken_this_year": b.LeaveTakenThisYear,
			"updated_at":            b.UpdatedAt,
		}).Error
}

func (r *BalanceRepository) ListByYear(ctx context.Context, year int) ([]*balanceDatamodel.LeaveBalance, error) {
	var rows []*balanceDatamodel.LeaveBalance
	err := r.db.WithContext(ctx).
		Where("year = ?", year).
		Order("employee_id ASC").
		Find(&rows).Error
	return rows, err
}
