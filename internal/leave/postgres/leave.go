package postgres

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	"github.com/frahmantamala/leave-management/internal/leave"
	"gorm.io/gorm"
)

// LeaveRepository keeps short and annual leaves in their own tables and the
// approval trail of both in leave_approvals.
type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) leave.RepositoryAPI {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(ctx context.Context, rec *leave.Record) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if rec.IsShort() {
			err = tx.Create(leave.ToShortModel(rec)).Error
		} else {
			err = tx.Create(leave.ToAnnualModel(rec)).Error
		}
		if err != nil {
			return err
		}
		return createApprovals(tx, rec)
	})
}

func createApprovals(tx *gorm.DB, rec *leave.Record) error {
	approvals := leave.ToApprovalModels(rec)
	if len(approvals) == 0 {
		return nil
	}
	return tx.Create(&approvals).Error
}

func (r *LeaveRepository) GetByID(ctx context.Context, id string) (*leave.Record, error) {
	db := r.db.WithContext(ctx)

	var short leaveDatamodel.ShortLeave
	err := db.Where("id = ?", id).First(&short).Error
	if err == nil {
		approvals, err := r.approvalsFor(db, []string{id})
		if err != nil {
			return nil, err
		}
		return leave.FromShortModel(&short, approvals[id]), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var annual leaveDatamodel.AnnualLeave
	err = db.Where("id = ?", id).First(&annual).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrLeaveNotFound
		}
		return nil, err
	}
	approvals, err := r.approvalsFor(db, []string{id})
	if err != nil {
		return nil, err
	}
	return leave.FromAnnualModel(&annual, approvals[id]), nil
}

// Update writes rec only if the stored version equals rec.Version, then
// replaces its approval trail.
func (r *LeaveRepository) Update(ctx context.Context, rec *leave.Record) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res *gorm.DB
		if rec.IsShort() {
			row := leave.ToShortModel(rec)
			row.Version = rec.Version + 1
			res = tx.Model(&leaveDatamodel.ShortLeave{}).
				Where("id = ? AND version = ?", rec.ID, rec.Version).
				Select("*").
				Omit("id", "employee_id", "created_at").
				Updates(row)
		} else {
			row := leave.ToAnnualModel(rec)
			row.Version = rec.Version + 1
			res = tx.Model(&leaveDatamodel.AnnualLeave{}).
				Where("id = ? AND version = ?", rec.ID, rec.Version).
				Select("*").
				Omit("id", "employee_id", "created_at").
				Updates(row)
		}
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrVersionConflict
		}

		if err := tx.Where("leave_id = ?", rec.ID).Delete(&leaveDatamodel.Approval{}).Error; err != nil {
			return err
		}
		return createApprovals(tx, rec)
	})
	if err != nil {
		return err
	}
	rec.Version++
	return nil
}

func (r *LeaveRepository) ListByEmployee(ctx context.Context, employeeID string, kind leave.Kind) ([]*leave.Record, error) {
	return r.find(ctx, kind, func(q *gorm.DB) *gorm.DB {
		return q.Where("employee_id = ?", employeeID)
	})
}

func (r *LeaveRepository) ListByStatus(ctx context.Context, kind leave.Kind, status leave.Status) ([]*leave.Record, error) {
	return r.find(ctx, kind, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ?", string(status))
	})
}

func (r *LeaveRepository) ListAll(ctx context.Context, kind leave.Kind) ([]*leave.Record, error) {
	return r.find(ctx, kind, func(q *gorm.DB) *gorm.DB { return q })
}

// find runs scope against the tables selected by kind and merges the results
// newest first.
func (r *LeaveRepository) find(ctx context.Context, kind leave.Kind, scope func(*gorm.DB) *gorm.DB) ([]*leave.Record, error) {
	db := r.db.WithContext(ctx)

	var shorts []*leaveDatamodel.ShortLeave
	if kind == "" || kind == leave.KindShort {
		if err := scope(db.Model(&leaveDatamodel.ShortLeave{})).Find(&shorts).Error; err != nil {
			return nil, err
		}
	}
	var annuals []*leaveDatamodel.AnnualLeave
	if kind == "" || kind == leave.KindAnnual {
		if err := scope(db.Model(&leaveDatamodel.AnnualLeave{})).Find(&annuals).Error; err != nil {
			return nil, err
		}
	}

	ids := make([]string, 0, len(shorts)+len(annuals))
	for _, s := range shorts {
		ids = append(ids, s.ID)
	}
	for _, a := range annuals {
		ids = append(ids, a.ID)
	}
	approvals, err := r.approvalsFor(db, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*leave.Record, 0, len(ids))
	for _, s := range shorts {
		out = append(out, leave.FromShortModel(s, approvals[s.ID]))
	}
	for _, a := range annuals {
		out = append(out, leave.FromAnnualModel(a, approvals[a.ID]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmissionDate.After(out[j].SubmissionDate)
	})
	return out, nil
}

func (r *LeaveRepository) approvalsFor(db *gorm.DB, ids []string) (map[string][]*leaveDatamodel.Approval, error) {
	out := make(map[string][]*leaveDatamodel.Approval, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []*leaveDatamodel.Approval
	err := db.Where("leave_id IN ?", ids).
		Order("leave_id ASC").
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.LeaveID] = append(out[row.LeaveID], row)
	}
	return out, nil
}

// SumApprovedDays adds daysApplied over approved leaves of both kinds starting in [from, to).
func (r *LeaveRepository) SumApprovedDays(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	db := r.db.WithContext(ctx)
	total := 0
	for _, model := range []interface{}{&leaveDatamodel.ShortLeave{}, &leaveDatamodel.AnnualLeave{}} {
		var sum int
		err := db.Model(model).
			Select("COALESCE(SUM(days_applied), 0)").
			Where("employee_id = ? AND status = ? AND start_date >= ? AND start_date < ?",
				employeeID, string(leave.StatusApproved), from, to).
			Scan(&sum).Error
		if err != nil {
			return 0, err
		}
		total += sum
	}
	return total, nil
}
