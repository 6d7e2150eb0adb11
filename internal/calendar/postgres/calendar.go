package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/frahmantamala/leave-management/internal/calendar"
	"github.com/jmoiron/sqlx"
)

type CalendarRepository struct {
	db *sqlx.DB
}

func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

const approvedColumns = `id, employee_id, employee_name, COALESCE(department, '') AS department,
	start_date, end_date, days_applied`

// ListApproved reads approved leaves from both tables. A leave is included
// when it overlaps [From, To).
func (r *CalendarRepository) ListApproved(ctx context.Context, w calendar.Window) ([]calendar.Entry, error) {
	var (
		conds = []string{"status = 'Approved'"}
		args  []interface{}
	)
	if !w.From.IsZero() {
		args = append(args, w.From)
		conds = append(conds, fmt.Sprintf("end_date >= $%d", len(args)))
	}
	if !w.To.IsZero() {
		args = append(args, w.To)
		conds = append(conds, fmt.Sprintf("start_date < $%d", len(args)))
	}
	where := strings.Join(conds, " AND ")

	query := fmt.Sprintf(`SELECT %[1]s, 'Short Leave' AS leave_type FROM short_leaves WHERE %[2]s
UNION ALL
SELECT %[1]s, 'Annual Leave' AS leave_type FROM annual_leaves WHERE %[2]s
ORDER BY start_date, employee_name`, approvedColumns, where)

	var out []calendar.Entry
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list approved leaves: %w", err)
	}
	return out, nil
}
