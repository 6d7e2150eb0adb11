package balance_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/balance"
	balanceDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/balance"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockBalanceRepository struct {
	rows      map[string]*balanceDatamodel.LeaveBalance
	saves     int
	getError  error
	saveError map[string]error
}

func newMockBalanceRepository() *mockBalanceRepository {
	return &mockBalanceRepository{
		rows:      make(map[string]*balanceDatamodel.LeaveBalance),
		saveError: make(map[string]error),
	}
}

func key(employeeID string, year int) string {
	return fmt.Sprintf("%s/%d", employeeID, year)
}

func (m *mockBalanceRepository) GetByEmployeeYear(ctx context.Context, employeeID string, year int) (*balanceDatamodel.LeaveBalance, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	row, ok := m.rows[key(employeeID, year)]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (m *mockBalanceRepository) Create(ctx context.Context, b *balanceDatamodel.LeaveBalance) error {
	cp := *b
	m.rows[key(b.EmployeeID, b.Year)] = &cp
	return nil
}

func (m *mockBalanceRepository) Save(ctx context.Context, b *balanceDatamodel.LeaveBalance) error {
	if err := m.saveError[b.EmployeeID]; err != nil {
		return err
	}
	m.saves++
	for k, row := range m.rows {
		if row.ID == b.ID {
			delete(m.rows, k)
		}
	}
	cp := *b
	m.rows[key(b.EmployeeID, b.Year)] = &cp
	return nil
}

func (m *mockBalanceRepository) ListByYear(ctx context.Context, year int) ([]*balanceDatamodel.LeaveBalance, error) {
	var out []*balanceDatamodel.LeaveBalance
	for _, row := range m.rows {
		if row.Year == year {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

type stubCounter struct {
	days  map[string]int
	err   error
	calls int
}

func (c *stubCounter) SumApprovedDays(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	c.calls++
	if c.err != nil {
		return 0, c.err
	}
	return c.days[key(employeeID, from.Year())], nil
}

func seed(repo *mockBalanceRepository, id, employeeID string, year, bf, current, taken int) {
	repo.rows[key(employeeID, year)] = &balanceDatamodel.LeaveBalance{
		ID:                 id,
		EmployeeID:         employeeID,
		Year:               year,
		LeaveBalanceBF:     bf,
		CurrentYearLeave:   current,
		LeaveTakenThisYear: taken,
	}
}

var _ = Describe("Balance Service", func() {
	var (
		repo    *mockBalanceRepository
		counter *stubCounter
		service *balance.Service
		ctx     context.Context
		now     time.Time
		admin   internal.Identity
		staff   internal.Identity
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = newMockBalanceRepository()
		counter = &stubCounter{days: map[string]int{}}
		now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		service = balance.NewService(repo, counter, balance.DefaultPolicy(), slogger).
			WithClock(func() time.Time { return now })
		ctx = context.Background()
		admin = internal.Identity{ID: "admin-1", Role: internal.RoleAdmin}
		staff = internal.Identity{ID: "emp-1", Role: internal.RoleEmployee}
	})

	Describe("GetOrCreate", func() {
		It("creates a balance with defaults on first access", func() {
			b, err := service.GetOrCreate(ctx, "emp-1", 2026)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.LeaveBalanceBF).To(Equal(0))
			Expect(b.CurrentYearLeave).To(Equal(30))
			Expect(b.LeaveTakenThisYear).To(Equal(0))
			Expect(b.Available()).To(Equal(30))
			Expect(repo.rows).To(HaveKey("emp-1/2026"))
		})

		It("returns the stored balance when one exists", func() {
			seed(repo, "b-1", "emp-1", 2026, 4, 30, 10)

			b, err := service.GetOrCreate(ctx, "emp-1", 2026)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.ID).To(Equal("b-1"))
			Expect(b.Available()).To(Equal(24))
		})

		It("wraps repository failures as storage errors", func() {
			repo.getError = errors.New("connection refused")

			_, err := service.GetOrCreate(ctx, "emp-1", 2026)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeStorage))
			Expect(appErr.StatusCode).To(Equal(500))
		})
	})

	Describe("RecomputeTaken", func() {
		It("writes the sum of approved days", func() {
			seed(repo, "b-1", "emp-1", 2026, 0, 30, 0)
			counter.days["emp-1/2026"] = 5

			b, err := service.RecomputeTaken(ctx, "emp-1", 2026)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.LeaveTakenThisYear).To(Equal(5))
			Expect(repo.rows["emp-1/2026"].LeaveTakenThisYear).To(Equal(5))
			Expect(repo.saves).To(Equal(1))
		})

		It("is idempotent and skips the write when nothing changed", func() {
			seed(repo, "b-1", "emp-1", 2026, 0, 30, 0)
			counter.days["emp-1/2026"] = 7

			first, err := service.RecomputeTaken(ctx, "emp-1", 2026)
			Expect(err).NotTo(HaveOccurred())
			second, err := service.RecomputeTaken(ctx, "emp-1", 2026)
			Expect(err).NotTo(HaveOccurred())

			Expect(second.LeaveTakenThisYear).To(Equal(first.LeaveTakenThisYear))
			Expect(repo.saves).To(Equal(1))
		})

		It("can lower the taken count when an approval is reverted", func() {
			seed(repo, "b-1", "emp-1", 2026, 0, 30, 9)
			counter.days["emp-1/2026"] = 4

			b, err := service.RecomputeTaken(ctx, "emp-1", 2026)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.LeaveTakenThisYear).To(Equal(4))
		})

		It("surfaces counter failures as storage errors", func() {
			counter.err = errors.New("timeout")

			_, err := service.RecomputeTaken(ctx, "emp-1", 2026)
			Expect(err).To(MatchError(internal.NewStorageError(nil)))
		})
	})

	Describe("Current", func() {
		It("recomputes the balance of the clock's year", func() {
			counter.days["emp-1/2026"] = 3

			b, err := service.Current(ctx, "emp-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Year).To(Equal(2026))
			Expect(b.LeaveTakenThisYear).To(Equal(3))
		})
	})

	Describe("Update", func() {
		It("applies only the provided fields", func() {
			seed(repo, "b-1", "emp-2", 2026, 2, 30, 1)
			bf := 10

			b, err := service.Update(ctx, admin, balance.UpdateBalanceDTO{EmployeeID: "emp-2", LeaveBalanceBF: &bf})
			Expect(err).NotTo(HaveOccurred())
			Expect(b.LeaveBalanceBF).To(Equal(10))
			Expect(b.CurrentYearLeave).To(Equal(30))
			Expect(b.LeaveTakenThisYear).To(Equal(1))
		})

		It("defaults to the caller's own current-year balance", func() {
			current := 25
			hr := internal.Identity{ID: "hr-1", Role: internal.RoleHRDirector}

			b, err := service.Update(ctx, hr, balance.UpdateBalanceDTO{CurrentYearLeave: &current})
			Expect(err).NotTo(HaveOccurred())
			Expect(b.EmployeeID).To(Equal("hr-1"))
			Expect(b.Year).To(Equal(2026))
			Expect(b.CurrentYearLeave).To(Equal(25))
		})

		It("rejects an empty update", func() {
			_, err := service.Update(ctx, admin, balance.UpdateBalanceDTO{})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidBalanceUpdate))
		})

		It("rejects negative values", func() {
			negative := -1
			_, err := service.Update(ctx, admin, balance.UpdateBalanceDTO{LeaveTakenThisYear: &negative})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("forbids employees", func() {
			bf := 1
			_, err := service.Update(ctx, staff, balance.UpdateBalanceDTO{LeaveBalanceBF: &bf})
			Expect(err).To(MatchError(internal.ErrForbiddenRole))
		})
	})

	Describe("AnnualReset", func() {
		It("carries forward unused days capped at fifteen", func() {
			seed(repo, "b-1", "emp-1", 2025, 0, 30, 5)
			seed(repo, "b-2", "emp-2", 2025, 3, 30, 25)

			summary, err := service.AnnualReset(ctx, 2026)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Processed).To(Equal(2))
			Expect(summary.Failed).To(BeZero())

			first := repo.rows["emp-1/2026"]
			Expect(first.LeaveBalanceBF).To(Equal(15))
			Expect(first.CurrentYearLeave).To(Equal(30))
			Expect(first.LeaveTakenThisYear).To(Equal(0))

			second := repo.rows["emp-2/2026"]
			Expect(second.LeaveBalanceBF).To(Equal(8))

			Expect(repo.rows["emp-1/2025"].LeaveTakenThisYear).To(Equal(5))
			Expect(repo.rows["emp-2/2025"].LeaveBalanceBF).To(Equal(3))
		})

		It("fills a new-year balance that already exists", func() {
			seed(repo, "b-1", "emp-1", 2025, 0, 30, 10)
			seed(repo, "b-9", "emp-1", 2026, 0, 30, 4)

			summary, err := service.AnnualReset(ctx, 2026)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Processed).To(Equal(1))

			next := repo.rows["emp-1/2026"]
			Expect(next.ID).To(Equal("b-9"))
			Expect(next.LeaveBalanceBF).To(Equal(15))
			Expect(next.CurrentYearLeave).To(Equal(30))
			Expect(next.LeaveTakenThisYear).To(Equal(4))
			Expect(repo.rows["emp-1/2025"].ID).To(Equal("b-1"))
		})

		It("keeps going when one record fails", func() {
			seed(repo, "b-1", "emp-1", 2025, 0, 30, 0)
			seed(repo, "b-2", "emp-2", 2025, 0, 30, 20)
			repo.saveError["emp-1"] = errors.New("disk full")

			summary, err := service.AnnualReset(ctx, 2026)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Processed).To(Equal(1))
			Expect(summary.Failed).To(Equal(1))
			Expect(summary.Failures[0].EmployeeID).To(Equal("emp-1"))
			Expect(repo.rows["emp-2/2026"].LeaveBalanceBF).To(Equal(10))
			Expect(repo.rows).To(HaveKey("emp-1/2025"))
		})

		It("is restricted to Admin and HRDirector", func() {
			sup := internal.Identity{ID: "s-1", Role: internal.RoleSupervisor}
			_, err := service.Reset(ctx, sup, 2026)
			Expect(err).To(MatchError(internal.ErrForbiddenRole))

			hr := internal.Identity{ID: "hr-1", Role: internal.RoleHRDirector}
			summary, err := service.Reset(ctx, hr, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(summary.Year).To(Equal(2026))
		})
	})
})

var _ = Describe("Balance", func() {
	It("derives available and carry forward", func() {
		b := &balance.Balance{LeaveBalanceBF: 2, CurrentYearLeave: 30, LeaveTakenThisYear: 20}
		Expect(b.Total()).To(Equal(32))
		Expect(b.Available()).To(Equal(12))
		Expect(b.CarryForward(15)).To(Equal(12))
		Expect(b.CarryForward(10)).To(Equal(10))
	})

	It("bounds a calendar year", func() {
		from, to := balance.YearBounds(2026)
		Expect(from).To(Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
		Expect(to).To(Equal(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)))
	})
})
