package postgres_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/frahmantamala/leave-management/internal/balance"
	balancePostgres "github.com/frahmantamala/leave-management/internal/balance/postgres"
	balanceDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/balance"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixedCounter struct {
	days map[int]int
}

func (c fixedCounter) SumApprovedDays(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	return c.days[from.Year()], nil
}

var _ = Describe("Annual reset against the repository", func() {
	var (
		ctx     context.Context
		repo    balance.RepositoryAPI
		service *balance.Service
		counter fixedCounter
	)

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&balanceDatamodel.LeaveBalance{})).To(Succeed())

		ctx = context.Background()
		repo = balancePostgres.NewBalanceRepository(db)
		counter = fixedCounter{days: map[int]int{2025: 10, 2026: 2}}
		service = balance.NewService(repo, counter, balance.DefaultPolicy(), slog.New(slog.NewTextHandler(io.Discard, nil))).
			WithClock(func() time.Time { return time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC) })

		Expect(repo.Create(ctx, &balanceDatamodel.LeaveBalance{
			ID: "b-2025", EmployeeID: "emp-1", Year: 2025, CurrentYearLeave: 30, LeaveTakenThisYear: 10,
		})).To(Succeed())
	})

	It("carries into a new-year balance created by January traffic", func() {
		// Given
		current, err := service.Current(ctx, "emp-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(current.Year).To(Equal(2026))

		// When
		summary, err := service.AnnualReset(ctx, 2026)

		// Then
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Failed).To(BeZero(), "%v", summary.Failures)
		Expect(summary.Processed).To(Equal(1))

		next, err := repo.GetByEmployeeYear(ctx, "emp-1", 2026)
		Expect(err).NotTo(HaveOccurred())
		Expect(next.ID).To(Equal(current.ID))
		Expect(next.LeaveBalanceBF).To(Equal(15))
		Expect(next.CurrentYearLeave).To(Equal(30))
		Expect(next.LeaveTakenThisYear).To(Equal(2))
	})

	It("keeps the prior-year ledger row", func() {
		_, err := service.AnnualReset(ctx, 2026)
		Expect(err).NotTo(HaveOccurred())

		prior, err := repo.GetByEmployeeYear(ctx, "emp-1", 2025)
		Expect(err).NotTo(HaveOccurred())
		Expect(prior).NotTo(BeNil())
		Expect(prior.ID).To(Equal("b-2025"))
		Expect(prior.LeaveTakenThisYear).To(Equal(10))
	})

	It("creates the new-year balance when nothing touched it yet", func() {
		summary, err := service.AnnualReset(ctx, 2026)
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Processed).To(Equal(1))

		next, err := repo.GetByEmployeeYear(ctx, "emp-1", 2026)
		Expect(err).NotTo(HaveOccurred())
		Expect(next.LeaveBalanceBF).To(Equal(15))
		Expect(next.LeaveTakenThisYear).To(BeZero())
	})
})
