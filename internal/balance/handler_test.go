package balance_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/balance"
	"github.com/frahmantamala/leave-management/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Balance Handler", func() {
	var (
		repo    *mockBalanceRepository
		counter *stubCounter
		handler *balance.Handler
	)

	withIdentity := func(req *http.Request, id internal.Identity) *http.Request {
		return req.WithContext(internal.ContextWithIdentity(req.Context(), id))
	}

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = newMockBalanceRepository()
		counter = &stubCounter{days: map[string]int{}}
		service := balance.NewService(repo, counter, balance.DefaultPolicy(), slogger).
			WithClock(func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) })
		handler = balance.NewHandler(service)
		handler.BaseHandler = transport.NewBaseHandler(slogger)
	})

	It("returns the caller's recomputed balance", func() {
		seed(repo, "b-1", "emp-1", 2026, 5, 30, 0)
		counter.days["emp-1/2026"] = 6

		req := withIdentity(httptest.NewRequest(http.MethodGet, "/leave-balances", nil),
			internal.Identity{ID: "emp-1", Role: internal.RoleEmployee})
		w := httptest.NewRecorder()

		handler.GetBalance(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp balance.BalanceResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.LeaveTakenThisYear).To(Equal(6))
		Expect(resp.TotalLeaveDays).To(Equal(35))
		Expect(resp.Available).To(Equal(29))
	})

	It("answers 401 without an identity", func() {
		w := httptest.NewRecorder()
		handler.GetBalance(w, httptest.NewRequest(http.MethodGet, "/leave-balances", nil))

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(w.Body.String()).To(ContainSubstring(string(internal.ErrCodeMissingIdentity)))
	})

	It("updates a balance for an admin", func() {
		body := strings.NewReader(`{"employeeId":"emp-1","leaveBalanceBF":12}`)
		req := withIdentity(httptest.NewRequest(http.MethodPut, "/leave-balances", body),
			internal.Identity{ID: "admin-1", Role: internal.RoleAdmin})
		w := httptest.NewRecorder()

		handler.UpdateBalance(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(repo.rows["emp-1/2026"].LeaveBalanceBF).To(Equal(12))
	})

	It("rejects a malformed body", func() {
		req := withIdentity(httptest.NewRequest(http.MethodPut, "/leave-balances", strings.NewReader("{")),
			internal.Identity{ID: "admin-1", Role: internal.RoleAdmin})
		w := httptest.NewRecorder()

		handler.UpdateBalance(w, req)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("forbids the reset for employees", func() {
		req := withIdentity(httptest.NewRequest(http.MethodPost, "/leave-balances/reset", nil),
			internal.Identity{ID: "emp-1", Role: internal.RoleEmployee})
		w := httptest.NewRecorder()

		handler.ResetBalances(w, req)

		Expect(w.Code).To(Equal(http.StatusForbidden))
		var resp internal.ErrorResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Code).To(Equal(internal.ErrCodeForbiddenRole))
	})

	It("rejects a reset year out of range", func() {
		seed(repo, "b-1", "emp-1", 2025, 0, 30, 10)

		req := withIdentity(httptest.NewRequest(http.MethodPost, "/leave-balances/reset", strings.NewReader(`{"year":-5}`)),
			internal.Identity{ID: "hr-1", Role: internal.RoleHRDirector})
		w := httptest.NewRecorder()

		handler.ResetBalances(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		var resp internal.ErrorResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Code).To(Equal(internal.ErrCodeValidationFailed))
		Expect(repo.rows).NotTo(HaveKey("emp-1/2026"))
	})

	It("runs the reset for HR and reports the summary", func() {
		seed(repo, "b-1", "emp-1", 2025, 0, 30, 10)

		req := withIdentity(httptest.NewRequest(http.MethodPost, "/leave-balances/reset", strings.NewReader(`{"year":2026}`)),
			internal.Identity{ID: "hr-1", Role: internal.RoleHRDirector})
		w := httptest.NewRecorder()

		handler.ResetBalances(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var summary balance.ResetSummary
		Expect(json.NewDecoder(w.Body).Decode(&summary)).To(Succeed())
		Expect(summary.Processed).To(Equal(1))
		Expect(repo.rows["emp-1/2026"].LeaveBalanceBF).To(Equal(15))
	})
})

