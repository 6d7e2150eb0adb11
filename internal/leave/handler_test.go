package leave_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Leave Handler", func() {
	var (
		h       *harness
		handler *leave.Handler
	)

	request := func(method, target, body string, id internal.Identity, params map[string]string) *http.Request {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
		}
		ctx := req.Context()
		if !id.IsZero() {
			ctx = internal.ContextWithIdentity(ctx, id)
		}
		if len(params) > 0 {
			rctx := chi.NewRouteContext()
			for k, v := range params {
				rctx.URLParams.Add(k, v)
			}
			ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
		}
		return req.WithContext(ctx)
	}

	BeforeEach(func() {
		h = newHarness()
		handler = leave.NewHandler(h.service)
		handler.BaseHandler = transport.NewBaseHandler(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	})

	submit := func(dto leave.ApplyLeaveDTO) string {
		body, err := json.Marshal(dto)
		Expect(err).NotTo(HaveOccurred())
		w := httptest.NewRecorder()
		handler.Apply(w, request(http.MethodPost, "/leaves", string(body), employee, nil))
		Expect(w.Code).To(Equal(http.StatusCreated))

		var created map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		return created["id"].(string)
	}

	It("creates a leave and answers with the flattened record", func() {
		body, _ := json.Marshal(annualDTO())
		w := httptest.NewRecorder()
		handler.Apply(w, request(http.MethodPost, "/leaves", string(body), employee, nil))

		Expect(w.Code).To(Equal(http.StatusCreated))
		var created map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created["leaveType"]).To(Equal("Annual Leave"))
		Expect(created["status"]).To(Equal("Pending"))
		Expect(created["stage"]).To(Equal("Pending"))
		Expect(created["leaveBalanceCF"]).To(BeEquivalentTo(25))
	})

	It("answers 400 with field details for an invalid request", func() {
		dto := annualDTO()
		dto.DaysApplied = 6
		body, _ := json.Marshal(dto)
		w := httptest.NewRecorder()
		handler.Apply(w, request(http.MethodPost, "/leaves", string(body), employee, nil))

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(string(internal.ErrCodeWorkingDaysMismatch)))
	})

	It("answers 401 without an identity", func() {
		w := httptest.NewRecorder()
		handler.MyLeaves(w, request(http.MethodGet, "/leaves/my-leaves", "", internal.Identity{}, nil))
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("approves through the id path parameter", func() {
		id := submit(shortDTO())

		w := httptest.NewRecorder()
		handler.Approve(w, request(http.MethodPost, "/leaves/"+id+"/approve", `{"status":"Approved"}`, hr, map[string]string{"id": id}))

		Expect(w.Code).To(Equal(http.StatusOK))
		var got map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		Expect(got["status"]).To(Equal("Approved"))
	})

	It("answers 403 when the role may not act", func() {
		id := submit(shortDTO())

		w := httptest.NewRecorder()
		handler.Approve(w, request(http.MethodPost, "/leaves/"+id+"/approve", `{"status":"Approved"}`, colleague, map[string]string{"id": id}))

		Expect(w.Code).To(Equal(http.StatusForbidden))
		var resp internal.ErrorResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Code).To(Equal(internal.ErrCodeForbiddenRole))
	})

	It("answers 404 for an unknown leave", func() {
		w := httptest.NewRecorder()
		handler.GetLeave(w, request(http.MethodGet, "/leaves/missing", "", hr, map[string]string{"id": "missing"}))
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("patches permitted fields", func() {
		id := submit(annualDTO())

		w := httptest.NewRecorder()
		handler.UpdateFields(w, request(http.MethodPatch, "/leaves/"+id,
			`{"sectionalHeadRecommendation":"Recommended","sectionalHeadDate":"2026-03-02"}`,
			sectional, map[string]string{"id": id}))

		Expect(w.Code).To(Equal(http.StatusOK))
		var got map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&got)).To(Succeed())
		Expect(got["sectionalHeadRecommendation"]).To(Equal("Recommended"))
		Expect(got["stage"]).To(Equal("RecommendedBySectional"))
	})

	It("answers 400 when no field is permitted", func() {
		id := submit(annualDTO())

		w := httptest.NewRecorder()
		handler.UpdateFields(w, request(http.MethodPatch, "/leaves/"+id, `{"status":"Approved"}`, sectional, map[string]string{"id": id}))

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(string(internal.ErrCodeNoValidFields)))
	})

	It("rejects a body that is not an object", func() {
		w := httptest.NewRecorder()
		handler.UpdateFields(w, request(http.MethodPatch, "/leaves/x", `null`, hr, map[string]string{"id": "x"}))
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("lists the caller's leaves with a count", func() {
		submit(shortDTO())
		submit(annualDTO())

		w := httptest.NewRecorder()
		handler.MyLeaves(w, request(http.MethodGet, "/leaves/my-leaves?leaveType=Short%20Leave", "", employee, nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp struct {
			Leaves []map[string]interface{} `json:"leaves"`
			Count  int                      `json:"count"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Count).To(Equal(1))
		Expect(resp.Leaves[0]["leaveType"]).To(Equal("Short Leave"))
	})

	It("serves the pending queue of a role", func() {
		submit(annualDTO())

		w := httptest.NewRecorder()
		handler.PendingApprovals(w, request(http.MethodGet, "/leaves/pending-approvals", "", sectional, nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"count":1`))

		w = httptest.NewRecorder()
		handler.PendingApprovals(w, request(http.MethodGet, "/leaves/pending-approvals", "", employee, nil))
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("requires the type on the admin list", func() {
		w := httptest.NewRecorder()
		handler.AdminList(w, request(http.MethodGet, "/leaves/admin", "", admin, nil))
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		w = httptest.NewRecorder()
		handler.ListAll(w, request(http.MethodGet, "/leaves/all", "", hr, nil))
		Expect(w.Code).To(Equal(http.StatusOK))
	})
})
