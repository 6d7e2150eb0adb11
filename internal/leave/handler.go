package leave

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Submit(ctx context.Context, actor internal.Identity, dto ApplyLeaveDTO) (*Record, error)
	Approve(ctx context.Context, actor internal.Identity, id string, dto ApproveDTO) (*Record, error)
	UpdateFields(ctx context.Context, actor internal.Identity, id string, fields map[string]interface{}) (*Record, error)
	ListMine(ctx context.Context, actor internal.Identity, leaveType string) ([]*Record, error)
	PendingApprovals(ctx context.Context, actor internal.Identity, leaveType string) ([]*Record, error)
	ListAll(ctx context.Context, actor internal.Identity) ([]*Record, error)
	AdminList(ctx context.Context, actor internal.Identity, leaveType string) ([]*Record, error)
	Get(ctx context.Context, actor internal.Identity, id string) (*Record, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	var dto ApplyLeaveDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	rec, err := h.Service.Submit(r.Context(), id, dto)
	if err != nil {
		h.Logger.Warn("Apply: service error", "error", err, "employee_id", id.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("Apply: leave request submitted",
		"leave_id", rec.ID,
		"employee_id", id.ID,
		"leave_type", rec.LeaveType)

	h.WriteJSON(w, http.StatusCreated, rec)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	leaveID := chi.URLParam(r, "id")
	var dto ApproveDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	rec, err := h.Service.Approve(r.Context(), id, leaveID, dto)
	if err != nil {
		h.Logger.Warn("Approve: service error", "error", err, "leave_id", leaveID, "actor_id", id.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) UpdateFields(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	leaveID := chi.URLParam(r, "id")
	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil || fields == nil {
		h.Logger.Debug("UpdateFields: invalid request body", "error", err)
		h.WriteAppError(w, internal.NewValidationError("request body must be a JSON object", internal.ErrCodeValidationFailed))
		return
	}

	rec, err := h.Service.UpdateFields(r.Context(), id, leaveID, fields)
	if err != nil {
		h.Logger.Warn("UpdateFields: service error", "error", err, "leave_id", leaveID, "actor_id", id.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) MyLeaves(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	records, err := h.Service.ListMine(r.Context(), id, r.URL.Query().Get("leaveType"))
	if err != nil {
		h.Logger.Error("MyLeaves: service error", "error", err, "employee_id", id.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, NewListResponse(records))
}

func (h *Handler) PendingApprovals(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	records, err := h.Service.PendingApprovals(r.Context(), id, r.URL.Query().Get("leaveType"))
	if err != nil {
		h.Logger.Error("PendingApprovals: service error", "error", err, "role", id.Role)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, NewListResponse(records))
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	records, err := h.Service.ListAll(r.Context(), id)
	if err != nil {
		h.Logger.Error("ListAll: service error", "error", err, "role", id.Role)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, NewListResponse(records))
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	records, err := h.Service.AdminList(r.Context(), id, r.URL.Query().Get("leaveType"))
	if err != nil {
		h.Logger.Error("AdminList: service error", "error", err, "role", id.Role)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, NewListResponse(records))
}

func (h *Handler) GetLeave(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	leaveID := chi.URLParam(r, "id")
	rec, err := h.Service.Get(r.Context(), id, leaveID)
	if err != nil {
		h.Logger.Warn("GetLeave: service error", "error", err, "leave_id", leaveID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rec)
}
