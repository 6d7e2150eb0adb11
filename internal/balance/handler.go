package balance

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

type ServiceAPI interface {
	Current(ctx context.Context, employeeID string) (*Balance, error)
	Update(ctx context.Context, actor internal.Identity, dto UpdateBalanceDTO) (*Balance, error)
	Reset(ctx context.Context, actor internal.Identity, newYear int) (*ResetSummary, error)
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

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	b, err := h.Service.Current(r.Context(), id.ID)
	if err != nil {
		h.Logger.Error("GetBalance: service error", "error", err, "employee_id", id.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, b.ToResponse())
}

func (h *Handler) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	var dto UpdateBalanceDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	b, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.Logger.Error("UpdateBalance: service error", "error", err, "actor_id", id.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Leave balance updated",
		"leaveBalance": b.ToResponse(),
	})
}

func (h *Handler) ResetBalances(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	var req ResetRequest
	if r.ContentLength > 0 && !h.DecodeJSON(w, r, &req) {
		return
	}
	if appErr := req.Validate(); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}

	summary, err := h.Service.Reset(r.Context(), id, req.Year)
	if err != nil {
		h.Logger.Error("ResetBalances: service error", "error", err, "actor_id", id.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("ResetBalances: annual reset completed",
		"year", summary.Year,
		"processed", summary.Processed,
		"failed", summary.Failed)

	h.WriteJSON(w, http.StatusOK, summary)
}
