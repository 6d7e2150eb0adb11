package user

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

type ServiceAPI interface {
	Me(ctx context.Context, actor internal.Identity) (*MeResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.Identity(w, r)
	if !ok {
		return
	}

	me, err := h.Service.Me(r.Context(), id)
	if err != nil {
		h.Logger.Error("GetCurrentUser: service error", "user_id", id.ID, "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Debug("GetCurrentUser: sending response", "user_id", me.ID, "role", me.Role)
	h.WriteJSON(w, http.StatusOK, me)
}
