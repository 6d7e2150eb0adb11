package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/transport"
)

// Route-level role sets. The services re-check the finer rules.
var (
	ApproverRoles = []internal.Role{
		internal.RoleSupervisor,
		internal.RoleSectionalHead,
		internal.RoleDepartmentalHead,
		internal.RoleHRDirector,
		internal.RoleAdmin,
	}
	OverviewRoles = []internal.Role{
		internal.RoleSectionalHead,
		internal.RoleDepartmentalHead,
		internal.RoleHRDirector,
		internal.RoleAdmin,
	}
	AdministratorRoles = []internal.Role{
		internal.RoleHRDirector,
		internal.RoleAdmin,
	}
)

type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

// Allowed reports whether id holds one of roles.
func Allowed(id internal.Identity, roles ...internal.Role) bool {
	return id.HasRole(roles...)
}

// RequireRoles rejects callers whose role is not in roles. It must run after
// the auth middleware.
func (ra *RBACAuthorization) RequireRoles(roles ...internal.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := ra.Identity(w, r)
			if !ok {
				ra.Logger.Warn("authorization check failed: identity not found in context", "path", r.URL.Path)
				return
			}

			if !Allowed(id, roles...) {
				ra.Logger.WarnContext(r.Context(), "access denied: role not permitted",
					"user_id", id.ID,
					"role", id.Role,
					"required_roles", roles,
					"path", r.URL.Path)
				ra.WriteAppError(w, internal.ErrForbiddenRole)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
