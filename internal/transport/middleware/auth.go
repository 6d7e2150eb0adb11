package middleware

import (
	"net/http"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/pkg/logger"
)

// IdentityLogger adds the authenticated caller to the request logger. It
// must run after the auth middleware.
func IdentityLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := internal.IdentityFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "user_id", id.ID, "role", string(id.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
