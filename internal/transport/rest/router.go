package rest

import (
	"net/http"

	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/balance"
	"github.com/frahmantamala/leave-management/internal/calendar"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/profile"
	"github.com/frahmantamala/leave-management/internal/transport/middleware"
	"github.com/frahmantamala/leave-management/internal/transport/swagger"
	"github.com/frahmantamala/leave-management/internal/user"
	"github.com/go-chi/chi"
)

// Handlers groups everything the router mounts. Nil handlers are skipped.
type Handlers struct {
	Auth     *auth.Handler
	RBAC     *auth.RBACAuthorization
	User     *user.Handler
	Leave    *leave.Handler
	Balance  *balance.Handler
	Calendar *calendar.Handler
	Profile  *profile.Handler
	Health   *HealthHandler
	Realtime http.Handler
	OpenAPI  []byte
}

type Options struct {
	AllowedOrigins []string
	RateLimiter    *middleware.KeyedRateLimiter
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options) {
	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery)
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.Logging)

	if h.OpenAPI != nil {
		router.Get("/openapi.yml", swagger.SpecHandler(h.OpenAPI))
		router.Handle("/swagger/*", swagger.Handler())
	}
	if h.Realtime != nil {
		router.Handle("/realtime/*", h.Realtime)
	}

	router.Route("/api", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(ar chi.Router) {
			if opts.RateLimiter != nil {
				ar.Use(middleware.RateLimit(opts.RateLimiter))
			}
			ar.Post("/login", h.Auth.Login)
			ar.Post("/refresh", h.Auth.RefreshToken)
			// an authenticated Admin may assign roles
			ar.With(h.Auth.OptionalAuth).Post("/register", h.Auth.Register)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(middleware.IdentityLogger)
			if opts.RateLimiter != nil {
				pr.Use(middleware.RateLimit(opts.RateLimiter))
			}

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
			}

			if h.Leave != nil {
				pr.Route("/leaves", func(lr chi.Router) {
					lr.Post("/apply", h.Leave.Apply)
					lr.Get("/my-leaves", h.Leave.MyLeaves)

					lr.Group(func(ar chi.Router) {
						ar.Use(h.RBAC.RequireRoles(auth.ApproverRoles...))
						ar.Get("/pending-approvals", h.Leave.PendingApprovals)
						ar.Patch("/approve/{id}", h.Leave.Approve)
						ar.Patch("/admin/leaves/{id}", h.Leave.UpdateFields)
					})

					lr.Group(func(or chi.Router) {
						or.Use(h.RBAC.RequireRoles(auth.OverviewRoles...))
						or.Get("/all", h.Leave.ListAll)
						if h.Calendar != nil {
							or.Get("/calendar", h.Calendar.GetCalendar)
						}
					})

					lr.With(h.RBAC.RequireRoles(auth.AdministratorRoles...)).Get("/admin/leaves", h.Leave.AdminList)

					lr.Get("/{id}", h.Leave.GetLeave)
				})
			}

			if h.Balance != nil {
				pr.Route("/leave-balances", func(br chi.Router) {
					br.Get("/", h.Balance.GetBalance)
					br.Group(func(adm chi.Router) {
						adm.Use(h.RBAC.RequireRoles(auth.AdministratorRoles...))
						adm.Put("/", h.Balance.UpdateBalance)
						adm.Post("/reset", h.Balance.ResetBalances)
					})
				})
			}

			if h.Profile != nil {
				pr.Get("/profiles", h.Profile.GetProfile)
				pr.Put("/profiles", h.Profile.UpdateProfile)
			}
		})
	})
}
