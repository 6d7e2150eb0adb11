package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/leave-management/api"
	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/balance"
	"github.com/frahmantamala/leave-management/internal/calendar"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/profile"
	"github.com/frahmantamala/leave-management/internal/telemetry"
	"github.com/frahmantamala/leave-management/internal/transport/middleware"
	"github.com/frahmantamala/leave-management/internal/transport/rest"
	"github.com/frahmantamala/leave-management/internal/transport/swagger"
	"github.com/frahmantamala/leave-management/internal/user"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Router   *chi.Mux
	Logger   *slog.Logger
	EventBus *events.EventBus
	Notifier *notifier
	Tracing  telemetry.ShutdownFunc
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(deps.Router, deps.Config.Observability.Tracing.ServiceName),
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.close(context.Background())
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		deps.Logger.Error("Server shutdown error", "error", err)
	}
	deps.close(ctx)

	deps.Logger.Info("Server stopped")
}

// close drains in-flight events and notifications before releasing the database.
func (d *Dependencies) close(ctx context.Context) {
	d.EventBus.Wait()
	d.Notifier.Close(ctx, d.Logger)
	if err := d.Tracing(ctx); err != nil {
		d.Logger.Error("Tracer shutdown error", "error", err)
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := setupLogger(config)

	shutdownTracing, err := telemetry.Setup(context.Background(), config.Observability.Tracing, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := swagger.Load(context.Background(), api.OpenAPI); err != nil {
		_ = db.Close()
		return nil, err
	}

	bus := events.NewEventBus(lg)
	svc, err := buildServices(config, db, gdb, bus, lg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	n := buildNotifier(config.Notification, lg)
	n.Subscribe(bus, svc.Users, lg)

	handlers := rest.Handlers{
		Auth:     auth.NewHandler(svc.Auth),
		RBAC:     auth.NewRBACAuthorization(lg),
		User:     user.NewHandler(svc.User),
		Leave:    leave.NewHandler(svc.Leave),
		Balance:  balance.NewHandler(svc.Balance),
		Calendar: calendar.NewHandler(svc.Calendar),
		Profile:  profile.NewHandler(svc.Profile),
		Health:   rest.NewHealthHandler(map[string]rest.Pinger{"database": db}),
		OpenAPI:  api.OpenAPI,
	}
	if n.Hub != nil {
		handlers.Realtime = n.Hub.Handler("/realtime", svc.Auth)
	}

	opts := rest.Options{AllowedOrigins: config.Server.Origins()}
	if config.RateLimit.Enabled {
		opts.RateLimiter = middleware.NewKeyedRateLimiter(rate.Limit(config.RateLimit.RequestsPerSecond), config.RateLimit.Burst)
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, handlers, opts)

	return &Dependencies{
		Config:   config,
		DB:       db,
		Router:   router,
		Logger:   lg,
		EventBus: bus,
		Notifier: n,
		Tracing:  shutdownTracing,
	}, nil
}
