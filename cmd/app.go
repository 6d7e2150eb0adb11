package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	authPostgres "github.com/frahmantamala/leave-management/internal/auth/postgres"
	"github.com/frahmantamala/leave-management/internal/balance"
	balancePostgres "github.com/frahmantamala/leave-management/internal/balance/postgres"
	"github.com/frahmantamala/leave-management/internal/calendar"
	calendarPostgres "github.com/frahmantamala/leave-management/internal/calendar/postgres"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/frahmantamala/leave-management/internal/leave"
	leavePostgres "github.com/frahmantamala/leave-management/internal/leave/postgres"
	"github.com/frahmantamala/leave-management/internal/notification"
	"github.com/frahmantamala/leave-management/internal/notification/realtime"
	"github.com/frahmantamala/leave-management/internal/profile"
	profilePostgres "github.com/frahmantamala/leave-management/internal/profile/postgres"
	"github.com/frahmantamala/leave-management/internal/user"
	userPostgres "github.com/frahmantamala/leave-management/internal/user/postgres"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// services is the wired domain layer shared by the server and the maintenance commands.
type services struct {
	Auth     *auth.Service
	Profile  *profile.Service
	Balance  *balance.Service
	Leave    *leave.Service
	User     *user.Service
	Calendar *calendar.Service
	Users    *userPostgres.UserRepository
}

func buildServices(cfg *internal.Config, db *sqlx.DB, gdb *gorm.DB, bus leave.Publisher, lg *slog.Logger) (*services, error) {
	policy, err := leave.PolicyFromConfig(cfg.Leave)
	if err != nil {
		return nil, fmt.Errorf("leave policy: %w", err)
	}

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.JWTSecret,
		cfg.Security.JWTRefreshSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)

	leaveRepo := leavePostgres.NewLeaveRepository(gdb)
	profileSvc := profile.NewService(profilePostgres.NewProfileRepository(gdb), lg)
	balanceSvc := balance.NewService(balancePostgres.NewBalanceRepository(gdb), leaveRepo, balance.Policy{
		DefaultAllocation: cfg.Leave.DefaultAnnualAllocation,
		MaxCarryForward:   cfg.Leave.MaxCarryForward,
	}, lg)
	users := userPostgres.NewUserRepository(db)

	return &services{
		Auth:     auth.NewService(authPostgres.NewRepository(gdb), tokens, cfg.Security.BCryptCost, lg),
		Profile:  profileSvc,
		Balance:  balanceSvc,
		Leave:    leave.NewService(leaveRepo, balanceSvc, profileSvc, bus, policy, lg),
		User:     user.NewService(users, profileSvc, lg),
		Calendar: calendar.NewService(calendarPostgres.NewCalendarRepository(db), lg),
		Users:    users,
	}, nil
}

// notifier bundles the delivery pool with the providers that need closing.
type notifier struct {
	Dispatcher *notification.Dispatcher
	Hub        *realtime.Hub
	kafka      *notification.KafkaProvider
}

func buildNotifier(cfg internal.NotificationConfig, lg *slog.Logger) *notifier {
	n := &notifier{}
	providers := []notification.Provider{notification.NewLogProvider(lg)}

	if cfg.EmailWebhookURL != "" {
		providers = append(providers, notification.NewWebhookProvider(cfg.EmailWebhookURL, cfg.EmailWebhookToken))
	}
	if cfg.KafkaBrokers != "" {
		n.kafka = notification.NewKafkaProvider(notification.NewKafkaWriter(cfg.KafkaBrokers), cfg.KafkaTopic)
		providers = append(providers, n.kafka)
	}
	if cfg.RealtimeEnabled {
		n.Hub = realtime.New(lg)
		providers = append(providers, n.Hub)
	}

	n.Dispatcher = notification.NewDispatcher(notification.Config{
		Workers:   cfg.Workers,
		QueueSize: cfg.QueueSize,
	}, lg, providers...)
	return n
}

// Subscribe routes leave events from bus into the delivery pool.
func (n *notifier) Subscribe(bus *events.EventBus, directory notification.Directory, lg *slog.Logger) {
	notification.NewSubscriber(n.Dispatcher, directory, lg).Register(bus)
}

func (n *notifier) Close(ctx context.Context, lg *slog.Logger) {
	n.Dispatcher.Shutdown(ctx)
	if n.kafka != nil {
		if err := n.kafka.Close(); err != nil {
			lg.Error("kafka writer close error", "error", err)
		}
	}
}
