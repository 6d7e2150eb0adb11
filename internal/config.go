package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Security      SecurityConfig      `mapstructure:"security" validate:"required"`
	Leave         LeaveConfig         `mapstructure:"leave"`
	Notification  NotificationConfig  `mapstructure:"notification"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"required,min=1m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" validate:"required,min=1m"`
	Source          string        `mapstructure:"source"`
}

type SecurityConfig struct {
	JWTSecret            string        `mapstructure:"jwt_secret" validate:"required,min=32"`
	JWTRefreshSecret     string        `mapstructure:"jwt_refresh_secret" validate:"required,min=32"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration" validate:"required,min=1m"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration" validate:"required,min=1h"`
	BCryptCost           int           `mapstructure:"bcrypt_cost" validate:"required,min=4,max=15"`
}

// LeaveConfig holds the leave policy. Holidays are calendar dates in YYYY-MM-DD form.
type LeaveConfig struct {
	Holidays                []string `mapstructure:"holidays"`
	DefaultAnnualAllocation int      `mapstructure:"default_annual_allocation"`
	MaxCarryForward         int      `mapstructure:"max_carry_forward"`
	AnnualNoticeDays        int      `mapstructure:"annual_notice_days"`
	ShortLeaveMaxDays       int      `mapstructure:"short_leave_max_days"`
	AnnualLeaveMaxDays      int      `mapstructure:"annual_leave_max_days"`
}

type NotificationConfig struct {
	Workers           int    `mapstructure:"workers"`
	QueueSize         int    `mapstructure:"queue_size"`
	EmailWebhookURL   string `mapstructure:"email_webhook_url"`
	EmailWebhookToken string `mapstructure:"email_webhook_token"`
	KafkaBrokers      string `mapstructure:"kafka_brokers"`
	KafkaTopic        string `mapstructure:"kafka_topic"`
	RealtimeEnabled   bool   `mapstructure:"realtime_enabled"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type ObservabilityConfig struct {
	Tracing TracingConfig `mapstructure:"tracing"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	ServiceName  string  `mapstructure:"service_name" validate:"required_if=Enabled true"`
	SamplingRate float64 `mapstructure:"sampling_rate" validate:"min=0,max=1"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint" validate:"required_if=Enabled true"`
	Insecure     bool    `mapstructure:"insecure"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// ----------------- DEFAULTS -----------------

func DefaultLeaveConfig() LeaveConfig {
	return LeaveConfig{
		Holidays:                []string{"2025-01-01", "2026-01-01"},
		DefaultAnnualAllocation: 30,
		MaxCarryForward:         15,
		AnnualNoticeDays:        7,
		ShortLeaveMaxDays:       5,
		AnnualLeaveMaxDays:      30,
	}
}

// ApplyDefaults fills zero values left by a partial config file.
func (c *Config) ApplyDefaults() {
	def := DefaultLeaveConfig()
	if c.Leave.DefaultAnnualAllocation <= 0 {
		c.Leave.DefaultAnnualAllocation = def.DefaultAnnualAllocation
	}
	if c.Leave.MaxCarryForward <= 0 {
		c.Leave.MaxCarryForward = def.MaxCarryForward
	}
	if c.Leave.AnnualNoticeDays <= 0 {
		c.Leave.AnnualNoticeDays = def.AnnualNoticeDays
	}
	if c.Leave.ShortLeaveMaxDays <= 0 {
		c.Leave.ShortLeaveMaxDays = def.ShortLeaveMaxDays
	}
	if c.Leave.AnnualLeaveMaxDays <= 0 {
		c.Leave.AnnualLeaveMaxDays = def.AnnualLeaveMaxDays
	}
	if c.Leave.Holidays == nil {
		c.Leave.Holidays = def.Holidays
	}
	if c.Security.AccessTokenDuration <= 0 {
		c.Security.AccessTokenDuration = 15 * time.Minute
	}
	if c.Security.RefreshTokenDuration <= 0 {
		c.Security.RefreshTokenDuration = 7 * 24 * time.Hour
	}
	if c.Security.BCryptCost == 0 {
		c.Security.BCryptCost = 10
	}
	if c.Notification.Workers <= 0 {
		c.Notification.Workers = 4
	}
	if c.Notification.QueueSize <= 0 {
		c.Notification.QueueSize = 100
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "text"
	}
}

// LoadConfigFromEnv builds the configuration from plain environment variables (container deployment).
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("PORT", 8080),
			BaseURL:           getEnv("BASE_URL", "http://localhost:8080"),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 15*time.Second),
			IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source:          getEnv("DATABASE_URL", ""),
		},
		Security: SecurityConfig{
			JWTSecret:            getEnv("JWT_SECRET", ""),
			JWTRefreshSecret:     getEnv("JWT_REFRESH_SECRET", ""),
			AccessTokenDuration:  getEnvAsDuration("ACCESS_TOKEN_DURATION", 15*time.Minute),
			RefreshTokenDuration: getEnvAsDuration("REFRESH_TOKEN_DURATION", 7*24*time.Hour),
			BCryptCost:           getEnvAsInt("BCRYPT_COST", 10),
		},
		Leave: LeaveConfig{
			Holidays:                getEnvAsList("LEAVE_HOLIDAYS", DefaultLeaveConfig().Holidays),
			DefaultAnnualAllocation: getEnvAsInt("LEAVE_DEFAULT_ANNUAL_ALLOCATION", 30),
			MaxCarryForward:         getEnvAsInt("LEAVE_MAX_CARRY_FORWARD", 15),
			AnnualNoticeDays:        getEnvAsInt("LEAVE_ANNUAL_NOTICE_DAYS", 7),
			ShortLeaveMaxDays:       getEnvAsInt("LEAVE_SHORT_MAX_DAYS", 5),
			AnnualLeaveMaxDays:      getEnvAsInt("LEAVE_ANNUAL_MAX_DAYS", 30),
		},
		Notification: NotificationConfig{
			Workers:           getEnvAsInt("NOTIFY_WORKERS", 4),
			QueueSize:         getEnvAsInt("NOTIFY_QUEUE_SIZE", 100),
			EmailWebhookURL:   getEnv("NOTIFY_EMAIL_WEBHOOK_URL", ""),
			EmailWebhookToken: getEnv("NOTIFY_EMAIL_WEBHOOK_TOKEN", ""),
			KafkaBrokers:      getEnv("NOTIFY_KAFKA_BROKERS", ""),
			KafkaTopic:        getEnv("NOTIFY_KAFKA_TOPIC", "leave-events"),
			RealtimeEnabled:   getEnvAsBool("NOTIFY_REALTIME_ENABLED", true),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 10),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
		Observability: ObservabilityConfig{
			Tracing: TracingConfig{
				Enabled:      getEnvAsBool("OTEL_ENABLED", false),
				ServiceName:  getEnv("OTEL_SERVICE_NAME", "leave-management"),
				SamplingRate: getEnvAsFloat("OTEL_SAMPLING_RATE", 1),
				OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
				Insecure:     getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", false),
			},
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
	return cfg
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Leave.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("leave config: %v", err))
	}

	if err := c.Observability.Tracing.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("tracing config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		for _, origin := range c.Origins() {
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *ServerConfig) Origins() []string {
	var out []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *SecurityConfig) Validate() error {
	if len(c.JWTSecret) < 32 {
		return errors.New("jwt_secret must be at least 32 characters")
	}
	if len(c.JWTRefreshSecret) < 32 {
		return errors.New("jwt_refresh_secret must be at least 32 characters")
	}
	if c.JWTSecret == c.JWTRefreshSecret {
		return errors.New("jwt_refresh_secret must differ from jwt_secret")
	}
	return nil
}

func (c *LeaveConfig) Validate() error {
	if _, err := c.HolidayDates(); err != nil {
		return err
	}
	if c.MaxCarryForward < 0 {
		return errors.New("max_carry_forward cannot be negative")
	}
	if c.ShortLeaveMaxDays > c.AnnualLeaveMaxDays {
		return errors.New("short_leave_max_days cannot exceed annual_leave_max_days")
	}
	return nil
}

// HolidayDates parses the configured holiday list as UTC midnights.
func (c *LeaveConfig) HolidayDates() ([]time.Time, error) {
	out := make([]time.Time, 0, len(c.Holidays))
	for _, raw := range c.Holidays {
		d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(raw), time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday %q: %w", raw, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func (c *TracingConfig) Validate() error {
	if c.Enabled && c.OTLPEndpoint == "" {
		return errors.New("otlp_endpoint is required when tracing is enabled")
	}
	if c.SamplingRate < 0 || c.SamplingRate > 1 {
		return errors.New("sampling_rate must be between 0 and 1")
	}
	return nil
}
