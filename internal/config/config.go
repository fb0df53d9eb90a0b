package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Server     ServerConfig
	Flow       FlowConfig
	Slack      SlackConfig
	SMS        SMSConfig
	SelfHosted bool
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// JWTConfig holds admin API authentication settings.
type JWTConfig struct {
	Secret string //nolint:gosec // G117: JWT signing secret config
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
	WebhookRPS   int
	WebhookBurst int
}

// FlowConfig holds call flow policy settings.
type FlowConfig struct {
	MaxRetries     int
	StrictCalls    bool
	SessionTTL     time.Duration
	SweepInterval  time.Duration
	OperatorNumber string
}

// SlackConfig holds operator-escalation notification settings.
type SlackConfig struct {
	BotToken string
	Channel  string
}

// SMSConfig holds outbound SMS provider settings.
type SMSConfig struct {
	APIBase    string
	AccountSID string
	AuthToken  string //nolint:gosec // G117: provider auth config
	From       string
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production,
// sensitive values (JWT secret, DB password) must be set explicitly.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("INTAKE_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("INTAKE_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("INTAKE_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("INTAKE_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("INTAKE_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	webhookRPS, err := getEnvInt("INTAKE_WEBHOOK_RPS", 50)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	webhookBurst, err := getEnvInt("INTAKE_WEBHOOK_BURST", 100)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	maxRetries, err := getEnvInt("INTAKE_MAX_RETRIES", 3)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	strictCalls, err := getEnvBool("INTAKE_STRICT_CALLS", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	sessionTTL, err := getEnvDuration("INTAKE_SESSION_TTL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	sweepInterval, err := getEnvDuration("INTAKE_SWEEP_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	selfHosted, err := getEnvBool("INTAKE_SELF_HOSTED", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("INTAKE_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("INTAKE_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("INTAKE_DB_USER", "intake"),
			Password: getEnv("INTAKE_DB_PASSWORD", ""),
			DBName:   getEnv("INTAKE_DB_NAME", "intake_dev"),
			SSLMode:  getEnv("INTAKE_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("INTAKE_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("INTAKE_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret: getEnv("INTAKE_JWT_SECRET", ""),
		},
		Server: ServerConfig{
			Addr:         getEnv("INTAKE_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
			WebhookRPS:   webhookRPS,
			WebhookBurst: webhookBurst,
		},
		Flow: FlowConfig{
			MaxRetries:     maxRetries,
			StrictCalls:    strictCalls,
			SessionTTL:     sessionTTL,
			SweepInterval:  sweepInterval,
			OperatorNumber: getEnv("INTAKE_OPERATOR_NUMBER", ""),
		},
		Slack: SlackConfig{
			BotToken: getEnv("INTAKE_SLACK_BOT_TOKEN", ""),
			Channel:  getEnv("INTAKE_SLACK_CHANNEL", ""),
		},
		SMS: SMSConfig{
			APIBase:    getEnv("INTAKE_SMS_API_BASE", "https://api.twilio.com/2010-04-01"),
			AccountSID: getEnv("INTAKE_SMS_ACCOUNT_SID", ""),
			AuthToken:  getEnv("INTAKE_SMS_AUTH_TOKEN", ""),
			From:       getEnv("INTAKE_SMS_FROM", ""),
		},
		SelfHosted: selfHosted,
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	// JWT secret is required (no insecure default).
	if c.JWT.Secret == "" {
		return errors.New("INTAKE_JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("INTAKE_JWT_SECRET must be at least 32 characters")
	}

	// DB SSL mode warning for non-self-hosted deployments.
	if c.Database.SSLMode == "disable" && !c.SelfHosted {
		log.Warn().Msg("INTAKE_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("INTAKE_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("INTAKE_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("INTAKE_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("INTAKE_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.WebhookRPS < 1 {
		return fmt.Errorf("INTAKE_WEBHOOK_RPS must be >= 1, got %d", c.Server.WebhookRPS)
	}
	if c.Server.WebhookBurst < 1 {
		return fmt.Errorf("INTAKE_WEBHOOK_BURST must be >= 1, got %d", c.Server.WebhookBurst)
	}
	if c.Flow.MaxRetries < 1 {
		return fmt.Errorf("INTAKE_MAX_RETRIES must be >= 1, got %d", c.Flow.MaxRetries)
	}
	if c.Flow.SessionTTL <= 0 {
		return fmt.Errorf("INTAKE_SESSION_TTL must be positive, got %s", c.Flow.SessionTTL)
	}
	if c.Flow.SweepInterval <= 0 {
		return fmt.Errorf("INTAKE_SWEEP_INTERVAL must be positive, got %s", c.Flow.SweepInterval)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
