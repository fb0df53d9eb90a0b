package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"

	"github.com/gosuda/intake/internal/config"
	"github.com/gosuda/intake/internal/flow"
	"github.com/gosuda/intake/internal/notify"
	"github.com/gosuda/intake/internal/server"
	"github.com/gosuda/intake/internal/store/memory"
	"github.com/gosuda/intake/internal/store/postgres"
	redisstore "github.com/gosuda/intake/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("INTAKE_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("INTAKE_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL for finalized complaint records.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis for call event monitoring.
	events, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer events.Close()

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// In-memory per-call session store with background eviction of
	// terminated calls.
	sessions := memory.NewSessionStore()
	go sessions.Sweep(ctx, cfg.Flow.SweepInterval, cfg.Flow.SessionTTL)

	// Fire-and-forget notifications: SMS confirmation, Slack escalation.
	var sms notify.SMSSender
	if cfg.SMS.AccountSID != "" && cfg.SMS.AuthToken != "" && cfg.SMS.From != "" {
		sms = notify.NewSMSClient(cfg.SMS.APIBase, cfg.SMS.AccountSID, cfg.SMS.AuthToken, cfg.SMS.From)
	}
	var slackAPI notify.SlackAPI
	if cfg.Slack.BotToken != "" {
		slackAPI = slacklib.New(cfg.Slack.BotToken)
	}
	notifier := notify.New(sms, slackAPI, cfg.Slack.Channel)

	// The call session state machine.
	controller := flow.New(sessions, store.Complaints(), events, notifier, flow.Config{
		MaxRetries:     cfg.Flow.MaxRetries,
		Strict:         cfg.Flow.StrictCalls,
		OperatorNumber: cfg.Flow.OperatorNumber,
	})

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, sessions, store, events, controller)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
