package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/gosuda/intake/internal/api/ws"
	"github.com/gosuda/intake/internal/config"
	"github.com/gosuda/intake/internal/flow"
	"github.com/gosuda/intake/internal/server/middleware"
	"github.com/gosuda/intake/internal/store/memory"
	"github.com/gosuda/intake/internal/store/postgres"
	redisstore "github.com/gosuda/intake/internal/store/redis"
	"github.com/gosuda/intake/internal/telephony"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	sessions   *memory.SessionStore
	store      *postgres.Store
	events     *redisstore.Events
	controller *flow.Controller
	wsHub      *ws.Hub
	cfg        *config.Config
}

// New creates a Server with all routes wired.
func New(ctx context.Context, cfg *config.Config, sessions *memory.SessionStore, store *postgres.Store, events *redisstore.Events, controller *flow.Controller) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)

	hub := ws.NewHub(events)

	s := &Server{
		router:     router,
		sessions:   sessions,
		store:      store,
		events:     events,
		controller: controller,
		wsHub:      hub,
		cfg:        cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// Telephony webhook routes. The provider does not authenticate; per-IP
	// rate limiting is the only guard on this surface.
	webhooks := telephony.NewHandler(controller)
	router.Route("/voice", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(ctx, float64(cfg.Server.WebhookRPS), cfg.Server.WebhookBurst))
		registerVoiceRoutes(r, webhooks)
	})

	// Admin API behind JWT auth + CORS.
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   cfg.Server.CORSOrigins,
			AllowedMethods:   []string{"GET", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}).Handler)
		r.Use(middleware.Auth(cfg.JWT.Secret))

		apiConfig := huma.DefaultConfig("Intake API", "1.0.0")
		apiConfig.Servers = []*huma.Server{
			{URL: "/api/v1"},
		}
		api := humachi.New(r, apiConfig)
		registerAPIRoutes(api, store, sessions)
	})

	// Live call monitor over WebSocket.
	router.Route("/ws", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT.Secret))
		registerWSRoutes(r, hub)
	})

	// Health check (unauthenticated).
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
