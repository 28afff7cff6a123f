package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iho/loantrack/internal/adapter/http/handler"
	"github.com/iho/loantrack/internal/adapter/http/middleware"
	"github.com/iho/loantrack/internal/domain"
	"github.com/iho/loantrack/internal/infrastructure/auth"
	"github.com/iho/loantrack/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	LoanHandler         *handler.LoanHandler
	HealthHandler       *handler.HealthHandler
	NotificationHandler *handler.NotificationHandler
	JWTManager          *auth.JWTManager
	IdempotencyStore    usecase.IdempotencyStore
	IdempotencyTTL      time.Duration
	RateLimiter         *middleware.RateLimiter
	RequestLogger       *middleware.LoggingMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.RequestLogger != nil {
		r.Use(cfg.RequestLogger.Wrap)
	}
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))

			// Idempotency middleware for mutating requests
			if cfg.IdempotencyStore != nil {
				idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
				r.Use(idempotencyMiddleware.Wrap)
			}

			// Users
			r.Route("/users", func(r chi.Router) {
				r.Get("/profile", cfg.UserHandler.GetProfile)
				r.Put("/profile", cfg.UserHandler.UpdateProfile)
				r.Get("/by-role/{role}", cfg.UserHandler.ListByRole)
			})

			// Loans
			r.Route("/loans", func(r chi.Router) {
				r.With(middleware.RequireRole(domain.RoleOwner)).Post("/", cfg.LoanHandler.Create)
				r.Get("/", cfg.LoanHandler.List)
				r.Get("/{id}", cfg.LoanHandler.Get)
				r.Post("/{id}/payments", cfg.LoanHandler.RecordPayment)
				r.With(middleware.RequireRole(domain.RoleOwner)).Patch("/{id}", cfg.LoanHandler.Correct)
				r.Delete("/{id}", cfg.LoanHandler.Delete)
			})

			// Manual notification scan
			if cfg.NotificationHandler != nil {
				r.With(middleware.RequireRole(domain.RoleOwner)).
					Post("/notifications/scan", cfg.NotificationHandler.TriggerScan)
			}
		})
	})

	return r
}
