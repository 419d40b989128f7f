package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendant/simple-access-slim/internal/config"
	"github.com/tendant/simple-access-slim/internal/http/features/applications"
	"github.com/tendant/simple-access-slim/internal/http/features/permissions"
	"github.com/tendant/simple-access-slim/internal/http/features/responsibles"
	"github.com/tendant/simple-access-slim/internal/http/features/userpermissions"
	"github.com/tendant/simple-access-slim/internal/http/middleware"
	"github.com/tendant/simple-access-slim/internal/httputil"
	"github.com/tendant/simple-access-slim/internal/observability"
	"github.com/tendant/simple-access-slim/pkg/auth"
	"github.com/tendant/simple-access-slim/pkg/service"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Logger          *slog.Logger
	TokenService    *auth.TokenService
	Applications    *service.ApplicationService
	Responsibles    *service.ResponsibleService
	Permissions     *service.PermissionService
	UserPermissions *service.UserPermissionService
	RateLimitConfig config.RateLimitConfig
	SecurityHeaders config.SecurityHeadersConfig
	Validation      config.ValidationConfig
	// DisableMetrics hides /metrics, e.g. when embedded in a host that
	// exposes its own registry.
	DisableMetrics bool
}

// NewRouter creates a new HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	observability.RegisterMetrics()

	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	r.Use(middleware.RequestSizeLimit(cfg.Validation.MaxRequestBodySize))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.Error(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if !cfg.DisableMetrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimitConfig, cfg.Logger)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.TokenService))
		r.Use(rateLimiters.ByMethod)

		if cfg.Applications != nil {
			applications.NewHandler(cfg.Logger, cfg.Applications).RegisterRoutes(r)
		}
		if cfg.Permissions != nil {
			permissions.NewHandler(cfg.Logger, cfg.Permissions).RegisterRoutes(r)
		}
		if cfg.Responsibles != nil {
			responsibles.NewHandler(cfg.Logger, cfg.Responsibles).RegisterRoutes(r)
		}
		if cfg.UserPermissions != nil {
			userpermissions.NewHandler(cfg.Logger, cfg.UserPermissions).RegisterRoutes(r)
		}
	})

	return r
}
