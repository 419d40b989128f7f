// Package access provides a multi-tenant access catalog that can be embedded
// in another service: applications, their permissions, tenant-scoped
// responsibles and user permission grants, all with soft-delete lifecycles.
//
// Setup:
//
//  1. Apply the schema (simple-access migrate up, or set Config.Migrate)
//  2. Create an Access instance and mount its router
//
// Basic usage:
//
//	db, _ := sql.Open("postgres", "postgres://localhost/myapp?sslmode=disable")
//
//	acc, err := access.New(access.Config{
//	    DB:        db,
//	    JWTSecret: "your-secret-key-at-least-32-chars",
//	})
//	if err != nil {
//	    log.Fatal(err) // Will fail if migrations haven't been run
//	}
//
//	r := chi.NewRouter()
//	r.Mount("/access", acc.Router())
//	http.ListenAndServe(":8080", r)
//
// Routes are served under /v1 relative to the mount point and require a
// bearer token carrying a tenant_id claim; see Access.IssueToken.
package access

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tendant/simple-access-slim/internal/config"
	httpserver "github.com/tendant/simple-access-slim/internal/http"
	"github.com/tendant/simple-access-slim/internal/http/middleware"
	"github.com/tendant/simple-access-slim/pkg/auth"
	"github.com/tendant/simple-access-slim/pkg/repository"
	"github.com/tendant/simple-access-slim/pkg/service"
)

// Config holds the configuration for the access library.
type Config struct {
	// DB is the database connection (required).
	DB *sql.DB

	// JWTSecret is the secret key for verifying tokens (required, min 32 chars).
	JWTSecret string

	// JWTIssuer is the issuer claim in JWT tokens (default: "simple-access").
	JWTIssuer string

	// AccessTokenTTL is the lifetime of issued tokens (default: 15 minutes).
	AccessTokenTTL time.Duration

	// StatsCache caches statistics (optional).
	StatsCache service.StatsCache

	// Logger is the structured logger (default: JSON to stdout).
	Logger *slog.Logger
}

// Access is the main access catalog instance.
type Access struct {
	config          Config
	tokens          *auth.TokenService
	applications    *service.ApplicationService
	responsibles    *service.ResponsibleService
	permissions     *service.PermissionService
	userPermissions *service.UserPermissionService
}

// New creates a new Access instance with the given configuration.
// Returns an error if required database tables don't exist.
func New(cfg Config) (*Access, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := repository.ValidateSchema(ctx, cfg.DB); err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.AccessTokenTTL,
	})
	if err != nil {
		return nil, err
	}

	var opts []service.Option
	if cfg.StatsCache != nil {
		opts = append(opts, service.WithStatsCache(cfg.StatsCache))
	}

	applicationsRepo := repository.NewApplicationsRepository(cfg.DB)
	permissionsRepo := repository.NewPermissionsRepository(cfg.DB)

	return &Access{
		config:          cfg,
		tokens:          tokens,
		applications:    service.NewApplicationService(applicationsRepo, opts...),
		responsibles:    service.NewResponsibleService(repository.NewResponsiblesRepository(cfg.DB), opts...),
		permissions:     service.NewPermissionService(permissionsRepo, applicationsRepo, opts...),
		userPermissions: service.NewUserPermissionService(repository.NewUserPermissionsRepository(cfg.DB), permissionsRepo, applicationsRepo, opts...),
	}, nil
}

// Router returns a chi router with all /v1 routes and /health. Metrics are
// left to the host.
func (a *Access) Router() chi.Router {
	r := chi.NewRouter()
	r.Mount("/", a.Handler())
	return r
}

// Handler returns the API as a plain http.Handler:
//
//	mux := http.NewServeMux()
//	mux.Handle("/access/", http.StripPrefix("/access", acc.Handler()))
func (a *Access) Handler() http.Handler {
	return httpserver.NewRouter(httpserver.RouterConfig{
		Logger:          a.config.Logger,
		TokenService:    a.tokens,
		Applications:    a.applications,
		Responsibles:    a.responsibles,
		Permissions:     a.permissions,
		UserPermissions: a.userPermissions,
		SecurityHeaders: config.SecurityHeadersConfig{Enabled: true, ContentTypeOptions: "nosniff"},
		DisableMetrics:  true,
	})
}

// AuthMiddleware returns middleware that validates access tokens.
// Use this to protect your own routes:
//
//	r.Group(func(r chi.Router) {
//	    r.Use(acc.AuthMiddleware())
//	    r.Get("/protected", handler)
//	})
func (a *Access) AuthMiddleware() func(http.Handler) http.Handler {
	return middleware.Auth(a.tokens)
}

// IssueToken issues an access token for subject acting in tenantID.
func (a *Access) IssueToken(subject, tenantID string) (*auth.Token, error) {
	return a.tokens.Issue(subject, tenantID)
}

// GetTenantID extracts the tenant ID from a request.
// Use after AuthMiddleware.
func GetTenantID(r *http.Request) (string, bool) {
	return middleware.GetTenantID(r.Context())
}

// Check reports whether userID holds the live permission permissionCode of
// the application applicationName within tenantID.
func (a *Access) Check(ctx context.Context, tenantID, userID, applicationName, permissionCode string) (bool, error) {
	return a.userPermissions.Check(ctx, tenantID, userID, applicationName, permissionCode)
}

// Applications returns the application service for direct use.
func (a *Access) Applications() *service.ApplicationService { return a.applications }

// Responsibles returns the responsible service for direct use.
func (a *Access) Responsibles() *service.ResponsibleService { return a.responsibles }

// Permissions returns the permission service for direct use.
func (a *Access) Permissions() *service.PermissionService { return a.permissions }

// UserPermissions returns the grant service for direct use.
func (a *Access) UserPermissions() *service.UserPermissionService { return a.userPermissions }

func validateConfig(cfg *Config) error {
	if cfg.DB == nil {
		return errors.New("access: DB is required")
	}
	if cfg.JWTSecret == "" {
		return errors.New("access: JWTSecret is required")
	}
	if len(cfg.JWTSecret) < auth.MinSecretLength {
		return errors.New("access: JWTSecret must be at least 32 characters")
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "simple-access"
	}
	if cfg.AccessTokenTTL == 0 {
		cfg.AccessTokenTTL = auth.DefaultAccessTokenTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
}
