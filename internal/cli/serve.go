package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tendant/simple-access-slim/internal/cache"
	"github.com/tendant/simple-access-slim/internal/config"
	httpserver "github.com/tendant/simple-access-slim/internal/http"
	"github.com/tendant/simple-access-slim/pkg/auth"
	"github.com/tendant/simple-access-slim/pkg/repository"
	"github.com/tendant/simple-access-slim/pkg/service"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return err
	}

	dbCfg := databaseConfig(cfg)
	if cfg.AutoMigrate {
		if err := repository.MigrateUp(dbCfg); err != nil {
			logger.Error("failed to apply migrations", "error", err)
			return err
		}
		logger.Info("migrations applied")
	}

	// Connect to database
	db, err := repository.NewDB(dbCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return err
	}
	defer db.Close()

	if err := repository.ValidateSchema(ctx, db); err != nil {
		logger.Error("database schema check failed", "error", err)
		return err
	}
	logger.Info("connected to database")

	var opts []service.Option
	if cfg.HasRedis() {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			// Statistics still work uncached.
			logger.Warn("redis unavailable, statistics cache disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer rdb.Close()
			opts = append(opts, service.WithStatsCache(cache.NewRedisStatsCache(rdb,
				cache.WithTTL(cfg.StatsCacheTTL),
				cache.WithLogger(logger),
			)))
			logger.Info("statistics cache enabled", "addr", cfg.RedisAddr)
		}
	}

	// Initialize repositories
	applicationsRepo := repository.NewApplicationsRepository(db)
	responsiblesRepo := repository.NewResponsiblesRepository(db)
	permissionsRepo := repository.NewPermissionsRepository(db)
	userPermissionsRepo := repository.NewUserPermissionsRepository(db)

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret: []byte(cfg.JWTSecret),
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.AccessTokenTTL,
	})
	if err != nil {
		logger.Error("failed to initialize token service", "error", err)
		return err
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:          logger,
		TokenService:    tokens,
		Applications:    service.NewApplicationService(applicationsRepo, opts...),
		Responsibles:    service.NewResponsibleService(responsiblesRepo, opts...),
		Permissions:     service.NewPermissionService(permissionsRepo, applicationsRepo, opts...),
		UserPermissions: service.NewUserPermissionService(userPermissionsRepo, permissionsRepo, applicationsRepo, opts...),
		RateLimitConfig: cfg.RateLimit,
		SecurityHeaders: cfg.SecurityHeaders,
		Validation:      cfg.Validation,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			return fmt.Errorf("serve: %w", err)
		}
	}

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}
