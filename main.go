package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"short-link/internal/cache"
	"short-link/internal/config"
	"short-link/internal/controllers"
	"short-link/internal/database"
	"short-link/internal/logger"
	"short-link/internal/oauth"
	"short-link/internal/repository"
	"short-link/internal/router"
	"short-link/internal/service"
	"short-link/internal/session"
	"short-link/internal/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.AppEnv); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("name", cfg.AppName),
		zap.String("env", cfg.AppEnv),
	)

	if err := run(cfg); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
	logger.Info("Server stopped gracefully")
}

// run wires the service and serves until SIGINT or SIGTERM. Deferred cleanup
// runs on every return path.
func run(cfg *config.Config) error {
	if cfg.OTelEnabled {
		shutdownTracer, err := telemetry.InitTracer(context.Background(), cfg.OTelEndpoint, cfg.AppName)
		if err != nil {
			logger.Warn("Failed to initialize tracer, continuing without tracing", zap.Error(err))
		} else {
			logger.Info("OpenTelemetry tracer initialized", zap.String("endpoint", cfg.OTelEndpoint))
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdownTracer(ctx)
			}()
		}
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Redis is optional; without it links are not cached and sessions stay in memory
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.Warn("Failed to connect to Redis, continuing without cache", zap.Error(err))
			cacheClient = nil
		} else {
			logger.Info("Connected to Redis cache")
			defer func() { _ = cacheClient.Close() }()
		}
	} else {
		logger.Warn("REDIS_URL not set, continuing without cache")
	}

	var sessions session.Store
	if cfg.SessionBackend == config.SessionBackendRedis && cacheClient != nil {
		sessions = session.NewRedisStore(cacheClient, cfg.SessionTTL)
	} else {
		if cfg.SessionBackend == config.SessionBackendRedis {
			logger.Warn("Redis unavailable, falling back to in-memory sessions")
		}
		sessions = session.NewMemoryStore(cfg.SessionTTL)
	}

	// Repositories and services
	linkRepo := repository.NewLinkRepository(db)
	userRepo := repository.NewUserRepository(db)

	providers := oauth.NewRegistry(
		oauth.NewGitHub(cfg.GitHubClientID),
		oauth.NewWeChat(cfg.WxAppID),
	)
	linkService := service.NewLinkService(linkRepo, cacheClient, cfg.LinkCacheTTL)
	userService := service.NewUserService(userRepo, providers)

	states, err := oauth.NewStateSigner(cfg.OAuthStateKey)
	if err != nil {
		return fmt.Errorf("failed to initialize oauth state signer: %w", err)
	}
	if cfg.OAuthStateKey == "" {
		logger.Warn("OAUTH_STATE_SECRET not set, using a random key for this process")
	}

	routes, err := router.New(cfg, router.Dependencies{
		Sessions: sessions,
		Links:    controllers.NewLinkController(linkService),
		Auth:     controllers.NewAuthController(userService, sessions, states, cfg.BaseURL, cfg.FrontendURL),
		QRCode:   controllers.NewQRCodeController(cfg.BaseURL),
		Health:   controllers.NewHealthController(db, cacheClient),
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	defer routes.Close()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      routes,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", zap.Error(err))
		}
	}()

	logger.Info("Server starting",
		zap.String("port", cfg.Port),
		zap.String("base_url", cfg.BaseURL),
		zap.String("session_backend", cfg.SessionBackend),
	)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-shutdownDone
	return nil
}
