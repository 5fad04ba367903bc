// Package main is the entry point for the FAZAN.CLOUD storefront server.
// FAZAN.CLOUD is a vape shop storefront with an AI consultant, behavior
// analytics and an owner moderation console.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/narama3535-tech/fazancloud/internal/ai"
	"github.com/narama3535-tech/fazancloud/internal/cache/memory"
	"github.com/narama3535-tech/fazancloud/internal/cache/redis"
	"github.com/narama3535-tech/fazancloud/internal/config"
	"github.com/narama3535-tech/fazancloud/internal/geo"
	"github.com/narama3535-tech/fazancloud/internal/handler"
	"github.com/narama3535-tech/fazancloud/internal/metrics"
	"github.com/narama3535-tech/fazancloud/internal/repository"
	"github.com/narama3535-tech/fazancloud/internal/repository/postgres"
	"github.com/narama3535-tech/fazancloud/internal/repository/sqlite"
	"github.com/narama3535-tech/fazancloud/internal/scrape"
	"github.com/narama3535-tech/fazancloud/internal/service"
	"github.com/narama3535-tech/fazancloud/internal/session"
	"github.com/narama3535-tech/fazancloud/internal/storage"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)
	logger := setupLogger(cfg.Logging)

	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("starting FAZAN.CLOUD server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
	logger.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	// Database. The storefront runs fully on embedded SQLite; a
	// postgres deployment moves the user directory into PostgreSQL
	// and keeps the rest embedded.
	db, err := sqlite.NewDB(ctx, sqliteConfig(cfg.Database), logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	repos := sqlite.NewRepositories(db)

	if !cfg.Database.IsEmbedded() {
		pgdb, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		defer pgdb.Close()
		if err := pgdb.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate postgres: %w", err)
		}
		repos.User = postgres.NewUserRepository(pgdb)
	}

	// Cache backs sessions and visual search jobs.
	var cache repository.Cache
	if cfg.Redis.Enabled {
		redisCache, err := redis.NewCache(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisCache.Close()
		cache = redisCache
	} else {
		memCache := memory.NewCache()
		defer memCache.Stop()
		cache = memCache
	}

	images, err := imageStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize image storage: %w", err)
	}

	// Outbound clients.
	gateway := ai.NewGateway(cfg.AI, logger)
	visual := ai.NewVisualSearcher(gateway, cache, cfg.AI.VisualSearchTimeout, cfg.AI.VisualJobTTL, logger)
	geoClient := geo.NewClient(cfg.Geo, logger)
	scraper := scrape.NewTelegramScraper(cfg.Scrape, logger)

	// Services.
	audit := service.NewAuditService(repos.Log, logger)
	tracking := service.NewTrackingService(repos.User, logger)
	defer tracking.Stop()

	authService := service.NewAuthService(repos.User, audit, tracking, logger)
	catalog := service.NewCatalogService(repos.Product, images, scraper, audit, logger)
	comments := service.NewCommentService(repos.Comment, audit, logger)
	chat := service.NewChatService(repos.Chat, repos.Product, gateway, logger)
	admin := service.NewAdminService(repos.User, repos.KV, audit, tracking, logger)
	aiService := service.NewAIService(gateway, visual, repos.User, repos.Log, repos.Product, logger)

	if err := catalog.Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	sessions := session.NewStore(cache, cfg.Session.TTL)
	mw := handler.NewMiddleware(sessions, authService, admin, cfg.Session.CookieName, logger)

	router := handler.NewRouter(handler.RouterConfig{
		AuthHandler:    handler.NewAuthHandler(authService, sessions, geoClient, cfg.Session.CookieName, cfg.Session.CookieSecure, logger),
		CatalogHandler: handler.NewCatalogHandler(catalog, tracking, logger),
		CommentHandler: handler.NewCommentHandler(comments, logger),
		ChatHandler:    handler.NewChatHandler(chat, logger),
		AIHandler:      handler.NewAIHandler(aiService, logger),
		AdminHandler:   handler.NewAdminHandler(admin, audit, logger),
		SiteHandler:    handler.NewSiteHandler(admin, tracking, logger),
		Middleware:     mw,
		Database:       db,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Metrics.Port),
			Handler: metricsMux(cfg.Metrics.Path),
		}
		go func() {
			logger.Info().Str("addr", metricsServer.Addr).Msg("metrics server listening")
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown failed")
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown failed")
		}
	}
	return nil
}

func sqliteConfig(cfg config.DatabaseConfig) sqlite.Config {
	sc := sqlite.DefaultConfig(cfg.Path)
	if cfg.JournalMode != "" {
		sc.JournalMode = cfg.JournalMode
	}
	if cfg.BusyTimeout > 0 {
		sc.BusyTimeout = cfg.BusyTimeout
	}
	if cfg.SynchronousMode != "" {
		sc.SynchronousMode = cfg.SynchronousMode
	}
	return sc
}

func imageStore(ctx context.Context, cfg config.StorageConfig) (storage.ImageStore, error) {
	switch cfg.Backend {
	case "s3":
		return storage.NewS3Store(ctx, cfg.S3)
	default:
		return storage.NewFilesystemStore(cfg.DataDir)
	}
}

func metricsMux(path string) http.Handler {
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())
	return mux
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	logger := log.Logger.Level(level)
	if cfg.Format == "console" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return logger
}
