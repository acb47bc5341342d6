package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-dashboard/internal/audit"
	"github.com/BruksfildServices01/barber-dashboard/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-dashboard/internal/db"
	"github.com/BruksfildServices01/barber-dashboard/internal/infra/repository"
	"github.com/BruksfildServices01/barber-dashboard/internal/logging"
	"github.com/BruksfildServices01/barber-dashboard/internal/metrics"
	"github.com/BruksfildServices01/barber-dashboard/internal/routes"
	"github.com/BruksfildServices01/barber-dashboard/internal/session"
)

func main() {
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = config.DefaultConfigFile
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Logs.Level)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// METRICS
	// ======================================================
	var m *metrics.Metrics
	var clientOpts []repository.Option
	if cfg.Metrics.Enabled {
		m = metrics.New()
		clientOpts = append(clientOpts, repository.WithObserver(m))
		logger.Info("metrics enabled", "path", cfg.Metrics.Path)
	}

	// ======================================================
	// AUDIT
	// ======================================================
	sink, auditDB, closeSink, err := buildAuditSink(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSink()
	dispatcher := audit.NewDispatcher(sink, logger)

	// ======================================================
	// BACKEND + SESSION
	// ======================================================
	authClient := repository.NewClient(cfg.Backend.URL, cfg.BackendTimeout(), nil, logger, clientOpts...)
	store := session.NewStore(repository.NewAuthHTTPClient(authClient), logger, nil)

	apiClient := repository.NewClient(cfg.Backend.URL, cfg.BackendTimeout(), store, logger, clientOpts...)
	repo := repository.NewAppointmentHTTPRepository(apiClient)

	logger.Info("backend configured",
		"url", cfg.Backend.URL,
		"timeout", cfg.BackendTimeout().String(),
		"poll_interval", cfg.PollInterval().String(),
	)

	// ======================================================
	// HTTP
	// ======================================================
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Dependencies{
		Config:      cfg,
		Logger:      logger,
		Sessions:    store,
		Repo:        repo,
		Audit:       dispatcher,
		Metrics:     m,
		AuditDB:     auditDB,
		BaseContext: ctx,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The process is going away: end the session the way a closed tab would.
	store.OnUnloading()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		logger.Warn("audit queue not drained", "error", err)
	}

	logger.Info("server stopped")
	return nil
}

// buildAuditSink picks the configured sink. For postgres it also returns the
// database so the audit log can be listed.
func buildAuditSink(ctx context.Context, cfg *config.Config, logger *slog.Logger) (audit.Sink, *gorm.DB, func(), error) {
	switch cfg.Audit.Sink {
	case "postgres":
		db, err := dbpkg.NewDB(cfg.Audit.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		logger.Info("audit sink: postgres")
		return audit.NewGormSink(db), db, closeFn, nil

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Audit.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		logger.Info("audit sink: redis", "addr", cfg.Audit.RedisAddr, "stream", cfg.Audit.RedisStream)
		return audit.NewRedisSink(client, cfg.Audit.RedisStream), nil, func() { _ = client.Close() }, nil

	default:
		logger.Info("audit sink: log")
		return audit.NewLogSink(logger), nil, func() {}, nil
	}
}
