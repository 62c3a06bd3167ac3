// cmd/analyst-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"analyst-agent/internal/agent"
	"analyst-agent/internal/common/config"
	"analyst-agent/internal/common/database"
	"analyst-agent/internal/common/logger"
	"analyst-agent/internal/common/observability"
	"analyst-agent/internal/courtdata"
	"analyst-agent/internal/dataset"
	"analyst-agent/internal/pipeline"
	"analyst-agent/internal/server"
)

// retryWithBackoff attempts an operation with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting analyst server",
		zap.String("environment", cfg.App.Environment),
		zap.String("address", cfg.Server.Address),
	)

	obs := observability.New("analyst-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Court data warehouse (optional) ---
	var courtTool *courtdata.Tool
	if cfg.Database.Postgres.Host != "" {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		courtTool = courtdata.NewTool(pg.DB, log)
		zapLog.Info("court data tool enabled")
	} else {
		zapLog.Warn("postgres not configured, court data tool disabled")
	}

	// --- Film dataset loader, optionally behind the Redis cache ---
	var loader dataset.TableLoader = dataset.NewLoader(cfg.Dataset, log)
	if cfg.Dataset.CacheEnabled {
		rdb, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			zapLog.Fatal("redis client failed", zap.Error(err))
		}
		defer rdb.Close()

		if err := rdb.Ping(ctx); err != nil {
			zapLog.Warn("redis unreachable, dataset cache disabled", zap.Error(err))
		} else {
			loader = dataset.NewCachedLoader(loader, rdb.Client, time.Duration(cfg.Dataset.CacheTTL)*time.Second, log)
			zapLog.Info("dataset cache enabled", zap.Int("ttlSeconds", cfg.Dataset.CacheTTL))
		}
	}

	films := pipeline.NewRunner(loader, log)
	router := agent.NewRouter(cfg.Router, log)
	app := agent.New(router, films, courtTool, obs, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.New(app, cfg.Server, log).Routes(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("http server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("server stopped")
}
