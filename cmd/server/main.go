package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mbeckner/voteboard/internal/app"
	"github.com/mbeckner/voteboard/internal/config"
	"github.com/mbeckner/voteboard/internal/httpserver"
	"github.com/mbeckner/voteboard/internal/logging"
	"github.com/mbeckner/voteboard/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupRedis(cfg *config.Config) *goredis.Client {
	rdb, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to create redis client", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}

	return rdb
}

func runGracefulShutdown(srv *httpserver.Server, rdb *goredis.Client) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		if err := rdb.Close(); err != nil {
			slog.Error("Failed to close redis client", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	cfg := setupConfig()
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	rdb := setupRedis(cfg)

	board := redis.NewBoardRepo(rdb, clockwork.NewRealClock(), redis.Options{
		VoteWindow:    cfg.VoteWindow,
		VoteScore:     cfg.VoteScore,
		PageSize:      cfg.PageSize,
		GroupCacheTTL: cfg.GroupCacheTTL,
	})
	service := app.NewService(board)

	healthChecks := []httpserver.HealthCheck{
		{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}},
	}

	srv := httpserver.NewServer(cfg.Port, service, healthChecks)
	done := runGracefulShutdown(srv, rdb)

	slog.Info("Starting server", "port", cfg.Port, "env", cfg.AppEnv)
	if err := srv.Start(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
	slog.Info("Shutdown complete")
}
