// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	RedisURL  string `env:"REDIS_URL"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// VoteWindow is how long after posting an article still accepts votes.
	VoteWindow time.Duration `env:"VOTE_WINDOW" default:"168h"` // 7 days

	// VoteScore is the score increment credited per distinct voter.
	VoteScore int64 `env:"VOTE_SCORE" default:"432"`

	// PageSize is the number of articles per listing page.
	PageSize int `env:"PAGE_SIZE" default:"25"`

	// GroupCacheTTL bounds the staleness of cached per-group rankings.
	GroupCacheTTL time.Duration `env:"GROUP_CACHE_TTL" default:"60s"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	if cfg.VoteWindow <= 0 {
		return fmt.Errorf("VOTE_WINDOW must be positive, got %s", cfg.VoteWindow)
	}
	if cfg.VoteScore <= 0 {
		return fmt.Errorf("VOTE_SCORE must be positive, got %d", cfg.VoteScore)
	}
	if cfg.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}
	if cfg.GroupCacheTTL <= 0 {
		return fmt.Errorf("GROUP_CACHE_TTL must be positive, got %s", cfg.GroupCacheTTL)
	}
	return nil
}
