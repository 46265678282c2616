package main

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/moodtune/moodtune/internal/repositories"
	"github.com/moodtune/moodtune/internal/session"
	"github.com/moodtune/moodtune/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var db *sql.DB
	var sessionRepo session.Persister
	var cacheRepo *repositories.RecommendationCacheRepository

	if opened, err := shared.NewDatabase(config.Database.Path); err != nil {
		logger.Warn("database unavailable, session will not persist", "error", err)
	} else {
		db = opened
		defer db.Close()
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		sessionRepo = repositories.NewSessionRepository(db)
		cacheRepo = repositories.NewRecommendationCacheRepository(db)
	}

	runner := NewRunner(RunnerOpts{
		Config:      config,
		SessionRepo: sessionRepo,
		CacheRepo:   cacheRepo,
		Logger:      logger,
	})

	app := &cli.Command{
		Name:     "moodtune",
		Usage:    "Emotion-based music recommendations from your terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrUnauthorized) || errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Fatalf("not authenticated: run 'moodtune auth login' first (%v)", err)
		}
		logger.Fatalf("application error: %v", err)
	}
}
