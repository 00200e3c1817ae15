package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cargoline/cargoline-api/internal/config"
	"github.com/cargoline/cargoline-api/internal/domain/premium"
	"github.com/cargoline/cargoline-api/internal/pkg/database"
	"github.com/cargoline/cargoline-api/internal/pkg/logger"
)

// One-shot premium expiry sweep, for cron-style deployments where the
// in-process worker is disabled.
func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	repo := premium.NewRepository(db)
	records, listings, err := repo.ExpireStale(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Premium expiry sweep failed")
	}

	log.Info().
		Int64("records", records).
		Int64("listings", listings).
		Msg("Premium expiry sweep finished")
}
