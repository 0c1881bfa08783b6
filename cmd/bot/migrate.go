package main

import (
	"log/slog"

	"github.com/edgard/botkit/internal/config"
	"github.com/edgard/botkit/internal/database"
	"github.com/edgard/botkit/internal/logger"
)

// runMigrate opens the configured store, which applies pending migrations,
// and closes it again.
func runMigrate(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", configPath, "error", err)
		return err
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)

	db, err := database.NewDB(cfg.Database)
	if err != nil {
		log.Error("Failed to apply migrations", "provider", cfg.Database.Provider, "error", err)
		return err
	}
	database.CloseDB(db)

	log.Info("Migrations applied", "provider", cfg.Database.Provider)
	return nil
}
