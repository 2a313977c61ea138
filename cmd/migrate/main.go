// Command migrate applies the items schema and exits. The API server runs the
// same migrations at startup; this is for deploy pipelines that prefer a
// separate step.
package main

import (
	"context"
	"log/slog"
	"os"

	itemMigrations "github.com/ghuser/itemsapi/migrations/item"
	"github.com/ghuser/itemsapi/pkg/config"
	"github.com/ghuser/itemsapi/pkg/database"
	"github.com/ghuser/itemsapi/pkg/logger"
	"github.com/ghuser/itemsapi/pkg/migrator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)
	ctx := context.Background()

	pool, err := database.NewPool(ctx, database.PoolConfig{
		URL:         cfg.DatabaseURL(),
		MaxConns:    cfg.DBMaxConns,
		IdleTimeout: cfg.DBIdleTimeout,
	}, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	applied, err := migrator.Up(ctx, pool.DB(), itemMigrations.MigrationsFS)
	if err != nil {
		log.Error("migration failed", "error", err)
		pool.Close()
		os.Exit(1) //nolint:gocritic
	}
	log.Info("migrations complete", "applied", applied)
}
