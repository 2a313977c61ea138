package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// RunMigrations applies every goose migration from files against db.
//
// Versioning is disabled: no goose_db_version table is kept and every
// migration runs on each call, so a dropped table is recreated on the next
// startup. Migrations must therefore be idempotent (IF NOT EXISTS).
func RunMigrations(ctx context.Context, db *sql.DB, files fs.FS) error {
	_, err := Up(ctx, db, files)
	return err
}

// Up is RunMigrations that also reports how many migrations were run.
func Up(ctx context.Context, db *sql.DB, files fs.FS) (int, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, files,
		goose.WithDisableVersioning(true),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to up migrations: %w", err)
	}
	return len(results), nil
}
