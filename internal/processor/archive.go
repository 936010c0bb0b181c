package processor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udisondev/woomy/internal/config"
	"github.com/udisondev/woomy/internal/db"
)

// OpenArchive connects to the record archive and applies migrations.
// With the archive disabled it returns a nil Archive and a no-op close.
func OpenArchive(ctx context.Context, cfg config.DatabaseConfig) (Archive, func(), error) {
	if !cfg.Enabled {
		return nil, func() {}, nil
	}

	database, err := db.New(ctx, cfg.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	slog.Info("database connected", "host", cfg.Host, "dbname", cfg.DBName)

	if err := db.RunMigrations(ctx, cfg.DSN()); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	return database.Records(), database.Close, nil
}
