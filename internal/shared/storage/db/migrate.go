package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"jobmatch-backend/internal/shared/telemetry"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies the embedded report schema migrations via goose. A nil
// database is a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, database, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	telemetry.Info("db.migrations_applied", nil)
	return nil
}
