package repository

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/contactbox/backend/internal/repository/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// MigrationCommands lists the goose commands cmd/migrate accepts.
var MigrationCommands = []string{"up", "down", "status", "reset", "version"}

// gooseRunContext is a seam for testing goose.RunContext.
var gooseRunContext = func(ctx context.Context, command string, db *sql.DB, dir string, args ...string) error {
	return goose.RunContext(ctx, command, db, dir, args...)
}

// Migrate applies every pending embedded migration.
func Migrate(ctx context.Context, connString string) error {
	return RunMigration(ctx, connString, "up")
}

// RunMigration runs one goose command against the embedded migrations.
func RunMigration(ctx context.Context, connString, command string) error {
	if !slices.Contains(MigrationCommands, command) {
		return fmt.Errorf("unknown migration command %q", command)
	}

	db, err := sql.Open("pgx", connString)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := gooseRunContext(ctx, command, db, "."); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}
