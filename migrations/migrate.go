// Package migrations embeds the schema and applies it with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

var errNilDB = errors.New("db is nil")

func setup(db *sql.DB) error {
	if db == nil {
		return errNilDB
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	return nil
}

// Up applies all pending migrations.
func Up(ctx context.Context, db *sql.DB) error {
	if err := setup(db); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}

// Status logs applied and pending migrations through goose's logger.
func Status(ctx context.Context, db *sql.DB) error {
	if err := setup(db); err != nil {
		return err
	}

	if err := goose.StatusContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migration status: %w", err)
	}

	return nil
}

// Down rolls back the latest migration, or down to targetVersion when it is positive.
func Down(ctx context.Context, db *sql.DB, targetVersion int64) error {
	if err := setup(db); err != nil {
		return err
	}

	if targetVersion > 0 {
		if err := goose.DownToContext(ctx, db, ".", targetVersion); err != nil {
			return fmt.Errorf("rollback to version %d: %w", targetVersion, err)
		}
		return nil
	}

	if err := goose.DownContext(ctx, db, "."); err != nil {
		return fmt.Errorf("rollback latest migration: %w", err)
	}

	return nil
}
