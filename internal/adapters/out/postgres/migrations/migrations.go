// Package migrations applies the embedded goose migrations to PostgreSQL.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	// Registers the "postgres" database/sql driver used by goose.
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var files embed.FS

const dir = "sql"

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB) error {
	if err := configure(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// Reset rolls back every applied migration.
func Reset(ctx context.Context, db *sql.DB) error {
	if err := configure(); err != nil {
		return err
	}
	if err := goose.ResetContext(ctx, db, dir); err != nil {
		return fmt.Errorf("goose reset: %w", err)
	}
	return nil
}

// Apply connects with lib/pq, applies migrations and closes the connection.
// The service itself talks to PostgreSQL through GORM.
func Apply(ctx context.Context, dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	if err = db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping migration connection: %w", err)
	}
	return Up(ctx, db)
}

func configure() error {
	goose.SetBaseFS(files)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}
