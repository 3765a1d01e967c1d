package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every pending migration.
func (db *DB) Migrate(ctx context.Context) error {
	return db.runGoose(ctx, func(p *goose.Provider) error {
		results, err := p.Up(ctx)
		for _, r := range results {
			slog.InfoContext(ctx, "migration applied", "version", r.Source.Version, "duration", r.Duration)
		}
		return err
	})
}

// Rollback reverts the most recent migration.
func (db *DB) Rollback(ctx context.Context) error {
	return db.runGoose(ctx, func(p *goose.Provider) error {
		r, err := p.Down(ctx)
		if r != nil {
			slog.InfoContext(ctx, "migration rolled back", "version", r.Source.Version)
		}
		return err
	})
}

// MigrationStatus logs the state of every known migration.
func (db *DB) MigrationStatus(ctx context.Context) error {
	return db.runGoose(ctx, func(p *goose.Provider) error {
		statuses, err := p.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			slog.InfoContext(ctx, "migration", "version", s.Source.Version, "state", s.State, "applied_at", s.AppliedAt)
		}
		return nil
	})
}

func (db *DB) runGoose(ctx context.Context, fn func(p *goose.Provider) error) error {
	sqlDB := stdlib.OpenDBFromPool(db.pool)
	defer sqlDB.Close()

	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("opening embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, fsys)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}

	if err := fn(provider); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
