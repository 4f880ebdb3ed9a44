package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrator applies the embedded schema migrations with goose.
type Migrator struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewMigrator(db *sql.DB, logger *slog.Logger) (*Migrator, error) {
	if db == nil {
		return nil, errors.New("nil database handle provided")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{db: db, logger: logger}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	if err := configureGoose(); err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	m.logger.Info("applying migrations")
	if err := goose.UpContext(runCtx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	m.logger.Info("migrations applied")
	return nil
}

// Status prints applied and pending migrations through goose's logger.
func (m *Migrator) Status() error {
	if err := configureGoose(); err != nil {
		return err
	}
	if err := goose.Status(m.db, migrationsDir); err != nil {
		return fmt.Errorf("migration status: %w", err)
	}
	return nil
}

// Down rolls back the latest migration, or down to targetVersion when it is positive.
func (m *Migrator) Down(ctx context.Context, targetVersion int64) error {
	if err := configureGoose(); err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if targetVersion > 0 {
		m.logger.Info("rolling back migrations", slog.Int64("target", targetVersion))
		if err := goose.DownToContext(runCtx, m.db, migrationsDir, targetVersion); err != nil {
			return fmt.Errorf("rollback to version %d: %w", targetVersion, err)
		}
		return nil
	}

	m.logger.Info("rolling back latest migration")
	if err := goose.DownContext(runCtx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("rollback latest migration: %w", err)
	}
	return nil
}

func configureGoose() error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("configure goose: %w", err)
	}
	return nil
}
