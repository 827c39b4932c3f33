// Copyright (c) 2026 Byte. All rights reserved.

// Package migration runs the schema migrations under data/migrations at
// startup, before the server takes traffic.
//
// # Architecture
//
// This package belongs to the Infrastructure layer. Applying migrations is
// idempotent: a fully migrated database is a no-op, a partially applied
// (dirty) one refuses to start rather than guessing.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// file source reads .sql files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunUp applies all pending UP migrations from migrationsPath against dsn.
//
// # Parameters
//   - dsn: A libpq-compatible DSN or postgres:// URL.
//   - migrationsPath: Filesystem path to the migrations directory.
//   - logger: Structured logger for migration events.
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {
	log := logger.With(slog.String("component", "migration"))

	migrator, err := migrate.New("file://"+migrationsPath, pgx5URL(dsn))
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		sourceError, dbError := migrator.Close()
		if sourceError != nil {
			log.Error("schema_migration_source_close_failed", slog.Any("error", sourceError))
		}
		if dbError != nil {
			log.Error("schema_migration_db_close_failed", slog.Any("error", dbError))
		}
	}()

	// Route golang-migrate's own output through slog.
	migrator.Log = &slogBridge{logger: log}

	currentVersion, isDirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to read current version: %w", err)
	}

	// A dirty row means a previous run died mid-migration. Never auto-fix;
	// the operator has to inspect and force the version by hand.
	if isDirty {
		return fmt.Errorf("migration: schema is dirty at version %d, refusing to start", currentVersion)
	}

	log.Info("schema_migration_started",
		slog.String("path", migrationsPath),
		slog.Int("current_version", int(currentVersion)),
	)

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("schema_up_to_date", slog.Int("version", int(currentVersion)))
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	newVersion, _, _ := migrator.Version()
	log.Info("schema_migration_applied",
		slog.Int("from_version", int(currentVersion)),
		slog.Int("to_version", int(newVersion)),
	)

	return nil
}

// pgx5URL rewrites a postgres:// or postgresql:// URL to the pgx5://
// scheme that selects golang-migrate's pgx/v5 driver. Anything else is
// passed through untouched.
func pgx5URL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

// slogBridge adapts golang-migrate's logger interface to slog.
type slogBridge struct {
	logger  *slog.Logger
	verbose bool
}

// Printf implements migrate.Logger.
func (bridge *slogBridge) Printf(format string, args ...any) {
	bridge.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Verbose implements migrate.Logger.
func (bridge *slogBridge) Verbose() bool {
	return bridge.verbose
}
