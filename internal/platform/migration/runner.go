// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the catalog schema with golang-migrate.
//
// The API runs [RunUp] at startup and `pagectl migrate` runs it on demand.
// Both refuse to touch a dirty schema.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Registers the pgx5:// database scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// Registers the file:// source scheme.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Version is the schema state recorded in schema_migrations.
type Version struct {
	Number uint
	Dirty  bool
	// Empty is set before the first migration ever ran.
	Empty bool
}

func (version Version) String() string {
	switch {
	case version.Empty:
		return "no migrations applied"
	case version.Dirty:
		return fmt.Sprintf("version %d (dirty)", version.Number)
	}
	return fmt.Sprintf("version %d", version.Number)
}

// RunUp applies every pending migration in migrationsPath.
func RunUp(dsn, migrationsPath string, logger *slog.Logger) error {
	return withMigrator(dsn, migrationsPath, logger, func(migrator *migrate.Migrate) error {
		before, err := current(migrator)
		if err != nil {
			return err
		}
		if before.Dirty {
			return fmt.Errorf("migration: schema is dirty at version %d, fix it by hand before migrating", before.Number)
		}

		logger.Info("migration_started", slog.String("schema", before.String()))

		if err := migrator.Up(); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				logger.Info("migration_already_up_to_date")
				return nil
			}
			return fmt.Errorf("migration: up failed: %w", err)
		}

		after, err := current(migrator)
		if err != nil {
			return err
		}
		logger.Info("migration_successful",
			slog.Uint64("from_version", uint64(before.Number)),
			slog.Uint64("to_version", uint64(after.Number)),
		)
		return nil
	})
}

// Status reports the recorded schema version without migrating.
func Status(dsn, migrationsPath string, logger *slog.Logger) (Version, error) {
	var version Version
	err := withMigrator(dsn, migrationsPath, logger, func(migrator *migrate.Migrate) error {
		var err error
		version, err = current(migrator)
		return err
	})
	return version, err
}

func withMigrator(dsn, migrationsPath string, logger *slog.Logger, fn func(*migrate.Migrate) error) error {
	migrator, err := migrate.New(sourceURL(migrationsPath), databaseURL(dsn))
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	migrator.Log = &slogBridge{logger: logger}

	defer func() {
		sourceErr, databaseErr := migrator.Close()
		if err := errors.Join(sourceErr, databaseErr); err != nil {
			logger.Warn("migration_close_failed", slog.Any("error", err))
		}
	}()

	return fn(migrator)
}

func current(migrator *migrate.Migrate) (Version, error) {
	number, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Version{Empty: true}, nil
	}
	if err != nil {
		return Version{}, fmt.Errorf("migration: failed to read version: %w", err)
	}
	return Version{Number: number, Dirty: dirty}, nil
}

// databaseURL rewrites postgres URLs to the pgx5 scheme golang-migrate expects.
// Keyword DSNs pass through unchanged.
func databaseURL(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, found := strings.CutPrefix(dsn, prefix); found {
			return "pgx5://" + rest
		}
	}
	return dsn
}

func sourceURL(migrationsPath string) string {
	return "file://" + filepath.ToSlash(filepath.Clean(migrationsPath))
}

// slogBridge forwards golang-migrate's printf logging at debug level.
type slogBridge struct {
	logger *slog.Logger
}

func (bridge *slogBridge) Printf(format string, args ...any) {
	bridge.logger.Debug("migration_log", slog.String("message", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (bridge *slogBridge) Verbose() bool {
	return bridge.logger.Enabled(context.Background(), slog.LevelDebug)
}
