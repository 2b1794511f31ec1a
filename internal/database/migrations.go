package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"formrelay/internal/logger"
)

// Migrations applies the migrations found in dir to the database at url.
func Migrations(url, dir string) error {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return fmt.Errorf("database: open: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("database: migration driver: %w", err)
	}

	src, err := source.Open("file://" + dir)
	if err != nil {
		return fmt.Errorf("database: migration source: %w", err)
	}

	migration, err := migrate.NewWithInstance("file", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("database: migration init: %w", err)
	}
	defer migration.Close()

	if version, dirty, _ := migration.Version(); dirty {
		previous, err := previousVersion(src, version)
		if err != nil {
			return fmt.Errorf("database: dirty at version %d: %w", version, err)
		}
		logger.Warn("database is dirty, rolling back to previous version",
			zap.Uint("dirty_version", version), zap.Int("version", previous))
		if err := migration.Force(previous); err != nil {
			return fmt.Errorf("database: force migration version: %w", err)
		}
	}

	if err := migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("database: migrate up: %w", err)
	}
	logger.Info("migrations applied")
	return nil
}

// previousVersion returns the version applied before version, or NilVersion
// when version is the first migration. Forcing it makes Up re-run the
// migration that left the database dirty.
func previousVersion(src source.Driver, version uint) (int, error) {
	r, _, err := src.ReadUp(version)
	if err != nil {
		return 0, fmt.Errorf("migration %d not found in source: %w", version, err)
	}
	r.Close()

	prev, err := src.Prev(version)
	if errors.Is(err, os.ErrNotExist) {
		return migratedb.NilVersion, nil
	}
	if err != nil {
		return 0, err
	}
	return int(prev), nil
}
