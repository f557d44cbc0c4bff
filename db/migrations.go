package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations
var fs embed.FS

// Migrate applies every pending migration for the given driver
func Migrate(driver string, dsn string) error {
	m, err := newMigrate(driver, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	log.WithFields(log.Fields{"driver": driver}).Info("Running migrations")

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Rollback reverts the most recent migration
func Rollback(driver string, dsn string) error {
	m, err := newMigrate(driver, dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	log.WithFields(log.Fields{"driver": driver}).Info("Rolling back last migration")

	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	return nil
}

func newMigrate(driver string, dsn string) (*migrate.Migrate, error) {
	var url string
	switch driver {
	case DriverSQLite:
		url = "sqlite://" + dsn
	case DriverPostgres:
		url = dsn
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	// Create a new source instance using the embedded migrations
	d, err := iofs.New(fs, "migrations/"+driver)
	if err != nil {
		return nil, err
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, url)
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return m, nil
}
