package database

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies the catalog schema found in migrationsPath.
func RunMigrations(dsn string, migrationsPath string) error {
	source, err := sourceURL(migrationsPath)
	if err != nil {
		return err
	}
	m, err := migrate.New(source, dsn)
	if err != nil {
		return fmt.Errorf("migration init: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Printf("database: close migrator: %v", errors.Join(srcErr, dbErr))
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration version %d is dirty", version)
	}
	log.Printf("database: catalog schema at version %d", version)
	return nil
}

// sourceURL turns a migrations directory into an absolute file:// URL.
func sourceURL(migrationsPath string) (string, error) {
	if migrationsPath == "" {
		return "", errors.New("migrations path is empty")
	}
	abs, err := filepath.Abs(migrationsPath)
	if err != nil {
		return "", fmt.Errorf("resolve migrations path: %w", err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}
