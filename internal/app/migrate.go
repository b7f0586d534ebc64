package app

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/sporating/sporating/internal/config"
	"github.com/sporating/sporating/internal/platform/logging"
)

// runMigrations applies pending migrations at boot when DB_AUTO_MIGRATE is
// set. Deployments with a separate migration step leave it off and use
// cmd/migration instead.
func runMigrations(cfg config.Config, logger *logging.Logger) error {
	if !cfg.DBAutoMigrate || cfg.DBURL == "" {
		return nil
	}

	dir, err := filepath.Abs(cfg.MigrationsDir)
	if err != nil {
		return fmt.Errorf("resolve migrations dir %s: %w", cfg.MigrationsDir, err)
	}

	sourceURL := "file://" + filepath.ToSlash(dir)
	m, err := migrate.New(sourceURL, normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("close migration source", "error", srcErr)
		}
		if dbErr != nil {
			logger.Warn("close migration db", "error", dbErr)
		}
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("no migration changes")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}

	logger.Info("migrations applied", "source", sourceURL)
	return nil
}
