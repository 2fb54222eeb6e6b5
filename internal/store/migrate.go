package store

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"plexus/internal/util"
	"plexus/pkg/logger"
)

// RunMigrations applies pending schema migrations from MIGRATIONS_PATH
// (default ./migrations) against DATABASE_URL. A database that is
// already up to date is not an error.
func RunMigrations() error {
	path := util.GetEnvString("MIGRATIONS_PATH", "./migrations")
	m, err := migrate.New("file://"+path, util.GetEnv("DATABASE_URL"))
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Debug("No schema changes to apply")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Schema migrations applied", "path", path)
	return nil
}
