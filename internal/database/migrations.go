package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/yukikurage/pms-api/internal/logger"
)

// RunMigrations applies the SQL migrations in dir to the postgres database
// at databaseURL. Supported actions are up, down, drop and version.
func RunMigrations(action, dir, databaseURL string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve path for %s: %w", dir, err)
	}
	absDir = filepath.ToSlash(absDir)

	m, err := migrate.New(fmt.Sprintf("file://%s", absDir), databaseURL)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	ctx := context.Background()
	switch action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		return nil
	case "drop":
		return m.Drop()
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			if errors.Is(err, migrate.ErrNilVersion) {
				logger.InfoLog(ctx, "no migration applied")
				return nil
			}
			return err
		}
		logger.InfoLog(ctx, "version=%d dirty=%t", version, dirty)
		return nil
	default:
		return fmt.Errorf("unsupported action %q", action)
	}
}
