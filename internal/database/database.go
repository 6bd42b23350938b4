package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/yukikurage/pms-api/internal/config"
	"github.com/yukikurage/pms-api/internal/logger"
	"github.com/yukikurage/pms-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens a gorm connection for the configured driver.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.DSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.DSN()))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.DBDriver == config.DriverSQLite {
		if err := configureSQLite(db); err != nil {
			return nil, err
		}
	}

	logger.InfoLog(context.Background(), "Database connection established (driver=%s)", cfg.DBDriver)
	return db, nil
}

// OpenSQLite opens a sqlite database with foreign keys enforced. ":memory:"
// yields a private in-memory database.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	return Connect(&config.Config{
		DBDriver: config.DriverSQLite,
		DBDSN:    dsn,
		LogLevel: "error",
	})
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// configureSQLite pins the pool to one connection so an in-memory database
// survives and writes serialize, then turns on FK enforcement for it.
func configureSQLite(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return fmt.Errorf("failed to enable sqlite foreign keys: %w", err)
	}
	return nil
}

// AutoMigrate creates or updates the schema from the gorm models, including
// the ON DELETE rules declared in their constraint tags.
func AutoMigrate(db *gorm.DB) error {
	logger.InfoLog(context.Background(), "Running database auto-migration...")
	err := db.AutoMigrate(
		&models.User{},
		&models.Employee{},
		&models.Project{},
		&models.Task{},
		&models.Timesheet{},
		&models.Timelog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.InfoLog(context.Background(), "Database auto-migration completed")
	return nil
}

// Ping checks that the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}
