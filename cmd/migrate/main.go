package main

import (
	"flag"
	"log"

	"github.com/yukikurage/pms-api/internal/config"
	"github.com/yukikurage/pms-api/internal/database"
)

func main() {
	migrationsDir := flag.String("dir", "", "directory containing migration files (defaults to MIGRATIONS_DIR)")
	flag.Parse()

	action := "up"
	if flag.NArg() > 0 {
		action = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.DBDriver != config.DriverPostgres {
		log.Fatalf("SQL migrations support the postgres driver only, got %q", cfg.DBDriver)
	}

	dir := cfg.MigrationsDir
	if *migrationsDir != "" {
		dir = *migrationsDir
	}

	if err := database.RunMigrations(action, dir, cfg.MigrationURL()); err != nil {
		log.Fatalf("migration %s failed: %v", action, err)
	}

	log.Printf("migration %s completed", action)
}
