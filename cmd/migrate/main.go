package main

// Run database migrations:
//   go run ./cmd/migrate            apply pending migrations
//   go run ./cmd/migrate -down      revert the last migration
//   go run ./cmd/migrate -version   print the applied schema version

import (
	"context"
	"flag"
	"log"
	"os"

	"interview-backend/internal/shared/config"
	"interview-backend/internal/shared/storage/db"
)

func main() {
	down := flag.Bool("down", false, "Revert the most recent migration")
	version := flag.Bool("version", false, "Print the applied schema version and exit")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	switch {
	case *version:
		v, err := db.SchemaVersion(ctx, sqlDB)
		if err != nil {
			log.Printf("failed to read schema version: %v", err)
			os.Exit(1)
		}
		log.Printf("schema version %d", v)
	case *down:
		if err := db.RollbackLast(ctx, sqlDB); err != nil {
			log.Printf("failed to roll back migration: %v", err)
			os.Exit(1)
		}
	default:
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			log.Printf("failed to run migrations: %v", err)
			os.Exit(1)
		}
	}
}
