package main

// Seed roles and learning resources from a YAML catalog:
//   go run ./cmd/seed -file cmd/seed/catalog.example.yaml

import (
	"context"
	"flag"
	"log"
	"os"

	"interview-backend/internal/resources"
	"interview-backend/internal/roles"
	"interview-backend/internal/shared/config"
	"interview-backend/internal/shared/storage/db"
)

func main() {
	file := flag.String("file", "cmd/seed/catalog.example.yaml", "Path to the YAML catalog")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	cat, err := loadCatalog(*file)
	if err != nil {
		log.Printf("load catalog: %v", err)
		os.Exit(1)
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	rolesSvc := &roles.Service{Repo: &roles.PGRepo{DB: sqlDB}}
	resourcesSvc := &resources.Service{Repo: &resources.PGRepo{DB: sqlDB}}

	nRoles, nResources, err := seed(ctx, cat, rolesSvc, resourcesSvc)
	if err != nil {
		log.Printf("seed failed after %d roles and %d resources: %v", nRoles, nResources, err)
		os.Exit(1)
	}
	log.Printf("seeded %d roles and %d resources", nRoles, nResources)
}
