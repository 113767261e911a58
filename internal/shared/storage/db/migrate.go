package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

var errNilDatabase = errors.New("migrate: database is nil")

func prepareGoose() error {
	goose.SetBaseFS(migrationFiles)
	return goose.SetDialect("postgres")
}

// RunMigrations applies all pending embedded migrations. A nil database is a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return nil
	}
	if err := prepareGoose(); err != nil {
		return err
	}
	return goose.UpContext(ctx, database, migrationsDir)
}

// RollbackLast reverts the most recently applied migration.
func RollbackLast(ctx context.Context, database *sql.DB) error {
	if database == nil {
		return errNilDatabase
	}
	if err := prepareGoose(); err != nil {
		return err
	}
	return goose.DownContext(ctx, database, migrationsDir)
}

// SchemaVersion returns the version of the last applied migration.
func SchemaVersion(ctx context.Context, database *sql.DB) (int64, error) {
	if database == nil {
		return 0, errNilDatabase
	}
	if err := prepareGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, database)
}
