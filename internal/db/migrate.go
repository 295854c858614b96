package db

import (
	"database/sql"
	"embed"

	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
	"github.com/SIMPLYBOYS/smart_waste/pkg/logger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations runs the database migrations
func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return &errors.DatabaseError{Operation: "could not open embedded migrations", Err: err}
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return &errors.DatabaseError{Operation: "could not create the postgres driver", Err: err}
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return &errors.DatabaseError{Operation: "could not create migrate instance", Err: err}
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return &errors.DatabaseError{Operation: "an error occurred while syncing the database", Err: err}
	}

	logger.Info("Database migrations completed successfully")
	return nil
}
