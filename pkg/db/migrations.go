package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsTable = "schema_migrations"

// Tables in child-first order so they can be dropped with foreign keys on.
var schemaTables = []string{
	"DropOff",
	"SceneViewing",
	"ViewingSession",
	"SceneVariant",
	"Scene",
	"Movie",
	"User",
}

// RunMigrations applies pending migrations to the database file at path.
// It is idempotent: an up-to-date schema is left untouched.
//
// The migrate driver closes the *sql.DB it wraps, so migrations run on a
// dedicated handle rather than the application pool.
func RunMigrations(path string) error {
	conn, err := sql.Open(driverName, DSN(path))
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(conn, &migratesqlite.Config{MigrationsTable: migrationsTable})
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		driver.Close()
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		src.Close()
		driver.Close()
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Warnf("Failed to close migration source: %v", srcErr)
		}
		if dbErr != nil {
			log.Warnf("Failed to close migration database: %v", dbErr)
		}
	}()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("No migrations to apply (database up-to-date)")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, _ := m.Version()
	log.Infof("Applied migrations successfully, schema version %d", version)
	return nil
}

// ResetSchema drops every application table and the migration bookkeeping,
// then migrates up from scratch. All data is lost.
func ResetSchema(path string) error {
	conn, err := sql.Open(driverName, DSN(path))
	if err != nil {
		return fmt.Errorf("failed to open database for reset: %w", err)
	}
	defer conn.Close()

	for _, table := range append(schemaTables, migrationsTable) {
		if _, err := conn.Exec(`DROP TABLE IF EXISTS "` + table + `"`); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	log.Warnf("Dropped all tables in %s", path)

	return RunMigrations(path)
}

// PrepareSchema runs the schema pre-flight for the configured mode.
func PrepareSchema(path string, reset bool) error {
	if reset {
		return ResetSchema(path)
	}
	return RunMigrations(path)
}
