package db

import (
	"fmt"
	"net/url"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite" // SQLite driver for database/sql, registered as "sqlite"
)

const driverName = "sqlite"

func init() {
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

// DSN builds the connection string for a database file. Foreign keys are
// off by default in SQLite, so every connection turns them on.
func DSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	return fmt.Sprintf("file:%s?%s", path, q.Encode())
}

// Open connects to the SQLite file at path and verifies the connection.
func Open(path string) (*sqlx.DB, error) {
	conn, err := sqlx.Connect(driverName, DSN(path))
	if err != nil {
		log.Errorf("Failed to connect to database %s: %v", path, err)
		return nil, err
	}

	// SQLite allows a single writer; one pooled connection keeps writes
	// serialised without SQLITE_BUSY churn.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err = conn.Ping(); err != nil {
		log.Errorf("Failed to ping database: %v", err)
		conn.Close()
		return nil, err
	}

	log.Infof("Database %s opened.", path)
	return conn, nil
}

// Close releases the connection pool.
func Close(conn *sqlx.DB) {
	if conn == nil {
		return
	}
	if err := conn.Close(); err != nil {
		log.Errorf("Error closing database connection: %v", err)
	} else {
		log.Info("Database connection pool closed.")
	}
}
