// Package database provides the SQL connection and cross-driver helpers.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

var (
	dbOnce sync.Once
	dbConn *sql.DB
	dbErr  error

	// testDB, when set, overrides the singleton so tests can inject
	// sqlmock connections.
	testDB *sql.DB
)

// SetTestDB overrides the connection returned by GetDB. Pass nil to restore
// the real connection.
func SetTestDB(db *sql.DB) {
	testDB = db
}

// GetDB returns the shared database connection, opening it on first use.
func GetDB() (*sql.DB, error) {
	if testDB != nil {
		return testDB, nil
	}
	dbOnce.Do(func() {
		dbConn, dbErr = open()
	})
	return dbConn, dbErr
}

func open() (*sql.DB, error) {
	driver := GetDBDriver()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN is not set")
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", driver, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
