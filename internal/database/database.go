package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const connMaxLifetime = 5 * time.Minute

// New opens the case database and verifies connectivity. Pool sizing
// comes from configuration: the API serves concurrent requests while
// the TUI only ever needs a couple of connections.
func New(connStr string, maxOpen, maxIdle int) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(connMaxLifetime)

	return db, nil
}
