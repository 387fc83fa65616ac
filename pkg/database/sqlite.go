package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteDB opens the SQLite database at path with foreign keys enforced.
// ":memory:" opens a private in-memory database.
func NewSQLiteDB(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	params := "_foreign_keys=on&_busy_timeout=5000"
	if !strings.HasPrefix(path, ":memory:") {
		params += "&_journal_mode=WAL&_synchronous=NORMAL"
	}

	db, err := sql.Open("sqlite3", path+"?"+params)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}
	// One connection: all writers are serialized and an in-memory database survives.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	slog.Info("Opened SQLite database", slog.String("file", path))
	return db, nil
}
