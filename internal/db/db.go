package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Open connects to the song library. Remote libsql URLs (libsql://, http://,
// https://, ws://, wss://) go through the Turso client; anything else is a
// local SQLite file, created on demand.
func Open(url, authToken string) (*sql.DB, error) {
	driver, dsn := driverFor(url, authToken)

	if driver == "sqlite" && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	database, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db %s: %w", url, err)
	}

	database.SetMaxOpenConns(25)
	database.SetMaxIdleConns(25)
	database.SetConnMaxLifetime(5 * time.Minute)
	if driver == "sqlite" {
		// SQLite allows a single writer.
		database.SetMaxOpenConns(1)
	}

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return database, nil
}

func driverFor(url, authToken string) (string, string) {
	for _, scheme := range []string{"libsql://", "http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(url, scheme) {
			if authToken != "" {
				return "libsql", fmt.Sprintf("%s?authToken=%s", url, authToken)
			}
			return "libsql", url
		}
	}
	return "sqlite", strings.TrimPrefix(url, "file:")
}
