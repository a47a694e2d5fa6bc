// Package database mirrors the task collections into a SQLite file, so an
// export can be queried with ordinary SQL tools.
package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// ConnectDB opens (and creates if needed) the SQLite database at dbPath
func ConnectDB(dbPath string) (*sql.DB, error) {
	// Expand tilde to home directory if present
	if strings.HasPrefix(dbPath, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = homeDir + dbPath[1:]
	}

	// Create the directory structure if it doesn't exist
	dbDir := filepath.Dir(dbPath)
	if dbDir != "." {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, err
		}
	}

	return sql.Open("sqlite3", dbPath)
}

// EnsureSchema creates the tables if they don't exist
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS categories (
			name TEXT PRIMARY KEY
		);
		CREATE TABLE IF NOT EXISTS priorities (
			name TEXT PRIMARY KEY
		);
		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			priority TEXT NOT NULL,
			deadline TEXT,
			status TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS reminders (
			position INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			task_id TEXT NOT NULL,
			reminder_date TEXT NOT NULL,
			type TEXT NOT NULL
		);
	`)
	return err
}
