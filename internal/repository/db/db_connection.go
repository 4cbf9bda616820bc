package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates the SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	sqlDB, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Conservative pool settings for SQLite
	sqlDB.SetMaxOpenConns(1) // SQLite is not great with many writers
	sqlDB.SetMaxIdleConns(1)

	// Pragmas to improve reliability
	if _, err := sqlDB.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("set PRAGMA journal_mode=WAL: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("set PRAGMA foreign_keys=ON: %w", err)
	}
	if _, err := sqlDB.Exec("PRAGMA busy_timeout = 5000;"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("set PRAGMA busy_timeout=5000: %w", err)
	}

	if err := ensureSchema(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return sqlDB, nil
}

const sqliteDriverName = "sqlite"

const schemaDrivers = `
CREATE TABLE IF NOT EXISTS drivers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    license_number TEXT,
    license_state TEXT,
    carrier_name TEXT,
    home_terminal_address TEXT,
    timezone TEXT NOT NULL DEFAULT 'UTC',
    hos_rule_type TEXT NOT NULL,
    current_cycle_hours REAL NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaDutyStatusEvents = `
CREATE TABLE IF NOT EXISTS duty_status_events (
    id TEXT PRIMARY KEY,
    driver_id TEXT NOT NULL REFERENCES drivers(id),
    occurred_at TIMESTAMP NOT NULL,
    status TEXT NOT NULL,
    location TEXT,
    remarks TEXT,
    created_at TIMESTAMP NOT NULL,
    amended_at TIMESTAMP,
    UNIQUE (driver_id, occurred_at)
);
`

const schemaHOSViolations = `
CREATE TABLE IF NOT EXISTS hos_violations (
    id TEXT PRIMARY KEY,
    driver_id TEXT NOT NULL REFERENCES drivers(id),
    rule TEXT NOT NULL,
    event_id TEXT NOT NULL,
    occurred_at TIMESTAMP NOT NULL,
    detected_at TIMESTAMP NOT NULL,
    window_start TIMESTAMP NOT NULL,
    window_end TIMESTAMP NOT NULL,
    description TEXT NOT NULL,
    is_resolved BOOLEAN NOT NULL DEFAULT 0,
    resolved_at TIMESTAMP
);
`

const schemaDailyLogs = `
CREATE TABLE IF NOT EXISTS daily_logs (
    driver_id TEXT NOT NULL REFERENCES drivers(id),
    log_date TEXT NOT NULL,
    payload TEXT NOT NULL,
    stale BOOLEAN NOT NULL DEFAULT 0,
    generated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (driver_id, log_date)
);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

func ensureSchema(sqlDB *sql.DB) error {
	tx, err := sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// In case of panic, rollback to avoid leaving an open transaction
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaDrivers,
		schemaDutyStatusEvents,
		schemaHOSViolations,
		schemaDailyLogs,
		schemaUsers,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
