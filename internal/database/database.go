package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBPath returns the default path of the observation journal
func DBPath() string {
	return filepath.Join("data", "weather-now.db")
}

// Open opens the SQLite database at dbPath, creating its directory if needed.
func Open(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// EnsureSchema ensures that the observations table exists.
func EnsureSchema(dbPath string) error {
	db, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS observations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			location_id INTEGER,
			name TEXT NOT NULL,
			admin1 TEXT,
			country TEXT,
			country_code TEXT,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			timezone TEXT,
			temperature REAL NOT NULL,
			humidity REAL NOT NULL,
			wind_speed REAL NOT NULL,
			wind_direction REAL NOT NULL,
			weather_code INTEGER NOT NULL,
			observed_at TEXT,
			recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_observations_recorded_at ON observations(recorded_at);
	`)
	if err != nil {
		return fmt.Errorf("creating observations table: %w", err)
	}

	// Journals written before country codes were kept lack the column.
	var hasCountryCode int
	err = db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('observations') WHERE name = 'country_code'`).Scan(&hasCountryCode)
	if err != nil {
		return fmt.Errorf("inspecting observations table: %w", err)
	}
	if hasCountryCode == 0 {
		if _, err := db.Exec(`ALTER TABLE observations ADD COLUMN country_code TEXT`); err != nil {
			return fmt.Errorf("adding country_code column: %w", err)
		}
	}

	return nil
}
