// Package journal keeps an optional local log of fetched weather
// observations. It is append-only from the application's point of view.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ngmaloney/weather-now/internal/database"
	"github.com/ngmaloney/weather-now/internal/models"
)

// Recorder accepts successful observations.
type Recorder interface {
	Record(loc models.Location, conditions *models.Conditions) error
}

// Entry is one recorded observation.
type Entry struct {
	ID         int64
	Location   models.Location
	Conditions models.Conditions
	RecordedAt time.Time
}

// Repository handles persistence of observations
type Repository struct {
	path string
	now  func() time.Time
}

// NewRepository creates a repository backed by the SQLite file at path.
// An empty path uses database.DBPath().
func NewRepository(path string) *Repository {
	if path == "" {
		path = database.DBPath()
	}
	return &Repository{path: path, now: time.Now}
}

// Path returns the database file location.
func (r *Repository) Path() string {
	return r.path
}

// Record appends an observation for loc.
func (r *Repository) Record(loc models.Location, conditions *models.Conditions) error {
	if conditions == nil {
		return fmt.Errorf("recording observation: no conditions")
	}

	// Ensure schema exists (safe to call multiple times)
	if err := database.EnsureSchema(r.path); err != nil {
		return err
	}

	db, err := database.Open(r.path)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec(`
		INSERT INTO observations (location_id, name, admin1, country, country_code, latitude, longitude, timezone,
			temperature, humidity, wind_speed, wind_direction, weather_code, observed_at, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		loc.ID,
		loc.Name,
		loc.Admin1,
		loc.Country,
		loc.CountryCode,
		loc.Latitude,
		loc.Longitude,
		loc.Timezone,
		conditions.Temperature,
		conditions.Humidity,
		conditions.WindSpeed,
		conditions.WindDirection,
		conditions.WeatherCode,
		observedValue(conditions),
		r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving observation: %w", err)
	}

	return nil
}

// Recent returns up to limit observations, newest first.
func (r *Repository) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		return []Entry{}, nil
	}

	if err := database.EnsureSchema(r.path); err != nil {
		return nil, err
	}

	db, err := database.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT id, location_id, name, admin1, country, country_code, latitude, longitude, timezone,
			temperature, humidity, wind_speed, wind_direction, weather_code, observed_at, recorded_at
		FROM observations
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying observations: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var locationID sql.NullInt64
		var admin1, country, countryCode, timezone, observed sql.NullString // Handle potential nulls

		if err := rows.Scan(&e.ID, &locationID, &e.Location.Name, &admin1, &country, &countryCode,
			&e.Location.Latitude, &e.Location.Longitude, &timezone,
			&e.Conditions.Temperature, &e.Conditions.Humidity, &e.Conditions.WindSpeed,
			&e.Conditions.WindDirection, &e.Conditions.WeatherCode, &observed, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning observation: %w", err)
		}
		e.Location.ID = locationID.Int64
		e.Location.Admin1 = admin1.String
		e.Location.Country = country.String
		e.Location.CountryCode = countryCode.String
		e.Location.Timezone = timezone.String
		e.Conditions.Timezone = timezone.String
		applyObserved(&e.Conditions, observed.String)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading observations: %w", err)
	}

	return entries, nil
}

func observedValue(c *models.Conditions) string {
	if c.ObservedAt.IsZero() {
		return c.RawTime
	}
	return c.ObservedAt.Format(time.RFC3339)
}

func applyObserved(c *models.Conditions, value string) {
	c.RawTime = value
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		c.ObservedAt = t
	}
}
