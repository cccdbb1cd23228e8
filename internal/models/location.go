package models

import "fmt"

// Location is a single geocoding match the user can pick from.
// Values come straight from the geocoding service and are not modified.
type Location struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Admin1      string  `json:"admin1,omitempty"` // State/region, may be empty
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    string  `json:"timezone"`
}

// Label returns "Name, Admin1", dropping the region when it is unknown.
func (l Location) Label() string {
	if l.Admin1 == "" {
		return l.Name
	}
	return fmt.Sprintf("%s, %s", l.Name, l.Admin1)
}

// Detail returns the country and rounded coordinates, e.g. "France • 48.85, 2.35".
func (l Location) Detail() string {
	return fmt.Sprintf("%s • %s", l.Country, l.Coordinates())
}

// Coordinates formats latitude and longitude with two decimals.
func (l Location) Coordinates() string {
	return fmt.Sprintf("%.2f, %.2f", l.Latitude, l.Longitude)
}
