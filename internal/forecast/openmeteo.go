package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ngmaloney/weather-now/internal/models"
)

const (
	// DefaultURL is the Open-Meteo forecast endpoint.
	DefaultURL = "https://api.open-meteo.com/v1/forecast"

	// DefaultUserAgent identifies the application to Open-Meteo.
	DefaultUserAgent = "WeatherNow/1.0 (github.com/ngmaloney/weather-now)"
)

// OpenMeteoClient implements WeatherClient using the Open-Meteo forecast API
type OpenMeteoClient struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewWeatherClient creates a new Open-Meteo weather client. Empty arguments
// fall back to the public endpoint and a 10 second HTTP client.
func NewWeatherClient(httpClient *http.Client, baseURL, userAgent string) *OpenMeteoClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &OpenMeteoClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// GetCurrent retrieves current conditions. The service resolves the local
// timezone for the coordinates (timezone=auto).
func (c *OpenMeteoClient) GetCurrent(ctx context.Context, lat, lon float64) (*models.Conditions, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("current", strings.Join(CurrentFields, ","))
	params.Set("timezone", "auto")

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	cur := payload.Current
	if cur == nil || cur.Time == nil || cur.Temperature == nil || cur.WeatherCode == nil {
		return nil, ErrNoCurrentConditions
	}

	return &models.Conditions{
		Temperature:   *cur.Temperature,
		Humidity:      valueOrZero(cur.Humidity),
		WindSpeed:     valueOrZero(cur.WindSpeed),
		WindDirection: valueOrZero(cur.WindDirection),
		WeatherCode:   *cur.WeatherCode,
		ObservedAt:    parseObservedTime(*cur.Time, payload.Timezone, payload.TimezoneAbbreviation, payload.UTCOffsetSeconds),
		RawTime:       *cur.Time,
		Timezone:      payload.Timezone,
		Units: models.Units{
			Temperature: payload.CurrentUnits.Temperature,
			Humidity:    payload.CurrentUnits.Humidity,
			WindSpeed:   payload.CurrentUnits.WindSpeed,
		},
	}, nil
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// parseObservedTime interprets the service's zone-less local timestamp.
// It prefers the IANA zone name and falls back to the reported UTC offset.
func parseObservedTime(value, timezone, abbreviation string, offsetSeconds int) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}

	loc := time.FixedZone(abbreviation, offsetSeconds)
	if timezone != "" {
		if named, err := time.LoadLocation(timezone); err == nil {
			loc = named
		}
	}

	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Internal types for Open-Meteo responses

type currentResponse struct {
	Timezone             string `json:"timezone"`
	TimezoneAbbreviation string `json:"timezone_abbreviation"`
	UTCOffsetSeconds     int    `json:"utc_offset_seconds"`
	CurrentUnits         struct {
		Temperature string `json:"temperature_2m"`
		Humidity    string `json:"relative_humidity_2m"`
		WindSpeed   string `json:"wind_speed_10m"`
	} `json:"current_units"`
	// Pointers tell a missing key from a zero reading
	Current *struct {
		Time          *string  `json:"time"`
		Temperature   *float64 `json:"temperature_2m"`
		Humidity      *float64 `json:"relative_humidity_2m"`
		WindSpeed     *float64 `json:"wind_speed_10m"`
		WindDirection *float64 `json:"wind_direction_10m"`
		WeatherCode   *int     `json:"weather_code"`
	} `json:"current"`
}
