package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ngmaloney/weather-now/internal/models"
)

const (
	// DefaultURL is the Open-Meteo geocoding search endpoint.
	DefaultURL = "https://geocoding-api.open-meteo.com/v1/search"

	// ResultCount is the number of candidates requested per search.
	ResultCount = 5
	// Language for place labels.
	Language = "en"

	// DefaultUserAgent identifies the application to Open-Meteo.
	DefaultUserAgent = "WeatherNow/1.0 (github.com/ngmaloney/weather-now)"
)

// Searcher resolves a free-text place name into ranked candidates
type Searcher interface {
	Search(ctx context.Context, name string) ([]models.Location, error)
}

// Client searches places using the Open-Meteo geocoding API
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new geocoding client. Empty arguments fall back to
// the public endpoint and a 10 second HTTP client.
func NewClient(httpClient *http.Client, baseURL, userAgent string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// searchResponse represents the geocoding API response
type searchResponse struct {
	Results []models.Location `json:"results"`
}

// Search returns up to ResultCount matches for name in the order the
// service ranked them. A search with no matches returns an empty slice
// and a nil error.
func (c *Client) Search(ctx context.Context, name string) ([]models.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	params := url.Values{}
	params.Set("name", name)
	params.Set("count", strconv.Itoa(ResultCount))
	params.Set("language", Language)
	params.Set("format", "json")

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("geocoding API returned status %d", resp.StatusCode)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	// "results" is omitted entirely when nothing matched
	if result.Results == nil {
		return []models.Location{}, nil
	}
	return result.Results, nil
}
