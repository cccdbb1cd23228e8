package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const parisResponse = `{
	"results": [
		{"id": 2988507, "name": "Paris", "latitude": 48.85341, "longitude": 2.3488, "country": "France", "country_code": "FR", "admin1": "Île-de-France", "timezone": "Europe/Paris"},
		{"id": 4717560, "name": "Paris", "latitude": 33.66094, "longitude": -95.55551, "country": "United States", "country_code": "US", "admin1": "Texas", "timezone": "America/Chicago"},
		{"id": 4647963, "name": "Paris", "latitude": 36.302, "longitude": -88.32671, "country": "United States", "country_code": "US", "timezone": "America/Chicago"}
	],
	"generationtime_ms": 0.9
}`

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(nil, "", "")

	if c == nil {
		t.Fatal("NewClient() returned nil")
	}
	if c.baseURL != DefaultURL {
		t.Errorf("baseURL = %s, want %s", c.baseURL, DefaultURL)
	}
	if c.httpClient.Timeout != 10*time.Second {
		t.Errorf("timeout = %v, want 10s", c.httpClient.Timeout)
	}
	if c.userAgent == "" {
		t.Error("userAgent should not be empty")
	}
}

func TestClient_Search_QueryParameters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		want := map[string]string{
			"name":     "Paris",
			"count":    "5",
			"language": "en",
			"format":   "json",
		}
		for key, val := range want {
			if got := q.Get(key); got != val {
				t.Errorf("query %s = %q, want %q", key, got, val)
			}
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("User-Agent header not set")
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Error("Accept header should be application/json")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(parisResponse))
	}))
	defer server.Close()

	c := NewClient(server.Client(), server.URL, "")
	results, err := c.Search(context.Background(), "  Paris  ")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}

	// Order must match the service ranking
	wantAdmin := []string{"Île-de-France", "Texas", ""}
	for i, r := range results {
		if r.Admin1 != wantAdmin[i] {
			t.Errorf("results[%d].Admin1 = %q, want %q", i, r.Admin1, wantAdmin[i])
		}
	}

	first := results[0]
	if first.ID != 2988507 || first.CountryCode != "FR" || first.Timezone != "Europe/Paris" {
		t.Errorf("results[0] = %+v", first)
	}
	if first.Latitude != 48.85341 || first.Longitude != 2.3488 {
		t.Errorf("results[0] coords = %v, %v", first.Latitude, first.Longitude)
	}
}

func TestClient_Search_NoResults(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"results omitted", `{"generationtime_ms": 0.4}`},
		{"results empty", `{"results": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewClient(server.Client(), server.URL, "")
			results, err := c.Search(context.Background(), "Nowhereville")
			if err != nil {
				t.Fatalf("Search() error = %v, want nil", err)
			}
			if results == nil {
				t.Error("Search() returned nil slice, want empty slice")
			}
			if len(results) != 0 {
				t.Errorf("len(results) = %d, want 0", len(results))
			}
		})
	}
}

func TestClient_Search_Errors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
	}{
		{"400 bad request", http.StatusBadRequest, `{"error": true, "reason": "bad"}`},
		{"500 server error", http.StatusInternalServerError, "error"},
		{"503 unavailable", http.StatusServiceUnavailable, "error"},
		{"malformed body", http.StatusOK, `{"results": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewClient(server.Client(), server.URL, "")
			if _, err := c.Search(context.Background(), "Paris"); err == nil {
				t.Error("Search() error = nil, want error")
			}
		})
	}
}

func TestClient_Search_EmptyName(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	c := NewClient(server.Client(), server.URL, "")
	if _, err := c.Search(context.Background(), "   "); err == nil {
		t.Error("Search() with blank name should fail")
	}
	if calls != 0 {
		t.Errorf("server called %d times, want 0", calls)
	}
}

func TestClient_Search_Cancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(parisResponse))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(server.Client(), server.URL, "")
	if _, err := c.Search(ctx, "Paris"); err == nil {
		t.Error("Search() with cancelled context should fail")
	}
}
