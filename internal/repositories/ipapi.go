package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"weather-dashboard/pkg/logger"
)

const IPAPIBaseURL = "http://ip-api.com/json"

// IPLocateRepository approximates the dashboard's one-shot position lookup
// with an IP-based geolocation service. It stands in for the browser
// geolocation capability when the client did not post coordinates itself.
type IPLocateRepository struct {
	BaseURL    string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewIPLocateRepository(baseURL string, l *logger.Logger, httpClient HTTPClient) *IPLocateRepository {
	if baseURL == "" {
		baseURL = IPAPIBaseURL
	}
	return &IPLocateRepository{
		BaseURL:    baseURL,
		httpClient: httpClient,
		l:          l,
	}
}

func (i *IPLocateRepository) Name() string {
	return "ip-api"
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// CurrentPosition resolves the caller's coordinates once. The accuracy hint
// is accepted for interface compatibility; IP lookups have one precision.
func (i *IPLocateRepository) CurrentPosition(ctx context.Context, highAccuracy bool) (float64, float64, error) {
	i.l.Debug("making IP geolocation request", map[string]any{"highAccuracy": highAccuracy})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.BaseURL, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
	}

	var raw ipAPIResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return 0, 0, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if raw.Status != "success" {
		return 0, 0, fmt.Errorf("lookup failed: %s", raw.Message)
	}

	return raw.Lat, raw.Lon, nil
}
