package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"weather-dashboard/pkg/logger"
)

const NominatimBaseURL = "https://nominatim.openstreetmap.org"

// NominatimRepository reverse-geocodes coordinates against the OpenStreetMap
// Nominatim service. Callers treat every failure as non-fatal and fall back
// to an "Unknown" label.
type NominatimRepository struct {
	BaseURL    string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewNominatimRepository(baseURL string, l *logger.Logger, httpClient HTTPClient) *NominatimRepository {
	if baseURL == "" {
		baseURL = NominatimBaseURL
	}
	return &NominatimRepository{
		BaseURL:    baseURL,
		httpClient: httpClient,
		l:          l,
	}
}

func (n *NominatimRepository) Name() string {
	return "nominatim"
}

type nominatimResponse struct {
	Address struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Country string `json:"country"`
	} `json:"address"`
}

// ReverseGeocode resolves a coordinate pair to a city/country pair. Either
// string may come back empty when Nominatim has no matching field.
func (n *NominatimRepository) ReverseGeocode(ctx context.Context, lat, lon float64) (string, string, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	n.l.Debug("making reverse geocoding request", map[string]any{"lat": lat, "lon": lon})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.BaseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
	}

	var raw nominatimResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", "", fmt.Errorf("failed to parse JSON response: %w", err)
	}

	city := raw.Address.City
	if city == "" {
		city = raw.Address.Town
	}

	return city, raw.Address.Country, nil
}
