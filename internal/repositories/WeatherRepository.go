package repositories

import (
	"context"
	"net/http"

	"weather-dashboard/internal/models"
)

// HTTPClient is the transport seam. Production wiring passes *http.Client,
// tests pass a fake.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WeatherProvider is the upstream weather API as the orchestration layer
// sees it. Every operation is an independent request/response cycle: no
// retries, no caching.
type WeatherProvider interface {
	FetchCurrentByCity(ctx context.Context, city string) (models.WeatherSnapshot, error)
	FetchCurrentByCoords(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error)
	FetchForecast(ctx context.Context, city string) (models.ForecastSet, error)
	FetchMany(ctx context.Context, cities []string) []models.WeatherSnapshot
}

// Geocoder resolves coordinates to a city/country label. Callers treat it
// as best-effort.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (city, country string, err error)
}
