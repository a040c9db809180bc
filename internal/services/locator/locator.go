// Package locator resolves the user's position once and labels it with a
// best-effort reverse geocode. It is a single-shot operation, not a
// subscription: it resolves and does not track movement.
package locator

import (
	"context"
	"errors"
	"strconv"
	"time"

	"weather-dashboard/internal/models"
	"weather-dashboard/internal/repositories"
	"weather-dashboard/pkg/logger"
)

// Numeric failure codes mirroring the platform geolocation error codes.
const (
	CodePermissionDenied    = 1
	CodePositionUnavailable = 2
	CodeTimeout             = 3
)

const DefaultTimeout = 10 * time.Second

// PositionSource is a one-shot geolocation capability. Implementations may
// honor or ignore the accuracy hint.
type PositionSource interface {
	CurrentPosition(ctx context.Context, highAccuracy bool) (lat, lon float64, err error)
}

// PositionError lets a source surface a platform failure code directly.
type PositionError struct {
	Code    int
	Message string
}

func (e *PositionError) Error() string {
	return e.Message
}

type Resolver struct {
	source       PositionSource
	geocoder     repositories.Geocoder
	timeout      time.Duration
	highAccuracy bool
	l            *logger.Logger
}

// NewResolver builds a resolver with the given timeout (0 means the 10 s
// default) and accuracy hint.
func NewResolver(source PositionSource, geocoder repositories.Geocoder, timeout time.Duration, highAccuracy bool, l *logger.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{
		source:       source,
		geocoder:     geocoder,
		timeout:      timeout,
		highAccuracy: highAccuracy,
		l:            l,
	}
}

// Resolve obtains the current position and reverse-geocodes it. Geocoding
// failure is not fatal: the fix still returns with valid coordinates and
// "Unknown" labels. Position failure returns LocationUnavailable with the
// platform code as string.
func (r *Resolver) Resolve(ctx context.Context) (models.LocationFix, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	lat, lon, err := r.source.CurrentPosition(ctx, r.highAccuracy)
	if err != nil {
		r.l.Warning("position lookup failed", map[string]any{"err": err.Error()})
		return models.LocationFix{}, locationUnavailable(err)
	}

	return r.ResolveCoords(ctx, lat, lon), nil
}

// ResolveCoords labels an already-known coordinate pair, for clients that
// ran the geolocation capability themselves and posted the result.
func (r *Resolver) ResolveCoords(ctx context.Context, lat, lon float64) models.LocationFix {
	fix := models.LocationFix{
		Lat:     lat,
		Lon:     lon,
		City:    models.UnknownPlace,
		Country: models.UnknownPlace,
	}

	city, country, err := r.geocoder.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		r.l.Warning("reverse geocoding failed, keeping coordinates", map[string]any{
			"lat": lat,
			"lon": lon,
			"err": err.Error(),
		})
		return fix
	}

	if city != "" {
		fix.City = city
	}
	if country != "" {
		fix.Country = country
	}

	return fix
}

func locationUnavailable(err error) *models.APIError {
	var posErr *PositionError
	switch {
	case errors.As(err, &posErr):
		return models.NewLocationUnavailable(posErr.Message, strconv.Itoa(posErr.Code))
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewLocationUnavailable("position request timed out", strconv.Itoa(CodeTimeout))
	default:
		return models.NewLocationUnavailable(err.Error(), strconv.Itoa(CodePositionUnavailable))
	}
}
