package locator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-dashboard/internal/models"
	"weather-dashboard/pkg/logger"
)

type fakeSource struct {
	lat, lon float64
	err      error
	block    bool
}

func (f *fakeSource) CurrentPosition(ctx context.Context, highAccuracy bool) (float64, float64, error) {
	if f.block {
		<-ctx.Done()
		return 0, 0, ctx.Err()
	}
	if f.err != nil {
		return 0, 0, f.err
	}
	return f.lat, f.lon, nil
}

type fakeGeocoder struct {
	city, country string
	err           error
}

func (f *fakeGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return f.city, f.country, nil
}

func TestResolve_Success(t *testing.T) {
	r := NewResolver(
		&fakeSource{lat: 51.5073, lon: -0.1276},
		&fakeGeocoder{city: "London", country: "United Kingdom"},
		0, false, logger.NewZapLogger("test-app"),
	)

	fix, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 51.5073, fix.Lat)
	assert.Equal(t, -0.1276, fix.Lon)
	assert.Equal(t, "London", fix.City)
	assert.Equal(t, "United Kingdom", fix.Country)
}

func TestResolve_GeocodeFailureIsNotFatal(t *testing.T) {
	r := NewResolver(
		&fakeSource{lat: 51.5073, lon: -0.1276},
		&fakeGeocoder{err: errors.New("geocoder down")},
		0, false, logger.NewZapLogger("test-app"),
	)

	fix, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 51.5073, fix.Lat)
	assert.Equal(t, -0.1276, fix.Lon)
	assert.Equal(t, models.UnknownPlace, fix.City)
	assert.Equal(t, models.UnknownPlace, fix.Country)
}

func TestResolve_GeocodeEmptyFieldsFallBack(t *testing.T) {
	r := NewResolver(
		&fakeSource{lat: 1, lon: 2},
		&fakeGeocoder{city: "", country: "France"},
		0, false, logger.NewZapLogger("test-app"),
	)

	fix, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.UnknownPlace, fix.City)
	assert.Equal(t, "France", fix.Country)
}

func TestResolve_Timeout(t *testing.T) {
	r := NewResolver(
		&fakeSource{block: true},
		&fakeGeocoder{},
		20*time.Millisecond, false, logger.NewZapLogger("test-app"),
	)

	_, err := r.Resolve(context.Background())
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindLocationUnavailable))
	assert.Equal(t, "3", models.AsAPIError(err).Code)
}

func TestResolve_PlatformCodePassesThrough(t *testing.T) {
	r := NewResolver(
		&fakeSource{err: &PositionError{Code: CodePermissionDenied, Message: "permission denied"}},
		&fakeGeocoder{},
		0, false, logger.NewZapLogger("test-app"),
	)

	_, err := r.Resolve(context.Background())
	require.Error(t, err)

	apiErr := models.AsAPIError(err)
	assert.Equal(t, models.KindLocationUnavailable, apiErr.Kind)
	assert.Equal(t, "1", apiErr.Code)
	assert.Equal(t, "permission denied", apiErr.Message)
}

func TestResolve_GenericSourceError(t *testing.T) {
	r := NewResolver(
		&fakeSource{err: errors.New("no providers")},
		&fakeGeocoder{},
		0, false, logger.NewZapLogger("test-app"),
	)

	_, err := r.Resolve(context.Background())
	require.Error(t, err)
	assert.Equal(t, "2", models.AsAPIError(err).Code)
}

func TestResolveCoords_SkipsPositionSource(t *testing.T) {
	r := NewResolver(
		&fakeSource{err: errors.New("must not be called")},
		&fakeGeocoder{city: "Berlin", country: "Germany"},
		0, false, logger.NewZapLogger("test-app"),
	)

	fix := r.ResolveCoords(context.Background(), 52.52, 13.405)
	assert.Equal(t, "Berlin", fix.City)
	assert.Equal(t, 52.52, fix.Lat)
}
