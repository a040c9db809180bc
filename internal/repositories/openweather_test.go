package repositories

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-dashboard/internal/models"
	"weather-dashboard/pkg/logger"
)

const currentWeatherBody = `{
	"name": "London",
	"sys": {"country": "GB", "sunrise": 1753847536, "sunset": 1753903412},
	"main": {"temp": 17.6, "feels_like": 16.4, "humidity": 72, "pressure": 1012},
	"weather": [{"main": "Clouds", "description": "scattered clouds", "icon": "03d"}],
	"wind": {"speed": 4.12},
	"clouds": {"all": 40},
	"visibility": 8000,
	"dt": 1753870000,
	"coord": {"lat": 51.5073, "lon": -0.1276}
}`

func newTestRepository(t *testing.T, handler http.HandlerFunc) (*OpenWeatherRepository, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	l := logger.NewZapLogger("test-app")
	repo := NewOpenWeatherRepository(server.URL, "test-key", l, http.DefaultClient)
	return repo, server
}

func TestOpenWeatherRepository_Name(t *testing.T) {
	repo := &OpenWeatherRepository{}
	assert.Equal(t, "openweathermap", repo.Name())
}

func TestFetchCurrentByCity_Success(t *testing.T) {
	repo, _ := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "London", r.URL.Query().Get("q"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(currentWeatherBody))
	})

	snapshot, err := repo.FetchCurrentByCity(context.Background(), "London")
	require.NoError(t, err)

	assert.Equal(t, "London", snapshot.City)
	assert.Equal(t, "GB", snapshot.Country)
	assert.Equal(t, 18, snapshot.Temperature) // 17.6 rounded
	assert.Equal(t, 16, snapshot.FeelsLike)   // 16.4 rounded
	assert.Equal(t, "Clouds", snapshot.Condition)
	assert.Equal(t, "scattered clouds", snapshot.Description)
	assert.Equal(t, 72, snapshot.Humidity)
	assert.Equal(t, 4.1, snapshot.WindSpeed) // 4.12 to one decimal
	assert.Equal(t, 1012, snapshot.Pressure)
	assert.Equal(t, 8.0, snapshot.Visibility) // 8000 m -> 8.0 km
	assert.Equal(t, 40, snapshot.Cloudiness)
	assert.Equal(t, int64(1753847536), snapshot.Sunrise)
	assert.Equal(t, int64(1753903412), snapshot.Sunset)
	assert.Equal(t, 51.5073, snapshot.Lat)
	assert.Equal(t, -0.1276, snapshot.Lon)
	assert.Equal(t, "03d", snapshot.Icon)
}

func TestFetchCurrentByCoords_SendsCoordinates(t *testing.T) {
	repo, _ := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "51.5073", r.URL.Query().Get("lat"))
		assert.Equal(t, "-0.1276", r.URL.Query().Get("lon"))
		w.Write([]byte(currentWeatherBody))
	})

	snapshot, err := repo.FetchCurrentByCoords(context.Background(), 51.5073, -0.1276)
	require.NoError(t, err)
	assert.Equal(t, "London", snapshot.City)
}

func TestFetchCurrentByCity_NotFound(t *testing.T) {
	repo, _ := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"cod": "404", "message": "city not found"}`))
	})

	_, err := repo.FetchCurrentByCity(context.Background(), "BadCityXYZ")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindCityNotFound))

	apiErr := models.AsAPIError(err)
	assert.Equal(t, "city not found", apiErr.Message)
	assert.Equal(t, "404", apiErr.Code)
}

func TestFetchCurrentByCity_ServerErrorWithoutBody(t *testing.T) {
	repo, _ := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := repo.FetchCurrentByCity(context.Background(), "London")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindAPIFailure))

	apiErr := models.AsAPIError(err)
	assert.Equal(t, models.UnknownErrorMessage, apiErr.Message)
	assert.Equal(t, "500", apiErr.Code)
}

func TestFetchCurrentByCity_TransportError(t *testing.T) {
	l := logger.NewZapLogger("test-app")
	repo := NewOpenWeatherRepository("http://127.0.0.1:1", "test-key", l, &http.Client{Timeout: 200 * time.Millisecond})

	_, err := repo.FetchCurrentByCity(context.Background(), "London")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindAPIFailure))

	apiErr := models.AsAPIError(err)
	assert.Equal(t, models.UnknownErrorMessage, apiErr.Message)
	assert.Empty(t, apiErr.Code)
}

func TestFetchCurrentByCity_EmptyConditions(t *testing.T) {
	repo, _ := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name": "London", "weather": []}`))
	})

	_, err := repo.FetchCurrentByCity(context.Background(), "London")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindMalformedResponse))
}

func TestFetchCurrentByCity_InvalidJSON(t *testing.T) {
	repo, _ := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("invalid json"))
	})

	_, err := repo.FetchCurrentByCity(context.Background(), "London")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindMalformedResponse))
}

func TestFetchCurrentByCity_ContextCancellation(t *testing.T) {
	repo, _ := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(currentWeatherBody))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FetchCurrentByCity(ctx, "London")
	require.Error(t, err)
}

func forecastItem(dtTxt string, dt int64, tempMax, tempMin float64, condition string) string {
	item := map[string]any{
		"dt":     dt,
		"dt_txt": dtTxt,
		"main":   map[string]any{"temp": tempMin, "temp_max": tempMax, "temp_min": tempMin, "humidity": 64},
		"weather": []map[string]any{
			{"main": condition, "description": "test " + condition, "icon": "10d"},
		},
		"wind": map[string]any{"speed": 3.64},
	}
	b, _ := json.Marshal(item)
	return string(b)
}

func TestFetchForecast_BucketsFirstEntryPerDay(t *testing.T) {
	body := `{"list": [` +
		forecastItem("2025-07-25 09:00:00", 1753434000, 22.52, 21.7, "Rain") + "," +
		forecastItem("2025-07-25 12:00:00", 1753444800, 25.0, 23.0, "Clear") + "," +
		forecastItem("2025-07-25 15:00:00", 1753455600, 26.1, 24.2, "Clear") + "," +
		forecastItem("2025-07-26 00:00:00", 1753488000, 20.42, 19.9, "Clouds") + "," +
		forecastItem("2025-07-26 03:00:00", 1753498800, 21.0, 20.0, "Clear") + "," +
		forecastItem("2025-07-27 00:00:00", 1753574400, 19.5, 18.4, "Rain") +
		`], "city": {"name": "London", "country": "GB"}}`

	repo, _ := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "London", r.URL.Query().Get("q"))
		w.Write([]byte(body))
	})

	set, err := repo.FetchForecast(context.Background(), "London")
	require.NoError(t, err)

	assert.Equal(t, "London", set.City)
	assert.Equal(t, "GB", set.Country)
	require.Len(t, set.Days, 3)

	// Each bucket comes from the first chronological entry of its date:
	// the 09:00 Rain entry wins for July 25, not the warmer noon entries.
	first := set.Days[0]
	assert.Equal(t, "2025-07-25", first.Date)
	assert.Equal(t, 23, first.TempMax) // 22.52 rounded
	assert.Equal(t, 22, first.TempMin) // 21.7 rounded
	assert.Equal(t, "Rain", first.Condition)
	assert.Equal(t, 3.6, first.WindSpeed)
	assert.Equal(t, int64(1753434000), first.Timestamp)

	assert.Equal(t, "2025-07-26", set.Days[1].Date)
	assert.Equal(t, "Clouds", set.Days[1].Condition)
	assert.Equal(t, "2025-07-27", set.Days[2].Date)
}

func TestFetchForecast_TruncatesToFiveDays(t *testing.T) {
	items := ""
	dates := []string{"2025-07-25", "2025-07-26", "2025-07-27", "2025-07-28", "2025-07-29", "2025-07-30", "2025-07-31"}
	for i, date := range dates {
		if i > 0 {
			items += ","
		}
		items += forecastItem(date+" 09:00:00", int64(1753434000+i*86400), 20, 15, "Clear")
	}
	body := `{"list": [` + items + `], "city": {"name": "London", "country": "GB"}}`

	repo, _ := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})

	set, err := repo.FetchForecast(context.Background(), "London")
	require.NoError(t, err)
	require.Len(t, set.Days, 5)
	assert.Equal(t, "2025-07-25", set.Days[0].Date)
	assert.Equal(t, "2025-07-29", set.Days[4].Date)
}

func TestFetchForecast_EmptyConditionsAbortsWhole(t *testing.T) {
	body := `{"list": [` +
		forecastItem("2025-07-25 09:00:00", 1753434000, 22, 21, "Clear") + "," +
		`{"dt": 1753488000, "dt_txt": "2025-07-26 00:00:00", "main": {"temp_max": 20, "temp_min": 19, "humidity": 60}, "weather": [], "wind": {"speed": 2}}` +
		`], "city": {"name": "London", "country": "GB"}}`

	repo, _ := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	})

	_, err := repo.FetchForecast(context.Background(), "London")
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindMalformedResponse))
}

func TestNormalizeForecast_Idempotent(t *testing.T) {
	var raw forecastResponse
	body := `{"list": [` +
		forecastItem("2025-07-25 09:00:00", 1753434000, 22.52, 21.7, "Rain") + "," +
		forecastItem("2025-07-26 00:00:00", 1753488000, 20.42, 19.9, "Clouds") +
		`], "city": {"name": "London", "country": "GB"}}`
	require.NoError(t, json.Unmarshal([]byte(body), &raw))

	first, err := normalizeForecast(raw)
	require.NoError(t, err)
	second, err := normalizeForecast(raw)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFetchMany_DropsFailedCities(t *testing.T) {
	repo, _ := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		city := r.URL.Query().Get("q")
		if city == "BadCityXYZ" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"cod": "404", "message": "city not found"}`))
			return
		}
		var raw currentWeatherResponse
		_ = json.Unmarshal([]byte(currentWeatherBody), &raw)
		raw.Name = city
		b, _ := json.Marshal(raw)
		w.Write(b)
	})

	snapshots := repo.FetchMany(context.Background(), []string{"Paris", "BadCityXYZ", "Tokyo"})

	require.Len(t, snapshots, 2)
	assert.Equal(t, "Paris", snapshots[0].City)
	assert.Equal(t, "Tokyo", snapshots[1].City)
}

func TestFetchMany_DuplicatesProduceDuplicateRows(t *testing.T) {
	repo, _ := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(currentWeatherBody))
	})

	snapshots := repo.FetchMany(context.Background(), []string{"London", "London"})
	assert.Len(t, snapshots, 2)
}

func TestFetchMany_EmptyRoster(t *testing.T) {
	repo, _ := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty roster")
	})

	snapshots := repo.FetchMany(context.Background(), nil)
	assert.Empty(t, snapshots)
}
