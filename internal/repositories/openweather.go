package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"weather-dashboard/internal/models"
	"weather-dashboard/pkg/logger"
)

const (
	OpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

	maxForecastDays = 5
)

// OpenWeatherRepository talks to the OpenWeatherMap "current weather" and
// "5 day / 3 hour forecast" operations and normalizes their payloads into
// the dashboard's models. All requests are made in metric units.
type OpenWeatherRepository struct {
	BaseURL    string
	APIKey     string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewOpenWeatherRepository(baseURL, apiKey string, l *logger.Logger, httpClient HTTPClient) *OpenWeatherRepository {
	if baseURL == "" {
		baseURL = OpenWeatherBaseURL
	}
	if strings.TrimSpace(apiKey) == "" {
		// Tolerated at startup; every request made without a key fails at
		// the upstream with an authentication error.
		l.Warning("no OpenWeatherMap API key configured, requests will be rejected upstream")
	}

	return &OpenWeatherRepository{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		httpClient: httpClient,
		l:          l,
	}
}

func (o *OpenWeatherRepository) Name() string {
	return "openweathermap"
}

type conditionEntry struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type currentWeatherResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []conditionEntry `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Visibility float64 `json:"visibility"`
	Dt         int64   `json:"dt"`
	Coord      struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
}

type forecastResponse struct {
	List []forecastEntry `json:"list"`
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
}

type forecastEntry struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		TempMax  float64 `json:"temp_max"`
		TempMin  float64 `json:"temp_min"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []conditionEntry `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	DtTxt string `json:"dt_txt"`
}

// FetchCurrentByCity fetches current conditions by free-text city query.
// A 404 maps to CityNotFound, any other transport or HTTP failure to
// APIFailure, an empty weather-condition array to MalformedResponse.
func (o *OpenWeatherRepository) FetchCurrentByCity(ctx context.Context, city string) (models.WeatherSnapshot, error) {
	q := url.Values{}
	q.Set("q", city)

	o.l.Info("making current weather request", map[string]any{"city": city})

	return o.fetchCurrent(ctx, q)
}

// FetchCurrentByCoords fetches current conditions by coordinate pair.
func (o *OpenWeatherRepository) FetchCurrentByCoords(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	o.l.Info("making current weather request", map[string]any{"lat": lat, "lon": lon})

	return o.fetchCurrent(ctx, q)
}

func (o *OpenWeatherRepository) fetchCurrent(ctx context.Context, q url.Values) (models.WeatherSnapshot, error) {
	body, err := o.get(ctx, o.BaseURL+"/weather", q)
	if err != nil {
		return models.WeatherSnapshot{}, err
	}

	var raw currentWeatherResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return models.WeatherSnapshot{}, models.NewMalformedResponse(fmt.Sprintf("failed to parse JSON response: %v", err))
	}

	return normalizeCurrentWeather(raw)
}

// FetchForecast fetches the 5-day / 3-hour feed for a city and buckets it
// into one ForecastDay per calendar date.
func (o *OpenWeatherRepository) FetchForecast(ctx context.Context, city string) (models.ForecastSet, error) {
	q := url.Values{}
	q.Set("q", city)

	o.l.Info("making forecast request", map[string]any{"city": city})

	body, err := o.get(ctx, o.BaseURL+"/forecast", q)
	if err != nil {
		return models.ForecastSet{}, err
	}

	var raw forecastResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return models.ForecastSet{}, models.NewMalformedResponse(fmt.Sprintf("failed to parse JSON response: %v", err))
	}

	set, err := normalizeForecast(raw)
	if err != nil {
		return models.ForecastSet{}, err
	}

	o.l.Info("normalized forecast", map[string]any{"params": set.RequestParams()})

	return set, nil
}

// cityResult tags each batch item with its outcome so the dropped-item
// behavior stays observable even though FetchMany only surfaces successes.
type cityResult struct {
	city     string
	snapshot models.WeatherSnapshot
	err      error
}

func (o *OpenWeatherRepository) fetchEach(ctx context.Context, cities []string) []cityResult {
	results := make([]cityResult, 0, len(cities))
	for _, city := range cities {
		snapshot, err := o.FetchCurrentByCity(ctx, city)
		results = append(results, cityResult{city: city, snapshot: snapshot, err: err})
	}
	return results
}

// FetchMany fetches each city independently, one at a time in roster order,
// and silently omits any city whose fetch fails. A single bad city name
// never aborts the rest of the batch.
func (o *OpenWeatherRepository) FetchMany(ctx context.Context, cities []string) []models.WeatherSnapshot {
	results := o.fetchEach(ctx, cities)

	snapshots := make([]models.WeatherSnapshot, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			o.l.Warning("skipping city after failed fetch", map[string]any{
				"city": r.city,
				"err":  r.err.Error(),
			})
			continue
		}
		snapshots = append(snapshots, r.snapshot)
	}

	o.l.Info("completed batch fetch", map[string]any{
		"requested": len(cities),
		"fetched":   len(snapshots),
	})

	return snapshots
}

func (o *OpenWeatherRepository) get(ctx context.Context, endpoint string, q url.Values) ([]byte, error) {
	q.Set("appid", o.APIKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, models.NewAPIFailure(err.Error(), "")
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		// Transport failure: no upstream status, generic message.
		return nil, models.NewAPIFailure(models.UnknownErrorMessage, "")
	}
	defer resp.Body.Close()

	o.l.Info("received API response", map[string]any{
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.NewAPIFailure(models.UnknownErrorMessage, strconv.Itoa(resp.StatusCode))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}

	return body, nil
}

// statusError maps a non-200 upstream reply to the uniform error shape,
// preferring the message from OpenWeatherMap's structured error body
// ({"cod":"404","message":"city not found"}).
func statusError(status int, body []byte) error {
	message := models.UnknownErrorMessage

	var errBody struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errBody); err == nil && errBody.Message != "" {
		message = errBody.Message
	}

	code := strconv.Itoa(status)
	if status == http.StatusNotFound {
		return models.NewCityNotFound(message, code)
	}
	return models.NewAPIFailure(message, code)
}

func normalizeCurrentWeather(raw currentWeatherResponse) (models.WeatherSnapshot, error) {
	if len(raw.Weather) == 0 {
		return models.WeatherSnapshot{}, models.NewMalformedResponse("no weather conditions in response")
	}

	return models.WeatherSnapshot{
		City:        raw.Name,
		Country:     raw.Sys.Country,
		Temperature: int(math.Round(raw.Main.Temp)),
		FeelsLike:   int(math.Round(raw.Main.FeelsLike)),
		Condition:   raw.Weather[0].Main,
		Description: raw.Weather[0].Description,
		Humidity:    raw.Main.Humidity,
		WindSpeed:   roundToTenth(raw.Wind.Speed),
		Pressure:    raw.Main.Pressure,
		Visibility:  raw.Visibility / 1000,
		Cloudiness:  raw.Clouds.All,
		Sunrise:     raw.Sys.Sunrise,
		Sunset:      raw.Sys.Sunset,
		Lat:         raw.Coord.Lat,
		Lon:         raw.Coord.Lon,
		Icon:        raw.Weather[0].Icon,
	}, nil
}

// normalizeForecast buckets the flat chronological 3-hour feed into one
// entry per calendar date. First entry of a date wins, later entries for
// the same date are discarded, and at most the first five buckets are kept.
// Intra-day variation is dropped on purpose, nothing is averaged.
func normalizeForecast(raw forecastResponse) (models.ForecastSet, error) {
	set := models.ForecastSet{
		City:    raw.City.Name,
		Country: raw.City.Country,
	}

	seen := make(map[string]bool)
	var firstOfDay []forecastEntry
	for _, entry := range raw.List {
		date := forecastDate(entry.DtTxt)
		if seen[date] {
			continue
		}
		seen[date] = true
		firstOfDay = append(firstOfDay, entry)
	}

	if len(firstOfDay) > maxForecastDays {
		firstOfDay = firstOfDay[:maxForecastDays]
	}

	for _, entry := range firstOfDay {
		if len(entry.Weather) == 0 {
			return models.ForecastSet{}, models.NewMalformedResponse("no weather conditions in forecast entry " + entry.DtTxt)
		}

		set.Days = append(set.Days, models.ForecastDay{
			Date:        forecastDate(entry.DtTxt),
			TempMax:     int(math.Round(entry.Main.TempMax)),
			TempMin:     int(math.Round(entry.Main.TempMin)),
			Condition:   entry.Weather[0].Main,
			Description: entry.Weather[0].Description,
			Humidity:    entry.Main.Humidity,
			WindSpeed:   roundToTenth(entry.Wind.Speed),
			Icon:        entry.Weather[0].Icon,
			Timestamp:   entry.Dt,
		})
	}

	return set, nil
}

// forecastDate extracts the calendar date from a feed date-time string
// ("2025-07-25 18:00:00" -> "2025-07-25").
func forecastDate(dtTxt string) string {
	if i := strings.IndexByte(dtTxt, ' '); i >= 0 {
		return dtTxt[:i]
	}
	return dtTxt
}

func roundToTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
