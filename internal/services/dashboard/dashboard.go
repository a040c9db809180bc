// Package dashboard owns the application view state: current weather,
// forecast, loading and error flags, unit and theme preferences, and the
// bulk city table. Every mutation is an explicit transition on one
// mutex-guarded container, there are no ambient globals.
package dashboard

import (
	"context"
	"sync"

	"weather-dashboard/internal/models"
	"weather-dashboard/internal/repositories"
	"weather-dashboard/internal/services/locator"
	"weather-dashboard/pkg/logger"
)

// State is the fetch lifecycle of the main weather panel and of the city
// table. Both are re-entrant: any new search moves Ready or Failed back to
// Loading.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// PageSize is the fixed client-side page size of the city table.
const PageSize = 10

type Dashboard struct {
	provider repositories.WeatherProvider
	resolver *locator.Resolver
	roster   []string
	l        *logger.Logger

	mu        sync.Mutex
	state     State
	weather   *models.WeatherSnapshot
	forecast  *models.ForecastSet
	lastErr   *models.APIError
	isCelsius bool
	theme     Theme

	// seq is the monotonically increasing request sequence. A completing
	// fetch applies its result only if it still carries the latest issued
	// number, so a slow stale response never overwrites a newer one.
	seq uint64

	// locationDone guards the automatic on-mount location fetch so it
	// runs at most once and never once weather data is already present.
	locationDone bool

	citiesState State
	cityRows    []models.WeatherSnapshot
	citiesPage  int
}

func New(provider repositories.WeatherProvider, resolver *locator.Resolver, roster []string, l *logger.Logger) *Dashboard {
	return &Dashboard{
		provider:    provider,
		resolver:    resolver,
		roster:      roster,
		l:           l,
		state:       StateIdle,
		isCelsius:   true,
		theme:       ThemeLight,
		citiesState: StateIdle,
		citiesPage:  1,
	}
}

// Search runs fetch-by-city then fetch-forecast sequentially. The forecast
// is keyed by the city name the weather response resolved, not the raw
// user input, so the upstream's casing and matching are reused. Either
// failure marks the whole operation Failed.
func (d *Dashboard) Search(ctx context.Context, city string) error {
	return d.run(ctx, func(ctx context.Context) (models.WeatherSnapshot, error) {
		return d.provider.FetchCurrentByCity(ctx, city)
	})
}

// FetchForCoordinates runs the same weather-then-forecast sequence for a
// coordinate pair, typically posted by a client that ran geolocation
// itself.
func (d *Dashboard) FetchForCoordinates(ctx context.Context, lat, lon float64) error {
	return d.run(ctx, func(ctx context.Context) (models.WeatherSnapshot, error) {
		return d.provider.FetchCurrentByCoords(ctx, lat, lon)
	})
}

// UseCurrentLocation resolves the position via the locator and fetches
// weather for it. It is the mount-time entry point and is guarded: it runs
// at most once and not at all when weather data is already present. A
// location failure is logged and returned but leaves view state untouched,
// the dashboard simply stays idle.
func (d *Dashboard) UseCurrentLocation(ctx context.Context) error {
	d.mu.Lock()
	if d.locationDone || d.weather != nil {
		d.mu.Unlock()
		return nil
	}
	d.locationDone = true
	d.mu.Unlock()

	fix, err := d.resolver.Resolve(ctx)
	if err != nil {
		d.l.Warning("skipping location weather, no fix", map[string]any{"err": err.Error()})
		return err
	}

	d.l.Info("resolved current location", map[string]any{
		"city":    fix.City,
		"country": fix.Country,
		"lat":     fix.Lat,
		"lon":     fix.Lon,
	})

	return d.FetchForCoordinates(ctx, fix.Lat, fix.Lon)
}

func (d *Dashboard) run(ctx context.Context, fetch func(context.Context) (models.WeatherSnapshot, error)) error {
	seq := d.begin()

	weather, err := fetch(ctx)
	if err != nil {
		d.fail(seq, err)
		return err
	}
	d.applyWeather(seq, weather)

	forecast, err := d.provider.FetchForecast(ctx, weather.City)
	if err != nil {
		d.fail(seq, err)
		return err
	}
	d.applyForecast(seq, forecast)

	return nil
}

func (d *Dashboard) begin() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	d.state = StateLoading
	d.lastErr = nil
	return d.seq
}

func (d *Dashboard) applyWeather(seq uint64, weather models.WeatherSnapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		d.l.Debug("discarding stale weather result", map[string]any{"seq": seq, "latest": d.seq})
		return
	}
	d.weather = &weather
}

func (d *Dashboard) applyForecast(seq uint64, forecast models.ForecastSet) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		d.l.Debug("discarding stale forecast result", map[string]any{"seq": seq, "latest": d.seq})
		return
	}
	d.forecast = &forecast
	d.state = StateReady
}

func (d *Dashboard) fail(seq uint64, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		d.l.Debug("discarding stale failure", map[string]any{"seq": seq, "latest": d.seq})
		return
	}
	d.state = StateFailed
	d.lastErr = models.AsAPIError(err)
}

// ToggleUnits flips between Celsius and Fahrenheit display. It never
// triggers a refetch: stored values stay metric, only the rendered view
// changes. Wind speed follows the same flag.
func (d *Dashboard) ToggleUnits() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.isCelsius = !d.isCelsius
	return d.isCelsius
}

// ToggleTheme flips between light and dark. Presentation only.
func (d *Dashboard) ToggleTheme() Theme {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.theme == ThemeLight {
		d.theme = ThemeDark
	} else {
		d.theme = ThemeLight
	}
	return d.theme
}

// LoadCities populates the city table via a best-effort batch fetch over
// the fixed roster. Duplicate roster entries produce duplicate rows.
// Individual city failures are dropped by the provider, so the table never
// fails as a whole; it just shows fewer rows.
func (d *Dashboard) LoadCities(ctx context.Context) {
	d.mu.Lock()
	d.citiesState = StateLoading
	d.mu.Unlock()

	rows := d.provider.FetchMany(ctx, d.roster)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.cityRows = rows
	d.citiesPage = clampPage(d.citiesPage, len(rows))
	d.citiesState = StateReady
}

// SetCitiesPage selects a table page, clamped to the valid range, and
// returns the page actually selected.
func (d *Dashboard) SetCitiesPage(page int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.citiesPage = clampPage(page, len(d.cityRows))
	return d.citiesPage
}

func clampPage(page, total int) int {
	last := totalPages(total)
	if page < 1 {
		return 1
	}
	if page > last {
		return last
	}
	return page
}

func totalPages(total int) int {
	pages := (total + PageSize - 1) / PageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}
