package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weather-dashboard/config"
	_ "weather-dashboard/docs"
	v1 "weather-dashboard/internal/controllers/http/v1"
	"weather-dashboard/internal/repositories"
	"weather-dashboard/internal/scheduler"
	"weather-dashboard/internal/services/dashboard"
	"weather-dashboard/internal/services/locator"
	"weather-dashboard/pkg/httpserver"
	"weather-dashboard/pkg/logger"
	"weather-dashboard/pkg/observe"
)

// @title Weather Dashboard API
// @version 1.0.0
// @description Backend view model for a browser weather dashboard: city search, 5-day forecast, bulk city table, unit and theme toggles.
// @description Weather data comes from OpenWeatherMap, reverse geocoding from Nominatim.

// @host localhost:8080
// @BasePath /
// @schemes http

// @tag.name Dashboard
// @tag.description Dashboard state and actions
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	cnf := config.NewConfig()

	sentryHook := observe.NewSentryHook(cnf.AppEnv, cnf.AppName, cnf.SentryDSN, !cnf.IsProduction())
	l := logger.NewZapLogger(cnf.AppName, os.Stdout, sentryHook)

	if cnf.WeatherAPIKey == "" {
		l.Warning("WEATHER_API_KEY is not set, upstream requests will fail with an authentication error")
	}

	// Weather and forecast fetches carry no client timeout; only the
	// location lookup is bounded, by the resolver's own deadline.
	httpClient := &http.Client{}

	weatherRepo := repositories.NewOpenWeatherRepository(cnf.WeatherBaseURL, cnf.WeatherAPIKey, l, httpClient)
	geocoder := repositories.NewNominatimRepository(cnf.GeocodeBaseURL, l, httpClient)
	positions := repositories.NewIPLocateRepository(cnf.IPLocateBaseURL, l, httpClient)

	resolver := locator.NewResolver(positions, geocoder, cnf.LocationTimeout, cnf.LocationHighAccuracy, l)

	dash := dashboard.New(weatherRepo, resolver, cnf.Cities, l)

	app := httpserver.InitFiberServer(cnf.AppName)
	v1.NewRouter(app, dash, l)

	sched := scheduler.NewScheduler(dash, cnf.CityRefreshInterval, l)
	sched.Start()

	go func() {
		if err := app.Listen(":" + cnf.Port); err != nil {
			l.Fatal("cannot run the server", map[string]any{"err": err})
		}
	}()

	// Mount sequence: a location-derived fetch runs once, then the city
	// table populates. Neither blocks serving.
	go func() {
		if err := dash.UseCurrentLocation(ctx); err != nil {
			l.Warning("no weather for current location", map[string]any{"err": err.Error()})
		}
		dash.LoadCities(ctx)
	}()

	l.Info("application started successfully", map[string]any{"port": cnf.Port})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		signal.Stop(sigCh)
		close(sigCh)

		sched.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = app.ShutdownWithContext(shutdownCtx)
		_ = l.Stop()
		cancel()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}
