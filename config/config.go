package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppName    string `envconfig:"APP_NAME" default:"weather-dashboard" yaml:"app_name"`
	AppVersion string `envconfig:"APP_VERSION" default:"1.0.0" yaml:"app_version"`
	AppEnv     string `envconfig:"APP_ENV" default:"development" yaml:"app_env"`
	Port       string `envconfig:"PORT" default:"8080" yaml:"port"`

	// WeatherAPIKey may be empty at startup; the caller logs a warning and
	// every upstream request made without it fails with an authentication
	// error.
	WeatherAPIKey   string `envconfig:"WEATHER_API_KEY" yaml:"weather_api_key"`
	WeatherBaseURL  string `envconfig:"WEATHER_BASE_URL" default:"https://api.openweathermap.org/data/2.5" yaml:"weather_base_url"`
	GeocodeBaseURL  string `envconfig:"GEOCODE_BASE_URL" default:"https://nominatim.openstreetmap.org" yaml:"geocode_base_url"`
	IPLocateBaseURL string `envconfig:"IP_LOCATE_BASE_URL" default:"http://ip-api.com/json" yaml:"ip_locate_base_url"`

	LocationTimeout      time.Duration `envconfig:"LOCATION_TIMEOUT" default:"10s" yaml:"location_timeout"`
	LocationHighAccuracy bool          `envconfig:"LOCATION_HIGH_ACCURACY" default:"false" yaml:"location_high_accuracy"`

	// CityRefreshInterval enables the cron refresh of the city table when
	// set above zero. Zero keeps the populate-once behavior.
	CityRefreshInterval time.Duration `envconfig:"CITY_REFRESH_INTERVAL" default:"0" yaml:"city_refresh_interval"`

	SentryDSN string `envconfig:"SENTRY_DSN" yaml:"sentry_dsn"`

	Cities []string `envconfig:"CITIES" yaml:"cities"`
}

// DefaultCities is the fixed roster shown in the city table when the
// config names none. Bangkok appears twice; duplicates are tolerated and
// produce duplicate rows.
var DefaultCities = []string{
	"London", "Paris", "New York", "Tokyo", "Sydney",
	"Dubai", "Singapore", "Hong Kong", "Bangkok", "Mumbai",
	"Istanbul", "Moscow", "Berlin", "Amsterdam", "Barcelona",
	"Rome", "Madrid", "Toronto", "Mexico City", "São Paulo",
	"Buenos Aires", "Cape Town", "Bangkok", "Seoul", "Beijing",
}

func NewConfig() *Config {
	// A missing .env file is fine, plain environment variables work too.
	_ = godotenv.Load()

	var cnf Config

	if yamlData, err := os.ReadFile("config/config.yaml"); err == nil {
		if err := yaml.Unmarshal(yamlData, &cnf); err != nil {
			panic(fmt.Sprintf("failed to parse YAML config: %v", err))
		}
	}

	if err := envconfig.Process("", &cnf); err != nil {
		panic(fmt.Errorf("error environment variable parsing: %w", err))
	}

	if len(cnf.Cities) == 0 {
		cnf.Cities = DefaultCities
	}

	return &cnf
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
