package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-etl/internal/weather"
	"github.com/i474232898/weather-etl/internal/weather/providers"
)

// Fixed request parameters.
const (
	Latitude  = 52.52
	Longitude = 13.41
	PastDays  = 10
)

// HourlyFields are the hourly series requested from the forecast API.
var HourlyFields = []string{"temperature_2m", "relative_humidity_2m", "wind_speed_10m"}

type AppConfig struct {
	ForecastURL string `validate:"required,url"`

	// Output tables.
	RawFile   string `validate:"required"`
	CleanFile string `validate:"required,nefield=RawFile"`

	// HTTPTimeout bounds the upstream call; 0 waits indefinitely.
	HTTPTimeout time.Duration `validate:"gte=0"`

	LogLevel string `validate:"oneof=trace debug info warn error"`

	// Validation rules are fixed and never read from the environment.
	Rules []weather.ValidationRule `validate:"-"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("INFO: error loading .env file: %v", err)
	}
	cfg := &AppConfig{}

	cfg.ForecastURL = getenvDefault("WEATHER_FORECAST_URL", providers.DefaultOpenMeteoURL)
	cfg.RawFile = getenvDefault("WEATHER_RAW_FILE", "weather_data.csv")
	cfg.CleanFile = getenvDefault("WEATHER_CLEAN_FILE", "cleaned_data.csv")
	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")

	timeout, err := time.ParseDuration(getenvDefault("HTTP_TIMEOUT", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Rules = weather.DefaultRules()

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Query returns the fixed upstream query.
func (c *AppConfig) Query() weather.Query {
	return weather.Query{
		Latitude:  Latitude,
		Longitude: Longitude,
		PastDays:  PastDays,
		Hourly:    append([]string(nil), HourlyFields...),
	}
}

// Settings maps the configuration onto the pipeline settings.
func (c *AppConfig) Settings() weather.Settings {
	return weather.Settings{
		Query:     c.Query(),
		RawPath:   c.RawFile,
		CleanPath: c.CleanFile,
		Rules:     c.Rules,
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
