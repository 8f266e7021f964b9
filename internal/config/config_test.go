package config

import (
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/i474232898/weather-etl/internal/weather"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"WEATHER_FORECAST_URL", "WEATHER_RAW_FILE", "WEATHER_CLEAN_FILE", "HTTP_TIMEOUT", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	is := is.New(t)
	clearEnv(t)

	cfg, err := Load()
	is.NoErr(err)
	is.Equal(cfg.ForecastURL, "https://api.open-meteo.com/v1/forecast")
	is.Equal(cfg.RawFile, "weather_data.csv")
	is.Equal(cfg.CleanFile, "cleaned_data.csv")
	is.Equal(cfg.HTTPTimeout, time.Duration(0)) // no timeout unless asked for
	is.Equal(cfg.LogLevel, "info")
	is.Equal(cfg.Rules, weather.DefaultRules())
}

func TestLoadOverrides(t *testing.T) {
	is := is.New(t)
	clearEnv(t)
	t.Setenv("WEATHER_FORECAST_URL", "http://127.0.0.1:8080/v1/forecast")
	t.Setenv("WEATHER_RAW_FILE", "raw.csv")
	t.Setenv("WEATHER_CLEAN_FILE", "clean.csv")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	is.NoErr(err)
	is.Equal(cfg.ForecastURL, "http://127.0.0.1:8080/v1/forecast")
	is.Equal(cfg.RawFile, "raw.csv")
	is.Equal(cfg.CleanFile, "clean.csv")
	is.Equal(cfg.HTTPTimeout, 5*time.Second)
	is.Equal(cfg.LogLevel, "debug")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad timeout", "HTTP_TIMEOUT", "soon"},
		{"bad url", "WEATHER_FORECAST_URL", "not a url"},
		{"bad level", "LOG_LEVEL", "loud"},
		{"same output files", "WEATHER_CLEAN_FILE", "weather_data.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			is.True(err != nil)
		})
	}
}

func TestSettingsCarriesFixedQuery(t *testing.T) {
	is := is.New(t)
	clearEnv(t)

	cfg, err := Load()
	is.NoErr(err)

	s := cfg.Settings()
	is.Equal(s.Query.Latitude, 52.52)
	is.Equal(s.Query.Longitude, 13.41)
	is.Equal(s.Query.PastDays, 10)
	is.Equal(s.Query.Hourly, []string{"temperature_2m", "relative_humidity_2m", "wind_speed_10m"})
	is.Equal(s.RawPath, "weather_data.csv")
	is.Equal(s.CleanPath, "cleaned_data.csv")
}
