package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/i474232898/weather-etl/internal/config"
	"github.com/i474232898/weather-etl/internal/store"
	"github.com/i474232898/weather-etl/internal/weather"
	"github.com/i474232898/weather-etl/internal/weather/providers"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Str("service", "weather-etl").Logger()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid log level")
	}
	logger = logger.Level(level)
	ctx := logger.WithContext(context.Background())

	// Outbound client; a zero timeout blocks until the upstream answers.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewOpenMeteoProvider(httpClient, cfg.ForecastURL)
	service := weather.NewService(store.NewCSVStore(), provider, cfg.Settings())

	report, err := service.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Str("run_id", report.RunID).Msg("weather pipeline failed")
	}
}
