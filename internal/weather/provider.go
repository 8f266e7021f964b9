package weather

import (
	"context"
	"errors"
)

// ErrUpstreamUnavailable marks provider failures that leave the pipeline
// without data but are not fatal: a non-200 status or a response without
// the expected hourly series.
var ErrUpstreamUnavailable = errors.New("upstream data unavailable")

// Query describes the hourly observations requested from a provider.
type Query struct {
	Latitude  float64
	Longitude float64
	PastDays  int
	Hourly    []string
}

// Provider abstracts a source of hourly weather observations (e.g. Open-Meteo).
type Provider interface {
	Name() string
	FetchHourly(ctx context.Context, q Query) (RawWeatherBatch, error)
}

// Store is the contract the tabular file store must satisfy.
type Store interface {
	// SaveBatch writes a fetched batch. A nil batch returns ErrNoData and touches nothing.
	SaveBatch(ctx context.Context, path string, batch *RawWeatherBatch) (int, error)
	SaveRecords(ctx context.Context, path string, records []WeatherRecord) error
	LoadRecords(ctx context.Context, path string) ([]WeatherRecord, error)
}
