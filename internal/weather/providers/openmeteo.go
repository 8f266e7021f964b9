package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-etl/internal/weather"
)

// DefaultOpenMeteoURL is the Open-Meteo forecast endpoint.
const DefaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider creates a provider for the forecast endpoint at baseURL.
// An empty baseURL selects DefaultOpenMeteoURL.
func NewOpenMeteoProvider(client *http.Client, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultOpenMeteoURL
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		client:  client,
		circuit: cb,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchHourly requests the hourly series described by q and returns the
// decoded `hourly` object.
func (p *OpenMeteoProvider) FetchHourly(ctx context.Context, q weather.Query) (weather.RawWeatherBatch, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		u := fmt.Sprintf("%s?%s", p.baseURL, queryValues(q).Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, p.name, buildRequest)
	if err != nil {
		return weather.RawWeatherBatch{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Hourly *weather.RawWeatherBatch `json:"hourly"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.RawWeatherBatch{}, fmt.Errorf("decode %s response: %w", p.name, err)
	}

	if payload.Hourly == nil || payload.Hourly.Temperature == nil {
		return weather.RawWeatherBatch{}, ErrMissingHourly
	}

	return *payload.Hourly, nil
}

func queryValues(q weather.Query) url.Values {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(q.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	values.Set("past_days", strconv.Itoa(q.PastDays))
	values.Set("hourly", strings.Join(q.Hourly, ","))
	return values
}
