package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-etl/internal/weather"
)

var (
	errNoHTTPClient = errors.New("http client not configured")

	// ErrMissingHourly is returned when a 200 response lacks the hourly temperature series.
	ErrMissingHourly = fmt.Errorf("%w: 'hourly' data missing in API response", weather.ErrUpstreamUnavailable)
)

// maxErrorBody caps how much of a failed response body is kept for diagnostics.
const maxErrorBody = 1024

// UpstreamStatusError is returned when the provider answers with a non-200 status.
type UpstreamStatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status code %d", e.Provider, e.StatusCode)
}

// Unwrap lets callers match the error against weather.ErrUpstreamUnavailable.
func (e *UpstreamStatusError) Unwrap() error {
	return weather.ErrUpstreamUnavailable
}

// doRequest executes the request exactly once through the circuit breaker.
// Any status other than 200 is drained, closed and returned as an
// *UpstreamStatusError; transport errors are returned unchanged.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	provider string,
	buildRequest func(ctx context.Context) (*http.Request, error),
) (*http.Response, error) {
	if client == nil {
		return nil, errNoHTTPClient
	}

	req, err := buildRequest(ctx)
	if err != nil {
		return nil, err
	}

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}

		if resp.StatusCode != http.StatusOK {
			defer resp.Body.Close()
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			return nil, &UpstreamStatusError{
				Provider:   provider,
				StatusCode: resp.StatusCode,
				Body:       string(body),
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}
