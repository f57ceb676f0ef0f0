package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/alexivanou/climate-api/internal/config"
	"github.com/rotisserie/eris"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const defaultBreakerThreshold = 5

// transport performs paced, breaker-guarded GETs against the current
// weather endpoint. It is shared by both format fetchers so that the
// limiter and the breaker see every provider call.
type transport struct {
	client  *http.Client
	baseURL string
	apiKey  string
	units   string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

func newTransport(cfg config.WeatherConfig, client *http.Client) *transport {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	threshold := cfg.BreakerThreshold
	if threshold <= 0 {
		threshold = defaultBreakerThreshold
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweathermap",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold)
		},
		// A 404 is an answer, not a provider fault.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
	})

	return &transport{
		client:  client,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		units:   cfg.Units,
		limiter: limiter,
		breaker: cb,
	}
}

func (t *transport) get(ctx context.Context, capital, mode string) ([]byte, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, &ProviderError{Capital: capital, Err: err}
		}
	}

	values := url.Values{}
	values.Set("q", capital)
	values.Set("appid", t.apiKey)
	if t.units != "" {
		values.Set("units", t.units)
	}
	if mode != "" {
		values.Set("mode", mode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s?%s", t.baseURL, values.Encode()), nil)
	if err != nil {
		return nil, &ProviderError{Capital: capital, Err: err}
	}

	result, err := t.breaker.Execute(func() (interface{}, error) {
		resp, err := t.client.Do(req)
		if err != nil {
			return nil, &ProviderError{Capital: capital, Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, eris.Wrapf(ErrNotFound, "capital %q", capital)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, &ProviderError{Capital: capital, StatusCode: resp.StatusCode}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &ProviderError{Capital: capital, Err: err}
		}
		return body, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &ProviderError{Capital: capital, Err: err}
		}
		return nil, err
	}

	return result.([]byte), nil
}
