// Package weather fetches current conditions for a capital city from
// OpenWeatherMap in either of its two wire formats and normalizes both
// into a model.Reading.
package weather

import (
	"context"
	"net/http"

	"github.com/alexivanou/climate-api/internal/config"
	"github.com/alexivanou/climate-api/internal/model"
	"github.com/rotisserie/eris"
	"github.com/sony/gobreaker"
)

// Format selects the provider wire format
type Format int

const (
	FormatJSON Format = iota
	FormatXML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatXML:
		return "xml"
	default:
		return "unknown"
	}
}

// Fetcher retrieves one reading for a capital city. The returned reading
// has no CountryID; the caller resolves it.
type Fetcher interface {
	Fetch(ctx context.Context, capital string) (*model.Reading, error)
}

// Client dispatches fetches to the JSON or XML fetcher. Both share one
// transport, so pacing and the breaker apply across formats.
type Client struct {
	json *JSONFetcher
	xml  *XMLFetcher
	t    *transport
}

// NewClient creates a client from configuration using a default HTTP client
func NewClient(cfg config.WeatherConfig) *Client {
	return NewClientWithHTTP(cfg, nil)
}

// NewClientWithHTTP creates a client over the given HTTP client.
// A nil client gets one bounded by cfg.Timeout.
func NewClientWithHTTP(cfg config.WeatherConfig, httpClient *http.Client) *Client {
	t := newTransport(cfg, httpClient)
	return &Client{
		json: &JSONFetcher{t: t},
		xml:  &XMLFetcher{t: t},
		t:    t,
	}
}

// Fetcher returns the fetcher for the given format
func (c *Client) Fetcher(format Format) (Fetcher, error) {
	switch format {
	case FormatJSON:
		return c.json, nil
	case FormatXML:
		return c.xml, nil
	}
	return nil, eris.Errorf("unsupported weather format %d", int(format))
}

// Fetch retrieves the current reading for capital in the given format
func (c *Client) Fetch(ctx context.Context, capital string, format Format) (*model.Reading, error) {
	f, err := c.Fetcher(format)
	if err != nil {
		return nil, err
	}
	return f.Fetch(ctx, capital)
}

// BreakerOpen reports whether provider calls are currently short-circuited
func (c *Client) BreakerOpen() bool {
	return c.t.breaker.State() == gobreaker.StateOpen
}
