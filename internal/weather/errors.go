package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the provider has no data for the requested place (HTTP 404)
	ErrNotFound = errors.New("no weather data for location")
	// ErrMalformedResponse means the body lacks a usable observation timestamp
	// or a required measurement
	ErrMalformedResponse = errors.New("malformed weather response")
)

// ProviderError covers every other provider failure: non-200 statuses,
// transport errors and short-circuited calls.
type ProviderError struct {
	Capital    string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("weather provider returned status %d for %q", e.StatusCode, e.Capital)
	}
	return fmt.Sprintf("weather provider request for %q failed: %v", e.Capital, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
