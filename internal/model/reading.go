package model

import (
	"fmt"
	"time"
)

// TimeOfDay is an offset from midnight UTC in whole seconds
type TimeOfDay int64

// NewTimeOfDay extracts the UTC time of day from t.
func NewTimeOfDay(t time.Time) TimeOfDay {
	t = t.UTC()
	return TimeOfDay(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// Duration returns the offset as a time.Duration
func (d TimeOfDay) Duration() time.Duration {
	return time.Duration(d) * time.Second
}

// String renders the offset as HH:MM:SS
func (d TimeOfDay) String() string {
	s := int64(d)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

// Reading is a single timestamped weather observation for a country.
// Timestamp is the provider's observation time, not the ingestion time.
type Reading struct {
	ID          int64      `db:"id"`
	CountryID   int64      `db:"country_id"`
	Timestamp   time.Time  `db:"observed_at"`
	Temperature float64    `db:"temperature"`
	FeelsLike   float64    `db:"feels_like"`
	TempMin     float64    `db:"temp_min"`
	TempMax     float64    `db:"temp_max"`
	Humidity    float64    `db:"humidity"`
	Sunrise     *TimeOfDay `db:"sunrise"`
	Sunset      *TimeOfDay `db:"sunset"`
}

// ReadingView is the presentation shape of a Reading
type ReadingView struct {
	ID          int64     `json:"id" csv:"id"`
	CountryID   int64     `json:"country_id" csv:"country_id"`
	Timestamp   time.Time `json:"timestamp" csv:"timestamp"`
	Temperature float64   `json:"temperature" csv:"temperature"`
	FeelsLike   float64   `json:"feels_like" csv:"feels_like"`
	TempMin     float64   `json:"temp_min" csv:"temp_min"`
	TempMax     float64   `json:"temp_max" csv:"temp_max"`
	Humidity    float64   `json:"humidity" csv:"humidity"`
	Sunrise     *string   `json:"sunrise" csv:"sunrise,omitempty"`
	Sunset      *string   `json:"sunset" csv:"sunset,omitempty"`
}

// View converts r into its presentation shape, rendering sunrise and
// sunset as HH:MM:SS strings.
func (r Reading) View() ReadingView {
	return ReadingView{
		ID:          r.ID,
		CountryID:   r.CountryID,
		Timestamp:   r.Timestamp.UTC(),
		Temperature: r.Temperature,
		FeelsLike:   r.FeelsLike,
		TempMin:     r.TempMin,
		TempMax:     r.TempMax,
		Humidity:    r.Humidity,
		Sunrise:     formatTimeOfDay(r.Sunrise),
		Sunset:      formatTimeOfDay(r.Sunset),
	}
}

func formatTimeOfDay(d *TimeOfDay) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
