package model

import "time"

// NeighborClimate is a bordering country with its latest temperature.
// Temperature is nil when the neighbor has no recorded reading.
type NeighborClimate struct {
	Code3       string   `json:"code3"`
	CountryID   int64    `json:"country_id"`
	Name        string   `json:"name"`
	Temperature *float64 `json:"temperature"`
}

// NeighborhoodSnapshot represents a country's latest climate together with
// the latest temperature of each of its neighbors.
type NeighborhoodSnapshot struct {
	CountryID   int64             `json:"country_id"`
	CountryName string            `json:"country"`
	Climate     *ReadingView      `json:"climate"`
	Neighbors   []NeighborClimate `json:"neighbors"`
}

// ClimateAvailable reports whether the country has at least one reading
func (s *NeighborhoodSnapshot) ClimateAvailable() bool {
	return s.Climate != nil
}

// ReferenceIngestResult summarizes a reference data ingestion run
type ReferenceIngestResult struct {
	Countries int `json:"countries"`
	Borders   int `json:"borders"`
}

// TemperatureIngestResult summarizes a temperature ingestion run
type TemperatureIngestResult struct {
	RunID     string `json:"run_id"`
	Attempted int    `json:"attempted"`
	Inserted  int    `json:"inserted"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
}

// IngestAllResult summarizes a combined reference and temperature run
type IngestAllResult struct {
	Reference    *ReferenceIngestResult   `json:"reference"`
	Temperatures *TemperatureIngestResult `json:"temperatures"`
}

// IngestRun is the persisted record of a finished temperature ingestion
type IngestRun struct {
	ID         int64     `db:"id" json:"-"`
	RunID      string    `db:"run_id" json:"run_id"`
	Region     string    `db:"region" json:"region"`
	StartedAt  time.Time `db:"started_at" json:"started_at"`
	FinishedAt time.Time `db:"finished_at" json:"finished_at"`
	Attempted  int       `db:"attempted" json:"attempted"`
	Inserted   int       `db:"inserted" json:"inserted"`
	Skipped    int       `db:"skipped" json:"skipped"`
	Failed     int       `db:"failed" json:"failed"`
}
