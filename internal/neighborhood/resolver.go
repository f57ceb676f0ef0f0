// Package neighborhood assembles a country's latest climate together with
// the latest temperature of every bordering country.
package neighborhood

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexivanou/climate-api/internal/model"
	"github.com/alexivanou/climate-api/internal/repository"
	"github.com/rotisserie/eris"
)

// ErrNoBordersFound is matched by every *NoBordersError
var ErrNoBordersFound = errors.New("no borders found")

// NoBordersError is returned when a country has no resolvable neighbor.
// Snapshot still carries the country's own climate.
type NoBordersError struct {
	Snapshot *model.NeighborhoodSnapshot
}

func (e *NoBordersError) Error() string {
	return fmt.Sprintf("no borders found for country %d", e.Snapshot.CountryID)
}

func (e *NoBordersError) Is(target error) bool {
	return target == ErrNoBordersFound
}

// Resolver builds neighborhood snapshots from the stores
type Resolver struct {
	borders repository.BorderRepository
	temps   repository.TemperatureRepository
}

// NewResolver creates a resolver
func NewResolver(borders repository.BorderRepository, temps repository.TemperatureRepository) *Resolver {
	return &Resolver{borders: borders, temps: temps}
}

// Resolve returns the snapshot for countryID. Missing readings are reported
// as nil rather than errors. Neighbors keep the order of the border join.
func (r *Resolver) Resolve(ctx context.Context, countryID int64) (*model.NeighborhoodSnapshot, error) {
	snapshot := &model.NeighborhoodSnapshot{CountryID: countryID, Neighbors: []model.NeighborClimate{}}

	own, err := r.temps.LatestFor(ctx, countryID)
	if err != nil {
		return nil, eris.Wrapf(err, "latest reading for country %d", countryID)
	}
	if own != nil {
		view := own.View()
		snapshot.Climate = &view
	}

	neighbors, err := r.borders.NeighborsOf(ctx, countryID)
	if err != nil {
		return nil, eris.Wrapf(err, "neighbors of country %d", countryID)
	}
	if len(neighbors) == 0 {
		return nil, &NoBordersError{Snapshot: snapshot}
	}

	for _, n := range neighbors {
		entry := model.NeighborClimate{Code3: n.Code3, CountryID: n.CountryID, Name: n.Name}
		latest, err := r.temps.LatestFor(ctx, n.CountryID)
		if err != nil {
			return nil, eris.Wrapf(err, "latest reading for neighbor %s", n.Code3)
		}
		if latest != nil {
			temp := latest.Temperature
			entry.Temperature = &temp
		}
		snapshot.Neighbors = append(snapshot.Neighbors, entry)
	}

	return snapshot, nil
}
