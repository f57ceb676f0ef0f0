package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexivanou/climate-api/internal/model"
	"github.com/alexivanou/climate-api/internal/neighborhood"
)

var (
	// ErrEmptyCountryName is returned when no country name is given
	ErrEmptyCountryName = errors.New("country name is required")
	// ErrCountryNotFound is returned when no country name contains the query
	ErrCountryNotFound = errors.New("country not found")
)

// Neighborhood finds the first country whose name contains countryName and
// resolves its neighborhood snapshot. On a country without borders the
// returned error is a *neighborhood.NoBordersError whose snapshot is named.
func (s *Service) Neighborhood(ctx context.Context, countryName string) (*model.NeighborhoodSnapshot, error) {
	query := strings.TrimSpace(countryName)
	if query == "" {
		return nil, ErrEmptyCountryName
	}

	country, err := s.countryRepo.FindByNameSubstring(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to find country: %w", err)
	}
	if country == nil {
		return nil, fmt.Errorf("%w: %q", ErrCountryNotFound, query)
	}

	snapshot, err := s.resolver.Resolve(ctx, country.ID)
	if err != nil {
		var nb *neighborhood.NoBordersError
		if errors.As(err, &nb) {
			nb.Snapshot.CountryName = country.Name
			return nil, nb
		}
		return nil, fmt.Errorf("failed to resolve neighborhood: %w", err)
	}

	snapshot.CountryName = country.Name
	return snapshot, nil
}
