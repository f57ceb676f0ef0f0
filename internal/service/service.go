package service

import (
	"context"
	"fmt"

	"github.com/alexivanou/climate-api/internal/model"
	"github.com/alexivanou/climate-api/internal/neighborhood"
	"github.com/alexivanou/climate-api/internal/repository"
)

// Service provides business logic for the API
type Service struct {
	countryRepo repository.CountryRepository
	tempRepo    repository.TemperatureRepository
	resolver    *neighborhood.Resolver
	ingester    Ingester
}

// NewService creates a new service instance
func NewService(repos *repository.Container, ingester Ingester) *Service {
	return &Service{
		countryRepo: repos.Country,
		tempRepo:    repos.Temperature,
		resolver:    neighborhood.NewResolver(repos.Border, repos.Temperature),
		ingester:    ingester,
	}
}

// IngestReference loads countries and borders into the store
func (s *Service) IngestReference(ctx context.Context) (*model.ReferenceIngestResult, error) {
	return s.ingester.IngestReference(ctx)
}

// IngestTemperatures fetches current readings for the configured region
func (s *Service) IngestTemperatures(ctx context.Context) (*model.TemperatureIngestResult, error) {
	return s.ingester.IngestTemperatures(ctx)
}

// IngestAll runs reference ingestion followed by temperature ingestion
func (s *Service) IngestAll(ctx context.Context) (*model.IngestAllResult, error) {
	ref, err := s.ingester.IngestReference(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ingest reference data: %w", err)
	}

	temps, err := s.ingester.IngestTemperatures(ctx)
	if err != nil {
		return &model.IngestAllResult{Reference: ref}, fmt.Errorf("failed to ingest temperatures: %w", err)
	}

	return &model.IngestAllResult{Reference: ref, Temperatures: temps}, nil
}

// ListReadings returns every stored reading
func (s *Service) ListReadings(ctx context.Context) ([]model.ReadingView, error) {
	readings, err := s.tempRepo.AllReadings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	return readings, nil
}
