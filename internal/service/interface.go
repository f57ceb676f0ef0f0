package service

import (
	"context"

	"github.com/alexivanou/climate-api/internal/model"
)

// ServiceInterface defines the service interface for testing
type ServiceInterface interface {
	IngestReference(ctx context.Context) (*model.ReferenceIngestResult, error)
	IngestTemperatures(ctx context.Context) (*model.TemperatureIngestResult, error)
	IngestAll(ctx context.Context) (*model.IngestAllResult, error)
	ListReadings(ctx context.Context) ([]model.ReadingView, error)
	Neighborhood(ctx context.Context, countryName string) (*model.NeighborhoodSnapshot, error)
}

// Ingester runs the ingestion entry points
type Ingester interface {
	IngestReference(ctx context.Context) (*model.ReferenceIngestResult, error)
	IngestTemperatures(ctx context.Context) (*model.TemperatureIngestResult, error)
}
