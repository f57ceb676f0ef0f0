package service

import (
	"context"

	"github.com/alexivanou/climate-api/internal/model"
	"github.com/alexivanou/climate-api/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockCountryRepository implements repository.CountryRepository interface
type MockCountryRepository struct {
	mock.Mock
}

func (m *MockCountryRepository) InsertCountries(ctx context.Context, countries []model.Country) (int, error) {
	args := m.Called(ctx, countries)
	return args.Int(0), args.Error(1)
}

func (m *MockCountryRepository) FindByCode3(ctx context.Context, code3 string) (*model.Country, error) {
	args := m.Called(ctx, code3)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Country), args.Error(1)
}

func (m *MockCountryRepository) FindByNameSubstring(ctx context.Context, query string) (*model.Country, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Country), args.Error(1)
}

// MockBorderRepository implements repository.BorderRepository interface
type MockBorderRepository struct {
	mock.Mock
}

func (m *MockBorderRepository) InsertEdges(ctx context.Context, countryID int64, neighborCodes []string) (int, error) {
	args := m.Called(ctx, countryID, neighborCodes)
	return args.Int(0), args.Error(1)
}

func (m *MockBorderRepository) NeighborsOf(ctx context.Context, countryID int64) ([]model.Neighbor, error) {
	args := m.Called(ctx, countryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Neighbor), args.Error(1)
}

// MockTemperatureRepository implements repository.TemperatureRepository interface
type MockTemperatureRepository struct {
	mock.Mock
}

func (m *MockTemperatureRepository) Insert(ctx context.Context, reading *model.Reading) error {
	args := m.Called(ctx, reading)
	return args.Error(0)
}

func (m *MockTemperatureRepository) LatestFor(ctx context.Context, countryID int64) (*model.Reading, error) {
	args := m.Called(ctx, countryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reading), args.Error(1)
}

func (m *MockTemperatureRepository) AllReadings(ctx context.Context) ([]model.ReadingView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReadingView), args.Error(1)
}

// MockIngester implements Ingester interface
type MockIngester struct {
	mock.Mock
}

func (m *MockIngester) IngestReference(ctx context.Context) (*model.ReferenceIngestResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReferenceIngestResult), args.Error(1)
}

func (m *MockIngester) IngestTemperatures(ctx context.Context) (*model.TemperatureIngestResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TemperatureIngestResult), args.Error(1)
}

type mocks struct {
	country  *MockCountryRepository
	border   *MockBorderRepository
	temp     *MockTemperatureRepository
	ingester *MockIngester
}

func newTestService() (*Service, *mocks) {
	m := &mocks{
		country:  new(MockCountryRepository),
		border:   new(MockBorderRepository),
		temp:     new(MockTemperatureRepository),
		ingester: new(MockIngester),
	}
	repos := &repository.Container{Country: m.country, Border: m.border, Temperature: m.temp}
	return NewService(repos, m.ingester), m
}
