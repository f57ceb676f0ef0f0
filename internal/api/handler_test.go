package api

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexivanou/climate-api/internal/model"
	"github.com/alexivanou/climate-api/internal/neighborhood"
	"github.com/alexivanou/climate-api/internal/reference"
	"github.com/alexivanou/climate-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockService is a mock implementation of ServiceInterface
type MockService struct {
	mock.Mock
}

func (m *MockService) IngestReference(ctx context.Context) (*model.ReferenceIngestResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReferenceIngestResult), args.Error(1)
}

func (m *MockService) IngestTemperatures(ctx context.Context) (*model.TemperatureIngestResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TemperatureIngestResult), args.Error(1)
}

func (m *MockService) IngestAll(ctx context.Context) (*model.IngestAllResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IngestAllResult), args.Error(1)
}

func (m *MockService) ListReadings(ctx context.Context) ([]model.ReadingView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReadingView), args.Error(1)
}

func (m *MockService) Neighborhood(ctx context.Context, countryName string) (*model.NeighborhoodSnapshot, error) {
	args := m.Called(ctx, countryName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NeighborhoodSnapshot), args.Error(1)
}

func newTestHandler(ms *MockService) *Handler {
	return NewHandler(ms, zap.NewNop())
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestHandler_IngestReference(t *testing.T) {
	tests := []struct {
		name           string
		mockSetup      func(*MockService)
		expectedStatus int
		expectedOK     bool
	}{
		{
			name: "successful request",
			mockSetup: func(ms *MockService) {
				ms.On("IngestReference", mock.Anything).Return(&model.ReferenceIngestResult{Countries: 53, Borders: 120}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedOK:     true,
		},
		{
			name: "reference data unavailable",
			mockSetup: func(ms *MockService) {
				ms.On("IngestReference", mock.Anything).Return(nil, reference.ErrLoad)
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.mockSetup(mockService)

			req, _ := http.NewRequest("POST", "/api/v1/ingest/reference", nil)
			rr := httptest.NewRecorder()
			newTestHandler(mockService).IngestReference(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			body := decodeBody(t, rr)
			assert.Equal(t, tt.expectedOK, body["success"])
			assert.NotEmpty(t, body["message"])
			if tt.expectedOK {
				assert.Equal(t, 53.0, body["countries"])
				assert.Equal(t, 120.0, body["borders"])
			}
		})
	}
}

func TestHandler_IngestTemperatures(t *testing.T) {
	mockService := new(MockService)
	mockService.On("IngestTemperatures", mock.Anything).Return(&model.TemperatureIngestResult{
		RunID: "abc", Attempted: 10, Inserted: 7, Skipped: 1, Failed: 2,
	}, nil)

	req, _ := http.NewRequest("POST", "/api/v1/ingest/temperatures", nil)
	rr := httptest.NewRecorder()
	newTestHandler(mockService).IngestTemperatures(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeBody(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "abc", body["run_id"])
	assert.Equal(t, 7.0, body["inserted"])
	assert.Equal(t, 2.0, body["failed"])
	assert.NotContains(t, body, "countries")
}

func TestHandler_IngestAll(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("IngestAll", mock.Anything).Return(&model.IngestAllResult{
			Reference:    &model.ReferenceIngestResult{Countries: 2, Borders: 1},
			Temperatures: &model.TemperatureIngestResult{RunID: "r1", Inserted: 2},
		}, nil)

		req, _ := http.NewRequest("POST", "/api/v1/ingest", nil)
		rr := httptest.NewRecorder()
		newTestHandler(mockService).IngestAll(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, 2.0, body["countries"])
		assert.Equal(t, "r1", body["run_id"])
	})

	t.Run("partial failure", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("IngestAll", mock.Anything).Return(&model.IngestAllResult{
			Reference: &model.ReferenceIngestResult{Countries: 2},
		}, assert.AnError)

		req, _ := http.NewRequest("POST", "/api/v1/ingest", nil)
		rr := httptest.NewRecorder()
		newTestHandler(mockService).IngestAll(rr, req)

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		body := decodeBody(t, rr)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, 2.0, body["countries"])
	})
}

func TestHandler_ListReadings(t *testing.T) {
	sunrise := "05:30:00"
	readings := []model.ReadingView{
		{ID: 1, CountryID: 4, Timestamp: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), Temperature: 18.5, Sunrise: &sunrise},
		{ID: 2, CountryID: 5, Timestamp: time.Date(2024, 6, 1, 12, 5, 0, 0, time.UTC), Temperature: -1},
	}

	t.Run("JSON", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("ListReadings", mock.Anything).Return(readings, nil)

		req, _ := http.NewRequest("GET", "/api/v1/readings", nil)
		rr := httptest.NewRecorder()
		newTestHandler(mockService).ListReadings(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var got []model.ReadingView
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "05:30:00", *got[0].Sunrise)
		assert.Nil(t, got[1].Sunrise)
	})

	t.Run("CSV", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("ListReadings", mock.Anything).Return(readings, nil)

		req, _ := http.NewRequest("GET", "/api/v1/readings?format=csv", nil)
		rr := httptest.NewRecorder()
		newTestHandler(mockService).ListReadings(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/csv"))

		rows, err := csv.NewReader(strings.NewReader(rr.Body.String())).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"id", "country_id", "timestamp", "temperature", "feels_like", "temp_min", "temp_max", "humidity", "sunrise", "sunset"}, rows[0])
		assert.Equal(t, "18.5", rows[1][3])
		assert.Equal(t, "05:30:00", rows[1][8])
		assert.Equal(t, "", rows[2][8])
	})

	t.Run("Empty list is an array", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("ListReadings", mock.Anything).Return(nil, nil)

		req, _ := http.NewRequest("GET", "/api/v1/readings", nil)
		rr := httptest.NewRecorder()
		newTestHandler(mockService).ListReadings(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "[]\n", rr.Body.String())
	})

	t.Run("Unknown format", func(t *testing.T) {
		mockService := new(MockService)
		req, _ := http.NewRequest("GET", "/api/v1/readings?format=xml", nil)
		rr := httptest.NewRecorder()
		newTestHandler(mockService).ListReadings(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "ListReadings", mock.Anything)
	})

	t.Run("Store error", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("ListReadings", mock.Anything).Return(nil, assert.AnError)
		req, _ := http.NewRequest("GET", "/api/v1/readings", nil)
		rr := httptest.NewRecorder()
		newTestHandler(mockService).ListReadings(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestHandler_Neighborhood(t *testing.T) {
	temp := 12.5
	tests := []struct {
		name           string
		country        string
		mockSetup      func(*MockService)
		expectedStatus int
	}{
		{
			name:    "successful request",
			country: "France",
			mockSetup: func(ms *MockService) {
				ms.On("Neighborhood", mock.Anything, "France").Return(&model.NeighborhoodSnapshot{
					CountryID:   1,
					CountryName: "France",
					Neighbors:   []model.NeighborClimate{{Code3: "DEU", CountryID: 2, Name: "Germany", Temperature: &temp}},
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing country parameter",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "blank country parameter",
			country: "  ",
			mockSetup: func(ms *MockService) {
				ms.On("Neighborhood", mock.Anything, "  ").Return(nil, service.ErrEmptyCountryName)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "unknown country",
			country: "Atlantis",
			mockSetup: func(ms *MockService) {
				ms.On("Neighborhood", mock.Anything, "Atlantis").Return(nil, service.ErrCountryNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:    "store failure",
			country: "France",
			mockSetup: func(ms *MockService) {
				ms.On("Neighborhood", mock.Anything, "France").Return(nil, assert.AnError)
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			if tt.mockSetup != nil {
				tt.mockSetup(mockService)
			}

			req, _ := http.NewRequest("GET", "/api/v1/neighborhood", nil)
			q := req.URL.Query()
			if tt.country != "" {
				q.Add("country", tt.country)
			}
			req.URL.RawQuery = q.Encode()

			rr := httptest.NewRecorder()
			newTestHandler(mockService).Neighborhood(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestHandler_Neighborhood_NoBorders(t *testing.T) {
	mockService := new(MockService)
	mockService.On("Neighborhood", mock.Anything, "Iceland").Return(nil, &neighborhood.NoBordersError{
		Snapshot: &model.NeighborhoodSnapshot{
			CountryID:   7,
			CountryName: "Iceland",
			Climate:     &model.ReadingView{CountryID: 7, Temperature: 4.5},
			Neighbors:   []model.NeighborClimate{},
		},
	})

	req, _ := http.NewRequest("GET", "/api/v1/neighborhood?country=Iceland", nil)
	rr := httptest.NewRecorder()
	newTestHandler(mockService).Neighborhood(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)

	var body neighborhoodError
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "no borders found", body.Error)
	require.NotNil(t, body.Snapshot)
	assert.Equal(t, "Iceland", body.Snapshot.CountryName)
	assert.Equal(t, 4.5, body.Snapshot.Climate.Temperature)
}

func TestHandler_HealthCheck(t *testing.T) {
	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	newTestHandler(new(MockService)).HealthCheck(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}
