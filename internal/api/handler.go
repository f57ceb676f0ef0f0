package api

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexivanou/climate-api/internal/model"
	"github.com/alexivanou/climate-api/internal/neighborhood"
	"github.com/alexivanou/climate-api/internal/service"
	"github.com/jszwec/csvutil"
	"go.uber.org/zap"
)

// Handler handles HTTP requests
type Handler struct {
	service service.ServiceInterface
	logger  *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(service service.ServiceInterface, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type ingestResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	*model.ReferenceIngestResult
	*model.TemperatureIngestResult
}

type neighborhoodError struct {
	Error    string                      `json:"error"`
	Snapshot *model.NeighborhoodSnapshot `json:"snapshot,omitempty"`
}

// IngestReference handles POST /api/v1/ingest/reference
func (h *Handler) IngestReference(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.IngestReference(r.Context())
	if err != nil {
		h.logger.Error("Error ingesting reference data", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, ingestResponse{Message: "failed to ingest reference data"})
		return
	}

	h.writeJSON(w, http.StatusOK, ingestResponse{
		Success:               true,
		Message:               "countries and borders inserted",
		ReferenceIngestResult: result,
	})
}

// IngestTemperatures handles POST /api/v1/ingest/temperatures
func (h *Handler) IngestTemperatures(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.IngestTemperatures(r.Context())
	if err != nil {
		h.logger.Error("Error ingesting temperatures", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, ingestResponse{Message: "failed to ingest temperatures"})
		return
	}

	h.writeJSON(w, http.StatusOK, ingestResponse{
		Success:                 true,
		Message:                 "temperatures inserted",
		TemperatureIngestResult: result,
	})
}

// IngestAll handles POST /api/v1/ingest
func (h *Handler) IngestAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.IngestAll(r.Context())
	if err != nil {
		h.logger.Error("Error ingesting data", zap.Error(err))
		resp := ingestResponse{Message: "ingestion failed"}
		if result != nil {
			resp.ReferenceIngestResult = result.Reference
		}
		h.writeJSON(w, http.StatusInternalServerError, resp)
		return
	}

	h.writeJSON(w, http.StatusOK, ingestResponse{
		Success:                 true,
		Message:                 "countries, borders and temperatures inserted",
		ReferenceIngestResult:   result.Reference,
		TemperatureIngestResult: result.Temperatures,
	})
}

// ListReadings handles GET /api/v1/readings
func (h *Handler) ListReadings(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		http.Error(w, "format must be 'json' or 'csv'", http.StatusBadRequest)
		return
	}

	readings, err := h.service.ListReadings(r.Context())
	if err != nil {
		h.logger.Error("Error listing readings", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if format == "csv" {
		h.writeCSV(w, readings)
		return
	}

	if readings == nil {
		readings = []model.ReadingView{}
	}
	h.writeJSON(w, http.StatusOK, readings)
}

// Neighborhood handles GET /api/v1/neighborhood
func (h *Handler) Neighborhood(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("country")
	if name == "" {
		http.Error(w, "query parameter 'country' is required", http.StatusBadRequest)
		return
	}

	snapshot, err := h.service.Neighborhood(r.Context(), name)
	if err != nil {
		var nb *neighborhood.NoBordersError
		switch {
		case errors.Is(err, service.ErrEmptyCountryName):
			http.Error(w, "query parameter 'country' is required", http.StatusBadRequest)
		case errors.Is(err, service.ErrCountryNotFound):
			http.Error(w, "country not found", http.StatusNotFound)
		case errors.As(err, &nb):
			h.writeJSON(w, http.StatusNotFound, neighborhoodError{Error: "no borders found", Snapshot: nb.Snapshot})
		default:
			h.logger.Error("Error resolving neighborhood", zap.String("country", name), zap.Error(err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, snapshot)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error encoding response", zap.Error(err))
	}
}

func (h *Handler) writeCSV(w http.ResponseWriter, readings []model.ReadingView) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="readings.csv"`)

	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(model.ReadingView{}); err != nil {
		h.logger.Error("Error encoding CSV header", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if err := enc.Encode(readings); err != nil {
		h.logger.Error("Error encoding CSV", zap.Error(err))
		return
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.Error("Error writing CSV", zap.Error(err))
	}
}
