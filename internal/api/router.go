package api

import (
	"github.com/alexivanou/climate-api/internal/service"
	"github.com/alexivanou/climate-api/internal/stats"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter creates a new HTTP router
func NewRouter(service service.ServiceInterface, statsCollector *stats.Collector, logger *zap.Logger) *mux.Router {
	handler := NewHandler(service, logger)
	statsHandler := NewStatsHandler(statsCollector, logger)

	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/ingest", handler.IngestAll).Methods("POST")
	v1.HandleFunc("/ingest/reference", handler.IngestReference).Methods("POST")
	v1.HandleFunc("/ingest/temperatures", handler.IngestTemperatures).Methods("POST")
	v1.HandleFunc("/readings", handler.ListReadings).Methods("GET")
	v1.HandleFunc("/neighborhood", handler.Neighborhood).Methods("GET")
	v1.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")

	return router
}
