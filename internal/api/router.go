package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/evroute/charge-planner/internal/api/handlers"
	"github.com/evroute/charge-planner/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware
// of concrete adapters).
func NewRouter(
	planner handlers.RoutePlanner,
	status ports.StationStatusProvider,
	statusCache ports.StatusCache,
	allowedOrigins []string,
) http.Handler {
	planHandler := &handlers.PlanHandler{Planner: planner}
	stationHandler := &handlers.StationHandler{Status: status, Cache: statusCache}

	r := mux.NewRouter()
	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/plan", planHandler.Plan).Methods(http.MethodPost)
	r.HandleFunc("/api/stations/{id}/status", stationHandler.GetStatus).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})

	return loggingMiddleware(c.Handler(r))
}
