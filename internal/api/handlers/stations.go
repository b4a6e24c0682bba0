package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/evroute/charge-planner/internal/api/dto"
	"github.com/evroute/charge-planner/internal/domain"
	"github.com/evroute/charge-planner/internal/ports"
)

// StationHandler serves live connector status for a single station,
// read-through the same cache the planner uses.
type StationHandler struct {
	Status ports.StationStatusProvider
	Cache  ports.StatusCache
}

func (h *StationHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	stationID := strings.TrimSpace(mux.Vars(r)["id"])
	if stationID == "" {
		writeError(w, r, http.StatusBadRequest, "station id is required")
		return
	}

	connectors, err := h.fetch(r, stationID)
	if err != nil {
		log.Printf("station status failed: station=%s err=%v", stationID, err)
		writeError(w, r, http.StatusBadGateway, "station status unavailable")
		return
	}

	res := dto.StationStatusResponse{
		StationID:  stationID,
		Connectors: make([]dto.ConnectorResponse, 0, len(connectors)),
	}
	for _, c := range connectors {
		// "2" is the feed's available state.
		if c.Status == "2" {
			res.AvailableCount++
		}
		res.Connectors = append(res.Connectors, dto.ConnectorResponse{
			Status:     c.Status,
			OutputKw:   c.OutputKw,
			LastUpdate: c.LastUpdate,
		})
	}
	res.TotalCount = len(connectors)

	writeJSON(w, r, http.StatusOK, res)
}

func (h *StationHandler) fetch(r *http.Request, stationID string) ([]domain.ConnectorStatus, error) {
	ctx := r.Context()

	if h.Cache != nil {
		if connectors, hit, err := h.Cache.Get(ctx, stationID); err == nil && hit {
			return connectors, nil
		}
	}

	connectors, err := h.Status.GetStatus(ctx, stationID)
	if err != nil {
		return nil, err
	}

	if h.Cache != nil {
		if err := h.Cache.Put(ctx, stationID, connectors); err != nil {
			log.Printf("status cache write failed: station=%s err=%v", stationID, err)
		}
	}

	return connectors, nil
}
