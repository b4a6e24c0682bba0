package ports

import (
	"context"

	"github.com/evroute/charge-planner/internal/domain"
)

// Port: a boundary for retrieving Station records from the registry.
type StationRepository interface {
	// Return all stations inside the bounding box, ordered by station id.
	ListStationsInBounds(ctx context.Context, minLat, maxLat, minLon, maxLon float64) ([]domain.Station, error)
}
