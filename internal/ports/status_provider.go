package ports

import (
	"context"

	"github.com/evroute/charge-planner/internal/domain"
)

// Contract for the live charger-status service. Absence or timeout means
// "unknown", never "unavailable"; callers keep the station in their output.
type StationStatusProvider interface {
	GetStatus(ctx context.Context, stationID string) ([]domain.ConnectorStatus, error)
}

// TTL cache in front of the live-status service. Miss is (nil, false, nil).
type StatusCache interface {
	Get(ctx context.Context, stationID string) ([]domain.ConnectorStatus, bool, error)
	Put(ctx context.Context, stationID string, connectors []domain.ConnectorStatus) error
}
