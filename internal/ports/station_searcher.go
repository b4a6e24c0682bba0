package ports

import (
	"context"

	"github.com/evroute/charge-planner/internal/domain"
)

// One "stations near corridor" request. Waypoints bound the searchable
// corridor; the filter narrows qualifying stations server-side.
type CorridorQuery struct {
	Waypoints       []domain.LatLon
	Origin          domain.LatLon
	Destination     domain.LatLon
	TotalDistanceKm float64
	HasHighway      bool
	Filter          domain.StationFilter
}

// Contract for the corridor station search. The result is unordered and
// unscored; an empty result is a valid outcome, not an error.
type StationSearcher interface {
	SearchNearCorridor(ctx context.Context, q CorridorQuery) ([]domain.CandidateStation, error)
}
