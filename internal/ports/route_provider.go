package ports

import (
	"context"

	"github.com/evroute/charge-planner/internal/domain"
)

// A single routing-oracle request. Via, when set, asks for the three-point
// route origin -> via -> destination used for detour evaluation.
type RouteRequest struct {
	Origin       domain.LatLon
	Destination  domain.LatLon
	Via          *domain.LatLon
	SearchOption string
}

// Geometry and totals for one oracle route.
type RouteResult struct {
	Segments       []domain.RouteSegment
	TotalDistanceM int
	TotalTimeS     int
	TotalFareKRW   int
}

// Contract for the external routing oracle. Used both for the baseline
// direct route and for per-candidate detour evaluation.
type RouteProvider interface {
	GetRoute(ctx context.Context, req RouteRequest) (RouteResult, error)
}

// CityDistanceM sums the distance of city-classified segments.
func (r RouteResult) CityDistanceM() float64 {
	total := 0.0
	for _, s := range r.Segments {
		if s.RoadType == domain.RoadTypeCity {
			total += s.DistanceM
		}
	}
	return total
}

// HighwayDistanceM sums the distance of highway-classified segments.
func (r RouteResult) HighwayDistanceM() float64 {
	total := 0.0
	for _, s := range r.Segments {
		if s.RoadType == domain.RoadTypeHighway {
			total += s.DistanceM
		}
	}
	return total
}
