package stations

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/evroute/charge-planner/internal/domain"
	"github.com/evroute/charge-planner/internal/platform/obs"
	"github.com/evroute/charge-planner/internal/ports"
)

const (
	// Stations further than this from every corridor waypoint are not
	// geometrically plausible stops.
	searchRadiusM = 2000.0

	// Upper bound on candidates handed to detour evaluation.
	maxCandidates = 30

	metersPerDegreeLat = 111194.9
)

// SQLSearcher implements ports.StationSearcher on top of the station
// registry: a bounding-box query narrows the set, then a per-station
// haversine check against the corridor waypoints and the user's filter
// decide membership. The result is unordered and unscored.
type SQLSearcher struct {
	Repo ports.StationRepository
}

func NewSQLSearcher(repo ports.StationRepository) *SQLSearcher {
	return &SQLSearcher{Repo: repo}
}

func (s *SQLSearcher) SearchNearCorridor(
	ctx context.Context,
	q ports.CorridorQuery,
) (_ []domain.CandidateStation, err error) {
	defer obs.Time(ctx, "stations.SearchNearCorridor")(&err)

	if s.Repo == nil {
		return nil, errors.New("station search: repository is nil")
	}

	if len(q.Waypoints) == 0 {
		return []domain.CandidateStation{}, nil
	}

	minLat, maxLat, minLon, maxLon := corridorBounds(q.Waypoints)

	records, err := s.Repo.ListStationsInBounds(ctx, minLat, maxLat, minLon, maxLon)
	if err != nil {
		return nil, fmt.Errorf("station search: list stations in bounds: %w", err)
	}

	candidates := make([]domain.CandidateStation, 0, len(records))
	for _, st := range records {
		if !withinCorridor(st.Position, q.Waypoints) {
			continue
		}
		if !MatchesFilter(st, q.Filter) {
			continue
		}

		candidates = append(candidates, domain.CandidateStation{
			ID:               st.ID,
			Name:             st.Name,
			Position:         st.Position,
			ReportedOutputKw: st.OutputKw,
			MatchesFilter:    true,
		})

		if len(candidates) == maxCandidates {
			break
		}
	}

	return candidates, nil
}

// corridorBounds returns the waypoint bounding box expanded by the search
// radius on each side.
func corridorBounds(waypoints []domain.LatLon) (minLat, maxLat, minLon, maxLon float64) {
	minLat, maxLat = waypoints[0].Lat, waypoints[0].Lat
	minLon, maxLon = waypoints[0].Lon, waypoints[0].Lon
	for _, wp := range waypoints[1:] {
		minLat = math.Min(minLat, wp.Lat)
		maxLat = math.Max(maxLat, wp.Lat)
		minLon = math.Min(minLon, wp.Lon)
		maxLon = math.Max(maxLon, wp.Lon)
	}

	padLat := searchRadiusM / metersPerDegreeLat
	midLat := (minLat + maxLat) / 2
	padLon := searchRadiusM / (metersPerDegreeLat * math.Cos(toRadians(midLat)))

	return minLat - padLat, maxLat + padLat, minLon - padLon, maxLon + padLon
}

func withinCorridor(pos domain.LatLon, waypoints []domain.LatLon) bool {
	for _, wp := range waypoints {
		if pos.DistanceTo(wp) <= searchRadiusM {
			return true
		}
	}
	return false
}

// MatchesFilter reports whether a station satisfies the user's criteria.
// The zero filter matches everything.
func MatchesFilter(st domain.Station, f domain.StationFilter) bool {
	if f.FreeParking && !st.FreeParking {
		return false
	}
	if f.NoLimit && !st.NoLimit {
		return false
	}
	if f.OutputMinKw > 0 && st.OutputKw < f.OutputMinKw {
		return false
	}
	if f.OutputMaxKw > 0 && st.OutputKw > f.OutputMaxKw {
		return false
	}
	if len(f.ConnectorTypes) > 0 && !slices.Contains(f.ConnectorTypes, st.ConnectorType) {
		return false
	}
	if len(f.Operators) > 0 && !slices.Contains(f.Operators, st.Operator) {
		return false
	}
	return true
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180.0 }
