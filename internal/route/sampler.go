// Package route turns raw oracle geometry into evenly spaced waypoints.
package route

import "github.com/evroute/charge-planner/internal/domain"

// Spacing between sampled waypoints, measured along the route.
const WaypointIntervalM = 2000.0

// SampleWaypoints walks the concatenated segment polylines accumulating
// haversine distance and emits an interpolated waypoint each time the
// accumulated distance crosses the next multiple of intervalM.
//
// The result is purely a function of the geometry and may be regenerated
// per request. A route shorter than one interval yields no waypoints.
func SampleWaypoints(segments []domain.RouteSegment, intervalM float64) []domain.Waypoint {
	if intervalM <= 0 {
		return nil
	}

	var waypoints []domain.Waypoint
	accumulated := 0.0
	nextTarget := intervalM

	for _, seg := range segments {
		for i := 0; i+1 < len(seg.Points); i++ {
			p1 := seg.Points[i]
			p2 := seg.Points[i+1]
			stepM := p1.DistanceTo(p2)

			// A single geometry step can cross several interval marks.
			for nextTarget-accumulated < stepM {
				ratio := (nextTarget - accumulated) / stepM
				waypoints = append(waypoints, domain.Waypoint{
					Position: domain.LatLon{
						Lat: p1.Lat + (p2.Lat-p1.Lat)*ratio,
						Lon: p1.Lon + (p2.Lon-p1.Lon)*ratio,
					},
					CumulativeDistanceM: nextTarget,
				})
				nextTarget += intervalM
			}

			accumulated += stepM
		}
	}

	return waypoints
}

// ReachablePrefix returns the leading waypoints whose cumulative distance
// does not exceed reachableM. Never returns more than the full slice.
func ReachablePrefix(waypoints []domain.Waypoint, reachableM float64) []domain.Waypoint {
	n := 0
	for n < len(waypoints) && waypoints[n].CumulativeDistanceM <= reachableM {
		n++
	}
	return waypoints[:n]
}

// ClosestWaypointIndex returns the index of the waypoint nearest to pos by
// haversine distance, or -1 for an empty slice.
func ClosestWaypointIndex(waypoints []domain.Waypoint, pos domain.LatLon) int {
	best := -1
	bestDist := 0.0
	for i, wp := range waypoints {
		d := pos.DistanceTo(wp.Position)
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
