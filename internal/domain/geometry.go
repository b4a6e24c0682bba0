package domain

// Road classification of a route segment as reported by the routing oracle.
type RoadType string

const (
	RoadTypeHighway RoadType = "highway"
	RoadTypeCity    RoadType = "city"
)

// Congestion annotation covering a contiguous range of points in a segment.
type TrafficSection struct {
	StartIndex   int
	EndIndex     int
	TrafficIndex int
}

// A single polyline leg of a route as returned by the routing oracle.
// Immutable once received.
type RouteSegment struct {
	Points    []LatLon
	RoadType  RoadType
	DistanceM float64
	Traffic   []TrafficSection
}

// A sampled point along the route at a fixed cumulative-distance interval.
// Waypoints are ordered; cumulative distance increases strictly.
type Waypoint struct {
	Position            LatLon
	CumulativeDistanceM float64
}
