package domain

import "math"

// Earth radius used for great-circle distances, in meters.
const earthRadiusM = 6371000.0

// Immutable geographic coordinates in WGS84 degrees.
type LatLon struct {
	Lat float64
	Lon float64
}

// DistanceTo returns the great-circle (haversine) distance to q in meters.
func (p LatLon) DistanceTo(q LatLon) float64 {
	lat1 := toRadians(p.Lat)
	lat2 := toRadians(q.Lat)
	dLat := toRadians(q.Lat - p.Lat)
	dLon := toRadians(q.Lon - p.Lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180.0 }
