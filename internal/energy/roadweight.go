package energy

// Speed below which regenerative braking meaningfully recovers energy in
// city driving, and the efficiency boost applied there.
const (
	regenSpeedThresholdKmh = 30.0
	regenCityBoost         = 1.35
)

// RoadWeight blends the vehicle's city and highway efficiency into a single
// range multiplier, weighted by each road type's share of total distance.
//
// Each efficiency is first normalized against the simple average of the two,
// and the city ratio is boosted when the implied average city speed drops
// below the regenerative-braking threshold. Returns 0 when total distance
// is 0.
func RoadWeight(cityKmPerKwh, highwayKmPerKwh, cityDistanceM, highwayDistanceM, totalTimeS float64) float64 {
	totalDistanceM := cityDistanceM + highwayDistanceM
	if totalDistanceM == 0 {
		return 0.0
	}

	averageKmPerKwh := (cityKmPerKwh + highwayKmPerKwh) / 2
	cityRatio := cityKmPerKwh / averageKmPerKwh
	highwayRatio := highwayKmPerKwh / averageKmPerKwh

	if citySpeedKmh(cityDistanceM, totalDistanceM, totalTimeS) < regenSpeedThresholdKmh {
		cityRatio *= regenCityBoost
	}

	cityShare := cityDistanceM / totalDistanceM
	highwayShare := highwayDistanceM / totalDistanceM

	return cityRatio*cityShare + highwayRatio*highwayShare
}

// citySpeedKmh estimates average city speed by attributing travel time to
// road types proportionally to distance.
func citySpeedKmh(cityDistanceM, totalDistanceM, totalTimeS float64) float64 {
	if cityDistanceM <= 0 || totalTimeS <= 0 {
		return 0.0
	}

	cityTimeS := (cityDistanceM / totalDistanceM) * totalTimeS
	return (cityDistanceM / 1000.0) / (cityTimeS / 3600.0)
}
