package energy

import (
	"math"

	"github.com/evroute/charge-planner/internal/domain"
)

// Charging output assumed when a station reports none.
const DefaultChargingOutputKw = 50.0

// ReachableDistanceKm returns the maximum drivable distance in km for the
// given battery state under the supplied road and temperature multipliers.
// Never negative; monotonically non-decreasing in the battery level.
func ReachableDistanceKm(b domain.BatteryProfile, roadWeight, tempWeight float64) float64 {
	km := (b.LevelPercent / 100.0) * b.CapacityKwh * b.EfficiencyKmPerKwh * tempWeight * roadWeight
	return math.Max(km, 0)
}

// EstimateArrivalBattery projects the battery percentage after driving
// distanceKm from currentPercent. Floored at 0.
func EstimateArrivalBattery(currentPercent, distanceKm, efficiencyKmPerKwh, capacityKwh float64) float64 {
	usedKwh := distanceKm / efficiencyKmPerKwh
	usedPercent := usedKwh / capacityKwh * 100.0
	return math.Max(currentPercent-usedPercent, 0)
}

// EstimateChargingTime returns the minutes needed to charge from
// arrivalPercent to targetPercent at the given output, rounded to the
// nearest minute. Already being at or above the target yields 0.
func EstimateChargingTime(capacityKwh, arrivalPercent, targetPercent, chargingSpeedKw float64) int {
	chargeKwh := (targetPercent - arrivalPercent) / 100.0 * capacityKwh
	minutes := chargeKwh / chargingSpeedKw * 60.0
	if minutes <= 0 {
		return 0
	}
	return int(math.Round(minutes))
}

// EstimatePostChargeBattery projects the battery percentage after charging
// for chargingMinutes at the given output. Capped at 100.
func EstimatePostChargeBattery(arrivalPercent, chargingSpeedKw float64, chargingMinutes int, capacityKwh float64) float64 {
	chargedKwh := chargingSpeedKw * float64(chargingMinutes) / 60.0
	chargedPercent := chargedKwh / capacityKwh * 100.0
	return math.Min(arrivalPercent+chargedPercent, 100)
}
