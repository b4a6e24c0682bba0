package domain

// Battery and environment parameters for a single planning run.
// Supplied once per request and read-only during the run.
type BatteryProfile struct {
	LevelPercent         float64
	CapacityKwh          float64
	EfficiencyKmPerKwh   float64
	ChargeLimitPercent   float64
	TargetArrivalPercent float64
	TemperatureC         float64
}

// Per-road-type efficiency of the vehicle, used only for the road-weight
// blend. The user's base efficiency handles absolute energy accounting.
type VehicleEnergyProfile struct {
	CityKmPerKwh    float64
	HighwayKmPerKwh float64
}
