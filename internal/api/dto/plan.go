package dto

import "time"

type PointRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type BatteryRequest struct {
	LevelPercent         float64  `json:"level_percent"`
	CapacityKwh          float64  `json:"capacity_kwh"`
	EfficiencyKmPerKwh   float64  `json:"efficiency_km_per_kwh"`
	ChargeLimitPercent   float64  `json:"charge_limit_percent"`
	TargetArrivalPercent float64  `json:"target_arrival_percent"`
	TemperatureC         *float64 `json:"temperature_c"`
}

type FilterRequest struct {
	FreeParking    bool     `json:"free_parking"`
	NoLimit        bool     `json:"no_limit"`
	OutputMinKw    float64  `json:"output_min_kw"`
	OutputMaxKw    float64  `json:"output_max_kw"`
	ConnectorTypes []string `json:"connector_types"`
	Operators      []string `json:"operators"`
}

type PlanRequest struct {
	Origin       PointRequest   `json:"origin"`
	Destination  PointRequest   `json:"destination"`
	Battery      BatteryRequest `json:"battery"`
	Filter       *FilterRequest `json:"filter"`
	SearchOption string         `json:"search_option"`
}

type RouteSummaryResponse struct {
	TotalDistanceM      int     `json:"total_distance_m"`
	TotalTimeS          int     `json:"total_time_s"`
	TotalFareKRW        int     `json:"total_fare_krw"`
	CityDistanceM       float64 `json:"city_distance_m"`
	HighwayDistanceM    float64 `json:"highway_distance_m"`
	TemperatureWeight   float64 `json:"temperature_weight"`
	RoadWeight          float64 `json:"road_weight"`
	ReachableDistanceKm float64 `json:"reachable_distance_km"`
}

type ConnectorResponse struct {
	Status     string    `json:"status"`
	OutputKw   float64   `json:"output_kw"`
	LastUpdate time.Time `json:"last_update"`
}

type StopResponse struct {
	ID                  string              `json:"id"`
	Name                string              `json:"name"`
	Lat                 float64             `json:"lat"`
	Lon                 float64             `json:"lon"`
	MatchesFilter       bool                `json:"matches_filter"`
	DetourTimeS         int                 `json:"detour_time_s"`
	TotalTimeS          int                 `json:"total_time_s"`
	TotalFareKRW        int                 `json:"total_fare_krw"`
	TotalDistanceM      int                 `json:"total_distance_m"`
	AvailableCount      *int                `json:"available_count"`
	TotalCount          *int                `json:"total_count"`
	Connectors          []ConnectorResponse `json:"connectors"`
	ArrivalPercent      float64             `json:"arrival_percent"`
	ChargingTimeMinutes int                 `json:"charging_time_minutes"`
	PostChargePercent   float64             `json:"post_charge_percent"`
}

type StopPlanResponse struct {
	FirstHop                     StopResponse  `json:"first_hop"`
	SecondHop                    *StopResponse `json:"second_hop"`
	SecondHopTimeS               *int          `json:"second_hop_time_s"`
	SecondHopChargingTimeMinutes *int          `json:"second_hop_charging_time_minutes"`
}

type PlanResponse struct {
	Route RouteSummaryResponse `json:"route"`
	Plans []StopPlanResponse   `json:"plans"`
}
