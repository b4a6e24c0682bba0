package domain

import "time"

// User-supplied criteria narrowing which stations qualify as candidates.
// Zero value matches everything.
type StationFilter struct {
	FreeParking    bool
	NoLimit        bool
	OutputMinKw    float64
	OutputMaxKw    float64
	ConnectorTypes []string
	Operators      []string
}

// A charging station as stored in the station registry.
type Station struct {
	ID            string
	Name          string
	Position      LatLon
	Operator      string
	ConnectorType string
	OutputKw      float64
	FreeParking   bool
	NoLimit       bool
}

// A geometrically plausible charging stop near the route corridor.
// Ephemeral: produced per planning run, never persisted.
type CandidateStation struct {
	ID               string
	Name             string
	Position         LatLon
	ReportedOutputKw float64
	MatchesFilter    bool
}

// CandidateStation plus the true cost of routing through it.
// DetourTimeS may be negative when the oracle's via-route is reported
// faster than the direct route; the raw value is preserved for display.
type EvaluatedStation struct {
	CandidateStation

	TotalTimeS     int
	TotalFareKRW   int
	TotalDistanceM int
	DetourTimeS    int
}

// State of a single charger connector from the live-status service.
type ConnectorStatus struct {
	Status     string
	OutputKw   float64
	LastUpdate time.Time
}

// EvaluatedStation plus live availability and battery projections.
// AvailableCount and TotalCount are nil when the status call failed;
// the station still participates in ranking.
type AnnotatedStation struct {
	EvaluatedStation

	AvailableCount      *int
	TotalCount          *int
	Connectors          []ConnectorStatus
	ArrivalPercent      float64
	ChargingTimeMinutes int
	PostChargePercent   float64
}
