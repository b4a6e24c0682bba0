package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/atomic"

	"github.com/evroute/charge-planner/internal/domain"
	"github.com/evroute/charge-planner/internal/energy"
	"github.com/evroute/charge-planner/internal/platform/obs"
	"github.com/evroute/charge-planner/internal/ports"
	"github.com/evroute/charge-planner/internal/route"
)

// ErrNoRoute marks an empty or degenerate route between the requested
// endpoints. Surfaced explicitly so the caller can prompt for a valid
// origin/destination.
var ErrNoRoute = errors.New("no route between origin and destination")

// ErrSuperseded marks a planning run invalidated by a newer request
// before it could commit its result.
var ErrSuperseded = errors.New("planning request superseded by a newer one")

// Planner runs the full pipeline: sample the route, estimate reachable
// range, search the corridor, evaluate detours, annotate availability,
// and chain hops. Safe for concurrent use; only the newest run may
// deliver results.
type Planner struct {
	Routes      ports.RouteProvider
	Stations    ports.StationSearcher
	Status      ports.StationStatusProvider
	StatusCache ports.StatusCache
	Vehicle     domain.VehicleEnergyProfile

	generation atomic.Int64
}

type PlanRequest struct {
	Origin       domain.LatLon
	Destination  domain.LatLon
	Battery      domain.BatteryProfile
	Filter       domain.StationFilter
	SearchOption string
}

// Summary of the baseline direct route and the range estimate behind the
// corridor bound.
type RouteSummary struct {
	TotalDistanceM      int
	TotalTimeS          int
	TotalFareKRW        int
	CityDistanceM       float64
	HighwayDistanceM    float64
	TemperatureWeight   float64
	RoadWeight          float64
	ReachableDistanceKm float64
}

type PlanResult struct {
	Route RouteSummary
	Plans []domain.StopPlan
}

// Plan executes one planning run. A later call invalidates this one:
// stale runs return ErrSuperseded instead of committing partial results.
func (p *Planner) Plan(ctx context.Context, req PlanRequest) (_ *PlanResult, err error) {
	defer obs.Time(ctx, "planner.Plan")(&err)

	gen := p.generation.Inc()

	baseline, err := p.Routes.GetRoute(ctx, ports.RouteRequest{
		Origin:       req.Origin,
		Destination:  req.Destination,
		SearchOption: req.SearchOption,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoRoute, err)
	}
	if baseline.TotalDistanceM <= 0 || len(baseline.Segments) == 0 {
		return nil, ErrNoRoute
	}

	summary := p.summarize(baseline, req.Battery)

	waypoints := route.SampleWaypoints(baseline.Segments, route.WaypointIntervalM)
	corridor := route.ReachablePrefix(waypoints, summary.ReachableDistanceKm*1000.0)

	corridorPoints := make([]domain.LatLon, len(corridor))
	for i, wp := range corridor {
		corridorPoints[i] = wp.Position
	}

	hasHighway := summary.HighwayDistanceM > 0
	totalDistanceKm := float64(baseline.TotalDistanceM) / 1000.0

	if err := p.checkCurrent(gen); err != nil {
		return nil, err
	}

	candidates, err := p.Stations.SearchNearCorridor(ctx, ports.CorridorQuery{
		Waypoints:       corridorPoints,
		Origin:          req.Origin,
		Destination:     req.Destination,
		TotalDistanceKm: totalDistanceKm,
		HasHighway:      hasHighway,
		Filter:          req.Filter,
	})
	if err != nil {
		// An unreachable corridor search degrades to zero plans.
		return &PlanResult{Route: summary, Plans: []domain.StopPlan{}}, nil
	}

	evaluated, err := EvaluateDetours(
		ctx, req.Origin, req.Destination, req.SearchOption,
		baseline.TotalTimeS, candidates, p.Routes)
	if err != nil {
		return nil, fmt.Errorf("evaluate detours: %w", err)
	}

	if err := p.checkCurrent(gen); err != nil {
		return nil, err
	}

	annotated := AnnotateAvailability(ctx, evaluated, req.Battery, p.Status, p.StatusCache)

	plans := ChainHops(ctx, HopChainParams{
		Destination:          req.Destination,
		Battery:              req.Battery,
		Filter:               req.Filter,
		SearchOption:         req.SearchOption,
		HasHighway:           hasHighway,
		Waypoints:            waypoints,
		TotalRouteDistanceKm: totalDistanceKm,
	}, annotated, p.Stations, p.Routes)

	// Commit only if no newer run started while we were working.
	if err := p.checkCurrent(gen); err != nil {
		return nil, err
	}

	return &PlanResult{Route: summary, Plans: plans}, nil
}

func (p *Planner) checkCurrent(gen int64) error {
	if p.generation.Load() != gen {
		return ErrSuperseded
	}
	return nil
}

func (p *Planner) summarize(baseline ports.RouteResult, battery domain.BatteryProfile) RouteSummary {
	cityM := baseline.CityDistanceM()
	highwayM := baseline.HighwayDistanceM()

	tempWeight := energy.TemperatureWeight(battery.TemperatureC)
	roadWeight := energy.RoadWeight(
		p.Vehicle.CityKmPerKwh, p.Vehicle.HighwayKmPerKwh,
		cityM, highwayM, float64(baseline.TotalTimeS))

	return RouteSummary{
		TotalDistanceM:      baseline.TotalDistanceM,
		TotalTimeS:          baseline.TotalTimeS,
		TotalFareKRW:        baseline.TotalFareKRW,
		CityDistanceM:       cityM,
		HighwayDistanceM:    highwayM,
		TemperatureWeight:   tempWeight,
		RoadWeight:          roadWeight,
		ReachableDistanceKm: energy.ReachableDistanceKm(battery, roadWeight, tempWeight),
	}
}
