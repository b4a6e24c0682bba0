package services

import (
	"context"
	"log"
	"sync"

	"github.com/evroute/charge-planner/internal/domain"
	"github.com/evroute/charge-planner/internal/energy"
	"github.com/evroute/charge-planner/internal/ports"
	"github.com/evroute/charge-planner/internal/route"
)

// hopState tracks one first-hop station through second-hop resolution.
type hopState int

const (
	hopEvaluating hopState = iota
	hopFeasible
	hopNeedsSecondHop
	hopSearchingSecondHop
	hopSecondHopFound
	hopSecondHopUnavailable
)

type HopChainParams struct {
	Destination          domain.LatLon
	Battery              domain.BatteryProfile
	Filter               domain.StationFilter
	SearchOption         string
	HasHighway           bool
	Waypoints            []domain.Waypoint
	TotalRouteDistanceKm float64
}

// ChainHops resolves second hops for the ranked first-hop stations and
// assembles the final stop plans.
//
// Chains run in parallel across stations; each chain's own second-hop
// search is sequential. Output order tracks the input (first-hop ranking)
// order, not completion order. A failed second-hop search yields a
// degraded plan with nil hop fields, never a dropped station.
func ChainHops(
	ctx context.Context,
	params HopChainParams,
	stations []domain.AnnotatedStation,
	searcher ports.StationSearcher,
	routes ports.RouteProvider,
) []domain.StopPlan {
	plans := make([]domain.StopPlan, len(stations))

	sem := make(chan struct{}, detourConcurrency)
	var wg sync.WaitGroup

	for i, st := range stations {
		wg.Add(1)
		go func(idx int, st domain.AnnotatedStation) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			plans[idx] = chainOne(ctx, params, st, searcher, routes)
		}(i, st)
	}

	wg.Wait()
	return plans
}

// chainOne walks one first-hop station through the hop state machine.
func chainOne(
	ctx context.Context,
	params HopChainParams,
	first domain.AnnotatedStation,
	searcher ports.StationSearcher,
	routes ports.RouteProvider,
) domain.StopPlan {
	plan := domain.StopPlan{FirstHop: first}
	b := params.Battery

	batteryAfterChargeKm := (b.ChargeLimitPercent / 100.0) * b.CapacityKwh * b.EfficiencyKmPerKwh
	remainingKm := params.TotalRouteDistanceKm - float64(first.TotalDistanceM)/1000.0

	state := hopEvaluating
	var candidate *domain.CandidateStation

	for {
		switch state {
		case hopEvaluating:
			if batteryAfterChargeKm >= remainingKm {
				state = hopFeasible
			} else {
				state = hopNeedsSecondHop
			}

		case hopFeasible:
			return plan

		case hopNeedsSecondHop:
			state = hopSearchingSecondHop

		case hopSearchingSecondHop:
			candidate = searchSecondHop(ctx, params, first, batteryAfterChargeKm, remainingKm, searcher)
			if candidate == nil {
				state = hopSecondHopUnavailable
			} else {
				state = hopSecondHopFound
			}

		case hopSecondHopFound:
			attachSecondHop(ctx, &plan, params, first, *candidate, routes)
			return plan

		case hopSecondHopUnavailable:
			return plan
		}
	}
}

// searchSecondHop restricts the corridor to waypoints past the first-hop
// station that its post-charge range can reach, then asks the corridor
// search for candidates. Only the first candidate is required.
func searchSecondHop(
	ctx context.Context,
	params HopChainParams,
	first domain.AnnotatedStation,
	batteryAfterChargeKm, remainingKm float64,
	searcher ports.StationSearcher,
) *domain.CandidateStation {
	closest := route.ClosestWaypointIndex(params.Waypoints, first.Position)

	var remaining []domain.Waypoint
	if closest >= 0 {
		remaining = params.Waypoints[closest+1:]
	} else {
		remaining = params.Waypoints
	}

	sub := make([]domain.LatLon, 0, len(remaining))
	for _, wp := range remaining {
		if first.Position.DistanceTo(wp.Position)/1000.0 <= batteryAfterChargeKm {
			sub = append(sub, wp.Position)
		}
	}

	candidates, err := searcher.SearchNearCorridor(ctx, ports.CorridorQuery{
		Waypoints:       sub,
		Origin:          first.Position,
		Destination:     params.Destination,
		TotalDistanceKm: remainingKm,
		HasHighway:      params.HasHighway,
		Filter:          params.Filter,
	})
	if err != nil {
		log.Printf("second-hop search failed: station=%s err=%v", first.ID, err)
		return nil
	}
	if len(candidates) == 0 {
		return nil
	}

	return &candidates[0]
}

// attachSecondHop computes the second hop's travel time and charging
// projections and populates the plan. A failed via-route leaves the hop
// time nil but keeps the hop.
func attachSecondHop(
	ctx context.Context,
	plan *domain.StopPlan,
	params HopChainParams,
	first domain.AnnotatedStation,
	cand domain.CandidateStation,
	routes ports.RouteProvider,
) {
	b := params.Battery

	callCtx, cancel := context.WithTimeout(ctx, detourCallTimeout)
	defer cancel()

	var hopTimeS *int
	via := cand.Position
	res, err := routes.GetRoute(callCtx, ports.RouteRequest{
		Origin:       first.Position,
		Destination:  params.Destination,
		Via:          &via,
		SearchOption: params.SearchOption,
	})
	if err != nil {
		log.Printf("second-hop route failed: station=%s hop=%s err=%v", first.ID, cand.ID, err)
	} else {
		t := res.TotalTimeS
		hopTimeS = &t
	}

	// Departure charge equals the first hop's charge limit.
	hopDistanceKm := first.Position.DistanceTo(cand.Position) / 1000.0
	arrival := energy.EstimateArrivalBattery(
		b.ChargeLimitPercent, hopDistanceKm, b.EfficiencyKmPerKwh, b.CapacityKwh)

	chargingSpeed := energy.DefaultChargingOutputKw
	if cand.ReportedOutputKw > 0 {
		chargingSpeed = cand.ReportedOutputKw
	}
	chargingMinutes := energy.EstimateChargingTime(
		b.CapacityKwh, arrival, b.ChargeLimitPercent, chargingSpeed)

	second := domain.AnnotatedStation{
		EvaluatedStation: domain.EvaluatedStation{CandidateStation: cand},
		Connectors:       []domain.ConnectorStatus{},
		ArrivalPercent:   arrival,
		ChargingTimeMinutes: chargingMinutes,
		PostChargePercent: energy.EstimatePostChargeBattery(
			arrival, chargingSpeed, chargingMinutes, b.CapacityKwh),
	}

	plan.SecondHop = &second
	plan.SecondHopTimeS = hopTimeS
	plan.SecondHopChargingTimeMinutes = &chargingMinutes
}
