package services

import (
	"context"
	"testing"

	"github.com/evroute/charge-planner/internal/adapters/stations"
	"github.com/evroute/charge-planner/internal/adapters/tmap"
	"github.com/evroute/charge-planner/internal/domain"
	"github.com/evroute/charge-planner/internal/ports"
)

// hopBattery yields batteryAfterChargeKm = 0.80 * 25 * 5 = 100.
func hopBattery() domain.BatteryProfile {
	return domain.BatteryProfile{
		LevelPercent:       60,
		CapacityKwh:        25,
		EfficiencyKmPerKwh: 5.0,
		ChargeLimitPercent: 80,
		TemperatureC:       20,
	}
}

func firstHop(id string, pos domain.LatLon, totalDistanceM int) domain.AnnotatedStation {
	return domain.AnnotatedStation{
		EvaluatedStation: domain.EvaluatedStation{
			CandidateStation: domain.CandidateStation{ID: id, Name: id, Position: pos},
			TotalDistanceM:   totalDistanceM,
		},
	}
}

func TestChainHopsFeasibleFirstHop(t *testing.T) {
	searcher := &stations.MockSearcher{}

	// remaining = 180 - 100 = 80km <= 100km post-charge range.
	params := HopChainParams{
		Destination:          testDest,
		Battery:              hopBattery(),
		TotalRouteDistanceKm: 180,
	}
	first := firstHop("ST1", domain.LatLon{Lat: 36.0, Lon: 128.0}, 100000)

	plans := ChainHops(context.Background(), params, []domain.AnnotatedStation{first}, searcher, &tmap.MockRouteProvider{})

	if len(plans) != 1 {
		t.Fatalf("got %d plans, want 1", len(plans))
	}
	if plans[0].SecondHop != nil {
		t.Errorf("feasible first hop produced a second hop")
	}
	if len(searcher.Queries) != 0 {
		t.Errorf("feasible first hop triggered %d corridor searches, want 0", len(searcher.Queries))
	}
}

func TestChainHopsSecondHopFound(t *testing.T) {
	stationPos := domain.LatLon{Lat: 36.0, Lon: 128.0}
	candidatePos := domain.LatLon{Lat: 36.3, Lon: 128.21}

	searcher := &stations.MockSearcher{
		Candidates: []domain.CandidateStation{
			{ID: "ST2", Name: "second", Position: candidatePos, ReportedOutputKw: 100},
			{ID: "ST3", Name: "ignored", Position: candidatePos},
		},
	}

	via := candidatePos
	hopKey := tmap.MockRouteKey(ports.RouteRequest{Origin: stationPos, Via: &via, Destination: testDest})
	routes := &tmap.MockRouteProvider{
		Routes: map[string]ports.RouteResult{
			hopKey: {TotalTimeS: 5400, TotalDistanceM: 160000, TotalFareKRW: 12000},
		},
	}

	waypoints := []domain.Waypoint{
		{Position: domain.LatLon{Lat: 36.0, Lon: 128.01}, CumulativeDistanceM: 100000},
		{Position: domain.LatLon{Lat: 36.3, Lon: 128.2}, CumulativeDistanceM: 140000},
		{Position: domain.LatLon{Lat: 37.5, Lon: 129.9}, CumulativeDistanceM: 300000},
	}

	// remaining = 250 - 100 = 150km > 100km post-charge range.
	params := HopChainParams{
		Destination:          testDest,
		Battery:              hopBattery(),
		Waypoints:            waypoints,
		TotalRouteDistanceKm: 250,
	}
	first := firstHop("ST1", stationPos, 100000)

	plans := ChainHops(context.Background(), params, []domain.AnnotatedStation{first}, searcher, routes)

	if len(plans) != 1 {
		t.Fatalf("got %d plans, want 1", len(plans))
	}

	plan := plans[0]
	if !plan.RequiresSecondHop() {
		t.Fatal("expected a second hop")
	}
	if plan.SecondHop.ID != "ST2" {
		t.Errorf("second hop = %q, want first candidate ST2", plan.SecondHop.ID)
	}
	if plan.SecondHopTimeS == nil || *plan.SecondHopTimeS != 5400 {
		t.Errorf("second hop time = %v, want 5400", plan.SecondHopTimeS)
	}
	if plan.SecondHopChargingTimeMinutes == nil || *plan.SecondHopChargingTimeMinutes <= 0 {
		t.Errorf("second hop charging minutes = %v, want > 0", plan.SecondHopChargingTimeMinutes)
	}
	if plan.SecondHop.ArrivalPercent >= hopBattery().ChargeLimitPercent {
		t.Errorf("second hop arrival = %v, want below the charge limit", plan.SecondHop.ArrivalPercent)
	}

	// The corridor offered to the search holds only waypoints past the
	// first hop that its post-charge range can reach.
	if len(searcher.Queries) != 1 {
		t.Fatalf("got %d corridor searches, want 1", len(searcher.Queries))
	}
	q := searcher.Queries[0]
	if len(q.Waypoints) != 1 {
		t.Fatalf("search corridor has %d waypoints, want 1", len(q.Waypoints))
	}
	if q.Waypoints[0] != waypoints[1].Position {
		t.Errorf("search corridor waypoint = %+v, want the reachable mid waypoint", q.Waypoints[0])
	}
	if q.Origin != stationPos {
		t.Errorf("search origin = %+v, want the first-hop station", q.Origin)
	}
}

func TestChainHopsSecondHopUnavailable(t *testing.T) {
	searcher := &stations.MockSearcher{} // no candidates

	params := HopChainParams{
		Destination:          testDest,
		Battery:              hopBattery(),
		TotalRouteDistanceKm: 250,
	}
	first := firstHop("ST1", domain.LatLon{Lat: 36.0, Lon: 128.0}, 100000)

	plans := ChainHops(context.Background(), params, []domain.AnnotatedStation{first}, searcher, &tmap.MockRouteProvider{})

	if len(plans) != 1 {
		t.Fatalf("got %d plans, want 1 (degraded plan still returned)", len(plans))
	}
	plan := plans[0]
	if plan.SecondHop != nil || plan.SecondHopTimeS != nil || plan.SecondHopChargingTimeMinutes != nil {
		t.Errorf("degraded plan should leave all hop fields nil: %+v", plan)
	}
}

func TestChainHopsPreservesInputOrder(t *testing.T) {
	searcher := &stations.MockSearcher{}

	params := HopChainParams{
		Destination:          testDest,
		Battery:              hopBattery(),
		TotalRouteDistanceKm: 180,
	}

	input := []domain.AnnotatedStation{
		firstHop("ST1", domain.LatLon{Lat: 36.0, Lon: 128.0}, 100000),
		firstHop("ST2", domain.LatLon{Lat: 36.1, Lon: 128.1}, 110000),
		firstHop("ST3", domain.LatLon{Lat: 36.2, Lon: 128.2}, 120000),
	}

	plans := ChainHops(context.Background(), params, input, searcher, &tmap.MockRouteProvider{})

	for i, want := range []string{"ST1", "ST2", "ST3"} {
		if plans[i].FirstHop.ID != want {
			t.Fatalf("plan %d holds %q, want %q (output must track input order)", i, plans[i].FirstHop.ID, want)
		}
	}
}
