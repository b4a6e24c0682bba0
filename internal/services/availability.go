package services

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/evroute/charge-planner/internal/domain"
	"github.com/evroute/charge-planner/internal/energy"
	"github.com/evroute/charge-planner/internal/ports"
)

const (
	statusConcurrency = 5
	statusCallTimeout = 5 * time.Second
)

// Available connector state code in the live-status feed.
const connectorAvailable = "2"

// AnnotateAvailability fetches live connector status for each evaluated
// station and derives availability counts plus battery projections.
//
// A station whose status call fails stays in the output with nil counts
// and an empty connector list; battery projections still use the fallback
// charging output. Output order tracks input order, not completion order.
func AnnotateAvailability(
	ctx context.Context,
	stations []domain.EvaluatedStation,
	battery domain.BatteryProfile,
	provider ports.StationStatusProvider,
	statusCache ports.StatusCache,
) []domain.AnnotatedStation {
	annotated := make([]domain.AnnotatedStation, len(stations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statusConcurrency)

	for i, st := range stations {
		i, st := i, st
		g.Go(func() error {
			connectors, known := fetchStatus(gctx, st.ID, provider, statusCache)
			annotated[i] = annotateStation(st, connectors, known, battery)
			return nil
		})
	}

	// Tasks never return errors; failures degrade per station.
	_ = g.Wait()

	return annotated
}

// fetchStatus resolves connector status through the cache when present.
// The second return is false when status is unknown (call failed).
func fetchStatus(
	ctx context.Context,
	stationID string,
	provider ports.StationStatusProvider,
	statusCache ports.StatusCache,
) ([]domain.ConnectorStatus, bool) {
	if statusCache != nil {
		if connectors, hit, err := statusCache.Get(ctx, stationID); err == nil && hit {
			return connectors, true
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, statusCallTimeout)
	defer cancel()

	connectors, err := provider.GetStatus(callCtx, stationID)
	if err != nil {
		log.Printf("station status unknown: station=%s err=%v", stationID, err)
		return nil, false
	}

	if statusCache != nil {
		if err := statusCache.Put(ctx, stationID, connectors); err != nil {
			log.Printf("status cache write failed: station=%s err=%v", stationID, err)
		}
	}

	return connectors, true
}

// annotateStation merges connector state with battery projections for one
// station. Distance-to-station uses the via-route distance from detour
// evaluation.
func annotateStation(
	st domain.EvaluatedStation,
	connectors []domain.ConnectorStatus,
	statusKnown bool,
	battery domain.BatteryProfile,
) domain.AnnotatedStation {
	out := domain.AnnotatedStation{
		EvaluatedStation: st,
		Connectors:       []domain.ConnectorStatus{},
	}

	chargingSpeed := energy.DefaultChargingOutputKw
	if st.ReportedOutputKw > 0 {
		chargingSpeed = st.ReportedOutputKw
	}

	if statusKnown {
		available := 0
		for _, c := range connectors {
			if c.Status == connectorAvailable {
				available++
			}
		}
		total := len(connectors)
		out.AvailableCount = &available
		out.TotalCount = &total
		out.Connectors = connectors

		if len(connectors) > 0 && connectors[0].OutputKw > 0 {
			chargingSpeed = connectors[0].OutputKw
		}
	}

	distanceKm := float64(st.TotalDistanceM) / 1000.0
	out.ArrivalPercent = energy.EstimateArrivalBattery(
		battery.LevelPercent, distanceKm, battery.EfficiencyKmPerKwh, battery.CapacityKwh)
	out.ChargingTimeMinutes = energy.EstimateChargingTime(
		battery.CapacityKwh, out.ArrivalPercent, battery.ChargeLimitPercent, chargingSpeed)
	out.PostChargePercent = energy.EstimatePostChargeBattery(
		out.ArrivalPercent, chargingSpeed, out.ChargingTimeMinutes, battery.CapacityKwh)

	return out
}
