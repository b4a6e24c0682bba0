// Package services holds the planning pipeline: detour evaluation,
// availability annotation, hop chaining, and the top-level planner.
package services

import (
	"context"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/evroute/charge-planner/internal/domain"
	"github.com/evroute/charge-planner/internal/ports"
)

const (
	// Number of stations surviving detour ranking.
	TopK = 5

	detourConcurrency = 5
	detourCallTimeout = 8 * time.Second
)

type detourResult struct {
	idx     int
	station domain.EvaluatedStation
	ok      bool
}

// EvaluateDetours queries the routing oracle for every candidate's
// origin -> candidate -> destination route, derives detour cost against the
// baseline time, and returns the TopK stations ranked by detour time.
//
// Candidate queries run on a bounded pool; a failed query drops only that
// candidate. The final ranking is deterministic regardless of response
// arrival order: ascending detour time (clamped at zero when comparing),
// then total distance, then station id.
func EvaluateDetours(
	ctx context.Context,
	origin, destination domain.LatLon,
	searchOption string,
	baselineTimeS int,
	candidates []domain.CandidateStation,
	provider ports.RouteProvider,
) ([]domain.EvaluatedStation, error) {
	if len(candidates) == 0 {
		return []domain.EvaluatedStation{}, nil
	}

	sem := make(chan struct{}, detourConcurrency)
	resultsCh := make(chan detourResult, len(candidates))
	var wg sync.WaitGroup

	for i, cand := range candidates {
		wg.Add(1)
		go func(idx int, cand domain.CandidateStation) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			callCtx, cancel := context.WithTimeout(ctx, detourCallTimeout)
			defer cancel()

			via := cand.Position
			res, err := provider.GetRoute(callCtx, ports.RouteRequest{
				Origin:       origin,
				Destination:  destination,
				Via:          &via,
				SearchOption: searchOption,
			})
			if err != nil {
				// One candidate's failure must not abort the batch.
				log.Printf("detour evaluation failed: station=%s err=%v", cand.ID, err)
				resultsCh <- detourResult{idx: idx}
				return
			}

			resultsCh <- detourResult{
				idx: idx,
				station: domain.EvaluatedStation{
					CandidateStation: cand,
					TotalTimeS:       res.TotalTimeS,
					TotalFareKRW:     res.TotalFareKRW,
					TotalDistanceM:   res.TotalDistanceM,
					DetourTimeS:      res.TotalTimeS - baselineTimeS,
				},
				ok: true,
			}
		}(i, cand)
	}

	wg.Wait()
	close(resultsCh)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	evaluated := make([]domain.EvaluatedStation, 0, len(candidates))
	for res := range resultsCh {
		if res.ok {
			evaluated = append(evaluated, res.station)
		}
	}

	slices.SortFunc(evaluated, compareDetour)

	if len(evaluated) > TopK {
		evaluated = evaluated[:TopK]
	}

	return evaluated, nil
}

// compareDetour ranks by detour time with a zero lower bound so that
// oracle noise producing negative detours cannot reorder genuine ties.
// The raw detour value is preserved on the station for display.
func compareDetour(a, b domain.EvaluatedStation) int {
	da, db := max(a.DetourTimeS, 0), max(b.DetourTimeS, 0)
	if da != db {
		if da < db {
			return -1
		}
		return 1
	}
	if a.TotalDistanceM != b.TotalDistanceM {
		if a.TotalDistanceM < b.TotalDistanceM {
			return -1
		}
		return 1
	}
	if a.ID < b.ID {
		return -1
	}
	if a.ID > b.ID {
		return 1
	}
	return 0
}
