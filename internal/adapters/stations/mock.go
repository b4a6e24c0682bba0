package stations

import (
	"context"
	"fmt"

	"github.com/evroute/charge-planner/internal/domain"
	"github.com/evroute/charge-planner/internal/ports"
)

// MockSearcher returns canned candidates and records every query it sees.
type MockSearcher struct {
	Candidates []domain.CandidateStation
	Err        error
	Queries    []ports.CorridorQuery
}

func (m *MockSearcher) SearchNearCorridor(ctx context.Context, q ports.CorridorQuery) ([]domain.CandidateStation, error) {
	m.Queries = append(m.Queries, q)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Candidates, nil
}

// MockStatusProvider serves per-station connector lists; ids listed in
// Fail return an error instead.
type MockStatusProvider struct {
	Statuses map[string][]domain.ConnectorStatus
	Fail     map[string]bool
}

func (m *MockStatusProvider) GetStatus(ctx context.Context, stationID string) ([]domain.ConnectorStatus, error) {
	if m.Fail[stationID] {
		return nil, fmt.Errorf("status unavailable for %q", stationID)
	}
	return m.Statuses[stationID], nil
}
