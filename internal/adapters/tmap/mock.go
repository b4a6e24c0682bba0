package tmap

import (
	"context"
	"fmt"

	"github.com/evroute/charge-planner/internal/ports"
)

// MockRouteProvider resolves routes from a fixed table. Baseline routes key
// on "origin|dest", via-routes on "origin|via|dest", where each point is
// formatted to four decimal places.
type MockRouteProvider struct {
	Routes map[string]ports.RouteResult
	Fail   map[string]bool
}

// MockRouteKey builds the lookup key for a request.
func MockRouteKey(req ports.RouteRequest) string {
	if req.Via != nil {
		return fmt.Sprintf("%.4f,%.4f|%.4f,%.4f|%.4f,%.4f",
			req.Origin.Lat, req.Origin.Lon, req.Via.Lat, req.Via.Lon,
			req.Destination.Lat, req.Destination.Lon)
	}
	return fmt.Sprintf("%.4f,%.4f|%.4f,%.4f",
		req.Origin.Lat, req.Origin.Lon, req.Destination.Lat, req.Destination.Lon)
}

func (m *MockRouteProvider) GetRoute(ctx context.Context, req ports.RouteRequest) (ports.RouteResult, error) {
	key := MockRouteKey(req)
	if m.Fail[key] {
		return ports.RouteResult{}, fmt.Errorf("no route for %q", key)
	}
	r, ok := m.Routes[key]
	if !ok {
		return ports.RouteResult{}, fmt.Errorf("missing route %q", key)
	}
	return r, nil
}
