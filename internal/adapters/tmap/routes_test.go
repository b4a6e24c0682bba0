package tmap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/evroute/charge-planner/internal/domain"
	"github.com/evroute/charge-planner/internal/ports"
)

const routeJSON = `{
  "features": [
    {
      "geometry": {
        "type": "Point",
        "coordinates": [127.0, 37.5]
      },
      "properties": {
        "totalDistance": 12000,
        "totalTime": 900,
        "totalFare": 1200
      }
    },
    {
      "geometry": {
        "type": "LineString",
        "coordinates": [[127.0, 37.5], [127.01, 37.51]],
        "traffic": [[0, 1, 2]]
      },
      "properties": {
        "distance": 7000,
        "roadType": 0
      }
    },
    {
      "geometry": {
        "type": "LineString",
        "coordinates": [[127.01, 37.51], [127.02, 37.52]]
      },
      "properties": {
        "distance": 5000,
        "roadType": 1
      }
    }
  ]
}`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient("test-key")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c.baseURL = srv.URL
	return c, srv
}

func TestGetRouteDecodesSegments(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("appKey") != "test-key" {
			t.Errorf("missing appKey header")
		}
		w.Write([]byte(routeJSON))
	}))

	res, err := c.GetRoute(context.Background(), ports.RouteRequest{
		Origin:      domain.LatLon{Lat: 37.5, Lon: 127.0},
		Destination: domain.LatLon{Lat: 37.52, Lon: 127.02},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.TotalDistanceM != 12000 || res.TotalTimeS != 900 || res.TotalFareKRW != 1200 {
		t.Errorf("totals = %d/%d/%d, want 12000/900/1200",
			res.TotalDistanceM, res.TotalTimeS, res.TotalFareKRW)
	}

	if len(res.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(res.Segments))
	}

	if res.Segments[0].RoadType != domain.RoadTypeHighway {
		t.Errorf("segment 0 road type = %s, want highway", res.Segments[0].RoadType)
	}
	if res.Segments[1].RoadType != domain.RoadTypeCity {
		t.Errorf("segment 1 road type = %s, want city", res.Segments[1].RoadType)
	}

	if res.HighwayDistanceM() != 7000 || res.CityDistanceM() != 5000 {
		t.Errorf("distance split = %v/%v, want 7000/5000",
			res.HighwayDistanceM(), res.CityDistanceM())
	}

	// Coordinates arrive as [lon, lat].
	p := res.Segments[0].Points[0]
	if p.Lat != 37.5 || p.Lon != 127.0 {
		t.Errorf("first point = %+v, want lat=37.5 lon=127.0", p)
	}

	if len(res.Segments[0].Traffic) != 1 || res.Segments[0].Traffic[0].TrafficIndex != 2 {
		t.Errorf("traffic sections not decoded: %+v", res.Segments[0].Traffic)
	}
}

func TestGetRouteRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(routeJSON))
	}))

	_, err := c.GetRoute(context.Background(), ports.RouteRequest{
		Origin:      domain.LatLon{Lat: 37.5, Lon: 127.0},
		Destination: domain.LatLon{Lat: 37.52, Lon: 127.02},
	})
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestGetRouteCachesBaseline(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(routeJSON))
	}))

	req := ports.RouteRequest{
		Origin:      domain.LatLon{Lat: 37.5, Lon: 127.0},
		Destination: domain.LatLon{Lat: 37.52, Lon: 127.02},
	}

	for i := 0; i < 3; i++ {
		if _, err := c.GetRoute(context.Background(), req); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("baseline calls = %d, want 1 (cached)", calls.Load())
	}

	// Via-routes bypass the cache.
	via := domain.LatLon{Lat: 37.51, Lon: 127.01}
	reqVia := req
	reqVia.Via = &via
	if _, err := c.GetRoute(context.Background(), reqVia); err != nil {
		t.Fatalf("via route: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("calls after via route = %d, want 2", calls.Load())
	}
}

func TestGetRouteNoGeometry(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features": []}`))
	}))

	_, err := c.GetRoute(context.Background(), ports.RouteRequest{
		Origin:      domain.LatLon{Lat: 37.5, Lon: 127.0},
		Destination: domain.LatLon{Lat: 37.52, Lon: 127.02},
	})
	if err == nil {
		t.Fatal("expected error for empty feature list")
	}
}
