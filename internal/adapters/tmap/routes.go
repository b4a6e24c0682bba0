package tmap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/evroute/charge-planner/internal/domain"
	"github.com/evroute/charge-planner/internal/platform/obs"
	"github.com/evroute/charge-planner/internal/ports"
)

type routeRequestBody struct {
	StartX       float64 `json:"startX"`
	StartY       float64 `json:"startY"`
	EndX         float64 `json:"endX"`
	EndY         float64 `json:"endY"`
	PassList     string  `json:"passList,omitempty"`
	ReqCoordType string  `json:"reqCoordType"`
	ResCoordType string  `json:"resCoordType"`
	SearchOption string  `json:"searchOption"`
	TrafficInfo  string  `json:"trafficInfo,omitempty"`
}

type routeResponse struct {
	Features []struct {
		Geometry struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
			Traffic     [][]int         `json:"traffic"`
		} `json:"geometry"`
		Properties struct {
			TotalDistance int     `json:"totalDistance"`
			TotalTime     int     `json:"totalTime"`
			TotalFare     int     `json:"totalFare"`
			Distance      float64 `json:"distance"`
			RoadType      int     `json:"roadType"`
		} `json:"properties"`
	} `json:"features"`
}

// GetRoute resolves one route from the oracle. Baseline requests (no via
// point) are served from a short-lived cache keyed by endpoints and search
// option; via-routes for detour evaluation always hit the API.
func (c *Client) GetRoute(ctx context.Context, req ports.RouteRequest) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "tmap.GetRoute")(&err)

	opt := req.SearchOption
	if opt == "" {
		opt = "0"
	}

	var cacheKey string
	if req.Via == nil {
		cacheKey = fmt.Sprintf("%.6f,%.6f|%.6f,%.6f|%s",
			req.Origin.Lat, req.Origin.Lon, req.Destination.Lat, req.Destination.Lon, opt)
		if hit, ok := c.baseline.Get(cacheKey); ok {
			return hit.(ports.RouteResult), nil
		}
	}

	body := routeRequestBody{
		StartX:       req.Origin.Lon,
		StartY:       req.Origin.Lat,
		EndX:         req.Destination.Lon,
		EndY:         req.Destination.Lat,
		ReqCoordType: "WGS84GEO",
		ResCoordType: "WGS84GEO",
		SearchOption: opt,
	}
	if req.Via != nil {
		body.PassList = fmt.Sprintf("%f,%f", req.Via.Lon, req.Via.Lat)
	} else {
		body.TrafficInfo = "Y"
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("marshal route request: %w", err)
	}

	endpoint := c.baseURL + "/tmap/routes?version=1&format=json"
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	var rr routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return ports.RouteResult{}, fmt.Errorf("decode route response: %w", err)
	}

	result, err := buildRouteResult(rr)
	if err != nil {
		return ports.RouteResult{}, err
	}

	if req.Via == nil {
		c.baseline.SetDefault(cacheKey, result)
	}

	return result, nil
}

// buildRouteResult converts the GeoJSON-style response into a RouteResult.
// Totals come from the first feature; only LineString features contribute
// geometry.
func buildRouteResult(rr routeResponse) (ports.RouteResult, error) {
	if len(rr.Features) == 0 {
		return ports.RouteResult{}, errors.New("route response has no features")
	}

	props := rr.Features[0].Properties
	result := ports.RouteResult{
		TotalDistanceM: props.TotalDistance,
		TotalTimeS:     props.TotalTime,
		TotalFareKRW:   props.TotalFare,
	}

	for _, f := range rr.Features {
		if f.Geometry.Type != "LineString" {
			continue
		}

		var coords [][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &coords); err != nil {
			return ports.RouteResult{}, fmt.Errorf("decode segment coordinates: %w", err)
		}

		points := make([]domain.LatLon, 0, len(coords))
		for _, c := range coords {
			if len(c) < 2 {
				return ports.RouteResult{}, fmt.Errorf("segment coordinate has %d values", len(c))
			}
			points = append(points, domain.LatLon{Lat: c[1], Lon: c[0]})
		}

		roadType := domain.RoadTypeCity
		if f.Properties.RoadType == 0 {
			roadType = domain.RoadTypeHighway
		}

		var traffic []domain.TrafficSection
		for _, t := range f.Geometry.Traffic {
			if len(t) < 3 {
				continue
			}
			traffic = append(traffic, domain.TrafficSection{
				StartIndex:   t[0],
				EndIndex:     t[1],
				TrafficIndex: t[2],
			})
		}

		result.Segments = append(result.Segments, domain.RouteSegment{
			Points:    points,
			RoadType:  roadType,
			DistanceM: f.Properties.Distance,
			Traffic:   traffic,
		})
	}

	if len(result.Segments) == 0 {
		return ports.RouteResult{}, errors.New("route response has no line geometry")
	}

	return result, nil
}
