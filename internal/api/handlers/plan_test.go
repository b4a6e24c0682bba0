package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/evroute/charge-planner/internal/services"
)

type stubPlanner struct {
	result *services.PlanResult
	err    error
	got    *services.PlanRequest
}

func (s *stubPlanner) Plan(ctx context.Context, req services.PlanRequest) (*services.PlanResult, error) {
	s.got = &req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

const validBody = `{
	"origin": {"lat": 37.5042, "lon": 127.0489},
	"destination": {"lat": 35.1631, "lon": 129.1635},
	"battery": {
		"level_percent": 50,
		"capacity_kwh": 70,
		"efficiency_km_per_kwh": 5.0,
		"charge_limit_percent": 85,
		"target_arrival_percent": 15,
		"temperature_c": 15
	}
}`

func postPlan(t *testing.T, planner RoutePlanner, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := &PlanHandler{Planner: planner}
	req := httptest.NewRequest(http.MethodPost, "/api/plan", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Plan(rec, req)
	return rec
}

func TestPlanHandlerOK(t *testing.T) {
	planner := &stubPlanner{result: &services.PlanResult{
		Route: services.RouteSummary{TotalDistanceM: 390000},
	}}

	rec := postPlan(t, planner, validBody)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		Route struct {
			TotalDistanceM int `json:"total_distance_m"`
		} `json:"route"`
		Plans []json.RawMessage `json:"plans"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Route.TotalDistanceM != 390000 {
		t.Errorf("route distance = %d, want 390000", res.Route.TotalDistanceM)
	}
	if res.Plans == nil {
		t.Errorf("plans must encode as an empty array, not null")
	}

	if planner.got == nil {
		t.Fatal("planner never invoked")
	}
	if planner.got.Battery.TemperatureC != 15 {
		t.Errorf("temperature = %v, want the supplied 15", planner.got.Battery.TemperatureC)
	}
	if planner.got.SearchOption != "0" {
		t.Errorf("search option = %q, want default \"0\"", planner.got.SearchOption)
	}
}

func TestPlanHandlerDefaultsTemperature(t *testing.T) {
	body := strings.Replace(validBody, `,
		"temperature_c": 15`, "", 1)

	planner := &stubPlanner{result: &services.PlanResult{}}
	rec := postPlan(t, planner, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	// Seasonal default: Seoul monthly averages span roughly -3..26C.
	got := planner.got.Battery.TemperatureC
	if got < -10 || got > 35 {
		t.Errorf("default temperature = %v, outside any seasonal average", got)
	}
}

func TestPlanHandlerValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"unknown field", `{"bogus": 1}`},
		{"missing origin", `{"destination": {"lat": 35.0, "lon": 129.0}, "battery": {"level_percent": 50, "capacity_kwh": 70, "efficiency_km_per_kwh": 5, "charge_limit_percent": 85}}`},
		{"same endpoints", strings.Replace(validBody, `"destination": {"lat": 35.1631, "lon": 129.1635}`, `"destination": {"lat": 37.5042, "lon": 127.0489}`, 1)},
		{"zero capacity", strings.Replace(validBody, `"capacity_kwh": 70`, `"capacity_kwh": 0`, 1)},
		{"level above 100", strings.Replace(validBody, `"level_percent": 50`, `"level_percent": 120`, 1)},
		{"charge limit above 100", strings.Replace(validBody, `"charge_limit_percent": 85`, `"charge_limit_percent": 101`, 1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			planner := &stubPlanner{result: &services.PlanResult{}}
			rec := postPlan(t, planner, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			if planner.got != nil {
				t.Errorf("planner invoked despite invalid input")
			}
		})
	}
}

func TestPlanHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"no route", services.ErrNoRoute, http.StatusUnprocessableEntity},
		{"superseded", services.ErrSuperseded, http.StatusConflict},
		{"other", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postPlan(t, &stubPlanner{err: tc.err}, validBody)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
