package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/evroute/charge-planner/internal/api/dto"
	"github.com/evroute/charge-planner/internal/domain"
	"github.com/evroute/charge-planner/internal/energy"
	"github.com/evroute/charge-planner/internal/services"
)

// RoutePlanner is the slice of the planning service the handler needs.
type RoutePlanner interface {
	Plan(ctx context.Context, req services.PlanRequest) (*services.PlanResult, error)
}

type PlanHandler struct {
	Planner RoutePlanner
}

// Plan runs one end-to-end planning request: baseline route, corridor
// candidates, detour ranking, availability, and hop chaining.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if msg := validatePoint(req.Origin); msg != "" {
		writeError(w, r, http.StatusBadRequest, "origin: "+msg)
		return
	}
	if msg := validatePoint(req.Destination); msg != "" {
		writeError(w, r, http.StatusBadRequest, "destination: "+msg)
		return
	}
	if req.Origin == req.Destination {
		writeError(w, r, http.StatusBadRequest, "origin and destination must differ")
		return
	}

	battery, msg := buildBattery(req.Battery)
	if msg != "" {
		writeError(w, r, http.StatusBadRequest, msg)
		return
	}

	searchOption := req.SearchOption
	if searchOption == "" {
		searchOption = "0"
	}

	svcReq := services.PlanRequest{
		Origin:       domain.LatLon{Lat: req.Origin.Lat, Lon: req.Origin.Lon},
		Destination:  domain.LatLon{Lat: req.Destination.Lat, Lon: req.Destination.Lon},
		Battery:      battery,
		Filter:       buildFilter(req.Filter),
		SearchOption: searchOption,
	}

	result, err := h.Planner.Plan(r.Context(), svcReq)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoRoute):
			writeError(w, r, http.StatusUnprocessableEntity, "no route between origin and destination")
		case errors.Is(err, services.ErrSuperseded):
			writeError(w, r, http.StatusConflict, "superseded by a newer planning request")
		default:
			log.Printf("plan failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, r, http.StatusOK, buildPlanResponse(result))
}

func validatePoint(p dto.PointRequest) string {
	if p.Lat < -90 || p.Lat > 90 {
		return "lat must be between -90 and 90"
	}
	if p.Lon < -180 || p.Lon > 180 {
		return "lon must be between -180 and 180"
	}
	if p.Lat == 0 && p.Lon == 0 {
		return "lat and lon are required"
	}
	return ""
}

func buildBattery(b dto.BatteryRequest) (domain.BatteryProfile, string) {
	if b.LevelPercent <= 0 || b.LevelPercent > 100 {
		return domain.BatteryProfile{}, "battery.level_percent must be between 0 and 100"
	}
	if b.CapacityKwh <= 0 {
		return domain.BatteryProfile{}, "battery.capacity_kwh must be positive"
	}
	if b.EfficiencyKmPerKwh <= 0 {
		return domain.BatteryProfile{}, "battery.efficiency_km_per_kwh must be positive"
	}
	if b.ChargeLimitPercent <= 0 || b.ChargeLimitPercent > 100 {
		return domain.BatteryProfile{}, "battery.charge_limit_percent must be between 0 and 100"
	}
	if b.TargetArrivalPercent < 0 || b.TargetArrivalPercent > 100 {
		return domain.BatteryProfile{}, "battery.target_arrival_percent must be between 0 and 100"
	}

	temperature := 0.0
	if b.TemperatureC != nil {
		temperature = *b.TemperatureC
	} else {
		now := time.Now()
		temperature = energy.DefaultTemperature(now.Month(), now.Day())
	}

	return domain.BatteryProfile{
		LevelPercent:         b.LevelPercent,
		CapacityKwh:          b.CapacityKwh,
		EfficiencyKmPerKwh:   b.EfficiencyKmPerKwh,
		ChargeLimitPercent:   b.ChargeLimitPercent,
		TargetArrivalPercent: b.TargetArrivalPercent,
		TemperatureC:         temperature,
	}, ""
}

func buildFilter(f *dto.FilterRequest) domain.StationFilter {
	if f == nil {
		return domain.StationFilter{}
	}
	return domain.StationFilter{
		FreeParking:    f.FreeParking,
		NoLimit:        f.NoLimit,
		OutputMinKw:    f.OutputMinKw,
		OutputMaxKw:    f.OutputMaxKw,
		ConnectorTypes: f.ConnectorTypes,
		Operators:      f.Operators,
	}
}

func buildPlanResponse(result *services.PlanResult) dto.PlanResponse {
	res := dto.PlanResponse{
		Route: dto.RouteSummaryResponse{
			TotalDistanceM:      result.Route.TotalDistanceM,
			TotalTimeS:          result.Route.TotalTimeS,
			TotalFareKRW:        result.Route.TotalFareKRW,
			CityDistanceM:       result.Route.CityDistanceM,
			HighwayDistanceM:    result.Route.HighwayDistanceM,
			TemperatureWeight:   result.Route.TemperatureWeight,
			RoadWeight:          result.Route.RoadWeight,
			ReachableDistanceKm: result.Route.ReachableDistanceKm,
		},
		Plans: make([]dto.StopPlanResponse, 0, len(result.Plans)),
	}

	for _, p := range result.Plans {
		plan := dto.StopPlanResponse{
			FirstHop:                     buildStop(p.FirstHop),
			SecondHopTimeS:               p.SecondHopTimeS,
			SecondHopChargingTimeMinutes: p.SecondHopChargingTimeMinutes,
		}
		if p.SecondHop != nil {
			hop := buildStop(*p.SecondHop)
			plan.SecondHop = &hop
		}
		res.Plans = append(res.Plans, plan)
	}

	return res
}

func buildStop(st domain.AnnotatedStation) dto.StopResponse {
	connectors := make([]dto.ConnectorResponse, 0, len(st.Connectors))
	for _, c := range st.Connectors {
		connectors = append(connectors, dto.ConnectorResponse{
			Status:     c.Status,
			OutputKw:   c.OutputKw,
			LastUpdate: c.LastUpdate,
		})
	}

	return dto.StopResponse{
		ID:                  st.ID,
		Name:                st.Name,
		Lat:                 st.Position.Lat,
		Lon:                 st.Position.Lon,
		MatchesFilter:       st.MatchesFilter,
		DetourTimeS:         st.DetourTimeS,
		TotalTimeS:          st.TotalTimeS,
		TotalFareKRW:        st.TotalFareKRW,
		TotalDistanceM:      st.TotalDistanceM,
		AvailableCount:      st.AvailableCount,
		TotalCount:          st.TotalCount,
		Connectors:          connectors,
		ArrivalPercent:      st.ArrivalPercent,
		ChargingTimeMinutes: st.ChargingTimeMinutes,
		PostChargePercent:   st.PostChargePercent,
	}
}
