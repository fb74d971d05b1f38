package handlers

import (
	"goal-route-service/internal/api/dto"
	"goal-route-service/internal/ports"
	"goal-route-service/internal/services"
	"net/http"
)

// RouteHandler serves one-shot searches that keep no session state.
type RouteHandler struct {
	Engine   services.RouteSearcher
	Geocoder ports.Geocoder
}

func (h *RouteHandler) Default(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	goal := req.Goal.Domain()
	plan, err := services.PlanGoal(goal)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	origin, err := resolveOrigin(r.Context(), h.Geocoder, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	outcome, err := h.Engine.SearchDefaultRoute(r.Context(), goal, origin)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SearchResponse{
		Plan:    dto.NewPlanResponse(plan),
		Outcome: dto.NewOutcomeResponse(outcome),
	})
}

// Manual evaluates an explicit destination, bypassing the attempt limiter.
func (h *RouteHandler) Manual(w http.ResponseWriter, r *http.Request) {
	var req dto.ManualRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	goal := req.Goal.Domain()
	plan, err := services.PlanGoal(goal)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	origin, err := resolveOrigin(r.Context(), h.Geocoder, req.RouteRequest)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	outcome, err := h.Engine.AttemptManualRoute(r.Context(), goal, origin, req.Destination.Domain())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SearchResponse{
		Plan:    dto.NewPlanResponse(plan),
		Outcome: dto.NewOutcomeResponse(outcome),
	})
}
