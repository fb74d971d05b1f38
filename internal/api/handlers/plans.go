package handlers

import (
	"goal-route-service/internal/api/dto"
	"goal-route-service/internal/services"
	"net/http"
)

// Plan translates a goal into target distances and effort estimates without routing.
func Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	plan, err := services.PlanGoal(req.Goal.Domain())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewPlanResponse(plan))
}
