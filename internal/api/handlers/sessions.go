package handlers

import (
	"goal-route-service/internal/api/dto"
	"goal-route-service/internal/domain"
	"goal-route-service/internal/ports"
	"goal-route-service/internal/services"
	"net/http"

	"github.com/gorilla/mux"
)

// SessionHandler exposes the interactive destination-selection protocol.
type SessionHandler struct {
	Sessions *services.SessionService
	Geocoder ports.Geocoder
}

func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	origin, err := resolveOrigin(r.Context(), h.Geocoder, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	sess, err := h.Sessions.Start(r.Context(), req.Goal.Domain(), origin)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.response(sess))
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Sessions.Status(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.response(sess))
}

// Click runs a manual attempt through the session's attempt limiter.
func (h *SessionHandler) Click(w http.ResponseWriter, r *http.Request) {
	var req dto.ClickRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Sessions.Click(r.Context(), mux.Vars(r)["key"], req.Point.Domain())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ClickResponse{
		Outcome: dto.NewOutcomeResponse(res.Outcome),
		Session: h.response(res.Session),
	})
}

func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, err := h.Sessions.Reset(r.Context(), mux.Vars(r)["key"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.response(sess))
}

func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.End(r.Context(), mux.Vars(r)["key"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) response(sess domain.SearchSession) dto.SessionResponse {
	return dto.NewSessionResponse(sess, h.Sessions.Limiter(sess).RemainingAttempts())
}
