package api

import (
	"goal-route-service/internal/api/handlers"
	"goal-route-service/internal/ports"
	"goal-route-service/internal/services"
	"net/http"

	"github.com/gorilla/mux"
)

// Deps are the services the HTTP layer is built from. Geocoder may be nil
// when the routing provider has no geocoding endpoint.
type Deps struct {
	Engine   services.RouteSearcher
	Sessions *services.SessionService
	Geocoder ports.Geocoder
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	routeHandler := &handlers.RouteHandler{Engine: deps.Engine, Geocoder: deps.Geocoder}
	sessionHandler := &handlers.SessionHandler{Sessions: deps.Sessions, Geocoder: deps.Geocoder}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/plans", handlers.Plan).Methods(http.MethodPost)
	r.HandleFunc("/routes/default", routeHandler.Default).Methods(http.MethodPost)
	r.HandleFunc("/routes/manual", routeHandler.Manual).Methods(http.MethodPost)

	s := r.PathPrefix("/sessions").Subrouter()
	s.HandleFunc("", sessionHandler.Start).Methods(http.MethodPost)
	s.HandleFunc("/{key}", sessionHandler.Get).Methods(http.MethodGet)
	s.HandleFunc("/{key}", sessionHandler.End).Methods(http.MethodDelete)
	s.HandleFunc("/{key}/clicks", sessionHandler.Click).Methods(http.MethodPost)
	s.HandleFunc("/{key}/reset", sessionHandler.Reset).Methods(http.MethodPost)

	r.Use(requestIDMiddleware, loggingMiddleware)
	return r
}

// writeError mirrors the handlers' error body for responses produced by the router itself.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}` + "\n"))
}
