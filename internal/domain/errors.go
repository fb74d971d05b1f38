package domain

import "errors"

// Error kinds surfaced by the route matching engine. Callers distinguish them with errors.Is.
var (
	// ErrInvalidGoal rejects a goal before any search starts.
	ErrInvalidGoal = errors.New("invalid planning goal")

	// ErrProviderUnavailable aborts a whole search (token, network or rate limit failure).
	ErrProviderUnavailable = errors.New("routing provider unavailable")

	// ErrRouteNotFound is per candidate; the search loop swallows it and moves on.
	ErrRouteNotFound = errors.New("route not found")

	ErrAttemptsLocked  = errors.New("manual attempts locked")
	ErrClickDebounced  = errors.New("click debounced")
	ErrSessionNotFound = errors.New("search session not found")
	ErrAddressNotFound = errors.New("address not found")
)
