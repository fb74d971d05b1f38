package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"goal-route-service/internal/api/dto"
	"goal-route-service/internal/domain"
	"goal-route-service/internal/platform/obs"
	"goal-route-service/internal/ports"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-kit/log/level"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		level.Warn(obs.Logger()).Log(
			"req_id", obs.RequestID(r.Context()),
			"msg", "encode failed",
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object into v and validates it. It writes
// the 400 response itself and reports whether the handler may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}

	if err := validate.Struct(v); err != nil {
		writeError(w, r, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		// drop the root struct name: "RouteRequest.goal.pace" -> "goal.pace"
		_, field, _ := strings.Cut(fe.Namespace(), ".")
		msg := field + " failed " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidGoal), errors.Is(err, domain.ErrAddressNotFound):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, r, http.StatusNotFound, "session not found")
	case errors.Is(err, domain.ErrAttemptsLocked):
		writeError(w, r, http.StatusConflict, "manual attempts locked")
	case errors.Is(err, domain.ErrClickDebounced):
		writeError(w, r, http.StatusTooManyRequests, "click debounced")
	case errors.Is(err, domain.ErrProviderUnavailable):
		level.Error(obs.Logger()).Log("req_id", obs.RequestID(r.Context()), "msg", "provider unavailable", "err", err)
		writeError(w, r, http.StatusBadGateway, "routing provider unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "request timed out")
	default:
		level.Error(obs.Logger()).Log("req_id", obs.RequestID(r.Context()), "msg", "request failed", "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// resolveOrigin prefers explicit coordinates and geocodes the address otherwise.
func resolveOrigin(ctx context.Context, geocoder ports.Geocoder, req dto.RouteRequest) (domain.Coordinates, error) {
	if req.Origin != nil {
		return req.Origin.Domain(), nil
	}
	if geocoder == nil {
		return domain.Coordinates{}, fmt.Errorf("%w: origin_address is not supported by this provider, send origin", domain.ErrInvalidGoal)
	}
	return geocoder.Geocode(ctx, req.OriginAddress)
}
