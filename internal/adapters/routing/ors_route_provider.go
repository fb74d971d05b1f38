package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"goal-route-service/internal/domain"
	"goal-route-service/internal/platform/obs"
	"goal-route-service/internal/ports"
	"io"
	"net/http"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ORS error codes that mean "no route" rather than a service failure.
const (
	orsErrRouteNotFound  = 2009
	orsErrPointNotFound  = 2010
	orsErrDistanceLimits = 2004
)

type directionsRequest struct {
	Coordinates       [][]float64        `json:"coordinates"`
	AlternativeRoutes *alternativeRoutes `json:"alternative_routes,omitempty"`
	Instructions      bool               `json:"instructions"`
}

type alternativeRoutes struct {
	TargetCount  int     `json:"target_count"`
	ShareFactor  float64 `json:"share_factor"`
	WeightFactor float64 `json:"weight_factor"`
}

type orsErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ORSRouteProvider implements RouteProvider using the OpenRouteService
// directions endpoint with GeoJSON output.
//
// The provider is safe for concurrent use.
type ORSRouteProvider struct {
	client  *httpClient
	baseURL string
	profile string
}

func NewORSRouteProvider(apiKey, baseURL, profile string) (*ORSRouteProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = "https://api.openrouteservice.org"
	}
	if profile == "" {
		profile = "foot-walking"
	}

	return &ORSRouteProvider{
		client:  newHTTPClient(apiKey, 10*time.Second),
		baseURL: baseURL,
		profile: profile,
	}, nil
}

func (o *ORSRouteProvider) GetRoute(ctx context.Context, req ports.RouteRequest) ports.RouteResponse {
	legs, err := o.fetchDirections(ctx, req)
	if err != nil {
		return classify(err, orsNotFound)
	}
	return ports.Found(legs...)
}

func (o *ORSRouteProvider) fetchDirections(
	ctx context.Context,
	req ports.RouteRequest,
) (_ []domain.RouteLeg, err error) {
	defer obs.Time(ctx, "ors.GetRoute")(&err)

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	coords := make([][]float64, 0, 2+len(req.Via))
	coords = append(coords, req.From.CoordsToList())
	for _, v := range req.Via {
		coords = append(coords, v.CoordsToList())
	}
	coords = append(coords, req.To.CoordsToList())

	bodyObj := directionsRequest{Coordinates: coords}
	// ORS only computes alternatives for plain two-point requests.
	if req.Alternatives && len(req.Via) == 0 {
		bodyObj.AlternativeRoutes = &alternativeRoutes{
			TargetCount:  3,
			ShareFactor:  0.6,
			WeightFactor: 1.6,
		}
	}

	payload, err := json.Marshal(bodyObj)
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.client.doWithRetry(ctx, func() (*http.Request, error) {
		return o.client.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read directions response: %w", err)
	}

	return decodeORSDirections(b)
}

func decodeORSDirections(b []byte) ([]domain.RouteLeg, error) {
	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		return nil, fmt.Errorf("decode directions response: %w", err)
	}

	legs := make([]domain.RouteLeg, 0, len(fc.Features))
	for i, f := range fc.Features {
		ls, ok := f.Geometry.(orb.LineString)
		if !ok || len(ls) == 0 {
			return nil, fmt.Errorf("feature %d: expected LineString geometry, got %T", i, f.Geometry)
		}

		// ORS omits zero-valued summary fields.
		var meters, seconds float64
		if summary, ok := f.Properties["summary"].(map[string]interface{}); ok {
			meters, _ = summary["distance"].(float64)
			seconds, _ = summary["duration"].(float64)
		}

		legs = append(legs, domain.RouteLeg{
			DistanceKm:  meters / 1000,
			DurationSec: seconds,
			Geometry:    ls,
		})
	}

	if len(legs) == 0 {
		return nil, errNoRoute
	}
	return legs, nil
}

func orsNotFound(he *httpStatusError) bool {
	if he.Code == http.StatusNotFound {
		return true
	}

	var body orsErrorBody
	if err := json.Unmarshal([]byte(he.Body), &body); err != nil {
		return false
	}
	switch body.Error.Code {
	case orsErrRouteNotFound, orsErrPointNotFound, orsErrDistanceLimits:
		return true
	}
	return false
}
