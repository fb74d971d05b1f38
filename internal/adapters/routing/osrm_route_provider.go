package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"goal-route-service/internal/domain"
	"goal-route-service/internal/platform/obs"
	"goal-route-service/internal/ports"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64           `json:"distance"`
		Duration float64           `json:"duration"`
		Geometry *geojson.Geometry `json:"geometry"`
	} `json:"routes"`
}

// OSRMRouteProvider implements RouteProvider against an OSRM server's foot profile.
//
// The provider is safe for concurrent use.
type OSRMRouteProvider struct {
	client  *httpClient
	baseURL string
	profile string
}

func NewOSRMRouteProvider(baseURL string) *OSRMRouteProvider {
	return &OSRMRouteProvider{
		client:  newHTTPClient("", 10*time.Second),
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "foot",
	}
}

func (o *OSRMRouteProvider) GetRoute(ctx context.Context, req ports.RouteRequest) ports.RouteResponse {
	legs, err := o.fetchRoute(ctx, req)
	if err != nil {
		return classify(err, osrmNotFound)
	}
	return ports.Found(legs...)
}

func (o *OSRMRouteProvider) fetchRoute(
	ctx context.Context,
	req ports.RouteRequest,
) (_ []domain.RouteLeg, err error) {
	defer obs.Time(ctx, "osrm.GetRoute")(&err)

	points := make([]string, 0, 2+len(req.Via))
	points = append(points, osrmPoint(req.From))
	for _, v := range req.Via {
		points = append(points, osrmPoint(v))
	}
	points = append(points, osrmPoint(req.To))

	endpoint := fmt.Sprintf("%s/route/v1/%s/%s", o.baseURL, o.profile, strings.Join(points, ";"))

	resp, err := o.client.doWithRetry(ctx, func() (*http.Request, error) {
		r, err := o.client.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := r.URL.Query()
		q.Set("overview", "full")
		q.Set("geometries", "geojson")
		q.Set("alternatives", fmt.Sprintf("%t", req.Alternatives && len(req.Via) == 0))
		r.URL.RawQuery = q.Encode()
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode route response: %w", err)
	}

	if decoded.Code != "Ok" {
		if osrmNoRouteCode(decoded.Code) {
			return nil, fmt.Errorf("%w: %s", errNoRoute, decoded.Code)
		}
		return nil, fmt.Errorf("osrm returned code %q: %s", decoded.Code, decoded.Message)
	}

	legs := make([]domain.RouteLeg, 0, len(decoded.Routes))
	for i, r := range decoded.Routes {
		if r.Geometry == nil {
			return nil, fmt.Errorf("route %d: missing geometry", i)
		}
		ls, ok := r.Geometry.Geometry().(orb.LineString)
		if !ok || len(ls) == 0 {
			return nil, fmt.Errorf("route %d: expected LineString geometry", i)
		}
		legs = append(legs, domain.RouteLeg{
			DistanceKm:  r.Distance / 1000,
			DurationSec: r.Duration,
			Geometry:    ls,
		})
	}

	if len(legs) == 0 {
		return nil, errNoRoute
	}
	return legs, nil
}

func osrmPoint(c domain.Coordinates) string {
	return fmt.Sprintf("%.6f,%.6f", c.Lon, c.Lat)
}

func osrmNoRouteCode(code string) bool {
	return code == "NoRoute" || code == "NoSegment"
}

func osrmNotFound(he *httpStatusError) bool {
	if he.Code == http.StatusNotFound {
		return true
	}
	var body osrmResponse
	if err := json.Unmarshal([]byte(he.Body), &body); err != nil {
		return false
	}
	return osrmNoRouteCode(body.Code)
}
