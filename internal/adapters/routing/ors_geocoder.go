package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"goal-route-service/internal/domain"
	"goal-route-service/internal/platform/obs"
	"goal-route-service/internal/ports"
	"net/http"
	"strings"
	"time"

	"github.com/go-kit/log/level"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// ORSGeocoder resolves origin addresses through OpenRouteService (/geocode/search),
// consulting a persistent cache first.
type ORSGeocoder struct {
	client  *httpClient
	baseURL string
	country string
	cache   ports.GeocodeCache
}

// NewORSGeocoder builds a geocoder. country, when set, restricts matches
// (ISO 3166 alpha-2 or alpha-3); cache may be nil.
func NewORSGeocoder(apiKey, baseURL, country string, cache ports.GeocodeCache) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = "https://api.openrouteservice.org"
	}
	return &ORSGeocoder{
		client:  newHTTPClient(apiKey, 10*time.Second),
		baseURL: baseURL,
		country: country,
		cache:   cache,
	}, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (o *ORSGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.Coordinates{}, fmt.Errorf("geocode: %w: address must be non-empty", domain.ErrAddressNotFound)
	}

	if o.cache != nil {
		hits, err := o.cache.GetMany(ctx, []string{norm})
		if err != nil {
			level.Warn(obs.Logger()).Log("req_id", obs.RequestID(ctx), "msg", "geocode cache read failed", "err", err)
		} else if c, ok := hits[norm]; ok {
			return c, nil
		}
	}

	coords, err := o.search(ctx, norm)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, err)
	}

	if o.cache != nil {
		if err := o.cache.PutMany(ctx, map[string]domain.Coordinates{norm: coords}); err != nil {
			level.Warn(obs.Logger()).Log("req_id", obs.RequestID(ctx), "msg", "geocode cache write failed", "err", err)
		}
	}
	return coords, nil
}

func (o *ORSGeocoder) search(ctx context.Context, text string) (domain.Coordinates, error) {
	endpoint := o.baseURL + "/geocode/search"

	resp, err := o.client.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.client.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", text)
		q.Set("size", "1")
		if o.country != "" {
			q.Set("boundary.country", o.country)
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, domain.ErrAddressNotFound
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", text)
	}

	return domain.Coordinates{Lon: coords[0], Lat: coords[1]}, nil
}
