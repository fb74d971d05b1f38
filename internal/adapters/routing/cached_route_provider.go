package routing

import (
	"context"
	"fmt"
	"goal-route-service/internal/platform/obs"
	"goal-route-service/internal/ports"
	"strings"

	"github.com/go-kit/log/level"
)

// CachedRouteProvider consults a persistent leg cache before the wrapped
// provider. Only found routes are cached; misses and failures always go upstream.
type CachedRouteProvider struct {
	next  ports.RouteProvider
	cache ports.LegCache
}

func NewCachedRouteProvider(next ports.RouteProvider, cache ports.LegCache) *CachedRouteProvider {
	return &CachedRouteProvider{next: next, cache: cache}
}

func (c *CachedRouteProvider) GetRoute(ctx context.Context, req ports.RouteRequest) ports.RouteResponse {
	key := LegKey(req)

	if c.cache != nil {
		legs, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			level.Warn(obs.Logger()).Log("req_id", obs.RequestID(ctx), "msg", "leg cache read failed", "err", err)
		} else if ok && len(legs) > 0 {
			return ports.Found(legs...)
		}
	}

	resp := c.next.GetRoute(ctx, req)
	if resp.Status != ports.RouteFound || c.cache == nil {
		return resp
	}

	if err := c.cache.Put(ctx, key, resp.Legs); err != nil {
		level.Warn(obs.Logger()).Log("req_id", obs.RequestID(ctx), "msg", "leg cache write failed", "err", err)
	}
	return resp
}

// LegKey normalizes a request into a cache key. Coordinates are rounded to
// 5 decimals so near-identical requests share an entry.
func LegKey(req ports.RouteRequest) string {
	via := make([]string, 0, len(req.Via))
	for _, v := range req.Via {
		via = append(via, v.Key())
	}
	return fmt.Sprintf("%s|%s|%s|alt=%t", req.From.Key(), req.To.Key(), strings.Join(via, ";"), req.Alternatives)
}
