package router

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"tilerouter/domain"
	"tilerouter/pkg/geo"
	"tilerouter/pkg/profile"
)

// Router is a single-threaded query executor over one tile store handle
// (spec §5): it holds no state between queries besides the loader and
// options.
type Router struct {
	loader Loader
	opts   Options
	log    *logrus.Entry
}

// Waypoint is a decimal-degree coordinate (spec §3 "Public API uses
// decimal degrees").
type Waypoint struct {
	Lat, Lon float64
}

// New constructs a Router over loader with the given options, matching
// spec §6's Router::new(db_path, options) — db_path is implicit in the
// concrete Loader the caller constructs (pkg/tiledb).
func New(loader Loader, opts Options) *Router {
	return &Router{
		loader: loader,
		opts:   opts,
		log:    logrus.WithField("component", "router"),
	}
}

// Route computes the shortest-duration path across waypoints under
// profile p (spec §4.4.1).
func (r *Router) Route(p profile.Profile, waypoints []Waypoint) RouteResult {
	if len(waypoints) < 2 {
		return RouteResult{Status: StatusInternalError, ErrorMessage: "need at least 2 waypoints"}
	}

	zoom := r.opts.TileZoom
	if zoom == 0 {
		zoom = DefaultOptions().TileZoom
	}

	baseX, baseY := geo.TileForLatLon(waypoints[0].Lat, waypoints[0].Lon, zoom)
	for _, w := range waypoints[1:] {
		x, y := geo.TileForLatLon(w.Lat, w.Lon, zoom)
		if x != baseX || y != baseY {
			return RouteResult{Status: StatusNoRoute, ErrorMessage: "multi-tile routing is unsupported"}
		}
	}

	view, err := r.loader.Load(zoom, baseX, baseY)
	if err != nil {
		return statusFromError(err)
	}

	var result RouteResult
	for i := 0; i+1 < len(waypoints); i++ {
		a, b := waypoints[i], waypoints[i+1]
		outcome, err := routeSegment(view, zoom, baseX, baseY, p, a.Lat, a.Lon, b.Lat, b.Lon)
		if err != nil {
			return statusFromError(err)
		}

		if len(result.Polyline) > 0 && len(outcome.polyline) > 0 && sameLatLon(result.Polyline[len(result.Polyline)-1], outcome.polyline[0]) {
			result.Polyline = append(result.Polyline, outcome.polyline[1:]...)
		} else {
			result.Polyline = append(result.Polyline, outcome.polyline...)
		}
		result.DurationS += outcome.durationS
		result.EdgeIDs = append(result.EdgeIDs, outcome.edgeIDs...)
		result.DistanceM += polylineDistance(outcome.polyline)
	}

	result.Status = StatusOK
	result.EncodedPolyline = encodePolyline(result.Polyline)
	return result
}

func statusFromError(err error) RouteResult {
	var derr *domain.Error
	if errors.As(err, &derr) {
		switch {
		case errors.Is(derr.Code(), domain.ErrNoTile):
			return RouteResult{Status: StatusNoTile, ErrorMessage: derr.Error()}
		case errors.Is(derr.Code(), domain.ErrNoRoute):
			return RouteResult{Status: StatusNoRoute, ErrorMessage: derr.Error()}
		case errors.Is(derr.Code(), domain.ErrDataError):
			return RouteResult{Status: StatusDataError, ErrorMessage: derr.Error()}
		default:
			return RouteResult{Status: StatusInternalError, ErrorMessage: derr.Error()}
		}
	}
	return RouteResult{Status: StatusInternalError, ErrorMessage: fmt.Sprintf("unexpected error: %v", err)}
}
