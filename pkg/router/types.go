// Package router assembles virtual start/end nodes from two snaps, runs a
// bidirectional A* search over a tile's graph augmented with virtual
// edges, reconstructs the path, and synthesizes the output polyline and
// metrics (spec §4.4).
package router

import "tilerouter/pkg/tile"

// RouteStatus mirrors spec §7's error taxonomy at the public boundary.
type RouteStatus int

const (
	StatusOK RouteStatus = iota
	StatusNoRoute
	StatusNoTile
	StatusDataError
	StatusInternalError
)

func (s RouteStatus) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusNoRoute:
		return "NO_ROUTE"
	case StatusNoTile:
		return "NO_TILE"
	case StatusDataError:
		return "DATA_ERROR"
	case StatusInternalError:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN"
	}
}

// RouteResult is the public outcome of a Route call (spec §4.4.1/§6).
type RouteResult struct {
	Status          RouteStatus
	Polyline        []tile.LatLon
	EncodedPolyline string
	DistanceM       float64
	DurationS       float64
	EdgeIDs         []uint64
	ErrorMessage    string
}

// Options configures a Router (spec §6's literal {tile_zoom, tile_cache_capacity}).
type Options struct {
	TileZoom          int
	TileCacheCapacity int
}

// DefaultOptions matches spec §6's defaults.
func DefaultOptions() Options {
	return Options{TileZoom: 14, TileCacheCapacity: 0}
}

// Loader is the narrow dependency the Router needs from the tile-loading
// layer: given a tile key, return a validated, shared Tile View.
type Loader interface {
	Load(z, x, y int) (*tile.View, error)
}
