package router

import (
	"tilerouter/domain"
	"tilerouter/pkg/profile"
	"tilerouter/pkg/snap"
	"tilerouter/pkg/tile"
)

// routeSegment runs the full snap → virtual-overlay → bidirectional-A* →
// reconstruction pipeline for one consecutive waypoint pair (spec §4.4.3).
func routeSegment(view *tile.View, z, x, y int, p profile.Profile, aLat, aLon, bLat, bLon float64) (segmentOutcome, error) {
	startSnap, ok := snap.ToEdge(view, aLat, aLon)
	if !ok {
		return segmentOutcome{}, domain.WrapErrorf(nil, domain.ErrNoRoute, "tile has no edges to snap to")
	}
	endSnap, ok := snap.ToEdge(view, bLat, bLon)
	if !ok {
		return segmentOutcome{}, domain.WrapErrorf(nil, domain.ErrNoRoute, "tile has no edges to snap to")
	}

	ov := newOverlay(view, startSnap, endSnap)
	sr := biAStar(ov, p)
	if !sr.found {
		return segmentOutcome{}, domain.WrapErrorf(nil, domain.ErrNoRoute, "search found no meeting node")
	}

	hops := reconstructPath(ov, sr)
	outcome := assembleSegment(ov, view, z, x, y, hops)
	return outcome, nil
}
