package router

import (
	"tilerouter/pkg/profile"
	"tilerouter/pkg/snap"
	"tilerouter/pkg/tile"
)

// virtualEdge is a synthetic edge created by splitting a real edge at a
// snap's parametric position t (spec §4.4.3). Two exist per endpoint snap,
// plus one joining the two virtual nodes when both snaps fall on the same
// real edge, and they live only as per-query scratch state layered over the
// tile's real adjacency (spec §9).
type virtualEdge struct {
	from, to   int
	lengthM    float64
	speedCar   float64
	speedFoot  float64
	oneway     bool
	accessMask uint8
	realEdge   int // index of the real edge this splits
}

func (e virtualEdge) speed(p profile.Profile) float64 {
	if p == profile.Foot {
		return e.speedFoot
	}
	return e.speedCar
}

// overlay holds the per-query virtual graph layered on top of one tile's
// real nodes and edges.
type overlay struct {
	view *tile.View

	vStart, vEnd           int
	vStartCoord, vEndCoord tile.LatLon

	edges  []virtualEdge
	byNode map[int][]int // real/virtual node id -> indices into edges, for either endpoint
}

func newOverlay(view *tile.View, startSnap, endSnap snap.EdgeSnap) *overlay {
	o := &overlay{
		view:        view,
		vStart:      view.NodeCount(),
		vEnd:        view.NodeCount() + 1,
		vStartCoord: tile.LatLon{Lat: startSnap.ProjLat, Lon: startSnap.ProjLon},
		vEndCoord:   tile.LatLon{Lat: endSnap.ProjLat, Lon: endSnap.ProjLon},
		byNode:      make(map[int][]int, 4),
	}
	o.addSplit(startSnap, o.vStart)
	o.addSplit(endSnap, o.vEnd)
	// Both snaps on one real edge: join the virtual nodes directly, in the
	// edge's stored direction, so the search needs no detour via an endpoint.
	if startSnap.EdgeIndex == endSnap.EdgeIndex {
		e := view.EdgeAt(startSnap.EdgeIndex)
		from, to, dt := o.vStart, o.vEnd, endSnap.T-startSnap.T
		if dt < 0 {
			from, to, dt = o.vEnd, o.vStart, -dt
		}
		o.addEdge(virtualEdge{
			from: from, to: to,
			lengthM: dt * float64(e.LengthM),
			speedCar: float64(e.SpeedMps), speedFoot: float64(e.FootSpeedMps),
			oneway: e.Oneway, accessMask: e.AccessMask, realEdge: startSnap.EdgeIndex,
		})
	}
	return o
}

func (o *overlay) addSplit(s snap.EdgeSnap, v int) {
	e := o.view.EdgeAt(s.EdgeIndex)
	t := s.T

	o.addEdge(virtualEdge{
		from: int(e.FromNode), to: v,
		lengthM: t * float64(e.LengthM),
		speedCar: float64(e.SpeedMps), speedFoot: float64(e.FootSpeedMps),
		oneway: e.Oneway, accessMask: e.AccessMask, realEdge: s.EdgeIndex,
	})
	o.addEdge(virtualEdge{
		from: v, to: int(e.ToNode),
		lengthM: (1 - t) * float64(e.LengthM),
		speedCar: float64(e.SpeedMps), speedFoot: float64(e.FootSpeedMps),
		oneway: e.Oneway, accessMask: e.AccessMask, realEdge: s.EdgeIndex,
	})
}

func (o *overlay) addEdge(e virtualEdge) {
	idx := len(o.edges)
	o.edges = append(o.edges, e)
	o.byNode[e.from] = append(o.byNode[e.from], idx)
	o.byNode[e.to] = append(o.byNode[e.to], idx)
}

func (o *overlay) coord(node int) tile.LatLon {
	switch node {
	case o.vStart:
		return o.vStartCoord
	case o.vEnd:
		return o.vEndCoord
	default:
		return tile.LatLon{Lat: o.view.NodeLat(node), Lon: o.view.NodeLon(node)}
	}
}

// isVirtual reports whether node is one of the two synthetic endpoints.
func (o *overlay) isVirtual(node int) bool {
	return node == o.vStart || node == o.vEnd
}
