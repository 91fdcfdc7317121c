// Package snap projects a free-form geographic point onto the nearest edge
// segment within a tile (spec §4.3).
package snap

import (
	"tilerouter/pkg/geo"
	"tilerouter/pkg/tile"
)

// EdgeSnap is the result of a successful snap. T is the parametric
// position of the projection along the *whole* edge (from_node=0 to
// to_node=1), not just the winning shape segment — this is what the router
// needs to scale a split edge's length/duration (spec §4.4.3).
type EdgeSnap struct {
	EdgeIndex  int
	SegIndex   int
	T          float64
	ProjLat    float64
	ProjLon    float64
	DistMeters float64
}

// ToEdge runs the brute-force nearest-segment search described in spec
// §4.3: every edge's materialized shape is scanned segment by segment, the
// query point is projected onto each using planar geometry in (lon, lat)
// space, and the minimum great-circle distance wins. Ties are broken by
// iteration order — the first edge/segment encountered keeps the lead.
//
// Returns false if the view has no edges.
func ToEdge(v *tile.View, lat, lon float64) (EdgeSnap, bool) {
	best := EdgeSnap{DistMeters: -1}
	found := false

	shape := make([]tile.LatLon, 0, 8)
	for k := 0; k < v.EdgeCount(); k++ {
		shape = v.AppendEdgeShape(k, shape[:0], false)

		segLen := make([]float64, len(shape)-1)
		total := 0.0
		for s := 0; s+1 < len(shape); s++ {
			segLen[s] = geo.HaversineMeters(shape[s].Lat, shape[s].Lon, shape[s+1].Lat, shape[s+1].Lon)
			total += segLen[s]
		}

		cum := 0.0
		for s := 0; s+1 < len(shape); s++ {
			a := shape[s]
			b := shape[s+1]
			t, projLat, projLon, dist := geo.ProjectToSegment(lat, lon, a.Lat, a.Lon, b.Lat, b.Lon)

			if !found || dist < best.DistMeters {
				found = true
				overallT := t
				if total > 0 {
					overallT = (cum + t*segLen[s]) / total
				}
				best = EdgeSnap{
					EdgeIndex:  k,
					SegIndex:   s,
					T:          overallT,
					ProjLat:    projLat,
					ProjLon:    projLon,
					DistMeters: dist,
				}
			}
			cum += segLen[s]
		}
	}

	return best, found
}
