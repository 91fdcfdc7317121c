package router

import (
	"github.com/twpayne/go-polyline"

	"tilerouter/pkg/edgeid"
	"tilerouter/pkg/geo"
	"tilerouter/pkg/tile"
)

type hop struct {
	from, to int
	a        arc
}

// reconstructPath walks both predecessor chains from the meeting node —
// forward back to vStart, backward forward to vEnd — and concatenates them
// into the ordered sequence of traversals spec §4.4.6 describes.
func reconstructPath(ov *overlay, sr searchResult) []hop {
	var fwdHops []hop
	node := sr.meetingNode
	for node != ov.vStart {
		lbl := sr.fwd[node]
		fwdHops = append(fwdHops, hop{from: lbl.prevNode, to: node, a: lbl.via})
		node = lbl.prevNode
	}
	for i, j := 0, len(fwdHops)-1; i < j; i, j = i+1, j-1 {
		fwdHops[i], fwdHops[j] = fwdHops[j], fwdHops[i]
	}

	var bwdHops []hop
	node = sr.meetingNode
	for node != ov.vEnd {
		lbl := sr.bwd[node]
		bwdHops = append(bwdHops, hop{from: node, to: lbl.prevNode, a: lbl.via})
		node = lbl.prevNode
	}

	return append(fwdHops, bwdHops...)
}

const coordEps = 1e-9

func sameLatLon(a, b tile.LatLon) bool {
	return a.Lat-b.Lat < coordEps && a.Lat-b.Lat > -coordEps &&
		a.Lon-b.Lon < coordEps && a.Lon-b.Lon > -coordEps
}

func appendDedup(out []tile.LatLon, pts ...tile.LatLon) []tile.LatLon {
	for _, p := range pts {
		if len(out) > 0 && sameLatLon(out[len(out)-1], p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// segmentOutcome is the result of routing a single waypoint pair.
type segmentOutcome struct {
	polyline  []tile.LatLon
	durationS float64
	edgeIDs   []uint64
}

func assembleSegment(ov *overlay, view *tile.View, z, x, y int, hops []hop) segmentOutcome {
	var out segmentOutcome

	shapeBuf := make([]tile.LatLon, 0, 8)
	for _, h := range hops {
		out.durationS += h.a.durationS

		if h.a.isVirtual {
			ve := ov.edges[h.a.edgeIndex]
			out.polyline = appendDedup(out.polyline, ov.coord(h.from), ov.coord(h.to))
			out.edgeIDs = append(out.edgeIDs, edgeid.Encode(z, x, y, ve.realEdge))
			continue
		}

		shapeBuf = view.AppendEdgeShape(h.a.edgeIndex, shapeBuf[:0], false)
		if !h.a.forward {
			for i, j := 0, len(shapeBuf)-1; i < j; i, j = i+1, j-1 {
				shapeBuf[i], shapeBuf[j] = shapeBuf[j], shapeBuf[i]
			}
		}
		out.polyline = appendDedup(out.polyline, shapeBuf...)
		out.edgeIDs = append(out.edgeIDs, edgeid.Encode(z, x, y, h.a.edgeIndex))
	}

	out.edgeIDs = collapseConsecutiveDup(out.edgeIDs)
	return out
}

func collapseConsecutiveDup(ids []uint64) []uint64 {
	if len(ids) == 0 {
		return ids
	}
	out := ids[:1]
	for _, id := range ids[1:] {
		if id == out[len(out)-1] {
			continue
		}
		out = append(out, id)
	}
	return out
}

// polylineDistance sums the great-circle distance between adjacent points.
func polylineDistance(pts []tile.LatLon) float64 {
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += geo.HaversineMeters(pts[i-1].Lat, pts[i-1].Lon, pts[i].Lat, pts[i].Lon)
	}
	return total
}

// encodePolyline renders pts as a Google-style encoded polyline string.
func encodePolyline(pts []tile.LatLon) string {
	coords := make([][]float64, 0, len(pts))
	for _, p := range pts {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}
