package router

import (
	"container/heap"
	"math"

	"tilerouter/pkg/geo"
	"tilerouter/pkg/profile"
)

// arc is one admissible move discovered while expanding a node, in either
// search direction.
type arc struct {
	to        int
	durationS float64
	isVirtual bool
	edgeIndex int // real edge index, or index into overlay.edges when isVirtual
	forward   bool
}

func admissible(accessMask uint8, oneway bool, speed float64, natural bool, profileBit uint8) bool {
	if accessMask&profileBit == 0 {
		return false
	}
	if oneway && !natural {
		return false
	}
	return speed > 0
}

// incidentArcs enumerates every admissible move touching node u, in the
// given search direction. forward=true means "u can travel to the
// returned node"; forward=false means "the returned node can travel to
// u" (used by the backward frontier, spec §4.4.5).
func incidentArcs(ov *overlay, u int, p profile.Profile, forward bool) []arc {
	bit := p.AccessBit()
	var arcs []arc

	if u < ov.view.NodeCount() {
		v := ov.view
		firstEdge := int(v.FirstEdge(u))
		count := int(v.EdgeCountFrom(u))
		for k := firstEdge; k < firstEdge+count; k++ {
			e := v.EdgeAt(k)
			natural := forward // u == e.FromNode here
			speed := p.Speed(e)
			if admissible(e.AccessMask, e.Oneway, speed, natural, bit) {
				arcs = append(arcs, arc{
					to:        int(e.ToNode),
					durationS: float64(e.LengthM) / speed,
					edgeIndex: k,
					forward:   natural,
				})
			}
		}
		for _, k := range v.InEdgesOf(u) {
			e := v.EdgeAt(int(k))
			natural := !forward // u == e.ToNode here
			speed := p.Speed(e)
			if admissible(e.AccessMask, e.Oneway, speed, natural, bit) {
				arcs = append(arcs, arc{
					to:        int(e.FromNode),
					durationS: float64(e.LengthM) / speed,
					edgeIndex: int(k),
					forward:   natural,
				})
			}
		}
	}

	for _, idx := range ov.byNode[u] {
		e := ov.edges[idx]
		speed := e.speed(p)
		if speed <= 0 {
			continue
		}
		if e.from == u {
			natural := forward
			if admissible(e.accessMask, e.oneway, speed, natural, bit) {
				arcs = append(arcs, arc{to: e.to, durationS: e.lengthM / speed, isVirtual: true, edgeIndex: idx, forward: natural})
			}
		}
		if e.to == u {
			natural := !forward
			if admissible(e.accessMask, e.oneway, speed, natural, bit) {
				arcs = append(arcs, arc{to: e.from, durationS: e.lengthM / speed, isVirtual: true, edgeIndex: idx, forward: natural})
			}
		}
	}

	return arcs
}

// label records how a node was reached by one search frontier. prevNode is
// -1 for the frontier's own start node.
type label struct {
	g        float64
	prevNode int
	via      arc
}

// pqItem is a min-heap entry keyed by f = g + h.
type pqItem struct {
	node int
	f    float64
	g    float64
}

type nodeHeap []pqItem

func (h nodeHeap) Len() int            { return len(h) }
func (h nodeHeap) Less(i, j int) bool   { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int)        { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{})  { *h = append(*h, x.(pqItem)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// searchResult carries the meeting node and both frontiers' labels, ready
// for reconstruction.
type searchResult struct {
	meetingNode int
	found       bool
	fwd, bwd    map[int]*label
}

// biAStar runs the bidirectional A* search described in spec §4.4.5 between
// ov.vStart and ov.vEnd. Two label maps (sized node_count+2 conceptually,
// stored as maps since virtual node ids sit above node_count) track the
// best known g per frontier; stale heap entries are dropped on pop by
// comparing against the current best g for that node (spec §9).
func biAStar(ov *overlay, p profile.Profile) searchResult {
	goalFwd := ov.coord(ov.vEnd)
	goalBwd := ov.coord(ov.vStart)
	upperSpeed := p.UpperBoundSpeed()

	hFwd := func(node int) float64 {
		c := ov.coord(node)
		return geo.HaversineMeters(c.Lat, c.Lon, goalFwd.Lat, goalFwd.Lon) / upperSpeed
	}
	hBwd := func(node int) float64 {
		c := ov.coord(node)
		return geo.HaversineMeters(c.Lat, c.Lon, goalBwd.Lat, goalBwd.Lon) / upperSpeed
	}

	fwdLabels := map[int]*label{ov.vStart: {g: 0, prevNode: -1}}
	bwdLabels := map[int]*label{ov.vEnd: {g: 0, prevNode: -1}}

	fwdHeap := &nodeHeap{{node: ov.vStart, f: hFwd(ov.vStart), g: 0}}
	bwdHeap := &nodeHeap{{node: ov.vEnd, f: hBwd(ov.vEnd), g: 0}}

	estimate := math.Inf(1)
	meetingNode := -1

	type frontierState struct {
		heap    *nodeHeap
		labels  map[int]*label
		other   map[int]*label
		h       func(int) float64
		forward bool
		done    bool
	}
	fwd := &frontierState{heap: fwdHeap, labels: fwdLabels, other: bwdLabels, h: hFwd, forward: true}
	bwd := &frontierState{heap: bwdHeap, labels: bwdLabels, other: fwdLabels, h: hBwd, forward: false}

	cur, otherF := fwd, bwd
	for {
		if cur.heap.Len() == 0 {
			cur.done = true
		}
		if otherF.heap.Len() == 0 {
			otherF.done = true
		}
		if cur.done && otherF.done {
			break
		}

		if !cur.done {
			top := (*cur.heap)[0]
			if top.f >= estimate {
				cur.done = true
			} else {
				item := heap.Pop(cur.heap).(pqItem)
				lbl := cur.labels[item.node]
				if lbl == nil || item.g > lbl.g {
					// stale entry: discard it; the turn still passes to the other frontier below
				} else {
					for _, a := range incidentArcs(ov, item.node, p, cur.forward) {
						newG := item.g + a.durationS
						existing, ok := cur.labels[a.to]
						if !ok || newG < existing.g {
							cur.labels[a.to] = &label{g: newG, prevNode: item.node, via: a}
							heap.Push(cur.heap, pqItem{node: a.to, f: newG + cur.h(a.to), g: newG})
						}
						if otherLbl, ok := cur.other[a.to]; ok {
							mu := newG + otherLbl.g
							if mu < estimate {
								estimate = mu
								meetingNode = a.to
							}
						}
					}
				}
			}
		}

		if cur.done && !otherF.done {
			cur, otherF = otherF, cur
		} else if !cur.done {
			cur, otherF = otherF, cur
		}
	}

	return searchResult{meetingNode: meetingNode, found: meetingNode >= 0, fwd: fwdLabels, bwd: bwdLabels}
}
