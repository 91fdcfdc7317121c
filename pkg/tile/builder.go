package tile

import (
	"hash/crc32"
	"sort"
)

// Builder assembles a well-formed tile buffer in memory. It exists for
// tests and the reference fixture-generating CLI — it is not the OSM-based
// tile builder described in spec §1, which remains an external collaborator.
type Builder struct {
	z, x, y     int
	profileMask uint8

	nodes []builderNode
	edges []builderEdge
}

type builderNode struct {
	lat, lon float64
}

type builderEdge struct {
	from, to               int
	lengthM                float32
	speedMps, footSpeedMps float32
	oneway                 bool
	roadClass              RoadClass
	accessMask             uint8
	shape                  []LatLon
}

// NewBuilder starts a tile under construction at the given key.
func NewBuilder(z, x, y int, profileMask uint8) *Builder {
	return &Builder{z: z, x: x, y: y, profileMask: profileMask}
}

// AddNode appends a node and returns its index.
func (b *Builder) AddNode(lat, lon float64) int {
	b.nodes = append(b.nodes, builderNode{lat, lon})
	return len(b.nodes) - 1
}

// AddEdge appends an edge from `from` to `to`. shape holds only the
// intermediate points (not the endpoints, which are implicit in from/to).
func (b *Builder) AddEdge(from, to int, lengthM, speedMps, footSpeedMps float32, oneway bool, roadClass RoadClass, accessMask uint8, shape []LatLon) int {
	b.edges = append(b.edges, builderEdge{
		from: from, to: to,
		lengthM: lengthM, speedMps: speedMps, footSpeedMps: footSpeedMps,
		oneway: oneway, roadClass: roadClass, accessMask: accessMask,
		shape: shape,
	})
	return len(b.edges) - 1
}

// Build encodes the accumulated nodes and edges into a tile buffer,
// reordering edges so that every node's outgoing edges occupy a contiguous
// run (spec §3's invariant on first_edge/edge_count), and stamps a CRC32
// checksum over the record arrays.
func (b *Builder) Build() *Buffer {
	order := make([]int, len(b.edges))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return b.edges[order[i]].from < b.edges[order[j]].from
	})

	firstEdge := make([]uint32, len(b.nodes))
	edgeCount := make([]uint16, len(b.nodes))
	for pos, origIdx := range order {
		from := b.edges[origIdx].from
		if edgeCount[from] == 0 {
			firstEdge[from] = uint32(pos)
		}
		edgeCount[from]++
	}

	shapeOffsets := make([]uint32, len(order))
	totalShapePoints := uint32(0)
	for pos, origIdx := range order {
		shapeOffsets[pos] = totalShapePoints
		totalShapePoints += uint32(len(b.edges[origIdx].shape))
	}

	nodesOff := HeaderSize
	edgesOff := nodesOff + len(b.nodes)*nodeStride
	shapesOff := edgesOff + len(order)*edgeStride
	total := shapesOff + int(totalShapePoints)*shapePointStride

	buf := make([]byte, total)

	copy(buf[offMagic:], magic[:])
	putU16(buf, offVersion, formatVersion)
	putU16(buf, offZoom, uint16(b.z))
	putU32(buf, offX, uint32(b.x))
	putU32(buf, offY, uint32(b.y))
	buf[offProfileMask] = b.profileMask
	putU32(buf, offNodeCount, uint32(len(b.nodes)))
	putU32(buf, offEdgeCount, uint32(len(order)))
	putU32(buf, offShapeCount, totalShapePoints)
	putU32(buf, offNodesOffset, uint32(nodesOff))
	putU32(buf, offEdgesOffset, uint32(edgesOff))
	putU32(buf, offShapesOffset, uint32(shapesOff))

	for i, n := range b.nodes {
		off := nodesOff + i*nodeStride
		rec := buf[off : off+nodeStride]
		putI32(rec, nodeOffLatQ, int32(n.lat*1e6))
		putI32(rec, nodeOffLonQ, int32(n.lon*1e6))
		putU32(rec, nodeOffFirstEdge, firstEdge[i])
		putU16(rec, nodeOffEdgeCount, edgeCount[i])
	}

	shapeCursor := 0
	for pos, origIdx := range order {
		e := b.edges[origIdx]
		off := edgesOff + pos*edgeStride
		rec := buf[off : off+edgeStride]
		putU32(rec, edgeOffFromNode, uint32(e.from))
		putU32(rec, edgeOffToNode, uint32(e.to))
		putF32(rec, edgeOffLengthM, e.lengthM)
		putF32(rec, edgeOffSpeedMps, e.speedMps)
		putF32(rec, edgeOffFootSpeedMps, e.footSpeedMps)
		if e.oneway {
			rec[edgeOffOneway] = 1
		}
		rec[edgeOffRoadClass] = byte(e.roadClass)
		rec[edgeOffAccessMask] = e.accessMask
		putU32(rec, edgeOffShapeOffset, shapeOffsets[pos])
		putU32(rec, edgeOffShapeCount, uint32(len(e.shape)))

		for _, p := range e.shape {
			soff := shapesOff + shapeCursor*shapePointStride
			putI32(buf[soff:], 0, int32(p.Lat*1e6))
			putI32(buf[soff:], 4, int32(p.Lon*1e6))
			shapeCursor++
		}
	}

	putU32(buf, offChecksum, crc32.ChecksumIEEE(buf[nodesOff:total]))

	return NewBuffer(buf)
}
