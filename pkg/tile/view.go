package tile

import (
	"fmt"
	"hash/crc32"

	"tilerouter/domain"
)

// Buffer is a shared, immutable byte buffer holding one tile. It is safe to
// share by reference across any number of Views and in-flight routes; it is
// never mutated after construction.
type Buffer struct {
	bytes []byte
}

// NewBuffer wraps a raw tile blob (already decompressed, if applicable) in
// a shared immutable buffer.
func NewBuffer(b []byte) *Buffer { return &Buffer{bytes: b} }

// Bytes exposes the raw blob for callers that need to re-persist it.
func (b *Buffer) Bytes() []byte { return b.bytes }

// View is a zero-copy accessor over a tile Buffer. It validates the header
// on construction and builds the one piece of mutable derived state the
// spec allows: the per-node incoming-edge index (spec §3 "Derived index").
type View struct {
	buf *Buffer

	z, x, y     int
	profileMask uint8

	nodeCount int
	edgeCount int
	shapeCnt  int

	nodesOff  int
	edgesOff  int
	shapesOff int

	// inEdges[i] lists indices of edges with to_node == i, partitioned by
	// node via inEdgesBegin/inEdgesEnd (spec §9 "contiguous integer array
	// partitioned by node").
	inEdgesFlat  []uint32
	inEdgesBegin []uint32
	inEdgesEnd   []uint32
}

// NewView validates the header of buf and constructs the incoming-adjacency
// index. It fails with a domain.ErrDataError-coded error if the header's
// magic, version, or checksum do not match.
func NewView(buf *Buffer) (*View, error) {
	b := buf.bytes
	if len(b) < HeaderSize {
		return nil, domain.WrapErrorf(nil, domain.ErrDataError, "tile buffer shorter than header (%d bytes)", len(b))
	}
	for i := 0; i < 4; i++ {
		if b[offMagic+i] != magic[i] {
			return nil, domain.WrapErrorf(nil, domain.ErrDataError, "bad tile magic")
		}
	}
	if v := getU16(b, offVersion); v != formatVersion {
		return nil, domain.WrapErrorf(nil, domain.ErrDataError, "unsupported tile version %d", v)
	}

	v := &View{
		buf:         buf,
		z:           int(getU16(b, offZoom)),
		x:           int(getU32(b, offX)),
		y:           int(getU32(b, offY)),
		profileMask: b[offProfileMask],
		nodeCount:   int(getU32(b, offNodeCount)),
		edgeCount:   int(getU32(b, offEdgeCount)),
		shapeCnt:    int(getU32(b, offShapeCount)),
		nodesOff:    int(getU32(b, offNodesOffset)),
		edgesOff:    int(getU32(b, offEdgesOffset)),
		shapesOff:   int(getU32(b, offShapesOffset)),
	}

	end := v.shapesOff + v.shapeCnt*shapePointStride
	if end > len(b) || v.nodesOff+v.nodeCount*nodeStride > len(b) || v.edgesOff+v.edgeCount*edgeStride > len(b) {
		return nil, domain.WrapErrorf(nil, domain.ErrDataError, "tile record arrays overrun buffer")
	}

	if want := getU32(b, offChecksum); want != 0 {
		got := crc32.ChecksumIEEE(b[v.nodesOff:end])
		if got != want {
			return nil, domain.WrapErrorf(nil, domain.ErrDataError, "tile checksum mismatch: got %08x want %08x", got, want)
		}
	}

	if err := v.validateTopology(); err != nil {
		return nil, err
	}
	v.buildIncomingIndex()
	return v, nil
}

func (v *View) validateTopology() error {
	for k := 0; k < v.edgeCount; k++ {
		e := v.EdgeAt(k)
		if int(e.FromNode) >= v.nodeCount || int(e.ToNode) >= v.nodeCount {
			return domain.WrapErrorf(nil, domain.ErrDataError, "edge %d references out-of-range node", k)
		}
	}
	return nil
}

func (v *View) buildIncomingIndex() {
	counts := make([]uint32, v.nodeCount+1)
	for k := 0; k < v.edgeCount; k++ {
		counts[v.EdgeAt(k).ToNode+1]++
	}
	for i := 1; i <= v.nodeCount; i++ {
		counts[i] += counts[i-1]
	}
	v.inEdgesBegin = make([]uint32, v.nodeCount)
	v.inEdgesEnd = make([]uint32, v.nodeCount)
	copy(v.inEdgesBegin, counts[:v.nodeCount])

	flat := make([]uint32, v.edgeCount)
	cursor := make([]uint32, v.nodeCount)
	copy(cursor, counts[:v.nodeCount])
	for k := 0; k < v.edgeCount; k++ {
		to := v.EdgeAt(k).ToNode
		flat[cursor[to]] = uint32(k)
		cursor[to]++
	}
	copy(v.inEdgesEnd, cursor)
	v.inEdgesFlat = flat
}

func (v *View) NodeCount() int { return v.nodeCount }
func (v *View) EdgeCount() int { return v.edgeCount }
func (v *View) Zoom() int      { return v.z }
func (v *View) X() int         { return v.x }
func (v *View) Y() int         { return v.y }
func (v *View) ProfileMask() uint8 { return v.profileMask }

func (v *View) nodeRec(i int) []byte {
	off := v.nodesOff + i*nodeStride
	return v.buf.bytes[off : off+nodeStride]
}

func (v *View) NodeLat(i int) float64 { return float64(getI32(v.nodeRec(i), nodeOffLatQ)) / 1e6 }
func (v *View) NodeLon(i int) float64 { return float64(getI32(v.nodeRec(i), nodeOffLonQ)) / 1e6 }
func (v *View) FirstEdge(i int) uint32 { return getU32(v.nodeRec(i), nodeOffFirstEdge) }
func (v *View) EdgeCountFrom(i int) uint16 { return getU16(v.nodeRec(i), nodeOffEdgeCount) }

// EdgeRecord is a decoded view of a single edge; its fields are copies, but
// decoding them costs only a handful of fixed-offset reads against the
// shared buffer — no allocation beyond the struct itself.
type EdgeRecord struct {
	FromNode, ToNode         uint32
	LengthM                  float32
	SpeedMps, FootSpeedMps   float32
	Oneway                   bool
	RoadClass                RoadClass
	AccessMask               uint8
	ShapeOffset, ShapeCount  uint32
}

func (v *View) edgeRec(k int) []byte {
	off := v.edgesOff + k*edgeStride
	return v.buf.bytes[off : off+edgeStride]
}

// EdgeAt decodes edge k. Callers must respect EdgeCount(); behavior for an
// out-of-range index is undefined, per spec §4.2.
func (v *View) EdgeAt(k int) EdgeRecord {
	r := v.edgeRec(k)
	return EdgeRecord{
		FromNode:     getU32(r, edgeOffFromNode),
		ToNode:       getU32(r, edgeOffToNode),
		LengthM:      getF32(r, edgeOffLengthM),
		SpeedMps:     getF32(r, edgeOffSpeedMps),
		FootSpeedMps: getF32(r, edgeOffFootSpeedMps),
		Oneway:       r[edgeOffOneway] != 0,
		RoadClass:    RoadClass(r[edgeOffRoadClass]),
		AccessMask:   r[edgeOffAccessMask],
		ShapeOffset:  getU32(r, edgeOffShapeOffset),
		ShapeCount:   getU32(r, edgeOffShapeCount),
	}
}

// InEdgesOf returns the indices of edges with to_node == i.
func (v *View) InEdgesOf(i int) []uint32 {
	return v.inEdgesFlat[v.inEdgesBegin[i]:v.inEdgesEnd[i]]
}

func (v *View) shapePoint(idx uint32) (lat, lon float64) {
	off := v.shapesOff + int(idx)*shapePointStride
	b := v.buf.bytes[off : off+shapePointStride]
	return float64(getI32(b, 0)) / 1e6, float64(getI32(b, 4)) / 1e6
}

// LatLon is a decimal-degree coordinate pair.
type LatLon struct {
	Lat, Lon float64
}

// AppendEdgeShape appends the ordered shape of edge k — from_node, through
// any shape points, to to_node — to out. If skipFirst is true the first
// point (from_node's coordinate) is omitted, used when splicing consecutive
// edges whose shared endpoint would otherwise be duplicated (spec §4.2).
func (v *View) AppendEdgeShape(k int, out []LatLon, skipFirst bool) []LatLon {
	e := v.EdgeAt(k)
	if !skipFirst {
		out = append(out, LatLon{v.NodeLat(int(e.FromNode)), v.NodeLon(int(e.FromNode))})
	}
	for i := uint32(0); i < e.ShapeCount; i++ {
		lat, lon := v.shapePoint(e.ShapeOffset + i)
		out = append(out, LatLon{lat, lon})
	}
	out = append(out, LatLon{v.NodeLat(int(e.ToNode)), v.NodeLon(int(e.ToNode))})
	return out
}

func (v *View) String() string {
	return fmt.Sprintf("tile(z=%d,x=%d,y=%d nodes=%d edges=%d)", v.z, v.x, v.y, v.nodeCount, v.edgeCount)
}
