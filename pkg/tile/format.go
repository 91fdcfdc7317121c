// Package tile implements the zero-copy binary tile format described in
// spec §3/§6: a self-contained little-endian record holding a header and
// three fixed-stride arrays (nodes, edges, shape points), addressed by byte
// offset so that reading a field never requires copying or parsing beyond a
// single encoding/binary access at a known position.
//
// encoding/binary against a documented fixed layout is used instead of a
// schema library (FlatBuffers in original_source, or a reflection-based Go
// codec) because the wire format is an external, versioned contract shared
// with a separate tile-builder process (spec §6): the field order, widths,
// and endianness must be exact and stable across languages, which a
// reflection-driven encoder does not guarantee.
package tile

import (
	"encoding/binary"
	"math"
)

// RoadClass is the small enumerated road classification carried per edge.
type RoadClass uint8

const (
	RoadMotorway RoadClass = iota
	RoadPrimary
	RoadSecondary
	RoadResidential
	RoadFootway
	RoadPath
	RoadSteps
)

// Access mask bits (spec §3: "bit 0 = cars, bit 1 = foot").
const (
	AccessCar  uint8 = 1 << 0
	AccessFoot uint8 = 1 << 1
)

var magic = [4]byte{'R', 'T', 'L', '1'}

const formatVersion uint16 = 1

// Header field byte offsets.
const (
	offMagic        = 0
	offVersion      = 4
	offZoom         = 6
	offX            = 8
	offY            = 12
	offProfileMask  = 16
	offChecksum     = 20
	offNodeCount    = 24
	offEdgeCount    = 28
	offShapeCount   = 32
	offNodesOffset  = 36
	offEdgesOffset  = 40
	offShapesOffset = 44

	HeaderSize = 48
)

// Node record layout: lat_q, lon_q int32; first_edge uint32; edge_count
// uint16; 2 bytes of padding to keep the stride 4-byte aligned.
const (
	nodeStride        = 16
	nodeOffLatQ       = 0
	nodeOffLonQ       = 4
	nodeOffFirstEdge  = 8
	nodeOffEdgeCount  = 12
)

// Edge record layout.
const (
	edgeStride           = 32
	edgeOffFromNode      = 0
	edgeOffToNode        = 4
	edgeOffLengthM       = 8
	edgeOffSpeedMps      = 12
	edgeOffFootSpeedMps  = 16
	edgeOffOneway        = 20
	edgeOffRoadClass     = 21
	edgeOffAccessMask    = 22
	edgeOffShapeOffset   = 24
	edgeOffShapeCount    = 28
)

// Shape point layout: lat_q, lon_q int32.
const shapePointStride = 8

func putU16(b []byte, off int, v uint16) { binary.LittleEndian.PutUint16(b[off:], v) }
func putU32(b []byte, off int, v uint32) { binary.LittleEndian.PutUint32(b[off:], v) }
func putI32(b []byte, off int, v int32)  { binary.LittleEndian.PutUint32(b[off:], uint32(v)) }
func putF32(b []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(v))
}

func getU16(b []byte, off int) uint16  { return binary.LittleEndian.Uint16(b[off:]) }
func getU32(b []byte, off int) uint32  { return binary.LittleEndian.Uint32(b[off:]) }
func getI32(b []byte, off int) int32   { return int32(binary.LittleEndian.Uint32(b[off:])) }
func getF32(b []byte, off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b[off:])) }
