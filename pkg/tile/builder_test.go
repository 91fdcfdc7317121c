package tile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tilerouter/pkg/tile"
)

func threeNodeFixture() *tile.Builder {
	b := tile.NewBuilder(14, 100, 200, tile.AccessCar|tile.AccessFoot)
	n0 := b.AddNode(47.000000, 9.000000)
	n1 := b.AddNode(47.000000, 9.001000)
	n2 := b.AddNode(47.000000, 9.002000)
	b.AddEdge(n0, n1, 80, 13.9, 1.4, false, tile.RoadResidential, tile.AccessCar|tile.AccessFoot, nil)
	b.AddEdge(n1, n2, 80, 13.9, 1.4, false, tile.RoadResidential, tile.AccessCar|tile.AccessFoot, nil)
	return b
}

func TestBuilderRoundTrip(t *testing.T) {
	t.Run("decodes what was built", func(t *testing.T) {
		v, err := tile.NewView(threeNodeFixture().Build())
		assert.NoError(t, err)
		assert.Equal(t, 3, v.NodeCount())
		assert.Equal(t, 2, v.EdgeCount())
		assert.Equal(t, 14, v.Zoom())
		assert.Equal(t, 100, v.X())
		assert.Equal(t, 200, v.Y())
		assert.Equal(t, 47.0, v.NodeLat(1))
		assert.Equal(t, 9.002, v.NodeLon(2))
	})
}

func TestBuilderSortsEdgesContiguouslyByFromNode(t *testing.T) {
	b := tile.NewBuilder(14, 0, 0, tile.AccessCar)
	n0 := b.AddNode(0, 0)
	n1 := b.AddNode(0, 1)
	n2 := b.AddNode(0, 2)
	// Added out of from-node order on purpose.
	b.AddEdge(n1, n2, 10, 10, 1, false, tile.RoadResidential, tile.AccessCar, nil)
	b.AddEdge(n0, n1, 10, 10, 1, false, tile.RoadResidential, tile.AccessCar, nil)
	b.AddEdge(n0, n2, 10, 10, 1, false, tile.RoadResidential, tile.AccessCar, nil)

	v, err := tile.NewView(b.Build())
	assert.NoError(t, err)
	assert.EqualValues(t, 2, v.EdgeCountFrom(0))

	first := int(v.FirstEdge(0))
	for k := first; k < first+2; k++ {
		assert.EqualValues(t, n0, v.EdgeAt(k).FromNode)
	}
}

func TestAppendEdgeShapeWithIntermediatePoints(t *testing.T) {
	b := tile.NewBuilder(14, 0, 0, tile.AccessCar)
	n0 := b.AddNode(0, 0)
	n1 := b.AddNode(0, 2)
	b.AddEdge(n0, n1, 200, 10, 1, false, tile.RoadResidential, tile.AccessCar, []tile.LatLon{{Lat: 0, Lon: 1}})

	v, err := tile.NewView(b.Build())
	assert.NoError(t, err)

	pts := v.AppendEdgeShape(0, nil, false)
	assert.Len(t, pts, 3)
	assert.Equal(t, 1.0, pts[1].Lon)

	skipped := v.AppendEdgeShape(0, nil, true)
	assert.Len(t, skipped, 2)
}

func TestNewViewRejectsOutOfRangeNode(t *testing.T) {
	b := tile.NewBuilder(14, 0, 0, tile.AccessCar)
	n0 := b.AddNode(0, 0)
	b.AddEdge(n0, 99, 10, 10, 1, false, tile.RoadResidential, tile.AccessCar, nil)

	_, err := tile.NewView(b.Build())
	assert.Error(t, err)
}

func TestNewViewRejectsBadMagic(t *testing.T) {
	raw := threeNodeFixture().Build().Bytes()
	corrupt := make([]byte, len(raw))
	copy(corrupt, raw)
	corrupt[0] ^= 0xff

	_, err := tile.NewView(tile.NewBuffer(corrupt))
	assert.Error(t, err)
}

func TestInEdgesOf(t *testing.T) {
	v, err := tile.NewView(threeNodeFixture().Build())
	assert.NoError(t, err)

	in1 := v.InEdgesOf(1)
	assert.Len(t, in1, 1)
	assert.EqualValues(t, 0, v.EdgeAt(int(in1[0])).FromNode)
	assert.Empty(t, v.InEdgesOf(0))
}
