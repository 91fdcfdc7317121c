package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tilerouter/pkg/geo"
)

func TestHaversineMetersKnownDistance(t *testing.T) {
	// Roughly 111.2 km per degree of latitude at the equator.
	d := geo.HaversineMeters(0, 0, 1, 0)
	assert.InDelta(t, 111195.0, d, 500.0)
}

func TestHaversineMetersZeroForSamePoint(t *testing.T) {
	assert.Equal(t, 0.0, geo.HaversineMeters(47.0, 9.0, 47.0, 9.0))
}

func TestProjectToSegmentMidpoint(t *testing.T) {
	tt, projLat, projLon, dist := geo.ProjectToSegment(0.5, 0, 0, 0, 1, 0)
	assert.InDelta(t, 0.5, tt, 1e-9)
	assert.InDelta(t, 0.5, projLat, 1e-9)
	assert.InDelta(t, 0.0, projLon, 1e-9)
	assert.InDelta(t, 0.0, dist, 1e-6)
}

func TestProjectToSegmentClampsBeyondEndpoints(t *testing.T) {
	tt, _, _, _ := geo.ProjectToSegment(5, 0, 0, 0, 1, 0)
	assert.Equal(t, 1.0, tt)

	tt, _, _, _ = geo.ProjectToSegment(-5, 0, 0, 0, 1, 0)
	assert.Equal(t, 0.0, tt)
}

func TestTileForLatLonClampsToValidRange(t *testing.T) {
	x, y := geo.TileForLatLon(89.9, 179.9, 4)
	max := 1<<4 - 1
	assert.LessOrEqual(t, x, max)
	assert.LessOrEqual(t, y, max)
	assert.GreaterOrEqual(t, x, 0)
	assert.GreaterOrEqual(t, y, 0)
}

func TestTileForLatLonSamePointSameTile(t *testing.T) {
	x1, y1 := geo.TileForLatLon(47.0, 9.0, 14)
	x2, y2 := geo.TileForLatLon(47.0001, 9.0001, 14)
	assert.Equal(t, x1, x2)
	assert.Equal(t, y1, y2)
}
