package router_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tilerouter/domain"
	"tilerouter/pkg/profile"
	"tilerouter/pkg/router"
	"tilerouter/pkg/tile"
)

// fakeLoader serves one fixed tile, or fails the way a real Loader would.
type fakeLoader struct {
	view *tile.View
	err  error
}

func (f *fakeLoader) Load(z, x, y int) (*tile.View, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.view, nil
}

// threeNodeStraightRoad builds scenario S1: a straight, bidirectional,
// car+foot residential road of 160m split into two 80m segments.
func threeNodeStraightRoad(t *testing.T) *tile.View {
	b := tile.NewBuilder(14, 8803, 5374, tile.AccessCar|tile.AccessFoot)
	n0 := b.AddNode(47.000000, 9.000000)
	n1 := b.AddNode(47.000000, 9.001000)
	n2 := b.AddNode(47.000000, 9.002000)
	b.AddEdge(n0, n1, 80, 13.9, 1.4, false, tile.RoadResidential, tile.AccessCar|tile.AccessFoot, nil)
	b.AddEdge(n1, n2, 80, 13.9, 1.4, false, tile.RoadResidential, tile.AccessCar|tile.AccessFoot, nil)
	v, err := tile.NewView(b.Build())
	assert.NoError(t, err)
	return v
}

func routerOverFixture(v *tile.View) *router.Router {
	loader := &fakeLoader{view: v}
	return router.New(loader, router.Options{TileZoom: 14})
}

func TestRouteStraightRoadSucceeds(t *testing.T) {
	r := routerOverFixture(threeNodeStraightRoad(t))

	result := r.Route(profile.Car, []router.Waypoint{
		{Lat: 47.000000, Lon: 9.000050},
		{Lat: 47.000000, Lon: 9.001950},
	})

	assert.Equal(t, router.StatusOK, result.Status)
	assert.Greater(t, result.DistanceM, 0.0)
	assert.Greater(t, result.DurationS, 0.0)
	assert.NotEmpty(t, result.Polyline)
	assert.NotEmpty(t, result.EdgeIDs)
	assert.NotEmpty(t, result.EncodedPolyline)
}

func TestRouteReverseDirectionSucceedsOnNonOnewayRoad(t *testing.T) {
	r := routerOverFixture(threeNodeStraightRoad(t))

	result := r.Route(profile.Car, []router.Waypoint{
		{Lat: 47.000000, Lon: 9.001950},
		{Lat: 47.000000, Lon: 9.000050},
	})

	assert.Equal(t, router.StatusOK, result.Status)
	assert.Greater(t, result.DistanceM, 0.0)
}

func TestRouteOnewayBlocksReverseTravel(t *testing.T) {
	b := tile.NewBuilder(14, 0, 0, tile.AccessCar)
	n0 := b.AddNode(47.000000, 9.000000)
	n1 := b.AddNode(47.000000, 9.001000)
	b.AddEdge(n0, n1, 80, 13.9, 1.4, true, tile.RoadResidential, tile.AccessCar, nil)
	v, err := tile.NewView(b.Build())
	assert.NoError(t, err)

	r := routerOverFixture(v)
	result := r.Route(profile.Car, []router.Waypoint{
		{Lat: 47.000000, Lon: 9.000950},
		{Lat: 47.000000, Lon: 9.000050},
	})

	assert.Equal(t, router.StatusNoRoute, result.Status)
}

func TestRouteFootProfileCannotUseMotorwayOnlyEdge(t *testing.T) {
	b := tile.NewBuilder(14, 0, 0, tile.AccessCar)
	n0 := b.AddNode(47.000000, 9.000000)
	n1 := b.AddNode(47.000000, 9.001000)
	b.AddEdge(n0, n1, 80, 30, 0, false, tile.RoadMotorway, tile.AccessCar, nil)
	v, err := tile.NewView(b.Build())
	assert.NoError(t, err)

	r := routerOverFixture(v)
	result := r.Route(profile.Foot, []router.Waypoint{
		{Lat: 47.000000, Lon: 9.000050},
		{Lat: 47.000000, Lon: 9.000950},
	})

	assert.Equal(t, router.StatusNoRoute, result.Status)
}

func TestRouteMultiWaypointStitchesSegments(t *testing.T) {
	r := routerOverFixture(threeNodeStraightRoad(t))

	result := r.Route(profile.Car, []router.Waypoint{
		{Lat: 47.000000, Lon: 9.000050},
		{Lat: 47.000000, Lon: 9.001000},
		{Lat: 47.000000, Lon: 9.001950},
	})

	assert.Equal(t, router.StatusOK, result.Status)
	// Consecutive duplicate points at the stitch boundary are elided.
	for i := 1; i < len(result.Polyline); i++ {
		assert.NotEqual(t, result.Polyline[i-1], result.Polyline[i])
	}
}

func TestRouteCrossTileWaypointsIsNoRoute(t *testing.T) {
	r := routerOverFixture(threeNodeStraightRoad(t))

	result := r.Route(profile.Car, []router.Waypoint{
		{Lat: 47.000000, Lon: 9.000050},
		{Lat: 10.000000, Lon: 80.000000},
	})

	assert.Equal(t, router.StatusNoRoute, result.Status)
}

func TestRouteMissingTileIsNoTile(t *testing.T) {
	loader := &fakeLoader{err: domain.WrapErrorf(nil, domain.ErrNoTile, "tile not found")}
	r := router.New(loader, router.Options{TileZoom: 14})

	result := r.Route(profile.Car, []router.Waypoint{
		{Lat: 47.0, Lon: 9.0},
		{Lat: 47.0, Lon: 9.001},
	})

	assert.Equal(t, router.StatusNoTile, result.Status)
}

func TestRouteRequiresAtLeastTwoWaypoints(t *testing.T) {
	r := routerOverFixture(threeNodeStraightRoad(t))

	result := r.Route(profile.Car, []router.Waypoint{{Lat: 47.0, Lon: 9.0}})
	assert.Equal(t, router.StatusInternalError, result.Status)
}

func TestRouteEmptyTileIsNoRoute(t *testing.T) {
	b := tile.NewBuilder(14, 0, 0, tile.AccessCar)
	v, err := tile.NewView(b.Build())
	assert.NoError(t, err)

	r := routerOverFixture(v)
	result := r.Route(profile.Car, []router.Waypoint{
		{Lat: 47.0, Lon: 9.0},
		{Lat: 47.0, Lon: 9.001},
	})
	assert.Equal(t, router.StatusNoRoute, result.Status)
}
