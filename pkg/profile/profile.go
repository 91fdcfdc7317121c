// Package profile holds the travel-profile settings (spec §3 "Profile
// settings"): which access bit and speed field apply, and the heuristic
// upper-bound speed used by the router's A* search.
package profile

import "tilerouter/pkg/tile"

// Profile selects the travel mode.
type Profile int

const (
	Car Profile = iota
	Foot
)

func (p Profile) String() string {
	if p == Foot {
		return "foot"
	}
	return "car"
}

// AccessBit returns the access_mask bit this profile requires.
func (p Profile) AccessBit() uint8 {
	if p == Foot {
		return tile.AccessFoot
	}
	return tile.AccessCar
}

// UpperBoundSpeed is the heuristic's admissible upper bound on traversal
// speed for this profile (spec §4.4.5).
func (p Profile) UpperBoundSpeed() float64 {
	if p == Foot {
		return 1.4
	}
	return 13.9
}

// Speed returns the profile-applicable speed of an edge record: speed_mps
// for Car, foot_speed_mps for Foot.
func (p Profile) Speed(e tile.EdgeRecord) float64 {
	if p == Foot {
		return float64(e.FootSpeedMps)
	}
	return float64(e.SpeedMps)
}

// carRoadClassSpeed and footRoadClassSpeed are the per-road-class reference
// speed tables behind RoadClassSpeed. Neither the tile builder nor the
// router consults them; the router always reads the stored per-edge speed.
var carRoadClassSpeed = map[tile.RoadClass]float64{
	tile.RoadMotorway:    30,
	tile.RoadPrimary:     25,
	tile.RoadSecondary:   20,
	tile.RoadResidential: 15,
	tile.RoadFootway:     1,
	tile.RoadPath:        1,
	tile.RoadSteps:       1,
}

var footRoadClassSpeed = map[tile.RoadClass]float64{
	tile.RoadResidential: 1.4,
	tile.RoadFootway:     1.4,
	tile.RoadPath:        1.4,
	tile.RoadSteps:       1.0,
}

// RoadClassSpeed returns the reference speed for rc under profile p; a road
// class missing from the profile's table yields 0. It is not used during
// routing.
func RoadClassSpeed(p Profile, rc tile.RoadClass) float64 {
	if p == Foot {
		return footRoadClassSpeed[rc]
	}
	return carRoadClassSpeed[rc]
}
