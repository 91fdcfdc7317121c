package profile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tilerouter/pkg/profile"
	"tilerouter/pkg/tile"
)

func TestAccessBit(t *testing.T) {
	assert.Equal(t, tile.AccessCar, profile.Car.AccessBit())
	assert.Equal(t, tile.AccessFoot, profile.Foot.AccessBit())
}

func TestSpeedPicksProfileField(t *testing.T) {
	e := tile.EdgeRecord{SpeedMps: 13.9, FootSpeedMps: 1.4}
	// Speeds are stored as float32, so the widened value is float32(13.9).
	assert.Equal(t, float64(float32(13.9)), profile.Car.Speed(e))
	assert.InDelta(t, 1.4, profile.Foot.Speed(e), 1e-6)
}

func TestRoadClassSpeedTable(t *testing.T) {
	assert.Equal(t, 30.0, profile.RoadClassSpeed(profile.Car, tile.RoadMotorway))
	assert.Equal(t, 15.0, profile.RoadClassSpeed(profile.Car, tile.RoadResidential))
	assert.Equal(t, 0.0, profile.RoadClassSpeed(profile.Foot, tile.RoadMotorway))
	assert.Equal(t, 1.4, profile.RoadClassSpeed(profile.Foot, tile.RoadResidential))
}

func TestString(t *testing.T) {
	assert.Equal(t, "car", profile.Car.String())
	assert.Equal(t, "foot", profile.Foot.String())
}
