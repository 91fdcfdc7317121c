// Package geo holds the coordinate math shared by the snapper and the
// router: great-circle distance, point-to-segment projection, and a
// geographic midpoint helper.
package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

// earthRadiusM is the mean Earth radius used to turn s2's angular distances
// into meters, matching the teacher's own radius constant in alg/distance.go.
const earthRadiusM = 6371000.0

// HaversineMeters returns the great-circle distance between two points in
// meters, via golang/geo/s2's angular distance rather than a hand-rolled
// haversine formula.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lon1)
	b := s2.LatLngFromDegrees(lat2, lon2)
	return a.Distance(b).Radians() * earthRadiusM
}

// ProjectToSegment projects (lat, lon) onto the segment AB using Euclidean
// geometry in (lon, lat) space — adequate for short, tile-local segments —
// and clamps the parametric position to [0, 1]. It returns the clamped
// parameter t, the projected point, and the great-circle distance from the
// query point to the projection.
func ProjectToSegment(lat, lon, aLat, aLon, bLat, bLon float64) (t float64, projLat, projLon, dist float64) {
	ax, ay := aLon, aLat
	bx, by := bLon, bLat
	px, py := lon, lat

	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy

	if lenSq == 0 {
		t = 0
		projLat, projLon = aLat, aLon
	} else {
		t = ((px-ax)*dx + (py-ay)*dy) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
		projLon = ax + t*dx
		projLat = ay + t*dy
	}

	dist = HaversineMeters(lat, lon, projLat, projLon)
	return t, projLat, projLon, dist
}

// Midpoint returns the geographic midpoint between two points.
// https://www.movable-type.co.uk/scripts/latlong.html
func Midpoint(lat1, lon1, lat2, lon2 float64) (float64, float64) {
	p1 := degToRad(lat1)
	p2 := degToRad(lat2)
	dLon := degToRad(lon2 - lon1)

	bx := math.Cos(p2) * math.Cos(dLon)
	by := math.Cos(p2) * math.Sin(dLon)

	newLon := degToRad(lon1) + math.Atan2(by, math.Cos(p1)+bx)
	newLat := math.Atan2(math.Sin(p1)+math.Sin(p2), math.Sqrt((math.Cos(p1)+bx)*(math.Cos(p1)+bx)+by*by))

	return radToDeg(newLat), radToDeg(newLon)
}

func degToRad(d float64) float64 { return d * math.Pi / 180.0 }
func radToDeg(r float64) float64 { return 180.0 * r / math.Pi }
