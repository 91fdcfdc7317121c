package geo

import "math"

// TileForLatLon returns the Web-Mercator slippy-tile (x, y) containing
// (lat, lon) at the given zoom, per spec §3's tile key definition.
func TileForLatLon(lat, lon float64, zoom int) (x, y int) {
	n := math.Exp2(float64(zoom))
	x = int(math.Floor((lon + 180.0) / 360.0 * n))
	latRad := degToRad(lat)
	y = int(math.Floor((1.0 - math.Log(math.Tan(latRad)+1.0/math.Cos(latRad))/math.Pi) / 2.0 * n))

	max := int(n) - 1
	if x < 0 {
		x = 0
	} else if x > max {
		x = max
	}
	if y < 0 {
		y = 0
	} else if y > max {
		y = max
	}
	return x, y
}
