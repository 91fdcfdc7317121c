package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"tilerouter/pkg/profile"
	"tilerouter/pkg/router"
	"tilerouter/pkg/tiledb"
)

var (
	dbPath   = flag.String("db", "tiles.sqlite", "path to the SQLite tile store")
	useKV    = flag.Bool("kv", false, "open the store as a pebble directory instead of SQLite")
	table    = flag.String("table", "land_tiles", "SQLite tile table name")
	walkMode = flag.String("profile", "car", "travel profile: car or foot")
	zoom     = flag.Int("zoom", 14, "tile zoom level")
	cacheCap = flag.Int("cache", 0, "tile LRU cache capacity (0 disables)")
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) < 4 || len(args)%2 != 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] lat1 lon1 lat2 lon2 [lat3 lon3 ...]\n", os.Args[0])
		os.Exit(1)
	}

	waypoints, err := parseWaypoints(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	p := profile.Car
	if *walkMode == "foot" {
		p = profile.Foot
	}

	fetcher, closeFn, err := openStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeFn()

	loader := tiledb.NewLoader(fetcher, *cacheCap)
	r := router.New(loader, router.Options{TileZoom: *zoom, TileCacheCapacity: *cacheCap})

	result := r.Route(p, waypoints)
	if result.Status != router.StatusOK {
		fmt.Fprintf(os.Stderr, "route failed: %s %s\n", result.Status, result.ErrorMessage)
		os.Exit(2)
	}

	fmt.Printf("distance_m=%.2f duration_s=%.2f points=%d\n", result.DistanceM, result.DurationS, len(result.Polyline))
	fmt.Printf("encoded=%s\n", result.EncodedPolyline)
	for _, pt := range result.Polyline {
		fmt.Printf("%.6f %.6f\n", pt.Lat, pt.Lon)
	}
}

func parseWaypoints(args []string) ([]router.Waypoint, error) {
	waypoints := make([]router.Waypoint, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		lat, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, fmt.Errorf("bad latitude %q: %w", args[i], err)
		}
		lon, err := strconv.ParseFloat(args[i+1], 64)
		if err != nil {
			return nil, fmt.Errorf("bad longitude %q: %w", args[i+1], err)
		}
		waypoints = append(waypoints, router.Waypoint{Lat: lat, Lon: lon})
	}
	return waypoints, nil
}

func openStore() (tiledb.BlobFetcher, func(), error) {
	if *useKV {
		s, err := tiledb.OpenPebbleBlobStore(*dbPath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}
	s, err := tiledb.OpenSQLiteBlobStore(*dbPath, *table)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { s.Close() }, nil
}
