package main

import (
	"flag"
	"fmt"
	"log"

	"tilerouter/pkg/geo"
	"tilerouter/pkg/tile"
	"tilerouter/pkg/tiledb"
)

var (
	dbPath   = flag.String("db", "test.routingdb", "path to the SQLite tile store to write into")
	useKV    = flag.Bool("kv", false, "write into a pebble directory instead of SQLite")
	table    = flag.String("table", "land_tiles", "SQLite tile table name")
	zoom     = flag.Int("zoom", 14, "tile zoom level")
	compress = flag.Bool("compress", false, "zstd-compress the blob before storing it")
)

// main builds the three-node, two-edge residential-street fixture used
// throughout the test corpus (spec §8 scenario S1) and persists it as a
// single tile. The node/edge values mirror the reference fixture in
// the original tile generator: a straight residential road stored as two
// 80m hops, car+foot accessible, not oneway.
func main() {
	flag.Parse()

	const baseLat, baseLon = 47.000000, 9.000000
	x, y := geo.TileForLatLon(baseLat, baseLon, *zoom)
	fmt.Printf("generating tile z=%d x=%d y=%d\n", *zoom, x, y)

	b := tile.NewBuilder(*zoom, x, y, tile.AccessCar|tile.AccessFoot)
	n0 := b.AddNode(47.000000, 9.000000)
	n1 := b.AddNode(47.000000, 9.001000)
	n2 := b.AddNode(47.000000, 9.002000)

	b.AddEdge(n0, n1, 80.0, 13.9, 1.4, false, tile.RoadResidential, tile.AccessCar|tile.AccessFoot, nil)
	b.AddEdge(n1, n2, 80.0, 13.9, 1.4, false, tile.RoadResidential, tile.AccessCar|tile.AccessFoot, nil)

	buf := b.Build()
	view, err := tile.NewView(buf)
	if err != nil {
		log.Fatalf("built tile failed self-validation: %v", err)
	}
	fmt.Printf("node0 lat=%.6f lon=%.6f\n", view.NodeLat(0), view.NodeLon(0))
	fmt.Printf("node1 lat=%.6f lon=%.6f\n", view.NodeLat(1), view.NodeLon(1))

	data := buf.Bytes()
	if *compress {
		data, err = tiledb.CompressBlob(data)
		if err != nil {
			log.Fatalf("compress tile: %v", err)
		}
	}

	if *useKV {
		s, err := tiledb.OpenPebbleBlobStore(*dbPath)
		if err != nil {
			log.Fatalf("open pebble store: %v", err)
		}
		defer s.Close()
		if err := s.PutTileBlob(*zoom, x, y, data); err != nil {
			log.Fatalf("write tile: %v", err)
		}
	} else {
		s, err := tiledb.OpenSQLiteBlobStore(*dbPath, *table)
		if err != nil {
			log.Fatalf("open sqlite store: %v", err)
		}
		defer s.Close()
		if err := s.PutTileBlob(*zoom, x, y, data); err != nil {
			log.Fatalf("write tile: %v", err)
		}
	}

	fmt.Printf("wrote %s with 1 tile (z=%d x=%d y=%d)\n", *dbPath, *zoom, x, y)
}
