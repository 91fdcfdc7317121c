// Package tiledb implements the persistence boundary the Tile Loader
// depends on: a narrow BlobFetcher interface plus two reference adapters,
// and the loader itself (bounded cache, transparent decompression, header
// validation via pkg/tile).
package tiledb

import (
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/DataDog/zstd"
	"github.com/cockroachdb/pebble"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"tilerouter/domain"
	"tilerouter/pkg/tile"
)

// ErrBlobNotFound is returned by a BlobFetcher when the key is absent.
var ErrBlobNotFound = errors.New("tile blob not found")

// BlobFetcher is the narrow interface the Tile Loader uses to retrieve a
// raw tile blob from whichever persistence adapter is configured.
type BlobFetcher interface {
	FetchTileBlob(z, x, y int) ([]byte, error)
}

const (
	flagRaw  byte = 0x00
	flagZstd byte = 0x01
)

// SQLiteBlobStore satisfies BlobFetcher against the literal table/SQL
// contract of spec §6, via a database/sql handle backed by
// mattn/go-sqlite3.
type SQLiteBlobStore struct {
	db    *sql.DB
	table string
}

// OpenSQLiteBlobStore opens (or creates) the SQLite database at path and
// sets WAL mode, per spec §6.
func OpenSQLiteBlobStore(path, table string) (*SQLiteBlobStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite tile store: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		z INTEGER NOT NULL, x INTEGER NOT NULL, y INTEGER NOT NULL, data BLOB NOT NULL,
		PRIMARY KEY (z, x, y))`, table)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tile table: %w", err)
	}
	return &SQLiteBlobStore{db: db, table: table}, nil
}

func (s *SQLiteBlobStore) FetchTileBlob(z, x, y int) ([]byte, error) {
	row := s.db.QueryRow(fmt.Sprintf("SELECT data FROM %s WHERE z=? AND x=? AND y=? LIMIT 1", s.table), z, x, y)
	var data []byte
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	return data, nil
}

// PutTileBlob stores a tile blob, matching the builder's delete-then-insert
// contract from spec §6.
func (s *SQLiteBlobStore) PutTileBlob(z, x, y int, data []byte) error {
	if _, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE z=? AND x=? AND y=?", s.table), z, x, y); err != nil {
		return err
	}
	_, err := s.db.Exec(fmt.Sprintf("INSERT INTO %s(z, x, y, data) VALUES (?, ?, ?, ?)", s.table), z, x, y, data)
	return err
}

func (s *SQLiteBlobStore) Close() error { return s.db.Close() }

// PebbleBlobStore satisfies BlobFetcher against an embedded key-value
// database, matching spec §1's "embedded key-value database" framing and
// the teacher's own pkg/kv storage idiom.
type PebbleBlobStore struct {
	db *pebble.DB
}

func OpenPebbleBlobStore(dir string) (*PebbleBlobStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble tile store: %w", err)
	}
	return &PebbleBlobStore{db: db}, nil
}

func tileKeyBytes(z, x, y int) []byte {
	key := make([]byte, 12)
	binary.BigEndian.PutUint32(key[0:4], uint32(z))
	binary.BigEndian.PutUint32(key[4:8], uint32(x))
	binary.BigEndian.PutUint32(key[8:12], uint32(y))
	return key
}

func (s *PebbleBlobStore) FetchTileBlob(z, x, y int) ([]byte, error) {
	data, closer, err := s.db.Get(tileKeyBytes(z, x, y))
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	closer.Close()
	return out, nil
}

func (s *PebbleBlobStore) PutTileBlob(z, x, y int, data []byte) error {
	return s.db.Set(tileKeyBytes(z, x, y), data, pebble.Sync)
}

func (s *PebbleBlobStore) Close() error { return s.db.Close() }

// CompressBlob prefixes data with a one-byte flag and zstd-compresses it
// (spec SPEC_FULL §4.6).
func CompressBlob(data []byte) ([]byte, error) {
	compressed, err := zstd.Compress(nil, data)
	if err != nil {
		return nil, err
	}
	return append([]byte{flagZstd}, compressed...), nil
}

func decodeBlob(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, domain.WrapErrorf(nil, domain.ErrDataError, "empty tile blob")
	}
	switch raw[0] {
	case flagZstd:
		return zstd.Decompress(nil, raw[1:])
	case flagRaw:
		return raw[1:], nil
	default:
		// Blobs written without a flag prefix are treated as raw, for
		// compatibility with fixtures built directly from pkg/tile.Builder.
		return raw, nil
	}
}

// Loader implements pkg/router.Loader: fetch, transparently decompress,
// validate, optionally cache.
type Loader struct {
	fetcher BlobFetcher
	cache   *lru
	log     *logrus.Entry
}

// NewLoader wraps fetcher with an optional bounded LRU cache of capacity
// entries (0 disables caching), per spec §4.1.
func NewLoader(fetcher BlobFetcher, capacity int) *Loader {
	var c *lru
	if capacity > 0 {
		c = newLRU(capacity)
	}
	return &Loader{fetcher: fetcher, cache: c, log: logrus.WithField("component", "tile_loader")}
}

type tileKey struct{ z, x, y int }

// Load implements pkg/router.Loader (spec §4.1): NO_TILE if absent,
// DATA_ERROR if the blob is malformed or unreadable.
func (l *Loader) Load(z, x, y int) (*tile.View, error) {
	key := tileKey{z, x, y}
	if l.cache != nil {
		if v, ok := l.cache.get(key); ok {
			l.log.WithFields(logrus.Fields{"z": z, "x": x, "y": y}).Debug("tile cache hit")
			return v.(*tile.View), nil
		}
	}

	raw, err := l.fetcher.FetchTileBlob(z, x, y)
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return nil, domain.WrapErrorf(err, domain.ErrNoTile, "tile (%d,%d,%d) not found", z, x, y)
		}
		return nil, domain.WrapErrorf(err, domain.ErrDataError, "fetch tile (%d,%d,%d): %v", z, x, y, err)
	}

	decoded, err := decodeBlob(raw)
	if err != nil {
		return nil, domain.WrapErrorf(err, domain.ErrDataError, "decompress tile (%d,%d,%d): %v", z, x, y, err)
	}

	view, err := tile.NewView(tile.NewBuffer(decoded))
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		l.cache.put(key, view)
	}
	l.log.WithFields(logrus.Fields{"z": z, "x": x, "y": y}).Debug("tile loaded")
	return view, nil
}
