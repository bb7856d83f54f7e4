// Package catalog implements the persistent music catalog: a
// normalized SQLite store of tracks, albums, artists, composers,
// genres, playlists and cover art, plus the single-writer engine
// actor that serializes all access to it.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mkeller/aria/internal/db"
)

const (
	appName    = "aria"
	dbFileName = "catalog.db"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("catalog: not found")

// Store owns the SQLite handle. It is not safe for concurrent use;
// the Engine serializes all calls.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the catalog database at path.
// An empty path selects the default XDG data location.
func Open(path string) (*Store, error) {
	if path == "" {
		p, err := xdg.DataFile(filepath.Join(appName, dbFileName))
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Stats returns row counts and aggregate size/runtime.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	counts := []struct {
		table string
		dst   *int64
	}{
		{"Tracks", &st.Tracks},
		{"Albums", &st.Albums},
		{"Artists", &st.Artists},
		{"Composers", &st.Composers},
		{"Genres", &st.Genres},
		{"Playlists", &st.Playlists},
		{"Covers", &st.Covers},
	}
	for _, c := range counts {
		if err := s.db.QueryRow("SELECT COUNT(*) FROM " + c.table).Scan(c.dst); err != nil {
			return Stats{}, err
		}
	}

	var size, duration sql.NullInt64
	err := s.db.QueryRow(`SELECT SUM(size), SUM(total_time) FROM Tracks`).Scan(&size, &duration)
	if err != nil {
		return Stats{}, err
	}
	st.TotalBytes = db.NullInt64Value(size)
	st.TotalTimeMS = db.NullInt64Value(duration)

	return st, nil
}
