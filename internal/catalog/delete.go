package catalog

import (
	"os"
	"path/filepath"

	"github.com/mkeller/aria/internal/db"
)

// DeleteTracks removes track rows and, when deleteFiles is set, their
// backing files plus any parent directories left empty, never walking
// above mediaRoot. A garbage-collection pass then removes entities no
// remaining track references.
func (s *Store) DeleteTracks(ids []int64, deleteFiles bool, mediaRoot string) error {
	if len(ids) == 0 {
		return nil
	}

	if deleteFiles {
		tracks, err := s.AudioTracksByID(ids)
		if err != nil {
			return err
		}
		for _, t := range tracks {
			if err := os.Remove(t.Location); err != nil && !os.IsNotExist(err) {
				return err
			}
			removeEmptyParents(filepath.Dir(t.Location), mediaRoot)
		}
	}

	for start := 0; start < len(ids); start += updateChunkSize {
		end := min(start+updateChunkSize, len(ids))
		chunk := ids[start:end]
		_, err := s.db.Exec(
			`DELETE FROM Tracks WHERE track_id IN (`+db.Placeholders(len(chunk))+`)`,
			db.Int64Args(chunk)...)
		if err != nil {
			return err
		}
	}

	return s.CollectGarbage()
}

// CollectGarbage removes artists, composers, albums and genres that no
// remaining track references. Artists survive while referenced as
// either main artist or album artist. Orphans may exist transiently
// between a delete and this pass; that is by contract, not a bug.
func (s *Store) CollectGarbage() error {
	statements := []string{
		`DELETE FROM Artists
		 WHERE artist_id NOT IN (SELECT DISTINCT artist_id FROM Tracks)
		   AND artist_id NOT IN (SELECT DISTINCT album_artist_id FROM Tracks)`,
		`DELETE FROM Composers
		 WHERE composer_id NOT IN (SELECT DISTINCT composer_id FROM Tracks)`,
		`DELETE FROM Albums
		 WHERE album_id NOT IN (SELECT DISTINCT album_id FROM Tracks)`,
		`DELETE FROM Genres
		 WHERE genre_id NOT IN (SELECT DISTINCT genre_id FROM Tracks)`,
		`DELETE FROM Covers
		 WHERE album_id NOT IN (SELECT album_id FROM Albums)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// removeEmptyParents deletes dir and its ancestors while they are
// empty, stopping at (and never deleting) root. Failures stop the walk
// silently: a non-empty or unreadable directory simply stays.
func removeEmptyParents(dir, root string) {
	if root == "" {
		return
	}
	root = filepath.Clean(root)

	for {
		dir = filepath.Clean(dir)
		if dir == root || dir == "/" || dir == "." {
			return
		}

		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}
