package catalog

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxCollectDepth bounds recursion when expanding directories handed
// to AddFilesToLibrary.
const maxCollectDepth = 3

// CollectFiles expands paths into a flat list of existing files,
// descending into directories at most maxCollectDepth levels.
// Missing paths are returned separately, not treated as fatal.
func CollectFiles(paths []string) (files, missing []string) {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			missing = append(missing, p)
			continue
		}
		if info.IsDir() {
			files = append(files, collectDir(p, maxCollectDepth)...)
		} else {
			files = append(files, p)
		}
	}
	return files, missing
}

func collectDir(dir string, depth int) []string {
	if depth <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var files []string
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if e.IsDir() {
			files = append(files, collectDir(p, depth-1)...)
		} else {
			files = append(files, p)
		}
	}
	return files
}

// sanitizeName replaces characters unsafe in directory names.
func sanitizeName(name string) string {
	const unsafe = `/\:*?"<>|`
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(unsafe, r) {
			return '_'
		}
		return r
	}, name)
}

// CopyIntoMediaRoot copies src into root/Artist/Album/ and returns the
// new location. Empty artist or album names become "Unknown". An
// existing destination file is kept as-is.
func CopyIntoMediaRoot(root, artist, album, src string) (string, error) {
	if artist == "" {
		artist = "Unknown"
	}
	if album == "" {
		album = "Unknown"
	}

	dir := filepath.Join(root, sanitizeName(artist), sanitizeName(album))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	dst := filepath.Join(dir, filepath.Base(src))
	if _, err := os.Stat(dst); err == nil {
		return dst, nil
	}

	if err := copyFile(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

// CopyUnmanaged copies every track stored outside the media root into
// root/Artist/Album/ and updates its catalog location.
func (s *Store) CopyUnmanaged(root string) error {
	rows, err := s.db.Query(`
		SELECT t.track_id, t.location, ar.name, al.name
		FROM Tracks t
		LEFT JOIN Artists ar ON t.album_artist_id = ar.artist_id
		LEFT JOIN Albums al ON t.album_id = al.album_id
		WHERE t.location NOT LIKE ? || '%'`, root)
	if err != nil {
		return err
	}

	type stray struct {
		id            int64
		location      string
		artist, album string
	}
	var strays []stray
	for rows.Next() {
		var st stray
		if err := rows.Scan(&st.id, &st.location, &st.artist, &st.album); err != nil {
			rows.Close()
			return err
		}
		strays = append(strays, st)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	updates := make(map[int64]string, len(strays))
	for _, st := range strays {
		dst, err := CopyIntoMediaRoot(root, st.artist, st.album, st.location)
		if err != nil {
			return err
		}
		updates[st.id] = dst
	}

	return s.SetLocations(updates)
}

// MoveTracks relocates tracks to root/artist/album/ on disk (removing
// the old file and its emptied parents) and records the new locations.
// artists and albums are parallel to ids.
func (s *Store) MoveTracks(ids []int64, artists, albums []string, root string) error {
	tracks, err := s.AudioTracksByID(ids)
	if err != nil {
		return err
	}

	updates := make(map[int64]string, len(tracks))
	for i, t := range tracks {
		if i >= len(artists) || i >= len(albums) {
			break
		}
		dst, err := CopyIntoMediaRoot(root, artists[i], albums[i], t.Location)
		if err != nil {
			return err
		}
		if dst == t.Location {
			continue
		}
		if err := os.Remove(t.Location); err != nil && !os.IsNotExist(err) {
			return err
		}
		removeEmptyParents(filepath.Dir(t.Location), root)
		updates[t.ID] = dst
	}

	return s.SetLocations(updates)
}

// AllLocations returns every track location in the catalog.
func (s *Store) AllLocations() ([]string, error) {
	rows, err := s.db.Query(`SELECT location FROM Tracks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []string
	for rows.Next() {
		var loc string
		if err := rows.Scan(&loc); err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

// LongestCommonPath returns the deepest directory shared by all paths,
// or "" when paths is empty or shares nothing beyond the root.
func LongestCommonPath(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	common := strings.Split(filepath.Dir(paths[0]), string(filepath.Separator))
	for _, p := range paths[1:] {
		parts := strings.Split(filepath.Dir(p), string(filepath.Separator))
		n := min(len(common), len(parts))
		i := 0
		for i < n && common[i] == parts[i] {
			i++
		}
		common = common[:i]
		if len(common) == 0 {
			return ""
		}
	}

	joined := strings.Join(common, string(filepath.Separator))
	if joined == "" {
		return ""
	}
	return joined
}
