package catalog

import (
	"strings"

	"github.com/mkeller/aria/internal/db"
)

// AudioTracksByID resolves tracks to playable (id, location) pairs,
// preserving the order of the input ids. Unknown ids are skipped.
func (s *Store) AudioTracksByID(ids []int64) ([]AudioTrack, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	found := make(map[int64]string, len(ids))
	for start := 0; start < len(ids); start += updateChunkSize {
		end := min(start+updateChunkSize, len(ids))
		chunk := ids[start:end]

		rows, err := s.db.Query(
			`SELECT track_id, location FROM Tracks WHERE track_id IN (`+db.Placeholders(len(chunk))+`)`,
			db.Int64Args(chunk)...)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var id int64
			var loc string
			if err := rows.Scan(&id, &loc); err != nil {
				rows.Close()
				return nil, err
			}
			found[id] = loc
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	tracks := make([]AudioTrack, 0, len(ids))
	for _, id := range ids {
		if loc, ok := found[id]; ok {
			tracks = append(tracks, AudioTrack{ID: id, Location: loc})
		}
	}
	return tracks, nil
}

// AudioTracksFromAlbums resolves whole albums in disc/track order,
// album by album in the given order.
func (s *Store) AudioTracksFromAlbums(albumIDs []int64) ([]AudioTrack, error) {
	var tracks []AudioTrack
	for _, albumID := range albumIDs {
		rows, err := s.db.Query(`
			SELECT track_id, location FROM Tracks
			WHERE album_id = ?
			ORDER BY disc_number, track_number`, albumID)
		if err != nil {
			return nil, err
		}
		tracks, err = appendAudioTracks(tracks, rows)
		if err != nil {
			return nil, err
		}
	}
	return tracks, nil
}

// AudioTracksFromPlaylists resolves playlists in stored track order.
// Dangling references are skipped for playback.
func (s *Store) AudioTracksFromPlaylists(playlistIDs []int64) ([]AudioTrack, error) {
	var tracks []AudioTrack
	for _, playlistID := range playlistIDs {
		p, err := s.PlaylistByID(playlistID)
		if err != nil {
			return nil, err
		}
		ids := make([]int64, 0, len(p.Tracks))
		for _, ref := range p.Tracks {
			if !ref.Dangling() {
				ids = append(ids, ref.ID)
			}
		}
		resolved, err := s.AudioTracksByID(ids)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, resolved...)
	}
	return tracks, nil
}

// AudioTracksFromArtists resolves every track attributed to the given
// artists, as main artist or album artist, in year/album order.
func (s *Store) AudioTracksFromArtists(artistIDs []int64) ([]AudioTrack, error) {
	var tracks []AudioTrack
	for _, artistID := range artistIDs {
		rows, err := s.db.Query(`
			SELECT track_id, location FROM Tracks
			WHERE artist_id = ? OR album_artist_id = ?
			ORDER BY year, album_id, disc_number, track_number`, artistID, artistID)
		if err != nil {
			return nil, err
		}
		tracks, err = appendAudioTracks(tracks, rows)
		if err != nil {
			return nil, err
		}
	}
	return tracks, nil
}

// AudioTracksFromComposers resolves composers' tracks with a
// caller-supplied sort.
func (s *Store) AudioTracksFromComposers(composerIDs []int64, sorts []Sort) ([]AudioTrack, error) {
	return s.audioTracksWhere("Tracks.composer_id = ?", composerIDs, sorts)
}

// AudioTracksFromGenres resolves genres' tracks with a caller-supplied sort.
func (s *Store) AudioTracksFromGenres(genreIDs []int64, sorts []Sort) ([]AudioTrack, error) {
	return s.audioTracksWhere("Tracks.genre_id = ?", genreIDs, sorts)
}

func (s *Store) audioTracksWhere(where string, ids []int64, sorts []Sort) ([]AudioTrack, error) {
	query := buildTrackAudioQuery(where, sorts)

	var tracks []AudioTrack
	for _, id := range ids {
		rows, err := s.db.Query(query, id)
		if err != nil {
			return nil, err
		}
		tracks, err = appendAudioTracks(tracks, rows)
		if err != nil {
			return nil, err
		}
	}
	return tracks, nil
}

// buildTrackAudioQuery builds a track (id, location) select with the
// shared track order terms, one bound parameter in the WHERE clause.
func buildTrackAudioQuery(where string, sorts []Sort) string {
	var (
		joins   []string
		seen    = map[string]bool{}
		clauses []string
	)
	for _, srt := range sorts {
		term, ok := trackOrderTerms[srt.Key]
		if !ok {
			continue
		}
		dir := " ASC"
		if srt.Desc {
			dir = " DESC"
		}
		clauses = append(clauses, term.expr+dir)
		if term.join != "" && !seen[term.join] {
			seen[term.join] = true
			joins = append(joins, term.join)
		}
	}
	if len(clauses) == 0 {
		clauses = []string{"LOWER(Tracks.name) ASC"}
	}

	var b strings.Builder
	b.WriteString("SELECT Tracks.track_id, Tracks.location FROM Tracks")
	for _, j := range joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	b.WriteString(" WHERE ")
	b.WriteString(where)
	b.WriteString(" ORDER BY ")
	b.WriteString(strings.Join(clauses, ", "))
	return b.String()
}

type rowScanner interface {
	Next() bool
	Scan(...any) error
	Err() error
	Close() error
}

func appendAudioTracks(tracks []AudioTrack, rows rowScanner) ([]AudioTrack, error) {
	defer rows.Close()
	for rows.Next() {
		var t AudioTrack
		if err := rows.Scan(&t.ID, &t.Location); err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}
