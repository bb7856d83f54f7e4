package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mkeller/aria/internal/db"
)

// trackInsertColumns lists the columns bound by InsertTracks, in order.
const trackInsertColumns = `orig_track_id, name, artist_id, album_artist_id, composer_id,
	album_id, genre_id, kind, size, total_time, disc_number, disc_count,
	track_number, track_count, year, date_modified, date_added, bit_rate,
	sample_rate, release_date, normalization, artwork_count, sort_name,
	persistent_id, track_type, purchased, has_video, music_video, location,
	file_folder_count, library_folder_count`

const trackInsertParams = 31

// insertChunkSize keeps chunk_size*trackInsertParams safely below
// SQLite's bound-variable limit (32766).
const insertChunkSize = 1000

// InsertTracks inserts tracks in chunks, each chunk as one multi-row
// statement inside one transaction. Partial failures roll back the
// whole batch.
func (s *Store) InsertTracks(tracks []Track) error {
	if len(tracks) == 0 {
		return nil
	}

	return db.WithTx(s.db, func(tx *sql.Tx) error {
		for start := 0; start < len(tracks); start += insertChunkSize {
			end := min(start+insertChunkSize, len(tracks))
			if err := insertTrackChunk(tx, tracks[start:end]); err != nil {
				return fmt.Errorf("insert tracks %d..%d: %w", start, end, err)
			}
		}
		return nil
	})
}

func insertTrackChunk(tx *sql.Tx, tracks []Track) error {
	row := "(" + db.Placeholders(trackInsertParams) + ")"
	values := make([]string, len(tracks))
	args := make([]any, 0, len(tracks)*trackInsertParams)

	for i, t := range tracks {
		values[i] = row
		args = append(args,
			t.OriginID, t.Name, t.ArtistID, t.AlbumArtistID, t.ComposerID,
			t.AlbumID, t.GenreID, t.Kind, t.Size, t.TotalTime, t.DiscNumber, t.DiscCount,
			t.TrackNumber, t.TrackCount, t.Year, t.DateModified, t.DateAdded, t.BitRate,
			t.SampleRate, t.ReleaseDate, t.Normalization, t.ArtworkCount, t.SortName,
			t.PersistentID, t.TrackType, boolInt(t.Purchased), boolInt(t.HasVideo),
			boolInt(t.MusicVideo), t.Location, t.FileFolderCount, t.LibraryFolderCount,
		)
	}

	query := "INSERT INTO Tracks (" + trackInsertColumns + ") VALUES " + strings.Join(values, ",")
	_, err := tx.Exec(query, args...)
	return err
}

const trackSelectColumns = `track_id, orig_track_id, name, artist_id, album_artist_id, composer_id,
	album_id, genre_id, kind, size, total_time, disc_number, disc_count,
	track_number, track_count, year, date_modified, date_added, bit_rate,
	sample_rate, release_date, normalization, artwork_count, sort_name,
	persistent_id, track_type, purchased, has_video, music_video, location,
	file_folder_count, library_folder_count, plays`

func scanTrack(row interface{ Scan(...any) error }) (Track, error) {
	var t Track
	var purchased, hasVideo, musicVideo int
	err := row.Scan(
		&t.ID, &t.OriginID, &t.Name, &t.ArtistID, &t.AlbumArtistID, &t.ComposerID,
		&t.AlbumID, &t.GenreID, &t.Kind, &t.Size, &t.TotalTime, &t.DiscNumber, &t.DiscCount,
		&t.TrackNumber, &t.TrackCount, &t.Year, &t.DateModified, &t.DateAdded, &t.BitRate,
		&t.SampleRate, &t.ReleaseDate, &t.Normalization, &t.ArtworkCount, &t.SortName,
		&t.PersistentID, &t.TrackType, &purchased, &hasVideo, &musicVideo, &t.Location,
		&t.FileFolderCount, &t.LibraryFolderCount, &t.Plays,
	)
	if err != nil {
		return Track{}, err
	}
	t.Purchased = purchased != 0
	t.HasVideo = hasVideo != 0
	t.MusicVideo = musicVideo != 0
	return t, nil
}

// TrackByID returns one full track row.
func (s *Store) TrackByID(id int64) (Track, error) {
	row := s.db.QueryRow(`SELECT `+trackSelectColumns+` FROM Tracks WHERE track_id = ?`, id)
	t, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Track{}, fmt.Errorf("track %d: %w", id, ErrNotFound)
	}
	return t, err
}

// Tracks returns all full track rows.
func (s *Store) Tracks() ([]Track, error) {
	rows, err := s.db.Query(`SELECT ` + trackSelectColumns + ` FROM Tracks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// OriginIDMap returns the origin-id to assigned-id mapping for all
// imported tracks. Used to resolve playlist references after import.
func (s *Store) OriginIDMap() (map[int64]int64, error) {
	rows, err := s.db.Query(`SELECT track_id, orig_track_id FROM Tracks WHERE orig_track_id != 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := make(map[int64]int64)
	for rows.Next() {
		var id, origin int64
		if err := rows.Scan(&id, &origin); err != nil {
			return nil, err
		}
		m[origin] = id
	}
	return m, rows.Err()
}

// RecordPlayed increments a track's play count. Called on natural
// end-of-track only, never on manual skips.
func (s *Store) RecordPlayed(id int64) error {
	_, err := s.db.Exec(`UPDATE Tracks SET plays = plays + 1 WHERE track_id = ?`, id)
	return err
}

// TrackUpdate carries the user-editable fields of a track. Artist,
// album and genre arrive as names and are resolved via get-or-create.
type TrackUpdate struct {
	ID          int64
	Name        string
	DiscNumber  int
	TrackNumber int
	ArtistName  string
	AlbumName   string
	GenreName   string
}

// UpdateTrack applies a single track edit and returns whether the
// track moved to a different album (callers managing folders relocate
// the file in that case).
func (s *Store) UpdateTrack(u TrackUpdate) (movedAlbum bool, err error) {
	t, err := s.TrackByID(u.ID)
	if err != nil {
		return false, err
	}

	artistID := t.ArtistID
	if cur, err := s.artistName(t.ArtistID); err != nil || cur != u.ArtistName {
		artistID, err = s.ArtistID(u.ArtistName, "")
		if err != nil {
			return false, err
		}
	}

	genreID := t.GenreID
	if cur, err := s.genreName(t.GenreID); err != nil || cur != u.GenreName {
		genreID, err = s.GenreID(u.GenreName)
		if err != nil {
			return false, err
		}
	}

	albumID := t.AlbumID
	album, aerr := s.AlbumByID(t.AlbumID)
	if aerr != nil || album.Name != u.AlbumName {
		movedAlbum = true
		year, releaseDate := 0, ""
		var dates *ImportDates
		if aerr == nil {
			year, releaseDate = album.Year, album.ReleaseDate
			dates = &ImportDates{DateModified: album.DateModified, DateAdded: album.DateAdded}
		}
		albumID, err = s.AlbumID(u.AlbumName, "", artistID, genreID, year, releaseDate, dates)
		if err != nil {
			return false, err
		}
	}

	_, err = s.db.Exec(`
		UPDATE Tracks
		SET name = ?, artist_id = ?, album_id = ?, genre_id = ?,
			disc_number = ?, track_number = ?, date_modified = CURRENT_TIMESTAMP
		WHERE track_id = ?`,
		u.Name, artistID, albumID, genreID, u.DiscNumber, u.TrackNumber, u.ID)
	if err != nil {
		return false, err
	}
	return movedAlbum, nil
}

// updateChunkSize bounds parameters for narrow per-row updates.
const updateChunkSize = 10000

// UpdateLocations rewrites track locations wholesale: any location
// beginning with oldPrefix has that prefix replaced by newPrefix.
// Used when the media root moves. SUBSTR indexes characters, not
// bytes, so the prefix length is counted in runes.
func (s *Store) UpdateLocations(oldPrefix, newPrefix string) error {
	_, err := s.db.Exec(`
		UPDATE Tracks
		SET location = ? || SUBSTR(location, ?)
		WHERE location LIKE ? || '%'`,
		newPrefix, utf8.RuneCountInString(oldPrefix)+1, oldPrefix)
	return err
}

// SetLocations updates individual track locations in chunks.
func (s *Store) SetLocations(updates map[int64]string) error {
	ids := make([]int64, 0, len(updates))
	for id := range updates {
		ids = append(ids, id)
	}

	return db.WithTx(s.db, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`UPDATE Tracks SET location = ? WHERE track_id = ?`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for start := 0; start < len(ids); start += updateChunkSize {
			end := min(start+updateChunkSize, len(ids))
			for _, id := range ids[start:end] {
				if _, err := stmt.Exec(updates[id], id); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
