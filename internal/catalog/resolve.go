package catalog

import (
	"database/sql"
	"errors"
	"fmt"
)

// ImportDates carries source-supplied modification/addition timestamps
// for albums created during a legacy-library import. Nil means "now".
type ImportDates struct {
	DateModified string
	DateAdded    string
}

// ArtistID resolves an artist by name, creating the row on first
// reference. The empty name resolves to the sentinel unknown artist.
// Repeated calls with the same name always return the same id.
func (s *Store) ArtistID(name, sortName string) (int64, error) {
	id, err := s.selectID(`SELECT artist_id FROM Artists WHERE name = ?`, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	_, err = s.db.Exec(`INSERT INTO Artists (name, sort_artist) VALUES (?, ?)`, name, sortName)
	if err != nil {
		return 0, fmt.Errorf("create artist %q: %w", name, err)
	}
	return s.selectID(`SELECT artist_id FROM Artists WHERE name = ?`, name)
}

// ComposerID resolves a composer by name, creating it on first reference.
func (s *Store) ComposerID(name string) (int64, error) {
	id, err := s.selectID(`SELECT composer_id FROM Composers WHERE name = ?`, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	_, err = s.db.Exec(`INSERT INTO Composers (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("create composer %q: %w", name, err)
	}
	return s.selectID(`SELECT composer_id FROM Composers WHERE name = ?`, name)
}

// GenreID resolves a genre by name, creating it on first reference.
func (s *Store) GenreID(name string) (int64, error) {
	id, err := s.selectID(`SELECT genre_id FROM Genres WHERE name = ?`, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	_, err = s.db.Exec(`INSERT INTO Genres (name) VALUES (?)`, name)
	if err != nil {
		return 0, fmt.Errorf("create genre %q: %w", name, err)
	}
	return s.selectID(`SELECT genre_id FROM Genres WHERE name = ?`, name)
}

// AlbumID resolves an album by its natural key (name, artistID),
// creating it on first reference. The artist must be the album artist:
// the same title under two album-artists is two distinct albums.
func (s *Store) AlbumID(name, sortName string, artistID, genreID int64, year int, releaseDate string, dates *ImportDates) (int64, error) {
	const sel = `SELECT album_id FROM Albums WHERE name = ? AND artist_id = ?`

	id, err := s.selectID(sel, name, artistID)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	if dates != nil {
		_, err = s.db.Exec(`
			INSERT INTO Albums (name, sort_album, artist_id, genre_id, year, release_date, date_modified, date_added)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			name, sortName, artistID, genreID, year, releaseDate, dates.DateModified, dates.DateAdded)
	} else {
		_, err = s.db.Exec(`
			INSERT INTO Albums (name, sort_album, artist_id, genre_id, year, release_date, date_modified, date_added)
			VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			name, sortName, artistID, genreID, year, releaseDate)
	}
	if err != nil {
		return 0, fmt.Errorf("create album %q: %w", name, err)
	}
	return s.selectID(sel, name, artistID)
}

// CoverID returns the album's cover id, creating a Cover row from data
// (a data URI) if the album has none yet. At most one cover per album.
func (s *Store) CoverID(albumID int64, data string) (int64, error) {
	var coverID int64
	err := s.db.QueryRow(`SELECT cover_id FROM Albums WHERE album_id = ?`, albumID).Scan(&coverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("album %d: %w", albumID, ErrNotFound)
		}
		return 0, err
	}
	if coverID != 0 {
		return coverID, nil
	}

	if _, err := s.db.Exec(`INSERT INTO Covers (album_id, base64) VALUES (?, ?)`, albumID, data); err != nil {
		return 0, err
	}
	if err := s.db.QueryRow(
		`SELECT cover_id FROM Covers WHERE album_id = ? ORDER BY cover_id DESC LIMIT 1`, albumID,
	).Scan(&coverID); err != nil {
		return 0, err
	}

	if _, err := s.db.Exec(`UPDATE Albums SET cover_id = ? WHERE album_id = ?`, coverID, albumID); err != nil {
		return 0, err
	}
	return coverID, nil
}

func (s *Store) selectID(query string, args ...any) (int64, error) {
	var id int64
	err := s.db.QueryRow(query, args...).Scan(&id)
	return id, err
}
