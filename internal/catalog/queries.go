package catalog

import (
	"database/sql"
	"errors"
	"fmt"
)

// Artists returns all artists.
func (s *Store) Artists() ([]Artist, error) {
	rows, err := s.db.Query(`SELECT artist_id, name, sort_artist FROM Artists`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artists []Artist
	for rows.Next() {
		var a Artist
		if err := rows.Scan(&a.ID, &a.Name, &a.SortName); err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

// ArtistByID returns one artist.
func (s *Store) ArtistByID(id int64) (Artist, error) {
	var a Artist
	err := s.db.QueryRow(`SELECT artist_id, name, sort_artist FROM Artists WHERE artist_id = ?`, id).
		Scan(&a.ID, &a.Name, &a.SortName)
	if errors.Is(err, sql.ErrNoRows) {
		return Artist{}, fmt.Errorf("artist %d: %w", id, ErrNotFound)
	}
	return a, err
}

func (s *Store) artistName(id int64) (string, error) {
	a, err := s.ArtistByID(id)
	return a.Name, err
}

// Composers returns all composers.
func (s *Store) Composers() ([]Composer, error) {
	rows, err := s.db.Query(`SELECT composer_id, name FROM Composers`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var composers []Composer
	for rows.Next() {
		var c Composer
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		composers = append(composers, c)
	}
	return composers, rows.Err()
}

// Genres returns all genres.
func (s *Store) Genres() ([]Genre, error) {
	rows, err := s.db.Query(`SELECT genre_id, name FROM Genres`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genres []Genre
	for rows.Next() {
		var g Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

func (s *Store) genreName(id int64) (string, error) {
	var name string
	err := s.db.QueryRow(`SELECT name FROM Genres WHERE genre_id = ?`, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("genre %d: %w", id, ErrNotFound)
	}
	return name, err
}

const albumSelectColumns = `album_id, name, sort_album, artist_id, genre_id, year,
	release_date, date_modified, date_added, cover_id`

func scanAlbum(row interface{ Scan(...any) error }) (Album, error) {
	var a Album
	err := row.Scan(&a.ID, &a.Name, &a.SortName, &a.ArtistID, &a.GenreID, &a.Year,
		&a.ReleaseDate, &a.DateModified, &a.DateAdded, &a.CoverID)
	return a, err
}

// Albums returns all albums including their track id lists in
// disc/track order.
func (s *Store) Albums() ([]Album, error) {
	rows, err := s.db.Query(`SELECT ` + albumSelectColumns + ` FROM Albums`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		albums = append(albums, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range albums {
		tracks, err := s.albumTrackIDs(albums[i].ID)
		if err != nil {
			return nil, err
		}
		albums[i].Tracks = tracks
	}
	return albums, nil
}

// AlbumByID returns one album with its track id list.
func (s *Store) AlbumByID(id int64) (Album, error) {
	row := s.db.QueryRow(`SELECT `+albumSelectColumns+` FROM Albums WHERE album_id = ?`, id)
	a, err := scanAlbum(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Album{}, fmt.Errorf("album %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Album{}, err
	}
	a.Tracks, err = s.albumTrackIDs(id)
	return a, err
}

func (s *Store) albumTrackIDs(albumID int64) ([]int64, error) {
	rows, err := s.db.Query(`
		SELECT track_id FROM Tracks
		WHERE album_id = ?
		ORDER BY disc_number, track_number`, albumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ArtistAlbums returns an artist's album ids ordered by year.
func (s *Store) ArtistAlbums(artistID int64) ([]int64, error) {
	rows, err := s.db.Query(`
		SELECT album_id FROM Albums
		WHERE artist_id = ?
		ORDER BY year`, artistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CoversByID fetches cover rows for the given ids.
func (s *Store) CoversByID(ids []int64) ([]Cover, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	covers := make([]Cover, 0, len(ids))
	for _, id := range ids {
		var c Cover
		err := s.db.QueryRow(
			`SELECT cover_id, album_id, base64 FROM Covers WHERE cover_id = ?`, id,
		).Scan(&c.ID, &c.AlbumID, &c.Data)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		covers = append(covers, c)
	}
	return covers, nil
}
