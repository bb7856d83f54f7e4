package catalog

// AlbumUpdate carries the user-editable fields of an album. Artist and
// genre arrive as names and are resolved via get-or-create.
type AlbumUpdate struct {
	ID          int64
	Name        string
	SortName    string
	Year        int
	ReleaseDate string
	ArtistName  string
	GenreName   string
}

// UpdateAlbum applies an album edit. A changed artist or genre
// cascades to the album's tracks: their album_artist_id always follows
// the album, their genre_id only where it still matched the album's
// old genre. Returns whether the album's tracks need relocating
// (name or artist changed) for callers managing folders.
func (s *Store) UpdateAlbum(u AlbumUpdate) (moved bool, err error) {
	album, err := s.AlbumByID(u.ID)
	if err != nil {
		return false, err
	}

	cascade := false
	if album.Name != u.Name {
		moved = true
	}

	artistID := album.ArtistID
	if cur, err := s.artistName(album.ArtistID); err != nil || cur != u.ArtistName {
		moved = true
		cascade = true
		artistID, err = s.ArtistID(u.ArtistName, "")
		if err != nil {
			return false, err
		}
	}

	oldGenreID := album.GenreID
	genreID := album.GenreID
	if cur, err := s.genreName(album.GenreID); err != nil || cur != u.GenreName {
		cascade = true
		genreID, err = s.GenreID(u.GenreName)
		if err != nil {
			return false, err
		}
	}

	_, err = s.db.Exec(`
		UPDATE Albums
		SET name = ?, sort_album = ?, artist_id = ?, genre_id = ?, year = ?,
			release_date = ?, date_modified = CURRENT_TIMESTAMP
		WHERE album_id = ?`,
		u.Name, u.SortName, artistID, genreID, u.Year, u.ReleaseDate, u.ID)
	if err != nil {
		return false, err
	}

	if cascade {
		_, err = s.db.Exec(`
			UPDATE Tracks
			SET album_artist_id = ?,
				date_modified = CURRENT_TIMESTAMP,
				genre_id = CASE WHEN genre_id = ? THEN ? ELSE genre_id END
			WHERE album_id = ?`,
			artistID, oldGenreID, genreID, u.ID)
		if err != nil {
			return false, err
		}
	}

	return moved, s.CollectGarbage()
}

// UpdateArtist renames an artist. Artists with identical names are not
// merged automatically.
func (s *Store) UpdateArtist(a Artist) error {
	if _, err := s.ArtistByID(a.ID); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`UPDATE Artists SET name = ?, sort_artist = ? WHERE artist_id = ?`,
		a.Name, a.SortName, a.ID)
	return err
}

// UpdateComposer renames a composer.
func (s *Store) UpdateComposer(c Composer) error {
	res, err := s.db.Exec(`UPDATE Composers SET name = ? WHERE composer_id = ?`, c.Name, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateGenre renames a genre.
func (s *Store) UpdateGenre(g Genre) error {
	res, err := s.db.Exec(`UPDATE Genres SET name = ? WHERE genre_id = ?`, g.Name, g.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
