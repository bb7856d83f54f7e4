package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mkeller/aria/internal/db"
)

const playlistSelectColumns = `playlist_id, orig_playlist_id, name, description, master,
	persistent_id, parent_persistent_id, distinguished_kind, visible, all_items,
	folder, date_modified, date_added, tracks`

func scanPlaylist(row interface{ Scan(...any) error }) (Playlist, error) {
	var p Playlist
	var master, visible, allItems, folder int
	var tracksJSON string
	err := row.Scan(&p.ID, &p.OriginID, &p.Name, &p.Description, &master,
		&p.PersistentID, &p.ParentPersistentID, &p.DistinguishedKind, &visible, &allItems,
		&folder, &p.DateModified, &p.DateAdded, &tracksJSON)
	if err != nil {
		return Playlist{}, err
	}
	p.Master = master != 0
	p.Visible = visible != 0
	p.AllItems = allItems != 0
	p.Folder = folder != 0
	var encoded []int64
	if err := json.Unmarshal([]byte(tracksJSON), &encoded); err != nil {
		return Playlist{}, fmt.Errorf("playlist %d track list: %w", p.ID, err)
	}
	p.Tracks = decodeTrackRefs(encoded)
	return p, nil
}

// The tracks column stores one signed integer per entry: a positive
// value is a catalog track id, a negative value is the negated origin
// id of a dangling reference.

func encodeTrackRefs(refs []TrackRef) []int64 {
	encoded := make([]int64, len(refs))
	for i, r := range refs {
		if r.Dangling() {
			encoded[i] = -r.OriginID
		} else {
			encoded[i] = r.ID
		}
	}
	return encoded
}

func decodeTrackRefs(encoded []int64) []TrackRef {
	if encoded == nil {
		return nil
	}
	refs := make([]TrackRef, len(encoded))
	for i, v := range encoded {
		if v < 0 {
			refs[i] = DanglingRef(-v)
		} else {
			refs[i] = ResolvedRef(v)
		}
	}
	return refs
}

// Playlists returns all playlists.
func (s *Store) Playlists() ([]Playlist, error) {
	rows, err := s.db.Query(`SELECT ` + playlistSelectColumns + ` FROM Playlists`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playlists []Playlist
	for rows.Next() {
		p, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

// PlaylistByID returns one playlist.
func (s *Store) PlaylistByID(id int64) (Playlist, error) {
	row := s.db.QueryRow(`SELECT `+playlistSelectColumns+` FROM Playlists WHERE playlist_id = ?`, id)
	p, err := scanPlaylist(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Playlist{}, fmt.Errorf("playlist %d: %w", id, ErrNotFound)
	}
	return p, err
}

// InsertPlaylist creates a playlist row. Track order is stored as-is.
func (s *Store) InsertPlaylist(p Playlist) error {
	tracksJSON, err := json.Marshal(encodeTrackRefs(p.Tracks))
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO Playlists (orig_playlist_id, name, description, master, persistent_id,
			parent_persistent_id, distinguished_kind, visible, all_items, folder,
			date_modified, date_added, tracks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP, ?)`,
		p.OriginID, p.Name, p.Description, boolInt(p.Master), p.PersistentID,
		p.ParentPersistentID, p.DistinguishedKind, boolInt(p.Visible), boolInt(p.AllItems),
		boolInt(p.Folder), string(tracksJSON))
	return err
}

// UpdatePlaylist replaces name, description and track list of an
// existing playlist.
func (s *Store) UpdatePlaylist(id int64, name, description string, tracks []TrackRef) error {
	if _, err := s.PlaylistByID(id); err != nil {
		return err
	}

	tracksJSON, err := json.Marshal(encodeTrackRefs(tracks))
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		UPDATE Playlists
		SET name = ?, description = ?, tracks = ?, date_modified = CURRENT_TIMESTAMP
		WHERE playlist_id = ?`,
		name, description, string(tracksJSON), id)
	return err
}

// DeletePlaylists removes playlist rows. Tracks are untouched.
func (s *Store) DeletePlaylists(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.Exec(
		`DELETE FROM Playlists WHERE playlist_id IN (`+db.Placeholders(len(ids))+`)`,
		db.Int64Args(ids)...)
	return err
}
