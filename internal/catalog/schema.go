package catalog

import (
	"database/sql"
)

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS Version (
			major INTEGER NOT NULL,
			minor INTEGER NOT NULL,
			patch INTEGER NOT NULL,
			applied TEXT DEFAULT CURRENT_TIMESTAMP,
			comment TEXT
		);

		CREATE TABLE IF NOT EXISTS Artists (
			artist_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			sort_artist TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS Composers (
			composer_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS Genres (
			genre_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS Albums (
			album_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			sort_album TEXT NOT NULL DEFAULT '',
			artist_id INTEGER NOT NULL,
			genre_id INTEGER NOT NULL DEFAULT 0,
			year INTEGER NOT NULL DEFAULT 0,
			release_date TEXT NOT NULL DEFAULT '',
			date_modified TEXT NOT NULL DEFAULT '',
			date_added TEXT NOT NULL DEFAULT '',
			cover_id INTEGER NOT NULL DEFAULT 0,
			UNIQUE(name, artist_id)
		);

		CREATE TABLE IF NOT EXISTS Covers (
			cover_id INTEGER PRIMARY KEY AUTOINCREMENT,
			album_id INTEGER NOT NULL,
			base64 TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS Tracks (
			track_id INTEGER PRIMARY KEY AUTOINCREMENT,
			orig_track_id INTEGER NOT NULL DEFAULT 0,
			name TEXT NOT NULL,
			artist_id INTEGER NOT NULL,
			album_artist_id INTEGER NOT NULL,
			composer_id INTEGER NOT NULL,
			album_id INTEGER NOT NULL,
			genre_id INTEGER NOT NULL,
			kind TEXT NOT NULL DEFAULT '',
			size INTEGER NOT NULL DEFAULT 0,
			total_time INTEGER NOT NULL DEFAULT 0,
			disc_number INTEGER NOT NULL DEFAULT 0,
			disc_count INTEGER NOT NULL DEFAULT 0,
			track_number INTEGER NOT NULL DEFAULT 0,
			track_count INTEGER NOT NULL DEFAULT 0,
			year INTEGER NOT NULL DEFAULT 0,
			date_modified TEXT NOT NULL DEFAULT '',
			date_added TEXT NOT NULL DEFAULT '',
			bit_rate INTEGER NOT NULL DEFAULT 0,
			sample_rate INTEGER NOT NULL DEFAULT 0,
			release_date TEXT NOT NULL DEFAULT '',
			normalization INTEGER NOT NULL DEFAULT 0,
			artwork_count INTEGER NOT NULL DEFAULT 0,
			sort_name TEXT NOT NULL DEFAULT '',
			persistent_id TEXT NOT NULL DEFAULT '',
			track_type TEXT NOT NULL DEFAULT '',
			purchased INTEGER NOT NULL DEFAULT 0,
			has_video INTEGER NOT NULL DEFAULT 0,
			music_video INTEGER NOT NULL DEFAULT 0,
			location TEXT NOT NULL,
			file_folder_count INTEGER NOT NULL DEFAULT 0,
			library_folder_count INTEGER NOT NULL DEFAULT 0,
			plays INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS Playlists (
			playlist_id INTEGER PRIMARY KEY AUTOINCREMENT,
			orig_playlist_id INTEGER NOT NULL DEFAULT 0,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			master INTEGER NOT NULL DEFAULT 0,
			persistent_id TEXT NOT NULL DEFAULT '',
			parent_persistent_id TEXT NOT NULL DEFAULT '',
			distinguished_kind INTEGER NOT NULL DEFAULT 0,
			visible INTEGER NOT NULL DEFAULT 1,
			all_items INTEGER NOT NULL DEFAULT 0,
			folder INTEGER NOT NULL DEFAULT 0,
			date_modified TEXT NOT NULL DEFAULT '',
			date_added TEXT NOT NULL DEFAULT '',
			tracks TEXT NOT NULL DEFAULT '[]'
		);

		CREATE INDEX IF NOT EXISTS idx_tracks_artist ON Tracks(artist_id);
		CREATE INDEX IF NOT EXISTS idx_tracks_album_artist ON Tracks(album_artist_id);
		CREATE INDEX IF NOT EXISTS idx_tracks_composer ON Tracks(composer_id);
		CREATE INDEX IF NOT EXISTS idx_tracks_album ON Tracks(album_id);
		CREATE INDEX IF NOT EXISTS idx_tracks_genre ON Tracks(genre_id);
		CREATE INDEX IF NOT EXISTS idx_tracks_origin ON Tracks(orig_track_id);
		CREATE INDEX IF NOT EXISTS idx_tracks_location ON Tracks(location);
		CREATE INDEX IF NOT EXISTS idx_tracks_name ON Tracks(name);
		CREATE INDEX IF NOT EXISTS idx_albums_artist ON Albums(artist_id);
		CREATE INDEX IF NOT EXISTS idx_albums_name ON Albums(name);
		CREATE INDEX IF NOT EXISTS idx_covers_album ON Covers(album_id);
	`)
	if err != nil {
		return err
	}

	// Record the schema version on first creation only.
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM Version`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		_, err = db.Exec(
			`INSERT INTO Version (major, minor, patch, comment) VALUES (?, ?, ?, ?)`,
			1, 0, 0, "initial schema",
		)
		if err != nil {
			return err
		}
	}

	return nil
}
