package catalog

import (
	"errors"
	"testing"
)

func TestGarbageCollectionKeepsReferencedEntities(t *testing.T) {
	s := openTestStore(t)
	first := seedTrack(t, s, 1, "One", "Shared", "Album", "Rock")
	seedTrack(t, s, 2, "Two", "Shared", "Album", "Rock")

	track, err := s.TrackByID(first)
	if err != nil {
		t.Fatalf("track by id: %v", err)
	}

	if err := s.DeleteTracks([]int64{first}, false, ""); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// One referencing track remains, so the shared entities survive.
	if _, err := s.ArtistByID(track.ArtistID); err != nil {
		t.Errorf("artist removed while still referenced: %v", err)
	}
	if _, err := s.AlbumByID(track.AlbumID); err != nil {
		t.Errorf("album removed while still referenced: %v", err)
	}
}

func TestGarbageCollectionRemovesOrphans(t *testing.T) {
	s := openTestStore(t)
	id := seedTrack(t, s, 1, "One", "Lonely", "Solo", "Obscure")

	track, err := s.TrackByID(id)
	if err != nil {
		t.Fatalf("track by id: %v", err)
	}

	if err := s.DeleteTracks([]int64{id}, false, ""); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := s.ArtistByID(track.ArtistID); !errors.Is(err, ErrNotFound) {
		t.Errorf("orphaned artist not removed: %v", err)
	}
	if _, err := s.AlbumByID(track.AlbumID); !errors.Is(err, ErrNotFound) {
		t.Errorf("orphaned album not removed: %v", err)
	}
	if _, err := s.TrackByID(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted track still present: %v", err)
	}
}

// An artist referenced only through album_artist_id must survive GC.
func TestGarbageCollectionChecksAlbumArtist(t *testing.T) {
	s := openTestStore(t)
	id := seedTrack(t, s, 1, "One", "Performer", "Album", "Rock")

	albumArtistID, err := s.ArtistID("Compilation Owner", "")
	if err != nil {
		t.Fatalf("artist id: %v", err)
	}
	if _, err := s.DB().Exec(
		`UPDATE Tracks SET album_artist_id = ? WHERE track_id = ?`, albumArtistID, id,
	); err != nil {
		t.Fatalf("set album artist: %v", err)
	}

	if err := s.CollectGarbage(); err != nil {
		t.Fatalf("gc: %v", err)
	}
	if _, err := s.ArtistByID(albumArtistID); err != nil {
		t.Errorf("album artist removed while referenced: %v", err)
	}
}

func TestDeleteTracksChunked(t *testing.T) {
	s := openTestStore(t)

	ids := make([]int64, 0, 30)
	for i := int64(1); i <= 30; i++ {
		ids = append(ids, seedTrack(t, s, i, "t", "A", "Album", "Rock"))
	}

	if err := s.DeleteTracks(ids, false, ""); err != nil {
		t.Fatalf("delete: %v", err)
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Tracks != 0 {
		t.Errorf("got %d tracks after delete, want 0", stats.Tracks)
	}
}
