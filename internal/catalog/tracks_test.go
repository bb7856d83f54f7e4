package catalog

import (
	"fmt"
	"testing"
)

// Batch insert must survive crossing several chunk boundaries without
// dropping or duplicating rows.
func TestInsertTracksLargeBatch(t *testing.T) {
	s := openTestStore(t)

	artistID, _ := s.ArtistID("Various", "")
	composerID, _ := s.ComposerID("")
	genreID, _ := s.GenreID("")
	albumID, _ := s.AlbumID("Huge", "", artistID, genreID, 0, "", nil)

	const n = 5000
	tracks := make([]Track, n)
	for i := range tracks {
		tracks[i] = Track{
			OriginID:      int64(i + 1),
			Name:          fmt.Sprintf("track %05d", i),
			ArtistID:      artistID,
			AlbumArtistID: artistID,
			ComposerID:    composerID,
			AlbumID:       albumID,
			GenreID:       genreID,
			Location:      fmt.Sprintf("/music/%05d.mp3", i),
		}
	}
	if err := s.InsertTracks(tracks); err != nil {
		t.Fatalf("insert: %v", err)
	}

	origins, err := s.OriginIDMap()
	if err != nil {
		t.Fatalf("origin map: %v", err)
	}
	if len(origins) != n {
		t.Fatalf("got %d rows, want %d", len(origins), n)
	}
	for i := 1; i <= n; i++ {
		if _, ok := origins[int64(i)]; !ok {
			t.Fatalf("origin id %d missing", i)
		}
	}
}

func TestRecordPlayedIncrements(t *testing.T) {
	s := openTestStore(t)
	id := seedTrack(t, s, 1, "One", "A", "Album", "Rock")

	for i := 0; i < 3; i++ {
		if err := s.RecordPlayed(id); err != nil {
			t.Fatalf("record played: %v", err)
		}
	}

	track, err := s.TrackByID(id)
	if err != nil {
		t.Fatalf("track by id: %v", err)
	}
	if track.Plays != 3 {
		t.Errorf("got %d plays, want 3", track.Plays)
	}
}

func TestUpdateTrackReportsAlbumMove(t *testing.T) {
	s := openTestStore(t)
	id := seedTrack(t, s, 1, "One", "A", "First", "Rock")

	moved, err := s.UpdateTrack(TrackUpdate{
		ID: id, Name: "One", ArtistName: "A", AlbumName: "First", GenreName: "Rock",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if moved {
		t.Error("unchanged album reported as moved")
	}

	moved, err = s.UpdateTrack(TrackUpdate{
		ID: id, Name: "One", ArtistName: "A", AlbumName: "Second", GenreName: "Rock",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !moved {
		t.Error("album change not reported as moved")
	}

	track, err := s.TrackByID(id)
	if err != nil {
		t.Fatalf("track by id: %v", err)
	}
	album, err := s.AlbumByID(track.AlbumID)
	if err != nil {
		t.Fatalf("album by id: %v", err)
	}
	if album.Name != "Second" {
		t.Errorf("got album %q, want %q", album.Name, "Second")
	}
}

func TestUpdateLocationsRewritesPrefix(t *testing.T) {
	s := openTestStore(t)
	id := seedTrack(t, s, 1, "One", "A", "Album", "Rock")

	if err := s.UpdateLocations("/music", "/mnt/media"); err != nil {
		t.Fatalf("update locations: %v", err)
	}

	track, err := s.TrackByID(id)
	if err != nil {
		t.Fatalf("track by id: %v", err)
	}
	if track.Location != "/mnt/media/1.mp3" {
		t.Errorf("got location %q, want %q", track.Location, "/mnt/media/1.mp3")
	}
}

func TestUpdateLocationsNonASCIIPrefix(t *testing.T) {
	s := openTestStore(t)
	id := seedTrack(t, s, 1, "One", "A", "Album", "Rock")

	if err := s.SetLocations(map[int64]string{id: "/home/Jörg/Musik/söng.mp3"}); err != nil {
		t.Fatalf("set locations: %v", err)
	}
	if err := s.UpdateLocations("/home/Jörg/Musik", "/mnt/media"); err != nil {
		t.Fatalf("update locations: %v", err)
	}

	track, err := s.TrackByID(id)
	if err != nil {
		t.Fatalf("track by id: %v", err)
	}
	if track.Location != "/mnt/media/söng.mp3" {
		t.Errorf("got location %q, want %q", track.Location, "/mnt/media/söng.mp3")
	}
}
