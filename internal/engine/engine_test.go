package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/mkeller/aria/internal/catalog"
)

func newTestEngine(t *testing.T, settings Settings) (*Engine, *catalog.Store) {
	t.Helper()
	store, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store, settings, nil), store
}

func seedTrack(t *testing.T, s *catalog.Store, origin int64, name string) int64 {
	t.Helper()
	artistID, err := s.ArtistID("Artist", "")
	if err != nil {
		t.Fatalf("artist id: %v", err)
	}
	composerID, _ := s.ComposerID("")
	genreID, _ := s.GenreID("")
	albumID, err := s.AlbumID("Album", "", artistID, genreID, 0, "", nil)
	if err != nil {
		t.Fatalf("album id: %v", err)
	}
	track := catalog.Track{
		OriginID: origin, Name: name,
		ArtistID: artistID, AlbumArtistID: artistID,
		ComposerID: composerID, AlbumID: albumID, GenreID: genreID,
		Location: fmt.Sprintf("/music/%d.mp3", origin),
	}
	if err := s.InsertTracks([]catalog.Track{track}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	origins, err := s.OriginIDMap()
	if err != nil {
		t.Fatalf("origin map: %v", err)
	}
	return origins[origin]
}

func TestPlayResolvesTracks(t *testing.T) {
	e, store := newTestEngine(t, Settings{})
	a := seedTrack(t, store, 1, "a")
	b := seedTrack(t, store, 2, "b")

	e.handle(context.Background(), Play{Entity: catalog.EntityTrack, IDs: []int64{b, a}})

	select {
	case d := <-e.playback:
		play, ok := d.(PlayTracks)
		if !ok {
			t.Fatalf("got %T, want PlayTracks", d)
		}
		if len(play.Tracks) != 2 || play.Tracks[0].ID != b || play.Tracks[1].ID != a {
			t.Errorf("got tracks %v, want [%d %d]", play.Tracks, b, a)
		}
	default:
		t.Fatal("no playback data emitted")
	}
}

func TestDeleteGatedByConfiguration(t *testing.T) {
	e, store := newTestEngine(t, Settings{AllowDeleteFromDB: false})
	id := seedTrack(t, store, 1, "a")

	e.handle(context.Background(), DeleteByID{Entity: catalog.EntityTrack, IDs: []int64{id}})
	if _, err := store.TrackByID(id); err != nil {
		t.Fatalf("track deleted despite configuration: %v", err)
	}

	e.settings.AllowDeleteFromDB = true
	e.handle(context.Background(), DeleteByID{Entity: catalog.EntityTrack, IDs: []int64{id}})
	if _, err := store.TrackByID(id); err == nil {
		t.Error("track still present after permitted delete")
	}
}

// A failing request reports an error event and leaves the engine able
// to serve the next request.
func TestFailedRequestDoesNotPoisonEngine(t *testing.T) {
	e, store := newTestEngine(t, Settings{})
	id := seedTrack(t, store, 1, "findme")

	e.handle(context.Background(), ImportLibrary{Path: "/nonexistent/library.txt"})

	var failed bool
	for len(e.events) > 0 {
		if _, ok := (<-e.events).(RequestFailed); ok {
			failed = true
		}
	}
	if !failed {
		t.Error("no failure event for bad import path")
	}

	e.handle(context.Background(), Search{Text: "findme"})
	for len(e.events) > 0 {
		if res, ok := (<-e.events).(SearchResults); ok {
			if len(res.Result.Tracks) != 1 || res.Result.Tracks[0] != id {
				t.Errorf("got tracks %v, want [%d]", res.Result.Tracks, id)
			}
			return
		}
	}
	t.Error("no search results after earlier failure")
}

func TestInitEmitsCatalogSnapshot(t *testing.T) {
	e, store := newTestEngine(t, Settings{})
	id := seedTrack(t, store, 1, "a")

	e.handle(context.Background(), Init{})

	for len(e.events) > 0 {
		snap, ok := (<-e.events).(CatalogSnapshot)
		if !ok {
			continue
		}
		if len(snap.Tracks) != 1 || snap.Tracks[0].ID != id {
			t.Errorf("got tracks %v, want one with id %d", snap.Tracks, id)
		}
		if len(snap.Albums) != 1 || snap.Albums[0].Name != "Album" {
			t.Errorf("got albums %v, want one named Album", snap.Albums)
		}
		if len(snap.Artists) != 1 || snap.Artists[0].Name != "Artist" {
			t.Errorf("got artists %v, want one named Artist", snap.Artists)
		}
		return
	}
	t.Error("no catalog snapshot emitted on init")
}

func TestUpdateGenreRefreshesSnapshot(t *testing.T) {
	e, store := newTestEngine(t, Settings{})
	seedTrack(t, store, 1, "a")
	genreID, err := store.GenreID("Rock")
	if err != nil {
		t.Fatalf("genre id: %v", err)
	}

	e.handle(context.Background(), UpdateGenre{Genre: catalog.Genre{ID: genreID, Name: "Jazz"}})

	var found bool
	for len(e.events) > 0 {
		snap, ok := (<-e.events).(CatalogSnapshot)
		if !ok {
			continue
		}
		found = true
		for _, g := range snap.Genres {
			if g.ID == genreID && g.Name != "Jazz" {
				t.Errorf("got genre %q, want %q", g.Name, "Jazz")
			}
		}
	}
	if !found {
		t.Error("no catalog snapshot emitted after update")
	}
}

func TestNewPlaylistEmitsUpdate(t *testing.T) {
	e, store := newTestEngine(t, Settings{})
	id := seedTrack(t, store, 1, "a")

	e.handle(context.Background(), NewPlaylist{Name: "Mix", Tracks: []int64{id}})

	for len(e.events) > 0 {
		if ev, ok := (<-e.events).(PlaylistsChanged); ok {
			if len(ev.Playlists) != 1 || ev.Playlists[0].Name != "Mix" {
				t.Errorf("got playlists %v, want one named Mix", ev.Playlists)
			}
			return
		}
	}
	t.Error("no playlist update emitted")
}
