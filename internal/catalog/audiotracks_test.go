package catalog

import "testing"

func TestAudioTracksByIDPreservesOrder(t *testing.T) {
	s := openTestStore(t)
	a := seedTrack(t, s, 1, "a", "A", "Album", "Rock")
	b := seedTrack(t, s, 2, "b", "A", "Album", "Rock")
	c := seedTrack(t, s, 3, "c", "A", "Album", "Rock")

	got, err := s.AudioTracksByID([]int64{c, a, b})
	if err != nil {
		t.Fatalf("audio tracks: %v", err)
	}
	want := []int64{c, a, b}
	if len(got) != len(want) {
		t.Fatalf("got %d tracks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("position %d: got %d, want %d", i, got[i].ID, want[i])
		}
	}
}

func TestAudioTracksByIDSkipsUnknown(t *testing.T) {
	s := openTestStore(t)
	a := seedTrack(t, s, 1, "a", "A", "Album", "Rock")

	got, err := s.AudioTracksByID([]int64{a, 9999})
	if err != nil {
		t.Fatalf("audio tracks: %v", err)
	}
	if len(got) != 1 || got[0].ID != a {
		t.Errorf("got %v, want only track %d", got, a)
	}
}

func TestAudioTracksFromPlaylistsSkipsDangling(t *testing.T) {
	s := openTestStore(t)
	a := seedTrack(t, s, 1, "a", "A", "Album", "Rock")

	playlist := Playlist{Name: "Mix", Visible: true, Tracks: []TrackRef{ResolvedRef(a), DanglingRef(42)}}
	if err := s.InsertPlaylist(playlist); err != nil {
		t.Fatalf("insert playlist: %v", err)
	}
	playlists, err := s.Playlists()
	if err != nil {
		t.Fatalf("playlists: %v", err)
	}

	got, err := s.AudioTracksFromPlaylists([]int64{playlists[0].ID})
	if err != nil {
		t.Fatalf("audio tracks: %v", err)
	}
	if len(got) != 1 || got[0].ID != a {
		t.Errorf("got %v, want only track %d", got, a)
	}
}
