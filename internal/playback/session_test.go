package playback

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mkeller/aria/internal/catalog"
)

func TestSessionRoundTrip(t *testing.T) {
	store, err := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("session store: %v", err)
	}

	want := Snapshot{
		Volume:   65,
		Position: 123456,
		Shuffle:  true,
		Repeat:   RepeatQueue,
		Current:  &catalog.AudioTrack{ID: 7, Location: "/music/a.mp3"},
		Queue:    []int64{8, 9},
		History:  []int64{5, 6, 7},
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok := store.Load()
	if !ok {
		t.Fatal("load reported no session")
	}
	if got.Volume != want.Volume || got.Position != want.Position ||
		got.Shuffle != want.Shuffle || got.Repeat != want.Repeat {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if got.Current == nil || got.Current.ID != 7 || got.Current.Location != "/music/a.mp3" {
		t.Errorf("got current %+v, want id 7", got.Current)
	}
	if len(got.Queue) != 2 || got.Queue[0] != 8 || got.Queue[1] != 9 {
		t.Errorf("got queue %v, want [8 9]", got.Queue)
	}
	if len(got.History) != 3 || got.History[2] != 7 {
		t.Errorf("got history %v, want [5 6 7]", got.History)
	}
}

func TestSessionMissingFile(t *testing.T) {
	store, err := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("session store: %v", err)
	}
	if _, ok := store.Load(); ok {
		t.Error("load reported a session for a missing file")
	}
}

func TestSessionMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := NewSessionStore(path)
	if err != nil {
		t.Fatalf("session store: %v", err)
	}
	if _, ok := store.Load(); ok {
		t.Error("load reported a session for a malformed file")
	}
}
