package catalog

import (
	"strings"
	"testing"
)

func TestOrderedIDsByNameCaseInsensitive(t *testing.T) {
	s := openTestStore(t)
	names := map[int64]string{}
	for i, name := range []string{"banana", "Apple", "cherry", "apricot"} {
		id := seedTrack(t, s, int64(i+1), name, "A", "Album", "Rock")
		names[id] = name
	}

	ids, err := s.OrderedIDs(EntityTrack, []Sort{{Key: ByName}})
	if err != nil {
		t.Fatalf("ordered ids: %v", err)
	}
	if len(ids) != 4 {
		t.Fatalf("got %d ids, want 4", len(ids))
	}
	for i := 1; i < len(ids); i++ {
		prev := strings.ToLower(names[ids[i-1]])
		cur := strings.ToLower(names[ids[i]])
		if prev > cur {
			t.Errorf("order violated: %q before %q", prev, cur)
		}
	}
}

func TestOrderedIDsDescending(t *testing.T) {
	s := openTestStore(t)
	first := seedTrack(t, s, 1, "aaa", "A", "Album", "Rock")
	last := seedTrack(t, s, 2, "zzz", "A", "Album", "Rock")

	ids, err := s.OrderedIDs(EntityTrack, []Sort{{Key: ByName, Desc: true}})
	if err != nil {
		t.Fatalf("ordered ids: %v", err)
	}
	if len(ids) != 2 || ids[0] != last || ids[1] != first {
		t.Errorf("got %v, want [%d %d]", ids, last, first)
	}
}

// A key the entity does not support is skipped; an empty clause list
// falls back to name order.
func TestOrderedIDsUnsupportedKeyFallsBack(t *testing.T) {
	s := openTestStore(t)
	seedTrack(t, s, 1, "b", "ArtistB", "Album", "Rock")
	seedTrack(t, s, 2, "a", "ArtistA", "Album", "Rock")

	want, err := s.OrderedIDs(EntityGenre, []Sort{{Key: ByName}})
	if err != nil {
		t.Fatalf("ordered ids: %v", err)
	}
	got, err := s.OrderedIDs(EntityGenre, []Sort{{Key: BySize}})
	if err != nil {
		t.Fatalf("ordered ids with unsupported key: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}

func TestOrderedIDsMultiKey(t *testing.T) {
	s := openTestStore(t)
	// Same artist; name breaks the tie within the artist.
	b := seedTrack(t, s, 1, "b", "Same", "Album", "Rock")
	a := seedTrack(t, s, 2, "a", "Same", "Album", "Rock")

	ids, err := s.OrderedIDs(EntityTrack, []Sort{{Key: ByArtist}, {Key: ByName}})
	if err != nil {
		t.Fatalf("ordered ids: %v", err)
	}
	if len(ids) != 2 || ids[0] != a || ids[1] != b {
		t.Errorf("got %v, want [%d %d]", ids, a, b)
	}
}
