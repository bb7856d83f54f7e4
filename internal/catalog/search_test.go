package catalog

import "testing"

func TestSearchSubstringAcrossEntities(t *testing.T) {
	s := openTestStore(t)
	trackID := seedTrack(t, s, 1, "Paranoid Android", "Radiohead", "OK Computer", "Alternative")
	seedTrack(t, s, 2, "Airbag", "Radiohead", "OK Computer", "Alternative")

	result, err := s.Search("android", nil, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(result.Tracks) != 1 || result.Tracks[0] != trackID {
		t.Errorf("got tracks %v, want [%d]", result.Tracks, trackID)
	}
	if len(result.Artists) != 0 {
		t.Errorf("got artists %v, want none", result.Artists)
	}

	result, err = s.Search("radio", nil, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(result.Artists) != 1 {
		t.Errorf("got artists %v, want one", result.Artists)
	}
}

func TestSearchEntityFilter(t *testing.T) {
	s := openTestStore(t)
	seedTrack(t, s, 1, "Common", "Common", "Common", "Common")

	result, err := s.Search("common", []EntityType{EntityAlbum}, 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(result.Albums) != 1 {
		t.Errorf("got albums %v, want one", result.Albums)
	}
	if result.Tracks != nil || result.Artists != nil || result.Genres != nil {
		t.Errorf("unrequested entities searched: %+v", result)
	}
}

func TestSearchLimit(t *testing.T) {
	s := openTestStore(t)
	for i := int64(1); i <= 5; i++ {
		seedTrack(t, s, i, "repeat", "A", "Album", "Rock")
	}

	result, err := s.Search("repeat", []EntityType{EntityTrack}, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(result.Tracks) != 3 {
		t.Errorf("got %d tracks, want 3", len(result.Tracks))
	}
}
