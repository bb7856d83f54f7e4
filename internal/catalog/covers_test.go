package catalog

import (
	"strings"
	"testing"
)

func TestExtractCoversProbesUntilHit(t *testing.T) {
	s := openTestStore(t)
	seedTrack(t, s, 1, "One", "A", "Album", "Rock")
	seedTrack(t, s, 2, "Two", "A", "Album", "Rock")

	missing, err := s.AlbumsMissingCovers()
	if err != nil {
		t.Fatalf("albums missing covers: %v", err)
	}
	if len(missing) != 1 {
		t.Fatalf("got %d albums missing covers, want 1", len(missing))
	}
	albumID := missing[0]

	probe := func(path string) *CoverImage {
		if strings.HasSuffix(path, "/1.mp3") {
			return nil
		}
		return &CoverImage{MIMEType: "image/jpeg", Data: []byte("artwork")}
	}

	extracted, err := s.ExtractCovers(missing, probe)
	if err != nil {
		t.Fatalf("extract covers: %v", err)
	}
	if extracted != 1 {
		t.Errorf("got %d covers extracted, want 1", extracted)
	}

	album, err := s.AlbumByID(albumID)
	if err != nil {
		t.Fatalf("album by id: %v", err)
	}
	if album.CoverID == 0 {
		t.Fatal("album cover_id not set after extraction")
	}

	covers, err := s.CoversByID([]int64{album.CoverID})
	if err != nil {
		t.Fatalf("covers by id: %v", err)
	}
	if len(covers) != 1 || covers[0].AlbumID != albumID {
		t.Fatalf("got covers %v, want one for album %d", covers, albumID)
	}
	if !strings.HasPrefix(covers[0].Data, "data:image/jpeg;base64,") {
		t.Errorf("got cover data %q, want data-URI form", covers[0].Data)
	}
}

func TestExtractCoversSkipsCoveredAlbums(t *testing.T) {
	s := openTestStore(t)
	seedTrack(t, s, 1, "One", "A", "Album", "Rock")

	probe := func(string) *CoverImage {
		return &CoverImage{MIMEType: "image/png", Data: []byte("artwork")}
	}

	missing, err := s.AlbumsMissingCovers()
	if err != nil {
		t.Fatalf("albums missing covers: %v", err)
	}
	if _, err := s.ExtractCovers(missing, probe); err != nil {
		t.Fatalf("extract covers: %v", err)
	}

	// a second pass must not probe again or add a second cover row
	extracted, err := s.ExtractCovers(missing, func(string) *CoverImage {
		t.Error("probe called for an album that already has a cover")
		return nil
	})
	if err != nil {
		t.Fatalf("extract covers again: %v", err)
	}
	if extracted != 0 {
		t.Errorf("got %d covers extracted on second pass, want 0", extracted)
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Covers != 1 {
		t.Errorf("got %d cover rows, want 1", stats.Covers)
	}
}
