package importer

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkeller/aria/internal/catalog"
)

const sampleLibrary = `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0">
<dict>
	<key>Major Version</key><integer>1</integer>
	<key>Tracks</key>
	<dict>
		<key>101</key>
		<dict>
			<key>Track ID</key><integer>101</integer>
			<key>Name</key><string>Helplessly Hoping</string>
			<key>Artist</key><string>Crosby, Stills &#38; Nash</string>
			<key>Album</key><string>Crosby, Stills &#38; Nash</string>
			<key>Genre</key><string>Folk Rock</string>
			<key>Total Time</key><integer>221000</integer>
			<key>Track Number</key><integer>4</integer>
			<key>Year</key><integer>1969</integer>
			<key>Purchased</key><true/>
			<key>Location</key><string>file:///music/CSN/04%20Helplessly%20Hoping.mp3</string>
		</dict>
		<key>102</key>
		<dict>
			<key>Track ID</key><integer>102</integer>
			<key>Name</key><string>Wooden Ships</string>
			<key>Artist</key><string>Crosby, Stills &#38; Nash</string>
			<key>Album</key><string>Crosby, Stills &#38; Nash</string>
			<key>Genre</key><string>Folk Rock</string>
			<key>Location</key><string>file:///music/CSN/05%20Wooden%20Ships.mp3</string>
		</dict>
	</dict>
	<key>Playlists</key>
	<array>
		<dict>
			<key>Playlist ID</key><integer>7</integer>
			<key>Name</key><string>Road Mix</string>
			<key>Visible</key><true/>
			<key>Playlist Items</key>
			<array>
				<dict><key>Track ID</key><integer>102</integer></dict>
				<dict><key>Track ID</key><integer>99999</integer></dict>
				<dict><key>Track ID</key><integer>101</integer></dict>
			</array>
		</dict>
	</array>
</dict>
</plist>
`

func openTestStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func importSample(t *testing.T, store *catalog.Store) map[int64]int64 {
	t.Helper()
	if err := New(store, nil, nil).Import(strings.NewReader(sampleLibrary)); err != nil {
		t.Fatalf("import: %v", err)
	}
	origins, err := store.OriginIDMap()
	if err != nil {
		t.Fatalf("origin map: %v", err)
	}
	return origins
}

func TestImportTracks(t *testing.T) {
	store := openTestStore(t)
	origins := importSample(t, store)

	if len(origins) != 2 {
		t.Fatalf("got %d imported tracks, want 2", len(origins))
	}

	track, err := store.TrackByID(origins[101])
	if err != nil {
		t.Fatalf("track by id: %v", err)
	}
	if track.Name != "Helplessly Hoping" {
		t.Errorf("got name %q, want %q", track.Name, "Helplessly Hoping")
	}
	if track.TotalTime != 221000 {
		t.Errorf("got total time %d, want 221000", track.TotalTime)
	}
	if track.TrackNumber != 4 {
		t.Errorf("got track number %d, want 4", track.TrackNumber)
	}
	if track.Year != 1969 {
		t.Errorf("got year %d, want 1969", track.Year)
	}
	if !track.Purchased {
		t.Error("purchased flag not set")
	}
	if track.Location != "/music/CSN/04 Helplessly Hoping.mp3" {
		t.Errorf("got location %q, want decoded path", track.Location)
	}
}

// Entity references split character data into multiple fragments; the
// value must still come out whole.
func TestImportAccumulatesSplitText(t *testing.T) {
	store := openTestStore(t)
	origins := importSample(t, store)

	track, err := store.TrackByID(origins[101])
	if err != nil {
		t.Fatalf("track by id: %v", err)
	}
	artist, err := store.ArtistByID(track.ArtistID)
	if err != nil {
		t.Fatalf("artist by id: %v", err)
	}
	if artist.Name != "Crosby, Stills & Nash" {
		t.Errorf("got artist %q, want %q", artist.Name, "Crosby, Stills & Nash")
	}
}

func TestImportSharedEntities(t *testing.T) {
	store := openTestStore(t)
	origins := importSample(t, store)

	a, err := store.TrackByID(origins[101])
	if err != nil {
		t.Fatalf("track by id: %v", err)
	}
	b, err := store.TrackByID(origins[102])
	if err != nil {
		t.Fatalf("track by id: %v", err)
	}
	if a.ArtistID != b.ArtistID {
		t.Errorf("same artist resolved to different ids: %d vs %d", a.ArtistID, b.ArtistID)
	}
	if a.AlbumID != b.AlbumID {
		t.Errorf("same album resolved to different ids: %d vs %d", a.AlbumID, b.AlbumID)
	}
	if a.GenreID != b.GenreID {
		t.Errorf("same genre resolved to different ids: %d vs %d", a.GenreID, b.GenreID)
	}
}

func TestImportPlaylistDanglingReference(t *testing.T) {
	store := openTestStore(t)
	origins := importSample(t, store)

	playlists, err := store.Playlists()
	if err != nil {
		t.Fatalf("playlists: %v", err)
	}
	if len(playlists) != 1 {
		t.Fatalf("got %d playlists, want 1", len(playlists))
	}

	p := playlists[0]
	if p.Name != "Road Mix" {
		t.Errorf("got playlist name %q, want %q", p.Name, "Road Mix")
	}
	want := []catalog.TrackRef{
		catalog.ResolvedRef(origins[102]),
		catalog.DanglingRef(99999),
		catalog.ResolvedRef(origins[101]),
	}
	if len(p.Tracks) != len(want) {
		t.Fatalf("got %d playlist tracks, want %d", len(p.Tracks), len(want))
	}
	for i := range want {
		if p.Tracks[i] != want[i] {
			t.Errorf("track %d: got %+v, want %+v", i, p.Tracks[i], want[i])
		}
	}
}

func TestDecodeLocation(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"file:///music/a%20b.mp3", "/music/a b.mp3"},
		{"file:///music/Bläck/track.flac", "/music/Bläck/track.flac"},
		{"/already/plain.mp3", "/already/plain.mp3"},
	}
	for _, tt := range tests {
		if got := decodeLocation(tt.in); got != tt.want {
			t.Errorf("decodeLocation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
