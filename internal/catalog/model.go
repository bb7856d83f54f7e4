package catalog

// Artist is a catalog artist row. The empty-name artist is the
// sentinel owner for tracks lacking attribution.
type Artist struct {
	ID       int64
	Name     string
	SortName string
}

// Composer is a catalog composer row.
type Composer struct {
	ID   int64
	Name string
}

// Genre is a catalog genre row.
type Genre struct {
	ID   int64
	Name string
}

// Album is a catalog album row. Albums are unique by (name, artist_id).
// CoverID is 0 until cover art has been extracted.
type Album struct {
	ID           int64
	Name         string
	SortName     string
	ArtistID     int64
	GenreID      int64
	Year         int
	ReleaseDate  string
	DateModified string
	DateAdded    string
	CoverID      int64
	Tracks       []int64 // track ids in disc/track order
}

// Cover holds one album's art, stored as a data URI.
type Cover struct {
	ID      int64
	AlbumID int64
	Data    string
}

// Track is a full catalog track row.
type Track struct {
	ID            int64
	OriginID      int64
	Name          string
	ArtistID      int64
	AlbumArtistID int64
	ComposerID    int64
	AlbumID       int64
	GenreID       int64
	Kind          string
	Size          int64
	TotalTime     int64 // milliseconds
	DiscNumber    int
	DiscCount     int
	TrackNumber   int
	TrackCount    int
	Year          int
	DateModified  string
	DateAdded     string
	BitRate       int
	SampleRate    int
	ReleaseDate   string
	Normalization int
	ArtworkCount  int
	SortName      string
	PersistentID  string
	TrackType     string
	Purchased     bool
	HasVideo      bool
	MusicVideo    bool
	Location      string

	FileFolderCount    int
	LibraryFolderCount int

	Plays int64
}

// TrackRef is one playlist entry: either a resolved catalog track id
// or a dangling reference to an origin id that never resolved during
// import. Exactly one of the two fields is set.
type TrackRef struct {
	ID       int64
	OriginID int64
}

// ResolvedRef references an existing catalog track.
func ResolvedRef(id int64) TrackRef { return TrackRef{ID: id} }

// DanglingRef keeps an unresolved origin id visible instead of
// dropping it.
func DanglingRef(originID int64) TrackRef { return TrackRef{OriginID: originID} }

// Dangling reports whether the reference points outside the catalog.
func (r TrackRef) Dangling() bool { return r.ID == 0 }

// ResolvedRefs wraps plain track ids, as sent by front-end playlist
// edits.
func ResolvedRefs(ids []int64) []TrackRef {
	refs := make([]TrackRef, len(ids))
	for i, id := range ids {
		refs[i] = ResolvedRef(id)
	}
	return refs
}

// Playlist is a catalog playlist row. Track order is meaningful and
// preserved.
type Playlist struct {
	ID                 int64
	OriginID           int64
	Name               string
	Description        string
	Master             bool
	PersistentID       string
	ParentPersistentID string
	DistinguishedKind  int
	Visible            bool
	AllItems           bool
	Folder             bool
	DateModified       string
	DateAdded          string
	Tracks             []TrackRef
}

// AudioTrack is the minimal playable reference handed to the playback
// orchestrator: id plus last-known file location.
type AudioTrack struct {
	ID       int64
	Location string
}

// Stats summarizes the catalog for init and import reporting.
type Stats struct {
	Tracks    int64
	Albums    int64
	Artists   int64
	Composers int64
	Genres    int64
	Playlists int64
	Covers    int64

	TotalBytes  int64
	TotalTimeMS int64
}

// EntityType selects which catalog entity a request targets.
type EntityType int

const (
	EntityTrack EntityType = iota
	EntityAlbum
	EntityArtist
	EntityComposer
	EntityGenre
	EntityPlaylist
	EntityCover
)

func (e EntityType) String() string {
	switch e {
	case EntityTrack:
		return "track"
	case EntityAlbum:
		return "album"
	case EntityArtist:
		return "artist"
	case EntityComposer:
		return "composer"
	case EntityGenre:
		return "genre"
	case EntityPlaylist:
		return "playlist"
	case EntityCover:
		return "cover"
	}
	return "unknown"
}
