package engine

import (
	"github.com/mkeller/aria/internal/catalog"
)

// Request is a catalog-engine request. Requests are processed strictly
// in arrival order, one at a time.
type Request interface{ isRequest() }

// Play resolves the named entities into a playable track list and
// hands it to the playback orchestrator, replacing its queue.
type Play struct {
	Entity catalog.EntityType
	IDs    []int64
	Sort   []catalog.Sort // composer/genre resolution only; nil means by name
}

// QueueInsert resolves entities and inserts them into the playback
// queue at Index (nil appends).
type QueueInsert struct {
	Entity catalog.EntityType
	IDs    []int64
	Index  *int
	Sort   []catalog.Sort
}

// RecoverSession resolves persisted history/queue id lists back into
// playable tracks. Sent once by the orchestrator at startup.
type RecoverSession struct {
	HistoryIDs []int64
	QueueIDs   []int64
}

// NewPlaylist creates a user playlist.
type NewPlaylist struct {
	Name        string
	Description string
	Tracks      []int64
}

// UpdatePlaylist replaces a playlist's name, description and tracks.
type UpdatePlaylist struct {
	ID          int64
	Name        string
	Description string
	Tracks      []int64
}

// AddFiles imports loose files or directories into the catalog.
type AddFiles struct {
	Paths []string
}

// ImportLibrary ingests a legacy-library XML export.
type ImportLibrary struct {
	Path string
}

// Search runs a substring search over the given entity types
// (nil = all searchable types).
type Search struct {
	Text     string
	Entities []catalog.EntityType
	Limit    int64
}

// GetOrdered returns entity ids in the requested sort order.
type GetOrdered struct {
	Entity catalog.EntityType
	Sort   []catalog.Sort
}

// DeleteByID deletes entities. For non-playlist entities the delete
// expands to the referenced tracks; DeleteFiles additionally removes
// the files on disk when configuration allows it.
type DeleteByID struct {
	Entity      catalog.EntityType
	IDs         []int64
	DeleteFiles bool
}

// UpdateTrack edits a single track.
type UpdateTrack struct {
	Updates []catalog.TrackUpdate
}

// UpdateAlbum edits an album, cascading artist/genre to its tracks.
type UpdateAlbum struct {
	Update catalog.AlbumUpdate
}

// UpdateArtist renames an artist.
type UpdateArtist struct {
	Artist catalog.Artist
}

// UpdateComposer renames a composer.
type UpdateComposer struct {
	Composer catalog.Composer
}

// UpdateGenre renames a genre.
type UpdateGenre struct {
	Genre catalog.Genre
}

// ExtractCovers scans album tracks for embedded art. Nil AlbumIDs
// means every album still missing a cover.
type ExtractCovers struct {
	AlbumIDs []int64
}

// GetCovers fetches cover rows by id.
type GetCovers struct {
	IDs []int64
}

// RecordPlayed increments a track's play count. Sent fire-and-forget
// by the orchestrator on natural end-of-track.
type RecordPlayed struct {
	TrackID int64
}

// RelocateMediaRoot rewrites track locations when the media root moves.
type RelocateMediaRoot struct {
	Old string
	New string
}

// CopyUnmanaged pulls tracks stored outside the media root into it.
type CopyUnmanaged struct{}

// Init requests a catalog snapshot for a newly connected front end.
type Init struct{}

func (Play) isRequest()              {}
func (QueueInsert) isRequest()       {}
func (RecoverSession) isRequest()    {}
func (NewPlaylist) isRequest()       {}
func (UpdatePlaylist) isRequest()    {}
func (AddFiles) isRequest()          {}
func (ImportLibrary) isRequest()     {}
func (Search) isRequest()            {}
func (GetOrdered) isRequest()        {}
func (DeleteByID) isRequest()        {}
func (UpdateTrack) isRequest()       {}
func (UpdateAlbum) isRequest()       {}
func (UpdateArtist) isRequest()      {}
func (UpdateComposer) isRequest()    {}
func (UpdateGenre) isRequest()       {}
func (ExtractCovers) isRequest()     {}
func (GetCovers) isRequest()         {}
func (RecordPlayed) isRequest()      {}
func (RelocateMediaRoot) isRequest() {}
func (CopyUnmanaged) isRequest()     {}
func (Init) isRequest()              {}
