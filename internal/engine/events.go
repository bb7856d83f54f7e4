package engine

import (
	"github.com/mkeller/aria/internal/catalog"
	"github.com/mkeller/aria/internal/errmsg"
)

// Phase identifies a long-running operation in progress events.
type Phase string

const (
	PhaseLibraryImport Phase = "library-import"
	PhaseFileImport    Phase = "file-import"
	PhaseCoverExtract  Phase = "cover-extract"
	PhaseDelete        Phase = "delete"
	PhaseUpdate        Phase = "update"
)

// Event is a catalog-engine notification toward the front end.
type Event interface{ isEvent() }

// Progress reports a long-running operation. Current is a counter
// where the operation can count (0 otherwise); Done marks the terminal
// notification for the phase.
type Progress struct {
	Phase   Phase
	Current int
	Done    bool
}

// RequestFailed reports a single request's failure. The engine stays
// alive and serves the next request.
type RequestFailed struct {
	Op      errmsg.Op
	Context string
	Err     error
}

func (e RequestFailed) Error() string {
	return errmsg.FormatWith(e.Op, e.Context, e.Err)
}

// CatalogChanged carries fresh catalog statistics after any mutation.
type CatalogChanged struct {
	Stats catalog.Stats
}

// CatalogSnapshot carries full entity rows by type. Emitted on Init
// and after catalog mutations so a front end can build or refresh its
// local view without issuing per-entity queries.
type CatalogSnapshot struct {
	Tracks    []catalog.Track
	Albums    []catalog.Album
	Artists   []catalog.Artist
	Composers []catalog.Composer
	Genres    []catalog.Genre
}

// OrderedIDs answers a GetOrdered request.
type OrderedIDs struct {
	Entity catalog.EntityType
	Sort   []catalog.Sort
	IDs    []int64
}

// SearchResults answers a Search request.
type SearchResults struct {
	Result catalog.SearchResult
}

// PlaylistsChanged carries the full playlist set after playlist
// mutations.
type PlaylistsChanged struct {
	Playlists []catalog.Playlist
}

// CoversData answers a GetCovers request.
type CoversData struct {
	Covers []catalog.Cover
}

// MediaRootSuggested is emitted after importing into an empty catalog
// when the imported locations share a common directory; the
// application may adopt it as the media root.
type MediaRootSuggested struct {
	Path string
}

func (Progress) isEvent()           {}
func (RequestFailed) isEvent()      {}
func (CatalogChanged) isEvent()     {}
func (CatalogSnapshot) isEvent()    {}
func (OrderedIDs) isEvent()         {}
func (SearchResults) isEvent()      {}
func (PlaylistsChanged) isEvent()   {}
func (CoversData) isEvent()         {}
func (MediaRootSuggested) isEvent() {}

// PlaybackData is a catalog-engine response consumed by the playback
// orchestrator on its dedicated stream.
type PlaybackData interface{ isPlaybackData() }

// PlayTracks replaces the orchestrator's queue wholesale.
type PlayTracks struct {
	Tracks []catalog.AudioTrack
}

// QueueInsertTracks inserts tracks at Index, or appends when nil.
type QueueInsertTracks struct {
	Tracks []catalog.AudioTrack
	Index  *int
}

// RecoveredTracks seeds history and queue from a restored session.
type RecoveredTracks struct {
	History []catalog.AudioTrack
	Queue   []catalog.AudioTrack
}

func (PlayTracks) isPlaybackData()        {}
func (QueueInsertTracks) isPlaybackData() {}
func (RecoveredTracks) isPlaybackData()   {}
