// Package engine runs the catalog engine actor: a single goroutine
// that owns the catalog store, processes requests strictly in arrival
// order and emits events toward the front end plus resolved track
// lists toward the playback orchestrator.
package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mkeller/aria/internal/catalog"
	"github.com/mkeller/aria/internal/errmsg"
	"github.com/mkeller/aria/internal/importer"
	"github.com/mkeller/aria/internal/probe"
)

// Settings is the slice of application configuration the engine acts on.
type Settings struct {
	MediaRoot         string
	ManageFolders     bool
	AllowDeleteFromDB bool
	AllowDeleteFiles  bool
}

// Engine is the catalog actor. All store access happens on the Run
// goroutine; callers interact only through channels.
type Engine struct {
	store    *catalog.Store
	settings Settings
	log      *log.Logger

	requests chan Request
	playback chan PlaybackData
	events   chan Event

	probeFile func(string) (*probe.Meta, error)
}

// New creates an engine around an open store. Run must be called to
// start processing.
func New(store *catalog.Store, settings Settings, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		store:     store,
		settings:  settings,
		log:       logger.WithPrefix("catalog"),
		requests:  make(chan Request, 64),
		playback:  make(chan PlaybackData, 16),
		events:    make(chan Event, 64),
		probeFile: probe.Probe,
	}
}

// Requests is the engine inbox.
func (e *Engine) Requests() chan<- Request { return e.requests }

// Playback is the orchestrator's dedicated response stream.
func (e *Engine) Playback() <-chan PlaybackData { return e.playback }

// Events is the front-end notification stream. Slow consumers lose
// events rather than blocking the engine.
func (e *Engine) Events() <-chan Event { return e.events }

// Run processes requests until ctx is canceled. A failing request is
// reported and abandoned; the engine keeps serving.
func (e *Engine) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-e.requests:
			e.handle(ctx, req)
		}
	}
}

func (e *Engine) handle(ctx context.Context, req Request) {
	switch r := req.(type) {
	case Play:
		tracks, err := e.resolveTracks(r.Entity, r.IDs, r.Sort)
		if err != nil {
			e.fail(errmsg.OpCatalogQuery, r.Entity.String(), err)
			return
		}
		e.sendPlayback(ctx, PlayTracks{Tracks: tracks})

	case QueueInsert:
		tracks, err := e.resolveTracks(r.Entity, r.IDs, r.Sort)
		if err != nil {
			e.fail(errmsg.OpCatalogQuery, r.Entity.String(), err)
			return
		}
		e.sendPlayback(ctx, QueueInsertTracks{Tracks: tracks, Index: r.Index})

	case RecoverSession:
		history, err := e.store.AudioTracksByID(r.HistoryIDs)
		if err != nil {
			e.fail(errmsg.OpSessionRestore, "", err)
			return
		}
		queue, err := e.store.AudioTracksByID(r.QueueIDs)
		if err != nil {
			e.fail(errmsg.OpSessionRestore, "", err)
			return
		}
		e.sendPlayback(ctx, RecoveredTracks{History: history, Queue: queue})

	case NewPlaylist:
		p := catalog.Playlist{
			Name:        r.Name,
			Description: r.Description,
			Visible:     true,
			Tracks:      catalog.ResolvedRefs(r.Tracks),
		}
		if err := e.store.InsertPlaylist(p); err != nil {
			e.fail(errmsg.OpPlaylistCreate, r.Name, err)
			return
		}
		e.emitPlaylists()

	case UpdatePlaylist:
		if err := e.store.UpdatePlaylist(r.ID, r.Name, r.Description, catalog.ResolvedRefs(r.Tracks)); err != nil {
			e.fail(errmsg.OpPlaylistUpdate, r.Name, err)
			return
		}
		e.emitPlaylists()

	case AddFiles:
		e.handleAddFiles(r)

	case ImportLibrary:
		e.handleImportLibrary(r)

	case Search:
		result, err := e.store.Search(r.Text, r.Entities, r.Limit)
		if err != nil {
			e.fail(errmsg.OpCatalogQuery, r.Text, err)
			return
		}
		e.emit(SearchResults{Result: result})

	case GetOrdered:
		ids, err := e.store.OrderedIDs(r.Entity, r.Sort)
		if err != nil {
			e.fail(errmsg.OpCatalogQuery, r.Entity.String(), err)
			return
		}
		e.emit(OrderedIDs{Entity: r.Entity, Sort: r.Sort, IDs: ids})

	case DeleteByID:
		e.handleDelete(r)

	case UpdateTrack:
		e.handleUpdateTracks(r)

	case UpdateAlbum:
		e.handleUpdateAlbum(r)

	case UpdateArtist:
		prev, err := e.store.ArtistByID(r.Artist.ID)
		if err != nil {
			e.fail(errmsg.OpCatalogUpdate, r.Artist.Name, err)
			return
		}
		if err := e.store.UpdateArtist(r.Artist); err != nil {
			e.fail(errmsg.OpCatalogUpdate, r.Artist.Name, err)
			return
		}
		if prev.Name != r.Artist.Name && e.settings.ManageFolders {
			e.relocateArtistAlbums(r.Artist.ID)
		}
		e.emitStats()

	case UpdateComposer:
		if err := e.store.UpdateComposer(r.Composer); err != nil {
			e.fail(errmsg.OpCatalogUpdate, r.Composer.Name, err)
			return
		}
		e.emitStats()

	case UpdateGenre:
		if err := e.store.UpdateGenre(r.Genre); err != nil {
			e.fail(errmsg.OpCatalogUpdate, r.Genre.Name, err)
			return
		}
		e.emitStats()

	case ExtractCovers:
		e.handleExtractCovers(r)

	case GetCovers:
		covers, err := e.store.CoversByID(r.IDs)
		if err != nil {
			e.fail(errmsg.OpCatalogQuery, "covers", err)
			return
		}
		e.emit(CoversData{Covers: covers})

	case RecordPlayed:
		// Fire-and-forget from the orchestrator; a failure only loses
		// one play-count increment.
		if err := e.store.RecordPlayed(r.TrackID); err != nil {
			e.log.Warn("record played failed", "track", r.TrackID, "err", err)
		}

	case RelocateMediaRoot:
		if err := e.store.UpdateLocations(r.Old, r.New); err != nil {
			e.fail(errmsg.OpCatalogUpdate, r.New, err)
			return
		}
		e.settings.MediaRoot = r.New
		e.emitStats()

	case CopyUnmanaged:
		if !e.settings.ManageFolders {
			return
		}
		if err := e.store.CopyUnmanaged(e.settings.MediaRoot); err != nil {
			e.fail(errmsg.OpFileCopy, e.settings.MediaRoot, err)
			return
		}
		e.emitStats()

	case Init:
		e.emitStats()
		e.emitPlaylists()

	default:
		e.log.Warn("unknown request", "type", req)
	}
}

// resolveTracks turns (entity, ids) into a playable track list.
func (e *Engine) resolveTracks(entity catalog.EntityType, ids []int64, sorts []catalog.Sort) ([]catalog.AudioTrack, error) {
	if sorts == nil {
		sorts = []catalog.Sort{{Key: catalog.ByName}}
	}
	switch entity {
	case catalog.EntityTrack:
		return e.store.AudioTracksByID(ids)
	case catalog.EntityAlbum:
		return e.store.AudioTracksFromAlbums(ids)
	case catalog.EntityPlaylist:
		return e.store.AudioTracksFromPlaylists(ids)
	case catalog.EntityArtist:
		return e.store.AudioTracksFromArtists(ids)
	case catalog.EntityComposer:
		return e.store.AudioTracksFromComposers(ids, sorts)
	case catalog.EntityGenre:
		return e.store.AudioTracksFromGenres(ids, sorts)
	}
	return nil, catalog.ErrNotFound
}

func (e *Engine) handleAddFiles(r AddFiles) {
	e.emit(Progress{Phase: PhaseFileImport})

	files, missing := catalog.CollectFiles(r.Paths)
	for _, m := range missing {
		e.log.Warn("path does not exist", "path", m)
	}

	// Memoize get-or-create results across the batch: a 500-file import
	// typically touches a handful of artists and albums.
	artists := map[string]int64{}
	composers := map[string]int64{}
	genres := map[string]int64{}
	albums := map[string]int64{}

	var tracks []catalog.Track
	count := 0
	for _, path := range files {
		if !probe.IsMusicFile(path) {
			continue
		}
		meta, err := e.probeFile(path)
		if err != nil {
			e.log.Warn("unsupported file skipped", "path", path, "err", err)
			continue
		}

		track, err := e.trackFromMeta(path, meta, artists, composers, genres, albums)
		if err != nil {
			e.fail(errmsg.OpImportFiles, path, err)
			return
		}

		tracks = append(tracks, track)
		count++
		e.emit(Progress{Phase: PhaseFileImport, Current: count})
	}

	if err := e.store.InsertTracks(tracks); err != nil {
		e.fail(errmsg.OpImportFiles, "", err)
		return
	}

	e.emit(Progress{Phase: PhaseFileImport, Current: count, Done: true})
	e.emitStats()
}

// trackFromMeta builds a catalog track from probed metadata, resolving
// entity ids through the memo maps.
func (e *Engine) trackFromMeta(path string, meta *probe.Meta, artists, composers, genres, albums map[string]int64) (catalog.Track, error) {
	var t catalog.Track

	resolve := func(memo map[string]int64, key string, create func() (int64, error)) (int64, error) {
		if id, ok := memo[key]; ok {
			return id, nil
		}
		id, err := create()
		if err != nil {
			return 0, err
		}
		memo[key] = id
		return id, nil
	}

	var err error
	t.ArtistID, err = resolve(artists, meta.Artist, func() (int64, error) {
		return e.store.ArtistID(meta.Artist, "")
	})
	if err != nil {
		return t, err
	}

	albumArtist := meta.AlbumArtist
	if albumArtist == "" {
		// Fall back to the track artist as album owner.
		t.AlbumArtistID = t.ArtistID
	} else {
		t.AlbumArtistID, err = resolve(artists, albumArtist, func() (int64, error) {
			return e.store.ArtistID(albumArtist, "")
		})
		if err != nil {
			return t, err
		}
	}

	t.ComposerID, err = resolve(composers, meta.Composer, func() (int64, error) {
		return e.store.ComposerID(meta.Composer)
	})
	if err != nil {
		return t, err
	}

	t.GenreID, err = resolve(genres, meta.Genre, func() (int64, error) {
		return e.store.GenreID(meta.Genre)
	})
	if err != nil {
		return t, err
	}

	t.Year = meta.Year
	if t.Year == 0 && meta.ReleaseDate != "" {
		t.Year = probe.YearFromDate(meta.ReleaseDate)
	}

	// Albums are keyed (name, album artist); the plain name is not
	// unique across artists.
	albumKey := meta.Album + "\x00" + strconv.FormatInt(t.AlbumArtistID, 10)
	t.AlbumID, err = resolve(albums, albumKey, func() (int64, error) {
		return e.store.AlbumID(meta.Album, "", t.AlbumArtistID, t.GenreID, t.Year, meta.ReleaseDate, nil)
	})
	if err != nil {
		return t, err
	}

	location := path
	if e.settings.ManageFolders {
		location, err = catalog.CopyIntoMediaRoot(e.settings.MediaRoot, meta.AlbumArtist, meta.Album, path)
		if err != nil {
			return t, err
		}
	}

	info, err := os.Stat(location)
	if err != nil {
		return t, err
	}

	t.Name = meta.Title
	t.Kind = meta.Kind
	t.Size = info.Size()
	t.TotalTime = meta.DurationMS
	t.DiscNumber = meta.DiscNumber
	t.DiscCount = meta.DiscCount
	t.TrackNumber = meta.TrackNumber
	t.TrackCount = meta.TrackCount
	t.BitRate = meta.BitRate
	t.SampleRate = meta.SampleRate
	t.ReleaseDate = meta.ReleaseDate
	t.PersistentID = uuid.NewString()
	t.TrackType = "File"
	t.Location = location

	if meta.Cover != nil {
		img := &catalog.CoverImage{MIMEType: meta.Cover.MIMEType, Data: meta.Cover.Data}
		if _, err := e.store.CoverID(t.AlbumID, catalog.EncodeCover(img)); err != nil {
			e.log.Warn("cover store failed", "album", t.AlbumID, "err", err)
		}
	}

	return t, nil
}

func (e *Engine) handleImportLibrary(r ImportLibrary) {
	if strings.ToLower(filepath.Ext(r.Path)) != ".xml" {
		e.fail(errmsg.OpImportLibrary, r.Path, errors.New("not an xml file"))
		return
	}

	prev, err := e.store.Stats()
	if err != nil {
		e.fail(errmsg.OpImportLibrary, r.Path, err)
		return
	}

	e.emit(Progress{Phase: PhaseLibraryImport})

	imp := importer.New(e.store, e.log, func(imported int) {
		e.emit(Progress{Phase: PhaseLibraryImport, Current: imported})
	})
	if err := imp.ImportFile(r.Path); err != nil {
		e.emit(Progress{Phase: PhaseLibraryImport, Done: true})
		e.fail(errmsg.OpImportLibrary, r.Path, err)
		return
	}

	// First import into an empty catalog: suggest the common ancestor
	// of the imported locations as media root.
	if prev.Tracks == 0 {
		if locations, err := e.store.AllLocations(); err == nil {
			if common := catalog.LongestCommonPath(locations); common != "" {
				e.emit(MediaRootSuggested{Path: common})
			}
		}
	}

	e.emit(Progress{Phase: PhaseLibraryImport, Done: true})
	e.emitStats()
	e.emitPlaylists()
}

func (e *Engine) handleDelete(r DeleteByID) {
	e.emit(Progress{Phase: PhaseDelete})
	defer e.emit(Progress{Phase: PhaseDelete, Done: true})

	if r.Entity == catalog.EntityPlaylist {
		// Playlists delete without touching tracks.
		if err := e.store.DeletePlaylists(r.IDs); err != nil {
			e.fail(errmsg.OpPlaylistDelete, "", err)
			return
		}
		e.emitPlaylists()
		return
	}

	if !e.settings.AllowDeleteFromDB {
		e.log.Warn("delete refused by configuration", "entity", r.Entity)
		return
	}

	tracks, err := e.resolveTracks(r.Entity, r.IDs, nil)
	if err != nil {
		e.fail(errmsg.OpCatalogDelete, r.Entity.String(), err)
		return
	}
	ids := make([]int64, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}

	deleteFiles := e.settings.AllowDeleteFiles && r.DeleteFiles
	if err := e.store.DeleteTracks(ids, deleteFiles, e.settings.MediaRoot); err != nil {
		e.fail(errmsg.OpCatalogDelete, r.Entity.String(), err)
		return
	}
	e.emitStats()
}

func (e *Engine) handleUpdateTracks(r UpdateTrack) {
	e.emit(Progress{Phase: PhaseUpdate})

	for i, u := range r.Updates {
		moved, err := e.store.UpdateTrack(u)
		if err != nil {
			e.fail(errmsg.OpCatalogUpdate, u.Name, err)
			continue
		}
		if moved && e.settings.ManageFolders {
			e.relocateTrack(u.ID)
		}
		e.emit(Progress{Phase: PhaseUpdate, Current: i + 1})
	}

	if err := e.store.CollectGarbage(); err != nil {
		e.fail(errmsg.OpCatalogUpdate, "", err)
	}
	e.emit(Progress{Phase: PhaseUpdate, Done: true})
	e.emitStats()
}

func (e *Engine) handleUpdateAlbum(r UpdateAlbum) {
	e.emit(Progress{Phase: PhaseUpdate})
	defer e.emit(Progress{Phase: PhaseUpdate, Done: true})

	moved, err := e.store.UpdateAlbum(r.Update)
	if err != nil {
		e.fail(errmsg.OpCatalogUpdate, r.Update.Name, err)
		return
	}

	if moved && e.settings.ManageFolders {
		album, err := e.store.AlbumByID(r.Update.ID)
		if err == nil {
			for _, trackID := range album.Tracks {
				e.relocateTrack(trackID)
			}
		}
	}
	e.emitStats()
}

// relocateArtistAlbums moves every track under the artist's albums
// after a rename, so the on-disk Artist/Album layout tracks the
// catalog.
func (e *Engine) relocateArtistAlbums(artistID int64) {
	albumIDs, err := e.store.ArtistAlbums(artistID)
	if err != nil {
		e.log.Warn("artist albums query failed", "artist", artistID, "err", err)
		return
	}
	for _, albumID := range albumIDs {
		album, err := e.store.AlbumByID(albumID)
		if err != nil {
			continue
		}
		for _, trackID := range album.Tracks {
			e.relocateTrack(trackID)
		}
	}
}

// relocateTrack moves one track's file to its current artist/album
// directory under the media root. Failures are logged, not fatal: the
// catalog row is already correct.
func (e *Engine) relocateTrack(trackID int64) {
	track, err := e.store.TrackByID(trackID)
	if err != nil {
		return
	}
	album, err := e.store.AlbumByID(track.AlbumID)
	if err != nil {
		return
	}
	artist, err := e.store.ArtistByID(track.AlbumArtistID)
	if err != nil {
		return
	}

	err = e.store.MoveTracks([]int64{trackID}, []string{artist.Name}, []string{album.Name}, e.settings.MediaRoot)
	if err != nil {
		e.log.Warn("track relocation failed", "track", trackID, "err", err)
	}
}

func (e *Engine) handleExtractCovers(r ExtractCovers) {
	e.emit(Progress{Phase: PhaseCoverExtract})

	albumIDs := r.AlbumIDs
	if albumIDs == nil {
		ids, err := e.store.AlbumsMissingCovers()
		if err != nil {
			e.fail(errmsg.OpCoverExtract, "", err)
			return
		}
		albumIDs = ids
	}

	extracted, err := e.store.ExtractCovers(albumIDs, func(path string) *catalog.CoverImage {
		meta, err := e.probeFile(path)
		if err != nil || meta.Cover == nil {
			return nil
		}
		return &catalog.CoverImage{MIMEType: meta.Cover.MIMEType, Data: meta.Cover.Data}
	})
	if err != nil {
		e.fail(errmsg.OpCoverExtract, "", err)
		return
	}

	e.log.Debug("cover extraction finished", "albums", len(albumIDs), "extracted", extracted)
	e.emit(Progress{Phase: PhaseCoverExtract, Current: extracted, Done: true})
	e.emitStats()
}

func (e *Engine) emitPlaylists() {
	playlists, err := e.store.Playlists()
	if err != nil {
		e.fail(errmsg.OpCatalogQuery, "playlists", err)
		return
	}
	e.emit(PlaylistsChanged{Playlists: playlists})
}

// emitStats publishes fresh statistics and a full entity snapshot.
// Every catalog mutation ends here so front ends never go stale.
func (e *Engine) emitStats() {
	stats, err := e.store.Stats()
	if err != nil {
		e.log.Warn("stats query failed", "err", err)
		return
	}
	e.emit(CatalogChanged{Stats: stats})
	e.emitSnapshot()
}

func (e *Engine) emitSnapshot() {
	var (
		snap CatalogSnapshot
		err  error
	)
	if snap.Tracks, err = e.store.Tracks(); err != nil {
		e.fail(errmsg.OpCatalogQuery, "tracks", err)
		return
	}
	if snap.Albums, err = e.store.Albums(); err != nil {
		e.fail(errmsg.OpCatalogQuery, "albums", err)
		return
	}
	if snap.Artists, err = e.store.Artists(); err != nil {
		e.fail(errmsg.OpCatalogQuery, "artists", err)
		return
	}
	if snap.Composers, err = e.store.Composers(); err != nil {
		e.fail(errmsg.OpCatalogQuery, "composers", err)
		return
	}
	if snap.Genres, err = e.store.Genres(); err != nil {
		e.fail(errmsg.OpCatalogQuery, "genres", err)
		return
	}
	e.emit(snap)
}

func (e *Engine) fail(op errmsg.Op, context string, err error) {
	e.log.Error(errmsg.FormatWith(op, context, err))
	e.emit(RequestFailed{Op: op, Context: context, Err: err})
}

// emit sends an event without blocking; a slow front end loses events.
func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		e.log.Debug("event dropped", "event", ev)
	}
}

// sendPlayback delivers data to the orchestrator, giving up on
// shutdown rather than blocking forever.
func (e *Engine) sendPlayback(ctx context.Context, data PlaybackData) {
	select {
	case e.playback <- data:
	case <-ctx.Done():
	}
}
