// Package importer ingests a legacy-library XML export (Apple-style
// property list) into the catalog. The document is consumed as a token
// stream and never materialized: the outer scanner seeks the two
// top-level collections and hands each to a dedicated extractor that
// consumes exactly that subtree before returning control.
package importer

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mkeller/aria/internal/catalog"
)

// flushSize bounds in-memory track accumulation; each flush goes
// through the batched insert path.
const flushSize = 1000

// Importer performs one legacy-library import against a store.
type Importer struct {
	store    *catalog.Store
	log      *log.Logger
	progress func(imported int)
}

// New creates an importer. progress may be nil.
func New(store *catalog.Store, logger *log.Logger, progress func(imported int)) *Importer {
	if logger == nil {
		logger = log.Default()
	}
	if progress == nil {
		progress = func(int) {}
	}
	return &Importer{store: store, log: logger.WithPrefix("import"), progress: progress}
}

// ImportFile imports the library export at path.
func (im *Importer) ImportFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	return im.Import(f)
}

// Import consumes the document from r. The scanner watches for a <key>
// at the top dict level naming "Tracks" or "Playlists"; the element
// following such a key is the collection subtree and is handed to its
// extractor. Tracks precede Playlists in every known export, so
// playlist references resolve against the freshly imported tracks.
func (im *Importer) Import(r io.Reader) error {
	dec := xml.NewDecoder(r)

	var (
		depth   int
		inKey   bool
		keyText strings.Builder
		section string
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parse library: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case section == "Tracks" && t.Name.Local == "dict":
				if err := im.importTracks(dec); err != nil {
					return err
				}
				section = ""
			case section == "Playlists" && t.Name.Local == "array":
				if err := im.importPlaylists(dec); err != nil {
					return err
				}
				section = ""
			case depth == 2 && t.Name.Local == "key":
				inKey = true
				keyText.Reset()
				depth++
			default:
				depth++
			}
		case xml.CharData:
			if inKey {
				keyText.Write(t)
			}
		case xml.EndElement:
			depth--
			if inKey && t.Name.Local == "key" {
				inKey = false
				switch name := keyText.String(); name {
				case "Tracks", "Playlists":
					section = name
				}
			}
		}
	}
}

// importTracks consumes the "Tracks" <dict>: a mapping from origin
// track id (as <key>) to a per-track attribute <dict>. Records are
// flushed in batches to bound memory.
func (im *Importer) importTracks(dec *xml.Decoder) error {
	var (
		depth    = 1
		inKey    bool
		keyText  strings.Builder
		originID int64
		batch    []catalog.Track
		imported int
	)
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("parse tracks: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case depth == 1 && t.Name.Local == "key":
				inKey = true
				keyText.Reset()
				depth++
			case depth == 1 && t.Name.Local == "dict" && originID != 0:
				track, ok, err := im.extractTrack(dec, originID)
				if err != nil {
					return err
				}
				originID = 0
				if !ok {
					continue
				}
				batch = append(batch, track)
				imported++
				im.progress(imported)
				if len(batch) >= flushSize {
					if err := im.store.InsertTracks(batch); err != nil {
						return err
					}
					batch = batch[:0]
				}
			default:
				depth++
			}
		case xml.CharData:
			if inKey {
				keyText.Write(t)
			}
		case xml.EndElement:
			depth--
			if inKey && t.Name.Local == "key" {
				inKey = false
				originID, _ = strconv.ParseInt(strings.TrimSpace(keyText.String()), 10, 64)
			}
		}
	}

	im.log.Info("tracks imported", "count", imported)
	return im.store.InsertTracks(batch)
}

// extractTrack consumes one per-track <dict> subtree and builds the
// catalog row. Composer and genre resolve as values arrive; artist,
// album artist and album resolve at the end because album needs the
// album-artist id. The record is accepted only when its "Track ID"
// value matches the mapping key it was filed under.
func (im *Importer) extractTrack(dec *xml.Decoder, originID int64) (catalog.Track, bool, error) {
	var (
		track catalog.Track

		artist      string
		sortArtist  string
		albumArtist string
		album       string
		sortAlbum   string
	)

	apply := func(key, text string) error {
		var err error
		switch key {
		case "Track ID":
			track.OriginID = parseInt64(text)
		case "Name":
			track.Name = text
		case "Artist":
			artist = text
		case "Sort Artist":
			sortArtist = text
		case "Album Artist":
			albumArtist = text
		case "Album":
			album = text
		case "Sort Album":
			sortAlbum = text
		case "Composer":
			track.ComposerID, err = im.store.ComposerID(text)
		case "Genre":
			track.GenreID, err = im.store.GenreID(text)
		case "Kind":
			track.Kind = text
		case "Size":
			track.Size = parseInt64(text)
		case "Total Time":
			track.TotalTime = parseInt64(text)
		case "Disc Number":
			track.DiscNumber = parseInt(text)
		case "Disc Count":
			track.DiscCount = parseInt(text)
		case "Track Number":
			track.TrackNumber = parseInt(text)
		case "Track Count":
			track.TrackCount = parseInt(text)
		case "Year":
			track.Year = parseInt(text)
		case "Date Modified":
			track.DateModified = text
		case "Date Added":
			track.DateAdded = text
		case "Bit Rate":
			track.BitRate = parseInt(text)
		case "Sample Rate":
			track.SampleRate = parseInt(text)
		case "Release Date":
			track.ReleaseDate = text
		case "Normalization":
			track.Normalization = parseInt(text)
		case "Artwork Count":
			track.ArtworkCount = parseInt(text)
		case "Sort Name":
			track.SortName = text
		case "Persistent ID":
			track.PersistentID = text
		case "Track Type":
			track.TrackType = text
		case "Location":
			track.Location = decodeLocation(text)
		case "File Folder Count":
			track.FileFolderCount = parseInt(text)
		case "Library Folder Count":
			track.LibraryFolderCount = parseInt(text)
		}
		return err
	}
	applyBool := func(key string, value bool) {
		switch key {
		case "Purchased":
			track.Purchased = value
		case "Has Video":
			track.HasVideo = value
		case "Music Video":
			track.MusicVideo = value
		}
	}

	err := im.consumeRecord(dec, apply, applyBool, nil)
	if err != nil {
		return track, false, err
	}

	// Empty-name lookups land on the sentinel rows.
	track.ArtistID, err = im.store.ArtistID(artist, sortArtist)
	if err != nil {
		return track, false, err
	}
	if track.ComposerID == 0 {
		if track.ComposerID, err = im.store.ComposerID(""); err != nil {
			return track, false, err
		}
	}
	if track.GenreID == 0 {
		if track.GenreID, err = im.store.GenreID(""); err != nil {
			return track, false, err
		}
	}

	// Missing album artist falls back to the track artist; the reverse
	// fallback covers compilations tagged only at album level.
	if albumArtist != "" {
		track.AlbumArtistID, err = im.store.ArtistID(albumArtist, "")
		if err != nil {
			return track, false, err
		}
		if artist == "" {
			track.ArtistID = track.AlbumArtistID
		}
	} else {
		track.AlbumArtistID = track.ArtistID
	}

	dates := &catalog.ImportDates{DateModified: track.DateModified, DateAdded: track.DateAdded}
	track.AlbumID, err = im.store.AlbumID(album, sortAlbum, track.AlbumArtistID, track.GenreID,
		track.Year, track.ReleaseDate, dates)
	if err != nil {
		return track, false, err
	}

	if track.OriginID != originID {
		im.log.Warn("track id mismatch, record skipped", "key", originID, "track", track.OriginID)
		return track, false, nil
	}
	return track, true, nil
}

// importPlaylists consumes the "Playlists" <array> of per-playlist
// dicts. Each playlist inserts individually; they are few.
func (im *Importer) importPlaylists(dec *xml.Decoder) error {
	// Origin ids map to assigned ids once, after all tracks are in.
	originMap, err := im.store.OriginIDMap()
	if err != nil {
		return err
	}

	depth := 1
	count := 0
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("parse playlists: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 1 && t.Name.Local == "dict" {
				playlist, err := im.extractPlaylist(dec, originMap)
				if err != nil {
					return err
				}
				if err := im.store.InsertPlaylist(playlist); err != nil {
					return err
				}
				count++
				continue
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}

	im.log.Info("playlists imported", "count", count)
	return nil
}

func (im *Importer) extractPlaylist(dec *xml.Decoder, originMap map[int64]int64) (catalog.Playlist, error) {
	var p catalog.Playlist

	apply := func(key, text string) error {
		switch key {
		case "Playlist ID":
			p.OriginID = parseInt64(text)
		case "Name":
			p.Name = text
		case "Description":
			p.Description = text
		case "Playlist Persistent ID":
			p.PersistentID = text
		case "Parent Persistent ID":
			p.ParentPersistentID = text
		case "Distinguished Kind":
			p.DistinguishedKind = parseInt(text)
		}
		return nil
	}
	applyBool := func(key string, value bool) {
		switch key {
		case "Master":
			p.Master = value
		case "Visible":
			p.Visible = value
		case "All Items":
			p.AllItems = value
		case "Folder":
			p.Folder = value
		}
	}
	applyArray := func(key string) (bool, error) {
		if key != "Playlist Items" {
			return false, nil
		}
		origins, err := im.collectItemIDs(dec)
		if err != nil {
			return true, err
		}
		p.Tracks = resolveReferences(origins, originMap)
		return true, nil
	}

	err := im.consumeRecord(dec, apply, applyBool, applyArray)
	return p, err
}

// collectItemIDs consumes a "Playlist Items" <array>, returning the
// origin track ids in playlist order.
func (im *Importer) collectItemIDs(dec *xml.Decoder) ([]int64, error) {
	var (
		depth   = 1
		origins []int64
		inValue bool
		text    strings.Builder
	)
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse playlist items: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "integer" {
				inValue = true
				text.Reset()
			}
			depth++
		case xml.CharData:
			if inValue {
				text.Write(t)
			}
		case xml.EndElement:
			depth--
			if inValue && t.Name.Local == "integer" {
				inValue = false
				origins = append(origins, parseInt64(text.String()))
			}
		}
	}
	return origins, nil
}

// consumeRecord drives one attribute <dict> subtree: <key> names an
// attribute, the following element carries its value. Text content may
// arrive split across several character-data tokens (escapes force a
// split), so fragments accumulate until the value element closes.
// Boolean attributes are empty <true/>/<false/> elements. applyArray,
// when non-nil, gets a chance to consume an <array> value subtree
// itself; it reports whether it did.
func (im *Importer) consumeRecord(
	dec *xml.Decoder,
	apply func(key, text string) error,
	applyBool func(key string, value bool),
	applyArray func(key string) (bool, error),
) error {
	var (
		depth       = 1
		inKey       bool
		expectValue bool
		inValue     bool
		curKey      string
		keyText     strings.Builder
		valText     strings.Builder
	)
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("parse record: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "key":
				inKey = true
				expectValue = false
				inValue = false
				keyText.Reset()
				depth++
			case expectValue && t.Name.Local == "array" && applyArray != nil:
				expectValue = false
				consumed, err := applyArray(curKey)
				if err != nil {
					return err
				}
				if !consumed {
					depth++
				}
			case expectValue:
				expectValue = false
				inValue = true
				valText.Reset()
				depth++
			default:
				depth++
			}
		case xml.CharData:
			switch {
			case inKey:
				keyText.Write(t)
			case inValue:
				valText.Write(t)
			}
		case xml.EndElement:
			depth--
			switch {
			case inKey && t.Name.Local == "key":
				inKey = false
				expectValue = true
				curKey = keyText.String()
			case inValue:
				inValue = false
				switch t.Name.Local {
				case "true":
					applyBool(curKey, true)
				case "false":
					applyBool(curKey, false)
				default:
					if err := apply(curKey, valText.String()); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// resolveReferences maps origin track ids to assigned catalog ids. An
// origin id never seen among imported tracks stays in the list as a
// dangling reference instead of being dropped.
func resolveReferences(origins []int64, originMap map[int64]int64) []catalog.TrackRef {
	refs := make([]catalog.TrackRef, 0, len(origins))
	for _, origin := range origins {
		if id, ok := originMap[origin]; ok {
			refs = append(refs, catalog.ResolvedRef(id))
		} else {
			refs = append(refs, catalog.DanglingRef(origin))
		}
	}
	return refs
}

// decodeLocation turns an exported file URL into a local path:
// percent-decoded, the file:// scheme stripped, and combining
// diaereses folded into precomposed umlauts so the path matches what
// the filesystem stores.
func decodeLocation(text string) string {
	decoded, err := url.PathUnescape(text)
	if err != nil {
		decoded = text
	}
	decoded = strings.TrimPrefix(decoded, "file://")
	return foldDiaereses(decoded)
}

var diaeresisFolder = strings.NewReplacer(
	"ä", "ä",
	"Ä", "Ä",
	"ö", "ö",
	"Ö", "Ö",
	"ü", "ü",
	"Ü", "Ü",
)

func foldDiaereses(s string) string {
	return diaeresisFolder.Replace(s)
}

func parseInt64(s string) int64 {
	v, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return v
}

func parseInt(s string) int {
	return int(parseInt64(s))
}
