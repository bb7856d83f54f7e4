// Package probe reads best-effort tag metadata and audio stream
// properties from music files. It is a pure adapter: no state, no
// catalog knowledge.
package probe

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
	"go.senan.xyz/taglib"
)

// File extensions supported by the probe.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtOPUS = ".opus"
	ExtOGG  = ".ogg"
	ExtM4A  = ".m4a"
	ExtMP4  = ".mp4"
	ExtWAV  = ".wav"
)

// Image is an embedded cover picture.
type Image struct {
	MIMEType string
	Data     []byte
}

// Meta is the probe result for a single file.
type Meta struct {
	Title       string
	Artist      string
	AlbumArtist string
	Composer    string
	Album       string
	Genre       string
	Kind        string // codec/container name

	DiscNumber  int
	DiscCount   int
	TrackNumber int
	TrackCount  int

	Year        int
	ReleaseDate string

	DurationMS int64
	SampleRate int
	BitRate    int

	Cover *Image
}

// IsMusicFile returns true if the path has a supported music file extension.
func IsMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3, ExtFLAC, ExtOPUS, ExtOGG, ExtM4A, ExtMP4, ExtWAV:
		return true
	}
	return false
}

// Probe reads tags and stream properties from a music file.
// Tag fields are best-effort: a file with unreadable tags but a
// decodable stream still probes successfully with empty tag fields.
func Probe(path string) (*Meta, error) {
	meta := &Meta{}

	if err := readTags(path, meta); err != nil {
		// dhowden/tag fails on some valid files, fall back to taglib
		// for the textual fields before giving up.
		if terr := readTagsWithTaglib(path, meta); terr != nil {
			return nil, err
		}
	}

	if meta.Title == "" {
		meta.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if meta.Year == 0 && meta.ReleaseDate != "" {
		meta.Year = YearFromDate(meta.ReleaseDate)
	}

	readProperties(path, meta)

	return meta, nil
}

func readTags(path string, meta *Meta) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return err
	}

	meta.Title = m.Title()
	meta.Artist = m.Artist()
	meta.AlbumArtist = m.AlbumArtist()
	meta.Composer = m.Composer()
	meta.Album = m.Album()
	meta.Genre = m.Genre()
	meta.Year = m.Year()
	meta.Kind = string(m.FileType())
	meta.TrackNumber, meta.TrackCount = m.Track()
	meta.DiscNumber, meta.DiscCount = m.Disc()

	if pic := m.Picture(); pic != nil && len(pic.Data) > 0 {
		meta.Cover = &Image{MIMEType: pic.MIMEType, Data: pic.Data}
	}

	return nil
}

func readTagsWithTaglib(path string, meta *Meta) error {
	raw, err := taglib.ReadTags(path)
	if err != nil {
		return err
	}

	get := func(key string) string {
		if vs := raw[key]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}
	getInt := func(key string) int {
		n, _ := strconv.Atoi(get(key))
		return n
	}

	meta.Title = get(taglib.Title)
	meta.Artist = get(taglib.Artist)
	meta.AlbumArtist = get(taglib.AlbumArtist)
	meta.Composer = get(taglib.Composer)
	meta.Album = get(taglib.Album)
	meta.Genre = get(taglib.Genre)
	meta.ReleaseDate = get(taglib.Date)
	meta.TrackNumber = getInt(taglib.TrackNumber)
	meta.TrackCount = getInt("TOTALTRACKS")
	meta.DiscNumber = getInt(taglib.DiscNumber)
	meta.DiscCount = getInt("TOTALDISCS")
	meta.Kind = strings.TrimPrefix(strings.ToUpper(filepath.Ext(path)), ".")

	return nil
}

// readProperties fills duration, sample rate and bit rate.
// Failure leaves the fields zero; tags alone are enough to import.
func readProperties(path string, meta *Meta) {
	props, err := taglib.ReadProperties(path)
	if err != nil {
		return
	}
	meta.DurationMS = props.Length.Milliseconds()
	meta.SampleRate = int(props.SampleRate)
	meta.BitRate = int(props.Bitrate)
}

// YearFromDate extracts a four-digit year from a date string such as
// "2021-03-26" or "2021". Returns 0 if none is found.
func YearFromDate(date string) int {
	for i := 0; i+4 <= len(date); i++ {
		if !isDigit(date[i]) {
			continue
		}
		j := i
		for j < len(date) && isDigit(date[j]) {
			j++
		}
		if j-i == 4 {
			y, _ := strconv.Atoi(date[i:j])
			return y
		}
		i = j
	}
	return 0
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
