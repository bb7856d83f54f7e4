package catalog

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	_ "image/png" // cover art decoding

	"github.com/nfnt/resize"
)

// maxCoverEdge is the largest dimension kept when storing cover art;
// bigger images are downscaled before encoding.
const maxCoverEdge = 600

// CoverImage is one embedded picture as returned by the metadata probe.
type CoverImage struct {
	MIMEType string
	Data     []byte
}

// CoverProbe extracts the embedded cover from a media file, returning
// nil when the file has none or cannot be read.
type CoverProbe func(path string) *CoverImage

// AlbumsMissingCovers returns ids of albums without cover art.
func (s *Store) AlbumsMissingCovers() ([]int64, error) {
	rows, err := s.db.Query(`SELECT album_id FROM Albums WHERE cover_id = 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ExtractCovers walks each album's tracks, probing files until one
// yields an embedded image, stores it as the album's cover and moves
// on. Albums whose tracks all lack art are left untouched. Returns the
// number of covers created.
func (s *Store) ExtractCovers(albumIDs []int64, probeCover CoverProbe) (int, error) {
	extracted := 0
	for _, albumID := range albumIDs {
		album, err := s.AlbumByID(albumID)
		if err != nil {
			return extracted, err
		}
		if album.CoverID != 0 {
			continue
		}

		tracks, err := s.AudioTracksByID(album.Tracks)
		if err != nil {
			return extracted, err
		}

		for _, t := range tracks {
			img := probeCover(t.Location)
			if img == nil {
				continue
			}
			if _, err := s.CoverID(albumID, EncodeCover(img)); err != nil {
				return extracted, err
			}
			extracted++
			break
		}
	}
	return extracted, nil
}

// EncodeCover converts an embedded image to the stored data-URI form,
// downscaling anything larger than maxCoverEdge on its longest side.
func EncodeCover(img *CoverImage) string {
	data, mime := img.Data, img.MIMEType

	if decoded, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		b := decoded.Bounds()
		if b.Dx() > maxCoverEdge || b.Dy() > maxCoverEdge {
			scaled := resize.Thumbnail(maxCoverEdge, maxCoverEdge, decoded, resize.Lanczos3)
			var buf bytes.Buffer
			if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: 90}); err == nil {
				data, mime = buf.Bytes(), "image/jpeg"
			}
		}
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
