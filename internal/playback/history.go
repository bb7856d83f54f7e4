package playback

import (
	"sort"

	"github.com/mkeller/aria/internal/catalog"
)

// History holds already-played tracks, oldest first.
type History struct {
	tracks []catalog.AudioTrack
}

// Len returns the number of tracks in the history.
func (h *History) Len() int { return len(h.tracks) }

// Tracks returns the history contents, oldest first.
func (h *History) Tracks() []catalog.AudioTrack { return h.tracks }

// IDs returns the history track ids, oldest first.
func (h *History) IDs() []int64 {
	ids := make([]int64, len(h.tracks))
	for i, t := range h.tracks {
		ids[i] = t.ID
	}
	return ids
}

// Clear empties the history.
func (h *History) Clear() { h.tracks = nil }

// Push appends a track to the history.
func (h *History) Push(t catalog.AudioTrack) {
	h.tracks = append(h.tracks, t)
}

// PopLast removes and returns the most recent track.
func (h *History) PopLast() (catalog.AudioTrack, bool) {
	if len(h.tracks) == 0 {
		return catalog.AudioTrack{}, false
	}
	t := h.tracks[len(h.tracks)-1]
	h.tracks = h.tracks[:len(h.tracks)-1]
	return t, true
}

// At returns the track at index without removing it.
func (h *History) At(index int) (catalog.AudioTrack, bool) {
	if index < 0 || index >= len(h.tracks) {
		return catalog.AudioTrack{}, false
	}
	return h.tracks[index], true
}

// Seed replaces the history contents.
func (h *History) Seed(tracks []catalog.AudioTrack) {
	h.tracks = tracks
}

// RemoveIndices removes the given positions in descending index order.
func (h *History) RemoveIndices(indices []int) {
	sorted := append([]int{}, indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, i := range sorted {
		if i >= 0 && i < len(h.tracks) {
			h.tracks = append(h.tracks[:i], h.tracks[i+1:]...)
		}
	}
}
