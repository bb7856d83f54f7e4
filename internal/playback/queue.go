package playback

import (
	"fmt"
	"sort"

	"github.com/mkeller/aria/internal/catalog"
)

// Queue holds the upcoming tracks in play order.
type Queue struct {
	tracks []catalog.AudioTrack
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int { return len(q.tracks) }

// Tracks returns the queue contents in order.
func (q *Queue) Tracks() []catalog.AudioTrack { return q.tracks }

// IDs returns the queued track ids in order.
func (q *Queue) IDs() []int64 {
	ids := make([]int64, len(q.tracks))
	for i, t := range q.tracks {
		ids[i] = t.ID
	}
	return ids
}

// Clear empties the queue.
func (q *Queue) Clear() { q.tracks = nil }

// Append adds tracks to the back of the queue.
func (q *Queue) Append(tracks ...catalog.AudioTrack) {
	q.tracks = append(q.tracks, tracks...)
}

// PushFront inserts a track at the head of the queue.
func (q *Queue) PushFront(t catalog.AudioTrack) {
	q.tracks = append([]catalog.AudioTrack{t}, q.tracks...)
}

// InsertAt inserts tracks at index, clamped to the queue bounds.
func (q *Queue) InsertAt(index int, tracks []catalog.AudioTrack) {
	if index < 0 {
		index = 0
	}
	if index > len(q.tracks) {
		index = len(q.tracks)
	}
	q.tracks = append(q.tracks[:index], append(append([]catalog.AudioTrack{}, tracks...), q.tracks[index:]...)...)
}

// Pop removes and returns the track at index.
func (q *Queue) Pop(index int) (catalog.AudioTrack, bool) {
	if index < 0 || index >= len(q.tracks) {
		return catalog.AudioTrack{}, false
	}
	t := q.tracks[index]
	q.tracks = append(q.tracks[:index], q.tracks[index+1:]...)
	return t, true
}

// DropThrough removes positions [0..index] and returns the track that
// was at index. The dropped entries are discarded, not played.
func (q *Queue) DropThrough(index int) (catalog.AudioTrack, bool) {
	if index < 0 || index >= len(q.tracks) {
		return catalog.AudioTrack{}, false
	}
	t := q.tracks[index]
	q.tracks = append([]catalog.AudioTrack{}, q.tracks[index+1:]...)
	return t, true
}

// RemoveIndices removes the given positions. Removal runs in
// descending index order so earlier removals cannot shift later ones.
func (q *Queue) RemoveIndices(indices []int) {
	sorted := append([]int{}, indices...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	for _, i := range sorted {
		if i >= 0 && i < len(q.tracks) {
			q.tracks = append(q.tracks[:i], q.tracks[i+1:]...)
		}
	}
}

// Reorder rearranges the queue to match the given id permutation.
// Every id must name a queued track and cover the whole queue.
func (q *Queue) Reorder(ids []int64) error {
	if len(ids) != len(q.tracks) {
		return fmt.Errorf("reorder: got %d ids for %d queued tracks", len(ids), len(q.tracks))
	}
	byID := make(map[int64]catalog.AudioTrack, len(q.tracks))
	for _, t := range q.tracks {
		byID[t.ID] = t
	}
	reordered := make([]catalog.AudioTrack, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return fmt.Errorf("reorder: track %d is not queued", id)
		}
		delete(byID, id)
		reordered = append(reordered, t)
	}
	q.tracks = reordered
	return nil
}
