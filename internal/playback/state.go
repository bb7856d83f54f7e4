package playback

import "github.com/mkeller/aria/internal/catalog"

// RepeatMode controls requeue behavior when a track ends.
type RepeatMode int

const (
	RepeatNone RepeatMode = iota
	RepeatQueue
	RepeatTrack
)

func (r RepeatMode) String() string {
	switch r {
	case RepeatNone:
		return "none"
	case RepeatQueue:
		return "queue"
	case RepeatTrack:
		return "track"
	}
	return "unknown"
}

// Cycle returns the next mode in the none -> queue -> track rotation.
func (r RepeatMode) Cycle() RepeatMode {
	switch r {
	case RepeatNone:
		return RepeatQueue
	case RepeatQueue:
		return RepeatTrack
	default:
		return RepeatNone
	}
}

// AudioState is the per-cycle partial state update emitted toward the
// front end. Playing, Shuffle, Repeat and Position are always set;
// pointer and slice fields are present only when that part of the
// state changed this cycle. The front end reconciles partial updates
// into its full view.
type AudioState struct {
	Playing  bool       `json:"is_playing"`
	Shuffle  bool       `json:"shuffle"`
	Repeat   RepeatMode `json:"repeat"`
	Position int64      `json:"position"` // milliseconds

	Volume   *int   `json:"volume,omitempty"`
	Muted    *bool  `json:"muted,omitempty"`
	Duration *int64 `json:"duration,omitempty"` // milliseconds

	// Current with a zero ID means the current track was cleared.
	Current *catalog.AudioTrack  `json:"current,omitempty"`
	Queue   []catalog.AudioTrack `json:"queue,omitempty"`
	History []catalog.AudioTrack `json:"history,omitempty"`
}
