package playback

import "time"

// Command is a transport command from the front end. Commands are
// processed strictly in arrival order.
type Command interface{ isCommand() }

// PlayPause toggles between playing and paused. When stopped with a
// restored current track it starts that track instead.
type PlayPause struct{}

// Next advances to the next queued track.
type Next struct{}

// Prev returns to the most recent history entry, requeueing the
// current track at the queue head.
type Prev struct{}

// QueueJump plays the queued track at Index; entries before it are
// dropped without entering the history.
type QueueJump struct {
	Index int
}

// QueueMove reorders the queue to match the id permutation.
type QueueMove struct {
	IDs []int64
}

// QueueRemove removes the given queue positions.
type QueueRemove struct {
	Indices []int
}

// HistoryJump plays the history entry at Index. The history itself is
// left intact apart from the old current track being appended.
type HistoryJump struct {
	Index int
}

// HistoryRemove removes the given history positions.
type HistoryRemove struct {
	Indices []int
}

// HistoryClear empties the history.
type HistoryClear struct{}

// Mute sets the mute state.
type Mute struct {
	Muted bool
}

// SetVolume sets the volume (0..100).
type SetVolume struct {
	Volume int
}

// Seek moves playback to an absolute position. Before playback has
// started for the session the position is buffered and applied at the
// first play-start.
type Seek struct {
	Position time.Duration
}

// Shuffle sets random queue selection.
type Shuffle struct {
	Enabled bool
}

// Repeat sets the repeat mode.
type Repeat struct {
	Mode RepeatMode
}

// Init requests a full state snapshot for a newly connected front end.
type Init struct{}

func (PlayPause) isCommand()     {}
func (Next) isCommand()          {}
func (Prev) isCommand()          {}
func (QueueJump) isCommand()     {}
func (QueueMove) isCommand()     {}
func (QueueRemove) isCommand()   {}
func (HistoryJump) isCommand()   {}
func (HistoryRemove) isCommand() {}
func (HistoryClear) isCommand()  {}
func (Mute) isCommand()          {}
func (SetVolume) isCommand()     {}
func (Seek) isCommand()          {}
func (Shuffle) isCommand()       {}
func (Repeat) isCommand()        {}
func (Init) isCommand()          {}
