// Package playback runs the playback orchestrator actor: a single
// goroutine owning queue, history and current track, multiplexing
// transport commands, decode-engine events and catalog responses
// through one blocking select.
package playback

import (
	"context"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mkeller/aria/internal/catalog"
	"github.com/mkeller/aria/internal/engine"
	"github.com/mkeller/aria/internal/errmsg"
	"github.com/mkeller/aria/internal/player"
)

// Orchestrator owns the playback state machine. All state access
// happens on the Run goroutine.
type Orchestrator struct {
	player   player.Interface
	session  *SessionStore
	log      *log.Logger
	requests chan<- engine.Request
	data     <-chan engine.PlaybackData
	commands chan Command
	states   chan AudioState

	queue   Queue
	history History
	current *catalog.AudioTrack
	shuffle bool
	repeat  RepeatMode
	volume  int
	muted   bool

	// pendingSeek buffers a resume position until playback actually
	// starts; the decode engine rejects seeks on a stopped stream.
	pendingSeek *time.Duration

	rng *rand.Rand

	dirty dirtyFlags
}

type dirtyFlags struct {
	volume   bool
	muted    bool
	duration bool
	current  bool
	queue    bool
	history  bool
}

func (d *dirtyFlags) all() {
	*d = dirtyFlags{volume: true, muted: true, duration: true, current: true, queue: true, history: true}
}

// New creates an orchestrator. volume is the configured default,
// overridden by a restored session. session may be nil to disable
// persistence.
func New(p player.Interface, session *SessionStore, requests chan<- engine.Request, data <-chan engine.PlaybackData, volume int, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		player:   p,
		session:  session,
		log:      logger.WithPrefix("playback"),
		requests: requests,
		data:     data,
		commands: make(chan Command, 64),
		states:   make(chan AudioState, 64),
		volume:   clampVolume(volume),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Commands is the orchestrator inbox.
func (o *Orchestrator) Commands() chan<- Command { return o.commands }

// States is the partial-update stream toward the front end. Slow
// consumers lose updates rather than blocking the orchestrator.
func (o *Orchestrator) States() <-chan AudioState { return o.states }

// Run restores the previous session, then processes all three inbound
// streams until ctx is canceled.
func (o *Orchestrator) Run(ctx context.Context) {
	o.restore(ctx)
	o.player.SetVolume(float64(o.volume) / 100)
	o.dirty.all()
	o.emitState()

	for {
		select {
		case <-ctx.Done():
			o.persist()
			return
		case cmd := <-o.commands:
			o.handleCommand(cmd)
			o.persist()
			o.emitState()
		case <-o.player.FinishedChan():
			o.handleFinished()
			o.persist()
			o.emitState()
		case d := <-o.data:
			o.handleData(d)
			o.persist()
			o.emitState()
		}
	}
}

// restore applies the persisted snapshot and asks the catalog engine
// to resolve the saved queue and history ids. A missing or malformed
// snapshot means a fresh session.
func (o *Orchestrator) restore(ctx context.Context) {
	if o.session == nil {
		return
	}
	snap, ok := o.session.Load()
	if !ok {
		o.log.Debug("no previous session")
		return
	}

	o.volume = clampVolume(snap.Volume)
	o.shuffle = snap.Shuffle
	o.repeat = snap.Repeat
	o.current = snap.Current
	if snap.Position > 0 && o.current != nil {
		pos := time.Duration(snap.Position) * time.Millisecond
		o.pendingSeek = &pos
	}

	if len(snap.Queue) == 0 && len(snap.History) == 0 {
		return
	}
	select {
	case o.requests <- engine.RecoverSession{HistoryIDs: snap.History, QueueIDs: snap.Queue}:
	case <-ctx.Done():
	}
}

func (o *Orchestrator) handleCommand(cmd Command) {
	switch c := cmd.(type) {
	case PlayPause:
		if o.player.State() == player.Stopped {
			if o.current != nil {
				o.startCurrent(true)
			} else {
				o.pickNext(true)
			}
			return
		}
		o.player.Toggle()

	case Next:
		o.advance(o.player.State() == player.Playing)

	case Prev:
		prev, ok := o.history.PopLast()
		if !ok {
			// Nothing before the current track: stop playback but
			// keep the track loaded so PlayPause restarts it.
			o.player.Stop()
			return
		}
		o.dirty.history = true
		if o.current != nil {
			o.queue.PushFront(*o.current)
			o.dirty.queue = true
		}
		o.setCurrent(&prev)
		o.startCurrent(true)

	case QueueJump:
		t, ok := o.queue.DropThrough(c.Index)
		if !ok {
			o.log.Warn("queue jump out of range", "index", c.Index, "len", o.queue.Len())
			return
		}
		o.dirty.queue = true
		if o.current != nil {
			o.history.Push(*o.current)
			o.dirty.history = true
		}
		o.setCurrent(&t)
		o.startCurrent(true)

	case QueueMove:
		if err := o.queue.Reorder(c.IDs); err != nil {
			o.log.Warn("queue move rejected", "err", err)
			return
		}
		o.dirty.queue = true

	case QueueRemove:
		o.queue.RemoveIndices(c.Indices)
		o.dirty.queue = true

	case HistoryJump:
		t, ok := o.history.At(c.Index)
		if !ok {
			o.log.Warn("history jump out of range", "index", c.Index, "len", o.history.Len())
			return
		}
		if o.current != nil {
			o.history.Push(*o.current)
		}
		o.dirty.history = true
		o.setCurrent(&t)
		o.startCurrent(true)

	case HistoryRemove:
		o.history.RemoveIndices(c.Indices)
		o.dirty.history = true

	case HistoryClear:
		o.history.Clear()
		o.dirty.history = true

	case Mute:
		o.muted = c.Muted
		o.player.SetMuted(c.Muted)
		o.dirty.muted = true

	case SetVolume:
		o.volume = clampVolume(c.Volume)
		o.player.SetVolume(float64(o.volume) / 100)
		o.dirty.volume = true

	case Seek:
		if o.player.State() == player.Stopped {
			// Buffer until the first play-start; a later seek simply
			// replaces the buffered target.
			pos := c.Position
			o.pendingSeek = &pos
			return
		}
		o.player.SeekTo(c.Position)

	case Shuffle:
		o.shuffle = c.Enabled

	case Repeat:
		o.repeat = c.Mode

	case Init:
		o.dirty.all()
	}
}

// handleFinished reacts to natural end of track: the play count
// increments fire-and-forget, then playback advances.
func (o *Orchestrator) handleFinished() {
	if o.current != nil {
		select {
		case o.requests <- engine.RecordPlayed{TrackID: o.current.ID}:
		default:
			o.log.Debug("play count increment dropped", "track", o.current.ID)
		}
	}
	o.advance(true)
}

func (o *Orchestrator) handleData(d engine.PlaybackData) {
	switch r := d.(type) {
	case engine.PlayTracks:
		if o.current != nil {
			o.history.Push(*o.current)
			o.dirty.history = true
			o.current = nil
		}
		o.queue.Clear()
		o.queue.Append(r.Tracks...)
		o.dirty.queue = true
		o.pickNext(true)

	case engine.QueueInsertTracks:
		if r.Index != nil {
			o.queue.InsertAt(*r.Index, r.Tracks)
		} else {
			o.queue.Append(r.Tracks...)
		}
		o.dirty.queue = true

	case engine.RecoveredTracks:
		o.history.Seed(r.History)
		o.queue.Clear()
		o.queue.Append(r.Queue...)
		o.dirty.history = true
		o.dirty.queue = true
	}
}

// advance implements the end-of-track/Next transition: current moves
// to history, the repeat mode decides whether it re-enters the queue,
// then the next track is picked.
func (o *Orchestrator) advance(resume bool) {
	if o.current != nil {
		o.history.Push(*o.current)
		o.dirty.history = true
		switch o.repeat {
		case RepeatNone:
			// discarded
		case RepeatQueue:
			o.queue.Append(*o.current)
			o.dirty.queue = true
		case RepeatTrack:
			o.queue.PushFront(*o.current)
			o.dirty.queue = true
		}
		o.current = nil
	}
	o.pickNext(resume)
}

// pickNext removes the next track from the queue into current and
// starts it. Shuffle picks uniformly unless repeating a single track,
// which always re-picks the front.
func (o *Orchestrator) pickNext(resume bool) {
	if o.queue.Len() == 0 {
		o.player.Stop()
		o.setCurrent(nil)
		return
	}
	i := 0
	if o.shuffle && o.repeat != RepeatTrack {
		i = o.rng.Intn(o.queue.Len())
	}
	t, _ := o.queue.Pop(i)
	o.dirty.queue = true
	o.setCurrent(&t)
	o.startCurrent(resume)
}

// startCurrent loads the current track into the decode engine,
// applies a buffered resume position once, and pauses again when
// playback was not previously running.
func (o *Orchestrator) startCurrent(resume bool) {
	if o.current == nil {
		return
	}
	if err := o.player.Play(o.current.Location); err != nil {
		o.log.Error(errmsg.FormatWith(errmsg.OpPlaybackStart, o.current.Location, err))
		return
	}
	if o.pendingSeek != nil {
		o.player.SeekTo(*o.pendingSeek)
		o.pendingSeek = nil
	}
	if !resume {
		o.player.Pause()
	}
	o.dirty.duration = true
}

func (o *Orchestrator) setCurrent(t *catalog.AudioTrack) {
	o.current = t
	o.dirty.current = true
}

// persist overwrites the session snapshot. Failures are logged and do
// not undo the in-memory transition.
func (o *Orchestrator) persist() {
	if o.session == nil {
		return
	}
	pos := int64(o.player.Position() / time.Millisecond)
	if o.pendingSeek != nil {
		pos = int64(*o.pendingSeek / time.Millisecond)
	}
	snap := Snapshot{
		Volume:   o.volume,
		Position: pos,
		Shuffle:  o.shuffle,
		Repeat:   o.repeat,
		Current:  o.current,
		Queue:    o.queue.IDs(),
		History:  o.history.IDs(),
	}
	if err := o.session.Save(snap); err != nil {
		o.log.Warn(errmsg.Format(errmsg.OpSessionSave, err))
	}
}

// emitState sends one partial update: the always-on transport fields
// plus whatever was touched this cycle.
func (o *Orchestrator) emitState() {
	state := AudioState{
		Playing:  o.player.State() == player.Playing,
		Shuffle:  o.shuffle,
		Repeat:   o.repeat,
		Position: int64(o.player.Position() / time.Millisecond),
	}
	if o.dirty.volume {
		v := o.volume
		state.Volume = &v
	}
	if o.dirty.muted {
		m := o.muted
		state.Muted = &m
	}
	if o.dirty.duration {
		d := int64(o.player.Duration() / time.Millisecond)
		state.Duration = &d
	}
	if o.dirty.current {
		if o.current != nil {
			cur := *o.current
			state.Current = &cur
		} else {
			state.Current = &catalog.AudioTrack{}
		}
	}
	if o.dirty.queue {
		state.Queue = append([]catalog.AudioTrack{}, o.queue.Tracks()...)
	}
	if o.dirty.history {
		state.History = append([]catalog.AudioTrack{}, o.history.Tracks()...)
	}
	o.dirty = dirtyFlags{}

	select {
	case o.states <- state:
	default:
		o.log.Debug("state update dropped")
	}
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
