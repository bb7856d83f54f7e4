package player

import (
	"time"

	"github.com/gopxl/beep/v2/speaker"
)

// Stop stops playback and releases resources.
func (p *Player) Stop() {
	if p.state == Stopped {
		return
	}

	speaker.Clear()

	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	if p.file != nil {
		p.file.Close()
		p.file = nil
	}

	p.ctrl = nil
	p.volume = nil
	p.state = Stopped
}

// Pause pauses playback.
func (p *Player) Pause() {
	if p.state != Playing || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.state = Paused
}

// Resume resumes paused playback.
func (p *Player) Resume() {
	if p.state != Paused || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	p.state = Playing
}

// Toggle toggles between playing and paused states.
func (p *Player) Toggle() {
	switch p.state {
	case Playing:
		p.Pause()
	case Paused:
		p.Resume()
	case Stopped:
		// Nothing to toggle when stopped
	}
}

func (p *Player) State() State { return p.state }

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := p.format.SampleRate.D(p.streamer.Position())
	speaker.Unlock()
	return pos
}

// Duration returns the length of the current track.
func (p *Player) Duration() time.Duration {
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// Seek moves the playback position by the given delta.
func (p *Player) Seek(delta time.Duration) {
	if p.streamer == nil || p.state == Stopped {
		return
	}
	p.seekTo(p.streamer.Position() + p.format.SampleRate.N(delta))
}

// SeekTo moves the playback position to an absolute offset.
func (p *Player) SeekTo(pos time.Duration) {
	if p.streamer == nil || p.state == Stopped {
		return
	}
	p.seekTo(p.format.SampleRate.N(pos))
}

func (p *Player) seekTo(sample int) {
	maxPos := p.streamer.Len()
	if sample >= maxPos {
		// Seeking past the end ends the track.
		select {
		case p.finishedCh <- struct{}{}:
		default:
		}
		return
	}
	sample = max(sample, 0)

	speaker.Lock()
	if p.streamer != nil && p.state != Stopped {
		_ = p.streamer.Seek(sample)
	}
	speaker.Unlock()
}
