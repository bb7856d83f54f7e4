// Package player wraps the beep playback stack behind a small
// interface the playback orchestrator drives. One track plays at a
// time; natural end of track is signalled on FinishedChan.
package player

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

type State int

const (
	Stopped State = iota
	Playing
	Paused
)

type Player struct {
	state    State
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	streamer beep.StreamSeekCloser
	format   beep.Format
	file     *os.File

	volumeLevel float64
	muted       bool

	finishedCh chan struct{}
}

var (
	speakerInitialized bool
	speakerRate        beep.SampleRate
)

// outputStream adapts a track stream to the speaker's sample rate.
// The speaker is initialized once at the first track's rate; later
// tracks with a different rate are resampled instead of playing
// mis-pitched.
func outputStream(src beep.Streamer, from, to beep.SampleRate) beep.Streamer {
	if from == to {
		return src
	}
	return beep.Resample(4, from, to, src)
}

func New() *Player {
	return &Player{
		state:       Stopped,
		volumeLevel: 1,
		finishedCh:  make(chan struct{}, 1),
	}
}

// Play stops any current track and starts the file at path.
func (p *Player) Play(path string) error {
	p.Stop()

	f, err := os.Open(path)
	if err != nil {
		return err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return fmt.Errorf("unsupported format: %s", ext)
	}
	if err != nil {
		f.Close()
		return err
	}

	if !speakerInitialized {
		err = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
		if err != nil {
			streamer.Close()
			f.Close()
			return err
		}
		speakerInitialized = true
		speakerRate = format.SampleRate
	}

	p.file = f
	p.streamer = streamer
	p.format = format
	p.ctrl = &beep.Ctrl{Streamer: streamer, Paused: false}

	p.volume = &effects.Volume{
		Streamer: outputStream(p.ctrl, format.SampleRate, speakerRate),
		Base:     2,
		Volume:   levelToVolume(p.volumeLevel),
		Silent:   p.muted,
	}
	p.state = Playing

	speaker.Play(beep.Seq(p.volume, beep.Callback(func() {
		select {
		case p.finishedCh <- struct{}{}:
		default:
		}
	})))

	return nil
}

// FinishedChan signals natural end of track. Buffered; a missed signal
// is replaced by the next one.
func (p *Player) FinishedChan() <-chan struct{} {
	return p.finishedCh
}
