// Package audio plays the preview page's synthesized track.
package audio

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Options configures a Player.
type Options struct {
	Enabled  bool
	Volume   float64 // effects.Volume exponent, base 2; 0 is unity gain
	TempoBPM int
}

// Player is the play/pause audio widget. When no audio device is available
// it runs in silent mode: Toggle still flips the playing state so the rest
// of the page reacts, but nothing is heard.
type Player struct {
	opts   Options
	logger *log.Logger

	mu          sync.Mutex
	track       *Track
	ctrl        *beep.Ctrl
	volume      *effects.Volume
	initialized bool
	silent      bool
	playing     bool
}

// NewPlayer creates a paused player. Call Init before the first Toggle.
func NewPlayer(opts Options, logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	track := NewTrack(sampleRate, opts.TempoBPM)
	ctrl := &beep.Ctrl{Streamer: track, Paused: true}
	return &Player{
		opts:   opts,
		logger: logger,
		track:  track,
		ctrl:   ctrl,
		volume: &effects.Volume{Streamer: ctrl, Base: 2, Volume: opts.Volume, Silent: false},
		silent: !opts.Enabled,
	}
}

// Init opens the speaker. Failure switches the player to silent mode and
// is not returned as an error.
func (p *Player) Init() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized || p.silent {
		return
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		p.logger.Warn("audio unavailable, running silent", "error", err)
		p.silent = true
		return
	}

	speaker.Play(p.volume)
	p.initialized = true
}

// Silent reports whether the player produces no sound.
func (p *Player) Silent() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.silent
}

// Playing reports whether the track is playing.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Progress returns how far through the loop the track is, in [0, 1).
func (p *Player) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return float64(p.track.Position()) / float64(p.track.Len())
}

// Toggle flips between play and pause and returns the new state.
func (p *Player) Toggle() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setPlaying(!p.playing)
	return p.playing
}

// Pause stops playback, keeping the position.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setPlaying(false)
}

func (p *Player) setPlaying(playing bool) {
	p.playing = playing
	if p.initialized {
		speaker.Lock()
		p.ctrl.Paused = !playing
		speaker.Unlock()
		return
	}
	p.ctrl.Paused = !playing
}

// Close pauses the track and detaches it from the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.setPlaying(false)
	if p.initialized {
		speaker.Clear()
		p.initialized = false
	}
}
