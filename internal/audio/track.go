package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Bar roots (bass) and the eighth-note lead pattern, both in Hz.
var (
	bassRoots = []float64{110.00, 87.31, 130.81, 98.00} // A2 F2 C3 G2
	leadNotes = [][]float64{
		{440.00, 523.25, 659.25, 523.25, 783.99, 659.25, 523.25, 659.25}, // Am
		{349.23, 440.00, 523.25, 440.00, 698.46, 523.25, 440.00, 523.25}, // F
		{523.25, 659.25, 783.99, 659.25, 1046.5, 783.99, 659.25, 783.99}, // C
		{392.00, 493.88, 587.33, 493.88, 783.99, 587.33, 493.88, 587.33}, // G
	}
)

const beatsPerBar = 4

// Track is the synthesized preview tune: a four-bar loop of kick, hat,
// bass and an arpeggiated lead. It never ends; pause it with a beep.Ctrl.
type Track struct {
	sr   beep.SampleRate
	beat int // samples per beat
	loop int // samples per loop
	pos  int
	seed int64
}

// NewTrack creates the tune at bpm beats per minute.
func NewTrack(sr beep.SampleRate, bpm int) *Track {
	if bpm < 1 {
		bpm = 120
	}
	beat := max(sr.N(time.Minute/time.Duration(bpm)), 2)
	return &Track{
		sr:   sr,
		beat: beat,
		loop: beat * beatsPerBar * len(bassRoots),
		seed: 1,
	}
}

// Len returns the number of samples in one loop.
func (t *Track) Len() int {
	return t.loop
}

// Position returns the current offset within the loop.
func (t *Track) Position() int {
	return t.pos % t.loop
}

func (t *Track) Stream(samples [][2]float64) (n int, ok bool) {
	eighth := max(t.beat/2, 1)
	for i := range samples {
		p := t.pos % t.loop
		bar := p / (t.beat * beatsPerBar)
		inBar := p % (t.beat * beatsPerBar)
		inBeat := p % t.beat
		inEighth := inBar % eighth
		step := min(inBar/eighth, 7)
		tb := float64(inBeat) / float64(t.sr)
		te := float64(inEighth) / float64(t.sr)
		abs := float64(p) / float64(t.sr)

		// Kick: pitch-dropping sine on every beat.
		kickEnv := math.Exp(-tb * 18)
		kick := 0.45 * kickEnv * math.Sin(2*math.Pi*(50+90*kickEnv)*tb)

		// Hat: short noise burst on the off-beat eighths.
		hat := 0.0
		t.seed = (t.seed*1103515245 + 12345) & 0x7fffffff
		if step%2 == 1 {
			noise := float64(t.seed)/float64(0x7fffffff)*2 - 1
			hat = 0.08 * math.Exp(-te*60) * noise
		}

		// Bass: saw-ish root, two harmonics.
		root := bassRoots[bar]
		bass := 0.14 * (math.Sin(2*math.Pi*root*abs) + 0.5*math.Sin(4*math.Pi*root*abs))

		// Lead: plucked square-ish tone.
		freq := leadNotes[bar][step]
		phase := math.Mod(freq*te, 1)
		square := 1.0
		if phase >= 0.5 {
			square = -1.0
		}
		lead := 0.07 * math.Exp(-te*9) * square

		s := clamp(kick + hat + bass + lead)
		samples[i][0] = s
		samples[i][1] = s
		t.pos++
	}
	return len(samples), true
}

func (t *Track) Err() error {
	return nil
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
