// Package backdrop draws the falling katakana rain behind the cube and
// preview pages.
package backdrop

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// katakana is the half-width set; full-width glyphs take two terminal cells.
const katakana = "ｦｧｨｩｪｫｬｭｮｯｱｲｳｴｵｶｷｸｹｺｻｼｽｾｿﾀﾁﾂﾃﾄﾅﾆﾇﾈﾉﾊﾋﾌﾍﾎﾏﾐﾑﾒﾓﾔﾕﾖﾗﾘﾙﾚﾛﾜﾝ"

// Rain colors. Idle rain is green; while music plays it cycles through the
// cube's sticker colors.
const idleColor = "#00FF00"

var playingColors = []string{"#00FF00", "#FF0000", "#FF6C00", "#FFD500", "#0045AD", "#FFFFFF"}

// glyphs is katakana filtered to single-cell runes.
var glyphs = func() []rune {
	var out []rune
	for _, r := range katakana {
		if runewidth.RuneWidth(r) == 1 {
			out = append(out, r)
		}
	}
	return out
}()

// Options configures a Rain.
type Options struct {
	Trail      int     // glyphs per column
	Density    float64 // share of screen columns carrying rain, (0, 1]
	Mutation   float64 // per-tick chance each glyph is replaced
	ColorEvery int     // ticks between color changes while playing
	Seed       int64
}

// DefaultOptions returns the stock rain settings.
func DefaultOptions() Options {
	return Options{Trail: 20, Density: 0.33, Mutation: 0.03, ColorEvery: 8, Seed: 1}
}

// Glyph is one drawn rain cell.
type Glyph struct {
	Char  rune
	Color string // #RRGGBB, already faded
}

type column struct {
	x         int
	y         float64 // row of the head glyph
	speed     float64 // rows per tick
	amplitude float64 // sideways sway in cells while playing
	chars     []rune
}

// Rain is the animated backdrop. It is owned by a single page: Start when
// the page mounts, Stop when it unmounts, Tick on every backdrop interval.
type Rain struct {
	opts    Options
	rng     *rand.Rand
	width   int
	height  int
	cols    []column
	grid    []Glyph
	running bool
	playing bool
	ticks   int
	color   int
}

// New creates a stopped rain with no size.
func New(opts Options) *Rain {
	def := DefaultOptions()
	if opts.Trail < 1 {
		opts.Trail = def.Trail
	}
	if opts.Density <= 0 || opts.Density > 1 {
		opts.Density = def.Density
	}
	if opts.ColorEvery < 1 {
		opts.ColorEvery = def.ColorEvery
	}
	return &Rain{
		opts: opts,
		rng:  rand.New(rand.NewSource(opts.Seed)),
	}
}

// Resize rebuilds the columns for a width x height cell screen.
func (r *Rain) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	r.width, r.height = width, height
	r.grid = make([]Glyph, width*height)

	n := int(float64(width) * r.opts.Density)
	if n < 1 && width > 0 {
		n = 1
	}
	r.cols = make([]column, n)
	for i := range r.cols {
		chars := make([]rune, r.opts.Trail)
		for j := range chars {
			chars[j] = r.randomGlyph()
		}
		r.cols[i] = column{
			x:         int(float64(i) * float64(width) / float64(n)),
			y:         -r.rng.Float64() * float64(height+r.opts.Trail),
			speed:     0.3 + r.rng.Float64()*0.6,
			amplitude: r.rng.Float64() * 2,
			chars:     chars,
		}
	}
	r.paint()
}

// Size returns the current screen size in cells.
func (r *Rain) Size() (int, int) {
	return r.width, r.height
}

// Start resumes ticking.
func (r *Rain) Start() {
	r.running = true
}

// Stop freezes the rain. Tick does nothing until Start.
func (r *Rain) Stop() {
	r.running = false
}

// Running reports whether the rain is ticking.
func (r *Rain) Running() bool {
	return r.running
}

// SetPlaying switches between idle green and the faster, color-cycling
// rain shown while music plays.
func (r *Rain) SetPlaying(playing bool) {
	r.playing = playing
	if !playing {
		r.color = 0
	}
}

// Color returns the current base color.
func (r *Rain) Color() string {
	if !r.playing {
		return idleColor
	}
	return playingColors[r.color]
}

// Tick advances the rain one step.
func (r *Rain) Tick() {
	if !r.running {
		return
	}
	r.ticks++

	if r.playing && r.ticks%r.opts.ColorEvery == 0 {
		r.color = (r.color + 1) % len(playingColors)
	}

	for i := range r.cols {
		c := &r.cols[i]
		speed := c.speed
		if r.playing {
			speed *= 1.2
		}
		c.y += speed
		if c.y-float64(r.opts.Trail) > float64(r.height) {
			c.y = -r.rng.Float64() * 3
		}
		for j := range c.chars {
			if r.rng.Float64() < r.opts.Mutation {
				c.chars[j] = r.randomGlyph()
			}
		}
	}
	r.paint()
}

// Cell returns the glyph drawn at (x, y), if any.
func (r *Rain) Cell(x, y int) (Glyph, bool) {
	if x < 0 || y < 0 || x >= r.width || y >= r.height {
		return Glyph{}, false
	}
	g := r.grid[y*r.width+x]
	return g, g.Char != 0
}

func (r *Rain) paint() {
	for i := range r.grid {
		r.grid[i] = Glyph{}
	}
	if r.width == 0 || r.height == 0 {
		return
	}

	base, err := colorful.Hex(r.Color())
	if err != nil {
		base = colorful.Color{G: 1}
	}
	black := colorful.Color{}
	trail := r.opts.Trail
	shades := make([]string, trail)
	for j := range shades {
		// Head is brightest, tail fades toward black.
		fade := float64(j) / float64(trail)
		shades[j] = base.BlendRgb(black, fade).Clamped().Hex()
	}

	for i, c := range r.cols {
		x := c.x
		if r.playing {
			x += int(math.Round(math.Sin(float64(r.ticks)*0.06+float64(i)*0.2) * c.amplitude))
		}
		if x < 0 || x >= r.width {
			continue
		}
		head := int(math.Floor(c.y))
		for j, ch := range c.chars {
			y := head - j
			if y < 0 || y >= r.height {
				continue
			}
			r.grid[y*r.width+x] = Glyph{Char: ch, Color: shades[j]}
		}
	}
}

func (r *Rain) randomGlyph() rune {
	return glyphs[r.rng.Intn(len(glyphs))]
}
