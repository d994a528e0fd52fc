package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Cell is one terminal character with optional colors (#RRGGBB, empty for
// the terminal default).
type Cell struct {
	Char rune
	FG   string
	BG   string
}

func (c Cell) style() lipgloss.Style {
	s := lipgloss.NewStyle()
	if c.FG != "" {
		s = s.Foreground(lipgloss.Color(c.FG))
	}
	if c.BG != "" {
		s = s.Background(lipgloss.Color(c.BG))
	}
	return s
}

// Canvas is a fixed-size grid of cells that pages draw into, back to front,
// before turning it into a string for the View.
type Canvas struct {
	width  int
	height int
	cells  []Cell
}

// NewCanvas creates a blank canvas.
func NewCanvas(width, height int) *Canvas {
	width = max(width, 0)
	height = max(height, 0)
	c := &Canvas{width: width, height: height, cells: make([]Cell, width*height)}
	c.Clear()
	return c
}

// Size returns the canvas size in cells.
func (c *Canvas) Size() (int, int) {
	return c.width, c.height
}

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = Cell{Char: ' '}
	}
}

// Set writes a cell. Out of range writes are ignored.
func (c *Canvas) Set(x, y int, cell Cell) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	if cell.Char == 0 {
		cell.Char = ' '
	}
	c.cells[y*c.width+x] = cell
}

// At returns the cell at (x, y).
func (c *Canvas) At(x, y int) (Cell, bool) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return Cell{}, false
	}
	return c.cells[y*c.width+x], true
}

// Text writes s starting at (x, y) in the given foreground, keeping the
// background already there. Runes wider than one cell are replaced.
func (c *Canvas) Text(x, y int, s, fg string) {
	for _, r := range s {
		if runewidth.RuneWidth(r) != 1 {
			r = '?'
		}
		bg := ""
		if cur, ok := c.At(x, y); ok {
			bg = cur.BG
		}
		c.Set(x, y, Cell{Char: r, FG: fg, BG: bg})
		x++
	}
}

// CenterText writes s centered horizontally on row y.
func (c *Canvas) CenterText(y int, s, fg string) {
	c.Text((c.width-runewidth.StringWidth(s))/2, y, s, fg)
}

// Render returns the canvas as styled lines. Runs of cells sharing colors
// are styled together.
func (c *Canvas) Render() string {
	var b strings.Builder
	var run strings.Builder
	for y := 0; y < c.height; y++ {
		row := c.cells[y*c.width : (y+1)*c.width]
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].FG == row[start].FG && row[x].BG == row[start].BG {
				continue
			}
			run.Reset()
			for _, cell := range row[start:x] {
				run.WriteRune(cell.Char)
			}
			if row[start].FG == "" && row[start].BG == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(row[start].style().Render(run.String()))
			}
			start = x
		}
		if y < c.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// String returns the characters only, without styling.
func (c *Canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		for _, cell := range c.cells[y*c.width : (y+1)*c.width] {
			b.WriteRune(cell.Char)
		}
		if y < c.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
