package cubelock

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis is one of the three principal axes of the cube.
type Axis int

const (
	AxisX Axis = 0 // Right (+) / Left (-)
	AxisY Axis = 1 // Up (+) / Down (-)
	AxisZ Axis = 2 // Front (+) / Back (-)
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "?"
	}
}

// Valid reports whether a names one of the three principal axes.
func (a Axis) Valid() bool {
	return a >= AxisX && a <= AxisZ
}

// Vec3 returns the unit vector along the positive axis.
func (a Axis) Vec3() mgl64.Vec3 {
	var v mgl64.Vec3
	if a.Valid() {
		v[a] = 1
	}
	return v
}

// Direction is the sense of a quarter-turn. Positive turns are
// counter-clockwise when looking down the positive axis (right-handed).
type Direction int

const (
	Positive Direction = 1
	Negative Direction = -1
)

// Valid reports whether d is +1 or -1.
func (d Direction) Valid() bool {
	return d == Positive || d == Negative
}

// Angle returns the signed quarter-turn angle in radians.
func (d Direction) Angle() float64 {
	return float64(d) * halfPi
}

// Rotation is a request to turn one layer a quarter-turn.
// A layer is the nine cubelets whose committed position on Axis equals Index.
type Rotation struct {
	Axis      Axis
	Index     int
	Direction Direction
}

// Validate checks the request against the rotatable domain.
func (r Rotation) Validate() error {
	if !r.Axis.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidAxis, int(r.Axis))
	}
	if r.Index < -1 || r.Index > 1 {
		return fmt.Errorf("%w: %d", ErrInvalidLayer, r.Index)
	}
	if !r.Direction.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDirection, int(r.Direction))
	}
	return nil
}

// Inverse returns the rotation that undoes r.
func (r Rotation) Inverse() Rotation {
	inv := r
	inv.Direction = -r.Direction
	return inv
}

// Label returns the move label emitted when r completes.
// The label depends on axis and direction only.
func (r Rotation) Label() string {
	switch r.Axis {
	case AxisX:
		if r.Direction == Positive {
			return LabelRight
		}
		return LabelLeft
	case AxisY:
		if r.Direction == Positive {
			return LabelUp
		}
		return LabelDown
	case AxisZ:
		if r.Direction == Positive {
			return LabelFront
		}
		return LabelBack
	default:
		return ""
	}
}

// Notation returns a compact form: axis letter, layer sign (+, 0, -) and a
// trailing ' for negative turns. Examples: X+, Y-', Z0.
func (r Rotation) Notation() string {
	layer := "0"
	switch r.Index {
	case 1:
		layer = "+"
	case -1:
		layer = "-"
	}
	suffix := ""
	if r.Direction == Negative {
		suffix = "'"
	}
	return r.Axis.String() + layer + suffix
}

// String returns the notation string (alias for Notation).
func (r Rotation) String() string {
	return r.Notation()
}

// ParseRotation parses the form produced by Notation.
func ParseRotation(s string) (Rotation, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || len(s) > 3 {
		return Rotation{}, ErrInvalidNotation
	}

	var r Rotation
	switch s[0] {
	case 'X', 'x':
		r.Axis = AxisX
	case 'Y', 'y':
		r.Axis = AxisY
	case 'Z', 'z':
		r.Axis = AxisZ
	default:
		return Rotation{}, ErrInvalidNotation
	}

	switch s[1] {
	case '+':
		r.Index = 1
	case '0':
		r.Index = 0
	case '-':
		r.Index = -1
	default:
		return Rotation{}, ErrInvalidNotation
	}

	r.Direction = Positive
	if len(s) == 3 {
		if s[2] != '\'' {
			return Rotation{}, ErrInvalidNotation
		}
		r.Direction = Negative
	}

	return r, nil
}

// Move is a completed rotation with the time it finished.
type Move struct {
	Rotation
	Time time.Time
}

// Label returns the human-readable move label.
func (m Move) Label() string {
	return m.Rotation.Label()
}

// WithTime returns a copy of the move with the specified timestamp.
func (m Move) WithTime(t time.Time) Move {
	m.Time = t
	return m
}

// FormatLabels joins labels of moves with ", ".
func FormatLabels(moves []Move) string {
	if len(moves) == 0 {
		return ""
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Label()
	}

	return strings.Join(parts, ", ")
}
