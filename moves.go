package cubelock

import (
	"fmt"
	"strings"
)

// Move labels. This is the complete vocabulary of the move-completed event.
const (
	LabelRight = "Rotate Right"
	LabelLeft  = "Rotate Left"
	LabelUp    = "Rotate Up"
	LabelDown  = "Rotate Down"
	LabelFront = "Rotate Front"
	LabelBack  = "Rotate Back"
)

// Labels lists the vocabulary in a stable order.
var Labels = []string{LabelRight, LabelLeft, LabelUp, LabelDown, LabelFront, LabelBack}

// Predefined outer-face turns, one per keyboard binding.
//
// Example:
//
//	engine.RequestRotation(cubelock.RotateRight)
var (
	RotateRight = Rotation{Axis: AxisX, Index: 1, Direction: Positive}
	RotateLeft  = Rotation{Axis: AxisX, Index: -1, Direction: Negative}
	RotateUp    = Rotation{Axis: AxisY, Index: 1, Direction: Positive}
	RotateDown  = Rotation{Axis: AxisY, Index: -1, Direction: Negative}
	RotateFront = Rotation{Axis: AxisZ, Index: 1, Direction: Positive}
	RotateBack  = Rotation{Axis: AxisZ, Index: -1, Direction: Negative}
)

// KeyBindings maps lower-case keys to their fixed face turns.
var KeyBindings = map[string]Rotation{
	"r": RotateRight,
	"l": RotateLeft,
	"u": RotateUp,
	"d": RotateDown,
	"f": RotateFront,
	"b": RotateBack,
}

// DefaultSecretSequence is the unlock pattern: RR, RR, RU, RL, RD.
var DefaultSecretSequence = []string{LabelRight, LabelRight, LabelUp, LabelLeft, LabelDown}

// KeyRotation returns the face turn bound to key, ignoring case.
func KeyRotation(key string) (Rotation, bool) {
	r, ok := KeyBindings[strings.ToLower(key)]
	return r, ok
}

// ParseLabel returns the canonical face turn for a move label.
// Matching ignores case and surrounding whitespace.
func ParseLabel(s string) (Rotation, error) {
	s = strings.TrimSpace(s)
	for _, r := range []Rotation{RotateRight, RotateLeft, RotateUp, RotateDown, RotateFront, RotateBack} {
		if strings.EqualFold(r.Label(), s) {
			return r, nil
		}
	}
	return Rotation{}, fmt.Errorf("%w: %q", ErrInvalidLabel, s)
}

// ValidLabel reports whether s is in the move label vocabulary.
func ValidLabel(s string) bool {
	for _, l := range Labels {
		if l == s {
			return true
		}
	}
	return false
}
