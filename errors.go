package cubelock

import "errors"

// Sentinel errors for the cubelock package.
var (
	// Rotation request errors
	ErrInvalidAxis      = errors.New("cubelock: invalid rotation axis")
	ErrInvalidLayer     = errors.New("cubelock: invalid layer index")
	ErrInvalidDirection = errors.New("cubelock: invalid rotation direction")

	// Parsing errors
	ErrInvalidLabel    = errors.New("cubelock: unknown move label")
	ErrInvalidNotation = errors.New("cubelock: invalid rotation notation")

	// Input resolution errors
	ErrNoSelection = errors.New("cubelock: no face selected")

	// State errors
	ErrCorruptState = errors.New("cubelock: cube state corrupt")
)
