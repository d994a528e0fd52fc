package config

import (
	_ "embed"

	"github.com/SeamusWaldron/cubelock"
)

//go:embed defaults/cubelock.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Engine: EngineConfig{
			AnimationSteps: cubelock.DefaultAnimationSteps,
			FrameRate:      60,
		},
		Input: InputConfig{
			DragThresholdPx: cubelock.DefaultDragThreshold,
			CellWidthPx:     8,
			CellHeightPx:    16,
		},
		Camera: CameraConfig{
			FovDeg:   40,
			Distance: 9.3,
			YawDeg:   45,
			PitchDeg: 40,
		},
		Secret: SecretConfig{
			Sequence: append([]string(nil), cubelock.DefaultSecretSequence...),
			Hint:     "RR,RR\nRU,RL,RD",
		},
		Backdrop: BackdropConfig{
			Enabled:    true,
			IntervalMs: 60,
			Trail:      20,
			Density:    0.33,
			Mutation:   0.03,
		},
		Audio: AudioConfig{
			Enabled:  true,
			Volume:   -1,
			TempoBPM: 124,
		},
		Journal: JournalConfig{
			Enabled: true,
		},
	}
}
