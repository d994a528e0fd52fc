// Package config provides YAML configuration loading for cubelock.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/SeamusWaldron/cubelock"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid")

// Config contains all cubelock settings.
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Input    InputConfig    `yaml:"input"`
	Camera   CameraConfig   `yaml:"camera"`
	Secret   SecretConfig   `yaml:"secret"`
	Backdrop BackdropConfig `yaml:"backdrop"`
	Audio    AudioConfig    `yaml:"audio"`
	Journal  JournalConfig  `yaml:"journal"`
}

// EngineConfig controls turn animation.
type EngineConfig struct {
	AnimationSteps int `yaml:"animation_steps"`
	FrameRate      int `yaml:"frame_rate"`
}

// FrameInterval returns the time between animation frames.
func (e EngineConfig) FrameInterval() time.Duration {
	return time.Second / time.Duration(e.FrameRate)
}

// InputConfig controls pointer handling.
type InputConfig struct {
	DragThresholdPx float64 `yaml:"drag_threshold_px"`
	CellWidthPx     float64 `yaml:"cell_width_px"`
	CellHeightPx    float64 `yaml:"cell_height_px"`
}

// CameraConfig is the initial orbit camera.
type CameraConfig struct {
	FovDeg   float64 `yaml:"fov_deg"`
	Distance float64 `yaml:"distance"`
	YawDeg   float64 `yaml:"yaw_deg"`
	PitchDeg float64 `yaml:"pitch_deg"`
}

// SecretConfig is the unlock sequence and its hidden hint.
type SecretConfig struct {
	Sequence []string `yaml:"sequence"`
	Hint     string   `yaml:"hint"`
}

// BackdropConfig controls the matrix rain.
type BackdropConfig struct {
	Enabled    bool    `yaml:"enabled"`
	IntervalMs int     `yaml:"interval_ms"`
	Trail      int     `yaml:"trail"`
	Density    float64 `yaml:"density"`
	Mutation   float64 `yaml:"mutation"`
}

// Interval returns the rain tick interval.
func (b BackdropConfig) Interval() time.Duration {
	return time.Duration(b.IntervalMs) * time.Millisecond
}

// AudioConfig controls the preview track.
type AudioConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Volume   float64 `yaml:"volume"`
	TempoBPM int     `yaml:"tempo_bpm"`
}

// JournalConfig controls the SQLite move journal.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// Validate checks that the values can drive the engine and the pages.
func (c Config) Validate() error {
	if c.Engine.AnimationSteps < 1 {
		return fmt.Errorf("%w: engine.animation_steps must be positive, got %d", ErrInvalidConfig, c.Engine.AnimationSteps)
	}
	if c.Engine.FrameRate < 1 {
		return fmt.Errorf("%w: engine.frame_rate must be positive, got %d", ErrInvalidConfig, c.Engine.FrameRate)
	}
	if c.Input.DragThresholdPx <= 0 {
		return fmt.Errorf("%w: input.drag_threshold_px must be positive", ErrInvalidConfig)
	}
	if c.Input.CellWidthPx <= 0 || c.Input.CellHeightPx <= 0 {
		return fmt.Errorf("%w: input cell size must be positive", ErrInvalidConfig)
	}
	if c.Camera.FovDeg <= 0 || c.Camera.FovDeg >= 180 {
		return fmt.Errorf("%w: camera.fov_deg must be in (0, 180)", ErrInvalidConfig)
	}
	if c.Camera.Distance <= 0 {
		return fmt.Errorf("%w: camera.distance must be positive", ErrInvalidConfig)
	}
	if len(c.Secret.Sequence) == 0 {
		return fmt.Errorf("%w: secret.sequence is empty", ErrInvalidConfig)
	}
	for i, label := range c.Secret.Sequence {
		if !cubelock.ValidLabel(label) {
			return fmt.Errorf("%w: secret.sequence[%d] %q is not a move label", ErrInvalidConfig, i, label)
		}
	}
	if c.Backdrop.Enabled {
		if c.Backdrop.IntervalMs < 1 || c.Backdrop.Trail < 1 {
			return fmt.Errorf("%w: backdrop interval and trail must be positive", ErrInvalidConfig)
		}
		if c.Backdrop.Density <= 0 || c.Backdrop.Density > 1 {
			return fmt.Errorf("%w: backdrop.density must be in (0, 1]", ErrInvalidConfig)
		}
		if c.Backdrop.Mutation < 0 || c.Backdrop.Mutation > 1 {
			return fmt.Errorf("%w: backdrop.mutation must be in [0, 1]", ErrInvalidConfig)
		}
	}
	if c.Audio.Enabled && c.Audio.TempoBPM < 1 {
		return fmt.Errorf("%w: audio.tempo_bpm must be positive", ErrInvalidConfig)
	}
	return nil
}
