package cubelock

import (
	"io"

	"github.com/charmbracelet/log"
)

// Default tuning values.
const (
	DefaultAnimationSteps = 10
	DefaultDragThreshold  = 20.0
)

// Option configures Engine and Resolver behavior.
type Option func(*config)

type config struct {
	animationSteps int
	dragThreshold  float64
	strict         bool
	logger         *log.Logger
}

func defaultConfig() *config {
	return &config{
		animationSteps: DefaultAnimationSteps,
		dragThreshold:  DefaultDragThreshold,
		strict:         false,
		logger:         log.New(io.Discard),
	}
}

func newConfig(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithAnimationSteps sets how many frames a quarter-turn takes.
// Values below 1 are ignored.
func WithAnimationSteps(steps int) Option {
	return func(c *config) {
		if steps > 0 {
			c.animationSteps = steps
		}
	}
}

// WithDragThreshold sets the pointer travel, in screen pixels along either
// axis, after which a drag resolves into a rotation.
func WithDragThreshold(px float64) Option {
	return func(c *config) {
		if px > 0 {
			c.dragThreshold = px
		}
	}
}

// WithStrictAssertions makes unreachable-state assertions panic instead of
// logging. Enable it in development and tests.
func WithStrictAssertions(enabled bool) Option {
	return func(c *config) {
		c.strict = enabled
	}
}

// WithLogger sets the logger used for debug and assertion output.
// A nil logger is ignored.
func WithLogger(logger *log.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
