package cubelock

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// State is the rotation engine state.
type State int

const (
	StateIdle State = iota
	StateAnimating
)

// String returns the string representation of the engine state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnimating:
		return "animating"
	default:
		return "unknown"
	}
}

// TransformSink receives render pose updates. The render adapter implements
// it; the engine never reads anything back.
type TransformSink interface {
	SetTransform(id int, t Transform)
}

// animation is the in-flight quarter-turn.
type animation struct {
	rotation Rotation
	ids      []int
	step     int
	stepQuat mgl64.Quat
}

// Engine executes quarter-turns one at a time.
//
// A turn is accepted only while the engine is idle. It then animates over a
// fixed number of frames, each driven by a call to Advance, and commits the
// logical state on the last one. Requests that arrive mid-turn are dropped,
// not queued. The engine is not safe for concurrent use; drive it from the
// same goroutine that renders.
type Engine struct {
	store     *Store
	sink      TransformSink
	cfg       *config
	state     State
	active    animation
	listeners []func(Move)
	now       func() time.Time
}

// NewEngine creates an idle engine over store.
func NewEngine(store *Store, opts ...Option) *Engine {
	return &Engine{
		store: store,
		cfg:   newConfig(opts),
		state: StateIdle,
		now:   time.Now,
	}
}

// SetSink attaches the render adapter and sends it the current pose of all
// 27 cubelets.
func (e *Engine) SetSink(sink TransformSink) {
	e.sink = sink
	if sink == nil {
		return
	}
	for _, c := range e.store.Cubelets() {
		sink.SetTransform(c.ID, c.Render)
	}
}

// OnMove registers a callback fired once per completed turn, after the
// engine is back to idle.
func (e *Engine) OnMove(cb func(Move)) {
	if cb != nil {
		e.listeners = append(e.listeners, cb)
	}
}

// Store returns the cubelet store the engine drives.
func (e *Engine) Store() *Store {
	return e.store
}

// State returns the current engine state.
func (e *Engine) State() State {
	return e.state
}

// Busy returns true while a turn is in flight.
func (e *Engine) Busy() bool {
	return e.state == StateAnimating
}

// Steps returns the number of frames a turn takes.
func (e *Engine) Steps() int {
	return e.cfg.animationSteps
}

// Progress returns the completed fraction of the in-flight turn, or 0 when idle.
func (e *Engine) Progress() float64 {
	if e.state != StateAnimating {
		return 0
	}
	return float64(e.active.step) / float64(e.cfg.animationSteps)
}

// Pending returns the in-flight rotation, if any.
func (e *Engine) Pending() (Rotation, bool) {
	if e.state != StateAnimating {
		return Rotation{}, false
	}
	return e.active.rotation, true
}

// RequestRotation starts a quarter-turn if the engine is idle.
// It returns false without error when a turn is already in flight.
// An out-of-domain request is a caller bug and returns an error.
func (e *Engine) RequestRotation(r Rotation) (bool, error) {
	if err := r.Validate(); err != nil {
		return false, err
	}

	if e.state == StateAnimating {
		e.cfg.logger.Debug("rotation dropped", "rotation", r.Notation(), "busy_with", e.active.rotation.Notation())
		return false, nil
	}

	ids, err := e.store.layerIDs(r.Axis, r.Index)
	if err != nil {
		return false, err
	}

	step := r.Direction.Angle() / float64(e.cfg.animationSteps)
	e.active = animation{
		rotation: r,
		ids:      ids,
		step:     0,
		stepQuat: mgl64.QuatRotate(step, r.Axis.Vec3()),
	}
	e.state = StateAnimating

	e.cfg.logger.Debug("rotation accepted", "rotation", r.Notation(), "label", r.Label())
	return true, nil
}

// Advance runs one animation frame. It returns true if the in-flight turn
// completed on this frame. Calling it while idle does nothing.
func (e *Engine) Advance() bool {
	if e.state != StateAnimating {
		return false
	}

	e.active.step++
	if e.active.step < e.cfg.animationSteps {
		for _, id := range e.active.ids {
			t := e.store.cubelets[id].Render
			t.Position = e.active.stepQuat.Rotate(t.Position)
			t.Rotation = e.active.stepQuat.Mul(t.Rotation).Normalize()
			e.store.setRender(id, t)
			e.push(id, t)
		}
		return false
	}

	// Final frame: the exact rest pose replaces the last increment.
	r := e.active.rotation
	if err := e.store.CommitRotation(r); err != nil {
		// layerIDs and Validate already passed for this request.
		e.cfg.logger.Error("commit failed", "rotation", r.Notation(), "err", err)
	}
	for _, id := range e.active.ids {
		e.push(id, e.store.cubelets[id].Render)
	}
	e.active = animation{}
	e.state = StateIdle

	m := Move{Rotation: r, Time: e.now()}
	for _, cb := range e.listeners {
		cb(m)
	}
	return true
}

// Finish advances frames until the in-flight turn completes.
func (e *Engine) Finish() {
	for e.state == StateAnimating {
		e.Advance()
	}
}

// Apply requests r and runs it to completion, reporting whether it was
// accepted. Useful for headless replays and tests.
func (e *Engine) Apply(r Rotation) (bool, error) {
	ok, err := e.RequestRotation(r)
	if ok {
		e.Finish()
	}
	return ok, err
}

func (e *Engine) push(id int, t Transform) {
	if e.sink != nil {
		e.sink.SetTransform(id, t)
	}
}
