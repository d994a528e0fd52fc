package cubelock

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// cornerLimit is the per-component normal magnitude above which a hit is
// treated as an ambiguous corner.
const cornerLimit = 0.5

// ScreenPoint is a pointer position in screen pixels, y growing downwards.
type ScreenPoint struct {
	X, Y float64
}

// Sub returns p - q.
func (p ScreenPoint) Sub(q ScreenPoint) ScreenPoint {
	return ScreenPoint{X: p.X - q.X, Y: p.Y - q.Y}
}

// Hit is the nearest cubelet face under a screen point.
type Hit struct {
	Cubelet int
	Normal  mgl64.Vec3 // outward normal in the cubelet's local frame
	Point   mgl64.Vec3 // world-space intersection
}

// Picker casts a ray from a screen point into the scene.
// The render adapter implements it.
type Picker interface {
	Pick(p ScreenPoint) (Hit, bool)
}

type selection struct {
	hit   Hit
	start ScreenPoint
}

// Resolver turns pointer gestures and key presses into rotation requests
// and submits them to the engine.
type Resolver struct {
	engine   *Engine
	picker   Picker
	cfg      *config
	selected *selection
}

// NewResolver creates a resolver feeding engine. picker may be nil until
// the render adapter exists; pointer input is ignored until then.
func NewResolver(engine *Engine, picker Picker, opts ...Option) *Resolver {
	return &Resolver{
		engine: engine,
		picker: picker,
		cfg:    newConfig(opts),
	}
}

// SetPicker replaces the ray caster.
func (r *Resolver) SetPicker(p Picker) {
	r.picker = p
}

// Selected returns the active selection, if any.
func (r *Resolver) Selected() (Hit, bool) {
	if r.selected == nil {
		return Hit{}, false
	}
	return r.selected.hit, true
}

// PointerDown records the face under p as the drag origin. It returns
// false and clears the selection when nothing is hit.
func (r *Resolver) PointerDown(p ScreenPoint) bool {
	r.selected = nil
	if r.picker == nil {
		return false
	}

	hit, ok := r.picker.Pick(p)
	if !ok {
		return false
	}

	r.selected = &selection{hit: hit, start: p}
	return true
}

// PointerMove accumulates drag travel. Once travel on either screen axis
// exceeds the threshold the gesture resolves at most once, the selection
// is cleared and the resolved rotation, if any, is submitted.
// Moves while no selection exists or while a turn is animating are ignored.
func (r *Resolver) PointerMove(p ScreenPoint) (Rotation, bool) {
	if r.selected == nil || r.engine.Busy() {
		return Rotation{}, false
	}

	delta := p.Sub(r.selected.start)
	if math.Abs(delta.X) <= r.cfg.dragThreshold && math.Abs(delta.Y) <= r.cfg.dragThreshold {
		return Rotation{}, false
	}

	rot, ok := r.resolve(delta)
	r.selected = nil
	if !ok {
		return Rotation{}, false
	}

	r.submit(rot)
	return rot, true
}

// PointerUp ends the gesture without resolving it.
func (r *Resolver) PointerUp() {
	r.selected = nil
}

// KeyPress submits the fixed face turn bound to key. It returns false for
// unbound keys.
func (r *Resolver) KeyPress(key string) (Rotation, bool) {
	rot, ok := KeyRotation(key)
	if !ok {
		return Rotation{}, false
	}
	r.submit(rot)
	return rot, true
}

func (r *Resolver) submit(rot Rotation) {
	if _, err := r.engine.RequestRotation(rot); err != nil {
		r.cfg.logger.Error("rotation rejected", "rotation", rot.Notation(), "err", err)
	}
}

// resolve maps the active selection and a drag delta to a rotation.
func (r *Resolver) resolve(delta ScreenPoint) (Rotation, bool) {
	if r.selected == nil {
		r.cfg.assertFailed(ErrNoSelection)
		return Rotation{}, false
	}

	c, ok := r.engine.Store().Cubelet(r.selected.hit.Cubelet)
	if !ok {
		return Rotation{}, false
	}

	worldNormal := c.Render.Rotation.Rotate(r.selected.hit.Normal)
	rot, ok := ResolveDrag(worldNormal, c.Position, delta)
	if !ok {
		r.cfg.logger.Debug("gesture rejected", "cubelet", c.ID, "normal", worldNormal)
	}
	return rot, ok
}

// ResolveDrag converts a world-space face normal, the hit cubelet's
// committed position and a drag delta into a rotation.
//
// The normal's dominant component picks the axis and the cubelet's
// coordinate on that axis picks the layer, middle layers included. Hits
// whose normal has all three components above 0.5 in magnitude are corners
// and resolve to nothing. The spin direction is +1 when dragging right or
// up, regardless of the face that was hit. A normal with no strictly
// largest component resolves to the Z axis.
func ResolveDrag(worldNormal mgl64.Vec3, position Coord, delta ScreenPoint) (Rotation, bool) {
	ax := math.Abs(worldNormal.X())
	ay := math.Abs(worldNormal.Y())
	az := math.Abs(worldNormal.Z())

	if ax > cornerLimit && ay > cornerLimit && az > cornerLimit {
		return Rotation{}, false
	}
	if ax < mgl64.Epsilon && ay < mgl64.Epsilon && az < mgl64.Epsilon {
		return Rotation{}, false
	}

	var axis Axis
	switch {
	case ax > ay && ax > az:
		axis = AxisX
	case ay > ax && ay > az:
		axis = AxisY
	default:
		axis = AxisZ
	}

	return Rotation{
		Axis:      axis,
		Index:     position[axis],
		Direction: DragDirection(delta),
	}, true
}

// DragDirection returns +1 if the drag went right or up on screen, else -1.
func DragDirection(delta ScreenPoint) Direction {
	if delta.X > 0 || delta.Y < 0 {
		return Positive
	}
	return Negative
}

// assertFailed handles an unreachable state: panic when strict, log otherwise.
func (c *config) assertFailed(err error) {
	if c.strict {
		panic(err)
	}
	c.logger.Error("assertion failed", "err", err)
}
