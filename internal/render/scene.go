// Package render draws the cube into a terminal canvas. A Scene owns an
// orbit camera, receives cubelet poses from the engine, answers ray picks
// for the input resolver and rasterizes by casting one ray per cell.
package render

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/SeamusWaldron/cubelock"
)

const (
	cubeletHalf = 0.485 // cubelets are 0.97 wide, leaving a thin gap
	stickerHalf = 0.40
	nearPlane   = 0.1
	farPlane    = 100.0
	maxPitch    = 85.0
	bodyColor   = "#000000"

	// backFace is the z of the cube's back plane. The hint sits just behind it.
	backFace   = -1.5
	hintOffset = 0.02
)

// lightDir is the key light. It is off the camera diagonal so the three
// visible faces shade differently.
var lightDir = mgl64.Vec3{4, 10, 7}.Normalize()

// Camera orbits the cube center. Angles are in degrees.
type Camera struct {
	FovDeg   float64
	Distance float64
	YawDeg   float64 // around +Y, 0 looks at the front face
	PitchDeg float64 // above the equator
}

// Eye returns the camera position.
func (c Camera) Eye() mgl64.Vec3 {
	yaw := mgl64.DegToRad(c.YawDeg)
	pitch := mgl64.DegToRad(c.PitchDeg)
	return mgl64.Vec3{
		c.Distance * math.Cos(pitch) * math.Sin(yaw),
		c.Distance * math.Sin(pitch),
		c.Distance * math.Cos(pitch) * math.Cos(yaw),
	}
}

// Options configures a Scene.
type Options struct {
	Camera     Camera
	CellWidth  float64 // pixels per terminal column
	CellHeight float64 // pixels per terminal row
}

// DefaultOptions returns the stock camera and an 8x16 pixel cell.
func DefaultOptions() Options {
	return Options{
		Camera:     Camera{FovDeg: 40, Distance: 9.3, YawDeg: 45, PitchDeg: 40},
		CellWidth:  8,
		CellHeight: 16,
	}
}

// Scene is the render adapter. It implements cubelock.TransformSink and
// cubelock.Picker. Screen points are in pixels of a cols x rows terminal.
type Scene struct {
	cam        Camera
	cellW      float64
	cellH      float64
	cols, rows int

	transforms [cubelock.CubeletCount]cubelock.Transform
	colors     [cubelock.CubeletCount][6]cubelock.Color

	view mgl64.Mat4
	proj mgl64.Mat4
}

// NewScene creates a scene showing store.
func NewScene(store *cubelock.Store, opts Options) *Scene {
	def := DefaultOptions()
	if opts.CellWidth <= 0 {
		opts.CellWidth = def.CellWidth
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = def.CellHeight
	}
	if opts.Camera.FovDeg <= 0 || opts.Camera.FovDeg >= 180 {
		opts.Camera.FovDeg = def.Camera.FovDeg
	}
	if opts.Camera.Distance <= 0 {
		opts.Camera.Distance = def.Camera.Distance
	}

	s := &Scene{
		cam:   opts.Camera,
		cellW: opts.CellWidth,
		cellH: opts.CellHeight,
	}
	s.Load(store)
	s.Orbit(0, 0)
	return s
}

// Load copies sticker colors and render poses from store.
func (s *Scene) Load(store *cubelock.Store) {
	for _, c := range store.Cubelets() {
		s.transforms[c.ID] = c.Render
		s.colors[c.ID] = c.Colors
	}
}

// SetTransform implements cubelock.TransformSink.
func (s *Scene) SetTransform(id int, t cubelock.Transform) {
	if id < 0 || id >= cubelock.CubeletCount {
		return
	}
	s.transforms[id] = t
}

// Resize sets the terminal size in cells.
func (s *Scene) Resize(cols, rows int) {
	s.cols = max(cols, 0)
	s.rows = max(rows, 0)
	s.update()
}

// Size returns the terminal size in cells.
func (s *Scene) Size() (int, int) {
	return s.cols, s.rows
}

// Camera returns the current camera.
func (s *Scene) Camera() Camera {
	return s.cam
}

// SetCamera replaces the camera.
func (s *Scene) SetCamera(c Camera) {
	s.cam = c
	s.Orbit(0, 0)
}

// Orbit turns the camera by the given yaw and pitch, in degrees. Yaw wraps
// and pitch stops short of the poles.
func (s *Scene) Orbit(dYaw, dPitch float64) {
	s.cam.YawDeg = math.Mod(s.cam.YawDeg+dYaw, 360)
	if s.cam.YawDeg < 0 {
		s.cam.YawDeg += 360
	}
	s.cam.PitchDeg = mgl64.Clamp(s.cam.PitchDeg+dPitch, -maxPitch, maxPitch)
	s.update()
}

// FacingBack reports whether the back face of the cube is visible.
func (s *Scene) FacingBack() bool {
	return s.cam.Eye().Z() < backFace
}

func (s *Scene) update() {
	s.view = mgl64.LookAtV(s.cam.Eye(), mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	aspect := 1.0
	if w, h := s.viewport(); w > 0 && h > 0 {
		aspect = float64(w) / float64(h)
	}
	s.proj = mgl64.Perspective(mgl64.DegToRad(s.cam.FovDeg), aspect, nearPlane, farPlane)
}

func (s *Scene) viewport() (int, int) {
	return int(math.Round(float64(s.cols) * s.cellW)), int(math.Round(float64(s.rows) * s.cellH))
}

// CellToScreen returns the pixel at the center of a terminal cell.
func (s *Scene) CellToScreen(x, y int) cubelock.ScreenPoint {
	return cubelock.ScreenPoint{X: (float64(x) + 0.5) * s.cellW, Y: (float64(y) + 0.5) * s.cellH}
}

// ProjectCell returns the terminal cell a world point lands on.
func (s *Scene) ProjectCell(world mgl64.Vec3) (int, int, bool) {
	w, h := s.viewport()
	if w == 0 || h == 0 {
		return 0, 0, false
	}
	win := mgl64.Project(world, s.view, s.proj, 0, 0, w, h)
	if win.Z() < 0 || win.Z() > 1 {
		return 0, 0, false
	}
	// Window y grows upwards.
	x := int(math.Floor(win.X() / s.cellW))
	y := int(math.Floor((float64(h) - win.Y()) / s.cellH))
	return x, y, true
}

// Ray returns the world-space ray through a screen point.
func (s *Scene) Ray(p cubelock.ScreenPoint) (origin, dir mgl64.Vec3, ok bool) {
	w, h := s.viewport()
	if w == 0 || h == 0 {
		return origin, dir, false
	}
	winY := float64(h) - p.Y
	near, err := mgl64.UnProject(mgl64.Vec3{p.X, winY, 0}, s.view, s.proj, 0, 0, w, h)
	if err != nil {
		return origin, dir, false
	}
	far, err := mgl64.UnProject(mgl64.Vec3{p.X, winY, 1}, s.view, s.proj, 0, 0, w, h)
	if err != nil {
		return origin, dir, false
	}
	return near, far.Sub(near).Normalize(), true
}

// Pick implements cubelock.Picker: the nearest cubelet face under p, with
// its normal in the cubelet's local frame.
func (s *Scene) Pick(p cubelock.ScreenPoint) (cubelock.Hit, bool) {
	origin, dir, ok := s.Ray(p)
	if !ok {
		return cubelock.Hit{}, false
	}
	surf, ok := s.cast(origin, dir)
	if !ok {
		return cubelock.Hit{}, false
	}
	return surf.hit, true
}

// surface is a ray hit with the local face and the in-face coordinates.
type surface struct {
	hit  cubelock.Hit
	face cubelock.Face
	u, v float64
	t    float64
}

func (s *Scene) cast(origin, dir mgl64.Vec3) (surface, bool) {
	best := surface{t: math.Inf(1)}
	found := false
	for id, tr := range s.transforms {
		inv := tr.Rotation.Conjugate()
		lo := inv.Rotate(origin.Sub(tr.Position))
		ld := inv.Rotate(dir)

		t, axis, ok := slab(lo, ld, cubeletHalf)
		if !ok || t >= best.t {
			continue
		}

		var n mgl64.Vec3
		n[axis] = -math.Copysign(1, ld[axis])
		face, _ := cubelock.FaceFromNormal(cubelock.Coord{int(n[0]), int(n[1]), int(n[2])})
		lp := lo.Add(ld.Mul(t))

		best = surface{
			hit:  cubelock.Hit{Cubelet: id, Normal: n, Point: origin.Add(dir.Mul(t))},
			face: face,
			u:    lp[(axis+1)%3],
			v:    lp[(axis+2)%3],
			t:    t,
		}
		found = true
	}
	return best, found
}

// slab intersects a ray with an origin-centered box and returns the entry
// distance and the axis of the entry face.
func slab(o, d mgl64.Vec3, half float64) (float64, int, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	axis := -1
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < mgl64.Epsilon {
			if math.Abs(o[i]) > half {
				return 0, 0, false
			}
			continue
		}
		t1 := (-half - o[i]) / d[i]
		t2 := (half - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin, axis = t1, i
		}
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, 0, false
		}
	}
	if axis < 0 || tmin < 0 {
		return 0, 0, false
	}
	return tmin, axis, true
}

// Draw rasterizes the cube over whatever the canvas already holds.
func (s *Scene) Draw(c *Canvas) {
	cols, rows := c.Size()
	if cols != s.cols || rows != s.rows {
		s.Resize(cols, rows)
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			origin, dir, ok := s.Ray(s.CellToScreen(x, y))
			if !ok {
				return
			}
			surf, ok := s.cast(origin, dir)
			if !ok {
				continue
			}
			c.Set(x, y, Cell{Char: ' ', BG: s.shade(surf)})
		}
	}
}

func (s *Scene) shade(surf surface) string {
	color := s.colors[surf.hit.Cubelet][surf.face]
	hex := color.Hex()
	if color != cubelock.Neutral && (math.Abs(surf.u) > stickerHalf || math.Abs(surf.v) > stickerHalf) {
		hex = bodyColor
	}

	n := s.transforms[surf.hit.Cubelet].Rotation.Rotate(surf.hit.Normal)
	light := 0.55 + 0.45*math.Max(0, n.Dot(lightDir))

	base, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	return base.BlendRgb(colorful.Color{}, 1-light).Clamped().Hex()
}

// DrawHint writes text centered on the back face, one line per row, when
// the back face is in view.
func (s *Scene) DrawHint(c *Canvas, text, fg string) {
	if text == "" || !s.FacingBack() {
		return
	}
	x, y, ok := s.ProjectCell(mgl64.Vec3{0, 0, backFace - hintOffset})
	if !ok {
		return
	}
	lines := strings.Split(text, "\n")
	y -= len(lines) / 2
	for i, line := range lines {
		c.Text(x-len(line)/2, y+i, line, fg)
	}
}
