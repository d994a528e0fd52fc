package render

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/SeamusWaldron/cubelock"
)

// vecNear compares by distance. mgl64's ApproxEqual falls back to an
// epsilon squared bound on zero components, which float residue exceeds.
func vecNear(a, b mgl64.Vec3) bool {
	return a.Sub(b).Len() < 1e-9
}

// frontScene looks straight at the front face of a solved cube.
func frontScene(t *testing.T) (*cubelock.Store, *Scene) {
	t.Helper()
	store := cubelock.NewStore()
	opts := DefaultOptions()
	opts.Camera.YawDeg = 0
	opts.Camera.PitchDeg = 0
	s := NewScene(store, opts)
	s.Resize(80, 24)
	return store, s
}

func screenOf(t *testing.T, s *Scene, world mgl64.Vec3) cubelock.ScreenPoint {
	t.Helper()
	x, y, ok := s.ProjectCell(world)
	if !ok {
		t.Fatalf("ProjectCell(%v) failed", world)
	}
	return s.CellToScreen(x, y)
}

func TestDefaultEyePosition(t *testing.T) {
	eye := DefaultOptions().Camera.Eye()
	if !eye.ApproxEqualThreshold(mgl64.Vec3{5.04, 5.98, 5.04}, 0.05) {
		t.Errorf("Eye() = %v", eye)
	}
}

func TestPickCenterHitsFrontCenter(t *testing.T) {
	store, s := frontScene(t)

	hit, ok := s.Pick(cubelock.ScreenPoint{X: 320, Y: 192})
	if !ok {
		t.Fatal("Center of screen should hit the cube")
	}
	want, _ := store.At(cubelock.Coord{0, 0, 1})
	if hit.Cubelet != want.ID {
		t.Errorf("Cubelet = %d, want %d", hit.Cubelet, want.ID)
	}
	if !vecNear(hit.Normal, mgl64.Vec3{0, 0, 1}) {
		t.Errorf("Normal = %v, want +Z", hit.Normal)
	}
	if d := hit.Point.Z() - (1 + cubeletHalf); d > 1e-6 || d < -1e-6 {
		t.Errorf("Point = %v, want z = %v", hit.Point, 1+cubeletHalf)
	}
}

func TestPickFollowsProjection(t *testing.T) {
	store, s := frontScene(t)

	tests := []struct {
		world mgl64.Vec3
		pos   cubelock.Coord
	}{
		{mgl64.Vec3{0, 1, 1.5}, cubelock.Coord{0, 1, 1}},
		{mgl64.Vec3{-1, -1, 1.5}, cubelock.Coord{-1, -1, 1}},
		{mgl64.Vec3{1, 0, 1.5}, cubelock.Coord{1, 0, 1}},
	}
	for _, tt := range tests {
		hit, ok := s.Pick(screenOf(t, s, tt.world))
		if !ok {
			t.Errorf("Pick at %v missed", tt.world)
			continue
		}
		want, _ := store.At(tt.pos)
		if hit.Cubelet != want.ID {
			t.Errorf("Pick at %v = cubelet %d, want %d", tt.world, hit.Cubelet, want.ID)
		}
	}
}

func TestPickMissesBackground(t *testing.T) {
	_, s := frontScene(t)
	if _, ok := s.Pick(cubelock.ScreenPoint{X: 1, Y: 1}); ok {
		t.Error("Screen corner should miss")
	}

	empty := NewScene(cubelock.NewStore(), DefaultOptions())
	if _, ok := empty.Pick(cubelock.ScreenPoint{}); ok {
		t.Error("Zero-size scene should never hit")
	}
}

func TestPickReturnsLocalNormal(t *testing.T) {
	store, s := frontScene(t)
	c, _ := store.At(cubelock.Coord{0, 0, 1})

	q := mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 1, 0})
	s.SetTransform(c.ID, cubelock.Transform{Position: c.Render.Position, Rotation: q})

	hit, ok := s.Pick(cubelock.ScreenPoint{X: 320, Y: 192})
	if !ok || hit.Cubelet != c.ID {
		t.Fatalf("Pick = %+v, %v", hit, ok)
	}
	if !vecNear(hit.Normal, mgl64.Vec3{-1, 0, 0}) {
		t.Errorf("Local normal = %v, want -X", hit.Normal)
	}
	if world := q.Rotate(hit.Normal); !vecNear(world, mgl64.Vec3{0, 0, 1}) {
		t.Errorf("World normal = %v, want +Z", world)
	}
}

func TestSetTransformMovesPickTarget(t *testing.T) {
	store, s := frontScene(t)
	front, _ := store.At(cubelock.Coord{0, 0, 1})
	center, _ := store.At(cubelock.Coord{0, 0, 0})

	s.SetTransform(front.ID, cubelock.Transform{Position: mgl64.Vec3{50, 50, 50}, Rotation: mgl64.QuatIdent()})
	s.SetTransform(-1, cubelock.Transform{})
	s.SetTransform(cubelock.CubeletCount, cubelock.Transform{})

	hit, ok := s.Pick(cubelock.ScreenPoint{X: 320, Y: 192})
	if !ok || hit.Cubelet != center.ID {
		t.Errorf("Pick = %+v, %v; want the center cubelet %d", hit, ok, center.ID)
	}
}

func TestSceneDrivesResolver(t *testing.T) {
	store, s := frontScene(t)
	engine := cubelock.NewEngine(store)
	engine.SetSink(s)
	resolver := cubelock.NewResolver(engine, s)

	start := screenOf(t, s, mgl64.Vec3{1, 0, 1.5})
	if !resolver.PointerDown(start) {
		t.Fatal("PointerDown should hit the front face")
	}
	rot, ok := resolver.PointerMove(cubelock.ScreenPoint{X: start.X, Y: start.Y - 30})
	if !ok {
		t.Fatal("Upward drag should resolve")
	}
	want := cubelock.Rotation{Axis: cubelock.AxisZ, Index: 1, Direction: cubelock.Positive}
	if rot != want {
		t.Errorf("Rotation = %v, want %v", rot, want)
	}

	engine.Finish()
	for _, c := range store.Cubelets() {
		if s.transforms[c.ID] != c.Render {
			t.Errorf("Scene pose of cubelet %d out of sync", c.ID)
		}
	}
}

func TestSlab(t *testing.T) {
	tests := []struct {
		name string
		o, d mgl64.Vec3
		hit  bool
		axis int
	}{
		{"head on", mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, -1}, true, 2},
		{"from the side", mgl64.Vec3{-5, 0.1, 0}, mgl64.Vec3{1, 0, 0}, true, 0},
		{"parallel miss", mgl64.Vec3{0, 2, 5}, mgl64.Vec3{0, 0, -1}, false, 0},
		{"pointing away", mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, 1}, false, 0},
		{"inside", mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, axis, ok := slab(tt.o, tt.d, 0.5)
			if ok != tt.hit {
				t.Fatalf("hit = %v, want %v", ok, tt.hit)
			}
			if ok && axis != tt.axis {
				t.Errorf("axis = %d, want %d", axis, tt.axis)
			}
		})
	}
}

func TestOrbit(t *testing.T) {
	s := NewScene(cubelock.NewStore(), DefaultOptions())
	s.Orbit(-90, 100)
	cam := s.Camera()
	if cam.YawDeg != 315 {
		t.Errorf("Yaw = %v, want 315", cam.YawDeg)
	}
	if cam.PitchDeg != maxPitch {
		t.Errorf("Pitch = %v, want %v", cam.PitchDeg, maxPitch)
	}

	s.Orbit(0, -400)
	if s.Camera().PitchDeg != -maxPitch {
		t.Errorf("Pitch = %v, want %v", s.Camera().PitchDeg, -maxPitch)
	}
}

func TestFacingBack(t *testing.T) {
	s := NewScene(cubelock.NewStore(), DefaultOptions())
	if s.FacingBack() {
		t.Error("Default view should not show the back")
	}
	s.Orbit(135, 0)
	if !s.FacingBack() {
		t.Errorf("Yaw %v should show the back", s.Camera().YawDeg)
	}
}

func TestDrawShadesStickers(t *testing.T) {
	_, s := frontScene(t)
	c := NewCanvas(80, 24)
	s.Draw(c)

	cell, _ := c.At(40, 12)
	if cell.BG == "" {
		t.Fatal("Center cell not drawn")
	}
	col, err := colorful.Hex(cell.BG)
	if err != nil {
		t.Fatalf("Bad color %q: %v", cell.BG, err)
	}
	if col.G <= col.R || col.G <= col.B {
		t.Errorf("Front center should be green, got %s", cell.BG)
	}

	if corner, _ := c.At(0, 0); corner.BG != "" {
		t.Error("Background cell should be untouched")
	}
}

func TestHintOnlyFromBehind(t *testing.T) {
	hint := "RR,RR\nRU,RL,RD"

	_, s := frontScene(t)
	c := NewCanvas(80, 24)
	s.Draw(c)
	s.DrawHint(c, hint, "#FFFFFF")
	if strings.Contains(c.String(), "RR,RR") {
		t.Error("Hint visible from the front")
	}

	s.Orbit(180, 0)
	c.Clear()
	s.Draw(c)
	s.DrawHint(c, hint, "#FFFFFF")
	out := c.String()
	if !strings.Contains(out, "RR,RR") || !strings.Contains(out, "RU,RL,RD") {
		t.Errorf("Hint missing from behind:\n%s", out)
	}
}
