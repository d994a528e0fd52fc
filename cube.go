package cubelock

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

const halfPi = math.Pi / 2

// Spacing is the distance between neighbouring cubelet centers in scene units.
const Spacing = 1.0

// Color represents a sticker color.
type Color byte

const (
	White   Color = 0 // Up face when solved
	Yellow  Color = 1 // Down face when solved
	Green   Color = 2 // Front face when solved
	Blue    Color = 3 // Back face when solved
	Red     Color = 4 // Right face when solved
	Orange  Color = 5 // Left face when solved
	Neutral Color = 6 // Interior-facing sides
)

func (c Color) String() string {
	switch c {
	case White:
		return "W"
	case Yellow:
		return "Y"
	case Green:
		return "G"
	case Blue:
		return "B"
	case Red:
		return "R"
	case Orange:
		return "O"
	case Neutral:
		return "."
	default:
		return "?"
	}
}

// Hex returns the display color as #RRGGBB.
func (c Color) Hex() string {
	switch c {
	case White:
		return "#FFFFFF"
	case Yellow:
		return "#FFD500"
	case Green:
		return "#009B48"
	case Blue:
		return "#0045AD"
	case Red:
		return "#B90000"
	case Orange:
		return "#FF6C00"
	default:
		return "#1C1C1C"
	}
}

// Face identifies one of the six axis-aligned sides, either of a cubelet
// (local frame) or of the whole cube (world frame).
// The order matches the per-side material order of a box mesh.
type Face int

const (
	FaceRight Face = 0 // +X
	FaceLeft  Face = 1 // -X
	FaceUp    Face = 2 // +Y
	FaceDown  Face = 3 // -Y
	FaceFront Face = 4 // +Z
	FaceBack  Face = 5 // -Z
)

// Faces lists all six faces in index order.
var Faces = [6]Face{FaceRight, FaceLeft, FaceUp, FaceDown, FaceFront, FaceBack}

func (f Face) String() string {
	switch f {
	case FaceRight:
		return "R"
	case FaceLeft:
		return "L"
	case FaceUp:
		return "U"
	case FaceDown:
		return "D"
	case FaceFront:
		return "F"
	case FaceBack:
		return "B"
	default:
		return "?"
	}
}

// Axis returns the axis the face normal lies on.
func (f Face) Axis() Axis {
	return Axis(int(f) / 2)
}

// Sign returns +1 for the positive side of the axis, -1 otherwise.
func (f Face) Sign() int {
	if int(f)%2 == 0 {
		return 1
	}
	return -1
}

// Normal returns the outward unit normal.
func (f Face) Normal() Coord {
	var c Coord
	c[f.Axis()] = f.Sign()
	return c
}

// FaceFromNormal returns the face with the given axis-aligned unit normal.
func FaceFromNormal(n Coord) (Face, bool) {
	for _, f := range Faces {
		if f.Normal() == n {
			return f, true
		}
	}
	return 0, false
}

// Coord is an integer grid position in {-1,0,1}^3.
type Coord [3]int

// Valid reports whether every component is in {-1,0,1}.
func (c Coord) Valid() bool {
	for _, v := range c {
		if v < -1 || v > 1 {
			return false
		}
	}
	return true
}

// Vec3 converts the grid position to scene units.
func (c Coord) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{float64(c[0]) * Spacing, float64(c[1]) * Spacing, float64(c[2]) * Spacing}
}

// Rotate returns c turned a quarter-turn about axis in the given direction.
// Grid points always land on grid points, so no rounding is needed.
func (c Coord) Rotate(axis Axis, dir Direction) Coord {
	x, y, z := c[0], c[1], c[2]
	switch {
	case axis == AxisX && dir == Positive:
		return Coord{x, -z, y}
	case axis == AxisX && dir == Negative:
		return Coord{x, z, -y}
	case axis == AxisY && dir == Positive:
		return Coord{z, y, -x}
	case axis == AxisY && dir == Negative:
		return Coord{-z, y, x}
	case axis == AxisZ && dir == Positive:
		return Coord{-y, x, z}
	case axis == AxisZ && dir == Negative:
		return Coord{y, -x, z}
	}
	return c
}

func (c Coord) slot() int {
	return (c[0]+1)*9 + (c[1]+1)*3 + (c[2] + 1)
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c[0], c[1], c[2])
}

// Orientation is an exact rotation matrix mapping cubelet-local directions
// to world directions. Entries are always -1, 0 or 1.
type Orientation [3][3]int

// IdentityOrientation is the spawn orientation of every cubelet.
var IdentityOrientation = Orientation{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// QuarterTurn returns the orientation of a single quarter-turn.
func QuarterTurn(axis Axis, dir Direction) Orientation {
	var o Orientation
	for j := 0; j < 3; j++ {
		var basis Coord
		basis[j] = 1
		col := basis.Rotate(axis, dir)
		for i := 0; i < 3; i++ {
			o[i][j] = col[i]
		}
	}
	return o
}

// Apply maps a local direction to world space.
func (o Orientation) Apply(c Coord) Coord {
	var out Coord
	for i := 0; i < 3; i++ {
		out[i] = o[i][0]*c[0] + o[i][1]*c[1] + o[i][2]*c[2]
	}
	return out
}

// Mul returns o * other (other applied first).
func (o Orientation) Mul(other Orientation) Orientation {
	var out Orientation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = o[i][0]*other[0][j] + o[i][1]*other[1][j] + o[i][2]*other[2][j]
		}
	}
	return out
}

// Transpose returns the inverse rotation.
func (o Orientation) Transpose() Orientation {
	var out Orientation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = o[j][i]
		}
	}
	return out
}

// IsRotation reports whether o is a proper rotation of the grid.
func (o Orientation) IsRotation() bool {
	if o.Mul(o.Transpose()) != IdentityOrientation {
		return false
	}
	det := o[0][0]*(o[1][1]*o[2][2]-o[1][2]*o[2][1]) -
		o[0][1]*(o[1][0]*o[2][2]-o[1][2]*o[2][0]) +
		o[0][2]*(o[1][0]*o[2][1]-o[1][1]*o[2][0])
	return det == 1
}

// Quat converts the orientation to a render quaternion.
func (o Orientation) Quat() mgl64.Quat {
	// mgl64 matrices are column-major.
	m := mgl64.Mat3{
		float64(o[0][0]), float64(o[1][0]), float64(o[2][0]),
		float64(o[0][1]), float64(o[1][1]), float64(o[2][1]),
		float64(o[0][2]), float64(o[1][2]), float64(o[2][2]),
	}
	return mgl64.Mat4ToQuat(m.Mat4()).Normalize()
}

// Transform is the continuous pose used only for drawing and animation.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// RestTransform returns the render pose for a logical position and orientation.
func RestTransform(pos Coord, o Orientation) Transform {
	return Transform{Position: pos.Vec3(), Rotation: o.Quat()}
}

// Cubelet is one of the 27 unit sub-cubes.
type Cubelet struct {
	ID          int
	Home        Coord       // spawn position, decides Colors
	Position    Coord       // committed logical slot
	Orientation Orientation // local to world
	Colors      [6]Color    // indexed by local Face, never changes
	Render      Transform
}

// FacingColor returns the sticker color currently pointing in the world
// direction of face.
func (c Cubelet) FacingColor(face Face) Color {
	local := c.Orientation.Transpose().Apply(face.Normal())
	f, ok := FaceFromNormal(local)
	if !ok {
		return Neutral
	}
	return c.Colors[f]
}

// cubeletColors assigns sticker colors from the spawn position.
func cubeletColors(home Coord) [6]Color {
	colors := [6]Color{Neutral, Neutral, Neutral, Neutral, Neutral, Neutral}
	solved := [6]Color{Red, Orange, White, Yellow, Green, Blue}
	for _, f := range Faces {
		if home[f.Axis()] == f.Sign() {
			colors[f] = solved[f]
		}
	}
	return colors
}

// CubeletCount is the number of cubelets in a 3x3x3 cube.
const CubeletCount = 27

// Store holds the 27 cubelets and is the source of truth for cube state.
// It is not safe for concurrent use; the engine, resolver and renderer all
// run on one goroutine.
type Store struct {
	cubelets [CubeletCount]Cubelet
	slots    [CubeletCount]int // slot index -> cubelet ID
}

// NewStore creates a solved cube.
func NewStore() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Reset restores the solved state. Cubelet IDs are stable across resets.
func (s *Store) Reset() {
	id := 0
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				home := Coord{x, y, z}
				s.cubelets[id] = Cubelet{
					ID:          id,
					Home:        home,
					Position:    home,
					Orientation: IdentityOrientation,
					Colors:      cubeletColors(home),
					Render:      RestTransform(home, IdentityOrientation),
				}
				s.slots[home.slot()] = id
				id++
			}
		}
	}
}

// Len returns the number of cubelets.
func (s *Store) Len() int {
	return CubeletCount
}

// Cubelet returns a copy of the cubelet with the given ID.
func (s *Store) Cubelet(id int) (Cubelet, bool) {
	if id < 0 || id >= CubeletCount {
		return Cubelet{}, false
	}
	return s.cubelets[id], true
}

// Cubelets returns a copy of every cubelet, ordered by ID.
func (s *Store) Cubelets() []Cubelet {
	out := make([]Cubelet, CubeletCount)
	copy(out, s.cubelets[:])
	return out
}

// At returns the cubelet occupying a logical slot.
func (s *Store) At(pos Coord) (Cubelet, bool) {
	if !pos.Valid() {
		return Cubelet{}, false
	}
	return s.cubelets[s.slots[pos.slot()]], true
}

// StickerColor returns the color cubelet id currently shows towards the
// world direction of face.
func (s *Store) StickerColor(id int, face Face) (Color, bool) {
	c, ok := s.Cubelet(id)
	if !ok {
		return Neutral, false
	}
	return c.FacingColor(face), true
}

// CubeletsInLayer returns the nine cubelets whose committed position on
// axis equals index. It never looks at render transforms, so mid-animation
// it reports the membership from before the turn.
func (s *Store) CubeletsInLayer(axis Axis, index int) ([]Cubelet, error) {
	ids, err := s.layerIDs(axis, index)
	if err != nil {
		return nil, err
	}
	out := make([]Cubelet, len(ids))
	for i, id := range ids {
		out[i] = s.cubelets[id]
	}
	return out, nil
}

func (s *Store) layerIDs(axis Axis, index int) ([]int, error) {
	if !axis.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAxis, int(axis))
	}
	if index < -1 || index > 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLayer, index)
	}

	ids := make([]int, 0, 9)
	for i := range s.cubelets {
		if s.cubelets[i].Position[axis] == index {
			ids = append(ids, i)
		}
	}
	return ids, nil
}

// CommitRotation applies a quarter-turn to the logical state of one layer.
// Every new position is computed before any is written, and render
// transforms of the layer snap to their exact rest pose.
func (s *Store) CommitRotation(r Rotation) error {
	if err := r.Validate(); err != nil {
		return err
	}
	ids, err := s.layerIDs(r.Axis, r.Index)
	if err != nil {
		return err
	}

	turn := QuarterTurn(r.Axis, r.Direction)
	next := make([]Cubelet, len(ids))
	for i, id := range ids {
		c := s.cubelets[id]
		c.Position = c.Position.Rotate(r.Axis, r.Direction)
		c.Orientation = turn.Mul(c.Orientation)
		c.Render = RestTransform(c.Position, c.Orientation)
		next[i] = c
	}

	for _, c := range next {
		s.cubelets[c.ID] = c
		s.slots[c.Position.slot()] = c.ID
	}
	return nil
}

// setRender updates the drawing pose only.
func (s *Store) setRender(id int, t Transform) {
	s.cubelets[id].Render = t
}

// faceBasis gives, for each world face seen from outside, the grid
// direction of increasing column and increasing row.
var faceBasis = map[Face][2]Coord{
	FaceFront: {{1, 0, 0}, {0, -1, 0}},
	FaceBack:  {{-1, 0, 0}, {0, -1, 0}},
	FaceRight: {{0, 0, -1}, {0, -1, 0}},
	FaceLeft:  {{0, 0, 1}, {0, -1, 0}},
	FaceUp:    {{1, 0, 0}, {0, 0, 1}},
	FaceDown:  {{1, 0, 0}, {0, 0, -1}},
}

// FaceGrid returns the nine sticker colors of a world face as seen from
// outside the cube, row by row.
func (s *Store) FaceGrid(face Face) [3][3]Color {
	var grid [3][3]Color
	basis := faceBasis[face]
	n := face.Normal()
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			var pos Coord
			for i := 0; i < 3; i++ {
				pos[i] = n[i] + basis[0][i]*(col-1) + basis[1][i]*(row-1)
			}
			c, _ := s.At(pos)
			grid[row][col] = c.FacingColor(face)
		}
	}
	return grid
}

// IsSolved returns true if every outer face shows a single color.
func (s *Store) IsSolved() bool {
	for _, f := range Faces {
		grid := s.FaceGrid(f)
		want := grid[1][1]
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				if grid[row][col] != want {
					return false
				}
			}
		}
	}
	return true
}

// Validate checks that the 27 positions are distinct, cover the grid and
// agree with the slot index, and that every orientation is a rotation.
func (s *Store) Validate() error {
	var seen [CubeletCount]bool
	for _, c := range s.cubelets {
		if !c.Position.Valid() {
			return fmt.Errorf("%w: cubelet %d off grid at %s", ErrCorruptState, c.ID, c.Position)
		}
		slot := c.Position.slot()
		if seen[slot] {
			return fmt.Errorf("%w: slot %s occupied twice", ErrCorruptState, c.Position)
		}
		seen[slot] = true
		if s.slots[slot] != c.ID {
			return fmt.Errorf("%w: slot index for %s points at %d, not %d", ErrCorruptState, c.Position, s.slots[slot], c.ID)
		}
		if !c.Orientation.IsRotation() {
			return fmt.Errorf("%w: cubelet %d orientation is not a rotation", ErrCorruptState, c.ID)
		}
	}
	return nil
}

// String returns an unfolded net of the cube:
//
//	      U
//	L F R B
//	      D
func (s *Store) String() string {
	var b strings.Builder

	writeRow := func(face Face, row int) {
		grid := s.FaceGrid(face)
		for col := 0; col < 3; col++ {
			b.WriteString(grid[row][col].String())
			b.WriteString(" ")
		}
	}

	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		writeRow(FaceUp, row)
		b.WriteString("\n")
	}
	for row := 0; row < 3; row++ {
		for _, face := range []Face{FaceLeft, FaceFront, FaceRight, FaceBack} {
			writeRow(face, row)
		}
		b.WriteString("\n")
	}
	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		writeRow(FaceDown, row)
		b.WriteString("\n")
	}

	return b.String()
}
