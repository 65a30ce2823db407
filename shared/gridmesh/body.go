package gridmesh

import "github.com/yohamta/donburi/features/math"

// DefaultFriction is the friction of every emitted ground body.
const DefaultFriction = 1.0

// BodyKind describes how the physics backend should treat a body.
type BodyKind int

const (
	// StaticFixed bodies never move and are never mutated after creation.
	StaticFixed BodyKind = iota
)

func (k BodyKind) String() string {
	switch k {
	case StaticFixed:
		return "static"
	default:
		return "unknown"
	}
}

// Body is a collision body descriptor in world units. Center is relative to
// the owning level's origin.
type Body struct {
	HalfWidth  float64
	HalfHeight float64
	Center     math.Vec2
	Friction   float64
	Kind       BodyKind
	Slope      string // slope type of a ramp tile, empty for ground
}

// BodyFromRect converts a rectangle of cells into a body descriptor.
func BodyFromRect(r Rect, gridSize int) Body {
	g := float64(gridSize)
	return Body{
		HalfWidth:  float64(r.Width()) * g / 2,
		HalfHeight: float64(r.Height()) * g / 2,
		Center: math.NewVec2(
			float64(r.Left+r.Right+1)*g/2,
			float64(r.Bottom+r.Top+1)*g/2,
		),
		Friction: DefaultFriction,
		Kind:     StaticFixed,
	}
}

// Emit converts finished rectangles into body descriptors, preserving order.
func Emit(rects []Rect, gridSize int) []Body {
	bodies := make([]Body, 0, len(rects))
	for _, r := range rects {
		bodies = append(bodies, BodyFromRect(r, gridSize))
	}
	return bodies
}

// RampBody is the single-tile body of a sloped cell. Ramps are never merged.
func RampBody(c GridCoords, gridSize int, slope string) Body {
	b := BodyFromRect(Rect{Left: c.X, Right: c.X, Bottom: c.Y, Top: c.Y}, gridSize)
	b.Slope = slope
	return b
}

// Min returns the corner with the smallest coordinates, relative to the
// level origin. resolv objects are positioned by this corner.
func (b Body) Min() math.Vec2 {
	return math.NewVec2(b.Center.X-b.HalfWidth, b.Center.Y-b.HalfHeight)
}

func (b Body) Width() float64 {
	return b.HalfWidth * 2
}

func (b Body) Height() float64 {
	return b.HalfHeight * 2
}

// Translate moves the body by the given offset, typically a level origin.
func (b Body) Translate(offset math.Vec2) Body {
	b.Center = b.Center.Add(offset)
	return b
}
