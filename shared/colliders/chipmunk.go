package colliders

import (
	"github.com/automoto/groundmesh/shared/gridmesh"
	"github.com/automoto/groundmesh/shared/leveldata"
	"github.com/jakecoffman/cp"
)

// ChipmunkShape is the handle ChipmunkBackend returns for a spawned body.
type ChipmunkShape struct {
	Body  *cp.Body
	Shape *cp.Shape
}

// ChipmunkBackend spawns every descriptor as a static body with one box shape
// in a Chipmunk2D space. Ramp boxes carry their slope type in UserData.
type ChipmunkBackend struct {
	Space *cp.Space
}

func NewChipmunkBackend(space *cp.Space) *ChipmunkBackend {
	return &ChipmunkBackend{Space: space}
}

func (b *ChipmunkBackend) Spawn(level *leveldata.Level, body gridmesh.Body) any {
	world := body.Translate(level.Origin)

	rb := cp.NewStaticBody()
	rb.SetPosition(cp.Vector{X: world.Center.X, Y: world.Center.Y})

	shape := cp.NewBox(rb, body.Width(), body.Height(), 0)
	shape.SetFriction(body.Friction)
	if body.Slope != "" {
		shape.UserData = body.Slope
	}

	b.Space.AddBody(rb)
	b.Space.AddShape(shape)
	return &ChipmunkShape{Body: rb, Shape: shape}
}

func (b *ChipmunkBackend) Despawn(handle any) {
	h, ok := handle.(*ChipmunkShape)
	if !ok {
		return
	}
	b.Space.RemoveShape(h.Shape)
	b.Space.RemoveBody(h.Body)
}
