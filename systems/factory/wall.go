package factory

import (
	"github.com/automoto/groundmesh/archetypes"
	"github.com/automoto/groundmesh/components"
	"github.com/automoto/groundmesh/shared/gridmesh"
	"github.com/automoto/groundmesh/shared/leveldata"
	"github.com/automoto/groundmesh/tags"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateWall spawns a static wall for a ground body of a level.
func CreateWall(ecs *ecs.ECS, level *leveldata.Level, body gridmesh.Body) *donburi.Entry {
	wall := archetypes.Wall.Spawn(ecs)
	attachObject(ecs, wall, level, body, tags.ResolvSolid)
	return wall
}

// CreateSlopeWall creates a slope tile for ramp collision
// Uses rectangular bounds for detection, surface height is calculated mathematically
func CreateSlopeWall(ecs *ecs.ECS, level *leveldata.Level, body gridmesh.Body) *donburi.Entry {
	wall := archetypes.Ramp.Spawn(ecs)
	attachObject(ecs, wall, level, body, tags.ResolvRamp, body.Slope)
	return wall
}

func attachObject(ecs *ecs.ECS, wall *donburi.Entry, level *leveldata.Level, body gridmesh.Body, objTags ...string) {
	corner := body.Min().Add(level.Origin)

	obj := resolv.NewObject(corner.X, corner.Y, body.Width(), body.Height(), objTags...)
	obj.SetShape(resolv.NewRectangle(0, 0, body.Width(), body.Height()))
	obj.Data = wall // Link for O(1) lookup

	components.Object.SetValue(wall, components.ObjectData{Object: obj})
	components.Collider.SetValue(wall, components.ColliderData{Body: body, Level: level.IID})

	// Add to space if it exists
	if spaceEntry, ok := components.Space.First(ecs.World); ok {
		components.Space.Get(spaceEntry).Add(obj)
	}
}

// DestroyWall removes a wall's object from the space and the entity from the world.
func DestroyWall(ecs *ecs.ECS, wall *donburi.Entry) {
	if !wall.Valid() {
		return
	}
	if obj := components.Object.Get(wall); obj.Object != nil {
		if spaceEntry, ok := components.Space.First(ecs.World); ok {
			components.Space.Get(spaceEntry).Remove(obj.Object)
		}
	}
	ecs.World.Remove(wall.Entity())
}
