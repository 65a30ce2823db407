package systems

import (
	"context"
	"fmt"
	"log"

	"github.com/automoto/groundmesh/components"
	"github.com/automoto/groundmesh/shared/colliders"
	"github.com/automoto/groundmesh/shared/gridmesh"
	"github.com/automoto/groundmesh/shared/leveldata"
	"github.com/automoto/groundmesh/systems/factory"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// GroundSpawner is the ECS physics backend: every body becomes a wall entity
// whose resolv object lives in the world's space.
type GroundSpawner struct {
	ecs *ecs.ECS
}

func NewGroundSpawner(ecs *ecs.ECS) *GroundSpawner {
	return &GroundSpawner{ecs: ecs}
}

func (g *GroundSpawner) Spawn(level *leveldata.Level, body gridmesh.Body) any {
	if body.Slope != "" {
		return factory.CreateSlopeWall(g.ecs, level, body)
	}
	return factory.CreateWall(g.ecs, level, body)
}

func (g *GroundSpawner) Despawn(handle any) {
	if wall, ok := handle.(*donburi.Entry); ok {
		factory.DestroyWall(g.ecs, wall)
	}
}

// LoadLevels creates the collision space sized to the largest level, one
// entity per level, and the ground colliders of every level.
func LoadLevels(ctx context.Context, e *ecs.ECS, gen *colliders.Generator, world *leveldata.World, cellWidth, cellHeight int) (*colliders.Report, error) {
	if _, ok := components.Space.First(e.World); !ok {
		width, height := 0, 0
		for _, l := range world.Levels {
			width = max(width, int(l.Origin.X)+l.Width())
			height = max(height, int(l.Origin.Y)+l.Height())
		}
		factory.CreateSpace(e, width, height, cellWidth, cellHeight)
	}

	for _, l := range world.Levels {
		if _, ok := factory.FindLevel(e, l); !ok {
			factory.CreateLevel(e, l)
		}
	}

	return gen.ProcessWorld(ctx, world)
}

// UnloadLevel despawns a level entity together with all of its colliders.
func UnloadLevel(e *ecs.ECS, gen *colliders.Generator, level *leveldata.Level) error {
	entry, ok := factory.FindLevel(e, level)
	if !ok {
		return fmt.Errorf("level %s: %w", level.Name, gridmesh.ErrMissingLevelData)
	}

	released := gen.Unload(level.IID)
	e.World.Remove(entry.Entity())
	log.Printf("[colliders] unloaded level %s: %d bodies released", level.Name, released)
	return nil
}
