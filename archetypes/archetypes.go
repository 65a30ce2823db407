package archetypes

import (
	"github.com/automoto/groundmesh/components"
	cfg "github.com/automoto/groundmesh/config"
	"github.com/automoto/groundmesh/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var (
	Level = newArchetype(
		tags.Level,
		components.Level,
	)
	Space = newArchetype(
		components.Space,
	)
	Wall = newArchetype(
		tags.Wall,
		components.Object,
		components.Collider,
	)
	Ramp = newArchetype(
		tags.Ramp,
		components.Object,
		components.Collider,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	e := ecs.World.Entry(ecs.Create(
		cfg.Default,
		append(a.components, cs...)...,
	))
	return e
}
