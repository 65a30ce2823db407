package factory

import (
	"github.com/automoto/groundmesh/archetypes"
	"github.com/automoto/groundmesh/components"
	"github.com/automoto/groundmesh/shared/leveldata"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreateLevel spawns the entity that stands for a loaded level.
func CreateLevel(ecs *ecs.ECS, level *leveldata.Level) *donburi.Entry {
	entry := archetypes.Level.Spawn(ecs)
	components.Level.Set(entry, &components.LevelData{Level: level})
	return entry
}

// FindLevel returns the entity of a loaded level, if it exists.
func FindLevel(ecs *ecs.ECS, level *leveldata.Level) (*donburi.Entry, bool) {
	var found *donburi.Entry
	components.Level.Each(ecs.World, func(e *donburi.Entry) {
		if found == nil && components.Level.Get(e).Level.IID == level.IID {
			found = e
		}
	})
	return found, found != nil
}
