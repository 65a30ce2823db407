package components

import (
	"github.com/automoto/groundmesh/shared/leveldata"
	"github.com/yohamta/donburi"
)

// LevelData links a level entity to its loaded map.
type LevelData struct {
	Level *leveldata.Level
}

var Level = donburi.NewComponentType[LevelData]()
