// Package leveldata turns Tiled maps into the level records and marked-cell
// stream consumed by collider generation. It is shared by the ECS client and
// the headless server.
package leveldata

import (
	"github.com/automoto/groundmesh/shared/gridmesh"
	"github.com/google/uuid"
	"github.com/yohamta/donburi/features/math"
)

// Level is one loaded map. Rows grow downward as in Tiled, so a rectangle's
// Bottom row is its upper edge on screen.
type Level struct {
	IID    uuid.UUID
	Name   string
	Grid   gridmesh.Grid
	Origin math.Vec2 // world position of cell (0, 0)
	Ramps  []Ramp
}

// Ramp is a sloped tile. Ramps are never merged with ground.
type Ramp struct {
	Coords    gridmesh.GridCoords
	SlopeType string // "45_up_right", "45_up_left"
}

// Width is the level width in world units.
func (l *Level) Width() int {
	return l.Grid.Columns * l.Grid.GridSize
}

// Height is the level height in world units.
func (l *Level) Height() int {
	return l.Grid.Rows * l.Grid.GridSize
}

// CellMin returns the world position of a cell's top-left corner.
func (l *Level) CellMin(c gridmesh.GridCoords) math.Vec2 {
	g := float64(l.Grid.GridSize)
	return l.Origin.Add(math.NewVec2(float64(c.X)*g, float64(c.Y)*g))
}

// levelNamespace seeds level IIDs so the same map name always gets the same ID.
var levelNamespace = uuid.MustParse("6f1c7a52-3a8e-4d43-9a0e-2f0d8b7c5e11")

// LevelIID returns the stable identity of the level with the given name.
func LevelIID(name string) uuid.UUID {
	return uuid.NewSHA1(levelNamespace, []byte(name))
}

// World holds every loaded level plus the flat marked-cell stream in load
// order.
type World struct {
	Levels []*Level
	Marked []gridmesh.MarkedCell

	byIID map[uuid.UUID]*Level
}

func NewWorld() *World {
	return &World{byIID: make(map[uuid.UUID]*Level)}
}

// Add registers a level and appends its solid cells to the marked stream.
func (w *World) Add(level *Level, solid []gridmesh.GridCoords) {
	w.Levels = append(w.Levels, level)
	w.byIID[level.IID] = level
	for _, c := range solid {
		w.Marked = append(w.Marked, gridmesh.MarkedCell{Coords: c, Level: level.IID})
	}
}

// Level resolves a level by identity.
func (w *World) Level(iid uuid.UUID) (*Level, bool) {
	l, ok := w.byIID[iid]
	return l, ok
}

// Remove drops a level's data. Marked cells already handed out keep
// referencing it; resolving them afterwards reports missing level data.
func (w *World) Remove(iid uuid.UUID) bool {
	if _, ok := w.byIID[iid]; !ok {
		return false
	}
	delete(w.byIID, iid)
	for i, l := range w.Levels {
		if l.IID == iid {
			w.Levels = append(w.Levels[:i], w.Levels[i+1:]...)
			break
		}
	}
	return true
}

// Names returns level names in load order.
func (w *World) Names() []string {
	names := make([]string, 0, len(w.Levels))
	for _, l := range w.Levels {
		names = append(names, l.Name)
	}
	return names
}
