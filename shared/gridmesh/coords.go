// Package gridmesh compacts the solid cells of a tile grid into axis-aligned
// rectangles and derives static collision body descriptors from them. It
// performs no I/O and holds no shared state, so levels can be built in parallel.
package gridmesh

import "github.com/google/uuid"

// GridCoords addresses one tile cell by column (X) and row (Y).
type GridCoords struct {
	X, Y int
}

// MarkedCell is one element of the flat stream produced by the level loader:
// a solid cell and the level that owns it.
type MarkedCell struct {
	Coords GridCoords
	Level  uuid.UUID
}

// CellSet is the set of marked cells of one level.
type CellSet map[GridCoords]struct{}

// NewCellSet builds a set from the given coordinates.
func NewCellSet(coords ...GridCoords) CellSet {
	s := make(CellSet, len(coords))
	for _, c := range coords {
		s.Add(c)
	}
	return s
}

func (s CellSet) Add(c GridCoords) {
	s[c] = struct{}{}
}

func (s CellSet) Contains(c GridCoords) bool {
	_, ok := s[c]
	return ok
}

func (s CellSet) Len() int {
	return len(s)
}

// Equal reports whether both sets hold exactly the same cells.
func (s CellSet) Equal(other CellSet) bool {
	if len(s) != len(other) {
		return false
	}
	for c := range s {
		if !other.Contains(c) {
			return false
		}
	}
	return true
}

// Grid describes the dimensions of a level's tile grid.
type Grid struct {
	Columns  int
	Rows     int
	GridSize int // tile edge length in world units
}

// Validate checks the grid dimensions and that every cell lies inside the
// grid. Out of range cells are never clamped or dropped. When several cells
// are out of range the lowest by row, then column, is reported.
func (g Grid) Validate(cells CellSet) error {
	if g.Columns <= 0 || g.Rows <= 0 || g.GridSize <= 0 {
		return &BoundsError{Grid: g, Dimensions: true}
	}

	var bad *GridCoords
	for c := range cells {
		if g.contains(c) {
			continue
		}
		if bad == nil || c.Less(*bad) {
			bad = &c
		}
	}
	if bad != nil {
		return &BoundsError{Grid: g, Coords: *bad}
	}
	return nil
}

func (g Grid) contains(c GridCoords) bool {
	return c.X >= 0 && c.X < g.Columns && c.Y >= 0 && c.Y < g.Rows
}

// Less orders coordinates by row, then column.
func (c GridCoords) Less(other GridCoords) bool {
	if c.Y != other.Y {
		return c.Y < other.Y
	}
	return c.X < other.X
}
