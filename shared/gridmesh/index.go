package gridmesh

import "github.com/google/uuid"

// Index groups marked cells by the level that owns them. Levels are reported
// in the order they were first seen so downstream processing is stable.
type Index struct {
	order []uuid.UUID
	sets  map[uuid.UUID]CellSet
}

func NewIndex() *Index {
	return &Index{sets: make(map[uuid.UUID]CellSet)}
}

// Group indexes a whole stream of marked cells.
func Group(cells []MarkedCell) *Index {
	idx := NewIndex()
	for _, c := range cells {
		idx.Add(c)
	}
	return idx
}

func (idx *Index) Add(c MarkedCell) {
	set, ok := idx.sets[c.Level]
	if !ok {
		set = make(CellSet)
		idx.sets[c.Level] = set
		idx.order = append(idx.order, c.Level)
	}
	set.Add(c.Coords)
}

// Levels returns the indexed level IDs in first-seen order.
func (idx *Index) Levels() []uuid.UUID {
	out := make([]uuid.UUID, len(idx.order))
	copy(out, idx.order)
	return out
}

// Cells returns the marked cells of a level, or nil if none were indexed.
func (idx *Index) Cells(level uuid.UUID) CellSet {
	return idx.sets[level]
}

func (idx *Index) Len() int {
	return len(idx.order)
}
