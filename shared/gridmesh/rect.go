package gridmesh

// Rect is an inclusive block of cells. Bottom is the lowest row index and Top
// the highest; they carry no screen orientation.
type Rect struct {
	Left, Right int
	Bottom, Top int
}

func (r Rect) Width() int {
	return r.Right - r.Left + 1
}

func (r Rect) Height() int {
	return r.Top - r.Bottom + 1
}

// Area is the number of cells covered.
func (r Rect) Area() int {
	return r.Width() * r.Height()
}

func (r Rect) Contains(c GridCoords) bool {
	return c.X >= r.Left && c.X <= r.Right && c.Y >= r.Bottom && c.Y <= r.Top
}

// AssembleRects stacks plates of consecutive rows into rectangles. Plates only
// merge when the very next row has a plate with identical bounds; a change in
// width or a gap row starts a new rectangle.
//
// Output order is the order rectangles are finished: by the row in which they
// end, then by Left. The same plate stack always yields the same slice.
func AssembleRects(plateStack [][]Plate) []Rect {
	builder := make(map[Plate]*Rect)
	var prev []Plate
	var rects []Rect

	// finish flushes every plate of the previous row that did not continue.
	finish := func(current []Plate) {
		for _, p := range prev {
			if containsPlate(current, p) {
				continue
			}
			if r, ok := builder[p]; ok {
				rects = append(rects, *r)
				delete(builder, p)
			}
		}
	}

	for row, current := range plateStack {
		finish(current)
		for _, p := range current {
			if r, ok := builder[p]; ok {
				r.Top++
				continue
			}
			builder[p] = &Rect{Left: p.Left, Right: p.Right, Bottom: row, Top: row}
		}
		prev = current
	}

	// Trailing empty row closes everything touching the top edge.
	finish(nil)

	return rects
}

func containsPlate(plates []Plate, p Plate) bool {
	for _, q := range plates {
		if q == p {
			return true
		}
	}
	return false
}

// Cover returns every cell covered by the given rectangles.
func Cover(rects []Rect) CellSet {
	cells := make(CellSet)
	for _, r := range rects {
		for y := r.Bottom; y <= r.Top; y++ {
			for x := r.Left; x <= r.Right; x++ {
				cells.Add(GridCoords{X: x, Y: y})
			}
		}
	}
	return cells
}
