package gridmesh

// Plate is a maximal run of marked columns in a single row, inclusive on both
// ends. Plates compare by value so they can key the rectangle builder.
type Plate struct {
	Left, Right int
}

// CompactRow collapses the marked columns of one row into plates ordered by
// ascending Left. An empty row yields an empty (non-nil) slice.
func CompactRow(cells CellSet, row, columns int) []Plate {
	plates := []Plate{}
	start, open := 0, false

	// Scan one column past the right edge so a plate touching it gets closed.
	for col := 0; col <= columns; col++ {
		marked := col < columns && cells.Contains(GridCoords{X: col, Y: row})
		switch {
		case open && !marked:
			plates = append(plates, Plate{Left: start, Right: col - 1})
			open = false
		case !open && marked:
			start, open = col, true
		}
	}
	return plates
}

// CompactRows returns one plate list per row, empty rows included.
func CompactRows(cells CellSet, columns, rows int) [][]Plate {
	stack := make([][]Plate, 0, rows)
	for row := 0; row < rows; row++ {
		stack = append(stack, CompactRow(cells, row, columns))
	}
	return stack
}
