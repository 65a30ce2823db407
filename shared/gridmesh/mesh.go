package gridmesh

// Build validates the grid and its marked cells, then compacts them into
// rectangles. The empty set yields no rectangles and no error.
func Build(grid Grid, cells CellSet) ([]Rect, error) {
	if err := grid.Validate(cells); err != nil {
		return nil, err
	}
	if cells.Len() == 0 {
		return nil, nil
	}
	return AssembleRects(CompactRows(cells, grid.Columns, grid.Rows)), nil
}

// BuildBodies runs Build and emits one body descriptor per rectangle.
func BuildBodies(grid Grid, cells CellSet) ([]Body, error) {
	rects, err := Build(grid, cells)
	if err != nil {
		return nil, err
	}
	return Emit(rects, grid.GridSize), nil
}
