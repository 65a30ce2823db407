package gridmesh

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingLevelData is returned when marked cells reference a level that
	// is not present in the loaded level data.
	ErrMissingLevelData = errors.New("missing level data")

	// ErrInvalidGridBounds is matched by every *BoundsError.
	ErrInvalidGridBounds = errors.New("invalid grid bounds")
)

// BoundsError reports corrupted grid input: non-positive dimensions or a
// marked cell outside the grid.
type BoundsError struct {
	Grid       Grid
	Coords     GridCoords
	Dimensions bool // the grid itself is invalid, Coords is unset
}

func (e *BoundsError) Error() string {
	if e.Dimensions {
		return fmt.Sprintf("%v: grid %dx%d with tile size %d",
			ErrInvalidGridBounds, e.Grid.Columns, e.Grid.Rows, e.Grid.GridSize)
	}
	return fmt.Sprintf("%v: cell (%d, %d) outside %dx%d grid",
		ErrInvalidGridBounds, e.Coords.X, e.Coords.Y, e.Grid.Columns, e.Grid.Rows)
}

func (e *BoundsError) Is(target error) bool {
	return target == ErrInvalidGridBounds
}
