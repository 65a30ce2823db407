package colliders

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/automoto/groundmesh/shared/gridmesh"
	"github.com/automoto/groundmesh/shared/leveldata"
	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi/features/math"
	"go.uber.org/multierr"
)

func cells(coords ...gridmesh.GridCoords) []gridmesh.GridCoords {
	return coords
}

func block(columns, rows int) []gridmesh.GridCoords {
	var out []gridmesh.GridCoords
	for y := 0; y < rows; y++ {
		for x := 0; x < columns; x++ {
			out = append(out, gridmesh.GridCoords{X: x, Y: y})
		}
	}
	return out
}

func TestGeneratorProcessesWorld(t *testing.T) {
	backend := newRecordingBackend()
	gen := NewGenerator(NewRegistry(backend))

	world := leveldata.NewWorld()
	level := testLevel("block", 3, 2)
	world.Add(level, block(2, 2))

	report, err := gen.Process(context.Background(), world, world.Marked)
	require.NoError(t, err)
	require.Len(t, report.Levels, 1)

	lr := report.Levels[0]
	assert.Equal(t, 4, lr.Cells)
	assert.Equal(t, []gridmesh.Rect{{Left: 0, Right: 1, Bottom: 0, Top: 1}}, lr.Rects)
	assert.Equal(t, 1, report.Bodies())
	assert.Equal(t, 4, report.Cells())

	require.Len(t, backend.spawned, 1)
	body := backend.spawned[0]
	assert.Equal(t, 16.0, body.HalfWidth)
	assert.Equal(t, 16.0, body.HalfHeight)
	assert.Equal(t, 16.0, body.Center.X)
	assert.Equal(t, 16.0, body.Center.Y)
	assert.Equal(t, 1.0, body.Friction)
	assert.Equal(t, gridmesh.StaticFixed, body.Kind)
	assert.True(t, gen.Processed(level.IID))
}

func TestGeneratorDoesNotRespawnUnchangedLevel(t *testing.T) {
	backend := newRecordingBackend()
	gen := NewGenerator(NewRegistry(backend))

	world := leveldata.NewWorld()
	world.Add(testLevel("a", 4, 1), cells(gridmesh.GridCoords{X: 0, Y: 0}, gridmesh.GridCoords{X: 1, Y: 0}))

	_, err := gen.Process(context.Background(), world, world.Marked)
	require.NoError(t, err)
	require.Len(t, backend.spawned, 1)

	// Same cells in a different order.
	reversed := []gridmesh.MarkedCell{world.Marked[1], world.Marked[0]}
	report, err := gen.Process(context.Background(), world, reversed)
	require.NoError(t, err)

	require.Len(t, report.Levels, 1)
	assert.True(t, report.Levels[0].Unchanged)
	assert.Equal(t, 0, report.Bodies())
	assert.Len(t, backend.spawned, 1)
	assert.Equal(t, 1, gen.Registry().Len())
}

func TestGeneratorRebuildsChangedLevel(t *testing.T) {
	backend := newRecordingBackend()
	gen := NewGenerator(NewRegistry(backend))

	level := testLevel("a", 3, 2)
	world := leveldata.NewWorld()
	world.Add(level, cells(gridmesh.GridCoords{X: 0, Y: 0}))

	_, err := gen.Process(context.Background(), world, world.Marked)
	require.NoError(t, err)

	grown := append(world.Marked, gridmesh.MarkedCell{Coords: gridmesh.GridCoords{X: 2, Y: 0}, Level: level.IID})
	report, err := gen.Process(context.Background(), world, grown)
	require.NoError(t, err)

	require.Len(t, report.Levels, 1)
	assert.True(t, report.Levels[0].Rebuilt)
	assert.Len(t, backend.spawned, 3)
	assert.Equal(t, map[int]bool{1: true, 2: true}, backend.live)
	assert.Equal(t, 2, gen.Registry().Len())
}

func TestGeneratorSkipsMissingLevel(t *testing.T) {
	backend := newRecordingBackend()
	gen := NewGenerator(NewRegistry(backend))

	world := leveldata.NewWorld()
	world.Add(testLevel("known", 2, 1), cells(gridmesh.GridCoords{X: 0, Y: 0}))

	ghost := uuid.New()
	marked := append([]gridmesh.MarkedCell{
		{Coords: gridmesh.GridCoords{X: 0, Y: 0}, Level: ghost},
	}, world.Marked...)

	report, err := gen.Process(context.Background(), world, marked)
	require.Error(t, err)
	assert.ErrorIs(t, err, gridmesh.ErrMissingLevelData)
	assert.Contains(t, err.Error(), ghost.String())

	require.Len(t, report.Levels, 1)
	assert.Equal(t, "known", report.Levels[0].Level.Name)
	assert.Len(t, backend.spawned, 1)
	assert.False(t, gen.Processed(ghost))
}

func TestGeneratorSkipsLevelWithInvalidBounds(t *testing.T) {
	backend := newRecordingBackend()
	gen := NewGenerator(NewRegistry(backend))

	world := leveldata.NewWorld()
	bad := testLevel("bad", 3, 2)
	world.Add(bad, cells(gridmesh.GridCoords{X: 0, Y: 0}, gridmesh.GridCoords{X: 3, Y: 1}))
	world.Add(testLevel("good", 3, 2), block(3, 2))
	world.Add(testLevel("flat", 0, 2), nil)

	report, err := gen.ProcessWorld(context.Background(), world)
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.ErrorIs(t, e, gridmesh.ErrInvalidGridBounds)
	}
	assert.Contains(t, errs[0].Error(), "cell (3, 1)")

	require.Len(t, report.Levels, 1)
	assert.Equal(t, "good", report.Levels[0].Level.Name)
	assert.False(t, gen.Processed(bad.IID))
	assert.Len(t, backend.spawned, 1)
}

func TestGeneratorProcessWorldSpawnsRamps(t *testing.T) {
	backend := newRecordingBackend()
	gen := NewGenerator(NewRegistry(backend), WithFriction(0.5))

	world := leveldata.NewWorld()
	slopes := testLevel("slopes", 4, 4)
	slopes.Ramps = []leveldata.Ramp{{Coords: gridmesh.GridCoords{X: 1, Y: 3}, SlopeType: "45_up_right"}}
	world.Add(slopes, nil)

	report, err := gen.ProcessWorld(context.Background(), world)
	require.NoError(t, err)

	require.Len(t, report.Levels, 1)
	assert.Empty(t, report.Levels[0].Rects)
	assert.Equal(t, 1, report.Levels[0].Ramps)

	require.Len(t, backend.spawned, 1)
	assert.Equal(t, "45_up_right", backend.spawned[0].Slope)
	assert.Equal(t, 24.0, backend.spawned[0].Center.X)
	assert.Equal(t, 0.5, backend.spawned[0].Friction)
}

func TestGeneratorEmptyInput(t *testing.T) {
	backend := newRecordingBackend()
	gen := NewGenerator(NewRegistry(backend))

	report, err := gen.Process(context.Background(), leveldata.NewWorld(), nil)
	require.NoError(t, err)
	assert.Empty(t, report.Levels)
	assert.Empty(t, backend.spawned)
}

func TestGeneratorUnload(t *testing.T) {
	backend := newRecordingBackend()
	gen := NewGenerator(NewRegistry(backend))

	world := leveldata.NewWorld()
	level := testLevel("a", 3, 3)
	world.Add(level, cells(gridmesh.GridCoords{X: 0, Y: 0}, gridmesh.GridCoords{X: 2, Y: 2}))

	_, err := gen.Process(context.Background(), world, world.Marked)
	require.NoError(t, err)

	assert.Equal(t, 2, gen.Unload(level.IID))
	assert.Empty(t, backend.live)
	assert.False(t, gen.Processed(level.IID))
	assert.Empty(t, gen.Registry().Levels())

	// After an unload the level can be loaded again.
	report, err := gen.Process(context.Background(), world, world.Marked)
	require.NoError(t, err)
	assert.False(t, report.Levels[0].Unchanged)
	assert.Len(t, backend.live, 2)
}

func TestGeneratorParallelOrderIsDeterministic(t *testing.T) {
	build := func() []uuid.UUID {
		backend := newRecordingBackend()
		gen := NewGenerator(NewRegistry(backend), WithParallelism(4))

		world := leveldata.NewWorld()
		for i := 0; i < 24; i++ {
			world.Add(testLevel(fmt.Sprintf("level-%02d", i), 8, 8), block(1+i%8, 1+i%5))
		}

		_, err := gen.ProcessWorld(context.Background(), world)
		require.NoError(t, err)
		return backend.owners
	}

	first := build()
	assert.Len(t, first, 24)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, build())
	}
}

func TestGeneratorHonoursCancellation(t *testing.T) {
	backend := newRecordingBackend()
	gen := NewGenerator(NewRegistry(backend))

	world := leveldata.NewWorld()
	world.Add(testLevel("a", 2, 2), block(2, 2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Process(ctx, world, world.Marked)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, backend.spawned)
	assert.False(t, gen.Processed(leveldata.LevelIID("a")))
}

func TestGeneratorKeepsBuildErrorsOnCancellation(t *testing.T) {
	backend := newRecordingBackend()
	gen := NewGenerator(NewRegistry(backend), WithParallelism(1))

	world := leveldata.NewWorld()
	world.Add(testLevel("bad", 2, 2), cells(gridmesh.GridCoords{X: 4, Y: 0}))
	world.Add(testLevel("good", 2, 2), block(2, 2))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel as soon as the first level has been built.
	t.Cleanup(func() { build = gridmesh.Build })
	build = func(grid gridmesh.Grid, cells gridmesh.CellSet) ([]gridmesh.Rect, error) {
		rects, err := gridmesh.Build(grid, cells)
		cancel()
		return rects, err
	}

	_, err := gen.ProcessWorld(ctx, world)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, gridmesh.ErrInvalidGridBounds)
	assert.Contains(t, err.Error(), "cell (4, 0)")
	assert.Empty(t, backend.spawned)
}

func TestChipmunkBackend(t *testing.T) {
	space := cp.NewSpace()
	gen := NewGenerator(NewRegistry(NewChipmunkBackend(space)))

	world := leveldata.NewWorld()
	level := testLevel("cp", 4, 2)
	level.Origin = math.NewVec2(64, 32)
	level.Ramps = []leveldata.Ramp{{Coords: gridmesh.GridCoords{X: 3, Y: 0}, SlopeType: "45_up_left"}}
	world.Add(level, cells(gridmesh.GridCoords{X: 0, Y: 0}))

	_, err := gen.Process(context.Background(), world, world.Marked)
	require.NoError(t, err)

	handles := gen.Registry().Handles(level.IID)
	require.Len(t, handles, 2)

	ground := handles[0].(*ChipmunkShape)
	assert.Equal(t, cp.BODY_STATIC, ground.Body.GetType())
	assert.Equal(t, cp.Vector{X: 72, Y: 40}, ground.Body.Position())
	assert.Equal(t, 1.0, ground.Shape.Friction())
	assert.Nil(t, ground.Shape.UserData)

	ramp := handles[1].(*ChipmunkShape)
	assert.Equal(t, "45_up_left", ramp.Shape.UserData)
	assert.Equal(t, cp.Vector{X: 120, Y: 40}, ramp.Body.Position())

	assert.Equal(t, 2, gen.Unload(level.IID))
	assert.Equal(t, 0, gen.Registry().Len())
}
