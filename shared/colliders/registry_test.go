package colliders

import (
	"testing"

	"github.com/automoto/groundmesh/shared/gridmesh"
	"github.com/automoto/groundmesh/shared/leveldata"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBackend hands out integer handles and tracks which are alive.
type recordingBackend struct {
	spawned []gridmesh.Body
	owners  []uuid.UUID
	live    map[int]bool
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{live: make(map[int]bool)}
}

func (b *recordingBackend) Spawn(level *leveldata.Level, body gridmesh.Body) any {
	handle := len(b.spawned)
	b.spawned = append(b.spawned, body)
	b.owners = append(b.owners, level.IID)
	b.live[handle] = true
	return handle
}

func (b *recordingBackend) Despawn(handle any) {
	delete(b.live, handle.(int))
}

func testLevel(name string, columns, rows int) *leveldata.Level {
	return &leveldata.Level{
		IID:  leveldata.LevelIID(name),
		Name: name,
		Grid: gridmesh.Grid{Columns: columns, Rows: rows, GridSize: 16},
	}
}

func TestRegistryReleasesLevelAsUnit(t *testing.T) {
	backend := newRecordingBackend()
	reg := NewRegistry(backend)

	a, b := testLevel("a", 4, 4), testLevel("b", 4, 4)
	one := gridmesh.BodyFromRect(gridmesh.Rect{}, 16)
	two := gridmesh.BodyFromRect(gridmesh.Rect{Right: 1}, 16)

	reg.Register(a, []gridmesh.Body{one, two})
	reg.Register(b, []gridmesh.Body{one})
	reg.Register(a, []gridmesh.Body{one})

	assert.Equal(t, 4, reg.Len())
	assert.Equal(t, []uuid.UUID{a.IID, b.IID}, reg.Levels())
	assert.Equal(t, []gridmesh.Body{one, two, one}, reg.Bodies(a.IID))
	assert.Equal(t, []any{0, 1, 3}, reg.Handles(a.IID))

	assert.Equal(t, 3, reg.Release(a.IID))
	assert.Equal(t, map[int]bool{2: true}, backend.live)
	assert.Equal(t, []uuid.UUID{b.IID}, reg.Levels())
	assert.Empty(t, reg.Bodies(a.IID))
	assert.Equal(t, 1, reg.Len())

	assert.Equal(t, 0, reg.Release(a.IID), "second release is a no-op")
}

func TestRegistryEmptyLevel(t *testing.T) {
	reg := NewRegistry(newRecordingBackend())
	level := testLevel("empty", 2, 2)

	reg.Register(level, nil)
	require.Equal(t, []uuid.UUID{level.IID}, reg.Levels())
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, 0, reg.Release(level.IID))
	assert.Empty(t, reg.Levels())
}
