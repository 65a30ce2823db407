// Package colliders drives collider generation for loaded levels and owns the
// resulting bodies. Bodies are stored per level and released as a group, so a
// level unload never has to track individual bodies.
package colliders

import (
	"sync"

	"github.com/automoto/groundmesh/shared/gridmesh"
	"github.com/automoto/groundmesh/shared/leveldata"
	"github.com/google/uuid"
)

// Backend is the physics collaborator that materializes body descriptors.
// Spawn returns a backend specific handle that is later passed to Despawn.
// Calls are serialized by the Registry.
type Backend interface {
	Spawn(level *leveldata.Level, body gridmesh.Body) any
	Despawn(handle any)
}

type registered struct {
	body   gridmesh.Body
	handle any
}

// Registry owns every spawned body, indexed by the level that owns it.
type Registry struct {
	backend Backend

	mu     sync.Mutex
	order  []uuid.UUID
	bodies map[uuid.UUID][]registered
}

func NewRegistry(backend Backend) *Registry {
	return &Registry{
		backend: backend,
		bodies:  make(map[uuid.UUID][]registered),
	}
}

// Register spawns bodies for a level and appends them to its slice.
func (r *Registry) Register(level *leveldata.Level, bodies []gridmesh.Body) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.bodies[level.IID]
	if !ok {
		r.order = append(r.order, level.IID)
	}
	for _, b := range bodies {
		existing = append(existing, registered{
			body:   b,
			handle: r.backend.Spawn(level, b),
		})
	}
	r.bodies[level.IID] = existing
}

// Release despawns every body of a level and drops the level's slice.
// It returns the number of bodies released.
func (r *Registry) Release(level uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, ok := r.bodies[level]
	if !ok {
		return 0
	}
	for _, e := range entries {
		r.backend.Despawn(e.handle)
	}
	delete(r.bodies, level)
	for i, id := range r.order {
		if id == level {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return len(entries)
}

// Bodies returns the descriptors registered for a level in spawn order.
func (r *Registry) Bodies(level uuid.UUID) []gridmesh.Body {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.bodies[level]
	out := make([]gridmesh.Body, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.body)
	}
	return out
}

// Handles returns the backend handles of a level in spawn order.
func (r *Registry) Handles(level uuid.UUID) []any {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.bodies[level]
	out := make([]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.handle)
	}
	return out
}

// Levels returns the levels that currently own bodies, in registration order.
func (r *Registry) Levels() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]uuid.UUID, len(r.order))
	copy(out, r.order)
	return out
}

// Len is the total number of registered bodies.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, entries := range r.bodies {
		n += len(entries)
	}
	return n
}
