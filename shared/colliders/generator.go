package colliders

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"log"
	"runtime"
	"sort"
	"sync"

	"github.com/automoto/groundmesh/shared/gridmesh"
	"github.com/automoto/groundmesh/shared/leveldata"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// LevelReport summarizes what happened to one level during a Process call.
type LevelReport struct {
	Level     *leveldata.Level
	Cells     int
	Rects     []gridmesh.Rect
	Ramps     int
	Unchanged bool // marked cells matched the last build, nothing was spawned
	Rebuilt   bool // previous bodies were released before spawning
}

// Bodies is the number of bodies spawned for the level.
func (r LevelReport) Bodies() int {
	return len(r.Rects) + r.Ramps
}

// Report lists processed levels in processing order.
type Report struct {
	Levels []LevelReport
}

// Bodies is the total number of bodies spawned.
func (r *Report) Bodies() int {
	n := 0
	for _, l := range r.Levels {
		n += l.Bodies()
	}
	return n
}

// Cells is the total number of marked cells that were compacted.
func (r *Report) Cells() int {
	n := 0
	for _, l := range r.Levels {
		if !l.Unchanged {
			n += l.Cells
		}
	}
	return n
}

// Option configures a Generator.
type Option func(*Generator)

// WithParallelism caps the number of levels built at once. Values <= 0 use
// one worker per CPU.
func WithParallelism(n int) Option {
	return func(g *Generator) {
		g.parallelism = n
	}
}

// WithFriction overrides the friction of emitted ground bodies.
func WithFriction(f float64) Option {
	return func(g *Generator) {
		g.friction = f
	}
}

// Generator runs collider generation for levels and remembers which marked
// sets it has already built, so a level is never spawned twice for the same
// cells.
type Generator struct {
	registry    *Registry
	parallelism int
	friction    float64

	mu        sync.Mutex
	processed map[uuid.UUID]uint64
}

func NewGenerator(registry *Registry, opts ...Option) *Generator {
	g := &Generator{
		registry:  registry,
		friction:  gridmesh.DefaultFriction,
		processed: make(map[uuid.UUID]uint64),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.parallelism <= 0 {
		g.parallelism = runtime.GOMAXPROCS(0)
	}
	return g
}

// Registry returns the registry bodies are spawned into.
func (g *Generator) Registry() *Registry {
	return g.registry
}

// Process builds colliders for every level referenced by the marked cells.
// A level that cannot be resolved or whose cells are out of bounds is
// skipped; the returned error combines every per-level failure while the
// report covers the levels that succeeded.
func (g *Generator) Process(ctx context.Context, world *leveldata.World, marked []gridmesh.MarkedCell) (*Report, error) {
	idx := gridmesh.Group(marked)
	return g.run(ctx, world, idx, idx.Levels())
}

// ProcessWorld builds every level of the world from its own marked stream,
// including levels without any solid cells so their ramps still spawn.
func (g *Generator) ProcessWorld(ctx context.Context, world *leveldata.World) (*Report, error) {
	idx := gridmesh.Group(world.Marked)

	ids := make([]uuid.UUID, 0, len(world.Levels))
	listed := make(map[uuid.UUID]bool, len(world.Levels))
	for _, l := range world.Levels {
		ids = append(ids, l.IID)
		listed[l.IID] = true
	}
	for _, id := range idx.Levels() {
		if !listed[id] {
			ids = append(ids, id)
		}
	}
	return g.run(ctx, world, idx, ids)
}

// build is replaced in tests to observe job progress.
var build = gridmesh.Build

type job struct {
	level       *leveldata.Level
	cells       gridmesh.CellSet
	fingerprint uint64
	rects       []gridmesh.Rect
	err         error
}

func (g *Generator) run(ctx context.Context, world *leveldata.World, idx *gridmesh.Index, ids []uuid.UUID) (*Report, error) {
	report := &Report{}
	var errs error
	var jobs []*job

	g.mu.Lock()
	for _, id := range ids {
		level, ok := world.Level(id)
		if !ok {
			err := fmt.Errorf("level %s: %w", id, gridmesh.ErrMissingLevelData)
			log.Printf("[colliders] skipping level: %v", err)
			errs = multierr.Append(errs, err)
			continue
		}

		cells := idx.Cells(id)
		if cells == nil {
			cells = gridmesh.CellSet{}
		}
		fp := fingerprint(cells)
		if prev, ok := g.processed[id]; ok && prev == fp {
			report.Levels = append(report.Levels, LevelReport{Level: level, Cells: cells.Len(), Unchanged: true})
			continue
		}
		jobs = append(jobs, &job{level: level, cells: cells, fingerprint: fp})
	}
	g.mu.Unlock()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelism)
	for _, j := range jobs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			j.rects, j.err = build(j.level.Grid, j.cells)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		// Keep the failures of jobs that finished before the cancellation.
		for _, j := range jobs {
			if j.err != nil {
				errs = multierr.Append(errs, levelError(j))
			}
		}
		return report, multierr.Append(errs, err)
	}

	// Registration happens in level order so spawn order is deterministic.
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, j := range jobs {
		if j.err != nil {
			errs = multierr.Append(errs, levelError(j))
			continue
		}

		prev, rebuilt := g.processed[j.level.IID]
		if rebuilt && prev == j.fingerprint {
			// A concurrent Process call built the same cells first.
			report.Levels = append(report.Levels, LevelReport{Level: j.level, Cells: j.cells.Len(), Unchanged: true})
			continue
		}
		if rebuilt {
			g.registry.Release(j.level.IID)
		}

		g.registry.Register(j.level, g.bodies(j.level, j.rects))
		g.processed[j.level.IID] = j.fingerprint

		lr := LevelReport{
			Level:   j.level,
			Cells:   j.cells.Len(),
			Rects:   j.rects,
			Ramps:   len(j.level.Ramps),
			Rebuilt: rebuilt,
		}
		report.Levels = append(report.Levels, lr)
		log.Printf("[colliders] level %s: %d tiles -> %d bodies (%d ramps)",
			j.level.Name, lr.Cells+lr.Ramps, lr.Bodies(), lr.Ramps)
	}

	return report, errs
}

func levelError(j *job) error {
	err := fmt.Errorf("level %s (%s): %w", j.level.Name, j.level.IID, j.err)
	log.Printf("[colliders] skipping level: %v", err)
	return err
}

func (g *Generator) bodies(level *leveldata.Level, rects []gridmesh.Rect) []gridmesh.Body {
	bodies := gridmesh.Emit(rects, level.Grid.GridSize)
	for _, r := range level.Ramps {
		bodies = append(bodies, gridmesh.RampBody(r.Coords, level.Grid.GridSize, r.SlopeType))
	}
	for i := range bodies {
		bodies[i].Friction = g.friction
	}
	return bodies
}

// Unload releases every body of a level and forgets its marked set, so the
// next Process builds it again. It returns the number of bodies released.
func (g *Generator) Unload(level uuid.UUID) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.processed, level)
	return g.registry.Release(level)
}

// Processed reports whether a level currently has built colliders.
func (g *Generator) Processed(level uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.processed[level]
	return ok
}

// fingerprint hashes a marked set independently of map iteration order.
func fingerprint(cells gridmesh.CellSet) uint64 {
	coords := make([]gridmesh.GridCoords, 0, len(cells))
	for c := range cells {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		return coords[i].Less(coords[j])
	})

	h := fnv.New64a()
	var buf [16]byte
	for _, c := range coords {
		binary.LittleEndian.PutUint64(buf[:8], uint64(int64(c.X)))
		binary.LittleEndian.PutUint64(buf[8:], uint64(int64(c.Y)))
		h.Write(buf[:])
	}
	return h.Sum64()
}
