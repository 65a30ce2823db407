package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/automoto/groundmesh/config"
	"github.com/automoto/groundmesh/server/core"
	"github.com/automoto/groundmesh/shared/colliders"
	"github.com/automoto/groundmesh/shared/leveldata"
	"github.com/automoto/groundmesh/systems"
	"github.com/jakecoffman/cp"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
	"go.uber.org/multierr"
)

func main() {
	assetsDir := flag.String("assets", "assets", "Directory containing the levels directory")
	configPath := flag.String("config", "", "Optional YAML config file")
	backend := flag.String("backend", "resolv", "Physics backend: resolv, ecs or chipmunk")
	csvPath := flag.String("csv", "", "Write every emitted body to this CSV file")
	parallel := flag.Int("parallel", 0, "Levels built concurrently (0 = one per CPU)")
	flag.Parse()

	if *configPath != "" {
		if _, err := config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *parallel > 0 {
		config.C.Collider.Parallelism = *parallel
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	world, err := leveldata.LoadAllLevels(os.DirFS(*assetsDir), config.C.Level.Dir, leveldata.OptionsFrom(config.C.Level))
	if err != nil {
		log.Fatalf("Failed to load levels: %v", err)
	}

	p, err := newPipeline(*backend, world)
	if err != nil {
		log.Fatalf("Failed to set up backend: %v", err)
	}

	report, err := p.run(ctx, world)
	for _, e := range multierr.Errors(err) {
		log.Printf("Level error: %v", e)
	}

	log.Printf("Built %d levels with %s backend: %d tiles -> %d bodies",
		len(report.Levels), *backend, report.Cells(), report.Bodies())

	if *csvPath != "" {
		if err := writeReport(*csvPath, report, p.gen.Registry()); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
		log.Printf("Wrote %s", *csvPath)
	}

	if err != nil {
		os.Exit(1)
	}
}

// pipeline couples a generator with the backend-specific way of running it.
type pipeline struct {
	gen *colliders.Generator
	run func(ctx context.Context, world *leveldata.World) (*colliders.Report, error)
}

func newPipeline(name string, world *leveldata.World) (*pipeline, error) {
	var backend colliders.Backend
	var e *ecs.ECS
	switch name {
	case "resolv":
		width, height := 0, 0
		for _, l := range world.Levels {
			width = max(width, int(l.Origin.X)+l.Width())
			height = max(height, int(l.Origin.Y)+l.Height())
		}
		backend = &core.SpaceBackend{
			Space: resolv.NewSpace(width, height, config.C.Space.CellWidth, config.C.Space.CellHeight),
		}
	case "ecs":
		e = ecs.NewECS(donburi.NewWorld())
		backend = systems.NewGroundSpawner(e)
	case "chipmunk":
		backend = colliders.NewChipmunkBackend(cp.NewSpace())
	default:
		return nil, errUnknownBackend(name)
	}

	p := &pipeline{
		gen: colliders.NewGenerator(
			colliders.NewRegistry(backend),
			colliders.WithParallelism(config.C.Collider.Parallelism),
			colliders.WithFriction(config.C.Collider.Friction),
		),
	}
	p.run = p.gen.ProcessWorld
	if e != nil {
		p.run = func(ctx context.Context, world *leveldata.World) (*colliders.Report, error) {
			return systems.LoadLevels(ctx, e, p.gen, world, config.C.Space.CellWidth, config.C.Space.CellHeight)
		}
	}
	return p, nil
}

type errUnknownBackend string

func (e errUnknownBackend) Error() string {
	return fmt.Sprintf("unknown backend %q", string(e))
}
