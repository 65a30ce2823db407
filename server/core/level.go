package core

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/automoto/groundmesh/config"
	"github.com/automoto/groundmesh/shared/colliders"
	"github.com/automoto/groundmesh/shared/gridmesh"
	"github.com/automoto/groundmesh/shared/leveldata"
	"github.com/automoto/groundmesh/tags"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi/features/math"
)

// SpaceBackend spawns bodies straight into a resolv space, without an ECS.
type SpaceBackend struct {
	Space *resolv.Space
}

func (b *SpaceBackend) Spawn(level *leveldata.Level, body gridmesh.Body) any {
	corner := body.Min().Add(level.Origin)

	var obj *resolv.Object
	if body.Slope != "" {
		obj = resolv.NewObject(corner.X, corner.Y, body.Width(), body.Height(), tags.ResolvRamp, body.Slope)
	} else {
		obj = resolv.NewObject(corner.X, corner.Y, body.Width(), body.Height(), tags.ResolvSolid)
	}
	obj.SetShape(resolv.NewRectangle(0, 0, body.Width(), body.Height()))
	b.Space.Add(obj)
	return obj
}

func (b *SpaceBackend) Despawn(handle any) {
	if obj, ok := handle.(*resolv.Object); ok {
		b.Space.Remove(obj)
	}
}

// ServerLevel holds the server's collision space for a level.
type ServerLevel struct {
	Level     *leveldata.Level
	Space     *resolv.Space
	Generator *colliders.Generator
	Report    colliders.LevelReport
}

// Objects returns the resolv objects spawned for the level in spawn order.
func (l *ServerLevel) Objects() []*resolv.Object {
	handles := l.Generator.Registry().Handles(l.Level.IID)
	objs := make([]*resolv.Object, 0, len(handles))
	for _, h := range handles {
		objs = append(objs, h.(*resolv.Object))
	}
	return objs
}

// NewServerLevel builds a resolv.Space holding the merged ground of one level.
func NewServerLevel(ctx context.Context, level *leveldata.Level, solid []gridmesh.GridCoords) (*ServerLevel, error) {
	space := resolv.NewSpace(level.Width(), level.Height(), config.C.Space.CellWidth, config.C.Space.CellHeight)
	gen := colliders.NewGenerator(
		colliders.NewRegistry(&SpaceBackend{Space: space}),
		colliders.WithFriction(config.C.Collider.Friction),
	)

	world := leveldata.NewWorld()
	// The level is placed at the space origin; the space is sized to the level alone.
	local := *level
	local.Origin = math.NewVec2(0, 0)
	world.Add(&local, solid)

	report, err := gen.ProcessWorld(ctx, world)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", level.Name, err)
	}

	sl := &ServerLevel{
		Level:     &local,
		Space:     space,
		Generator: gen,
	}
	if len(report.Levels) > 0 {
		sl.Report = report.Levels[0]
	}

	log.Printf("Loaded level %s: %d solid tiles -> %d bodies, %dx%d map",
		level.Name, sl.Report.Cells+sl.Report.Ramps, sl.Report.Bodies(), level.Width(), level.Height())

	return sl, nil
}

// LoadAllServerLevels loads all .tmx levels from the given assets directory,
// returning a map of ServerLevel keyed by stem name plus a sorted name list.
// A level that fails to build is logged and left out.
func LoadAllServerLevels(ctx context.Context, assetsDir string) (map[string]*ServerLevel, []string, error) {
	world, err := leveldata.LoadAllLevels(os.DirFS(assetsDir), config.C.Level.Dir, leveldata.OptionsFrom(config.C.Level))
	if err != nil {
		return nil, nil, fmt.Errorf("load all levels: %w", err)
	}

	idx := gridmesh.Group(world.Marked)
	levels := make(map[string]*ServerLevel, len(world.Levels))
	names := make([]string, 0, len(world.Levels))

	for _, level := range world.Levels {
		var solid []gridmesh.GridCoords
		for c := range idx.Cells(level.IID) {
			solid = append(solid, c)
		}

		sl, err := NewServerLevel(ctx, level, solid)
		if err != nil {
			log.Printf("Skipping level: %v", err)
			continue
		}
		levels[level.Name] = sl
		names = append(names, level.Name)
	}

	if len(names) == 0 {
		return nil, nil, fmt.Errorf("no level in %s could be built", assetsDir)
	}
	return levels, names, nil
}
