package leveldata

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/automoto/groundmesh/config"
	"github.com/automoto/groundmesh/shared/gridmesh"
	"github.com/lafriks/go-tiled"
	"github.com/yohamta/donburi/features/math"
)

// Options selects which tiles of a map are solid.
type Options struct {
	SolidLayer    string
	ExtraLayers   []string
	SlopeProperty string
}

// OptionsFrom maps the level section of the configuration.
func OptionsFrom(c config.LevelConfig) Options {
	return Options{
		SolidLayer:    c.SolidLayer,
		ExtraLayers:   c.ExtraSolidLayers,
		SlopeProperty: c.SlopeProperty,
	}
}

func (o Options) isSolidLayer(name string) bool {
	if name == o.SolidLayer {
		return true
	}
	for _, extra := range o.ExtraLayers {
		if name == extra {
			return true
		}
	}
	return false
}

// LoadLevel parses a TMX file and returns the level plus its solid cells.
// Tiles carrying the slope property become ramps instead of solid cells.
// It takes an fs.FS so callers can pass embed.FS or os.DirFS.
func LoadLevel(fsys fs.FS, tmxPath string, opts Options) (*Level, []gridmesh.GridCoords, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	if levelMap.TileWidth != levelMap.TileHeight {
		return nil, nil, fmt.Errorf("%s: tiles must be square, got %dx%d",
			tmxPath, levelMap.TileWidth, levelMap.TileHeight)
	}

	name := strings.TrimSuffix(filepath.Base(tmxPath), ".tmx")
	level := &Level{
		IID:  LevelIID(name),
		Name: name,
		Grid: gridmesh.Grid{
			Columns:  levelMap.Width,
			Rows:     levelMap.Height,
			GridSize: levelMap.TileWidth,
		},
	}

	// A tile marked by two layers is only reported once.
	seen := make(gridmesh.CellSet)
	var solid []gridmesh.GridCoords
	found := false

	for _, layer := range levelMap.Layers {
		if !opts.isSolidLayer(layer.Name) {
			continue
		}
		if layer.Name == opts.SolidLayer {
			level.Origin = math.NewVec2(float64(layer.OffsetX), float64(layer.OffsetY))
			found = true
		}

		for y := 0; y < levelMap.Height; y++ {
			for x := 0; x < levelMap.Width; x++ {
				tile := layer.Tiles[y*levelMap.Width+x]
				if tile.IsNil() {
					continue
				}
				coords := gridmesh.GridCoords{X: x, Y: y}
				if seen.Contains(coords) {
					continue
				}
				seen.Add(coords)

				if slopeType := slopeOf(tile, opts.SlopeProperty); slopeType != "" {
					level.Ramps = append(level.Ramps, Ramp{Coords: coords, SlopeType: slopeType})
					continue
				}
				solid = append(solid, coords)
			}
		}
	}

	if !found {
		return nil, nil, fmt.Errorf("%s: solid layer %q not found", tmxPath, opts.SolidLayer)
	}

	return level, solid, nil
}

func slopeOf(tile *tiled.LayerTile, property string) string {
	if property == "" || tile.Tileset == nil {
		return ""
	}
	tilesetTile, err := tile.Tileset.GetTilesetTile(tile.ID)
	if err != nil {
		return ""
	}
	return tilesetTile.Properties.GetString(property)
}

// LoadAllLevels discovers all .tmx files in levelsDir within fsys and loads
// them in name order into a single World.
func LoadAllLevels(fsys fs.FS, levelsDir string, opts Options) (*World, error) {
	pattern := levelsDir + "/*.tmx"
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no .tmx files found in %s", levelsDir)
	}
	sort.Strings(matches)

	world := NewWorld()
	for _, path := range matches {
		level, solid, err := LoadLevel(fsys, path, opts)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		world.Add(level, solid)
	}

	return world, nil
}

// MustLoadAllLevels is LoadAllLevels for embedded assets that are known good.
func MustLoadAllLevels(fsys fs.FS, levelsDir string, opts Options) *World {
	world, err := LoadAllLevels(fsys, levelsDir, opts)
	if err != nil {
		panic(err)
	}
	return world
}
