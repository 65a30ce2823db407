package config

import (
	"fmt"
	"os"

	"github.com/yohamta/donburi/ecs"
	"gopkg.in/yaml.v3"
)

// Default is the ECS layer every entity is created on.
const Default ecs.LayerID = 0

// LevelConfig controls how levels are read from Tiled maps
type LevelConfig struct {
	Dir              string   `yaml:"dir"`                // Directory holding *.tmx files, relative to the assets root
	SolidLayer       string   `yaml:"solid_layer"`        // Tile layer whose non-empty tiles are solid
	SlopeProperty    string   `yaml:"slope_property"`     // Tileset tile property naming a slope type
	ExtraSolidLayers []string `yaml:"extra_solid_layers"` // Further layers merged into the solid set
}

// ColliderConfig controls collider generation
type ColliderConfig struct {
	Parallelism int     `yaml:"parallelism"` // Levels built concurrently (<= 0 means one per CPU)
	Friction    float64 `yaml:"friction"`    // Friction of every ground body
}

// SpaceConfig controls the resolv collision space
type SpaceConfig struct {
	CellWidth  int `yaml:"cell_width"`
	CellHeight int `yaml:"cell_height"`
}

// Config holds the full groundmesh configuration
type Config struct {
	Level    LevelConfig    `yaml:"level"`
	Collider ColliderConfig `yaml:"collider"`
	Space    SpaceConfig    `yaml:"space"`
}

// C is the active configuration. Load replaces it.
var C *Config

func init() {
	C = Defaults()
}

// Defaults returns a fresh copy of the built-in configuration.
func Defaults() *Config {
	return &Config{
		Level: LevelConfig{
			Dir:           "levels",
			SolidLayer:    "wg-tiles",
			SlopeProperty: "slope",
		},
		Collider: ColliderConfig{
			Parallelism: 0,
			Friction:    1.0,
		},
		Space: SpaceConfig{
			CellWidth:  16,
			CellHeight: 16,
		},
	}
}

// Load reads a YAML file over the defaults and makes the result active.
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	C = cfg
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no level could be built with.
func (c *Config) Validate() error {
	if c.Level.SolidLayer == "" {
		return fmt.Errorf("level.solid_layer must not be empty")
	}
	if c.Space.CellWidth <= 0 || c.Space.CellHeight <= 0 {
		return fmt.Errorf("space cell size must be positive, got %dx%d",
			c.Space.CellWidth, c.Space.CellHeight)
	}
	if c.Collider.Friction < 0 {
		return fmt.Errorf("collider.friction must not be negative, got %v", c.Collider.Friction)
	}
	return nil
}
