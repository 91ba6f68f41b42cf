// Package config loads the starfield host configuration: defaults, then a YAML or TOML file,
// then environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STARFIELD_"

type Config struct {
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
	Render  RenderConfig  `yaml:"render" toml:"render"`
	Objects ObjectsConfig `yaml:"objects" toml:"objects"`
	Scene   SceneConfig   `yaml:"scene" toml:"scene"`
}

type LoggingConfig struct {
	Level string `yaml:"level" toml:"level"`
	JSON  bool   `yaml:"json" toml:"json"`
}

type RenderConfig struct {
	Width         int    `yaml:"width" toml:"width"`
	Height        int    `yaml:"height" toml:"height"`
	Title         string `yaml:"title" toml:"title"`
	VSync         bool   `yaml:"vsync" toml:"vsync"`
	ClearColor    string `yaml:"clearColor" toml:"clearColor"`
	DebugUniforms bool   `yaml:"debugUniforms" toml:"debugUniforms"`
	// LightColor and LightIntensity configure the key light on object markers.
	LightColor     string  `yaml:"lightColor" toml:"lightColor"`
	LightIntensity float64 `yaml:"lightIntensity" toml:"lightIntensity"`
}

// ObjectsConfig configures the game object markers.
type ObjectsConfig struct {
	Enabled        bool                  `yaml:"enabled" toml:"enabled"`
	HighlightColor string                `yaml:"highlightColor" toml:"highlightColor"`
	Types          map[string]ObjectType `yaml:"types" toml:"types"`
	Spawn          SpawnConfig           `yaml:"spawn" toml:"spawn"`
}

// ObjectType is one row of the object type table.
type ObjectType struct {
	Geometry      string  `yaml:"geometry" toml:"geometry"`
	Color         string  `yaml:"color" toml:"color"`
	RotationSpeed float64 `yaml:"rotationSpeed" toml:"rotationSpeed"`
	Scale         float64 `yaml:"scale" toml:"scale"`
}

type Vec3 struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
	Z float64 `yaml:"z" toml:"z"`
}

// SpawnConfig bounds where generated objects are placed. When Rules is set its envelope is
// used instead of the Min/Max box.
type SpawnConfig struct {
	Min   Vec3        `yaml:"min" toml:"min"`
	Max   Vec3        `yaml:"max" toml:"max"`
	Rules *SpawnRules `yaml:"rules,omitempty" toml:"rules,omitempty"`
}

// SpawnRules places objects at a random distance in front of the viewer within a
// width by height window.
type SpawnRules struct {
	MinDistance float64 `yaml:"minDistance" toml:"minDistance"`
	MaxDistance float64 `yaml:"maxDistance" toml:"maxDistance"`
	Width       float64 `yaml:"width" toml:"width"`
	Height      float64 `yaml:"height" toml:"height"`
}

type SceneConfig struct {
	PlanetImages []string `yaml:"planetImages" toml:"planetImages"`
	HistoryLimit int      `yaml:"historyLimit" toml:"historyLimit"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Render: RenderConfig{
			Width:          1280,
			Height:         720,
			Title:          "Starfield",
			VSync:          true,
			ClearColor:     "#000000",
			LightColor:     "#ffffff",
			LightIntensity: 0.75,
		},
		Objects: ObjectsConfig{
			Enabled:        true,
			HighlightColor: "#00ff88",
			Types: map[string]ObjectType{
				"ship":    {Geometry: "octahedron", Color: "#4fc3f7", RotationSpeed: 0.5, Scale: 1},
				"station": {Geometry: "torus", Color: "#ffb74d", RotationSpeed: 0.2, Scale: 2},
				"salvage": {Geometry: "tetrahedron", Color: "#a1887f", RotationSpeed: 1, Scale: 0.6},
			},
			Spawn: SpawnConfig{
				Min: Vec3{X: -15, Y: -8, Z: -40},
				Max: Vec3{X: 15, Y: 8, Z: -15},
			},
		},
		Scene: SceneConfig{
			PlanetImages: []string{
				"planets/terran.png",
				"planets/desert.png",
				"planets/ice.png",
				"planets/gas-giant.png",
				"planets/volcanic.png",
			},
			HistoryLimit: 10,
		},
	}
}

// Load builds the configuration from defaults, the optional file at path, and environment
// overrides. A .env file in the working directory is loaded first when present.
//
// Parameters:
//   - path: a .yaml, .yml or .toml file; empty skips the file stage
//
// Returns:
//   - Config: the resolved configuration
//   - error: read, decode or validation failure
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := Decode(&cfg, filepath.Ext(path), data); err != nil {
			return Config{}, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	}
	applyEnv(&cfg, os.Getenv)

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Decode overlays data onto cfg. Fields missing from data keep their current values and
// unknown fields are ignored.
//
// Parameters:
//   - cfg: the configuration to overlay, usually Default()
//   - ext: the file extension selecting the codec (".yaml", ".yml" or ".toml")
//   - data: the encoded document
//
// Returns:
//   - error: unsupported extension or decode failure
func Decode(cfg *Config, ext string, data []byte) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if v := getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v, ok := envBool(getenv, "LOG_JSON"); ok {
		cfg.Logging.JSON = v
	}
	if v, ok := envBool(getenv, "OBJECTS_ENABLED"); ok {
		cfg.Objects.Enabled = v
	}
	if v, ok := envBool(getenv, "DEBUG_UNIFORMS"); ok {
		cfg.Render.DebugUniforms = v
	}
	if v, err := strconv.Atoi(getenv(EnvPrefix + "WIDTH")); err == nil {
		cfg.Render.Width = v
	}
	if v, err := strconv.Atoi(getenv(EnvPrefix + "HEIGHT")); err == nil {
		cfg.Render.Height = v
	}
}

func envBool(getenv func(string) string, key string) (bool, bool) {
	b, err := strconv.ParseBool(getenv(EnvPrefix + key))
	return b, err == nil
}

func (c *Config) validate() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Scene.HistoryLimit <= 0 {
		c.Scene.HistoryLimit = 10
	}
	for name, t := range c.Objects.Types {
		if t.Scale <= 0 {
			t.Scale = 1
			c.Objects.Types[name] = t
		}
	}
	if r := c.Objects.Spawn.Rules; r != nil && r.MaxDistance < r.MinDistance {
		return fmt.Errorf("spawn rules maxDistance %g is below minDistance %g", r.MaxDistance, r.MinDistance)
	}
	return nil
}
