package scene_config

import (
	"slices"
	"time"

	"github.com/jinzhu/copier"
)

// Patch keys with special handling in PrepareSceneVariant.
const (
	PlanetImageURLKey   = "planetImageUrl"
	PlanetImageIndexKey = "planetImageIndex"
)

// Patch is a partial override keyed by YAML field name. Nested sections are nested maps.
type Patch map[string]any

type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type DustLane struct {
	Angle float64 `yaml:"angle"`
	Width float64 `yaml:"width"`
}

type NebulaConfig struct {
	Enabled   bool       `yaml:"enabled"`
	Color1    string     `yaml:"color1"`
	Color2    string     `yaml:"color2"`
	Color3    string     `yaml:"color3"`
	Palette   []string   `yaml:"palette"`
	Intensity float64    `yaml:"intensity"`
	Scale     float64    `yaml:"scale"`
	Speed     float64    `yaml:"speed"`
	Octaves   int        `yaml:"octaves"`
	Lanes     []DustLane `yaml:"lanes"`
}

type CloudConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Color    string  `yaml:"color"`
	Opacity  float64 `yaml:"opacity"`
	Scale    float64 `yaml:"scale"`
	Speed    float64 `yaml:"speed"`
	Coverage float64 `yaml:"coverage"`
}

// PlanetConfig places the backdrop planet. Position is in normalized screen space and
// bounded by SpawnRange.
type PlanetConfig struct {
	Enabled             bool    `yaml:"enabled"`
	ImageURL            string  `yaml:"imageUrl"`
	SpawnRange          float64 `yaml:"spawnRange"`
	Position            Vec3    `yaml:"position"`
	Scale               float64 `yaml:"scale"`
	RotationSpeed       float64 `yaml:"rotationSpeed"`
	AtmosphereColor     string  `yaml:"atmosphereColor"`
	AtmosphereIntensity float64 `yaml:"atmosphereIntensity"`
}

type StarConfig struct {
	Density   float64 `yaml:"density"`
	MinSize   float64 `yaml:"minSize"`
	MaxSize   float64 `yaml:"maxSize"`
	Twinkle   float64 `yaml:"twinkle"`
	BlendMode string  `yaml:"blendMode"`
}

// SceneConfiguration is the full set of visual parameters for one location.
type SceneConfiguration struct {
	ID     int          `yaml:"id"`
	Nebula NebulaConfig `yaml:"nebula"`
	Clouds CloudConfig  `yaml:"clouds"`
	Planet PlanetConfig `yaml:"planet"`
	Stars  StarConfig   `yaml:"stars"`
}

// SceneVariant is the subset of a configuration that changes between visits.
type SceneVariant struct {
	NebulaColor1    string   `yaml:"nebulaColor1"`
	NebulaColor2    string   `yaml:"nebulaColor2"`
	NebulaColor3    string   `yaml:"nebulaColor3"`
	NebulaIntensity float64  `yaml:"nebulaIntensity"`
	NebulaPalette   []string `yaml:"nebulaPalette"`
	CloudColor      string   `yaml:"cloudColor"`
	CloudOpacity    float64  `yaml:"cloudOpacity"`
	StarDensity     float64  `yaml:"starDensity"`
	PlanetImageURL  string   `yaml:"planetImageUrl"`
	PlanetVisible   bool     `yaml:"planetVisible"`
	PlanetScale     float64  `yaml:"planetScale"`
	PlanetX         float64  `yaml:"planetX"`
	PlanetY         float64  `yaml:"planetY"`
}

// NamedConfig is a cached configuration with its provenance.
type NamedConfig struct {
	Config           SceneConfiguration
	SourceKey        string
	CreatedAt        time.Time
	MergedWithRandom bool
}

// Clone returns a deep copy of the configuration.
func (c SceneConfiguration) Clone() SceneConfiguration {
	var out SceneConfiguration
	if err := copier.CopyWithOption(&out, &c, copier.Option{DeepCopy: true}); err != nil {
		out = c
		out.Nebula.Palette = slices.Clone(c.Nebula.Palette)
		out.Nebula.Lanes = slices.Clone(c.Nebula.Lanes)
	}
	return out
}

// Clone returns a deep copy of the variant.
func (v SceneVariant) Clone() SceneVariant {
	var out SceneVariant
	if err := copier.CopyWithOption(&out, &v, copier.Option{DeepCopy: true}); err != nil {
		out = v
		out.NebulaPalette = slices.Clone(v.NebulaPalette)
	}
	return out
}

// Clone returns a deep copy of the named configuration.
func (n NamedConfig) Clone() NamedConfig {
	out := n
	out.Config = n.Config.Clone()
	return out
}
