package scene_config

import (
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Carmen-Shannon/oxy-starfield/common"
)

// Range is an inclusive-exclusive sampling interval for one randomized field.
type Range struct {
	Min, Max float64
}

// Sample draws a value in [Min, Max).
func (r Range) Sample(rng *rand.Rand) float64 {
	return common.RandRange(rng, r.Min, r.Max)
}

// IntRange is an inclusive sampling interval for one randomized integer field.
type IntRange struct {
	Min, Max int
}

// Sample draws a value in [Min, Max].
func (r IntRange) Sample(rng *rand.Rand) int {
	return common.RandIntRange(rng, r.Min, r.Max)
}

// Per-field randomization ranges. Every field is drawn independently except the planet
// position, which is bounded by the PlanetSpawnRange value drawn before it.
var (
	NebulaHue       = Range{0, 360}
	NebulaSat       = Range{0.45, 0.9}
	NebulaLight     = Range{0.12, 0.45}
	NebulaIntensity = Range{0.4, 1}
	NebulaScale     = Range{1, 4}
	NebulaSpeed     = Range{0.005, 0.05}
	NebulaOctaves   = IntRange{3, 6}
	PaletteSize     = IntRange{3, 5}
	LaneCount       = IntRange{1, 3}
	LaneAngle       = Range{0, 180}
	LaneWidth       = Range{0.05, 0.3}

	CloudLight    = Range{0.5, 0.85}
	CloudOpacity  = Range{0.1, 0.5}
	CloudScale    = Range{0.8, 3}
	CloudSpeed    = Range{0.002, 0.02}
	CloudCoverage = Range{0.2, 0.7}

	PlanetSpawnRange          = Range{0.2, 0.6}
	PlanetScale               = Range{0.1, 0.4}
	PlanetRotationSpeed       = Range{0.01, 0.1}
	PlanetAtmosphereIntensity = Range{0.2, 0.8}

	StarDensity = Range{0.3, 0.9}
	StarMinSize = Range{0.3, 0.8}
	StarMaxSize = Range{1.2, 3}
	StarTwinkle = Range{0, 0.6}

	// Chance that an optional layer is enabled.
	CloudChance  = 0.7
	PlanetChance = 0.8
)

// BlendModes lists the star blend modes a random configuration may pick.
var BlendModes = []string{"normal", "additive", "screen"}

func randomColor(rng *rand.Rand, light Range) string {
	return colorful.Hsl(NebulaHue.Sample(rng), NebulaSat.Sample(rng), light.Sample(rng)).Clamped().Hex()
}

func randomPalette(rng *rand.Rand) []string {
	out := make([]string, PaletteSize.Sample(rng))
	for i := range out {
		out[i] = randomColor(rng, NebulaLight)
	}
	return out
}

func randomLanes(rng *rand.Rand) []DustLane {
	out := make([]DustLane, LaneCount.Sample(rng))
	for i := range out {
		out[i] = DustLane{Angle: LaneAngle.Sample(rng), Width: LaneWidth.Sample(rng)}
	}
	return out
}

func chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

func pick(rng *rand.Rand, options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[rng.IntN(len(options))]
}
