package scene_config

import "math/rand/v2"

// DefaultConfiguration returns the fixed base configuration.
//
// Returns:
//   - SceneConfiguration: the defaults
func DefaultConfiguration() SceneConfiguration {
	return SceneConfiguration{
		Nebula: NebulaConfig{
			Enabled:   true,
			Color1:    "#1a0d4d",
			Color2:    "#731a80",
			Color3:    "#0d4073",
			Palette:   []string{"#1a0d4d", "#731a80", "#0d4073"},
			Intensity: 0.6,
			Scale:     2,
			Speed:     0.02,
			Octaves:   5,
			Lanes:     []DustLane{{Angle: 35, Width: 0.15}},
		},
		Clouds: CloudConfig{
			Enabled:  true,
			Color:    "#9999b3",
			Opacity:  0.35,
			Scale:    1.5,
			Speed:    0.01,
			Coverage: 0.4,
		},
		Planet: PlanetConfig{
			Enabled:             true,
			SpawnRange:          0.4,
			Position:            Vec3{X: 0.4, Y: 0.2},
			Scale:               0.25,
			RotationSpeed:       0.05,
			AtmosphereColor:     "#4d99ff",
			AtmosphereIntensity: 0.5,
		},
		Stars: StarConfig{
			Density:   0.5,
			MinSize:   0.5,
			MaxSize:   2,
			Twinkle:   0.3,
			BlendMode: "additive",
		},
	}
}

// RandomConfiguration draws every field of the default configuration from its range.
//
// Parameters:
//   - rng: the random source
//   - images: planet image catalog, may be empty
//
// Returns:
//   - SceneConfiguration: the randomized configuration, ID 0
func RandomConfiguration(rng *rand.Rand, images []string) SceneConfiguration {
	cfg := DefaultConfiguration()

	palette := randomPalette(rng)
	cfg.Nebula.Palette = palette
	cfg.Nebula.Color1, cfg.Nebula.Color2, cfg.Nebula.Color3 = palette[0], palette[1], palette[2]
	cfg.Nebula.Intensity = NebulaIntensity.Sample(rng)
	cfg.Nebula.Scale = NebulaScale.Sample(rng)
	cfg.Nebula.Speed = NebulaSpeed.Sample(rng)
	cfg.Nebula.Octaves = NebulaOctaves.Sample(rng)
	cfg.Nebula.Lanes = randomLanes(rng)

	cfg.Clouds.Enabled = chance(rng, CloudChance)
	cfg.Clouds.Color = randomColor(rng, CloudLight)
	cfg.Clouds.Opacity = CloudOpacity.Sample(rng)
	cfg.Clouds.Scale = CloudScale.Sample(rng)
	cfg.Clouds.Speed = CloudSpeed.Sample(rng)
	cfg.Clouds.Coverage = CloudCoverage.Sample(rng)

	cfg.Planet.Enabled = chance(rng, PlanetChance)
	cfg.Planet.ImageURL = pick(rng, images)
	cfg.Planet.SpawnRange = PlanetSpawnRange.Sample(rng)
	spread := cfg.Planet.SpawnRange
	cfg.Planet.Position = Vec3{
		X: Range{-spread, spread}.Sample(rng),
		Y: Range{-spread / 2, spread / 2}.Sample(rng),
	}
	cfg.Planet.Scale = PlanetScale.Sample(rng)
	cfg.Planet.RotationSpeed = PlanetRotationSpeed.Sample(rng)
	cfg.Planet.AtmosphereColor = randomColor(rng, CloudLight)
	cfg.Planet.AtmosphereIntensity = PlanetAtmosphereIntensity.Sample(rng)

	cfg.Stars.Density = StarDensity.Sample(rng)
	cfg.Stars.MinSize = StarMinSize.Sample(rng)
	cfg.Stars.MaxSize = StarMaxSize.Sample(rng)
	cfg.Stars.Twinkle = StarTwinkle.Sample(rng)
	cfg.Stars.BlendMode = pick(rng, BlendModes)
	return cfg
}

// RandomVariant draws every variant field independently from its range.
//
// Parameters:
//   - rng: the random source
//   - images: planet image catalog, may be empty
//
// Returns:
//   - SceneVariant: the randomized variant
func RandomVariant(rng *rand.Rand, images []string) SceneVariant {
	spread := PlanetSpawnRange.Max
	return SceneVariant{
		NebulaColor1:    randomColor(rng, NebulaLight),
		NebulaColor2:    randomColor(rng, NebulaLight),
		NebulaColor3:    randomColor(rng, NebulaLight),
		NebulaIntensity: NebulaIntensity.Sample(rng),
		NebulaPalette:   randomPalette(rng),
		CloudColor:      randomColor(rng, CloudLight),
		CloudOpacity:    CloudOpacity.Sample(rng),
		StarDensity:     StarDensity.Sample(rng),
		PlanetImageURL:  pick(rng, images),
		PlanetVisible:   chance(rng, PlanetChance),
		PlanetScale:     PlanetScale.Sample(rng),
		PlanetX:         Range{-spread, spread}.Sample(rng),
		PlanetY:         Range{-spread / 2, spread / 2}.Sample(rng),
	}
}

// Variant extracts the variant fields of a configuration.
//
// Returns:
//   - SceneVariant: the variant view
func (c SceneConfiguration) Variant() SceneVariant {
	return SceneVariant{
		NebulaColor1:    c.Nebula.Color1,
		NebulaColor2:    c.Nebula.Color2,
		NebulaColor3:    c.Nebula.Color3,
		NebulaIntensity: c.Nebula.Intensity,
		NebulaPalette:   append([]string(nil), c.Nebula.Palette...),
		CloudColor:      c.Clouds.Color,
		CloudOpacity:    c.Clouds.Opacity,
		StarDensity:     c.Stars.Density,
		PlanetImageURL:  c.Planet.ImageURL,
		PlanetVisible:   c.Planet.Enabled,
		PlanetScale:     c.Planet.Scale,
		PlanetX:         c.Planet.Position.X,
		PlanetY:         c.Planet.Position.Y,
	}
}
