package engine

import (
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-starfield/engine/scene_config"
)

// queueVariant maps a location variant onto the backdrop uniforms. Writes are batched and
// land on the next tick.
func (e *engine) queueVariant(v scene_config.SceneVariant) {
	u := e.uniforms
	u.QueueUniformUpdate(material.BackdropNebula, "color1", v.NebulaColor1)
	u.QueueUniformUpdate(material.BackdropNebula, "color2", v.NebulaColor2)
	u.QueueUniformUpdate(material.BackdropNebula, "color3", v.NebulaColor3)
	u.QueueUniformUpdate(material.BackdropNebula, "intensity", v.NebulaIntensity)

	u.QueueUniformUpdate(material.BackdropClouds, "color", v.CloudColor)
	u.QueueUniformUpdate(material.BackdropClouds, "opacity", v.CloudOpacity)

	u.QueueUniformUpdate(material.BackdropStars, "density", v.StarDensity)

	u.QueueUniformUpdate(material.BackdropPlanet, "visible", v.PlanetVisible)
	u.QueueUniformUpdate(material.BackdropPlanet, "scale", v.PlanetScale)
	u.QueueUniformUpdate(material.BackdropPlanet, "position", uniform.Vec3{X: float32(v.PlanetX), Y: float32(v.PlanetY)})
	if v.PlanetImageURL != "" {
		u.QueueUniformUpdate(material.BackdropPlanet, "texture", e.texture(v.PlanetImageURL))
	}
}

// queueConfiguration maps a full scene configuration onto the backdrop uniforms. Disabled
// layers are faded out rather than unregistered.
func (e *engine) queueConfiguration(cfg scene_config.SceneConfiguration) {
	u := e.uniforms
	n := cfg.Nebula
	u.QueueUniformUpdate(material.BackdropNebula, "color1", n.Color1)
	u.QueueUniformUpdate(material.BackdropNebula, "color2", n.Color2)
	u.QueueUniformUpdate(material.BackdropNebula, "color3", n.Color3)
	u.QueueUniformUpdate(material.BackdropNebula, "intensity", n.Intensity)
	u.QueueUniformUpdate(material.BackdropNebula, "scale", n.Scale)
	u.QueueUniformUpdate(material.BackdropNebula, "speed", n.Speed)
	u.QueueUniformUpdate(material.BackdropNebula, "octaves", n.Octaves)
	u.QueueUniformUpdate(material.BackdropNebula, "opacity", enabled(n.Enabled, 1))

	c := cfg.Clouds
	u.QueueUniformUpdate(material.BackdropClouds, "color", c.Color)
	u.QueueUniformUpdate(material.BackdropClouds, "opacity", enabled(c.Enabled, c.Opacity))
	u.QueueUniformUpdate(material.BackdropClouds, "scale", c.Scale)
	u.QueueUniformUpdate(material.BackdropClouds, "speed", c.Speed)
	u.QueueUniformUpdate(material.BackdropClouds, "coverage", c.Coverage)

	p := cfg.Planet
	u.QueueUniformUpdate(material.BackdropPlanet, "visible", p.Enabled)
	u.QueueUniformUpdate(material.BackdropPlanet, "scale", p.Scale)
	u.QueueUniformUpdate(material.BackdropPlanet, "rotationSpeed", p.RotationSpeed)
	u.QueueUniformUpdate(material.BackdropPlanet, "position", uniform.Vec3{X: float32(p.Position.X), Y: float32(p.Position.Y), Z: float32(p.Position.Z)})
	u.QueueUniformUpdate(material.BackdropPlanet, "atmosphereColor", p.AtmosphereColor)
	u.QueueUniformUpdate(material.BackdropPlanet, "atmosphereIntensity", p.AtmosphereIntensity)
	if p.ImageURL != "" {
		u.QueueUniformUpdate(material.BackdropPlanet, "texture", e.texture(p.ImageURL))
	}

	s := cfg.Stars
	u.QueueUniformUpdate(material.BackdropStars, "density", s.Density)
	u.QueueUniformUpdate(material.BackdropStars, "minSize", s.MinSize)
	u.QueueUniformUpdate(material.BackdropStars, "maxSize", s.MaxSize)
	u.QueueUniformUpdate(material.BackdropStars, "twinkle", s.Twinkle)
	u.QueueUniformUpdate(material.BackdropStars, "blendMode", s.BlendMode)
}

// texture interns texture references by URL so revisiting an image is not a uniform change.
func (e *engine) texture(url string) *uniform.Texture {
	if t, ok := e.textures[url]; ok {
		return t
	}
	t := &uniform.Texture{Name: url}
	e.textures[url] = t
	return t
}

func enabled(on bool, v float64) float64 {
	if !on {
		return 0
	}
	return v
}
