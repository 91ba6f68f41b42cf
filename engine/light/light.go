// Package light describes the key light that shades the game object markers.
package light

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	direction [3]float32
	color     [3]float32
	intensity float32
	ambient   float32
	enabled   bool
}

// Light defines the interface for the directional key light of the scene.
//
// The light has no position: every marker is lit from the same direction, which suits
// distant sources like the backdrop's star or planet. It is marshaled into the camera
// bind group once per frame.
type Light interface {
	// Direction returns the normalized direction from a lit surface toward the light.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// Intensity returns the scalar multiplier applied to the diffuse term.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Ambient returns the share of the marker color visible on faces turned away from the
	// light.
	//
	// Returns:
	//   - float32: ambient level in [0, 1]
	Ambient() float32

	// Enabled returns whether the light contributes diffuse shading. A disabled light
	// leaves markers lit by the ambient term alone.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// SetDirection sets the direction toward the light and normalizes it. A zero vector
	// is ignored.
	//
	// Parameters:
	//   - x, y, z: direction components (will be normalized)
	SetDirection(x, y, z float32)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// SetIntensity sets the diffuse multiplier. Negative values are clamped to zero.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetAmbient sets the ambient level, clamped to [0, 1].
	//
	// Parameters:
	//   - ambient: the ambient level
	SetAmbient(ambient float32)

	// SetEnabled enables or disables diffuse shading.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Uniform packs the light for the GPU.
	//
	// Returns:
	//   - GPULightUniform: the packed light
	Uniform() GPULightUniform
}

var _ Light = &lightImpl{}

// NewLight creates a white key light above and to the right of the viewer with any provided
// options applied.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		direction: normalize3([3]float32{0.4, 0.8, 0.5}),
		color:     [3]float32{1, 1, 1},
		intensity: 0.75,
		ambient:   0.25,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Direction() [3]float32 {
	return l.direction
}

func (l *lightImpl) Color() [3]float32 {
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Ambient() float32 {
	return l.ambient
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	if d := normalize3([3]float32{x, y, z}); d != ([3]float32{}) {
		l.direction = d
	}
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = [3]float32{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = max(intensity, 0)
}

func (l *lightImpl) SetAmbient(ambient float32) {
	l.ambient = min(max(ambient, 0), 1)
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) Uniform() GPULightUniform {
	u := GPULightUniform{
		Direction: l.direction,
		Ambient:   l.ambient,
		Color:     l.color,
	}
	if l.enabled {
		u.Intensity = l.intensity
	}
	return u
}
