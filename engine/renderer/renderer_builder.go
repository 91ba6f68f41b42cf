package renderer

import (
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/Carmen-Shannon/oxy-starfield/engine/light"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.msaa = count
	}
}

// WithClearColor sets the color behind the backdrop layers from a "#rrggbb" string.
// Invalid strings keep the default black.
//
// Parameters:
//   - hex: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(hex string) RendererBuilderOption {
	return func(r *renderer) {
		c, err := colorful.Hex(hex)
		if err != nil {
			return
		}
		r.clearColor = wgpu.Color{R: c.R, G: c.G, B: c.B, A: 1}
	}
}

// WithWorkers sets how many pool workers pack object uniforms and how many objects each task packs.
//
// Parameters:
//   - workers: maximum concurrent workers, values below 1 are ignored
//   - batchSize: objects per task, values below 1 are ignored
//
// Returns:
//   - RendererBuilderOption: a function that applies the worker option to a renderer
func WithWorkers(workers, batchSize int) RendererBuilderOption {
	return func(r *renderer) {
		if workers > 0 {
			r.workers = workers
		}
		if batchSize > 0 {
			r.batchSize = batchSize
		}
	}
}

// WithAssetDir sets the directory planet image paths are resolved against.
//
// Parameters:
//   - dir: the asset directory
//
// Returns:
//   - RendererBuilderOption: a function that applies the asset directory option to a renderer
func WithAssetDir(dir string) RendererBuilderOption {
	return func(r *renderer) {
		r.assetDir = dir
	}
}

// WithLogger sets the logger the renderer derives its component logger from.
//
// Parameters:
//   - logger: the base logger
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(logger *slog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLight sets the key light that shades the object markers.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - RendererBuilderOption: a function that applies the light option to a renderer
func WithLight(l light.Light) RendererBuilderOption {
	return func(r *renderer) {
		r.light = l
	}
}
