// package common contains plain shared types and helpers used throughout the starfield engine.
// They are not interface-wrapped structs, just data and small functions.
package common

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/anthonynsimon/bild/transform"
	"github.com/cogentcore/webgpu/wgpu"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// GPUResource is a renderer-side allocation (buffers, bind groups) attached to a geometry or
// material. The owner of the geometry or material releases it exactly once.
type GPUResource interface {
	Release()
}

// Transform is a position, Euler rotation (radians) and per-axis scale.
type Transform struct {
	Position [3]float32
	Rotation [3]float32
	Scale    [3]float32
}

// IdentityTransform returns a transform at the origin with no rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{Scale: [3]float32{1, 1, 1}}
}

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
type TextureStagingData struct {
	// Pixels is RGBA, 4 bytes per pixel, row-major.
	Pixels []byte
	Width  uint32
	Height uint32
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// Zero fields fall back to repeat addressing and linear filtering.
type SamplerStagingData struct {
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	MagFilter, MinFilter                     wgpu.FilterMode
	MipmapFilter                             wgpu.MipmapFilterMode
	LodMinClamp, LodMaxClamp                 float32
	MaxAnisotropy                            uint16
}

// DecodeTexture decodes a PNG, JPEG or WebP image into RGBA staging data. Embedded data takes
// precedence over path. Images larger than maxSize on either side are scaled down to fit,
// keeping their aspect ratio.
// Reference: https://pkg.go.dev/image
//
// Parameters:
//   - path: image file on disk, used when data is empty
//   - data: raw encoded image bytes
//   - maxSize: largest allowed width or height, 0 for no limit
//
// Returns:
//   - TextureStagingData: the decoded pixels
//   - error: error if the image cannot be read or decoded
func DecodeTexture(path string, data []byte, maxSize int) (TextureStagingData, error) {
	var r io.Reader
	switch {
	case len(data) > 0:
		r = bytes.NewReader(data)
	case path != "":
		file, err := os.Open(path)
		if err != nil {
			return TextureStagingData{}, fmt.Errorf("failed to open texture file %s: %w", path, err)
		}
		defer file.Close()
		r = file
	default:
		return TextureStagingData{}, fmt.Errorf("texture has neither data nor path")
	}

	img, _, err := image.Decode(r)
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to decode texture %q: %w", path, err)
	}

	bounds := img.Bounds()
	w, h := FitSize(bounds.Dx(), bounds.Dy(), maxSize)
	var rgba *image.RGBA
	if w != bounds.Dx() || h != bounds.Dy() {
		rgba = transform.Resize(img, w, h, transform.Linear)
	} else {
		rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	return TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(w),
		Height: uint32(h),
	}, nil
}

// FitSize scales width and height down to fit within maxSize, keeping the aspect ratio.
// Sizes already inside the limit, or a maxSize of 0, are returned unchanged.
//
// Parameters:
//   - width, height: the source size
//   - maxSize: the largest allowed side
//
// Returns:
//   - int, int: the fitted size, never below 1
func FitSize(width, height, maxSize int) (int, int) {
	if maxSize <= 0 || (width <= maxSize && height <= maxSize) {
		return width, height
	}
	if width >= height {
		return maxSize, max(1, height*maxSize/width)
	}
	return max(1, width*maxSize/height), maxSize
}
