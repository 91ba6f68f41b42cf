package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceTracker(t *testing.T) {
	tr := NewResourceTracker()
	tr.Acquire(ResourceMaterial)
	tr.Acquire(ResourceMaterial)
	tr.Acquire(ResourceGeometry)
	tr.Release(ResourceMaterial)

	assert.Equal(t, 2, tr.Created(ResourceMaterial))
	assert.Equal(t, 1, tr.Released(ResourceMaterial))
	assert.Equal(t, 1, tr.Live(ResourceMaterial))
	assert.Equal(t, 1, tr.Live(ResourceGeometry))
}

func TestResourceTrackerNilSafe(t *testing.T) {
	var tr *ResourceTracker
	assert.NotPanics(t, func() {
		tr.Acquire(ResourceMaterial)
		tr.Release(ResourceMaterial)
	})
	assert.Zero(t, tr.Live(ResourceMaterial))
}

func TestSortedKeysAndClamp(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
	assert.Empty(t, SortedKeys(map[string]int{}))
	assert.Equal(t, 1.0, Clamp(3.0, 0, 1))
	assert.Equal(t, 0, Clamp(-2, 0, 5))
	assert.Equal(t, "b", Coalesce("", "b", "c"))
}

func TestRandRange(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 100; i++ {
		v := RandRange(r, 0.25, 0.75)
		require.GreaterOrEqual(t, v, 0.25)
		require.Less(t, v, 0.75)

		n := RandIntRange(r, 2, 4)
		require.GreaterOrEqual(t, n, 2)
		require.LessOrEqual(t, n, 4)
	}
	assert.Equal(t, 3.0, RandRange(r, 3, 3))
}

func TestBuildModelMatrixTranslationScale(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, [3]float32{1, 2, 3}, [3]float32{}, [3]float32{2, 2, 2})

	assert.Equal(t, []float32{2, 0, 0, 0, 0, 2, 0, 0, 0, 0, 2, 0, 1, 2, 3, 1}, m)
}

func TestMul4Identity(t *testing.T) {
	id := make([]float32, 16)
	Identity(id)
	m := make([]float32, 16)
	BuildModelMatrix(m, [3]float32{4, 5, 6}, [3]float32{0, math32.Pi / 2, 0}, [3]float32{1, 1, 1})

	out := make([]float32, 16)
	Mul4(out, id, m)
	assert.InDeltaSlice(t, m, out, 1e-6)
}

func TestLookAtOrigin(t *testing.T) {
	m := make([]float32, 16)
	LookAt(m, [3]float32{0, 0, 5}, [3]float32{}, [3]float32{0, 1, 0})

	// The eye moves to the origin of view space.
	assert.InDelta(t, -5, m[14], 1e-6)
	assert.InDelta(t, 1, m[0], 1e-6)
	assert.InDelta(t, 1, m[5], 1e-6)
}

func TestDecodeTexture(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(2, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	staged, err := DecodeTexture("", buf.Bytes(), 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), staged.Width)
	assert.Equal(t, uint32(2), staged.Height)
	require.Len(t, staged.Pixels, 3*2*4)
	last := staged.Pixels[len(staged.Pixels)-4:]
	assert.Equal(t, []byte{10, 20, 30, 255}, last)

	_, err = DecodeTexture(filepath.Join(t.TempDir(), "missing.png"), nil, 0)
	assert.Error(t, err)
	_, err = DecodeTexture("", nil, 0)
	assert.Error(t, err)
	_, err = DecodeTexture("", []byte("not an image"), 0)
	assert.Error(t, err)
}

func TestDecodeTextureScalesDown(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 64, 16))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	staged, err := DecodeTexture("", buf.Bytes(), 32)
	require.NoError(t, err)
	assert.Equal(t, uint32(32), staged.Width)
	assert.Equal(t, uint32(8), staged.Height)
	assert.Len(t, staged.Pixels, 32*8*4)
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		w, h, max    int
		wantW, wantH int
	}{
		{100, 50, 0, 100, 50},
		{100, 50, 200, 100, 50},
		{400, 100, 200, 200, 50},
		{100, 400, 200, 50, 200},
		{1000, 1, 10, 10, 1},
	}
	for _, tt := range tests {
		w, h := FitSize(tt.w, tt.h, tt.max)
		assert.Equal(t, tt.wantW, w)
		assert.Equal(t, tt.wantH, h)
	}
}
