package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrustumCullsBehindCamera(t *testing.T) {
	cam := NewCamera(WithAspect(16.0 / 9.0))
	f := cam.Frustum()

	assert.True(t, f.IntersectsSphere([3]float32{0, 0, -20}, 1))
	assert.False(t, f.IntersectsSphere([3]float32{0, 0, 20}, 1))
	assert.False(t, f.IntersectsSphere([3]float32{0, 0, -500}, 1))
	assert.False(t, f.IntersectsSphere([3]float32{200, 0, -20}, 1))
}

func TestLookAtUpdatesMatrices(t *testing.T) {
	cam := NewCamera()
	before := cam.ViewProjectionMatrix()
	cam.LookAt([3]float32{0, 0, 5}, [3]float32{0, 0, 0})
	assert.NotEqual(t, before, cam.ViewProjectionMatrix())
	assert.Equal(t, [3]float32{0, 0, 5}, cam.Eye())

	cam.SetAspect(0)
	assert.Equal(t, float32(1), cam.Aspect())
}

func TestUniformMarshal(t *testing.T) {
	cam := NewCamera(WithPosition([3]float32{1, 2, 3}, [3]float32{0, 0, 0}))
	u := cam.Uniform()
	buf := u.Marshal()
	assert.Len(t, buf, 80)
	assert.Equal(t, [3]float32{1, 2, 3}, u.CameraPosition)
}
