package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Carmen-Shannon/oxy-starfield/engine/camera"
	"github.com/Carmen-Shannon/oxy-starfield/engine/model"
)

func TestNewSceneRequiresCamera(t *testing.T) {
	assert.Panics(t, func() { NewScene("s", nil) })
}

func TestAddRemoveKeepsOrder(t *testing.T) {
	a, b, c := model.NewModel(model.WithName("a")), model.NewModel(model.WithName("b")), model.NewModel(model.WithName("c"))
	s := NewScene("starfield", camera.NewCamera(), WithModels(a, nil, a))

	assert.Equal(t, 1, s.Count())
	assert.True(t, s.Add(b))
	assert.True(t, s.Add(c))
	assert.False(t, s.Add(b))
	assert.False(t, s.Add(nil))

	assert.True(t, s.Remove(b))
	assert.False(t, s.Remove(b))
	assert.False(t, s.Contains(b))
	assert.Equal(t, []model.Model{a, c}, s.Models())

	s.Clear()
	assert.Zero(t, s.Count())
	assert.False(t, s.Contains(a))
}

func TestSceneSettings(t *testing.T) {
	s := NewScene("a", camera.NewCamera(), WithActive(false))
	assert.False(t, s.Active())
	s.SetActive(true)
	s.SetName("b")
	assert.True(t, s.Active())
	assert.Equal(t, "b", s.Name())

	cam := camera.NewCamera()
	s.SetCamera(cam)
	s.SetCamera(nil)
	assert.Same(t, cam, s.Camera())
}
