package game_object

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine/camera"
	"github.com/Carmen-Shannon/oxy-starfield/engine/config"
	"github.com/Carmen-Shannon/oxy-starfield/engine/geometry"
	"github.com/Carmen-Shannon/oxy-starfield/engine/logger"
	"github.com/Carmen-Shannon/oxy-starfield/engine/model"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-starfield/engine/scene"
)

type fixture struct {
	scene   scene.Scene
	tracker *common.ResourceTracker
	mgr     Manager
}

func newFixture(t *testing.T, mutate ...func(*config.ObjectsConfig)) *fixture {
	t.Helper()
	cfg := config.Default().Objects
	for _, fn := range mutate {
		fn(&cfg)
	}
	f := &fixture{
		scene:   scene.NewScene("test", camera.NewCamera()),
		tracker: common.NewResourceTracker(),
	}
	f.mgr = NewManager(f.scene, cfg,
		WithLogger(logger.Discard()),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithTracker(f.tracker),
		WithMaterialFactory(material.NewFactory(f.tracker)),
	)
	return f
}

func at(x, y, z float32) *[3]float32 {
	return &[3]float32{x, y, z}
}

func TestNewManagerBuildsTemplates(t *testing.T) {
	f := newFixture(t, func(c *config.ObjectsConfig) {
		c.Types["drone"] = config.ObjectType{Geometry: "dodecahedron", Color: "not-a-colour"}
	})

	assert.Equal(t, []string{"drone", "salvage", "ship", "station"}, f.mgr.TypeNames())
	assert.Equal(t, 4, f.tracker.Live(common.ResourceGeometry))
	// one template material per type plus the highlight
	assert.Equal(t, 5, f.tracker.Live(common.ResourceMaterial))

	hl := f.mgr.HighlightMaterial()
	assert.True(t, hl.Wireframe())
	assert.Equal(t, float32(1), hl.Opacity())
	assert.InDelta(t, 1, hl.Color().G, 1e-6)
	assert.Zero(t, f.scene.Count())
}

func TestAddGameObject(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	sc := scene.NewScene("test", camera.NewCamera())
	mgr := NewManager(sc, config.Default().Objects, WithLogger(logger.Discard()), WithClock(func() time.Time { return now }))

	meta := map[string]any{"faction": "pirates"}
	obj := mgr.AddGameObject(ObjectConfig{ID: "s1", Type: "ship", Name: "Kestrel", Position: at(1, 2, -20), Metadata: meta})
	require.NotNil(t, obj)
	meta["faction"] = "changed"

	assert.Equal(t, "s1", obj.ID())
	assert.Equal(t, "ship", obj.Type())
	assert.Equal(t, "Kestrel", obj.Name())
	assert.Equal(t, [3]float32{1, 2, -20}, obj.Position())
	assert.Equal(t, [3]float32{1, 1, 1}, obj.Scale())
	assert.Equal(t, float32(0.5), obj.RotationSpeed())
	assert.Equal(t, now, obj.LastSeen())
	assert.Equal(t, "pirates", obj.Metadata()["faction"])
	assert.Equal(t, geometry.KindOctahedron, obj.Model().Geometry().Kind())
	assert.True(t, sc.Contains(obj.Model()))
	assert.Same(t, obj.OriginalMaterial(), obj.Model().Material())
	assert.False(t, obj.Highlighted())

	obj.Metadata()["faction"] = "mutated"
	assert.Equal(t, "pirates", obj.Metadata()["faction"])
}

func TestInstanceMaterialIsIndependentOfTemplate(t *testing.T) {
	f := newFixture(t)
	a := f.mgr.AddGameObject(ObjectConfig{ID: "a", Type: "ship", Position: at(0, 0, -10)})
	b := f.mgr.AddGameObject(ObjectConfig{ID: "b", Type: "ship", Position: at(0, 0, -10)})
	require.NotNil(t, a)
	require.NotNil(t, b)
	original := b.OriginalMaterial().Color()

	assert.NotSame(t, a.OriginalMaterial(), b.OriginalMaterial())
	a.OriginalMaterial().Uniforms()[material.UniformColor].Set(uniform.Color(1, 0, 0))

	assert.Equal(t, uniform.RGB{R: 1}, a.OriginalMaterial().Color())
	assert.Equal(t, original, b.OriginalMaterial().Color())
	assert.Equal(t, float32(0.8), b.OriginalMaterial().Opacity())
	assert.True(t, b.OriginalMaterial().Transparent())
}

func TestUnknownTypeIsSafeNoOp(t *testing.T) {
	f := newFixture(t)
	before := f.tracker.Live(common.ResourceMaterial)

	assert.Nil(t, f.mgr.AddGameObject(ObjectConfig{ID: "x", Type: "nonexistent"}))
	assert.Empty(t, f.mgr.AllObjects())
	assert.Zero(t, f.scene.Count())
	assert.Equal(t, before, f.tracker.Live(common.ResourceMaterial))
}

func TestDisabledManagerCreatesNothing(t *testing.T) {
	f := newFixture(t, func(c *config.ObjectsConfig) { c.Enabled = false })

	assert.False(t, f.mgr.Enabled())
	assert.Nil(t, f.mgr.AddGameObject(ObjectConfig{Type: "ship"}))
	f.mgr.SetGameObjects([]ObjectConfig{{Type: "ship"}, {Type: "station"}})
	assert.Empty(t, f.mgr.AllObjects())
	f.mgr.UpdateRotations()
}

func TestAddExistingIDReplaces(t *testing.T) {
	f := newFixture(t)
	first := f.mgr.AddGameObject(ObjectConfig{ID: "dup", Type: "ship", Position: at(0, 0, -10)})
	second := f.mgr.AddGameObject(ObjectConfig{ID: "dup", Type: "station", Position: at(0, 0, -10)})

	assert.True(t, first.Released())
	assert.False(t, f.scene.Contains(first.Model()))
	assert.Len(t, f.mgr.AllObjects(), 1)
	assert.Same(t, second, f.mgr.Object("dup"))
	// three templates, one instance
	assert.Equal(t, 4, f.tracker.Live(common.ResourceGeometry))
}

func TestRemoveGameObject(t *testing.T) {
	f := newFixture(t)
	obj := f.mgr.AddGameObject(ObjectConfig{ID: "r", Type: "salvage", Position: at(0, 0, -10)})
	require.True(t, f.mgr.SelectObject("r"))

	assert.True(t, f.mgr.RemoveGameObject("r"))
	assert.False(t, f.mgr.RemoveGameObject("r"))
	assert.True(t, obj.Released())
	assert.True(t, obj.Model().Geometry().Released())
	assert.True(t, obj.OriginalMaterial().Released())
	assert.False(t, f.mgr.HighlightMaterial().Released())
	assert.Nil(t, f.mgr.SelectedObject())
	assert.Nil(t, f.mgr.Object("r"))
	assert.Zero(t, f.scene.Count())
}

func TestSelectionExclusivity(t *testing.T) {
	f := newFixture(t)
	a := f.mgr.AddGameObject(ObjectConfig{ID: "a", Type: "ship", Position: at(0, 0, -10)})
	b := f.mgr.AddGameObject(ObjectConfig{ID: "b", Type: "station", Position: at(0, 0, -10)})
	origA, origB := a.Model().Material(), b.Model().Material()

	require.True(t, f.mgr.SelectObject("a"))
	require.True(t, f.mgr.SelectObject("a"))
	require.True(t, f.mgr.SelectObject("b"))

	assert.Same(t, origA, a.Model().Material())
	assert.Same(t, f.mgr.HighlightMaterial(), b.Model().Material())
	assert.Same(t, b, f.mgr.SelectedObject())
	assert.Equal(t, 1, f.mgr.Stats().Selected)

	assert.False(t, f.mgr.SelectObject("missing"))
	assert.Same(t, b, f.mgr.SelectedObject())

	f.mgr.DeselectObject("")
	assert.Same(t, origB, b.Model().Material())
	assert.Nil(t, f.mgr.SelectedObject())
	f.mgr.DeselectObject("")
}

func TestRepeatedSelectDoesNotLeak(t *testing.T) {
	f := newFixture(t)
	f.mgr.SetGameObjects([]ObjectConfig{{ID: "a", Type: "ship"}, {ID: "b", Type: "ship"}})
	live := f.tracker.Live(common.ResourceMaterial)

	for i := 0; i < 20; i++ {
		f.mgr.SelectObject("a")
		f.mgr.SelectObject("b")
		f.mgr.DeselectObject("b")
	}
	assert.Equal(t, live, f.tracker.Live(common.ResourceMaterial))
}

func TestDeselectByIDOnlyClearsMatchingSelection(t *testing.T) {
	f := newFixture(t)
	f.mgr.SetGameObjects([]ObjectConfig{{ID: "a", Type: "ship"}, {ID: "b", Type: "ship"}})
	require.True(t, f.mgr.SelectObject("a"))

	f.mgr.DeselectObject("b")
	assert.Equal(t, "a", f.mgr.SelectedObject().ID())

	f.mgr.DeselectObject("a")
	assert.Nil(t, f.mgr.SelectedObject())
	assert.False(t, f.mgr.Object("a").Highlighted())
}

func TestUpdateRotations(t *testing.T) {
	f := newFixture(t)
	obj := f.mgr.AddGameObject(ObjectConfig{ID: "s", Type: "station", Position: at(3, 4, -12)})

	for i := 0; i < 10; i++ {
		f.mgr.UpdateRotations()
	}
	rot := obj.Rotation()
	assert.InDelta(t, 0.2*0.016*10, rot[1], 1e-5)
	assert.InDelta(t, 0.2*0.016*10*0.5, rot[0], 1e-5)
	assert.Zero(t, rot[2])
	assert.Equal(t, [3]float32{3, 4, -12}, obj.Position())
}

func TestQueriesAndStats(t *testing.T) {
	f := newFixture(t)
	f.mgr.SetGameObjects([]ObjectConfig{
		{ID: "s1", Type: "ship"},
		{ID: "st", Type: "station"},
		{ID: "s2", Type: "ship"},
	})
	f.mgr.Object("st").Model().SetVisible(false)

	ids := func(objs []GameObject) []string {
		out := make([]string, len(objs))
		for i, o := range objs {
			out[i] = o.ID()
		}
		return out
	}
	assert.Equal(t, []string{"s1", "st", "s2"}, ids(f.mgr.AllObjects()))
	assert.Equal(t, []string{"s1", "s2"}, ids(f.mgr.ObjectsByType("ship")))
	assert.Empty(t, f.mgr.ObjectsByType("salvage"))

	stats := f.mgr.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, map[string]int{"ship": 2, "station": 1}, stats.ByType)
	assert.Equal(t, 2, stats.Visible)
	assert.Zero(t, stats.Selected)
}

func TestGenerateGameObjectConfig(t *testing.T) {
	f := newFixture(t)
	spawn := config.Default().Objects.Spawn

	for i := 0; i < 50; i++ {
		cfg := f.mgr.GenerateGameObjectConfig(ObjectConfig{Type: "station"})
		require.NotNil(t, cfg.Position)
		p := cfg.Position
		assert.GreaterOrEqual(t, float64(p[0]), spawn.Min.X)
		assert.LessOrEqual(t, float64(p[0]), spawn.Max.X)
		assert.GreaterOrEqual(t, float64(p[2]), spawn.Min.Z)
		assert.LessOrEqual(t, float64(p[2]), spawn.Max.Z)
		assert.Equal(t, float32(2), cfg.Scale)
		assert.Equal(t, [3]float32{}, cfg.Rotation)
	}

	explicit := f.mgr.GenerateGameObjectConfig(ObjectConfig{Type: "ship", Position: at(9, 9, 9)})
	assert.Equal(t, [3]float32{9, 9, 9}, *explicit.Position)
	assert.Equal(t, float32(1), explicit.Scale)
}

func TestGenerateUsesSpawnRules(t *testing.T) {
	f := newFixture(t, func(c *config.ObjectsConfig) {
		c.Spawn.Rules = &config.SpawnRules{MinDistance: 20, MaxDistance: 30, Width: 10, Height: 4}
	})
	for i := 0; i < 50; i++ {
		p := *f.mgr.GenerateGameObjectConfig(ObjectConfig{Type: "ship"}).Position
		assert.LessOrEqual(t, p[0], float32(5))
		assert.GreaterOrEqual(t, p[0], float32(-5))
		assert.LessOrEqual(t, p[1], float32(2))
		assert.GreaterOrEqual(t, p[1], float32(-2))
		assert.LessOrEqual(t, p[2], float32(-20))
		assert.GreaterOrEqual(t, p[2], float32(-30))
	}
}

func TestDisposalCompleteness(t *testing.T) {
	f := newFixture(t)
	f.mgr.SetGameObjects([]ObjectConfig{{ID: "obj1", Type: "ship"}, {ID: "obj2", Type: "station"}})
	objs := f.mgr.AllObjects()
	require.Len(t, objs, 2)
	require.True(t, f.mgr.SelectObject("obj2"))

	f.mgr.Dispose()
	f.mgr.Dispose()

	assert.Empty(t, f.mgr.AllObjects())
	assert.Zero(t, f.scene.Count())
	for _, obj := range objs {
		assert.False(t, f.scene.Contains(obj.Model()))
		assert.True(t, obj.Model().Geometry().Released())
		assert.True(t, obj.OriginalMaterial().Released())
	}
	assert.True(t, f.mgr.HighlightMaterial().Released())
	assert.Zero(t, f.tracker.Live(common.ResourceGeometry))
	assert.Zero(t, f.tracker.Live(common.ResourceMaterial))
	assert.Equal(t, f.tracker.Created(common.ResourceMaterial), f.tracker.Released(common.ResourceMaterial))
	assert.Nil(t, f.mgr.AddGameObject(ObjectConfig{Type: "ship"}))
}

func TestSetGameObjectsReplacesWithoutLeaking(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		f.mgr.SetGameObjects([]ObjectConfig{{Type: "ship"}, {Type: "station"}, {Type: "salvage"}})
	}
	assert.Len(t, f.mgr.AllObjects(), 3)
	// templates plus the current three instances
	assert.Equal(t, 6, f.tracker.Live(common.ResourceGeometry))
	assert.Equal(t, 7, f.tracker.Live(common.ResourceMaterial))
	assert.Equal(t, 3, f.scene.Count())
}

func TestReconfigure(t *testing.T) {
	f := newFixture(t)
	obj := f.mgr.AddGameObject(ObjectConfig{ID: "keep", Type: "ship"})
	hl := f.mgr.HighlightMaterial()
	before := hl.Uniforms()[material.UniformColor].Components()

	cfg := config.Default().Objects
	cfg.Types = map[string]config.ObjectType{"beacon": {Geometry: "sphere", Color: "#ffffff", Scale: 0.5}}
	cfg.HighlightColor = "#ff0000"
	cfg.Spawn = config.SpawnConfig{Min: config.Vec3{X: 5, Y: 5, Z: -9}, Max: config.Vec3{X: 5, Y: 5, Z: -9}}
	f.mgr.Reconfigure(cfg)

	assert.Equal(t, []string{"beacon"}, f.mgr.TypeNames())
	assert.False(t, obj.Released())
	assert.Nil(t, f.mgr.AddGameObject(ObjectConfig{Type: "ship"}))
	beacon := f.mgr.AddGameObject(ObjectConfig{Type: "beacon"})
	require.NotNil(t, beacon)
	assert.Equal(t, [3]float32{0.5, 0.5, 0.5}, beacon.Scale())
	assert.Equal(t, [3]float32{5, 5, -9}, beacon.Position())

	assert.Same(t, hl, f.mgr.HighlightMaterial())
	assert.Same(t, before, hl.Uniforms()[material.UniformColor].Components())
	assert.Equal(t, uniform.RGB{R: 1}, hl.Color())

	cfg.Enabled = false
	f.mgr.Reconfigure(cfg)
	assert.False(t, f.mgr.Enabled())
	assert.Empty(t, f.mgr.AllObjects())
	assert.True(t, obj.Released())
	assert.Zero(t, f.scene.Count())
	assert.Nil(t, f.mgr.AddGameObject(ObjectConfig{Type: "beacon"}))

	f.mgr.Dispose()
	assert.Zero(t, f.tracker.Live(common.ResourceGeometry))
	assert.Zero(t, f.tracker.Live(common.ResourceMaterial))
}

func TestNewManagerRequiresScene(t *testing.T) {
	assert.Panics(t, func() { NewManager(nil, config.ObjectsConfig{}) })
}

func TestNewGameObjectDefaults(t *testing.T) {
	mat := material.NewMaterial()
	obj := NewGameObject(WithID("solo"), WithModel(model.NewModel(model.WithMaterial(mat))))
	assert.Equal(t, "solo", obj.Name())
	assert.Same(t, mat, obj.OriginalMaterial())
	assert.Nil(t, obj.Metadata())
}
