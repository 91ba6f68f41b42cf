package engine

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine/config"
	"github.com/Carmen-Shannon/oxy-starfield/engine/game_object"
	"github.com/Carmen-Shannon/oxy-starfield/engine/logger"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-starfield/engine/scene_config"
)

type fakeRenderer struct {
	frames   []Frame
	width    int
	height   int
	released int
	err      error
}

func (f *fakeRenderer) RenderFrame(frame Frame) error {
	f.frames = append(f.frames, frame)
	return f.err
}

func (f *fakeRenderer) Resize(width, height int) {
	f.width, f.height = width, height
}

func (f *fakeRenderer) Release() {
	f.released++
}

func newTestEngine(t *testing.T, options ...EngineBuilderOption) (Engine, *fakeRenderer, *common.ResourceTracker) {
	t.Helper()
	r := &fakeRenderer{}
	tracker := common.NewResourceTracker()
	opts := append([]EngineBuilderOption{
		WithLogger(logger.Discard()),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithRenderer(r),
		WithTracker(tracker),
	}, options...)
	return NewEngine(opts...), r, tracker
}

func locationObjects() []game_object.ObjectConfig {
	return []game_object.ObjectConfig{
		{ID: "alpha", Type: "ship"},
		{ID: "beta", Type: "station"},
		{ID: "gamma", Type: "salvage"},
	}
}

func TestNewEngineRegistersBackdrops(t *testing.T) {
	e, _, tracker := newTestEngine(t)
	defer e.Close()

	assert.Equal(t, []string{
		material.BackdropClouds,
		material.BackdropNebula,
		material.BackdropPlanet,
		material.BackdropStars,
	}, e.Uniforms().MaterialIDs())
	for _, id := range e.Uniforms().MaterialIDs() {
		require.NotNil(t, e.Backdrop(id), id)
	}
	assert.Nil(t, e.Backdrop("backdrop.unknown"))
	assert.GreaterOrEqual(t, tracker.Live(common.ResourceMaterial), 4)
}

func TestEnterLocationAppliesVariantOnNextTick(t *testing.T) {
	e, r, _ := newTestEngine(t)
	defer e.Close()

	v := e.EnterLocation("sector-1", scene_config.Patch{
		"nebulaColor1": "#ff0000",
		"starDensity":  0.9,
	}, locationObjects())
	assert.Equal(t, "#ff0000", v.NebulaColor1)
	assert.Equal(t, "sector-1", e.Location())
	assert.Equal(t, 3, e.Objects().Stats().Total)

	before, _ := e.Uniforms().CachedUniforms(material.BackdropNebula)
	assert.False(t, before["color1"].Equal(uniform.Color(1, 0, 0)))

	e.Tick(0.5)

	nebula, ok := e.Uniforms().CachedUniforms(material.BackdropNebula)
	require.True(t, ok)
	assert.True(t, nebula["color1"].Equal(uniform.Color(1, 0, 0)))
	stars, _ := e.Uniforms().CachedUniforms(material.BackdropStars)
	assert.InDelta(t, 0.9, stars["density"].Float(), 1e-6)

	require.Len(t, r.frames, 1)
	frame := r.frames[0]
	assert.Contains(t, frame.Changed[material.BackdropNebula], "color1")
	assert.Contains(t, frame.Changed[material.BackdropStars], "density")
	assert.Len(t, frame.Backdrops, 4)
	assert.InDelta(t, 0.5, frame.Time, 1e-6)
	assert.Equal(t, 3, frame.Scene.Count())

	e.Tick(0.25)
	require.Len(t, r.frames, 2)
	assert.Empty(t, r.frames[1].Changed)
	assert.InDelta(t, 0.75, e.Backdrop(material.BackdropNebula).Uniforms().Snapshot()[material.UniformTime].Float(), 1e-6)
}

func TestRevisitingLocationReusesVariant(t *testing.T) {
	e, r, _ := newTestEngine(t)
	defer e.Close()

	first := e.EnterLocation("sector-1", nil, nil)
	e.EnterLocation("sector-2", nil, nil)
	again := e.EnterLocation("sector-1", nil, nil)
	assert.Equal(t, first, again)

	e.Tick(0.016)
	planet, _ := e.Uniforms().CachedUniforms(material.BackdropPlanet)
	if first.PlanetImageURL != "" {
		require.NotNil(t, planet["texture"].Texture())
		assert.Equal(t, first.PlanetImageURL, planet["texture"].Texture().Name)
	}
	require.Len(t, r.frames, 1)
}

func TestRerollReplacesCachedVariant(t *testing.T) {
	e, _, _ := newTestEngine(t)
	defer e.Close()

	first := e.EnterLocation("sector-1", nil, nil)
	rerolled := e.Reroll()
	assert.NotEqual(t, first, rerolled)

	cached, ok := e.SceneConfigs().Variant("sector-1")
	require.True(t, ok)
	assert.Equal(t, rerolled, cached)
}

func TestEnterNamedLocationCachesConfiguration(t *testing.T) {
	e, _, _ := newTestEngine(t)
	defer e.Close()

	cfg := e.EnterNamedLocation("home", scene_config.Patch{
		"stars": map[string]any{"blendMode": "screen"},
	}, false)
	assert.Equal(t, "screen", cfg.Stars.BlendMode)
	assert.True(t, e.SceneConfigs().HasNamedConfig("home"))

	again := e.EnterNamedLocation("home", nil, true)
	assert.Equal(t, cfg, again)

	e.Tick(0)
	stars, _ := e.Uniforms().CachedUniforms(material.BackdropStars)
	assert.Equal(t, "screen", stars["blendMode"].Str())
}

func TestSelectNextCyclesInInsertionOrder(t *testing.T) {
	e, _, _ := newTestEngine(t)
	defer e.Close()

	assert.Nil(t, e.SelectNext())

	e.EnterLocation("sector-1", nil, locationObjects())
	var ids []string
	for range 4 {
		ids = append(ids, e.SelectNext().ID())
	}
	assert.Equal(t, []string{"alpha", "beta", "gamma", "alpha"}, ids)

	e.Deselect()
	assert.Nil(t, e.Objects().SelectedObject())
	assert.False(t, e.Objects().Object("alpha").Highlighted())
}

func TestTogglePauseStopsRotation(t *testing.T) {
	e, _, _ := newTestEngine(t)
	defer e.Close()
	e.EnterLocation("sector-1", nil, locationObjects())

	obj := e.Objects().Object("alpha")
	e.Tick(0.016)
	rotated := obj.Rotation()
	assert.NotZero(t, rotated[1])

	assert.True(t, e.TogglePause())
	e.Tick(0.016)
	assert.Equal(t, rotated, obj.Rotation())

	assert.False(t, e.TogglePause())
	e.Tick(0.016)
	assert.NotEqual(t, rotated, obj.Rotation())
}

func TestReloadAppliesOnNextTick(t *testing.T) {
	e, _, _ := newTestEngine(t)
	defer e.Close()

	cfg := config.Default()
	cfg.Objects.Types = map[string]config.ObjectType{
		"drone": {Geometry: "sphere", Color: "#ffffff", RotationSpeed: 1, Scale: 0.5},
	}
	cfg.Render.DebugUniforms = true

	e.Reload(config.Default())
	e.Reload(cfg)
	assert.NotContains(t, e.Objects().TypeNames(), "drone")

	e.Tick(0.016)
	assert.Equal(t, []string{"drone"}, e.Objects().TypeNames())
	assert.True(t, e.Uniforms().DebugMode())
}

func TestReloadAppliesObjectAndSceneSettings(t *testing.T) {
	e, _, _ := newTestEngine(t)
	defer e.Close()
	e.EnterLocation("home", nil, locationObjects())
	require.Len(t, e.Objects().AllObjects(), 3)

	cfg := config.Default()
	cfg.Objects.HighlightColor = "#0000ff"
	cfg.Objects.Spawn = config.SpawnConfig{Min: config.Vec3{X: 1, Y: 2, Z: -30}, Max: config.Vec3{X: 1, Y: 2, Z: -30}}
	cfg.Scene.PlanetImages = []string{"planets/reloaded.png"}
	e.Reload(cfg)
	e.Tick(0.016)

	assert.Equal(t, uniform.RGB{B: 1}, e.Objects().HighlightMaterial().Color())
	assert.Equal(t, scene_config.Patch{scene_config.PlanetImageURLKey: "planets/reloaded.png"},
		e.SceneConfigs().ResolvePlanetImage(scene_config.Patch{scene_config.PlanetImageIndexKey: 0}))
	obj := e.Objects().AddGameObject(game_object.ObjectConfig{ID: "delta", Type: "ship"})
	require.NotNil(t, obj)
	assert.Equal(t, [3]float32{1, 2, -30}, obj.Position())

	cfg.Objects.Enabled = false
	e.Reload(cfg)
	e.Tick(0.016)
	assert.False(t, e.Objects().Enabled())
	assert.Empty(t, e.Objects().AllObjects())
}

func TestResizeUpdatesCameraAndRenderer(t *testing.T) {
	e, r, _ := newTestEngine(t)
	defer e.Close()

	e.Resize(800, 400)
	assert.InDelta(t, 2, e.Scene().Camera().Aspect(), 1e-6)
	assert.Equal(t, 800, r.width)
	assert.Equal(t, 400, r.height)

	e.Resize(0, 100)
	assert.Equal(t, 800, r.width)
}

func TestRenderErrorDoesNotStopTicking(t *testing.T) {
	e, r, _ := newTestEngine(t)
	defer e.Close()
	r.err = errors.New("surface lost")

	e.Tick(0.016)
	e.Tick(0.016)
	assert.Len(t, r.frames, 2)
}

func TestFrameUsesClockDelta(t *testing.T) {
	now := time.Unix(100, 0)
	e, r, _ := newTestEngine(t, WithClock(func() time.Time { return now }))
	defer e.Close()

	e.Frame()
	now = now.Add(250 * time.Millisecond)
	e.Frame()

	require.Len(t, r.frames, 2)
	assert.Zero(t, r.frames[0].Time)
	assert.InDelta(t, 0.25, r.frames[1].Time, 1e-6)
}

func TestRunStopsOnQuitAndContext(t *testing.T) {
	e, r, _ := newTestEngine(t, WithTickRate(500))
	defer e.Close()

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()
	time.Sleep(20 * time.Millisecond)
	e.Quit()
	e.Quit()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Quit")
	}
	assert.NotEmpty(t, r.frames)

	e2, _, _ := newTestEngine(t)
	defer e2.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, e2.Run(ctx), context.DeadlineExceeded)
}

func TestCloseReleasesEverythingOnce(t *testing.T) {
	e, r, tracker := newTestEngine(t)
	e.EnterLocation("sector-1", nil, locationObjects())
	e.SelectNext()
	e.Tick(0.016)

	e.Close()
	e.Close()

	assert.Equal(t, 1, r.released)
	assert.Empty(t, e.Uniforms().MaterialIDs())
	assert.Zero(t, e.Scene().Count())
	assert.Zero(t, tracker.Live(common.ResourceMaterial))
	assert.Zero(t, tracker.Live(common.ResourceGeometry))

	e.Tick(0.016)
	assert.Len(t, r.frames, 1)
}
