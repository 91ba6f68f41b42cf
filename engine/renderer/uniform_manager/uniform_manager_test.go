package uniform_manager

import (
	"encoding/binary"
	"math"
	"regexp"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-starfield/engine/logger"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer/uniform"
)

func newTestManager(options ...UniformManagerBuilderOption) UniformManager {
	return NewUniformManager(append([]UniformManagerBuilderOption{WithLogger(logger.Discard())}, options...)...)
}

func newMaterial(uniforms ...material.NamedValue) material.Material {
	opts := make([]material.MaterialBuilderOption, 0, len(uniforms))
	for _, u := range uniforms {
		opts = append(opts, material.WithUniform(u.Name, u.Value))
	}
	return material.NewMaterial(opts...)
}

func TestRegisterRequiresUniformTable(t *testing.T) {
	m := newTestManager()

	assert.False(t, m.RegisterMaterial("nil", nil, nil))
	assert.False(t, m.RegisterMaterial("bare", material.NewMaterial(material.WithoutUniformTable()), nil))
	assert.False(t, m.HasMaterial("bare"))
	assert.Empty(t, m.MaterialIDs())

	mat := newMaterial(material.NamedValue{Name: "x", Value: uniform.Scalar(0)})
	require.True(t, m.RegisterMaterial("m", mat, nil))
	assert.True(t, m.HasMaterial("m"))
	assert.Same(t, mat, m.Material("m"))

	m.UnregisterMaterial("m")
	m.UnregisterMaterial("never-registered")
	assert.False(t, m.HasMaterial("m"))
	assert.Nil(t, m.Material("m"))
}

func TestUnchangedValueIsNotRewritten(t *testing.T) {
	m := newTestManager()
	mat := newMaterial(material.NamedValue{Name: "x", Value: uniform.Scalar(0)})
	require.True(t, m.RegisterMaterial("m", mat, uniform.Schema{}))

	assert.True(t, m.UpdateUniform("m", "x", 5, false))
	assert.False(t, m.UpdateUniform("m", "x", 5, false))
	assert.Equal(t, uint64(1), mat.Uniforms()["x"].Writes())

	assert.True(t, m.UpdateUniform("m", "x", 5, true))
	assert.Equal(t, uint64(2), mat.Uniforms()["x"].Writes())

	stats := m.PerformanceStats()
	assert.Equal(t, uint64(2), stats.Applied)
	assert.Equal(t, uint64(1), stats.Skipped)
}

func TestUnknownTargetsFail(t *testing.T) {
	m := newTestManager()
	require.True(t, m.RegisterMaterial("m", newMaterial(material.NamedValue{Name: "x", Value: uniform.Scalar(0)}), nil))

	assert.False(t, m.UpdateUniform("missing", "x", 1, false))
	assert.False(t, m.UpdateUniform("m", "missing", 1, false))
	_, ok := m.CachedUniforms("missing")
	assert.False(t, ok)
}

func TestColorCoercionEquivalence(t *testing.T) {
	m := newTestManager()
	schema := uniform.Schema{"tint": {Type: uniform.FieldColor}}
	a := newMaterial(material.NamedValue{Name: "tint", Value: uniform.Color(0, 0, 0)})
	b := newMaterial(material.NamedValue{Name: "tint", Value: uniform.Color(0, 0, 0)})
	require.True(t, m.RegisterMaterial("a", a, schema))
	require.True(t, m.RegisterMaterial("b", b, schema))

	assert.True(t, m.UpdateUniform("a", "tint", "#ff0000", false))
	assert.True(t, m.UpdateUniform("b", "tint", map[string]any{"r": 1, "g": 0, "b": 0}, false))

	va, vb := a.Uniforms()["tint"].Value(), b.Uniforms()["tint"].Value()
	assert.True(t, va.Equal(vb), "%s != %s", va, vb)
	assert.Equal(t, [3]float32{1, 0, 0}, va.Components())

	for _, in := range []any{[]any{1, 0, 0}, []float64{1, 0, 0}, map[string]any{"x": 1.0, "y": 0.0, "z": 0.0}, "f00"} {
		assert.False(t, m.UpdateUniform("a", "tint", in, false), "%v should equal the cached colour", in)
	}
}

func TestHullScenario(t *testing.T) {
	m := newTestManager()
	hull := newMaterial(material.NamedValue{Name: "color", Value: uniform.Color(1, 1, 1)})
	require.True(t, m.RegisterMaterial("hull", hull, uniform.Schema{"color": {Type: uniform.FieldColor}}))

	assert.True(t, m.UpdateUniform("hull", "color", "#00ff00", false))
	cached, ok := m.CachedUniforms("hull")
	require.True(t, ok)
	assert.True(t, cached["color"].Equal(uniform.Color(0, 1, 0)))
}

func TestVectorWritesInPlace(t *testing.T) {
	m := newTestManager()
	mat := newMaterial(material.NamedValue{Name: "position", Value: uniform.Vector3(0, 0, 0)})
	require.True(t, m.RegisterMaterial("p", mat, uniform.Schema{"position": {Type: uniform.FieldVector3}}))

	slot := mat.Uniforms()["position"]
	before := slot.Components()
	require.True(t, m.UpdateUniform("p", "position", uniform.Vec3{X: 1, Y: 2, Z: 3}, false))
	require.True(t, m.UpdateUniform("p", "position", map[string]any{"x": 4, "y": 5, "z": 6}, false))

	assert.Same(t, before, slot.Components())
	assert.Equal(t, [3]float32{4, 5, 6}, *slot.Components())
}

func TestValidationFailureStillApplies(t *testing.T) {
	m := newTestManager()
	mat := newMaterial(
		material.NamedValue{Name: "intensity", Value: uniform.Scalar(0.5)},
		material.NamedValue{Name: "blendMode", Value: uniform.String("normal")},
	)
	schema := uniform.Schema{
		"intensity": {Type: uniform.FieldIntensity},
		"blendMode": {Type: uniform.FieldBlendMode, Enum: material.BlendModes},
	}
	require.True(t, m.RegisterMaterial("m", mat, schema))

	assert.True(t, m.UpdateUniform("m", "intensity", 2.5, false))
	assert.Equal(t, float32(2.5), mat.Uniforms()["intensity"].Value().Float())

	assert.True(t, m.UpdateUniform("m", "blendMode", "multiply", false))
	assert.Equal(t, "multiply", mat.Uniforms()["blendMode"].Value().Str())

	assert.False(t, m.UpdateUniform("m", "intensity", struct{}{}, false))
	assert.Equal(t, float32(2.5), mat.Uniforms()["intensity"].Value().Float())
}

func TestResetCacheReappliesSameValue(t *testing.T) {
	m := newTestManager()
	mat := newMaterial(material.NamedValue{Name: "x", Value: uniform.Scalar(0)})
	require.True(t, m.RegisterMaterial("m", mat, nil))

	require.True(t, m.UpdateUniform("m", "x", 3, false))
	m.ResetCache("m")
	cached, _ := m.CachedUniforms("m")
	assert.Empty(t, cached)

	assert.True(t, m.UpdateUniform("m", "x", 3, false))
	assert.Equal(t, float32(3), mat.Uniforms()["x"].Value().Float())

	m.ResetCache()
	assert.True(t, m.UpdateUniform("m", "x", 3, false))
}

func TestUpdateUniformsDoesNotShortCircuit(t *testing.T) {
	m := newTestManager()
	mat := newMaterial(
		material.NamedValue{Name: "a", Value: uniform.Scalar(0)},
		material.NamedValue{Name: "c", Value: uniform.Scalar(0)},
	)
	require.True(t, m.RegisterMaterial("m", mat, nil))

	n := m.UpdateUniforms("m", map[string]any{"a": 1, "b": 2, "c": 3}, false)
	assert.Equal(t, 2, n)
	assert.Equal(t, float32(3), mat.Uniforms()["c"].Value().Float())
}

func TestUpdateUniformGlobal(t *testing.T) {
	m := newTestManager()
	withOpacity := newMaterial(material.NamedValue{Name: "opacity", Value: uniform.Scalar(1)})
	alsoOpacity := newMaterial(material.NamedValue{Name: "opacity", Value: uniform.Scalar(1)})
	without := newMaterial(material.NamedValue{Name: "scale", Value: uniform.Scalar(1)})
	require.True(t, m.RegisterMaterial("a", withOpacity, nil))
	require.True(t, m.RegisterMaterial("b", alsoOpacity, nil))
	require.True(t, m.RegisterMaterial("c", without, nil))

	assert.Equal(t, 2, m.UpdateUniformGlobal("opacity", 0.25, false))
	assert.Equal(t, float32(0.25), alsoOpacity.Uniforms()["opacity"].Value().Float())
	assert.Equal(t, 0, m.UpdateUniformGlobal("opacity", 0.25, false))
}

func TestGlobalTimeBypassesTracking(t *testing.T) {
	m := newTestManager()
	timed := newMaterial(material.NamedValue{Name: material.UniformTime, Value: uniform.Scalar(0)})
	untimed := newMaterial(material.NamedValue{Name: "x", Value: uniform.Scalar(0)})
	require.True(t, m.RegisterMaterial("timed", timed, uniform.Schema{material.UniformTime: {Type: uniform.FieldNumber, Max: uniform.Bounds(1)}}))
	require.True(t, m.RegisterMaterial("untimed", untimed, nil))

	m.UpdateGlobalTimeUniforms(12.5)

	assert.Equal(t, float32(12.5), timed.Uniforms()[material.UniformTime].Value().Float())
	cached, _ := m.CachedUniforms("timed")
	assert.True(t, cached[material.UniformTime].Equal(uniform.Scalar(12.5)))
	assert.Empty(t, m.ChangeTracking())
	assert.Equal(t, uint64(0), untimed.Uniforms()["x"].Writes())
	assert.Equal(t, uint64(1), m.PerformanceStats().TimeWrites)
}

func TestBatchUpdatesCoalesce(t *testing.T) {
	m := newTestManager()
	a := newMaterial(material.NamedValue{Name: "x", Value: uniform.Scalar(0)}, material.NamedValue{Name: "y", Value: uniform.Scalar(0)})
	b := newMaterial(material.NamedValue{Name: "x", Value: uniform.Scalar(0)})
	require.True(t, m.RegisterMaterial("a", a, nil))
	require.True(t, m.RegisterMaterial("b", b, nil))

	m.QueueUniformUpdate("a", "x", 1)
	m.QueueUniformUpdate("b", "x", 7)
	m.QueueUniformUpdate("a", "y", 2)
	m.QueueUniformUpdate("a", "x", 3)

	stats := m.PerformanceStats()
	assert.Equal(t, 4, stats.PendingBatch)
	assert.Equal(t, 3, stats.Dirty)

	assert.Equal(t, 3, m.ProcessBatchUpdates())
	assert.Equal(t, float32(3), a.Uniforms()["x"].Value().Float())
	assert.Equal(t, uint64(1), a.Uniforms()["x"].Writes())
	assert.Equal(t, float32(7), b.Uniforms()["x"].Value().Float())

	stats = m.PerformanceStats()
	assert.Zero(t, stats.PendingBatch)
	assert.Zero(t, stats.Dirty)
	assert.Zero(t, m.ProcessBatchUpdates())
}

func TestUpdateUniformsByPattern(t *testing.T) {
	m := newTestManager()
	for _, id := range []string{"backdrop.nebula", "backdrop.clouds", "object.ship"} {
		require.True(t, m.RegisterMaterial(id, newMaterial(material.NamedValue{Name: "opacity", Value: uniform.Scalar(1)}), nil))
	}
	values := map[string]any{"opacity": 0.5}

	assert.Equal(t, 2, m.UpdateUniformsByPattern(Substring("backdrop."), values))
	assert.Equal(t, 1, m.UpdateUniformsByPattern(Regexp(regexp.MustCompile(`^object\.`)), values))
	assert.Equal(t, 3, m.UpdateUniformsByPattern(MatchFunc(func(string) bool { return true }), values))
	assert.Equal(t, 0, m.UpdateUniformsByPattern(Regexp(nil), values))
	assert.Equal(t, 0, m.UpdateUniformsByPattern(nil, values))
	assert.Equal(t, float32(0.5), m.Material("object.ship").Uniforms()["opacity"].Value().Float())
}

func TestChangeTracking(t *testing.T) {
	m := newTestManager()
	require.True(t, m.RegisterMaterial("a", newMaterial(material.NamedValue{Name: "x", Value: uniform.Scalar(0)}, material.NamedValue{Name: "y", Value: uniform.Scalar(0)}), nil))
	require.True(t, m.RegisterMaterial("b", newMaterial(material.NamedValue{Name: "x", Value: uniform.Scalar(0)}), nil))

	m.UpdateUniforms("a", map[string]any{"y": 1, "x": 1}, false)
	m.UpdateUniform("b", "x", 1, false)
	assert.Equal(t, map[string][]string{"a": {"x", "y"}, "b": {"x"}}, m.ChangeTracking())

	m.ClearChangeTracking("a")
	assert.Equal(t, map[string][]string{"b": {"x"}}, m.ChangeTracking())

	m.ClearChangeTracking()
	assert.Empty(t, m.ChangeTracking())

	// cache is independent of change tracking
	assert.False(t, m.UpdateUniform("b", "x", 1, false))
}

func TestLastUpdateAndDebugMode(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m := newTestManager(WithClock(func() time.Time { return now }), WithDebug(true))
	require.True(t, m.RegisterMaterial("m", newMaterial(material.NamedValue{Name: "x", Value: uniform.Scalar(0)}), nil))

	assert.True(t, m.DebugMode())
	assert.True(t, m.LastUpdate("m").IsZero())
	require.True(t, m.UpdateUniform("m", "x", 1, false))
	assert.Equal(t, now, m.LastUpdate("m"))

	m.SetDebugMode(false)
	assert.False(t, m.DebugMode())

	stats := m.PerformanceStats()
	assert.Equal(t, 1, stats.Materials)
	assert.Equal(t, 1, stats.Uniforms)
}

func TestBackdropMaterialsRegister(t *testing.T) {
	m := newTestManager()
	for _, spec := range material.Backdrops() {
		require.True(t, m.RegisterMaterial(spec.Name, material.NewBackdrop(spec, nil), spec.Schema), spec.Name)
	}
	assert.Equal(t, 4, m.UpdateUniformGlobal(material.UniformTime, 1, false))
	assert.True(t, m.UpdateUniform(material.BackdropNebula, "color1", "#336699", false))
	assert.True(t, m.UpdateUniform(material.BackdropStars, "blendMode", "screen", false))
	assert.True(t, m.UpdateUniform(material.BackdropPlanet, "texture", &uniform.Texture{Name: "planets/1.png"}, false))
}

func packedVec3(mat material.Material, name string) [3]float32 {
	buf := uniform.Pack(mat.Uniforms(), mat.Layout())
	off := slices.Index(mat.Layout(), name) * uniform.SlotSize
	var out [3]float32
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[off+i*4:]))
	}
	return out
}

func TestPlanetPositionKeepsVectorKind(t *testing.T) {
	var planet material.BackdropSpec
	for _, spec := range material.Backdrops() {
		if spec.Name == material.BackdropPlanet {
			planet = spec
		}
	}
	require.Equal(t, material.BackdropPlanet, planet.Name)

	m := newTestManager()
	mat := material.NewBackdrop(planet, nil)
	require.True(t, m.RegisterMaterial(planet.Name, mat, planet.Schema))
	slot := mat.Uniforms()["position"]
	before := slot.Components()

	require.True(t, m.UpdateUniform(planet.Name, "position", []float32{0.1, 0.2, 0}, false))
	assert.Equal(t, uniform.KindVec3, slot.Kind())
	assert.Equal(t, [3]float32{0.1, 0.2, 0}, packedVec3(mat, "position"))

	require.True(t, m.UpdateUniform(planet.Name, "position", map[string]any{"x": 0.25, "y": 0.75}, false))
	assert.Equal(t, uniform.KindVec3, slot.Kind())
	assert.Equal(t, [3]float32{0.25, 0.75, 0}, packedVec3(mat, "position"))

	require.True(t, m.UpdateUniform(planet.Name, "position", []any{0.5, -0.125}, false))
	assert.Equal(t, [3]float32{0.5, -0.125, 0}, packedVec3(mat, "position"))

	for _, bad := range []any{"left", []float32{1, 2, 3, 4}, map[string]any{"x": 1}, true} {
		assert.False(t, m.UpdateUniform(planet.Name, "position", bad, false), "%v", bad)
		assert.Equal(t, uniform.KindVec3, slot.Kind(), "%v", bad)
	}
	assert.Equal(t, [3]float32{0.5, -0.125, 0}, packedVec3(mat, "position"))
	assert.Same(t, before, slot.Components())
}

func TestColorFieldRejectsUncoercibleInput(t *testing.T) {
	m := newTestManager()
	mat := newMaterial(material.NamedValue{Name: "tint", Value: uniform.Color(0, 1, 0)})
	require.True(t, m.RegisterMaterial("m", mat, uniform.Schema{"tint": {Type: uniform.FieldColor}}))

	assert.False(t, m.UpdateUniform("m", "tint", "not-a-colour", false))
	assert.Equal(t, uniform.KindColor, mat.Uniforms()["tint"].Kind())
	assert.Equal(t, [3]float32{0, 1, 0}, mat.Uniforms()["tint"].Value().Components())
}
