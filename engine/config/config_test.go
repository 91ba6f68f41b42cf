package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeYAMLOverlaysDefaults(t *testing.T) {
	cfg := Default()
	doc := []byte(`
logging:
  level: debug
objects:
  highlightColor: "#ff00ff"
  types:
    derelict:
      geometry: cylinder
      color: "#777777"
  spawn:
    rules:
      minDistance: 10
      maxDistance: 30
      width: 20
      height: 10
unknownSection:
  foo: bar
`)
	require.NoError(t, Decode(&cfg, ".yml", doc))

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 1280, cfg.Render.Width)
	assert.True(t, cfg.Objects.Enabled)
	assert.Equal(t, "#ff00ff", cfg.Objects.HighlightColor)
	assert.Contains(t, cfg.Objects.Types, "derelict")
	assert.Contains(t, cfg.Objects.Types, "ship")
	require.NotNil(t, cfg.Objects.Spawn.Rules)
	assert.Equal(t, 30.0, cfg.Objects.Spawn.Rules.MaxDistance)
}

func TestDecodeTOML(t *testing.T) {
	cfg := Default()
	doc := []byte(`
[render]
width = 800
title = "Sector 7"

[scene]
planetImages = ["a.png", "b.png"]
`)
	require.NoError(t, Decode(&cfg, ".toml", doc))
	assert.Equal(t, 800, cfg.Render.Width)
	assert.Equal(t, 720, cfg.Render.Height)
	assert.Equal(t, "Sector 7", cfg.Render.Title)
	assert.Equal(t, []string{"a.png", "b.png"}, cfg.Scene.PlanetImages)
}

func TestDecodeRejectsUnknownFormat(t *testing.T) {
	cfg := Default()
	assert.Error(t, Decode(&cfg, ".json", []byte(`{}`)))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"STARFIELD_LOG_LEVEL":       "warn",
		"STARFIELD_LOG_JSON":        "true",
		"STARFIELD_OBJECTS_ENABLED": "false",
		"STARFIELD_DEBUG_UNIFORMS":  "1",
		"STARFIELD_WIDTH":           "640",
		"STARFIELD_HEIGHT":          "not-a-number",
	}
	cfg := Default()
	applyEnv(&cfg, func(k string) string { return env[k] })

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
	assert.False(t, cfg.Objects.Enabled)
	assert.True(t, cfg.Render.DebugUniforms)
	assert.Equal(t, 640, cfg.Render.Width)
	assert.Equal(t, 720, cfg.Render.Height)
}

func TestLoadValidates(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "starfield.yaml")
	require.NoError(t, os.WriteFile(good, []byte("scene:\n  historyLimit: 0\nobjects:\n  types:\n    ship:\n      scale: 0\n"), 0o644))
	cfg, err := Load(good)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Scene.HistoryLimit)
	assert.Equal(t, 1.0, cfg.Objects.Types["ship"].Scale)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("objects:\n  spawn:\n    rules:\n      minDistance: 10\n      maxDistance: 5\n"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "starfield.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: info\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var level atomic.Value
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c Config) { level.Store(c.Logging.Level) })
	}()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("logging:\n  level: error\n"), 0o644)
		v, _ := level.Load().(string)
		return v == "error"
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
