// Command starfield opens the space viewer: animated backdrop layers with rotating game object
// markers, driven by a YAML or TOML configuration that is reloaded on save.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/chewxy/math32"

	"github.com/Carmen-Shannon/oxy-starfield/common"
	"github.com/Carmen-Shannon/oxy-starfield/engine"
	"github.com/Carmen-Shannon/oxy-starfield/engine/config"
	"github.com/Carmen-Shannon/oxy-starfield/engine/game_object"
	"github.com/Carmen-Shannon/oxy-starfield/engine/light"
	"github.com/Carmen-Shannon/oxy-starfield/engine/logger"
	"github.com/Carmen-Shannon/oxy-starfield/engine/renderer"
	"github.com/Carmen-Shannon/oxy-starfield/engine/window"
)

const (
	minFov = 20 * math32.Pi / 180
	maxFov = 90 * math32.Pi / 180
)

func main() {
	configPath := flag.String("config", "starfield.yaml", "configuration file (.yaml, .yml or .toml)")
	assetDir := flag.String("assets", "", "directory planet images are resolved against, defaults to the config directory")
	profile := flag.Bool("profile", false, "log frame profiling")
	objects := flag.Int("objects", 8, "game objects generated per sector")
	flag.Parse()

	if err := run(*configPath, *assetDir, *profile, *objects); err != nil {
		slog.Error("Starfield exited", "error", err)
		os.Exit(1)
	}
}

func run(configPath, assetDir string, profile bool, objects int) error {
	path := configPath
	if _, err := os.Stat(path); err != nil {
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	logger.Init(cfg.Logging)
	if assetDir == "" {
		assetDir = filepath.Dir(configPath)
	}

	win, err := window.NewWindow(
		window.WithTitle(cfg.Render.Title),
		window.WithSize(cfg.Render.Width, cfg.Render.Height),
	)
	if err != nil {
		return err
	}
	defer win.Close()

	presentMode := renderer.PresentModeVSync
	if !cfg.Render.VSync {
		presentMode = renderer.PresentModeUncapped
	}
	r, err := renderer.NewRenderer(win,
		renderer.WithPresentMode(presentMode),
		renderer.WithClearColor(cfg.Render.ClearColor),
		renderer.WithAssetDir(assetDir),
		renderer.WithLight(light.NewLight(
			light.WithHexColor(cfg.Render.LightColor),
			light.WithIntensity(float32(cfg.Render.LightIntensity)),
		)),
		renderer.WithLogger(slog.Default()),
	)
	if err != nil {
		return err
	}

	eng := engine.NewEngine(
		engine.WithConfig(cfg),
		engine.WithRenderer(r),
		engine.WithProfiling(profile),
	)
	defer eng.Close()
	eng.Resize(win.Width(), win.Height())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if path != "" {
		go func() {
			if err := config.Watch(ctx, path, eng.Reload); err != nil {
				slog.Warn("Config watch stopped", "error", err)
			}
		}()
	}

	v := &viewer{eng: eng, win: win, title: cfg.Render.Title, sector: 1, objects: objects}
	v.enter()

	win.SetResizeCallback(eng.Resize)
	win.SetKeyDownCallback(v.onKey)
	win.SetScrollCallback(v.onScroll)
	win.SetUpdateCallback(func() {
		if ctx.Err() != nil {
			_ = win.Close()
			return
		}
		eng.Frame()
	})
	win.ProcessMessages()
	return nil
}

// viewer maps keyboard and scroll input onto the engine.
type viewer struct {
	eng     engine.Engine
	win     window.Window
	title   string
	sector  int
	objects int
}

func (v *viewer) location() string {
	return fmt.Sprintf("sector-%d", v.sector)
}

// enter visits the current sector with a freshly generated object set.
func (v *viewer) enter() {
	variant := v.eng.EnterLocation(v.location(), nil, make([]game_object.ObjectConfig, v.objects))
	v.win.SetTitle(fmt.Sprintf("%s - %s", v.title, v.location()))
	slog.Info("Entered location", "location", v.location(), "planet", variant.PlanetImageURL, "objects", v.objects)
}

func (v *viewer) onKey(keyCode uint32) {
	switch keyCode {
	case common.KeyTab:
		if obj := v.eng.SelectNext(); obj != nil {
			slog.Info("Selected", "object", obj.ID(), "type", obj.Type())
		}
	case common.KeyD:
		v.eng.Deselect()
	case common.KeyN:
		v.sector++
		v.enter()
	case common.KeyR:
		v.eng.Reroll()
		slog.Info("Rerolled", "location", v.eng.Location())
	case common.KeyU:
		u := v.eng.Uniforms()
		u.SetDebugMode(!u.DebugMode())
	case common.KeySpace:
		slog.Info("Rotation", "paused", v.eng.TogglePause())
	}
}

func (v *viewer) onScroll(delta float32) {
	cam := v.eng.Scene().Camera()
	cam.SetFov(math32.Max(minFov, math32.Min(maxFov, cam.Fov()-delta*math32.Pi/90)))
}
