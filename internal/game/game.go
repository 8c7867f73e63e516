// Package game implements the main loop of the isometric pixel-art demo.
package game

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/isopixel/internal/assets"
	"github.com/Faultbox/isopixel/internal/config"
	"github.com/Faultbox/isopixel/internal/engine/debug"
	"github.com/Faultbox/isopixel/internal/engine/input"
	"github.com/Faultbox/isopixel/internal/engine/render"
	"github.com/Faultbox/isopixel/internal/engine/render/plan"
	"github.com/Faultbox/isopixel/internal/engine/window"
	"github.com/Faultbox/isopixel/internal/game/session"
	"github.com/Faultbox/isopixel/internal/logger"
)

// fireflySeed fixes the particle RNG so runs are reproducible.
const fireflySeed = 42

// Game is the main game instance.
type Game struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	assets   *assets.Manager
	pipeline *render.Pipeline
	session  *session.Session
	mapper   *input.Mapper
	capture  *debug.ScreenshotCapture

	events []input.Event
	width  int
	height int

	fps   *logger.Throttle
	probe *logger.Throttle
	log   *zap.Logger
}

// New opens the window and builds the renderer.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{
		cfg:     cfg,
		assets:  assets.NewManager(),
		mapper:  input.NewMapper(),
		capture: debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, "isopixel"),
		events:  make([]input.Event, 0, 32),
		fps:     logger.NewThrottle(time.Second),
		probe:   logger.NewThrottle(time.Second),
		log:     logger.Named("game"),
	}
	g.log.Info("initializing",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height))

	var err error
	g.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	g.assets.AddProvider(assets.Builtin{})

	// The pipeline needs the GL context the window just created.
	g.pipeline, err = render.New(g.assets)
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	var reload session.Reloader
	if path := config.Path(); path != "" {
		reload = func() (config.Params, error) { return config.ReloadParams(path) }
	}
	g.session = session.New(cfg.Render, fireflySeed, reload)

	g.width, g.height = g.window.DrawableSize()
	if err := g.reconfigure(); err != nil {
		g.Close()
		return nil, err
	}

	g.log.Info("initialized")
	return g, nil
}

// Run drives frames until the window closes or Esc is pressed.
func (g *Game) Run() error {
	g.running = true

	last := time.Now()
	frames := 0

	g.log.Info("starting main loop")

	for g.running {
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		g.events = g.window.PollEvents(g.events[:0])
		eff := g.session.Apply(g.mapper.Translate(g.events))
		if eff.Quit {
			g.running = false
			break
		}
		if eff.Resized {
			g.width, g.height = eff.Width, eff.Height
		}
		if eff.Resized || eff.Reconfigure {
			if err := g.reconfigure(); err != nil {
				return err
			}
		}

		g.session.Update(dt)
		g.pipeline.Render(g.frame())

		if eff.Screenshot {
			g.screenshot()
		}
		if g.cfg.Debug.Probe && g.probe.Allow(now) {
			g.logProbe()
		}

		g.window.SwapBuffers()

		frames++
		if g.fps.Allow(now) {
			g.log.Debug("fps",
				zap.Int("frames", frames),
				zap.Float32("dt_ms", dt*1000),
				zap.Bool("paused", g.pipeline.Paused()))
			frames = 0
		}
	}

	return nil
}

// reconfigure recomputes the render resolution for the window size and the
// pixelation parameters, then resizes the camera and the targets.
func (g *Game) reconfigure() error {
	params := g.session.Params()
	state, err := plan.Resolve(g.width, g.height, params.Pixelation)
	if err != nil {
		if render.IsPaused(err) {
			g.pipeline.Pause(err)
			return nil
		}
		return fmt.Errorf("resolving resolution: %w", err)
	}

	g.session.Rig().Resize(state)
	if err := g.pipeline.Resize(state, g.width, g.height); err != nil {
		if render.IsPaused(err) {
			g.pipeline.Pause(err)
			return nil
		}
		return fmt.Errorf("resizing pipeline: %w", err)
	}
	return nil
}

func (g *Game) frame() render.Frame {
	rig := g.session.Rig()
	return render.Frame{
		Params:         g.session.Params(),
		View:           rig.View(),
		Projection:     rig.Projection(),
		SubpixelOffset: rig.SubpixelOffset(),
		Fireflies:      g.session.Fireflies().Lights(),
	}
}

func (g *Game) screenshot() {
	target := g.pipeline.Result()
	if target == nil {
		g.log.Warn("screenshot skipped, rendering paused")
		return
	}
	w, h := target.Size()
	path, err := g.capture.CaptureFromPixels(target.ReadPixels(), int(w), int(h), g.pipeline.State().TexelSize)
	if err != nil {
		g.log.Error("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", path))
}

// logProbe evaluates the lighting model on the CPU for the centre texel.
func (g *Game) logProbe() {
	gb := g.pipeline.GBuffer()
	if gb == nil {
		return
	}
	w, h := gb.Size()
	x, y := int(w/2), int(h/2)
	sample := gb.ReadSample(int32(x), int32(y))
	p := debug.Evaluate(sample, g.session.LightingScene(int(w), int(h)), x, y)
	g.log.Debug("probe", p.Fields()...)
}

// Close releases GPU resources before the GL context is destroyed.
func (g *Game) Close() {
	g.log.Info("closing")

	if g.pipeline != nil {
		g.pipeline.Destroy()
		g.pipeline = nil
	}
	if g.assets != nil {
		g.assets.Close()
	}
	if g.window != nil {
		g.window.Close()
		g.window = nil
	}
}
