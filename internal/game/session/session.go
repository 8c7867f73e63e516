// Package session holds the interactive state of a running demo: the
// parameter snapshot, the camera rig and the fireflies. It applies input
// intents without touching the window or the GPU.
package session

import (
	"go.uber.org/zap"

	"github.com/Faultbox/isopixel/internal/config"
	"github.com/Faultbox/isopixel/internal/engine/camera"
	"github.com/Faultbox/isopixel/internal/engine/firefly"
	"github.com/Faultbox/isopixel/internal/engine/input"
	"github.com/Faultbox/isopixel/internal/engine/lighting"
	"github.com/Faultbox/isopixel/internal/logger"
	"github.com/Faultbox/isopixel/pkg/math"
)

// MaxFrameDelta caps dt after stalls such as window drags.
const MaxFrameDelta = 0.25

// Reloader re-reads the parameter file.
type Reloader func() (config.Params, error)

// Effects are the outcomes of a batch of intents that the loop must act on.
type Effects struct {
	Quit       bool
	Screenshot bool

	// Reconfigure is set when the render resolution has to be recomputed.
	Reconfigure bool

	Resized bool
	Width   int
	Height  int
}

// Session is the mutable state between frames.
type Session struct {
	params    config.Params
	rig       *camera.Rig
	fireflies *firefly.System
	reload    Reloader
	log       *zap.Logger
}

// New creates a session starting from params. reload may be nil when no
// parameter file exists.
func New(params config.Params, seed uint64, reload Reloader) *Session {
	s := &Session{
		params:    params.Sanitize(),
		rig:       camera.NewRig(),
		fireflies: firefly.New(firefly.DefaultConfig(), config.MaxFireflies, seed),
		reload:    reload,
		log:       logger.Named("session"),
	}
	s.syncFireflies()
	return s
}

// Params returns the current snapshot.
func (s *Session) Params() config.Params { return s.params }

// Rig returns the camera rig.
func (s *Session) Rig() *camera.Rig { return s.rig }

// Fireflies returns the particle system.
func (s *Session) Fireflies() *firefly.System { return s.fireflies }

// Apply handles intents in order. Movement and rotation reach the rig
// immediately; every rotation press counts.
func (s *Session) Apply(intents []input.Intent) Effects {
	var eff Effects
	for _, in := range intents {
		switch in.Action {
		case input.ActionMoveForward:
			s.rig.Move(camera.DirForward, s.params.Camera.MoveSpeed)
		case input.ActionMoveBack:
			s.rig.Move(camera.DirBack, s.params.Camera.MoveSpeed)
		case input.ActionMoveLeft:
			s.rig.Move(camera.DirLeft, s.params.Camera.MoveSpeed)
		case input.ActionMoveRight:
			s.rig.Move(camera.DirRight, s.params.Camera.MoveSpeed)
		case input.ActionRotateLeft:
			s.rig.RotateLeft()
		case input.ActionRotateRight:
			s.rig.RotateRight()
		case input.ActionPresetSource:
			eff.Reconfigure = s.SetParams(s.params.ApplySourcePreset(), "source") || eff.Reconfigure
		case input.ActionPresetDepth:
			eff.Reconfigure = s.SetParams(s.params.ApplyDepthPreset(), "depth") || eff.Reconfigure
		case input.ActionPresetNormal:
			eff.Reconfigure = s.SetParams(s.params.ApplyNormalPreset(), "normal") || eff.Reconfigure
		case input.ActionResetParams:
			eff.Reconfigure = s.SetParams(s.params.Reset(), "reset") || eff.Reconfigure
		case input.ActionTogglePixelation:
			eff.Reconfigure = s.SetParams(s.params.TogglePixelation(), "toggle_pixelation") || eff.Reconfigure
		case input.ActionCycleBuffer:
			s.SetParams(s.params.NextBuffer(), "cycle_buffer")
		case input.ActionReloadParams:
			eff.Reconfigure = s.reloadParams() || eff.Reconfigure
		case input.ActionScreenshot:
			eff.Screenshot = true
		case input.ActionResize:
			eff.Resized = true
			eff.Width, eff.Height = in.Width, in.Height
		case input.ActionQuit:
			eff.Quit = true
			return eff
		}
	}
	return eff
}

// SetParams installs a new snapshot and reports whether the render
// resolution depends on what changed.
func (s *Session) SetParams(p config.Params, source string) bool {
	p = p.Sanitize()
	old := s.params
	s.params = p
	s.syncFireflies()

	s.log.Info("params applied",
		zap.String("source", source),
		zap.Bool("pixelation", p.Pixelation.Enabled),
		zap.Int("texel_size", p.Pixelation.TexelSize),
		zap.String("buffer", string(p.Framebuffer.SelectedBuffer)),
		zap.Int("fireflies", p.Lighting.FireflyCount))

	return old.Pixelation != p.Pixelation
}

func (s *Session) reloadParams() bool {
	if s.reload == nil {
		s.log.Warn("no parameter file to reload")
		return false
	}
	p, err := s.reload()
	if err != nil {
		s.log.Warn("reload failed, keeping current params", zap.Error(err))
		return false
	}
	return s.SetParams(p, "reload")
}

func (s *Session) syncFireflies() {
	l := s.params.Lighting
	s.fireflies.SetCount(l.FireflyCount)
	s.fireflies.SetColors(l.FireflyBaseColor, l.FireflyAltColor, l.AltPercent)
}

// Update advances the camera smoothing and the fireflies.
func (s *Session) Update(dt float32) {
	if dt > MaxFrameDelta {
		dt = MaxFrameDelta
	}
	s.rig.Update(dt, s.params.Pixelation.TileTexelWidth)
	s.fireflies.Update(dt)
}

// LightingScene builds the CPU lighting inputs matching the current frame.
func (s *Session) LightingScene(width, height int) lighting.Scene {
	l := s.params.Lighting
	return lighting.Scene{
		AmbientStrength: l.AmbientStrength,
		AmbientColor:    vec(l.AmbientColor),
		SunStrength:     l.SunStrength,
		SunColor:        vec(l.SunColor),
		SunDirection:    lighting.SunDirection(),
		Fireflies:       s.fireflies.Lights(),
		Dither: lighting.DitherParams{
			Size:   l.Dither.Size,
			Spread: l.Dither.Spread,
			Levels: l.Dither.Levels,
		},
		ViewProjection: s.rig.ViewProjection(),
		Resolution:     math.Vec2{X: float32(width), Y: float32(height)},
	}
}

func vec(c config.Color) math.Vec3 {
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}
}
