// Package plan decides per-frame render sizes and pass order without
// touching the GPU.
package plan

import (
	"github.com/Faultbox/isopixel/internal/config"
	"github.com/Faultbox/isopixel/internal/engine/resolution"
	"github.com/Faultbox/isopixel/pkg/math"
)

// Pass orders the deferred pipeline stages.
type Pass int

const (
	PassGeometry Pass = iota
	PassLighting
	PassResolve
)

// Order is the sequence every frame runs in.
var Order = [...]Pass{PassGeometry, PassLighting, PassResolve}

func (p Pass) String() string {
	switch p {
	case PassGeometry:
		return "geometry"
	case PassLighting:
		return "lighting"
	case PassResolve:
		return "resolve"
	}
	return "unknown"
}

// Resolve picks the render resolution for a viewport. With pixelation off
// the scene renders at the viewport size directly.
func Resolve(viewportW, viewportH int, px config.PixelationParams) (resolution.State, error) {
	if px.Enabled {
		return resolution.Resolve(viewportW, viewportH, px.TexelSize, px.TileTexelWidth)
	}
	return resolution.Direct(viewportW, viewportH, px.TexelSize, px.TileTexelWidth)
}

// Viewport is a rectangle of the default framebuffer in pixels.
type Viewport struct {
	X, Y, Width, Height int
}

// CenteredViewport places the display-size image in the middle of the window.
// The display size never exceeds the window, the remainder is letterboxed.
func CenteredViewport(windowW, windowH int, s resolution.State) Viewport {
	return Viewport{
		X:      (windowW - s.DisplayWidth) / 2,
		Y:      (windowH - s.DisplayHeight) / 2,
		Width:  s.DisplayWidth,
		Height: s.DisplayHeight,
	}
}

// UVOffset is the resolve pass sampling shift. It is zero when pixelation is off.
func UVOffset(s resolution.State, pixelated bool, subpixel math.Vec2) math.Vec2 {
	if !pixelated {
		return math.Vec2{}
	}
	return s.UVOffset(subpixel)
}

// Source identifies what the resolve pass samples.
type Source int

const (
	SourceResult Source = iota
	SourceAlbedo
	SourceNormal
	SourcePosition
	SourceDepth
)

// SourceFor maps the selected buffer to a resolve source.
func SourceFor(b config.Buffer) Source {
	switch b {
	case config.BufferAlbedo:
		return SourceAlbedo
	case config.BufferNormal:
		return SourceNormal
	case config.BufferPosition:
		return SourcePosition
	case config.BufferDepth:
		return SourceDepth
	}
	return SourceResult
}

// GammaCorrected reports whether the source holds linear colour that needs
// the display transfer curve. Debug data buffers are shown raw.
func (s Source) GammaCorrected() bool {
	return s == SourceResult || s == SourceAlbedo
}

// NeedsLighting reports whether the lighting pass output is visible.
func (s Source) NeedsLighting() bool {
	return s == SourceResult
}
