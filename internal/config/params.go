package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxFireflies is the firefly pool capacity. The pool is allocated once with this size.
const MaxFireflies = 10

// Buffer selects which render target the resolve pass presents.
type Buffer string

const (
	BufferAlbedo   Buffer = "Albedo"
	BufferNormal   Buffer = "Normal"
	BufferPosition Buffer = "Position"
	BufferDepth    Buffer = "Depth"
	BufferResult   Buffer = "Result"
)

// Buffers lists the selectable buffers in cycling order.
var Buffers = []Buffer{BufferAlbedo, BufferNormal, BufferPosition, BufferDepth, BufferResult}

// Valid reports whether b names a known buffer.
func (b Buffer) Valid() bool {
	for _, known := range Buffers {
		if b == known {
			return true
		}
	}
	return false
}

// Color is a linear RGB triple.
// YAML accepts "#rrggbb" (sRGB, converted to linear) or a [r, g, b] list of linear values.
type Color [3]float32

// ParseHexColor decodes an sRGB "#rrggbb" string into linear RGB.
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{
		srgbToLinear(uint8(v >> 16)),
		srgbToLinear(uint8(v >> 8)),
		srgbToLinear(uint8(v)),
	}, nil
}

func srgbToLinear(c uint8) float32 {
	f := float64(c) / 255
	if f <= 0.04045 {
		return float32(f / 12.92)
	}
	return float32(math.Pow((f+0.055)/1.055, 2.4))
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseHexColor(node.Value)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case yaml.SequenceNode:
		var rgb []float32
		if err := node.Decode(&rgb); err != nil {
			return err
		}
		if len(rgb) != 3 {
			return fmt.Errorf("color: want 3 components, got %d", len(rgb))
		}
		*c = Color{rgb[0], rgb[1], rgb[2]}
		return nil
	}
	return fmt.Errorf("color: unsupported yaml node at line %d", node.Line)
}

// Params is the rendering parameter snapshot. It is passed by value into every
// per-frame call; nothing in the core mutates it.
type Params struct {
	Pixelation  PixelationParams  `yaml:"pixelation"`
	Lighting    LightingParams    `yaml:"lighting"`
	Camera      CameraParams      `yaml:"camera"`
	Grass       GrassParams       `yaml:"grass"`
	Framebuffer FramebufferParams `yaml:"framebuffer"`
}

// PixelationParams controls the low-resolution render path.
type PixelationParams struct {
	Enabled         bool `yaml:"enabled"`
	TexelSize       int  `yaml:"texel_size"`
	TileTexelWidth  int  `yaml:"tile_texel_width"`
	TileTexelHeight int  `yaml:"tile_texel_height"`
}

// LightingParams controls the deferred lighting pass.
type LightingParams struct {
	AmbientStrength  float32      `yaml:"ambient_strength"`
	AmbientColor     Color        `yaml:"ambient_color"`
	SunStrength      float32      `yaml:"sun_strength"`
	SunColor         Color        `yaml:"sun_color"`
	FireflyCount     int          `yaml:"firefly_count"`
	FireflyBaseColor Color        `yaml:"firefly_base_color"`
	FireflyAltColor  Color        `yaml:"firefly_alt_color"`
	AltPercent       float32      `yaml:"alt_percent"`
	Dither           DitherParams `yaml:"dither"`
}

// DitherParams controls the ordered dithering of firefly light.
type DitherParams struct {
	Size   int     `yaml:"size"`
	Spread float32 `yaml:"spread"`
	Levels int     `yaml:"levels"`
}

// CameraParams controls camera movement.
type CameraParams struct {
	MoveSpeed float32 `yaml:"move_speed"`
}

// GrassParams holds the terrain tint gradient.
type GrassParams struct {
	LowColor  Color `yaml:"low_color"`
	HighColor Color `yaml:"high_color"`
}

// FramebufferParams selects the presented buffer.
type FramebufferParams struct {
	SelectedBuffer Buffer `yaml:"selected_buffer"`
}

// DefaultParams returns the parameter values a fresh session starts with.
func DefaultParams() Params {
	return Params{
		Pixelation: PixelationParams{
			Enabled:         true,
			TexelSize:       4,
			TileTexelWidth:  24,
			TileTexelHeight: 4,
		},
		Lighting: LightingParams{
			AmbientStrength:  0.2,
			AmbientColor:     Color{1, 1, 1},
			SunStrength:      0.5,
			SunColor:         Color{1, 1, 1},
			FireflyCount:     MaxFireflies,
			FireflyBaseColor: Color{1, 0.74, 0.23},
			FireflyAltColor:  Color{0.35, 0.85, 1},
			AltPercent:       0.3,
			Dither: DitherParams{
				Size:   1,
				Spread: 0.05,
				Levels: 7,
			},
		},
		Camera: CameraParams{
			MoveSpeed: 0.05,
		},
		Grass: GrassParams{
			LowColor:  Color{0.184314, 0.282353, 0.192157},
			HighColor: Color{0.52549, 0.717647, 0.396078},
		},
		Framebuffer: FramebufferParams{
			SelectedBuffer: BufferResult,
		},
	}
}

// Sanitize clamps every field into its supported range.
func (p Params) Sanitize() Params {
	p.Pixelation.TexelSize = clampInt(p.Pixelation.TexelSize, 1, 32)
	p.Pixelation.TileTexelWidth = clampInt(p.Pixelation.TileTexelWidth, 1, 256)
	p.Pixelation.TileTexelHeight = clampInt(p.Pixelation.TileTexelHeight, 1, 256)

	// NaN passes every comparison, so it falls back to the default first.
	def := DefaultParams()
	l, dl := &p.Lighting, def.Lighting
	l.AmbientStrength = clamp01(orDefault(l.AmbientStrength, dl.AmbientStrength))
	l.AmbientColor = l.AmbientColor.orDefault(dl.AmbientColor)
	l.SunStrength = clamp01(orDefault(l.SunStrength, dl.SunStrength))
	l.SunColor = l.SunColor.orDefault(dl.SunColor)
	l.FireflyCount = clampInt(l.FireflyCount, 0, MaxFireflies)
	l.FireflyBaseColor = l.FireflyBaseColor.orDefault(dl.FireflyBaseColor)
	l.FireflyAltColor = l.FireflyAltColor.orDefault(dl.FireflyAltColor)
	l.AltPercent = clamp01(orDefault(l.AltPercent, dl.AltPercent))
	l.Dither.Size = clampInt(l.Dither.Size, 1, 4)
	l.Dither.Spread = clamp01(orDefault(l.Dither.Spread, dl.Dither.Spread))
	l.Dither.Levels = clampInt(l.Dither.Levels, 1, 16)

	p.Grass.LowColor = p.Grass.LowColor.orDefault(def.Grass.LowColor)
	p.Grass.HighColor = p.Grass.HighColor.orDefault(def.Grass.HighColor)

	p.Camera.MoveSpeed = orDefault(p.Camera.MoveSpeed, def.Camera.MoveSpeed)
	if p.Camera.MoveSpeed < 0.01 {
		p.Camera.MoveSpeed = 0.01
	}
	if p.Camera.MoveSpeed > 2 {
		p.Camera.MoveSpeed = 2
	}

	if !p.Framebuffer.SelectedBuffer.Valid() {
		p.Framebuffer.SelectedBuffer = BufferResult
	}
	return p
}

// ApplySourcePreset shows the raw albedo at display resolution.
func (p Params) ApplySourcePreset() Params {
	p.Pixelation.Enabled = false
	p.Framebuffer.SelectedBuffer = BufferAlbedo
	return p
}

// ApplyDepthPreset presents the depth buffer.
func (p Params) ApplyDepthPreset() Params {
	p.Framebuffer.SelectedBuffer = BufferDepth
	return p
}

// ApplyNormalPreset presents the normal buffer.
func (p Params) ApplyNormalPreset() Params {
	p.Framebuffer.SelectedBuffer = BufferNormal
	return p
}

// Reset returns the defaults.
func (p Params) Reset() Params {
	return DefaultParams()
}

// TogglePixelation flips the low-resolution path on or off.
func (p Params) TogglePixelation() Params {
	p.Pixelation.Enabled = !p.Pixelation.Enabled
	return p
}

// NextBuffer advances the presented buffer in Buffers order.
func (p Params) NextBuffer() Params {
	for i, b := range Buffers {
		if b == p.Framebuffer.SelectedBuffer {
			p.Framebuffer.SelectedBuffer = Buffers[(i+1)%len(Buffers)]
			return p
		}
	}
	p.Framebuffer.SelectedBuffer = BufferResult
	return p
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func orDefault(v, def float32) float32 {
	if math.IsNaN(float64(v)) {
		return def
	}
	return v
}

func (c Color) orDefault(def Color) Color {
	for i := range c {
		c[i] = orDefault(c[i], def[i])
	}
	return c
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
