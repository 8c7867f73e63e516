package config

import (
	"math"
	"testing"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ffffff", Color{1, 1, 1}},
		{"#000000", Color{0, 0, 0}},
		{"ff0000", Color{1, 0, 0}},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if err != nil {
			t.Fatalf("ParseHexColor(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	// Mid grey decodes to linear, well below 0.5.
	grey, err := ParseHexColor("#808080")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(float64(grey[0])-0.2158) > 0.001 {
		t.Errorf("#808080 red = %f, want ~0.2158", grey[0])
	}

	for _, bad := range []string{"#fff", "#gggggg", ""} {
		if _, err := ParseHexColor(bad); err == nil {
			t.Errorf("ParseHexColor(%q) should fail", bad)
		}
	}
}

func TestSanitizeClamps(t *testing.T) {
	p := DefaultParams()
	p.Pixelation.TexelSize = 0
	p.Pixelation.TileTexelWidth = -3
	p.Lighting.AmbientStrength = 2
	p.Lighting.SunStrength = -1
	p.Lighting.FireflyCount = MaxFireflies + 5
	p.Lighting.AltPercent = 1.5
	p.Lighting.Dither = DitherParams{Size: 9, Spread: -0.2, Levels: 40}
	p.Camera.MoveSpeed = 0
	p.Framebuffer.SelectedBuffer = "Bogus"

	s := p.Sanitize()
	if s.Pixelation.TexelSize != 1 || s.Pixelation.TileTexelWidth != 1 {
		t.Errorf("pixelation not clamped: %+v", s.Pixelation)
	}
	if s.Lighting.AmbientStrength != 1 || s.Lighting.SunStrength != 0 {
		t.Errorf("strengths not clamped: %+v", s.Lighting)
	}
	if s.Lighting.FireflyCount != MaxFireflies {
		t.Errorf("firefly count = %d, want %d", s.Lighting.FireflyCount, MaxFireflies)
	}
	if s.Lighting.AltPercent != 1 {
		t.Errorf("alt percent = %f, want 1", s.Lighting.AltPercent)
	}
	if s.Lighting.Dither != (DitherParams{Size: 4, Spread: 0, Levels: 16}) {
		t.Errorf("dither not clamped: %+v", s.Lighting.Dither)
	}
	if s.Camera.MoveSpeed != 0.01 {
		t.Errorf("move speed = %f, want 0.01", s.Camera.MoveSpeed)
	}
	if s.Framebuffer.SelectedBuffer != BufferResult {
		t.Errorf("buffer = %s, want Result", s.Framebuffer.SelectedBuffer)
	}
}

func TestSanitizeReplacesNaN(t *testing.T) {
	nan := float32(math.NaN())
	def := DefaultParams()
	tests := []struct {
		name string
		set  func(*Params)
		get  func(Params) float32
		want float32
	}{
		{"ambient strength", func(p *Params) { p.Lighting.AmbientStrength = nan },
			func(p Params) float32 { return p.Lighting.AmbientStrength }, def.Lighting.AmbientStrength},
		{"sun strength", func(p *Params) { p.Lighting.SunStrength = nan },
			func(p Params) float32 { return p.Lighting.SunStrength }, def.Lighting.SunStrength},
		{"alt percent", func(p *Params) { p.Lighting.AltPercent = nan },
			func(p Params) float32 { return p.Lighting.AltPercent }, def.Lighting.AltPercent},
		{"dither spread", func(p *Params) { p.Lighting.Dither.Spread = nan },
			func(p Params) float32 { return p.Lighting.Dither.Spread }, def.Lighting.Dither.Spread},
		{"move speed", func(p *Params) { p.Camera.MoveSpeed = nan },
			func(p Params) float32 { return p.Camera.MoveSpeed }, def.Camera.MoveSpeed},
		{"sun color green", func(p *Params) { p.Lighting.SunColor[1] = nan },
			func(p Params) float32 { return p.Lighting.SunColor[1] }, def.Lighting.SunColor[1]},
		{"firefly alt color blue", func(p *Params) { p.Lighting.FireflyAltColor[2] = nan },
			func(p Params) float32 { return p.Lighting.FireflyAltColor[2] }, def.Lighting.FireflyAltColor[2]},
		{"grass low color red", func(p *Params) { p.Grass.LowColor[0] = nan },
			func(p Params) float32 { return p.Grass.LowColor[0] }, def.Grass.LowColor[0]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.set(&p)
			if got := tt.get(p.Sanitize()); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	// Infinities are finite after clamping.
	p := DefaultParams()
	p.Lighting.SunStrength = float32(math.Inf(1))
	p.Camera.MoveSpeed = float32(math.Inf(-1))
	s := p.Sanitize()
	if s.Lighting.SunStrength != 1 || s.Camera.MoveSpeed != 0.01 {
		t.Errorf("infinities not clamped: sun %v, speed %v", s.Lighting.SunStrength, s.Camera.MoveSpeed)
	}
}

func TestPresets(t *testing.T) {
	base := DefaultParams()

	src := base.ApplySourcePreset()
	if src.Pixelation.Enabled || src.Framebuffer.SelectedBuffer != BufferAlbedo {
		t.Errorf("source preset: %+v %+v", src.Pixelation, src.Framebuffer)
	}
	if !base.Pixelation.Enabled {
		t.Error("presets must not mutate the receiver")
	}

	if got := base.ApplyDepthPreset().Framebuffer.SelectedBuffer; got != BufferDepth {
		t.Errorf("depth preset selected %s", got)
	}
	if got := base.ApplyNormalPreset().Framebuffer.SelectedBuffer; got != BufferNormal {
		t.Errorf("normal preset selected %s", got)
	}
	if got := src.Reset(); got != DefaultParams() {
		t.Errorf("reset should restore defaults, got %+v", got)
	}
}

func TestNextBufferCycles(t *testing.T) {
	p := DefaultParams()
	seen := map[Buffer]bool{}
	for range Buffers {
		p = p.NextBuffer()
		seen[p.Framebuffer.SelectedBuffer] = true
	}
	if len(seen) != len(Buffers) {
		t.Errorf("cycling visited %d buffers, want %d", len(seen), len(Buffers))
	}
	if p.Framebuffer.SelectedBuffer != BufferResult {
		t.Errorf("full cycle should return to Result, got %s", p.Framebuffer.SelectedBuffer)
	}
}

func TestTogglePixelation(t *testing.T) {
	p := DefaultParams()
	if p.TogglePixelation().Pixelation.Enabled == p.Pixelation.Enabled {
		t.Error("toggle did not flip pixelation")
	}
}
