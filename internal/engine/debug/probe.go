package debug

import (
	"go.uber.org/zap"

	"github.com/Faultbox/isopixel/internal/engine/lighting"
	"github.com/Faultbox/isopixel/pkg/math"
)

// Probe is the CPU evaluation of the lighting model for one G-buffer texel.
type Probe struct {
	X, Y      int
	Sample    lighting.Sample
	Linear    math.Vec3
	Display   math.Vec3
	Dominant  int
	Intensity float32
}

// Evaluate shades the texel at (x, y) with the CPU lighting model.
func Evaluate(s lighting.Sample, sc lighting.Scene, x, y int) Probe {
	linear := lighting.Shade(s, sc, x, y)
	idx, atten := lighting.DominantFirefly(sc.Fireflies, s.Position, s.Normal)
	return Probe{
		X:         x,
		Y:         y,
		Sample:    s,
		Linear:    linear,
		Display:   lighting.LinearToDisplay(linear),
		Dominant:  idx,
		Intensity: atten,
	}
}

// Background reports whether the probe hit no geometry.
func (p Probe) Background() bool {
	return lighting.BackgroundGate(p.Sample.Depth) == 0
}

// Fields renders the probe as structured log fields.
func (p Probe) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("x", p.X),
		zap.Int("y", p.Y),
		zap.Float32("depth", p.Sample.Depth),
		zap.Bool("background", p.Background()),
		zap.Float32s("position", []float32{p.Sample.Position.X, p.Sample.Position.Y, p.Sample.Position.Z}),
		zap.Float32s("color", []float32{p.Display.X, p.Display.Y, p.Display.Z}),
		zap.Int("firefly", p.Dominant),
		zap.Float32("firefly_atten", p.Intensity),
	}
}
