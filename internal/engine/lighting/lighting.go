// Package lighting mirrors the deferred lighting shader on the CPU and
// prepares light data for GPU upload.
//
// The GLSL in the render package and the functions here must agree; the
// debug probe compares both for the pixel under the screen centre.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/isopixel/pkg/math"
)

// FireflyFalloff is k in the 1/(1 + k*d²) attenuation.
const FireflyFalloff = 0.25

// MarkerRadius is the screen-space radius in pixels of a firefly marker.
const MarkerRadius = 2.0

// Firefly is a point light as the lighting pass sees it.
type Firefly struct {
	Position math.Vec3
	Color    [3]float32
	Strength float32
}

// Sample is one decoded G-buffer texel.
type Sample struct {
	Albedo   math.Vec3
	Normal   math.Vec3 // unit, already decoded from [0,1]
	Position math.Vec3
	Depth    float32
}

// Scene holds the per-frame lighting inputs.
type Scene struct {
	AmbientStrength float32
	AmbientColor    math.Vec3
	SunStrength     float32
	SunColor        math.Vec3
	SunDirection    math.Vec3
	Fireflies       []Firefly
	Dither          DitherParams

	ViewProjection math.Mat4
	Resolution     math.Vec2 // lighting target size in pixels
}

// SunDirection returns the default direction towards the sun.
func SunDirection() math.Vec3 {
	return math.Vec3{X: 1, Y: 2, Z: 1}.Normalize()
}

// DecodeNormal maps a stored [0,1] normal back to [-1,1].
func DecodeNormal(stored math.Vec3) math.Vec3 {
	return stored.Scale(2).Sub(math.Vec3{X: 1, Y: 1, Z: 1})
}

// EncodeNormal maps a unit normal into [0,1] for storage.
func EncodeNormal(n math.Vec3) math.Vec3 {
	return n.Scale(0.5).Add(math.Vec3{X: 0.5, Y: 0.5, Z: 0.5})
}

// Ambient returns the ambient term; background texels (depth at the far
// plane) receive none.
func Ambient(strength float32, color, albedo math.Vec3, depth float32) math.Vec3 {
	return mul(color, albedo).Scale(strength * BackgroundGate(depth))
}

// BackgroundGate is 0 where depth sits on the cleared far plane and 1 on geometry.
func BackgroundGate(depth float32) float32 {
	if depth >= 0.9999 {
		return 0
	}
	return 1
}

// Directional returns the sun term.
func Directional(strength float32, color, dir, albedo, normal math.Vec3) math.Vec3 {
	ndotl := max(normal.Dot(dir), 0)
	return mul(albedo, color).Scale(strength * ndotl)
}

// FireflyAttenuation returns the unquantized contribution weight of f at a
// surface point with the given normal.
func FireflyAttenuation(f Firefly, position, normal math.Vec3) float32 {
	toLight := f.Position.Sub(position)
	d := toLight.Length()
	ndotl := max(normal.Dot(toLight.Normalize()), 0)
	return 1 / (1 + FireflyFalloff*d*d) * ndotl * f.Strength
}

// DominantFirefly returns the index and attenuation of the strongest
// firefly at a surface point. Contributions are not summed. idx is -1 when
// no firefly reaches the point.
func DominantFirefly(fireflies []Firefly, position, normal math.Vec3) (idx int, atten float32) {
	idx = -1
	for i, f := range fireflies {
		a := FireflyAttenuation(f, position, normal)
		if a > atten {
			idx, atten = i, a
		}
	}
	return idx, atten
}

// Marker returns the blend weight and colour of the firefly disc covering
// pixel (px, py). Later fireflies win where discs overlap.
func Marker(fireflies []Firefly, viewProj math.Mat4, resolution math.Vec2, px, py int) (float32, math.Vec3) {
	var mask float32
	color := math.Vec3{X: 1, Y: 1, Z: 1}
	frag := math.Vec2{X: float32(px) + 0.5, Y: float32(py) + 0.5}
	for _, f := range fireflies {
		ndc := viewProj.Project(f.Position)
		screen := math.Vec2{
			X: (ndc.X*0.5 + 0.5) * resolution.X,
			Y: (ndc.Y*0.5 + 0.5) * resolution.Y,
		}
		dist := screen.Sub(frag).Length()
		if dist <= MarkerRadius {
			mask = Smoothstep(1.5, 0, dist) * f.Strength
			color = vec(f.Color)
		}
	}
	return mask, color
}

// Shade evaluates the full lighting model for one texel at pixel (px, py).
func Shade(s Sample, sc Scene, px, py int) math.Vec3 {
	total := Ambient(sc.AmbientStrength, sc.AmbientColor, s.Albedo, s.Depth).
		Add(Directional(sc.SunStrength, sc.SunColor, sc.SunDirection, s.Albedo, s.Normal))

	var particle math.Vec3
	if idx, atten := DominantFirefly(sc.Fireflies, s.Position, s.Normal); idx >= 0 {
		atten = Quantize(Dither(px, py, atten, sc.Dither), sc.Dither.Levels)
		diffuse := mul(s.Albedo, vec(sc.Fireflies[idx].Color))
		particle = mul(s.Albedo, diffuse).Scale(atten)
	}

	mask, markerColor := Marker(sc.Fireflies, sc.ViewProjection, sc.Resolution, px, py)
	return total.Add(particle).Lerp(markerColor, mask)
}

// Smoothstep is the GLSL smoothstep, including reversed edges.
func Smoothstep(edge0, edge1, x float32) float32 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := math.Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// LinearToDisplay applies the resolve pass transfer curve.
func LinearToDisplay(c math.Vec3) math.Vec3 {
	return math.Vec3{X: gamma(c.X), Y: gamma(c.Y), Z: gamma(c.Z)}
}

func gamma(v float32) float32 {
	if v <= 0 {
		return 0
	}
	return float32(gomath.Pow(float64(v), 1/2.2))
}

func mul(a, b math.Vec3) math.Vec3 {
	return math.Vec3{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

func vec(c [3]float32) math.Vec3 {
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}
}
