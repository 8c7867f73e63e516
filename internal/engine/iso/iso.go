// Package iso snaps a continuous camera target onto the isometric texel grid.
//
// The iso basis is scaled so one unit along each axis is exactly one texel of
// screen motion: right moves one texel sideways, forward (doubled for the 2:1
// diamond) moves one texel vertically, up is scaled by 1/sqrt(3).
// There is no origin offset: iso (0,0,0) is world (0,0,0).
package iso

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/isopixel/pkg/math"
)

// minHorizontal is the shortest horizontal forward accepted as a valid yaw.
const minHorizontal = 1e-5

// DefaultForward is used until a non-degenerate forward has been seen.
var DefaultForward = math.Vec3{X: 0, Y: 0, Z: -1}

// Result is the outcome of snapping one position.
type Result struct {
	SnappedPosition math.Vec3
	// SubpixelOffset is the (right, forward) residual, each in [-0.5, 0.5].
	SubpixelOffset math.Vec2
}

// Basis maps iso coordinates to world space (columns right, forward, up).
type Basis struct {
	toWorld mgl32.Mat3
	toIso   mgl32.Mat3
}

// NewBasis builds the basis for a horizontal camera forward and tile texel width k.
// ok is false when forward has no usable horizontal component or k <= 0.
func NewBasis(forward math.Vec3, k int) (b Basis, ok bool) {
	h := forward.Horizontal()
	if h.Length() < minHorizontal || k <= 0 {
		return Basis{}, false
	}
	h = h.Normalize()

	ratio := float32(gomath.Sqrt2) / float32(k)
	right := math.Up.Cross(h).Normalize().Scale(ratio)
	fwd := h.Scale(2 * ratio)
	up := math.Up.Scale(ratio / float32(gomath.Sqrt(3)))

	m := mgl32.Mat3FromCols(toMgl(right), toMgl(fwd), toMgl(up))
	if gomath.Abs(float64(m.Det())) < 1e-12 {
		return Basis{}, false
	}
	return Basis{toWorld: m, toIso: m.Inv()}, true
}

// ForwardFromYaw returns the view direction of a camera orbiting at yawDeg
// and looking down at pitchDeg.
func ForwardFromYaw(yawDeg, pitchDeg float32) math.Vec3 {
	yaw := float64(math.Radians(yawDeg))
	pitch := float64(math.Radians(pitchDeg))
	cp := gomath.Cos(pitch)
	return math.Vec3{
		X: float32(-cp * gomath.Sin(yaw)),
		Y: float32(-gomath.Sin(pitch)),
		Z: float32(-cp * gomath.Cos(yaw)),
	}
}

// ToIso transforms a world position into iso space.
func (b Basis) ToIso(p math.Vec3) math.Vec3 {
	return fromMgl(b.toIso.Mul3x1(toMgl(p)))
}

// ToWorld transforms an iso position back into world space.
func (b Basis) ToWorld(iso math.Vec3) math.Vec3 {
	return fromMgl(b.toWorld.Mul3x1(toMgl(iso)))
}

// Snap rounds p onto the texel grid.
func (b Basis) Snap(p math.Vec3) Result {
	iso := b.ToIso(p)
	rounded := iso.Round()
	return Result{
		SnappedPosition: b.ToWorld(rounded),
		SubpixelOffset:  math.Vec2{X: iso.X - rounded.X, Y: iso.Y - rounded.Y},
	}
}

// Snapper caches the basis and rebuilds it only when forward or k changes.
type Snapper struct {
	basis   Basis
	valid   bool
	forward math.Vec3
	k       int
}

// Update rebuilds the basis if forward or k differ from the cached inputs.
// A degenerate forward keeps the previous basis. It reports whether a rebuild happened.
func (s *Snapper) Update(forward math.Vec3, k int) bool {
	if s.valid && forward == s.forward && k == s.k {
		return false
	}
	b, ok := NewBasis(forward, k)
	if !ok {
		if s.valid {
			return false
		}
		b, ok = NewBasis(DefaultForward, k)
		if !ok {
			return false
		}
	}
	s.basis = b
	s.valid = true
	s.forward = forward
	s.k = k
	return true
}

// Snap updates the basis for forward and k, then snaps p.
// Without any valid basis p is returned unchanged with zero offset.
func (s *Snapper) Snap(p, forward math.Vec3, k int) Result {
	s.Update(forward, k)
	if !s.valid {
		return Result{SnappedPosition: p}
	}
	return s.basis.Snap(p)
}

// Basis returns the cached basis and whether one has been built.
func (s *Snapper) Basis() (Basis, bool) {
	return s.basis, s.valid
}

func toMgl(v math.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl32.Vec3) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
