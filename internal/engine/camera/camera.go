// Package camera provides the isometric orthographic camera rig.
package camera

import (
	"go.uber.org/zap"

	"github.com/Faultbox/isopixel/internal/engine/iso"
	"github.com/Faultbox/isopixel/internal/engine/resolution"
	"github.com/Faultbox/isopixel/internal/engine/smooth"
	"github.com/Faultbox/isopixel/internal/logger"
	"github.com/Faultbox/isopixel/pkg/math"
)

// Rig defaults.
const (
	DefaultAngle = 45.0 // degrees
	RotateStep   = 90.0 // degrees per rotate action
	AngleSpeed   = 3.0  // smoother rate, 1/seconds
	Pitch        = 30.0 // degrees below the horizon
	Distance     = 15.0
	Near         = 0.01
	Far          = 50.0
)

// Direction is a movement intent relative to what the player sees.
type Direction int

const (
	DirForward Direction = iota
	DirBack
	DirLeft
	DirRight
)

// Local returns the unit vector for d in camera space at yaw 0.
func (d Direction) Local() math.Vec3 {
	switch d {
	case DirForward:
		return math.Vec3{X: 0, Y: 0, Z: -1}
	case DirBack:
		return math.Vec3{X: 0, Y: 0, Z: 1}
	case DirLeft:
		return math.Vec3{X: -1, Y: 0, Z: 0}
	case DirRight:
		return math.Vec3{X: 1, Y: 0, Z: 0}
	}
	return math.Vec3{}
}

// Rig is an orbiting orthographic camera whose target snaps to the iso texel grid.
type Rig struct {
	target math.Vec3
	angle  float32
	yaw    *smooth.Smoother[float32]

	snapper iso.Snapper
	snap    iso.Result
	forward math.Vec3

	res        resolution.State
	view       math.Mat4
	projection math.Mat4

	log *zap.Logger
}

// NewRig creates a rig at the origin facing the default angle.
func NewRig() *Rig {
	r := &Rig{
		yaw: smooth.NewScalar(DefaultAngle, AngleSpeed),
		log: logger.Named("camera"),
	}
	r.Reset()
	return r
}

// Reset returns the rig to its starting position and angle.
func (r *Rig) Reset() {
	r.target = math.Vec3{}
	r.angle = DefaultAngle
	r.yaw.Snap(DefaultAngle)
	r.forward = iso.ForwardFromYaw(DefaultAngle, Pitch)
	r.snap = iso.Result{}
	r.view = math.LookAt(r.forward.Scale(-Distance), math.Vec3{}, math.Up)
}

// Move shifts the target by speed along d, rotated into the currently
// displayed (smoothed) orientation.
func (r *Rig) Move(d Direction, speed float32) {
	delta := d.Local().RotateY(math.Radians(r.yaw.Value())).Scale(speed)
	r.target = r.target.Add(delta)
}

// RotateLeft turns the orbit by one step counter-clockwise.
// Steps accumulate; the smoother chases the latest target angle.
func (r *Rig) RotateLeft() {
	r.rotate(-RotateStep)
}

// RotateRight turns the orbit by one step clockwise.
func (r *Rig) RotateRight() {
	r.rotate(RotateStep)
}

func (r *Rig) rotate(step float32) {
	r.angle += step
	r.yaw.SetTarget(r.angle)
	r.log.Debug("orbit target changed", zap.Float32("angle", r.angle))
}

// Resize sizes the orthographic frustum to the resolution state.
func (r *Rig) Resize(res resolution.State) {
	r.res = res
	hw := res.OrthoWidth / 2
	hh := res.OrthoHeight / 2
	r.projection = math.Ortho(-hw, hw, -hh, hh, Near, Far)
	r.log.Info("frustum resized",
		zap.Float32("width", res.OrthoWidth),
		zap.Float32("height", res.OrthoHeight))
}

// Update advances the orbit smoothing by dt seconds, then snaps the target
// with the basis of the new orientation and rebuilds the view matrix.
func (r *Rig) Update(dt float32, tileTexelWidth int) {
	yaw := r.yaw.Tick(dt)
	r.forward = iso.ForwardFromYaw(yaw, Pitch)
	r.snap = r.snapper.Snap(r.target, r.forward, tileTexelWidth)

	eye := r.snap.SnappedPosition.Sub(r.forward.Scale(Distance))
	r.view = math.LookAt(eye, r.snap.SnappedPosition, math.Up)
}

// View returns the view matrix from the last Update.
func (r *Rig) View() math.Mat4 { return r.view }

// Projection returns the orthographic projection from the last Resize.
func (r *Rig) Projection() math.Mat4 { return r.projection }

// ViewProjection returns Projection * View.
func (r *Rig) ViewProjection() math.Mat4 { return r.projection.Mul(r.view) }

// SubpixelOffset returns the residual of the last snap in texels.
func (r *Rig) SubpixelOffset() math.Vec2 { return r.snap.SubpixelOffset }

// SnappedPosition returns the grid-aligned target used for rendering.
func (r *Rig) SnappedPosition() math.Vec3 { return r.snap.SnappedPosition }

// Target returns the continuous target position.
func (r *Rig) Target() math.Vec3 { return r.target }

// Angle returns the orbit target angle in degrees.
func (r *Rig) Angle() float32 { return r.angle }

// SmoothedAngle returns the displayed orbit angle in degrees.
func (r *Rig) SmoothedAngle() float32 { return r.yaw.Value() }

// Forward returns the camera view direction.
func (r *Rig) Forward() math.Vec3 { return r.forward }

// Resolution returns the state passed to the last Resize.
func (r *Rig) Resolution() resolution.State { return r.res }
