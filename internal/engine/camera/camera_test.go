package camera

import (
	"testing"

	"github.com/Faultbox/isopixel/internal/engine/iso"
	"github.com/Faultbox/isopixel/internal/engine/resolution"
	"github.com/Faultbox/isopixel/internal/logger"
	"github.com/Faultbox/isopixel/pkg/math"
)

func init() {
	logger.InitNop()
}

func near(a, b float32) bool {
	d := a - b
	return d < 1e-3 && d > -1e-3
}

func TestRotateRightTwiceAccumulates(t *testing.T) {
	r := NewRig()
	r.RotateRight()
	r.RotateRight()
	if r.Angle() != DefaultAngle+180 {
		t.Fatalf("angle = %f, want %f", r.Angle(), DefaultAngle+180.0)
	}

	const dt = 1.0 / 60
	prev := r.SmoothedAngle()
	var elapsed float32
	for r.SmoothedAngle() != r.Angle() {
		r.Update(dt, 24)
		elapsed += dt
		got := r.SmoothedAngle()
		if got < prev {
			t.Fatalf("smoothed angle went backwards: %f -> %f", prev, got)
		}
		if got > r.Angle() {
			t.Fatalf("smoothed angle overshot: %f", got)
		}
		prev = got
		if elapsed > 1 {
			t.Fatal("smoothed angle never converged")
		}
	}
	if elapsed < 0.3 {
		t.Errorf("converged too early after %f s", elapsed)
	}
}

func TestRotateLeftAndRight(t *testing.T) {
	r := NewRig()
	r.RotateLeft()
	if r.Angle() != DefaultAngle-RotateStep {
		t.Errorf("angle = %f after left", r.Angle())
	}
	r.RotateRight()
	if r.Angle() != DefaultAngle {
		t.Errorf("angle = %f after left+right", r.Angle())
	}
}

func TestMoveUsesSmoothedAngle(t *testing.T) {
	r := NewRig()
	r.Move(DirForward, 1)
	want := iso.ForwardFromYaw(DefaultAngle, 0)
	got := r.Target()
	if !near(got.X, want.X) || !near(got.Z, want.Z) || got.Y != 0 {
		t.Errorf("forward move = %+v, want %+v", got, want)
	}

	// Rotating does not change movement until the display catches up.
	r.Reset()
	r.RotateRight()
	r.Move(DirRight, 2)
	right := DirRight.Local().RotateY(math.Radians(DefaultAngle)).Scale(2)
	if got := r.Target(); !near(got.X, right.X) || !near(got.Z, right.Z) {
		t.Errorf("right move mid-rotation = %+v, want %+v", got, right)
	}
}

func TestMoveDirectionsCancel(t *testing.T) {
	r := NewRig()
	r.Move(DirForward, 0.3)
	r.Move(DirLeft, 0.3)
	r.Move(DirBack, 0.3)
	r.Move(DirRight, 0.3)
	if r.Target().Length() > 1e-5 {
		t.Errorf("target drifted to %+v", r.Target())
	}
}

func TestUpdateSnapsTarget(t *testing.T) {
	r := NewRig()
	res, err := resolution.Resolve(800, 600, 4, 32)
	if err != nil {
		t.Fatal(err)
	}
	r.Resize(res)

	r.Update(0, 32)
	if r.SubpixelOffset() != (math.Vec2{}) {
		t.Errorf("origin offset = %+v", r.SubpixelOffset())
	}

	r.Move(DirRight, 0.02)
	r.Update(0, 32)
	if r.SnappedPosition().Length() > 1e-5 {
		t.Errorf("tiny move stepped to %+v", r.SnappedPosition())
	}
	off := r.SubpixelOffset()
	if off.X == 0 {
		t.Error("expected a sideways sub-texel offset")
	}
	if off.X < -0.5 || off.X > 0.5 || off.Y < -0.5 || off.Y > 0.5 {
		t.Errorf("offset %+v out of range", off)
	}
}

func TestViewCentersSnappedTarget(t *testing.T) {
	r := NewRig()
	res, _ := resolution.Resolve(640, 480, 2, 24)
	r.Resize(res)
	r.Move(DirForward, 3.7)
	r.Move(DirLeft, 1.1)
	r.Update(1, 24)

	ndc := r.ViewProjection().Project(r.SnappedPosition())
	if !near(ndc.X, 0) || !near(ndc.Y, 0) {
		t.Errorf("snapped target projects to %+v, want screen centre", ndc)
	}
	if ndc.Z <= -1 || ndc.Z >= 1 {
		t.Errorf("snapped target depth %f outside the clip range", ndc.Z)
	}

	eye := r.View().TransformVec3(r.SnappedPosition())
	if !near(eye.Z, -Distance) {
		t.Errorf("target view depth = %f, want %f", eye.Z, -Distance)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	r := NewRig()
	r.Move(DirBack, 5)
	r.RotateLeft()
	r.Update(0.1, 24)
	r.Reset()
	if r.Target() != (math.Vec3{}) || r.Angle() != DefaultAngle || r.SmoothedAngle() != DefaultAngle {
		t.Errorf("reset left target %+v angle %f/%f", r.Target(), r.Angle(), r.SmoothedAngle())
	}
}
