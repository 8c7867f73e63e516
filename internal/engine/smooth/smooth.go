// Package smooth animates discrete value changes over time.
package smooth

import "github.com/Faultbox/isopixel/pkg/math"

// LerpFunc interpolates between a and b by t in [0, 1].
type LerpFunc[T any] func(a, b T, t float32) T

// Smoother moves its output linearly from the value shown at the last
// retarget to the current target. speed is a rate: the move completes after
// 1/speed seconds.
type Smoother[T comparable] struct {
	lerp    LerpFunc[T]
	speed   float32
	start   T
	target  T
	value   T
	elapsed float32
}

// New returns a smoother resting at initial.
func New[T comparable](initial T, speed float32, lerp LerpFunc[T]) *Smoother[T] {
	return &Smoother[T]{
		lerp:   lerp,
		speed:  speed,
		start:  initial,
		target: initial,
		value:  initial,
	}
}

// NewScalar returns a float32 smoother.
func NewScalar(initial, speed float32) *Smoother[float32] {
	return New(initial, speed, math.Lerp)
}

// NewVec3 returns a vector smoother.
func NewVec3(initial math.Vec3, speed float32) *Smoother[math.Vec3] {
	return New(initial, speed, math.Vec3.Lerp)
}

// SetTarget starts a move from the current output towards v.
// Setting the same target again does not restart the move.
func (s *Smoother[T]) SetTarget(v T) {
	if v == s.target {
		return
	}
	s.start = s.value
	s.target = v
	s.elapsed = 0
}

// Tick advances time by dt seconds and returns the new output.
func (s *Smoother[T]) Tick(dt float32) T {
	if dt > 0 {
		s.elapsed += dt
	}
	t := s.elapsed * s.speed
	if t >= 1 || s.speed <= 0 {
		s.value = s.target
	} else {
		s.value = s.lerp(s.start, s.target, t)
	}
	return s.value
}

// Snap jumps straight to v with no animation.
func (s *Smoother[T]) Snap(v T) {
	s.start = v
	s.target = v
	s.value = v
	s.elapsed = 0
}

// Value returns the last output.
func (s *Smoother[T]) Value() T { return s.value }

// Target returns the value being approached.
func (s *Smoother[T]) Target() T { return s.target }

// Converged reports whether the output has reached the target.
func (s *Smoother[T]) Converged() bool { return s.value == s.target }
