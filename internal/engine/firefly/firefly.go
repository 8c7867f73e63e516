// Package firefly animates a fixed pool of drifting point lights.
package firefly

import (
	gomath "math"
	"math/rand/v2"

	"github.com/ojrac/opensimplex-go"
	"go.uber.org/zap"

	"github.com/Faultbox/isopixel/internal/engine/lighting"
	"github.com/Faultbox/isopixel/internal/logger"
	"github.com/Faultbox/isopixel/pkg/math"
)

// Disabled marks a slot whose lifetime does not advance.
const Disabled float32 = -1

// Config holds the motion and lifecycle constants.
type Config struct {
	Min, Max   math.Vec3 // spawn volume
	Lifetime   float32   // seconds before respawn
	FadeIn     float32
	FadeOut    float32
	Excursion  float32 // per-axis drift limit around the spawn point
	NoiseScale float32
	SpeedCap   float32
}

// DefaultConfig returns the constants used by the demo scene.
func DefaultConfig() Config {
	return Config{
		Min:        math.Vec3{X: -5, Y: 0.5, Z: -5},
		Max:        math.Vec3{X: 5, Y: 1.5, Z: 5},
		Lifetime:   6,
		FadeIn:     1,
		FadeOut:    2,
		Excursion:  2,
		NoiseScale: 0.01,
		SpeedCap:   1,
	}
}

// Particle is one pooled firefly.
type Particle struct {
	Spawn     math.Vec3
	Position  math.Vec3
	Velocity  math.Vec3
	Strength  float32 // 0..1
	Lifetime  float32 // seconds since spawn, or Disabled
	Color     [3]float32
	NoiseSeed float32
}

// System owns the pool. Its capacity is fixed at construction.
type System struct {
	cfg   Config
	pool  []Particle
	count int
	time  float32

	base, alt  [3]float32
	altPercent float32

	rng   *rand.Rand
	noise opensimplex.Noise32
	log   *zap.Logger
}

// New creates a system with capacity slots, all disabled until SetCount.
func New(cfg Config, capacity int, seed uint64) *System {
	if capacity < 0 {
		capacity = 0
	}
	s := &System{
		cfg:   cfg,
		pool:  make([]Particle, capacity),
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		noise: opensimplex.NewNormalized32(int64(seed)),
		log:   logger.Named("fireflies"),
	}
	for i := range s.pool {
		s.pool[i].Lifetime = Disabled
	}
	return s
}

// Capacity returns the pool size.
func (s *System) Capacity() int { return len(s.pool) }

// Count returns the number of visible fireflies.
func (s *System) Count() int { return s.count }

// Particles returns the pool. Callers must not modify it.
func (s *System) Particles() []Particle { return s.pool }

// SetCount sets how many fireflies are visible, clamped to the capacity.
// Newly enabled slots spawn at a random point with a random age.
func (s *System) SetCount(n int) {
	if n < 0 {
		n = 0
	}
	if n > len(s.pool) {
		n = len(s.pool)
	}
	if n == s.count {
		return
	}
	for i := 0; i < n; i++ {
		p := &s.pool[i]
		if p.Lifetime != Disabled {
			continue
		}
		pos := s.randomPoint()
		age := s.rng.Float32() * s.cfg.Lifetime
		*p = Particle{
			Spawn:     pos,
			Position:  pos,
			Velocity:  s.randomVelocity(),
			Strength:  strengthAt(age, s.cfg),
			Lifetime:  age,
			NoiseSeed: s.rng.Float32() * 1000,
		}
	}
	s.count = n
	s.applyVisibility()
	s.applyColors()
	s.log.Info("firefly count changed", zap.Int("count", n))
}

// SetColors assigns alt to the slots whose (index+1)/count falls below
// altPercent and base to the rest.
func (s *System) SetColors(base, alt [3]float32, altPercent float32) {
	s.base, s.alt, s.altPercent = base, alt, altPercent
	s.applyColors()
}

func (s *System) applyColors() {
	for i := range s.pool {
		s.pool[i].Color = ColorFor(i, s.count, s.base, s.alt, s.altPercent)
	}
}

func (s *System) applyVisibility() {
	for i := s.count; i < len(s.pool); i++ {
		s.pool[i].Strength = 0
	}
}

// ColorFor returns the bucket colour of slot idx out of total.
func ColorFor(idx, total int, base, alt [3]float32, altPercent float32) [3]float32 {
	if total <= 0 {
		return base
	}
	if float32(idx+1)/float32(total) < altPercent {
		return alt
	}
	return base
}

// Update advances every slot by dt seconds.
func (s *System) Update(dt float32) {
	if dt <= 0 {
		return
	}
	s.time += dt
	for i := range s.pool {
		s.step(i, dt)
	}
	s.applyVisibility()
}

func (s *System) step(idx int, dt float32) {
	p := &s.pool[idx]
	cfg := s.cfg

	x := float32(idx) * 0.1
	p.Velocity.X += (s.noise.Eval3(x, s.time*0.2, p.NoiseSeed) - 0.5) * cfg.NoiseScale * dt
	p.Velocity.Y += (s.noise.Eval3(x, s.time*0.3, p.NoiseSeed) - 0.5) * cfg.NoiseScale * dt
	p.Velocity.Z += (s.noise.Eval3(x, s.time*0.4, p.NoiseSeed) - 0.5) * cfg.NoiseScale * dt
	p.Velocity = p.Velocity.ClampLength(cfg.SpeedCap)

	p.Position = p.Position.Add(p.Velocity.Scale(dt))
	p.Position.X, p.Velocity.X = reflect(p.Position.X, p.Velocity.X, p.Spawn.X, cfg.Excursion)
	p.Position.Y, p.Velocity.Y = reflect(p.Position.Y, p.Velocity.Y, p.Spawn.Y, cfg.Excursion)
	p.Position.Z, p.Velocity.Z = reflect(p.Position.Z, p.Velocity.Z, p.Spawn.Z, cfg.Excursion)

	if p.Lifetime == Disabled {
		return
	}
	p.Lifetime += dt
	if p.Lifetime > cfg.Lifetime {
		pos := s.randomPoint()
		p.Spawn = pos
		p.Position = pos
		p.Lifetime = 0
	}
	p.Strength = strengthAt(p.Lifetime, cfg)
}

// reflect bounces pos back inside spawn±limit and points vel inward.
func reflect(pos, vel, spawn, limit float32) (float32, float32) {
	d := pos - spawn
	switch {
	case d > limit:
		over := float32(gomath.Min(float64(d-limit), float64(2*limit)))
		return spawn + limit - over, -float32(gomath.Abs(float64(vel)))
	case d < -limit:
		over := float32(gomath.Min(float64(-limit-d), float64(2*limit)))
		return spawn - limit + over, float32(gomath.Abs(float64(vel)))
	}
	return pos, vel
}

// strengthAt ramps in over FadeIn and out over the last FadeOut seconds.
func strengthAt(lifetime float32, cfg Config) float32 {
	strength := float32(1)
	if cfg.FadeIn > 0 && lifetime < cfg.FadeIn {
		strength = lifetime / cfg.FadeIn
	}
	if cfg.FadeOut > 0 && lifetime > cfg.Lifetime-cfg.FadeOut {
		strength = (cfg.Lifetime - lifetime) / cfg.FadeOut
	}
	return math.Clamp(strength, 0, 1)
}

// Lights returns the visible fireflies in GPU order.
func (s *System) Lights() []lighting.Firefly {
	out := make([]lighting.Firefly, s.count)
	for i := range out {
		p := s.pool[i]
		out[i] = lighting.Firefly{
			Position: p.Position,
			Color:    p.Color,
			Strength: p.Strength,
		}
	}
	return out
}

func (s *System) randomPoint() math.Vec3 {
	lo, hi := s.cfg.Min, s.cfg.Max
	return math.Vec3{
		X: math.Lerp(lo.X, hi.X, s.rng.Float32()),
		Y: math.Lerp(lo.Y, hi.Y, s.rng.Float32()),
		Z: math.Lerp(lo.Z, hi.Z, s.rng.Float32()),
	}
}

func (s *System) randomVelocity() math.Vec3 {
	return math.Vec3{
		X: s.rng.Float32() - 0.5,
		Y: s.rng.Float32() - 0.5,
		Z: s.rng.Float32() - 0.5,
	}
}
