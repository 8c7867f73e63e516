package firefly

import (
	"testing"

	"github.com/Faultbox/isopixel/internal/logger"
)

func init() {
	logger.InitNop()
}

func newSystem(count int) *System {
	s := New(DefaultConfig(), 10, 42)
	s.SetCount(count)
	return s
}

func TestExcursionAndStrengthBounds(t *testing.T) {
	s := newSystem(10)
	cfg := DefaultConfig()
	const dt = 1.0 / 30

	for tick := 0; tick < 3000; tick++ {
		s.Update(dt)
		for i, p := range s.Particles() {
			d := p.Position.Sub(p.Spawn)
			if abs(d.X) > cfg.Excursion+1e-4 || abs(d.Y) > cfg.Excursion+1e-4 || abs(d.Z) > cfg.Excursion+1e-4 {
				t.Fatalf("tick %d firefly %d drifted %+v from spawn", tick, i, d)
			}
			if p.Strength < 0 || p.Strength > 1 {
				t.Fatalf("tick %d firefly %d strength %f", tick, i, p.Strength)
			}
			if p.Velocity.Length() > cfg.SpeedCap+1e-4 {
				t.Fatalf("tick %d firefly %d speed %f", tick, i, p.Velocity.Length())
			}
		}
	}
}

func TestLifetimeWraps(t *testing.T) {
	s := newSystem(3)
	cfg := DefaultConfig()
	const dt = 0.1

	wrapped := 0
	for tick := 0; tick < 200; tick++ {
		before := make([]float32, 3)
		for i := range before {
			before[i] = s.Particles()[i].Lifetime
		}
		s.Update(dt)
		for i := range before {
			p := s.Particles()[i]
			if p.Lifetime < before[i] {
				wrapped++
				if p.Lifetime < 0 || p.Lifetime >= dt {
					t.Fatalf("lifetime after wrap = %f, want [0, %f)", p.Lifetime, dt)
				}
				if p.Position != p.Spawn {
					t.Fatal("respawn should place the firefly on its new spawn point")
				}
				if p.Strength != 0 {
					t.Errorf("respawned strength = %f, want 0", p.Strength)
				}
			}
			if p.Lifetime > cfg.Lifetime {
				t.Fatalf("lifetime %f exceeds max", p.Lifetime)
			}
			in := p.Spawn
			if in.X < cfg.Min.X || in.X > cfg.Max.X || in.Y < cfg.Min.Y || in.Y > cfg.Max.Y || in.Z < cfg.Min.Z || in.Z > cfg.Max.Z {
				t.Fatalf("spawn %+v outside bounds", in)
			}
		}
	}
	if wrapped == 0 {
		t.Error("no firefly respawned in 20 s")
	}
}

func TestStrengthAt(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		lifetime float32
		want     float32
	}{
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{3, 1},
		{4, 1},
		{5, 0.5},
		{6, 0},
		{6.5, 0},
	}
	for _, tt := range tests {
		if got := strengthAt(tt.lifetime, cfg); abs(got-tt.want) > 1e-5 {
			t.Errorf("strengthAt(%f) = %f, want %f", tt.lifetime, got, tt.want)
		}
	}
}

func TestSetCountClampsAndHides(t *testing.T) {
	s := newSystem(25)
	if s.Count() != 10 {
		t.Fatalf("count = %d, want capacity 10", s.Count())
	}
	if len(s.Particles()) != 10 {
		t.Fatal("pool must never grow")
	}

	s.SetCount(4)
	s.Update(0.016)
	for i, p := range s.Particles() {
		if i >= 4 && p.Strength != 0 {
			t.Errorf("slot %d beyond count has strength %f", i, p.Strength)
		}
	}
	if got := len(s.Lights()); got != 4 {
		t.Errorf("Lights() returned %d, want 4", got)
	}

	s.SetCount(-3)
	if s.Count() != 0 || len(s.Lights()) != 0 {
		t.Errorf("negative count not clamped: %d", s.Count())
	}
}

func TestUnspawnedSlotsStayDisabled(t *testing.T) {
	s := newSystem(2)
	s.Update(1)
	for i, p := range s.Particles()[2:] {
		if p.Lifetime != Disabled || p.Strength != 0 {
			t.Errorf("slot %d: lifetime %f strength %f", i+2, p.Lifetime, p.Strength)
		}
	}
}

func TestColorFor(t *testing.T) {
	base := [3]float32{1, 0, 0}
	alt := [3]float32{0, 0, 1}
	tests := []struct {
		idx, total int
		pct        float32
		want       [3]float32
	}{
		{0, 10, 0.3, alt},  // 0.1 < 0.3
		{1, 10, 0.3, alt},  // 0.2 < 0.3
		{2, 10, 0.3, base}, // 0.3 is not < 0.3
		{9, 10, 0.3, base},
		{0, 10, 0, base},
		{9, 10, 1.01, alt},
		{0, 0, 1, base},
	}
	for _, tt := range tests {
		if got := ColorFor(tt.idx, tt.total, base, alt, tt.pct); got != tt.want {
			t.Errorf("ColorFor(%d, %d, %f) = %v, want %v", tt.idx, tt.total, tt.pct, got, tt.want)
		}
	}
}

func TestSetColors(t *testing.T) {
	s := newSystem(10)
	base := [3]float32{1, 1, 0}
	alt := [3]float32{0, 1, 1}
	s.SetColors(base, alt, 0.5)
	lights := s.Lights()
	alts := 0
	for _, l := range lights {
		if l.Color == alt {
			alts++
		}
	}
	if alts != 4 {
		t.Errorf("alt-coloured fireflies = %d, want 4", alts)
	}
}

func TestDeterministicWithSeed(t *testing.T) {
	a := newSystem(5)
	b := newSystem(5)
	for i := 0; i < 100; i++ {
		a.Update(0.05)
		b.Update(0.05)
	}
	for i := range a.Particles() {
		if a.Particles()[i] != b.Particles()[i] {
			t.Fatalf("firefly %d diverged with the same seed", i)
		}
	}
}

func TestReflect(t *testing.T) {
	pos, vel := reflect(2.5, 1, 0, 2)
	if abs(pos-1.5) > 1e-6 || vel != -1 {
		t.Errorf("reflect high = (%f, %f)", pos, vel)
	}
	pos, vel = reflect(-2.25, -0.5, 0, 2)
	if abs(pos+1.75) > 1e-6 || vel != 0.5 {
		t.Errorf("reflect low = (%f, %f)", pos, vel)
	}
	pos, vel = reflect(1, -0.3, 0, 2)
	if pos != 1 || vel != -0.3 {
		t.Errorf("inside should be untouched, got (%f, %f)", pos, vel)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
