package resolution

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/isopixel/pkg/math"
)

func TestResolveScenario(t *testing.T) {
	s, err := Resolve(800, 600, 4, 24)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.InternalWidth != 200 || s.InternalHeight != 149 {
		t.Errorf("internal = %dx%d, want 200x149", s.InternalWidth, s.InternalHeight)
	}
	if s.DisplayWidth != 800 || s.DisplayHeight != 596 {
		t.Errorf("display = %dx%d, want 800x596", s.DisplayWidth, s.DisplayHeight)
	}
	wantOrtho := float32(gomath.Sqrt2) * 200 / 24
	if diff := s.OrthoWidth - wantOrtho; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("ortho width = %f, want %f", s.OrthoWidth, wantOrtho)
	}
	wantH := wantOrtho * 149 / 200
	if diff := s.OrthoHeight - wantH; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("ortho height = %f, want %f", s.OrthoHeight, wantH)
	}
}

func TestResolveParity(t *testing.T) {
	for w := 1; w <= 300; w += 7 {
		for h := 1; h <= 300; h += 11 {
			for texel := 1; texel <= 6; texel++ {
				s, err := Resolve(w, h, texel, 16)
				if errors.Is(err, ErrZeroArea) {
					continue
				}
				if err != nil {
					t.Fatalf("Resolve(%d,%d,%d): %v", w, h, texel, err)
				}
				if s.InternalWidth%2 != 0 {
					t.Fatalf("Resolve(%d,%d,%d) internal width %d is odd", w, h, texel, s.InternalWidth)
				}
				if s.InternalHeight%2 != 1 {
					t.Fatalf("Resolve(%d,%d,%d) internal height %d is even", w, h, texel, s.InternalHeight)
				}
				if s.DisplayWidth != s.InternalWidth*texel || s.DisplayHeight != s.InternalHeight*texel {
					t.Fatalf("Resolve(%d,%d,%d) display %dx%d not a multiple", w, h, texel, s.DisplayWidth, s.DisplayHeight)
				}
				if s.DisplayWidth > w || s.DisplayHeight > h {
					t.Fatalf("Resolve(%d,%d,%d) display exceeds viewport", w, h, texel)
				}
			}
		}
	}
}

func TestResolveZeroArea(t *testing.T) {
	tests := []struct {
		name          string
		w, h, texel, k int
	}{
		{"zero width", 0, 600, 4, 24},
		{"negative height", 800, -1, 4, 24},
		{"zero texel", 800, 600, 0, 24},
		{"zero tile width", 800, 600, 4, 0},
		{"texel larger than viewport", 3, 3, 4, 24},
		{"width collapses to odd one", 7, 600, 4, 24},
		{"height collapses", 800, 3, 4, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.w, tt.h, tt.texel, tt.k)
			if !errors.Is(err, ErrZeroArea) {
				t.Errorf("expected ErrZeroArea, got %v", err)
			}
		})
	}
}

func TestDirect(t *testing.T) {
	s, err := Direct(801, 600, 4, 24)
	if err != nil {
		t.Fatalf("Direct: %v", err)
	}
	if s.InternalWidth != 801 || s.DisplayHeight != 600 || s.TexelSize != 1 {
		t.Errorf("unexpected direct state %+v", s)
	}
	ratio := s.OrthoHeight / s.OrthoWidth
	if diff := ratio - 600.0/801.0; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("aspect %f does not match viewport", ratio)
	}
	off := s.UVOffset(math.Vec2{X: 0.5, Y: 0.5})
	if off.X != 0.5/801 || off.Y != -0.5/600 {
		t.Errorf("direct offset = %+v, want (%g, %g)", off, 0.5/801, -0.5/600)
	}
}

func TestUVOffset(t *testing.T) {
	s, err := Resolve(800, 600, 4, 24)
	if err != nil {
		t.Fatal(err)
	}
	off := s.UVOffset(math.Vec2{X: 0.5, Y: -0.25})
	if diff := off.X - 0.5*4/800.0; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("u offset = %f", off.X)
	}
	if diff := off.Y - 0.25*4/596.0; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("v offset = %f", off.Y)
	}
	if (State{}).UVOffset(math.Vec2{X: 1, Y: 1}) != (math.Vec2{}) {
		t.Error("empty state should give zero offset")
	}
}
