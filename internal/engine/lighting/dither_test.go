package lighting

import "testing"

func TestBayerThreshold(t *testing.T) {
	tests := []struct {
		px, py, size int
		want         float32
	}{
		{0, 0, 1, 0},
		{1, 0, 1, 8.0 / 16},
		{0, 1, 1, 12.0 / 16},
		{3, 3, 1, 5.0 / 16},
		{4, 4, 1, 0},        // tiles every 4 pixels
		{2, 0, 2, 8.0 / 16}, // size 2 doubles the cell
		{1, 1, 2, 0},
		{-1, 0, 1, 10.0 / 16},
	}
	for _, tt := range tests {
		if got := BayerThreshold(tt.px, tt.py, tt.size); got != tt.want {
			t.Errorf("BayerThreshold(%d, %d, %d) = %f, want %f", tt.px, tt.py, tt.size, got, tt.want)
		}
	}
}

func TestBayerMatrixIsPermutation(t *testing.T) {
	seen := map[float32]bool{}
	for _, v := range BayerMatrix {
		seen[v] = true
	}
	if len(seen) != 16 {
		t.Errorf("Bayer matrix has %d distinct values, want 16", len(seen))
	}
}

func TestDither(t *testing.T) {
	d := DitherParams{Size: 1, Spread: 0.5, Levels: 4}
	if got := Dither(0, 0, 0.6, d); got != 0.6 {
		t.Errorf("zero threshold pixel = %f", got)
	}
	if got := Dither(1, 0, 0.6, d); !near(got, 0.35) {
		t.Errorf("threshold 0.5 pixel = %f, want 0.35", got)
	}
	if got := Dither(1, 0, 0.1, d); got != 0 {
		t.Errorf("clamped low = %f", got)
	}
	if got := Dither(0, 0, 1.5, d); got != 1 {
		t.Errorf("clamped high = %f", got)
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		v      float32
		levels int
		want   float32
	}{
		{0.99, 4, 0.75},
		{0.5, 4, 0.5},
		{0.49, 4, 0.25},
		{1, 7, 1},
		{0.3, 1, 0},
		{0.3, 0, 0},
	}
	for _, tt := range tests {
		if got := Quantize(tt.v, tt.levels); !near(got, tt.want) {
			t.Errorf("Quantize(%f, %d) = %f, want %f", tt.v, tt.levels, got, tt.want)
		}
	}
}

func TestDitherQuantizeBands(t *testing.T) {
	d := DitherParams{Size: 1, Spread: 0.05, Levels: 7}
	allowed := map[float32]bool{}
	for i := 0; i <= 7; i++ {
		allowed[float32(i)/7] = true
	}
	for px := 0; px < 8; px++ {
		for py := 0; py < 8; py++ {
			for v := float32(0); v <= 1; v += 0.03 {
				q := Quantize(Dither(px, py, v, d), d.Levels)
				if !allowed[q] {
					t.Fatalf("value %f at (%d,%d) quantised to %f, not a band", v, px, py, q)
				}
			}
		}
	}
}
