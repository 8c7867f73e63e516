package debug

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/isopixel/internal/engine/lighting"
	"github.com/Faultbox/isopixel/pkg/math"
)

// 2x2 bottom-up: bottom row red, green; top row blue, white.
var pixels = []byte{
	255, 0, 0, 255, 0, 255, 0, 255,
	0, 0, 255, 255, 255, 255, 255, 255,
}

func TestFromPixelsFlips(t *testing.T) {
	img, err := FromPixels(pixels, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, color.RGBA{0, 0, 255, 255}},
		{1, 0, color.RGBA{255, 255, 255, 255}},
		{0, 1, color.RGBA{255, 0, 0, 255}},
		{1, 1, color.RGBA{0, 255, 0, 255}},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestFromPixelsErrors(t *testing.T) {
	if _, err := FromPixels(pixels, 3, 2); err == nil {
		t.Error("expected size mismatch")
	}
	if _, err := FromPixels(nil, 0, 2); err == nil {
		t.Error("expected invalid size")
	}
}

func TestUpscaleBlocks(t *testing.T) {
	src, _ := FromPixels(pixels, 2, 2)
	out := Upscale(src, 3)
	if out.Bounds().Dx() != 6 || out.Bounds().Dy() != 6 {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			want := src.RGBAAt(x/3, y/3)
			if got := out.RGBAAt(x, y); got != want {
				t.Fatalf("(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}

	if same := Upscale(src, 0); same.Bounds() != src.Bounds() {
		t.Errorf("scale 0 bounds = %v", same.Bounds())
	}
}

func TestCaptureFromPixels(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "isopixel")
	sc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	path, err := sc.CaptureFromPixels(pixels, 2, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "isopixel_2024-05-01_12-30-00.000.png"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 8, 8) {
		t.Errorf("decoded bounds = %v", img.Bounds())
	}
}

func TestGenerateFilename(t *testing.T) {
	sc := NewScreenshotCapture("", "shot")
	name := sc.GenerateFilename()
	if !strings.HasPrefix(name, "shot_") || !strings.HasSuffix(name, ".png") {
		t.Errorf("filename = %s", name)
	}
}

func TestEvaluate(t *testing.T) {
	up := math.Vec3{Y: 1}
	sample := lighting.Sample{
		Albedo: math.Vec3{X: 1, Y: 1, Z: 1},
		Normal: up,
		Depth:  0.5,
	}
	scene := lighting.Scene{
		AmbientStrength: 0.5,
		AmbientColor:    math.Vec3{X: 1, Y: 1, Z: 1},
		SunDirection:    up,
		Fireflies: []lighting.Firefly{
			{Position: math.Vec3{Y: 1}, Color: [3]float32{1, 1, 1}, Strength: 1},
		},
		Dither:         lighting.DitherParams{Size: 1, Levels: 4},
		ViewProjection: math.Identity(),
		Resolution:     math.Vec2{X: 100, Y: 100},
	}

	p := Evaluate(sample, scene, 10, 10)
	if p.Background() {
		t.Error("depth 0.5 is geometry")
	}
	if p.Dominant != 0 {
		t.Errorf("dominant = %d", p.Dominant)
	}
	if p.Intensity <= 0 {
		t.Errorf("intensity = %f", p.Intensity)
	}
	if p.Linear.X < 0.5 {
		t.Errorf("linear = %+v, want at least the ambient term", p.Linear)
	}
	if len(p.Fields()) == 0 {
		t.Error("no fields")
	}

	sample.Depth = 1
	if !Evaluate(sample, scene, 10, 10).Background() {
		t.Error("depth 1 is background")
	}
}
