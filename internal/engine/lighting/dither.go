package lighting

import gomath "math"

// BayerMatrix is the 4x4 ordered dither pattern, row-major, values 0..15.
var BayerMatrix = [16]float32{
	0, 8, 2, 10,
	12, 4, 14, 6,
	3, 11, 1, 9,
	15, 7, 13, 5,
}

// DitherParams controls the ordered dither applied to firefly light.
type DitherParams struct {
	Size   int     // screen pixels per Bayer cell, 1..4
	Spread float32 // threshold scale, 0..1
	Levels int     // output bands, 1..16
}

// BayerThreshold returns the normalised threshold for pixel (px, py).
func BayerThreshold(px, py, size int) float32 {
	if size < 1 {
		size = 1
	}
	x := mod(px, 4*size) / size
	y := mod(py, 4*size) / size
	return BayerMatrix[y*4+x] / 16
}

// Dither lowers value by the pixel's Bayer threshold scaled by spread.
func Dither(px, py int, value float32, d DitherParams) float32 {
	v := value - BayerThreshold(px, py, d.Size)*d.Spread
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Quantize floors value into one of levels bands.
func Quantize(value float32, levels int) float32 {
	if levels < 1 {
		levels = 1
	}
	l := float32(levels)
	return float32(gomath.Floor(float64(value*l))) / l
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
