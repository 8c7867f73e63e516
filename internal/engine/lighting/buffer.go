package lighting

// MaxFireflies is the size of the firefly uniform array in the lighting shader.
const MaxFireflies = 10

// FireflyBuffer holds fireflies for GPU upload.
type FireflyBuffer struct {
	Fireflies []Firefly
	Count     int
}

// NewFireflyBuffer creates an empty firefly buffer.
func NewFireflyBuffer() *FireflyBuffer {
	return &FireflyBuffer{
		Fireflies: make([]Firefly, 0, MaxFireflies),
	}
}

// Clear removes all fireflies from the buffer.
func (b *FireflyBuffer) Clear() {
	b.Fireflies = b.Fireflies[:0]
	b.Count = 0
}

// Add appends a firefly. Returns false if the buffer is full.
func (b *FireflyBuffer) Add(f Firefly) bool {
	if b.Count >= MaxFireflies {
		return false
	}
	b.Fireflies = append(b.Fireflies, f)
	b.Count++
	return true
}

// SetFireflies replaces the contents, truncating to MaxFireflies.
func (b *FireflyBuffer) SetFireflies(fireflies []Firefly) {
	b.Clear()
	count := min(len(fireflies), MaxFireflies)
	b.Fireflies = append(b.Fireflies, fireflies[:count]...)
	b.Count = count
}

// Positions returns positions as a flat slice sized for the uniform array.
// Format: [x0, y0, z0, x1, y1, z1, ...]
func (b *FireflyBuffer) Positions() []float32 {
	result := make([]float32, MaxFireflies*3)
	for i, f := range b.Fireflies {
		result[i*3+0] = f.Position.X
		result[i*3+1] = f.Position.Y
		result[i*3+2] = f.Position.Z
	}
	return result
}

// Colors returns colors as a flat slice sized for the uniform array.
func (b *FireflyBuffer) Colors() []float32 {
	result := make([]float32, MaxFireflies*3)
	for i, f := range b.Fireflies {
		copy(result[i*3:i*3+3], f.Color[:])
	}
	return result
}

// Strengths returns strengths sized for the uniform array. Unused slots are 0.
func (b *FireflyBuffer) Strengths() []float32 {
	result := make([]float32, MaxFireflies)
	for i, f := range b.Fireflies {
		result[i] = f.Strength
	}
	return result
}
