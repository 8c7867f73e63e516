// Package resolution derives the internal (low-res) and display buffer sizes
// for the pixelated render path.
package resolution

import (
	"errors"
	gomath "math"

	"github.com/Faultbox/isopixel/pkg/math"
)

// ErrZeroArea is returned when the requested size collapses to an empty buffer.
// Callers pause rendering instead of allocating.
var ErrZeroArea = errors.New("resolution: zero-area render target")

// State holds the derived buffer sizes and orthographic frustum extents.
// InternalWidth is always even and InternalHeight always odd.
type State struct {
	InternalWidth  int
	InternalHeight int
	DisplayWidth   int
	DisplayHeight  int

	// Full width/height of the orthographic frustum in world units.
	OrthoWidth  float32
	OrthoHeight float32

	TexelSize int
}

// Resolve computes the resolution state for a viewport of w x h pixels,
// texelSize display pixels per texel and k texels per tile width.
func Resolve(w, h, texelSize, k int) (State, error) {
	if w <= 0 || h <= 0 || texelSize <= 0 || k <= 0 {
		return State{}, ErrZeroArea
	}

	iw := w / texelSize
	if iw%2 != 0 {
		iw--
	}
	ih := h / texelSize
	if ih%2 == 0 {
		ih--
	}
	if iw <= 0 || ih <= 0 {
		return State{}, ErrZeroArea
	}

	orthoW := float32(gomath.Sqrt2) * float32(iw) / float32(k)
	return State{
		InternalWidth:  iw,
		InternalHeight: ih,
		DisplayWidth:   iw * texelSize,
		DisplayHeight:  ih * texelSize,
		OrthoWidth:     orthoW,
		OrthoHeight:    orthoW * float32(ih) / float32(iw),
		TexelSize:      texelSize,
	}, nil
}

// Direct returns a state that renders straight at the viewport size, used when
// pixelation is off. The world scale matches Resolve so the framing does not
// jump when toggling.
func Direct(w, h, texelSize, k int) (State, error) {
	s, err := Resolve(w, h, texelSize, k)
	if err != nil {
		return State{}, err
	}
	s.OrthoWidth *= float32(w) / float32(s.DisplayWidth)
	s.OrthoHeight = s.OrthoWidth * float32(h) / float32(w)
	s.InternalWidth = w
	s.InternalHeight = h
	s.DisplayWidth = w
	s.DisplayHeight = h
	s.TexelSize = 1
	return s, nil
}

// UVOffset converts a sub-texel offset into the resolve pass UV shift.
// One texel of offset moves the image by exactly texelSize display pixels.
// The y component is negated because texture space grows upward.
func (s State) UVOffset(subpixel math.Vec2) math.Vec2 {
	if s.DisplayWidth == 0 || s.DisplayHeight == 0 {
		return math.Vec2{}
	}
	t := float32(s.TexelSize)
	return math.Vec2{
		X: subpixel.X * t / float32(s.DisplayWidth),
		Y: -subpixel.Y * t / float32(s.DisplayHeight),
	}
}

// Empty reports whether the state has no drawable area.
func (s State) Empty() bool {
	return s.InternalWidth <= 0 || s.InternalHeight <= 0
}
