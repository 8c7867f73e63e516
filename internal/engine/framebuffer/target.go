// Package framebuffer provides the offscreen render targets of the deferred pipeline.
package framebuffer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Target is a single RGBA8 colour render target without depth.
// The lighting pass writes it at internal resolution.
type Target struct {
	fbo          uint32
	colorTexture uint32
	width        int32
	height       int32
}

// NewTarget creates a colour target with the specified dimensions.
func NewTarget(width, height int32) (*Target, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("target size %dx%d: %w", width, height, ErrEmpty)
	}

	t := &Target{
		width:  width,
		height: height,
	}
	if err := t.create(); err != nil {
		return nil, fmt.Errorf("creating target: %w", err)
	}
	return t, nil
}

func (t *Target) create() error {
	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)

	t.colorTexture = newTexture(gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE, t.width, t.height)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.colorTexture, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Destroy()
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return nil
}

// Bind makes this target the current render target.
func (t *Target) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, t.width, t.height)
}

// Clear clears the colour buffer with the specified colour.
func (t *Target) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// ColorTexture returns the color attachment texture ID.
func (t *Target) ColorTexture() uint32 {
	return t.colorTexture
}

// Size returns the target dimensions.
func (t *Target) Size() (width, height int32) {
	return t.width, t.height
}

// ReadPixels reads the colour attachment as tightly packed RGBA rows,
// bottom row first (OpenGL origin).
func (t *Target) ReadPixels() []byte {
	pixels := make([]byte, t.width*t.height*4)

	var prevFBO int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)

	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, t.width, t.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))
	return pixels
}

// Resize reallocates the colour texture. A no-op when the size is unchanged.
func (t *Target) Resize(width, height int32) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("target size %dx%d: %w", width, height, ErrEmpty)
	}
	if width == t.width && height == t.height && t.fbo != 0 {
		return nil
	}
	t.Destroy()
	t.width, t.height = width, height
	return t.create()
}

// Destroy releases all OpenGL resources.
func (t *Target) Destroy() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	if t.colorTexture != 0 {
		gl.DeleteTextures(1, &t.colorTexture)
		t.colorTexture = 0
	}
}

// newTexture allocates an empty nearest-filtered, edge-clamped 2D texture.
func newTexture(internalFormat int32, format, xtype uint32, width, height int32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, width, height, 0, format, xtype, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return tex
}
