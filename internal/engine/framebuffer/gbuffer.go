package framebuffer

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/isopixel/internal/engine/lighting"
	"github.com/Faultbox/isopixel/pkg/math"
)

// ErrEmpty is returned when a target would have no pixels.
var ErrEmpty = errors.New("framebuffer: zero-area target")

// Attachment indexes the colour attachments of the G-buffer.
type Attachment int

const (
	Albedo Attachment = iota
	Normal
	Position
	attachmentCount
)

type attachmentFormat struct {
	internal int32
	format   uint32
	xtype    uint32
}

var formats = [attachmentCount]attachmentFormat{
	Albedo:   {gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE},
	Normal:   {gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT},
	Position: {gl.RGBA32F, gl.RGBA, gl.FLOAT},
}

// GBuffer holds the geometry pass outputs: albedo, encoded normal, world
// position and a sampleable depth texture, all the same size.
type GBuffer struct {
	fbo          uint32
	colors       [attachmentCount]uint32
	depthTexture uint32
	width        int32
	height       int32
}

// NewGBuffer allocates a G-buffer of the given size.
func NewGBuffer(width, height int32) (*GBuffer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("gbuffer size %dx%d: %w", width, height, ErrEmpty)
	}
	g := &GBuffer{width: width, height: height}
	if err := g.create(); err != nil {
		return nil, fmt.Errorf("creating gbuffer: %w", err)
	}
	return g, nil
}

func (g *GBuffer) create() error {
	gl.GenFramebuffers(1, &g.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, g.fbo)

	drawBuffers := make([]uint32, attachmentCount)
	for i, f := range formats {
		g.colors[i] = newTexture(f.internal, f.format, f.xtype, g.width, g.height)
		attach := uint32(gl.COLOR_ATTACHMENT0 + i)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, attach, gl.TEXTURE_2D, g.colors[i], 0)
		drawBuffers[i] = attach
	}
	gl.DrawBuffers(int32(len(drawBuffers)), &drawBuffers[0])

	g.depthTexture = newTexture(gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT, g.width, g.height)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, g.depthTexture, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		g.Destroy()
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return nil
}

// Bind makes the G-buffer the current render target.
func (g *GBuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, g.fbo)
	gl.Viewport(0, 0, g.width, g.height)
}

// Clear resets every attachment to zero and depth to the far plane.
// Must run before each geometry pass.
func (g *GBuffer) Clear() {
	gl.ClearColor(0, 0, 0, 0)
	gl.ClearDepth(1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Texture returns the texture ID of a colour attachment.
func (g *GBuffer) Texture(a Attachment) uint32 {
	return g.colors[a]
}

// DepthTexture returns the depth attachment texture ID.
func (g *GBuffer) DepthTexture() uint32 {
	return g.depthTexture
}

// Size returns the G-buffer dimensions.
func (g *GBuffer) Size() (width, height int32) {
	return g.width, g.height
}

// ReadSample reads one texel of every attachment and decodes it.
// It stalls the pipeline; use it for debugging only.
func (g *GBuffer) ReadSample(x, y int32) lighting.Sample {
	var prevFBO int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, g.fbo)

	var texels [attachmentCount][4]float32
	for i := range texels {
		gl.ReadBuffer(uint32(gl.COLOR_ATTACHMENT0 + i))
		gl.ReadPixels(x, y, 1, 1, gl.RGBA, gl.FLOAT, gl.Ptr(&texels[i][0]))
	}
	var depth float32
	gl.ReadPixels(x, y, 1, 1, gl.DEPTH_COMPONENT, gl.FLOAT, gl.Ptr(&depth))

	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))

	vec := func(t [4]float32) math.Vec3 { return math.Vec3{X: t[0], Y: t[1], Z: t[2]} }
	return lighting.Sample{
		Albedo:   vec(texels[Albedo]),
		Normal:   lighting.DecodeNormal(vec(texels[Normal])),
		Position: vec(texels[Position]),
		Depth:    depth,
	}
}

// Resize reallocates every attachment. A no-op when the size is unchanged.
func (g *GBuffer) Resize(width, height int32) error {
	if width < 1 || height < 1 {
		return fmt.Errorf("gbuffer size %dx%d: %w", width, height, ErrEmpty)
	}
	if width == g.width && height == g.height && g.fbo != 0 {
		return nil
	}
	g.Destroy()
	g.width, g.height = width, height
	return g.create()
}

// Destroy releases all OpenGL resources.
func (g *GBuffer) Destroy() {
	if g.fbo != 0 {
		gl.DeleteFramebuffers(1, &g.fbo)
		g.fbo = 0
	}
	for i := range g.colors {
		if g.colors[i] != 0 {
			gl.DeleteTextures(1, &g.colors[i])
			g.colors[i] = 0
		}
	}
	if g.depthTexture != 0 {
		gl.DeleteTextures(1, &g.depthTexture)
		g.depthTexture = 0
	}
}
