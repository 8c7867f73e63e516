// Package render implements the three-pass deferred pipeline: geometry into
// a G-buffer, full-screen lighting into a colour target, and a resolve pass
// that upscales the selected buffer to the window with a sub-texel shift.
package render

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/isopixel/internal/assets"
	"github.com/Faultbox/isopixel/internal/config"
	"github.com/Faultbox/isopixel/internal/engine/framebuffer"
	"github.com/Faultbox/isopixel/internal/engine/lighting"
	"github.com/Faultbox/isopixel/internal/engine/render/plan"
	"github.com/Faultbox/isopixel/internal/engine/render/shaders"
	"github.com/Faultbox/isopixel/internal/engine/resolution"
	"github.com/Faultbox/isopixel/internal/engine/shader"
	"github.com/Faultbox/isopixel/internal/engine/terrain"
	"github.com/Faultbox/isopixel/internal/logger"
	"github.com/Faultbox/isopixel/pkg/math"
)

// grassSeed fixes the blade layout across rebuilds.
const grassSeed = 0x9e3779b9

// Frame is everything one Render call needs.
type Frame struct {
	Params         config.Params
	View           math.Mat4
	Projection     math.Mat4
	SubpixelOffset math.Vec2
	Fireflies      []lighting.Firefly
}

// ViewProjection returns Projection * View.
func (f Frame) ViewProjection() math.Mat4 {
	return f.Projection.Mul(f.View)
}

type sceneKey struct {
	k, texelHeight int
}

// Pipeline owns every GPU resource of the renderer.
type Pipeline struct {
	log *zap.Logger

	geometry *shader.Program
	lighting *shader.Program
	resolve  *shader.Program

	gbuffer *framebuffer.GBuffer
	result  *framebuffer.Target

	tiles  *instancedMesh
	ground *instancedMesh
	grass  *instancedMesh
	quad   *quad

	scene     sceneKey
	layout    terrain.Layout
	state     resolution.State
	viewport  plan.Viewport
	paused    bool
	fireflies *lighting.FireflyBuffer
}

// New initialises OpenGL and builds programs and static meshes.
// A current GL context is required.
func New(meshes *assets.Manager) (*Pipeline, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}

	p := &Pipeline{
		log:       logger.Named("pipeline"),
		paused:    true,
		fireflies: lighting.NewFireflyBuffer(),
	}
	p.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	var err error
	if p.geometry, err = shader.New("geometry", shaders.GeometryVertex, shaders.GeometryFragment); err != nil {
		p.Destroy()
		return nil, err
	}
	if p.lighting, err = shader.New("lighting", shaders.FullscreenVertex, shaders.LightingFragment); err != nil {
		p.Destroy()
		return nil, err
	}
	if p.resolve, err = shader.New("resolve", shaders.FullscreenVertex, shaders.ResolveFragment); err != nil {
		p.Destroy()
		return nil, err
	}

	for _, req := range []struct {
		prog  *shader.Program
		names []string
	}{
		{p.geometry, shaders.GeometryUniforms},
		{p.lighting, shaders.LightingUniforms},
		{p.resolve, shaders.ResolveUniforms},
	} {
		if err = req.prog.Require(req.names...); err != nil {
			p.Destroy()
			return nil, err
		}
	}

	groundMesh, err := meshes.Geometry(assets.GroundPlane)
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("ground mesh: %w", err)
	}
	bladeMesh, err := meshes.Geometry(assets.GrassBlade)
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("grass mesh: %w", err)
	}
	p.ground = newInstancedMesh(groundMesh)
	p.grass = newInstancedMesh(bladeMesh)
	p.quad = newQuad()

	p.lighting.Use()
	gl.Uniform1i(p.lighting.Uniform("tAlbedo"), 0)
	gl.Uniform1i(p.lighting.Uniform("tNormal"), 1)
	gl.Uniform1i(p.lighting.Uniform("tPosition"), 2)
	gl.Uniform1i(p.lighting.Uniform("tDepth"), 3)
	gl.Uniform1fv(p.lighting.Uniform("uBayer"), int32(len(lighting.BayerMatrix)), &lighting.BayerMatrix[0])

	p.resolve.Use()
	gl.Uniform1i(p.resolve.Uniform("uSource"), 0)
	gl.UseProgram(0)

	return p, nil
}

// Resize adapts the offscreen targets to a new resolution state. Targets are
// reallocated only when the internal size changes.
func (p *Pipeline) Resize(state resolution.State, windowW, windowH int) error {
	p.viewport = plan.CenteredViewport(windowW, windowH, state)
	changed := state.InternalWidth != p.state.InternalWidth || state.InternalHeight != p.state.InternalHeight
	p.state = state
	if !p.paused && !changed {
		return nil
	}

	w, h := int32(state.InternalWidth), int32(state.InternalHeight)
	if err := p.allocateTargets(w, h); err != nil {
		p.paused = true
		p.releaseTargets()
		return fmt.Errorf("resize: %w", err)
	}
	p.paused = false

	p.log.Info("render targets allocated",
		zap.Int("internal_width", state.InternalWidth),
		zap.Int("internal_height", state.InternalHeight),
		zap.Int("display_width", state.DisplayWidth),
		zap.Int("display_height", state.DisplayHeight))
	return nil
}

func (p *Pipeline) allocateTargets(w, h int32) error {
	if p.gbuffer == nil {
		gb, err := framebuffer.NewGBuffer(w, h)
		if err != nil {
			return err
		}
		p.gbuffer = gb
	} else if err := p.gbuffer.Resize(w, h); err != nil {
		return err
	}

	if p.result == nil {
		t, err := framebuffer.NewTarget(w, h)
		if err != nil {
			return err
		}
		p.result = t
	} else if err := p.result.Resize(w, h); err != nil {
		return err
	}
	return nil
}

// Pause stops rendering until the next successful Resize, e.g. on a
// zero-area window.
func (p *Pipeline) Pause(reason error) {
	if !p.paused {
		p.log.Info("rendering paused", zap.Error(reason))
	}
	p.paused = true
	p.releaseTargets()
}

// Paused reports whether Render is a no-op.
func (p *Pipeline) Paused() bool {
	return p.paused
}

// State returns the resolution the targets were allocated for.
func (p *Pipeline) State() resolution.State {
	return p.state
}

// Result returns the lighting target, nil while paused.
func (p *Pipeline) Result() *framebuffer.Target {
	return p.result
}

// GBuffer returns the geometry target, nil while paused.
func (p *Pipeline) GBuffer() *framebuffer.GBuffer {
	return p.gbuffer
}

// Layout returns the scene instances currently uploaded.
func (p *Pipeline) Layout() terrain.Layout {
	return p.layout
}

// Render runs every pass for one frame.
func (p *Pipeline) Render(f Frame) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	if p.paused {
		return
	}

	p.ensureScene(f.Params.Pixelation)
	source := plan.SourceFor(f.Params.Framebuffer.SelectedBuffer)

	for _, pass := range plan.Order {
		switch pass {
		case plan.PassGeometry:
			p.geometryPass(f)
		case plan.PassLighting:
			if source.NeedsLighting() {
				p.lightingPass(f)
			}
		case plan.PassResolve:
			p.resolvePass(f, source)
		}
	}
}

// ensureScene rebuilds tile geometry when the tile texel size changes.
func (p *Pipeline) ensureScene(px config.PixelationParams) {
	key := sceneKey{px.TileTexelWidth, px.TileTexelHeight}
	if p.tiles != nil && key == p.scene {
		return
	}
	p.scene = key
	p.layout = terrain.DefaultHeightMap.Build(key.k, key.texelHeight, grassSeed)

	p.tiles.destroy()
	p.tiles = newInstancedMesh(terrain.Box(terrain.TileSide, p.layout.TileHeight, terrain.TileSide))
	p.tiles.setInstances(p.layout.Tiles)
	p.ground.setInstances([]terrain.Instance{p.layout.Ground})
	p.grass.setInstances(p.layout.Grass)

	p.log.Info("scene rebuilt",
		zap.Float32("tile_height", p.layout.TileHeight),
		zap.Int("tiles", len(p.layout.Tiles)),
		zap.Int("grass", len(p.layout.Grass)))
}

func (p *Pipeline) geometryPass(f Frame) {
	p.gbuffer.Bind()
	p.gbuffer.Clear()

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.DepthMask(true)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)

	p.geometry.Use()
	viewProj := f.ViewProjection()
	gl.UniformMatrix4fv(p.geometry.Uniform("uViewProj"), 1, false, viewProj.Ptr())
	low, high := f.Params.Grass.LowColor, f.Params.Grass.HighColor
	gl.Uniform3f(p.geometry.Uniform("uLowColor"), low[0], low[1], low[2])
	gl.Uniform3f(p.geometry.Uniform("uHighColor"), high[0], high[1], high[2])

	gl.Uniform1i(p.geometry.Uniform("uMode"), 0)
	p.ground.draw()
	p.tiles.draw()

	gl.Uniform1i(p.geometry.Uniform("uMode"), 1)
	p.grass.draw()

	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
}

func (p *Pipeline) lightingPass(f Frame) {
	p.result.Bind()
	p.result.Clear(0, 0, 0, 1)

	prog := p.lighting
	prog.Use()

	textures := [...]uint32{
		p.gbuffer.Texture(framebuffer.Albedo),
		p.gbuffer.Texture(framebuffer.Normal),
		p.gbuffer.Texture(framebuffer.Position),
		p.gbuffer.DepthTexture(),
	}
	for i, tex := range textures {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, tex)
	}

	l := f.Params.Lighting
	viewProj := f.ViewProjection()
	w, h := p.result.Size()
	sun := lighting.SunDirection()

	gl.Uniform2f(prog.Uniform("uResolution"), float32(w), float32(h))
	gl.UniformMatrix4fv(prog.Uniform("uViewProj"), 1, false, viewProj.Ptr())
	gl.Uniform1f(prog.Uniform("uAmbientStrength"), l.AmbientStrength)
	gl.Uniform3f(prog.Uniform("uAmbientColor"), l.AmbientColor[0], l.AmbientColor[1], l.AmbientColor[2])
	gl.Uniform1f(prog.Uniform("uSunStrength"), l.SunStrength)
	gl.Uniform3f(prog.Uniform("uSunColor"), l.SunColor[0], l.SunColor[1], l.SunColor[2])
	gl.Uniform3f(prog.Uniform("uSunDirection"), sun.X, sun.Y, sun.Z)

	p.fireflies.SetFireflies(f.Fireflies)
	positions := p.fireflies.Positions()
	colors := p.fireflies.Colors()
	strengths := p.fireflies.Strengths()
	gl.Uniform3fv(prog.Uniform("uFireflyPositions"), lighting.MaxFireflies, &positions[0])
	gl.Uniform3fv(prog.Uniform("uFireflyColors"), lighting.MaxFireflies, &colors[0])
	gl.Uniform1fv(prog.Uniform("uFireflyStrengths"), lighting.MaxFireflies, &strengths[0])
	gl.Uniform1i(prog.Uniform("uNumFireflies"), int32(p.fireflies.Count))

	gl.Uniform1i(prog.Uniform("uDitherSize"), int32(l.Dither.Size))
	gl.Uniform1f(prog.Uniform("uDitherSpread"), l.Dither.Spread)
	gl.Uniform1i(prog.Uniform("uDitherLevels"), int32(l.Dither.Levels))

	p.quad.draw()

	for i := len(textures) - 1; i >= 0; i-- {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}
}

func (p *Pipeline) resolvePass(f Frame, source plan.Source) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	v := p.viewport
	gl.Viewport(int32(v.X), int32(v.Y), int32(v.Width), int32(v.Height))

	p.resolve.Use()
	offset := plan.UVOffset(p.state, f.Params.Pixelation.Enabled, f.SubpixelOffset)
	gl.Uniform2f(p.resolve.Uniform("uOffset"), offset.X, offset.Y)
	gl.Uniform1i(p.resolve.Uniform("uGamma"), boolToInt(source.GammaCorrected()))
	gl.Uniform1i(p.resolve.Uniform("uDepth"), boolToInt(source == plan.SourceDepth))

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.sourceTexture(source))
	p.quad.draw()
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (p *Pipeline) sourceTexture(s plan.Source) uint32 {
	switch s {
	case plan.SourceAlbedo:
		return p.gbuffer.Texture(framebuffer.Albedo)
	case plan.SourceNormal:
		return p.gbuffer.Texture(framebuffer.Normal)
	case plan.SourcePosition:
		return p.gbuffer.Texture(framebuffer.Position)
	case plan.SourceDepth:
		return p.gbuffer.DepthTexture()
	}
	return p.result.ColorTexture()
}

func (p *Pipeline) releaseTargets() {
	if p.gbuffer != nil {
		p.gbuffer.Destroy()
		p.gbuffer = nil
	}
	if p.result != nil {
		p.result.Destroy()
		p.result = nil
	}
}

// Destroy releases every GPU resource. The pipeline is unusable afterwards.
func (p *Pipeline) Destroy() {
	p.releaseTargets()
	p.tiles.destroy()
	p.ground.destroy()
	p.grass.destroy()
	p.quad.destroy()
	for _, prog := range []*shader.Program{p.geometry, p.lighting, p.resolve} {
		if prog != nil {
			prog.Delete()
		}
	}
	p.paused = true
}

// IsPaused reports whether err means the frame should be skipped rather than failed.
func IsPaused(err error) bool {
	return errors.Is(err, resolution.ErrZeroArea) || errors.Is(err, framebuffer.ErrEmpty)
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
