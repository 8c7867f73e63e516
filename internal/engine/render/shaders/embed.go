// Package shaders embeds the GLSL sources of the render pipeline.
package shaders

import _ "embed"

//go:embed geometry.vert
var GeometryVertex string

//go:embed geometry.frag
var GeometryFragment string

//go:embed fullscreen.vert
var FullscreenVertex string

//go:embed lighting.frag
var LightingFragment string

//go:embed resolve.frag
var ResolveFragment string

// Uniforms every linked program must keep active. The pipeline checks them
// once after linking so a driver that strips one fails at startup.
var (
	GeometryUniforms = []string{"uViewProj", "uMode"}
	LightingUniforms = []string{"tAlbedo", "tNormal", "tPosition", "tDepth", "uResolution", "uViewProj"}
	ResolveUniforms  = []string{"uSource", "uOffset"}
)
