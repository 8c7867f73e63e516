package terrain

import (
	gomath "math"
	"math/rand/v2"

	"github.com/Faultbox/isopixel/pkg/math"
)

// TileSide is the world length of one tile edge.
const TileSide = 1.0

// GroundSize is the side of the ground plane under the tiles.
const GroundSize = 40.0

// HeightMap gives the number of stacked tiles per cell, indexed [z][x].
type HeightMap [][]int

// DefaultHeightMap is the demo island.
var DefaultHeightMap = HeightMap{
	{1, 1, 1, 1, 1, 1, 1},
	{1, 3, 2, 2, 2, 3, 1},
	{1, 2, 2, 2, 2, 2, 1},
	{1, 1, 2, 3, 2, 1, 1},
	{1, 2, 2, 2, 2, 2, 1},
	{1, 3, 2, 1, 2, 3, 1},
	{1, 1, 1, 1, 1, 1, 1},
}

// TileHeight converts a tile's texel height into world units so that one
// tile layer is tileTexelHeight texels tall on screen.
func TileHeight(tileTexelWidth, tileTexelHeight int) float32 {
	if tileTexelWidth <= 0 {
		return 0
	}
	ratio := gomath.Sqrt2 / float64(tileTexelWidth)
	return float32(float64(tileTexelHeight) * ratio / gomath.Cos(30*gomath.Pi/180))
}

// Count returns the total number of stacked tiles.
func (h HeightMap) Count() int {
	n := 0
	for _, row := range h {
		for _, v := range row {
			n += max(v, 0)
		}
	}
	return n
}

// cellCenter returns the world XZ centre of cell (x, z), centring the map on the origin.
func (h HeightMap) cellCenter(x, z int) (float32, float32) {
	ox := len(h[z]) / 2
	oz := len(h) / 2
	return float32(x-ox) * TileSide, float32(z-oz) * TileSide
}

// TileInstances returns one instance per stacked tile box. Box meshes are
// centred, so layer y sits at y*tileHeight.
func (h HeightMap) TileInstances(tileHeight float32) []Instance {
	out := make([]Instance, 0, h.Count())
	for z, row := range h {
		for x, height := range row {
			px, pz := h.cellCenter(x, z)
			for y := 0; y < height; y++ {
				out = append(out, Instance{
					Position: math.Vec3{X: px, Y: float32(y) * tileHeight, Z: pz},
					Scale:    1,
				})
			}
		}
	}
	return out
}

// TopHeight returns the world Y of the top face of cell (x, z).
func (h HeightMap) TopHeight(x, z int, tileHeight float32) float32 {
	return (float32(h[z][x]) - 0.5) * tileHeight
}

// GroundInstance places the ground plane under the bottom face of the first layer.
func GroundInstance(tileHeight float32) Instance {
	return Instance{Position: math.Vec3{Y: -tileHeight / 2}, Scale: 1}
}

// ScatterGrass places perTile blades on every tile top. The layout depends
// only on seed.
func (h HeightMap) ScatterGrass(tileHeight float32, perTile int, seed uint64) []Instance {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	const margin = 0.45 * TileSide

	out := make([]Instance, 0, perTile*len(h)*len(h))
	for z, row := range h {
		for x, height := range row {
			if height <= 0 {
				continue
			}
			cx, cz := h.cellCenter(x, z)
			top := h.TopHeight(x, z, tileHeight)
			for i := 0; i < perTile; i++ {
				out = append(out, Instance{
					Position: math.Vec3{
						X: cx + (rng.Float32()*2-1)*margin,
						Y: top,
						Z: cz + (rng.Float32()*2-1)*margin,
					},
					Yaw:   rng.Float32() * 2 * gomath.Pi,
					Scale: 0.7 + rng.Float32()*0.6,
				})
			}
		}
	}
	return out
}

// Layout is the full set of instances for one tile height.
type Layout struct {
	TileHeight float32
	Tiles      []Instance
	Ground     Instance
	Grass      []Instance
}

// GrassPerTile is the number of blades scattered on each tile top.
const GrassPerTile = 12

// Build lays out the height map for tiles of k texels wide and texelHeight
// texels tall. The grass layout depends only on seed.
func (h HeightMap) Build(k, texelHeight int, seed uint64) Layout {
	th := TileHeight(k, texelHeight)
	return Layout{
		TileHeight: th,
		Tiles:      h.TileInstances(th),
		Ground:     GroundInstance(th),
		Grass:      h.ScatterGrass(th, GrassPerTile, seed),
	}
}
