package terrain

import gomath "math"

// Box builds an axis-aligned box centred on the origin with per-face normals.
func Box(width, height, depth float32) *Mesh {
	hx, hy, hz := width/2, height/2, depth/2
	faces := []struct {
		normal  [3]float32
		corners [4][3]float32
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}}},
	}

	mesh := &Mesh{Bounds: emptyBounds()}
	for _, f := range faces {
		appendQuad(mesh, f.corners, f.normal)
	}
	return mesh
}

// Plane builds a horizontal square of the given side facing +Y.
func Plane(size float32) *Mesh {
	h := size / 2
	mesh := &Mesh{Bounds: emptyBounds()}
	appendQuad(mesh, [4][3]float32{{-h, 0, h}, {h, 0, h}, {h, 0, -h}, {-h, 0, -h}}, [3]float32{0, 1, 0})
	return mesh
}

// Blade builds a double-sided tapered grass blade standing on the origin.
func Blade(width, height float32) *Mesh {
	hw := width / 2
	mesh := &Mesh{Bounds: emptyBounds()}
	for _, side := range []float32{1, -1} {
		n := [3]float32{0, 0, side}
		base := uint32(len(mesh.Vertices))
		for _, p := range [][3]float32{
			{-hw, 0, 0}, {hw, 0, 0},
			{-hw * 0.6, height * 0.5, 0}, {hw * 0.6, height * 0.5, 0},
			{0, height, 0},
		} {
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: p,
				Normal:   n,
				TexCoord: [2]float32{p[0]/width + 0.5, p[1] / height},
			})
			updateBounds(&mesh.Bounds, p)
		}
		tris := []uint32{0, 1, 3, 0, 3, 2, 2, 3, 4}
		if side < 0 {
			tris = []uint32{0, 3, 1, 0, 2, 3, 2, 4, 3}
		}
		for _, i := range tris {
			mesh.Indices = append(mesh.Indices, base+i)
		}
	}
	return mesh
}

// appendQuad adds two counter-clockwise triangles for corners ordered CCW
// when seen from the normal side.
func appendQuad(mesh *Mesh, corners [4][3]float32, normal [3]float32) {
	base := uint32(len(mesh.Vertices))
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for i, c := range corners {
		mesh.Vertices = append(mesh.Vertices, Vertex{Position: c, Normal: normal, TexCoord: uvs[i]})
		updateBounds(&mesh.Bounds, c)
	}
	mesh.Indices = append(mesh.Indices, base, base+1, base+2, base, base+2, base+3)
}

func emptyBounds() Bounds {
	inf := float32(gomath.Inf(1))
	return Bounds{
		Min: [3]float32{inf, inf, inf},
		Max: [3]float32{-inf, -inf, -inf},
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
