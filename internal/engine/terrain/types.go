// Package terrain builds the demo scene geometry: a stepped tile map on a
// ground plane with grass blades scattered over the tile tops.
package terrain

import "github.com/Faultbox/isopixel/pkg/math"

// Vertex represents a mesh vertex with all attributes.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh holds mesh data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Instance places one copy of a mesh in the world.
type Instance struct {
	Position math.Vec3
	Yaw      float32 // radians
	Scale    float32
}

// Model returns the instance's model matrix.
func (i Instance) Model() math.Mat4 {
	s := i.Scale
	if s == 0 {
		s = 1
	}
	return math.Translate(i.Position.X, i.Position.Y, i.Position.Z).
		Mul(math.RotateY(i.Yaw)).
		Mul(math.Scale(s))
}

// Models flattens instance model matrices for an instanced attribute buffer.
func Models(instances []Instance) []float32 {
	out := make([]float32, 0, len(instances)*16)
	for _, inst := range instances {
		m := inst.Model()
		out = append(out, m[:]...)
	}
	return out
}
