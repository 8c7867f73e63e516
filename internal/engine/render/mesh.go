package render

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/isopixel/internal/engine/terrain"
)

// Attribute locations shared by every geometry pass mesh.
const (
	attrPosition = 0
	attrNormal   = 1
	attrTexCoord = 2
	attrModel    = 3 // mat4, occupies 3..6
)

// instancedMesh is an indexed mesh drawn once per model matrix.
type instancedMesh struct {
	vao         uint32
	vbo         uint32
	ebo         uint32
	instanceVBO uint32
	indexCount  int32
	instances   int32
}

func newInstancedMesh(mesh *terrain.Mesh) *instancedMesh {
	m := &instancedMesh{indexCount: int32(len(mesh.Indices))}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(unsafe.Sizeof(terrain.Vertex{})),
		gl.Ptr(mesh.Vertices), gl.STATIC_DRAW)

	stride := int32(unsafe.Sizeof(terrain.Vertex{}))

	gl.VertexAttribPointerWithOffset(attrPosition, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(attrPosition)

	gl.VertexAttribPointerWithOffset(attrNormal, 3, gl.FLOAT, false, stride, 12)
	gl.EnableVertexAttribArray(attrNormal)

	gl.VertexAttribPointerWithOffset(attrTexCoord, 2, gl.FLOAT, false, stride, 24)
	gl.EnableVertexAttribArray(attrTexCoord)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.instanceVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.instanceVBO)
	const matStride = 16 * 4
	for col := uint32(0); col < 4; col++ {
		loc := attrModel + col
		gl.VertexAttribPointerWithOffset(loc, 4, gl.FLOAT, false, matStride, uintptr(col*16))
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribDivisor(loc, 1)
	}

	gl.BindVertexArray(0)
	return m
}

// setInstances replaces the per-instance model matrices.
func (m *instancedMesh) setInstances(instances []terrain.Instance) {
	m.instances = int32(len(instances))
	if m.instances == 0 {
		return
	}
	models := terrain.Models(instances)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.instanceVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(models)*4, gl.Ptr(models), gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (m *instancedMesh) draw() {
	if m.instances == 0 || m.indexCount == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElementsInstanced(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil, m.instances)
	gl.BindVertexArray(0)
}

func (m *instancedMesh) destroy() {
	if m == nil {
		return
	}
	gl.DeleteBuffers(1, &m.instanceVBO)
	gl.DeleteBuffers(1, &m.ebo)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteVertexArrays(1, &m.vao)
	*m = instancedMesh{}
}

// quad is a full-screen triangle strip with UVs.
type quad struct {
	vao uint32
	vbo uint32
}

func newQuad() *quad {
	vertices := []float32{
		// x, y, u, v
		-1, -1, 0, 0,
		1, -1, 1, 0,
		-1, 1, 0, 1,
		1, 1, 1, 1,
	}
	q := &quad{}
	gl.GenVertexArrays(1, &q.vao)
	gl.BindVertexArray(q.vao)

	gl.GenBuffers(1, &q.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, q.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 16, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 16, 8)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return q
}

func (q *quad) draw() {
	gl.BindVertexArray(q.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
}

func (q *quad) destroy() {
	if q == nil {
		return
	}
	gl.DeleteBuffers(1, &q.vbo)
	gl.DeleteVertexArrays(1, &q.vao)
	*q = quad{}
}
