package assets

import "github.com/Faultbox/isopixel/internal/engine/terrain"

// Builtin generates the demo meshes procedurally.
// Tile boxes depend on live parameters and are built by the renderer instead.
type Builtin struct{}

// Geometry implements Provider.
func (Builtin) Geometry(name string) (*terrain.Mesh, error) {
	switch name {
	case GrassBlade:
		return terrain.Blade(0.06, 0.22), nil
	case GroundPlane:
		return terrain.Plane(terrain.GroundSize), nil
	}
	return nil, ErrNotFound
}
