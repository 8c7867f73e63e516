package assets

import (
	"errors"
	"testing"

	"github.com/Faultbox/isopixel/internal/engine/terrain"
)

type countingProvider struct {
	mesh  *terrain.Mesh
	name  string
	calls int
	err   error
}

func (p *countingProvider) Geometry(name string) (*terrain.Mesh, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if name != p.name {
		return nil, ErrNotFound
	}
	return p.mesh, nil
}

func TestBuiltinGeometry(t *testing.T) {
	var b Builtin
	for _, name := range []string{GrassBlade, GroundPlane} {
		mesh, err := b.Geometry(name)
		if err != nil {
			t.Fatalf("Geometry(%q): %v", name, err)
		}
		if len(mesh.Vertices) == 0 || len(mesh.Indices)%3 != 0 {
			t.Errorf("%s: %d vertices, %d indices", name, len(mesh.Vertices), len(mesh.Indices))
		}
	}
	ground, _ := b.Geometry(GroundPlane)
	if ground.Bounds.Max[0] != terrain.GroundSize/2 {
		t.Errorf("ground half size = %f", ground.Bounds.Max[0])
	}
	if _, err := b.Geometry("teapot"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown name gave %v", err)
	}
}

func TestManagerCachesGeometry(t *testing.T) {
	p := &countingProvider{name: "rock", mesh: terrain.Box(1, 1, 1)}
	m := NewManager()
	m.AddProvider(p)

	for i := 0; i < 3; i++ {
		mesh, err := m.Geometry("rock")
		if err != nil {
			t.Fatalf("Geometry: %v", err)
		}
		if mesh != p.mesh {
			t.Fatal("wrong mesh returned")
		}
	}
	if p.calls != 1 {
		t.Errorf("provider called %d times, want 1", p.calls)
	}
	if hits, misses := m.cache.Stats(); hits != 2 || misses != 1 {
		t.Errorf("stats = %d hits, %d misses", hits, misses)
	}
}

func TestManagerPriorityAndFallthrough(t *testing.T) {
	low := &countingProvider{name: GrassBlade, mesh: terrain.Blade(1, 1)}
	high := &countingProvider{name: "other", mesh: terrain.Plane(1)}
	m := NewManager()
	m.AddProvider(low)
	m.AddProvider(high)

	mesh, err := m.Geometry(GrassBlade)
	if err != nil {
		t.Fatalf("Geometry: %v", err)
	}
	if mesh != low.mesh || high.calls != 1 {
		t.Error("expected the later provider to be asked first and fall through")
	}

	if _, err := m.Geometry("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing geometry gave %v", err)
	}
}

func TestManagerProviderError(t *testing.T) {
	boom := errors.New("boom")
	m := NewManager()
	m.AddProvider(&countingProvider{err: boom})
	if _, err := m.Geometry("x"); !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped boom", err)
	}
}

func TestManagerClose(t *testing.T) {
	m := NewManager()
	m.AddProvider(Builtin{})
	if _, err := m.Geometry(GroundPlane); err != nil {
		t.Fatal(err)
	}
	m.Close()
	if _, err := m.Geometry(GroundPlane); !errors.Is(err, ErrNotFound) {
		t.Errorf("after Close got %v", err)
	}
}
