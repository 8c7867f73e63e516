// Package assets resolves named geometry from registered providers and caches it.
package assets

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Faultbox/isopixel/internal/engine/terrain"
)

// ErrNotFound is returned when no provider knows a geometry name.
var ErrNotFound = errors.New("asset not found")

// Well-known geometry names.
const (
	GrassBlade  = "grass_blade"
	GroundPlane = "ground_plane"
)

// Provider supplies geometry by name.
type Provider interface {
	Geometry(name string) (*terrain.Mesh, error)
}

// Manager searches providers and caches what they return.
type Manager struct {
	providers []Provider
	cache     *Cache
	mu        sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddProvider registers a provider.
// Providers are searched in reverse order (last added = highest priority).
func (m *Manager) AddProvider(p Provider) {
	m.mu.Lock()
	m.providers = append(m.providers, p)
	m.mu.Unlock()
}

// Geometry returns the named mesh, loading it on first use.
func (m *Manager) Geometry(name string) (*terrain.Mesh, error) {
	if mesh, ok := m.cache.Get(name); ok {
		return mesh, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.providers) - 1; i >= 0; i-- {
		mesh, err := m.providers[i].Geometry(name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading geometry %s: %w", name, err)
		}
		m.cache.Set(name, mesh)
		return mesh, nil
	}

	return nil, fmt.Errorf("geometry %s: %w", name, ErrNotFound)
}

// Close drops all providers and cached geometry.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers = nil
	m.cache.Clear()
}

// Cache is a simple in-memory cache for loaded geometry.
type Cache struct {
	data map[string]*terrain.Mesh
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*terrain.Mesh),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) (*terrain.Mesh, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	mesh, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return mesh, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, mesh *terrain.Mesh) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = mesh
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*terrain.Mesh)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
