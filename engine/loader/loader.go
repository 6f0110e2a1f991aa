// Package loader imports position-only meshes from glTF 2.0 files (.gltf with embedded or
// external buffers, and binary .glb) and caches them by path or name.
package loader

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	logger *slog.Logger

	cache map[string][]model.Mesh

	backend loaderBackend
}

// Loader loads meshes from model files and caches them. The file format is hidden behind a
// backend; only glTF/GLB is available.
type Loader interface {
	// Load imports a model file and caches the result by its cleaned path. A cached result is
	// returned without touching the file again.
	//
	// Parameters:
	//   - path: the .gltf or .glb file path
	//
	// Returns:
	//   - []model.Mesh: one mesh per primitive in the file
	//   - error: error if the extension is unknown or the file cannot be imported
	Load(path string) ([]model.Mesh, error)

	// LoadReader imports a model from a reader stream and caches it by name.
	//
	// Parameters:
	//   - name: the cache key for the loaded meshes
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//
	// Returns:
	//   - []model.Mesh: one mesh per primitive
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, isGLB bool) ([]model.Mesh, error)

	// Get retrieves cached meshes by path or name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - []model.Mesh: the cached meshes or nil
	Get(name string) []model.Mesh

	// Meshes returns a copy of the cache.
	//
	// Returns:
	//   - map[string][]model.Mesh: all cached meshes keyed by path or name
	Meshes() map[string][]model.Mesh

	// Release frees the buffers every cached mesh holds on ctx and empties the cache.
	//
	// Parameters:
	//   - ctx: the graphics context the meshes were drawn with
	Release(ctx gl.Context)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		logger: slog.Default(),
		cache:  make(map[string][]model.Mesh),
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) ([]model.Mesh, error) {
	key := filepath.Clean(path)
	if cached := l.Get(key); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(key)
	if err != nil {
		return nil, err
	}

	meshes, err := backend.Load(key)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to load %s: %w", key, err)
	}
	return l.store(key, meshes), nil
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool) ([]model.Mesh, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}
	if l.backend == nil {
		return nil, fmt.Errorf("loader: no backend configured")
	}

	meshes, err := l.backend.LoadReader(r, isGLB)
	if err != nil {
		return nil, fmt.Errorf("loader: failed to load from reader %q: %w", name, err)
	}
	return l.store(name, meshes), nil
}

// store caches meshes under key unless a concurrent load got there first, in which case the
// earlier result wins so every caller shares the same meshes.
func (l *loader) store(key string, meshes []model.Mesh) []model.Mesh {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.cache[key]; ok {
		return cached
	}
	l.cache[key] = meshes

	vertices := 0
	for _, m := range meshes {
		vertices += m.VertexCount()
	}
	l.logger.Debug("loaded meshes", "source", key, "meshes", len(meshes), "vertices", vertices)
	return meshes
}

func (l *loader) Get(name string) []model.Mesh {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cache[name]
}

func (l *loader) Meshes() map[string][]model.Mesh {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return maps.Clone(l.cache)
}

func (l *loader) Release(ctx gl.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, meshes := range l.cache {
		for _, m := range meshes {
			m.Release(ctx)
		}
		delete(l.cache, key)
	}
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		if l.backend == nil {
			return nil, fmt.Errorf("loader: no backend configured for %s", ext)
		}
		return l.backend, nil
	default:
		return nil, fmt.Errorf("loader: unsupported model format %q", ext)
	}
}
