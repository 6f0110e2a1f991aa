package loader

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithMeshes is an option builder that pre-populates the cache with meshes under key.
//
// Parameters:
//   - key: the cache key
//   - meshes: the meshes to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the cache entry to a loader
func WithMeshes(key string, meshes ...model.Mesh) LoaderBuilderOption {
	return func(l *loader) {
		l.cache[key] = meshes
	}
}

// WithLogger sets the logger that reports loaded files.
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}
