package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-gl/engine/model"
)

// loaderBackend defines the generic interface for loading meshes from files or streams.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load imports every mesh primitive from the given file path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - []model.Mesh: the imported meshes
	//   - error: error if loading fails
	Load(path string) ([]model.Mesh, error)

	// LoadReader imports every mesh primitive from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data, false for text-based formats
	//
	// Returns:
	//   - []model.Mesh: the imported meshes
	//   - error: error if loading fails
	LoadReader(r io.Reader, isGLB bool) ([]model.Mesh, error)
}
