package model

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
)

// MeshBuilderOption is a functional option applied to a mesh during construction via NewMesh.
type MeshBuilderOption func(*mesh)

// NewMesh creates a Mesh from packed xyz positions.
//
// Parameters:
//   - name: the mesh identifier
//   - positions: vertex positions, three components per vertex
//   - options: optional MeshBuilderOption values
//
// Returns:
//   - Mesh: the new mesh
//   - error: an error if positions is empty or not a multiple of three
func NewMesh(name string, positions []float32, options ...MeshBuilderOption) (Mesh, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("model: mesh %q has no positions", name)
	}
	if len(positions)%PositionSize != 0 {
		return nil, fmt.Errorf("model: mesh %q has %d position components, not a multiple of %d", name, len(positions), PositionSize)
	}
	m := &mesh{
		mu:        &sync.Mutex{},
		name:      name,
		positions: slices.Clone(positions),
		primitive: gl.Triangles,
		buffers:   make(map[gl.Context]gl.Buffer),
	}
	for _, opt := range options {
		opt(m)
	}
	m.boundingRadius = boundingRadius(m.positions)
	return m, nil
}

// WithPrimitive sets how the mesh's vertices are assembled. The default is gl.Triangles.
//
// Parameters:
//   - primitive: the primitive mode
//
// Returns:
//   - MeshBuilderOption: a function that applies the primitive option to a mesh
func WithPrimitive(primitive gl.Primitive) MeshBuilderOption {
	return func(m *mesh) {
		m.primitive = primitive
	}
}
