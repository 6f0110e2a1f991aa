package model

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
	"github.com/chewxy/math32"
)

// PositionSize is the number of float32 components per vertex position.
const PositionSize = 3

// mesh is the implementation of the Mesh interface.
type mesh struct {
	mu *sync.Mutex

	name           string
	positions      []float32
	primitive      gl.Primitive
	boundingRadius float32

	buffers map[gl.Context]gl.Buffer
}

// Mesh defines the interface for CPU-side vertex geometry. Only positions are stored: the
// pure color shading reads no other attribute. A GPU vertex buffer is created lazily for each
// graphics context the mesh is drawn in.
type Mesh interface {
	// Name retrieves the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// Positions returns the vertex positions as packed xyz triples.
	//
	// Returns:
	//   - []float32: a copy of the position data
	Positions() []float32

	// Primitive returns how the vertices are assembled when drawn.
	//
	// Returns:
	//   - gl.Primitive: the primitive mode
	Primitive() gl.Primitive

	// VertexCount returns the number of vertices.
	//
	// Returns:
	//   - int: len(Positions()) / 3
	VertexCount() int

	// BoundingRadius returns the distance from the local origin to the farthest vertex.
	//
	// Returns:
	//   - float32: the bounding sphere radius
	BoundingRadius() float32

	// Buffer returns the vertex buffer holding the positions in ctx, creating and filling it
	// on first use.
	//
	// Parameters:
	//   - ctx: the graphics context to draw in
	//
	// Returns:
	//   - gl.Buffer: the vertex buffer
	//   - error: an error if the buffer cannot be created
	Buffer(ctx gl.Context) (gl.Buffer, error)

	// Release deletes the vertex buffer the mesh holds in ctx, if any.
	//
	// Parameters:
	//   - ctx: the graphics context
	Release(ctx gl.Context)

	// Forget drops the vertex buffer of ctx without deleting it, for use after a context loss.
	//
	// Parameters:
	//   - ctx: the graphics context
	Forget(ctx gl.Context)
}

var _ Mesh = &mesh{}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) Positions() []float32 {
	return slices.Clone(m.positions)
}

func (m *mesh) Primitive() gl.Primitive {
	return m.primitive
}

func (m *mesh) VertexCount() int {
	return len(m.positions) / PositionSize
}

func (m *mesh) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *mesh) Buffer(ctx gl.Context) (gl.Buffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b, ok := m.buffers[ctx]; ok {
		return b, nil
	}
	b, err := ctx.CreateBuffer()
	if err != nil {
		return gl.Buffer{}, fmt.Errorf("model: failed to create vertex buffer for mesh %q: %w", m.name, err)
	}
	ctx.BufferData(b, m.positions)
	m.buffers[ctx] = b
	return b, nil
}

func (m *mesh) Release(ctx gl.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b, ok := m.buffers[ctx]; ok {
		ctx.DeleteBuffer(b)
		delete(m.buffers, ctx)
	}
}

func (m *mesh) Forget(ctx gl.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buffers, ctx)
}

// boundingRadius computes the radius of the origin-centered sphere enclosing every position.
func boundingRadius(positions []float32) float32 {
	var r2 float32
	for i := 0; i+2 < len(positions); i += PositionSize {
		x, y, z := positions[i], positions[i+1], positions[i+2]
		r2 = math32.Max(r2, x*x+y*y+z*z)
	}
	return math32.Sqrt(r2)
}
