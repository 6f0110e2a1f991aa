// Package shading binds shader programs to the renderer. A Shading is the immutable
// descriptor of one shading kind (its GLSL sources); compiling it against a graphics context
// yields a Program that knows its attribute slots and pushes the renderer's transform
// matrices into its uniforms.
//
// Compilation is not cached here. Callers keep one Program per descriptor per context,
// usually through a ProgramCache.
package shading

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
)

// Names every shading program is bound through. They must match the shader sources verbatim.
const (
	AttributePosition          = "position"
	UniformProjectionMatrix    = "projection_matrix"
	UniformWorldMatrix         = "world_matrix"
	UniformCameraInverseMatrix = "camera_inverse_matrix"
)

// ErrMissingLocation matches every *MissingLocationError through errors.Is.
var ErrMissingLocation = errors.New("shading: missing location")

// LocationKind tells whether a missing location was an attribute or a uniform.
type LocationKind string

const (
	LocationAttribute LocationKind = "attribute"
	LocationUniform   LocationKind = "uniform"
)

// MissingLocationError is returned by Compile when a linked program does not expose a name
// the shading binds to, which means the sources and the binding are out of sync.
type MissingLocationError struct {
	// Shading is the kind whose program was being built.
	Shading Kind

	// Kind is the sort of location that was missing.
	Kind LocationKind

	// Name is the identifier that could not be resolved.
	Name string
}

func (e *MissingLocationError) Error() string {
	return fmt.Sprintf("shading: %s program has no active %s %q", e.Shading, e.Kind, e.Name)
}

// Is reports whether target is ErrMissingLocation.
func (e *MissingLocationError) Is(target error) bool {
	return target == ErrMissingLocation
}

// RenderState is the per-draw transform state read by Program.UploadUniforms. Every matrix
// is column-major.
type RenderState interface {
	// ModelTransform returns the object-to-world matrix of the object being drawn.
	ModelTransform() [16]float32

	// CameraInverse returns the world-to-camera matrix.
	CameraInverse() [16]float32

	// CameraProjection returns the camera-to-clip-space matrix.
	CameraProjection() [16]float32
}

// MatrixState is a plain RenderState value.
type MatrixState struct {
	Model      [16]float32
	Inverse    [16]float32
	Projection [16]float32
}

var _ RenderState = MatrixState{}

func (s MatrixState) ModelTransform() [16]float32 {
	return s.Model
}

func (s MatrixState) CameraInverse() [16]float32 {
	return s.Inverse
}

func (s MatrixState) CameraProjection() [16]float32 {
	return s.Projection
}

// Shading is the immutable descriptor of one shading kind.
type Shading interface {
	// Index returns the descriptor's position in its Registry.
	//
	// Returns:
	//   - int: the registry index
	Index() int

	// Kind returns the shading kind this descriptor implements.
	//
	// Returns:
	//   - Kind: the shading kind
	Kind() Kind

	// VertexSource returns the processed vertex shader source.
	//
	// Returns:
	//   - string: GLSL source without version or precision preamble
	VertexSource() string

	// FragmentSource returns the processed fragment shader source.
	//
	// Returns:
	//   - string: GLSL source without version or precision preamble
	FragmentSource() string

	// Compile links the descriptor's sources in ctx and resolves every attribute and uniform
	// the program binds to. Each call creates a new program.
	//
	// Parameters:
	//   - ctx: the graphics context to compile in
	//
	// Returns:
	//   - Program: the compiled program
	//   - error: wraps *gl.CompileError or gl.ErrContextLost when linking fails, or is a
	//     *MissingLocationError when a name cannot be resolved
	Compile(ctx gl.ProgramContext) (Program, error)
}

// Program is a compiled shading program in one graphics context.
type Program interface {
	// Handle returns the program handle. The caller binds it before uploads and draws.
	//
	// Returns:
	//   - gl.Program: the non-owning program handle
	Handle() gl.Program

	// Kind returns the shading kind the program was compiled from.
	//
	// Returns:
	//   - Kind: the shading kind
	Kind() Kind

	// UploadUniforms writes the world, camera-inverse and projection matrices of state into
	// their uniforms. All three are written on every call. The program must already be bound.
	//
	// Parameters:
	//   - state: the current transform state
	UploadUniforms(state RenderState)

	// AttributeLocations returns the attribute slots by name.
	//
	// Returns:
	//   - map[string]int: a copy of the attribute table
	AttributeLocations() map[string]int

	// AttributeLocation returns the slot of a single attribute.
	//
	// Parameters:
	//   - name: the attribute name
	//
	// Returns:
	//   - int: the slot index, or -1
	//   - bool: false if the program does not bind the attribute
	AttributeLocation(name string) (int, bool)
}
