// Package gl defines the graphics context boundary the renderer is written against.
// Backends live in the webgl (browser, syscall/js) and opengl (desktop, go-gl)
// sub-packages; tests use the recording context in gltest.
//
// Handles returned by a Context are non-owning references. The context that produced
// them stays the sole owner of the GPU objects and may invalidate them, for example
// when a WebGL context is lost.
package gl

import (
	"errors"
	"fmt"
	"strings"
)

// ErrContextLost is returned when the underlying graphics context has been lost and
// can no longer create or use GPU objects.
var ErrContextLost = errors.New("gl: context lost")

// Stage identifies which step of program construction produced a CompileError.
type Stage int

const (
	// StageVertex is the vertex shader compile step.
	StageVertex Stage = iota

	// StageFragment is the fragment shader compile step.
	StageFragment

	// StageLink is the program link step.
	StageLink
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageLink:
		return "link"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// CompileError reports a shader compile or program link failure together with the
// driver's info log.
type CompileError struct {
	// Stage is the step that failed.
	Stage Stage

	// Log is the diagnostic text reported by the shader compiler or linker. Never empty.
	Log string
}

func (e *CompileError) Error() string {
	if e.Stage == StageLink {
		return "gl: link error: " + e.Log
	}
	return fmt.Sprintf("gl: %s shader compile error: %s", e.Stage, e.Log)
}

// NewCompileError builds a CompileError, substituting a generic message when the driver
// returned an empty info log so the diagnostic is never blank.
//
// Parameters:
//   - stage: the failing step
//   - log: the raw info log from the driver
//
// Returns:
//   - *CompileError: the error value
func NewCompileError(stage Stage, log string) *CompileError {
	log = strings.TrimRight(log, "\x00 \r\n\t")
	if log == "" {
		log = "no diagnostic reported by driver"
	}
	return &CompileError{Stage: stage, Log: log}
}

// Primitive selects how DrawArrays assembles vertices.
type Primitive int

const (
	// Triangles draws every three vertices as a triangle.
	Triangles Primitive = iota

	// Lines draws every two vertices as a line segment.
	Lines

	// Points draws every vertex as a point.
	Points
)

// Program is an opaque, non-owning reference to a linked GPU program.
type Program struct {
	ref any
}

// WrapProgram wraps a backend-specific program reference.
func WrapProgram(ref any) Program {
	return Program{ref: ref}
}

// Ref returns the backend-specific reference.
func (p Program) Ref() any {
	return p.ref
}

// IsZero reports whether the handle refers to nothing.
func (p Program) IsZero() bool {
	return p.ref == nil
}

// UniformLocation is an opaque, non-owning reference to a uniform slot of a program.
type UniformLocation struct {
	ref any
}

// WrapUniformLocation wraps a backend-specific uniform location.
func WrapUniformLocation(ref any) UniformLocation {
	return UniformLocation{ref: ref}
}

// Ref returns the backend-specific reference.
func (u UniformLocation) Ref() any {
	return u.ref
}

// IsZero reports whether the handle refers to nothing.
func (u UniformLocation) IsZero() bool {
	return u.ref == nil
}

// Buffer is an opaque, non-owning reference to a GPU vertex buffer.
type Buffer struct {
	ref any
}

// WrapBuffer wraps a backend-specific buffer reference.
func WrapBuffer(ref any) Buffer {
	return Buffer{ref: ref}
}

// Ref returns the backend-specific reference.
func (b Buffer) Ref() any {
	return b.ref
}

// IsZero reports whether the handle refers to nothing.
func (b Buffer) IsZero() bool {
	return b.ref == nil
}

// ProgramContext is the subset of a graphics context needed to build shading programs
// and push uniform values into them.
type ProgramContext interface {
	// LinkProgram compiles the vertex and fragment sources and links them into a program.
	// The intermediate shader objects are released once linking finishes.
	//
	// Parameters:
	//   - vertexSource: GLSL vertex shader text, without version or precision preamble
	//   - fragmentSource: GLSL fragment shader text, without version or precision preamble
	//
	// Returns:
	//   - Program: the linked program handle
	//   - error: a *CompileError on compile or link failure, ErrContextLost if the context is lost
	LinkProgram(vertexSource, fragmentSource string) (Program, error)

	// AttribLocation looks up the slot index of a vertex attribute.
	//
	// Parameters:
	//   - p: the program to query
	//   - name: the attribute name as declared in the shader
	//
	// Returns:
	//   - int: the slot index
	//   - bool: false if the program has no active attribute with that name
	AttribLocation(p Program, name string) (int, bool)

	// UniformLocation looks up the location of a uniform variable.
	//
	// Parameters:
	//   - p: the program to query
	//   - name: the uniform name as declared in the shader
	//
	// Returns:
	//   - UniformLocation: the location handle
	//   - bool: false if the program has no active uniform with that name
	UniformLocation(p Program, name string) (UniformLocation, bool)

	// UniformMatrix4fv writes a column-major 4x4 matrix into a uniform of the currently bound program.
	//
	// Parameters:
	//   - loc: the target uniform location
	//   - m: the matrix, column-major
	UniformMatrix4fv(loc UniformLocation, m *[16]float32)

	// DeleteProgram releases the GPU program. Deleting a zero or foreign handle is a no-op.
	DeleteProgram(p Program)

	// IsContextLost reports whether the context has been lost.
	//
	// Returns:
	//   - bool: true if the context can no longer be used
	IsContextLost() bool
}

// Context is a full rendering context: program construction plus the buffer and draw
// calls the renderer issues.
type Context interface {
	ProgramContext

	// UseProgram makes p the active program for subsequent uniform uploads and draws.
	UseProgram(p Program)

	// CreateBuffer allocates a vertex buffer.
	//
	// Returns:
	//   - Buffer: the buffer handle
	//   - error: ErrContextLost or a backend error
	CreateBuffer() (Buffer, error)

	// BufferData uploads float32 vertex data into b, replacing its contents.
	BufferData(b Buffer, data []float32)

	// VertexAttribPointer binds b and describes float32 attribute data for slot, then enables the slot.
	//
	// Parameters:
	//   - b: the buffer holding the data
	//   - slot: the attribute slot index
	//   - size: components per vertex (1-4)
	//   - stride: bytes between consecutive vertices, 0 for tightly packed
	//   - offset: byte offset of the first component
	VertexAttribPointer(b Buffer, slot, size, stride, offset int)

	// DrawArrays draws count vertices starting at first using the active program.
	DrawArrays(mode Primitive, first, count int)

	// Viewport sets the viewport rectangle in pixels.
	Viewport(x, y, width, height int)

	// Clear clears the color and depth buffers, using the given clear color.
	Clear(r, g, b, a float32)

	// EnableDepthTest turns on depth testing with the default less-than function.
	EnableDepthTest()

	// DeleteBuffer releases the GPU buffer.
	DeleteBuffer(b Buffer)
}

// WithPreamble prefixes a shader source with a backend preamble, making sure a newline
// separates the two and the source ends with one.
//
// Parameters:
//   - preamble: version/precision header for the backend
//   - source: the shader source
//
// Returns:
//   - string: the combined source
func WithPreamble(preamble, source string) string {
	var sb strings.Builder
	sb.Grow(len(preamble) + len(source) + 2)
	sb.WriteString(preamble)
	if preamble != "" && !strings.HasSuffix(preamble, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(source)
	if !strings.HasSuffix(source, "\n") {
		sb.WriteString("\n")
	}
	return sb.String()
}
