package renderer

import "fmt"

// BackendType identifies the graphics API behind the Renderer's gl.Context.
type BackendType int

const (
	// BackendTypeWebGL is a browser WebGL 1 context.
	BackendTypeWebGL BackendType = iota

	// BackendTypeOpenGL is a desktop OpenGL 2.1 context.
	BackendTypeOpenGL

	// BackendTypeRecording is an in-memory context that records calls instead of drawing.
	BackendTypeRecording
)

func (b BackendType) String() string {
	switch b {
	case BackendTypeWebGL:
		return "webgl"
	case BackendTypeOpenGL:
		return "opengl"
	case BackendTypeRecording:
		return "recording"
	default:
		return fmt.Sprintf("BackendType(%d)", int(b))
	}
}

// Stats counts the GL work issued since the last BeginFrame.
type Stats struct {
	// DrawCalls is the number of DrawArrays calls.
	DrawCalls int

	// ProgramBinds is the number of times the active program changed.
	ProgramBinds int

	// UniformUploads is the number of UploadUniforms calls. Each writes three matrices.
	UniformUploads int
}
