//go:build !js

// Package opengl implements gl.Context on desktop OpenGL 2.1 through go-gl. A context must
// be current on the calling OS thread (see window.NewWindow) before NewContext is called.
package opengl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
	ogl "github.com/go-gl/gl/v2.1/gl"
)

// Preamble is prepended to every shader source before compilation. GLSL 1.20 accepts the
// same attribute/uniform/varying syntax as WebGL's GLSL ES 1.00.
const Preamble = "#version 120\n"

// openglContext is the implementation of gl.Context for desktop OpenGL.
type openglContext struct{}

var _ gl.Context = &openglContext{}

// NewContext loads the OpenGL function pointers for the current context.
//
// Returns:
//   - gl.Context: the OpenGL-backed context
//   - error: error if the GL bindings cannot be initialized
func NewContext() (gl.Context, error) {
	if err := ogl.Init(); err != nil {
		return nil, fmt.Errorf("opengl: failed to initialize bindings: %w", err)
	}
	return &openglContext{}, nil
}

// IsContextLost always reports false; desktop contexts are not lost without the window closing.
func (c *openglContext) IsContextLost() bool {
	return false
}

func (c *openglContext) LinkProgram(vertexSource, fragmentSource string) (gl.Program, error) {
	vertexShader, err := compileShader(gl.StageVertex, ogl.VERTEX_SHADER, vertexSource)
	if err != nil {
		return gl.Program{}, err
	}
	defer ogl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(gl.StageFragment, ogl.FRAGMENT_SHADER, fragmentSource)
	if err != nil {
		return gl.Program{}, err
	}
	defer ogl.DeleteShader(fragmentShader)

	program := ogl.CreateProgram()
	ogl.AttachShader(program, vertexShader)
	ogl.AttachShader(program, fragmentShader)
	ogl.LinkProgram(program)

	var status int32
	ogl.GetProgramiv(program, ogl.LINK_STATUS, &status)
	if status == ogl.FALSE {
		var logLength int32
		ogl.GetProgramiv(program, ogl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		ogl.GetProgramInfoLog(program, logLength, nil, ogl.Str(log))
		ogl.DeleteProgram(program)
		return gl.Program{}, gl.NewCompileError(gl.StageLink, log)
	}
	ogl.DetachShader(program, vertexShader)
	ogl.DetachShader(program, fragmentShader)
	return gl.WrapProgram(program), nil
}

func compileShader(stage gl.Stage, shaderType uint32, source string) (uint32, error) {
	shader := ogl.CreateShader(shaderType)
	csources, free := ogl.Strs(gl.WithPreamble(Preamble, source) + "\x00")
	ogl.ShaderSource(shader, 1, csources, nil)
	free()
	ogl.CompileShader(shader)

	var status int32
	ogl.GetShaderiv(shader, ogl.COMPILE_STATUS, &status)
	if status == ogl.FALSE {
		var logLength int32
		ogl.GetShaderiv(shader, ogl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		ogl.GetShaderInfoLog(shader, logLength, nil, ogl.Str(log))
		ogl.DeleteShader(shader)
		return 0, gl.NewCompileError(stage, log)
	}
	return shader, nil
}

func (c *openglContext) AttribLocation(p gl.Program, name string) (int, bool) {
	prog, ok := p.Ref().(uint32)
	if !ok {
		return -1, false
	}
	loc := ogl.GetAttribLocation(prog, ogl.Str(name+"\x00"))
	if loc < 0 {
		return -1, false
	}
	return int(loc), true
}

func (c *openglContext) UniformLocation(p gl.Program, name string) (gl.UniformLocation, bool) {
	prog, ok := p.Ref().(uint32)
	if !ok {
		return gl.UniformLocation{}, false
	}
	loc := ogl.GetUniformLocation(prog, ogl.Str(name+"\x00"))
	if loc < 0 {
		return gl.UniformLocation{}, false
	}
	return gl.WrapUniformLocation(loc), true
}

func (c *openglContext) UniformMatrix4fv(loc gl.UniformLocation, m *[16]float32) {
	ref, ok := loc.Ref().(int32)
	if !ok {
		return
	}
	ogl.UniformMatrix4fv(ref, 1, false, &m[0])
}

func (c *openglContext) UseProgram(p gl.Program) {
	prog, _ := p.Ref().(uint32)
	ogl.UseProgram(prog)
}

func (c *openglContext) DeleteProgram(p gl.Program) {
	if prog, ok := p.Ref().(uint32); ok && prog != 0 {
		ogl.DeleteProgram(prog)
	}
}

func (c *openglContext) CreateBuffer() (gl.Buffer, error) {
	var buf uint32
	ogl.GenBuffers(1, &buf)
	if buf == 0 {
		return gl.Buffer{}, errors.New("opengl: glGenBuffers returned no buffer")
	}
	return gl.WrapBuffer(buf), nil
}

func (c *openglContext) BufferData(b gl.Buffer, data []float32) {
	buf, ok := b.Ref().(uint32)
	if !ok {
		return
	}
	ogl.BindBuffer(ogl.ARRAY_BUFFER, buf)
	if len(data) == 0 {
		ogl.BufferData(ogl.ARRAY_BUFFER, 0, nil, ogl.STATIC_DRAW)
		return
	}
	ogl.BufferData(ogl.ARRAY_BUFFER, len(data)*4, ogl.Ptr(data), ogl.STATIC_DRAW)
}

func (c *openglContext) VertexAttribPointer(b gl.Buffer, slot, size, stride, offset int) {
	buf, ok := b.Ref().(uint32)
	if !ok {
		return
	}
	ogl.BindBuffer(ogl.ARRAY_BUFFER, buf)
	ogl.VertexAttribPointer(uint32(slot), int32(size), ogl.FLOAT, false, int32(stride), ogl.PtrOffset(offset))
	ogl.EnableVertexAttribArray(uint32(slot))
}

func (c *openglContext) DrawArrays(mode gl.Primitive, first, count int) {
	ogl.DrawArrays(primitive(mode), int32(first), int32(count))
}

func primitive(mode gl.Primitive) uint32 {
	switch mode {
	case gl.Lines:
		return ogl.LINES
	case gl.Points:
		return ogl.POINTS
	default:
		return ogl.TRIANGLES
	}
}

func (c *openglContext) Viewport(x, y, width, height int) {
	ogl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (c *openglContext) Clear(r, g, b, a float32) {
	ogl.ClearColor(r, g, b, a)
	ogl.Clear(ogl.COLOR_BUFFER_BIT | ogl.DEPTH_BUFFER_BIT)
}

func (c *openglContext) EnableDepthTest() {
	ogl.Enable(ogl.DEPTH_TEST)
}

func (c *openglContext) DeleteBuffer(b gl.Buffer) {
	if buf, ok := b.Ref().(uint32); ok && buf != 0 {
		ogl.DeleteBuffers(1, &buf)
	}
}
