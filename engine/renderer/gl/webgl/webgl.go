//go:build js && wasm

// Package webgl implements gl.Context on a browser WebGL 1 rendering context through syscall/js.
package webgl

import (
	"errors"
	"syscall/js"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
)

// Preamble is prepended to every shader source before compilation.
const Preamble = "precision mediump float;\n"

type glConsts struct {
	arrayBuffer    int
	staticDraw     int
	floatType      int
	triangles      int
	lines          int
	points         int
	colorBufferBit int
	depthBufferBit int
	depthTest      int
	compileStatus  int
	linkStatus     int
	vertexShader   int
	fragmentShader int
}

// webglContext is the implementation of gl.Context for WebGL.
type webglContext struct {
	gl     js.Value
	consts glConsts
}

var _ gl.Context = &webglContext{}

// NewContext acquires a WebGL context from the given canvas element.
//
// Parameters:
//   - canvas: an HTMLCanvasElement
//
// Returns:
//   - gl.Context: the WebGL-backed context
//   - error: error if the browser cannot provide a WebGL context
func NewContext(canvas js.Value) (gl.Context, error) {
	if canvas.IsUndefined() || canvas.IsNull() {
		return nil, errors.New("webgl: canvas is required")
	}
	ctx := canvas.Call("getContext", "webgl")
	if ctx.IsUndefined() || ctx.IsNull() {
		ctx = canvas.Call("getContext", "experimental-webgl")
	}
	if ctx.IsUndefined() || ctx.IsNull() {
		return nil, errors.New("webgl: browser does not provide a webgl context")
	}
	return Wrap(ctx), nil
}

// Wrap adapts an existing WebGLRenderingContext value.
//
// Parameters:
//   - ctx: the WebGLRenderingContext
//
// Returns:
//   - gl.Context: the wrapped context
func Wrap(ctx js.Value) gl.Context {
	c := &webglContext{gl: ctx}
	c.initConsts()
	return c
}

func (c *webglContext) initConsts() {
	c.consts = glConsts{
		arrayBuffer:    c.gl.Get("ARRAY_BUFFER").Int(),
		staticDraw:     c.gl.Get("STATIC_DRAW").Int(),
		floatType:      c.gl.Get("FLOAT").Int(),
		triangles:      c.gl.Get("TRIANGLES").Int(),
		lines:          c.gl.Get("LINES").Int(),
		points:         c.gl.Get("POINTS").Int(),
		colorBufferBit: c.gl.Get("COLOR_BUFFER_BIT").Int(),
		depthBufferBit: c.gl.Get("DEPTH_BUFFER_BIT").Int(),
		depthTest:      c.gl.Get("DEPTH_TEST").Int(),
		compileStatus:  c.gl.Get("COMPILE_STATUS").Int(),
		linkStatus:     c.gl.Get("LINK_STATUS").Int(),
		vertexShader:   c.gl.Get("VERTEX_SHADER").Int(),
		fragmentShader: c.gl.Get("FRAGMENT_SHADER").Int(),
	}
}

func (c *webglContext) IsContextLost() bool {
	return c.gl.Call("isContextLost").Bool()
}

func (c *webglContext) LinkProgram(vertexSource, fragmentSource string) (gl.Program, error) {
	if c.IsContextLost() {
		return gl.Program{}, gl.ErrContextLost
	}
	vertexShader, err := c.compileShader(gl.StageVertex, c.consts.vertexShader, vertexSource)
	if err != nil {
		return gl.Program{}, err
	}
	defer c.gl.Call("deleteShader", vertexShader)

	fragmentShader, err := c.compileShader(gl.StageFragment, c.consts.fragmentShader, fragmentSource)
	if err != nil {
		return gl.Program{}, err
	}
	defer c.gl.Call("deleteShader", fragmentShader)

	program := c.gl.Call("createProgram")
	c.gl.Call("attachShader", program, vertexShader)
	c.gl.Call("attachShader", program, fragmentShader)
	c.gl.Call("linkProgram", program)

	if !c.gl.Call("getProgramParameter", program, c.consts.linkStatus).Bool() {
		log := c.gl.Call("getProgramInfoLog", program).String()
		c.gl.Call("deleteProgram", program)
		return gl.Program{}, gl.NewCompileError(gl.StageLink, log)
	}
	c.gl.Call("detachShader", program, vertexShader)
	c.gl.Call("detachShader", program, fragmentShader)
	return gl.WrapProgram(program), nil
}

func (c *webglContext) compileShader(stage gl.Stage, shaderType int, source string) (js.Value, error) {
	shader := c.gl.Call("createShader", shaderType)
	c.gl.Call("shaderSource", shader, gl.WithPreamble(Preamble, source))
	c.gl.Call("compileShader", shader)
	if !c.gl.Call("getShaderParameter", shader, c.consts.compileStatus).Bool() {
		log := c.gl.Call("getShaderInfoLog", shader).String()
		c.gl.Call("deleteShader", shader)
		return js.Undefined(), gl.NewCompileError(stage, log)
	}
	return shader, nil
}

func (c *webglContext) AttribLocation(p gl.Program, name string) (int, bool) {
	prog, ok := p.Ref().(js.Value)
	if !ok {
		return -1, false
	}
	loc := c.gl.Call("getAttribLocation", prog, name).Int()
	if loc < 0 {
		return -1, false
	}
	return loc, true
}

func (c *webglContext) UniformLocation(p gl.Program, name string) (gl.UniformLocation, bool) {
	prog, ok := p.Ref().(js.Value)
	if !ok {
		return gl.UniformLocation{}, false
	}
	loc := c.gl.Call("getUniformLocation", prog, name)
	if loc.IsNull() || loc.IsUndefined() {
		return gl.UniformLocation{}, false
	}
	return gl.WrapUniformLocation(loc), true
}

func (c *webglContext) UniformMatrix4fv(loc gl.UniformLocation, m *[16]float32) {
	ref, ok := loc.Ref().(js.Value)
	if !ok {
		return
	}
	c.gl.Call("uniformMatrix4fv", ref, false, float32Array(m[:]))
}

func (c *webglContext) UseProgram(p gl.Program) {
	prog, ok := p.Ref().(js.Value)
	if !ok {
		c.gl.Call("useProgram", js.Null())
		return
	}
	c.gl.Call("useProgram", prog)
}

func (c *webglContext) DeleteProgram(p gl.Program) {
	if prog, ok := p.Ref().(js.Value); ok && prog.Truthy() {
		c.gl.Call("deleteProgram", prog)
	}
}

func (c *webglContext) CreateBuffer() (gl.Buffer, error) {
	if c.IsContextLost() {
		return gl.Buffer{}, gl.ErrContextLost
	}
	buf := c.gl.Call("createBuffer")
	if buf.IsNull() || buf.IsUndefined() {
		return gl.Buffer{}, errors.New("webgl: createBuffer returned null")
	}
	return gl.WrapBuffer(buf), nil
}

func (c *webglContext) BufferData(b gl.Buffer, data []float32) {
	buf, ok := b.Ref().(js.Value)
	if !ok {
		return
	}
	c.gl.Call("bindBuffer", c.consts.arrayBuffer, buf)
	c.gl.Call("bufferData", c.consts.arrayBuffer, float32Array(data), c.consts.staticDraw)
}

func (c *webglContext) VertexAttribPointer(b gl.Buffer, slot, size, stride, offset int) {
	buf, ok := b.Ref().(js.Value)
	if !ok {
		return
	}
	c.gl.Call("bindBuffer", c.consts.arrayBuffer, buf)
	c.gl.Call("vertexAttribPointer", slot, size, c.consts.floatType, false, stride, offset)
	c.gl.Call("enableVertexAttribArray", slot)
}

func (c *webglContext) DrawArrays(mode gl.Primitive, first, count int) {
	c.gl.Call("drawArrays", c.primitive(mode), first, count)
}

func (c *webglContext) primitive(mode gl.Primitive) int {
	switch mode {
	case gl.Lines:
		return c.consts.lines
	case gl.Points:
		return c.consts.points
	default:
		return c.consts.triangles
	}
}

func (c *webglContext) Viewport(x, y, width, height int) {
	c.gl.Call("viewport", x, y, width, height)
}

func (c *webglContext) Clear(r, g, b, a float32) {
	c.gl.Call("clearColor", r, g, b, a)
	c.gl.Call("clear", c.consts.colorBufferBit|c.consts.depthBufferBit)
}

func (c *webglContext) EnableDepthTest() {
	c.gl.Call("enable", c.consts.depthTest)
}

func (c *webglContext) DeleteBuffer(b gl.Buffer) {
	if buf, ok := b.Ref().(js.Value); ok && buf.Truthy() {
		c.gl.Call("deleteBuffer", buf)
	}
}
