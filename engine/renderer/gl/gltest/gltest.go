// Package gltest provides an in-memory gl.Context that records every call made against it.
//
// Linking runs the shader sources through shader.CheckSyntax and assigns attribute and
// uniform locations from the top-level declarations found by shader.ScanDeclarations. Like a
// driver, it drops inactive names: a declaration that is never referenced outside itself
// gets no location. Activity is textual, so a name read only by dead code still counts, and
// no type checking is done. Uniform writes follow
// GL rules: they land in the currently bound program, and a write through a location
// belonging to another program is recorded as an invalid operation.
package gltest

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// Upload is one recorded UniformMatrix4fv call.
type Upload struct {
	// Program is the id of the program the location belongs to.
	Program int

	// Name is the uniform name the location was resolved from.
	Name string

	// Value is the matrix that was written.
	Value [16]float32
}

// Draw is one recorded DrawArrays call.
type Draw struct {
	Program int
	Mode    gl.Primitive
	First   int
	Count   int
}

// AttribPointer is the recorded vertex attribute configuration of one slot.
type AttribPointer struct {
	Buffer int
	Size   int
	Stride int
	Offset int
}

type program struct {
	ctx        *Context
	id         int
	attributes map[string]int
	uniforms   map[string]int
	values     map[string][16]float32
	deleted    bool
}

type uniform struct {
	program *program
	name    string
}

type buffer struct {
	ctx     *Context
	id      int
	data    []float32
	deleted bool
}

// Context is the recording implementation of gl.Context. The zero value is not usable;
// create one with New.
type Context struct {
	mu *sync.Mutex

	nextID   int
	programs []*program
	buffers  []*buffer
	bound    *program

	lost     bool
	linkFail string
	links    int

	uploads  []Upload
	draws    []Draw
	attribs  map[int]AttribPointer
	invalid  []string
	viewport [4]int
	clear    [4]float32
	clears   int
	depth    bool
}

var _ gl.Context = &Context{}

// New creates an empty recording context.
//
// Returns:
//   - *Context: the context
func New() *Context {
	return &Context{
		mu:      &sync.Mutex{},
		attribs: make(map[int]AttribPointer),
	}
}

func (c *Context) LinkProgram(vertexSource, fragmentSource string) (gl.Program, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lost {
		return gl.Program{}, gl.ErrContextLost
	}
	c.links++
	if c.linkFail != "" {
		log := c.linkFail
		c.linkFail = ""
		return gl.Program{}, gl.NewCompileError(gl.StageLink, log)
	}
	if err := shader.CheckSyntax(vertexSource); err != nil {
		return gl.Program{}, gl.NewCompileError(gl.StageVertex, err.Error())
	}
	if err := shader.CheckSyntax(fragmentSource); err != nil {
		return gl.Program{}, gl.NewCompileError(gl.StageFragment, err.Error())
	}

	vertexDecls := shader.ScanDeclarations(vertexSource)
	fragmentDecls := shader.ScanDeclarations(fragmentSource)

	for _, d := range fragmentDecls {
		if d.Qualifier == shader.QualifierAttribute {
			return gl.Program{}, gl.NewCompileError(gl.StageFragment,
				fmt.Sprintf("ERROR: 0:%d: '%s' : attribute declared in fragment shader", d.Line, d.Name))
		}
		if d.Qualifier == shader.QualifierVarying && !declared(vertexDecls, shader.QualifierVarying, d.Name) {
			return gl.Program{}, gl.NewCompileError(gl.StageLink,
				fmt.Sprintf("ERROR: Varying '%s' is not declared in the vertex shader", d.Name))
		}
	}

	c.nextID++
	p := &program{
		ctx:        c,
		id:         c.nextID,
		attributes: make(map[string]int),
		uniforms:   make(map[string]int),
		values:     make(map[string][16]float32),
	}
	active := func(name string) bool {
		return shader.Referenced(vertexSource, name) || shader.Referenced(fragmentSource, name)
	}
	for _, d := range slices.Concat(vertexDecls, fragmentDecls) {
		if !active(d.Name) {
			continue
		}
		switch d.Qualifier {
		case shader.QualifierAttribute:
			if _, ok := p.attributes[d.Name]; !ok {
				p.attributes[d.Name] = len(p.attributes)
			}
		case shader.QualifierUniform:
			if _, ok := p.uniforms[d.Name]; !ok {
				p.uniforms[d.Name] = len(p.uniforms)
			}
		}
	}
	c.programs = append(c.programs, p)
	return gl.WrapProgram(p), nil
}

func declared(decls []shader.Declaration, q shader.Qualifier, name string) bool {
	return slices.ContainsFunc(decls, func(d shader.Declaration) bool {
		return d.Qualifier == q && d.Name == name
	})
}

// own resolves a program handle issued by this context.
func (c *Context) own(p gl.Program) (*program, bool) {
	prog, ok := p.Ref().(*program)
	if !ok || prog.ctx != c || prog.deleted {
		return nil, false
	}
	return prog, true
}

func (c *Context) AttribLocation(p gl.Program, name string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prog, ok := c.own(p)
	if !ok {
		return -1, false
	}
	slot, ok := prog.attributes[name]
	if !ok {
		return -1, false
	}
	return slot, true
}

func (c *Context) UniformLocation(p gl.Program, name string) (gl.UniformLocation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prog, ok := c.own(p)
	if !ok {
		return gl.UniformLocation{}, false
	}
	if _, ok := prog.uniforms[name]; !ok {
		return gl.UniformLocation{}, false
	}
	return gl.WrapUniformLocation(&uniform{program: prog, name: name}), true
}

func (c *Context) UniformMatrix4fv(loc gl.UniformLocation, m *[16]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, ok := loc.Ref().(*uniform)
	if !ok || u.program.ctx != c {
		c.invalid = append(c.invalid, "uniformMatrix4fv: location not issued by this context")
		return
	}
	c.uploads = append(c.uploads, Upload{Program: u.program.id, Name: u.name, Value: *m})
	if c.bound != u.program {
		c.invalid = append(c.invalid, fmt.Sprintf("uniformMatrix4fv: location %q belongs to program %d which is not bound", u.name, u.program.id))
		return
	}
	u.program.values[u.name] = *m
}

func (c *Context) IsContextLost() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lost
}

func (c *Context) UseProgram(p gl.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p.IsZero() {
		c.bound = nil
		return
	}
	prog, ok := c.own(p)
	if !ok {
		c.invalid = append(c.invalid, "useProgram: program not issued by this context")
		return
	}
	c.bound = prog
}

func (c *Context) DeleteProgram(p gl.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prog, ok := c.own(p)
	if !ok {
		return
	}
	prog.deleted = true
	if c.bound == prog {
		c.bound = nil
	}
}

func (c *Context) CreateBuffer() (gl.Buffer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lost {
		return gl.Buffer{}, gl.ErrContextLost
	}
	c.nextID++
	b := &buffer{ctx: c, id: c.nextID}
	c.buffers = append(c.buffers, b)
	return gl.WrapBuffer(b), nil
}

func (c *Context) ownBuffer(b gl.Buffer) (*buffer, bool) {
	buf, ok := b.Ref().(*buffer)
	if !ok || buf.ctx != c || buf.deleted {
		return nil, false
	}
	return buf, true
}

func (c *Context) BufferData(b gl.Buffer, data []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf, ok := c.ownBuffer(b)
	if !ok {
		c.invalid = append(c.invalid, "bufferData: buffer not issued by this context")
		return
	}
	buf.data = slices.Clone(data)
}

func (c *Context) VertexAttribPointer(b gl.Buffer, slot, size, stride, offset int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf, ok := c.ownBuffer(b)
	if !ok {
		c.invalid = append(c.invalid, "vertexAttribPointer: buffer not issued by this context")
		return
	}
	c.attribs[slot] = AttribPointer{Buffer: buf.id, Size: size, Stride: stride, Offset: offset}
}

func (c *Context) DrawArrays(mode gl.Primitive, first, count int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bound == nil {
		c.invalid = append(c.invalid, "drawArrays: no program bound")
		return
	}
	c.draws = append(c.draws, Draw{Program: c.bound.id, Mode: mode, First: first, Count: count})
}

func (c *Context) Viewport(x, y, width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewport = [4]int{x, y, width, height}
}

func (c *Context) Clear(r, g, b, a float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear = [4]float32{r, g, b, a}
	c.clears++
}

func (c *Context) EnableDepthTest() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.depth = true
}

func (c *Context) DeleteBuffer(b gl.Buffer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if buf, ok := c.ownBuffer(b); ok {
		buf.deleted = true
	}
}
