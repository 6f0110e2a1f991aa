package gltest

import (
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
)

// SetContextLost simulates a lost (true) or restored (false) context. Restoring does not
// bring back programs or buffers created before the loss.
func (c *Context) SetContextLost(lost bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if lost && !c.lost {
		for _, p := range c.programs {
			p.deleted = true
		}
		for _, b := range c.buffers {
			b.deleted = true
		}
		c.bound = nil
	}
	c.lost = lost
}

// FailNextLink makes the next LinkProgram call fail at the link stage with the given info log.
func (c *Context) FailNextLink(log string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.linkFail = log
}

// Uploads returns every recorded UniformMatrix4fv call since the last ResetUploads.
func (c *Context) Uploads() []Upload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.uploads)
}

// ResetUploads clears the upload log. Uniform values stored in programs are kept.
func (c *Context) ResetUploads() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uploads = nil
}

// UniformValue returns the last matrix written to the named uniform of p.
//
// Parameters:
//   - p: a program issued by this context
//   - name: the uniform name
//
// Returns:
//   - [16]float32: the stored value
//   - bool: false if nothing has been written to the uniform
func (c *Context) UniformValue(p gl.Program, name string) ([16]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prog, ok := p.Ref().(*program)
	if !ok || prog.ctx != c {
		return [16]float32{}, false
	}
	v, ok := prog.values[name]
	return v, ok
}

// WrittenUniforms returns the names of the uniforms of p that hold a value, sorted.
func (c *Context) WrittenUniforms(p gl.Program) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	prog, ok := p.Ref().(*program)
	if !ok || prog.ctx != c {
		return nil
	}
	return slices.Sorted(maps.Keys(prog.values))
}

// ActiveUniforms returns the uniform names the program exposes, sorted.
func (c *Context) ActiveUniforms(p gl.Program) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	prog, ok := p.Ref().(*program)
	if !ok || prog.ctx != c {
		return nil
	}
	return slices.Sorted(maps.Keys(prog.uniforms))
}

// ProgramID returns the id this context assigned to p, or 0 for foreign handles.
func (c *Context) ProgramID(p gl.Program) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	prog, ok := p.Ref().(*program)
	if !ok || prog.ctx != c {
		return 0
	}
	return prog.id
}

// BoundProgram returns the id of the currently bound program, or 0.
func (c *Context) BoundProgram() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bound == nil {
		return 0
	}
	return c.bound.id
}

// Links returns the number of LinkProgram calls made while the context was not lost,
// whether or not they succeeded.
func (c *Context) Links() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.links
}

// LivePrograms returns the number of programs that have been linked and not deleted.
func (c *Context) LivePrograms() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, p := range c.programs {
		if !p.deleted {
			n++
		}
	}
	return n
}

// LiveBuffers returns the number of buffers that have been created and not deleted.
func (c *Context) LiveBuffers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, b := range c.buffers {
		if !b.deleted {
			n++
		}
	}
	return n
}

// BufferContents returns a copy of the data last uploaded into b.
func (c *Context) BufferContents(b gl.Buffer) []float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf, ok := b.Ref().(*buffer)
	if !ok || buf.ctx != c {
		return nil
	}
	return slices.Clone(buf.data)
}

// Attrib returns the recorded pointer configuration of a vertex attribute slot.
func (c *Context) Attrib(slot int) (AttribPointer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.attribs[slot]
	return a, ok
}

// Draws returns every recorded DrawArrays call.
func (c *Context) Draws() []Draw {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.draws)
}

// InvalidOperations returns the GL usage errors recorded so far.
func (c *Context) InvalidOperations() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.invalid)
}

// ViewportRect returns the last viewport set as x, y, width, height.
func (c *Context) ViewportRect() [4]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewport
}

// Clears returns how many times Clear was called and the last clear color.
func (c *Context) Clears() (int, [4]float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clears, c.clear
}

// DepthTestEnabled reports whether EnableDepthTest has been called.
func (c *Context) DepthTestEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.depth
}
