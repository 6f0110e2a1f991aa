package shading

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
)

// programCache is the implementation of the ProgramCache interface.
type programCache struct {
	mu       *sync.Mutex
	ctx      gl.ProgramContext
	registry Registry
	programs map[Kind]Program

	// failed holds the compile error of each kind whose sources did not build. Recompiling
	// the same sources cannot succeed, so the error is returned until Reset or Release.
	failed map[Kind]error
}

// ProgramCache compiles each Registry descriptor at most once for one graphics context.
type ProgramCache interface {
	// Program returns the compiled program of kind, compiling it on first use. A kind that
	// failed to compile is not compiled again; its first error is returned instead.
	//
	// Parameters:
	//   - kind: the shading kind
	//
	// Returns:
	//   - Program: the compiled program
	//   - error: gl.ErrContextLost (wrapped) while the context is lost, or the Compile error
	Program(kind Kind) (Program, error)

	// Reset forgets every cached program and compile failure without deleting anything. Call
	// it once a lost context has been restored; the old handles died with the context.
	Reset()

	// Release deletes every cached program, forgets compile failures and empties the cache.
	Release()

	// Len returns the number of cached programs.
	Len() int
}

var _ ProgramCache = &programCache{}

// NewProgramCache creates an empty cache for ctx.
//
// Parameters:
//   - ctx: the graphics context programs are compiled in
//   - registry: the descriptors to compile from
//
// Returns:
//   - ProgramCache: the cache
func NewProgramCache(ctx gl.ProgramContext, registry Registry) ProgramCache {
	return &programCache{
		mu:       &sync.Mutex{},
		ctx:      ctx,
		registry: registry,
		programs: make(map[Kind]Program),
		failed:   make(map[Kind]error),
	}
}

func (c *programCache) Program(kind Kind) (Program, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ctx.IsContextLost() {
		return nil, fmt.Errorf("shading: %s program unavailable: %w", kind, gl.ErrContextLost)
	}
	if p, ok := c.programs[kind]; ok {
		return p, nil
	}
	if err, ok := c.failed[kind]; ok {
		return nil, err
	}
	s, ok := c.registry.Shading(kind)
	if !ok {
		return nil, fmt.Errorf("shading: unknown kind %s", kind)
	}
	p, err := s.Compile(c.ctx)
	if err != nil {
		if !errors.Is(err, gl.ErrContextLost) {
			c.failed[kind] = err
		}
		return nil, err
	}
	c.programs[kind] = p
	return p, nil
}

func (c *programCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.programs)
	clear(c.failed)
}

func (c *programCache) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for kind, p := range c.programs {
		c.ctx.DeleteProgram(p.Handle())
		delete(c.programs, kind)
	}
	clear(c.failed)
}

func (c *programCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.programs)
}
