package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shading"
)

// ErrNoShading is returned by DrawMesh when no shading has been made current with UseShading.
var ErrNoShading = errors.New("renderer: no shading in use")

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	ctx         gl.Context
	backendType BackendType
	logger      *slog.Logger

	registry shading.Registry
	programs shading.ProgramCache

	clearColor [4]float32

	modelTransform [16]float32
	cameraInverse  [16]float32
	projection     [16]float32

	current shading.Program
	bound   shading.Program
	lost    bool

	meshes map[model.Mesh]struct{}
	stats  Stats

	// failed holds the kinds whose build failure has been logged.
	failed map[shading.Kind]struct{}
}

// Renderer draws meshes through shading programs on one graphics context.
//
// The Renderer holds the transform state read by every shading program: the model transform
// of the object being drawn plus the camera-inverse and projection matrices of the active
// camera. UseShading makes a program current and pushes that state into it; DrawMesh then
// draws a mesh with the current program. All methods must be called from the thread that owns
// the graphics context.
type Renderer interface {
	shading.RenderState

	// Backend returns the graphics API behind the renderer's context.
	//
	// Returns:
	//   - BackendType: the backend type
	Backend() BackendType

	// Context returns the graphics context the renderer draws with.
	//
	// Returns:
	//   - gl.Context: the context
	Context() gl.Context

	// Registry returns the shading descriptors the renderer compiles programs from.
	//
	// Returns:
	//   - shading.Registry: the registry
	Registry() shading.Registry

	// SetModelTransform sets the object-to-world matrix used by the next UseShading call.
	//
	// Parameters:
	//   - m: the model matrix, column-major
	SetModelTransform(m [16]float32)

	// SetCamera copies the camera-inverse and projection matrices of cam.
	//
	// Parameters:
	//   - cam: the active camera
	SetCamera(cam camera.Camera)

	// SetCameraMatrices sets the camera-inverse and projection matrices directly.
	//
	// Parameters:
	//   - inverse: the world-to-camera matrix, column-major
	//   - projection: the projection matrix, column-major
	SetCameraMatrices(inverse, projection [16]float32)

	// UseShading makes the program of kind current, compiling it on first use. The program is
	// bound only when it differs from the previously bound one; its three transform uniforms
	// are written on every call.
	//
	// Parameters:
	//   - kind: the shading kind to draw with
	//
	// Returns:
	//   - error: the compile error, or one wrapping gl.ErrContextLost while the context is lost
	UseShading(kind shading.Kind) error

	// DrawMesh draws mesh with the current shading program, uploading its vertex buffer on
	// first use.
	//
	// Parameters:
	//   - mesh: the mesh to draw
	//
	// Returns:
	//   - error: ErrNoShading if UseShading has not succeeded, or a buffer creation error
	DrawMesh(mesh model.Mesh) error

	// Draw sets the model transform, makes kind current and draws mesh.
	//
	// Parameters:
	//   - kind: the shading kind
	//   - modelTransform: the object-to-world matrix
	//   - mesh: the mesh to draw
	//
	// Returns:
	//   - error: any error from UseShading or DrawMesh
	Draw(kind shading.Kind, modelTransform [16]float32, mesh model.Mesh) error

	// BeginFrame clears the color and depth buffers and resets the frame stats. When the
	// context came back after being lost, every cached program and buffer is dropped first so
	// they are rebuilt on demand.
	//
	// Returns:
	//   - error: one wrapping gl.ErrContextLost while the context is lost
	BeginFrame() error

	// Resize sets the viewport to the full surface and enables depth testing.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	Resize(width, height int)

	// Stats returns the counters of the current frame.
	//
	// Returns:
	//   - Stats: the frame counters
	Stats() Stats

	// Restore drops every cached program and mesh buffer without deleting them. Call it after
	// the context has been restored; BeginFrame calls it automatically.
	Restore()

	// Close deletes every program and mesh buffer the renderer created.
	Close()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer drawing on ctx. Without WithRegistry it builds the default
// shading registry.
//
// Parameters:
//   - ctx: the graphics context
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the new renderer
//   - error: error if the context is nil or the default registry cannot be built
func NewRenderer(ctx gl.Context, options ...RendererBuilderOption) (Renderer, error) {
	if ctx == nil {
		return nil, errors.New("renderer: graphics context is required")
	}
	r := &renderer{
		mu:             &sync.Mutex{},
		ctx:            ctx,
		logger:         slog.Default(),
		clearColor:     [4]float32{0, 0, 0, 1},
		modelTransform: common.Identity4(),
		cameraInverse:  common.Identity4(),
		projection:     common.Identity4(),
		meshes:         make(map[model.Mesh]struct{}),
		failed:         make(map[shading.Kind]struct{}),
	}
	for _, option := range options {
		option(r)
	}
	if r.registry == nil {
		registry, err := shading.NewRegistry()
		if err != nil {
			return nil, fmt.Errorf("renderer: failed to build shading registry: %w", err)
		}
		r.registry = registry
	}
	r.programs = shading.NewProgramCache(ctx, r.registry)
	r.logger = r.logger.With("backend", r.backendType.String())
	return r, nil
}

func (r *renderer) Backend() BackendType {
	return r.backendType
}

func (r *renderer) Context() gl.Context {
	return r.ctx
}

func (r *renderer) Registry() shading.Registry {
	return r.registry
}

func (r *renderer) ModelTransform() [16]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modelTransform
}

func (r *renderer) CameraInverse() [16]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cameraInverse
}

func (r *renderer) CameraProjection() [16]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.projection
}

func (r *renderer) SetModelTransform(m [16]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modelTransform = m
}

func (r *renderer) SetCamera(cam camera.Camera) {
	if cam == nil {
		return
	}
	r.SetCameraMatrices(cam.InverseMatrix(), cam.ProjectionMatrix())
}

func (r *renderer) SetCameraMatrices(inverse, projection [16]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cameraInverse = inverse
	r.projection = projection
}

func (r *renderer) UseShading(kind shading.Kind) error {
	p, err := r.programs.Program(kind)
	if err != nil {
		r.mu.Lock()
		r.current = nil
		_, logged := r.failed[kind]
		lost := errors.Is(err, gl.ErrContextLost)
		if !lost {
			r.failed[kind] = struct{}{}
		}
		r.mu.Unlock()
		if lost {
			r.markLost()
			return err
		}
		if !logged {
			r.logger.Error("failed to build shading program", "kind", kind.String(), "error", err)
		}
		return err
	}

	r.mu.Lock()
	if p != r.bound {
		r.ctx.UseProgram(p.Handle())
		r.bound = p
		r.stats.ProgramBinds++
	}
	r.current = p
	r.stats.UniformUploads++
	r.mu.Unlock()

	// UploadUniforms reads the state back through the RenderState getters.
	p.UploadUniforms(r)
	return nil
}

func (r *renderer) DrawMesh(mesh model.Mesh) error {
	if mesh == nil {
		return errors.New("renderer: mesh is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return ErrNoShading
	}
	slot, ok := r.current.AttributeLocation(shading.AttributePosition)
	if !ok {
		return fmt.Errorf("renderer: %s program has no %s attribute", r.current.Kind(), shading.AttributePosition)
	}
	buf, err := mesh.Buffer(r.ctx)
	if err != nil {
		return err
	}
	r.meshes[mesh] = struct{}{}

	r.ctx.VertexAttribPointer(buf, slot, model.PositionSize, 0, 0)
	r.ctx.DrawArrays(mesh.Primitive(), 0, mesh.VertexCount())
	r.stats.DrawCalls++
	return nil
}

func (r *renderer) Draw(kind shading.Kind, modelTransform [16]float32, mesh model.Mesh) error {
	r.SetModelTransform(modelTransform)
	if err := r.UseShading(kind); err != nil {
		return err
	}
	return r.DrawMesh(mesh)
}

func (r *renderer) BeginFrame() error {
	if r.ctx.IsContextLost() {
		r.markLost()
		return fmt.Errorf("renderer: cannot begin frame: %w", gl.ErrContextLost)
	}

	r.mu.Lock()
	wasLost := r.lost
	r.mu.Unlock()
	if wasLost {
		r.Restore()
		r.logger.Info("graphics context restored, rebuilding programs and buffers on demand")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = Stats{}
	r.ctx.Clear(r.clearColor[0], r.clearColor[1], r.clearColor[2], r.clearColor[3])
	return nil
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.ctx.Viewport(0, 0, width, height)
	r.ctx.EnableDepthTest()
}

func (r *renderer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

func (r *renderer) Restore() {
	r.programs.Reset()

	r.mu.Lock()
	defer r.mu.Unlock()
	for mesh := range r.meshes {
		mesh.Forget(r.ctx)
	}
	clear(r.meshes)
	clear(r.failed)
	r.current = nil
	r.bound = nil
	r.lost = false
}

func (r *renderer) Close() {
	r.programs.Release()

	r.mu.Lock()
	defer r.mu.Unlock()
	for mesh := range r.meshes {
		mesh.Release(r.ctx)
	}
	clear(r.meshes)
	clear(r.failed)
	r.current = nil
	r.bound = nil
}

// markLost records the context loss, logging it once.
func (r *renderer) markLost() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lost {
		return
	}
	r.lost = true
	r.current = nil
	r.bound = nil
	r.logger.Warn("graphics context lost")
}
