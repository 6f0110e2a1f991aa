package scene

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
)

// Scene is a scene graph: a set of root GameObjects viewed through one Camera. Update advances
// and recomputes world matrices, Render draws every enabled object that carries a mesh.
// Scenes can be swapped via the Active flag. Safe for concurrent use, except that Render must
// run on the thread owning the renderer's graphics context.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Add attaches objects as roots of the scene graph.
	//
	// Parameters:
	//   - objects: the root objects to add
	Add(objects ...game_object.GameObject)

	// Get finds an object anywhere in the graph by ID.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove detaches the object with the given ID together with its subtree.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - bool: true if an object was removed
	Remove(id uint64) bool

	// Roots returns the root objects in insertion order.
	//
	// Returns:
	//   - []game_object.GameObject: a copy of the root list
	Roots() []game_object.GameObject

	// Count returns the number of objects in the graph, roots and descendants.
	//
	// Returns:
	//   - int: the object count
	Count() int

	// Clear removes every object from the scene. GPU buffers of their meshes are not released.
	Clear()

	// Update advances the camera and every object by deltaTime, then recomputes the world
	// matrices. Root subtrees are processed in parallel on the scene's worker pool; Update
	// returns once all of them are done.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	Update(deltaTime float32)

	// Render pushes the camera matrices to r and draws the graph depth-first. A disabled object
	// hides its whole subtree; objects without a mesh only group their children. Objects whose
	// bounding sphere lies outside the camera frustum are skipped unless culling is disabled.
	//
	// Parameters:
	//   - r: the renderer to draw with
	//
	// Returns:
	//   - error: the first draw error, or one wrapping gl.ErrContextLost
	Render(r renderer.Renderer) error

	// CullingDisabled returns whether frustum culling is disabled for this scene.
	//
	// Returns:
	//   - bool: true if culling is disabled
	CullingDisabled() bool

	// SetCullingDisabled enables or disables frustum culling for this scene.
	//
	// Parameters:
	//   - disabled: true to draw every enabled object regardless of visibility
	SetCullingDisabled(disabled bool)

	// Culled returns the number of objects the last Render skipped as off-screen.
	//
	// Returns:
	//   - int: the culled object count
	Culled() int

	// Close stops the update workers. Update is a no-op afterwards; Render still works.
	// Safe to call more than once.
	Close()
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	cam   camera.Camera
	roots []game_object.GameObject

	cullingDisabled bool
	culled          int

	// updatePool runs the per-root world matrix updates. Workers persist across frames.
	// updateMu serializes Update with Close so tasks are never submitted to a stopped pool.
	updatePool    worker.DynamicWorkerPool
	updateWorkers int
	updateMu      *sync.Mutex
	closed        bool
}

var _ Scene = &scene{}

// NewScene creates a new Scene viewed through cam. The camera is required and NewScene panics
// if it is nil.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}

	s := &scene{
		mu:            &sync.RWMutex{},
		name:          name,
		active:        true,
		cam:           cam,
		updateWorkers: max(runtime.NumCPU()-1, 1),
		updateMu:      &sync.Mutex{},
	}

	for _, option := range options {
		option(s)
	}

	// Created after options so WithUpdateWorkers can override the default.
	s.updatePool = worker.NewDynamicWorkerPool(s.updateWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	if cam == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Add(objects ...game_object.GameObject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, obj := range objects {
		if obj != nil {
			s.roots = append(s.roots, obj)
		}
	}
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found game_object.GameObject
	for _, root := range s.roots {
		walk(root, func(obj game_object.GameObject) bool {
			if found != nil {
				return false
			}
			if obj.ID() == id {
				found = obj
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

func (s *scene) Remove(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.IndexFunc(s.roots, func(obj game_object.GameObject) bool { return obj.ID() == id }); i >= 0 {
		s.roots = slices.Delete(s.roots, i, i+1)
		return true
	}
	removed := false
	for _, root := range s.roots {
		walk(root, func(obj game_object.GameObject) bool {
			if !removed && obj.RemoveChild(id) {
				removed = true
			}
			return !removed
		})
		if removed {
			return true
		}
	}
	return false
}

func (s *scene) Roots() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.roots)
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, root := range s.roots {
		walk(root, func(game_object.GameObject) bool {
			n++
			return true
		})
	}
	return n
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roots = nil
}

func (s *scene) Update(deltaTime float32) {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()
	if s.closed {
		return
	}

	s.mu.RLock()
	cam := s.cam
	roots := slices.Clone(s.roots)
	s.mu.RUnlock()

	if ctrl, ok := cam.Controller().(camera.OrbitController); ok {
		ctrl.Advance(deltaTime)
	}
	cam.Update()

	// A WaitGroup is the per-frame barrier; the pool's own Wait blocks until workers idle-exit.
	identity := common.Identity4()
	var wg sync.WaitGroup
	for i, root := range roots {
		wg.Add(1)
		s.updatePool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				root.Advance(deltaTime)
				root.UpdateWorld(identity)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (s *scene) Render(r renderer.Renderer) error {
	if r == nil {
		return errors.New("scene: renderer is required")
	}

	s.mu.RLock()
	cam := s.cam
	roots := slices.Clone(s.roots)
	cull := !s.cullingDisabled
	s.mu.RUnlock()

	r.SetCamera(cam)

	var frustum common.Frustum
	if cull {
		var viewProj [16]float32
		inverse, projection := cam.InverseMatrix(), cam.ProjectionMatrix()
		common.Mul4(viewProj[:], projection[:], inverse[:])
		frustum = common.ExtractFrustum(viewProj[:])
	}

	culled := 0
	var drawErr error
	for _, root := range roots {
		walk(root, func(obj game_object.GameObject) bool {
			if drawErr != nil || !obj.Enabled() {
				return false
			}
			mesh := obj.Mesh()
			if mesh == nil {
				return true
			}
			world := obj.WorldMatrix()
			if cull {
				x, y, z := common.TransformPoint(&world, 0, 0, 0)
				if !frustum.ContainsSphere(x, y, z, mesh.BoundingRadius()*common.MaxScale(&world)) {
					culled++
					return true
				}
			}
			if err := r.Draw(obj.Shading(), world, mesh); err != nil {
				drawErr = fmt.Errorf("scene: failed to draw object %d %q: %w", obj.ID(), obj.Name(), err)
				return false
			}
			return true
		})
		if drawErr != nil {
			break
		}
	}

	s.mu.Lock()
	s.culled = culled
	s.mu.Unlock()
	return drawErr
}

func (s *scene) CullingDisabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cullingDisabled
}

func (s *scene) SetCullingDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cullingDisabled = disabled
}

func (s *scene) Culled() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.culled
}

func (s *scene) Close() {
	s.updateMu.Lock()
	defer s.updateMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.updatePool.Stop()
}

// walk visits obj and its descendants depth-first, pre-order. Returning false from fn skips the
// visited object's children.
func walk(obj game_object.GameObject, fn func(game_object.GameObject) bool) {
	if !fn(obj) {
		return
	}
	for _, child := range obj.Children() {
		walk(child, fn)
	}
}
