package game_object

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shading"
)

// objectCount is an atomic counter used to generate unique IDs for objects built without WithID.
var objectCount atomic.Uint64

type gameObject struct {
	mu *sync.Mutex

	id      uint64
	name    string
	enabled atomic.Bool

	position      [3]float32
	rotation      [3]float32
	scale         [3]float32
	rotationSpeed [3]float32

	shadingKind shading.Kind
	mesh        model.Mesh
	children    []GameObject

	world [16]float32
}

// GameObject is a node of the scene graph. It carries a local transform, the shading kind and
// mesh it is drawn with, and its child nodes. A node without a mesh only groups its children.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the identifier
	ID() uint64

	// Name returns the object's display name.
	Name() string

	// Enabled reports whether the object and its subtree are drawn.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled enables or disables the object and, through it, its subtree.
	SetEnabled(enabled bool)

	// Position returns the translation relative to the parent.
	Position() (x, y, z float32)

	// SetPosition sets the translation relative to the parent.
	SetPosition(x, y, z float32)

	// Rotation returns the Euler rotation in radians.
	Rotation() (rx, ry, rz float32)

	// SetRotation sets the Euler rotation in radians.
	SetRotation(rx, ry, rz float32)

	// RotationSpeed returns the angular velocity applied by Advance, in radians per second.
	RotationSpeed() (rx, ry, rz float32)

	// SetRotationSpeed sets the angular velocity applied by Advance.
	SetRotationSpeed(rx, ry, rz float32)

	// Scale returns the scale factors.
	Scale() (sx, sy, sz float32)

	// SetScale sets the scale factors.
	SetScale(sx, sy, sz float32)

	// Shading returns the shading kind the mesh is drawn with.
	//
	// Returns:
	//   - shading.Kind: the shading kind
	Shading() shading.Kind

	// SetShading sets the shading kind the mesh is drawn with.
	SetShading(kind shading.Kind)

	// Mesh returns the drawn mesh, or nil for a group node.
	//
	// Returns:
	//   - model.Mesh: the mesh or nil
	Mesh() model.Mesh

	// SetMesh sets the drawn mesh. Nil turns the object into a group node.
	SetMesh(m model.Mesh)

	// Children returns the direct children in insertion order.
	//
	// Returns:
	//   - []GameObject: a copy of the child list
	Children() []GameObject

	// AddChild appends a child node.
	//
	// Parameters:
	//   - child: the node to attach
	AddChild(child GameObject)

	// RemoveChild detaches the direct child with the given ID.
	//
	// Parameters:
	//   - id: the child's ID
	//
	// Returns:
	//   - bool: true if a child was removed
	RemoveChild(id uint64) bool

	// Advance applies the rotation speed over dt seconds to this object and every descendant.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Advance(dt float32)

	// LocalMatrix builds the object-to-parent matrix from position, rotation and scale.
	//
	// Returns:
	//   - [16]float32: the local matrix, column-major
	LocalMatrix() [16]float32

	// WorldMatrix returns the object-to-world matrix computed by the last UpdateWorld.
	//
	// Returns:
	//   - [16]float32: the world matrix, column-major
	WorldMatrix() [16]float32

	// UpdateWorld recomputes the world matrix of this object and every descendant.
	//
	// Parameters:
	//   - parent: the parent's world matrix, identity for a root
	UpdateWorld(parent [16]float32)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new enabled GameObject at the origin with unit scale and the pure
// color shading.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the new object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:          &sync.Mutex{},
		id:          objectCount.Add(1),
		scale:       [3]float32{1, 1, 1},
		shadingKind: shading.KindPureColor,
		world:       common.Identity4(),
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Position() (x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position[0], g.position[1], g.position[2]
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = [3]float32{x, y, z}
}

func (g *gameObject) Rotation() (rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotation[0], g.rotation[1], g.rotation[2]
}

func (g *gameObject) SetRotation(rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = [3]float32{rx, ry, rz}
}

func (g *gameObject) RotationSpeed() (rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotationSpeed[0], g.rotationSpeed[1], g.rotationSpeed[2]
}

func (g *gameObject) SetRotationSpeed(rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotationSpeed = [3]float32{rx, ry, rz}
}

func (g *gameObject) Scale() (sx, sy, sz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scale[0], g.scale[1], g.scale[2]
}

func (g *gameObject) SetScale(sx, sy, sz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = [3]float32{sx, sy, sz}
}

func (g *gameObject) Shading() shading.Kind {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shadingKind
}

func (g *gameObject) SetShading(kind shading.Kind) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.shadingKind = kind
}

func (g *gameObject) Mesh() model.Mesh {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mesh
}

func (g *gameObject) SetMesh(m model.Mesh) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mesh = m
}

func (g *gameObject) Children() []GameObject {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.children)
}

func (g *gameObject) AddChild(child GameObject) {
	if child == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.children = append(g.children, child)
}

func (g *gameObject) RemoveChild(id uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := slices.IndexFunc(g.children, func(c GameObject) bool { return c.ID() == id })
	if i < 0 {
		return false
	}
	g.children = slices.Delete(g.children, i, i+1)
	return true
}

func (g *gameObject) Advance(dt float32) {
	g.mu.Lock()
	for i := range g.rotation {
		g.rotation[i] += g.rotationSpeed[i] * dt
	}
	children := slices.Clone(g.children)
	g.mu.Unlock()

	for _, c := range children {
		c.Advance(dt)
	}
}

func (g *gameObject) LocalMatrix() [16]float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.localMatrix()
}

// localMatrix builds the local matrix. Caller must hold the mutex.
func (g *gameObject) localMatrix() [16]float32 {
	var m [16]float32
	common.BuildModelMatrix(m[:],
		g.position[0], g.position[1], g.position[2],
		g.rotation[0], g.rotation[1], g.rotation[2],
		g.scale[0], g.scale[1], g.scale[2],
	)
	return m
}

func (g *gameObject) WorldMatrix() [16]float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.world
}

func (g *gameObject) UpdateWorld(parent [16]float32) {
	g.mu.Lock()
	local := g.localMatrix()
	common.Mul4(g.world[:], parent[:], local[:])
	world := g.world
	children := slices.Clone(g.children)
	g.mu.Unlock()

	for _, c := range children {
		c.UpdateWorld(world)
	}
}
