package game_object

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shading"
)

// GameObjectBuilderOption is a functional option applied to a game object during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID overrides the generated identifier.
//
// Parameters:
//   - id: the identifier
//
// Returns:
//   - GameObjectBuilderOption: a function that applies the ID option to a game object
func WithID(id uint64) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.id = id
	}
}

// WithName sets the display name of the object.
func WithName(name string) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.name = name
	}
}

// WithEnabled sets whether the object starts enabled. Objects are enabled by default.
//
// Parameters:
//   - enabled: the initial enabled state
//
// Returns:
//   - GameObjectBuilderOption: a function that applies the enabled option to a game object
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.enabled.Store(enabled)
	}
}

// WithMesh sets the drawn mesh.
//
// Parameters:
//   - m: the mesh
//
// Returns:
//   - GameObjectBuilderOption: a function that applies the mesh option to a game object
func WithMesh(m model.Mesh) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.mesh = m
	}
}

// WithShading sets the shading kind the mesh is drawn with.
//
// Parameters:
//   - kind: the shading kind
//
// Returns:
//   - GameObjectBuilderOption: a function that applies the shading option to a game object
func WithShading(kind shading.Kind) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.shadingKind = kind
	}
}

// WithPosition sets the translation relative to the parent.
//
// Parameters:
//   - x, y, z: the translation
//
// Returns:
//   - GameObjectBuilderOption: a function that applies the position option to a game object
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.position = [3]float32{x, y, z}
	}
}

// WithScale sets the scale factors.
//
// Parameters:
//   - sx, sy, sz: the scale along each axis
//
// Returns:
//   - GameObjectBuilderOption: a function that applies the scale option to a game object
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.scale = [3]float32{sx, sy, sz}
	}
}

// WithRotation sets the Euler rotation in radians.
//
// Parameters:
//   - rx, ry, rz: rotation around each axis
//
// Returns:
//   - GameObjectBuilderOption: a function that applies the rotation option to a game object
func WithRotation(rx, ry, rz float32) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.rotation = [3]float32{rx, ry, rz}
	}
}

// WithRotationSpeed sets the angular velocity applied by Advance, in radians per second.
//
// Parameters:
//   - rx, ry, rz: angular velocity around each axis
//
// Returns:
//   - GameObjectBuilderOption: a function that applies the rotation speed option to a game object
func WithRotationSpeed(rx, ry, rz float32) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.rotationSpeed = [3]float32{rx, ry, rz}
	}
}

// WithChildren attaches child nodes.
//
// Parameters:
//   - children: the nodes to attach, in order
//
// Returns:
//   - GameObjectBuilderOption: a function that applies the children option to a game object
func WithChildren(children ...GameObject) GameObjectBuilderOption {
	return func(g *gameObject) {
		for _, c := range children {
			if c != nil {
				g.children = append(g.children, c)
			}
		}
	}
}
