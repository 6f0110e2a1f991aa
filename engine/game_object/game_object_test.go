package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shading"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	a := NewGameObject()
	b := NewGameObject()

	assert.NotEqual(t, a.ID(), b.ID())
	assert.True(t, a.Enabled())
	assert.Equal(t, shading.KindPureColor, a.Shading())
	assert.Nil(t, a.Mesh())
	assert.Equal(t, common.Identity4(), a.LocalMatrix())
	assert.Equal(t, common.Identity4(), a.WorldMatrix())
}

func TestBuilderOptions(t *testing.T) {
	m := model.Cube()
	obj := NewGameObject(
		WithID(7),
		WithName("cube"),
		WithEnabled(false),
		WithMesh(m),
		WithPosition(1, 2, 3),
		WithScale(2, 2, 2),
		WithRotation(0, 1, 0),
		WithRotationSpeed(0, 0.5, 0),
	)
	assert.Equal(t, uint64(7), obj.ID())
	assert.Equal(t, "cube", obj.Name())
	assert.False(t, obj.Enabled())
	assert.Same(t, m, obj.Mesh())
	x, y, z := obj.Position()
	assert.Equal(t, [3]float32{1, 2, 3}, [3]float32{x, y, z})
	_, ry, _ := obj.RotationSpeed()
	assert.Equal(t, float32(0.5), ry)
}

func TestUpdateWorldComposesParents(t *testing.T) {
	grandchild := NewGameObject(WithPosition(0, 0, 1))
	child := NewGameObject(WithPosition(0, 1, 0), WithScale(2, 2, 2), WithChildren(grandchild))
	root := NewGameObject(WithPosition(1, 0, 0), WithChildren(child))

	root.UpdateWorld(common.Identity4())

	world := grandchild.WorldMatrix()
	x, y, z := common.TransformPoint(&world, 0, 0, 0)
	assert.InDelta(t, 1, x, 1e-6)
	assert.InDelta(t, 1, y, 1e-6)
	assert.InDelta(t, 2, z, 1e-6, "the child's scale applies to the grandchild's offset")
}

func TestChildren(t *testing.T) {
	root := NewGameObject()
	a, b := NewGameObject(), NewGameObject()
	root.AddChild(a)
	root.AddChild(b)
	root.AddChild(nil)
	require.Len(t, root.Children(), 2)

	assert.True(t, root.RemoveChild(a.ID()))
	assert.False(t, root.RemoveChild(a.ID()))
	assert.Equal(t, []GameObject{b}, root.Children())
}

func TestAdvanceAppliesRotationSpeedToSubtree(t *testing.T) {
	child := NewGameObject(WithRotationSpeed(1, 0, 0))
	root := NewGameObject(WithRotationSpeed(0, 2, 0), WithChildren(child))

	root.Advance(0.25)

	_, ry, _ := root.Rotation()
	assert.InDelta(t, 0.5, ry, 1e-6)
	rx, _, _ := child.Rotation()
	assert.InDelta(t, 0.25, rx, 1e-6)
}
