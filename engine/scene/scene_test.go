package scene

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/game_object"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl/gltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) (*gltest.Context, renderer.Renderer) {
	t.Helper()
	ctx := gltest.New()
	r, err := renderer.NewRenderer(ctx)
	require.NoError(t, err)
	return ctx, r
}

func TestNewScenePanicsWithoutCamera(t *testing.T) {
	assert.Panics(t, func() { NewScene("empty", nil) })
}

func TestGraphQueries(t *testing.T) {
	leaf := game_object.NewGameObject(game_object.WithName("leaf"))
	group := game_object.NewGameObject(game_object.WithChildren(leaf))
	other := game_object.NewGameObject()
	s := NewScene("main", camera.NewCamera(), WithObjects(group))
	s.Add(other, nil)

	assert.Equal(t, "main", s.Name())
	assert.True(t, s.Active())
	assert.Equal(t, 3, s.Count())
	assert.Len(t, s.Roots(), 2)
	assert.Same(t, leaf, s.Get(leaf.ID()))
	assert.Nil(t, s.Get(0))

	assert.True(t, s.Remove(leaf.ID()))
	assert.Nil(t, s.Get(leaf.ID()))
	assert.True(t, s.Remove(other.ID()))
	assert.False(t, s.Remove(other.ID()))
	assert.Equal(t, 1, s.Count())

	s.Clear()
	assert.Zero(t, s.Count())
}

func TestUpdateComputesWorldMatrices(t *testing.T) {
	var roots []game_object.GameObject
	var leaves []game_object.GameObject
	for i := range 8 {
		leaf := game_object.NewGameObject(game_object.WithPosition(0, 1, 0))
		leaves = append(leaves, leaf)
		roots = append(roots, game_object.NewGameObject(
			game_object.WithPosition(float32(i), 0, 0),
			game_object.WithChildren(leaf),
		))
	}
	s := NewScene("update", camera.NewCamera(), WithObjects(roots...), WithUpdateWorkers(3))

	s.Update(0)

	for i, leaf := range leaves {
		world := leaf.WorldMatrix()
		x, y, z := common.TransformPoint(&world, 0, 0, 0)
		assert.InDelta(t, float32(i), x, 1e-6)
		assert.InDelta(t, 1, y, 1e-6)
		assert.InDelta(t, 0, z, 1e-6)
	}
}

func TestUpdateAdvancesController(t *testing.T) {
	ctrl := camera.NewOrbitController(camera.WithAutoRotate(1))
	cam := camera.NewCamera(camera.WithController(ctrl))
	s := NewScene("orbit", cam)

	before := ctrl.Azimuth()
	s.Update(0.5)
	assert.InDelta(t, before+0.5, ctrl.Azimuth(), 1e-5)
}

func TestCloseStopsUpdates(t *testing.T) {
	ctrl := camera.NewOrbitController(camera.WithAutoRotate(1))
	obj := game_object.NewGameObject(game_object.WithPosition(2, 0, 0))
	s := NewScene("closed", camera.NewCamera(camera.WithController(ctrl)), WithObjects(obj))

	s.Close()
	s.Close()
	before := ctrl.Azimuth()
	s.Update(0.5)

	assert.Equal(t, before, ctrl.Azimuth())
	assert.Equal(t, common.Identity4(), obj.WorldMatrix())
}

func TestRenderDrawsEnabledMeshesDepthFirst(t *testing.T) {
	ctx, r := newTestRenderer(t)

	hidden := game_object.NewGameObject(game_object.WithMesh(model.Quad()))
	disabled := game_object.NewGameObject(
		game_object.WithEnabled(false),
		game_object.WithMesh(model.Cube()),
		game_object.WithChildren(hidden),
	)
	child := game_object.NewGameObject(game_object.WithMesh(model.Triangle()))
	group := game_object.NewGameObject(game_object.WithChildren(child))
	cube := game_object.NewGameObject(game_object.WithMesh(model.Cube()), game_object.WithChildren(disabled))

	s := NewScene("render", camera.NewCamera(), WithObjects(cube, group), WithCullingDisabled(true))
	s.Update(0)
	require.NoError(t, s.Render(r))

	draws := ctx.Draws()
	require.Len(t, draws, 2)
	assert.Equal(t, 36, draws[0].Count)
	assert.Equal(t, 3, draws[1].Count)
	assert.Equal(t, 1, r.Stats().ProgramBinds)
	assert.Equal(t, 2, r.Stats().UniformUploads)
}

func TestRenderUploadsCameraAndWorld(t *testing.T) {
	ctx, r := newTestRenderer(t)
	cam := camera.NewCamera(camera.WithController(camera.NewOrbitController(camera.WithRadius(4))))
	obj := game_object.NewGameObject(game_object.WithMesh(model.Cube()), game_object.WithPosition(0, 0.5, 0))

	s := NewScene("uniforms", cam, WithObjects(obj))
	s.Update(0)
	require.NoError(t, s.Render(r))

	uploads := ctx.Uploads()
	require.Len(t, uploads, 3)
	assert.Equal(t, obj.WorldMatrix(), uploads[0].Value)
	assert.Equal(t, cam.InverseMatrix(), uploads[1].Value)
	assert.Equal(t, cam.ProjectionMatrix(), uploads[2].Value)
}

func TestRenderCullsObjectsBehindCamera(t *testing.T) {
	ctx, r := newTestRenderer(t)
	front := game_object.NewGameObject(game_object.WithMesh(model.Cube()), game_object.WithPosition(0, 0, -5))
	behind := game_object.NewGameObject(game_object.WithMesh(model.Cube()), game_object.WithPosition(0, 0, 5))

	s := NewScene("cull", camera.NewCamera(), WithObjects(front, behind))
	s.Update(0)
	require.NoError(t, s.Render(r))

	assert.Len(t, ctx.Draws(), 1)
	assert.Equal(t, 1, s.Culled())

	s.SetCullingDisabled(true)
	assert.True(t, s.CullingDisabled())
	require.NoError(t, s.Render(r))
	assert.Len(t, ctx.Draws(), 3)
	assert.Zero(t, s.Culled())
}

func TestRenderStopsOnContextLoss(t *testing.T) {
	ctx, r := newTestRenderer(t)
	a := game_object.NewGameObject(game_object.WithMesh(model.Cube()))
	b := game_object.NewGameObject(game_object.WithMesh(model.Cube()))
	s := NewScene("lost", camera.NewCamera(), WithObjects(a, b), WithCullingDisabled(true))
	s.Update(0)

	ctx.SetContextLost(true)
	err := s.Render(r)
	assert.True(t, errors.Is(err, gl.ErrContextLost))
	assert.Empty(t, ctx.Draws())
}

func TestRenderRequiresRenderer(t *testing.T) {
	s := NewScene("nil", camera.NewCamera())
	assert.Error(t, s.Render(nil))
}
