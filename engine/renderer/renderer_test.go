package renderer

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/model"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl/gltest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shading"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T, options ...RendererBuilderOption) (*gltest.Context, Renderer) {
	t.Helper()
	ctx := gltest.New()
	r, err := NewRenderer(ctx, append([]RendererBuilderOption{WithBackend(BackendTypeRecording)}, options...)...)
	require.NoError(t, err)
	return ctx, r
}

func TestNewRendererRequiresContext(t *testing.T) {
	_, err := NewRenderer(nil)
	assert.Error(t, err)
}

func TestRendererDefaults(t *testing.T) {
	_, r := newTestRenderer(t)

	assert.Equal(t, BackendTypeRecording, r.Backend())
	assert.Equal(t, "recording", r.Backend().String())
	assert.Equal(t, 1, r.Registry().Len())
	assert.Equal(t, common.Identity4(), r.ModelTransform())
	assert.Equal(t, common.Identity4(), r.CameraInverse())
	assert.Equal(t, common.Identity4(), r.CameraProjection())
}

func TestUseShadingBindsOnceAndUploadsEveryCall(t *testing.T) {
	ctx, r := newTestRenderer(t)

	require.NoError(t, r.UseShading(shading.KindPureColor))
	require.NoError(t, r.UseShading(shading.KindPureColor))

	stats := r.Stats()
	assert.Equal(t, 1, stats.ProgramBinds)
	assert.Equal(t, 2, stats.UniformUploads)
	assert.Len(t, ctx.Uploads(), 6)
	assert.NotZero(t, ctx.BoundProgram())
	assert.Empty(t, ctx.InvalidOperations())
}

func TestUseShadingUploadsRendererState(t *testing.T) {
	ctx, r := newTestRenderer(t)

	var world, inverse, projection [16]float32
	common.Translation(world[:], 1, 2, 3)
	common.Translation(inverse[:], 0, 0, -5)
	common.Perspective(projection[:], 1, 1.5, 0.1, 100)
	r.SetModelTransform(world)
	r.SetCameraMatrices(inverse, projection)

	require.NoError(t, r.UseShading(shading.KindPureColor))

	uploads := ctx.Uploads()
	require.Len(t, uploads, 3)
	assert.Equal(t, shading.UniformWorldMatrix, uploads[0].Name)
	assert.Equal(t, world, uploads[0].Value)
	assert.Equal(t, shading.UniformCameraInverseMatrix, uploads[1].Name)
	assert.Equal(t, inverse, uploads[1].Value)
	assert.Equal(t, shading.UniformProjectionMatrix, uploads[2].Name)
	assert.Equal(t, projection, uploads[2].Value)
}

func TestDrawMeshRequiresShading(t *testing.T) {
	_, r := newTestRenderer(t)

	err := r.DrawMesh(model.Cube())
	assert.ErrorIs(t, err, ErrNoShading)

	assert.Error(t, r.DrawMesh(nil))
}

func TestDrawMeshUploadsBufferOnce(t *testing.T) {
	ctx, r := newTestRenderer(t)
	cube := model.Cube()

	require.NoError(t, r.Draw(shading.KindPureColor, common.Identity4(), cube))
	require.NoError(t, r.Draw(shading.KindPureColor, common.Identity4(), cube))

	assert.Equal(t, 1, ctx.LiveBuffers())
	draws := ctx.Draws()
	require.Len(t, draws, 2)
	assert.Equal(t, gl.Triangles, draws[0].Mode)
	assert.Equal(t, 0, draws[0].First)
	assert.Equal(t, 36, draws[0].Count)

	attrib, ok := ctx.Attrib(0)
	require.True(t, ok)
	assert.Equal(t, model.PositionSize, attrib.Size)
	assert.Equal(t, 0, attrib.Stride)
	assert.Equal(t, 0, attrib.Offset)

	stats := r.Stats()
	assert.Equal(t, 2, stats.DrawCalls)
	assert.Equal(t, 1, stats.ProgramBinds)
	assert.Empty(t, ctx.InvalidOperations())
}

func TestBeginFrameClearsAndResetsStats(t *testing.T) {
	clearColor := [4]float32{0.1, 0.2, 0.3, 1}
	ctx, r := newTestRenderer(t, WithClearColor(clearColor))

	require.NoError(t, r.Draw(shading.KindPureColor, common.Identity4(), model.Triangle()))
	require.NoError(t, r.BeginFrame())

	count, color := ctx.Clears()
	assert.Equal(t, 1, count)
	assert.Equal(t, clearColor, color)
	assert.Equal(t, Stats{}, r.Stats())
}

func TestResize(t *testing.T) {
	ctx, r := newTestRenderer(t)

	r.Resize(640, 480)
	assert.Equal(t, [4]int{0, 0, 640, 480}, ctx.ViewportRect())
	assert.True(t, ctx.DepthTestEnabled())

	r.Resize(0, 480)
	assert.Equal(t, [4]int{0, 0, 640, 480}, ctx.ViewportRect())
}

func TestCompileFailureIsLogged(t *testing.T) {
	registry, err := shading.NewRegistry(
		shading.WithKindOptions(shading.KindPureColor, shading.WithVertexSource("void main() {\n")),
	)
	require.NoError(t, err)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	ctx, r := newTestRenderer(t, WithRegistry(registry), WithLogger(logger))

	err = r.UseShading(shading.KindPureColor)
	var compileErr *gl.CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, gl.StageVertex, compileErr.Stage)
	assert.Contains(t, logs.String(), "failed to build shading program")
	assert.Contains(t, logs.String(), "kind=pure_color")

	assert.ErrorIs(t, r.DrawMesh(model.Triangle()), ErrNoShading)
	assert.Zero(t, ctx.BoundProgram())

	logs.Reset()
	for range 3 {
		assert.Error(t, r.UseShading(shading.KindPureColor))
	}
	assert.Equal(t, 1, ctx.Links(), "a failed build is not retried")
	assert.Empty(t, logs.String(), "a failed build is logged once")
}

func TestContextLossAndRestore(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	ctx, r := newTestRenderer(t, WithLogger(logger))
	cube := model.Cube()

	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.Draw(shading.KindPureColor, common.Identity4(), cube))

	ctx.SetContextLost(true)
	assert.ErrorIs(t, r.BeginFrame(), gl.ErrContextLost)
	assert.ErrorIs(t, r.Draw(shading.KindPureColor, common.Identity4(), cube), gl.ErrContextLost)
	assert.Contains(t, logs.String(), "graphics context lost")

	ctx.SetContextLost(false)
	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.Draw(shading.KindPureColor, common.Identity4(), cube))

	assert.Equal(t, 1, ctx.LivePrograms())
	assert.Equal(t, 1, ctx.LiveBuffers())
	assert.Equal(t, 1, r.Stats().DrawCalls)
	assert.Contains(t, logs.String(), "graphics context restored")
	assert.Empty(t, ctx.InvalidOperations())
}

func TestClose(t *testing.T) {
	ctx, r := newTestRenderer(t)

	require.NoError(t, r.Draw(shading.KindPureColor, common.Identity4(), model.Cube()))
	require.NoError(t, r.Draw(shading.KindPureColor, common.Identity4(), model.Quad()))
	require.Equal(t, 2, ctx.LiveBuffers())

	r.Close()
	assert.Zero(t, ctx.LivePrograms())
	assert.Zero(t, ctx.LiveBuffers())
	assert.ErrorIs(t, r.DrawMesh(model.Cube()), ErrNoShading)
}
