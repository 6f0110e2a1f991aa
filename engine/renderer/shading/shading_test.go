package shading

import (
	"errors"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl/gltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityState() MatrixState {
	return MatrixState{
		Model:      common.Identity4(),
		Inverse:    common.Identity4(),
		Projection: common.Identity4(),
	}
}

func compilePureColor(t *testing.T, ctx *gltest.Context, opts ...ShadingBuilderOption) Program {
	t.Helper()
	s, err := NewPureColor(opts...)
	require.NoError(t, err)
	p, err := s.Compile(ctx)
	require.NoError(t, err)
	return p
}

func TestCompileResolvesEveryLocation(t *testing.T) {
	ctx := gltest.New()
	p := compilePureColor(t, ctx)

	assert.False(t, p.Handle().IsZero())
	assert.Equal(t, KindPureColor, p.Kind())

	slot, ok := p.AttributeLocation(AttributePosition)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, slot, 0)
	assert.Equal(t, map[string]int{AttributePosition: slot}, p.AttributeLocations())

	for _, name := range []string{UniformProjectionMatrix, UniformWorldMatrix, UniformCameraInverseMatrix} {
		_, ok := ctx.UniformLocation(p.Handle(), name)
		assert.True(t, ok, name)
	}
}

func TestCompileMissingLocation(t *testing.T) {
	tests := []struct {
		name    string
		vertex  string
		missing string
		kind    LocationKind
	}{
		{
			name:    "position",
			vertex:  "//@oxy:include transform\nvoid main() { gl_Position = projection_matrix * camera_inverse_matrix * world_matrix * vec4(0.0); }\n",
			missing: AttributePosition,
			kind:    LocationAttribute,
		},
		{name: "projection", vertex: vertexReading(UniformWorldMatrix, UniformCameraInverseMatrix), missing: UniformProjectionMatrix, kind: LocationUniform},
		{name: "world", vertex: vertexReading(UniformProjectionMatrix, UniformCameraInverseMatrix), missing: UniformWorldMatrix, kind: LocationUniform},
		{name: "camera inverse", vertex: vertexReading(UniformProjectionMatrix, UniformWorldMatrix), missing: UniformCameraInverseMatrix, kind: LocationUniform},
		{
			name:    "undeclared",
			vertex:  "attribute vec3 position;\nuniform mat4 projection_matrix;\nuniform mat4 world_matrix;\nvoid main() { gl_Position = projection_matrix * world_matrix * vec4(position, 1.0); }\n",
			missing: UniformCameraInverseMatrix,
			kind:    LocationUniform,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := gltest.New()
			s, err := NewPureColor(WithVertexSource(tt.vertex))
			require.NoError(t, err)

			p, err := s.Compile(ctx)
			require.Error(t, err)
			assert.Nil(t, p)
			assert.True(t, errors.Is(err, ErrMissingLocation))

			var missing *MissingLocationError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.missing, missing.Name)
			assert.Equal(t, tt.kind, missing.Kind)
			assert.Equal(t, KindPureColor, missing.Shading)
			assert.Contains(t, err.Error(), tt.missing)
			assert.Equal(t, 0, ctx.LivePrograms(), "a rejected program is deleted")
		})
	}
}

// vertexReading declares position and all three transform uniforms but reads only the given
// uniforms, leaving the others inactive.
func vertexReading(uniforms ...string) string {
	return "attribute vec3 position;\n" +
		"uniform mat4 projection_matrix;\n" +
		"uniform mat4 world_matrix;\n" +
		"uniform mat4 camera_inverse_matrix;\n" +
		"void main() { gl_Position = " + strings.Join(uniforms, " * ") + " * vec4(position, 1.0); }\n"
}

func TestCompileSyntaxError(t *testing.T) {
	ctx := gltest.New()
	s, err := NewPureColor(WithFragmentSource("void main() {\n    gl_FragColor = vec4(1.0)\n}\n"))
	require.NoError(t, err)

	_, err = s.Compile(ctx)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMissingLocation))

	var compileErr *gl.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, gl.StageFragment, compileErr.Stage)
	assert.NotEmpty(t, compileErr.Log)
	assert.Contains(t, err.Error(), "ERROR: 0:3:")
}

func TestCompileLinkFailure(t *testing.T) {
	ctx := gltest.New()
	ctx.FailNextLink("error: too many uniforms")
	s, err := NewPureColor()
	require.NoError(t, err)

	_, err = s.Compile(ctx)
	var compileErr *gl.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, gl.StageLink, compileErr.Stage)
	assert.Equal(t, "error: too many uniforms", compileErr.Log)

	p, err := s.Compile(ctx)
	require.NoError(t, err, "a failed link does not poison the descriptor")
	assert.False(t, p.Handle().IsZero())
}

func TestUploadIdentityWritesThreeSlots(t *testing.T) {
	ctx := gltest.New()
	p := compilePureColor(t, ctx)
	ctx.UseProgram(p.Handle())

	p.UploadUniforms(identityState())

	uploads := ctx.Uploads()
	require.Len(t, uploads, 3)
	names := make([]string, 0, len(uploads))
	for _, u := range uploads {
		assert.Equal(t, common.Identity4(), u.Value)
		names = append(names, u.Name)
	}
	assert.ElementsMatch(t, []string{UniformWorldMatrix, UniformCameraInverseMatrix, UniformProjectionMatrix}, names)
	assert.Equal(t, []string{UniformCameraInverseMatrix, UniformProjectionMatrix, UniformWorldMatrix}, ctx.WrittenUniforms(p.Handle()))
	assert.Empty(t, ctx.InvalidOperations())
}

func TestUploadOverwritesEverySlot(t *testing.T) {
	ctx := gltest.New()
	p := compilePureColor(t, ctx)
	ctx.UseProgram(p.Handle())

	p.UploadUniforms(identityState())

	var second MatrixState
	common.Translation(second.Model[:], 1, 2, 3)
	common.Translation(second.Inverse[:], -4, 0, 0)
	common.Perspective(second.Projection[:], 1, 1.5, 0.1, 100)
	ctx.ResetUploads()
	p.UploadUniforms(second)

	assert.Len(t, ctx.Uploads(), 3)
	for name, want := range map[string][16]float32{
		UniformWorldMatrix:         second.Model,
		UniformCameraInverseMatrix: second.Inverse,
		UniformProjectionMatrix:    second.Projection,
	} {
		got, ok := ctx.UniformValue(p.Handle(), name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
}

func TestUploadDoesNotBind(t *testing.T) {
	ctx := gltest.New()
	p := compilePureColor(t, ctx)

	p.UploadUniforms(identityState())

	assert.Equal(t, 0, ctx.BoundProgram())
	assert.Len(t, ctx.Uploads(), 3)
	assert.Len(t, ctx.InvalidOperations(), 3)
}

func TestCompileTwoContextsIsolated(t *testing.T) {
	s, err := NewPureColor()
	require.NoError(t, err)

	ctxA, ctxB := gltest.New(), gltest.New()
	a, err := s.Compile(ctxA)
	require.NoError(t, err)
	b, err := s.Compile(ctxB)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.NotSame(t, a.Handle().Ref(), b.Handle().Ref())
	assert.Equal(t, 0, ctxB.ProgramID(a.Handle()))

	ctxA.UseProgram(a.Handle())
	ctxB.UseProgram(b.Handle())

	var state MatrixState
	common.Translation(state.Model[:], 5, 5, 5)
	state.Inverse = common.Identity4()
	state.Projection = common.Identity4()
	a.UploadUniforms(state)

	assert.Len(t, ctxA.Uploads(), 3)
	assert.Empty(t, ctxB.Uploads())
	_, written := ctxB.UniformValue(b.Handle(), UniformWorldMatrix)
	assert.False(t, written)

	attrs := a.AttributeLocations()
	attrs[AttributePosition] = 99
	slot, _ := b.AttributeLocation(AttributePosition)
	assert.NotEqual(t, 99, slot)
	slot, _ = a.AttributeLocation(AttributePosition)
	assert.NotEqual(t, 99, slot, "AttributeLocations returns a copy")
}

func TestWithColorBakesConstant(t *testing.T) {
	s, err := NewPureColor(WithColor([4]float32{1, 0.5, 0, 1}))
	require.NoError(t, err)
	assert.Contains(t, s.FragmentSource(), "#define PURE_COLOR vec4(1.0, 0.5, 0.0, 1.0)")

	ctx := gltest.New()
	p, err := s.Compile(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{UniformCameraInverseMatrix, UniformProjectionMatrix, UniformWorldMatrix}, ctx.ActiveUniforms(p.Handle()))

	plain, err := NewPureColor()
	require.NoError(t, err)
	assert.Contains(t, plain.FragmentSource(), "#define PURE_COLOR vec4(1.0, 1.0, 1.0, 1.0)")
	assert.NotContains(t, plain.VertexSource(), "@oxy:")
}

func TestNewPureColorRejectsBadAnnotation(t *testing.T) {
	_, err := NewPureColor(WithVertexSource("//@oxy:include normals\nvoid main() {}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1:")
}
