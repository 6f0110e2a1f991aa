package shading

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl/gltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKinds(t *testing.T) {
	assert.Equal(t, []Kind{KindPureColor}, Kinds())
	assert.Equal(t, "pure_color", KindPureColor.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
	assert.True(t, KindPureColor.Valid())
	assert.False(t, kindCount.Valid())
	assert.False(t, Kind(-1).Valid())
}

func TestRegistryIndexMatchesKind(t *testing.T) {
	r, err := NewRegistry(WithKindOptions(KindPureColor, WithIndex(42)))
	require.NoError(t, err)
	assert.Equal(t, len(Kinds()), r.Len())

	for i, s := range r.All() {
		assert.Equal(t, i, s.Index())
		assert.Equal(t, Kind(i), s.Kind())
	}

	s, ok := r.Shading(KindPureColor)
	require.True(t, ok)
	assert.Equal(t, int(KindPureColor), s.Index())

	_, ok = r.Shading(kindCount)
	assert.False(t, ok)
}

func TestRegistryForwardsKindOptions(t *testing.T) {
	r, err := NewRegistry(WithKindOptions(KindPureColor, WithColor([4]float32{0, 0, 1, 1})))
	require.NoError(t, err)
	s, _ := r.Shading(KindPureColor)
	assert.Contains(t, s.FragmentSource(), "vec4(0.0, 0.0, 1.0, 1.0)")
}

func TestRegistryPropagatesBuildErrors(t *testing.T) {
	_, err := NewRegistry(WithKindOptions(KindPureColor, WithFragmentSource("")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pure_color descriptor")
}

func TestProgramCacheCompilesOnce(t *testing.T) {
	ctx := gltest.New()
	r, err := NewRegistry()
	require.NoError(t, err)
	cache := NewProgramCache(ctx, r)

	first, err := cache.Program(KindPureColor)
	require.NoError(t, err)
	second, err := cache.Program(KindPureColor)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, ctx.LivePrograms())
	assert.Equal(t, 1, cache.Len())

	_, err = cache.Program(kindCount)
	assert.Error(t, err)
}

func TestProgramCacheContextLoss(t *testing.T) {
	ctx := gltest.New()
	r, err := NewRegistry()
	require.NoError(t, err)
	cache := NewProgramCache(ctx, r)

	before, err := cache.Program(KindPureColor)
	require.NoError(t, err)

	ctx.SetContextLost(true)
	_, err = cache.Program(KindPureColor)
	assert.True(t, errors.Is(err, gl.ErrContextLost))

	ctx.SetContextLost(false)
	cache.Reset()
	assert.Equal(t, 0, cache.Len())

	after, err := cache.Program(KindPureColor)
	require.NoError(t, err)
	assert.NotSame(t, before, after)
	_, ok := ctx.AttribLocation(after.Handle(), AttributePosition)
	assert.True(t, ok)
}

func TestProgramCacheRelease(t *testing.T) {
	ctx := gltest.New()
	r, err := NewRegistry()
	require.NoError(t, err)
	cache := NewProgramCache(ctx, r)

	_, err = cache.Program(KindPureColor)
	require.NoError(t, err)
	cache.Release()

	assert.Equal(t, 0, cache.Len())
	assert.Equal(t, 0, ctx.LivePrograms())
}

func TestProgramCacheDoesNotRetryFailedCompile(t *testing.T) {
	ctx := gltest.New()
	r, err := NewRegistry(WithKindOptions(KindPureColor, WithVertexSource("void main() {\n")))
	require.NoError(t, err)
	cache := NewProgramCache(ctx, r)

	_, first := cache.Program(KindPureColor)
	var compileErr *gl.CompileError
	require.ErrorAs(t, first, &compileErr)
	assert.Equal(t, gl.StageVertex, compileErr.Stage)

	for range 4 {
		_, err := cache.Program(KindPureColor)
		assert.Same(t, first, err)
	}
	assert.Equal(t, 1, ctx.Links())
	assert.Equal(t, 0, cache.Len())

	cache.Reset()
	_, err = cache.Program(KindPureColor)
	assert.Error(t, err)
	assert.Equal(t, 2, ctx.Links(), "Reset forgets the failure")

	cache.Release()
	_, err = cache.Program(KindPureColor)
	assert.Error(t, err)
	assert.Equal(t, 3, ctx.Links(), "Release forgets the failure")
}

func TestProgramCacheRetriesAfterContextLoss(t *testing.T) {
	ctx := gltest.New()
	r, err := NewRegistry()
	require.NoError(t, err)
	cache := NewProgramCache(ctx, r)

	ctx.SetContextLost(true)
	_, err = cache.Program(KindPureColor)
	require.True(t, errors.Is(err, gl.ErrContextLost))

	ctx.SetContextLost(false)
	p, err := cache.Program(KindPureColor)
	require.NoError(t, err)
	assert.False(t, p.Handle().IsZero())
}
