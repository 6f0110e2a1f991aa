package model

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/gl/gltest"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeshValidation(t *testing.T) {
	_, err := NewMesh("empty", nil)
	assert.ErrorContains(t, err, "has no positions")

	_, err = NewMesh("ragged", []float32{1, 2})
	assert.ErrorContains(t, err, "not a multiple of 3")

	m, err := NewMesh("line", []float32{0, 0, 0, 3, 4, 0}, WithPrimitive(gl.Lines))
	require.NoError(t, err)
	assert.Equal(t, gl.Lines, m.Primitive())
	assert.Equal(t, 2, m.VertexCount())
	assert.InDelta(t, 5, m.BoundingRadius(), 1e-6)
}

func TestPositionsAreCopied(t *testing.T) {
	src := []float32{1, 2, 3}
	m, err := NewMesh("point", src, WithPrimitive(gl.Points))
	require.NoError(t, err)

	src[0] = 99
	got := m.Positions()
	assert.Equal(t, float32(1), got[0])
	got[1] = 99
	assert.Equal(t, float32(2), m.Positions()[1])
}

func TestBuiltInMeshes(t *testing.T) {
	tests := []struct {
		mesh     Mesh
		vertices int
		radius   float32
	}{
		{mesh: Triangle(), vertices: 3, radius: math32.Sqrt(0.5)},
		{mesh: Quad(), vertices: 6, radius: math32.Sqrt(0.5)},
		{mesh: Cube(), vertices: 36, radius: math32.Sqrt(0.75)},
	}
	for _, tt := range tests {
		t.Run(tt.mesh.Name(), func(t *testing.T) {
			assert.Equal(t, tt.vertices, tt.mesh.VertexCount())
			assert.Equal(t, gl.Triangles, tt.mesh.Primitive())
			assert.InDelta(t, tt.radius, tt.mesh.BoundingRadius(), 1e-6)
		})
	}
}

func TestCubeFacesPointOutward(t *testing.T) {
	p := Cube().Positions()
	for i := 0; i < len(p); i += 9 {
		ax, ay, az := p[i+3]-p[i], p[i+4]-p[i+1], p[i+5]-p[i+2]
		bx, by, bz := p[i+6]-p[i], p[i+7]-p[i+1], p[i+8]-p[i+2]
		nx, ny, nz := ay*bz-az*by, az*bx-ax*bz, ax*by-ay*bx
		cx := (p[i] + p[i+3] + p[i+6]) / 3
		cy := (p[i+1] + p[i+4] + p[i+7]) / 3
		cz := (p[i+2] + p[i+5] + p[i+8]) / 3
		assert.Greater(t, nx*cx+ny*cy+nz*cz, float32(0), "triangle %d winds inward", i/9)
	}
}

func TestBufferIsCreatedOncePerContext(t *testing.T) {
	m := Triangle()
	a, b := gltest.New(), gltest.New()

	first, err := m.Buffer(a)
	require.NoError(t, err)
	again, err := m.Buffer(a)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, m.Positions(), a.BufferContents(first))
	assert.Equal(t, 1, a.LiveBuffers())

	other, err := m.Buffer(b)
	require.NoError(t, err)
	assert.NotSame(t, first.Ref(), other.Ref())

	m.Release(a)
	assert.Equal(t, 0, a.LiveBuffers())
	assert.Equal(t, 1, b.LiveBuffers())
}

func TestBufferAfterContextLoss(t *testing.T) {
	m := Quad()
	ctx := gltest.New()
	_, err := m.Buffer(ctx)
	require.NoError(t, err)

	ctx.SetContextLost(true)
	m.Forget(ctx)
	_, err = m.Buffer(ctx)
	assert.ErrorIs(t, err, gl.ErrContextLost)

	ctx.SetContextLost(false)
	_, err = m.Buffer(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ctx.LiveBuffers())
}
