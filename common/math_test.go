package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMatrixNear(t *testing.T, want, got [16]float32) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, "element %d", i)
	}
}

func TestMul4Identity(t *testing.T) {
	var m [16]float32
	BuildModelMatrix(m[:], 1, 2, 3, 0.3, 0.2, 0.1, 2, 2, 2)
	id := Identity4()

	var out [16]float32
	Mul4(out[:], id[:], m[:])
	assertMatrixNear(t, m, out)

	Mul4(out[:], m[:], id[:])
	assertMatrixNear(t, m, out)
}

func TestMul4Aliasing(t *testing.T) {
	var a [16]float32
	BuildModelMatrix(a[:], 1, 0, 0, 0, 0, 0, 1, 1, 1)
	Mul4(a[:], a[:], a[:])
	assert.InDelta(t, 2, a[12], 1e-6)
}

func TestInvert4(t *testing.T) {
	var m, inv, out [16]float32
	BuildModelMatrix(m[:], 4, -2, 7, 0.5, 1.1, -0.4, 1, 3, 0.5)
	require.True(t, Invert4(inv[:], m[:]))
	Mul4(out[:], m[:], inv[:])
	assertMatrixNear(t, Identity4(), out)
}

func TestInvert4Singular(t *testing.T) {
	var zero [16]float32
	out := Identity4()
	assert.False(t, Invert4(out[:], zero[:]))
	assert.Equal(t, Identity4(), out)
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	var view [16]float32
	LookAt(view[:], 0, 0, 5, 0, 0, 0, 0, 1, 0)
	x, y, z := TransformPoint(&view, 0, 0, 5)
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
	assert.InDelta(t, 0, z, 1e-6)

	_, _, z = TransformPoint(&view, 0, 0, 0)
	assert.InDelta(t, -5, z, 1e-6)
}

func TestPerspectiveDepthRange(t *testing.T) {
	var p [16]float32
	Perspective(p[:], math32.Pi/2, 1, 1, 10)

	_, _, zNear := TransformPoint(&p, 0, 0, -1)
	_, _, zFar := TransformPoint(&p, 0, 0, -10)
	assert.InDelta(t, -1, zNear, 1e-5)
	assert.InDelta(t, 1, zFar, 1e-5)
}

func TestTranslationMovesPoint(t *testing.T) {
	var m [16]float32
	Translation(m[:], 1, -2, 3)
	x, y, z := TransformPoint(&m, 1, 1, 1)
	assert.Equal(t, float32(2), x)
	assert.Equal(t, float32(-1), y)
	assert.Equal(t, float32(4), z)
}
