package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

// testFrustum is a 90° square frustum at the origin looking down -Z, clipping at 1 and 10.
func testFrustum() Frustum {
	var proj [16]float32
	Perspective(proj[:], math32.Pi/2, 1, 1, 10)
	return ExtractFrustum(proj[:])
}

func TestExtractFrustumPlanesAreNormalized(t *testing.T) {
	f := testFrustum()

	assert.InDelta(t, 2, f.Planes[FrustumNear].SignedDistance(0, 0, -3), 1e-5)
	assert.InDelta(t, 7, f.Planes[FrustumFar].SignedDistance(0, 0, -3), 1e-5)
	for i, p := range f.Planes {
		n := p.Normal
		assert.InDelta(t, 1, math32.Sqrt(n[0]*n[0]+n[1]*n[1]+n[2]*n[2]), 1e-5, "plane %d", i)
	}
}

func TestContainsSphere(t *testing.T) {
	f := testFrustum()
	tests := []struct {
		name    string
		x, y, z float32
		radius  float32
		want    bool
	}{
		{"centre", 0, 0, -5, 0.5, true},
		{"behind the camera", 0, 0, 5, 0.5, false},
		{"beyond far", 0, 0, -12, 1, false},
		{"straddles far", 0, 0, -12, 3, true},
		{"right of the view", 6, 0, -5, 0.5, false},
		{"touches the right plane", 6, 0, -5, 1, true},
		{"below the view", 0, -7, -5, 0.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.ContainsSphere(tt.x, tt.y, tt.z, tt.radius))
		})
	}
}

func TestMaxScale(t *testing.T) {
	var m [16]float32
	BuildModelMatrix(m[:], 5, 6, 7, 0.4, 1.1, -0.3, 2, 3, 4)
	assert.InDelta(t, 4, MaxScale(&m), 1e-5)

	id := Identity4()
	assert.InDelta(t, 1, MaxScale(&id), 1e-6)
}
