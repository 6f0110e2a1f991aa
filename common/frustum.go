package common

import "github.com/chewxy/math32"

// Plane is the plane a*x + b*y + c*z + d = 0, with (a, b, c) stored in Normal and d in Distance.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// SignedDistance returns the distance of a point to the plane, positive on the normal's side.
// The plane must be normalized.
func (p Plane) SignedDistance(x, y, z float32) float32 {
	return p.Normal[0]*x + p.Normal[1]*y + p.Normal[2]*z + p.Distance
}

// Frustum holds the six clip planes of a view volume. Every normal points inward.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// ExtractFrustum extracts the clip planes of a projection * camera-inverse matrix with the
// Gribb/Hartmann method. The matrix maps world space to GL clip space.
//
// Parameters:
//   - viewProj: the combined matrix, 16 float32 values, column-major
//
// Returns:
//   - Frustum: the frustum with normalized planes
func ExtractFrustum(viewProj []float32) Frustum {
	// row returns row i of the matrix; element (i, j) lives at j*4+i.
	row := func(i int) [4]float32 {
		return [4]float32{viewProj[i], viewProj[4+i], viewProj[8+i], viewProj[12+i]}
	}
	w := row(3)

	var f Frustum
	for axis := range 3 {
		r := row(axis)
		for side, sign := range [2]float32{1, -1} {
			p := &f.Planes[axis*2+side]
			p.Normal = [3]float32{w[0] + sign*r[0], w[1] + sign*r[1], w[2] + sign*r[2]}
			p.Distance = w[3] + sign*r[3]
			p.normalize()
		}
	}
	return f
}

func (p *Plane) normalize() {
	length := math32.Sqrt(p.Normal[0]*p.Normal[0] + p.Normal[1]*p.Normal[1] + p.Normal[2]*p.Normal[2])
	if length == 0 {
		return
	}
	inv := 1 / length
	p.Normal[0] *= inv
	p.Normal[1] *= inv
	p.Normal[2] *= inv
	p.Distance *= inv
}

// ContainsSphere reports whether any part of the sphere lies inside the frustum.
//
// Parameters:
//   - x, y, z: the sphere center in world space
//   - radius: the sphere radius
//
// Returns:
//   - bool: false only if the sphere is fully outside one of the planes
func (f Frustum) ContainsSphere(x, y, z, radius float32) bool {
	for _, p := range f.Planes {
		if p.SignedDistance(x, y, z) < -radius {
			return false
		}
	}
	return true
}

// MaxScale returns the largest axis scale of an affine column-major matrix, the factor a
// bounding radius grows by under the matrix.
func MaxScale(m *[16]float32) float32 {
	var s float32
	for col := range 3 {
		c := m[col*4 : col*4+3]
		s = math32.Max(s, math32.Sqrt(c[0]*c[0]+c[1]*c[1]+c[2]*c[2]))
	}
	return s
}
