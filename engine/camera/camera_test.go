package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-4

func TestCameraWithoutController(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, common.Identity4(), c.InverseMatrix())
	assert.Equal(t, common.Identity4(), c.WorldMatrix())

	x, y, z := c.Position()
	assert.Zero(t, x)
	assert.Zero(t, y)
	assert.Zero(t, z)
	assert.Nil(t, c.Controller())
}

func TestCameraProjectionMapsClipPlanes(t *testing.T) {
	c := NewCamera(WithNear(1), WithFar(10), WithAspect(2))
	p := c.ProjectionMatrix()

	_, _, zNear := common.TransformPoint(&p, 0, 0, -1)
	_, _, zFar := common.TransformPoint(&p, 0, 0, -10)
	assert.InDelta(t, -1, zNear, eps)
	assert.InDelta(t, 1, zFar, eps)
	assert.InDelta(t, p[5]/2, p[0], eps, "x scale is divided by the aspect")
}

func TestCameraInverseAndWorldAreInverses(t *testing.T) {
	ctrl := NewOrbitController(WithRadius(4), WithAzimuth(0.7), WithElevation(0.3), WithTarget(1, 0, -2))
	c := NewCamera(WithController(ctrl))

	inv := c.InverseMatrix()
	world := c.WorldMatrix()
	var product [16]float32
	common.Mul4(product[:], inv[:], world[:])
	identity := common.Identity4()
	for i := range product {
		assert.InDelta(t, identity[i], product[i], eps)
	}

	px, py, pz := ctrl.Position()
	cx, cy, cz := c.Position()
	assert.InDelta(t, px, cx, eps)
	assert.InDelta(t, py, cy, eps)
	assert.InDelta(t, pz, cz, eps)

	tx, ty, tz := common.TransformPoint(&inv, 1, 0, -2)
	assert.InDelta(t, 0, tx, eps)
	assert.InDelta(t, 0, ty, eps)
	assert.InDelta(t, -4, tz, eps, "the target sits straight ahead at the orbit radius")
}

func TestCameraUpdateFollowsController(t *testing.T) {
	ctrl := NewOrbitController(WithRadius(3))
	c := NewCamera(WithController(ctrl))
	before := c.InverseMatrix()

	ctrl.SetAzimuth(math32.Pi / 2)
	assert.Equal(t, before, c.InverseMatrix(), "matrices only change on Update")

	c.Update()
	assert.NotEqual(t, before, c.InverseMatrix())
	x, _, z := c.Position()
	assert.InDelta(t, 3*math32.Cos(math32.Pi/6), x, eps)
	assert.InDelta(t, 0, z, eps)
}

func TestOrbitControllerClamps(t *testing.T) {
	ctrl := NewOrbitController(WithRadiusBounds(1, 10), WithElevationBounds(-0.5, 0.5), WithRadius(50), WithElevation(2))
	assert.Equal(t, float32(10), ctrl.Radius())
	assert.Equal(t, float32(0.5), ctrl.Elevation())

	ctrl.Zoom(1000)
	assert.Equal(t, float32(1), ctrl.Radius())

	ctrl.SetElevation(-3)
	assert.Equal(t, float32(-0.5), ctrl.Elevation())

	for range 100 {
		ctrl.OrbitUp()
	}
	assert.Equal(t, float32(0.5), ctrl.Elevation())
}

func TestOrbitControllerAdvance(t *testing.T) {
	ctrl := NewOrbitController(WithAutoRotate(math32.Pi))
	ctrl.Advance(0.5)
	assert.InDelta(t, math32.Pi/2, ctrl.Azimuth(), eps)

	ctrl.Advance(2)
	assert.InDelta(t, math32.Pi/2, ctrl.Azimuth(), eps, "azimuth wraps at a full turn")

	ctrl.SetAutoRotate(0)
	ctrl.Advance(1)
	assert.InDelta(t, math32.Pi/2, ctrl.Azimuth(), eps)
}

func TestOrbitControllerStepsAndTarget(t *testing.T) {
	ctrl := NewOrbitController(WithOrbitSpeed(0.25), WithElevation(0))
	ctrl.OrbitRight()
	ctrl.OrbitRight()
	ctrl.OrbitLeft()
	assert.InDelta(t, 0.25, ctrl.Azimuth(), eps)

	ctrl.SetTarget(0, 2, 0)
	_, y, _ := ctrl.Position()
	require.InDelta(t, 2, y, eps)
	tx, ty, tz := ctrl.Target()
	assert.Equal(t, [3]float32{0, 2, 0}, [3]float32{tx, ty, tz})
}
