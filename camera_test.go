package magmavk

import (
	"math"
	"testing"

	lin "github.com/xlab/linmath"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotateVec3(t *testing.T) {
	x := lin.Vec3{1, 0, 0}
	z := lin.Vec3{0, 0, 1}

	got := rotateVec3(x, z, float32(math.Pi/2))
	assert.InDelta(t, 0.0, got[0], 1e-6)
	assert.InDelta(t, 1.0, got[1], 1e-6)
	assert.InDelta(t, 0.0, got[2], 1e-6)

	// Rotation around the vector itself is the identity.
	got = rotateVec3(x, x, 1.234)
	assert.InDelta(t, 1.0, got[0], 1e-6)
	assert.InDelta(t, 0.0, got[1], 1e-6)
	assert.InDelta(t, 0.0, got[2], 1e-6)
}

func TestCameraBuilderOrthonormalizes(t *testing.T) {
	cam := NewCameraBuilder().
		ViewDirection(0, 0, 1).
		DownDirection(0.3, 1, 0.7).
		Build()

	assert.InDelta(t, 1.0, float64(vec3Dot(cam.viewDirection, cam.viewDirection)), 1e-6)
	assert.InDelta(t, 1.0, float64(vec3Dot(cam.downDirection, cam.downDirection)), 1e-6)
	assert.InDelta(t, 0.0, float64(vec3Dot(cam.viewDirection, cam.downDirection)), 1e-6)
}

func TestCameraMoveForward(t *testing.T) {
	cam := NewCameraBuilder().
		Position(0, 0, 0).
		ViewDirection(0, 0, 1).
		DownDirection(0, 1, 0).
		Build()

	cam.MoveForward(2.0)
	x, y, z := cam.Position()
	assert.InDelta(t, 0.0, x, 1e-6)
	assert.InDelta(t, 0.0, y, 1e-6)
	assert.InDelta(t, 2.0, z, 1e-6)

	cam.MoveBackward(2.0)
	_, _, z = cam.Position()
	assert.InDelta(t, 0.0, z, 1e-6)
}

func TestCameraTurnsKeepOrthonormalFrame(t *testing.T) {
	cam := NewCameraBuilder().Build()

	cam.TurnRight(0.7)
	cam.TurnUp(0.4)
	cam.TurnLeft(0.2)
	cam.TurnDown(0.9)

	assert.InDelta(t, 1.0, float64(vec3Dot(cam.viewDirection, cam.viewDirection)), 1e-5)
	assert.InDelta(t, 1.0, float64(vec3Dot(cam.downDirection, cam.downDirection)), 1e-5)
	assert.InDelta(t, 0.0, float64(vec3Dot(cam.viewDirection, cam.downDirection)), 1e-5)
}

func TestCameraTurnRightFullCircle(t *testing.T) {
	cam := NewCameraBuilder().Build()
	start := cam.viewDirection

	steps := 8
	for i := 0; i < steps; i++ {
		cam.TurnRight(float32(2.0 * math.Pi / float64(steps)))
	}
	for i := 0; i < 3; i++ {
		assert.InDelta(t, float64(start[i]), float64(cam.viewDirection[i]), 1e-4)
	}
}

func TestCameraMatricesChangeWithPose(t *testing.T) {
	cam := NewCameraBuilder().Build()
	view1, proj1 := cam.Matrices()

	cam.TurnRight(0.5)
	view2, _ := cam.Matrices()
	assert.NotEqual(t, view1, view2)

	cam.SetAspect(2.0)
	_, proj2 := cam.Matrices()
	assert.NotEqual(t, proj1, proj2)
}

func TestCameraViewMatrixLooksAlongView(t *testing.T) {
	cam := NewCameraBuilder().
		Position(0, 0, -5).
		ViewDirection(0, 0, 1).
		DownDirection(0, 1, 0).
		Build()
	view, _ := cam.Matrices()

	// A point straight ahead of the camera lands on the view-space -Z axis
	// (right-handed look-at convention).
	p := [4]float32{0, 0, 0, 1}
	got := mulMat4Vec4(view, p)
	require.InDelta(t, 0.0, float64(got[0]), 1e-5)
	require.InDelta(t, 0.0, float64(got[1]), 1e-5)
	require.InDelta(t, -5.0, float64(got[2]), 1e-5)
}

// mulMat4Vec4 multiplies a column-major matrix in flat layout by a vector.
func mulMat4Vec4(m [16]float32, v [4]float32) [4]float32 {
	var out [4]float32
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r] += m[c*4+r] * v[c]
		}
	}
	return out
}
