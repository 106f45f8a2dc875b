package magmavk

import (
	"math"

	lin "github.com/xlab/linmath"
)

func sinf(x float32) float32 { return float32(math.Sin(float64(x))) }
func cosf(x float32) float32 { return float32(math.Cos(float64(x))) }

// VulkanProjectionMat converts an OpenGL style projection matrix to Vulkan style projection matrix.
// Vulkan has a topLeft clipSpace with [0, 1] depth range instead of [-1, 1].
//
// linmath outputs projection matrices in GL style clipSpace,
// perform a simple fixup step to change the projection to Vulkan style.
func VulkanProjectionMat(m *lin.Mat4x4, proj *lin.Mat4x4) {
	// Flip Y in clipspace. X = -1, Y = -1 is topLeft in Vulkan.
	m.Fill(1.0)
	m.ScaleAniso(m, 1.0, -1.0, 1.0)
	// Z depth is [0, 1] range instead of [-1, 1].
	m.ScaleAniso(m, 1.0, 1.0, 0.5)
	m.Translate(0.0, 0.0, 1.0)
	m.Mult(m, proj)
}

func vec3Add(a, b lin.Vec3) lin.Vec3 {
	return lin.Vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

func vec3Scale(v lin.Vec3, s float32) lin.Vec3 {
	return lin.Vec3{v[0] * s, v[1] * s, v[2] * s}
}

func vec3Dot(a, b lin.Vec3) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func vec3Cross(a, b lin.Vec3) lin.Vec3 {
	return lin.Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func vec3Normalize(v lin.Vec3) lin.Vec3 {
	n := normalize([3]float32{v[0], v[1], v[2]})
	return lin.Vec3{n[0], n[1], n[2]}
}

// rotateVec3 rotates v around the (normalized) axis by angle radians,
// by the Rodrigues formula.
func rotateVec3(v, axis lin.Vec3, angle float32) lin.Vec3 {
	sin := sinf(angle)
	cos := cosf(angle)
	term1 := vec3Scale(v, cos)
	term2 := vec3Scale(vec3Cross(axis, v), sin)
	term3 := vec3Scale(axis, vec3Dot(axis, v)*(1.0-cos))
	return vec3Add(vec3Add(term1, term2), term3)
}

// unroll flattens a matrix into the column-major 16-float layout the shader
// side consumes.
func unroll(m *lin.Mat4x4) [16]float32 {
	var out [16]float32
	for i := 0; i < 4; i++ {
		copy(out[i*4:(i+1)*4], m[i][:])
	}
	return out
}
