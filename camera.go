package magmavk

import (
	vk "github.com/vulkan-go/vulkan"
	lin "github.com/xlab/linmath"
)

// CoreCamera holds a fly-style camera described by a position, a view
// direction and a down direction kept orthogonal to it. Both matrices are
// cached and refreshed whenever one of the inputs changes.
type CoreCamera struct {
	position      lin.Vec3
	viewDirection lin.Vec3
	downDirection lin.Vec3

	fovy   float32
	aspect float32
	near   float32
	far    float32

	viewMatrix       lin.Mat4x4
	projectionMatrix lin.Mat4x4
}

// CameraBuilder assembles a CoreCamera. The zero builder is not usable;
// start from NewCameraBuilder to pick up the defaults.
type CameraBuilder struct {
	position      lin.Vec3
	viewDirection lin.Vec3
	downDirection lin.Vec3
	fovy          float32
	aspect        float32
	near          float32
	far           float32
}

// NewCameraBuilder starts a builder placed slightly behind and above the
// origin, looking at it.
func NewCameraBuilder() *CameraBuilder {
	return &CameraBuilder{
		position:      lin.Vec3{0.0, -3.0, -3.0},
		viewDirection: vec3Normalize(lin.Vec3{0.0, 1.0, 1.0}),
		downDirection: vec3Normalize(lin.Vec3{0.0, 1.0, -1.0}),
		fovy:          lin.DegreesToRadians(60.0),
		aspect:        800.0 / 600.0,
		near:          0.1,
		far:           100.0,
	}
}

func (b *CameraBuilder) Position(x, y, z float32) *CameraBuilder {
	b.position = lin.Vec3{x, y, z}
	return b
}

func (b *CameraBuilder) ViewDirection(x, y, z float32) *CameraBuilder {
	b.viewDirection = lin.Vec3{x, y, z}
	return b
}

func (b *CameraBuilder) DownDirection(x, y, z float32) *CameraBuilder {
	b.downDirection = lin.Vec3{x, y, z}
	return b
}

func (b *CameraBuilder) Fovy(radians float32) *CameraBuilder {
	b.fovy = radians
	return b
}

func (b *CameraBuilder) Aspect(aspect float32) *CameraBuilder {
	b.aspect = aspect
	return b
}

func (b *CameraBuilder) NearFar(near, far float32) *CameraBuilder {
	b.near = near
	b.far = far
	return b
}

// Build normalizes the directions, re-projects the down direction so it is
// orthogonal to the view direction, and computes the initial matrices.
func (b *CameraBuilder) Build() *CoreCamera {
	view := vec3Normalize(b.viewDirection)
	down := b.downDirection
	// Remove the component of down along view, then renormalize.
	down = vec3Add(down, vec3Scale(view, -vec3Dot(down, view)))
	down = vec3Normalize(down)

	cam := &CoreCamera{
		position:      b.position,
		viewDirection: view,
		downDirection: down,
		fovy:          b.fovy,
		aspect:        b.aspect,
		near:          b.near,
		far:           b.far,
	}
	cam.updateViewMatrix()
	cam.updateProjectionMatrix()
	return cam
}

func (c *CoreCamera) updateViewMatrix() {
	center := vec3Add(c.position, c.viewDirection)
	up := vec3Scale(c.downDirection, -1.0)
	c.viewMatrix.LookAt(&c.position, &center, &up)
}

func (c *CoreCamera) updateProjectionMatrix() {
	var proj lin.Mat4x4
	proj.Perspective(c.fovy, c.aspect, c.near, c.far)
	VulkanProjectionMat(&c.projectionMatrix, &proj)
}

// SetAspect adjusts the projection to a resized viewport.
func (c *CoreCamera) SetAspect(aspect float32) {
	c.aspect = aspect
	c.updateProjectionMatrix()
}

// MoveForward translates the camera along its view direction.
func (c *CoreCamera) MoveForward(distance float32) {
	c.position = vec3Add(c.position, vec3Scale(c.viewDirection, distance))
	c.updateViewMatrix()
}

func (c *CoreCamera) MoveBackward(distance float32) {
	c.MoveForward(-distance)
}

// TurnRight yaws the view direction around the down axis.
func (c *CoreCamera) TurnRight(angle float32) {
	c.viewDirection = vec3Normalize(rotateVec3(c.viewDirection, c.downDirection, angle))
	c.updateViewMatrix()
}

func (c *CoreCamera) TurnLeft(angle float32) {
	c.TurnRight(-angle)
}

// TurnUp pitches both directions around the right axis so they stay
// orthogonal.
func (c *CoreCamera) TurnUp(angle float32) {
	right := vec3Normalize(vec3Cross(c.downDirection, c.viewDirection))
	c.viewDirection = vec3Normalize(rotateVec3(c.viewDirection, right, -angle))
	c.downDirection = vec3Normalize(rotateVec3(c.downDirection, right, -angle))
	c.updateViewMatrix()
}

func (c *CoreCamera) TurnDown(angle float32) {
	c.TurnUp(-angle)
}

// Position reports the camera position, mostly for logging.
func (c *CoreCamera) Position() (x, y, z float32) {
	return c.position[0], c.position[1], c.position[2]
}

// Matrices returns the current view and projection matrices in the layout
// the uniform buffer consumes.
func (c *CoreCamera) Matrices() (view, projection [16]float32) {
	return unroll(&c.viewMatrix), unroll(&c.projectionMatrix)
}

// UpdateBuffer writes view then projection into the uniform buffer, growing
// it on first use.
func (c *CoreCamera) UpdateBuffer(memProps vk.PhysicalDeviceMemoryProperties, buffer *CoreBuffer) error {
	data := [2][16]float32{unroll(&c.viewMatrix), unroll(&c.projectionMatrix)}
	return buffer.Upload(memProps, rawBytes(data[:]))
}
