package magmavk

import (
	vk "github.com/vulkan-go/vulkan"
)

// Model ties a triangle mesh and an instance registry to the three GPU
// buffers one indexed-instanced draw needs. V and I are trivially-copyable
// records whose layouts the pipeline's vertex input declares; the registry
// and buffers do not depend on them beyond their size.
//
// Buffers are created lazily on the first Update call, so a model can be
// populated before a device exists. Per frame, callers mutate the registry,
// refresh the instance buffer (and on structural change the vertex/index
// buffers), then record the draw.
type Model[V, I any] struct {
	vertices []V
	indices  []uint32

	Registry *InstanceRegistry[I]

	vertexBuffer   *CoreBuffer
	indexBuffer    *CoreBuffer
	instanceBuffer *CoreBuffer
}

func NewModel[V, I any](vertices []V, indices []uint32) *Model[V, I] {
	return &Model[V, I]{
		vertices: vertices,
		indices:  indices,
		Registry: NewInstanceRegistry[I](),
	}
}

// Vertices exposes the shared vertex list of the mesh.
func (m *Model[V, I]) Vertices() []V {
	return m.vertices
}

// Indices exposes the triangle index list of the mesh.
func (m *Model[V, I]) Indices() []uint32 {
	return m.indices
}

// UpdateVertexBuffer makes sure the vertex buffer exists and holds the
// current vertex list.
func (m *Model[V, I]) UpdateVertexBuffer(device vk.Device, memProps vk.PhysicalDeviceMemoryProperties) error {
	data := rawBytes(m.vertices)
	if m.vertexBuffer == nil {
		buffer, err := NewCoreBuffer(device, memProps, len(data), vk.BufferUsageVertexBufferBit)
		if err != nil {
			return err
		}
		m.vertexBuffer = buffer
	}
	return m.vertexBuffer.Upload(memProps, data)
}

// UpdateIndexBuffer makes sure the index buffer exists and holds the current
// triangle index list.
func (m *Model[V, I]) UpdateIndexBuffer(device vk.Device, memProps vk.PhysicalDeviceMemoryProperties) error {
	data := rawBytes(m.indices)
	if m.indexBuffer == nil {
		buffer, err := NewCoreBuffer(device, memProps, len(data), vk.BufferUsageIndexBufferBit)
		if err != nil {
			return err
		}
		m.indexBuffer = buffer
	}
	return m.indexBuffer.Upload(memProps, data)
}

// UpdateInstanceBuffer uploads the visible prefix of the registry. Hidden
// records never reach the GPU. With an empty prefix the buffer may stay
// unbound; Draw is then a no-op.
func (m *Model[V, I]) UpdateInstanceBuffer(device vk.Device, memProps vk.PhysicalDeviceMemoryProperties) error {
	data := rawBytes(m.Registry.Visible())
	if m.instanceBuffer == nil {
		if len(data) == 0 {
			return nil
		}
		buffer, err := NewCoreBuffer(device, memProps, len(data), vk.BufferUsageVertexBufferBit)
		if err != nil {
			return err
		}
		m.instanceBuffer = buffer
	}
	return m.instanceBuffer.Upload(memProps, data)
}

// Draw records one indexed-instanced draw of the visible prefix into cmd.
// Nothing is recorded while the vertex or instance buffer is absent or no
// instance is visible.
func (m *Model[V, I]) Draw(cmd vk.CommandBuffer) {
	if m.vertexBuffer == nil || m.indexBuffer == nil || m.instanceBuffer == nil {
		return
	}
	if m.Registry.VisibleCount() == 0 {
		return
	}
	vk.CmdBindVertexBuffers(cmd, 0, 1,
		[]vk.Buffer{m.vertexBuffer.Handle()}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(cmd, m.indexBuffer.Handle(), 0, vk.IndexTypeUint32)
	vk.CmdBindVertexBuffers(cmd, 1, 1,
		[]vk.Buffer{m.instanceBuffer.Handle()}, []vk.DeviceSize{0})
	vk.CmdDrawIndexed(cmd, uint32(len(m.indices)),
		uint32(m.Registry.VisibleCount()), 0, 0, 0)
}

// Destroy releases all three GPU buffers. Must run before the device is
// torn down.
func (m *Model[V, I]) Destroy() {
	if m.vertexBuffer != nil {
		m.vertexBuffer.Destroy()
		m.vertexBuffer = nil
	}
	if m.indexBuffer != nil {
		m.indexBuffer.Destroy()
		m.indexBuffer = nil
	}
	if m.instanceBuffer != nil {
		m.instanceBuffer.Destroy()
		m.instanceBuffer = nil
	}
}

// MeshModel is the standard instanced mesh: procedural geometry with the
// 24-byte vertex and 140-byte instance records the default pipeline expects.
type MeshModel = Model[VertexData, InstanceData]

// NewCubeModel builds a MeshModel around the unit cube.
func NewCubeModel() *MeshModel {
	g := NewCubeGeometry()
	return NewModel[VertexData, InstanceData](g.Vertices, g.Indices)
}

// NewSphereModel builds a MeshModel around an icosphere with the given
// number of refinement passes.
func NewSphereModel(refinements uint32) *MeshModel {
	g := NewSphereGeometry(refinements)
	return NewModel[VertexData, InstanceData](g.Vertices, g.Indices)
}
