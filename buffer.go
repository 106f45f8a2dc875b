package magmavk

import (
	"fmt"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// CoreBuffer owns one device buffer backed by host-visible, host-coherent
// memory. Uploads that fit the current capacity are copied in place; larger
// uploads destroy and recreate the buffer with the same usage class. The
// memory is coherent, so no explicit flush is issued after a copy.
type CoreBuffer struct {
	device vk.Device
	buffer vk.Buffer
	memory vk.DeviceMemory

	size      int
	allocated vk.DeviceSize
	usage     vk.BufferUsageFlagBits
}

// NewCoreBuffer allocates and binds a buffer of at least size bytes.
func NewCoreBuffer(device vk.Device, memProps vk.PhysicalDeviceMemoryProperties,
	size int, usage vk.BufferUsageFlagBits) (*CoreBuffer, error) {

	var buffer vk.Buffer
	ret := vk.CreateBuffer(device, &vk.BufferCreateInfo{
		SType: vk.StructureTypeBufferCreateInfo,
		Usage: vk.BufferUsageFlags(usage),
		Size:  vk.DeviceSize(size),
	}, nil, &buffer)
	if isError(ret) {
		return nil, newError(ret)
	}

	var memReqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(device, buffer, &memReqs)
	memReqs.Deref()

	memType, ok := FindRequiredMemoryType(memProps,
		vk.MemoryPropertyFlagBits(memReqs.MemoryTypeBits),
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	if !ok {
		vk.DestroyBuffer(device, buffer, nil)
		return nil, fmt.Errorf("vulkan error: no host-visible, host-coherent memory type for buffer")
	}

	var memory vk.DeviceMemory
	ret = vk.AllocateMemory(device, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memType,
	}, nil, &memory)
	if isError(ret) {
		vk.DestroyBuffer(device, buffer, nil)
		return nil, newError(ret)
	}

	ret = vk.BindBufferMemory(device, buffer, memory, 0)
	if isError(ret) {
		vk.FreeMemory(device, memory, nil)
		vk.DestroyBuffer(device, buffer, nil)
		return nil, newError(ret)
	}

	return &CoreBuffer{
		device:    device,
		buffer:    buffer,
		memory:    memory,
		size:      size,
		allocated: memReqs.Size,
		usage:     usage,
	}, nil
}

// Size reports the byte capacity requested at creation or on the last grow.
func (b *CoreBuffer) Size() int {
	return b.size
}

// Handle exposes the underlying buffer object for binding.
func (b *CoreBuffer) Handle() vk.Buffer {
	return b.buffer
}

// Upload copies data into the buffer starting at offset zero, growing the
// buffer first when the payload exceeds the current capacity. On a mapping
// failure the buffer stays owned and valid but its contents are undefined.
func (b *CoreBuffer) Upload(memProps vk.PhysicalDeviceMemoryProperties, data []byte) error {
	if len(data) > b.size {
		grown, err := NewCoreBuffer(b.device, memProps, len(data), b.usage)
		if err != nil {
			return err
		}
		b.Destroy()
		*b = *grown
	}
	if len(data) == 0 {
		return nil
	}

	var pData unsafe.Pointer
	ret := vk.MapMemory(b.device, b.memory, 0, b.allocated, 0, &pData)
	if isError(ret) {
		return newError(ret)
	}
	n := vk.Memcopy(pData, data)
	vk.UnmapMemory(b.device, b.memory)
	if n != len(data) {
		return fmt.Errorf("vulkan error: buffer copy truncated, %d != %d", n, len(data))
	}
	return nil
}

// Destroy releases the buffer object and its memory. Safe to call once; the
// owning model guarantees the device outlives this call.
func (b *CoreBuffer) Destroy() {
	if b.device == nil {
		return
	}
	vk.FreeMemory(b.device, b.memory, nil)
	vk.DestroyBuffer(b.device, b.buffer, nil)
	b.device = nil
}
