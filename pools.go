package magmavk

import (
	vk "github.com/vulkan-go/vulkan"
)

// CorePool wraps one command pool bound to a queue family, with individually
// resettable command buffers.
type CorePool struct {
	pool vk.CommandPool
}

func NewCorePool(device vk.Device, familyIndex uint32) (*CorePool, error) {
	var cmdPool vk.CommandPool
	ret := vk.CreateCommandPool(device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: familyIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &cmdPool)
	if isError(ret) {
		return nil, newError(ret)
	}
	return &CorePool{pool: cmdPool}, nil
}

// AllocateBuffers allocates count primary command buffers from the pool.
func (c *CorePool) AllocateBuffers(device vk.Device, count int) ([]vk.CommandBuffer, error) {
	buffers := make([]vk.CommandBuffer, count)
	ret := vk.AllocateCommandBuffers(device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        c.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(count),
	}, buffers)
	if isError(ret) {
		return nil, newError(ret)
	}
	return buffers, nil
}

// Reset recycles every buffer allocated from the pool.
func (c *CorePool) Reset(device vk.Device) {
	vk.ResetCommandPool(device, c.pool,
		vk.CommandPoolResetFlags(vk.CommandPoolResetReleaseResourcesBit))
}

func (c *CorePool) Destroy(device vk.Device) {
	vk.DestroyCommandPool(device, c.pool, nil)
}
