package magmavk

import vk "github.com/vulkan-go/vulkan"

// FenceManager keeps track of fences which in turn are used to keep track of
// GPU progress. Not thread-safe; the renderer owns one per swapchain image.
type FenceManager struct {
	device vk.Device
	fences []vk.Fence
	count  uint32
}

func NewFenceManager(device vk.Device) *FenceManager {
	return &FenceManager{device: device}
}

// Reset waits for the GPU to trigger all outstanding fences, then recycles
// them. After it returns, resources used by the previous pass through this
// frame slot may be reused.
func (f *FenceManager) Reset() {
	if f.count > 0 {
		vk.WaitForFences(f.device, f.count, f.fences[:f.count], vk.True, vk.MaxUint64)
		vk.ResetFences(f.device, f.count, f.fences[:f.count])
	}
	f.count = 0
}

// NewFence returns a fresh or recycled unsignalled fence.
func (f *FenceManager) NewFence() (vk.Fence, error) {
	if f.count < uint32(len(f.fences)) {
		fence := f.fences[f.count]
		f.count++
		return fence, nil
	}
	var fence vk.Fence
	ret := vk.CreateFence(f.device, &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}, nil, &fence)
	if isError(ret) {
		return fence, newError(ret)
	}
	f.fences = append(f.fences, fence)
	f.count++
	return fence, nil
}

func (f *FenceManager) Destroy() {
	f.Reset()
	for i := range f.fences {
		vk.DestroyFence(f.device, f.fences[i], nil)
	}
	f.fences = nil
}

// CommandBufferManager allocates primary command buffers and recycles them
// between frames. Not thread-safe; the renderer owns one per swapchain image.
type CommandBufferManager struct {
	device  vk.Device
	pool    *CorePool
	buffers []vk.CommandBuffer
	count   uint32
}

func NewCommandBufferManager(device vk.Device, graphicsQueueIndex uint32) (*CommandBufferManager, error) {
	pool, err := NewCorePool(device, graphicsQueueIndex)
	if err != nil {
		return nil, err
	}
	return &CommandBufferManager{
		device: device,
		pool:   pool,
	}, nil
}

// Reset marks all managed command buffers as recycleable.
func (c *CommandBufferManager) Reset() {
	c.count = 0
}

// NewCommandBuffer returns a fresh or recycled command buffer in the reset
// state. Its lifetime is the current frame only.
func (c *CommandBufferManager) NewCommandBuffer() (vk.CommandBuffer, error) {
	if c.count < uint32(len(c.buffers)) {
		buf := c.buffers[c.count]
		c.count++
		ret := vk.ResetCommandBuffer(buf,
			vk.CommandBufferResetFlags(vk.CommandBufferResetReleaseResourcesBit))
		if isError(ret) {
			return buf, newError(ret)
		}
		return buf, nil
	}
	bufs, err := c.pool.AllocateBuffers(c.device, 1)
	if err != nil {
		return nil, err
	}
	c.buffers = append(c.buffers, bufs[0])
	c.count++
	return bufs[0], nil
}

func (c *CommandBufferManager) Destroy() {
	c.pool.Destroy(c.device)
	c.buffers = nil
}
