package magmavk

import (
	vk "github.com/vulkan-go/vulkan"
)

// CoreImage owns a device-local image with its memory and view. Its only
// user today is the swapchain depth attachment.
type CoreImage struct {
	device vk.Device
	image  vk.Image
	memory vk.DeviceMemory
	view   vk.ImageView
}

// NewDepthImage allocates a depth attachment matching the swapchain extent,
// preferring device-local memory.
func NewDepthImage(device *CoreDevice, format vk.Format, extent vk.Extent2D, queueFamily uint32) (*CoreImage, error) {
	var image vk.Image
	ret := vk.CreateImage(device.handle, &vk.ImageCreateInfo{
		SType:                 vk.StructureTypeImageCreateInfo,
		ImageType:             vk.ImageType2d,
		Format:                format,
		Extent:                vk.Extent3D{Width: extent.Width, Height: extent.Height, Depth: 1},
		MipLevels:             1,
		ArrayLayers:           1,
		Samples:               vk.SampleCount1Bit,
		Tiling:                vk.ImageTilingOptimal,
		Usage:                 vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit),
		SharingMode:           vk.SharingModeExclusive,
		QueueFamilyIndexCount: 1,
		PQueueFamilyIndices:   []uint32{queueFamily},
		InitialLayout:         vk.ImageLayoutUndefined,
	}, nil, &image)
	if isError(ret) {
		return nil, newError(ret)
	}

	var memReqs vk.MemoryRequirements
	vk.GetImageMemoryRequirements(device.handle, image, &memReqs)
	memReqs.Deref()

	memType, ok := FindRequiredMemoryType(*device.memoryProps,
		vk.MemoryPropertyFlagBits(memReqs.MemoryTypeBits), vk.MemoryPropertyDeviceLocalBit)
	if !ok {
		// Any allowed type will do when nothing is device local.
		memType, _ = FindRequiredMemoryType(*device.memoryProps,
			vk.MemoryPropertyFlagBits(memReqs.MemoryTypeBits), 0)
	}

	var memory vk.DeviceMemory
	ret = vk.AllocateMemory(device.handle, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memType,
	}, nil, &memory)
	if isError(ret) {
		vk.DestroyImage(device.handle, image, nil)
		return nil, newError(ret)
	}
	vk.BindImageMemory(device.handle, image, memory, 0)

	var view vk.ImageView
	ret = vk.CreateImageView(device.handle, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleR,
			G: vk.ComponentSwizzleG,
			B: vk.ComponentSwizzleB,
			A: vk.ComponentSwizzleA,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectDepthBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &view)
	if isError(ret) {
		vk.FreeMemory(device.handle, memory, nil)
		vk.DestroyImage(device.handle, image, nil)
		return nil, newError(ret)
	}

	return &CoreImage{
		device: device.handle,
		image:  image,
		memory: memory,
		view:   view,
	}, nil
}

// View returns the image view for framebuffer attachment.
func (i *CoreImage) View() vk.ImageView {
	return i.view
}

func (i *CoreImage) Destroy() {
	if i.device == nil {
		return
	}
	vk.DestroyImageView(i.device, i.view, nil)
	vk.FreeMemory(i.device, i.memory, nil)
	vk.DestroyImage(i.device, i.image, nil)
	i.device = nil
}
