package magmavk

import (
	"errors"

	vk "github.com/vulkan-go/vulkan"
)

// CoreSwapchain owns the presentation chain for one display: the swapchain
// images with their views, a shared depth attachment, and one framebuffer
// per image once a render pass exists.
type CoreSwapchain struct {
	device       vk.Device
	swapchain    vk.Swapchain
	images       []vk.Image
	imageViews   []vk.ImageView
	framebuffers []vk.Framebuffer
	depth        *CoreImage
	extent       vk.Extent2D
	format       vk.Format
}

// NewCoreSwapchain builds a swapchain against the display surface, replacing
// old when recreating after a resize. The display's cached surface format,
// depth format and extent are refreshed as a side effect.
func NewCoreSwapchain(device *CoreDevice, instance vk.Instance, display *CoreDisplay,
	queueFamily uint32, old *CoreSwapchain) (*CoreSwapchain, error) {

	surface, err := display.Surface(instance)
	if err != nil {
		return nil, err
	}

	var caps vk.SurfaceCapabilities
	ret := vk.GetPhysicalDeviceSurfaceCapabilities(device.selected, surface, &caps)
	if isError(ret) {
		return nil, newError(ret)
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	format, err := selectSurfaceFormat(device.selected, surface)
	if err != nil {
		return nil, err
	}
	depthFormat, err := selectDepthFormat(device.selected)
	if err != nil {
		return nil, err
	}

	extent := caps.CurrentExtent
	if extent.Width == vk.MaxUint32 {
		w, h := display.GetSize()
		extent.Width = clampUint32(uint32(w), caps.MinImageExtent.Width, caps.MaxImageExtent.Width)
		extent.Height = clampUint32(uint32(h), caps.MinImageExtent.Height, caps.MaxImageExtent.Height)
	}

	imageCount := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && imageCount > caps.MaxImageCount {
		imageCount = caps.MaxImageCount
	}

	// Prefer the identity transform when the surface supports it.
	preTransform := caps.CurrentTransform
	if vk.SurfaceTransformFlagBits(caps.SupportedTransforms)&vk.SurfaceTransformIdentityBit != 0 {
		preTransform = vk.SurfaceTransformIdentityBit
	}

	// One of the composite alpha modes is guaranteed to be supported.
	compositeAlpha := vk.CompositeAlphaOpaqueBit
	for _, mode := range []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	} {
		if caps.SupportedCompositeAlpha&vk.CompositeAlphaFlags(mode) != 0 {
			compositeAlpha = mode
			break
		}
	}

	var oldHandle vk.Swapchain
	if old != nil {
		oldHandle = old.swapchain
	}

	var swapchain vk.Swapchain
	ret = vk.CreateSwapchain(device.handle, &vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		Surface:               surface,
		MinImageCount:         imageCount,
		ImageFormat:           format.Format,
		ImageColorSpace:       format.ColorSpace,
		ImageExtent:           extent,
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode:      vk.SharingModeExclusive,
		QueueFamilyIndexCount: 1,
		PQueueFamilyIndices:   []uint32{queueFamily},
		PreTransform:          preTransform,
		CompositeAlpha:        compositeAlpha,
		PresentMode:           vk.PresentModeFifo,
		Clipped:               vk.True,
		OldSwapchain:          oldHandle,
	}, nil, &swapchain)
	if old != nil {
		old.Destroy()
	}
	if isError(ret) {
		return nil, newError(ret)
	}

	s := &CoreSwapchain{
		device:    device.handle,
		swapchain: swapchain,
		extent:    extent,
		format:    format.Format,
	}

	var count uint32
	ret = vk.GetSwapchainImages(device.handle, swapchain, &count, nil)
	if isError(ret) {
		s.Destroy()
		return nil, newError(ret)
	}
	s.images = make([]vk.Image, count)
	ret = vk.GetSwapchainImages(device.handle, swapchain, &count, s.images)
	if isError(ret) {
		s.Destroy()
		return nil, newError(ret)
	}

	for _, image := range s.images {
		var view vk.ImageView
		ret = vk.CreateImageView(device.handle, &vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    image,
			ViewType: vk.ImageViewType2d,
			Format:   format.Format,
			Components: vk.ComponentMapping{
				R: vk.ComponentSwizzleR,
				G: vk.ComponentSwizzleG,
				B: vk.ComponentSwizzleB,
				A: vk.ComponentSwizzleA,
			},
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}, nil, &view)
		if isError(ret) {
			s.Destroy()
			return nil, newError(ret)
		}
		s.imageViews = append(s.imageViews, view)
	}

	s.depth, err = NewDepthImage(device, depthFormat, extent, queueFamily)
	if err != nil {
		s.Destroy()
		return nil, err
	}

	display.surfaceFormat = format
	display.depthFormat = depthFormat
	display.extent = extent
	display.viewport = vk.Viewport{
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MaxDepth: 1.0,
	}
	return s, nil
}

func selectSurfaceFormat(gpu vk.PhysicalDevice, surface vk.Surface) (vk.SurfaceFormat, error) {
	var count uint32
	ret := vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &count, nil)
	if isError(ret) {
		return vk.SurfaceFormat{}, newError(ret)
	}
	formats := make([]vk.SurfaceFormat, count)
	ret = vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &count, formats)
	if isError(ret) {
		return vk.SurfaceFormat{}, newError(ret)
	}
	if count == 0 {
		return vk.SurfaceFormat{}, errors.New("vulkan: surface reports no formats")
	}
	for i := range formats {
		formats[i].Deref()
	}
	// The surface has no preference, take a common UNORM format.
	if count == 1 && formats[0].Format == vk.FormatUndefined {
		formats[0].Format = vk.FormatB8g8r8a8Unorm
		return formats[0], nil
	}
	for _, f := range formats {
		if f.Format == vk.FormatB8g8r8a8Unorm || f.Format == vk.FormatR8g8b8a8Unorm {
			return f, nil
		}
	}
	return formats[0], nil
}

func selectDepthFormat(gpu vk.PhysicalDevice) (vk.Format, error) {
	candidates := []vk.Format{
		vk.FormatD32Sfloat,
		vk.FormatD32SfloatS8Uint,
		vk.FormatD24UnormS8Uint,
	}
	for _, format := range candidates {
		var props vk.FormatProperties
		vk.GetPhysicalDeviceFormatProperties(gpu, format, &props)
		props.Deref()
		if vk.FormatFeatureFlags(props.OptimalTilingFeatures)&
			vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit) != 0 {
			return format, nil
		}
	}
	return vk.FormatUndefined, errors.New("vulkan: no supported depth attachment format")
}

func clampUint32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CreateFramebuffers builds one framebuffer per swapchain image against the
// render pass, attaching the shared depth image to each.
func (s *CoreSwapchain) CreateFramebuffers(renderPass vk.RenderPass) error {
	s.destroyFramebuffers()
	for _, view := range s.imageViews {
		var framebuffer vk.Framebuffer
		ret := vk.CreateFramebuffer(s.device, &vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      renderPass,
			AttachmentCount: 2,
			PAttachments:    []vk.ImageView{view, s.depth.View()},
			Width:           s.extent.Width,
			Height:          s.extent.Height,
			Layers:          1,
		}, nil, &framebuffer)
		if isError(ret) {
			return newError(ret)
		}
		s.framebuffers = append(s.framebuffers, framebuffer)
	}
	return nil
}

// AcquireNext requests the next presentable image, signalling the semaphore
// once it is ready. The raw result is passed through so callers can react to
// suboptimal and out-of-date swapchains.
func (s *CoreSwapchain) AcquireNext(semaphore vk.Semaphore) (uint32, vk.Result) {
	var imageIndex uint32
	ret := vk.AcquireNextImage(s.device, s.swapchain, vk.MaxUint64,
		semaphore, vk.NullFence, &imageIndex)
	return imageIndex, ret
}

// ImageCount is the number of presentable images.
func (s *CoreSwapchain) ImageCount() int {
	return len(s.images)
}

// Extent is the pixel size the chain was created with.
func (s *CoreSwapchain) Extent() vk.Extent2D {
	return s.extent
}

// Format is the colour attachment format.
func (s *CoreSwapchain) Format() vk.Format {
	return s.format
}

// Handle returns the raw swapchain for present calls.
func (s *CoreSwapchain) Handle() vk.Swapchain {
	return s.swapchain
}

// Framebuffer returns the framebuffer for the given image index.
func (s *CoreSwapchain) Framebuffer(imageIndex uint32) vk.Framebuffer {
	return s.framebuffers[imageIndex]
}

func (s *CoreSwapchain) destroyFramebuffers() {
	for _, fb := range s.framebuffers {
		vk.DestroyFramebuffer(s.device, fb, nil)
	}
	s.framebuffers = nil
}

func (s *CoreSwapchain) Destroy() {
	if s.device == nil {
		return
	}
	s.destroyFramebuffers()
	if s.depth != nil {
		s.depth.Destroy()
		s.depth = nil
	}
	for _, view := range s.imageViews {
		vk.DestroyImageView(s.device, view, nil)
	}
	s.imageViews = nil
	vk.DestroySwapchain(s.device, s.swapchain, nil)
	s.device = nil
}
