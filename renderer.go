package magmavk

import (
	"fmt"
	"log"

	vk "github.com/vulkan-go/vulkan"
)

// frameResources is the per-slot state of the frames-in-flight rotation:
// sync primitives plus the fence and command buffer recyclers.
type frameResources struct {
	fences        *FenceManager
	commands      *CommandBufferManager
	imageAcquired vk.Semaphore
	renderDone    vk.Semaphore
}

// CoreRenderInstance drives rendering for one display: it selects the
// device, owns the swapchain, render pass and pipeline, and every frame
// uploads the camera uniform and the visible instances of each registered
// model before recording their draws.
type CoreRenderInstance struct {
	instance           vk.Instance
	name               string
	instanceExtensions BaseInstanceExtensions
	deviceExtensions   BaseDeviceExtensions
	validationLayers   BaseLayerExtensions

	device            *CoreDevice
	display           *CoreDisplay
	queues            *CoreQueue
	renderQueue       vk.Queue
	renderQueueFamily uint32

	swapchain  *CoreSwapchain
	renderPass *CoreRenderPass
	pipeline   *CorePipeline
	vertShader *CoreShader
	fragShader *CoreShader

	frames       []frameResources
	currentFrame int

	descriptorPool vk.DescriptorPool
	cameraSet      vk.DescriptorSet
	cameraBuffer   *CoreBuffer
	camera         *CoreCamera

	models []*MeshModel
}

// NewCoreRenderInstance binds a renderer to the display, selecting the first
// graphics-capable GPU. The shaders are SPIR-V bytecode for the instanced
// mesh pipeline's vertex and fragment stages.
func NewCoreRenderInstance(instance vk.Instance, name string,
	instanceExtensions BaseInstanceExtensions, validationLayers BaseLayerExtensions,
	deviceExtensions []string, display *CoreDisplay,
	vertSpirv, fragSpirv []byte) (*CoreRenderInstance, error) {

	core := &CoreRenderInstance{
		instance:           instance,
		name:               name,
		instanceExtensions: instanceExtensions,
		validationLayers:   validationLayers,
		display:            display,
		device:             &CoreDevice{name: name},
	}
	if err := core.init(deviceExtensions, vertSpirv, fragSpirv); err != nil {
		return nil, err
	}
	return core, nil
}

func (core *CoreRenderInstance) init(deviceExtensions []string, vertSpirv, fragSpirv []byte) error {
	var gpuCount uint32
	ret := vk.EnumeratePhysicalDevices(core.instance, &gpuCount, nil)
	if isError(ret) {
		return newError(ret)
	}
	if gpuCount == 0 {
		return fmt.Errorf("vulkan error: no physical devices found")
	}
	gpus := make([]vk.PhysicalDevice, gpuCount)
	ret = vk.EnumeratePhysicalDevices(core.instance, &gpuCount, gpus)
	if isError(ret) {
		return newError(ret)
	}
	core.device.physicalDevices = gpus

	hasDevice := false
	for _, gpu := range gpus {
		if queue := NewCoreQueue(gpu); queue != nil &&
			queue.IsDeviceSuitable(vk.QueueFlags(vk.QueueGraphicsBit)) {
			core.device.selected = gpu
			hasDevice = true
			break
		}
	}
	if !hasDevice {
		return fmt.Errorf("vulkan error: no suitable GPU device for graphics and presentation")
	}

	core.device.properties = &vk.PhysicalDeviceProperties{}
	core.device.memoryProps = &vk.PhysicalDeviceMemoryProperties{}
	vk.GetPhysicalDeviceProperties(core.device.selected, core.device.properties)
	core.device.properties.Deref()
	vk.GetPhysicalDeviceMemoryProperties(core.device.selected, core.device.memoryProps)
	core.device.memoryProps.Deref()

	core.deviceExtensions = *NewBaseDeviceExtensions(deviceExtensions, []string{"VK_KHR_swapchain"}, core.device.selected)
	if ok, missing := core.deviceExtensions.HasWanted(); !ok {
		log.Printf("vulkan warning: missing device extensions %v", missing)
	}

	queues := NewCoreQueue(core.device.selected)
	queueInfos := queues.GetCreateInfos()
	devExtensions := core.deviceExtensions.GetExtensions()

	var device vk.Device
	ret = vk.CreateDevice(core.device.selected, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(devExtensions)),
		PpEnabledExtensionNames: safeStrings(devExtensions),
		EnabledLayerCount:       uint32(len(core.validationLayers.GetExtensions())),
		PpEnabledLayerNames:     safeStrings(core.validationLayers.GetExtensions()),
	}, nil, &device)
	if isError(ret) {
		return newError(ret)
	}
	core.device.handle = device

	queues.CreateQueues(device)
	core.queues = queues
	found, queue, family := queues.BindGraphicsQueue()
	if !found {
		return fmt.Errorf("vulkan error: no graphics queue on selected device")
	}
	core.renderQueue = queue
	core.renderQueueFamily = family

	swapchain, err := NewCoreSwapchain(core.device, core.instance, core.display, family, nil)
	if err != nil {
		return err
	}
	core.swapchain = swapchain

	core.renderPass, err = NewCoreRenderPass(device, core.display.surfaceFormat.Format, core.display.depthFormat)
	if err != nil {
		return err
	}
	if err = core.swapchain.CreateFramebuffers(core.renderPass.Handle()); err != nil {
		return err
	}

	core.vertShader, err = NewCoreShader(device, vertSpirv, vk.ShaderStageVertexBit)
	if err != nil {
		return err
	}
	core.fragShader, err = NewCoreShader(device, fragSpirv, vk.ShaderStageFragmentBit)
	if err != nil {
		return err
	}

	core.pipeline, err = NewCorePipeline(device, core.renderPass.Handle(),
		core.swapchain.Extent(), core.vertShader, core.fragShader)
	if err != nil {
		return err
	}

	if err = core.initPerFrame(); err != nil {
		return err
	}
	if err = core.initCamera(); err != nil {
		return err
	}
	return nil
}

func (core *CoreRenderInstance) initPerFrame() error {
	device := core.device.handle
	for i := 0; i < core.swapchain.ImageCount(); i++ {
		commands, err := NewCommandBufferManager(device, core.renderQueueFamily)
		if err != nil {
			return err
		}
		frame := frameResources{
			fences:   NewFenceManager(device),
			commands: commands,
		}
		ret := vk.CreateSemaphore(device, &vk.SemaphoreCreateInfo{
			SType: vk.StructureTypeSemaphoreCreateInfo,
		}, nil, &frame.imageAcquired)
		if isError(ret) {
			return newError(ret)
		}
		ret = vk.CreateSemaphore(device, &vk.SemaphoreCreateInfo{
			SType: vk.StructureTypeSemaphoreCreateInfo,
		}, nil, &frame.renderDone)
		if isError(ret) {
			return newError(ret)
		}
		core.frames = append(core.frames, frame)
	}
	return nil
}

func (core *CoreRenderInstance) initCamera() error {
	device := core.device.handle
	memProps := core.device.MemoryProperties()

	core.camera = NewCameraBuilder().Aspect(core.display.Aspect()).Build()

	var err error
	core.cameraBuffer, err = NewCoreBuffer(device, memProps,
		cameraUniformSize, vk.BufferUsageUniformBufferBit)
	if err != nil {
		return err
	}
	if err = core.camera.UpdateBuffer(memProps, core.cameraBuffer); err != nil {
		return err
	}

	ret := vk.CreateDescriptorPool(device, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       1,
		PoolSizeCount: 1,
		PPoolSizes: []vk.DescriptorPoolSize{{
			Type:            vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
		}},
	}, nil, &core.descriptorPool)
	if isError(ret) {
		return newError(ret)
	}

	ret = vk.AllocateDescriptorSets(device, &vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     core.descriptorPool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{core.pipeline.DescriptorSetLayout()},
	}, &core.cameraSet)
	if isError(ret) {
		return newError(ret)
	}

	vk.UpdateDescriptorSets(device, 1, []vk.WriteDescriptorSet{{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          core.cameraSet,
		DstBinding:      0,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		PBufferInfo: []vk.DescriptorBufferInfo{{
			Buffer: core.cameraBuffer.Handle(),
			Range:  vk.DeviceSize(cameraUniformSize),
		}},
	}}, 0, nil)
	return nil
}

// cameraUniformSize covers the view and projection matrices.
const cameraUniformSize = 2 * 16 * 4

// Camera exposes the camera for input handling.
func (core *CoreRenderInstance) Camera() *CoreCamera {
	return core.camera
}

// AddModel registers a model for drawing and takes ownership of its buffers.
func (core *CoreRenderInstance) AddModel(model *MeshModel) {
	core.models = append(core.models, model)
}

// Models returns the registered models in draw order.
func (core *CoreRenderInstance) Models() []*MeshModel {
	return core.models
}

// Update renders one frame: wait on the frame slot, acquire an image, upload
// the camera uniform and per-model visible instances, record the draws,
// submit and present. Out-of-date swapchains trigger a resize and a retry.
func (core *CoreRenderInstance) Update(delta float32) error {
	device := core.device.handle
	memProps := core.device.MemoryProperties()
	frame := &core.frames[core.currentFrame]

	frame.fences.Reset()
	frame.commands.Reset()

	imageIndex, res := core.swapchain.AcquireNext(frame.imageAcquired)
	if res == vk.ErrorOutOfDate || res == vk.Suboptimal {
		if err := core.Resize(); err != nil {
			return err
		}
		imageIndex, res = core.swapchain.AcquireNext(frame.imageAcquired)
	}
	if isError(res) {
		return newError(res)
	}

	if err := core.camera.UpdateBuffer(memProps, core.cameraBuffer); err != nil {
		return err
	}
	for _, model := range core.models {
		if err := model.UpdateVertexBuffer(device, memProps); err != nil {
			return err
		}
		if err := model.UpdateIndexBuffer(device, memProps); err != nil {
			return err
		}
		if err := model.UpdateInstanceBuffer(device, memProps); err != nil {
			return err
		}
	}

	cmd, err := frame.commands.NewCommandBuffer()
	if err != nil {
		return err
	}
	core.recordCommands(cmd, imageIndex)

	fence, err := frame.fences.NewFence()
	if err != nil {
		return err
	}
	ret := vk.QueueSubmit(core.renderQueue, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{frame.imageAcquired},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{cmd},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{frame.renderDone},
	}}, fence)
	if isError(ret) {
		return newError(ret)
	}

	res = vk.QueuePresent(core.renderQueue, &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{frame.renderDone},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{core.swapchain.Handle()},
		PImageIndices:      []uint32{imageIndex},
	})
	if res == vk.ErrorOutOfDate || res == vk.Suboptimal {
		if err := core.Resize(); err != nil {
			return err
		}
	} else if isError(res) {
		return newError(res)
	}

	core.currentFrame = (core.currentFrame + 1) % len(core.frames)
	return nil
}

func (core *CoreRenderInstance) recordCommands(cmd vk.CommandBuffer, imageIndex uint32) {
	clearValues := []vk.ClearValue{
		vk.NewClearValue([]float32{0.0, 0.0, 0.0, 1.0}),
		vk.NewClearDepthStencil(1.0, 0.0),
	}
	extent := core.swapchain.Extent()

	vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	vk.CmdBeginRenderPass(cmd, &vk.RenderPassBeginInfo{
		SType:           vk.StructureTypeRenderPassBeginInfo,
		RenderPass:      core.renderPass.Handle(),
		Framebuffer:     core.swapchain.Framebuffer(imageIndex),
		RenderArea:      vk.Rect2D{Extent: extent},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}, vk.SubpassContentsInline)

	vk.CmdSetViewport(cmd, 0, 1, []vk.Viewport{{
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MaxDepth: 1.0,
	}})
	vk.CmdSetScissor(cmd, 0, 1, []vk.Rect2D{{Extent: extent}})

	vk.CmdBindPipeline(cmd, vk.PipelineBindPointGraphics, core.pipeline.Handle())
	vk.CmdBindDescriptorSets(cmd, vk.PipelineBindPointGraphics, core.pipeline.Layout(),
		0, 1, []vk.DescriptorSet{core.cameraSet}, 0, nil)

	for _, model := range core.models {
		model.Draw(cmd)
	}

	vk.CmdEndRenderPass(cmd)
	vk.EndCommandBuffer(cmd)
}

// Resize rebuilds the swapchain and framebuffers after the surface changed,
// and refreshes the camera projection for the new aspect ratio.
func (core *CoreRenderInstance) Resize() error {
	vk.DeviceWaitIdle(core.device.handle)
	swapchain, err := NewCoreSwapchain(core.device, core.instance, core.display,
		core.renderQueueFamily, core.swapchain)
	if err != nil {
		return err
	}
	core.swapchain = swapchain
	if err = core.swapchain.CreateFramebuffers(core.renderPass.Handle()); err != nil {
		return err
	}
	core.camera.SetAspect(core.display.Aspect())
	return nil
}

// Destroy waits for the device to go idle and releases everything owned by
// the renderer: model buffers first, then descriptor state, pipeline,
// per-frame sync, swapchain and render pass, finally the device. The
// instance and surface belong to the host core.
func (core *CoreRenderInstance) Destroy() {
	device := core.device.handle
	if device == nil {
		return
	}
	vk.DeviceWaitIdle(device)

	for _, model := range core.models {
		model.Destroy()
	}
	core.models = nil

	if core.cameraBuffer != nil {
		core.cameraBuffer.Destroy()
		core.cameraBuffer = nil
	}
	vk.DestroyDescriptorPool(device, core.descriptorPool, nil)

	if core.pipeline != nil {
		core.pipeline.Destroy(device)
		core.pipeline = nil
	}
	if core.vertShader != nil {
		core.vertShader.Destroy(device)
		core.vertShader = nil
	}
	if core.fragShader != nil {
		core.fragShader.Destroy(device)
		core.fragShader = nil
	}

	for i := range core.frames {
		frame := &core.frames[i]
		frame.fences.Destroy()
		frame.commands.Destroy()
		vk.DestroySemaphore(device, frame.imageAcquired, nil)
		vk.DestroySemaphore(device, frame.renderDone, nil)
	}
	core.frames = nil

	if core.swapchain != nil {
		core.swapchain.Destroy()
		core.swapchain = nil
	}
	if core.renderPass != nil {
		core.renderPass.Destroy(device)
		core.renderPass = nil
	}

	vk.DestroyDevice(device, nil)
	core.device.handle = nil
}
