package magmavk

import (
	"runtime"
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDevice brings up a minimal headless device, skipping the test on
// hosts without a Vulkan loader or GPU.
func newTestDevice(t *testing.T) *CoreDevice {
	t.Helper()
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		t.Skipf("no GLFW: %v", err)
	}
	t.Cleanup(glfw.Terminate)

	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		t.Skip("no Vulkan loader available")
	}
	vk.SetGetInstanceProcAddr(procAddr)
	if err := vk.Init(); err != nil {
		t.Skipf("vulkan init: %v", err)
	}

	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:            vk.StructureTypeApplicationInfo,
			ApiVersion:       uint32(vk.MakeVersion(1, 1, 0)),
			PApplicationName: safeString("buffer-test"),
			PEngineName:      safeString("magmavk"),
		},
	}, nil, &instance)
	if isError(ret) {
		t.Skipf("create instance: %v", newError(ret))
	}
	vk.InitInstance(instance)
	t.Cleanup(func() { vk.DestroyInstance(instance, nil) })

	var gpuCount uint32
	vk.EnumeratePhysicalDevices(instance, &gpuCount, nil)
	if gpuCount == 0 {
		t.Skip("no physical devices")
	}
	gpus := make([]vk.PhysicalDevice, gpuCount)
	vk.EnumeratePhysicalDevices(instance, &gpuCount, gpus)

	device := &CoreDevice{
		selected:    gpus[0],
		properties:  &vk.PhysicalDeviceProperties{},
		memoryProps: &vk.PhysicalDeviceMemoryProperties{},
	}
	vk.GetPhysicalDeviceProperties(device.selected, device.properties)
	device.properties.Deref()
	vk.GetPhysicalDeviceMemoryProperties(device.selected, device.memoryProps)
	device.memoryProps.Deref()

	queues := NewCoreQueue(device.selected)
	require.NotNil(t, queues)

	var handle vk.Device
	ret = vk.CreateDevice(device.selected, &vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos:    queues.GetCreateInfos()[:1],
	}, nil, &handle)
	if isError(ret) {
		t.Skipf("create device: %v", newError(ret))
	}
	device.handle = handle
	t.Cleanup(func() { vk.DestroyDevice(handle, nil) })

	return device
}

func TestCoreBufferUploadAndGrow(t *testing.T) {
	device := newTestDevice(t)
	memProps := device.MemoryProperties()

	buffer, err := NewCoreBuffer(device.Handle(), memProps, 64, vk.BufferUsageVertexBufferBit)
	require.NoError(t, err)
	defer buffer.Destroy()

	assert.Equal(t, 64, buffer.Size())

	payload := make([]byte, 48)
	for i := range payload {
		payload[i] = byte(i)
	}
	require.NoError(t, buffer.Upload(memProps, payload))
	assert.Equal(t, 64, buffer.Size())
	first := buffer.Handle()

	// A larger payload forces a destroy-and-recreate grow.
	big := make([]byte, 256)
	for i := range big {
		big[i] = byte(255 - i)
	}
	require.NoError(t, buffer.Upload(memProps, big))
	assert.Equal(t, 256, buffer.Size())
	assert.NotEqual(t, first, buffer.Handle())

	// Empty uploads are accepted and leave the buffer alone.
	require.NoError(t, buffer.Upload(memProps, nil))
	assert.Equal(t, 256, buffer.Size())
}

func TestModelBufferLifecycle(t *testing.T) {
	device := newTestDevice(t)
	memProps := device.MemoryProperties()

	m := NewCubeModel()
	require.NoError(t, m.UpdateVertexBuffer(device.Handle(), memProps))
	require.NoError(t, m.UpdateIndexBuffer(device.Handle(), memProps))

	// No visible instances and no buffer yet: nothing to allocate.
	require.NoError(t, m.UpdateInstanceBuffer(device.Handle(), memProps))

	for i := 0; i < 5; i++ {
		m.Registry.InsertVisibly(InstanceData{Colour: [3]float32{1, 0, 0}})
	}
	require.NoError(t, m.UpdateInstanceBuffer(device.Handle(), memProps))

	// Growing the registry grows the instance buffer on the next update.
	for i := 0; i < 50; i++ {
		m.Registry.InsertVisibly(InstanceData{Colour: [3]float32{0, 1, 0}})
	}
	require.NoError(t, m.UpdateInstanceBuffer(device.Handle(), memProps))

	m.Destroy()
	// Destroy is idempotent.
	m.Destroy()
}
