package magmavk

import vk "github.com/vulkan-go/vulkan"

// CoreDevice holds the selected physical device, its cached property
// tables, and the logical device created on top of it. The memory
// properties are the table CoreBuffer consults when picking host-visible,
// host-coherent allocations.
type CoreDevice struct {
	physicalDevices []vk.PhysicalDevice
	selected        vk.PhysicalDevice
	properties      *vk.PhysicalDeviceProperties
	memoryProps     *vk.PhysicalDeviceMemoryProperties
	handle          vk.Device
	name            string
}

// Handle returns the logical device.
func (d *CoreDevice) Handle() vk.Device {
	return d.handle
}

// PhysicalDevice returns the selected physical device.
func (d *CoreDevice) PhysicalDevice() vk.PhysicalDevice {
	return d.selected
}

// MemoryProperties returns the physical device memory-type table.
func (d *CoreDevice) MemoryProperties() vk.PhysicalDeviceMemoryProperties {
	return *d.memoryProps
}
