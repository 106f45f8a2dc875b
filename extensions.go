package magmavk

import (
	vk "github.com/vulkan-go/vulkan"
)

// InstanceExtensions gets a list of instance extensions available on the platform.
func InstanceExtensions() (names []string, err error) {
	defer checkErr(&err)

	var count uint32
	ret := vk.EnumerateInstanceExtensionProperties("", &count, nil)
	orPanic(newError(ret))
	list := make([]vk.ExtensionProperties, count)
	ret = vk.EnumerateInstanceExtensionProperties("", &count, list)
	orPanic(newError(ret))
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, err
}

// DeviceExtensions gets a list of device extensions available on the provided physical device.
func DeviceExtensions(gpu vk.PhysicalDevice) (names []string, err error) {
	defer checkErr(&err)

	var count uint32
	ret := vk.EnumerateDeviceExtensionProperties(gpu, "", &count, nil)
	orPanic(newError(ret))
	list := make([]vk.ExtensionProperties, count)
	ret = vk.EnumerateDeviceExtensionProperties(gpu, "", &count, list)
	orPanic(newError(ret))
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, err
}

// ValidationLayers gets a list of validation layers available on the platform.
func ValidationLayers() (names []string, err error) {
	defer checkErr(&err)

	var count uint32
	ret := vk.EnumerateInstanceLayerProperties(&count, nil)
	orPanic(newError(ret))
	list := make([]vk.LayerProperties, count)
	ret = vk.EnumerateInstanceLayerProperties(&count, list)
	orPanic(newError(ret))
	for _, layer := range list {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, err
}

// BaseInstanceExtensions tracks the wanted versus actually available
// instance extensions, with the window system's required set always enabled.
type BaseInstanceExtensions struct {
	wanted   []string
	required []string
	actual   []string
}

func NewBaseInstanceExtensions(wanted, required []string) *BaseInstanceExtensions {
	actual, _ := InstanceExtensions()
	return &BaseInstanceExtensions{
		wanted:   wanted,
		required: required,
		actual:   actual,
	}
}

// HasWanted reports whether every wanted extension is available, and which
// ones are missing.
func (e *BaseInstanceExtensions) HasWanted() (bool, []string) {
	_, missingNames := missingFrom(e.actual, e.wanted)
	return len(missingNames) == 0, missingNames
}

// GetExtensions returns the extension names to enable: the required set
// plus every wanted extension not already in it.
func (e *BaseInstanceExtensions) GetExtensions() []string {
	return mergeNames(e.required, e.wanted)
}

// BaseDeviceExtensions tracks wanted versus available device extensions.
type BaseDeviceExtensions struct {
	wanted   []string
	required []string
	actual   []string
}

func NewBaseDeviceExtensions(wanted, required []string, gpu vk.PhysicalDevice) *BaseDeviceExtensions {
	actual, _ := DeviceExtensions(gpu)
	return &BaseDeviceExtensions{
		wanted:   wanted,
		required: required,
		actual:   actual,
	}
}

func (e *BaseDeviceExtensions) HasWanted() (bool, []string) {
	_, missingNames := missingFrom(e.actual, e.wanted)
	return len(missingNames) == 0, missingNames
}

// GetExtensions returns only the wanted extensions that the device actually
// supports; asking for an unsupported one fails device creation outright.
func (e *BaseDeviceExtensions) GetExtensions() []string {
	supported, _ := missingFrom(e.actual, mergeNames(e.required, e.wanted))
	return supported
}

// BaseLayerExtensions tracks wanted versus available validation layers.
type BaseLayerExtensions struct {
	wanted []string
	actual []string
}

func NewBaseLayerExtensions(wanted []string) *BaseLayerExtensions {
	actual, _ := ValidationLayers()
	return &BaseLayerExtensions{
		wanted: wanted,
		actual: actual,
	}
}

// GetExtensions returns the wanted layers that are actually present.
func (e *BaseLayerExtensions) GetExtensions() []string {
	present, _ := missingFrom(e.actual, e.wanted)
	return present
}

func missingFrom(actual, requested []string) (present, missing []string) {
	for _, req := range requested {
		has := false
		for _, act := range actual {
			if req == act {
				has = true
				break
			}
		}
		if has {
			present = append(present, req)
		} else {
			missing = append(missing, req)
		}
	}
	return present, missing
}

func mergeNames(required, wanted []string) []string {
	merged := make([]string, 0, len(required)+len(wanted))
	merged = append(merged, required...)
	for _, want := range wanted {
		seen := false
		for _, req := range required {
			if want == req {
				seen = true
				break
			}
		}
		if !seen {
			merged = append(merged, want)
		}
	}
	return merged
}

// FindRequiredMemoryType scans the device memory-type table for a type that
// satisfies both the buffer's allowed-type bits and the host requirements.
func FindRequiredMemoryType(props vk.PhysicalDeviceMemoryProperties,
	deviceRequirements, hostRequirements vk.MemoryPropertyFlagBits) (uint32, bool) {

	for i := uint32(0); i < vk.MaxMemoryTypes; i++ {
		if deviceRequirements&(vk.MemoryPropertyFlagBits(1)<<i) != 0 {
			props.MemoryTypes[i].Deref()
			flags := props.MemoryTypes[i].PropertyFlags
			if flags&vk.MemoryPropertyFlags(hostRequirements) == vk.MemoryPropertyFlags(hostRequirements) {
				return i, true
			}
		}
	}
	return 0, false
}
