package magmavk

import (
	vk "github.com/vulkan-go/vulkan"
)

// CoreQueue enumerates the queue families of a physical device and hands out
// the graphics-capable queue the renderer submits on.
type CoreQueue struct {
	properties []vk.QueueFamilyProperties
	queues     []vk.Queue
}

// NewCoreQueue lists queue properties available for a physical device. Nil
// when the device exposes no queue families at all.
func NewCoreQueue(gpu vk.PhysicalDevice) *CoreQueue {
	var q CoreQueue
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	if count == 0 {
		return nil
	}
	q.properties = make([]vk.QueueFamilyProperties, count)
	q.queues = make([]vk.Queue, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, q.properties)
	return &q
}

// GetCreateInfos builds one single-queue create info per family. Extend if
// more than one queue per family is ever needed.
func (q *CoreQueue) GetCreateInfos() []vk.DeviceQueueCreateInfo {
	infos := make([]vk.DeviceQueueCreateInfo, len(q.properties))
	for index := range q.properties {
		infos[index] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: uint32(index),
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}
	return infos
}

// IsDeviceSuitable reports whether any family carries all the given flag bits.
func (q *CoreQueue) IsDeviceSuitable(flagBits vk.QueueFlags) bool {
	found, _ := q.findFamily(flagBits)
	return found
}

// CreateQueues fetches the actual queue objects. Must be called once the
// logical device exists.
func (q *CoreQueue) CreateQueues(device vk.Device) {
	for index := range q.properties {
		vk.GetDeviceQueue(device, uint32(index), 0, &q.queues[index])
	}
}

// BindGraphicsQueue returns the first graphics-capable queue and its family
// index.
func (q *CoreQueue) BindGraphicsQueue() (bool, vk.Queue, uint32) {
	found, index := q.findFamily(vk.QueueFlags(vk.QueueGraphicsBit))
	if !found {
		return false, nil, 0
	}
	return true, q.queues[index], uint32(index)
}

func (q *CoreQueue) findFamily(flagBits vk.QueueFlags) (bool, int) {
	for index := range q.properties {
		family := q.properties[index]
		family.Deref()
		if family.QueueFlags&flagBits == flagBits {
			return true, index
		}
	}
	return false, 0
}
