package magmavk

import (
	"log"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// CoreDebug routes validation layer messages into the application log.
type CoreDebug struct {
	callback vk.DebugReportCallback
}

// NewCoreDebug registers a debug report callback for errors and warnings.
func NewCoreDebug(instance vk.Instance) (*CoreDebug, error) {
	d := &CoreDebug{}
	ret := vk.CreateDebugReportCallback(instance, &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit),
		PfnCallback: dbgCallbackFunc,
	}, nil, &d.callback)
	if isError(ret) {
		return nil, newError(ret)
	}
	log.Println("vulkan: DebugReportCallback enabled by application")
	return d, nil
}

func (d *CoreDebug) Destroy(instance vk.Instance) {
	if d.callback != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(instance, d.callback, nil)
		d.callback = vk.NullDebugReportCallback
	}
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		log.Printf("INFORMATION: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		log.Printf("WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		log.Printf("PERFORMANCE WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		log.Printf("ERROR: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0:
		log.Printf("DEBUG: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		log.Printf("INFORMATION: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
