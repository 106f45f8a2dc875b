package magmavk

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// enumeratePortabilityBit is VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT,
// needed on MoltenVK hosts.
const enumeratePortabilityBit = 0x00000001

// BaseCore is the top-level Vulkan host bound to a GLFW window. It owns the
// instance, the optional debug callback and the render instances created on
// top of it, and routes diagnostics to file-backed loggers. Core structure
// properties are private members to keep outside packages on the renderer
// interface.
type BaseCore struct {
	display  *CoreDisplay
	props    map[string]*Usage
	name     string
	infoLog  *log.Logger
	errorLog *log.Logger
	warnLog  *log.Logger

	instance  vk.Instance
	debug     *CoreDebug
	instances map[string]*CoreRenderInstance
}

// NewBaseCore opens the log files and binds the window. The usages map
// configures the core; the "Config" bag is consulted for the validation
// toggle when creating render instances.
func NewBaseCore(usages map[string]*Usage, appName string, window *glfw.Window) *BaseCore {
	var core BaseCore

	infoFile, err := os.OpenFile("info_log.txt", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatal(err)
	}
	errorFile, err := os.OpenFile("error_log.txt", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatal(err)
	}
	warnFile, err := os.OpenFile("warn_log.txt", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatal(err)
	}

	core.props = usages
	core.infoLog = log.New(infoFile, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	core.errorLog = log.New(errorFile, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	core.warnLog = log.New(warnFile, "WARNING: ", log.Ldate|log.Ltime|log.Lshortfile)
	core.name = appName
	core.instances = make(map[string]*CoreRenderInstance, 4)
	core.display = NewCoreDisplay(window)

	return &core
}

// CreateGraphicsInstance creates the Vulkan instance on first use and binds
// a render instance under the given name, loading the pipeline shaders from
// SPIR-V bytecode.
func (base *BaseCore) CreateGraphicsInstance(instanceName string, vertSpirv, fragSpirv []byte) error {
	layers := NewBaseLayerExtensions(base.GetValidationLayers())
	instExt := NewBaseInstanceExtensions(base.GetInstanceExtensions(),
		base.display.RequiredInstanceExtensions())

	if base.instance == nil {
		var flags vk.InstanceCreateFlags
		if runtime.GOOS == "darwin" {
			flags = vk.InstanceCreateFlags(enumeratePortabilityBit)
		}

		var instance vk.Instance
		ret := vk.CreateInstance(&vk.InstanceCreateInfo{
			SType: vk.StructureTypeInstanceCreateInfo,
			PApplicationInfo: &vk.ApplicationInfo{
				SType:              vk.StructureTypeApplicationInfo,
				ApiVersion:         uint32(vk.MakeVersion(1, 1, 0)),
				ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
				PApplicationName:   safeString(instanceName),
				PEngineName:        safeString(base.name),
			},
			EnabledExtensionCount:   uint32(len(instExt.GetExtensions())),
			PpEnabledExtensionNames: safeStrings(instExt.GetExtensions()),
			EnabledLayerCount:       uint32(len(layers.GetExtensions())),
			PpEnabledLayerNames:     safeStrings(layers.GetExtensions()),
			Flags:                   flags,
		}, nil, &instance)
		if isError(ret) {
			base.errorLog.Printf("creating instance with required extensions: %v", newError(ret))
			return newError(ret)
		}
		base.instance = instance
		vk.InitInstance(instance)

		if base.validationEnabled() {
			debug, err := NewCoreDebug(instance)
			if err != nil {
				base.warnLog.Printf("debug callback unavailable: %v", err)
			} else {
				base.debug = debug
			}
		}
	}

	renderInstance, err := NewCoreRenderInstance(base.instance, instanceName,
		*instExt, *layers, base.GetDeviceExtensions(), base.display,
		vertSpirv, fragSpirv)
	if err != nil {
		base.errorLog.Print(err)
		return err
	}
	base.instances[instanceName] = renderInstance
	base.infoLog.Printf("render instance %q ready", instanceName)
	return nil
}

func (base *BaseCore) validationEnabled() bool {
	if config, ok := base.props["Config"]; ok {
		return config.Bool("Validation", false)
	}
	return false
}

// GetInstance returns the render instance registered under name.
func (base *BaseCore) GetInstance(name string) *CoreRenderInstance {
	return base.instances[name]
}

// Display returns the display shared by the render instances.
func (base *BaseCore) Display() *CoreDisplay {
	return base.display
}

// GetValidationLayers lists the layers requested when validation is on.
// Layers not present on the host are filtered before instance creation.
func (base *BaseCore) GetValidationLayers() []string {
	if !base.validationEnabled() {
		return nil
	}
	return []string{
		"VK_LAYER_KHRONOS_validation",
	}
}

// GetDeviceExtensions lists the device extensions wanted beyond the
// required swapchain support.
func (base *BaseCore) GetDeviceExtensions() []string {
	return []string{
		"VK_KHR_swapchain",
		"VK_KHR_portability_subset",
	}
}

// GetInstanceExtensions lists instance extensions wanted beyond what the
// window system requires.
func (base *BaseCore) GetInstanceExtensions() []string {
	if runtime.GOOS == "darwin" {
		return []string{"VK_KHR_portability_enumeration"}
	}
	return nil
}

// ShaderBytes reads a SPIR-V file relative to the working directory, using
// the "Shaders" usage bag to remap paths when present.
func (base *BaseCore) ShaderBytes(key, fallback string) ([]byte, error) {
	path := fallback
	if shaders, ok := base.props["Shaders"]; ok {
		path = shaders.String(key, fallback)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader %q: %w", path, err)
	}
	return data, nil
}

// Destroy tears down every render instance, then the debug callback, the
// window surface and the Vulkan instance.
func (base *BaseCore) Destroy() {
	for name, instance := range base.instances {
		instance.Destroy()
		delete(base.instances, name)
	}
	if base.debug != nil {
		base.debug.Destroy(base.instance)
		base.debug = nil
	}
	if base.instance != nil {
		base.display.Destroy(base.instance)
		vk.DestroyInstance(base.instance, nil)
		base.instance = nil
	}
}
