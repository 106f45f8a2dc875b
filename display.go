package magmavk

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// CoreDisplay couples a GLFW window to its Vulkan surface and the formats
// the swapchain settled on. Displays are shared; attach one swapchain only.
type CoreDisplay struct {
	window        *glfw.Window
	surface       vk.Surface
	surfaceFormat vk.SurfaceFormat
	depthFormat   vk.Format
	extent        vk.Extent2D
	viewport      vk.Viewport
}

// NewCoreDisplay wraps an existing window. The surface is created on first
// use against the instance.
func NewCoreDisplay(window *glfw.Window) *CoreDisplay {
	return &CoreDisplay{window: window}
}

// Surface lazily creates the window surface for the given instance.
func (d *CoreDisplay) Surface(instance vk.Instance) (vk.Surface, error) {
	if d.surface != vk.NullSurface {
		return d.surface, nil
	}
	surfPtr, err := d.window.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, fmt.Errorf("failed to create vulkan window surface: %w", err)
	}
	d.surface = vk.SurfaceFromPointer(surfPtr)
	return d.surface, nil
}

// RequiredInstanceExtensions reports what the window system needs enabled.
func (d *CoreDisplay) RequiredInstanceExtensions() []string {
	return d.window.GetRequiredInstanceExtensions()
}

// GetSize reports the current window size in screen coordinates.
func (d *CoreDisplay) GetSize() (int, int) {
	return d.window.GetSize()
}

// Window exposes the underlying GLFW window for event polling.
func (d *CoreDisplay) Window() *glfw.Window {
	return d.window
}

// Aspect is the width-over-height ratio of the current swapchain extent.
func (d *CoreDisplay) Aspect() float32 {
	if d.extent.Height == 0 {
		return 1.0
	}
	return float32(d.extent.Width) / float32(d.extent.Height)
}

// Destroy releases the surface. The window stays owned by the caller.
func (d *CoreDisplay) Destroy(instance vk.Instance) {
	if d.surface != vk.NullSurface {
		vk.DestroySurface(instance, d.surface, nil)
		d.surface = vk.NullSurface
	}
}
