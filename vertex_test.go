package magmavk

import (
	"testing"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The record layouts are a wire contract with the shaders; any padding or
// reordering would silently corrupt every draw.
func TestRecordLayouts(t *testing.T) {
	assert.Equal(t, uintptr(24), unsafe.Sizeof(VertexData{}))
	assert.Equal(t, uintptr(0), unsafe.Offsetof(VertexData{}.Position))
	assert.Equal(t, uintptr(12), unsafe.Offsetof(VertexData{}.Normal))

	assert.Equal(t, uintptr(140), unsafe.Sizeof(InstanceData{}))
	assert.Equal(t, uintptr(0), unsafe.Offsetof(InstanceData{}.ModelMatrix))
	assert.Equal(t, uintptr(64), unsafe.Offsetof(InstanceData{}.InverseModelMatrix))
	assert.Equal(t, uintptr(128), unsafe.Offsetof(InstanceData{}.Colour))
}

func TestVertexBindingDescriptions(t *testing.T) {
	bindings := VertexBindingDescriptions()
	require.Len(t, bindings, 2)

	assert.Equal(t, uint32(0), bindings[0].Binding)
	assert.Equal(t, uint32(24), bindings[0].Stride)
	assert.Equal(t, vk.VertexInputRateVertex, bindings[0].InputRate)

	assert.Equal(t, uint32(1), bindings[1].Binding)
	assert.Equal(t, uint32(140), bindings[1].Stride)
	assert.Equal(t, vk.VertexInputRateInstance, bindings[1].InputRate)
}

func TestVertexAttributeDescriptions(t *testing.T) {
	attrs := VertexAttributeDescriptions()
	require.Len(t, attrs, 11)

	byLocation := make(map[uint32]vk.VertexInputAttributeDescription)
	for _, a := range attrs {
		byLocation[a.Location] = a
	}
	require.Len(t, byLocation, 11)

	// Vertex inputs on binding 0.
	assert.Equal(t, uint32(0), byLocation[0].Binding)
	assert.Equal(t, vk.FormatR32g32b32Sfloat, byLocation[0].Format)
	assert.Equal(t, uint32(0), byLocation[0].Offset)
	assert.Equal(t, uint32(0), byLocation[1].Binding)
	assert.Equal(t, vk.FormatR32g32b32Sfloat, byLocation[1].Format)
	assert.Equal(t, uint32(12), byLocation[1].Offset)

	// Model matrix columns and inverse columns on binding 1.
	for i := uint32(0); i < 4; i++ {
		model := byLocation[2+i]
		assert.Equal(t, uint32(1), model.Binding)
		assert.Equal(t, vk.FormatR32g32b32a32Sfloat, model.Format)
		assert.Equal(t, 16*i, model.Offset)

		inverse := byLocation[6+i]
		assert.Equal(t, uint32(1), inverse.Binding)
		assert.Equal(t, vk.FormatR32g32b32a32Sfloat, inverse.Format)
		assert.Equal(t, 64+16*i, inverse.Offset)
	}

	colour := byLocation[10]
	assert.Equal(t, uint32(1), colour.Binding)
	assert.Equal(t, vk.FormatR32g32b32Sfloat, colour.Format)
	assert.Equal(t, uint32(128), colour.Offset)
}
