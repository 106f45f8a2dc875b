package magmavk

import (
	"math"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// VertexData is the per-vertex input record. The layout is part of the
// pipeline contract: 24 bytes, position at offset 0, normal at offset 12.
type VertexData struct {
	Position [3]float32
	Normal   [3]float32
}

// Midpoint averages both position and normal component-wise. Used by the
// icosphere refinement; the result is re-normalized only after all passes.
func Midpoint(a, b VertexData) VertexData {
	return VertexData{
		Position: [3]float32{
			0.5 * (a.Position[0] + b.Position[0]),
			0.5 * (a.Position[1] + b.Position[1]),
			0.5 * (a.Position[2] + b.Position[2]),
		},
		Normal: [3]float32{
			0.5 * (a.Normal[0] + b.Normal[0]),
			0.5 * (a.Normal[1] + b.Normal[1]),
			0.5 * (a.Normal[2] + b.Normal[2]),
		},
	}
}

func normalize(v [3]float32) [3]float32 {
	l := float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}

// VertexBindingDescriptions declares both vertex-input bindings of the
// instanced mesh pipeline: binding 0 advances per vertex, binding 1 per
// instance.
func VertexBindingDescriptions() []vk.VertexInputBindingDescription {
	return []vk.VertexInputBindingDescription{
		{
			Binding:   0,
			Stride:    uint32(unsafe.Sizeof(VertexData{})),
			InputRate: vk.VertexInputRateVertex,
		},
		{
			Binding:   1,
			Stride:    uint32(unsafe.Sizeof(InstanceData{})),
			InputRate: vk.VertexInputRateInstance,
		},
	}
}

// VertexAttributeDescriptions declares every attribute of both bindings.
// Locations 0-1 are the vertex position and normal; locations 2-5 and 6-9
// carry the per-instance model matrix and its inverse one column per
// location; location 10 is the instance colour.
func VertexAttributeDescriptions() []vk.VertexInputAttributeDescription {
	attrs := []vk.VertexInputAttributeDescription{
		{
			Location: 0,
			Binding:  0,
			Format:   vk.FormatR32g32b32Sfloat,
			Offset:   uint32(unsafe.Offsetof(VertexData{}.Position)),
		},
		{
			Location: 1,
			Binding:  0,
			Format:   vk.FormatR32g32b32Sfloat,
			Offset:   uint32(unsafe.Offsetof(VertexData{}.Normal)),
		},
	}
	for i := uint32(0); i < 4; i++ {
		attrs = append(attrs, vk.VertexInputAttributeDescription{
			Location: 2 + i,
			Binding:  1,
			Format:   vk.FormatR32g32b32a32Sfloat,
			Offset:   16 * i,
		})
	}
	for i := uint32(0); i < 4; i++ {
		attrs = append(attrs, vk.VertexInputAttributeDescription{
			Location: 6 + i,
			Binding:  1,
			Format:   vk.FormatR32g32b32a32Sfloat,
			Offset:   64 + 16*i,
		})
	}
	attrs = append(attrs, vk.VertexInputAttributeDescription{
		Location: 10,
		Binding:  1,
		Format:   vk.FormatR32g32b32Sfloat,
		Offset:   uint32(unsafe.Offsetof(InstanceData{}.Colour)),
	})
	return attrs
}
