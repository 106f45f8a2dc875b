package magmavk

import (
	"github.com/go-gl/mathgl/mgl32"
)

// InstanceData is the per-instance input record. The layout is part of the
// pipeline contract: 140 bytes, model matrix at offset 0, inverse model
// matrix at offset 64, colour at offset 128. Matrices are column-major.
type InstanceData struct {
	ModelMatrix        [16]float32
	InverseModelMatrix [16]float32
	Colour             [3]float32
}

// NewInstanceData derives the full instance record from a model matrix,
// computing the inverse the fragment shader needs for normal transforms.
func NewInstanceData(model mgl32.Mat4, colour [3]float32) InstanceData {
	inverse := model.Inv()
	return InstanceData{
		ModelMatrix:        [16]float32(model),
		InverseModelMatrix: [16]float32(inverse),
		Colour:             colour,
	}
}
