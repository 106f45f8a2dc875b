package magmavk

import (
	"fmt"
	"os"

	vk "github.com/vulkan-go/vulkan"
)

// CoreShader wraps a shader module together with the stage it serves.
type CoreShader struct {
	module vk.ShaderModule
	stage  vk.ShaderStageFlagBits
	entry  string
}

// NewCoreShader builds a shader module from SPIR-V bytecode. The entry
// point is "main", matching what glslangValidator emits.
func NewCoreShader(device vk.Device, spirv []byte, stage vk.ShaderStageFlagBits) (*CoreShader, error) {
	if len(spirv) == 0 || len(spirv)%4 != 0 {
		return nil, fmt.Errorf("vulkan: shader bytecode length %d is not a SPIR-V stream", len(spirv))
	}
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(device, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(spirv)),
		PCode:    sliceUint32(spirv),
	}, nil, &module)
	if isError(ret) {
		return nil, newError(ret)
	}
	return &CoreShader{
		module: module,
		stage:  stage,
		entry:  "main",
	}, nil
}

// NewCoreShaderFromFile reads SPIR-V bytecode from disk.
func NewCoreShaderFromFile(device vk.Device, path string, stage vk.ShaderStageFlagBits) (*CoreShader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vulkan: reading shader %q: %w", path, err)
	}
	return NewCoreShader(device, data, stage)
}

// StageInfo returns the pipeline stage description for this shader.
func (s *CoreShader) StageInfo() vk.PipelineShaderStageCreateInfo {
	return vk.PipelineShaderStageCreateInfo{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  s.stage,
		Module: s.module,
		PName:  safeString(s.entry),
	}
}

func (s *CoreShader) Destroy(device vk.Device) {
	vk.DestroyShaderModule(device, s.module, nil)
}
