package magmavk

import (
	vk "github.com/vulkan-go/vulkan"
)

// CorePipeline is the graphics pipeline for instanced mesh drawing, together
// with its layout and the descriptor set layout of the camera uniform.
type CorePipeline struct {
	pipeline            vk.Pipeline
	layout              vk.PipelineLayout
	descriptorSetLayout vk.DescriptorSetLayout
}

// NewCorePipeline builds the instanced mesh pipeline: two vertex-input
// bindings as declared by VertexBindingDescriptions, a single camera uniform
// at set 0 binding 0, depth testing and standard alpha blending.
func NewCorePipeline(device vk.Device, renderPass vk.RenderPass, extent vk.Extent2D,
	vertShader, fragShader *CoreShader) (*CorePipeline, error) {

	var descriptorSetLayout vk.DescriptorSetLayout
	ret := vk.CreateDescriptorSetLayout(device, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: 1,
		PBindings: []vk.DescriptorSetLayoutBinding{{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		}},
	}, nil, &descriptorSetLayout)
	if isError(ret) {
		return nil, newError(ret)
	}

	var layout vk.PipelineLayout
	ret = vk.CreatePipelineLayout(device, &vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: 1,
		PSetLayouts:    []vk.DescriptorSetLayout{descriptorSetLayout},
	}, nil, &layout)
	if isError(ret) {
		vk.DestroyDescriptorSetLayout(device, descriptorSetLayout, nil)
		return nil, newError(ret)
	}

	bindings := VertexBindingDescriptions()
	attributes := VertexAttributeDescriptions()

	viewports := []vk.Viewport{{
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MaxDepth: 1.0,
	}}
	scissors := []vk.Rect2D{{
		Extent: extent,
	}}

	pipelines := make([]vk.Pipeline, 1)
	ret = vk.CreateGraphicsPipelines(device, vk.PipelineCache(vk.NullHandle), 1,
		[]vk.GraphicsPipelineCreateInfo{{
			SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
			StageCount: 2,
			PStages: []vk.PipelineShaderStageCreateInfo{
				vertShader.StageInfo(),
				fragShader.StageInfo(),
			},
			PVertexInputState: &vk.PipelineVertexInputStateCreateInfo{
				SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
				VertexBindingDescriptionCount:   uint32(len(bindings)),
				PVertexBindingDescriptions:      bindings,
				VertexAttributeDescriptionCount: uint32(len(attributes)),
				PVertexAttributeDescriptions:    attributes,
			},
			PInputAssemblyState: &vk.PipelineInputAssemblyStateCreateInfo{
				SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
				Topology: vk.PrimitiveTopologyTriangleList,
			},
			PViewportState: &vk.PipelineViewportStateCreateInfo{
				SType:         vk.StructureTypePipelineViewportStateCreateInfo,
				ViewportCount: 1,
				PViewports:    viewports,
				ScissorCount:  1,
				PScissors:     scissors,
			},
			PRasterizationState: &vk.PipelineRasterizationStateCreateInfo{
				SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
				PolygonMode: vk.PolygonModeFill,
				CullMode:    vk.CullModeFlags(vk.CullModeNone),
				FrontFace:   vk.FrontFaceCounterClockwise,
				LineWidth:   1.0,
			},
			PMultisampleState: &vk.PipelineMultisampleStateCreateInfo{
				SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
				RasterizationSamples: vk.SampleCount1Bit,
			},
			PDepthStencilState: &vk.PipelineDepthStencilStateCreateInfo{
				SType:            vk.StructureTypePipelineDepthStencilStateCreateInfo,
				DepthTestEnable:  vk.True,
				DepthWriteEnable: vk.True,
				DepthCompareOp:   vk.CompareOpLessOrEqual,
				MaxDepthBounds:   1.0,
			},
			PDynamicState: &vk.PipelineDynamicStateCreateInfo{
				SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
				DynamicStateCount: 2,
				PDynamicStates: []vk.DynamicState{
					vk.DynamicStateViewport,
					vk.DynamicStateScissor,
				},
			},
			PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
				SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
				AttachmentCount: 1,
				PAttachments: []vk.PipelineColorBlendAttachmentState{{
					BlendEnable:         vk.True,
					SrcColorBlendFactor: vk.BlendFactorSrcAlpha,
					DstColorBlendFactor: vk.BlendFactorOneMinusSrcAlpha,
					ColorBlendOp:        vk.BlendOpAdd,
					SrcAlphaBlendFactor: vk.BlendFactorSrcAlpha,
					DstAlphaBlendFactor: vk.BlendFactorOneMinusSrcAlpha,
					AlphaBlendOp:        vk.BlendOpAdd,
					ColorWriteMask: vk.ColorComponentFlags(
						vk.ColorComponentRBit | vk.ColorComponentGBit |
							vk.ColorComponentBBit | vk.ColorComponentABit),
				}},
			},
			Layout:     layout,
			RenderPass: renderPass,
		}}, nil, pipelines)
	if isError(ret) {
		vk.DestroyPipelineLayout(device, layout, nil)
		vk.DestroyDescriptorSetLayout(device, descriptorSetLayout, nil)
		return nil, newError(ret)
	}

	return &CorePipeline{
		pipeline:            pipelines[0],
		layout:              layout,
		descriptorSetLayout: descriptorSetLayout,
	}, nil
}

// Handle returns the raw pipeline for binding.
func (p *CorePipeline) Handle() vk.Pipeline {
	return p.pipeline
}

// Layout returns the pipeline layout for descriptor binds.
func (p *CorePipeline) Layout() vk.PipelineLayout {
	return p.layout
}

// DescriptorSetLayout returns the camera uniform set layout.
func (p *CorePipeline) DescriptorSetLayout() vk.DescriptorSetLayout {
	return p.descriptorSetLayout
}

func (p *CorePipeline) Destroy(device vk.Device) {
	vk.DestroyPipeline(device, p.pipeline, nil)
	vk.DestroyPipelineLayout(device, p.layout, nil)
	vk.DestroyDescriptorSetLayout(device, p.descriptorSetLayout, nil)
}
