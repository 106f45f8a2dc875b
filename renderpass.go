package magmavk

import (
	vk "github.com/vulkan-go/vulkan"
)

// CoreRenderPass is a single-subpass render pass with one colour and one
// depth attachment, both cleared on load.
type CoreRenderPass struct {
	renderPass vk.RenderPass
}

func NewCoreRenderPass(device vk.Device, colorFormat vk.Format, depthFormat vk.Format) (*CoreRenderPass, error) {
	attachments := []vk.AttachmentDescription{
		{
			Format:         colorFormat,
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpClear,
			StoreOp:        vk.AttachmentStoreOpStore,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    vk.ImageLayoutPresentSrc,
		},
		{
			Format:         depthFormat,
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpClear,
			StoreOp:        vk.AttachmentStoreOpDontCare,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
		},
	}

	colorRef := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}
	depthRef := vk.AttachmentReference{
		Attachment: 1,
		Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
	}

	var renderPass vk.RenderPass
	ret := vk.CreateRenderPass(device, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses: []vk.SubpassDescription{{
			PipelineBindPoint:       vk.PipelineBindPointGraphics,
			ColorAttachmentCount:    1,
			PColorAttachments:       colorRef,
			PDepthStencilAttachment: &depthRef,
		}},
		DependencyCount: 1,
		PDependencies: []vk.SubpassDependency{{
			SrcSubpass: vk.SubpassExternal,
			DstSubpass: 0,
			SrcStageMask: vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit |
				vk.PipelineStageEarlyFragmentTestsBit),
			DstStageMask: vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit |
				vk.PipelineStageEarlyFragmentTestsBit),
			SrcAccessMask: 0,
			DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit |
				vk.AccessDepthStencilAttachmentWriteBit),
		}},
	}, nil, &renderPass)
	if isError(ret) {
		return nil, newError(ret)
	}
	return &CoreRenderPass{renderPass: renderPass}, nil
}

// Handle returns the raw render pass.
func (r *CoreRenderPass) Handle() vk.RenderPass {
	return r.renderPass
}

func (r *CoreRenderPass) Destroy(device vk.Device) {
	vk.DestroyRenderPass(device, r.renderPass, nil)
}
