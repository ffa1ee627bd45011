package gpu

import (
	"fmt"

	"github.com/gekko3d/orrery"
	"github.com/gekko3d/orrery/orreryrt/rt/mesh"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

const DepthFormat = wgpu.TextureFormatDepth24Plus

// DepthCorrection remaps clip space z from [-w, w] to [0, w]. Projections
// come from mgl32.Perspective, which targets the GL convention.
var DepthCorrection = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// BodyPipeline owns the shader module and one render pipeline per draw mode.
// Pipelines are built on first use.
type BodyPipeline struct {
	device    *wgpu.Device
	module    *wgpu.ShaderModule
	format    wgpu.TextureFormat
	vertex    wgpu.VertexBufferLayout
	pipelines map[mesh.DrawMode]*wgpu.RenderPipeline
}

func NewBodyPipeline(device *wgpu.Device, source string, format wgpu.TextureFormat) (*BodyPipeline, error) {
	layout, err := vertexBufferLayout(mesh.Vertex{})
	if err != nil {
		return nil, err
	}

	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Body Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return nil, orrery.NewResourceError(orrery.ResourceShader, "body", err)
	}

	p := &BodyPipeline{
		device:    device,
		module:    module,
		format:    format,
		vertex:    layout,
		pipelines: make(map[mesh.DrawMode]*wgpu.RenderPipeline),
	}
	if _, err := p.ForMode(mesh.DrawModeTriangles); err != nil {
		module.Release()
		return nil, err
	}
	return p, nil
}

func (p *BodyPipeline) ForMode(mode mesh.DrawMode) (*wgpu.RenderPipeline, error) {
	if rp, ok := p.pipelines[mode]; ok {
		return rp, nil
	}
	top, err := topology(mode)
	if err != nil {
		return nil, orrery.NewResourceError(orrery.ResourcePipeline, mode.String(), err)
	}

	cull := wgpu.CullModeNone
	if mode == mesh.DrawModeTriangles {
		cull = wgpu.CullModeBack
	}

	label := fmt.Sprintf("Body Pipeline (%s)", mode)
	rp, err := p.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: label,
		Vertex: wgpu.VertexState{
			Module:     p.module,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{p.vertex},
		},
		Fragment: &wgpu.FragmentState{
			Module:     p.module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    p.format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  top,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  cull,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            DepthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare:     wgpu.CompareFunctionAlways,
				FailOp:      wgpu.StencilOperationKeep,
				DepthFailOp: wgpu.StencilOperationKeep,
				PassOp:      wgpu.StencilOperationKeep,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare:     wgpu.CompareFunctionAlways,
				FailOp:      wgpu.StencilOperationKeep,
				DepthFailOp: wgpu.StencilOperationKeep,
				PassOp:      wgpu.StencilOperationKeep,
			},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, orrery.NewResourceError(orrery.ResourcePipeline, label, err)
	}
	p.pipelines[mode] = rp
	return rp, nil
}

func (p *BodyPipeline) Release() {
	for mode, rp := range p.pipelines {
		rp.Release()
		delete(p.pipelines, mode)
	}
	if p.module != nil {
		p.module.Release()
		p.module = nil
	}
}

// DepthTarget is recreated whenever the surface is resized.
type DepthTarget struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
	Width   uint32
	Height  uint32
}

func NewDepthTarget(device *wgpu.Device, width, height uint32) (*DepthTarget, error) {
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Depth",
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, orrery.NewResourceError(orrery.ResourceTexture, "depth", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, orrery.NewResourceError(orrery.ResourceTexture, "depth", err)
	}
	return &DepthTarget{Texture: tex, View: view, Width: width, Height: height}, nil
}

func (d *DepthTarget) Attachment() *wgpu.RenderPassDepthStencilAttachment {
	return &wgpu.RenderPassDepthStencilAttachment{
		View:            d.View,
		DepthLoadOp:     wgpu.LoadOpClear,
		DepthStoreOp:    wgpu.StoreOpStore,
		DepthClearValue: 1,
	}
}

func (d *DepthTarget) Release() {
	if d.View != nil {
		d.View.Release()
		d.View = nil
	}
	if d.Texture != nil {
		d.Texture.Release()
		d.Texture = nil
	}
}
