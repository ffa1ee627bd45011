package gpu

import (
	"fmt"

	"github.com/gekko3d/orrery"
	"github.com/gekko3d/orrery/orreryrt/rt/assets"
	"github.com/gekko3d/orrery/orreryrt/rt/core"
	"github.com/gekko3d/orrery/orreryrt/rt/mesh"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

type meshBuffers struct {
	vertex   *wgpu.Buffer
	index    *wgpu.Buffer
	elements uint32
	mode     mesh.DrawMode
}

type textureBinding struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
}

type drawState struct {
	uniforms  *UniformBlock
	buffer    *wgpu.Buffer
	group0    *wgpu.BindGroup
	group1    *wgpu.BindGroup
	boundTex  *textureBinding
	boundMode mesh.DrawMode
}

// DrawCall is everything Draw needs for one renderable in one frame.
type DrawCall struct {
	Renderable *core.Renderable
	ViewProj   mgl32.Mat4
	LightPos   mgl32.Vec4
	Emissive   bool
	Alpha      float32
}

// Manager owns every GPU resource derived from scene data. Meshes and
// textures are uploaded once and shared; uniform buffers are per renderable.
type Manager struct {
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Pipeline *BodyPipeline

	meshes   map[*mesh.Mesh]*meshBuffers
	textures map[core.AssetId]*textureBinding
	draws    map[*core.Renderable]*drawState
	blank    *textureBinding
}

func NewManager(device *wgpu.Device, pipeline *BodyPipeline) (*Manager, error) {
	m := &Manager{
		Device:   device,
		Queue:    device.GetQueue(),
		Pipeline: pipeline,
		meshes:   make(map[*mesh.Mesh]*meshBuffers),
		textures: make(map[core.AssetId]*textureBinding),
		draws:    make(map[*core.Renderable]*drawState),
	}

	blank, err := m.createTexture("blank", assets.FromImage(whitePixel()), assets.DefaultSamplerOptions())
	if err != nil {
		return nil, err
	}
	m.blank = blank
	return m, nil
}

func (m *Manager) UploadMesh(msh *mesh.Mesh) error {
	if _, ok := m.meshes[msh]; ok {
		return nil
	}
	if len(msh.Vertices) == 0 || len(msh.Indices) == 0 {
		return orrery.InvalidArgumentf("mesh %s has no geometry", msh)
	}

	vb, err := m.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Body Vertices",
		Contents: wgpu.ToBytes(msh.Vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return fmt.Errorf("failed to create vertex buffer: %w", err)
	}
	ib, err := m.Device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Body Indices",
		Contents: wgpu.ToBytes(msh.Indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		vb.Release()
		return fmt.Errorf("failed to create index buffer: %w", err)
	}

	m.meshes[msh] = &meshBuffers{
		vertex:   vb,
		index:    ib,
		elements: uint32(msh.ElementCount()),
		mode:     msh.DrawMode,
	}
	return nil
}

func (m *Manager) ReleaseMesh(msh *mesh.Mesh) {
	mb, ok := m.meshes[msh]
	if !ok {
		return
	}
	mb.vertex.Release()
	mb.index.Release()
	delete(m.meshes, msh)
}

func (m *Manager) UploadTexture(id core.AssetId, img *assets.Image) error {
	if _, ok := m.textures[id]; ok {
		return nil
	}
	tb, err := m.createTexture(img.Path, img, img.Sampler)
	if err != nil {
		return err
	}
	m.textures[id] = tb
	return nil
}

func (m *Manager) createTexture(name string, img *assets.Image, opts assets.SamplerOptions) (*textureBinding, error) {
	if img.Width <= 0 || img.Height <= 0 {
		return nil, orrery.NewResourceError(orrery.ResourceTexture, name, fmt.Errorf("empty image %dx%d", img.Width, img.Height))
	}
	opts = opts.WithDefaults()

	extent := wgpu.Extent3D{Width: uint32(img.Width), Height: uint32(img.Height), DepthOrArrayLayers: 1}
	tex, err := m.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         name,
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, orrery.NewResourceError(orrery.ResourceTexture, name, err)
	}

	err = m.Queue.WriteTexture(tex.AsImageCopy(), img.RGBA(), &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(img.Width) * 4,
		RowsPerImage: uint32(img.Height),
	}, &extent)
	if err != nil {
		tex.Release()
		return nil, orrery.NewResourceError(orrery.ResourceTexture, name, err)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, orrery.NewResourceError(orrery.ResourceTexture, name, err)
	}

	sampler, err := m.Device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wrapMode(opts.WrapU),
		AddressModeV:  wrapMode(opts.WrapV),
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     filterMode(opts.MagFilter),
		MinFilter:     filterMode(opts.MinFilter),
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   1,
		Compare:       wgpu.CompareFunctionUndefined,
		MaxAnisotropy: 1,
	})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, orrery.NewResourceError(orrery.ResourceTexture, name, err)
	}

	return &textureBinding{texture: tex, view: view, sampler: sampler}, nil
}

func (m *Manager) textureFor(r *core.Renderable) *textureBinding {
	if r.Textured() {
		if tb, ok := m.textures[r.Texture]; ok {
			return tb
		}
	}
	return m.blank
}

func (m *Manager) state(r *core.Renderable, tex *textureBinding, mode mesh.DrawMode) (*drawState, error) {
	ds, ok := m.draws[r]
	if !ok {
		ds = &drawState{uniforms: NewUniformBlock(BodyUniforms), boundMode: -1}
		buf, err := m.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Body Uniforms",
			Size:  uint64(BodyUniforms.Size),
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create uniform buffer: %w", err)
		}
		ds.buffer = buf
		m.draws[r] = ds
	}

	pipeline, err := m.Pipeline.ForMode(mode)
	if err != nil {
		return nil, err
	}

	// Bind groups are tied to the pipeline layout, so a draw mode change
	// rebuilds both.
	if ds.group0 == nil || ds.boundMode != mode {
		if ds.group0 != nil {
			ds.group0.Release()
		}
		layout := pipeline.GetBindGroupLayout(0)
		ds.group0, err = m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Layout: layout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: ds.buffer, Size: wgpu.WholeSize},
			},
		})
		layout.Release()
		if err != nil {
			return nil, fmt.Errorf("failed to create uniform bind group: %w", err)
		}
		ds.boundTex = nil
	}
	if ds.group1 == nil || ds.boundTex != tex || ds.boundMode != mode {
		if ds.group1 != nil {
			ds.group1.Release()
		}
		layout := pipeline.GetBindGroupLayout(1)
		ds.group1, err = m.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Layout: layout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, TextureView: tex.view},
				{Binding: 1, Sampler: tex.sampler},
			},
		})
		layout.Release()
		if err != nil {
			return nil, fmt.Errorf("failed to create texture bind group: %w", err)
		}
		ds.boundTex = tex
	}
	ds.boundMode = mode
	return ds, nil
}

// FillBodyUniforms writes the per draw values into block. The projection
// half of ViewProj is depth corrected here.
func FillBodyUniforms(block *UniformBlock, call DrawCall, textured bool) {
	r := call.Renderable
	block.SetMat4("u_view_proj", DepthCorrection.Mul4(call.ViewProj))
	block.SetMat4("u_model", r.ModelMatrix(call.Alpha))
	block.SetVec4("u_color", r.Color)
	block.SetVec4("u_light_pos", call.LightPos)
	block.SetInt("u_textured", boolToInt(textured))
	block.SetInt("u_emissive", boolToInt(call.Emissive))
}

func (m *Manager) Draw(pass *wgpu.RenderPassEncoder, call DrawCall) error {
	r := call.Renderable
	mb, ok := m.meshes[r.Mesh]
	if !ok {
		return orrery.InvalidArgumentf("mesh %s was not uploaded", r.Mesh)
	}
	tex := m.textureFor(r)
	ds, err := m.state(r, tex, mb.mode)
	if err != nil {
		return err
	}

	FillBodyUniforms(ds.uniforms, call, tex != m.blank)
	if ds.uniforms.Dirty() {
		if err := m.Queue.WriteBuffer(ds.buffer, 0, ds.uniforms.Bytes()); err != nil {
			return fmt.Errorf("failed to write uniforms: %w", err)
		}
		ds.uniforms.MarkClean()
	}

	pipeline, err := m.Pipeline.ForMode(mb.mode)
	if err != nil {
		return err
	}
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, ds.group0, nil)
	pass.SetBindGroup(1, ds.group1, nil)
	pass.SetVertexBuffer(0, mb.vertex, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(mb.index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(mb.elements, 1, 0, 0, 0)
	return nil
}

// Forget drops the per renderable state, e.g. after a body is removed.
func (m *Manager) Forget(r *core.Renderable) {
	ds, ok := m.draws[r]
	if !ok {
		return
	}
	ds.release()
	delete(m.draws, r)
}

func (m *Manager) Release() {
	for r := range m.draws {
		m.Forget(r)
	}
	for msh := range m.meshes {
		m.ReleaseMesh(msh)
	}
	for id, tb := range m.textures {
		tb.release()
		delete(m.textures, id)
	}
	if m.blank != nil {
		m.blank.release()
		m.blank = nil
	}
}

func (ds *drawState) release() {
	if ds.group0 != nil {
		ds.group0.Release()
	}
	if ds.group1 != nil {
		ds.group1.Release()
	}
	if ds.buffer != nil {
		ds.buffer.Release()
	}
}

func (tb *textureBinding) release() {
	tb.sampler.Release()
	tb.view.Release()
	tb.texture.Release()
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
