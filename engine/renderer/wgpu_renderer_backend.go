package renderer

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oiishi/common"
	"github.com/Carmen-Shannon/oiishi/engine/camera"
	"github.com/Carmen-Shannon/oiishi/engine/geometry"
	"github.com/Carmen-Shannon/oiishi/engine/light"
	"github.com/Carmen-Shannon/oiishi/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oiishi/engine/renderer/material"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/lit.wgsl
var litShaderSource string

//go:embed assets/shadow.wgsl
var shadowShaderSource string

const (
	// vertexStride is position (3) + normal (3) + uv (2) float32s.
	vertexStride = 32

	drawUniformSize   = 144
	shadowUniformSize = 80

	wgpuMaxAnisotropy uint16 = 16
)

// frame group bindings
const (
	bindingCamera = iota
	bindingLights
	bindingShadow
	bindingShadowMap
	bindingShadowSampler
)

// material group bindings
const (
	bindingMaterial = iota
	bindingBaseMap
	bindingBaseSampler
)

type wgpuRendererBackendImpl struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat wgpu.TextureFormat
	alphaMode     wgpu.CompositeAlphaMode
	presentMode   wgpu.PresentMode
	sampleCount   MSAASampleCount
	width         int
	height        int

	msaaTexture  *wgpu.Texture
	msaaView     *wgpu.TextureView
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	frameLayout    *wgpu.BindGroupLayout
	drawLayout     *wgpu.BindGroupLayout
	materialLayout *wgpu.BindGroupLayout
	shadowLayout   *wgpu.BindGroupLayout
	litPipeline    *wgpu.RenderPipeline
	shadowPipeline *wgpu.RenderPipeline

	// frameGroup holds the camera, lights and shadow uniforms plus the shadow map.
	frameGroup bind_group_provider.BindGroupProvider
	// shadowGroup holds the light view-projection used by the depth pass.
	shadowGroup   bind_group_provider.BindGroupProvider
	shadowMapSize [2]int
	shadowView    *wgpu.TextureView

	whiteTexture *wgpu.Texture
	whiteView    *wgpu.TextureView

	meshes    map[geometry.Geometry]bind_group_provider.BindGroupProvider
	materials map[material.Material]bind_group_provider.BindGroupProvider
	drawSlots []bind_group_provider.BindGroupProvider
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount, mode PresentMode) (*wgpuRendererBackendImpl, error) {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: max(sampleCount, MSAAOff),
		meshes:      make(map[geometry.Geometry]bind_group_provider.BindGroupProvider),
		materials:   make(map[material.Material]bind_group_provider.BindGroupProvider),
	}
	if mode == PresentModeUncapped {
		b.presentMode = wgpu.PresentModeImmediate
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		return nil, fmt.Errorf("surface reports no formats")
	}
	b.surfaceFormat = capabilities.Formats[0]
	b.alphaMode = capabilities.AlphaModes[0]

	if err := b.createLayouts(); err != nil {
		return nil, err
	}
	if err := b.createPipelines(); err != nil {
		return nil, err
	}
	if err := b.createFrameResources(light.ShadowMapResolution, light.ShadowMapResolution); err != nil {
		return nil, err
	}
	if err := b.createWhiteTexture(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *wgpuRendererBackendImpl) MaxAnisotropy() uint16 {
	return wgpuMaxAnisotropy
}

func (b *wgpuRendererBackendImpl) Snapshot() (*image.RGBA, error) {
	return nil, ErrSnapshotUnsupported
}

func (b *wgpuRendererBackendImpl) Configure(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   b.alphaMode,
	})
	b.width, b.height = width, height
	b.releaseTargets()

	count := uint32(b.sampleCount)
	if count > 1 {
		// The render pass draws into the MSAA texture and resolves into the swapchain view.
		tex, view, err := b.createTarget("MSAA Texture", b.surfaceFormat, count)
		if err != nil {
			return err
		}
		b.msaaTexture, b.msaaView = tex, view
	}

	// Depth texture sample count must match the color attachment.
	tex, view, err := b.createTarget("Depth Texture", wgpu.TextureFormatDepth24Plus, count)
	if err != nil {
		return err
	}
	b.depthTexture, b.depthView = tex, view
	return nil
}

func (b *wgpuRendererBackendImpl) Draw(f *Frame) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.depthView == nil {
		return nil
	}

	var shadowVP common.Mat4
	shadowParams := [4]float32{}
	if f.ShadowLight != nil {
		s := f.ShadowLight.Shadow()
		if s.MapWidth != b.shadowMapSize[0] || s.MapHeight != b.shadowMapSize[1] {
			if err := b.createFrameResources(s.MapWidth, s.MapHeight); err != nil {
				return err
			}
		}
		shadowVP = f.ShadowLight.ShadowViewProjection()
		shadowParams = [4]float32{s.Bias, 1, 1 / float32(s.MapWidth), 1 / float32(s.MapHeight)}
	}

	camUniform := camera.GPUCameraUniform{ViewProj: f.ViewProj, CameraPosition: f.Eye}
	lights := light.PackSceneLights(f.Lights)
	shadowBytes := marshalFloats(append(shadowVP[:], shadowParams[:]...))

	writes := []bind_group_provider.BufferWrite{
		{Provider: b.frameGroup, Binding: bindingCamera, Data: camUniform.Marshal()},
		{Provider: b.frameGroup, Binding: bindingLights, Data: lights.Marshal()},
		{Provider: b.frameGroup, Binding: bindingShadow, Data: shadowBytes},
		{Provider: b.shadowGroup, Binding: 0, Data: shadowBytes},
	}

	type drawCall struct {
		mesh bind_group_provider.BindGroupProvider
		slot bind_group_provider.BindGroupProvider
		mat  bind_group_provider.BindGroupProvider
	}
	prepare := func(items []DrawItem, slotOffset int) ([]drawCall, error) {
		calls := make([]drawCall, 0, len(items))
		for i := range items {
			it := &items[i]
			mesh, err := b.mesh(it.Geometry)
			if err != nil {
				return nil, err
			}
			mat, err := b.material(it.Material)
			if err != nil {
				return nil, err
			}
			slot, err := b.drawSlot(slotOffset + i)
			if err != nil {
				return nil, err
			}
			receive := float32(0)
			if it.ReceiveShadow {
				receive = 1
			}
			draw := make([]float32, 0, drawUniformSize/4)
			draw = append(draw, it.World[:]...)
			draw = append(draw, it.Normal[:]...)
			draw = append(draw, receive, 0, 0, 0)
			gm := material.PackMaterial(it.Material)
			writes = append(writes,
				bind_group_provider.BufferWrite{Provider: slot, Binding: 0, Data: marshalFloats(draw)},
				bind_group_provider.BufferWrite{Provider: mat, Binding: bindingMaterial, Data: gm.Marshal()},
			)
			calls = append(calls, drawCall{mesh: mesh, slot: slot, mat: mat})
		}
		return calls, nil
	}

	calls, err := prepare(f.Items, 0)
	if err != nil {
		return err
	}
	var casterCalls []drawCall
	if f.ShadowLight != nil {
		if casterCalls, err = prepare(f.ShadowCasters, len(f.Items)); err != nil {
			return err
		}
	}

	for _, w := range writes {
		if buf := w.Provider.Buffer(w.Binding); buf != nil {
			b.queue.WriteBuffer(buf, w.Offset, w.Data)
		}
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	// Depth-only pass from the light. The map is cleared even without casters so stale
	// depth never shadows the current frame.
	shadowPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.shadowView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	if len(casterCalls) > 0 {
		shadowPass.SetPipeline(b.shadowPipeline)
		shadowPass.SetBindGroup(0, b.shadowGroup.BindGroup(), nil)
		for _, c := range casterCalls {
			shadowPass.SetBindGroup(1, c.slot.BindGroup(), nil)
			shadowPass.SetVertexBuffer(0, c.mesh.VertexBuffer(), 0, wgpu.WholeSize)
			shadowPass.SetIndexBuffer(c.mesh.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
			shadowPass.DrawIndexed(uint32(c.mesh.IndexCount()), 1, 0, 0, 0)
		}
	}
	shadowPass.End()

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	defer surfaceTexture.Release()
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()

	bg := f.Background.Linear()
	color := wgpu.RenderPassColorAttachment{
		View:    view,
		LoadOp:  wgpu.LoadOpClear,
		StoreOp: wgpu.StoreOpStore,
		ClearValue: wgpu.Color{
			R: float64(bg[0]), G: float64(bg[1]), B: float64(bg[2]), A: 1.0,
		},
	}
	if b.msaaView != nil {
		color.View = b.msaaView
		color.ResolveTarget = view
		color.StoreOp = wgpu.StoreOpDiscard
	}
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})
	pass.SetPipeline(b.litPipeline)
	pass.SetBindGroup(0, b.frameGroup.BindGroup(), nil)
	for _, c := range calls {
		pass.SetBindGroup(1, c.slot.BindGroup(), nil)
		pass.SetBindGroup(2, c.mat.BindGroup(), nil)
		pass.SetVertexBuffer(0, c.mesh.VertexBuffer(), 0, wgpu.WholeSize)
		pass.SetIndexBuffer(c.mesh.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(uint32(c.mesh.IndexCount()), 1, 0, 0, 0)
	}
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	b.surface.Present()
	return nil
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for g, p := range b.meshes {
		p.Release()
		delete(b.meshes, g)
	}
	for m, p := range b.materials {
		p.Release()
		delete(b.materials, m)
	}
	for _, p := range b.drawSlots {
		p.Release()
	}
	b.drawSlots = nil
	if b.frameGroup != nil {
		b.frameGroup.Release()
	}
	if b.shadowGroup != nil {
		b.shadowGroup.Release()
	}
	if b.whiteView != nil {
		b.whiteView.Release()
		b.whiteTexture.Release()
	}
	b.releaseTargets()
	if b.litPipeline != nil {
		b.litPipeline.Release()
	}
	if b.shadowPipeline != nil {
		b.shadowPipeline.Release()
	}
	for _, l := range []*wgpu.BindGroupLayout{b.frameLayout, b.drawLayout, b.materialLayout, b.shadowLayout} {
		if l != nil {
			l.Release()
		}
	}
	if b.device != nil {
		b.device.Release()
	}
	if b.surface != nil {
		b.surface.Release()
	}
	if b.adapter != nil {
		b.adapter.Release()
	}
	if b.instance != nil {
		b.instance.Release()
	}
}

func (b *wgpuRendererBackendImpl) releaseTargets() {
	if b.msaaView != nil {
		b.msaaView.Release()
		b.msaaTexture.Release()
		b.msaaView, b.msaaTexture = nil, nil
	}
	if b.depthView != nil {
		b.depthView.Release()
		b.depthTexture.Release()
		b.depthView, b.depthTexture = nil, nil
	}
}

func (b *wgpuRendererBackendImpl) createTarget(label string, format wgpu.TextureFormat, samples uint32) (*wgpu.Texture, *wgpu.TextureView, error) {
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(b.width),
			Height:             uint32(b.height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, fmt.Errorf("create %s view: %w", label, err)
	}
	return tex, view, nil
}

func uniformEntry(binding uint32, visibility wgpu.ShaderStage, size uint64) wgpu.BindGroupLayoutEntry {
	e := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: visibility}
	e.Buffer.Type = wgpu.BufferBindingTypeUniform
	e.Buffer.MinBindingSize = size
	return e
}

func (b *wgpuRendererBackendImpl) createLayouts() error {
	shadowMap := wgpu.BindGroupLayoutEntry{Binding: bindingShadowMap, Visibility: wgpu.ShaderStageFragment}
	shadowMap.Texture.SampleType = wgpu.TextureSampleTypeDepth
	shadowMap.Texture.ViewDimension = wgpu.TextureViewDimension2D
	shadowSampler := wgpu.BindGroupLayoutEntry{Binding: bindingShadowSampler, Visibility: wgpu.ShaderStageFragment}
	shadowSampler.Sampler.Type = wgpu.SamplerBindingTypeComparison

	baseMap := wgpu.BindGroupLayoutEntry{Binding: bindingBaseMap, Visibility: wgpu.ShaderStageFragment}
	baseMap.Texture.SampleType = wgpu.TextureSampleTypeFloat
	baseMap.Texture.ViewDimension = wgpu.TextureViewDimension2D
	baseSampler := wgpu.BindGroupLayoutEntry{Binding: bindingBaseSampler, Visibility: wgpu.ShaderStageFragment}
	baseSampler.Sampler.Type = wgpu.SamplerBindingTypeFiltering

	descriptors := []struct {
		dst  **wgpu.BindGroupLayout
		desc wgpu.BindGroupLayoutDescriptor
	}{
		{&b.frameLayout, wgpu.BindGroupLayoutDescriptor{Label: "Frame Layout", Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(bindingCamera, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, camera.GPUCameraUniformSize),
			uniformEntry(bindingLights, wgpu.ShaderStageFragment, light.GPUSceneLightsSize),
			uniformEntry(bindingShadow, wgpu.ShaderStageFragment, shadowUniformSize),
			shadowMap,
			shadowSampler,
		}}},
		{&b.drawLayout, wgpu.BindGroupLayoutDescriptor{Label: "Draw Layout", Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(0, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, drawUniformSize),
		}}},
		{&b.materialLayout, wgpu.BindGroupLayoutDescriptor{Label: "Material Layout", Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(bindingMaterial, wgpu.ShaderStageFragment, material.GPUMaterialSize),
			baseMap,
			baseSampler,
		}}},
		{&b.shadowLayout, wgpu.BindGroupLayoutDescriptor{Label: "Shadow Layout", Entries: []wgpu.BindGroupLayoutEntry{
			uniformEntry(0, wgpu.ShaderStageVertex, shadowUniformSize),
		}}},
	}
	for _, d := range descriptors {
		layout, err := b.device.CreateBindGroupLayout(&d.desc)
		if err != nil {
			return fmt.Errorf("create %s: %w", d.desc.Label, err)
		}
		*d.dst = layout
	}
	return nil
}

func vertexLayout(attributes ...wgpu.VertexAttribute) []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{{
		ArrayStride: vertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attributes,
	}}
}

func (b *wgpuRendererBackendImpl) createPipelines() error {
	lit, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "lit.wgsl",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: litShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile lit shader: %w", err)
	}
	defer lit.Release()
	shadow, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "shadow.wgsl",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shadowShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile shadow shader: %w", err)
	}
	defer shadow.Release()

	litLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Lit Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.frameLayout, b.drawLayout, b.materialLayout},
	})
	if err != nil {
		return err
	}
	defer litLayout.Release()

	b.litPipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Lit Render Pipeline",
		Layout: litLayout,
		Vertex: wgpu.VertexState{
			Module:     lit,
			EntryPoint: "vs_main",
			Buffers: vertexLayout(
				wgpu.VertexAttribute{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
				wgpu.VertexAttribute{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
				wgpu.VertexAttribute{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
			),
		},
		Fragment: &wgpu.FragmentState{
			Module:     lit,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: b.surfaceFormat,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{Operation: wgpu.BlendOperationAdd, SrcFactor: wgpu.BlendFactorSrcAlpha, DstFactor: wgpu.BlendFactorOneMinusSrcAlpha},
					Alpha: wgpu.BlendComponent{Operation: wgpu.BlendOperationAdd, SrcFactor: wgpu.BlendFactorOne, DstFactor: wgpu.BlendFactorOneMinusSrcAlpha},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
	})
	if err != nil {
		return fmt.Errorf("create lit pipeline: %w", err)
	}

	shadowLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Shadow Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.shadowLayout, b.drawLayout},
	})
	if err != nil {
		return err
	}
	defer shadowLayout.Release()

	b.shadowPipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Shadow Pipeline",
		Layout: shadowLayout,
		Vertex: wgpu.VertexState{
			Module:     shadow,
			EntryPoint: "vs_shadow",
			Buffers: vertexLayout(
				wgpu.VertexAttribute{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			),
		},
		// No fragment shader, depth-only pass
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:              wgpu.TextureFormatDepth32Float,
			DepthWriteEnabled:   true,
			DepthCompare:        wgpu.CompareFunctionLess,
			DepthBias:           2,
			DepthBiasSlopeScale: 2.0,
			StencilFront:        wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:         wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
	})
	if err != nil {
		return fmt.Errorf("create shadow pipeline: %w", err)
	}
	return nil
}

// createFrameResources (re)creates the frame and shadow groups with a shadow map of the given size.
func (b *wgpuRendererBackendImpl) createFrameResources(width, height int) error {
	if b.frameGroup != nil {
		b.frameGroup.Release()
	}
	if b.shadowGroup != nil {
		b.shadowGroup.Release()
	}
	frame := bind_group_provider.NewBindGroupProvider(bind_group_provider.WithLabel("Frame"))
	shadow := bind_group_provider.NewBindGroupProvider(bind_group_provider.WithLabel("Shadow"))

	for binding, size := range map[int]uint64{
		bindingCamera: camera.GPUCameraUniformSize,
		bindingLights: light.GPUSceneLightsSize,
		bindingShadow: shadowUniformSize,
	} {
		buf, err := b.uniformBuffer(frame.Label(), size)
		if err != nil {
			return err
		}
		frame.SetBuffer(binding, buf)
	}
	shadowBuf, err := b.uniformBuffer(shadow.Label(), shadowUniformSize)
	if err != nil {
		return err
	}
	shadow.SetBuffer(0, shadowBuf)

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Shadow Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth32Float,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("create shadow depth texture: %w", err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return fmt.Errorf("create shadow depth texture view: %w", err)
	}
	frame.SetTexture(bindingShadowMap, tex, view)

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Shadow Comparison Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		Compare:       wgpu.CompareFunctionLess,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return fmt.Errorf("create comparison sampler: %w", err)
	}
	frame.SetSampler(bindingShadowSampler, samp)

	frameGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Frame Bind Group",
		Layout: b.frameLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: bindingCamera, Buffer: frame.Buffer(bindingCamera), Size: wgpu.WholeSize},
			{Binding: bindingLights, Buffer: frame.Buffer(bindingLights), Size: wgpu.WholeSize},
			{Binding: bindingShadow, Buffer: frame.Buffer(bindingShadow), Size: wgpu.WholeSize},
			{Binding: bindingShadowMap, TextureView: view},
			{Binding: bindingShadowSampler, Sampler: samp},
		},
	})
	if err != nil {
		return fmt.Errorf("create frame bind group: %w", err)
	}
	frame.SetBindGroup(frameGroup)

	shadowGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Shadow Bind Group",
		Layout:  b.shadowLayout,
		Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: shadowBuf, Size: wgpu.WholeSize}},
	})
	if err != nil {
		return fmt.Errorf("create shadow bind group: %w", err)
	}
	shadow.SetBindGroup(shadowGroup)

	b.frameGroup, b.shadowGroup = frame, shadow
	b.shadowView = view
	b.shadowMapSize = [2]int{width, height}
	return nil
}

func (b *wgpuRendererBackendImpl) createWhiteTexture() error {
	tex, view, err := b.uploadTexture("White Texture", common.TextureStagingData{
		Pixels: []byte{0xff, 0xff, 0xff, 0xff},
		Width:  1,
		Height: 1,
	})
	if err != nil {
		return err
	}
	b.whiteTexture, b.whiteView = tex, view
	return nil
}

func (b *wgpuRendererBackendImpl) uniformBuffer(label string, size uint64) (*wgpu.Buffer, error) {
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Uniform Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s uniform buffer: %w", label, err)
	}
	return buf, nil
}

func (b *wgpuRendererBackendImpl) uploadTexture(label string, staging common.TextureStagingData) (*wgpu.Texture, *wgpu.TextureView, error) {
	format := wgpu.TextureFormatRGBA8Unorm
	if staging.SRGB {
		format = wgpu.TextureFormatRGBA8UnormSrgb
	}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label,
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        format,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create texture %s: %w", label, err)
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		staging.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  staging.Width * 4,
			RowsPerImage: staging.Height,
		},
		&wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, err
	}
	return tex, view, nil
}

// mesh returns the vertex and index buffers of g, uploading them on first use.
func (b *wgpuRendererBackendImpl) mesh(g geometry.Geometry) (bind_group_provider.BindGroupProvider, error) {
	if p, ok := b.meshes[g]; ok {
		return p, nil
	}
	p := bind_group_provider.NewBindGroupProvider(bind_group_provider.WithLabel(g.Name()))

	pos, nrm, uvs := g.Positions(), g.Normals(), g.UVs()
	floats := make([]float32, 0, len(pos)*8)
	for i := range pos {
		floats = append(floats, pos[i][0], pos[i][1], pos[i][2], nrm[i][0], nrm[i][1], nrm[i][2], uvs[i][0], uvs[i][1])
	}
	vertexData := marshalFloats(floats)
	indices := g.Indices()
	indexData := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(indexData[i*4:], idx)
	}

	vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: p.Label() + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create vertex buffer for %s: %w", g.Name(), err)
	}
	b.queue.WriteBuffer(vb, 0, vertexData)

	ib, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: p.Label() + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("create index buffer for %s: %w", g.Name(), err)
	}
	b.queue.WriteBuffer(ib, 0, indexData)

	p.SetMesh(vb, ib, len(indices))
	b.meshes[g] = p
	return p, nil
}

// material returns the bind group of m, creating its uniform buffer, texture and sampler on first use.
func (b *wgpuRendererBackendImpl) material(m material.Material) (bind_group_provider.BindGroupProvider, error) {
	if p, ok := b.materials[m]; ok {
		return p, nil
	}
	p := bind_group_provider.NewBindGroupProvider(bind_group_provider.WithLabel(m.Name()))

	buf, err := b.uniformBuffer(p.Label(), material.GPUMaterialSize)
	if err != nil {
		return nil, err
	}
	p.SetBuffer(bindingMaterial, buf)

	view := b.whiteView
	samplerData := common.DefaultSampler(1)
	if t := m.Map(); t != nil && !t.Disposed() {
		tex, tv, err := b.uploadTexture(t.Name(), t.Staging())
		if err != nil {
			p.Release()
			return nil, err
		}
		p.SetTexture(bindingBaseMap, tex, tv)
		view = tv
		samplerData = t.Sampler()
	}

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         p.Label() + " Sampler",
		AddressModeU:  common.Coalesce(samplerData.AddressModeU, wgpu.AddressModeClampToEdge),
		AddressModeV:  common.Coalesce(samplerData.AddressModeV, wgpu.AddressModeClampToEdge),
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     common.Coalesce(samplerData.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(samplerData.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(samplerData.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: common.Clamp(samplerData.MaxAnisotropy, 1, wgpuMaxAnisotropy),
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("create sampler for %s: %w", m.Name(), err)
	}
	p.SetSampler(bindingBaseSampler, samp)

	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  p.Label() + " Bind Group",
		Layout: b.materialLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: bindingMaterial, Buffer: buf, Size: wgpu.WholeSize},
			{Binding: bindingBaseMap, TextureView: view},
			{Binding: bindingBaseSampler, Sampler: samp},
		},
	})
	if err != nil {
		p.Release()
		return nil, fmt.Errorf("create bind group for %s: %w", m.Name(), err)
	}
	p.SetBindGroup(bg)

	b.materials[m] = p
	return p, nil
}

// drawSlot returns the per-draw uniform group at index i, growing the pool as needed.
func (b *wgpuRendererBackendImpl) drawSlot(i int) (bind_group_provider.BindGroupProvider, error) {
	for len(b.drawSlots) <= i {
		p := bind_group_provider.NewBindGroupProvider(bind_group_provider.WithLabel(fmt.Sprintf("Draw %d", len(b.drawSlots))))
		buf, err := b.uniformBuffer(p.Label(), drawUniformSize)
		if err != nil {
			return nil, err
		}
		p.SetBuffer(0, buf)
		bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:   p.Label() + " Bind Group",
			Layout:  b.drawLayout,
			Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: buf, Size: wgpu.WholeSize}},
		})
		if err != nil {
			p.Release()
			return nil, fmt.Errorf("create draw bind group: %w", err)
		}
		p.SetBindGroup(bg)
		b.drawSlots = append(b.drawSlots, p)
	}
	return b.drawSlots[i], nil
}

func marshalFloats(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
