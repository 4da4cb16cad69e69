// Package bind_group_provider groups the GPU objects backing one bind group or one mesh
// so they can be bound together and released together.
package bind_group_provider

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	mu    *sync.Mutex
	label string

	bindGroup    *wgpu.BindGroup
	buffers      map[int]*wgpu.Buffer
	textures     map[int]*wgpu.Texture
	textureViews map[int]*wgpu.TextureView
	samplers     map[int]*wgpu.Sampler

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   int

	released bool
}

// BindGroupProvider owns the GPU resources of one bind group (uniform buffers, texture
// views, samplers) and optionally one mesh (vertex and index buffers).
//
// Usage pattern:
//  1. The backend creates a provider per mesh, per material or per draw slot
//  2. The backend creates buffers and textures and stores them with the Set* methods
//  3. The backend creates the bind group from those resources with SetBindGroup
//  4. Uniform updates are staged as BufferWrite values targeting the provider
//  5. Release frees everything the provider holds exactly once
type BindGroupProvider interface {
	// Label returns the debug label for this provider.
	Label() string

	// BindGroup returns the bind group, or nil before initialization.
	BindGroup() *wgpu.BindGroup

	// SetBindGroup stores the bind group. A previously stored bind group is released.
	SetBindGroup(bg *wgpu.BindGroup)

	// Buffer returns the buffer at a binding index, or nil.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer or nil
	Buffer(binding int) *wgpu.Buffer

	// SetBuffer stores a buffer at a binding index.
	SetBuffer(binding int, buf *wgpu.Buffer)

	// TextureView returns the texture view at a binding index, or nil.
	TextureView(binding int) *wgpu.TextureView

	// SetTexture stores a texture and its view at a binding index. Both are released
	// with the provider.
	//
	// Parameters:
	//   - binding: the binding index
	//   - tex: the texture, may be nil when the view is borrowed
	//   - view: the texture view
	SetTexture(binding int, tex *wgpu.Texture, view *wgpu.TextureView)

	// Sampler returns the sampler at a binding index, or nil.
	Sampler(binding int) *wgpu.Sampler

	// SetSampler stores a sampler at a binding index.
	SetSampler(binding int, s *wgpu.Sampler)

	// VertexBuffer returns the vertex buffer, or nil.
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the index buffer, or nil.
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices for indexed draws.
	IndexCount() int

	// SetMesh stores the vertex and index buffers of a mesh.
	//
	// Parameters:
	//   - vertices: the vertex buffer
	//   - indices: the index buffer
	//   - indexCount: the number of indices
	SetMesh(vertices, indices *wgpu.Buffer, indexCount int)

	// Release releases every GPU object held by the provider. Later calls are no-ops.
	//
	// Returns:
	//   - bool: true on the first call
	Release() bool
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - BindGroupProvider: the provider
func NewBindGroupProvider(options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		mu:           &sync.Mutex{},
		buffers:      make(map[int]*wgpu.Buffer),
		textures:     make(map[int]*wgpu.Texture),
		textureViews: make(map[int]*wgpu.TextureView),
		samplers:     make(map[int]*wgpu.Sampler),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bindGroup
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bindGroup != nil && p.bindGroup != bg {
		p.bindGroup.Release()
	}
	p.bindGroup = bg
}

func (p *bindGroupProvider) Buffer(binding int) *wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffers[binding]
}

func (p *bindGroupProvider) SetBuffer(binding int, buf *wgpu.Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) TextureView(binding int) *wgpu.TextureView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.textureViews[binding]
}

func (p *bindGroupProvider) SetTexture(binding int, tex *wgpu.Texture, view *wgpu.TextureView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if tex != nil {
		p.textures[binding] = tex
	}
	p.textureViews[binding] = view
}

func (p *bindGroupProvider) Sampler(binding int) *wgpu.Sampler {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.samplers[binding]
}

func (p *bindGroupProvider) SetSampler(binding int, s *wgpu.Sampler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.samplers[binding] = s
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.indexCount
}

func (p *bindGroupProvider) SetMesh(vertices, indices *wgpu.Buffer, indexCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.vertexBuffer = vertices
	p.indexBuffer = indices
	p.indexCount = indexCount
}

func (p *bindGroupProvider) Release() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.released {
		return false
	}
	p.released = true

	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for k, b := range p.buffers {
		b.Release()
		delete(p.buffers, k)
	}
	for k, v := range p.textureViews {
		if v != nil {
			v.Release()
		}
		delete(p.textureViews, k)
	}
	for k, t := range p.textures {
		t.Release()
		delete(p.textures, k)
	}
	for k, s := range p.samplers {
		s.Release()
		delete(p.samplers, k)
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	return true
}
