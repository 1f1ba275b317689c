// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package dispatch

import "github.com/gviegas/pngine/pngb"

// fakeBackend is a no-op Backend that records call counts for assertions
// and hands out sequential handles.
type fakeBackend struct {
	next Handle

	beginRenderPasses int
	beginComputePasses int
	setPipelines      int
	setBindGroups     int
	setVertexBuffers  int
	setIndexBuffers   int
	draws             int
	drawsIndexed      int
	dispatches        int
	endPasses         int
	submits           int
	writeBuffers      int
	writeTimeUniforms int

	destroyed []ResourceClass
}

func (b *fakeBackend) alloc() Handle {
	b.next++
	return b.next
}

func (b *fakeBackend) CreateBuffer(pngb.Descriptor) (Handle, error)      { return b.alloc(), nil }
func (b *fakeBackend) CreateTexture(pngb.Descriptor, SurfaceExtent) (Handle, error) {
	return b.alloc(), nil
}
func (b *fakeBackend) CreateTextureView(Handle, pngb.Descriptor) (Handle, error) {
	return b.alloc(), nil
}
func (b *fakeBackend) CreateSampler(pngb.Descriptor) (Handle, error) { return b.alloc(), nil }
func (b *fakeBackend) CreateShaderModule([]byte) (Handle, error)     { return b.alloc(), nil }
func (b *fakeBackend) CreateBindGroupLayout(pngb.Descriptor) (Handle, error) {
	return b.alloc(), nil
}
func (b *fakeBackend) CreatePipelineLayout(pngb.Descriptor) (Handle, error) {
	return b.alloc(), nil
}
func (b *fakeBackend) CreateBindGroup(pngb.Descriptor) (Handle, error) { return b.alloc(), nil }
func (b *fakeBackend) CreateRenderPipeline(pngb.Descriptor) (Handle, error) {
	return b.alloc(), nil
}
func (b *fakeBackend) CreateComputePipeline(pngb.Descriptor) (Handle, error) {
	return b.alloc(), nil
}
func (b *fakeBackend) CreateQuerySet(pngb.Descriptor) (Handle, error)    { return b.alloc(), nil }
func (b *fakeBackend) CreateRenderBundle(pngb.Descriptor) (Handle, error) { return b.alloc(), nil }
func (b *fakeBackend) CreateImageBitmap([]byte) (Handle, error)         { return b.alloc(), nil }

func (b *fakeBackend) WriteBuffer(Handle, uint32, []byte) error { b.writeBuffers++; return nil }
func (b *fakeBackend) WriteTimeUniform(Handle, uint32, uint32, SceneTime) error {
	b.writeTimeUniforms++
	return nil
}
func (b *fakeBackend) CopyExternalImageToTexture(Handle, Handle) error { return nil }

func (b *fakeBackend) BeginRenderPass() error  { b.beginRenderPasses++; return nil }
func (b *fakeBackend) BeginComputePass() error { b.beginComputePasses++; return nil }
func (b *fakeBackend) SetPipeline(Handle) error {
	b.setPipelines++
	return nil
}
func (b *fakeBackend) SetBindGroup(int, Handle) error { b.setBindGroups++; return nil }
func (b *fakeBackend) SetVertexBuffer(int, Handle, uint32) error {
	b.setVertexBuffers++
	return nil
}
func (b *fakeBackend) SetIndexBuffer(Handle, uint32) error { b.setIndexBuffers++; return nil }
func (b *fakeBackend) Draw(int, int) error                { b.draws++; return nil }
func (b *fakeBackend) DrawIndexed(int, int) error          { b.drawsIndexed++; return nil }
func (b *fakeBackend) ExecuteBundles([]Handle) error       { return nil }
func (b *fakeBackend) Dispatch(int, int, int) error        { b.dispatches++; return nil }
func (b *fakeBackend) EndPass() error                      { b.endPasses++; return nil }
func (b *fakeBackend) Submit() error                       { b.submits++; return nil }

func (b *fakeBackend) Destroy(class ResourceClass, h Handle) {
	b.destroyed = append(b.destroyed, class)
}
