// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package dispatch implements the PNGB dispatcher: a deterministic
// executor that walks a module's opcode stream, maintains GPU resource
// identity tables and per-frame pass state, and invokes a pluggable
// Backend. The Backend interface is the contract a concrete GPU driver
// must satisfy; the dispatcher itself never touches a real GPU API.
package dispatch

import "github.com/gviegas/pngine/pngb"

// Handle is an opaque backend-assigned resource handle. The dispatcher
// never interprets its value; it only stores and replays it.
type Handle uint64

// ResourceClass names one of the thirteen resource tables a Dispatcher
// owns.
type ResourceClass int

const (
	ClassBuffer ResourceClass = iota
	ClassTexture
	ClassTextureView
	ClassSampler
	ClassShaderModule
	ClassBindGroupLayout
	ClassPipelineLayout
	ClassBindGroup
	ClassRenderPipeline
	ClassComputePipeline
	ClassQuerySet
	ClassRenderBundle
	ClassImageBitmap

	classCount
)

// SurfaceExtent is the host-provided surface size substituted into
// canvas-sized texture descriptors at bind time.
type SurfaceExtent struct {
	Width, Height uint32
}

// SceneTime is the 12-byte host-provided scene-time block consumed by
// write_time_uniform.
type SceneTime struct {
	ElapsedSeconds float32
	DeltaSeconds   float32
	FrameCount     uint32
}

// Backend is the pluggable GPU abstraction a Dispatcher drives. One
// Backend implementation exists per concrete graphics API (Metal,
// Vulkan, WebGPU); none is implemented in this module.
//
// Create* methods receive the decoded pngb.Descriptor straight from the
// module's data section (or, for shader modules and image bitmaps, the
// raw blob bytes); it is the Backend's job to interpret descriptor
// fields.
type Backend interface {
	CreateBuffer(desc pngb.Descriptor) (Handle, error)
	CreateTexture(desc pngb.Descriptor, surface SurfaceExtent) (Handle, error)
	CreateTextureView(texture Handle, desc pngb.Descriptor) (Handle, error)
	CreateSampler(desc pngb.Descriptor) (Handle, error)
	CreateShaderModule(code []byte) (Handle, error)
	CreateBindGroupLayout(desc pngb.Descriptor) (Handle, error)
	CreatePipelineLayout(desc pngb.Descriptor) (Handle, error)
	CreateBindGroup(desc pngb.Descriptor) (Handle, error)
	CreateRenderPipeline(desc pngb.Descriptor) (Handle, error)
	CreateComputePipeline(desc pngb.Descriptor) (Handle, error)
	CreateQuerySet(desc pngb.Descriptor) (Handle, error)
	CreateRenderBundle(desc pngb.Descriptor) (Handle, error)
	CreateImageBitmap(data []byte) (Handle, error)

	WriteBuffer(buf Handle, offset uint32, data []byte) error
	WriteTimeUniform(buf Handle, offset, size uint32, t SceneTime) error
	CopyExternalImageToTexture(src, dst Handle) error

	BeginRenderPass() error
	BeginComputePass() error
	SetPipeline(pipeline Handle) error
	SetBindGroup(slot int, group Handle) error
	SetVertexBuffer(slot int, buf Handle, offset uint32) error
	SetIndexBuffer(buf Handle, offset uint32) error
	Draw(vertexCount, instanceCount int) error
	DrawIndexed(indexCount, instanceCount int) error
	ExecuteBundles(bundles []Handle) error
	Dispatch(x, y, z int) error
	EndPass() error
	Submit() error

	// Destroy releases a single backend handle of the given class. The
	// Dispatcher calls it once per handle, in reverse creation order,
	// per resource class.
	Destroy(class ResourceClass, h Handle)
}

// BackendFactory constructs a fresh Backend, used by pngine.Runtime to
// create one Backend per Animation.
type BackendFactory func() (Backend, error)
