// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package opcode defines PNGB's stable, on-wire opcode IDs and the
// table-driven decode metadata (operand shape, required pass context)
// the dispatcher uses to interpret them. The byte values below are part
// of the PNGB wire contract and must never be reassigned; new opcodes
// are always appended.
//
// One opcode exists per command-buffer recording method (BeginPass
// becomes OpBeginRenderPass, Draw becomes OpDraw, Dispatch becomes
// OpDispatch, and so on), plus a small set of frame-control opcodes
// (define_frame, end_frame, submit) bracketing a named, replayable
// range of the opcode stream.
package opcode

// Op is a stable opcode byte.
type Op byte

// Pass enumerates which pass context an opcode is legal in.
type Pass int

const (
	// PassIdle opcodes are legal only outside any render/compute pass
	// (all creation opcodes, plus frame control).
	PassIdle Pass = iota
	// PassRender opcodes are legal only inside a render pass.
	PassRender
	// PassCompute opcodes are legal only inside a compute pass.
	PassCompute
	// PassAny opcodes (end_pass) are legal inside either pass kind.
	PassAny
)

// Operand describes the shape of one opcode operand.
type Operand int

const (
	// OperandVarint is a single unsigned LEB128 varint.
	OperandVarint Operand = iota
	// OperandStringID is a varint-encoded string-table id.
	OperandStringID
	// OperandDataID is a varint-encoded data-blob id (often a
	// descriptor, per the opcode).
	OperandDataID
	// OperandOptionalVarint is a varint that may be omitted; a missing
	// optional operand resolves to the opcode's documented default.
	OperandOptionalVarint
)

// Info is the full decode table entry for one opcode.
type Info struct {
	Op       Op
	Name     string
	Operands []Operand
	Pass     Pass
	// Resource is the resource class this opcode creates, or "" if it
	// creates none.
	Resource string
}

// Stable opcode IDs, grouped by creation / queue / render-pass /
// compute-pass / frame-control class.
const (
	OpCreateBuffer Op = iota
	OpCreateTexture
	OpCreateTextureView
	OpCreateSampler
	OpCreateShaderModule
	OpCreateBindGroupLayout
	OpCreatePipelineLayout
	OpCreateBindGroup
	OpCreateRenderPipeline
	OpCreateComputePipeline
	OpCreateQuerySet
	OpCreateRenderBundle
	OpCreateImageBitmap

	OpWriteBuffer
	OpWriteTimeUniform
	OpCopyExternalImageToTexture

	OpBeginRenderPass
	OpSetPipeline
	OpSetBindGroup
	OpSetBindGroupPool
	OpSetVertexBuffer
	OpSetVertexBufferPool
	OpSetIndexBuffer
	OpDraw
	OpDrawIndexed
	OpExecuteBundles
	OpEndPass

	OpBeginComputePass
	OpDispatch

	OpDefineFrame
	OpEndFrame
	OpSubmit
)

// Table is the full decode table, indexed by Op.
var Table = map[Op]Info{
	OpCreateBuffer:          {OpCreateBuffer, "create_buffer", []Operand{OperandDataID}, PassIdle, "buffer"},
	OpCreateTexture:         {OpCreateTexture, "create_texture", []Operand{OperandDataID}, PassIdle, "texture"},
	OpCreateTextureView:     {OpCreateTextureView, "create_texture_view", []Operand{OperandVarint, OperandDataID}, PassIdle, "texture_view"},
	OpCreateSampler:         {OpCreateSampler, "create_sampler", []Operand{OperandDataID}, PassIdle, "sampler"},
	OpCreateShaderModule:    {OpCreateShaderModule, "create_shader_module", []Operand{OperandDataID}, PassIdle, "shader_module"},
	OpCreateBindGroupLayout: {OpCreateBindGroupLayout, "create_bind_group_layout", []Operand{OperandDataID}, PassIdle, "bind_group_layout"},
	OpCreatePipelineLayout:  {OpCreatePipelineLayout, "create_pipeline_layout", []Operand{OperandDataID}, PassIdle, "pipeline_layout"},
	OpCreateBindGroup:       {OpCreateBindGroup, "create_bind_group", []Operand{OperandDataID}, PassIdle, "bind_group"},
	OpCreateRenderPipeline:  {OpCreateRenderPipeline, "create_render_pipeline", []Operand{OperandDataID}, PassIdle, "render_pipeline"},
	OpCreateComputePipeline: {OpCreateComputePipeline, "create_compute_pipeline", []Operand{OperandDataID}, PassIdle, "compute_pipeline"},
	OpCreateQuerySet:        {OpCreateQuerySet, "create_query_set", []Operand{OperandDataID}, PassIdle, "query_set"},
	OpCreateRenderBundle:    {OpCreateRenderBundle, "create_render_bundle", []Operand{OperandDataID}, PassIdle, "render_bundle"},
	OpCreateImageBitmap:     {OpCreateImageBitmap, "create_image_bitmap", []Operand{OperandDataID}, PassIdle, "image_bitmap"},

	OpWriteBuffer:                 {OpWriteBuffer, "write_buffer", []Operand{OperandVarint, OperandVarint, OperandDataID}, PassIdle, ""},
	OpWriteTimeUniform:            {OpWriteTimeUniform, "write_time_uniform", []Operand{OperandVarint, OperandVarint, OperandVarint}, PassIdle, ""},
	OpCopyExternalImageToTexture:  {OpCopyExternalImageToTexture, "copy_external_image_to_texture", []Operand{OperandVarint, OperandVarint}, PassIdle, ""},

	OpBeginRenderPass:     {OpBeginRenderPass, "begin_render_pass", nil, PassIdle, ""},
	OpSetPipeline:         {OpSetPipeline, "set_pipeline", []Operand{OperandVarint}, PassAny, ""},
	OpSetBindGroup:        {OpSetBindGroup, "set_bind_group", []Operand{OperandVarint, OperandVarint}, PassAny, ""},
	OpSetBindGroupPool:    {OpSetBindGroupPool, "set_bind_group_pool", []Operand{OperandVarint, OperandVarint, OperandVarint}, PassAny, ""},
	OpSetVertexBuffer:     {OpSetVertexBuffer, "set_vertex_buffer", []Operand{OperandVarint, OperandVarint}, PassRender, ""},
	OpSetVertexBufferPool: {OpSetVertexBufferPool, "set_vertex_buffer_pool", []Operand{OperandVarint, OperandVarint, OperandVarint}, PassRender, ""},
	OpSetIndexBuffer:      {OpSetIndexBuffer, "set_index_buffer", []Operand{OperandVarint, OperandVarint}, PassRender, ""},
	OpDraw:                {OpDraw, "draw", []Operand{OperandVarint, OperandOptionalVarint}, PassRender, ""},
	OpDrawIndexed:         {OpDrawIndexed, "draw_indexed", []Operand{OperandVarint, OperandOptionalVarint}, PassRender, ""},
	OpExecuteBundles:      {OpExecuteBundles, "execute_bundles", []Operand{OperandVarint}, PassRender, ""},
	OpEndPass:             {OpEndPass, "end_pass", nil, PassAny, ""},

	OpBeginComputePass: {OpBeginComputePass, "begin_compute_pass", nil, PassIdle, ""},
	OpDispatch:         {OpDispatch, "dispatch", []Operand{OperandVarint, OperandVarint, OperandVarint}, PassCompute, ""},

	OpDefineFrame: {OpDefineFrame, "define_frame", []Operand{OperandStringID, OperandVarint, OperandVarint}, PassIdle, ""},
	OpEndFrame:    {OpEndFrame, "end_frame", nil, PassIdle, ""},
	OpSubmit:      {OpSubmit, "submit", nil, PassIdle, ""},
}
