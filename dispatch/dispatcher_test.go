// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package dispatch

import (
	"testing"

	"github.com/gviegas/pngine/pngb"
	"github.com/gviegas/pngine/pngb/opcode"
	"github.com/gviegas/pngine/pngerr"
)

// frameBuilder assembles a module whose idle program creates one
// resource per creation opcode given, then declares a single named
// frame wrapping body, resolving define_frame's start/length operands
// against the actual layout it produces.
type frameBuilder struct {
	prefix  []byte
	strings [][]byte
	data    [][]byte
}

func (fb *frameBuilder) addData(d []byte) uint64 {
	fb.data = append(fb.data, d)
	return uint64(len(fb.data) - 1)
}

func (fb *frameBuilder) addString(s string) uint64 {
	fb.strings = append(fb.strings, []byte(s))
	return uint64(len(fb.strings) - 1)
}

func (fb *frameBuilder) create(op opcode.Op, descID uint64) {
	fb.prefix = append(fb.prefix, byte(op))
	fb.prefix = pngb.AppendVarint(fb.prefix, descID)
}

// build lays out prefix + define_frame(name, start, length) + body +
// end_frame, resolving start so it points exactly at body's first byte.
func (fb *frameBuilder) build(name string, body []byte) *pngb.Module {
	nameID := fb.addString(name)

	nameIDBytes := pngb.AppendVarint(nil, nameID)
	lengthBytes := pngb.AppendVarint(nil, uint64(len(body)))
	placeholder := pngb.AppendVarint(nil, 0)
	headerLen := 1 + len(nameIDBytes) + len(placeholder) + len(lengthBytes)
	start := uint64(len(fb.prefix) + headerLen)
	startBytes := pngb.AppendVarint(nil, start)
	if len(startBytes) != len(placeholder) {
		panic("frameBuilder: start varint width assumption violated, adjust test fixture")
	}

	bytecode := append([]byte{}, fb.prefix...)
	bytecode = append(bytecode, byte(opcode.OpDefineFrame))
	bytecode = append(bytecode, nameIDBytes...)
	bytecode = append(bytecode, startBytes...)
	bytecode = append(bytecode, lengthBytes...)
	bytecode = append(bytecode, body...)
	bytecode = append(bytecode, byte(opcode.OpEndFrame))

	return &pngb.Module{
		Bytecode: bytecode,
		Strings:  fb.strings,
		Data:     fb.data,
	}
}

func pipelineDescriptor() []byte {
	return pngb.EncodeDescriptor(pngb.Descriptor{Type: pngb.DescRenderPipeline})
}

func bufferDescriptor(size uint64) []byte {
	return pngb.EncodeDescriptor(pngb.Descriptor{
		Type: pngb.DescBuffer,
		Fields: []pngb.DescField{
			{Key: pngb.KeyBufferSize, Tag: pngb.ValueUint, Raw: pngb.AppendVarint(nil, size)},
		},
	})
}

func pooledBufferDescriptor(size, pool uint64) []byte {
	return pngb.EncodeDescriptor(pngb.Descriptor{
		Type: pngb.DescBuffer,
		Fields: []pngb.DescField{
			{Key: pngb.KeyBufferSize, Tag: pngb.ValueUint, Raw: pngb.AppendVarint(nil, size)},
			{Key: pngb.KeyPool, Tag: pngb.ValueUint, Raw: pngb.AppendVarint(nil, pool)},
		},
	})
}

// TestSingleRenderPassDrawSequence exercises a module whose sole frame
// is begin_render_pass, set_pipeline, draw(vertex_count=3), end_pass.
func TestSingleRenderPassDrawSequence(t *testing.T) {
	fb := &frameBuilder{}
	descID := fb.addData(pipelineDescriptor())
	fb.create(opcode.OpCreateRenderPipeline, descID)

	var body []byte
	body = append(body, byte(opcode.OpBeginRenderPass))
	body = append(body, byte(opcode.OpSetPipeline))
	body = pngb.AppendVarint(body, 0)
	body = append(body, byte(opcode.OpDraw))
	body = pngb.AppendVarint(body, 3)
	body = append(body, 1) // instance_count present
	body = pngb.AppendVarint(body, 1)
	body = append(body, byte(opcode.OpEndPass))

	m := fb.build("main", body)

	backend := &fakeBackend{}
	d, err := New(m, backend, SurfaceExtent{Width: 640, Height: 480})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.ExecuteFrame("main", SceneTime{}); err != nil {
		t.Fatalf("ExecuteFrame: %v", err)
	}

	if backend.beginRenderPasses != 1 || backend.setPipelines != 1 || backend.draws != 1 || backend.endPasses != 1 {
		t.Fatalf("backend calls = %+v", backend)
	}
	if got := d.Diagnostics().DrawInfo(); got != uint32(3)<<16|1 {
		t.Fatalf("DrawInfo = %#x, want vertex_count=3 instance_count=1", got)
	}
	if d.Diagnostics().FrameCount() != 1 {
		t.Fatalf("FrameCount = %d, want 1", d.Diagnostics().FrameCount())
	}
}

// TestPooledBufferPingPong exercises set_vertex_buffer_pool against a
// pooled buffer declaration (a single create_buffer opcode whose
// descriptor carries pool=2): one frame execution binds the pool's first
// buffer, and the pool's second buffer is checked to resolve directly
// from the resource table.
func TestPooledBufferPingPong(t *testing.T) {
	fb := &frameBuilder{}
	pipeDescID := fb.addData(pipelineDescriptor())
	fb.create(opcode.OpCreateRenderPipeline, pipeDescID)

	bufDescID := fb.addData(pooledBufferDescriptor(64, 2))
	fb.create(opcode.OpCreateBuffer, bufDescID) // pool=2 -> two backend buffers, base=0

	var body []byte
	body = append(body, byte(opcode.OpBeginRenderPass))
	body = append(body, byte(opcode.OpSetPipeline))
	body = pngb.AppendVarint(body, 0)
	body = append(body, byte(opcode.OpSetVertexBufferPool))
	body = pngb.AppendVarint(body, 0) // slot
	body = pngb.AppendVarint(body, 0) // base
	body = pngb.AppendVarint(body, 0) // offset: first buffer
	body = append(body, byte(opcode.OpDraw))
	body = pngb.AppendVarint(body, 3)
	body = append(body, 0) // instance_count absent -> defaults to 1
	body = append(body, byte(opcode.OpEndPass))

	m := fb.build("ping", body)

	backend := &fakeBackend{}
	d, err := New(m, backend, SurfaceExtent{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.ExecuteFrame("ping", SceneTime{}); err != nil {
		t.Fatalf("ExecuteFrame: %v", err)
	}
	// One pipeline handle plus a pool of two buffer handles, all from
	// New's idle-program replay, means the backend allocated 3 handles
	// total even though only two creation opcodes were in the stream.
	if backend.next != 3 {
		t.Fatalf("backend allocated %d handles, want 3 (1 pipeline + pool of 2 buffers)", backend.next)
	}
	if backend.setVertexBuffers != 1 {
		t.Fatalf("setVertexBuffers = %d, want 1", backend.setVertexBuffers)
	}
	firstVB, lastVB, _, _, _ := d.Diagnostics().BufferProbes()
	if firstVB != 0 || lastVB != 0 {
		t.Fatalf("vertex buffer probes = (%d, %d), want (0, 0)", firstVB, lastVB)
	}

	// The frame only binds offset 0; check directly that the pool's
	// other endpoint, offset 1, also resolves to a backend handle.
	if h, ok := d.tables.getPooled(ClassBuffer, 0, 1); !ok || h == 0 {
		t.Fatalf("pooled buffer at offset 1 not resolvable: ok=%v h=%v", ok, h)
	}
}

func TestDrawOutsideRenderPassIsInvalidState(t *testing.T) {
	fb := &frameBuilder{}
	descID := fb.addData(pipelineDescriptor())
	fb.create(opcode.OpCreateRenderPipeline, descID)

	var body []byte
	body = append(body, byte(opcode.OpDraw))
	body = pngb.AppendVarint(body, 3)
	body = append(body, 0)

	m := fb.build("bad", body)
	backend := &fakeBackend{}
	d, err := New(m, backend, SurfaceExtent{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = d.ExecuteFrame("bad", SceneTime{})
	if !pngerr.Is(err, pngerr.InvalidState) {
		t.Fatalf("expected InvalidState, got %v", err)
	}
	if d.Diagnostics().GetLastError() != pngerr.InvalidState {
		t.Fatalf("GetLastError = %v, want InvalidState", d.Diagnostics().GetLastError())
	}
}

func TestExecuteFrameUnknownNameIsInvalidArgument(t *testing.T) {
	fb := &frameBuilder{}
	m := fb.build("only", []byte{byte(opcode.OpEndPass)}) // end_pass outside any pass, never reached by name
	backend := &fakeBackend{}
	d, err := New(m, backend, SurfaceExtent{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = d.ExecuteFrame("missing", SceneTime{})
	if !pngerr.Is(err, pngerr.InvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestResetCountersClearsDiagnostics(t *testing.T) {
	fb := &frameBuilder{}
	descID := fb.addData(pipelineDescriptor())
	fb.create(opcode.OpCreateRenderPipeline, descID)
	var body []byte
	body = append(body, byte(opcode.OpBeginRenderPass))
	body = append(body, byte(opcode.OpSetPipeline))
	body = pngb.AppendVarint(body, 0)
	body = append(body, byte(opcode.OpDraw))
	body = pngb.AppendVarint(body, 1)
	body = append(body, 0)
	body = append(body, byte(opcode.OpEndPass))
	m := fb.build("f", body)
	backend := &fakeBackend{}
	d, err := New(m, backend, SurfaceExtent{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.ExecuteFrame("f", SceneTime{}); err != nil {
		t.Fatalf("ExecuteFrame: %v", err)
	}
	if d.Diagnostics().FrameCount() != 1 {
		t.Fatal("expected frame count 1 before reset")
	}
	d.Diagnostics().ResetCounters()
	if d.Diagnostics().FrameCount() != 0 {
		t.Fatal("expected frame count 0 after reset")
	}
	if d.Diagnostics().GetLastError() != pngerr.OK {
		t.Fatal("expected OK after reset")
	}
}

func TestDestroyTeardownIsReverseOrder(t *testing.T) {
	fb := &frameBuilder{}
	descID := fb.addData(pipelineDescriptor())
	fb.create(opcode.OpCreateRenderPipeline, descID)
	bufDescID := fb.addData(bufferDescriptor(4))
	fb.create(opcode.OpCreateBuffer, bufDescID)
	m := fb.build("f", []byte{byte(opcode.OpEndPass)})

	backend := &fakeBackend{}
	d, err := New(m, backend, SurfaceExtent{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d.Destroy()
	if len(backend.destroyed) != 2 {
		t.Fatalf("destroyed %d resources, want 2", len(backend.destroyed))
	}
	// Classes are torn down in reverse declaration order, so the render
	// pipeline goes before the buffer.
	if backend.destroyed[0] != ClassRenderPipeline || backend.destroyed[1] != ClassBuffer {
		t.Fatalf("destroy order = %v, want [render pipeline, buffer]", backend.destroyed)
	}
}
