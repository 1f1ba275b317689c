// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package opcode

import "testing"

func TestTableCoversEveryOp(t *testing.T) {
	ops := []Op{
		OpCreateBuffer, OpCreateTexture, OpCreateTextureView, OpCreateSampler,
		OpCreateShaderModule, OpCreateBindGroupLayout, OpCreatePipelineLayout,
		OpCreateBindGroup, OpCreateRenderPipeline, OpCreateComputePipeline,
		OpCreateQuerySet, OpCreateRenderBundle, OpCreateImageBitmap,
		OpWriteBuffer, OpWriteTimeUniform, OpCopyExternalImageToTexture,
		OpBeginRenderPass, OpSetPipeline, OpSetBindGroup, OpSetBindGroupPool,
		OpSetVertexBuffer, OpSetVertexBufferPool, OpSetIndexBuffer, OpDraw,
		OpDrawIndexed, OpExecuteBundles, OpEndPass,
		OpBeginComputePass, OpDispatch,
		OpDefineFrame, OpEndFrame, OpSubmit,
	}
	seen := make(map[Op]bool)
	for _, op := range ops {
		if seen[op] {
			t.Fatalf("duplicate opcode id %d for distinct constants", op)
		}
		seen[op] = true
		info, ok := Table[op]
		if !ok {
			t.Fatalf("opcode %d missing from Table", op)
		}
		if info.Op != op {
			t.Fatalf("Table[%d].Op = %d, want %d", op, info.Op, op)
		}
		if info.Name == "" {
			t.Fatalf("opcode %d has empty Name", op)
		}
	}
	if len(Table) != len(ops) {
		t.Fatalf("Table has %d entries, want %d", len(Table), len(ops))
	}
}

func TestEndPassIsSharedTerminator(t *testing.T) {
	if Table[OpEndPass].Pass != PassAny {
		t.Fatalf("end_pass Pass = %v, want PassAny", Table[OpEndPass].Pass)
	}
}

func TestDrawInstanceCountIsOptional(t *testing.T) {
	ops := Table[OpDraw].Operands
	if len(ops) != 2 || ops[1] != OperandOptionalVarint {
		t.Fatalf("draw operands = %v, want [vertex_count, optional instance_count]", ops)
	}
}
