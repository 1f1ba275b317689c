// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package dispatch

import (
	"github.com/pkg/errors"

	"github.com/gviegas/pngine/pngb"
	"github.com/gviegas/pngine/pngb/opcode"
	"github.com/gviegas/pngine/pngerr"
)

func (d *Dispatcher) dataBlob(id uint64) ([]byte, error) {
	b, ok := d.module.DataBlob(uint16(id))
	if !ok {
		return nil, pngerr.New(pngerr.ResourceNotFound, errors.Errorf("dispatch: no data blob with id %d", id))
	}
	return b, nil
}

func (d *Dispatcher) descriptorAt(id uint64) (pngb.Descriptor, error) {
	b, err := d.dataBlob(id)
	if err != nil {
		return pngb.Descriptor{}, err
	}
	return pngb.DecodeDescriptor(b)
}

func (d *Dispatcher) handle(class ResourceClass, id uint64) (Handle, error) {
	h, ok := d.tables.get(class, int(id))
	if !ok {
		return 0, pngerr.New(pngerr.ResourceNotFound, errors.Errorf("dispatch: no resource of class %d with id %d", class, id))
	}
	return h, nil
}

// exec executes a single non-frame-control opcode. Pass-state
// legality has already been checked by run.
func (d *Dispatcher) exec(op opcode.Op, cr *cursor) error {
	switch op {
	case opcode.OpCreateBuffer:
		return d.createFromDescriptor(cr, ClassBuffer, func(desc pngb.Descriptor) (Handle, error) {
			return d.backend.CreateBuffer(desc)
		}, func(id int, desc pngb.Descriptor) {
			if id == 0 {
				if f, ok := desc.Field(pngb.KeyBufferSize); ok {
					if sz, err := f.Uint(); err == nil {
						d.diag.buffer0Size = int64(sz)
					}
				}
			}
		})

	case opcode.OpCreateTexture:
		return d.createFromDescriptor(cr, ClassTexture, func(desc pngb.Descriptor) (Handle, error) {
			return d.backend.CreateTexture(desc, d.surface)
		}, nil)

	case opcode.OpCreateTextureView:
		texID, err := cr.readVarint()
		if err != nil {
			return err
		}
		descID, err := cr.readVarint()
		if err != nil {
			return err
		}
		tex, err := d.handle(ClassTexture, texID)
		if err != nil {
			return err
		}
		desc, err := d.descriptorAt(descID)
		if err != nil {
			return err
		}
		h, err := d.backend.CreateTextureView(tex, desc)
		if err != nil {
			return pngerr.New(pngerr.PipelineCreate, err)
		}
		d.tables.create(ClassTextureView, h)
		return nil

	case opcode.OpCreateSampler:
		return d.createFromDescriptor(cr, ClassSampler, d.backend.CreateSampler, nil)

	case opcode.OpCreateShaderModule:
		return d.createFromBlob(cr, ClassShaderModule, func(data []byte) (Handle, error) {
			h, err := d.backend.CreateShaderModule(data)
			if err != nil {
				return 0, pngerr.New(pngerr.ShaderCompile, err)
			}
			return h, nil
		})

	case opcode.OpCreateBindGroupLayout:
		return d.createFromDescriptor(cr, ClassBindGroupLayout, d.backend.CreateBindGroupLayout, nil)

	case opcode.OpCreatePipelineLayout:
		return d.createFromDescriptor(cr, ClassPipelineLayout, d.backend.CreatePipelineLayout, nil)

	case opcode.OpCreateBindGroup:
		return d.createFromDescriptor(cr, ClassBindGroup, d.backend.CreateBindGroup, nil)

	case opcode.OpCreateRenderPipeline:
		return d.createFromDescriptor(cr, ClassRenderPipeline, func(desc pngb.Descriptor) (Handle, error) {
			h, err := d.backend.CreateRenderPipeline(desc)
			if err != nil {
				return 0, pngerr.New(pngerr.PipelineCreate, err)
			}
			return h, nil
		}, nil)

	case opcode.OpCreateComputePipeline:
		return d.createFromDescriptor(cr, ClassComputePipeline, func(desc pngb.Descriptor) (Handle, error) {
			h, err := d.backend.CreateComputePipeline(desc)
			if err != nil {
				return 0, pngerr.New(pngerr.PipelineCreate, err)
			}
			return h, nil
		}, nil)

	case opcode.OpCreateQuerySet:
		return d.createFromDescriptor(cr, ClassQuerySet, d.backend.CreateQuerySet, nil)

	case opcode.OpCreateRenderBundle:
		return d.createFromDescriptor(cr, ClassRenderBundle, d.backend.CreateRenderBundle, nil)

	case opcode.OpCreateImageBitmap:
		return d.createFromBlob(cr, ClassImageBitmap, d.backend.CreateImageBitmap)

	case opcode.OpWriteBuffer:
		bufID, err := cr.readVarint()
		if err != nil {
			return err
		}
		offset, err := cr.readVarintU32()
		if err != nil {
			return err
		}
		dataID, err := cr.readVarint()
		if err != nil {
			return err
		}
		h, err := d.handle(ClassBuffer, bufID)
		if err != nil {
			return err
		}
		data, err := d.dataBlob(dataID)
		if err != nil {
			return err
		}
		return d.backend.WriteBuffer(h, offset, data)

	case opcode.OpWriteTimeUniform:
		bufID, err := cr.readVarint()
		if err != nil {
			return err
		}
		offset, err := cr.readVarintU32()
		if err != nil {
			return err
		}
		size, err := cr.readVarintU32()
		if err != nil {
			return err
		}
		h, err := d.handle(ClassBuffer, bufID)
		if err != nil {
			return err
		}
		return d.backend.WriteTimeUniform(h, offset, size, d.sceneTime)

	case opcode.OpCopyExternalImageToTexture:
		srcID, err := cr.readVarint()
		if err != nil {
			return err
		}
		dstID, err := cr.readVarint()
		if err != nil {
			return err
		}
		src, err := d.handle(ClassImageBitmap, srcID)
		if err != nil {
			return err
		}
		dst, err := d.handle(ClassTexture, dstID)
		if err != nil {
			return err
		}
		return d.backend.CopyExternalImageToTexture(src, dst)

	case opcode.OpBeginRenderPass:
		d.pass = passRender
		d.diag.renderPasses++
		d.diag.firstVertexBufferID, d.diag.lastVertexBufferID = -1, -1
		d.boundIndexBuf = -1
		d.boundPipeline = -1
		if err := d.backend.BeginRenderPass(); err != nil {
			return pngerr.New(pngerr.RenderFailed, err)
		}
		return nil

	case opcode.OpBeginComputePass:
		d.pass = passCompute
		d.diag.computePasses++
		d.boundPipeline = -1
		if err := d.backend.BeginComputePass(); err != nil {
			return pngerr.New(pngerr.ComputeFailed, err)
		}
		return nil

	case opcode.OpSetPipeline:
		id, err := cr.readVarint()
		if err != nil {
			return err
		}
		class := ClassRenderPipeline
		if d.pass == passCompute {
			class = ClassComputePipeline
			d.diag.computePipes++
		}
		h, err := d.handle(class, id)
		if err != nil {
			return err
		}
		d.boundPipeline = int(id)
		return d.backend.SetPipeline(h)

	case opcode.OpSetBindGroup:
		slot, err := cr.readVarint()
		if err != nil {
			return err
		}
		id, err := cr.readVarint()
		if err != nil {
			return err
		}
		h, err := d.handle(ClassBindGroup, id)
		if err != nil {
			return err
		}
		d.diag.recordBindGroup(int(id))
		if d.pass == passCompute {
			d.diag.computeGroups++
		}
		return d.backend.SetBindGroup(int(slot), h)

	case opcode.OpSetBindGroupPool:
		slot, err := cr.readVarint()
		if err != nil {
			return err
		}
		base, err := cr.readVarint()
		if err != nil {
			return err
		}
		offset, err := cr.readVarint()
		if err != nil {
			return err
		}
		h, ok := d.tables.getPooled(ClassBindGroup, int(base), int(offset))
		if !ok {
			return pngerr.New(pngerr.ResourceNotFound, errors.Errorf("dispatch: no pooled bind group at base %d offset %d", base, offset))
		}
		d.diag.recordBindGroup(int(base) + int(offset))
		if d.pass == passCompute {
			d.diag.computeGroups++
		}
		return d.backend.SetBindGroup(int(slot), h)

	case opcode.OpSetVertexBuffer:
		slot, err := cr.readVarint()
		if err != nil {
			return err
		}
		id, err := cr.readVarint()
		if err != nil {
			return err
		}
		h, err := d.handle(ClassBuffer, id)
		if err != nil {
			return err
		}
		d.diag.recordVertexBuffer(int(id))
		return d.backend.SetVertexBuffer(int(slot), h, 0)

	case opcode.OpSetVertexBufferPool:
		slot, err := cr.readVarint()
		if err != nil {
			return err
		}
		base, err := cr.readVarint()
		if err != nil {
			return err
		}
		offset, err := cr.readVarint()
		if err != nil {
			return err
		}
		h, ok := d.tables.getPooled(ClassBuffer, int(base), int(offset))
		if !ok {
			return pngerr.New(pngerr.ResourceNotFound, errors.Errorf("dispatch: no pooled vertex buffer at base %d offset %d", base, offset))
		}
		d.diag.recordVertexBuffer(int(base) + int(offset))
		return d.backend.SetVertexBuffer(int(slot), h, 0)

	case opcode.OpSetIndexBuffer:
		id, err := cr.readVarint()
		if err != nil {
			return err
		}
		offset, err := cr.readVarintU32()
		if err != nil {
			return err
		}
		h, err := d.handle(ClassBuffer, id)
		if err != nil {
			return err
		}
		d.boundIndexBuf = int(id)
		return d.backend.SetIndexBuffer(h, offset)

	case opcode.OpDraw:
		if d.boundPipeline < 0 {
			return pngerr.New(pngerr.InvalidState, errors.New("dispatch: draw with no pipeline bound"))
		}
		vc, err := cr.readVarint()
		if err != nil {
			return err
		}
		ic, _, err := cr.readOptionalVarint()
		if err != nil {
			return err
		}
		if ic == 0 {
			ic = 1
		}
		d.diag.renderDraws++
		d.diag.lastDrawVertexCount = uint32(vc)
		d.diag.lastDrawInstanceCount = uint32(ic)
		if err := d.backend.Draw(int(vc), int(ic)); err != nil {
			return pngerr.New(pngerr.RenderFailed, err)
		}
		return nil

	case opcode.OpDrawIndexed:
		if d.boundPipeline < 0 {
			return pngerr.New(pngerr.InvalidState, errors.New("dispatch: draw_indexed with no pipeline bound"))
		}
		if d.boundIndexBuf < 0 {
			return pngerr.New(pngerr.InvalidState, errors.New("dispatch: draw_indexed with no index buffer bound"))
		}
		idxc, err := cr.readVarint()
		if err != nil {
			return err
		}
		ic, _, err := cr.readOptionalVarint()
		if err != nil {
			return err
		}
		if ic == 0 {
			ic = 1
		}
		d.diag.renderDraws++
		d.diag.lastDrawVertexCount = uint32(idxc)
		d.diag.lastDrawInstanceCount = uint32(ic)
		if err := d.backend.DrawIndexed(int(idxc), int(ic)); err != nil {
			return pngerr.New(pngerr.RenderFailed, err)
		}
		return nil

	case opcode.OpExecuteBundles:
		id, err := cr.readVarint()
		if err != nil {
			return err
		}
		h, err := d.handle(ClassRenderBundle, id)
		if err != nil {
			return err
		}
		return d.backend.ExecuteBundles([]Handle{h})

	case opcode.OpEndPass:
		d.pass = passIdle
		return d.backend.EndPass()

	case opcode.OpDispatch:
		x, err := cr.readVarintU32()
		if err != nil {
			return err
		}
		y, err := cr.readVarintU32()
		if err != nil {
			return err
		}
		z, err := cr.readVarintU32()
		if err != nil {
			return err
		}
		d.diag.computeDisps++
		d.diag.lastDispatchX, d.diag.lastDispatchY, d.diag.lastDispatchZ = x, y, z
		if err := d.backend.Dispatch(int(x), int(y), int(z)); err != nil {
			return pngerr.New(pngerr.ComputeFailed, err)
		}
		return nil

	case opcode.OpSubmit:
		return d.backend.Submit()

	default:
		return pngerr.New(pngerr.InvalidPngbFormat, errors.Errorf("dispatch: opcode %d has no executor", op))
	}
}

func (d *Dispatcher) createFromDescriptor(
	cr *cursor,
	class ResourceClass,
	create func(pngb.Descriptor) (Handle, error),
	after func(id int, desc pngb.Descriptor),
) error {
	descID, err := cr.readVarint()
	if err != nil {
		return err
	}
	desc, err := d.descriptorAt(descID)
	if err != nil {
		return err
	}

	n := 1
	if f, ok := desc.Field(pngb.KeyPool); ok {
		v, err := f.Uint()
		if err != nil {
			return err
		}
		if v > 1 {
			n = int(v)
		}
	}

	var id int
	if n == 1 {
		h, err := create(desc)
		if err != nil {
			return pngerr.New(pngerr.PipelineCreate, err)
		}
		id = d.tables.create(class, h)
	} else {
		hs := make([]Handle, n)
		for i := 0; i < n; i++ {
			h, err := create(desc)
			if err != nil {
				return pngerr.New(pngerr.PipelineCreate, err)
			}
			hs[i] = h
		}
		id = d.tables.createPool(class, hs)
	}

	if after != nil {
		after(id, desc)
	}
	return nil
}

func (d *Dispatcher) createFromBlob(cr *cursor, class ResourceClass, create func([]byte) (Handle, error)) error {
	dataID, err := cr.readVarint()
	if err != nil {
		return err
	}
	data, err := d.dataBlob(dataID)
	if err != nil {
		return err
	}
	h, err := create(data)
	if err != nil {
		return err
	}
	d.tables.create(class, h)
	return nil
}
