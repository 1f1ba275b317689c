// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package dispatch

import (
	"github.com/pkg/errors"

	"github.com/gviegas/pngine/pngb"
	"github.com/gviegas/pngine/pngb/opcode"
	"github.com/gviegas/pngine/pngerr"
)

type frameRange struct {
	start, length int
}

// Dispatcher executes one loaded Module's opcode stream against one
// Backend. It owns every resource the module creates and is the sole
// place pass-state discipline and diagnostics counters are enforced.
//
// A Dispatcher is built once per Module/Backend pair; all of the
// module's creation opcodes (everything outside a named frame body)
// run exactly once, during construction.
type Dispatcher struct {
	module  *pngb.Module
	backend Backend
	tables  resourceTables
	diag    Diagnostics

	pass          passState
	boundPipeline int
	boundIndexBuf int

	frames map[string]frameRange

	surface   SurfaceExtent
	sceneTime SceneTime
}

// New loads module against backend: it replays every creation, write
// and frame-control opcode found outside a named frame body (the
// module's "idle program"), builds the named-frame index, and returns
// a ready-to-drive Dispatcher. Named frame bodies are not executed
// here; they run only from ExecuteFrame.
func New(module *pngb.Module, backend Backend, surface SurfaceExtent) (*Dispatcher, error) {
	d := &Dispatcher{
		module:        module,
		backend:       backend,
		boundIndexBuf: -1,
		boundPipeline: -1,
		frames:        make(map[string]frameRange),
		surface:       surface,
	}
	d.diag.ResetCounters()

	cr := &cursor{data: module.Bytecode}
	if err := d.run(cr); err != nil {
		d.setErr(err)
		return nil, err
	}
	return d, nil
}

// ExecuteFrame replays the named frame's opcode body: a contiguous
// range of the module's opcode stream bracketed by that frame's
// define_frame declaration. Resources referenced by the body must
// already exist (created during New). Returns InvalidArgument if no
// frame with that name was declared.
func (d *Dispatcher) ExecuteFrame(name string, t SceneTime) error {
	d.sceneTime = t
	fr, ok := d.frames[name]
	if !ok {
		err := pngerr.New(pngerr.InvalidArgument, errors.Errorf("dispatch: no frame named %q", name))
		d.setErr(err)
		return err
	}
	if fr.start < 0 || fr.length < 0 || fr.start+fr.length > len(d.module.Bytecode) {
		err := pngerr.New(pngerr.InvalidPngbFormat, errors.Errorf("dispatch: frame %q out of bounds", name))
		d.setErr(err)
		return err
	}
	d.pass = passIdle
	cr := &cursor{data: d.module.Bytecode[fr.start : fr.start+fr.length]}
	if err := d.run(cr); err != nil {
		d.setErr(err)
		return err
	}
	d.diag.frameCount++
	return nil
}

// Diagnostics returns the dispatcher's diagnostics.
func (d *Dispatcher) Diagnostics() *Diagnostics { return &d.diag }

// Destroy releases every resource the dispatcher created: in reverse
// creation order within each resource class, classes in reverse
// declaration order (see resourceTables.teardown).
func (d *Dispatcher) Destroy() {
	d.tables.teardown(d.backend)
}

func (d *Dispatcher) setErr(err error) {
	if code := pngerr.CodeOf(err); code != pngerr.OK {
		d.diag.lastError = code
	}
}

// run interprets opcodes from cr until the stream is exhausted or an
// end_frame marker is reached.
func (d *Dispatcher) run(cr *cursor) error {
	for !cr.done() {
		opByte, err := cr.readByte()
		if err != nil {
			return err
		}
		op := opcode.Op(opByte)
		info, ok := opcode.Table[op]
		if !ok {
			return pngerr.New(pngerr.InvalidPngbFormat, errors.Errorf("dispatch: unknown opcode %d", op))
		}

		if op == opcode.OpDefineFrame {
			if err := d.handleDefineFrame(cr); err != nil {
				return err
			}
			continue
		}
		if op == opcode.OpEndFrame {
			return nil
		}

		if !d.pass.allows(info.Pass) {
			return pngerr.New(pngerr.InvalidState, errors.Errorf(
				"dispatch: opcode %s not legal in current pass state", info.Name))
		}

		if err := d.exec(op, cr); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) handleDefineFrame(cr *cursor) error {
	nameID, err := cr.readVarintU32()
	if err != nil {
		return err
	}
	start, err := cr.readVarintU32()
	if err != nil {
		return err
	}
	length, err := cr.readVarintU32()
	if err != nil {
		return err
	}
	name, ok := d.module.String(uint16(nameID))
	if !ok {
		return pngerr.New(pngerr.InvalidPngbFormat, errors.Errorf("dispatch: define_frame references out-of-range string id %d", nameID))
	}
	d.frames[string(name)] = frameRange{start: int(start), length: int(length)}

	// Skip the frame body: it is replayed only from ExecuteFrame.
	bodyEnd := cr.pos + int(length)
	if bodyEnd > len(cr.data) {
		return pngerr.New(pngerr.InvalidPngbFormat, errors.New("dispatch: define_frame body runs past end of bytecode"))
	}
	cr.pos = bodyEnd
	endOp, err := cr.readByte()
	if err != nil {
		return err
	}
	if opcode.Op(endOp) != opcode.OpEndFrame {
		return pngerr.New(pngerr.InvalidPngbFormat, errors.New("dispatch: define_frame body not terminated by end_frame"))
	}
	return nil
}
