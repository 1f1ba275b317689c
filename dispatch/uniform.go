// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package dispatch

import (
	"github.com/pkg/errors"

	"github.com/gviegas/pngine/pngerr"
)

// SetUniform looks up name in the module's uniform table and writes
// data into the backend buffer the binding resolves to, provided data's
// length matches the field's declared size. A uniform binding's
// Binding value is taken as the dense buffer resource ID backing it.
func (d *Dispatcher) SetUniform(name string, data []byte) error {
	for _, ub := range d.module.Uniforms {
		for _, f := range ub.Fields {
			n, ok := d.module.String(f.NameID)
			if !ok || string(n) != name {
				continue
			}
			if uint32(len(data)) != f.Size {
				err := pngerr.New(pngerr.InvalidArgument, errors.Errorf(
					"dispatch: set_uniform %q: got %d bytes, field size is %d", name, len(data), f.Size))
				d.setErr(err)
				return err
			}
			h, err := d.handle(ClassBuffer, uint64(ub.Binding))
			if err != nil {
				d.setErr(err)
				return err
			}
			return d.backend.WriteBuffer(h, f.Offset, data)
		}
	}
	err := pngerr.New(pngerr.ResourceNotFound, errors.Errorf("dispatch: no uniform field named %q", name))
	d.setErr(err)
	return err
}

// DefaultFrame returns the sole declared frame name, if the module
// declares exactly one.
func (d *Dispatcher) DefaultFrame() (string, bool) {
	if len(d.frames) != 1 {
		return "", false
	}
	for name := range d.frames {
		return name, true
	}
	return "", false
}

// SetSurfaceExtent updates the extent substituted into subsequently
// created canvas-sized textures. It does not affect textures already
// created.
func (d *Dispatcher) SetSurfaceExtent(s SurfaceExtent) { d.surface = s }
