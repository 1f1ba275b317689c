// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package pngine

import (
	"github.com/pkg/errors"

	"github.com/gviegas/pngine/dispatch"
	"github.com/gviegas/pngine/pngb"
	"github.com/gviegas/pngine/pngerr"
)

// CacheReleaser is implemented by a Backend that holds optional,
// rebuildable caches. MemoryWarning calls ReleaseCaches on every live
// Animation's backend that implements it.
type CacheReleaser interface {
	ReleaseCaches()
}

// Runtime owns the pluggable GPU backend factory and the set of
// Animations built from it. Unlike the package-level driver registry
// pattern it replaces, a Runtime is an explicit value the caller
// constructs and owns; nothing about backend selection is global.
type Runtime struct {
	factory     dispatch.BackendFactory
	initialized bool
	animations  []*Animation
}

// NewRuntime returns a Runtime that builds one Backend per Animation
// via factory.
func NewRuntime(factory dispatch.BackendFactory) *Runtime {
	return &Runtime{factory: factory}
}

// Init prepares the Runtime for use. It is idempotent: a second call
// is a no-op success, never AlreadyInitialized.
func (r *Runtime) Init() error {
	if r.initialized {
		return nil
	}
	if r.factory == nil {
		return pngerr.New(pngerr.NotInitialized, errors.New("pngine: runtime has no backend factory"))
	}
	r.initialized = true
	return nil
}

// CreateAnimation deserializes bytecode as a PNGB module, builds a
// fresh Backend from the Runtime's factory, and returns a ready
// Animation sized to width x height. It calls Init if that has not
// already happened.
func (r *Runtime) CreateAnimation(bytecode []byte, width, height uint32) (*Animation, error) {
	if err := r.Init(); err != nil {
		return nil, err
	}
	module, err := pngb.Deserialize(bytecode)
	if err != nil {
		return nil, err
	}
	backend, err := r.factory()
	if err != nil {
		return nil, pngerr.New(pngerr.SurfaceFailed, err)
	}
	surface := dispatch.SurfaceExtent{Width: width, Height: height}
	d, err := dispatch.New(module, backend, surface)
	if err != nil {
		return nil, err
	}
	anim := &Animation{backend: backend, dispatcher: d, width: width, height: height}
	r.animations = append(r.animations, anim)
	return anim, nil
}

// MemoryWarning asks every live Animation's backend to release
// optional caches. Backends that do not implement CacheReleaser are
// skipped.
func (r *Runtime) MemoryWarning() {
	for _, a := range r.animations {
		if a == nil || a.destroyed {
			continue
		}
		if cr, ok := a.backend.(CacheReleaser); ok {
			cr.ReleaseCaches()
		}
	}
}
