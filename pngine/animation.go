// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package pngine

import (
	"github.com/pkg/errors"

	"github.com/gviegas/pngine/dispatch"
	"github.com/gviegas/pngine/pngerr"
)

// Animation drives one loaded PNGB module against the Backend the
// owning Runtime built for it. Every method is a safe no-op (or
// returns a documented zero/nonzero value) when called on a nil
// *Animation, so host bindings do not need a separate liveness check
// before calling in.
type Animation struct {
	backend    dispatch.Backend
	dispatcher *dispatch.Dispatcher

	width, height uint32
	targetRate    float64
	destroyed     bool
}

// Render executes the module's default frame (the sole frame it
// declares) at the given elapsed time in seconds, and returns the
// resulting diagnostics code: pngerr.OK on success, or the failing
// Code otherwise (pngerr.RenderFailed when the failure carries no
// Code). Calling Render on a nil or destroyed Animation
// returns pngerr.NotInitialized.
func (a *Animation) Render(timeSeconds float64) pngerr.Code {
	if a == nil || a.destroyed {
		return pngerr.NotInitialized
	}
	name, ok := a.dispatcher.DefaultFrame()
	if !ok {
		return pngerr.InvalidArgument
	}
	t := dispatch.SceneTime{ElapsedSeconds: float32(timeSeconds), FrameCount: a.dispatcher.Diagnostics().FrameCount()}
	if err := a.dispatcher.ExecuteFrame(name, t); err != nil {
		if code := pngerr.CodeOf(err); code != pngerr.OK {
			return code
		}
		return pngerr.RenderFailed
	}
	return pngerr.OK
}

// RenderFrame executes the named frame at the given elapsed time in
// seconds, for modules that declare more than one frame.
func (a *Animation) RenderFrame(name string, timeSeconds float64) pngerr.Code {
	if a == nil || a.destroyed {
		return pngerr.NotInitialized
	}
	t := dispatch.SceneTime{ElapsedSeconds: float32(timeSeconds), FrameCount: a.dispatcher.Diagnostics().FrameCount()}
	if err := a.dispatcher.ExecuteFrame(name, t); err != nil {
		if code := pngerr.CodeOf(err); code != pngerr.OK {
			return code
		}
		return pngerr.RenderFailed
	}
	return pngerr.OK
}

// Resize updates the surface extent substituted into canvas-sized
// textures created after the call. It is a no-op on a nil or
// destroyed Animation.
func (a *Animation) Resize(width, height uint32) {
	if a == nil || a.destroyed {
		return
	}
	a.width, a.height = width, height
	a.dispatcher.SetSurfaceExtent(dispatch.SurfaceExtent{Width: width, Height: height})
}

// GetWidth returns the animation's current surface width, or 0 on a
// nil or destroyed Animation.
func (a *Animation) GetWidth() uint32 {
	if a == nil || a.destroyed {
		return 0
	}
	return a.width
}

// GetHeight returns the animation's current surface height, or 0 on a
// nil or destroyed Animation.
func (a *Animation) GetHeight() uint32 {
	if a == nil || a.destroyed {
		return 0
	}
	return a.height
}

// SetTargetFrameRate records the host's preferred frame rate in Hz. A
// negative rate is clamped to 0, meaning "render as fast as
// possible"; it is never treated as an error.
func (a *Animation) SetTargetFrameRate(rate float64) {
	if a == nil || a.destroyed {
		return
	}
	if rate < 0 {
		rate = 0
	}
	a.targetRate = rate
}

// TargetFrameRate returns the most recently set target frame rate, or
// 0 on a nil or destroyed Animation.
func (a *Animation) TargetFrameRate() float64 {
	if a == nil || a.destroyed {
		return 0
	}
	return a.targetRate
}

// SetUniform writes data into the named uniform field's backing
// buffer. See dispatch.Dispatcher.SetUniform for the matching rules.
func (a *Animation) SetUniform(name string, data []byte) error {
	if a == nil || a.destroyed {
		return pngerr.New(pngerr.NotInitialized, errors.New("pngine: animation is destroyed"))
	}
	return a.dispatcher.SetUniform(name, data)
}

// GetLastError returns the code of the most recent failure reported
// by Render, RenderFrame or SetUniform, or pngerr.OK if none has
// occurred since construction or ResetDiagnostics.
func (a *Animation) GetLastError() pngerr.Code {
	if a == nil || a.destroyed {
		return pngerr.OK
	}
	return a.dispatcher.Diagnostics().GetLastError()
}

// RenderCounters reports the dispatcher's packed render-pass counters.
// See dispatch.Diagnostics.RenderCounters.
func (a *Animation) RenderCounters() uint32 {
	if a == nil || a.destroyed {
		return 0
	}
	return a.dispatcher.Diagnostics().RenderCounters()
}

// ComputeCounters reports the dispatcher's packed compute-pass
// counters. See dispatch.Diagnostics.ComputeCounters.
func (a *Animation) ComputeCounters() uint32 {
	if a == nil || a.destroyed {
		return 0
	}
	return a.dispatcher.Diagnostics().ComputeCounters()
}

// DrawInfo reports the dispatcher's packed vertex/instance count from
// the most recent draw call.
func (a *Animation) DrawInfo() uint32 {
	if a == nil || a.destroyed {
		return 0
	}
	return a.dispatcher.Diagnostics().DrawInfo()
}

// FrameCount reports the number of frames rendered since construction
// or the last ResetDiagnostics call.
func (a *Animation) FrameCount() uint32 {
	if a == nil || a.destroyed {
		return 0
	}
	return a.dispatcher.Diagnostics().FrameCount()
}

// ResetDiagnostics zeroes the animation's counters and clears its last
// error.
func (a *Animation) ResetDiagnostics() {
	if a == nil || a.destroyed {
		return
	}
	a.dispatcher.Diagnostics().ResetCounters()
}

// Destroy releases every resource the animation's dispatcher created
// and marks the Animation unusable. It is a no-op if a is nil or
// already destroyed.
func (a *Animation) Destroy() {
	if a == nil || a.destroyed {
		return
	}
	a.dispatcher.Destroy()
	a.destroyed = true
}
