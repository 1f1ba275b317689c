// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package dispatch

import "github.com/gviegas/pngine/pngerr"

// Diagnostics holds the dispatcher's packed counters and probes, read
// through small getters so a host can sample them without reflection.
// Counters persist across frames until ResetCounters is called; they
// never roll over to negative values (draw/dispatch counts past 2^16
// or 2^8 saturate instead of wrapping).
type Diagnostics struct {
	renderPasses  uint32
	renderDraws   uint32
	computePasses uint32
	computePipes  uint32
	computeGroups uint32
	computeDisps  uint32

	lastDrawVertexCount   uint32
	lastDrawInstanceCount uint32

	firstVertexBufferID int32
	lastVertexBufferID  int32
	firstBindGroupID    int32
	lastBindGroupID     int32

	buffer0Size int64

	lastDispatchX, lastDispatchY, lastDispatchZ uint32

	frameCount uint32
	lastError  pngerr.Code
}

func saturate16(v uint32) uint32 {
	if v > 0xFFFF {
		return 0xFFFF
	}
	return v
}

func saturate8(v uint32) uint32 {
	if v > 0xFF {
		return 0xFF
	}
	return v
}

// RenderCounters packs [passes:16][draws:16] into a single uint32.
func (d *Diagnostics) RenderCounters() uint32 {
	return saturate16(d.renderPasses)<<16 | saturate16(d.renderDraws)
}

// ComputeCounters packs [passes:8][pipelines:8][bind_groups:8][dispatches:8].
func (d *Diagnostics) ComputeCounters() uint32 {
	return saturate8(d.computePasses)<<24 |
		saturate8(d.computePipes)<<16 |
		saturate8(d.computeGroups)<<8 |
		saturate8(d.computeDisps)
}

// DrawInfo packs [vertex_count:16][instance_count:16] from the most
// recent draw or draw_indexed call.
func (d *Diagnostics) DrawInfo() uint32 {
	return saturate16(d.lastDrawVertexCount)<<16 | saturate16(d.lastDrawInstanceCount)
}

// BufferProbes reports the first/last vertex-buffer dense ID bound
// during the most recent render pass, the first/last bind-group dense
// ID bound across the whole execution, and the byte size declared by
// buffer id 0's descriptor. Each probe is -1 while nothing has been
// recorded for it since construction or the last ResetCounters.
func (d *Diagnostics) BufferProbes() (firstVB, lastVB, firstBG, lastBG int32, buffer0Size int64) {
	return d.firstVertexBufferID, d.lastVertexBufferID, d.firstBindGroupID, d.lastBindGroupID, d.buffer0Size
}

// LastDispatch reports the workgroup counts passed to the most recent
// dispatch call.
func (d *Diagnostics) LastDispatch() (x, y, z uint32) {
	return d.lastDispatchX, d.lastDispatchY, d.lastDispatchZ
}

// FrameCount reports the number of frames executed since construction
// or the last ResetCounters call.
func (d *Diagnostics) FrameCount() uint32 { return d.frameCount }

// GetLastError returns the code of the most recent failure, or
// pngerr.OK if none has occurred since construction or ResetCounters.
func (d *Diagnostics) GetLastError() pngerr.Code { return d.lastError }

// ResetCounters zeroes every counter, sets every probe to -1 (nothing
// recorded; probes are not zeroed), and clears the last error. It does
// not affect resource tables or pass state.
func (d *Diagnostics) ResetCounters() {
	*d = Diagnostics{
		firstVertexBufferID: -1,
		lastVertexBufferID:  -1,
		firstBindGroupID:    -1,
		lastBindGroupID:     -1,
		buffer0Size:         -1,
	}
}

func (d *Diagnostics) recordVertexBuffer(id int) {
	if d.firstVertexBufferID < 0 {
		d.firstVertexBufferID = int32(id)
	}
	d.lastVertexBufferID = int32(id)
}

func (d *Diagnostics) recordBindGroup(id int) {
	if d.firstBindGroupID < 0 {
		d.firstBindGroupID = int32(id)
	}
	d.lastBindGroupID = int32(id)
}
