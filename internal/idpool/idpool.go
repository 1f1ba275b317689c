// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package idpool implements the dense, generation-free resource-handle
// bookkeeping the dispatcher needs for each of its thirteen backend
// resource classes. Resource creation is append-only within one
// dispatcher execution — ids are assigned in order of appearance and
// never reused until a fresh Dispatcher is built — so Pool is a plain
// growable vector of handles rather than a bit-granular free-list
// allocator.
package idpool

// Pool is a dense, append-only vector of backend handles of type H,
// addressed by position (the dispatcher's dense resource ID). A pooled
// resource (declared with pool=N) occupies N contiguous slots; its base
// ID is the slot of the first handle.
type Pool[H any] struct {
	handles []H
}

// Append adds a single handle and returns its dense ID.
func (p *Pool[H]) Append(h H) (id int) {
	id = len(p.handles)
	p.handles = append(p.handles, h)
	return
}

// AppendPool adds n contiguous handles (a pooled resource declaration)
// and returns the base ID of the first one.
func (p *Pool[H]) AppendPool(hs []H) (base int) {
	base = len(p.handles)
	p.handles = append(p.handles, hs...)
	return
}

// Len returns the number of handles currently held.
func (p *Pool[H]) Len() int { return len(p.handles) }

// At returns the handle at the given dense ID.
func (p *Pool[H]) At(id int) (H, bool) {
	if id < 0 || id >= len(p.handles) {
		var zero H
		return zero, false
	}
	return p.handles[id], true
}

// AtOffset resolves a pooled resource's (base, offset) pair to a handle,
// as used by the pool-aware binder opcodes (set_vertex_buffer_pool,
// set_bind_group_pool).
func (p *Pool[H]) AtOffset(base, offset int) (H, bool) {
	return p.At(base + offset)
}

// All returns every handle in creation order.
func (p *Pool[H]) All() []H { return p.handles }

// ReleaseReverse calls destroy on every handle, starting from the most
// recently created and ending at the first, matching the dispatcher's
// required reverse-creation-order teardown per resource class. After it
// returns, the pool is empty.
func (p *Pool[H]) ReleaseReverse(destroy func(H)) {
	for i := len(p.handles) - 1; i >= 0; i-- {
		destroy(p.handles[i])
	}
	p.handles = p.handles[:0]
}
