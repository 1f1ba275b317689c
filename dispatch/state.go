// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package dispatch

import "github.com/gviegas/pngine/pngb/opcode"

// passState is the dispatcher's current pass context.
type passState int

const (
	passIdle passState = iota
	passRender
	passCompute
)

// allows reports whether an opcode with the given required Pass
// context may execute while the dispatcher is in state s.
func (s passState) allows(req opcode.Pass) bool {
	switch req {
	case opcode.PassIdle:
		return s == passIdle
	case opcode.PassRender:
		return s == passRender
	case opcode.PassCompute:
		return s == passCompute
	case opcode.PassAny:
		return s != passIdle
	default:
		return false
	}
}
