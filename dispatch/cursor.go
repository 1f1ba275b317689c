// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package dispatch

import (
	"github.com/pkg/errors"

	"github.com/gviegas/pngine/pngb"
	"github.com/gviegas/pngine/pngerr"
)

// cursor walks a byte slice decoding opcodes and their operands.
type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) done() bool { return c.pos >= len(c.data) }

func (c *cursor) readByte() (byte, error) {
	if c.pos >= len(c.data) {
		return 0, pngerr.New(pngerr.UnexpectedEof, errors.New("dispatch: opcode stream truncated"))
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

func (c *cursor) readVarint() (uint64, error) {
	v, n, err := pngb.DecodeVarint(c.data[c.pos:])
	if err != nil {
		return 0, err
	}
	c.pos += n
	return v, nil
}

func (c *cursor) readVarintU32() (uint32, error) {
	v, n, err := pngb.DecodeVarintU32(c.data[c.pos:])
	if err != nil {
		return 0, err
	}
	c.pos += n
	return v, nil
}

// readOptionalVarint reads a one-byte presence flag followed by a
// varint when the flag is non-zero.
func (c *cursor) readOptionalVarint() (v uint64, present bool, err error) {
	flag, err := c.readByte()
	if err != nil {
		return 0, false, err
	}
	if flag == 0 {
		return 0, false, nil
	}
	v, err = c.readVarint()
	return v, true, err
}
