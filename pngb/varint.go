// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package pngb

import (
	"github.com/pkg/errors"

	"github.com/gviegas/pngine/pngerr"
)

// maxVarintBytes bounds how many bytes DecodeVarint will read before
// giving up, guarding against a truncated or adversarial stream walking
// off the end of a 64-bit accumulator.
const maxVarintBytes = 10

// AppendVarint encodes v as unsigned LEB128 (7-bit little-endian groups
// with a continuation bit) and appends it to buf.
func AppendVarint(buf []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			buf = append(buf, b|0x80)
		} else {
			buf = append(buf, b)
			return buf
		}
	}
}

// DecodeVarint decodes an unsigned LEB128 value from the start of data,
// returning the value and the number of bytes consumed.
func DecodeVarint(data []byte) (value uint64, n int, err error) {
	var shift uint
	for n = 0; n < len(data) && n < maxVarintBytes; n++ {
		b := data[n]
		value |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return value, n + 1, nil
		}
		shift += 7
	}
	return 0, 0, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngb: truncated or oversized varint"))
}

// DecodeVarintU32 is DecodeVarint with a range check for operands whose
// target width is u32; values that do not fit are a decode error.
func DecodeVarintU32(data []byte) (value uint32, n int, err error) {
	v, n, err := DecodeVarint(data)
	if err != nil {
		return 0, 0, err
	}
	if v > 0xFFFFFFFF {
		return 0, 0, pngerr.New(pngerr.InvalidPngbFormat, errors.Errorf("pngb: varint %d exceeds u32 width", v))
	}
	return uint32(v), n, nil
}
