// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package pngb implements the PNGB module container: a fixed header
// naming four sections (bytecode, strings, data blobs, uniform
// bindings), the varint and descriptor mini-formats opcodes use to
// encode their operands, and the stable opcode catalogue the dispatcher
// decodes. All multi-byte integers are little-endian.
//
// Grounded in google-wuffs/lib/rac's root-header-plus-indexed-sections
// shape, specialized from RAC's arbitrary chunk tree to PNGB's four
// fixed named sections.
package pngb

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/gviegas/pngine/pngerr"
)

// Magic is the fixed 4-byte PNGB header magic.
var Magic = [4]byte{'P', 'N', 'G', 'B'}

// CurrentVersion is the PNGB format version this package produces.
const CurrentVersion uint32 = 5

// HeaderSize is the fixed, self-describing size of a PNGB header: magic
// (4) + version (4) + flags (4) + four {offset:u32, length:u32} section
// records (4 * 8 = 32), for a total of 44 bytes (see DESIGN.md for the
// reasoning behind this figure).
const HeaderSize = 4 + 4 + 4 + 4*8

// sectionRecord is an {offset, length} pair locating one section within
// the serialized module.
type sectionRecord struct {
	Offset uint32
	Length uint32
}

// Header is the fixed-size PNGB module header.
type Header struct {
	Version  uint32
	Flags    uint32
	Bytecode sectionRecord
	Strings  sectionRecord
	Data     sectionRecord
	Uniforms sectionRecord
}

func (h *Header) marshal() []byte {
	b := make([]byte, HeaderSize)
	copy(b[0:4], Magic[:])
	binary.LittleEndian.PutUint32(b[4:8], h.Version)
	binary.LittleEndian.PutUint32(b[8:12], h.Flags)
	off := 12
	for _, rec := range []sectionRecord{h.Bytecode, h.Strings, h.Data, h.Uniforms} {
		binary.LittleEndian.PutUint32(b[off:off+4], rec.Offset)
		binary.LittleEndian.PutUint32(b[off+4:off+8], rec.Length)
		off += 8
	}
	return b
}

func parseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngb: input shorter than header"))
	}
	if string(data[0:4]) != string(Magic[:]) {
		return nil, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngb: bad PNGB magic"))
	}
	h := &Header{
		Version: binary.LittleEndian.Uint32(data[4:8]),
		Flags:   binary.LittleEndian.Uint32(data[8:12]),
	}
	if h.Version != CurrentVersion {
		return nil, pngerr.New(pngerr.InvalidPngbVersion, errors.Errorf("pngb: version %d, want %d", h.Version, CurrentVersion))
	}
	recs := make([]*sectionRecord, 4)
	recs[0], recs[1], recs[2], recs[3] = &h.Bytecode, &h.Strings, &h.Data, &h.Uniforms
	off := 12
	for _, rec := range recs {
		rec.Offset = binary.LittleEndian.Uint32(data[off : off+4])
		rec.Length = binary.LittleEndian.Uint32(data[off+4 : off+8])
		off += 8
	}
	return h, nil
}
