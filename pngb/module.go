// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package pngb

import (
	"github.com/pkg/errors"

	"github.com/gviegas/pngine/pngerr"
)

// Module is a fully decoded PNGB container: an opcode stream plus the
// string, data-blob and uniform-binding sections it references. A
// Module is immutable once built; no opcode mutates it, and the
// dispatcher only ever reads from it.
type Module struct {
	Version  uint32
	Flags    uint32
	Bytecode []byte
	Strings  [][]byte
	Data     [][]byte
	Uniforms []UniformBinding
}

// String returns the interned string at id.
func (m *Module) String(id uint16) ([]byte, bool) {
	if int(id) >= len(m.Strings) {
		return nil, false
	}
	return m.Strings[id], true
}

// DataBlob returns the data blob at id.
func (m *Module) DataBlob(id uint16) ([]byte, bool) {
	if int(id) >= len(m.Data) {
		return nil, false
	}
	return m.Data[id], true
}

// Serialize encodes m into a complete PNGB byte stream.
func Serialize(m *Module) []byte {
	strings := encodeStrings(m.Strings)
	data := encodeData(m.Data)
	uniforms := encodeUniforms(m.Uniforms)

	h := Header{Version: CurrentVersion, Flags: m.Flags}
	off := uint32(HeaderSize)
	h.Bytecode = sectionRecord{Offset: off, Length: uint32(len(m.Bytecode))}
	off += h.Bytecode.Length
	h.Strings = sectionRecord{Offset: off, Length: uint32(len(strings))}
	off += h.Strings.Length
	h.Data = sectionRecord{Offset: off, Length: uint32(len(data))}
	off += h.Data.Length
	h.Uniforms = sectionRecord{Offset: off, Length: uint32(len(uniforms))}

	out := make([]byte, 0, off+h.Uniforms.Length)
	out = append(out, h.marshal()...)
	out = append(out, m.Bytecode...)
	out = append(out, strings...)
	out = append(out, data...)
	out = append(out, uniforms...)
	return out
}

// Deserialize parses a PNGB byte stream into a Module, validating the
// header magic/version and every section's bounds.
func Deserialize(raw []byte) (*Module, error) {
	h, err := parseHeader(raw)
	if err != nil {
		return nil, err
	}

	bytecode, err := sliceSection(raw, h.Bytecode, "bytecode")
	if err != nil {
		return nil, err
	}
	stringsRaw, err := sliceSection(raw, h.Strings, "strings")
	if err != nil {
		return nil, err
	}
	dataRaw, err := sliceSection(raw, h.Data, "data")
	if err != nil {
		return nil, err
	}
	uniformsRaw, err := sliceSection(raw, h.Uniforms, "uniforms")
	if err != nil {
		return nil, err
	}

	strs, err := decodeStrings(stringsRaw)
	if err != nil {
		return nil, err
	}
	blobs, err := decodeData(dataRaw)
	if err != nil {
		return nil, err
	}
	uniforms, err := decodeUniforms(uniformsRaw)
	if err != nil {
		return nil, err
	}

	m := &Module{
		Version:  h.Version,
		Flags:    h.Flags,
		Bytecode: append([]byte(nil), bytecode...),
		Strings:  strs,
		Data:     blobs,
		Uniforms: uniforms,
	}
	for _, ub := range m.Uniforms {
		for _, f := range ub.Fields {
			if int(f.NameID) >= len(m.Strings) {
				return nil, pngerr.New(pngerr.InvalidPngbFormat, errors.Errorf(
					"pngb: uniform field references out-of-range string id %d", f.NameID))
			}
		}
	}
	return m, nil
}

func sliceSection(raw []byte, rec sectionRecord, name string) ([]byte, error) {
	start, length := int(rec.Offset), int(rec.Length)
	if start < 0 || length < 0 || start+length > len(raw) {
		return nil, pngerr.New(pngerr.InvalidPngbFormat, errors.Errorf("pngb: %s section out of bounds", name))
	}
	return raw[start : start+length], nil
}
