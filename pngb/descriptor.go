// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package pngb

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/gviegas/pngine/pngerr"
)

// DescType identifies the kind of resource a Descriptor creates.
type DescType uint8

const (
	DescBuffer DescType = iota
	DescTexture
	DescSampler
	DescBindGroupLayout
	DescPipelineLayout
	DescBindGroup
	DescRenderPipeline
	DescComputePipeline
	DescQuerySet
	DescRenderBundle
	DescImageBitmap
)

// ValueTag identifies how a DescField's value bytes are encoded.
type ValueTag uint8

const (
	ValueUint ValueTag = iota // unsigned LEB128 varint
	ValueString               // u16 string-table id, little-endian
	ValueFloat                // IEEE-754 binary32, little-endian
	ValueBool                 // single byte, 0 or 1
)

// Descriptor keys. The key space is fixed per DescType; unknown keys
// are skipped by decoders, so new keys can be appended without breaking
// older readers.
const (
	KeyWidth DescKey = iota
	KeyHeight
	KeyDepthOrArrayLayers
	KeyMipLevelCount
	KeySampleCount
	KeyDimension
	KeyViewDimension
	KeyFormat
	KeyUsage
	KeyBufferSize

	KeyAddressModeU
	KeyAddressModeV
	KeyAddressModeW
	KeyMagFilter
	KeyMinFilter
	KeyMipmapFilter
	KeyCompare
	KeyLodMinClamp
	KeyLodMaxClamp

	KeyLayout
	KeyVertexModule
	KeyVertexEntryPoint
	KeyFragmentModule
	KeyFragmentEntryPoint
	KeyPrimitive
	KeyDepthStencil
	KeyMultisample

	KeyBinding
	KeyVisibility
	KeyBufferType
	KeySampleType
	KeySamplerType
	KeyStorageAccess
	KeyMultisampled

	// CanvasSized flags a texture descriptor whose width/height are
	// substituted at bind time from the host-provided surface extent;
	// its value is a ValueBool.
	KeyCanvasSized

	// KeyPool is present on any creation descriptor that allocates a
	// pooled resource: its value (ValueUint) is the handle count N: the
	// dispatcher creates N backend handles from this one opcode and
	// stores them contiguously, addressed as (base, offset) by the
	// pool-aware binder opcodes. Absent or 1 means a single, unpooled
	// handle.
	KeyPool
)

// DescKey is a descriptor field key. It is scoped per DescType but kept
// as a single flat enum for a table-driven decoder.
type DescKey uint8

// DescField is one {key, value} pair inside a Descriptor.
type DescField struct {
	Key DescKey
	Tag ValueTag
	Raw []byte
}

// Uint decodes f as a varint-encoded unsigned integer.
func (f DescField) Uint() (uint64, error) {
	v, _, err := DecodeVarint(f.Raw)
	return v, err
}

// StringID decodes f as a string-table reference.
func (f DescField) StringID() (uint16, error) {
	if len(f.Raw) != 2 {
		return 0, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngb: descriptor string field has wrong width"))
	}
	return binary.LittleEndian.Uint16(f.Raw), nil
}

// Float decodes f as an IEEE-754 binary32 value.
func (f DescField) Float() (float32, error) {
	if len(f.Raw) != 4 {
		return 0, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngb: descriptor float field has wrong width"))
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(f.Raw)), nil
}

// Bool decodes f as a one-byte boolean.
func (f DescField) Bool() (bool, error) {
	if len(f.Raw) != 1 {
		return false, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngb: descriptor bool field has wrong width"))
	}
	return f.Raw[0] != 0, nil
}

// Descriptor is a typed, key/value-encoded resource-creation descriptor,
// addressed as a data-blob id from a creation opcode's operand.
type Descriptor struct {
	Type   DescType
	Fields []DescField
}

// Field looks up the first field with the given key.
func (d Descriptor) Field(key DescKey) (DescField, bool) {
	for _, f := range d.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return DescField{}, false
}

// EncodeDescriptor serializes a Descriptor to its on-wire bytes, for use
// as a data-blob entry.
func EncodeDescriptor(d Descriptor) []byte {
	buf := []byte{byte(d.Type), byte(len(d.Fields))}
	for _, f := range d.Fields {
		buf = append(buf, byte(f.Key), byte(f.Tag))
		buf = AppendVarint(buf, uint64(len(f.Raw)))
		buf = append(buf, f.Raw...)
	}
	return buf
}

// DecodeDescriptor parses the typed {descriptor_type, field_count,
// fields[]} mini-format from data. If data begins with '{' it is a
// legacy JSON-encoded descriptor and rejected here — callers that must
// support that transport should detect the prefix themselves and fall
// back to encoding/json.
func DecodeDescriptor(data []byte) (Descriptor, error) {
	if len(data) > 0 && data[0] == '{' {
		return Descriptor{}, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngb: legacy JSON descriptor blob not supported by the typed decoder"))
	}
	if len(data) < 2 {
		return Descriptor{}, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngb: descriptor blob too short"))
	}
	d := Descriptor{Type: DescType(data[0])}
	fieldCount := int(data[1])
	off := 2
	for i := 0; i < fieldCount; i++ {
		if off+2 > len(data) {
			return Descriptor{}, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngb: truncated descriptor field header"))
		}
		key := DescKey(data[off])
		tag := ValueTag(data[off+1])
		off += 2
		n, consumed, err := DecodeVarint(data[off:])
		if err != nil {
			return Descriptor{}, err
		}
		off += consumed
		if off+int(n) > len(data) {
			return Descriptor{}, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngb: truncated descriptor field value"))
		}
		d.Fields = append(d.Fields, DescField{Key: key, Tag: tag, Raw: append([]byte(nil), data[off:off+int(n)]...)})
		off += int(n)
	}
	return d, nil
}
