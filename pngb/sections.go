// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package pngb

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/gviegas/pngine/pngerr"
)

// UniformField describes one named field inside a uniform buffer.
type UniformField struct {
	NameID uint16
	Offset uint32
	Size   uint32
	// ComponentType enumerates the WGSL scalar the field holds; see the
	// Component* constants.
	ComponentType uint8
}

// Component types a reflected uniform field may hold.
const (
	ComponentF32 uint8 = iota
	ComponentI32
	ComponentU32
)

// UniformBinding describes the layout of one named uniform buffer, as
// produced by an external struct-layout-reflection oracle.
type UniformBinding struct {
	Group     uint8
	Binding   uint8
	TotalSize uint32
	Fields    []UniformField
}

func encodeStrings(strs [][]byte) []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(len(strs)))
	for _, s := range strs {
		var lenBuf [2]byte
		binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(s)))
		buf = append(buf, lenBuf[:]...)
		buf = append(buf, s...)
	}
	return buf
}

func decodeStrings(data []byte) ([][]byte, error) {
	if len(data) < 2 {
		return nil, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngb: truncated string table count"))
	}
	count := binary.LittleEndian.Uint16(data)
	off := 2
	strs := make([][]byte, 0, count)
	for i := uint16(0); i < count; i++ {
		if off+2 > len(data) {
			return nil, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngb: truncated string entry length"))
		}
		n := int(binary.LittleEndian.Uint16(data[off : off+2]))
		off += 2
		if off+n > len(data) {
			return nil, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngb: truncated string entry bytes"))
		}
		strs = append(strs, append([]byte(nil), data[off:off+n]...))
		off += n
	}
	return strs, nil
}

func encodeData(blobs [][]byte) []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(len(blobs)))
	for _, b := range blobs {
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(b)))
		buf = append(buf, lenBuf[:]...)
		buf = append(buf, b...)
	}
	return buf
}

func decodeData(data []byte) ([][]byte, error) {
	if len(data) < 2 {
		return nil, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngb: truncated data table count"))
	}
	count := binary.LittleEndian.Uint16(data)
	off := 2
	blobs := make([][]byte, 0, count)
	for i := uint16(0); i < count; i++ {
		if off+4 > len(data) {
			return nil, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngb: truncated data entry length"))
		}
		n := int(binary.LittleEndian.Uint32(data[off : off+4]))
		off += 4
		if off+n > len(data) {
			return nil, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngb: truncated data entry bytes"))
		}
		blobs = append(blobs, append([]byte(nil), data[off:off+n]...))
		off += n
	}
	return blobs, nil
}

func encodeUniforms(bindings []UniformBinding) []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(len(bindings)))
	for _, ub := range bindings {
		buf = append(buf, ub.Group, ub.Binding)
		var sizeBuf [4]byte
		binary.LittleEndian.PutUint32(sizeBuf[:], ub.TotalSize)
		buf = append(buf, sizeBuf[:]...)
		var cntBuf [2]byte
		binary.LittleEndian.PutUint16(cntBuf[:], uint16(len(ub.Fields)))
		buf = append(buf, cntBuf[:]...)
		for _, f := range ub.Fields {
			var fb [11]byte
			binary.LittleEndian.PutUint16(fb[0:2], f.NameID)
			binary.LittleEndian.PutUint32(fb[2:6], f.Offset)
			binary.LittleEndian.PutUint32(fb[6:10], f.Size)
			fb[10] = f.ComponentType
			buf = append(buf, fb[:]...)
		}
	}
	return buf
}

func decodeUniforms(data []byte) ([]UniformBinding, error) {
	if len(data) < 2 {
		return nil, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngb: truncated uniform table count"))
	}
	count := binary.LittleEndian.Uint16(data)
	off := 2
	out := make([]UniformBinding, 0, count)
	for i := uint16(0); i < count; i++ {
		if off+8 > len(data) {
			return nil, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngb: truncated uniform binding header"))
		}
		ub := UniformBinding{
			Group:     data[off],
			Binding:   data[off+1],
			TotalSize: binary.LittleEndian.Uint32(data[off+2 : off+6]),
		}
		fcount := binary.LittleEndian.Uint16(data[off+6 : off+8])
		off += 8
		ub.Fields = make([]UniformField, 0, fcount)
		for j := uint16(0); j < fcount; j++ {
			if off+11 > len(data) {
				return nil, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngb: truncated uniform field"))
			}
			f := UniformField{
				NameID:        binary.LittleEndian.Uint16(data[off : off+2]),
				Offset:        binary.LittleEndian.Uint32(data[off+2 : off+6]),
				Size:          binary.LittleEndian.Uint32(data[off+6 : off+10]),
				ComponentType: data[off+10],
			}
			if f.Offset+f.Size > ub.TotalSize {
				return nil, pngerr.New(pngerr.InvalidPngbFormat, errors.Errorf(
					"pngb: uniform field offset+size (%d) exceeds total_size (%d)", f.Offset+f.Size, ub.TotalSize))
			}
			ub.Fields = append(ub.Fields, f)
			off += 11
		}
		out = append(out, ub)
	}
	return out, nil
}
