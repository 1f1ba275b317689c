// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package pngchunk implements zero-copy PNG chunk framing: an iterator
// over a PNG byte slice and a writer that serializes a single chunk with
// its CRC-32. Chunk.Data always borrows from the slice the Iterator was
// created with; callers must keep that slice alive for as long as any
// Chunk derived from it is in use.
package pngchunk

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/gviegas/pngine/pngcodec"
	"github.com/gviegas/pngine/pngerr"
)

// Signature is the fixed 8-byte PNG file signature.
var Signature = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// MaxChunkData is the largest chunk payload the iterator accepts.
const MaxChunkData = 16 << 20 // 16 MiB

// chunkOverhead is length(4) + type(4) + crc(4).
const chunkOverhead = 12

// Chunk is a borrowed view of one PNG chunk.
type Chunk struct {
	Type      [4]byte
	Data      []byte
	Offset    int
	TotalSize int
}

// Ancillary reports whether the chunk is ancillary (bit 5 of byte 0 set).
func (c Chunk) Ancillary() bool { return c.Type[0]&0x20 != 0 }

// Public reports whether the chunk is public (bit 5 of byte 1 clear).
func (c Chunk) Public() bool { return c.Type[1]&0x20 == 0 }

// SafeToCopy reports whether the chunk is marked safe-to-copy (bit 5 of
// byte 3 set).
func (c Chunk) SafeToCopy() bool { return c.Type[3]&0x20 != 0 }

// TypeString returns the chunk type as a 4-byte ASCII string.
func (c Chunk) TypeString() string { return string(c.Type[:]) }

// Iterator walks the chunks of a PNG byte slice without copying any
// chunk payload.
type Iterator struct {
	data []byte
	pos  int
	done bool
}

// NewIterator validates the PNG signature and returns an Iterator
// positioned at the first chunk. png must outlive the Iterator and every
// Chunk it yields.
func NewIterator(png []byte) (*Iterator, error) {
	if len(png) < len(Signature) {
		return nil, pngerr.New(pngerr.InvalidSignature, errors.New("pngchunk: input shorter than PNG signature"))
	}
	for i := range Signature {
		if png[i] != Signature[i] {
			return nil, pngerr.New(pngerr.InvalidSignature, errors.New("pngchunk: bad PNG signature"))
		}
	}
	return &Iterator{data: png, pos: len(Signature)}, nil
}

// Next returns the next chunk, or (Chunk{}, false, nil) once the stream
// is exhausted (fewer than 12 bytes remain). A non-nil error indicates a
// malformed chunk; the Iterator must not be used further after an error.
func (it *Iterator) Next() (Chunk, bool, error) {
	if it.done || len(it.data)-it.pos < chunkOverhead {
		return Chunk{}, false, nil
	}
	start := it.pos
	length := binary.BigEndian.Uint32(it.data[it.pos : it.pos+4])
	if length > MaxChunkData {
		it.done = true
		return Chunk{}, false, pngerr.New(pngerr.ChunkTooLarge, errors.Errorf("pngchunk: chunk length %d exceeds %d", length, MaxChunkData))
	}
	it.pos += 4

	var typ [4]byte
	copy(typ[:], it.data[it.pos:it.pos+4])
	it.pos += 4

	end := it.pos + int(length)
	if end+4 > len(it.data) {
		it.done = true
		return Chunk{}, false, pngerr.New(pngerr.UnexpectedEof, errors.New("pngchunk: truncated chunk data or CRC"))
	}
	data := it.data[it.pos:end]
	it.pos = end

	stored := binary.BigEndian.Uint32(it.data[it.pos : it.pos+4])
	it.pos += 4

	computed := pngcodec.CRC32Finalize(pngcodec.CRC32Update(pngcodec.CRC32Update(pngcodec.CRC32Init(), typ[:]), data))
	if computed != stored {
		it.done = true
		return Chunk{}, false, pngerr.New(pngerr.InvalidCrc, errors.Errorf("pngchunk: CRC mismatch in %q chunk", typ))
	}

	return Chunk{
		Type:      typ,
		Data:      data,
		Offset:    start,
		TotalSize: chunkOverhead + len(data),
	}, true, nil
}

// ChunkSize returns the total serialized size (length+type+data+crc) of
// a chunk carrying the given payload.
func ChunkSize(data []byte) int { return chunkOverhead + len(data) }

// WriteChunk appends a fully framed chunk (length, type, data, CRC) to w.
func WriteChunk(w io.Writer, typ [4]byte, data []byte) error {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(len(data)))
	copy(hdr[4:8], typ[:])
	if _, err := w.Write(hdr[:]); err != nil {
		return errors.WithStack(err)
	}
	if _, err := w.Write(data); err != nil {
		return errors.WithStack(err)
	}
	crc := pngcodec.CRC32Finalize(pngcodec.CRC32Update(pngcodec.CRC32Update(pngcodec.CRC32Init(), typ[:]), data))
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc)
	if _, err := w.Write(crcBuf[:]); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// AppendChunk is the allocation-returning counterpart of WriteChunk.
func AppendChunk(buf []byte, typ [4]byte, data []byte) []byte {
	n := len(buf)
	buf = append(buf, make([]byte, ChunkSize(data))...)
	binary.BigEndian.PutUint32(buf[n:], uint32(len(data)))
	copy(buf[n+4:], typ[:])
	copy(buf[n+8:], data)
	crc := pngcodec.CRC32Finalize(pngcodec.CRC32Update(pngcodec.CRC32Update(pngcodec.CRC32Init(), typ[:]), data))
	binary.BigEndian.PutUint32(buf[n+8+len(data):], crc)
	return buf
}
