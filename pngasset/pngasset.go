// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package pngasset embeds and extracts the two ancillary chunk types
// PNGine defines on top of plain PNG: pNGb (compiled PNGB bytecode) and
// pNGr (an optional embedded WASM or native runtime). Both chunk types
// share the same payload layout: a version byte, a flags byte (bit 0:
// raw-DEFLATE compressed) and the (possibly compressed) payload itself.
package pngasset

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/gviegas/pngine/pngchunk"
	"github.com/gviegas/pngine/pngcodec"
	"github.com/gviegas/pngine/pngerr"
)

// Kind identifies which of the two ancillary chunk types to operate on.
type Kind int

const (
	PNGB Kind = iota
	PNGR
)

func (k Kind) chunkType() [4]byte {
	if k == PNGB {
		return [4]byte{'p', 'N', 'G', 'b'}
	}
	return [4]byte{'p', 'N', 'G', 'r'}
}

// Domain minima for each payload kind.
const (
	minPNGBSize = 16
	minWASMSize = 8
)

var wasmMagic = [4]byte{0x00, 'a', 's', 'm'}

const (
	payloadVersion     = 0x01
	flagCompressed byte = 1 << 0
)

// Info is the metadata GetPNGBInfo/GetPNGRInfo return without
// decompressing the payload.
type Info struct {
	Version      byte
	Compressed   bool
	PayloadBytes int
}

// Embed compresses payload with raw DEFLATE and splices it into png as a
// new ancillary chunk of the given kind, immediately before IEND. png
// must already contain an IEND chunk; the caller's payload must meet the
// domain minimum for kind (PNGB: >=16 bytes; PNGR: >=8 bytes starting
// with the WASM magic \0asm).
func Embed(png []byte, payload []byte, kind Kind) ([]byte, error) {
	if err := validatePNGSignature(png); err != nil {
		return nil, err
	}
	if err := validatePayloadShape(payload, kind); err != nil {
		return nil, err
	}

	iendOff, err := findIEND(png)
	if err != nil {
		return nil, err
	}

	compressed, err := pngcodec.DeflateRawCompress(payload)
	if err != nil {
		return nil, pngerr.New(pngerr.CompressionFailed, err)
	}

	wire := make([]byte, 0, 2+len(compressed))
	wire = append(wire, payloadVersion, flagCompressed)
	wire = append(wire, compressed...)

	out := make([]byte, 0, len(png)+pngchunk.ChunkSize(wire))
	out = append(out, png[:iendOff]...)
	out = pngchunk.AppendChunk(out, kind.chunkType(), wire)
	out = append(out, png[iendOff:]...)
	return out, nil
}

// Extract returns the decompressed payload of the first chunk of the
// given kind found in png.
func Extract(png []byte, kind Kind) ([]byte, error) {
	raw, _, _, err := findPayload(png, kind)
	if err != nil {
		return nil, err
	}
	version, flags, body := raw[0], raw[1], raw[2:]
	if err := checkVersion(version, kind); err != nil {
		return nil, err
	}
	if flags&flagCompressed != 0 {
		out, err := pngcodec.DeflateRawDecompress(body)
		if err != nil {
			return nil, pngerr.New(pngerr.DecompressionFailed, err)
		}
		return out, nil
	}
	return append([]byte(nil), body...), nil
}

// HasPNGB reports whether png contains a pNGb chunk. It never allocates
// and never decompresses.
func HasPNGB(png []byte) bool { return has(png, PNGB) }

// HasPNGR reports whether png contains a pNGr chunk.
func HasPNGR(png []byte) bool { return has(png, PNGR) }

func has(png []byte, kind Kind) bool {
	it, err := pngchunk.NewIterator(png)
	if err != nil {
		return false
	}
	want := kind.chunkType()
	for {
		c, ok, err := it.Next()
		if err != nil || !ok {
			return false
		}
		if c.Type == want {
			return true
		}
	}
}

// GetPNGBInfo returns the pNGb payload's metadata without decompressing.
func GetPNGBInfo(png []byte) (Info, error) { return getInfo(png, PNGB) }

// GetPNGRInfo returns the pNGr payload's metadata without decompressing.
func GetPNGRInfo(png []byte) (Info, error) { return getInfo(png, PNGR) }

func getInfo(png []byte, kind Kind) (Info, error) {
	raw, _, _, err := findPayload(png, kind)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Version:      raw[0],
		Compressed:   raw[1]&flagCompressed != 0,
		PayloadBytes: len(raw) - 2,
	}, nil
}

func findPayload(png []byte, kind Kind) (raw []byte, chunkOff, chunkLen int, err error) {
	if err = validatePNGSignature(png); err != nil {
		return
	}
	it, itErr := pngchunk.NewIterator(png)
	if itErr != nil {
		err = itErr
		return
	}
	want := kind.chunkType()
	for {
		c, ok, nextErr := it.Next()
		if nextErr != nil {
			err = nextErr
			return
		}
		if !ok {
			notFound := pngerr.NoPngbChunk
			if kind == PNGR {
				notFound = pngerr.NoPngrChunk
			}
			err = pngerr.New(notFound, errors.Errorf("pngasset: no %s chunk found", kind.chunkType()))
			return
		}
		if c.Type != want {
			continue
		}
		if len(c.Data) < 2 {
			tooSmall := pngerr.BytecodeTooSmall
			if kind == PNGR {
				tooSmall = pngerr.RuntimeTooSmall
			}
			err = pngerr.New(tooSmall, errors.New("pngasset: chunk payload shorter than header"))
			return
		}
		raw, chunkOff, chunkLen = c.Data, c.Offset, c.TotalSize
		return
	}
}

func checkVersion(version byte, kind Kind) error {
	if version != payloadVersion {
		code := pngerr.InvalidPngbVersion
		if kind == PNGR {
			code = pngerr.InvalidPngrVersion
		}
		return pngerr.New(code, errors.Errorf("pngasset: unsupported payload version %d", version))
	}
	return nil
}

func validatePNGSignature(png []byte) error {
	if len(png) < 8 || !bytes.Equal(png[:8], pngchunk.Signature[:]) {
		return pngerr.New(pngerr.InvalidPng, errors.New("pngasset: not a valid PNG"))
	}
	return nil
}

func validatePayloadShape(payload []byte, kind Kind) error {
	switch kind {
	case PNGB:
		if len(payload) < minPNGBSize {
			return pngerr.New(pngerr.BytecodeTooSmall, errors.Errorf("pngasset: PNGB payload has %d bytes, need >= %d", len(payload), minPNGBSize))
		}
	case PNGR:
		if len(payload) < minWASMSize {
			return pngerr.New(pngerr.RuntimeTooSmall, errors.Errorf("pngasset: runtime payload has %d bytes, need >= %d", len(payload), minWASMSize))
		}
		if payload[0] != wasmMagic[0] || payload[1] != wasmMagic[1] || payload[2] != wasmMagic[2] || payload[3] != wasmMagic[3] {
			return pngerr.New(pngerr.InvalidWasm, errors.New("pngasset: runtime payload missing \\0asm magic"))
		}
	}
	return nil
}

// findIEND locates the start offset of the IEND chunk. It scans
// backward for the 8-byte pattern "\x00\x00\x00\x00IEND" (empty-length
// IEND header) from the end
// of the buffer, falling back to a forward chunk-by-chunk scan if that
// pattern is not found verbatim (e.g. because an ancillary chunk's data
// happens to contain the same byte pattern). The stricter backward-only
// form some readers use is a valid simplification on well-formed PNGs —
// it just skips the fallback — and produces identical results there.
func findIEND(png []byte) (int, error) {
	pattern := []byte{0, 0, 0, 0, 'I', 'E', 'N', 'D'}
	if idx := bytes.LastIndex(png, pattern); idx >= 0 {
		return idx, nil
	}
	it, err := pngchunk.NewIterator(png)
	if err != nil {
		return 0, err
	}
	for {
		c, ok, err := it.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		if c.TypeString() == "IEND" {
			return c.Offset, nil
		}
	}
	return 0, pngerr.New(pngerr.MissingIEND, errors.New("pngasset: no IEND chunk found"))
}
