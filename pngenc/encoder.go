// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package pngenc encodes raw RGBA8 (or BGRA8) pixel rasters into
// self-contained PNG files: IHDR, a single zlib-compressed IDAT using
// filter type None on every scanline, and IEND. It does not decode PNG
// and does not support any other filter mode or color type.
package pngenc

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/gviegas/pngine/pngchunk"
	"github.com/gviegas/pngine/pngcodec"
	"github.com/gviegas/pngine/pngerr"
)

const (
	bitDepth8     = 8
	colorTypeRGBA = 6
)

var (
	typeIHDR = [4]byte{'I', 'H', 'D', 'R'}
	typeIDAT = [4]byte{'I', 'D', 'A', 'T'}
	typeIEND = [4]byte{'I', 'E', 'N', 'D'}
)

// Encode converts an RGBA8 raster (width*height*4 bytes, row-major, no
// padding) into a PNG byte stream. width and height must both be
// positive and len(pixels) must equal width*height*4.
func Encode(pixels []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, pngerr.New(pngerr.InvalidPixelDataSize, errors.Errorf("pngenc: non-positive dimensions %dx%d", width, height))
	}
	if len(pixels) != width*height*4 {
		return nil, pngerr.New(pngerr.InvalidPixelDataSize, errors.Errorf("pngenc: pixel buffer has %d bytes, want %d", len(pixels), width*height*4))
	}

	filtered := filterNone(pixels, width, height)
	idat, err := pngcodec.ZlibCompress(filtered)
	if err != nil {
		return nil, pngerr.New(pngerr.CompressionFailed, err)
	}

	out := make([]byte, 0, len(Signature())+25+12+len(idat)+12)
	out = append(out, Signature()...)
	out = pngchunk.AppendChunk(out, typeIHDR, ihdrPayload(width, height))
	out = pngchunk.AppendChunk(out, typeIDAT, idat)
	out = pngchunk.AppendChunk(out, typeIEND, nil)
	return out, nil
}

// EncodeBGRA is Encode for pixel data stored in BGRA channel order; it
// swaps B and R into a temporary buffer before delegating to Encode.
func EncodeBGRA(pixels []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, pngerr.New(pngerr.InvalidPixelDataSize, errors.Errorf("pngenc: non-positive dimensions %dx%d", width, height))
	}
	if len(pixels) != width*height*4 {
		return nil, pngerr.New(pngerr.InvalidPixelDataSize, errors.Errorf("pngenc: pixel buffer has %d bytes, want %d", len(pixels), width*height*4))
	}
	rgba := make([]byte, len(pixels))
	for i := 0; i < len(pixels); i += 4 {
		rgba[i+0] = pixels[i+2]
		rgba[i+1] = pixels[i+1]
		rgba[i+2] = pixels[i+0]
		rgba[i+3] = pixels[i+3]
	}
	return Encode(rgba, width, height)
}

// Signature returns the 8-byte PNG signature as a fresh slice.
func Signature() []byte {
	sig := pngchunk.Signature
	return sig[:]
}

// ihdrPayload builds the 13-byte IHDR payload for an 8-bit RGBA image.
func ihdrPayload(width, height int) []byte {
	b := make([]byte, 13)
	binary.BigEndian.PutUint32(b[0:4], uint32(width))
	binary.BigEndian.PutUint32(b[4:8], uint32(height))
	b[8] = bitDepth8
	b[9] = colorTypeRGBA
	b[10] = 0 // compression method
	b[11] = 0 // filter method
	b[12] = 0 // interlace method
	return b
}

// filterNone prepends a filter-type-0 (None) byte to every scanline, the
// only filter mode this encoder supports.
func filterNone(pixels []byte, width, height int) []byte {
	stride := width * 4
	out := make([]byte, height*(stride+1))
	for row := 0; row < height; row++ {
		dstOff := row * (stride + 1)
		out[dstOff] = 0
		copy(out[dstOff+1:dstOff+1+stride], pixels[row*stride:(row+1)*stride])
	}
	return out
}
