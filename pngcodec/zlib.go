// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package pngcodec

import (
	"bytes"
	"compress/zlib"

	"github.com/pkg/errors"

	"github.com/gviegas/pngine/pngerr"
)

// ZlibCompress compresses data using the same LZ77+Huffman pipeline as
// DeflateRawCompress, but wraps the result in a zlib container (CMF/FLG
// header plus Adler-32 trailer), as required for PNG IDAT chunks. The
// output's first byte is always 0x78 and the two-byte header satisfies
// the mod-31 check, matching zlib.NewWriter's own framing.
func ZlibCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, pngerr.New(pngerr.CompressionFailed, errors.WithStack(err))
	}
	if err := w.Close(); err != nil {
		return nil, pngerr.New(pngerr.CompressionFailed, errors.WithStack(err))
	}
	return buf.Bytes(), nil
}

// ZlibDecompress reverses ZlibCompress.
func ZlibDecompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, pngerr.New(pngerr.DecompressionFailed, errors.WithStack(err))
	}
	defer r.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, pngerr.New(pngerr.DecompressionFailed, errors.WithStack(err))
	}
	return buf.Bytes(), nil
}
