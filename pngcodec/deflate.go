// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package pngcodec

import (
	"bytes"
	"compress/flate"
	"io"

	"github.com/pkg/errors"

	"github.com/gviegas/pngine/pngerr"
)

// deflateLevel is the balanced compression level requested from
// compress/flate. Level 6 trades ratio for speed the same way zlib's
// default level does.
const deflateLevel = 6

// DeflateRawCompress produces a raw DEFLATE stream (no zlib header, no
// Adler-32 trailer) suitable for embedding as a pNGb/pNGr payload or for
// a browser DecompressionStream('deflate-raw'). data must be non-empty.
func DeflateRawCompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, pngerr.New(pngerr.CompressionFailed, errors.New("pngcodec: empty input"))
	}
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, deflateLevel)
	if err != nil {
		return nil, pngerr.New(pngerr.CompressionFailed, errors.WithStack(err))
	}
	if _, err := w.Write(data); err != nil {
		return nil, pngerr.New(pngerr.CompressionFailed, errors.WithStack(err))
	}
	if err := w.Close(); err != nil {
		return nil, pngerr.New(pngerr.CompressionFailed, errors.WithStack(err))
	}
	return buf.Bytes(), nil
}

// DeflateRawDecompress decodes a raw DEFLATE stream produced by
// DeflateRawCompress or by an older, stored-block-only encoder;
// compress/flate.Reader already decodes stored, fixed and dynamic
// Huffman blocks, so no separate legacy path is needed. data must be
// non-empty.
func DeflateRawDecompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, pngerr.New(pngerr.InvalidPngbFormat, errors.New("pngcodec: empty input"))
	}
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, pngerr.New(pngerr.DecompressionFailed, errors.WithStack(err))
	}
	return out, nil
}
