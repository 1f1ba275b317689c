// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package pngcodec

import (
	"bytes"
	"testing"

	"github.com/gviegas/pngine/pngerr"
)

func TestCRC32KnownVector(t *testing.T) {
	// "IEND" with an empty payload is a fixed, well-known PNG CRC.
	const want = 0xae426082
	if got := CRC32([]byte("IEND")); got != want {
		t.Fatalf("CRC32(IEND) = %#x, want %#x", got, want)
	}
}

func TestIncrementalCRC32MatchesWholeInput(t *testing.T) {
	data := []byte("IHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	whole := CRC32(data)
	running := CRC32Init()
	for i := range data {
		running = CRC32Update(running, data[i:i+1])
	}
	if got := CRC32Finalize(running); got != whole {
		t.Fatalf("incremental CRC = %#x, want %#x", got, whole)
	}
}

func TestDeflateRawRoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte("a"),
		bytes.Repeat([]byte("hello PNGB "), 500),
		{0x00},
	}
	for _, data := range cases {
		compressed, err := DeflateRawCompress(data)
		if err != nil {
			t.Fatalf("compress: %v", err)
		}
		got, err := DeflateRawDecompress(compressed)
		if err != nil {
			t.Fatalf("decompress: %v", err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("round trip mismatch: got %q want %q", got, data)
		}
	}
}

func TestDeflateRawCompressEmptyRejected(t *testing.T) {
	_, err := DeflateRawCompress(nil)
	if !pngerr.Is(err, pngerr.CompressionFailed) {
		t.Fatalf("expected CompressionFailed, got %v", err)
	}
}

func TestDeflateRawDecompressEmptyRejected(t *testing.T) {
	_, err := DeflateRawDecompress(nil)
	if !pngerr.Is(err, pngerr.InvalidPngbFormat) {
		t.Fatalf("expected InvalidPngbFormat, got %v", err)
	}
}

func TestZlibCompressHeader(t *testing.T) {
	out, err := ZlibCompress([]byte("some pixel data"))
	if err != nil {
		t.Fatalf("ZlibCompress: %v", err)
	}
	if out[0] != 0x78 {
		t.Fatalf("zlib header byte 0 = %#x, want 0x78", out[0])
	}
	if (uint16(out[0])<<8|uint16(out[1]))%31 != 0 {
		t.Fatalf("zlib header fails mod-31 check: %02x%02x", out[0], out[1])
	}
}

func TestZlibRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte{1, 2, 3, 4}, 1024)
	compressed, err := ZlibCompress(data)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	got, err := ZlibDecompress(compressed)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("zlib round trip mismatch")
	}
}

func TestDeflateRawDecompressStoredBlock(t *testing.T) {
	// A raw DEFLATE stream using only BTYPE=00 (stored) blocks, an
	// older encoder strategy decoders must still accept. LEN=5,
	// NLEN=^LEN, then the literal bytes, final bit set.
	payload := []byte("hello")
	stored := []byte{
		0x01,       // BFINAL=1, BTYPE=00
		0x05, 0x00, // LEN=5
		0xFA, 0xFF, // NLEN = ^LEN
	}
	stored = append(stored, payload...)
	got, err := DeflateRawDecompress(stored)
	if err != nil {
		t.Fatalf("decompress stored block: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("stored block payload = %q, want %q", got, payload)
	}
}
