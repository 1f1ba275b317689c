// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package pngasset

import (
	"bytes"
	"testing"

	"github.com/gviegas/pngine/pngchunk"
	"github.com/gviegas/pngine/pngerr"
)

func minimalPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(pngchunk.Signature[:])
	if err := pngchunk.WriteChunk(&buf, [4]byte{'I', 'H', 'D', 'R'}, make([]byte, 13)); err != nil {
		t.Fatal(err)
	}
	if err := pngchunk.WriteChunk(&buf, [4]byte{'I', 'D', 'A', 'T'}, make([]byte, 8)); err != nil {
		t.Fatal(err)
	}
	if err := pngchunk.WriteChunk(&buf, [4]byte{'I', 'E', 'N', 'D'}, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func chunkTypes(t *testing.T, png []byte) []string {
	t.Helper()
	it, err := pngchunk.NewIterator(png)
	if err != nil {
		t.Fatal(err)
	}
	var types []string
	for {
		c, ok, err := it.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		types = append(types, c.TypeString())
	}
	return types
}

func TestEmbedIntoMinimalPNG(t *testing.T) {
	png := minimalPNG(t)
	b := append([]byte("PNGB"), make([]byte, 12)...) // 16 bytes
	out, err := Embed(png, b, PNGB)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	want := []string{"IHDR", "IDAT", "pNGb", "IEND"}
	got := chunkTypes(t, out)
	if len(got) != len(want) {
		t.Fatalf("chunk types = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("chunk types = %v, want %v", got, want)
		}
	}
	extracted, err := Extract(out, PNGB)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !bytes.Equal(extracted, b) {
		t.Fatalf("extracted = %x, want %x", extracted, b)
	}
}

func TestEmbedExtractRoundTripVariousSizes(t *testing.T) {
	png := minimalPNG(t)
	sizes := []int{16, 17, 32, 256, 4096}
	for _, n := range sizes {
		payload := make([]byte, n)
		for i := range payload {
			payload[i] = byte(i * 7)
		}
		out, err := Embed(png, payload, PNGB)
		if err != nil {
			t.Fatalf("size %d: Embed: %v", n, err)
		}
		if len(out) <= len(png) {
			t.Fatalf("size %d: output not larger than input", n)
		}
		if !bytes.Equal(out[:8], pngchunk.Signature[:]) {
			t.Fatalf("size %d: output does not start with PNG signature", n)
		}
		got, err := Extract(out, PNGB)
		if err != nil {
			t.Fatalf("size %d: Extract: %v", n, err)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("size %d: round trip mismatch", n)
		}
	}
}

func TestEmbedExtractPNGR(t *testing.T) {
	png := minimalPNG(t)
	payload := append([]byte{0x00, 'a', 's', 'm', 1, 0, 0, 0}, []byte("extra runtime bytes")...)
	out, err := Embed(png, payload, PNGR)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	got, err := Extract(out, PNGR)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("pNGr round trip mismatch")
	}
}

func TestEmbedRejectsUndersizedPayload(t *testing.T) {
	png := minimalPNG(t)
	if _, err := Embed(png, make([]byte, 15), PNGB); !pngerr.Is(err, pngerr.BytecodeTooSmall) {
		t.Fatalf("PNGB undersized: got %v", err)
	}
	if _, err := Embed(png, make([]byte, 7), PNGR); !pngerr.Is(err, pngerr.RuntimeTooSmall) {
		t.Fatalf("PNGR undersized: got %v", err)
	}
	bad := append([]byte{0x01, 0x02, 0x03, 0x04}, make([]byte, 8)...)
	if _, err := Embed(png, bad, PNGR); !pngerr.Is(err, pngerr.InvalidWasm) {
		t.Fatalf("PNGR bad magic: got %v", err)
	}
}

func TestEmbedRequiresIEND(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(pngchunk.Signature[:])
	pngchunk.WriteChunk(&buf, [4]byte{'I', 'H', 'D', 'R'}, make([]byte, 13))
	_, err := Embed(buf.Bytes(), make([]byte, 16), PNGB)
	if !pngerr.Is(err, pngerr.MissingIEND) {
		t.Fatalf("expected MissingIEND, got %v", err)
	}
}

func TestHasProbesAreDeterministic(t *testing.T) {
	png := minimalPNG(t)
	out, err := Embed(png, make([]byte, 16), PNGB)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if !HasPNGB(out) {
			t.Fatal("HasPNGB should be true")
		}
		if HasPNGR(out) {
			t.Fatal("HasPNGR should be false")
		}
	}
	if HasPNGB(png) {
		t.Fatal("HasPNGB on plain PNG should be false")
	}
}

func TestGetPNGBInfoNoDecompress(t *testing.T) {
	png := minimalPNG(t)
	payload := make([]byte, 64)
	out, err := Embed(png, payload, PNGB)
	if err != nil {
		t.Fatal(err)
	}
	info, err := GetPNGBInfo(out)
	if err != nil {
		t.Fatal(err)
	}
	if info.Version != 1 || !info.Compressed {
		t.Fatalf("info = %+v, want version 1 compressed", info)
	}
}

func TestNoPngbChunk(t *testing.T) {
	png := minimalPNG(t)
	_, err := Extract(png, PNGB)
	if !pngerr.Is(err, pngerr.NoPngbChunk) {
		t.Fatalf("expected NoPngbChunk, got %v", err)
	}
}
