// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package pngcodec provides the byte-level codecs that PNG chunk framing
// and the pNGb/pNGr payload format depend on: table-driven CRC-32 and the
// raw-DEFLATE/zlib compression facades.
package pngcodec

import "hash/crc32"

// crcTable is the IEEE 802.3 polynomial (0xEDB88320, reflected) table PNG
// chunk CRCs are computed against. The standard library already builds
// this table; there is no reason to hand-derive it.
var crcTable = crc32.IEEETable

// CRC32Init returns the initial value of a running (not yet finalized)
// CRC-32 accumulator, for incremental use with CRC32Update.
func CRC32Init() uint32 { return 0xFFFFFFFF }

// CRC32Update folds data into a running CRC-32 accumulator produced by
// CRC32Init (or a previous CRC32Update call). The result is not yet
// finalized; call CRC32Finalize once all data has been folded in.
func CRC32Update(crc uint32, data []byte) uint32 {
	return crc32.Update(crc, crcTable, data)
}

// CRC32Finalize XORs a running accumulator with 0xFFFFFFFF, producing the
// value stored on the wire.
func CRC32Finalize(crc uint32) uint32 { return crc ^ 0xFFFFFFFF }

// CRC32 computes the finalized PNG chunk CRC-32 of data in one call.
func CRC32(data []byte) uint32 {
	return CRC32Finalize(CRC32Update(CRC32Init(), data))
}
