// Package hash provides the checksum used by snapshot files and blob uploads.
//
// All checksums use CRC32-Castagnoli (CRC32C), which Go's hash/crc32 computes
// with SSE4.2 or the ARM CRC extension when available.
package hash

import (
	"hash"
	"hash/crc32"
)

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// NewCRC32C returns a streaming CRC32-Castagnoli hash.Hash32.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}
