// Package snapshot persists frozen vectors.
//
// A snapshot holds the primitive columns of a vector together with a small
// manifest describing their kinds and sizes:
//
//	"UBXS" | u16 version | u16 reserved | u32 manifest length
//	manifest (MessagePack)
//	column sections
//	u32 CRC32C over manifest and sections
//
// Uncompressed sections start at a 64-byte aligned file offset, so a
// single-column snapshot can be memory-mapped and used in place (see Map).
// Compressed sections are a sequence of LZ4 or ZSTD blocks.
//
// Values are stored in native byte order; a snapshot is rejected on a
// platform with a different byte order or integer width.
package snapshot
