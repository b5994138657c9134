// Package mem provides memory allocation utilities for column storage.
//
// # Aligned Allocation
//
// Columns are allocated on 64-byte boundaries (cache line and AVX-512
// friendly). Alignment also lets the snapshot package hand the same bytes to
// an mmap-backed vector without any re-layout.
package mem
