// Package mmap provides read-only memory-mapped file access for zero-copy
// snapshot loading.
//
// # Usage
//
//	m, err := mmap.Open("weights.ubx")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes() // valid until Close
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) access hints
//   - Other platforms: the file is read into memory; Advise is a no-op
//
// # Thread Safety
//
// A Mapping is safe for concurrent readers. Close is idempotent, but callers
// must ensure nothing touches Bytes() after Close returns.
package mmap
