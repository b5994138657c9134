package mem

import (
	"errors"
	"fmt"
	"math"
	"unsafe"
)

// Alignment is the byte alignment of every allocation (64 bytes).
const Alignment = 64

// ErrSize is returned when a requested allocation size cannot be represented.
var ErrSize = errors.New("mem: invalid allocation size")

// Bytes returns the number of bytes needed for n elements of T, or ErrSize if
// n is negative or the product overflows.
func Bytes[T any](n int) (int64, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: %d elements", ErrSize, n)
	}
	var zero T
	width := int64(unsafe.Sizeof(zero))
	if width != 0 && int64(n) > (math.MaxInt64-Alignment)/width {
		return 0, fmt.Errorf("%w: %d elements of %d bytes", ErrSize, n, width)
	}
	return int64(n) * width, nil
}

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	// Over-allocate so the start can be shifted up to Alignment-1 bytes.
	buf := make([]byte, size+Alignment)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}

// Alloc allocates a zeroed slice of n elements of T starting on a 64-byte
// boundary. T must not contain pointers: the backing array is a []byte the
// garbage collector does not scan.
//
// Alloc panics like make does when the size is out of range; callers that
// need an error recover it.
func Alloc[T any](n int) []T {
	if n <= 0 {
		return []T{}
	}
	var zero T
	width := int(unsafe.Sizeof(zero))
	if width == 0 {
		return make([]T, n)
	}

	raw := AllocAligned(n * width)
	return unsafe.Slice((*T)(unsafe.Pointer(&raw[0])), n) //nolint:gosec // unsafe is required for memory alignment
}

// AsBytes returns the raw bytes backing s. The result aliases s.
func AsBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	width := int(unsafe.Sizeof(zero))
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*width) //nolint:gosec // zero-copy view
}

// FromBytes reinterprets b as a slice of T without copying. The length of b
// must be a multiple of the element width and b must be suitably aligned.
func FromBytes[T any](b []byte) ([]T, error) {
	var zero T
	width := int(unsafe.Sizeof(zero))
	if width == 0 {
		return nil, fmt.Errorf("%w: zero-width element", ErrSize)
	}
	if len(b)%width != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrSize, len(b), width)
	}
	if len(b) == 0 {
		return []T{}, nil
	}
	if uintptr(unsafe.Pointer(&b[0]))%unsafe.Alignof(zero) != 0 { //nolint:gosec // alignment check
		return nil, fmt.Errorf("%w: misaligned buffer", ErrSize)
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), len(b)/width), nil //nolint:gosec // zero-copy view
}
