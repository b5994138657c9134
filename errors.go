package unboxed

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned for an index or slice outside a vector's length.
	ErrOutOfRange = errors.New("index out of range")

	// ErrLengthMismatch is returned when copy source and destination differ in length.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrAllocation is returned when storage for a vector cannot be allocated.
	ErrAllocation = errors.New("allocation failure")

	// ErrInvalidated is returned when a handle is used after Grow or Freeze
	// transferred ownership of its storage.
	ErrInvalidated = errors.New("vector handle invalidated")
)

// RangeError describes a rejected index or slice request.
//
// It satisfies errors.Is(err, ErrOutOfRange).
type RangeError struct {
	Op    string
	Index int
	Count int // slice length; zero for element access
	Len   int
	slice bool
}

func (e *RangeError) Error() string {
	if e.slice {
		return fmt.Sprintf("%s: [%d:+%d] out of range for length %d", e.Op, e.Index, e.Count, e.Len)
	}
	return fmt.Sprintf("%s: index %d out of range for length %d", e.Op, e.Index, e.Len)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// LengthMismatchError describes a copy between vectors of different length.
//
// It satisfies errors.Is(err, ErrLengthMismatch).
type LengthMismatchError struct {
	Op  string
	Dst int
	Src int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("%s: destination length %d, source length %d", e.Op, e.Dst, e.Src)
}

func (e *LengthMismatchError) Unwrap() error { return ErrLengthMismatch }

// AllocationError describes a failed allocation.
//
// It satisfies errors.Is(err, ErrAllocation); the underlying cause (for
// example resource.ErrMemoryLimitExceeded) is reachable via errors.Is/As too.
type AllocationError struct {
	Elems int
	Bytes int64
	cause error
}

func (e *AllocationError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("allocation failure: %d elements (%d bytes)", e.Elems, e.Bytes)
	}
	return fmt.Sprintf("allocation failure: %d elements (%d bytes): %v", e.Elems, e.Bytes, e.cause)
}

func (e *AllocationError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrAllocation}
	}
	return []error{ErrAllocation, e.cause}
}

func indexError(op string, i, n int) error {
	return &RangeError{Op: op, Index: i, Len: n}
}

func sliceError(op string, i, count, n int) error {
	return &RangeError{Op: op, Index: i, Count: count, Len: n, slice: true}
}

func lengthError(op string, dst, src int) error {
	return &LengthMismatchError{Op: op, Dst: dst, Src: src}
}

func invalidated(op string) error {
	return fmt.Errorf("%s: %w", op, ErrInvalidated)
}

// checkIndex validates 0 <= i < n.
func checkIndex(op string, i, n int) error {
	if i < 0 || i >= n {
		return indexError(op, i, n)
	}
	return nil
}

// checkSlice validates the window [i, i+count) against n without overflowing.
func checkSlice(op string, i, count, n int) error {
	if i < 0 || count < 0 || i > n || count > n-i {
		return sliceError(op, i, count, n)
	}
	return nil
}
