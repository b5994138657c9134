package unboxed

import (
	"iter"
	"unsafe"
)

// MVector is an exclusively owned, mutable, contiguous vector of T.
//
// Views returned by Slice share the owner's storage and its lease: Grow and
// Freeze on any of them revoke the lease, after which every handle of that
// generation reports ErrInvalidated. Len keeps reporting the last length.
type MVector[T any] interface {
	// Len returns the number of elements in the view.
	Len() int
	// Slice returns a non-owning view of [i, i+n).
	Slice(i, n int) (MVector[T], error)
	// Overlaps reports whether the backing memory of both views intersects.
	Overlaps(other MVector[T]) bool
	// Read returns a copy of element i.
	Read(i int) (T, error)
	// Write overwrites element i.
	Write(i int, v T) error
	// Clear releases resources held by elements without releasing the
	// buffer. It is a no-op for primitive columns and is idempotent.
	Clear()
	// Fill overwrites every element with v.
	Fill(v T) error
	// Copy copies src into the receiver. Lengths must match. Overlapping
	// views are copied as if through a temporary buffer.
	Copy(src MVector[T]) error
	// Grow returns a vector of Len()+extra elements with the receiver's
	// elements as prefix and zero values after. The receiver is invalidated.
	Grow(extra int) (MVector[T], error)
	// Freeze converts the vector into an immutable Vector without copying.
	// The receiver is invalidated.
	Freeze() (Vector[T], error)
	// Columns returns raw byte views of the primitive columns backing the
	// view, in declaration order.
	Columns() []Column
}

// Vector is an immutable, shareable vector of T. It is safe for concurrent
// readers. Slices alias the same storage.
type Vector[T any] interface {
	// Len returns the number of elements.
	Len() int
	// Slice returns a sub-view of [i, i+n).
	Slice(i, n int) (Vector[T], error)
	// Index returns element i.
	Index(i int) (T, error)
	// Thaw copies the vector into a fresh, independent MVector.
	Thaw() (MVector[T], error)
	// CopyInto copies the vector into dst. Lengths must match.
	CopyInto(dst MVector[T]) error
	// All iterates over index/element pairs.
	All() iter.Seq2[int, T]
	// Columns returns read-only byte views of the backing columns.
	Columns() []Column
}

// Family allocates vectors of T. A Family is the storage definition for an
// element type: primitive columns (Of), struct-of-arrays pairs (PairOf) and
// representation adapters (Adapt) all implement it.
type Family[T any] interface {
	New(n int) (MVector[T], error)
}

// Column is a raw view of one primitive column.
type Column struct {
	Kind  Kind
	Width int
	Data  []byte
}

// Freeze is shorthand for mv.Freeze().
func Freeze[T any](mv MVector[T]) (Vector[T], error) {
	return mv.Freeze()
}

// Thaw is shorthand for v.Thaw().
func Thaw[T any](v Vector[T]) (MVector[T], error) {
	return v.Thaw()
}

// Elemseq returns result. Go evaluates arguments strictly, so every element
// of v and the value x are already evaluated when Elemseq is called; the
// function exists to keep evaluation-order hints explicit at call sites.
func Elemseq[T, R any](v Vector[T], x T, result R) R {
	return result
}

// liveChecker is implemented by vectors that can report a revoked lease
// without touching their elements.
type liveChecker interface {
	live(op string) error
}

// checkLive reports ErrInvalidated for a revoked mv. Vectors that cannot tell
// are assumed live.
func checkLive[T any](mv MVector[T], op string) error {
	if c, ok := mv.(liveChecker); ok {
		return c.live(op)
	}
	return nil
}

// overlapping reports whether any column of a intersects any column of b in
// memory.
func overlapping(a, b []Column) bool {
	for _, ca := range a {
		if len(ca.Data) == 0 {
			continue
		}
		aStart := uintptr(unsafe.Pointer(unsafe.SliceData(ca.Data))) //nolint:gosec // address comparison only
		aEnd := aStart + uintptr(len(ca.Data))
		for _, cb := range b {
			if len(cb.Data) == 0 {
				continue
			}
			bStart := uintptr(unsafe.Pointer(unsafe.SliceData(cb.Data))) //nolint:gosec // address comparison only
			bEnd := bStart + uintptr(len(cb.Data))
			if aStart < bEnd && bStart < aEnd {
				return true
			}
		}
	}
	return false
}
