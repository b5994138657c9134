package unboxed

import (
	"context"
	"fmt"
	"iter"
	"math"
	"runtime"

	"github.com/hupe1980/unboxed/internal/mem"
)

// Prims is the family of flat, contiguous columns of a primitive type.
//
// Storage is allocated on 64-byte boundaries and, when a controller is
// configured, charged against its memory budget.
type Prims[T Prim] struct {
	opts  options
	kind  Kind
	width int
}

// Of returns the column family for T.
func Of[T Prim](optFns ...Option) *Prims[T] {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	kind := KindOf[T]()
	opts.logger = opts.logger.WithKind(kind)
	return &Prims[T]{
		opts:  opts,
		kind:  kind,
		width: WidthOf[T](),
	}
}

// Kind returns the column kind.
func (p *Prims[T]) Kind() Kind { return p.kind }

// Width returns the element width in bytes.
func (p *Prims[T]) Width() int { return p.width }

// New allocates n zero-valued elements.
func (p *Prims[T]) New(n int) (MVector[T], error) {
	buf, err := p.alloc(n, n)
	if err != nil {
		return nil, err
	}
	return p.handle(buf, 0, n), nil
}

// Borrow returns a frozen vector over data without copying. The caller must
// not modify data while the vector is in use.
func Borrow[T Prim](data []T) Vector[T] {
	return &primVector[T]{fam: Of[T](), data: data[:len(data):len(data)]}
}

// buffer is one allocation. used is the prefix handed out to vectors; the
// rest is zeroed spare capacity for in-place growth.
type buffer[T Prim] struct {
	data []T
	used int
}

// lease is shared by every view of one ownership generation.
type lease struct {
	revoked bool
}

func (p *Prims[T]) handle(buf *buffer[T], off, n int) *primMVector[T] {
	return &primMVector[T]{fam: p, buf: buf, lease: &lease{}, off: off, n: n}
}

func (p *Prims[T]) alloc(n, capacity int) (buf *buffer[T], err error) {
	bytes, err := mem.Bytes[T](capacity)
	if err != nil {
		return nil, p.allocFailed(capacity, 0, err)
	}

	ctrl := p.opts.controller
	if err := ctrl.AcquireMemory(bytes); err != nil {
		return nil, p.allocFailed(capacity, bytes, err)
	}

	defer func() {
		if r := recover(); r != nil {
			re, ok := r.(runtime.Error)
			if !ok {
				panic(r)
			}
			ctrl.ReleaseMemory(bytes)
			buf, err = nil, p.allocFailed(capacity, bytes, re)
		}
	}()

	buf = &buffer[T]{data: mem.Alloc[T](capacity), used: n}
	if ctrl != nil && bytes > 0 {
		runtime.AddCleanup(buf, ctrl.ReleaseMemory, bytes)
	}

	p.opts.metrics.RecordAlloc(bytes, nil)
	p.opts.logger.LogAlloc(context.Background(), capacity, bytes, nil)
	return buf, nil
}

func (p *Prims[T]) allocFailed(elems int, bytes int64, cause error) error {
	err := &AllocationError{Elems: elems, Bytes: bytes, cause: cause}
	p.opts.metrics.RecordAlloc(bytes, err)
	p.opts.logger.LogAlloc(context.Background(), elems, bytes, err)
	return err
}

type primMVector[T Prim] struct {
	fam    *Prims[T]
	buf    *buffer[T]
	lease  *lease
	off, n int
}

func (v *primMVector[T]) view() []T {
	return v.buf.data[v.off : v.off+v.n : v.off+v.n]
}

func (v *primMVector[T]) live(op string) error {
	if v.lease.revoked {
		return invalidated(op)
	}
	return nil
}

func (v *primMVector[T]) Len() int { return v.n }

func (v *primMVector[T]) Slice(i, n int) (MVector[T], error) {
	if err := v.live("slice"); err != nil {
		return nil, err
	}
	if err := checkSlice("slice", i, n, v.n); err != nil {
		return nil, err
	}
	return &primMVector[T]{fam: v.fam, buf: v.buf, lease: v.lease, off: v.off + i, n: n}, nil
}

func (v *primMVector[T]) Overlaps(other MVector[T]) bool {
	if o, ok := other.(*primMVector[T]); ok {
		if o.buf != v.buf || v.n == 0 || o.n == 0 {
			return false
		}
		return v.off < o.off+o.n && o.off < v.off+v.n
	}
	return overlapping(v.Columns(), other.Columns())
}

func (v *primMVector[T]) Read(i int) (T, error) {
	if err := v.live("read"); err != nil {
		var zero T
		return zero, err
	}
	if err := checkIndex("read", i, v.n); err != nil {
		var zero T
		return zero, err
	}
	return v.buf.data[v.off+i], nil
}

func (v *primMVector[T]) Write(i int, x T) error {
	if err := v.live("write"); err != nil {
		return err
	}
	if err := checkIndex("write", i, v.n); err != nil {
		return err
	}
	v.buf.data[v.off+i] = x
	return nil
}

// Clear is a no-op: primitive elements own no resources.
func (v *primMVector[T]) Clear() {}

func (v *primMVector[T]) Fill(x T) error {
	if err := v.live("fill"); err != nil {
		return err
	}
	s := v.view()
	for i := range s {
		s[i] = x
	}
	return nil
}

func (v *primMVector[T]) Copy(src MVector[T]) error {
	if err := v.live("copy"); err != nil {
		return err
	}
	if src.Len() != v.n {
		return lengthError("copy", v.n, src.Len())
	}
	if s, ok := src.(*primMVector[T]); ok {
		if err := s.live("copy"); err != nil {
			return err
		}
		if s.buf == v.buf && s.off == v.off {
			return nil
		}
		// The builtin has memmove semantics, so shifted overlapping views
		// are copied correctly.
		copy(v.view(), s.view())
		return nil
	}
	return copyElems(v, src)
}

func (v *primMVector[T]) Grow(extra int) (MVector[T], error) {
	if err := v.live("grow"); err != nil {
		return nil, err
	}
	if extra < 0 {
		return nil, sliceError("grow", v.n, extra, v.n)
	}
	if extra > math.MaxInt-v.n {
		return nil, v.fam.allocFailed(v.n, 0, fmt.Errorf("length %d + %d overflows", v.n, extra))
	}
	required := v.n + extra

	// The view ends at the used extent and the spare capacity fits: extend
	// in place. Spare capacity is never handed out, so the tail is zero.
	if end := v.off + v.n; end == v.buf.used && extra <= len(v.buf.data)-end {
		v.lease.revoked = true
		v.buf.used = end + extra
		v.fam.opts.metrics.RecordGrow(extra, true)
		return v.fam.handle(v.buf, v.off, required), nil
	}

	capacity := capacityFor(v.fam.opts.growth, v.n, required)
	buf, err := v.fam.alloc(required, capacity)
	if err != nil {
		return nil, err
	}
	copy(buf.data, v.view())
	v.lease.revoked = true

	v.fam.opts.metrics.RecordGrow(extra, false)
	v.fam.opts.logger.LogGrow(context.Background(), v.n, required, capacity)
	return v.fam.handle(buf, 0, required), nil
}

func (v *primMVector[T]) Freeze() (Vector[T], error) {
	if err := v.live("freeze"); err != nil {
		return nil, err
	}
	v.lease.revoked = true
	v.fam.opts.metrics.RecordFreeze(v.n)
	return &primVector[T]{fam: v.fam, buf: v.buf, data: v.view()}, nil
}

func (v *primMVector[T]) Columns() []Column {
	return []Column{{Kind: v.fam.kind, Width: v.fam.width, Data: mem.AsBytes(v.view())}}
}

// primVector holds buf so the budget reserved for the allocation is only
// released once no frozen view of it is reachable. buf is nil for borrowed
// memory.
type primVector[T Prim] struct {
	fam  *Prims[T]
	buf  *buffer[T]
	data []T
}

func (v *primVector[T]) Len() int { return len(v.data) }

func (v *primVector[T]) Slice(i, n int) (Vector[T], error) {
	if err := checkSlice("slice", i, n, len(v.data)); err != nil {
		return nil, err
	}
	return &primVector[T]{fam: v.fam, buf: v.buf, data: v.data[i : i+n : i+n]}, nil
}

func (v *primVector[T]) Index(i int) (T, error) {
	if err := checkIndex("index", i, len(v.data)); err != nil {
		var zero T
		return zero, err
	}
	return v.data[i], nil
}

func (v *primVector[T]) Thaw() (MVector[T], error) {
	buf, err := v.fam.alloc(len(v.data), len(v.data))
	if err != nil {
		v.fam.opts.metrics.RecordThaw(len(v.data), err)
		return nil, err
	}
	copy(buf.data, v.data)
	v.fam.opts.metrics.RecordThaw(len(v.data), nil)
	return v.fam.handle(buf, 0, len(v.data)), nil
}

func (v *primVector[T]) CopyInto(dst MVector[T]) error {
	if dst.Len() != len(v.data) {
		return lengthError("copy into", dst.Len(), len(v.data))
	}
	if d, ok := dst.(*primMVector[T]); ok {
		if err := d.live("copy into"); err != nil {
			return err
		}
		copy(d.view(), v.data)
		return nil
	}
	return copyFromVector(dst, v)
}

func (v *primVector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, x := range v.data {
			if !yield(i, x) {
				return
			}
		}
	}
}

func (v *primVector[T]) Columns() []Column {
	return []Column{{Kind: v.fam.kind, Width: v.fam.width, Data: mem.AsBytes(v.data)}}
}
