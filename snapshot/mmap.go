package snapshot

import (
	"fmt"

	"github.com/hupe1980/unboxed"
	"github.com/hupe1980/unboxed/internal/mem"
	"github.com/hupe1980/unboxed/internal/mmap"
)

// Mapped is a vector backed directly by a memory-mapped snapshot file.
type Mapped[T unboxed.Prim] struct {
	m        *mmap.Mapping
	v        unboxed.Vector[T]
	manifest Manifest
}

// Map memory-maps an uncompressed single-column snapshot of T and returns a
// vector over the file without copying. The vector must not be used after
// Close.
func Map[T unboxed.Prim](path string) (_ *Mapped[T], err error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = m.Close()
		}
	}()

	raw, err := decode(m.Bytes())
	if err != nil {
		return nil, err
	}
	if raw.Manifest.Compression != CompressionNone {
		return nil, fmt.Errorf("%w: %s compression", ErrNotMappable, raw.Manifest.Compression)
	}
	cols := raw.Columns()
	if len(cols) != 1 {
		return nil, fmt.Errorf("%w: %d columns", ErrNotMappable, len(cols))
	}
	if kind := unboxed.KindOf[T](); cols[0].Kind != kind {
		return nil, fmt.Errorf("%w: column is %s, want %s", ErrShapeMismatch, cols[0].Kind, kind)
	}

	data, err := mem.FromBytes[T](cols[0].Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotMappable, err)
	}
	if err := m.Advise(mmap.AccessRandom); err != nil {
		return nil, err
	}

	return &Mapped[T]{m: m, v: unboxed.Borrow(data), manifest: raw.Manifest}, nil
}

// Vector returns the mapped vector.
func (m *Mapped[T]) Vector() unboxed.Vector[T] { return m.v }

// Manifest returns the snapshot manifest.
func (m *Mapped[T]) Manifest() Manifest { return m.manifest }

// Close unmaps the file. It is idempotent.
func (m *Mapped[T]) Close() error { return m.m.Close() }
