package snapshot

import (
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/unboxed"
	"github.com/hupe1980/unboxed/resource"
)

// DecodeRaw reads and verifies a complete snapshot without knowing its
// element type.
func DecodeRaw(ctx context.Context, r io.Reader, optFns ...Option) (*Raw, error) {
	opts := applyOptions(optFns)
	if opts.rc != nil {
		r = resource.NewRateLimitedReader(ctx, r, opts.rc)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

// Read decodes a snapshot into a new vector of family f. The family's
// columns must match the stored columns in number, kind and order.
func Read[T any](ctx context.Context, r io.Reader, f unboxed.Family[T], optFns ...Option) (unboxed.Vector[T], error) {
	raw, err := DecodeRaw(ctx, r, optFns...)
	if err != nil {
		return nil, err
	}
	return FromRaw(raw, f)
}

// FromRaw copies a decoded snapshot into a new vector of family f.
func FromRaw[T any](raw *Raw, f unboxed.Family[T]) (unboxed.Vector[T], error) {
	mv, err := f.New(raw.Len())
	if err != nil {
		return nil, err
	}

	dst := mv.Columns()
	src := raw.Columns()
	if len(dst) != len(src) {
		return nil, fmt.Errorf("%w: family has %d columns, snapshot has %d", ErrShapeMismatch, len(dst), len(src))
	}
	for i := range dst {
		if dst[i].Kind != src[i].Kind {
			return nil, fmt.Errorf("%w: column %d is %s, snapshot has %s", ErrShapeMismatch, i, dst[i].Kind, src[i].Kind)
		}
		copy(dst[i].Data, src[i].Data)
	}
	return mv.Freeze()
}

// ReadManifest reads only the header and manifest of a snapshot. The
// checksum is not verified.
func ReadManifest(ctx context.Context, r io.Reader, optFns ...Option) (*Manifest, error) {
	opts := applyOptions(optFns)
	if opts.rc != nil {
		r = resource.NewRateLimitedReader(ctx, r, opts.rc)
	}

	h := make([]byte, headerSize)
	if _, err := io.ReadFull(r, h); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorrupted, err)
	}
	mlen, version, err := parseHeader(h)
	if err != nil {
		return nil, err
	}

	b := make([]byte, mlen)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("%w: manifest: %v", ErrCorrupted, err)
	}
	return unmarshalManifest(b, version)
}

// Verify reads a complete snapshot and checks its checksum and contents.
func Verify(ctx context.Context, r io.Reader, optFns ...Option) (*Manifest, error) {
	raw, err := DecodeRaw(ctx, r, optFns...)
	if err != nil {
		return nil, err
	}
	return &raw.Manifest, nil
}
