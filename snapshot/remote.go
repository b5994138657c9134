package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/unboxed"
	"github.com/hupe1980/unboxed/blobstore"
)

// Publish writes v as the blob name in store.
func Publish(ctx context.Context, store blobstore.BlobStore, name string, v Columnar, optFns ...Option) error {
	var buf bytes.Buffer
	if err := Write(ctx, &buf, v, optFns...); err != nil {
		return err
	}
	if err := store.Put(ctx, name, buf.Bytes()); err != nil {
		return fmt.Errorf("publish %s: %w", name, err)
	}
	return nil
}

// FetchRaw reads and verifies the blob name from store.
func FetchRaw(ctx context.Context, store blobstore.BlobStore, name string, optFns ...Option) (*Raw, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer blob.Close()

	return DecodeRaw(ctx, io.NewSectionReader(blobstore.ReaderAt(ctx, blob), 0, blob.Size()), optFns...)
}

// Fetch reads the blob name from store into a new vector of family f.
func Fetch[T any](ctx context.Context, store blobstore.BlobStore, name string, f unboxed.Family[T], optFns ...Option) (unboxed.Vector[T], error) {
	raw, err := FetchRaw(ctx, store, name, optFns...)
	if err != nil {
		return nil, err
	}
	return FromRaw(raw, f)
}
