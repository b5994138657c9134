package blobstore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()

	data := []byte("hello world, this is a snapshot blob")
	require.NoError(t, store.Put(ctx, "snaps/a.ubx", data))
	require.NoError(t, store.Put(ctx, "snaps/b.ubx", []byte("b")))
	require.NoError(t, store.Put(ctx, "other.ubx", []byte("c")))

	blob, err := store.Open(ctx, "snaps/a.ubx")
	require.NoError(t, err)
	defer blob.Close()

	assert.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, 5)
	n, err := blob.ReadAt(ctx, buf, 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "world", string(buf))

	buf = make([]byte, 10)
	n, err = blob.ReadAt(ctx, buf, int64(len(data)-4))
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 4, n)

	_, err = blob.ReadAt(ctx, buf, -1)
	assert.ErrorIs(t, err, ErrNegativeOffset)

	all, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, data, all)

	sr := io.NewSectionReader(ReaderAt(ctx, blob), 0, blob.Size())
	viaReader, err := io.ReadAll(sr)
	require.NoError(t, err)
	assert.Equal(t, data, viaReader)

	names, err := store.List(ctx, "snaps/")
	require.NoError(t, err)
	assert.Equal(t, []string{"snaps/a.ubx", "snaps/b.ubx"}, names)

	names, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, names, 3)

	// Put replaces.
	require.NoError(t, store.Put(ctx, "snaps/b.ubx", []byte("bb")))
	b, err := store.Open(ctx, "snaps/b.ubx")
	require.NoError(t, err)
	assert.Equal(t, int64(2), b.Size())
	require.NoError(t, b.Close())

	require.NoError(t, store.Delete(ctx, "snaps/b.ubx"))
	require.NoError(t, store.Delete(ctx, "snaps/b.ubx"))

	_, err = store.Open(ctx, "snaps/b.ubx")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStore_PutCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	data := []byte("abc")
	require.NoError(t, store.Put(ctx, "x", data))
	data[0] = 'z'

	blob, err := store.Open(ctx, "x")
	require.NoError(t, err)
	got, err := ReadAll(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestLocalStore(t *testing.T) {
	testStore(t, NewLocalStore(t.TempDir()))
}

func TestLocalStore_AtomicPut(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "nested/dir/blob", []byte("data")))

	content, err := os.ReadFile(filepath.Join(dir, "nested", "dir", "blob"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))

	entries, err := os.ReadDir(filepath.Join(dir, "nested", "dir"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must be renamed away")
}

func TestLocalStore_Mappable(t *testing.T) {
	store := NewLocalStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "m", []byte("mapped")))

	blob, err := store.Open(ctx, "m")
	require.NoError(t, err)

	m, ok := blob.(Mappable)
	require.True(t, ok)
	data, err := m.Bytes()
	require.NoError(t, err)
	assert.Equal(t, "mapped", string(data))

	require.NoError(t, blob.Close())
	_, err = m.Bytes()
	assert.Error(t, err)
}

func TestLocalStore_ListMissingRoot(t *testing.T) {
	store := NewLocalStore(filepath.Join(t.TempDir(), "missing"))
	names, err := store.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, names)
}
