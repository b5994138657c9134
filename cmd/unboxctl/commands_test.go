package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/unboxed"
	"github.com/hupe1980/unboxed/snapshot"
)

var testValues = []int64{1, 2, 3, 5, 8}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeSnapshot(t *testing.T, path string, xs []int64, optFns ...snapshot.Option) {
	t.Helper()
	mv, err := unboxed.FromSlice[int64](unboxed.Of[int64](), xs)
	require.NoError(t, err)
	v, err := mv.Freeze()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, snapshot.Write(context.Background(), &buf, v, optFns...))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func readSnapshot(t *testing.T, path string) []int64 {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := snapshot.Read[int64](context.Background(), f, unboxed.Of[int64]())
	require.NoError(t, err)
	return unboxed.ToSlice(v)
}

func corrupt(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-5] ^= 0xff
	require.NoError(t, os.WriteFile(path, data, 0o600))
}

func TestInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fib.ubx")
	writeSnapshot(t, path, testValues)

	out, err := run(t, "inspect", path)
	require.NoError(t, err)

	assert.Contains(t, out, "length:      5")
	assert.Contains(t, out, "compression: none")
	assert.Contains(t, out, "columns:     1")
	assert.Contains(t, out, "int64")
	assert.Contains(t, out, "bytes=40")
	assert.NotContains(t, out, "block size")
}

func TestInspectNotSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a snapshot"), 0o600))

	_, err := run(t, "inspect", path)
	require.ErrorIs(t, err, snapshot.ErrBadMagic)
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.ubx")
	bad := filepath.Join(dir, "bad.ubx")
	writeSnapshot(t, good, testValues)
	writeSnapshot(t, bad, testValues)
	corrupt(t, bad)

	out, err := run(t, "verify", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok   "+good)

	out, err = run(t, "verify", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, out, "FAIL "+bad)
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.ubx")
	out := filepath.Join(dir, "out.ubx")
	writeSnapshot(t, in, testValues)

	_, err := run(t, "convert", "--compression", "zstd", "--block-size", "16", in, out)
	require.NoError(t, err)

	info, err := run(t, "inspect", out)
	require.NoError(t, err)
	assert.Contains(t, info, "compression: zstd")
	assert.Contains(t, info, "block size:  16")

	assert.Equal(t, testValues, readSnapshot(t, out))

	// And back to uncompressed using the configured default.
	back := filepath.Join(dir, "back.ubx")
	_, err = run(t, "convert", out, back)
	require.NoError(t, err)
	assert.Equal(t, testValues, readSnapshot(t, back))
}

func TestConvertUsesConfig(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.ubx")
	out := filepath.Join(dir, "out.ubx")
	writeSnapshot(t, in, testValues)
	cfg := writeConfig(t, "[snapshot]\ncompression = \"lz4\"\n")

	_, err := run(t, "--config", cfg, "convert", in, out)
	require.NoError(t, err)

	info, err := run(t, "inspect", out)
	require.NoError(t, err)
	assert.Contains(t, info, "compression: lz4")
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.ubx")
	out := filepath.Join(dir, "out.ubx")
	writeSnapshot(t, in, testValues)

	_, err := run(t, "convert", "--compression", "brotli", in, out)
	require.Error(t, err)

	corrupt(t, in)
	_, err = run(t, "convert", in, out)
	require.ErrorIs(t, err, snapshot.ErrCorrupted)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestPushPull(t *testing.T) {
	dir := t.TempDir()
	storeDir := filepath.Join(dir, "store")
	src := filepath.Join(dir, "fib.ubx")
	dst := filepath.Join(dir, "copy.ubx")
	writeSnapshot(t, src, testValues, snapshot.WithCompression(snapshot.CompressionLZ4))

	out, err := run(t, "--store", "local", "--path", storeDir, "push", src, "series/fib.ubx")
	require.NoError(t, err)
	assert.Contains(t, out, "pushed series/fib.ubx")

	out, err = run(t, "--path", storeDir, "ls", "series/")
	require.NoError(t, err)
	assert.Equal(t, "series/fib.ubx\n", out)

	_, err = run(t, "--path", storeDir, "pull", "series/fib.ubx", dst)
	require.NoError(t, err)

	want, err := os.ReadFile(src)
	require.NoError(t, err)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, testValues, readSnapshot(t, dst))
}

func TestPushRejectsCorrupt(t *testing.T) {
	dir := t.TempDir()
	storeDir := filepath.Join(dir, "store")
	src := filepath.Join(dir, "bad.ubx")
	writeSnapshot(t, src, testValues)
	corrupt(t, src)

	_, err := run(t, "--path", storeDir, "push", src)
	require.ErrorIs(t, err, snapshot.ErrCorrupted)

	out, err := run(t, "--path", storeDir, "ls")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestPullMissing(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "--path", dir, "pull", "missing.ubx", filepath.Join(dir, "out.ubx"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestUnsupportedStore(t *testing.T) {
	_, err := run(t, "--store", "ftp", "ls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store kind")
}
