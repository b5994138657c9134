package snapshot

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/unboxed"
	"github.com/hupe1980/unboxed/blobstore"
	"github.com/hupe1980/unboxed/resource"
)

func encode(t *testing.T, v Columnar, optFns ...Option) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, v, optFns...))
	return buf.Bytes()
}

func ramp(t *testing.T, n int) unboxed.Vector[float64] {
	t.Helper()
	v, err := unboxed.Generate[float64](unboxed.Of[float64](), n, func(i int) float64 { return float64(i % 17) })
	require.NoError(t, err)
	return v
}

func TestRoundTrip(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			v := ramp(t, 100_000)
			data := encode(t, v, WithCompression(c), WithBlockSize(16*1024))

			got, err := Read[float64](context.Background(), bytes.NewReader(data), unboxed.Of[float64]())
			require.NoError(t, err)
			assert.True(t, unboxed.Equal(v, got))

			m, err := ReadManifest(context.Background(), bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, int64(100_000), m.Length)
			assert.Equal(t, c, m.Compression)
			require.Len(t, m.Columns, 1)
			assert.Equal(t, unboxed.KindFloat64, m.Columns[0].Kind)
			assert.Equal(t, int64(800_000), m.Columns[0].Bytes)
			if c != CompressionNone {
				assert.Less(t, m.Columns[0].Stored, m.Columns[0].Bytes)
			}
		})
	}
}

func TestRoundTrip_Incompressible(t *testing.T) {
	v, err := unboxed.Generate[uint64](unboxed.Of[uint64](), 4096, func(i int) uint64 {
		x := uint64(i) + 0x9e3779b97f4a7c15
		x ^= x >> 33
		x *= 0xff51afd7ed558ccd
		return x ^ x>>29
	})
	require.NoError(t, err)

	data := encode(t, v, WithCompression(CompressionLZ4), WithBlockSize(1000))
	got, err := Read[uint64](context.Background(), bytes.NewReader(data), unboxed.Of[uint64]())
	require.NoError(t, err)
	assert.True(t, unboxed.Equal(v, got))
}

type point struct {
	x int32
	y bool
}

func points() unboxed.Family[point] {
	return unboxed.Adapt[point, unboxed.Pair[int32, bool]](
		unboxed.PairOf[int32, bool](unboxed.Of[int32](), unboxed.Of[bool]()),
		unboxed.Iso[point, unboxed.Pair[int32, bool]]{
			To:   func(p point) unboxed.Pair[int32, bool] { return unboxed.MakePair(p.x, p.y) },
			From: func(p unboxed.Pair[int32, bool]) point { return point{p.First, p.Second} },
		},
	)
}

func TestRoundTrip_MultiColumn(t *testing.T) {
	v, err := unboxed.Generate(points(), 257, func(i int) point { return point{int32(-i), i%2 == 0} })
	require.NoError(t, err)

	for _, c := range []Compression{CompressionNone, CompressionZSTD} {
		data := encode(t, v, WithCompression(c))
		got, err := Read(context.Background(), bytes.NewReader(data), points())
		require.NoError(t, err)
		assert.Equal(t, unboxed.ToSlice(v), unboxed.ToSlice(got))
	}
}

func TestRoundTrip_Empty(t *testing.T) {
	v := unboxed.Borrow([]int16{})
	data := encode(t, v)

	got, err := Read[int16](context.Background(), bytes.NewReader(data), unboxed.Of[int16]())
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestUncompressedSectionsAligned(t *testing.T) {
	v, err := unboxed.Zip(unboxed.Borrow([]int8{1, 2, 3}), unboxed.Borrow([]float64{1, 2, 3}))
	require.NoError(t, err)
	data := encode(t, v)

	mlen := int(binary.LittleEndian.Uint32(data[8:]))
	off := headerSize + mlen
	off += padding(off)
	assert.Zero(t, off%sectionAlign)
	assert.Equal(t, []byte{1, 2, 3}, data[off:off+3])

	off += 3
	off += padding(off)
	assert.Equal(t, float64(1), math.Float64frombits(binary.NativeEndian.Uint64(data[off:])))
}

func TestCorruption(t *testing.T) {
	data := encode(t, ramp(t, 64))

	tests := []struct {
		name   string
		mutate func([]byte) []byte
		want   error
	}{
		{"flipped payload byte", func(b []byte) []byte { b[len(b)-10] ^= 0xFF; return b }, ErrCorrupted},
		{"flipped checksum", func(b []byte) []byte { b[len(b)-1] ^= 0x01; return b }, ErrCorrupted},
		{"truncated", func(b []byte) []byte { return b[:len(b)-9] }, ErrCorrupted},
		{"header only", func(b []byte) []byte { return b[:headerSize] }, ErrCorrupted},
		{"bad magic", func(b []byte) []byte { b[0] = 'X'; return b }, ErrBadMagic},
		{"future version", func(b []byte) []byte { binary.LittleEndian.PutUint16(b[4:], 99); return b }, ErrVersion},
		{"manifest length too large", func(b []byte) []byte { binary.LittleEndian.PutUint32(b[8:], 1<<30); return b }, ErrCorrupted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.mutate(bytes.Clone(data))
			_, err := Read[float64](context.Background(), bytes.NewReader(b), unboxed.Of[float64]())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestInvalidBool(t *testing.T) {
	bad := unboxed.Borrow([]uint8{0, 1, 2})
	cols := bad.Columns()
	cols[0].Kind = unboxed.KindBool
	data := encode(t, fakeColumnar{n: 3, cols: cols})

	_, err := Read[bool](context.Background(), bytes.NewReader(data), unboxed.Of[bool]())
	assert.ErrorIs(t, err, ErrCorrupted)
}

type fakeColumnar struct {
	n    int
	cols []unboxed.Column
}

func (f fakeColumnar) Len() int                  { return f.n }
func (f fakeColumnar) Columns() []unboxed.Column { return f.cols }

func TestShapeMismatch(t *testing.T) {
	data := encode(t, ramp(t, 8))

	_, err := Read[int64](context.Background(), bytes.NewReader(data), unboxed.Of[int64]())
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Read(context.Background(), bytes.NewReader(data), points())
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestWrite_RejectsBadColumns(t *testing.T) {
	cols := unboxed.Borrow([]int32{1, 2}).Columns()
	err := Write(context.Background(), &bytes.Buffer{}, fakeColumnar{n: 3, cols: cols})
	assert.Error(t, err)

	err = Write(context.Background(), &bytes.Buffer{}, ramp(t, 1), WithCompression(Compression(9)))
	assert.Error(t, err)
}

func TestEncodeRaw_Convert(t *testing.T) {
	v := ramp(t, 5000)
	raw, err := DecodeRaw(context.Background(), bytes.NewReader(encode(t, v)))
	require.NoError(t, err)
	assert.Equal(t, 5000, raw.Len())

	var buf bytes.Buffer
	require.NoError(t, EncodeRaw(context.Background(), &buf, raw, WithCompression(CompressionZSTD)))

	m, err := Verify(context.Background(), bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, CompressionZSTD, m.Compression)

	got, err := Read[float64](context.Background(), bytes.NewReader(buf.Bytes()), unboxed.Of[float64]())
	require.NoError(t, err)
	assert.True(t, unboxed.Equal(v, got))
}

func TestMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v.ubx")
	v := ramp(t, 1000)
	require.NoError(t, os.WriteFile(path, encode(t, v), 0o600))

	m, err := Map[float64](path)
	require.NoError(t, err)
	assert.True(t, unboxed.Equal(v, m.Vector()))
	assert.Equal(t, int64(1000), m.Manifest().Length)

	mv, err := m.Vector().Thaw()
	require.NoError(t, err)
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	x, err := mv.Read(999)
	require.NoError(t, err)
	assert.Equal(t, float64(999%17), x)
}

func TestMap_NotMappable(t *testing.T) {
	dir := t.TempDir()

	compressed := filepath.Join(dir, "c.ubx")
	require.NoError(t, os.WriteFile(compressed, encode(t, ramp(t, 10), WithCompression(CompressionLZ4)), 0o600))
	_, err := Map[float64](compressed)
	assert.ErrorIs(t, err, ErrNotMappable)

	pairs, perr := unboxed.Zip(unboxed.Borrow([]int8{1}), unboxed.Borrow([]int8{2}))
	require.NoError(t, perr)
	multi := filepath.Join(dir, "m.ubx")
	require.NoError(t, os.WriteFile(multi, encode(t, pairs), 0o600))
	_, err = Map[int8](multi)
	assert.ErrorIs(t, err, ErrNotMappable)

	plain := filepath.Join(dir, "p.ubx")
	require.NoError(t, os.WriteFile(plain, encode(t, ramp(t, 10)), 0o600))
	_, err = Map[int64](plain)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestPublishFetch(t *testing.T) {
	ctx := context.Background()
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 30})

	for name, store := range map[string]blobstore.BlobStore{
		"memory": blobstore.NewMemoryStore(),
		"local":  blobstore.NewLocalStore(t.TempDir()),
	} {
		t.Run(name, func(t *testing.T) {
			v := ramp(t, 2048)
			require.NoError(t, Publish(ctx, store, "snaps/ramp.ubx", v, WithCompression(CompressionZSTD), WithIOController(rc)))

			got, err := Fetch[float64](ctx, store, "snaps/ramp.ubx", unboxed.Of[float64](), WithIOController(rc))
			require.NoError(t, err)
			assert.True(t, unboxed.Equal(v, got))

			_, err = Fetch[float64](ctx, store, "missing", unboxed.Of[float64]())
			assert.ErrorIs(t, err, blobstore.ErrNotFound)
		})
	}
}

func TestParseCompression(t *testing.T) {
	for in, want := range map[string]Compression{"": CompressionNone, "none": CompressionNone, "LZ4": CompressionLZ4, "zstd": CompressionZSTD} {
		got, err := ParseCompression(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseCompression("gzip")
	assert.Error(t, err)
	assert.Equal(t, "compression(7)", Compression(7).String())
}
