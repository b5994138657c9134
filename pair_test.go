package unboxed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/unboxed/resource"
)

func newPairs() *Pairs[int32, float64] {
	return PairOf[int32, float64](Of[int32](), Of[float64]())
}

func TestPairs_ReadWrite(t *testing.T) {
	mv, err := newPairs().New(3)
	require.NoError(t, err)

	require.NoError(t, mv.Write(1, MakePair[int32](7, 2.5)))
	p, err := mv.Read(1)
	require.NoError(t, err)
	assert.Equal(t, Pair[int32, float64]{First: 7, Second: 2.5}, p)

	cols := mv.Columns()
	require.Len(t, cols, 2)
	assert.Equal(t, KindInt32, cols[0].Kind)
	assert.Equal(t, KindFloat64, cols[1].Kind)
	assert.Len(t, cols[0].Data, 12)
	assert.Len(t, cols[1].Data, 24)

	_, err = mv.Read(3)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestPairs_SliceFillCopy(t *testing.T) {
	mv, err := newPairs().New(4)
	require.NoError(t, err)
	for i := range 4 {
		require.NoError(t, mv.Write(i, MakePair(int32(i), float64(i)/2)))
	}

	s, err := mv.Slice(2, 2)
	require.NoError(t, err)
	require.NoError(t, s.Fill(MakePair[int32](9, 9.0)))

	src, _ := mv.Slice(0, 3)
	dst, _ := mv.Slice(1, 3)
	assert.True(t, dst.Overlaps(src))
	require.NoError(t, dst.Copy(src))

	assert.Equal(t, []Pair[int32, float64]{
		{0, 0}, {0, 0}, {1, 0.5}, {9, 9},
	}, readAll(t, mv))
}

func TestPairs_GrowFreeze(t *testing.T) {
	mv, err := newPairs().New(2)
	require.NoError(t, err)
	require.NoError(t, mv.Write(0, MakePair[int32](1, 1.5)))

	g, err := mv.Grow(1)
	require.NoError(t, err)
	assert.Equal(t, []Pair[int32, float64]{{1, 1.5}, {0, 0}, {0, 0}}, readAll(t, g))

	_, err = mv.Read(0)
	assert.ErrorIs(t, err, ErrInvalidated)

	v, err := g.Freeze()
	require.NoError(t, err)
	assert.Equal(t, 3, v.Len())

	a, b, ok := Unzip(v)
	require.True(t, ok)
	assert.Equal(t, []int32{1, 0, 0}, ToSlice(a))
	assert.Equal(t, []float64{1.5, 0, 0}, ToSlice(b))
}

func TestPairs_GrowSecondColumnFails(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64})
	f := PairOf[int32, float64](Of[int32](), Of[float64](WithController(rc)))

	mv, err := f.New(4)
	require.NoError(t, err)
	require.NoError(t, mv.Write(3, MakePair[int32, float64](3, 3)))

	_, err = mv.Grow(100)
	require.ErrorIs(t, err, ErrAllocation)

	// The receiver keeps working with its original length.
	assert.Equal(t, 4, mv.Len())
	p, err := mv.Read(3)
	require.NoError(t, err)
	assert.Equal(t, MakePair[int32](3, 3.0), p)
}

func TestPairs_RevokedColumnLeavesOtherUntouched(t *testing.T) {
	a := newInts(t, 1, 2)
	b := newInts(t, 3, 4)
	_, err := b.Freeze()
	require.NoError(t, err)
	mv := &pairMVector[int64, int64]{a: a, b: b}

	_, err = mv.Freeze()
	require.ErrorIs(t, err, ErrInvalidated)
	require.NoError(t, a.Write(0, 10), "first column must stay mutable")

	zero := MakePair[int64, int64](0, 0)
	assert.ErrorIs(t, mv.Write(1, zero), ErrInvalidated)
	assert.ErrorIs(t, mv.Fill(zero), ErrInvalidated)

	ints := PairOf[int64, int64](Of[int64](), Of[int64]())
	src, err := Replicate[Pair[int64, int64]](ints, 2, MakePair[int64, int64](7, 7))
	require.NoError(t, err)
	assert.ErrorIs(t, mv.Copy(src), ErrInvalidated)

	frozen, err := src.Freeze()
	require.NoError(t, err)
	assert.ErrorIs(t, frozen.CopyInto(mv), ErrInvalidated)

	_, err = mv.Grow(1)
	assert.ErrorIs(t, err, ErrInvalidated)

	assert.Equal(t, []int64{10, 2}, readAll(t, a))

	// A revoked source column is refused before the destination is written.
	dst, err := ints.New(2)
	require.NoError(t, err)
	stale := &pairMVector[int64, int64]{a: newInts(t, 5, 6), b: b}
	assert.ErrorIs(t, dst.Copy(stale), ErrInvalidated)
	assert.Equal(t, []Pair[int64, int64]{zero, zero}, readAll(t, dst))
}

func TestPairVector_Thaw(t *testing.T) {
	a := Borrow([]int32{1, 2})
	b := Borrow([]float64{0.5, 1.5})
	v, err := Zip(a, b)
	require.NoError(t, err)

	mv, err := v.Thaw()
	require.NoError(t, err)
	require.NoError(t, mv.Write(0, MakePair[int32, float64](5, 5)))

	p, err := v.Index(0)
	require.NoError(t, err)
	assert.Equal(t, MakePair[int32](1, 0.5), p)

	s, err := v.Slice(1, 1)
	require.NoError(t, err)
	assert.Equal(t, []Pair[int32, float64]{{2, 1.5}}, ToSlice(s))

	_, err = Zip(a, Borrow([]float64{1}))
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestPairVector_CopyInto(t *testing.T) {
	v, err := Zip(Borrow([]int32{1, 2}), Borrow([]float64{3, 4}))
	require.NoError(t, err)

	dst, err := newPairs().New(2)
	require.NoError(t, err)
	require.NoError(t, v.CopyInto(dst))
	assert.Equal(t, []Pair[int32, float64]{{1, 3}, {2, 4}}, readAll(t, dst))
}

func TestPairs_Nested(t *testing.T) {
	f := PairOf[int8, Pair[uint16, bool]](Of[int8](), PairOf[uint16, bool](Of[uint16](), Of[bool]()))
	mv, err := f.New(2)
	require.NoError(t, err)

	x := MakePair(int8(-1), MakePair(uint16(7), true))
	require.NoError(t, mv.Write(1, x))

	got, err := mv.Read(1)
	require.NoError(t, err)
	assert.Equal(t, x, got)
	assert.Len(t, mv.Columns(), 3)
}
