package unboxed

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindIndicesGather(t *testing.T) {
	v, err := Generate[int64](Of[int64](), 10, func(i int) int64 { return int64(i) })
	require.NoError(t, err)

	even, err := FindIndices(v, func(x int64) bool { return x%2 == 0 })
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 2, 4, 6, 8}, even.ToArray())

	got, err := Gather[int64](Of[int64](), v, even)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 2, 4, 6, 8}, ToSlice(got))
}

func TestFindIndices_Pairs(t *testing.T) {
	v, err := Zip(Borrow([]bool{true, false, true}), Borrow([]uint8{1, 2, 3}))
	require.NoError(t, err)

	idx, err := FindIndices(v, func(p Pair[bool, uint8]) bool { return p.First })
	require.NoError(t, err)
	assert.Equal(t, uint64(2), idx.GetCardinality())

	got, err := Gather[Pair[bool, uint8]](PairOf[bool, uint8](Of[bool](), Of[uint8]()), v, idx)
	require.NoError(t, err)
	assert.Equal(t, []Pair[bool, uint8]{{true, 1}, {true, 3}}, ToSlice(got))
}

func TestGather_OutOfRange(t *testing.T) {
	v := Borrow([]int{1, 2})

	_, err := Gather[int](Of[int](), v, roaring.BitmapOf(0, 5))
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Gather[int](Of[int](), v, roaring.BitmapOf(0, 1, 2))
	assert.ErrorIs(t, err, ErrOutOfRange)

	empty, err := Gather[int](Of[int](), v, roaring.New())
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}
