package unboxed

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// FindIndices returns the positions of the elements matching pred as a
// compressed bitmap. Vectors longer than math.MaxUint32 are rejected.
func FindIndices[T any](v Vector[T], pred func(T) bool) (*roaring.Bitmap, error) {
	if uint64(v.Len()) > math.MaxUint32 {
		return nil, fmt.Errorf("find indices: length %d exceeds bitmap range: %w", v.Len(), ErrOutOfRange)
	}

	bm := roaring.New()
	for i, x := range v.All() {
		if pred(x) {
			bm.Add(uint32(i)) //nolint:gosec // bounded above
		}
	}
	return bm, nil
}

// Gather allocates a vector holding the elements of v at the positions in
// idx, in ascending order.
func Gather[T any](f Family[T], v Vector[T], idx *roaring.Bitmap) (Vector[T], error) {
	n := idx.GetCardinality()
	if n > uint64(v.Len()) {
		return nil, sliceError("gather", 0, int(min(n, math.MaxInt)), v.Len()) //nolint:gosec // clamped
	}

	mv, err := f.New(int(n))
	if err != nil {
		return nil, err
	}

	it := idx.Iterator()
	for j := 0; it.HasNext(); j++ {
		i := int(it.Next())
		x, err := v.Index(i)
		if err != nil {
			return nil, err
		}
		if err := mv.Write(j, x); err != nil {
			return nil, err
		}
	}
	return mv.Freeze()
}
