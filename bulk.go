package unboxed

// Replicate allocates n elements equal to x.
func Replicate[T any](f Family[T], n int, x T) (MVector[T], error) {
	mv, err := f.New(n)
	if err != nil {
		return nil, err
	}
	if err := mv.Fill(x); err != nil {
		return nil, err
	}
	return mv, nil
}

// FromSlice allocates a vector holding a copy of s.
func FromSlice[T any](f Family[T], s []T) (MVector[T], error) {
	mv, err := f.New(len(s))
	if err != nil {
		return nil, err
	}
	for i, x := range s {
		if err := mv.Write(i, x); err != nil {
			return nil, err
		}
	}
	return mv, nil
}

// ToSlice copies the elements of v into a new slice.
func ToSlice[T any](v Vector[T]) []T {
	out := make([]T, 0, v.Len())
	for _, x := range v.All() {
		out = append(out, x)
	}
	return out
}

// Values returns the elements of a primitive column without copying. It
// reports false if v is not a primitive column. The slice must not be
// modified. Memory budget reserved for v stays charged only while v itself
// is reachable.
func Values[T Prim](v Vector[T]) ([]T, bool) {
	pv, ok := v.(*primVector[T])
	if !ok {
		return nil, false
	}
	return pv.data, true
}

// Generate builds a frozen vector of n elements where element i is fn(i).
func Generate[T any](f Family[T], n int, fn func(i int) T) (Vector[T], error) {
	mv, err := f.New(n)
	if err != nil {
		return nil, err
	}
	for i := range n {
		if err := mv.Write(i, fn(i)); err != nil {
			return nil, err
		}
	}
	return mv.Freeze()
}

// Append grows mv by len(xs) and writes xs at the end. mv is invalidated.
func Append[T any](mv MVector[T], xs ...T) (MVector[T], error) {
	n := mv.Len()
	g, err := mv.Grow(len(xs))
	if err != nil {
		return nil, err
	}
	for i, x := range xs {
		if err := g.Write(n+i, x); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Modify replaces element i with fn(element i).
func Modify[T any](mv MVector[T], i int, fn func(T) T) error {
	x, err := mv.Read(i)
	if err != nil {
		return err
	}
	return mv.Write(i, fn(x))
}

// Swap exchanges elements i and j.
func Swap[T any](mv MVector[T], i, j int) error {
	x, err := mv.Read(i)
	if err != nil {
		return err
	}
	y, err := mv.Read(j)
	if err != nil {
		return err
	}
	if err := mv.Write(i, y); err != nil {
		return err
	}
	return mv.Write(j, x)
}

// Equal reports whether a and b have the same length and elements.
func Equal[T comparable](a, b Vector[T]) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i, x := range a.All() {
		y, err := b.Index(i)
		if err != nil || x != y {
			return false
		}
	}
	return true
}

// copyElems copies element by element. Overlapping views go through a
// temporary buffer so a shifted source is not overwritten before it is read.
func copyElems[T any](dst, src MVector[T]) error {
	n := src.Len()
	if dst.Len() != n {
		return lengthError("copy", dst.Len(), n)
	}

	if dst.Overlaps(src) {
		tmp := make([]T, n)
		for i := range n {
			x, err := src.Read(i)
			if err != nil {
				return err
			}
			tmp[i] = x
		}
		for i, x := range tmp {
			if err := dst.Write(i, x); err != nil {
				return err
			}
		}
		return nil
	}

	for i := range n {
		x, err := src.Read(i)
		if err != nil {
			return err
		}
		if err := dst.Write(i, x); err != nil {
			return err
		}
	}
	return nil
}

func copyFromVector[T any](dst MVector[T], src Vector[T]) error {
	if dst.Len() != src.Len() {
		return lengthError("copy into", dst.Len(), src.Len())
	}
	for i, x := range src.All() {
		if err := dst.Write(i, x); err != nil {
			return err
		}
	}
	return nil
}
