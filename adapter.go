package unboxed

import (
	"iter"
)

// Iso is a lossless encoding of S as R: From(To(x)) == x for every stored x.
//
// The core trusts the pair. Whether To must be injective over all of R or
// only consistent on the values actually produced is up to its author.
type Iso[S, R any] struct {
	To   func(S) R
	From func(R) S
}

// Identity returns the identity encoding of T.
func Identity[T any]() Iso[T, T] {
	return Iso[T, T]{
		To:   func(x T) T { return x },
		From: func(x T) T { return x },
	}
}

// Valid reports whether both directions are set.
func (i Iso[S, R]) Valid() bool {
	return i.To != nil && i.From != nil
}

// Adapted stores S as its representation R. Every operation delegates to
// the R family: values are encoded with To on the way in and decoded with
// From on the way out. The adapter adds no storage, bounds checks or failure
// modes of its own.
type Adapted[S, R any] struct {
	rep Family[R]
	iso Iso[S, R]
}

// Adapt returns the family storing S through rep. It panics if iso is not
// Valid.
func Adapt[S, R any](rep Family[R], iso Iso[S, R]) *Adapted[S, R] {
	if !iso.Valid() {
		panic("unboxed: Adapt requires both To and From")
	}
	return &Adapted[S, R]{rep: rep, iso: iso}
}

// New allocates n elements. Their representation is R's zero value.
func (a *Adapted[S, R]) New(n int) (MVector[S], error) {
	mv, err := a.rep.New(n)
	if err != nil {
		return nil, err
	}
	return &adaptedMVector[S, R]{rep: mv, iso: a.iso}, nil
}

// Iso returns the encoding used by the family.
func (a *Adapted[S, R]) Iso() Iso[S, R] { return a.iso }

// AdaptMVector views an existing representation vector as a vector of S.
func AdaptMVector[S, R any](mv MVector[R], iso Iso[S, R]) MVector[S] {
	if !iso.Valid() {
		panic("unboxed: AdaptMVector requires both To and From")
	}
	return &adaptedMVector[S, R]{rep: mv, iso: iso}
}

// AdaptVector views an existing frozen representation vector as a vector of S.
func AdaptVector[S, R any](v Vector[R], iso Iso[S, R]) Vector[S] {
	if !iso.Valid() {
		panic("unboxed: AdaptVector requires both To and From")
	}
	return &adaptedVector[S, R]{rep: v, iso: iso}
}

type adaptedMVector[S, R any] struct {
	rep MVector[R]
	iso Iso[S, R]
}

// Unwrap returns the representation vector.
func (v *adaptedMVector[S, R]) Unwrap() MVector[R] { return v.rep }

func (v *adaptedMVector[S, R]) Len() int { return v.rep.Len() }

func (v *adaptedMVector[S, R]) live(op string) error { return checkLive(v.rep, op) }

func (v *adaptedMVector[S, R]) Slice(i, n int) (MVector[S], error) {
	s, err := v.rep.Slice(i, n)
	if err != nil {
		return nil, err
	}
	return &adaptedMVector[S, R]{rep: s, iso: v.iso}, nil
}

func (v *adaptedMVector[S, R]) Overlaps(other MVector[S]) bool {
	if o, ok := other.(*adaptedMVector[S, R]); ok {
		return v.rep.Overlaps(o.rep)
	}
	return overlapping(v.Columns(), other.Columns())
}

func (v *adaptedMVector[S, R]) Read(i int) (S, error) {
	r, err := v.rep.Read(i)
	if err != nil {
		var zero S
		return zero, err
	}
	return v.iso.From(r), nil
}

func (v *adaptedMVector[S, R]) Write(i int, x S) error {
	return v.rep.Write(i, v.iso.To(x))
}

func (v *adaptedMVector[S, R]) Clear() { v.rep.Clear() }

func (v *adaptedMVector[S, R]) Fill(x S) error {
	return v.rep.Fill(v.iso.To(x))
}

func (v *adaptedMVector[S, R]) Copy(src MVector[S]) error {
	if s, ok := src.(*adaptedMVector[S, R]); ok {
		return v.rep.Copy(s.rep)
	}
	if src.Len() != v.Len() {
		return lengthError("copy", v.Len(), src.Len())
	}
	return copyElems(v, src)
}

func (v *adaptedMVector[S, R]) Grow(extra int) (MVector[S], error) {
	g, err := v.rep.Grow(extra)
	if err != nil {
		return nil, err
	}
	return &adaptedMVector[S, R]{rep: g, iso: v.iso}, nil
}

func (v *adaptedMVector[S, R]) Freeze() (Vector[S], error) {
	f, err := v.rep.Freeze()
	if err != nil {
		return nil, err
	}
	return &adaptedVector[S, R]{rep: f, iso: v.iso}, nil
}

func (v *adaptedMVector[S, R]) Columns() []Column { return v.rep.Columns() }

type adaptedVector[S, R any] struct {
	rep Vector[R]
	iso Iso[S, R]
}

// Unwrap returns the representation vector.
func (v *adaptedVector[S, R]) Unwrap() Vector[R] { return v.rep }

func (v *adaptedVector[S, R]) Len() int { return v.rep.Len() }

func (v *adaptedVector[S, R]) Slice(i, n int) (Vector[S], error) {
	s, err := v.rep.Slice(i, n)
	if err != nil {
		return nil, err
	}
	return &adaptedVector[S, R]{rep: s, iso: v.iso}, nil
}

func (v *adaptedVector[S, R]) Index(i int) (S, error) {
	r, err := v.rep.Index(i)
	if err != nil {
		var zero S
		return zero, err
	}
	return v.iso.From(r), nil
}

func (v *adaptedVector[S, R]) Thaw() (MVector[S], error) {
	mv, err := v.rep.Thaw()
	if err != nil {
		return nil, err
	}
	return &adaptedMVector[S, R]{rep: mv, iso: v.iso}, nil
}

func (v *adaptedVector[S, R]) CopyInto(dst MVector[S]) error {
	if d, ok := dst.(*adaptedMVector[S, R]); ok {
		return v.rep.CopyInto(d.rep)
	}
	if dst.Len() != v.Len() {
		return lengthError("copy into", dst.Len(), v.Len())
	}
	return copyFromVector(dst, v)
}

func (v *adaptedVector[S, R]) All() iter.Seq2[int, S] {
	return func(yield func(int, S) bool) {
		for i, r := range v.rep.All() {
			if !yield(i, v.iso.From(r)) {
				return
			}
		}
	}
}

func (v *adaptedVector[S, R]) Columns() []Column { return v.rep.Columns() }
