package unboxed

import (
	"iter"
)

// Pair is a two-field value stored as two separate columns.
type Pair[A, B any] struct {
	First  A
	Second B
}

// MakePair returns Pair{a, b}.
func MakePair[A, B any](a A, b B) Pair[A, B] {
	return Pair[A, B]{First: a, Second: b}
}

// Pairs is the struct-of-arrays family for Pair[A, B]: each field lives in a
// vector of its own family.
type Pairs[A, B any] struct {
	first  Family[A]
	second Family[B]
}

// PairOf returns the family storing Pair[A, B] as one column per field.
func PairOf[A, B any](first Family[A], second Family[B]) *Pairs[A, B] {
	return &Pairs[A, B]{first: first, second: second}
}

// New allocates n zero-valued pairs.
func (p *Pairs[A, B]) New(n int) (MVector[Pair[A, B]], error) {
	a, err := p.first.New(n)
	if err != nil {
		return nil, err
	}
	b, err := p.second.New(n)
	if err != nil {
		return nil, err
	}
	return &pairMVector[A, B]{a: a, b: b}, nil
}

type pairMVector[A, B any] struct {
	a MVector[A]
	b MVector[B]
}

func (v *pairMVector[A, B]) Len() int { return v.a.Len() }

// live fails if either column is revoked, so multi-column operations can
// refuse before touching the first column.
func (v *pairMVector[A, B]) live(op string) error {
	if err := checkLive(v.a, op); err != nil {
		return err
	}
	return checkLive(v.b, op)
}

func (v *pairMVector[A, B]) Slice(i, n int) (MVector[Pair[A, B]], error) {
	a, err := v.a.Slice(i, n)
	if err != nil {
		return nil, err
	}
	b, err := v.b.Slice(i, n)
	if err != nil {
		return nil, err
	}
	return &pairMVector[A, B]{a: a, b: b}, nil
}

func (v *pairMVector[A, B]) Overlaps(other MVector[Pair[A, B]]) bool {
	if o, ok := other.(*pairMVector[A, B]); ok {
		return v.a.Overlaps(o.a) || v.b.Overlaps(o.b)
	}
	return overlapping(v.Columns(), other.Columns())
}

func (v *pairMVector[A, B]) Read(i int) (Pair[A, B], error) {
	a, err := v.a.Read(i)
	if err != nil {
		return Pair[A, B]{}, err
	}
	b, err := v.b.Read(i)
	if err != nil {
		return Pair[A, B]{}, err
	}
	return Pair[A, B]{First: a, Second: b}, nil
}

func (v *pairMVector[A, B]) Write(i int, x Pair[A, B]) error {
	if err := v.live("write"); err != nil {
		return err
	}
	if err := v.a.Write(i, x.First); err != nil {
		return err
	}
	return v.b.Write(i, x.Second)
}

func (v *pairMVector[A, B]) Clear() {
	v.a.Clear()
	v.b.Clear()
}

func (v *pairMVector[A, B]) Fill(x Pair[A, B]) error {
	if err := v.live("fill"); err != nil {
		return err
	}
	if err := v.a.Fill(x.First); err != nil {
		return err
	}
	return v.b.Fill(x.Second)
}

func (v *pairMVector[A, B]) Copy(src MVector[Pair[A, B]]) error {
	if src.Len() != v.Len() {
		return lengthError("copy", v.Len(), src.Len())
	}
	if s, ok := src.(*pairMVector[A, B]); ok {
		if err := v.live("copy"); err != nil {
			return err
		}
		if err := s.live("copy"); err != nil {
			return err
		}
		if err := v.a.Copy(s.a); err != nil {
			return err
		}
		return v.b.Copy(s.b)
	}
	return copyElems(v, src)
}

func (v *pairMVector[A, B]) Grow(extra int) (MVector[Pair[A, B]], error) {
	if err := v.live("grow"); err != nil {
		return nil, err
	}
	a, err := v.a.Grow(extra)
	if err != nil {
		return nil, err
	}
	b, err := v.b.Grow(extra)
	if err != nil {
		// The first column already moved; keep the receiver usable by
		// pointing it at the moved column's original prefix.
		if restored, serr := a.Slice(0, v.b.Len()); serr == nil {
			v.a = restored
		}
		return nil, err
	}
	return &pairMVector[A, B]{a: a, b: b}, nil
}

func (v *pairMVector[A, B]) Freeze() (Vector[Pair[A, B]], error) {
	if err := v.live("freeze"); err != nil {
		return nil, err
	}
	a, err := v.a.Freeze()
	if err != nil {
		return nil, err
	}
	b, err := v.b.Freeze()
	if err != nil {
		return nil, err
	}
	return &pairVector[A, B]{a: a, b: b}, nil
}

func (v *pairMVector[A, B]) Columns() []Column {
	return append(v.a.Columns(), v.b.Columns()...)
}

type pairVector[A, B any] struct {
	a Vector[A]
	b Vector[B]
}

// Zip pairs two vectors of equal length without copying.
func Zip[A, B any](a Vector[A], b Vector[B]) (Vector[Pair[A, B]], error) {
	if a.Len() != b.Len() {
		return nil, lengthError("zip", a.Len(), b.Len())
	}
	return &pairVector[A, B]{a: a, b: b}, nil
}

// Unzip returns the field columns of a pair vector without copying. It
// reports false if v is not stored as struct-of-arrays.
func Unzip[A, B any](v Vector[Pair[A, B]]) (Vector[A], Vector[B], bool) {
	pv, ok := v.(*pairVector[A, B])
	if !ok {
		return nil, nil, false
	}
	return pv.a, pv.b, true
}

func (v *pairVector[A, B]) Len() int { return v.a.Len() }

func (v *pairVector[A, B]) Slice(i, n int) (Vector[Pair[A, B]], error) {
	a, err := v.a.Slice(i, n)
	if err != nil {
		return nil, err
	}
	b, err := v.b.Slice(i, n)
	if err != nil {
		return nil, err
	}
	return &pairVector[A, B]{a: a, b: b}, nil
}

func (v *pairVector[A, B]) Index(i int) (Pair[A, B], error) {
	a, err := v.a.Index(i)
	if err != nil {
		return Pair[A, B]{}, err
	}
	b, err := v.b.Index(i)
	if err != nil {
		return Pair[A, B]{}, err
	}
	return Pair[A, B]{First: a, Second: b}, nil
}

func (v *pairVector[A, B]) Thaw() (MVector[Pair[A, B]], error) {
	a, err := v.a.Thaw()
	if err != nil {
		return nil, err
	}
	b, err := v.b.Thaw()
	if err != nil {
		return nil, err
	}
	return &pairMVector[A, B]{a: a, b: b}, nil
}

func (v *pairVector[A, B]) CopyInto(dst MVector[Pair[A, B]]) error {
	if dst.Len() != v.Len() {
		return lengthError("copy into", dst.Len(), v.Len())
	}
	if d, ok := dst.(*pairMVector[A, B]); ok {
		if err := d.live("copy into"); err != nil {
			return err
		}
		if err := v.a.CopyInto(d.a); err != nil {
			return err
		}
		return v.b.CopyInto(d.b)
	}
	return copyFromVector(dst, v)
}

func (v *pairVector[A, B]) All() iter.Seq2[int, Pair[A, B]] {
	return func(yield func(int, Pair[A, B]) bool) {
		for i := range v.a.Len() {
			x, err := v.Index(i)
			if err != nil || !yield(i, x) {
				return
			}
		}
	}
}

func (v *pairVector[A, B]) Columns() []Column {
	return append(v.a.Columns(), v.b.Columns()...)
}
