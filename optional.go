package unboxed

// Optional holds either a value (Some) or nothing (None).
type Optional[T any] struct {
	value T
	ok    bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

// None returns an empty Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) { return o.value, o.ok }

// IsSome reports whether a value is present.
func (o Optional[T]) IsSome() bool { return o.ok }

// OrElse returns the value, or def if none is present.
func (o Optional[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// Default supplies the filler stored in the value column of an empty slot.
type Default[T any] func() T

// Zero returns the Default that supplies T's zero value.
func Zero[T any]() Default[T] {
	return func() T {
		var zero T
		return zero
	}
}

// OptionalIso encodes Optional[T] as a presence flag and a value. None is
// stored as (false, def()); any pair with a false flag decodes to None.
func OptionalIso[T any](def Default[T]) Iso[Optional[T], Pair[bool, T]] {
	if def == nil {
		def = Zero[T]()
	}
	return Iso[Optional[T], Pair[bool, T]]{
		To: func(o Optional[T]) Pair[bool, T] {
			if o.ok {
				return Pair[bool, T]{First: true, Second: o.value}
			}
			return Pair[bool, T]{First: false, Second: def()}
		},
		From: func(p Pair[bool, T]) Optional[T] {
			if p.First {
				return Some(p.Second)
			}
			return None[T]()
		},
	}
}

// OptionalOf returns the family storing Optional[T] as a bool column next to
// the columns of values. optFns configure the flag column.
func OptionalOf[T any](values Family[T], def Default[T], optFns ...Option) *Adapted[Optional[T], Pair[bool, T]] {
	return Adapt[Optional[T], Pair[bool, T]](PairOf[bool, T](Of[bool](optFns...), values), OptionalIso(def))
}
