package unboxed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	s := Some(3)
	v, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.True(t, s.IsSome())

	n := None[int]()
	assert.False(t, n.IsSome())
	assert.Equal(t, 7, n.OrElse(7))
	assert.Equal(t, 3, s.OrElse(7))
}

func TestOptionalOf(t *testing.T) {
	f := OptionalOf[float64](Of[float64](), func() float64 { return -1 })

	mv, err := f.New(3)
	require.NoError(t, err)

	// Fresh storage has a false flag, so every slot reads as None.
	assert.Equal(t, []Optional[float64]{None[float64](), None[float64](), None[float64]()}, readAll(t, mv))

	require.NoError(t, mv.Write(0, Some(2.5)))
	require.NoError(t, mv.Write(1, Some(0.0)))
	require.NoError(t, mv.Write(2, None[float64]()))

	assert.Equal(t, []Optional[float64]{Some(2.5), Some(0.0), None[float64]()}, readAll(t, mv))

	v, err := mv.Freeze()
	require.NoError(t, err)

	rep := v.(interface{ Unwrap() Vector[Pair[bool, float64]] }).Unwrap()
	flags, values, ok := Unzip(rep)
	require.True(t, ok)
	assert.Equal(t, []bool{true, true, false}, ToSlice(flags))
	assert.Equal(t, []float64{2.5, 0, -1}, ToSlice(values))
}

func TestOptionalIso_IgnoresValueWhenAbsent(t *testing.T) {
	iso := OptionalIso[string](nil)

	assert.Equal(t, None[string](), iso.From(MakePair(false, "stale")))
	assert.Equal(t, MakePair(false, ""), iso.To(None[string]()))
	assert.Equal(t, Some("x"), iso.From(iso.To(Some("x"))))
}
