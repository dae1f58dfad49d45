package xarr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	a, err := New([]float64{1, 2, 3, 4, 5, 6}, NewIndex("row", "a", "b"), RangeIndex("col", 3))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, a.Shape())
	assert.Equal(t, []string{"row", "col"}, a.Dims())
	assert.Equal(t, 6, a.Size())
	assert.Equal(t, 6.0, a.At(1, 2))

	v, err := a.Get("b", 1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	_, err = a.Get("z", 0)
	require.Error(t, err)
}

func TestNewShapeMismatch(t *testing.T) {
	_, err := New([]float64{1, 2, 3}, RangeIndex("x", 2))
	require.Error(t, err)
}

func TestAnonymousDims(t *testing.T) {
	a, err := New([]int64{1, 2, 3, 4}, AnonIndex(2), AnonIndex(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"dim_0", "dim_1"}, a.Dims())
	for _, ix := range a.Indexes() {
		assert.True(t, ix.Anonymous())
	}
}

func TestScalar(t *testing.T) {
	s := Scalar(42.0)
	assert.True(t, s.IsScalar())
	assert.Equal(t, 0, s.Ndim())
	assert.Equal(t, 42.0, s.Value())
}

func TestSel(t *testing.T) {
	a, err := New([]float64{1, 2, 3, 4, 5, 6}, NewIndex("x", "a", "b", "c"), RangeIndex("y", 2))
	require.NoError(t, err)

	sub, err := a.Sel("x", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, sub.Shape())
	assert.Equal(t, []float64{3, 4, 5, 6}, sub.Values())

	_, err = a.Sel("x", "nope")
	require.Error(t, err)
	_, err = a.Sel("nope", "a")
	require.Error(t, err)
}

func TestIsel(t *testing.T) {
	a, err := New([]float64{1, 2, 3, 4}, RangeIndex("x", 4))
	require.NoError(t, err)

	sub, err := a.Isel("x", 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 1}, sub.Values())
	ix, _ := sub.Dim("x")
	assert.Equal(t, []any{3, 0}, ix.Keys())

	_, err = a.Isel("x", 9)
	require.Error(t, err)
}

func TestShift(t *testing.T) {
	a, err := New([]float64{1, 2, 3, 4}, RangeIndex("t", 4))
	require.NoError(t, err)

	fwd, err := a.Shift("t", 1, -9)
	require.NoError(t, err)
	assert.Equal(t, []float64{-9, 1, 2, 3}, fwd.Values())

	back, err := a.Shift("t", -2, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4, 0, 0}, back.Values())

	// shifting forward then back restores the interior and fills the rest
	rt, err := fwd.Shift("t", -1, -9)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, -9}, rt.Values())
}

func TestShiftKeepsCoords(t *testing.T) {
	a, err := New([]float64{1, 2, 3}, NewIndex("t", 10, 20, 30))
	require.NoError(t, err)
	s, err := a.Shift("t", 1, 0)
	require.NoError(t, err)
	ix, _ := s.Dim("t")
	assert.Equal(t, []any{10, 20, 30}, ix.Keys())
}

func TestStack(t *testing.T) {
	a, _ := New([]float64{1, 2}, RangeIndex("x", 2))
	b, _ := New([]float64{3, 4}, RangeIndex("x", 2))
	s, err := Stack("term", a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "term"}, s.Dims())
	assert.Equal(t, []float64{1, 3, 2, 4}, s.Values())
}

func TestStackMismatch(t *testing.T) {
	a, _ := New([]float64{1, 2}, RangeIndex("x", 2))
	b, _ := New([]float64{3, 4}, RangeIndex("y", 2))
	_, err := Stack("term", a, b)
	require.Error(t, err)
}

func TestConcatLast(t *testing.T) {
	a, _ := New([]float64{1, 2, 3, 4}, RangeIndex("x", 2), RangeIndex("term", 2))
	b, _ := New([]float64{5, 6}, RangeIndex("x", 2), RangeIndex("term", 1))
	c, err := ConcatLast(a, b)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, c.Shape())
	assert.Equal(t, []float64{1, 2, 5, 3, 4, 6}, c.Values())
}

func TestFold(t *testing.T) {
	// dims (x:2, term:2); fold x into term -> (term:4), dim-major layout
	a, _ := New([]float64{1, 2, 3, 4}, RangeIndex("x", 2), RangeIndex("term", 2))
	f, err := Fold(a, "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"term"}, f.Dims())
	assert.Equal(t, []float64{1, 2, 3, 4}, f.Values())

	// folding the term axis into itself is rejected
	_, err = Fold(a, "term")
	require.Error(t, err)
}

func TestFoldKeepsOuter(t *testing.T) {
	// dims (x:2, y:2, term:1); fold y -> (x:2, term:2)
	a, _ := New([]float64{1, 2, 3, 4}, RangeIndex("x", 2), RangeIndex("y", 2), RangeIndex("term", 1))
	f, err := Fold(a, "y")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "term"}, f.Dims())
	assert.Equal(t, []float64{1, 2, 3, 4}, f.Values())
}

func TestSum(t *testing.T) {
	a, _ := New([]float64{1, 2, 3, 4, 5, 6}, RangeIndex("x", 2), RangeIndex("y", 3))
	sx, err := Sum(a, "x")
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 7, 9}, sx.Values())

	sy, err := Sum(a, "y")
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 15}, sy.Values())

	all, err := Sum(a)
	require.NoError(t, err)
	assert.True(t, all.IsScalar())
	assert.Equal(t, 21.0, all.Value())
}

func TestTranspose(t *testing.T) {
	a, _ := New([]float64{1, 2, 3, 4, 5, 6}, RangeIndex("x", 2), RangeIndex("y", 3))
	tr, err := a.Transpose("y", "x")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, tr.Shape())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, tr.Values())

	_, err = a.Transpose("x")
	require.Error(t, err)
	_, err = a.Transpose("x", "x")
	require.Error(t, err)
}

func TestEqualFunc(t *testing.T) {
	a, _ := New([]float64{1, 2}, RangeIndex("x", 2))
	b, _ := New([]float64{1, 2}, RangeIndex("x", 2))
	c, _ := New([]float64{1, 3}, RangeIndex("x", 2))
	eq := func(x, y float64) bool { return x == y }
	assert.True(t, EqualFunc(a, b, eq))
	assert.False(t, EqualFunc(a, c, eq))
}
