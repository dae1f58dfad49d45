package xarr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnionDims(t *testing.T) {
	a := []Index{RangeIndex("x", 2), RangeIndex("y", 3)}
	b := []Index{RangeIndex("y", 3), RangeIndex("z", 4)}
	u, err := UnionDims(a, b)
	require.NoError(t, err)
	names := make([]string, len(u))
	for i, d := range u {
		names[i] = d.Name()
	}
	assert.Equal(t, []string{"x", "y", "z"}, names)
}

func TestUnionDimsConflict(t *testing.T) {
	a := []Index{NewIndex("x", "a", "b")}
	b := []Index{NewIndex("x", "a", "c")}
	_, err := UnionDims(a, b)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
	assert.Contains(t, err.Error(), `"x"`)
}

func TestBroadcastTo(t *testing.T) {
	a, _ := New([]float64{1, 2}, RangeIndex("x", 2))
	out, err := a.BroadcastTo(RangeIndex("x", 2), RangeIndex("y", 3))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, out.Shape())
	assert.Equal(t, []float64{1, 1, 1, 2, 2, 2}, out.Values())

	// broadcasting a scalar fills every position
	s := Scalar(7.0)
	out, err = s.BroadcastTo(RangeIndex("x", 2))
	require.NoError(t, err)
	assert.Equal(t, []float64{7, 7}, out.Values())
}

func TestBroadcastDropsDimension(t *testing.T) {
	a, _ := New([]float64{1, 2}, RangeIndex("x", 2))
	_, err := a.BroadcastTo(RangeIndex("y", 3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"x"`)
}

func TestAlignOuterProduct(t *testing.T) {
	a, _ := New([]float64{1, 2}, NewIndex("a", "p", "q"))
	b, _ := New([]float64{10, 20, 30}, NewIndex("b", "u", "v", "w"))
	a2, b2, err := Align(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, a2.Dims())
	assert.Equal(t, []string{"a", "b"}, b2.Dims())
	assert.Equal(t, []float64{1, 1, 1, 2, 2, 2}, a2.Values())
	assert.Equal(t, []float64{10, 20, 30, 10, 20, 30}, b2.Values())
}

func TestZip(t *testing.T) {
	a, _ := New([]float64{1, 2}, RangeIndex("x", 2))
	b, _ := New([]float64{10, 20}, RangeIndex("x", 2))
	sum, err := Zip(a, b, func(x, y float64) float64 { return x + y })
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 22}, sum.Values())

	c, _ := New([]float64{100, 200, 300}, RangeIndex("y", 3))
	prod, err := Zip(a, c, func(x, y float64) float64 { return x * y })
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, prod.Shape())
	assert.Equal(t, []float64{100, 200, 300, 200, 400, 600}, prod.Values())
}

func TestZipConflict(t *testing.T) {
	a, _ := New([]float64{1, 2}, NewIndex("x", "a", "b"))
	b, _ := New([]float64{1, 2}, NewIndex("x", "c", "d"))
	_, err := Zip(a, b, func(x, y float64) float64 { return x + y })
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
}

func TestMap(t *testing.T) {
	a, _ := New([]int64{1, -1, 3}, RangeIndex("x", 3))
	out := Map(a, func(v int64) float64 { return float64(2 * v) })
	assert.Equal(t, []float64{2, -2, 6}, out.Values())
	assert.Equal(t, []string{"x"}, out.Dims())
}
