package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderDeterministicOrder(t *testing.T) {
	var b Builder
	b.Add(1, 0, 5)
	b.Add(0, 1, 7)
	b.Add(0, 0, 3)
	v := &View{}
	b.Flush(v)
	assert.Equal(t, []int64{0, 0, 1}, v.Rows)
	assert.Equal(t, []int64{0, 1, 0}, v.Cols)
	assert.Equal(t, []float64{3, 7, 5}, v.Values)
}

func TestBuilderSumsDuplicates(t *testing.T) {
	var b Builder
	b.Add(0, 0, 1)
	b.Add(0, 0, 2)
	b.Add(0, 1, 4)
	v := &View{}
	b.Flush(v)
	assert.Equal(t, []int64{0, 0}, v.Rows)
	assert.Equal(t, []float64{3, 4}, v.Values)
}

func TestBuilderDropsZeros(t *testing.T) {
	var b Builder
	b.Add(0, 0, 2)
	b.Add(0, 0, -2)
	b.Add(0, 1, 1)
	v := &View{}
	b.Flush(v)
	assert.Equal(t, []int64{1}, v.Cols)
	assert.Equal(t, []float64{1}, v.Values)
}

func TestBuilderFlushResets(t *testing.T) {
	var b Builder
	b.Add(0, 0, 1)
	v := &View{}
	b.Flush(v)
	b.Flush(v)
	assert.Len(t, v.Values, 1)
}

func TestMatVec(t *testing.T) {
	v := &View{
		VarLabels: []int64{0, 1},
		ConLabels: []int64{0, 1},
		Rows:      []int64{0, 0, 1, 1},
		Cols:      []int64{0, 1, 0, 1},
		Values:    []float64{3, 7, 5, 2},
	}
	got := v.MatVec(map[int64]float64{0: 1, 1: 2})
	assert.Equal(t, map[int64]float64{0: 17, 1: 9}, got)
}

func TestDense(t *testing.T) {
	v := &View{
		VarLabels: []int64{4, 9},
		ConLabels: []int64{2, 5},
		Rows:      []int64{2, 5},
		Cols:      []int64{9, 4},
		Values:    []float64{1.5, -2},
	}
	assert.Equal(t, [][]float64{{0, 1.5}, {-2, 0}}, v.Dense())
}

func TestSignString(t *testing.T) {
	assert.Equal(t, "<=", LE.String())
	assert.Equal(t, ">=", GE.String())
	assert.Equal(t, "==", EQ.String())
	assert.Equal(t, "min", Min.String())
	assert.Equal(t, "max", Max.String())
}
