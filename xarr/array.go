package xarr

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Number constrains the element types reducible with Sum.
type Number interface {
	constraints.Integer | constraints.Float
}

// DataArray is a dense row-major N-dimensional array with one Index per
// dimension. A zero-dimensional DataArray holds exactly one element.
//
// DataArrays are value types; operations never mutate their operands and
// always allocate fresh backing storage for their result.
type DataArray[T any] struct {
	dims []Index
	data []T
}

// New builds a DataArray from row-major data and one index per dimension.
// Dimensions with an empty name are auto-named dim_<axis> and flagged
// anonymous.
func New[T any](data []T, dims ...Index) (DataArray[T], error) {
	dims = normalizeDims(dims)
	size := 1
	for _, d := range dims {
		size *= d.Len()
	}
	if len(data) != size {
		return DataArray[T]{}, fmt.Errorf("xarr: data length %d does not match shape %v", len(data), shapeOf(dims))
	}
	buf := make([]T, len(data))
	copy(buf, data)
	return DataArray[T]{dims: dims, data: buf}, nil
}

// Scalar builds a zero-dimensional array holding v.
func Scalar[T any](v T) DataArray[T] {
	return DataArray[T]{data: []T{v}}
}

// Full builds an array of the given dimensions with every element set to v.
func Full[T any](v T, dims ...Index) DataArray[T] {
	dims = normalizeDims(dims)
	size := 1
	for _, d := range dims {
		size *= d.Len()
	}
	data := make([]T, size)
	for i := range data {
		data[i] = v
	}
	return DataArray[T]{dims: dims, data: data}
}

func normalizeDims(dims []Index) []Index {
	out := make([]Index, len(dims))
	for i, d := range dims {
		if d.name == "" {
			d.name = fmt.Sprintf("dim_%d", i)
			d.anon = true
		}
		out[i] = d
	}
	return out
}

func shapeOf(dims []Index) []int {
	shape := make([]int, len(dims))
	for i, d := range dims {
		shape[i] = d.Len()
	}
	return shape
}

func cloneDims(dims []Index) []Index {
	out := make([]Index, len(dims))
	copy(out, dims)
	return out
}

// Ndim returns the number of dimensions.
func (a DataArray[T]) Ndim() int { return len(a.dims) }

// Size returns the number of elements.
func (a DataArray[T]) Size() int { return len(a.data) }

// IsScalar reports whether the array is zero-dimensional.
func (a DataArray[T]) IsScalar() bool { return len(a.dims) == 0 }

// Shape returns the per-dimension lengths.
func (a DataArray[T]) Shape() []int { return shapeOf(a.dims) }

// Dims returns the ordered dimension names.
func (a DataArray[T]) Dims() []string {
	names := make([]string, len(a.dims))
	for i, d := range a.dims {
		names[i] = d.name
	}
	return names
}

// Indexes returns the ordered dimension indexes.
func (a DataArray[T]) Indexes() []Index { return cloneDims(a.dims) }

// Dim returns the index of the named dimension.
func (a DataArray[T]) Dim(name string) (Index, bool) {
	for _, d := range a.dims {
		if d.name == name {
			return d, true
		}
	}
	return Index{}, false
}

// HasDim reports whether the array carries the named dimension.
func (a DataArray[T]) HasDim(name string) bool {
	_, ok := a.Dim(name)
	return ok
}

func (a DataArray[T]) axis(name string) int {
	for i, d := range a.dims {
		if d.name == name {
			return i
		}
	}
	return -1
}

// Values returns the row-major backing slice. It is shared with the array;
// callers must not mutate it.
func (a DataArray[T]) Values() []T { return a.data }

// Value returns the single element of a zero-dimensional array.
func (a DataArray[T]) Value() T {
	if len(a.data) != 1 {
		panic("xarr: Value on non-scalar array")
	}
	return a.data[0]
}

func (a DataArray[T]) strides() []int {
	str := make([]int, len(a.dims))
	acc := 1
	for i := len(a.dims) - 1; i >= 0; i-- {
		str[i] = acc
		acc *= a.dims[i].Len()
	}
	return str
}

// At returns the element at the given per-dimension positions.
func (a DataArray[T]) At(pos ...int) T {
	if len(pos) != len(a.dims) {
		panic(fmt.Sprintf("xarr: At got %d positions for %d dimensions", len(pos), len(a.dims)))
	}
	off := 0
	str := a.strides()
	for i, p := range pos {
		off += p * str[i]
	}
	return a.data[off]
}

// Get returns the element at the given coordinate keys, one per dimension.
func (a DataArray[T]) Get(keys ...any) (T, error) {
	var zero T
	if len(keys) != len(a.dims) {
		return zero, fmt.Errorf("xarr: Get got %d keys for %d dimensions", len(keys), len(a.dims))
	}
	pos := make([]int, len(keys))
	for i, k := range keys {
		p, ok := a.dims[i].Position(k)
		if !ok {
			return zero, fmt.Errorf("xarr: key %v not in dimension %q", k, a.dims[i].name)
		}
		pos[i] = p
	}
	return a.At(pos...), nil
}

// Transpose returns the array with its dimensions reordered. The order must
// name every dimension exactly once.
func (a DataArray[T]) Transpose(order ...string) (DataArray[T], error) {
	if len(order) != len(a.dims) {
		return DataArray[T]{}, fmt.Errorf("xarr: transpose order names %d of %d dimensions", len(order), len(a.dims))
	}
	perm := make([]int, len(order))
	seen := make(map[int]bool, len(order))
	for i, name := range order {
		ax := a.axis(name)
		if ax < 0 || seen[ax] {
			return DataArray[T]{}, fmt.Errorf("xarr: invalid transpose order, dimension %q", name)
		}
		seen[ax] = true
		perm[i] = ax
	}
	dims := make([]Index, len(perm))
	for i, ax := range perm {
		dims[i] = a.dims[ax]
	}
	out := DataArray[T]{dims: dims, data: make([]T, len(a.data))}
	srcStr := a.strides()
	pos := make([]int, len(dims))
	for i := range out.data {
		off := 0
		for k, ax := range perm {
			off += pos[k] * srcStr[ax]
		}
		out.data[i] = a.data[off]
		increment(pos, dims)
	}
	return out, nil
}

// increment advances a row-major odometer over the given dimensions.
func increment(pos []int, dims []Index) {
	for k := len(pos) - 1; k >= 0; k-- {
		pos[k]++
		if pos[k] < dims[k].Len() {
			return
		}
		pos[k] = 0
	}
}

// EqualFunc reports whether both arrays have identical dimensions and
// elementwise-equal data under eq.
func EqualFunc[T any](a, b DataArray[T], eq func(T, T) bool) bool {
	if len(a.dims) != len(b.dims) || len(a.data) != len(b.data) {
		return false
	}
	for i := range a.dims {
		if !a.dims[i].equal(b.dims[i]) {
			return false
		}
	}
	for i := range a.data {
		if !eq(a.data[i], b.data[i]) {
			return false
		}
	}
	return true
}
