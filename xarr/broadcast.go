package xarr

import (
	"errors"
	"fmt"
)

// ErrDimensionMismatch is returned when two arrays share a dimension name but
// carry different coordinate indexes for it.
var ErrDimensionMismatch = errors.New("xarr: conflicting coordinates on shared dimension")

// UnionDims merges two dimension lists in order of first appearance: all of
// a's dimensions, then b's dimensions not already present. Shared names must
// carry equal coordinate indexes.
func UnionDims(a, b []Index) ([]Index, error) {
	out := cloneDims(a)
	for _, bd := range b {
		found := false
		for _, ad := range a {
			if ad.name == bd.name {
				if !ad.equalKeys(bd) {
					return nil, fmt.Errorf("%w: %q", ErrDimensionMismatch, bd.name)
				}
				found = true
				break
			}
		}
		if !found {
			out = append(out, bd)
		}
	}
	return out, nil
}

// BroadcastTo expands the array to the target dimensions. Every dimension of
// the array must appear in the target with an equal coordinate index; target
// dimensions absent from the array are broadcast (the data is repeated along
// them).
func (a DataArray[T]) BroadcastTo(target ...Index) (DataArray[T], error) {
	target = cloneDims(target)
	srcAxis := make([]int, len(target))
	matched := make([]bool, len(a.dims))
	for i, td := range target {
		srcAxis[i] = -1
		for j, sd := range a.dims {
			if sd.name == td.name {
				if !sd.equalKeys(td) {
					return DataArray[T]{}, fmt.Errorf("%w: %q", ErrDimensionMismatch, sd.name)
				}
				srcAxis[i] = j
				matched[j] = true
				break
			}
		}
	}
	for j, ok := range matched {
		if !ok {
			return DataArray[T]{}, fmt.Errorf("xarr: broadcast target drops dimension %q", a.dims[j].name)
		}
	}
	size := 1
	for _, d := range target {
		size *= d.Len()
	}
	out := DataArray[T]{dims: target, data: make([]T, size)}
	srcStr := a.strides()
	pos := make([]int, len(target))
	for i := 0; i < size; i++ {
		off := 0
		for k, ax := range srcAxis {
			if ax >= 0 {
				off += pos[k] * srcStr[ax]
			}
		}
		out.data[i] = a.data[off]
		increment(pos, target)
	}
	return out, nil
}

// Align broadcasts both arrays to the union of their dimensions.
func Align[A, B any](a DataArray[A], b DataArray[B]) (DataArray[A], DataArray[B], error) {
	union, err := UnionDims(a.dims, b.dims)
	if err != nil {
		return DataArray[A]{}, DataArray[B]{}, err
	}
	a2, err := a.BroadcastTo(union...)
	if err != nil {
		return DataArray[A]{}, DataArray[B]{}, err
	}
	b2, err := b.BroadcastTo(union...)
	if err != nil {
		return DataArray[A]{}, DataArray[B]{}, err
	}
	return a2, b2, nil
}

// Map applies f elementwise, preserving dimensions.
func Map[A, B any](a DataArray[A], f func(A) B) DataArray[B] {
	out := DataArray[B]{dims: cloneDims(a.dims), data: make([]B, len(a.data))}
	for i, v := range a.data {
		out.data[i] = f(v)
	}
	return out
}

// Zip aligns both arrays and applies f elementwise over the aligned pair.
func Zip[A, B, C any](a DataArray[A], b DataArray[B], f func(A, B) C) (DataArray[C], error) {
	a2, b2, err := Align(a, b)
	if err != nil {
		return DataArray[C]{}, err
	}
	out := DataArray[C]{dims: a2.dims, data: make([]C, len(a2.data))}
	for i := range a2.data {
		out.data[i] = f(a2.data[i], b2.data[i])
	}
	return out, nil
}
