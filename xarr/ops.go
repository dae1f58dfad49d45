package xarr

import "fmt"

// gather returns the array with axis ax reduced to the given source positions.
func (a DataArray[T]) gather(ax int, positions []int) DataArray[T] {
	dims := cloneDims(a.dims)
	dims[ax] = a.dims[ax].subset(positions)
	size := 1
	for _, d := range dims {
		size *= d.Len()
	}
	out := DataArray[T]{dims: dims, data: make([]T, size)}
	srcStr := a.strides()
	pos := make([]int, len(dims))
	for i := 0; i < size; i++ {
		off := 0
		for k := range dims {
			p := pos[k]
			if k == ax {
				p = positions[pos[k]]
			}
			off += p * srcStr[k]
		}
		out.data[i] = a.data[off]
		increment(pos, dims)
	}
	return out
}

// Sel selects the given coordinate keys along one dimension. The dimension is
// retained with the selected keys in the given order.
func (a DataArray[T]) Sel(dim string, keys ...any) (DataArray[T], error) {
	ax := a.axis(dim)
	if ax < 0 {
		return DataArray[T]{}, fmt.Errorf("xarr: no dimension %q", dim)
	}
	positions := make([]int, len(keys))
	for i, k := range keys {
		p, ok := a.dims[ax].Position(k)
		if !ok {
			return DataArray[T]{}, fmt.Errorf("xarr: key %v not in dimension %q", k, dim)
		}
		positions[i] = p
	}
	return a.gather(ax, positions), nil
}

// Isel selects the given positions along one dimension.
func (a DataArray[T]) Isel(dim string, positions ...int) (DataArray[T], error) {
	ax := a.axis(dim)
	if ax < 0 {
		return DataArray[T]{}, fmt.Errorf("xarr: no dimension %q", dim)
	}
	for _, p := range positions {
		if p < 0 || p >= a.dims[ax].Len() {
			return DataArray[T]{}, fmt.Errorf("xarr: position %d out of range for dimension %q", p, dim)
		}
	}
	return a.gather(ax, positions), nil
}

// Shift rolls the array by k along one dimension, keeping labels in place:
// position i takes the value previously at i-k; positions with no source take
// fill. Negative k shifts the other way.
func (a DataArray[T]) Shift(dim string, k int, fill T) (DataArray[T], error) {
	ax := a.axis(dim)
	if ax < 0 {
		return DataArray[T]{}, fmt.Errorf("xarr: no dimension %q", dim)
	}
	n := a.dims[ax].Len()
	out := DataArray[T]{dims: cloneDims(a.dims), data: make([]T, len(a.data))}
	str := a.strides()
	pos := make([]int, len(a.dims))
	for i := range out.data {
		src := pos[ax] - k
		if src < 0 || src >= n {
			out.data[i] = fill
		} else {
			out.data[i] = a.data[i+(src-pos[ax])*str[ax]]
		}
		increment(pos, a.dims)
	}
	return out, nil
}

// Stack joins arrays of identical dimensions along a fresh last dimension
// named dim with integer keys 0..len(arrays)-1.
func Stack[T any](dim string, arrays ...DataArray[T]) (DataArray[T], error) {
	if len(arrays) == 0 {
		return DataArray[T]{}, fmt.Errorf("xarr: Stack of no arrays")
	}
	base := arrays[0]
	for _, a := range arrays[1:] {
		if len(a.dims) != len(base.dims) {
			return DataArray[T]{}, fmt.Errorf("xarr: Stack over mismatched dimensions")
		}
		for i := range a.dims {
			if !a.dims[i].equal(base.dims[i]) {
				return DataArray[T]{}, fmt.Errorf("xarr: Stack over mismatched dimension %q", base.dims[i].name)
			}
		}
	}
	n := len(arrays)
	dims := append(cloneDims(base.dims), RangeIndex(dim, n))
	out := DataArray[T]{dims: dims, data: make([]T, len(base.data)*n)}
	for i := range base.data {
		for j, a := range arrays {
			out.data[i*n+j] = a.data[i]
		}
	}
	return out, nil
}

// ConcatLast concatenates arrays along their shared last dimension. All outer
// dimensions must be identical; the last dimension keeps its name and is
// re-keyed 0..total-1.
func ConcatLast[T any](arrays ...DataArray[T]) (DataArray[T], error) {
	if len(arrays) == 0 {
		return DataArray[T]{}, fmt.Errorf("xarr: ConcatLast of no arrays")
	}
	base := arrays[0]
	if len(base.dims) == 0 {
		return DataArray[T]{}, fmt.Errorf("xarr: ConcatLast of zero-dimensional arrays")
	}
	last := len(base.dims) - 1
	total := 0
	for _, a := range arrays {
		if len(a.dims) != len(base.dims) || a.dims[last].name != base.dims[last].name {
			return DataArray[T]{}, fmt.Errorf("xarr: ConcatLast over mismatched dimensions")
		}
		for i := 0; i < last; i++ {
			if !a.dims[i].equal(base.dims[i]) {
				return DataArray[T]{}, fmt.Errorf("xarr: ConcatLast over mismatched dimension %q", base.dims[i].name)
			}
		}
		total += a.dims[last].Len()
	}
	dims := cloneDims(base.dims)
	dims[last] = RangeIndex(base.dims[last].name, total)
	outer := 1
	for i := 0; i < last; i++ {
		outer *= base.dims[i].Len()
	}
	out := DataArray[T]{dims: dims, data: make([]T, outer*total)}
	for o := 0; o < outer; o++ {
		dst := o * total
		for _, a := range arrays {
			w := a.dims[last].Len()
			copy(out.data[dst:dst+w], a.data[o*w:(o+1)*w])
			dst += w
		}
	}
	return out, nil
}

// Fold removes the named dimension by folding it into the last dimension: the
// result's last dimension has length len(last)*len(dim), laid out dim-major.
// The last dimension keeps its name and is re-keyed.
func Fold[T any](a DataArray[T], dim string) (DataArray[T], error) {
	ax := a.axis(dim)
	if ax < 0 {
		return DataArray[T]{}, fmt.Errorf("xarr: no dimension %q", dim)
	}
	last := len(a.dims) - 1
	if ax == last {
		return DataArray[T]{}, fmt.Errorf("xarr: cannot fold the last dimension %q into itself", dim)
	}
	inner := a.dims[last].Len()
	folded := a.dims[ax].Len()
	dims := make([]Index, 0, len(a.dims)-1)
	for i, d := range a.dims {
		if i == ax || i == last {
			continue
		}
		dims = append(dims, d)
	}
	dims = append(dims, RangeIndex(a.dims[last].name, inner*folded))
	size := len(a.data)
	out := DataArray[T]{dims: dims, data: make([]T, size)}
	srcStr := a.strides()
	pos := make([]int, len(dims))
	for i := 0; i < size; i++ {
		t := pos[len(pos)-1]
		d, inn := t/inner, t%inner
		off := d*srcStr[ax] + inn*srcStr[last]
		k := 0
		for j := range a.dims {
			if j == ax || j == last {
				continue
			}
			off += pos[k] * srcStr[j]
			k++
		}
		out.data[i] = a.data[off]
		increment(pos, dims)
	}
	return out, nil
}

// Sum reduces the array over the named dimensions, or over every dimension
// when none are given.
func Sum[T Number](a DataArray[T], dims ...string) (DataArray[T], error) {
	if len(dims) == 0 {
		dims = a.Dims()
	}
	out := a
	for _, dim := range dims {
		ax := out.axis(dim)
		if ax < 0 {
			return DataArray[T]{}, fmt.Errorf("xarr: no dimension %q", dim)
		}
		out = sumAxis(out, ax)
	}
	return out, nil
}

func sumAxis[T Number](a DataArray[T], ax int) DataArray[T] {
	dims := make([]Index, 0, len(a.dims)-1)
	for i, d := range a.dims {
		if i != ax {
			dims = append(dims, d)
		}
	}
	size := 1
	for _, d := range dims {
		size *= d.Len()
	}
	out := DataArray[T]{dims: dims, data: make([]T, size)}
	srcStr := a.strides()
	pos := make([]int, len(dims))
	for i := 0; i < size; i++ {
		off := 0
		k := 0
		for j := range a.dims {
			if j == ax {
				continue
			}
			off += pos[k] * srcStr[j]
			k++
		}
		var acc T
		for p := 0; p < a.dims[ax].Len(); p++ {
			acc += a.data[off+p*srcStr[ax]]
		}
		out.data[i] = acc
		increment(pos, dims)
	}
	return out
}
