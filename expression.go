package axisopt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/axisopt/axisopt/matrix"
	"github.com/axisopt/axisopt/xarr"
)

// TermDim is the name of the inner term axis of a linear expression. It is
// always the last dimension of the coefficient and label arrays.
const TermDim = "_term"

// Sentinel marks an absent term, a masked position or a shifted-outside
// entry. A sentinel contributes nothing to the matrix view.
const Sentinel int64 = -1

// LinExpr is a linear expression over labeled outer dimensions: per outer
// coordinate, a sum of coefficient·variable terms along the term axis plus a
// constant. Arithmetic is pure; operands are never mutated.
type LinExpr struct {
	model  *Model
	coeffs xarr.DataArray[float64] // outer dims + term axis (last)
	vars   xarr.DataArray[int64]   // same dims as coeffs
	konst  xarr.DataArray[float64] // outer dims
}

// outerIndexes returns the expression's outer dimension indexes.
func (e *LinExpr) outerIndexes() []xarr.Index {
	dims := e.coeffs.Indexes()
	return dims[:len(dims)-1]
}

func (e *LinExpr) termIndex() xarr.Index {
	dims := e.coeffs.Indexes()
	return dims[len(dims)-1]
}

// NTerms returns the length of the term axis.
func (e *LinExpr) NTerms() int { return e.termIndex().Len() }

// Shape returns the outer shape.
func (e *LinExpr) Shape() []int {
	shape := e.coeffs.Shape()
	return shape[:len(shape)-1]
}

// Dims returns the outer dimension names.
func (e *LinExpr) Dims() []string {
	dims := e.coeffs.Dims()
	return dims[:len(dims)-1]
}

// Coeffs returns the coefficient array (outer dims plus term axis).
func (e *LinExpr) Coeffs() xarr.DataArray[float64] { return e.coeffs }

// Vars returns the variable label array (outer dims plus term axis).
func (e *LinExpr) Vars() xarr.DataArray[int64] { return e.vars }

// Const returns the constant array (outer dims).
func (e *LinExpr) Const() xarr.DataArray[float64] { return e.konst }

// mergeModel picks the owning model of a binary operation's result.
func mergeModel(a, b *Model) (*Model, error) {
	if a == nil {
		return b, nil
	}
	if b != nil && a != b {
		return nil, fmt.Errorf("%w: operands belong to different models", ErrUnknownVariable)
	}
	return a, nil
}

// addExpr combines two expressions by broadcasting their outer dimensions and
// concatenating their term axes; sgn -1 subtracts the right operand.
func (e *LinExpr) addExpr(o *LinExpr, sgn float64) (*LinExpr, error) {
	model, err := mergeModel(e.model, o.model)
	if err != nil {
		return nil, err
	}
	outer, err := xarr.UnionDims(e.outerIndexes(), o.outerIndexes())
	if err != nil {
		return nil, err
	}
	ec, err := e.coeffs.BroadcastTo(withTerm(outer, e.termIndex())...)
	if err != nil {
		return nil, err
	}
	ev, err := e.vars.BroadcastTo(withTerm(outer, e.termIndex())...)
	if err != nil {
		return nil, err
	}
	oc, err := o.coeffs.BroadcastTo(withTerm(outer, o.termIndex())...)
	if err != nil {
		return nil, err
	}
	ov, err := o.vars.BroadcastTo(withTerm(outer, o.termIndex())...)
	if err != nil {
		return nil, err
	}
	if sgn < 0 {
		oc = xarr.Map(oc, func(x float64) float64 { return -x })
	}
	coeffs, err := xarr.ConcatLast(ec, oc)
	if err != nil {
		return nil, err
	}
	vars, err := xarr.ConcatLast(ev, ov)
	if err != nil {
		return nil, err
	}
	konst, err := xarr.Zip(e.konst, o.konst, func(a, b float64) float64 { return a + sgn*b })
	if err != nil {
		return nil, err
	}
	konst, err = konst.BroadcastTo(outer...)
	if err != nil {
		return nil, err
	}
	return &LinExpr{model: model, coeffs: coeffs, vars: vars, konst: konst}, nil
}

// addConst adds a constant scalar or array, broadcasting the outer shape.
func (e *LinExpr) addConst(arr xarr.DataArray[float64], sgn float64) (*LinExpr, error) {
	if e.model != nil {
		if err := e.model.checkDimNames(arr.Indexes()); err != nil {
			return nil, err
		}
	}
	outer, err := xarr.UnionDims(e.outerIndexes(), arr.Indexes())
	if err != nil {
		return nil, err
	}
	konst, err := xarr.Zip(e.konst, arr, func(a, b float64) float64 { return a + sgn*b })
	if err != nil {
		return nil, err
	}
	konst, err = konst.BroadcastTo(outer...)
	if err != nil {
		return nil, err
	}
	coeffs, err := e.coeffs.BroadcastTo(withTerm(outer, e.termIndex())...)
	if err != nil {
		return nil, err
	}
	vars, err := e.vars.BroadcastTo(withTerm(outer, e.termIndex())...)
	if err != nil {
		return nil, err
	}
	return &LinExpr{model: e.model, coeffs: coeffs, vars: vars, konst: konst}, nil
}

// Add adds a variable, expression, scalar or array.
func (e *LinExpr) Add(other any) (*LinExpr, error) {
	switch o := other.(type) {
	case *LinExpr:
		return e.addExpr(o, 1)
	case Variable:
		return e.addExpr(o.ToExpr(), 1)
	default:
		arr, err := toFloatArray(other)
		if err != nil {
			return nil, err
		}
		return e.addConst(arr, 1)
	}
}

// Sub subtracts a variable, expression, scalar or array.
func (e *LinExpr) Sub(other any) (*LinExpr, error) {
	switch o := other.(type) {
	case *LinExpr:
		return e.addExpr(o, -1)
	case Variable:
		return e.addExpr(o.ToExpr(), -1)
	default:
		arr, err := toFloatArray(other)
		if err != nil {
			return nil, err
		}
		return e.addConst(arr, -1)
	}
}

// Neg negates the expression.
func (e *LinExpr) Neg() *LinExpr {
	return &LinExpr{
		model:  e.model,
		coeffs: xarr.Map(e.coeffs, func(x float64) float64 { return -x }),
		vars:   e.vars,
		konst:  xarr.Map(e.konst, func(x float64) float64 { return -x }),
	}
}

// Mul multiplies the expression by a scalar or array. Products of two
// expressions are rejected: the result would not be linear.
func (e *LinExpr) Mul(factor any) (*LinExpr, error) {
	switch factor.(type) {
	case *LinExpr, Variable, ScalarVariable:
		return nil, fmt.Errorf("axisopt: product of two variable expressions is not linear")
	}
	arr, err := toFloatArray(factor)
	if err != nil {
		return nil, err
	}
	if e.model != nil {
		if err := e.model.checkDimNames(arr.Indexes()); err != nil {
			return nil, err
		}
	}
	outer, err := xarr.UnionDims(e.outerIndexes(), arr.Indexes())
	if err != nil {
		return nil, err
	}
	inner := withTerm(outer, e.termIndex())
	ec, err := e.coeffs.BroadcastTo(inner...)
	if err != nil {
		return nil, err
	}
	fc, err := arr.BroadcastTo(inner...)
	if err != nil {
		return nil, err
	}
	coeffs, err := xarr.Zip(ec, fc, func(a, b float64) float64 { return a * b })
	if err != nil {
		return nil, err
	}
	vars, err := e.vars.BroadcastTo(inner...)
	if err != nil {
		return nil, err
	}
	ko, err := e.konst.BroadcastTo(outer...)
	if err != nil {
		return nil, err
	}
	fo, err := arr.BroadcastTo(outer...)
	if err != nil {
		return nil, err
	}
	konst, err := xarr.Zip(ko, fo, func(a, b float64) float64 { return a * b })
	if err != nil {
		return nil, err
	}
	return &LinExpr{model: e.model, coeffs: coeffs, vars: vars, konst: konst}, nil
}

// Div divides the expression by a scalar.
func (e *LinExpr) Div(d float64) (*LinExpr, error) {
	if d == 0 {
		return nil, fmt.Errorf("axisopt: division by zero")
	}
	return e.Mul(1 / d)
}

// Sum folds the named outer dimensions into the term axis; with no arguments
// every outer dimension is folded and the result is zero-dimensional.
// Summing over the term axis itself is forbidden.
func (e *LinExpr) Sum(dims ...string) (*LinExpr, error) {
	if len(dims) == 0 {
		dims = e.Dims()
	}
	coeffs, vars, konst := e.coeffs, e.vars, e.konst
	var err error
	for _, dim := range dims {
		if dim == TermDim {
			return nil, fmt.Errorf("axisopt: cannot sum over the term axis %q", TermDim)
		}
		coeffs, err = xarr.Fold(coeffs, dim)
		if err != nil {
			return nil, err
		}
		vars, err = xarr.Fold(vars, dim)
		if err != nil {
			return nil, err
		}
		konst, err = xarr.Sum(konst, dim)
		if err != nil {
			return nil, err
		}
	}
	return &LinExpr{model: e.model, coeffs: coeffs, vars: vars, konst: konst}, nil
}

// Shift rolls the expression along outer dimensions; positions shifted in
// from outside hold sentinel labels with zero coefficients, so shifted
// expressions keep their shape and align with unshifted ones.
func (e *LinExpr) Shift(offsets map[string]int) (*LinExpr, error) {
	coeffs, vars, konst := e.coeffs, e.vars, e.konst
	var err error
	for _, dim := range sortedKeys(offsets) {
		if dim == TermDim {
			return nil, fmt.Errorf("axisopt: cannot shift the term axis %q", TermDim)
		}
		k := offsets[dim]
		coeffs, err = coeffs.Shift(dim, k, 0)
		if err != nil {
			return nil, err
		}
		vars, err = vars.Shift(dim, k, Sentinel)
		if err != nil {
			return nil, err
		}
		konst, err = konst.Shift(dim, k, 0)
		if err != nil {
			return nil, err
		}
	}
	return &LinExpr{model: e.model, coeffs: coeffs, vars: vars, konst: konst}, nil
}

// Sel selects coordinate keys along one outer dimension; the term axis never
// changes.
func (e *LinExpr) Sel(dim string, keys ...any) (*LinExpr, error) {
	if dim == TermDim {
		return nil, fmt.Errorf("axisopt: cannot select on the term axis %q", TermDim)
	}
	coeffs, err := e.coeffs.Sel(dim, keys...)
	if err != nil {
		return nil, err
	}
	vars, err := e.vars.Sel(dim, keys...)
	if err != nil {
		return nil, err
	}
	konst, err := e.konst.Sel(dim, keys...)
	if err != nil {
		return nil, err
	}
	return &LinExpr{model: e.model, coeffs: coeffs, vars: vars, konst: konst}, nil
}

// Isel selects positions along one outer dimension.
func (e *LinExpr) Isel(dim string, positions ...int) (*LinExpr, error) {
	if dim == TermDim {
		return nil, fmt.Errorf("axisopt: cannot select on the term axis %q", TermDim)
	}
	coeffs, err := e.coeffs.Isel(dim, positions...)
	if err != nil {
		return nil, err
	}
	vars, err := e.vars.Isel(dim, positions...)
	if err != nil {
		return nil, err
	}
	konst, err := e.konst.Isel(dim, positions...)
	if err != nil {
		return nil, err
	}
	return &LinExpr{model: e.model, coeffs: coeffs, vars: vars, konst: konst}, nil
}

// compare builds the anonymous constraint `e sign rhs`. Variables on the
// right-hand side move to the left; constants move to the right, so the
// stored lhs is purely linear.
func (e *LinExpr) compare(sign matrix.Sign, rhs any) (*AnonConstraint, error) {
	switch r := rhs.(type) {
	case Variable:
		return e.compare(sign, r.ToExpr())
	case *LinExpr:
		diff, err := e.addExpr(r, -1)
		if err != nil {
			return nil, err
		}
		rhsArr := xarr.Map(diff.konst, func(x float64) float64 { return -x })
		lhs := &LinExpr{
			model:  diff.model,
			coeffs: diff.coeffs,
			vars:   diff.vars,
			konst:  xarr.Full(0.0, diff.outerIndexes()...),
		}
		return &AnonConstraint{lhs: lhs, sign: sign, rhs: rhsArr}, nil
	default:
		arr, err := toFloatArray(rhs)
		if err != nil {
			return nil, err
		}
		if e.model != nil {
			if err := e.model.checkDimNames(arr.Indexes()); err != nil {
				return nil, err
			}
		}
		outer, err := xarr.UnionDims(e.outerIndexes(), arr.Indexes())
		if err != nil {
			return nil, err
		}
		ra, err := arr.BroadcastTo(outer...)
		if err != nil {
			return nil, err
		}
		ka, err := e.konst.BroadcastTo(outer...)
		if err != nil {
			return nil, err
		}
		rhsArr, err := xarr.Zip(ra, ka, func(a, b float64) float64 { return a - b })
		if err != nil {
			return nil, err
		}
		coeffs, err := e.coeffs.BroadcastTo(withTerm(outer, e.termIndex())...)
		if err != nil {
			return nil, err
		}
		vars, err := e.vars.BroadcastTo(withTerm(outer, e.termIndex())...)
		if err != nil {
			return nil, err
		}
		lhs := &LinExpr{
			model:  e.model,
			coeffs: coeffs,
			vars:   vars,
			konst:  xarr.Full(0.0, outer...),
		}
		return &AnonConstraint{lhs: lhs, sign: sign, rhs: rhsArr}, nil
	}
}

// LE builds the anonymous constraint e <= rhs.
func (e *LinExpr) LE(rhs any) (*AnonConstraint, error) {
	return e.compare(matrix.LE, rhs)
}

// GE builds the anonymous constraint e >= rhs.
func (e *LinExpr) GE(rhs any) (*AnonConstraint, error) {
	return e.compare(matrix.GE, rhs)
}

// EQ builds the anonymous constraint e == rhs.
func (e *LinExpr) EQ(rhs any) (*AnonConstraint, error) {
	return e.compare(matrix.EQ, rhs)
}

// String renders the expression with labels resolved through the owning
// model, one line per outer coordinate.
func (e *LinExpr) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "LinExpr (%d terms)", e.NTerms())
	outer := e.outerIndexes()
	size := e.konst.Size()
	t := e.NTerms()
	coeffs := e.coeffs.Values()
	vars := e.vars.Values()
	konst := e.konst.Values()
	const maxLines = 12
	for o := 0; o < size && o < maxLines; o++ {
		sb.WriteString("\n  ")
		if len(outer) > 0 {
			fmt.Fprintf(&sb, "%v: ", unravelKeys(outer, o))
		}
		sb.WriteString(renderTerms(e.model, coeffs[o*t:(o+1)*t], vars[o*t:(o+1)*t], konst[o]))
	}
	if size > maxLines {
		fmt.Fprintf(&sb, "\n  ... (%d more)", size-maxLines)
	}
	return sb.String()
}

// renderTerms prints one row of coefficient·variable terms plus constant.
func renderTerms(m *Model, coeffs []float64, vars []int64, konst float64) string {
	var sb strings.Builder
	empty := true
	for i, l := range vars {
		if l == Sentinel {
			continue
		}
		if !empty {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%+g %s", coeffs[i], variableName(m, l))
		empty = false
	}
	if konst != 0 || empty {
		if !empty {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%+g", konst)
	}
	return sb.String()
}

// variableName resolves a label to "family[key, ...]" when the model is known.
func variableName(m *Model, label int64) string {
	if m == nil {
		return fmt.Sprintf("x%d", label)
	}
	f := m.labelFamily(label)
	if f == nil {
		return fmt.Sprintf("x%d", label)
	}
	dims := f.labels.Indexes()
	if len(dims) == 0 {
		return f.name
	}
	keys := unravelKeys(dims, int(label-f.start))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprint(k)
	}
	return fmt.Sprintf("%s[%s]", f.name, strings.Join(parts, ","))
}

// unravelKeys decodes a row-major flat offset into per-dimension keys.
func unravelKeys(dims []xarr.Index, offset int) []any {
	keys := make([]any, len(dims))
	for i := len(dims) - 1; i >= 0; i-- {
		n := dims[i].Len()
		keys[i] = dims[i].Key(offset % n)
		offset /= n
	}
	return keys
}

// withTerm returns outer + term as a fresh slice; BroadcastTo targets must not
// alias each other.
func withTerm(outer []xarr.Index, term xarr.Index) []xarr.Index {
	out := make([]xarr.Index, 0, len(outer)+1)
	out = append(out, outer...)
	return append(out, term)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
