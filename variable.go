package axisopt

import (
	"fmt"
	"strings"

	"github.com/axisopt/axisopt/xarr"
)

// Variable is a labeled array of variable labels, a view onto one registered
// family (or a selection of it). Variables are immutable; selection and
// shifting return new views.
type Variable struct {
	model  *Model
	fam    *varFamily
	labels xarr.DataArray[int64]
}

// Name returns the family name.
func (v Variable) Name() string { return v.fam.name }

// Shape returns the outer shape of the view.
func (v Variable) Shape() []int { return v.labels.Shape() }

// Dims returns the dimension names of the view.
func (v Variable) Dims() []string { return v.labels.Dims() }

// Coords returns the coordinate indexes of the view.
func (v Variable) Coords() []xarr.Index { return v.labels.Indexes() }

// Labels returns the label array of the view.
func (v Variable) Labels() xarr.DataArray[int64] { return v.labels }

// Lower returns the family's lower bound array.
func (v Variable) Lower() xarr.DataArray[float64] { return v.fam.lower }

// Upper returns the family's upper bound array.
func (v Variable) Upper() xarr.DataArray[float64] { return v.fam.upper }

// IsInteger reports whether the family is integer or binary.
func (v Variable) IsInteger() bool { return v.fam.isInteger() }

// Flat returns the view's labels in row-major order.
func (v Variable) Flat() []int64 {
	out := make([]int64, v.labels.Size())
	copy(out, v.labels.Values())
	return out
}

// At returns the scalar variable at the given coordinate keys.
func (v Variable) At(keys ...any) (ScalarVariable, error) {
	label, err := v.labels.Get(keys...)
	if err != nil {
		return ScalarVariable{}, err
	}
	return ScalarVariable{model: v.model, label: label}, nil
}

// Sel selects coordinate keys along one dimension, returning a sub-variable.
func (v Variable) Sel(dim string, keys ...any) (Variable, error) {
	labels, err := v.labels.Sel(dim, keys...)
	if err != nil {
		return Variable{}, err
	}
	return Variable{model: v.model, fam: v.fam, labels: labels}, nil
}

// Isel selects positions along one dimension, returning a sub-variable.
func (v Variable) Isel(dim string, positions ...int) (Variable, error) {
	labels, err := v.labels.Isel(dim, positions...)
	if err != nil {
		return Variable{}, err
	}
	return Variable{model: v.model, fam: v.fam, labels: labels}, nil
}

// Shift rolls the view's labels along the given dimensions; positions shifted
// in from outside hold the sentinel label and contribute nothing.
func (v Variable) Shift(offsets map[string]int) (Variable, error) {
	labels := v.labels
	var err error
	for _, dim := range sortedKeys(offsets) {
		labels, err = labels.Shift(dim, offsets[dim], Sentinel)
		if err != nil {
			return Variable{}, err
		}
	}
	return Variable{model: v.model, fam: v.fam, labels: labels}, nil
}

// ToExpr lifts the variable into a one-term linear expression with unit
// coefficients.
func (v Variable) ToExpr() *LinExpr {
	coeffs, _ := xarr.Stack(TermDim, xarr.Full(1.0, v.labels.Indexes()...))
	vars, _ := xarr.Stack(TermDim, v.labels)
	return &LinExpr{
		model:  v.model,
		coeffs: coeffs,
		vars:   vars,
		konst:  xarr.Full(0.0, v.labels.Indexes()...),
	}
}

// Mul multiplies the variable by a scalar or coefficient array.
func (v Variable) Mul(coeff any) (*LinExpr, error) {
	return v.ToExpr().Mul(coeff)
}

// Div divides the variable by a scalar.
func (v Variable) Div(d float64) (*LinExpr, error) {
	return v.ToExpr().Div(d)
}

// Add adds a variable, expression, scalar or array to the variable.
func (v Variable) Add(other any) (*LinExpr, error) {
	return v.ToExpr().Add(other)
}

// Sub subtracts a variable, expression, scalar or array from the variable.
func (v Variable) Sub(other any) (*LinExpr, error) {
	return v.ToExpr().Sub(other)
}

// Neg negates the variable into a linear expression.
func (v Variable) Neg() *LinExpr {
	return v.ToExpr().Neg()
}

// Sum folds the named outer dimensions (all of them when none are given)
// into the term axis.
func (v Variable) Sum(dims ...string) (*LinExpr, error) {
	return v.ToExpr().Sum(dims...)
}

// LE builds the anonymous constraint v <= rhs.
func (v Variable) LE(rhs any) (*AnonConstraint, error) {
	return v.ToExpr().LE(rhs)
}

// GE builds the anonymous constraint v >= rhs.
func (v Variable) GE(rhs any) (*AnonConstraint, error) {
	return v.ToExpr().GE(rhs)
}

// EQ builds the anonymous constraint v == rhs.
func (v Variable) EQ(rhs any) (*AnonConstraint, error) {
	return v.ToExpr().EQ(rhs)
}

func (v Variable) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Variable %q", v.fam.name)
	if v.labels.Ndim() > 0 {
		fmt.Fprintf(&sb, " (%s) %v", strings.Join(v.labels.Dims(), ", "), v.labels.Shape())
	}
	return sb.String()
}
