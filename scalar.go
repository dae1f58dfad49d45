package axisopt

import "github.com/axisopt/axisopt/matrix"

// ScalarVariable is a handle to one scalar variable of a family, as produced
// by Variable.At. Rule functions compose them into scalar expressions.
type ScalarVariable struct {
	model *Model
	label int64
}

// Label returns the variable label.
func (sv ScalarVariable) Label() int64 { return sv.label }

// ToExpr lifts the scalar variable into a one-term scalar expression.
func (sv ScalarVariable) ToExpr() ScalarExpr {
	return ScalarExpr{
		model:  sv.model,
		coeffs: []float64{1},
		vars:   []int64{sv.label},
	}
}

// Mul multiplies the scalar variable by a coefficient.
func (sv ScalarVariable) Mul(c float64) ScalarExpr {
	return ScalarExpr{
		model:  sv.model,
		coeffs: []float64{c},
		vars:   []int64{sv.label},
	}
}

// Add adds a scalar expression.
func (sv ScalarVariable) Add(other ScalarExpr) ScalarExpr {
	return sv.ToExpr().Add(other)
}

// LE builds the scalar constraint sv <= rhs.
func (sv ScalarVariable) LE(rhs float64) ScalarConstraint { return sv.ToExpr().LE(rhs) }

// GE builds the scalar constraint sv >= rhs.
func (sv ScalarVariable) GE(rhs float64) ScalarConstraint { return sv.ToExpr().GE(rhs) }

// EQ builds the scalar constraint sv == rhs.
func (sv ScalarVariable) EQ(rhs float64) ScalarConstraint { return sv.ToExpr().EQ(rhs) }

// ScalarExpr is a zero-dimensional linear expression: parallel coefficient
// and label slices plus a constant. The zero value is the empty expression.
type ScalarExpr struct {
	model  *Model
	coeffs []float64
	vars   []int64
	konst  float64
}

// NTerms returns the number of terms.
func (se ScalarExpr) NTerms() int { return len(se.vars) }

// Add concatenates the terms of both expressions and adds their constants.
func (se ScalarExpr) Add(other ScalarExpr) ScalarExpr {
	model := se.model
	if model == nil {
		model = other.model
	}
	out := ScalarExpr{
		model:  model,
		coeffs: make([]float64, 0, len(se.coeffs)+len(other.coeffs)),
		vars:   make([]int64, 0, len(se.vars)+len(other.vars)),
		konst:  se.konst + other.konst,
	}
	out.coeffs = append(append(out.coeffs, se.coeffs...), other.coeffs...)
	out.vars = append(append(out.vars, se.vars...), other.vars...)
	return out
}

// Sub subtracts another scalar expression.
func (se ScalarExpr) Sub(other ScalarExpr) ScalarExpr {
	return se.Add(other.Neg())
}

// Neg negates the expression.
func (se ScalarExpr) Neg() ScalarExpr {
	out := ScalarExpr{
		model:  se.model,
		coeffs: make([]float64, len(se.coeffs)),
		vars:   make([]int64, len(se.vars)),
		konst:  -se.konst,
	}
	for i, c := range se.coeffs {
		out.coeffs[i] = -c
	}
	copy(out.vars, se.vars)
	return out
}

// Mul scales every coefficient and the constant.
func (se ScalarExpr) Mul(c float64) ScalarExpr {
	out := ScalarExpr{
		model:  se.model,
		coeffs: make([]float64, len(se.coeffs)),
		vars:   make([]int64, len(se.vars)),
		konst:  c * se.konst,
	}
	for i, v := range se.coeffs {
		out.coeffs[i] = c * v
	}
	copy(out.vars, se.vars)
	return out
}

// AddConst adds a constant.
func (se ScalarExpr) AddConst(c float64) ScalarExpr {
	out := se
	out.konst += c
	return out
}

// LE builds the scalar constraint se <= rhs. The expression's constant moves
// to the right-hand side.
func (se ScalarExpr) LE(rhs float64) ScalarConstraint {
	return ScalarConstraint{expr: se, sign: matrix.LE, rhs: rhs}
}

// GE builds the scalar constraint se >= rhs.
func (se ScalarExpr) GE(rhs float64) ScalarConstraint {
	return ScalarConstraint{expr: se, sign: matrix.GE, rhs: rhs}
}

// EQ builds the scalar constraint se == rhs.
func (se ScalarExpr) EQ(rhs float64) ScalarConstraint {
	return ScalarConstraint{expr: se, sign: matrix.EQ, rhs: rhs}
}

// ScalarConstraint is one scalar row produced by a constraint rule.
type ScalarConstraint struct {
	expr ScalarExpr
	sign matrix.Sign
	rhs  float64
}
