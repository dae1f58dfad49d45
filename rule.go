package axisopt

import (
	"fmt"

	"github.com/axisopt/axisopt/matrix"
	"github.com/axisopt/axisopt/xarr"
)

// Rule is a user function evaluated once per point of a coordinate product,
// in row-major order. It must return a ScalarExpr or ScalarVariable (for
// LinExprRule) or a ScalarConstraint (for AddConstraintsRule); anything else
// fails with ErrRuleArity.
type Rule func(m *Model, key ...any) any

// TermPair is one coefficient·variable pair of the parallel LinExpr builder.
type TermPair struct {
	Coeff any
	Var   Variable
}

// LinExpr builds c1*v1 + c2*v2 + ... in one pass: coefficient and label
// arrays are aligned to the common broadcast shape and stacked along a fresh
// term axis of length len(pairs).
func (m *Model) LinExpr(pairs ...TermPair) (*LinExpr, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("axisopt: LinExpr of no terms")
	}
	coeffArrs := make([]xarr.DataArray[float64], len(pairs))
	labelArrs := make([]xarr.DataArray[int64], len(pairs))
	var outer []xarr.Index
	for i, p := range pairs {
		c, err := toFloatArray(p.Coeff)
		if err != nil {
			return nil, err
		}
		if err := m.checkDimNames(c.Indexes()); err != nil {
			return nil, err
		}
		if p.Var.model != nil && p.Var.model != m {
			return nil, fmt.Errorf("%w: variable from a different model", ErrUnknownVariable)
		}
		coeffArrs[i] = c
		labelArrs[i] = p.Var.labels
		if outer, err = xarr.UnionDims(outer, c.Indexes()); err != nil {
			return nil, err
		}
		if outer, err = xarr.UnionDims(outer, p.Var.labels.Indexes()); err != nil {
			return nil, err
		}
	}
	for i := range pairs {
		var err error
		if coeffArrs[i], err = coeffArrs[i].BroadcastTo(outer...); err != nil {
			return nil, err
		}
		if labelArrs[i], err = labelArrs[i].BroadcastTo(outer...); err != nil {
			return nil, err
		}
	}
	coeffs, err := xarr.Stack(TermDim, coeffArrs...)
	if err != nil {
		return nil, err
	}
	vars, err := xarr.Stack(TermDim, labelArrs...)
	if err != nil {
		return nil, err
	}
	return &LinExpr{model: m, coeffs: coeffs, vars: vars, konst: xarr.Full(0.0, outer...)}, nil
}

// LinExprRule evaluates the rule over the coordinate product and assembles
// one expression; per-point term counts are padded with the sentinel to the
// maximum count.
func (m *Model) LinExprRule(rule Rule, coords ...xarr.Index) (*LinExpr, error) {
	coords, size := normalizeCoords(coords)
	exprs := make([]ScalarExpr, size)
	maxTerms := 1
	err := iterProduct(coords, func(flat int, key []any) error {
		res := rule(m, key...)
		se, ok := res.(ScalarExpr)
		if !ok {
			if sv, isVar := res.(ScalarVariable); isVar {
				se, ok = sv.ToExpr(), true
			}
		}
		if !ok {
			return fmt.Errorf("%w: got %T, want ScalarExpr", ErrRuleArity, res)
		}
		if se.model != nil && se.model != m {
			return fmt.Errorf("%w: rule expression from a different model", ErrUnknownVariable)
		}
		exprs[flat] = se
		if n := se.NTerms(); n > maxTerms {
			maxTerms = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	coeffs := make([]float64, size*maxTerms)
	vars := make([]int64, size*maxTerms)
	konst := make([]float64, size)
	for i, se := range exprs {
		for t := 0; t < maxTerms; t++ {
			if t < len(se.vars) {
				coeffs[i*maxTerms+t] = se.coeffs[t]
				vars[i*maxTerms+t] = se.vars[t]
			} else {
				vars[i*maxTerms+t] = Sentinel
			}
		}
		konst[i] = se.konst
	}
	dims := append(cloneIndexes(coords), xarr.RangeIndex(TermDim, maxTerms))
	ca, err := xarr.New(coeffs, dims...)
	if err != nil {
		return nil, err
	}
	va, err := xarr.New(vars, dims...)
	if err != nil {
		return nil, err
	}
	ka, err := xarr.New(konst, coords...)
	if err != nil {
		return nil, err
	}
	return &LinExpr{model: m, coeffs: ca, vars: va, konst: ka}, nil
}

// AddConstraintsRule evaluates a constraint rule over the coordinate product
// and registers the assembled family. Every point must return a
// ScalarConstraint with the same sign.
func (m *Model) AddConstraintsRule(rule Rule, coords []xarr.Index, opts ...ConOption) (*Constraint, error) {
	coords, size := normalizeCoords(coords)
	scs := make([]ScalarConstraint, size)
	maxTerms := 1
	var sign matrix.Sign
	first := true
	err := iterProduct(coords, func(flat int, key []any) error {
		res := rule(m, key...)
		sc, ok := res.(ScalarConstraint)
		if !ok {
			return fmt.Errorf("%w: got %T, want ScalarConstraint", ErrRuleArity, res)
		}
		if first {
			sign = sc.sign
			first = false
		} else if sc.sign != sign {
			return fmt.Errorf("%w: mixed comparison signs within one family", ErrRuleArity)
		}
		scs[flat] = sc
		if n := sc.expr.NTerms(); n > maxTerms {
			maxTerms = n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	coeffs := make([]float64, size*maxTerms)
	vars := make([]int64, size*maxTerms)
	rhs := make([]float64, size)
	for i, sc := range scs {
		for t := 0; t < maxTerms; t++ {
			if t < len(sc.expr.vars) {
				coeffs[i*maxTerms+t] = sc.expr.coeffs[t]
				vars[i*maxTerms+t] = sc.expr.vars[t]
			} else {
				vars[i*maxTerms+t] = Sentinel
			}
		}
		// the expression constant moves to the right-hand side
		rhs[i] = sc.rhs - sc.expr.konst
	}
	dims := append(cloneIndexes(coords), xarr.RangeIndex(TermDim, maxTerms))
	ca, err := xarr.New(coeffs, dims...)
	if err != nil {
		return nil, err
	}
	va, err := xarr.New(vars, dims...)
	if err != nil {
		return nil, err
	}
	ra, err := xarr.New(rhs, coords...)
	if err != nil {
		return nil, err
	}
	lhs := &LinExpr{model: m, coeffs: ca, vars: va, konst: xarr.Full(0.0, coords...)}
	return m.AddConstraints(&AnonConstraint{lhs: lhs, sign: sign, rhs: ra}, opts...)
}

// normalizeCoords assigns anonymous names and returns the product size.
func normalizeCoords(coords []xarr.Index) ([]xarr.Index, int) {
	template := xarr.Full(struct{}{}, coords...)
	dims := template.Indexes()
	return dims, template.Size()
}

func cloneIndexes(dims []xarr.Index) []xarr.Index {
	out := make([]xarr.Index, 0, len(dims))
	return append(out, dims...)
}

// iterProduct walks the coordinate product in row-major order.
func iterProduct(coords []xarr.Index, fn func(flat int, key []any) error) error {
	size := 1
	for _, c := range coords {
		size *= c.Len()
	}
	pos := make([]int, len(coords))
	for flat := 0; flat < size; flat++ {
		key := make([]any, len(coords))
		for i, c := range coords {
			key[i] = c.Key(pos[i])
		}
		if err := fn(flat, key); err != nil {
			return err
		}
		for k := len(pos) - 1; k >= 0; k-- {
			pos[k]++
			if pos[k] < coords[k].Len() {
				break
			}
			pos[k] = 0
		}
	}
	return nil
}
