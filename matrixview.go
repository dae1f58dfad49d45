package axisopt

import (
	"fmt"

	"github.com/axisopt/axisopt/matrix"
)

// ToMatrixView exports the model as a deterministic solver-facing bundle.
// Variables and constraint rows appear in ascending label order; sentinel
// labels contribute nothing; duplicate (row, col) coefficients are summed.
// Rebuilding a model with the same calls in the same order yields an
// identical view.
func (m *Model) ToMatrixView() (*matrix.View, error) {
	view := &matrix.View{Sense: m.sense}

	for _, f := range m.families {
		labels := f.labels.Values()
		lower := f.lower.Values()
		upper := f.upper.Values()
		for i, l := range labels {
			if l == Sentinel {
				continue
			}
			view.VarLabels = append(view.VarLabels, l)
			view.Lower = append(view.Lower, lower[i])
			view.Upper = append(view.Upper, upper[i])
			view.Integer = append(view.Integer, f.isInteger())
		}
	}

	var b matrix.Builder
	for _, c := range m.cons {
		rows := c.labels.Values()
		t := c.anon.lhs.NTerms()
		coeffs := c.anon.lhs.coeffs.Values()
		vars := c.anon.lhs.vars.Values()
		rhs := c.anon.rhs.Values()
		for o, row := range rows {
			if row == Sentinel {
				continue
			}
			for k := 0; k < t; k++ {
				v := vars[o*t+k]
				if v == Sentinel {
					continue
				}
				if v < 0 || v >= m.alloc.nextVar {
					return nil, fmt.Errorf("%w: label %d in constraint %q", ErrUnknownVariable, v, c.name)
				}
				b.Add(row, v, coeffs[o*t+k])
			}
			view.ConLabels = append(view.ConLabels, row)
			view.RHS = append(view.RHS, rhs[o])
			view.Signs = append(view.Signs, c.anon.sign)
		}
	}
	b.Flush(view)

	view.Objective = make([]float64, len(view.VarLabels))
	if m.objective != nil {
		byLabel := make(map[int64]float64)
		vars := m.objective.vars.Values()
		coeffs := m.objective.coeffs.Values()
		for i, l := range vars {
			if l == Sentinel {
				continue
			}
			byLabel[l] += coeffs[i]
		}
		for i, l := range view.VarLabels {
			view.Objective[i] = byLabel[l]
		}
		view.ObjectiveConstant = m.objective.konst.Value()
	}
	return view, nil
}
