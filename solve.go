package axisopt

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/axisopt/axisopt/solver"
	"github.com/axisopt/axisopt/xarr"
)

// Solve exports the matrix view, hands it to the named adapter and writes the
// primal (and, when reported, dual) solution back as labeled arrays shaped
// per family. Masked positions hold NaN.
func (m *Model) Solve(solverName string, opts solver.Options) (solver.Status, error) {
	adapter, ok := solver.Get(solverName)
	if !ok {
		return solver.Unknown, fmt.Errorf("%w: unknown solver %q (registered: %v)", ErrSolver, solverName, solver.Names())
	}
	view, err := m.ToMatrixView()
	if err != nil {
		return solver.Unknown, err
	}

	start := time.Now()
	m.log.Info().
		Str("solver", solverName).
		Int("nbVariables", view.NbVariables()).
		Int("nbConstraints", view.NbConstraints()).
		Msg("solving")

	res, err := adapter.Solve(view, opts)
	if err != nil {
		return solver.Unknown, fmt.Errorf("%w: %s: %v", ErrSolver, solverName, err)
	}
	m.status = res.Status
	m.log.Info().
		Str("status", res.Status.String()).
		Dur("took", time.Since(start)).
		Msg("solved")

	if !res.Status.Ok() {
		return res.Status, nil
	}
	m.objValue = res.Objective + view.ObjectiveConstant

	// families are disjoint; write their solution arrays back concurrently
	primals := make([]xarr.DataArray[float64], len(m.families))
	var g errgroup.Group
	for i, f := range m.families {
		i, f := i, f
		g.Go(func() error {
			primals[i] = xarr.Map(f.labels, func(l int64) float64 {
				if l == Sentinel {
					return math.NaN()
				}
				return res.Primals[l]
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res.Status, err
	}
	m.solution = make(map[string]xarr.DataArray[float64], len(m.families))
	for i, f := range m.families {
		m.solution[f.name] = primals[i]
	}

	m.duals = nil
	if res.Duals != nil {
		m.duals = make(map[string]xarr.DataArray[float64], len(m.cons))
		for _, c := range m.cons {
			m.duals[c.name] = xarr.Map(c.labels, func(l int64) float64 {
				if l == Sentinel {
					return math.NaN()
				}
				return res.Duals[l]
			})
		}
	}
	return res.Status, nil
}

// Status returns the status of the last solve.
func (m *Model) Status() solver.Status { return m.status }

// ObjectiveValue returns the objective value of the last successful solve,
// including the objective constant.
func (m *Model) ObjectiveValue() float64 { return m.objValue }

// Solution returns the primal solution array of a variable family.
func (m *Model) Solution(name string) (xarr.DataArray[float64], bool) {
	s, ok := m.solution[name]
	return s, ok
}

// Dual returns the dual value array of a constraint family, when the adapter
// reported duals.
func (m *Model) Dual(name string) (xarr.DataArray[float64], bool) {
	d, ok := m.duals[name]
	return d, ok
}
