// Package axisopt builds and manipulates large linear (and mixed-integer
// linear) optimization models whose variables, constraints and coefficients
// are organized as labeled multi-dimensional arrays.
//
// A Model hands out families of decision variables indexed by named
// dimensions. Variables combine into linear expressions through broadcasting
// arithmetic, comparisons turn expressions into constraints, and the
// assembled model exports a deterministic matrix view that solver adapters
// translate:
//
//	m := axisopt.New()
//	x, _ := m.AddVariables(0, nil, axisopt.WithName("x"))
//	y, _ := m.AddVariables(0, nil, axisopt.WithName("y"))
//	lhs, _ := m.LinExpr(axisopt.TermPair{Coeff: 3, Var: x}, axisopt.TermPair{Coeff: 7, Var: y})
//	ge, _ := lhs.GE(10)
//	m.AddConstraints(ge)
//	obj, _ := x.Add(y)
//	m.AddObjective(obj)
//	m.Solve("simplex", nil)
//
// The labeled-array primitive lives in the xarr subpackage, the solver-facing
// matrix bundle in matrix, and the adapter contract in solver.
package axisopt
