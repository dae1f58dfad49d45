package axisopt

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axisopt/axisopt/solver"
	_ "github.com/axisopt/axisopt/solver/simplex"
	"github.com/axisopt/axisopt/xarr"
)

func TestSolveBasicLP(t *testing.T) {
	m := buildBasicLP(t)
	status, err := m.Solve("simplex", nil)
	require.NoError(t, err)
	assert.Equal(t, solver.Optimal, status)

	// optimum at the intersection of both constraints
	assert.InDelta(t, 83.0/29, m.ObjectiveValue(), 1e-6)
	x, ok := m.Solution("x")
	require.True(t, ok)
	y, ok := m.Solution("y")
	require.True(t, ok)
	assert.InDelta(t, 1.0/29, x.Value(), 1e-6)
	assert.InDelta(t, 41.0/29, y.Value(), 1e-6)
}

func TestSolveDimensionedLP(t *testing.T) {
	m := buildDimensionedLP(t)
	status, err := m.Solve("simplex", nil)
	require.NoError(t, err)
	assert.Equal(t, solver.Optimal, status)

	// every time step is an independent scaled copy of the basic LP
	assert.InDelta(t, 83.0/29*45, m.ObjectiveValue(), 1e-6)
	x, ok := m.Solution("x")
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		v, err := x.Get(i)
		require.NoError(t, err)
		assert.InDelta(t, float64(i)/29, v, 1e-6)
	}
}

func TestSolveUnknownSolver(t *testing.T) {
	m := buildBasicLP(t)
	_, err := m.Solve("nope", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSolver))
}

func TestSolveInfeasible(t *testing.T) {
	m := New()
	x, err := m.AddVariables(0, nil)
	require.NoError(t, err)
	ac, err := x.GE(2)
	require.NoError(t, err)
	_, err = m.AddConstraints(ac)
	require.NoError(t, err)
	ac, err = x.LE(1)
	require.NoError(t, err)
	_, err = m.AddConstraints(ac)
	require.NoError(t, err)
	obj := x.ToExpr()
	require.NoError(t, m.AddObjective(obj))

	status, err := m.Solve("simplex", nil)
	require.NoError(t, err)
	assert.Equal(t, solver.Infeasible, status)
	_, ok := m.Solution("var0")
	assert.False(t, ok)
}

func TestSolveUnbounded(t *testing.T) {
	m := New()
	x, err := m.AddVariables(0, nil)
	require.NoError(t, err)
	ac, err := x.GE(1)
	require.NoError(t, err)
	_, err = m.AddConstraints(ac)
	require.NoError(t, err)
	require.NoError(t, m.AddObjective(x.ToExpr(), Maximize()))

	status, err := m.Solve("simplex", nil)
	require.NoError(t, err)
	assert.Equal(t, solver.Unbounded, status)
}

func TestSolveMaskedSolutionNaN(t *testing.T) {
	m := New()
	mask, err := xarr.New([]bool{true, false}, xarr.RangeIndex("i", 2))
	require.NoError(t, err)
	x, err := m.AddVariables(0, 5, WithCoords(xarr.RangeIndex("i", 2)), WithMask(mask), WithName("x"))
	require.NoError(t, err)
	ac, err := x.GE(1)
	require.NoError(t, err)
	_, err = m.AddConstraints(ac, ConMask(mask))
	require.NoError(t, err)
	sum, err := x.Sum()
	require.NoError(t, err)
	require.NoError(t, m.AddObjective(sum))

	status, err := m.Solve("simplex", nil)
	require.NoError(t, err)
	assert.Equal(t, solver.Optimal, status)

	sol, ok := m.Solution("x")
	require.True(t, ok)
	v0, err := sol.Get(0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v0, 1e-9)
	v1, err := sol.Get(1)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v1))
}

func TestSolveObjectiveConstant(t *testing.T) {
	m := New()
	x, err := m.AddVariables(1, 10)
	require.NoError(t, err)
	e, err := x.Add(100)
	require.NoError(t, err)
	require.NoError(t, m.AddObjective(e))

	status, err := m.Solve("simplex", nil)
	require.NoError(t, err)
	assert.Equal(t, solver.Optimal, status)
	assert.InDelta(t, 101.0, m.ObjectiveValue(), 1e-9)
}
