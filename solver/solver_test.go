package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axisopt/axisopt/matrix"
)

type fakeAdapter struct{}

func (fakeAdapter) Solve(view *matrix.View, opts Options) (Result, error) {
	return Result{Status: Optimal}, nil
}

func TestRegistry(t *testing.T) {
	Register("fake", fakeAdapter{})
	a, ok := Get("fake")
	require.True(t, ok)
	res, err := a.Solve(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Optimal, res.Status)

	_, ok = Get("missing")
	assert.False(t, ok)
	assert.Contains(t, Names(), "fake")

	assert.Panics(t, func() { Register("fake", fakeAdapter{}) })
}

func TestOptions(t *testing.T) {
	o := Options{"tol": 1e-6, "max_iter": 5}
	assert.Equal(t, 1e-6, o.Float("tol", 1e-9))
	assert.Equal(t, 1e-9, o.Float("missing", 1e-9))
	assert.Equal(t, 5, o.Int("max_iter", 100))
	assert.Equal(t, 100, o.Int("missing", 100))
	var nilOpts Options
	assert.Equal(t, 1.0, nilOpts.Float("tol", 1.0))
}

func TestStatus(t *testing.T) {
	assert.True(t, Optimal.Ok())
	assert.True(t, Suboptimal.Ok())
	assert.False(t, Infeasible.Ok())
	assert.Equal(t, "optimal", Optimal.String())
	assert.Equal(t, "infeasible", Infeasible.String())
	assert.Equal(t, "unbounded", Unbounded.String())
	assert.Equal(t, "unknown", Unknown.String())
}
