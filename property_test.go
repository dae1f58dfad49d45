package axisopt

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/axisopt/axisopt/xarr"
)

// evalExpr evaluates a zero-dimensional expression at the assignment x.
func evalExpr(e *LinExpr, x map[int64]float64) float64 {
	acc := e.Const().Value()
	vars := e.Vars().Values()
	coeffs := e.Coeffs().Values()
	for i, l := range vars {
		if l == Sentinel {
			continue
		}
		acc += coeffs[i] * x[l]
	}
	return acc
}

func TestLabelAllocationProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	properties.Property("families get contiguous disjoint label ranges", prop.ForAll(
		func(sizes []int) bool {
			m := New()
			var next int64
			for _, n := range sizes {
				v, err := m.AddVariables(0, nil, WithCoords(xarr.RangeIndex("i", n)))
				if err != nil {
					return false
				}
				for i, l := range v.Flat() {
					if l != next+int64(i) {
						return false
					}
				}
				next += int64(n)
			}
			return true
		},
		gen.SliceOf(gen.IntRange(1, 8)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSumDistributesProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	properties.Property("(e1+e2).Sum() == e1.Sum()+e2.Sum() up to term order", prop.ForAll(
		func(c1, c2 []int) bool {
			n := len(c1)
			if len(c2) < n {
				n = len(c2)
			}
			if n == 0 {
				return true
			}
			m := New()
			dim := xarr.RangeIndex("i", n)
			v, err := m.AddVariables(0, nil, WithCoords(dim))
			if err != nil {
				return false
			}
			a1 := make([]float64, n)
			a2 := make([]float64, n)
			x := make(map[int64]float64, n)
			for i := 0; i < n; i++ {
				a1[i] = float64(c1[i])
				a2[i] = float64(c2[i])
				x[int64(i)] = float64(3*i - 7)
			}
			arr1, err := xarr.New(a1, dim)
			if err != nil {
				return false
			}
			arr2, err := xarr.New(a2, dim)
			if err != nil {
				return false
			}
			e1, err := v.Mul(arr1)
			if err != nil {
				return false
			}
			e2, err := v.Mul(arr2)
			if err != nil {
				return false
			}
			both, err := e1.Add(e2)
			if err != nil {
				return false
			}
			lhs, err := both.Sum()
			if err != nil {
				return false
			}
			s1, err := e1.Sum()
			if err != nil {
				return false
			}
			s2, err := e2.Sum()
			if err != nil {
				return false
			}
			rhs, err := s1.Add(s2)
			if err != nil {
				return false
			}
			return evalExpr(lhs, x) == evalExpr(rhs, x)
		},
		gen.SliceOf(gen.IntRange(-10, 10)),
		gen.SliceOf(gen.IntRange(-10, 10)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestScalingAssociativityProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	properties.Property("a*(b*e) has the coefficients of (a*b)*e", prop.ForAll(
		func(a, b int) bool {
			m := New()
			v, err := m.AddVariables(0, nil, WithCoords(xarr.RangeIndex("i", 3)))
			if err != nil {
				return false
			}
			inner, err := v.Mul(b)
			if err != nil {
				return false
			}
			lhs, err := inner.Mul(a)
			if err != nil {
				return false
			}
			rhs, err := v.Mul(a * b)
			if err != nil {
				return false
			}
			return xarr.EqualFunc(lhs.Coeffs(), rhs.Coeffs(), func(x, y float64) bool { return x == y }) &&
				xarr.EqualFunc(lhs.Vars(), rhs.Vars(), func(x, y int64) bool { return x == y })
		},
		gen.IntRange(-100, 100),
		gen.IntRange(-100, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestShiftRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	properties.Property("shift by k then -k restores the interior, sentinel elsewhere", prop.ForAll(
		func(n, k int) bool {
			if k >= n {
				return true
			}
			m := New()
			v, err := m.AddVariables(0, nil, WithCoords(xarr.RangeIndex("t", n)))
			if err != nil {
				return false
			}
			e := v.ToExpr()
			fwd, err := e.Shift(map[string]int{"t": k})
			if err != nil {
				return false
			}
			back, err := fwd.Shift(map[string]int{"t": -k})
			if err != nil {
				return false
			}
			orig := e.Vars().Values()
			got := back.Vars().Values()
			for i := 0; i < n; i++ {
				if i < n-k {
					if got[i] != orig[i] {
						return false
					}
				} else if got[i] != Sentinel {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 12),
		gen.IntRange(0, 11),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
