// Package simplex implements a dense two-phase primal simplex adapter over a
// matrix view. It is the built-in reference solver: integrality requirements
// are relaxed to their continuous hull with a logged warning. Registered
// under the name "simplex".
package simplex

import (
	"math"

	"github.com/axisopt/axisopt/logger"
	"github.com/axisopt/axisopt/matrix"
	"github.com/axisopt/axisopt/solver"
)

func init() {
	solver.Register("simplex", &Simplex{})
}

// Simplex is a stateless adapter; one instance serves any number of solves.
type Simplex struct{}

const defaultTol = 1e-9

// Solve minimizes (or maximizes) the view's objective with Bland's rule
// pivoting. Supported options: "tol" (float64), "max_iter" (int).
func (s *Simplex) Solve(view *matrix.View, opts solver.Options) (solver.Result, error) {
	tol := opts.Float("tol", defaultTol)
	maxIter := opts.Int("max_iter", 10000)

	for _, isInt := range view.Integer {
		if isInt {
			log := logger.Logger()
			log.Warn().Msg("simplex adapter relaxes integrality requirements")
			break
		}
	}

	p := newProblem(view)
	st := p.run(tol, maxIter)
	res := solver.Result{Status: st, Termination: st.String()}
	if !st.Ok() {
		return res, nil
	}

	x := p.primals()
	obj := 0.0
	primals := make(map[int64]float64, len(view.VarLabels))
	for i, l := range view.VarLabels {
		primals[l] = x[i]
		obj += view.Objective[i] * x[i]
	}
	res.Objective = obj
	res.Primals = primals
	return res, nil
}

// column transform: x[j] = shift[j] + sgn[j]*y[col[j]]; free variables split
// into a positive and a negative part occupying two adjacent columns.
type problem struct {
	view  *matrix.View
	sense matrix.Sense

	nVar  int
	shift []float64
	sgn   []float64
	col   []int
	split []bool

	nStruct int
	rows    []denseRow

	tab       [][]float64
	basis     []int
	nCols     int
	nArt      int
	artStart  int
	unbounded bool
}

type denseRow struct {
	coeffs []float64 // length nStruct
	rhs    float64
	sign   matrix.Sign
}

func newProblem(view *matrix.View) *problem {
	p := &problem{view: view, sense: view.Sense, nVar: len(view.VarLabels)}
	p.shift = make([]float64, p.nVar)
	p.sgn = make([]float64, p.nVar)
	p.col = make([]int, p.nVar)
	p.split = make([]bool, p.nVar)

	next := 0
	for j := 0; j < p.nVar; j++ {
		l, u := view.Lower[j], view.Upper[j]
		p.col[j] = next
		switch {
		case !math.IsInf(l, -1):
			p.shift[j], p.sgn[j] = l, 1
			next++
		case !math.IsInf(u, 1):
			p.shift[j], p.sgn[j] = u, -1
			next++
		default:
			p.sgn[j] = 1
			p.split[j] = true
			next += 2
		}
	}
	p.nStruct = next

	cols := view.VarIndex()
	rowIdx := view.ConIndex()
	dense := make([]denseRow, view.NbConstraints())
	for i := range dense {
		dense[i].coeffs = make([]float64, p.nStruct)
		dense[i].rhs = view.RHS[i]
		dense[i].sign = view.Signs[i]
	}
	for k := range view.Rows {
		i := rowIdx[view.Rows[k]]
		j := cols[view.Cols[k]]
		a := view.Values[k]
		dense[i].rhs -= a * p.shift[j]
		dense[i].coeffs[p.col[j]] += a * p.sgn[j]
		if p.split[j] {
			dense[i].coeffs[p.col[j]+1] -= a
		}
	}
	p.rows = dense

	// finite upper bounds on lower-bounded variables become explicit rows
	for j := 0; j < p.nVar; j++ {
		l, u := view.Lower[j], view.Upper[j]
		if math.IsInf(l, -1) || math.IsInf(u, 1) {
			continue
		}
		r := denseRow{coeffs: make([]float64, p.nStruct), rhs: u - l, sign: matrix.LE}
		r.coeffs[p.col[j]] = 1
		p.rows = append(p.rows, r)
	}
	return p
}

// run assembles the standard-form tableau and drives both phases.
func (p *problem) run(tol float64, maxIter int) solver.Status {
	m := len(p.rows)
	// normalize rhs >= 0
	for i := range p.rows {
		if p.rows[i].rhs < 0 {
			for j := range p.rows[i].coeffs {
				p.rows[i].coeffs[j] = -p.rows[i].coeffs[j]
			}
			p.rows[i].rhs = -p.rows[i].rhs
			switch p.rows[i].sign {
			case matrix.LE:
				p.rows[i].sign = matrix.GE
			case matrix.GE:
				p.rows[i].sign = matrix.LE
			}
		}
	}

	nArt := 0
	for i := range p.rows {
		if p.rows[i].sign != matrix.LE {
			nArt++
		}
	}
	p.nArt = nArt
	p.artStart = p.nStruct + m
	p.nCols = p.nStruct + m + nArt

	p.tab = make([][]float64, m)
	p.basis = make([]int, m)
	art := p.artStart
	for i, r := range p.rows {
		row := make([]float64, p.nCols+1)
		copy(row, r.coeffs)
		row[p.nCols] = r.rhs
		switch r.sign {
		case matrix.LE:
			row[p.nStruct+i] = 1
			p.basis[i] = p.nStruct + i
		case matrix.GE:
			row[p.nStruct+i] = -1
			row[art] = 1
			p.basis[i] = art
			art++
		case matrix.EQ:
			row[art] = 1
			p.basis[i] = art
			art++
		}
		p.tab[i] = row
	}

	if nArt > 0 {
		cost := make([]float64, p.nCols)
		for j := p.artStart; j < p.nCols; j++ {
			cost[j] = 1
		}
		phase1 := p.iterate(cost, nil, tol, maxIter)
		if p.unbounded || phase1 > tol {
			if p.unbounded {
				return solver.Unknown
			}
			return solver.Infeasible
		}
		p.driveOutArtificials(tol)
	}

	cost := make([]float64, p.nCols)
	for j := 0; j < p.nVar; j++ {
		c := p.view.Objective[j]
		if p.sense == matrix.Max {
			c = -c
		}
		cost[p.col[j]] += c * p.sgn[j]
		if p.split[j] {
			cost[p.col[j]+1] -= c
		}
	}
	banned := make([]bool, p.nCols)
	for j := p.artStart; j < p.nCols; j++ {
		banned[j] = true
	}
	p.iterate(cost, banned, tol, maxIter)
	if p.unbounded {
		return solver.Unbounded
	}
	return solver.Optimal
}

// iterate runs Bland's-rule pivoting until optimality and returns the reached
// objective value of cost.
func (p *problem) iterate(cost []float64, banned []bool, tol float64, maxIter int) float64 {
	p.unbounded = false
	m := len(p.tab)
	obj := make([]float64, p.nCols+1)
	copy(obj, cost)
	for i := 0; i < m; i++ {
		cb := cost[p.basis[i]]
		if cb == 0 {
			continue
		}
		for j := range obj {
			obj[j] -= cb * p.tab[i][j]
		}
	}

	for it := 0; it < maxIter; it++ {
		enter := -1
		for j := 0; j < p.nCols; j++ {
			if banned != nil && banned[j] {
				continue
			}
			if obj[j] < -tol {
				enter = j
				break
			}
		}
		if enter < 0 {
			return -obj[p.nCols]
		}
		leave := -1
		best := math.Inf(1)
		for i := 0; i < m; i++ {
			a := p.tab[i][enter]
			if a <= tol {
				continue
			}
			ratio := p.tab[i][p.nCols] / a
			if ratio < best-tol || (ratio < best+tol && (leave < 0 || p.basis[i] < p.basis[leave])) {
				best = ratio
				leave = i
			}
		}
		if leave < 0 {
			p.unbounded = true
			return -obj[p.nCols]
		}
		p.pivot(leave, enter, obj)
	}
	return -obj[p.nCols]
}

func (p *problem) pivot(r, c int, obj []float64) {
	pr := p.tab[r]
	piv := pr[c]
	for j := range pr {
		pr[j] /= piv
	}
	for i := range p.tab {
		if i == r {
			continue
		}
		f := p.tab[i][c]
		if f == 0 {
			continue
		}
		for j := range p.tab[i] {
			p.tab[i][j] -= f * pr[j]
		}
	}
	f := obj[c]
	if f != 0 {
		for j := range obj {
			obj[j] -= f * pr[j]
		}
	}
	p.basis[r] = c
}

// driveOutArtificials pivots zero-valued artificial basics onto structural
// columns where possible; rows with no eligible column are redundant and left
// in place (their artificial stays banned at zero).
func (p *problem) driveOutArtificials(tol float64) {
	for i := range p.basis {
		if p.basis[i] < p.artStart {
			continue
		}
		for j := 0; j < p.artStart; j++ {
			if math.Abs(p.tab[i][j]) > tol {
				noop := make([]float64, p.nCols+1)
				p.pivot(i, j, noop)
				break
			}
		}
	}
}

func (p *problem) primals() []float64 {
	y := make([]float64, p.nCols)
	for i, b := range p.basis {
		y[b] = p.tab[i][p.nCols]
	}
	x := make([]float64, p.nVar)
	for j := 0; j < p.nVar; j++ {
		v := p.sgn[j] * y[p.col[j]]
		if p.split[j] {
			v -= y[p.col[j]+1]
		}
		x[j] = p.shift[j] + v
	}
	return x
}
