package axisopt

import (
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/rs/zerolog"

	"github.com/axisopt/axisopt/logger"
	"github.com/axisopt/axisopt/matrix"
	"github.com/axisopt/axisopt/solver"
	"github.com/axisopt/axisopt/xarr"
)

// Model owns the label allocator, the variable and constraint registries, the
// objective and, after a successful solve, the solution arrays. Variables and
// constraints are lightweight views referencing the model's label state.
//
// A Model is not safe for concurrent mutation; arithmetic on already-built
// variables and expressions is pure and may run in parallel.
type Model struct {
	alloc         labelAllocator
	forceDimNames bool
	log           zerolog.Logger

	families  []*varFamily
	famByName map[string]*varFamily

	cons      []*Constraint
	conByName map[string]*Constraint

	objective *LinExpr
	sense     matrix.Sense

	status   solver.Status
	objValue float64
	solution map[string]xarr.DataArray[float64]
	duals    map[string]xarr.DataArray[float64]
}

// New creates an empty model.
func New(opts ...Option) *Model {
	m := &Model{
		log:       logger.Logger(),
		famByName: make(map[string]*varFamily),
		conByName: make(map[string]*Constraint),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// varFamily is the registered metadata of one AddVariables call.
type varFamily struct {
	id      int
	name    string
	start   int64
	labels  xarr.DataArray[int64]
	lower   xarr.DataArray[float64]
	upper   xarr.DataArray[float64]
	integer bool
	binary  bool
	live    *bitset.BitSet // nil when every position is live
}

func (f *varFamily) size() int { return f.labels.Size() }

func (f *varFamily) isInteger() bool { return f.integer || f.binary }

// AddVariables registers a family of decision variables. Bounds may be nil
// (unbounded), numeric scalars, unlabeled slices (coords required) or labeled
// arrays; they are broadcast against each other and against the coords.
func (m *Model) AddVariables(lower, upper any, opts ...VarOption) (Variable, error) {
	var cfg varConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.binary {
		lower, upper = 0.0, 1.0
	}

	coords := cfg.coords
	if len(cfg.dims) > 0 {
		if len(cfg.dims) != len(coords) {
			return Variable{}, fmt.Errorf("axisopt: %d dimension names for %d coordinates", len(cfg.dims), len(coords))
		}
		coords = make([]xarr.Index, len(cfg.coords))
		for i, ix := range cfg.coords {
			coords[i] = ix.WithName(cfg.dims[i])
		}
	}

	lo, err := normalizeBound(lower, math.Inf(-1), coords)
	if err != nil {
		return Variable{}, err
	}
	up, err := normalizeBound(upper, math.Inf(1), coords)
	if err != nil {
		return Variable{}, err
	}

	dims := coords
	if len(dims) == 0 {
		dims, err = xarr.UnionDims(lo.Indexes(), up.Indexes())
		if err != nil {
			return Variable{}, err
		}
	} else {
		// labeled bounds must agree with the declared coordinates
		if _, err := xarr.UnionDims(dims, lo.Indexes()); err != nil {
			return Variable{}, err
		}
		if _, err := xarr.UnionDims(dims, up.Indexes()); err != nil {
			return Variable{}, err
		}
	}
	template := xarr.Full(int64(0), dims...)
	dims = template.Indexes()
	if err := m.checkDimNames(dims); err != nil {
		return Variable{}, err
	}

	lo, err = lo.BroadcastTo(dims...)
	if err != nil {
		return Variable{}, err
	}
	up, err = up.BroadcastTo(dims...)
	if err != nil {
		return Variable{}, err
	}
	for i, l := range lo.Values() {
		if l > up.Values()[i] {
			return Variable{}, fmt.Errorf("%w: %g > %g", ErrBoundsInvalid, l, up.Values()[i])
		}
	}

	var live *bitset.BitSet
	if cfg.mask != nil {
		mask, err := cfg.mask.BroadcastTo(dims...)
		if err != nil {
			return Variable{}, err
		}
		live = bitset.New(uint(mask.Size()))
		for i, ok := range mask.Values() {
			if ok {
				live.Set(uint(i))
			}
		}
	}

	name := cfg.name
	if name == "" {
		name = m.freeName("var%d", len(m.families))
	} else if _, taken := m.famByName[name]; taken {
		return Variable{}, fmt.Errorf("%w: variable %q", ErrDuplicateName, name)
	}

	size := template.Size()
	start := m.alloc.allocateVars(size)
	data := make([]int64, size)
	for i := range data {
		if live != nil && !live.Test(uint(i)) {
			data[i] = Sentinel
			continue
		}
		data[i] = start + int64(i)
	}
	labels, err := xarr.New(data, dims...)
	if err != nil {
		return Variable{}, err
	}

	f := &varFamily{
		id:      len(m.families),
		name:    name,
		start:   start,
		labels:  labels,
		lower:   lo,
		upper:   up,
		integer: cfg.integer,
		binary:  cfg.binary,
		live:    live,
	}
	m.families = append(m.families, f)
	m.famByName[name] = f

	m.log.Debug().Str("name", name).Ints("shape", labels.Shape()).Int("size", size).Msg("added variables")
	return Variable{model: m, fam: f, labels: labels}, nil
}

// freeName picks the first unused auto-generated name of the given pattern.
func (m *Model) freeName(pattern string, k int) string {
	for {
		name := fmt.Sprintf(pattern, k)
		if _, varTaken := m.famByName[name]; varTaken {
			k++
			continue
		}
		if _, conTaken := m.conByName[name]; conTaken {
			k++
			continue
		}
		return name
	}
}

// Variable returns the registered variable family of the given name.
func (m *Model) Variable(name string) (Variable, bool) {
	f, ok := m.famByName[name]
	if !ok {
		return Variable{}, false
	}
	return Variable{model: m, fam: f, labels: f.labels}, true
}

// Variables returns every registered family in registration order.
func (m *Model) Variables() []Variable {
	out := make([]Variable, len(m.families))
	for i, f := range m.families {
		out[i] = Variable{model: m, fam: f, labels: f.labels}
	}
	return out
}

// Constraint returns the registered constraint family of the given name.
func (m *Model) Constraint(name string) (*Constraint, bool) {
	c, ok := m.conByName[name]
	return c, ok
}

// Constraints returns every registered constraint family in registration
// order.
func (m *Model) Constraints() []*Constraint {
	out := make([]*Constraint, len(m.cons))
	copy(out, m.cons)
	return out
}

// NbVariables returns the number of live (unmasked) variables.
func (m *Model) NbVariables() int {
	n := 0
	for _, f := range m.families {
		if f.live == nil {
			n += f.size()
		} else {
			n += int(f.live.Count())
		}
	}
	return n
}

// NbConstraints returns the number of live constraint rows.
func (m *Model) NbConstraints() int {
	n := 0
	for _, c := range m.cons {
		for _, l := range c.labels.Values() {
			if l != Sentinel {
				n++
			}
		}
	}
	return n
}

// RemoveConstraints drops a constraint family from the model. Its labels are
// not reused.
func (m *Model) RemoveConstraints(name string) error {
	c, ok := m.conByName[name]
	if !ok {
		return fmt.Errorf("axisopt: no constraint family %q", name)
	}
	delete(m.conByName, name)
	for i, cc := range m.cons {
		if cc == c {
			m.cons = append(m.cons[:i], m.cons[i+1:]...)
			break
		}
	}
	return nil
}

// AddObjective sets the model objective. The expression must be reduced to a
// zero-dimensional outer shape first (use Sum); there is no implicit
// summation. Re-setting requires Overwrite.
func (m *Model) AddObjective(e *LinExpr, opts ...ObjOption) error {
	var cfg objConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if m.objective != nil && !cfg.overwrite {
		return ErrObjectiveExists
	}
	if e == nil {
		return fmt.Errorf("axisopt: nil objective expression")
	}
	if len(e.outerIndexes()) != 0 {
		return fmt.Errorf("axisopt: objective has outer dimensions %v, reduce with Sum first", e.Dims())
	}
	if err := m.checkLabels(e); err != nil {
		return err
	}
	m.objective = e
	m.sense = matrix.Min
	if cfg.maximize {
		m.sense = matrix.Max
	}
	return nil
}

// Objective returns the current objective expression and sense.
func (m *Model) Objective() (*LinExpr, matrix.Sense) {
	return m.objective, m.sense
}

// checkLabels verifies that every non-sentinel variable label of e belongs to
// this model.
func (m *Model) checkLabels(e *LinExpr) error {
	if e.model != nil && e.model != m {
		return fmt.Errorf("%w: expression built on a different model", ErrUnknownVariable)
	}
	for _, l := range e.vars.Values() {
		if l == Sentinel {
			continue
		}
		if l < 0 || l >= m.alloc.nextVar {
			return fmt.Errorf("%w: label %d", ErrUnknownVariable, l)
		}
	}
	return nil
}

// labelFamily returns the family owning the given variable label.
func (m *Model) labelFamily(label int64) *varFamily {
	for _, f := range m.families {
		if label >= f.start && label < f.start+int64(f.size()) {
			return f
		}
	}
	return nil
}
