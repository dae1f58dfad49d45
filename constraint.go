package axisopt

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/axisopt/axisopt/matrix"
	"github.com/axisopt/axisopt/xarr"
)

// AnonConstraint is the immutable triple (lhs, sign, rhs) produced by a
// comparison. The lhs is purely linear (its constant is zero; comparison
// moved it into rhs) and the rhs array is aligned with the lhs outer shape.
// It carries no constraint labels until registered with a model.
type AnonConstraint struct {
	lhs   *LinExpr
	sign  matrix.Sign
	rhs   xarr.DataArray[float64]
	bound bool
}

// Lhs returns the left-hand side expression.
func (c *AnonConstraint) Lhs() *LinExpr { return c.lhs }

// Sign returns the comparison sign.
func (c *AnonConstraint) Sign() matrix.Sign { return c.sign }

// Rhs returns the right-hand side array.
func (c *AnonConstraint) Rhs() xarr.DataArray[float64] { return c.rhs }

// Shape returns the row shape.
func (c *AnonConstraint) Shape() []int { return c.rhs.Shape() }

// Dims returns the row dimension names.
func (c *AnonConstraint) Dims() []string { return c.rhs.Dims() }

func (c *AnonConstraint) String() string {
	var sb strings.Builder
	sb.WriteString("Constraint")
	size := c.rhs.Size()
	t := c.lhs.NTerms()
	coeffs := c.lhs.coeffs.Values()
	vars := c.lhs.vars.Values()
	rhs := c.rhs.Values()
	outer := c.lhs.outerIndexes()
	const maxLines = 12
	for o := 0; o < size && o < maxLines; o++ {
		sb.WriteString("\n  ")
		if len(outer) > 0 {
			fmt.Fprintf(&sb, "%v: ", unravelKeys(outer, o))
		}
		sb.WriteString(renderTerms(c.lhs.model, coeffs[o*t:(o+1)*t], vars[o*t:(o+1)*t], 0))
		fmt.Fprintf(&sb, " %s %g", c.sign, rhs[o])
	}
	if size > maxLines {
		fmt.Fprintf(&sb, "\n  ... (%d more)", size-maxLines)
	}
	return sb.String()
}

// Constraint is an AnonConstraint bound to a model: it owns an array of
// constraint labels aligned with the row shape.
type Constraint struct {
	anon   *AnonConstraint
	model  *Model
	name   string
	labels xarr.DataArray[int64]
}

// Name returns the family name.
func (c *Constraint) Name() string { return c.name }

// Lhs returns the left-hand side expression.
func (c *Constraint) Lhs() *LinExpr { return c.anon.lhs }

// Sign returns the comparison sign.
func (c *Constraint) Sign() matrix.Sign { return c.anon.sign }

// Rhs returns the right-hand side array.
func (c *Constraint) Rhs() xarr.DataArray[float64] { return c.anon.rhs }

// Labels returns the constraint label array; masked rows hold the sentinel.
func (c *Constraint) Labels() xarr.DataArray[int64] { return c.labels }

// Shape returns the row shape.
func (c *Constraint) Shape() []int { return c.labels.Shape() }

// Dims returns the row dimension names.
func (c *Constraint) Dims() []string { return c.labels.Dims() }

func (c *Constraint) String() string {
	return fmt.Sprintf("%s %s", c.name, c.anon)
}

// AddConstraints validates and registers an anonymous constraint, assigning
// it a contiguous block of constraint labels. Binding the same
// AnonConstraint twice fails with ErrImmutable.
func (m *Model) AddConstraints(ac *AnonConstraint, opts ...ConOption) (*Constraint, error) {
	if ac == nil {
		return nil, fmt.Errorf("axisopt: nil constraint")
	}
	if ac.bound {
		return nil, fmt.Errorf("%w: already registered", ErrImmutable)
	}
	var cfg conConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := m.checkLabels(ac.lhs); err != nil {
		return nil, err
	}

	outer := ac.lhs.outerIndexes()
	var live *bitset.BitSet
	if cfg.mask != nil {
		mask, err := cfg.mask.BroadcastTo(outer...)
		if err != nil {
			return nil, err
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
		name = m.freeName("con%d", len(m.cons))
	} else if _, taken := m.conByName[name]; taken {
		return nil, fmt.Errorf("%w: constraint %q", ErrDuplicateName, name)
	}

	size := ac.rhs.Size()
	start := m.alloc.allocateCons(size)
	data := make([]int64, size)
	for i := range data {
		if live != nil && !live.Test(uint(i)) {
			data[i] = Sentinel
			continue
		}
		data[i] = start + int64(i)
	}
	labels, err := xarr.New(data, outer...)
	if err != nil {
		return nil, err
	}

	ac.bound = true
	c := &Constraint{anon: ac, model: m, name: name, labels: labels}
	m.cons = append(m.cons, c)
	m.conByName[name] = c

	m.log.Debug().Str("name", name).Ints("shape", labels.Shape()).Msg("added constraints")
	return c, nil
}

// AddConstraintsSigned registers the constraint `lhs sign rhs`.
func (m *Model) AddConstraintsSigned(lhs *LinExpr, sign matrix.Sign, rhs any, opts ...ConOption) (*Constraint, error) {
	ac, err := lhs.compare(sign, rhs)
	if err != nil {
		return nil, err
	}
	return m.AddConstraints(ac, opts...)
}
