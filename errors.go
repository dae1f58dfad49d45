package axisopt

import (
	"errors"

	"github.com/axisopt/axisopt/xarr"
)

var (
	// ErrMissingCoordinates is returned when an unlabeled dense bound or
	// coefficient array is given without coordinates.
	ErrMissingCoordinates = errors.New("axisopt: unlabeled array requires coordinates")

	// ErrUnnamedDimension is returned when an operation would produce an
	// anonymously named dimension and the model enforces dimension names.
	ErrUnnamedDimension = errors.New("axisopt: anonymous dimension name")

	// ErrDimensionMismatch is returned when two arrays share a dimension
	// name but disagree on its coordinate index.
	ErrDimensionMismatch = xarr.ErrDimensionMismatch

	// ErrDuplicateName is returned on a name collision in the variable or
	// constraint registry.
	ErrDuplicateName = errors.New("axisopt: duplicate name")

	// ErrImmutable is returned when binding an already-bound constraint.
	ErrImmutable = errors.New("axisopt: constraint is immutable")

	// ErrRuleArity is returned when a rule function returns something other
	// than the expected scalar expression or scalar constraint.
	ErrRuleArity = errors.New("axisopt: rule returned unexpected value")

	// ErrUnknownVariable is returned when an expression references a
	// variable label that does not belong to the model.
	ErrUnknownVariable = errors.New("axisopt: expression references unknown variable")

	// ErrObjectiveExists is returned when setting an objective over an
	// existing one without Overwrite.
	ErrObjectiveExists = errors.New("axisopt: objective already set")

	// ErrBoundsInvalid is returned when a lower bound exceeds its upper
	// bound after broadcast.
	ErrBoundsInvalid = errors.New("axisopt: lower bound exceeds upper bound")

	// ErrSolver wraps adapter-reported failures and unknown adapter names.
	ErrSolver = errors.New("axisopt: solver failure")
)
