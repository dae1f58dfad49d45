package axisopt

import (
	"github.com/rs/zerolog"

	"github.com/axisopt/axisopt/xarr"
)

// Option configures a Model at construction.
type Option func(*Model)

// WithForceDimNames makes the model reject any operation that would produce
// an anonymously named dimension.
func WithForceDimNames() Option {
	return func(m *Model) { m.forceDimNames = true }
}

// WithLogger overrides the model's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Model) { m.log = l }
}

type varConfig struct {
	coords  []xarr.Index
	dims    []string
	name    string
	mask    *xarr.DataArray[bool]
	integer bool
	binary  bool
}

// VarOption configures one AddVariables call.
type VarOption func(*varConfig)

// WithCoords fixes the family's dimensions to the given coordinate indexes.
func WithCoords(coords ...xarr.Index) VarOption {
	return func(c *varConfig) { c.coords = coords }
}

// WithDims renames the family's dimensions positionally.
func WithDims(names ...string) VarOption {
	return func(c *varConfig) { c.dims = names }
}

// WithName names the family. Names must be unique within a model.
func WithName(name string) VarOption {
	return func(c *varConfig) { c.name = name }
}

// WithMask excludes the coordinates where mask is false: those positions hold
// the sentinel label and are omitted from the matrix view.
func WithMask(mask xarr.DataArray[bool]) VarOption {
	return func(c *varConfig) { c.mask = &mask }
}

// Integer declares the family integer-valued.
func Integer() VarOption {
	return func(c *varConfig) { c.integer = true }
}

// Binary declares the family binary: integer with bounds fixed to [0, 1].
func Binary() VarOption {
	return func(c *varConfig) { c.binary = true }
}

type conConfig struct {
	name string
	mask *xarr.DataArray[bool]
}

// ConOption configures one AddConstraints call.
type ConOption func(*conConfig)

// ConName names the constraint family.
func ConName(name string) ConOption {
	return func(c *conConfig) { c.name = name }
}

// ConMask excludes the rows where mask is false: they hold the sentinel
// constraint label and are omitted from the matrix view.
func ConMask(mask xarr.DataArray[bool]) ConOption {
	return func(c *conConfig) { c.mask = &mask }
}

type objConfig struct {
	maximize  bool
	overwrite bool
}

// ObjOption configures one AddObjective call.
type ObjOption func(*objConfig)

// Maximize sets the objective sense to maximization.
func Maximize() ObjOption {
	return func(c *objConfig) { c.maximize = true }
}

// Overwrite allows replacing an existing objective.
func Overwrite() ObjOption {
	return func(c *objConfig) { c.overwrite = true }
}
