package axisopt

import (
	"fmt"

	"github.com/axisopt/axisopt/xarr"
)

// toFloatArray coerces the dynamic coefficient and bound inputs the public
// API accepts into a labeled array. Unlabeled slices get anonymous dim_<k>
// dimensions with range coordinates; rejecting those under force_dim_names is
// the caller's job.
func toFloatArray(v any) (xarr.DataArray[float64], error) {
	switch b := v.(type) {
	case xarr.DataArray[float64]:
		return b, nil
	case float64:
		return xarr.Scalar(b), nil
	case float32:
		return xarr.Scalar(float64(b)), nil
	case int:
		return xarr.Scalar(float64(b)), nil
	case int64:
		return xarr.Scalar(float64(b)), nil
	case []float64:
		return xarr.New(b, xarr.AnonIndex(len(b)))
	case [][]float64:
		if len(b) == 0 {
			return xarr.DataArray[float64]{}, fmt.Errorf("axisopt: empty coefficient matrix")
		}
		flat := make([]float64, 0, len(b)*len(b[0]))
		for _, row := range b {
			if len(row) != len(b[0]) {
				return xarr.DataArray[float64]{}, fmt.Errorf("axisopt: ragged coefficient matrix")
			}
			flat = append(flat, row...)
		}
		return xarr.New(flat, xarr.AnonIndex(len(b)), xarr.AnonIndex(len(b[0])))
	default:
		return xarr.DataArray[float64]{}, fmt.Errorf("axisopt: unsupported value of type %T", v)
	}
}

// normalizeBound turns one AddVariables bound into a labeled array. A nil
// bound is the given default (±Inf). Unlabeled dense arrays require coords
// and are laid out over them; labeled arrays pass through.
func normalizeBound(v any, def float64, coords []xarr.Index) (xarr.DataArray[float64], error) {
	if v == nil {
		return xarr.Scalar(def), nil
	}
	switch b := v.(type) {
	case []float64:
		if len(coords) == 0 {
			return xarr.DataArray[float64]{}, fmt.Errorf("%w: 1-dimensional bound", ErrMissingCoordinates)
		}
		return xarr.New(b, coords[0])
	case [][]float64:
		if len(coords) < 2 {
			return xarr.DataArray[float64]{}, fmt.Errorf("%w: 2-dimensional bound", ErrMissingCoordinates)
		}
		flat := make([]float64, 0, len(b)*len(b[0]))
		for _, row := range b {
			flat = append(flat, row...)
		}
		return xarr.New(flat, coords[0], coords[1])
	default:
		return toFloatArray(v)
	}
}

// checkDimNames rejects anonymous dimensions when the model enforces names.
func (m *Model) checkDimNames(dims []xarr.Index) error {
	if !m.forceDimNames {
		return nil
	}
	for _, d := range dims {
		if d.Anonymous() || d.Name() == "" {
			return fmt.Errorf("%w: %q", ErrUnnamedDimension, d.Name())
		}
	}
	return nil
}
