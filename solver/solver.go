// Package solver defines the adapter contract between an assembled model and
// a concrete LP/MIP solver, and a registry of named adapters.
package solver

import (
	"fmt"
	"sync"

	"github.com/axisopt/axisopt/matrix"
)

// Status is the outcome class reported by an adapter.
type Status uint8

const (
	Unknown Status = iota
	Optimal
	Infeasible
	Unbounded
	Suboptimal
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Infeasible:
		return "infeasible"
	case Unbounded:
		return "unbounded"
	case Suboptimal:
		return "suboptimal"
	default:
		return "unknown"
	}
}

// Ok reports whether the status carries a usable primal solution.
func (s Status) Ok() bool { return s == Optimal || s == Suboptimal }

// Options is an adapter-specific option map.
type Options map[string]any

// Float reads a float64 option with a default.
func (o Options) Float(key string, def float64) float64 {
	if v, ok := o[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

// Int reads an int option with a default.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		if i, ok := v.(int); ok {
			return i
		}
	}
	return def
}

// Result is what an adapter reports back. Objective is the value of the
// linear part only; the caller adds the model's objective constant. Primals
// are keyed by variable label, Duals (optional) by constraint label.
type Result struct {
	Status      Status
	Termination string
	Objective   float64
	Primals     map[int64]float64
	Duals       map[int64]float64
}

// Adapter solves the matrix view of a model.
type Adapter interface {
	Solve(view *matrix.View, opts Options) (Result, error)
}

var (
	mu       sync.RWMutex
	registry = make(map[string]Adapter)
)

// Register makes an adapter available under the given name. Registering the
// same name twice panics.
func Register(name string, a Adapter) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := registry[name]; ok {
		panic(fmt.Sprintf("solver: adapter %q already registered", name))
	}
	registry[name] = a
}

// Get returns the adapter registered under name.
func Get(name string) (Adapter, bool) {
	mu.RLock()
	defer mu.RUnlock()
	a, ok := registry[name]
	return a, ok
}

// Names returns the registered adapter names.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}
