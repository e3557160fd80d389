// Package linalg defines the linear-algebra backend used by regression and
// PCA, with a gonum-backed implementation and a stand-in that reports every
// operation as unsupported.
package linalg

import (
	"fmt"
	"sort"
	"sync"

	"github.com/seenimoa/finmath/pkg/errors"
)

// Provider solves the dense problems the analysis layer needs. Matrices are
// row-major [][]float64 so callers never touch the backend's types.
type Provider interface {
	// Name identifies the backend in config and CLI output.
	Name() string

	// LeastSquares returns x minimising ||a·x − b||₂. a must have at least
	// as many rows as columns and full column rank.
	LeastSquares(a [][]float64, b []float64) ([]float64, error)

	// EigenSym decomposes a symmetric matrix. vectors[k] is the unit
	// eigenvector for values[k]; ordering is backend-defined.
	EigenSym(m [][]float64) (values []float64, vectors [][]float64, err error)
}

// Unavailable is the provider used when no backend is configured.
type Unavailable struct{}

// Name implements Provider.
func (Unavailable) Name() string { return "none" }

// LeastSquares implements Provider.
func (Unavailable) LeastSquares([][]float64, []float64) ([]float64, error) {
	return nil, errors.Wrap(errors.ErrUnsupported, "least squares: no linear algebra backend")
}

// EigenSym implements Provider.
func (Unavailable) EigenSym([][]float64) ([]float64, [][]float64, error) {
	return nil, nil, errors.Wrap(errors.ErrUnsupported, "eigen decomposition: no linear algebra backend")
}

// Registry is a thread-safe name → Provider map.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry returns a registry holding the built-in providers.
func NewRegistry() *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	r.Register(Gonum{})
	r.Register(Unavailable{})
	return r
}

// Register adds p, replacing any provider with the same name.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns the provider registered under name.
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "linalg: unknown provider %q (have %v)", name, r.namesLocked())
	}
	return p, nil
}

// Names lists registered providers alphabetically.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkMatrix validates that m is non-empty and rectangular, returning its shape.
func checkMatrix(op string, m [][]float64) (rows, cols int, err error) {
	rows = len(m)
	if rows == 0 || len(m[0]) == 0 {
		return 0, 0, errors.Wrapf(errors.ErrInvalidArgument, "%s: empty matrix", op)
	}
	cols = len(m[0])
	for i, row := range m {
		if len(row) != cols {
			return 0, 0, errors.Wrapf(errors.ErrInvalidArgument, "%s: row %d has %d columns, want %d", op, i, len(row), cols)
		}
	}
	return rows, cols, nil
}

func flatten(m [][]float64, rows, cols int) []float64 {
	data := make([]float64, 0, rows*cols)
	for _, row := range m {
		data = append(data, row...)
	}
	return data
}

type shape struct{ rows, cols int }

func (s shape) String() string { return fmt.Sprintf("%dx%d", s.rows, s.cols) }
