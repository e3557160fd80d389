package linalg

import (
	"gonum.org/v1/gonum/mat"

	"github.com/seenimoa/finmath/pkg/errors"
)

// Gonum implements Provider on gonum.org/v1/gonum/mat.
type Gonum struct{}

// Name implements Provider.
func (Gonum) Name() string { return "gonum" }

// LeastSquares implements Provider using a QR-based solve.
func (Gonum) LeastSquares(a [][]float64, b []float64) ([]float64, error) {
	rows, cols, err := checkMatrix("least squares", a)
	if err != nil {
		return nil, err
	}
	if len(b) != rows {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "least squares: %s matrix but %d targets", shape{rows, cols}, len(b))
	}
	if rows < cols {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "least squares: underdetermined %s system", shape{rows, cols})
	}

	A := mat.NewDense(rows, cols, flatten(a, rows, cols))
	B := mat.NewVecDense(rows, append([]float64(nil), b...))

	var x mat.VecDense
	if err := x.SolveVec(A, B); err != nil {
		return nil, errors.Wrapf(errors.ErrDegenerateInput, "least squares: %v", err)
	}
	return mat.Col(nil, 0, &x), nil
}

// EigenSym implements Provider. Values come back in ascending order.
func (Gonum) EigenSym(m [][]float64) ([]float64, [][]float64, error) {
	rows, cols, err := checkMatrix("eigen decomposition", m)
	if err != nil {
		return nil, nil, err
	}
	if rows != cols {
		return nil, nil, errors.Wrapf(errors.ErrInvalidArgument, "eigen decomposition: matrix is %s, not square", shape{rows, cols})
	}
	for i := 0; i < rows; i++ {
		for j := i + 1; j < cols; j++ {
			if m[i][j] != m[j][i] {
				return nil, nil, errors.Wrapf(errors.ErrInvalidArgument, "eigen decomposition: matrix not symmetric at (%d,%d)", i, j)
			}
		}
	}

	sym := mat.NewSymDense(rows, flatten(m, rows, cols))
	var es mat.EigenSym
	if ok := es.Factorize(sym, true); !ok {
		return nil, nil, errors.Wrap(errors.ErrDegenerateInput, "eigen decomposition: factorization failed")
	}

	values := es.Values(nil)
	var ev mat.Dense
	es.VectorsTo(&ev)

	vectors := make([][]float64, rows)
	for k := range vectors {
		vectors[k] = mat.Col(nil, k, &ev)
	}
	return values, vectors, nil
}
