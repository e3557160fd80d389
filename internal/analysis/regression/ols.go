// Package regression fits ordinary least squares models and principal
// components on top of a linalg.Provider.
package regression

import (
	"math"

	"github.com/seenimoa/finmath/internal/linalg"
	"github.com/seenimoa/finmath/pkg/errors"
)

// OLS is a fitted linear model y = Intercept + Σ Coefficients[j]·x[j].
type OLS struct {
	Intercept    float64   `json:"intercept" yaml:"intercept"`
	Coefficients []float64 `json:"coefficients" yaml:"coefficients"`
	RSquared     float64   `json:"r_squared" yaml:"r_squared"`
	Observations int       `json:"observations" yaml:"observations"`
}

// FitOLS regresses y on the rows of X with an intercept term.
func FitOLS(p linalg.Provider, X [][]float64, y []float64) (*OLS, error) {
	n, m, err := shape(X)
	if err != nil {
		return nil, errors.Wrap(err, "ols")
	}
	if len(y) != n {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "ols: %d observations but %d targets", n, len(y))
	}
	if n < m+1 {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "ols: %d observations cannot fit %d parameters", n, m+1)
	}

	design := make([][]float64, n)
	for i, row := range X {
		design[i] = make([]float64, 0, m+1)
		design[i] = append(design[i], 1)
		design[i] = append(design[i], row...)
	}

	coeffs, err := p.LeastSquares(design, y)
	if err != nil {
		return nil, errors.Wrap(err, "ols")
	}

	model := &OLS{
		Intercept:    coeffs[0],
		Coefficients: coeffs[1:],
		Observations: n,
	}
	model.RSquared = model.rSquared(X, y)
	return model, nil
}

// Predict evaluates the model for each row of X.
func (o *OLS) Predict(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, row := range X {
		if len(row) != len(o.Coefficients) {
			return nil, errors.Wrapf(errors.ErrInvalidArgument,
				"predict: row %d has %d features, model has %d", i, len(row), len(o.Coefficients))
		}
		v := o.Intercept
		for j, x := range row {
			v += o.Coefficients[j] * x
		}
		out[i] = v
	}
	return out, nil
}

func (o *OLS) rSquared(X [][]float64, y []float64) float64 {
	pred, err := o.Predict(X)
	if err != nil {
		return math.NaN()
	}
	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))

	var ssRes, ssTot float64
	for i, v := range y {
		ssRes += (v - pred[i]) * (v - pred[i])
		ssTot += (v - mean) * (v - mean)
	}
	if ssTot == 0 {
		return 1
	}
	return 1 - ssRes/ssTot
}

// shape validates that m is non-empty and rectangular.
func shape(m [][]float64) (rows, cols int, err error) {
	if len(m) == 0 || len(m[0]) == 0 {
		return 0, 0, errors.Wrap(errors.ErrInvalidArgument, "empty matrix")
	}
	cols = len(m[0])
	for i, row := range m {
		if len(row) != cols {
			return 0, 0, errors.Wrapf(errors.ErrInvalidArgument, "row %d has %d columns, want %d", i, len(row), cols)
		}
	}
	return len(m), cols, nil
}
