package regression

import (
	"math"
	"sort"

	"github.com/seenimoa/finmath/internal/linalg"
	"github.com/seenimoa/finmath/pkg/errors"
)

// PCA is the result of a principal component analysis.
type PCA struct {
	// Mean is the per-column mean removed before decomposition.
	Mean []float64 `json:"mean" yaml:"mean"`
	// Centered is the input with Mean subtracted from every row.
	Centered [][]float64 `json:"centered" yaml:"centered"`
	// Components holds one unit loading vector per component, largest
	// variance first.
	Components [][]float64 `json:"components,omitempty" yaml:"components,omitempty"`
	// Variances are the eigenvalues matching Components.
	Variances []float64 `json:"variances,omitempty" yaml:"variances,omitempty"`
	// ExplainedRatio is each variance over the total variance.
	ExplainedRatio []float64 `json:"explained_ratio,omitempty" yaml:"explained_ratio,omitempty"`
	// Scores projects each centred row onto Components.
	Scores [][]float64 `json:"scores,omitempty" yaml:"scores,omitempty"`
}

// FitPCA centres data, forms the sample covariance (divided by rows-1) and
// keeps the first components eigenvectors by descending eigenvalue.
//
// When the provider cannot decompose the covariance the partially filled
// result (Mean and Centered) is returned together with the error, so
// errors.Is(err, errors.ErrUnsupported) still leaves the centred data usable.
func FitPCA(p linalg.Provider, data [][]float64, components int) (*PCA, error) {
	rows, cols, err := shape(data)
	if err != nil {
		return nil, errors.Wrap(err, "pca")
	}
	if rows < 2 {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "pca: need at least 2 rows, got %d", rows)
	}
	if components < 1 || components > cols {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "pca: components must be in [1, %d], got %d", cols, components)
	}

	res := &PCA{Mean: columnMeans(data, cols)}
	res.Centered = center(data, res.Mean)
	cov := covariance(res.Centered, cols)

	values, vectors, err := p.EigenSym(cov)
	if err != nil {
		return res, errors.Wrap(err, "pca")
	}

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return values[order[a]] > values[order[b]] })

	total := 0.0
	for _, v := range values {
		total += v
	}

	for _, idx := range order[:components] {
		vec := orient(vectors[idx])
		res.Components = append(res.Components, vec)
		res.Variances = append(res.Variances, values[idx])
		ratio := 0.0
		if total > 0 {
			ratio = values[idx] / total
		}
		res.ExplainedRatio = append(res.ExplainedRatio, ratio)
	}

	res.Scores = make([][]float64, rows)
	for i, row := range res.Centered {
		res.Scores[i] = make([]float64, components)
		for k, vec := range res.Components {
			for j, x := range row {
				res.Scores[i][k] += x * vec[j]
			}
		}
	}
	return res, nil
}

func columnMeans(data [][]float64, cols int) []float64 {
	mean := make([]float64, cols)
	for _, row := range data {
		for j, v := range row {
			mean[j] += v
		}
	}
	for j := range mean {
		mean[j] /= float64(len(data))
	}
	return mean
}

func center(data [][]float64, mean []float64) [][]float64 {
	out := make([][]float64, len(data))
	for i, row := range data {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = v - mean[j]
		}
	}
	return out
}

func covariance(centered [][]float64, cols int) [][]float64 {
	denom := float64(len(centered) - 1)
	cov := make([][]float64, cols)
	for i := range cov {
		cov[i] = make([]float64, cols)
	}
	for i := 0; i < cols; i++ {
		for j := i; j < cols; j++ {
			s := 0.0
			for _, row := range centered {
				s += row[i] * row[j]
			}
			cov[i][j] = s / denom
			cov[j][i] = cov[i][j]
		}
	}
	return cov
}

// orient flips v so its largest-magnitude entry is positive.
func orient(v []float64) []float64 {
	out := append([]float64(nil), v...)
	best := 0
	for i := range out {
		if math.Abs(out[i]) > math.Abs(out[best]) {
			best = i
		}
	}
	if out[best] < 0 {
		for i := range out {
			out[i] = -out[i]
		}
	}
	return out
}
