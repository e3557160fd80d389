package technical

import (
	"math"

	"github.com/seenimoa/finmath/pkg/errors"
)

// Autocorrelation returns the sample autocorrelation for lags 0..maxLag.
//
// Both the lagged covariance and the variance are left unnormalised by n,
// so result[0] is exactly 1:
//
//	result[lag] = Σ_{i<n-lag} (x[i]-m)(x[i+lag]-m) / Σ (x[i]-m)²
func Autocorrelation(values []float64, maxLag int) ([]float64, error) {
	n := len(values)
	if n == 0 {
		return reject("autocorrelation", errors.Wrapf(errors.ErrInvalidArgument, "autocorrelation: no values"))
	}
	if maxLag < 0 || maxLag >= n {
		return reject("autocorrelation", errors.Wrapf(errors.ErrInvalidArgument,
			"autocorrelation: max lag %d must be in [0, %d)", maxLag, n))
	}

	dev, variance := deviations(values)
	if variance == 0 {
		return reject("autocorrelation", errors.Wrapf(errors.ErrDegenerateInput, "autocorrelation: variance is zero"))
	}

	result := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag; lag++ {
		cov := 0.0
		for i := 0; i < n-lag; i++ {
			cov += dev[i] * dev[i+lag]
		}
		result[lag] = cov / variance
	}
	return result, nil
}

// AutocorrelationIrregular estimates autocorrelation for a series sampled at
// arbitrary times. For each target lag k*stepSize, k = 0..floor(maxLag/stepSize),
// every ordered pair (i, j) whose time separation lies within stepSize/2 of
// the target contributes (v[i]-m)(v[j]-m); the bin value is that sum divided
// by variance*pairs, or 0 for an empty bin. variance is the unnormalised sum
// of squared deviations.
//
// Each bin scans all n² pairs, so cost is O(n²·bins). Suitable for small and
// medium series only.
func AutocorrelationIrregular(values, times []float64, maxLag, stepSize float64) ([]float64, error) {
	const op = "autocorrelation_irregular"
	if len(values) == 0 || len(times) == 0 {
		return reject(op, errors.Wrapf(errors.ErrInvalidArgument, "irregular autocorrelation: values and times must not be empty"))
	}
	if len(values) != len(times) {
		return reject(op, errors.Wrapf(errors.ErrInvalidArgument,
			"irregular autocorrelation: %d values but %d times", len(values), len(times)))
	}
	if math.IsNaN(maxLag) || maxLag < 0 || math.IsInf(maxLag, 0) {
		return reject(op, errors.Wrapf(errors.ErrInvalidArgument, "irregular autocorrelation: max lag %g must be non-negative", maxLag))
	}
	if math.IsNaN(stepSize) || stepSize <= 0 {
		return reject(op, errors.Wrapf(errors.ErrInvalidArgument, "irregular autocorrelation: step size %g must be positive", stepSize))
	}

	dev, variance := deviations(values)
	if variance == 0 {
		return reject(op, errors.Wrapf(errors.ErrDegenerateInput, "irregular autocorrelation: variance is zero"))
	}

	// The epsilon keeps maxLag itself as a bin when it is a multiple of stepSize.
	bins := int(math.Floor(maxLag/stepSize+1e-9)) + 1
	half := stepSize / 2
	result := make([]float64, bins)
	for k := range result {
		lag := float64(k) * stepSize
		cov, pairs := 0.0, 0
		for i := range times {
			for j := range times {
				if math.Abs(math.Abs(times[i]-times[j])-lag) <= half {
					cov += dev[i] * dev[j]
					pairs++
				}
			}
		}
		if pairs > 0 {
			result[k] = cov / (variance * float64(pairs))
		}
	}
	return result, nil
}

// deviations returns x[i]-mean and the unnormalised sum of their squares.
func deviations(values []float64) ([]float64, float64) {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	dev := make([]float64, len(values))
	variance := 0.0
	for i, v := range values {
		dev[i] = v - mean
		variance += dev[i] * dev[i]
	}
	return dev, variance
}
