package technical

import (
	"math"

	"github.com/seenimoa/finmath/pkg/errors"
)

// TradingDaysPerYear is the annualisation convention for daily volatility.
const TradingDaysPerYear = 252

// LogReturns returns ln(P[t]/P[t-1]) for t = 1..n-1. Prices must be
// positive and there must be at least two of them.
func LogReturns(prices []float64) ([]float64, error) {
	r, err := logReturns(prices)
	if err != nil {
		return reject("log_returns", err)
	}
	return r, nil
}

func logReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "log returns: need at least 2 prices, got %d", len(prices))
	}
	for i, p := range prices {
		if !(p > 0) || math.IsInf(p, 0) {
			return nil, errors.Wrapf(errors.ErrInvalidArgument, "log returns: price[%d] = %g is not positive", i, p)
		}
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		out[i-1] = math.Log(prices[i] / prices[i-1])
	}
	return out, nil
}

// RollingVolatility returns the annualised volatility of each window of
// consecutive log returns: sqrt(E[r²] - E[r]²) * sqrt(252). The result has
// len(prices)-window points.
func RollingVolatility(prices []float64, window int) ([]float64, error) {
	if window < 1 {
		return reject("rolling_volatility", errors.Wrapf(errors.ErrInvalidArgument,
			"rolling volatility: window must be positive, got %d", window))
	}
	returns, err := logReturns(prices)
	if err != nil {
		return reject("rolling_volatility", err)
	}
	if len(returns) < window {
		return reject("rolling_volatility", errors.Wrapf(errors.ErrInvalidArgument,
			"rolling volatility: window %d exceeds %d log returns", window, len(returns)))
	}

	annualise := math.Sqrt(TradingDaysPerYear)
	n := float64(window)
	vols := make([]float64, len(returns)-window+1)
	for i := range vols {
		var sum, sumSq float64
		for _, r := range returns[i : i+window] {
			sum += r
			sumSq += r * r
		}
		mean := sum / n
		// E[x²]-E[x]² can dip below zero by rounding on a flat window.
		variance := math.Max(sumSq/n-mean*mean, 0)
		vols[i] = math.Sqrt(variance) * annualise
	}
	return vols, nil
}

// VolatilityLatest returns the most recent rolling volatility, or 0.
func VolatilityLatest(prices []float64, window int) float64 {
	return latest(RollingVolatility(prices, window))
}
