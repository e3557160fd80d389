package technical

import (
	"math"

	"github.com/seenimoa/finmath/pkg/errors"
)

// SMA calculates the Simple Moving Average over each full window. The result
// has len(data)-window+1 points; point i is the mean of data[i:i+window].
// Every window is summed afresh, so window 1 reproduces data exactly.
func SMA(data []float64, window int) ([]float64, error) {
	n := len(data)
	if window < 1 {
		return reject("sma", errors.Wrapf(errors.ErrInvalidArgument, "sma: window must be positive, got %d", window))
	}
	if window > n {
		return reject("sma", errors.Wrapf(errors.ErrInvalidArgument, "sma: window %d exceeds data length %d", window, n))
	}

	result := make([]float64, n-window+1)
	for i := range result {
		sum := 0.0
		for _, v := range data[i : i+window] {
			sum += v
		}
		result[i] = sum / float64(window)
	}
	return result, nil
}

// SMALatest returns the most recent SMA value, or 0 if it cannot be computed.
func SMALatest(data []float64, window int) float64 {
	return latest(SMA(data, window))
}

// EMA calculates the Exponential Moving Average with multiplier
// 2/(window+1), seeded with the first price.
func EMA(prices []float64, window int) ([]float64, error) {
	if window < 1 {
		return reject("ema", errors.Wrapf(errors.ErrInvalidArgument, "ema: window must be positive, got %d", window))
	}
	return EMAWithSmoothing(prices, 2.0/float64(window+1))
}

// EMAWithSmoothing calculates the EMA for an explicit smoothing factor in
// (0, 1]:
//
//	ema[0] = prices[0]
//	ema[i] = (prices[i] - ema[i-1])*factor + ema[i-1]
func EMAWithSmoothing(prices []float64, factor float64) ([]float64, error) {
	if len(prices) == 0 {
		return reject("ema", errors.Wrapf(errors.ErrInvalidArgument, "ema: no prices"))
	}
	if math.IsNaN(factor) || factor <= 0 || factor > 1 {
		return reject("ema", errors.Wrapf(errors.ErrInvalidArgument, "ema: smoothing factor %g outside (0, 1]", factor))
	}

	ema := make([]float64, len(prices))
	ema[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		ema[i] = (prices[i]-ema[i-1])*factor + ema[i-1]
	}
	return ema, nil
}

// EMALatest returns the most recent EMA value, or 0 if it cannot be computed.
func EMALatest(prices []float64, window int) float64 {
	return latest(EMA(prices, window))
}
