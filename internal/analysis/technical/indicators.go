// Package technical implements the time-series indicator engine: moving
// averages, Wilder RSI, rolling volatility and autocorrelation. All functions
// operate on []float64 price or value sequences, never modify their input,
// and return freshly allocated slices.
//
// Invalid input yields an empty, non-nil slice together with an error
// wrapping errors.ErrInvalidArgument or errors.ErrDegenerateInput; the
// rejection is also logged at warn level.
package technical

import (
	"github.com/seenimoa/finmath/pkg/errors"
	"github.com/seenimoa/finmath/pkg/logger"
)

// RSI calculates the Relative Strength Index with Wilder smoothing.
//
// The averages are seeded with the mean gain and mean loss of the first
// window price changes and result[0] is the RSI of that seed. Every price
// change is then folded in with avg = (avg*(window-1) + x)/window and
// result[t+1] is the RSI after change t, so the output has one value per
// price. A flat run (no gains and no losses) reads 50.
func RSI(prices []float64, window int) ([]float64, error) {
	if window < 1 {
		return reject("rsi", errors.Wrapf(errors.ErrInvalidArgument, "rsi: window must be positive, got %d", window))
	}
	n := len(prices)
	if n < window+1 {
		return reject("rsi", errors.Wrapf(errors.ErrInvalidArgument,
			"rsi: need at least %d prices for window %d, got %d", window+1, window, n))
	}

	changes := make([]float64, n-1)
	for i := 1; i < n; i++ {
		changes[i-1] = prices[i] - prices[i-1]
	}

	var avgGain, avgLoss float64
	for _, change := range changes[:window] {
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(window)
	avgLoss /= float64(window)

	rsi := make([]float64, 0, n)
	rsi = append(rsi, rsiValue(avgGain, avgLoss))

	// Wilder's smoothing.
	w := float64(window)
	for _, change := range changes {
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*(w-1) + gain) / w
		avgLoss = (avgLoss*(w-1) + loss) / w
		rsi = append(rsi, rsiValue(avgGain, avgLoss))
	}

	return rsi, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	switch {
	case avgLoss == 0 && avgGain == 0:
		return 50
	case avgLoss == 0:
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// RSILatest returns only the most recent RSI value.
func RSILatest(prices []float64, window int) float64 {
	return latest(RSI(prices, window))
}

// --- helper functions ---

// reject logs a refused computation and returns the empty result with err.
func reject(op string, err error) ([]float64, error) {
	logger.Get().With("component", "technical").Warnw("indicator rejected input", "op", op, "error", err)
	return []float64{}, err
}

func latest(vals []float64, err error) float64 {
	if err != nil || len(vals) == 0 {
		return 0
	}
	return vals[len(vals)-1]
}
