// Package derivatives prices European options with the Black-Scholes closed
// form and a recombining binomial lattice, and derives Greeks and implied
// volatility from the closed form.
package derivatives

import (
	"math"

	"github.com/seenimoa/finmath/internal/analysis/stats"
	"github.com/seenimoa/finmath/pkg/errors"
	"github.com/seenimoa/finmath/pkg/models"
)

// BlackScholes returns the closed-form price of a European option.
//
// At expiry (T = 0) the price is the intrinsic value. With zero volatility
// and T > 0 the underlying grows deterministically at r, so the price is the
// intrinsic value of the spot against the discounted strike.
func BlackScholes(spec models.OptionSpec) (float64, error) {
	if err := spec.Validate(); err != nil {
		return 0, errors.Wrap(err, "black-scholes")
	}
	if price, ok := limitPrice(spec); ok {
		return price, nil
	}

	d1, d2 := dTerms(spec)
	df := math.Exp(-spec.Rate * spec.Expiry)

	if spec.Type == models.Call {
		return spec.Spot*stats.NormalCDF(d1) - spec.Strike*df*stats.NormalCDF(d2), nil
	}
	return spec.Strike*df*stats.NormalCDF(-d2) - spec.Spot*stats.NormalCDF(-d1), nil
}

// limitPrice handles the T = 0 and σ = 0 cases where d1 is undefined.
func limitPrice(spec models.OptionSpec) (float64, bool) {
	switch {
	case spec.Expiry == 0:
		return spec.Intrinsic(spec.Spot), true
	case spec.Volatility == 0:
		discountedStrike := spec.Strike * math.Exp(-spec.Rate*spec.Expiry)
		if spec.Type == models.Call {
			return math.Max(spec.Spot-discountedStrike, 0), true
		}
		return math.Max(discountedStrike-spec.Spot, 0), true
	}
	return 0, false
}

// dTerms returns d1 and d2. Callers must ensure T > 0 and σ > 0.
func dTerms(spec models.OptionSpec) (d1, d2 float64) {
	volSqrtT := spec.Volatility * math.Sqrt(spec.Expiry)
	d1 = (math.Log(spec.Spot/spec.Strike) + (spec.Rate+spec.Volatility*spec.Volatility/2)*spec.Expiry) / volSqrtT
	d2 = d1 - volSqrtT
	return d1, d2
}
