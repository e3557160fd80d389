package derivatives

import (
	"math"

	"github.com/seenimoa/finmath/pkg/errors"
	"github.com/seenimoa/finmath/pkg/models"
)

const (
	ivTolerance  = 1e-10
	ivMinVol     = 1e-6
	ivMaxVol     = 5.0
	ivNewtonIter = 50
	ivBisectIter = 200
)

// ImpliedVolatility finds the volatility at which the Black-Scholes price of
// spec equals marketPrice. spec.Volatility is ignored. Newton steps on vega
// are tried first; bisection on [1e-6, 5] takes over when Newton leaves the
// bracket or vega vanishes.
func ImpliedVolatility(spec models.OptionSpec, marketPrice float64) (float64, error) {
	spec.Volatility = ivMinVol
	if err := spec.Validate(); err != nil {
		return 0, errors.Wrap(err, "implied vol")
	}
	if spec.Expiry == 0 {
		return 0, errors.Wrapf(errors.ErrDegenerateInput, "implied vol: option has expired")
	}

	lower, upper := priceBounds(spec)
	if math.IsNaN(marketPrice) || marketPrice <= lower || marketPrice >= upper {
		return 0, errors.Wrapf(errors.ErrInvalidArgument,
			"implied vol: price %g outside no-arbitrage bounds (%g, %g)", marketPrice, lower, upper)
	}

	priceAt := func(vol float64) float64 {
		s := spec
		s.Volatility = vol
		p, _ := BlackScholes(s)
		return p
	}

	// Brenner-Subrahmanyam starting point.
	vol := math.Sqrt(2*math.Pi/spec.Expiry) * marketPrice / spec.Spot
	if vol < ivMinVol || vol > ivMaxVol {
		vol = 0.2
	}
	for i := 0; i < ivNewtonIter; i++ {
		s := spec
		s.Volatility = vol
		diff := priceAt(vol) - marketPrice
		if math.Abs(diff) < ivTolerance {
			return vol, nil
		}
		g, err := ComputeGreeks(s)
		if err != nil || g.Vega < 1e-8 {
			break
		}
		next := vol - diff/g.Vega
		if next <= ivMinVol || next >= ivMaxVol || math.IsNaN(next) {
			break
		}
		vol = next
	}

	lo, hi := ivMinVol, ivMaxVol
	if priceAt(lo) > marketPrice || priceAt(hi) < marketPrice {
		return 0, errors.Wrapf(errors.ErrDegenerateInput, "implied vol: no root in [%g, %g]", lo, hi)
	}
	for i := 0; i < ivBisectIter; i++ {
		mid := (lo + hi) / 2
		diff := priceAt(mid) - marketPrice
		if math.Abs(diff) < ivTolerance || hi-lo < ivTolerance {
			return mid, nil
		}
		if diff > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return 0, errors.Wrapf(errors.ErrDegenerateInput, "implied vol: did not converge")
}

// priceBounds returns the no-arbitrage price interval of a European option.
func priceBounds(spec models.OptionSpec) (lower, upper float64) {
	df := math.Exp(-spec.Rate * spec.Expiry)
	if spec.Type == models.Call {
		return math.Max(spec.Spot-spec.Strike*df, 0), spec.Spot
	}
	return math.Max(spec.Strike*df-spec.Spot, 0), spec.Strike * df
}
