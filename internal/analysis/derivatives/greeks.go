package derivatives

import (
	"math"

	"github.com/seenimoa/finmath/internal/analysis/stats"
	"github.com/seenimoa/finmath/pkg/errors"
	"github.com/seenimoa/finmath/pkg/models"
)

// ComputeGreeks returns the Black-Scholes sensitivities of spec. Greeks are
// undefined at expiry or with zero volatility.
func ComputeGreeks(spec models.OptionSpec) (models.Greeks, error) {
	if err := spec.Validate(); err != nil {
		return models.Greeks{}, errors.Wrap(err, "greeks")
	}
	if spec.Expiry == 0 || spec.Volatility == 0 {
		return models.Greeks{}, errors.Wrapf(errors.ErrDegenerateInput, "greeks: need positive expiry and volatility")
	}

	d1, d2 := dTerms(spec)
	sqrtT := math.Sqrt(spec.Expiry)
	df := math.Exp(-spec.Rate * spec.Expiry)
	pdf := stats.NormalPDF(d1)

	g := models.Greeks{
		Gamma: pdf / (spec.Spot * spec.Volatility * sqrtT),
		Vega:  spec.Spot * pdf * sqrtT,
	}
	decay := -spec.Spot * pdf * spec.Volatility / (2 * sqrtT)

	if spec.Type == models.Call {
		g.Delta = stats.NormalCDF(d1)
		g.Theta = decay - spec.Rate*spec.Strike*df*stats.NormalCDF(d2)
		g.Rho = spec.Strike * spec.Expiry * df * stats.NormalCDF(d2)
	} else {
		g.Delta = stats.NormalCDF(d1) - 1
		g.Theta = decay + spec.Rate*spec.Strike*df*stats.NormalCDF(-d2)
		g.Rho = -spec.Strike * spec.Expiry * df * stats.NormalCDF(-d2)
	}
	return g, nil
}
