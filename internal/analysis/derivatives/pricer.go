package derivatives

import (
	"github.com/seenimoa/finmath/pkg/errors"
	"github.com/seenimoa/finmath/pkg/models"
)

// Price values spec with both pricers and attaches Greeks when they are
// defined. steps <= 0 selects DefaultSteps.
func Price(spec models.OptionSpec, steps int) (models.PricingResult, error) {
	if steps <= 0 {
		steps = DefaultSteps
	}
	res := models.PricingResult{Spec: spec, Steps: steps}

	bs, err := BlackScholes(spec)
	if err != nil {
		return res, err
	}
	res.BlackScholes = bs

	bin, err := Binomial(spec, steps)
	if err != nil {
		return res, err
	}
	res.Binomial = bin

	if g, err := ComputeGreeks(spec); err == nil {
		res.Greeks = &g
	} else if !errors.Is(err, errors.ErrDegenerateInput) {
		return res, err
	}
	return res, nil
}
