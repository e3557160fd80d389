// Package interest computes simple and periodically compounded growth in
// decimal arithmetic.
package interest

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/seenimoa/finmath/pkg/errors"
)

// precision is the number of decimal places kept between multiplications.
const precision = 28

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Simple returns principal * (1 + rate*time). rate is a fraction per unit
// of time (0.05 for 5%).
func Simple(principal, rate, time decimal.Decimal) decimal.Decimal {
	return principal.Mul(one.Add(rate.Mul(time)))
}

// Compound returns principal * (1 + ratePct/(100*frequency))^(years*frequency).
// ratePct is a percentage (5 for 5%) and frequency the number of
// compounding periods per year.
//
// A negative horizon yields 0 and a zero frequency yields the principal
// unchanged. A per-period growth factor below zero is rejected.
func Compound(principal, ratePct, years decimal.Decimal, frequency int) (decimal.Decimal, error) {
	if frequency < 0 {
		return decimal.Zero, errors.Wrapf(errors.ErrInvalidArgument, "compound: frequency must be non-negative, got %d", frequency)
	}
	if years.IsNegative() {
		return decimal.Zero, nil
	}
	if frequency == 0 {
		return principal, nil
	}

	freq := decimal.NewFromInt(int64(frequency))
	base := one.Add(ratePct.DivRound(hundred.Mul(freq), precision))
	if base.IsNegative() {
		return decimal.Zero, errors.Wrapf(errors.ErrInvalidArgument,
			"compound: rate %s%% over %d periods gives a negative growth factor", ratePct, frequency)
	}

	periods := years.Mul(freq)
	growth := pow(base, periods)
	return principal.Mul(growth).Round(precision), nil
}

// SimpleFloat is Simple on float64 inputs.
func SimpleFloat(principal, rate, time float64) float64 {
	return Simple(decimal.NewFromFloat(principal), decimal.NewFromFloat(rate), decimal.NewFromFloat(time)).InexactFloat64()
}

// CompoundFloat is Compound on float64 inputs.
func CompoundFloat(principal, ratePct, years float64, frequency int) (float64, error) {
	for _, v := range []float64{principal, ratePct, years} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, errors.Wrapf(errors.ErrInvalidArgument, "compound: non-finite input %g", v)
		}
	}
	v, err := Compound(decimal.NewFromFloat(principal), decimal.NewFromFloat(ratePct), decimal.NewFromFloat(years), frequency)
	if err != nil {
		return 0, err
	}
	return v.InexactFloat64(), nil
}

// pow raises a non-negative base to a non-negative exponent. The integer
// part is exact square-and-multiply in decimal; a fractional remainder is
// applied through float64.
func pow(base, exp decimal.Decimal) decimal.Decimal {
	n := exp.IntPart()
	frac := exp.Sub(decimal.NewFromInt(n))

	result := one
	sq := base
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(sq).Round(precision)
		}
		sq = sq.Mul(sq).Round(precision)
		n >>= 1
	}

	if !frac.IsZero() {
		f := math.Pow(base.InexactFloat64(), frac.InexactFloat64())
		result = result.Mul(decimal.NewFromFloat(f))
	}
	return result
}
