// Package models defines the core data structures used throughout finmath.
package models

import (
	"math"
	"strings"

	"github.com/seenimoa/finmath/pkg/errors"
)

// OptionType is the exercise right of a European option.
type OptionType string

const (
	Call OptionType = "CALL"
	Put  OptionType = "PUT"
)

// ParseOptionType accepts "call"/"put" in any case as well as the exchange
// shorthands "CE" and "PE".
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CALL", "CE", "C":
		return Call, nil
	case "PUT", "PE", "P":
		return Put, nil
	}
	return "", errors.Wrapf(errors.ErrInvalidArgument, "unknown option type %q", s)
}

// OptionSpec describes a European option on a non-dividend-paying underlying.
type OptionSpec struct {
	Type       OptionType `json:"type" yaml:"type" toml:"type"`
	Spot       float64    `json:"spot" yaml:"spot" toml:"spot"`     // S0
	Strike     float64    `json:"strike" yaml:"strike" toml:"strike"`   // K
	Expiry     float64    `json:"expiry" yaml:"expiry" toml:"time"`     // T, in years
	Rate       float64    `json:"rate" yaml:"rate" toml:"rate"`     // r, continuously compounded
	Volatility float64    `json:"volatility" yaml:"volatility" toml:"vol"`      // sigma, annualised
}

// Validate checks the domain invariants of the spec. Expiry and Volatility
// may be zero; pricers treat those as limiting cases.
func (s OptionSpec) Validate() error {
	if s.Type != Call && s.Type != Put {
		return errors.Wrapf(errors.ErrInvalidArgument, "option type %q", s.Type)
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"spot", s.Spot}, {"strike", s.Strike}, {"expiry", s.Expiry},
		{"rate", s.Rate}, {"volatility", s.Volatility},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errors.Wrapf(errors.ErrInvalidArgument, "%s must be finite", f.name)
		}
	}
	if s.Spot <= 0 {
		return errors.Wrapf(errors.ErrInvalidArgument, "spot must be positive, got %g", s.Spot)
	}
	if s.Strike <= 0 {
		return errors.Wrapf(errors.ErrInvalidArgument, "strike must be positive, got %g", s.Strike)
	}
	if s.Expiry < 0 {
		return errors.Wrapf(errors.ErrInvalidArgument, "expiry must not be negative, got %g", s.Expiry)
	}
	if s.Volatility < 0 {
		return errors.Wrapf(errors.ErrInvalidArgument, "volatility must not be negative, got %g", s.Volatility)
	}
	return nil
}

// Intrinsic returns the exercise value of the option against price st.
func (s OptionSpec) Intrinsic(st float64) float64 {
	if s.Type == Call {
		return math.Max(st-s.Strike, 0)
	}
	return math.Max(s.Strike-st, 0)
}

// Greeks holds first- and second-order price sensitivities.
type Greeks struct {
	Delta float64 `json:"delta" yaml:"delta"`
	Gamma float64 `json:"gamma" yaml:"gamma"`
	Vega  float64 `json:"vega" yaml:"vega"`  // per 1.00 change in volatility
	Theta float64 `json:"theta" yaml:"theta"` // per year
	Rho   float64 `json:"rho" yaml:"rho"`   // per 1.00 change in rate
}

// PricingResult bundles the closed-form and lattice valuations of one option.
type PricingResult struct {
	Name         string     `json:"name,omitempty" yaml:"name,omitempty"`
	Spec         OptionSpec `json:"spec" yaml:"spec"`
	BlackScholes float64    `json:"black_scholes" yaml:"black_scholes"`
	Binomial     float64    `json:"binomial" yaml:"binomial"`
	Steps        int        `json:"steps" yaml:"steps"`
	Greeks       *Greeks    `json:"greeks,omitempty" yaml:"greeks,omitempty"`
	Error        string     `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorKind    string     `json:"error_kind,omitempty" yaml:"error_kind,omitempty"` // e.g. "invalid argument"
}
