package derivatives

import (
	"math"

	"github.com/seenimoa/finmath/internal/analysis/stats"
	"github.com/seenimoa/finmath/pkg/errors"
	"github.com/seenimoa/finmath/pkg/models"
)

// DefaultSteps is the lattice depth used when callers do not choose one.
const DefaultSteps = 500

// Lattice holds the parameters of a Cox-Ross-Rubinstein recombining tree.
type Lattice struct {
	Steps    int     `json:"steps"`
	Dt       float64 `json:"dt"`
	Up       float64 `json:"up"`
	Down     float64 `json:"down"`
	Prob     float64 `json:"prob"`     // risk-neutral up probability
	Discount float64 `json:"discount"` // exp(-rT)

	spot     float64
	logUp    float64
	logProb  float64
	logProbQ float64
}

// NewLattice derives the lattice parameters for spec with the given number
// of steps. It rejects specs with T = 0 or σ = 0 (the tree collapses) and
// parameters whose risk-neutral probability falls outside [0, 1].
func NewLattice(spec models.OptionSpec, steps int) (*Lattice, error) {
	if err := spec.Validate(); err != nil {
		return nil, errors.Wrap(err, "lattice")
	}
	if steps < 1 {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "lattice: steps must be positive, got %d", steps)
	}
	if spec.Expiry == 0 || spec.Volatility == 0 {
		return nil, errors.Wrapf(errors.ErrDegenerateInput, "lattice: needs positive expiry and volatility")
	}

	dt := spec.Expiry / float64(steps)
	logUp := spec.Volatility * math.Sqrt(dt)
	u := math.Exp(logUp)
	d := 1 / u
	p := (math.Exp(spec.Rate*dt) - d) / (u - d)
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, errors.Wrapf(errors.ErrInvalidArgument,
			"lattice: risk-neutral probability %g outside [0,1]; increase steps", p)
	}

	return &Lattice{
		Steps:    steps,
		Dt:       dt,
		Up:       u,
		Down:     d,
		Prob:     p,
		Discount: math.Exp(-spec.Rate * spec.Expiry),
		spot:     spec.Spot,
		logUp:    logUp,
		logProb:  math.Log(p),
		logProbQ: math.Log1p(-p),
	}, nil
}

// TerminalPrice returns S0·u^i·d^(N−i) for terminal node i.
func (l *Lattice) TerminalPrice(i int) float64 {
	return l.spot * math.Exp(float64(2*i-l.Steps)*l.logUp)
}

// NodeProbability returns C(N,i)·p^i·(1−p)^(N−i) for terminal node i.
func (l *Lattice) NodeProbability(i int) float64 {
	if i < 0 || i > l.Steps {
		return 0
	}
	return math.Exp(stats.LogCombinations(l.Steps, i) + l.logWeight(i))
}

// logWeight returns i·ln p + (N−i)·ln(1−p), treating 0·ln 0 as 0.
func (l *Lattice) logWeight(i int) float64 {
	w := 0.0
	if i > 0 {
		w += float64(i) * l.logProb
	}
	if n := l.Steps - i; n > 0 {
		w += float64(n) * l.logProbQ
	}
	return w
}

// Binomial prices a European option on a recombining binomial lattice with
// the given number of steps. Only the N+1 terminal nodes are visited, in
// ascending order, so time is O(N) and no tree is stored.
//
// The coefficient C(N,i) is advanced node by node with
// C(N,i+1) = C(N,i)·(N−i)/(i+1), carried as a logarithm so that neither the
// coefficient nor p^i leaves float64 range for N in the thousands.
func Binomial(spec models.OptionSpec, steps int) (float64, error) {
	if err := spec.Validate(); err != nil {
		return 0, errors.Wrap(err, "binomial")
	}
	if steps < 1 {
		return 0, errors.Wrapf(errors.ErrInvalidArgument, "binomial: steps must be positive, got %d", steps)
	}
	if price, ok := limitPrice(spec); ok {
		return price, nil
	}

	lat, err := NewLattice(spec, steps)
	if err != nil {
		return 0, errors.Wrap(err, "binomial")
	}

	value := 0.0
	logCoeff := 0.0 // ln C(N, 0)
	for i := 0; i <= steps; i++ {
		if payoff := spec.Intrinsic(lat.TerminalPrice(i)); payoff > 0 {
			value += payoff * math.Exp(logCoeff+lat.logWeight(i))
		}
		if i < steps {
			logCoeff += math.Log(float64(steps-i)) - math.Log(float64(i+1))
		}
	}

	return value * lat.Discount, nil
}
