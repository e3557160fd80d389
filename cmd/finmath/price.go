package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/finmath/internal/analysis/derivatives"
	"github.com/seenimoa/finmath/internal/datasource"
	"github.com/seenimoa/finmath/pkg/logger"
	"github.com/seenimoa/finmath/pkg/models"
)

// addOptionFlags registers the contract flags shared by the pricing commands.
func addOptionFlags(cmd *cobra.Command, withVol bool) {
	cmd.Flags().String("type", "call", "option type (call, put, ce, pe)")
	cmd.Flags().Float64("spot", 0, "spot price S0")
	cmd.Flags().Float64("strike", 0, "strike price K")
	cmd.Flags().Float64("time", 0, "time to expiry in years")
	cmd.Flags().Float64("rate", 0, "continuously compounded risk-free rate (default: pricing.rate)")
	_ = cmd.MarkFlagRequired("spot")
	_ = cmd.MarkFlagRequired("strike")
	_ = cmd.MarkFlagRequired("time")
	if withVol {
		cmd.Flags().Float64("vol", 0, "annualised volatility")
		_ = cmd.MarkFlagRequired("vol")
	}
}

// optionFromFlags builds and validates the contract described by the flags.
func (a *app) optionFromFlags(cmd *cobra.Command) (models.OptionSpec, error) {
	typ, _ := cmd.Flags().GetString("type")
	kind, err := models.ParseOptionType(typ)
	if err != nil {
		return models.OptionSpec{}, err
	}

	spec := models.OptionSpec{Type: kind, Rate: a.cfg.Pricing.Rate}
	spec.Spot, _ = cmd.Flags().GetFloat64("spot")
	spec.Strike, _ = cmd.Flags().GetFloat64("strike")
	spec.Expiry, _ = cmd.Flags().GetFloat64("time")
	if cmd.Flags().Lookup("vol") != nil {
		spec.Volatility, _ = cmd.Flags().GetFloat64("vol")
	}
	if cmd.Flags().Changed("rate") {
		spec.Rate, _ = cmd.Flags().GetFloat64("rate")
	}
	return spec, spec.Validate()
}

// steps returns --steps, falling back to pricing.lattice_steps.
func (a *app) steps(cmd *cobra.Command) int {
	if n, _ := cmd.Flags().GetInt("steps"); n > 0 {
		return n
	}
	return a.cfg.Pricing.LatticeSteps
}

type priceOutput struct {
	Model string            `json:"model" yaml:"model"`
	Spec  models.OptionSpec `json:"spec" yaml:"spec"`
	Steps int               `json:"steps,omitempty" yaml:"steps,omitempty"`
	Price float64           `json:"price" yaml:"price"`
}

func (a *app) renderPrice(cmd *cobra.Command, out priceOutput) error {
	return render(cmd.OutOrStdout(), a.format, out, func(tw *tabwriter.Writer) {
		row(tw, "MODEL", "TYPE", "SPOT", "STRIKE", "T", "RATE", "VOL", "PRICE")
		model := out.Model
		if out.Steps > 0 {
			model = fmt.Sprintf("%s(%d)", model, out.Steps)
		}
		s := out.Spec
		row(tw, model, s.Type, num(s.Spot), num(s.Strike), s.Expiry, s.Rate, s.Volatility, num(out.Price))
	})
}

// --- Black-Scholes Command ---

func newBlackScholesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bs",
		Short: "Price a European option with the Black-Scholes formula",
		Example: `  finmath bs --type call --spot 100 --strike 100 --time 1 --rate 0.05 --vol 0.2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := a.optionFromFlags(cmd)
			if err != nil {
				return err
			}
			price, err := derivatives.BlackScholes(spec)
			if err != nil {
				return err
			}
			return a.renderPrice(cmd, priceOutput{Model: "black-scholes", Spec: spec, Price: price})
		},
	}
	addOptionFlags(cmd, true)
	return cmd
}

// --- Binomial Command ---

func newBinomialCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "binomial",
		Short: "Price a European option on a Cox-Ross-Rubinstein lattice",
		Example: `  finmath binomial --type put --spot 100 --strike 100 --time 1 --vol 0.2 --steps 1000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := a.optionFromFlags(cmd)
			if err != nil {
				return err
			}
			steps := a.steps(cmd)
			price, err := derivatives.Binomial(spec, steps)
			if err != nil {
				return err
			}
			return a.renderPrice(cmd, priceOutput{Model: "binomial", Spec: spec, Steps: steps, Price: price})
		},
	}
	addOptionFlags(cmd, true)
	cmd.Flags().Int("steps", 0, "lattice steps (default: pricing.lattice_steps)")
	return cmd
}

// --- Greeks Command ---

func newGreeksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "greeks",
		Short: "Compute Black-Scholes Greeks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := a.optionFromFlags(cmd)
			if err != nil {
				return err
			}
			g, err := derivatives.ComputeGreeks(spec)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.format, g, func(tw *tabwriter.Writer) {
				row(tw, "DELTA", "GAMMA", "VEGA", "THETA", "RHO")
				row(tw, num(g.Delta), num(g.Gamma), num(g.Vega), num(g.Theta), num(g.Rho))
			})
		},
	}
	addOptionFlags(cmd, true)
	return cmd
}

// --- Implied Volatility Command ---

type impliedVolOutput struct {
	Spec        models.OptionSpec `json:"spec" yaml:"spec"`
	MarketPrice float64           `json:"market_price" yaml:"market_price"`
	ImpliedVol  float64           `json:"implied_vol" yaml:"implied_vol"`
}

func newImpliedVolCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iv",
		Short: "Solve the Black-Scholes volatility implied by a market price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := a.optionFromFlags(cmd)
			if err != nil {
				return err
			}
			market, _ := cmd.Flags().GetFloat64("price")
			iv, err := derivatives.ImpliedVolatility(spec, market)
			if err != nil {
				return err
			}
			out := impliedVolOutput{Spec: spec, MarketPrice: market, ImpliedVol: iv}
			return render(cmd.OutOrStdout(), a.format, out, func(tw *tabwriter.Writer) {
				row(tw, "TYPE", "SPOT", "STRIKE", "T", "PRICE", "IMPLIED VOL")
				row(tw, spec.Type, num(spec.Spot), num(spec.Strike), spec.Expiry, num(market), fmt.Sprintf("%.6f", iv))
			})
		},
	}
	addOptionFlags(cmd, false)
	cmd.Flags().Float64("price", 0, "observed option price")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

// --- Book Command ---

func newBookCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "book FILE",
		Short: "Price every option in a TOML option book",
		Long: `Price every [[option]] table of a TOML file with both pricers and attach
Greeks. Options are priced concurrently (batch.concurrency) and reported in
file order; a contract that fails to price carries its error in the result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := datasource.LoadOptionBook(args[0], datasource.BookDefaults{
				Rate:  a.cfg.Pricing.Rate,
				Steps: a.cfg.Pricing.LatticeSteps,
			})
			if err != nil {
				return err
			}

			log := logger.Get().With("component", "book", "file", args[0])
			results := make([]models.PricingResult, len(entries))

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(a.cfg.Batch.Concurrency)
			for i, e := range entries {
				i, e := i, e
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					res, err := derivatives.Price(e.Spec, e.Steps)
					res.Name = e.Name
					if err != nil {
						log.Warnw("pricing failed", "option", e.Name, "error", err)
						res.Error = err.Error()
						res.ErrorKind = errorKind(err)
					}
					results[i] = res
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			log.Infow("book priced", "options", len(results))

			return render(cmd.OutOrStdout(), a.format, results, func(tw *tabwriter.Writer) {
				row(tw, "NAME", "TYPE", "SPOT", "STRIKE", "T", "VOL", "BLACK-SCHOLES", "BINOMIAL", "DELTA", "ERROR")
				for _, r := range results {
					delta := "-"
					if r.Greeks != nil {
						delta = num(r.Greeks.Delta)
					}
					s := r.Spec
					row(tw, r.Name, s.Type, num(s.Spot), num(s.Strike), s.Expiry, s.Volatility,
						num(r.BlackScholes), num(r.Binomial), delta, r.Error)
				}
			})
		},
	}
}
