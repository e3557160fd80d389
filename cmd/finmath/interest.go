package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/seenimoa/finmath/internal/analysis/interest"
)

type interestOutput struct {
	Kind      string `json:"kind" yaml:"kind"`
	Principal string `json:"principal" yaml:"principal"`
	Amount    string `json:"amount" yaml:"amount"`
	Interest  string `json:"interest" yaml:"interest"`
}

func newInterestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interest",
		Short: "Simple and compound interest",
	}
	cmd.AddCommand(newSimpleInterestCmd(a), newCompoundInterestCmd(a))
	return cmd
}

func newSimpleInterestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "simple",
		Short:   "principal · (1 + rate · time), rate as a fraction",
		Example: `  finmath interest simple --principal 1000 --rate 0.05 --time 3`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			principal, rate, err := decimalFlags(cmd, "principal", "rate")
			if err != nil {
				return err
			}
			t, err := decimalFlag(cmd, "time")
			if err != nil {
				return err
			}
			amount := interest.Simple(principal, rate, t)
			return a.renderInterest(cmd, "simple", principal, amount)
		},
	}
	cmd.Flags().String("principal", "", "principal amount")
	cmd.Flags().String("rate", "", "rate per unit time as a fraction (0.05 = 5%)")
	cmd.Flags().String("time", "", "number of time units")
	markRequired(cmd, "principal", "rate", "time")
	return cmd
}

func newCompoundInterestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "compound",
		Short:   "principal · (1 + rate/(100·frequency))^(years·frequency), rate in percent",
		Example: `  finmath interest compound --principal 1000 --rate 5 --years 10 --frequency 12`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			principal, rate, err := decimalFlags(cmd, "principal", "rate")
			if err != nil {
				return err
			}
			years, err := decimalFlag(cmd, "years")
			if err != nil {
				return err
			}
			freq, _ := cmd.Flags().GetInt("frequency")
			amount, err := interest.Compound(principal, rate, years, freq)
			if err != nil {
				return err
			}
			return a.renderInterest(cmd, "compound", principal, amount)
		},
	}
	cmd.Flags().String("principal", "", "principal amount")
	cmd.Flags().String("rate", "", "annual rate in percent (5 = 5%)")
	cmd.Flags().String("years", "", "horizon in years")
	cmd.Flags().Int("frequency", 1, "compounding periods per year (0 = no compounding)")
	markRequired(cmd, "principal", "rate", "years")
	return cmd
}

func (a *app) renderInterest(cmd *cobra.Command, kind string, principal, amount decimal.Decimal) error {
	out := interestOutput{
		Kind:      kind,
		Principal: principal.StringFixed(2),
		Amount:    amount.StringFixed(2),
		Interest:  amount.Sub(principal).StringFixed(2),
	}
	return render(cmd.OutOrStdout(), a.format, out, func(tw *tabwriter.Writer) {
		row(tw, "KIND", "PRINCIPAL", "AMOUNT", "INTEREST")
		row(tw, kind, money(principal.InexactFloat64()), money(amount.InexactFloat64()), money(amount.Sub(principal).InexactFloat64()))
	})
}

func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %q is not a number", name, raw)
	}
	return d, nil
}

func decimalFlags(cmd *cobra.Command, a, b string) (decimal.Decimal, decimal.Decimal, error) {
	x, err := decimalFlag(cmd, a)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	y, err := decimalFlag(cmd, b)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return x, y, nil
}

func markRequired(cmd *cobra.Command, names ...string) {
	for _, n := range names {
		_ = cmd.MarkFlagRequired(n)
	}
}
