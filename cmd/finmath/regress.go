package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seenimoa/finmath/internal/analysis/regression"
	"github.com/seenimoa/finmath/internal/datasource"
	"github.com/seenimoa/finmath/pkg/errors"
	"github.com/seenimoa/finmath/pkg/logger"
)

// --- Regress Command ---

type regressOutput struct {
	regression.OLS `yaml:",inline"`

	Features []string `json:"features" yaml:"features"`
	Target   string   `json:"target,omitempty" yaml:"target,omitempty"`
}

func newRegressCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "regress FILE",
		Short: "Ordinary least squares on a CSV matrix (last column is y)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.provider()
			if err != nil {
				return err
			}
			rows, header, err := datasource.LoadMatrix(args[0])
			if err != nil {
				return err
			}
			X, y, err := datasource.SplitTarget(rows)
			if err != nil {
				return err
			}
			model, err := regression.FitOLS(p, X, y)
			if err != nil {
				return err
			}

			out := regressOutput{OLS: *model}
			names := make([]string, len(model.Coefficients))
			for j := range names {
				names[j] = fmt.Sprintf("x%d", j+1)
			}
			if len(header) == len(rows[0]) {
				names = header[:len(header)-1]
				out.Target = header[len(header)-1]
			}
			out.Features = names

			return render(cmd.OutOrStdout(), a.format, out, func(tw *tabwriter.Writer) {
				row(tw, "TERM", "COEFFICIENT")
				row(tw, "intercept", num(model.Intercept))
				for j, c := range model.Coefficients {
					row(tw, names[j], num(c))
				}
				row(tw)
				row(tw, "R²", num(model.RSquared))
				row(tw, "observations", model.Observations)
			})
		},
	}
}

// --- PCA Command ---

func newPCACmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pca FILE",
		Short: "Principal component analysis of a CSV matrix",
		Long: `Centre the columns of a CSV matrix, decompose the sample covariance and
report the leading components. With linalg.provider "none" only the centred
data is reported and the command exits with an unsupported error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.provider()
			if err != nil {
				return err
			}
			rows, _, err := datasource.LoadMatrix(args[0])
			if err != nil {
				return err
			}
			k, _ := cmd.Flags().GetInt("components")
			if k == 0 {
				k = len(rows[0])
			}

			res, fitErr := regression.FitPCA(p, rows, k)
			if res == nil {
				return fitErr
			}
			if fitErr != nil {
				if !errors.Is(fitErr, errors.ErrUnsupported) {
					return fitErr
				}
				logger.Get().With("component", "pca").Warnw("decomposition unavailable, reporting centred data", "provider", p.Name())
			}

			err = render(cmd.OutOrStdout(), a.format, res, func(tw *tabwriter.Writer) {
				if len(res.Components) == 0 {
					row(tw, "CENTRED DATA")
					for _, r := range res.Centered {
						cells := make([]any, len(r))
						for j, v := range r {
							cells[j] = num(v)
						}
						row(tw, cells...)
					}
					return
				}
				row(tw, "COMPONENT", "VARIANCE", "EXPLAINED", "LOADINGS")
				for i, c := range res.Components {
					row(tw, fmt.Sprintf("PC%d", i+1), num(res.Variances[i]),
						fmt.Sprintf("%.2f%%", 100*res.ExplainedRatio[i]), fmt.Sprint(roundAll(c)))
				}
			})
			if err != nil {
				return err
			}
			return fitErr
		},
	}
	cmd.Flags().Int("components", 0, "number of components to keep (default: all)")
	return cmd
}

func roundAll(v []float64) []string {
	out := make([]string, len(v))
	for i, x := range v {
		out[i] = num(x)
	}
	return out
}
