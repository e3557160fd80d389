package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/finmath/internal/analysis/technical"
	"github.com/seenimoa/finmath/internal/datasource"
	"github.com/seenimoa/finmath/pkg/logger"
	"github.com/seenimoa/finmath/pkg/models"
)

// --- Indicators Command ---

func newIndicatorsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indicators FILE...",
		Short: "Latest SMA, EMA, RSI and rolling volatility of CSV price series",
		Long: `Load one or more CSV price series (a single value column, or time,value)
and report the latest SMA, EMA, RSI and annualised rolling volatility of each.
Files are processed concurrently (batch.concurrency).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			icfg := technical.IndicatorConfig{
				SMAWindow:        a.cfg.Indicators.SMAWindow,
				EMAWindow:        a.cfg.Indicators.EMAWindow,
				RSIWindow:        a.cfg.Indicators.RSIWindow,
				VolatilityWindow: a.cfg.Indicators.VolatilityWindow,
			}
			if w, _ := cmd.Flags().GetInt("sma"); w > 0 {
				icfg.SMAWindow = w
			}
			if w, _ := cmd.Flags().GetInt("ema"); w > 0 {
				icfg.EMAWindow = w
			}
			if w, _ := cmd.Flags().GetInt("rsi"); w > 0 {
				icfg.RSIWindow = w
			}
			if w, _ := cmd.Flags().GetInt("vol-window"); w > 0 {
				icfg.VolatilityWindow = w
			}

			reports := make([]models.IndicatorReport, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(a.cfg.Batch.Concurrency)
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					series, err := datasource.LoadSeries(path)
					if err != nil {
						return err
					}
					reports[i] = technical.Analyze(series, icfg)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			logger.Get().With("component", "indicators").Debugw("series analysed", "files", len(args))

			return render(cmd.OutOrStdout(), a.format, reports, func(tw *tabwriter.Writer) {
				row(tw, "SERIES", "POINTS", "LAST",
					fmt.Sprintf("SMA(%d)", icfg.SMAWindow), fmt.Sprintf("EMA(%d)", icfg.EMAWindow),
					fmt.Sprintf("RSI(%d)", icfg.RSIWindow), fmt.Sprintf("VOL(%d)", icfg.VolatilityWindow))
				for _, r := range reports {
					row(tw, r.Name, r.Points, num(r.Last),
						cell(r, "sma", r.SMA), cell(r, "ema", r.EMA), cell(r, "rsi", r.RSI), cell(r, "volatility", r.Volatility))
				}
			})
		},
	}
	cmd.Flags().Int("sma", 0, "SMA window (default: indicators.sma_window)")
	cmd.Flags().Int("ema", 0, "EMA window (default: indicators.ema_window)")
	cmd.Flags().Int("rsi", 0, "RSI window (default: indicators.rsi_window)")
	cmd.Flags().Int("vol-window", 0, "volatility window (default: indicators.volatility_window)")
	return cmd
}

// cell shows n/a for an indicator that could not be computed.
func cell(r models.IndicatorReport, key string, v float64) string {
	if _, failed := r.Errors[key]; failed {
		return "n/a"
	}
	return num(v)
}

// --- Autocorrelation Command ---

type acfOutput struct {
	Series    string    `json:"series" yaml:"series"`
	Irregular bool      `json:"irregular" yaml:"irregular"`
	Lags      []float64 `json:"lags" yaml:"lags"`
	ACF       []float64 `json:"acf" yaml:"acf"`
}

func newACFCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "acf FILE",
		Short: "Autocorrelation of a CSV series",
		Long: `Compute the autocorrelation function of a series for lags 0..max-lag.
With --irregular the series must carry a time column; lags are then binned
every --step time units up to --max-time-lag (which may be fractional) and
pairs are matched within half a step.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := datasource.LoadSeries(args[0])
			if err != nil {
				return err
			}

			maxLag := a.cfg.Indicators.MaxLag
			if cmd.Flags().Changed("max-lag") {
				maxLag, _ = cmd.Flags().GetInt("max-lag")
			}
			step := a.cfg.Indicators.IrregularStep
			if cmd.Flags().Changed("step") {
				step, _ = cmd.Flags().GetFloat64("step")
			}
			irregular, _ := cmd.Flags().GetBool("irregular")

			out := acfOutput{Series: series.Name, Irregular: irregular}
			if irregular {
				if !series.Irregular() {
					return fmt.Errorf("acf: --irregular needs a time,value series, %s has no time column", args[0])
				}
				horizon := float64(maxLag)
				if cmd.Flags().Changed("max-time-lag") {
					horizon, _ = cmd.Flags().GetFloat64("max-time-lag")
				}
				out.ACF, err = technical.AutocorrelationIrregular(series.Values, series.Times, horizon, step)
				for k := range out.ACF {
					out.Lags = append(out.Lags, float64(k)*step)
				}
			} else {
				out.ACF, err = technical.Autocorrelation(series.Values, maxLag)
				for k := range out.ACF {
					out.Lags = append(out.Lags, float64(k))
				}
			}
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), a.format, out, func(tw *tabwriter.Writer) {
				row(tw, "LAG", "ACF")
				for k, v := range out.ACF {
					row(tw, out.Lags[k], num(v))
				}
			})
		},
	}
	cmd.Flags().Int("max-lag", 0, "largest lag (default: indicators.max_lag)")
	cmd.Flags().Bool("irregular", false, "use the time column and binned lags")
	cmd.Flags().Float64("max-time-lag", 0, "largest lag in time units for --irregular (default: max-lag)")
	cmd.Flags().Float64("step", 0, "lag bin width for --irregular (default: indicators.irregular_step)")
	return cmd
}
