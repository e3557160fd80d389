// finmath: quantitative finance toolkit
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seenimoa/finmath/internal/config"
	"github.com/seenimoa/finmath/internal/linalg"
	"github.com/seenimoa/finmath/pkg/logger"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries state shared by every command of one invocation.
type app struct {
	cfg    *config.Config
	format string
	linalg *linalg.Registry
}

// provider returns the configured linear algebra backend.
func (a *app) provider() (linalg.Provider, error) {
	return a.linalg.Get(a.cfg.Linalg.Provider)
}

func newRootCmd() *cobra.Command {
	a := &app{linalg: linalg.NewRegistry()}

	root := &cobra.Command{
		Use:   "finmath",
		Short: "finmath: option pricing and time-series analytics",
		Long: `finmath prices European options (Black-Scholes and binomial lattice),
computes technical indicators and autocorrelation over price series, and
runs interest, regression and PCA calculations on local files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			configFile, _ := cmd.Flags().GetString("config")
			if configFile != "" {
				a.cfg, err = config.LoadFromFile(configFile)
			} else {
				a.cfg, err = config.Load()
			}
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
				a.cfg.Logging.Level = lvl
			}
			if err := logger.Init(a.cfg.Logging.Level, a.cfg.Logging.Format); err != nil {
				return fmt.Errorf("failed to init logger: %w", err)
			}

			a.format = a.cfg.Output.Format
			if out, _ := cmd.Flags().GetString("output"); out != "" {
				a.format = out
			}
			logger.Get().Debugw("config loaded", "file", a.cfg.File, "output", a.format, "linalg", a.cfg.Linalg.Provider)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	root.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	root.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringP("output", "o", "", "output format override (table, json, yaml)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newStatusCmd(a))
	root.AddCommand(newBlackScholesCmd(a))
	root.AddCommand(newBinomialCmd(a))
	root.AddCommand(newGreeksCmd(a))
	root.AddCommand(newImpliedVolCmd(a))
	root.AddCommand(newBookCmd(a))
	root.AddCommand(newIndicatorsCmd(a))
	root.AddCommand(newACFCmd(a))
	root.AddCommand(newInterestCmd(a))
	root.AddCommand(newRegressCmd(a))
	root.AddCommand(newPCACmd(a))
	return root
}

// --- Version Command ---

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "finmath %s\n", version)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", date)
		},
	}
}

// --- Status Command ---

type statusReport struct {
	Version    string                 `json:"version" yaml:"version"`
	Commit     string                 `json:"commit" yaml:"commit"`
	ConfigFile string                 `json:"config_file" yaml:"config_file"`
	Backends   []string               `json:"linalg_backends" yaml:"linalg_backends"`
	Settings   []config.SettingStatus `json:"settings" yaml:"settings"`
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show effective configuration and where each setting comes from",
		RunE: func(cmd *cobra.Command, args []string) error {
			file := a.cfg.File
			if file == "" {
				file = "(defaults + environment)"
			}
			rep := statusReport{
				Version:    version,
				Commit:     commit,
				ConfigFile: file,
				Backends:   a.linalg.Names(),
				Settings:   config.CheckSettings(a.cfg),
			}
			return render(cmd.OutOrStdout(), a.format, rep, func(tw *tabwriter.Writer) {
				row(tw, "Version:", fmt.Sprintf("%s (%s)", rep.Version, rep.Commit))
				row(tw, "Config file:", rep.ConfigFile)
				row(tw, "Linalg backends:", strings.Join(rep.Backends, ", "))
				row(tw)
				row(tw, "SETTING", "VALUE", "SOURCE", "ENV")
				for _, s := range rep.Settings {
					row(tw, s.Key, s.Value, s.Source, s.EnvVar)
				}
			})
		},
	}
}
