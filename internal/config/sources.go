package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// SettingSource represents where an effective setting comes from.
type SettingSource string

const (
	SourceEnv     SettingSource = "env"
	SourceConfig  SettingSource = "config"
	SourceDefault SettingSource = "default"
)

// SettingStatus describes one effective setting.
type SettingStatus struct {
	Key    string        `json:"key" yaml:"key"`
	Value  string        `json:"value" yaml:"value"`
	Source SettingSource `json:"source" yaml:"source"`
	EnvVar string        `json:"env" yaml:"env"`
}

// CheckSettings reports every setting of cfg with its origin, sorted by key.
func CheckSettings(cfg *Config) []SettingStatus {
	current := flatten(cfg)
	defaults := flatten(Default())

	out := make([]SettingStatus, 0, len(current))
	for _, key := range sortedKeys(current) {
		out = append(out, checkSetting(key, current[key], defaults[key]))
	}
	return out
}

// EnvVar returns the environment variable overriding key.
func EnvVar(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// checkSetting works out whether a value came from env, file or default.
func checkSetting(key, value, def string) SettingStatus {
	status := SettingStatus{Key: key, Value: value, EnvVar: EnvVar(key)}
	switch {
	case os.Getenv(status.EnvVar) != "":
		status.Source = SourceEnv
	case value != def:
		status.Source = SourceConfig
	default:
		status.Source = SourceDefault
	}
	return status
}

func flatten(c *Config) map[string]string {
	return map[string]string{
		"pricing.lattice_steps":        fmt.Sprint(c.Pricing.LatticeSteps),
		"pricing.rate":                 fmt.Sprint(c.Pricing.Rate),
		"indicators.sma_window":        fmt.Sprint(c.Indicators.SMAWindow),
		"indicators.ema_window":        fmt.Sprint(c.Indicators.EMAWindow),
		"indicators.rsi_window":        fmt.Sprint(c.Indicators.RSIWindow),
		"indicators.volatility_window": fmt.Sprint(c.Indicators.VolatilityWindow),
		"indicators.max_lag":           fmt.Sprint(c.Indicators.MaxLag),
		"indicators.irregular_step":    fmt.Sprint(c.Indicators.IrregularStep),
		"linalg.provider":              c.Linalg.Provider,
		"batch.concurrency":            fmt.Sprint(c.Batch.Concurrency),
		"output.format":                c.Output.Format,
		"logging.level":                c.Logging.Level,
		"logging.format":               c.Logging.Format,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
