// Package config handles configuration loading for finmath.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/seenimoa/finmath/pkg/errors"
)

// EnvPrefix prefixes every environment override, e.g. FINMATH_PRICING_RATE.
const EnvPrefix = "FINMATH"

// Config represents the complete application configuration.
type Config struct {
	Pricing    PricingConfig    `mapstructure:"pricing"    yaml:"pricing"    json:"pricing"`
	Indicators IndicatorsConfig `mapstructure:"indicators" yaml:"indicators" json:"indicators"`
	Linalg     LinalgConfig     `mapstructure:"linalg"     yaml:"linalg"     json:"linalg"`
	Batch      BatchConfig      `mapstructure:"batch"      yaml:"batch"      json:"batch"`
	Output     OutputConfig     `mapstructure:"output"     yaml:"output"     json:"output"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"    json:"logging"`

	// File is the config file that was read, empty when running on
	// defaults and environment only.
	File string `mapstructure:"-" yaml:"-" json:"file,omitempty"`
}

// PricingConfig holds option pricing defaults.
type PricingConfig struct {
	LatticeSteps int     `mapstructure:"lattice_steps" yaml:"lattice_steps" json:"lattice_steps"`
	Rate         float64 `mapstructure:"rate"          yaml:"rate"          json:"rate"` // continuously compounded
}

// IndicatorsConfig holds indicator windows.
type IndicatorsConfig struct {
	SMAWindow        int     `mapstructure:"sma_window"        yaml:"sma_window"        json:"sma_window"`
	EMAWindow        int     `mapstructure:"ema_window"        yaml:"ema_window"        json:"ema_window"`
	RSIWindow        int     `mapstructure:"rsi_window"        yaml:"rsi_window"        json:"rsi_window"`
	VolatilityWindow int     `mapstructure:"volatility_window" yaml:"volatility_window" json:"volatility_window"`
	MaxLag           int     `mapstructure:"max_lag"           yaml:"max_lag"           json:"max_lag"`
	IrregularStep    float64 `mapstructure:"irregular_step"    yaml:"irregular_step"    json:"irregular_step"`
}

// LinalgConfig selects the linear algebra backend.
type LinalgConfig struct {
	Provider string `mapstructure:"provider" yaml:"provider" json:"provider"` // "gonum" or "none"
}

// BatchConfig bounds concurrent work in multi-input commands.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency" json:"concurrency"`
}

// OutputConfig holds CLI rendering settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"` // "table", "json" or "yaml"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  json:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format" json:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// A .env file in the working directory is loaded first when present.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.finmath/config.yaml (home directory)
//  3. /etc/finmath/config.yaml (system)
//
// Environment variables override config file values.
// Format: FINMATH_<SECTION>_<KEY>, e.g., FINMATH_INDICATORS_RSI_WINDOW
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".finmath"))
	v.AddConfigPath("/etc/finmath")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return decode(v)
}

// Default returns the configuration with no file and no environment applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// loadDotEnv applies ./.env when it exists. A missing file is fine; one that
// cannot be parsed is an error.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading .env: %w", err)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Pricing defaults
	v.SetDefault("pricing.lattice_steps", 500)
	v.SetDefault("pricing.rate", 0.05)

	// Indicator defaults (daily bars)
	v.SetDefault("indicators.sma_window", 20)
	v.SetDefault("indicators.ema_window", 20)
	v.SetDefault("indicators.rsi_window", 14)
	v.SetDefault("indicators.volatility_window", 20)
	v.SetDefault("indicators.max_lag", 10)
	v.SetDefault("indicators.irregular_step", 1.0)

	v.SetDefault("linalg.provider", "gonum")
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("output.format", "table")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate rejects settings no command could run with.
func (c *Config) Validate() error {
	windows := map[string]int{
		"pricing.lattice_steps":        c.Pricing.LatticeSteps,
		"indicators.sma_window":        c.Indicators.SMAWindow,
		"indicators.ema_window":        c.Indicators.EMAWindow,
		"indicators.rsi_window":        c.Indicators.RSIWindow,
		"indicators.volatility_window": c.Indicators.VolatilityWindow,
		"batch.concurrency":            c.Batch.Concurrency,
	}
	for _, key := range sortedKeys(windows) {
		if windows[key] < 1 {
			return errors.Wrapf(errors.ErrInvalidArgument, "config %s: must be at least 1, got %d", key, windows[key])
		}
	}
	if c.Indicators.MaxLag < 0 {
		return errors.Wrapf(errors.ErrInvalidArgument, "config indicators.max_lag: must be non-negative, got %d", c.Indicators.MaxLag)
	}
	if c.Indicators.IrregularStep <= 0 {
		return errors.Wrapf(errors.ErrInvalidArgument, "config indicators.irregular_step: must be positive, got %g", c.Indicators.IrregularStep)
	}
	switch c.Output.Format {
	case "table", "json", "yaml":
	default:
		return errors.Wrapf(errors.ErrInvalidArgument, "config output.format: unknown format %q", c.Output.Format)
	}
	return nil
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
