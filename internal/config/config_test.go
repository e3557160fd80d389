package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seenimoa/finmath/pkg/errors"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Pricing defaults
	if cfg.Pricing.LatticeSteps != 500 {
		t.Errorf("Pricing.LatticeSteps: got %d, want 500", cfg.Pricing.LatticeSteps)
	}
	if cfg.Pricing.Rate != 0.05 {
		t.Errorf("Pricing.Rate: got %f, want 0.05", cfg.Pricing.Rate)
	}

	// Indicator defaults
	if cfg.Indicators.SMAWindow != 20 {
		t.Errorf("Indicators.SMAWindow: got %d, want 20", cfg.Indicators.SMAWindow)
	}
	if cfg.Indicators.EMAWindow != 20 {
		t.Errorf("Indicators.EMAWindow: got %d, want 20", cfg.Indicators.EMAWindow)
	}
	if cfg.Indicators.RSIWindow != 14 {
		t.Errorf("Indicators.RSIWindow: got %d, want 14", cfg.Indicators.RSIWindow)
	}
	if cfg.Indicators.VolatilityWindow != 20 {
		t.Errorf("Indicators.VolatilityWindow: got %d, want 20", cfg.Indicators.VolatilityWindow)
	}
	if cfg.Indicators.MaxLag != 10 {
		t.Errorf("Indicators.MaxLag: got %d, want 10", cfg.Indicators.MaxLag)
	}
	if cfg.Indicators.IrregularStep != 1.0 {
		t.Errorf("Indicators.IrregularStep: got %f, want 1.0", cfg.Indicators.IrregularStep)
	}

	if cfg.Linalg.Provider != "gonum" {
		t.Errorf("Linalg.Provider: got %q, want %q", cfg.Linalg.Provider, "gonum")
	}
	if cfg.Batch.Concurrency != 4 {
		t.Errorf("Batch.Concurrency: got %d, want 4", cfg.Batch.Concurrency)
	}
	if cfg.Output.Format != "table" {
		t.Errorf("Output.Format: got %q, want %q", cfg.Output.Format, "table")
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "text")
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create a temp config file
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "test_config.yaml")
	content := []byte(`
pricing:
  lattice_steps: 2000
  rate: 0.065
indicators:
  rsi_window: 9
  irregular_step: 0.5
batch:
  concurrency: 8
output:
  format: "json"
logging:
  level: "debug"
  format: "json"
`)
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Pricing.LatticeSteps != 2000 {
		t.Errorf("Pricing.LatticeSteps: got %d, want 2000", cfg.Pricing.LatticeSteps)
	}
	if cfg.Pricing.Rate != 0.065 {
		t.Errorf("Pricing.Rate: got %f, want 0.065", cfg.Pricing.Rate)
	}
	if cfg.Indicators.RSIWindow != 9 {
		t.Errorf("Indicators.RSIWindow: got %d, want 9", cfg.Indicators.RSIWindow)
	}
	if cfg.Indicators.IrregularStep != 0.5 {
		t.Errorf("Indicators.IrregularStep: got %f, want 0.5", cfg.Indicators.IrregularStep)
	}
	// Unset keys keep their defaults.
	if cfg.Indicators.SMAWindow != 20 {
		t.Errorf("Indicators.SMAWindow: got %d, want 20", cfg.Indicators.SMAWindow)
	}
	if cfg.Batch.Concurrency != 8 {
		t.Errorf("Batch.Concurrency: got %d, want 8", cfg.Batch.Concurrency)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format: got %q, want %q", cfg.Output.Format, "json")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.File != cfgPath {
		t.Errorf("File: got %q, want %q", cfg.File, cfgPath)
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("LoadFromFile() with nonexistent path should return error")
	}
}

func TestLoadFromFileRejectsInvalidValues(t *testing.T) {
	tmpDir := t.TempDir()
	cases := map[string]string{
		"zero window":    "indicators:\n  sma_window: 0\n",
		"negative lag":   "indicators:\n  max_lag: -1\n",
		"zero step":      "indicators:\n  irregular_step: 0\n",
		"bad format":     "output:\n  format: \"xml\"\n",
		"no concurrency": "batch:\n  concurrency: 0\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(tmpDir, strings.ReplaceAll(name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(body), 0644); err != nil {
				t.Fatalf("write temp config: %v", err)
			}
			_, err := LoadFromFile(path)
			if err == nil {
				t.Fatalf("LoadFromFile(%s) should fail", name)
			}
			if !errors.Is(err, errors.ErrInvalidArgument) {
				t.Errorf("LoadFromFile(%s) error %v is not ErrInvalidArgument", name, err)
			}
		})
	}
}

func TestValidateReportsInvalidArgument(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}

	mutations := map[string]func(*Config){
		"rsi window":     func(c *Config) { c.Indicators.RSIWindow = 0 },
		"lattice steps":  func(c *Config) { c.Pricing.LatticeSteps = -5 },
		"max lag":        func(c *Config) { c.Indicators.MaxLag = -1 },
		"irregular step": func(c *Config) { c.Indicators.IrregularStep = 0 },
		"output format":  func(c *Config) { c.Output.Format = "csv" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, errors.ErrInvalidArgument) {
				t.Errorf("Validate() = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

// ── Environment overrides ──

func TestEnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("pricing:\n  lattice_steps: 100\n"), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	t.Setenv("FINMATH_PRICING_LATTICE_STEPS", "750")
	t.Setenv("FINMATH_LINALG_PROVIDER", "none")

	cfg, err := LoadFromFile(cfgPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Pricing.LatticeSteps != 750 {
		t.Errorf("Pricing.LatticeSteps: got %d, want 750", cfg.Pricing.LatticeSteps)
	}
	if cfg.Linalg.Provider != "none" {
		t.Errorf("Linalg.Provider: got %q, want %q", cfg.Linalg.Provider, "none")
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("FINMATH_BATCH_CONCURRENCY=3\n"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = os.Chdir(wd)
		os.Unsetenv("FINMATH_BATCH_CONCURRENCY")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Batch.Concurrency != 3 {
		t.Errorf("Batch.Concurrency: got %d, want 3", cfg.Batch.Concurrency)
	}
}

func TestLoadRejectsMalformedDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("BAD-KEY=1\n"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()

	if _, err := Load(); err == nil {
		t.Error("Load() with a malformed .env should fail")
	}
	if _, err := LoadFromFile(filepath.Join(dir, "missing.yaml")); err == nil || !strings.Contains(err.Error(), ".env") {
		t.Errorf("LoadFromFile() error = %v, want the .env parse error", err)
	}
}

func TestLoadWithoutDotEnv(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(wd) }()

	if _, err := Load(); err != nil {
		t.Errorf("Load() without .env: %v", err)
	}
}

// ── CheckSettings ──

func TestCheckSettingsAllDefault(t *testing.T) {
	statuses := CheckSettings(Default())
	if len(statuses) != 13 {
		t.Fatalf("expected 13 settings, got %d", len(statuses))
	}
	for _, s := range statuses {
		if s.Source != SourceDefault {
			t.Errorf("%s: got source %q, want %q", s.Key, s.Source, SourceDefault)
		}
	}
	if statuses[0].Key != "batch.concurrency" {
		t.Errorf("settings should be sorted, first is %q", statuses[0].Key)
	}
}

func TestCheckSettingSourceDetection(t *testing.T) {
	cfg := Default()
	cfg.Pricing.Rate = 0.07
	cfg.Output.Format = "yaml"
	t.Setenv("FINMATH_OUTPUT_FORMAT", "yaml")

	got := map[string]SettingStatus{}
	for _, s := range CheckSettings(cfg) {
		got[s.Key] = s
	}

	if s := got["pricing.rate"]; s.Source != SourceConfig || s.Value != "0.07" {
		t.Errorf("pricing.rate: got %+v", s)
	}
	if s := got["output.format"]; s.Source != SourceEnv {
		t.Errorf("output.format: got source %q, want %q", s.Source, SourceEnv)
	}
	if s := got["logging.level"]; s.Source != SourceDefault {
		t.Errorf("logging.level: got source %q, want %q", s.Source, SourceDefault)
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("indicators.rsi_window"); got != "FINMATH_INDICATORS_RSI_WINDOW" {
		t.Errorf("EnvVar: got %q", got)
	}
}

func TestHomeDirReturnsNonEmpty(t *testing.T) {
	if homeDir() == "" {
		t.Error("homeDir() returned empty string")
	}
}
