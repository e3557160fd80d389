package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/seenimoa/finmath/pkg/errors"
	"github.com/seenimoa/finmath/pkg/models"
)

const quietConfig = "logging:\n  level: error\n"

// run executes the CLI with a throwaway config file and captures stdout.
func run(t *testing.T, configYAML string, args ...string) (string, error) {
	t.Helper()
	cfgPath := writeTemp(t, "config.yaml", configYAML)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

var atmFlags = []string{"--spot", "100", "--strike", "100", "--time", "1", "--rate", "0.05", "--vol", "0.2"}

func TestVersion(t *testing.T) {
	out, err := run(t, quietConfig, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "finmath dev")
}

func TestStatus(t *testing.T) {
	out, err := run(t, quietConfig+"pricing:\n  rate: 0.07\n", "status", "-o", "json")
	require.NoError(t, err)

	var rep statusReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, []string{"gonum", "none"}, rep.Backends)
	assert.True(t, strings.HasSuffix(rep.ConfigFile, "config.yaml"))

	found := false
	for _, s := range rep.Settings {
		if s.Key == "pricing.rate" {
			found = true
			assert.Equal(t, "0.07", s.Value)
		}
	}
	assert.True(t, found, "pricing.rate missing from status")
}

// ── Pricing ──

func TestBlackScholesCommand(t *testing.T) {
	out, err := run(t, quietConfig, append([]string{"bs", "-o", "json"}, atmFlags...)...)
	require.NoError(t, err)

	var res priceOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "black-scholes", res.Model)
	assert.InDelta(t, 10.4506, res.Price, 1e-4)

	out, err = run(t, quietConfig, append([]string{"bs", "--type", "pe"}, atmFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "5.5735")
	assert.Contains(t, out, "PRICE")
}

func TestBlackScholesUsesConfiguredRate(t *testing.T) {
	args := []string{"bs", "-o", "json", "--spot", "100", "--strike", "100", "--time", "1", "--vol", "0.2"}
	out, err := run(t, quietConfig+"pricing:\n  rate: 0\n", args...)
	require.NoError(t, err)

	var res priceOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 7.9656, res.Price, 1e-4)
}

func TestBlackScholesRejectsInvalidContract(t *testing.T) {
	_, err := run(t, quietConfig, "bs", "--spot", "-1", "--strike", "100", "--time", "1", "--vol", "0.2")
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)

	_, err = run(t, quietConfig, "bs", "--type", "straddle", "--spot", "1", "--strike", "100", "--time", "1", "--vol", "0.2")
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)

	_, err = run(t, quietConfig, "bs", "--spot", "100")
	assert.Error(t, err)
}

func TestBinomialCommand(t *testing.T) {
	out, err := run(t, quietConfig, append([]string{"binomial", "-o", "yaml", "--steps", "1000"}, atmFlags...)...)
	require.NoError(t, err)

	var res priceOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1000, res.Steps)
	assert.InEpsilon(t, 10.4506, res.Price, 0.005)
}

func TestGreeksCommand(t *testing.T) {
	out, err := run(t, quietConfig, append([]string{"greeks", "-o", "json"}, atmFlags...)...)
	require.NoError(t, err)

	var g models.Greeks
	require.NoError(t, json.Unmarshal([]byte(out), &g))
	assert.InDelta(t, 0.6368, g.Delta, 1e-4)
	assert.Greater(t, g.Vega, 0.0)
}

func TestImpliedVolCommand(t *testing.T) {
	args := []string{"iv", "-o", "json", "--spot", "100", "--strike", "100", "--time", "1", "--rate", "0.05", "--price", "10.450583572185565"}
	out, err := run(t, quietConfig, args...)
	require.NoError(t, err)

	var res impliedVolOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 0.2, res.ImpliedVol, 1e-6)
}

func TestBookCommand(t *testing.T) {
	book := writeTemp(t, "book.toml", `
[[option]]
name = "first"
type = "call"
spot = 100
strike = 100
time = 1
vol = 0.2

[[option]]
name = "second"
type = "put"
spot = 100
strike = 100
time = 1
vol = 0.2

[[option]]
name = "expired"
type = "call"
spot = 120
strike = 100
time = 0
vol = 0.2
`)
	out, err := run(t, quietConfig+"batch:\n  concurrency: 2\n", "book", book, "-o", "json")
	require.NoError(t, err)

	var results []models.PricingResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].Name)
	assert.InDelta(t, 10.4506, results[0].BlackScholes, 1e-4)
	assert.Equal(t, "second", results[1].Name)
	assert.InDelta(t, 5.5735, results[1].BlackScholes, 1e-4)
	assert.Equal(t, 20.0, results[2].BlackScholes)
	assert.Nil(t, results[2].Greeks)
	assert.Empty(t, results[0].ErrorKind)
}

func TestBookCommandClassifiesFailures(t *testing.T) {
	// exp(rΔt) above the up factor leaves no risk-neutral probability.
	book := writeTemp(t, "book.toml", `
[[option]]
name = "ok"
type = "call"
spot = 100
strike = 100
time = 1
vol = 0.2

[[option]]
name = "arbitrage"
type = "call"
spot = 100
strike = 100
time = 1
rate = 0.5
vol = 0.01
steps = 1
`)
	out, err := run(t, quietConfig, "book", book, "-o", "json")
	require.NoError(t, err)

	var results []models.PricingResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Empty(t, results[0].Error)
	assert.NotEmpty(t, results[1].Error)
	assert.Equal(t, errors.ErrInvalidArgument.Error(), results[1].ErrorKind)
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "degenerate input", errorKind(errors.Wrap(errors.ErrDegenerateInput, "acf")))
	assert.Equal(t, "capability not supported", errorKind(errors.Wrap(errors.ErrUnsupported, "pca")))
	assert.Equal(t, "error", errorKind(errors.New("disk on fire")))
}

// ── Series ──

func TestIndicatorsCommand(t *testing.T) {
	var up, down strings.Builder
	up.WriteString("close\n")
	down.WriteString("close\n")
	for i := 0; i < 40; i++ {
		up.WriteString(formatFloat(100 + float64(i)))
		up.WriteString("\n")
		down.WriteString(formatFloat(200 - 2*float64(i)))
		down.WriteString("\n")
	}
	upPath := writeTemp(t, "UP.csv", up.String())
	downPath := writeTemp(t, "DOWN.csv", down.String())

	out, err := run(t, quietConfig, "indicators", upPath, downPath, "-o", "json")
	require.NoError(t, err)

	var reports []models.IndicatorReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 2)
	assert.Equal(t, "UP", reports[0].Name)
	assert.Equal(t, 40, reports[0].Points)
	assert.Equal(t, 100.0, reports[0].RSI)
	assert.Equal(t, "DOWN", reports[1].Name)
	assert.Equal(t, 0.0, reports[1].RSI)
	assert.InDelta(t, 129.5, reports[0].SMA, 1e-9)
}

func TestIndicatorsCommandMissingFile(t *testing.T) {
	_, err := run(t, quietConfig, "indicators", filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestACFCommand(t *testing.T) {
	path := writeTemp(t, "alt.csv", "1\n-1\n1\n-1\n1\n-1\n")
	out, err := run(t, quietConfig, "acf", path, "--max-lag", "2", "-o", "json")
	require.NoError(t, err)

	var res acfOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.ACF, 3)
	assert.Equal(t, 1.0, res.ACF[0])
	assert.InDelta(t, -5.0/6.0, res.ACF[1], 1e-12)
	assert.Equal(t, []float64{0, 1, 2}, res.Lags)

	_, err = run(t, quietConfig, "acf", path, "--irregular")
	assert.Error(t, err)
}

func TestACFCommandIrregular(t *testing.T) {
	path := writeTemp(t, "irr.csv", "time,value\n0,1\n0.9,3\n2.1,2\n3,5\n4.2,4\n")
	out, err := run(t, quietConfig, "acf", path, "--irregular", "--max-lag", "2", "--step", "1", "-o", "json")
	require.NoError(t, err)

	var res acfOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Irregular)
	assert.Len(t, res.ACF, 3)
	assert.InDelta(t, 0.2, res.ACF[0], 1e-12)
}

func TestACFCommandFractionalTimeLag(t *testing.T) {
	path := writeTemp(t, "irr.csv", "time,value\n0,1\n0.5,3\n1.1,2\n1.5,5\n2.1,4\n2.4,6\n")
	out, err := run(t, quietConfig, "acf", path, "--irregular", "--max-time-lag", "2.5", "--step", "0.5", "-o", "json")
	require.NoError(t, err)

	var res acfOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.ACF, 6)
	assert.Equal(t, []float64{0, 0.5, 1, 1.5, 2, 2.5}, res.Lags)
}

// ── Interest ──

func TestInterestCompoundCommand(t *testing.T) {
	out, err := run(t, quietConfig, "interest", "compound", "--principal", "1000", "--rate", "5", "--years", "10", "--frequency", "4", "-o", "json")
	require.NoError(t, err)

	var res interestOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "1643.62", res.Amount)
	assert.Equal(t, "643.62", res.Interest)

	out, err = run(t, quietConfig, "interest", "compound", "--principal", "1000", "--rate", "5", "--years", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "1,628.89")
}

func TestInterestSimpleCommand(t *testing.T) {
	out, err := run(t, quietConfig, "interest", "simple", "--principal", "1000", "--rate", "0.05", "--time", "3", "-o", "yaml")
	require.NoError(t, err)

	var res interestOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, "1150.00", res.Amount)

	_, err = run(t, quietConfig, "interest", "simple", "--principal", "abc", "--rate", "0.05", "--time", "3")
	assert.Error(t, err)
}

// ── Regression / PCA ──

func TestRegressCommand(t *testing.T) {
	path := writeTemp(t, "fit.csv", "a,b,y\n1,4,1\n2,1,4.5\n3,7,3.5\n4,2,8\n5,9,6.5\n")
	out, err := run(t, quietConfig, "regress", path, "-o", "json")
	require.NoError(t, err)

	var res regressOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, []string{"a", "b"}, res.Features)
	assert.Equal(t, "y", res.Target)
	assert.InDelta(t, 1.0, res.Intercept, 1e-9)
	assert.InDelta(t, 2.0, res.Coefficients[0], 1e-9)
	assert.InDelta(t, -0.5, res.Coefficients[1], 1e-9)
}

func TestPCACommand(t *testing.T) {
	path := writeTemp(t, "pts.csv", "1,1.1\n2,1.9\n3,3.2\n4,3.9\n5,5.1\n")
	out, err := run(t, quietConfig, "pca", path, "--components", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "PC1")
	assert.NotContains(t, out, "PC2")
}

func TestPCACommandWithoutBackend(t *testing.T) {
	path := writeTemp(t, "pts.csv", "1,10\n3,20\n5,60\n")
	out, err := run(t, quietConfig+"linalg:\n  provider: none\n", "pca", path)
	assert.ErrorIs(t, err, errors.ErrUnsupported)
	assert.Contains(t, out, "CENTRED DATA")
	assert.Contains(t, out, "-20.0000")
}

func formatFloat(v float64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
