package technical

import (
	"github.com/seenimoa/finmath/pkg/models"
)

// IndicatorConfig selects the windows used by Analyze.
type IndicatorConfig struct {
	SMAWindow        int
	EMAWindow        int
	RSIWindow        int
	VolatilityWindow int
}

// DefaultIndicatorConfig returns the conventional daily-bar windows.
func DefaultIndicatorConfig() IndicatorConfig {
	return IndicatorConfig{SMAWindow: 20, EMAWindow: 20, RSIWindow: 14, VolatilityWindow: 20}
}

// Analyze computes the latest value of every indicator for a series. An
// indicator that cannot be computed is left at zero and its error recorded
// in the report; the remaining indicators are still filled in.
func Analyze(series models.PriceSeries, cfg IndicatorConfig) models.IndicatorReport {
	report := models.IndicatorReport{
		Name:   series.Name,
		Points: series.Len(),
	}
	if series.Len() > 0 {
		report.Last = series.Values[series.Len()-1]
	}

	record := func(name string, vals []float64, err error) float64 {
		if err != nil {
			if report.Errors == nil {
				report.Errors = make(map[string]string)
			}
			report.Errors[name] = err.Error()
			return 0
		}
		return latest(vals, nil)
	}

	sma, err := SMA(series.Values, cfg.SMAWindow)
	report.SMA = record("sma", sma, err)

	ema, err := EMA(series.Values, cfg.EMAWindow)
	report.EMA = record("ema", ema, err)

	rsi, err := RSI(series.Values, cfg.RSIWindow)
	report.RSI = record("rsi", rsi, err)

	vol, err := RollingVolatility(series.Values, cfg.VolatilityWindow)
	report.Volatility = record("volatility", vol, err)

	return report
}
