package models

// PriceSeries is an ordered sequence of observations. Times is optional and,
// when present, pairs each value with a real-valued timestamp for irregular
// sampling.
type PriceSeries struct {
	Name   string    `json:"name" yaml:"name"`
	Values []float64 `json:"values" yaml:"values"`
	Times  []float64 `json:"times,omitempty" yaml:"times,omitempty"`
}

// Len returns the number of observations.
func (s PriceSeries) Len() int { return len(s.Values) }

// Irregular reports whether the series carries explicit timestamps.
func (s PriceSeries) Irregular() bool { return len(s.Times) > 0 }

// IndicatorReport holds the latest value of each indicator computed for a
// series. Zero-valued fields mean the indicator could not be computed; the
// reason is listed in Errors.
type IndicatorReport struct {
	Name       string            `json:"name" yaml:"name"`
	Points     int               `json:"points" yaml:"points"`
	Last       float64           `json:"last" yaml:"last"`
	SMA        float64           `json:"sma" yaml:"sma"`
	EMA        float64           `json:"ema" yaml:"ema"`
	RSI        float64           `json:"rsi" yaml:"rsi"`
	Volatility float64           `json:"volatility" yaml:"volatility"`
	Errors     map[string]string `json:"errors,omitempty" yaml:"errors,omitempty"`
}
