// Package stats implements the statistical helpers used by the option
// pricers: the standard normal distribution, binomial coefficients and basic
// moments.
package stats

import "math"

// NormalCDF is the standard normal cumulative distribution function
// Φ(x) = 0.5·erfc(−x/√2).
func NormalCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// NormalPDF is the standard normal probability density function.
func NormalPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

// Combinations returns the binomial coefficient C(n, k) using the
// multiplicative recurrence C(n,k) = C(n,k−1)·(n−k+1)/k, so no factorial is
// ever formed. Returns 0 when k > n or k < 0.
func Combinations(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	if k == 0 || k == n {
		return 1
	}
	if k > n-k {
		k = n - k
	}
	c := 1.0
	for i := 1; i <= k; i++ {
		c *= float64(n - k + i)
		c /= float64(i)
	}
	return c
}

// LogCombinations returns ln C(n, k). It stays finite for n far beyond the
// point where C(n, k) overflows float64. Returns -Inf when k > n or k < 0.
func LogCombinations(n, k int) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	a, _ := math.Lgamma(float64(n + 1))
	b, _ := math.Lgamma(float64(k + 1))
	c, _ := math.Lgamma(float64(n - k + 1))
	return a - b - c
}

// Mean returns the arithmetic mean, or 0 for empty input.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// Variance returns the population variance.
func Variance(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	m := Mean(data)
	sumSq := 0.0
	for _, v := range data {
		d := v - m
		sumSq += d * d
	}
	return sumSq / float64(len(data))
}

// StdDev returns the population standard deviation.
func StdDev(data []float64) float64 {
	return math.Sqrt(Variance(data))
}

// SampleStdDev returns the standard deviation with Bessel's correction.
// Needs at least two points; returns 0 otherwise.
func SampleStdDev(data []float64) float64 {
	n := len(data)
	if n < 2 {
		return 0
	}
	return math.Sqrt(Variance(data) * float64(n) / float64(n-1))
}
