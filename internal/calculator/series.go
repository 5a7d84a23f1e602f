// Package calculator computes technical indicators from OHLCV series.
// All functions are pure and deterministic; insufficient history yields
// neutral defaults instead of errors.
package calculator

import "math"

// Series positions with no defined value are marked NaN, mirroring the
// rolling/ewm warm-up behavior of the reference dataframes.

// ewmSpan computes a span-based exponential moving average seeded from
// the first value (alpha = 2/(span+1)).
func ewmSpan(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// ewmAlpha computes an adjusted exponential weighted mean with the given
// alpha, emitting NaN until minPeriods non-NaN observations have been
// seen. NaN inputs are skipped without resetting the weights.
func ewmAlpha(values []float64, alpha float64, minPeriods int) []float64 {
	out := make([]float64, len(values))
	var num, den float64
	seen := 0
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}
		num = v + (1-alpha)*num
		den = 1 + (1-alpha)*den
		seen++
		if seen < minPeriods {
			out[i] = math.NaN()
		} else {
			out[i] = num / den
		}
	}
	return out
}

// rollingMean computes a simple rolling mean; positions before a full
// window are NaN.
func rollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// rollingStd computes the rolling sample standard deviation (ddof=1).
func rollingStd(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		var sum float64
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}
		mean := sum / float64(window)
		var sq float64
		for j := i - window + 1; j <= i; j++ {
			d := values[j] - mean
			sq += d * d
		}
		out[i] = math.Sqrt(sq / float64(window-1))
	}
	return out
}

// quantile returns the q-th quantile of the values using linear
// interpolation between closest ranks. NaN entries are ignored.
func quantile(values []float64, q float64) float64 {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return math.NaN()
	}
	sortFloats(clean)
	if len(clean) == 1 {
		return clean[0]
	}
	pos := q * float64(len(clean)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return clean[lo]
	}
	frac := pos - float64(lo)
	return clean[lo]*(1-frac) + clean[hi]*frac
}

func sortFloats(v []float64) {
	// Insertion sort; the quantile windows here are small (<=120).
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j] < v[j-1]; j-- {
			v[j], v[j-1] = v[j-1], v[j]
		}
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// latest returns the final series value, reporting false when the
// series is empty or still in its warm-up NaN region.
func latest(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	v := values[len(values)-1]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
