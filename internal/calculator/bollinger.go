package calculator

import (
	"math"

	"stockscope/internal/model"
)

// squeezeLookback is how many trailing bandwidth observations the
// squeeze percentile is measured against.
const squeezeLookback = 120

// CalculateBollinger computes Bollinger Bands (rolling mean ± stdDev
// standard deviations) plus bandwidth and the squeeze flag. The squeeze
// fires when at least 120 bars exist and the current bandwidth is at or
// below the 20th percentile of the trailing 120-bar distribution.
func CalculateBollinger(series *model.PriceSeries, period int, stdDev float64) model.BollingerBands {
	closes := series.Closes()
	mid := rollingMean(closes, period)
	std := rollingStd(closes, period)

	n := len(closes)
	upper := make([]float64, n)
	lower := make([]float64, n)
	bandwidth := make([]float64, n)
	for i := 0; i < n; i++ {
		upper[i] = mid[i] + stdDev*std[i]
		lower[i] = mid[i] - stdDev*std[i]
		bw := (upper[i] - lower[i]) / mid[i] * 100
		if math.IsNaN(bw) {
			bw = 0
		}
		bandwidth[i] = bw
	}

	squeeze := false
	if n >= squeezeLookback {
		recent := bandwidth[n-squeezeLookback:]
		threshold := quantile(recent, 0.20)
		squeeze = bandwidth[n-1] <= threshold
	}

	return model.BollingerBands{
		Upper:     upper,
		Mid:       mid,
		Lower:     lower,
		Bandwidth: bandwidth,
		Squeeze:   squeeze,
	}
}
