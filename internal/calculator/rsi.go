package calculator

import (
	"math"

	"stockscope/internal/model"
)

const lossFloor = 1e-10

// CalculateRSI computes the Wilder-smoothed RSI series over the given
// period (exponential mean of gains/losses with alpha = 1/period).
// Positions before `period` price changes have accumulated are NaN.
func CalculateRSI(series *model.PriceSeries, period int) []float64 {
	closes := series.Closes()
	n := len(closes)
	gains := make([]float64, n)
	losses := make([]float64, n)
	gains[0] = math.NaN()
	losses[0] = math.NaN()
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	alpha := 1.0 / float64(period)
	avgGain := ewmAlpha(gains, alpha, period)
	avgLoss := ewmAlpha(losses, alpha, period)

	rsi := make([]float64, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(avgGain[i]) || math.IsNaN(avgLoss[i]) {
			rsi[i] = math.NaN()
			continue
		}
		loss := avgLoss[i]
		if loss == 0 {
			loss = lossFloor
		}
		rs := avgGain[i] / loss
		rsi[i] = 100 - 100/(1+rs)
	}
	return rsi
}
