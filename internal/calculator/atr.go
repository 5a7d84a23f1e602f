package calculator

import (
	"math"

	"stockscope/internal/model"
)

// CalculateATR computes the Average True Range as a simple rolling mean
// of the true range. The first bar's true range is high minus low since
// no prior close exists.
func CalculateATR(series *model.PriceSeries, period int) []float64 {
	bars := series.Bars
	tr := make([]float64, len(bars))
	for i, b := range bars {
		if i == 0 {
			tr[i] = b.High - b.Low
			continue
		}
		prev := bars[i-1].Close
		tr[i] = math.Max(b.High-b.Low, math.Max(math.Abs(b.High-prev), math.Abs(b.Low-prev)))
	}
	return rollingMean(tr, period)
}
