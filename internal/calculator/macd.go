package calculator

import "stockscope/internal/model"

// CalculateMACD computes the MACD(fast, slow, signal) line, signal line,
// and histogram over the close series.
func CalculateMACD(series *model.PriceSeries, fast, slow, signal int) model.MACDSeries {
	closes := series.Closes()
	emaFast := ewmSpan(closes, fast)
	emaSlow := ewmSpan(closes, slow)

	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = emaFast[i] - emaSlow[i]
	}
	signalLine := ewmSpan(line, signal)

	hist := make([]float64, len(closes))
	for i := range closes {
		hist[i] = line[i] - signalLine[i]
	}
	return model.MACDSeries{Line: line, Signal: signalLine, Histogram: hist}
}
