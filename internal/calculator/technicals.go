package calculator

import (
	"math"

	"stockscope/internal/model"
)

// Standard indicator parameters.
const (
	minBars         = 30
	rsiPeriod       = 14
	macdFast        = 12
	macdSlow        = 26
	macdSignal      = 9
	bollingerPeriod = 20
	bollingerStdDev = 2.0
	atrPeriod       = 14
	adxPeriod       = 14
	volumePeriod    = 20
)

// Compute derives the full indicator set from a price series. Returns
// nil when fewer than 30 bars are available, since every downstream
// score treats that as unanalyzable.
func Compute(series *model.PriceSeries) *model.IndicatorSet {
	if series.Len() < minBars {
		return nil
	}

	closes := series.Closes()
	price := series.Last().Close

	emaSeries := CalculateEMAs(series, DefaultEMAPeriods)
	emas := make(map[int]float64, len(emaSeries))
	for period, vals := range emaSeries {
		if v, ok := latest(vals); ok {
			emas[period] = v
		}
	}

	rsiSeries := CalculateRSI(series, rsiPeriod)
	rsi, ok := latest(rsiSeries)
	if !ok {
		rsi = 50
	}

	macd := CalculateMACD(series, macdFast, macdSlow, macdSignal)
	bands := CalculateBollinger(series, bollingerPeriod, bollingerStdDev)
	atrSeries := CalculateATR(series, atrPeriod)
	atr, _ := latest(atrSeries)
	dmi := CalculateADX(series, adxPeriod)
	supports, resistances := CalculateLevels(series)

	set := &model.IndicatorSet{
		Price:       price,
		EMAs:        emas,
		EMAScore:    CalculateEMAScore(emaSeries, price),
		RSI:         rsi,
		Squeeze:     bands.Squeeze,
		ATR:         atr,
		VolumeRatio: CalculateVolumeRatio(series, volumePeriod),
		Supports:    supports,
		Resistances: resistances,
		Momentum5d:  momentum(closes, 5),
		Momentum20d: momentum(closes, 20),

		EMASeries: emaSeries,
		RSISeries: rsiSeries,
		MACD:      macd,
		Bollinger: bands,
		ATRSeries: atrSeries,
	}

	if v, ok := latest(macd.Line); ok {
		set.MACDLine = v
	}
	if v, ok := latest(macd.Signal); ok {
		set.MACDSignal = v
	}
	if v, ok := latest(macd.Histogram); ok {
		set.MACDHistogram = v
	}
	if v, ok := latest(bands.Bandwidth); ok {
		set.Bandwidth = v
	}
	if v, ok := latest(dmi.ADX); ok {
		set.ADX = v
	}
	if v, ok := latest(dmi.PlusDI); ok {
		set.PlusDI = v
	}
	if v, ok := latest(dmi.MinusDI); ok {
		set.MinusDI = v
	}
	if price > 0 && atr > 0 {
		set.ATRPct = atr / price * 100
	}
	return set
}

// momentum computes the percent change from lag bars ago to the latest
// close. Returns 0 when history is shorter than lag+1 bars.
func momentum(closes []float64, lag int) float64 {
	if len(closes) < lag+1 {
		return 0
	}
	base := closes[len(closes)-lag-1]
	if base == 0 || math.IsNaN(base) {
		return 0
	}
	return (closes[len(closes)-1] - base) / base * 100
}
