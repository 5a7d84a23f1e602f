package calculator

import "stockscope/internal/model"

const dividerFloor = 1e-10

// CalculateVolumeRatio compares the latest bar's volume to the average
// of the preceding period bars. Returns 1.0 when history is too short
// or the average is zero.
func CalculateVolumeRatio(series *model.PriceSeries, period int) float64 {
	bars := series.Bars
	if len(bars) < period+1 {
		return 1.0
	}
	var sum float64
	for _, b := range bars[len(bars)-period-1 : len(bars)-1] {
		sum += b.Volume
	}
	avg := sum / float64(period)
	if avg == 0 {
		return 1.0
	}
	return bars[len(bars)-1].Volume / avg
}

// CalculateOBV builds an on-balance volume series over the given bars,
// starting from zero at the first bar.
func CalculateOBV(bars []model.OHLCV) []float64 {
	if len(bars) == 0 {
		return nil
	}
	obv := make([]float64, 0, len(bars))
	obv = append(obv, 0.0)
	for i := 1; i < len(bars); i++ {
		cur := obv[len(obv)-1]
		switch {
		case bars[i].Close > bars[i-1].Close:
			cur += bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			cur -= bars[i].Volume
		}
		obv = append(obv, cur)
	}
	return obv
}

// CalculateADLine builds the accumulation/distribution line over the
// given bars using the money flow multiplier.
func CalculateADLine(bars []model.OHLCV) []float64 {
	if len(bars) == 0 {
		return nil
	}
	ad := make([]float64, 0, len(bars))
	var cum float64
	for _, b := range bars {
		span := b.High - b.Low
		if span < dividerFloor {
			span = dividerFloor
		}
		mfm := ((b.Close - b.Low) - (b.High - b.Close)) / span
		cum += mfm * b.Volume
		ad = append(ad, cum)
	}
	return ad
}
