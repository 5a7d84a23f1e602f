package calculator

import (
	"math"

	"stockscope/internal/model"
)

// DMISeries holds the smoothed directional movement outputs.
type DMISeries struct {
	ADX     []float64
	PlusDI  []float64
	MinusDI []float64
}

// CalculateADX computes the Average Directional Index with +DI/-DI.
// Directional movements keep only the dominant side of each bar, true
// ranges and movements are Wilder-smoothed via the adjusted exponential
// mean, and ADX is the same smoothing applied to DX. Values are NaN
// until roughly two warm-up periods have elapsed.
func CalculateADX(series *model.PriceSeries, period int) DMISeries {
	bars := series.Bars
	n := len(bars)
	tr := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	for i, b := range bars {
		if i == 0 {
			tr[i] = b.High - b.Low
			continue
		}
		prev := bars[i-1]
		tr[i] = math.Max(b.High-b.Low, math.Max(math.Abs(b.High-prev.Close), math.Abs(b.Low-prev.Close)))
		up := b.High - prev.High
		down := prev.Low - b.Low
		if up > down && up > 0 {
			plusDM[i] = up
		}
		if down > up && down > 0 {
			minusDM[i] = down
		}
	}

	alpha := 1.0 / float64(period)
	atr := ewmAlpha(tr, alpha, period)
	plusSm := ewmAlpha(plusDM, alpha, period)
	minusSm := ewmAlpha(minusDM, alpha, period)

	plusDI := make([]float64, n)
	minusDI := make([]float64, n)
	dx := make([]float64, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(atr[i]) || math.IsNaN(plusSm[i]) || math.IsNaN(minusSm[i]) {
			plusDI[i] = math.NaN()
			minusDI[i] = math.NaN()
			dx[i] = math.NaN()
			continue
		}
		plusDI[i] = 100 * plusSm[i] / atr[i]
		minusDI[i] = 100 * minusSm[i] / atr[i]
		sum := plusDI[i] + minusDI[i]
		if sum < dxFloor {
			sum = dxFloor
		}
		dx[i] = 100 * math.Abs(plusDI[i]-minusDI[i]) / sum
	}

	return DMISeries{
		ADX:     ewmAlpha(dx, alpha, period),
		PlusDI:  plusDI,
		MinusDI: minusDI,
	}
}

const dxFloor = 1e-10
