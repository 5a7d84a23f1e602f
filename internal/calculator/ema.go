package calculator

import (
	"math"

	"stockscope/internal/model"
)

// DefaultEMAPeriods are the spans used for trend alignment scoring.
var DefaultEMAPeriods = []int{8, 21, 50, 200}

// CalculateEMAs computes span-based EMAs of the close series for each
// period, seeded from the first close.
func CalculateEMAs(series *model.PriceSeries, periods []int) map[int][]float64 {
	if periods == nil {
		periods = DefaultEMAPeriods
	}
	closes := series.Closes()
	out := make(map[int][]float64, len(periods))
	for _, p := range periods {
		out[p] = ewmSpan(closes, p)
	}
	return out
}

// CalculateEMAScore scores EMA alignment from 0-100. Higher score means
// better bullish alignment (price > EMA8 > EMA21 > EMA50 > EMA200).
//
// Components: 10pt per period with price above the EMA (40 max), 10pt
// per adjacent pair stacked short-over-long (30 max), a proximity bonus
// for price near EMA8 (15 max), and a rising-trend bonus for EMA8/EMA21
// over the last 5 bars (15 max). Clamped to 100.
func CalculateEMAScore(emas map[int][]float64, currentPrice float64) int {
	score := 0

	periods := make([]int, 0, len(emas))
	lastVals := make(map[int]float64, len(emas))
	for p, s := range emas {
		if v, ok := latest(s); ok {
			periods = append(periods, p)
			lastVals[p] = v
		}
	}
	if len(periods) == 0 {
		return 0
	}
	sortInts(periods)

	// Price above EMAs (up to 40 points).
	for _, p := range periods {
		if currentPrice > lastVals[p] {
			score += 10
		}
	}

	// EMA stacking order (up to 30 points).
	for i := 0; i < len(periods)-1; i++ {
		if lastVals[periods[i]] > lastVals[periods[i+1]] {
			score += 10
		}
	}

	// Price proximity to the short-term EMA (up to 15 points).
	if ema8, ok := lastVals[8]; ok {
		distPct := math.Abs(currentPrice-ema8) / ema8 * 100
		switch {
		case distPct < 1:
			score += 15
		case distPct < 2:
			score += 10
		case distPct < 3:
			score += 5
		}
	}

	// Short EMAs rising over the last 5 bars (up to 15 points).
	for _, p := range []int{8, 21} {
		s, ok := emas[p]
		if !ok || len(s) < 5 {
			continue
		}
		recent := s[len(s)-1]
		prior := s[len(s)-5]
		if !math.IsNaN(recent) && !math.IsNaN(prior) && recent > prior {
			if p == 8 {
				score += 7
			} else {
				score += 8
			}
		}
	}

	if score > 100 {
		score = 100
	}
	return score
}

func sortInts(v []int) {
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j] < v[j-1]; j-- {
			v[j], v[j-1] = v[j-1], v[j]
		}
	}
}
