package scoring

import (
	"fmt"
	"math"

	"stockscope/internal/model"
)

const breakoutMinBars = 30

// Breakout scores the probability of an imminent breakout from
// consolidation, volume, and volatility patterns. The raw additive
// score is damped by 0.70 so a single pattern never dominates.
func Breakout(series *model.PriceSeries, ind *model.IndicatorSet) model.ScoreResult {
	if series.Len() < breakoutMinBars || ind == nil {
		return model.ScoreResult{Score: 0, Label: "Insufficient Data", Confidence: model.ConfidenceLow}
	}

	bars := series.Bars
	n := len(bars)
	score := 0.0
	var signals []string

	// Volume accumulation without a price move.
	recentVol := meanVolume(bars[n-10:])
	priorVol := meanVolume(bars[n-30 : n-10])
	base := bars[n-10].Close
	priceChange := (bars[n-1].Close - base) / base * 100
	if priorVol > 0 {
		volIncrease := recentVol / priorVol
		if volIncrease > 1.5 && math.Abs(priceChange) < 5 {
			score += 20
			signals = append(signals, fmt.Sprintf("Stealth accumulation: %.1fx volume, flat price", volIncrease))
		} else if volIncrease > 1.3 && math.Abs(priceChange) < 8 {
			score += 12
			signals = append(signals, "Quiet accumulation detected")
		}
	}

	// Tight trading range over the last 15 bars.
	rangeHigh, rangeLow := extremes(bars[n-15:])
	rangePct := (rangeHigh - rangeLow) / rangeLow * 100
	if rangePct < 10 {
		score += 15
		signals = append(signals, fmt.Sprintf("Tight consolidation: %.1f%% range", rangePct))
	} else if rangePct < 15 {
		score += 8
		signals = append(signals, "Narrow trading range")
	}

	// Higher lows across adjacent five-bar windows.
	higherLows := 0
	for _, offset := range []int{0, 5} {
		if n < offset+10 {
			continue
		}
		_, low1 := extremes(bars[n-offset-5 : n-offset])
		_, low2 := extremes(bars[n-offset-10 : n-offset-5])
		if low1 > low2 {
			higherLows++
		}
	}
	if higherLows >= 2 {
		score += 10
		signals = append(signals, "Higher lows pattern forming")
	}

	// Volume dry-up followed by a spike.
	avgVol := meanVolume(bars[n-20:])
	if avgVol > 0 {
		spike := bars[n-1].Volume > avgVol*1.5
		quiet := meanVolume(bars[n-6:n-1]) < avgVol*0.8
		if spike && quiet {
			score += 15
			signals = append(signals, "Volume spike after quiet period")
		}
	}

	// Volatility compression.
	if ind.ATRPct > 0 && ind.ATRPct < 2 {
		score += 12
		signals = append(signals, "Volatility compression")
	}

	if ind.Squeeze {
		score += 15
		signals = append(signals, "Bollinger Band squeeze detected")
	}

	if ind.RSI >= 50 && ind.RSI <= 70 {
		score += 8
	}

	normalized := int(math.Min(math.Round(score*0.70), 100))

	confidence := model.ConfidenceLow
	pattern := "No Clear Pattern"
	switch {
	case normalized >= 75:
		confidence = model.ConfidenceVeryHigh
		pattern = "EXTREME BREAKOUT PROBABILITY"
	case normalized >= 65:
		confidence = model.ConfidenceHigh
		pattern = "HIGH PROBABILITY BREAKOUT"
	case normalized >= 50:
		confidence = model.ConfidenceMedium
		pattern = "Pre-Breakout Building"
	case normalized >= 30:
		pattern = "Early Accumulation"
	}

	return model.ScoreResult{
		Score:      normalized,
		Label:      pattern,
		Signals:    signals,
		Confidence: confidence,
	}
}

// extremes returns the highest high and lowest low of the bars.
func extremes(bars []model.OHLCV) (high, low float64) {
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low
}
