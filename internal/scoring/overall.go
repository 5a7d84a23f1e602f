package scoring

import (
	"fmt"
	"math"

	"stockscope/internal/model"
)

// Overall combines EMA alignment, institutional flow, breakout setup,
// momentum, volume, and RSI quality into the composite 0-100 score.
// Weights follow the fixed point caps below; rules fire independently
// and their reasons accumulate in order.
func Overall(ind *model.IndicatorSet, flow, breakout model.ScoreResult) model.OverallScore {
	score := 0.0
	var reasons []string

	emaScore := 0
	if ind != nil {
		emaScore = ind.EMAScore
	}

	// EMA alignment, up to 35 points.
	score += float64(emaScore) * 0.35
	if emaScore >= 70 {
		reasons = append(reasons, fmt.Sprintf("Strong EMA alignment (%d)", emaScore))
	} else if emaScore >= 50 {
		reasons = append(reasons, fmt.Sprintf("Moderate EMA alignment (%d)", emaScore))
	}

	// Price above multiple EMAs, 8 points.
	if ind != nil {
		bullish := 0
		for _, v := range ind.EMAs {
			if ind.Price > v {
				bullish++
			}
		}
		if bullish >= 3 {
			score += 8
			reasons = append(reasons, "Price above multiple EMAs")
		}
	}

	// Institutional flow, up to 18 points.
	switch {
	case flow.Score >= 70:
		score += 18
		reasons = append(reasons, fmt.Sprintf("Strong institutional accumulation (%d)", flow.Score))
	case flow.Score >= 55:
		score += 10
		reasons = append(reasons, fmt.Sprintf("Moderate accumulation (%d)", flow.Score))
	case flow.Score <= 30:
		score -= 10
		reasons = append(reasons, "Distribution detected")
	}

	// Pre-breakout setup, up to 8 points.
	switch {
	case breakout.Score >= 50:
		score += 8
		reasons = append(reasons, fmt.Sprintf("Pre-breakout setup (%d)", breakout.Score))
	case breakout.Score >= 35:
		score += 5
	case breakout.Score >= 20:
		score += 3
	}

	if ind != nil {
		// 5-day momentum, up to 4 points.
		switch {
		case ind.Momentum5d > 10:
			score += 4
		case ind.Momentum5d > 5:
			score += 2
		case ind.Momentum5d > 0:
			score += 1
		}

		// 20-day momentum, up to 8 points.
		if ind.Momentum20d > 15 {
			score += 8
			reasons = append(reasons, fmt.Sprintf("Strong 20d momentum (+%.1f%%)", ind.Momentum20d))
		} else if ind.Momentum20d > 10 {
			score += 5
		}

		// Volume ratio, up to 12 points.
		if ind.VolumeRatio > 2 {
			score += 12
			reasons = append(reasons, fmt.Sprintf("High volume (%.1fx avg)", ind.VolumeRatio))
		} else if ind.VolumeRatio > 1.5 {
			score += 8
		}

		// RSI quality, up to 8 points.
		switch {
		case ind.RSI >= 50 && ind.RSI <= 70:
			score += 8
		case ind.RSI > 70 && ind.RSI < 80:
			score += 4
		case ind.RSI < 30:
			reasons = append(reasons, fmt.Sprintf("RSI oversold (%.0f)", ind.RSI))
		}
	}

	final := int(math.Round(score))
	if final < 0 {
		final = 0
	}
	if final > 100 {
		final = 100
	}

	return model.OverallScore{
		Score:              final,
		Reasons:            reasons,
		EMAScore:           emaScore,
		InstitutionalScore: flow.Score,
		BreakoutScore:      breakout.Score,
	}
}
