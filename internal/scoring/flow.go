// Package scoring turns indicator sets into the three composite
// scores: institutional flow, pre-breakout probability, and the
// weighted overall score.
package scoring

import (
	"fmt"
	"math"

	"stockscope/internal/calculator"
	"stockscope/internal/model"
)

const flowMinBars = 20

// InstitutionalFlow scores accumulation vs distribution pressure from
// volume behavior on a 0-100 scale, 50 being neutral. Under 20 bars the
// result is neutral with low confidence.
func InstitutionalFlow(series *model.PriceSeries) model.ScoreResult {
	if series.Len() < flowMinBars {
		return model.ScoreResult{Score: 50, Label: "Neutral", Confidence: model.ConfidenceLow}
	}

	bars := series.Bars
	score := 50.0
	var signals []string

	// Up-day vs down-day volume over the last 20 bars.
	recent := bars[len(bars)-20:]
	var upVol, downVol float64
	for i := 1; i < len(recent); i++ {
		if recent[i].Close > recent[i-1].Close {
			upVol += recent[i].Volume
		} else {
			downVol += recent[i].Volume
		}
	}
	volRatio := upVol / math.Max(downVol, 1)
	if volRatio > 1.5 {
		score += 15
		signals = append(signals, fmt.Sprintf("Heavy buying pressure (%.1fx vol ratio)", volRatio))
	} else if volRatio < 0.7 {
		score -= 15
		signals = append(signals, fmt.Sprintf("Distribution detected (%.1fx vol ratio)", volRatio))
	}

	// OBV trend over the last 30 bars: recent five-bar mean against
	// the bars 15-20 observations back.
	window := len(bars)
	if window > 30 {
		window = 30
	}
	obv := calculator.CalculateOBV(bars[len(bars)-window:])
	if len(obv) >= 15 {
		obvRecent := meanOf(obv[len(obv)-5:])
		obvPrior := meanOf(obv[10:15])
		if obvRecent > obvPrior*1.1 {
			score += 10
			signals = append(signals, "OBV trending up (accumulation)")
		} else if obvRecent < obvPrior*0.9 {
			score -= 10
			signals = append(signals, "OBV trending down (distribution)")
		}
	}

	// A/D line direction over the last 30 bars.
	tail := bars
	if len(tail) > 30 {
		tail = tail[len(tail)-30:]
	}
	ad := calculator.CalculateADLine(tail)
	if len(ad) >= 15 {
		if ad[len(ad)-1] > ad[len(ad)-11] {
			score += 10
			signals = append(signals, "A/D Line rising (smart money buying)")
		} else if ad[len(ad)-1] < ad[len(ad)-11] {
			score -= 10
			signals = append(signals, "A/D Line falling (smart money selling)")
		}
	}

	// Unusual volume with direction.
	if len(bars) >= 25 {
		avgVol := meanVolume(bars[len(bars)-21 : len(bars)-1])
		recentAvg := meanVolume(bars[len(bars)-5:])
		if avgVol > 0 {
			spike := recentAvg / avgVol
			if spike > 2 {
				base := bars[len(bars)-5].Close
				change := (bars[len(bars)-1].Close - base) / base
				if change > 0 {
					score += 15
					signals = append(signals, fmt.Sprintf("Institutional accumulation (%.1fx volume + price up)", spike))
				} else {
					score -= 10
					signals = append(signals, fmt.Sprintf("High volume selling (%.1fx volume)", spike))
				}
			}
		}
	}

	// Consecutive up days on above-average volume.
	avgVol20 := meanVolume(bars[len(bars)-20:])
	consecutive := 0
	for i := len(bars) - 1; i > len(bars)-11 && i > 0; i-- {
		if bars[i].Close > bars[i-1].Close && bars[i].Volume > avgVol20 {
			consecutive++
		} else {
			break
		}
	}
	if consecutive >= 4 {
		score += 10
		signals = append(signals, fmt.Sprintf("%d consecutive up days on volume", consecutive))
	}

	score = math.Max(0, math.Min(100, score))

	label := "Neutral"
	confidence := model.ConfidenceMedium
	switch {
	case score >= 75:
		label = "Strong Accumulation"
		confidence = model.ConfidenceHigh
	case score >= 60:
		label = "Accumulating"
	case score <= 25:
		label = "Strong Distribution"
		confidence = model.ConfidenceHigh
	case score <= 40:
		label = "Distributing"
	}

	return model.ScoreResult{
		Score:       int(math.Round(score)),
		Label:       label,
		Signals:     signals,
		Confidence:  confidence,
		VolumeRatio: math.Round(volRatio*100) / 100,
	}
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func meanVolume(bars []model.OHLCV) float64 {
	var sum float64
	for _, b := range bars {
		sum += b.Volume
	}
	return sum / float64(len(bars))
}
