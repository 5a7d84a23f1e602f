// Package options rates how suitable a stock is for options trading
// and suggests a concrete strategy from its score profile.
package options

import (
	"math"

	"stockscope/internal/model"
)

// Factor is one component of the options rating.
type Factor struct {
	Name  string
	Score float64
	Max   float64
}

// Rating is the overall options suitability verdict. Score is out of a
// theoretical 110 points so a stock can rate Excellent without being
// perfect on every factor.
type Rating struct {
	Score   float64
	Label   string
	Factors []Factor
}

// Rate scores options suitability from liquidity, price range,
// realized movement, momentum alignment, and the flow/breakout scores.
func Rate(b model.ScoreBundle) Rating {
	var total float64
	factors := make([]Factor, 0, 6)

	// Daily move range, up to 25 points.
	movePct := 0.0
	if b.Price > 0 && b.AvgDailyMove > 0 {
		movePct = b.AvgDailyMove / b.Price * 100
	}
	movePts := math.Min(25, movePct*10)
	total += movePts
	factors = append(factors, Factor{Name: "Daily Move Range", Score: round1(movePts), Max: 25})

	// Volume, up to 20 points.
	var volPts float64
	switch {
	case b.Volume >= 5_000_000:
		volPts = 20
	case b.Volume >= 2_000_000:
		volPts = 16
	case b.Volume >= 1_000_000:
		volPts = 12
	case b.Volume >= 500_000:
		volPts = 8
	default:
		volPts = math.Max(0, b.Volume/500_000*8)
	}
	total += volPts
	factors = append(factors, Factor{Name: "Volume", Score: round1(volPts), Max: 20})

	// Price range, up to 15 points. Liquid option chains cluster in
	// the $20-$200 band.
	var pricePts float64
	switch {
	case b.Price >= 20 && b.Price <= 200:
		pricePts = 15
	case (b.Price >= 10 && b.Price < 20) || (b.Price > 200 && b.Price <= 500):
		pricePts = 10
	case (b.Price >= 5 && b.Price < 10) || (b.Price > 500 && b.Price <= 1000):
		pricePts = 5
	}
	total += pricePts
	factors = append(factors, Factor{Name: "Price Range", Score: round1(pricePts), Max: 15})

	// Momentum alignment, up to 20 points. Half credit when only one
	// timeframe agrees.
	var momPts float64
	momSum := math.Abs(b.Momentum5d) + math.Abs(b.Momentum20d)
	if b.Momentum5d > 0 && b.Momentum20d > 0 {
		momPts = math.Min(20, momSum)
	} else if b.Momentum5d > 0 || b.Momentum20d > 0 {
		momPts = math.Min(10, momSum) * 0.5
	}
	total += momPts
	factors = append(factors, Factor{Name: "Momentum", Score: round1(momPts), Max: 20})

	// Institutional flow, up to 15 points.
	instPts := math.Min(15, math.Max(0, (float64(b.InstitutionalScore)-40)*0.6))
	total += instPts
	factors = append(factors, Factor{Name: "Institutional Flow", Score: round1(instPts), Max: 15})

	// Breakout score, up to 15 points.
	breakPts := math.Min(15, float64(b.BreakoutScore)*0.3)
	total += breakPts
	factors = append(factors, Factor{Name: "Breakout Score", Score: round1(breakPts), Max: 15})

	var label string
	switch {
	case total >= 80:
		label = "Excellent"
	case total >= 60:
		label = "Good"
	case total >= 40:
		label = "Fair"
	default:
		label = "Poor"
	}

	return Rating{Score: round1(total), Label: label, Factors: factors}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
