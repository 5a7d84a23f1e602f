package strategy

import "stockscope/internal/model"

// baseRate holds the historical calibration for one action level.
type baseRate struct {
	WinRate    float64
	AvgReturn  float64
	HoldPeriod int
	Confidence float64
}

// signalWinRates are measured over the walk-forward universe with a
// +10% target and -15% stop.
var signalWinRates = map[model.Action]baseRate{
	model.ActionStrongBuy:      {WinRate: 0.40, AvgReturn: 0.20, HoldPeriod: 45, Confidence: 0.80},
	model.ActionAccumulate:     {WinRate: 0.33, AvgReturn: 0.15, HoldPeriod: 45, Confidence: 0.65},
	model.ActionBuyDip:         {WinRate: 0.19, AvgReturn: 0.12, HoldPeriod: 45, Confidence: 0.55},
	model.ActionSpeculativeBuy: {WinRate: 0.12, AvgReturn: 0.25, HoldPeriod: 60, Confidence: 0.35},
	model.ActionWatch:          {WinRate: 0.10, AvgReturn: 0.08, HoldPeriod: 30, Confidence: 0.30},
	model.ActionHold:           {WinRate: 0.08, AvgReturn: 0.05, HoldPeriod: 30, Confidence: 0.25},
	model.ActionReduce:         {WinRate: 0.05, AvgReturn: -0.05, HoldPeriod: 14, Confidence: 0.60},
	model.ActionTakeProfits:    {WinRate: 0.03, AvgReturn: -0.10, HoldPeriod: 14, Confidence: 0.70},
	model.ActionSell:           {WinRate: 0.02, AvgReturn: -0.15, HoldPeriod: 7, Confidence: 0.75},
}

// adjustmentRule is one additive probability delta. Unlike the action
// cascade these are not exclusive: every matching rule contributes.
type adjustmentRule struct {
	label string
	value float64
	match func(b model.ScoreBundle) bool
}

var adjustmentRules = []adjustmentRule{
	{"EMA Score 70+", 0.085, func(b model.ScoreBundle) bool { return b.EMAScore >= 70 }},
	{"RSI Overbought", -0.15, func(b model.ScoreBundle) bool { return b.RSI > 70 }},
	{"RSI Optimal Zone", 0.05, func(b model.ScoreBundle) bool { return b.RSI >= 40 && b.RSI <= 65 }},
	{"Strong Inst. Flow", 0.04, func(b model.ScoreBundle) bool { return b.InstitutionalScore >= 65 }},
	{"Overall Score 55+", 0.04, func(b model.ScoreBundle) bool { return b.Score >= 55 }},
	{"Bullish Trend", 0.03, func(b model.ScoreBundle) bool { return b.EMAScore >= 60 }},
	{"Bearish Trend", -0.08, func(b model.ScoreBundle) bool { return b.EMAScore < 30 }},
	{"Squeeze Setup", 0.03, func(b model.ScoreBundle) bool { return b.Squeeze }},
}

// BaseWinRate returns the uncorrected historical win rate for an
// action, as a percentage. Backtest reports compare realized win rates
// against this.
func BaseWinRate(action model.Action) float64 {
	base, ok := signalWinRates[action]
	if !ok {
		base = signalWinRates[model.ActionHold]
	}
	return base.WinRate * 100
}

// WinProbability applies the technical adjustments to the action's base
// rate. The probability is clamped to [0,1]; the expected return scales
// with the total adjustment and deliberately stays unclamped so a
// negative base return grows more negative under bearish adjustments.
func WinProbability(action model.Action, b model.ScoreBundle) model.WinProbability {
	base, ok := signalWinRates[action]
	if !ok {
		base = signalWinRates[model.ActionHold]
	}

	var total float64
	var adjustments []model.Adjustment
	for _, r := range adjustmentRules {
		if r.match(b) {
			total += r.value
			adjustments = append(adjustments, model.Adjustment{Label: r.label, Value: r.value})
		}
	}

	prob := base.WinRate + total
	if prob < 0 {
		prob = 0
	}
	if prob > 1 {
		prob = 1
	}

	return model.WinProbability{
		Probability:     prob,
		ExpectedReturn:  base.AvgReturn * (1 + total),
		Confidence:      base.Confidence,
		HoldPeriodDays:  base.HoldPeriod,
		Adjustments:     adjustments,
		TotalAdjustment: total,
	}
}
