// Package strategy maps score bundles to one of nine discrete actions
// and calibrates a win probability for the chosen action.
package strategy

import (
	"fmt"

	"stockscope/internal/model"
)

// rule is one entry in the ordered cascade. Rules are evaluated top to
// bottom and the first match wins, so ordering is part of the contract:
// the overbought guard must run before any buy rule fires.
type rule struct {
	name  string
	match func(b model.ScoreBundle) bool
	build func(b model.ScoreBundle) model.Recommendation
}

// rules is the full 9-level cascade. Thresholds are calibrated from the
// historical walk-forward runs (+10% target, -15% stop).
var rules = []rule{
	{
		name:  "overbought guard",
		match: func(b model.ScoreBundle) bool { return b.RSI > 70 },
		build: func(b model.ScoreBundle) model.Recommendation {
			return model.Recommendation{
				Action:     model.ActionTakeProfits,
				Confidence: model.ConfidenceHigh,
				Reasoning:  []string{"RSI overbought (>70) - historically 0% win rate for new buys"},
				OptionHint: &model.OptionHint{Type: "SELL CALLS", Strike: "ATM covered call", Expiry: "30 DTE"},
			}
		},
	},
	{
		name: "strong buy",
		match: func(b model.ScoreBundle) bool {
			return b.Score >= 75 && b.EMAScore >= 70 && b.InstitutionalScore >= 65 && b.RSI >= 40 && b.RSI <= 70
		},
		build: func(b model.ScoreBundle) model.Recommendation {
			return model.Recommendation{
				Action:     model.ActionStrongBuy,
				Confidence: model.ConfidenceHigh,
				Reasoning: []string{
					"Score 75+ with strong institutional flow",
					fmt.Sprintf("RSI %.0f in optimal 40-70 range", b.RSI),
				},
				OptionHint: &model.OptionHint{Type: "BUY CALLS", Strike: "ATM or 5% OTM", Expiry: "45-60 DTE"},
			}
		},
	},
	{
		name: "buy dip",
		match: func(b model.ScoreBundle) bool {
			return b.RSI < 30 && b.InstitutionalScore >= 60 && b.EMAScore >= 40
		},
		build: func(b model.ScoreBundle) model.Recommendation {
			return model.Recommendation{
				Action:     model.ActionBuyDip,
				Confidence: model.ConfidenceMedium,
				Reasoning: []string{
					"Oversold RSI <30 with institutional support",
					"Best as 45-day hold for mean reversion",
				},
				OptionHint: &model.OptionHint{Type: "SELL PUTS", Strike: "10-15% OTM", Expiry: "45-60 DTE"},
			}
		},
	},
	{
		name: "accumulate",
		match: func(b model.ScoreBundle) bool {
			return b.Score >= 70 && b.EMAScore >= 60 && b.RSI >= 35 && b.RSI <= 65
		},
		build: func(b model.ScoreBundle) model.Recommendation {
			reasoning := []string{"Score 70+ in RSI sweet spot"}
			if b.Squeeze {
				reasoning = append(reasoning, "Bollinger squeeze adds breakout potential")
			}
			return model.Recommendation{
				Action:     model.ActionAccumulate,
				Confidence: model.ConfidenceMedium,
				Reasoning:  reasoning,
				OptionHint: &model.OptionHint{Type: "BUY CALLS", Strike: "5-10% OTM", Expiry: "45-60 DTE"},
			}
		},
	},
	{
		name: "speculative buy",
		match: func(b model.ScoreBundle) bool {
			return b.RSI < 25 && b.Momentum20d < -30
		},
		build: func(b model.ScoreBundle) model.Recommendation {
			return model.Recommendation{
				Action:     model.ActionSpeculativeBuy,
				Confidence: model.ConfidenceLow,
				Reasoning: []string{
					"Capitulation level - deeply oversold",
					"High risk/reward mean reversion play",
				},
				OptionHint: &model.OptionHint{Type: "BUY CALLS", Strike: "15-20% OTM", Expiry: "60-90 DTE"},
			}
		},
	},
	{
		name: "sell",
		match: func(b model.ScoreBundle) bool {
			return b.Score < 25 && b.EMAScore < 30 && b.InstitutionalScore < 40
		},
		build: func(b model.ScoreBundle) model.Recommendation {
			rec := model.Recommendation{
				Action:     model.ActionSell,
				Confidence: model.ConfidenceHigh,
				Reasoning:  []string{"Weak technicals with distribution"},
			}
			if b.Momentum20d < -20 {
				rec.Reasoning = append(rec.Reasoning, "Significant downtrend accelerating")
				rec.OptionHint = &model.OptionHint{Type: "BUY PUTS", Strike: "ATM", Expiry: "45-60 DTE"}
			}
			return rec
		},
	},
	{
		name: "reduce",
		match: func(b model.ScoreBundle) bool {
			return b.Score < 40 && b.Momentum20d < -15 && b.InstitutionalScore < 45
		},
		build: func(b model.ScoreBundle) model.Recommendation {
			return model.Recommendation{
				Action:     model.ActionReduce,
				Confidence: model.ConfidenceMedium,
				Reasoning:  []string{"Deteriorating momentum with weak institutional flow"},
			}
		},
	},
	{
		name: "watch",
		match: func(b model.ScoreBundle) bool {
			return b.Score >= 55 && b.Score < 70 && b.RSI >= 35 && b.RSI <= 55
		},
		build: func(b model.ScoreBundle) model.Recommendation {
			reasoning := []string{"Neutral setup - wait for score 70+ or RSI dip for entry"}
			if b.Squeeze {
				reasoning = append(reasoning, "Squeeze forming - watch for breakout trigger")
			}
			return model.Recommendation{
				Action:     model.ActionWatch,
				Confidence: model.ConfidenceLow,
				Reasoning:  reasoning,
			}
		},
	},
}

// Recommend runs the cascade and attaches the calibrated win
// probability. Falls through to HOLD when no rule matches.
func Recommend(b model.ScoreBundle) model.Recommendation {
	var rec model.Recommendation
	matched := false
	for _, r := range rules {
		if r.match(b) {
			rec = r.build(b)
			matched = true
			break
		}
	}
	if !matched {
		rec = model.Recommendation{
			Action:     model.ActionHold,
			Confidence: model.ConfidenceMedium,
		}
		if b.Score >= 50 {
			rec.Reasoning = []string{"Decent score but missing confirmation signals"}
		} else {
			rec.Reasoning = []string{"Insufficient momentum for new positions"}
		}
	}
	rec.Win = WinProbability(rec.Action, b)
	return rec
}
