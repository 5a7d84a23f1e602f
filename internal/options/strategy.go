package options

import (
	"fmt"

	"stockscope/internal/model"
)

// StrategyPick describes the suggested options structure with concrete
// strike levels derived from the current price.
type StrategyPick struct {
	Name         string
	Description  string
	DTERange     string
	Conviction   string
	MaxRisk      string
	TargetReturn string
	Rationale    string
	Strikes      map[string]string
}

// SuggestStrategy picks an options structure from the score profile and
// the estimated IV regime. The cascade prefers directional long premium
// when IV is cheap and premium selling when support is strong; it falls
// through to Watch Only when nothing aligns.
func SuggestStrategy(b model.ScoreBundle) StrategyPick {
	iv := EstimateIV(b.AvgDailyMove, b.Price)

	switch {
	case b.BreakoutScore >= 50 && (iv.Percentile == "low" || iv.Percentile == "moderate"):
		conviction := "Medium"
		if b.Score >= 70 {
			conviction = "High"
		}
		return StrategyPick{
			Name:         "Long Calls",
			Description:  "Buy calls to capture breakout move with favorable IV",
			DTERange:     "30-45 DTE",
			Conviction:   conviction,
			MaxRisk:      "Premium paid",
			TargetReturn: "50-100%",
			Rationale:    fmt.Sprintf("Pre-breakout setup (score %d) with %s IV - favorable for buying options", b.BreakoutScore, iv.Percentile),
			Strikes: map[string]string{
				"entry": strikeLevel(b.Price, 1.05, "5% OTM"),
			},
		}

	case b.BreakoutScore >= 40 && iv.Percentile == "high":
		return StrategyPick{
			Name:         "Bull Call Spread",
			Description:  "Debit spread to limit cost in high IV environment",
			DTERange:     "45 DTE",
			Conviction:   "Medium",
			MaxRisk:      "Net debit",
			TargetReturn: "50-150%",
			Rationale:    "Breakout potential but high IV - spread reduces cost basis",
			Strikes: map[string]string{
				"long":  strikeLevel(b.Price, 1.02, "2% OTM"),
				"short": strikeLevel(b.Price, 1.10, "10% OTM"),
			},
		}

	case b.InstitutionalScore >= 65:
		return StrategyPick{
			Name:         "Cash-Secured Puts",
			Description:  "Sell puts to collect premium at institutional support levels",
			DTERange:     "30-45 DTE",
			Conviction:   "Medium-High",
			MaxRisk:      "Assignment at strike",
			TargetReturn: "Premium collected (2-4%)",
			Rationale:    fmt.Sprintf("Strong institutional flow (score %d) provides support - sell puts to collect premium or buy at discount", b.InstitutionalScore),
			Strikes: map[string]string{
				"put_strike": strikeLevel(b.Price, 0.95, "5% OTM"),
			},
		}

	case b.Score >= 70 && b.EMAScore >= 60:
		return StrategyPick{
			Name:         "LEAPS Calls",
			Description:  "Long-dated calls for sustained uptrend",
			DTERange:     "90-180 DTE",
			Conviction:   "Medium",
			MaxRisk:      "Premium paid",
			TargetReturn: "100-200%",
			Rationale:    fmt.Sprintf("Strong score (%d) and trend (EMA %d) support longer hold", b.Score, b.EMAScore),
			Strikes: map[string]string{
				"entry": strikeLevel(b.Price, 1.05, "5% OTM"),
			},
		}

	case b.Score >= 55:
		return StrategyPick{
			Name:         "Bull Call Spread",
			Description:  "Defined-risk bullish play",
			DTERange:     "45 DTE",
			Conviction:   "Medium",
			MaxRisk:      "Net debit",
			TargetReturn: "50-100%",
			Rationale:    fmt.Sprintf("Moderate setup (score %d) - spread limits risk while capturing upside", b.Score),
			Strikes: map[string]string{
				"long":  strikeLevel(b.Price, 1.02, "2% OTM"),
				"short": strikeLevel(b.Price, 1.10, "10% OTM"),
			},
		}

	case b.Squeeze && b.RSI < 40:
		return StrategyPick{
			Name:         "Bull Put Spread",
			Description:  "Credit spread to profit from support hold during squeeze",
			DTERange:     "30-45 DTE",
			Conviction:   "Medium",
			MaxRisk:      "Spread width minus credit",
			TargetReturn: "Credit collected (30-50% of width)",
			Rationale:    "Bollinger squeeze with oversold RSI - premium selling opportunity at support",
			Strikes: map[string]string{
				"short_put": strikeLevel(b.Price, 0.95, "5% OTM"),
				"long_put":  strikeLevel(b.Price, 0.90, "10% OTM"),
			},
		}
	}

	return StrategyPick{
		Name:         "Watch Only",
		Description:  "No clear options setup - wait for better entry",
		DTERange:     "N/A",
		Conviction:   "Low",
		MaxRisk:      "N/A",
		TargetReturn: "N/A",
		Rationale:    "Insufficient technical alignment for options entry",
		Strikes:      map[string]string{},
	}
}

// strikeLevel formats a strike as an absolute price when the price is
// known, falling back to the relative description.
func strikeLevel(price, mult float64, desc string) string {
	if price <= 0 {
		return desc
	}
	return fmt.Sprintf("$%.2f (%s)", price*mult, desc)
}
