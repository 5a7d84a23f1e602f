package backtest

import (
	"math"

	"stockscope/internal/model"
	"stockscope/internal/strategy"
)

// summarize computes aggregate statistics over all trades.
func summarize(trades []model.Trade) model.Summary {
	if len(trades) == 0 {
		return model.Summary{}
	}

	s := model.Summary{TotalTrades: len(trades)}
	var sumReturns, sumWinReturns, sumLossReturns, sumDays float64
	best := math.Inf(-1)
	worst := math.Inf(1)

	for _, t := range trades {
		sumReturns += t.ReturnPct
		sumDays += float64(t.DaysHeld)
		best = math.Max(best, t.ReturnPct)
		worst = math.Min(worst, t.ReturnPct)

		switch t.Outcome {
		case model.OutcomeWin:
			s.Wins++
			sumWinReturns += t.ReturnPct
		case model.OutcomeLoss:
			s.Losses++
			sumLossReturns += math.Abs(t.ReturnPct)
		case model.OutcomeTimeout:
			s.Timeouts++
		}
	}

	n := float64(len(trades))
	s.WinRate = float64(s.Wins) / n * 100
	s.AvgReturn = sumReturns / n
	s.AvgDaysHeld = sumDays / n
	s.BestTrade = best
	s.WorstTrade = worst

	if sumLossReturns > 0 {
		s.ProfitFactor = round2(sumWinReturns / sumLossReturns)
	} else {
		s.ProfitFactor = math.Inf(1)
	}
	return s
}

// analyzeFactors compares each score factor's average in winning trades
// against its average in losing trades. A positive differential means
// the factor carried signal.
func analyzeFactors(trades []model.Trade) map[string]model.FactorStats {
	if len(trades) == 0 {
		return nil
	}

	extract := map[string]func(model.Trade) float64{
		"overall_score":       func(t model.Trade) float64 { return float64(t.OverallScore) },
		"ema_score":           func(t model.Trade) float64 { return float64(t.EMAScore) },
		"rsi":                 func(t model.Trade) float64 { return t.RSI },
		"institutional_score": func(t model.Trade) float64 { return float64(t.InstitutionalScore) },
		"breakout_score":      func(t model.Trade) float64 { return float64(t.BreakoutScore) },
	}

	result := make(map[string]model.FactorStats, len(extract))
	for name, get := range extract {
		var winSum, lossSum float64
		var winN, lossN int
		for _, t := range trades {
			switch t.Outcome {
			case model.OutcomeWin:
				winSum += get(t)
				winN++
			case model.OutcomeLoss:
				lossSum += get(t)
				lossN++
			}
		}

		var avgWin, avgLoss float64
		if winN > 0 {
			avgWin = winSum / float64(winN)
		}
		if lossN > 0 {
			avgLoss = lossSum / float64(lossN)
		}
		result[name] = model.FactorStats{
			AvgInWins:    round1(avgWin),
			AvgInLosses:  round1(avgLoss),
			Differential: round1(avgWin - avgLoss),
		}
	}
	return result
}

// breakdownByAction reports realized performance per action level next
// to the calibrated expectation.
func breakdownByAction(trades []model.Trade) map[model.Action]model.ActionStats {
	if len(trades) == 0 {
		return nil
	}

	type acc struct {
		total     int
		wins      int
		sumReturn float64
	}
	byAction := make(map[model.Action]*acc)
	for _, t := range trades {
		a, ok := byAction[t.Action]
		if !ok {
			a = &acc{}
			byAction[t.Action] = a
		}
		a.total++
		a.sumReturn += t.ReturnPct
		if t.Outcome == model.OutcomeWin {
			a.wins++
		}
	}

	result := make(map[model.Action]model.ActionStats, len(byAction))
	for action, a := range byAction {
		result[action] = model.ActionStats{
			Total:           a.total,
			Wins:            a.wins,
			WinRate:         float64(a.wins) / float64(a.total) * 100,
			AvgReturn:       a.sumReturn / float64(a.total),
			ExpectedWinRate: strategy.BaseWinRate(action),
		}
	}
	return result
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
