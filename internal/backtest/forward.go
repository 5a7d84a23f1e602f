package backtest

import (
	"math"

	"stockscope/internal/model"
)

// forwardResult is the resolution of one simulated trade.
type forwardResult struct {
	Outcome      model.Outcome
	ExitPrice    float64
	ReturnPct    float64
	DaysHeld     int
	MaxFavorable float64
	MaxAdverse   float64
}

// simulateForward walks bars after the signal until the stop or target
// is touched or the holding period runs out. The stop is checked before
// the target: when a single bar spans both levels the trade counts as a
// loss, which keeps the results conservative. MFE/MAE track the best
// and worst intrabar excursion along the way.
func simulateForward(bars []model.OHLCV, signalIdx int, entry, targetPct, stopPct float64, maxDays int) forwardResult {
	target := entry * (1 + targetPct/100)
	stop := entry * (1 - stopPct/100)

	res := forwardResult{
		Outcome:   model.OutcomeTimeout,
		ExitPrice: entry,
	}

	end := signalIdx + maxDays + 1
	if end > len(bars) {
		end = len(bars)
	}

	for j := signalIdx + 1; j < end; j++ {
		b := bars[j]
		res.DaysHeld = j - signalIdx

		res.MaxFavorable = math.Max(res.MaxFavorable, (b.High-entry)/entry*100)
		res.MaxAdverse = math.Max(res.MaxAdverse, (entry-b.Low)/entry*100)

		if b.Low <= stop {
			res.Outcome = model.OutcomeLoss
			res.ExitPrice = stop
			break
		}
		if b.High >= target {
			res.Outcome = model.OutcomeWin
			res.ExitPrice = target
			break
		}
		res.ExitPrice = b.Close
	}

	res.ReturnPct = round2((res.ExitPrice - entry) / entry * 100)
	res.ExitPrice = round2(res.ExitPrice)
	res.MaxFavorable = round2(res.MaxFavorable)
	res.MaxAdverse = round2(res.MaxAdverse)
	return res
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
