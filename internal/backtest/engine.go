// Package backtest replays the scoring pipeline over historical bars
// and measures how its buy signals would have resolved.
package backtest

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"stockscope/internal/calculator"
	"stockscope/internal/model"
	"stockscope/internal/scoring"
	"stockscope/internal/strategy"
)

// Config controls one backtest run.
type Config struct {
	Universe        []string
	HoldingDays     int
	TargetPct       float64
	StopPct         float64
	MinOverallScore int
	MinBars         int
	Stride          int
	LookbackDays    int
	Workers         int
}

// DefaultConfig mirrors the calibration the win-rate tables were
// measured under.
func DefaultConfig() Config {
	return Config{
		Universe:        DefaultUniverse,
		HoldingDays:     60,
		TargetPct:       10,
		StopPct:         15,
		MinOverallScore: 15,
		MinBars:         50,
		Stride:          5,
		LookbackDays:    500,
		Workers:         4,
	}
}

// BarSource supplies historical bars for a ticker.
type BarSource interface {
	GetBars(ctx context.Context, ticker string, days int) (*model.PriceSeries, error)
}

// ProgressFunc receives walk progress. current counts processed
// tickers out of total.
type ProgressFunc func(current, total int, message string)

// Engine runs walk-forward backtests over a bar source.
type Engine struct {
	source BarSource
	cfg    Config
}

// NewEngine validates and normalizes the config.
func NewEngine(source BarSource, cfg Config) *Engine {
	if len(cfg.Universe) == 0 {
		cfg.Universe = DefaultUniverse
	}
	if cfg.Stride <= 0 {
		cfg.Stride = 5
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Engine{source: source, cfg: cfg}
}

// Run walks every ticker in the universe. Tickers are processed by a
// small worker pool; each walk only ever sees bars up to the signal
// index, so signals never look ahead. Per-ticker fetch errors are
// logged and skipped rather than aborting the run.
func (e *Engine) Run(ctx context.Context, progress ProgressFunc) (*model.BacktestResult, error) {
	result := &model.BacktestResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}

	type tickerTrades struct {
		idx    int
		trades []model.Trade
	}

	jobs := make(chan int)
	out := make(chan tickerTrades)

	var wg sync.WaitGroup
	for w := 0; w < e.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				ticker := e.cfg.Universe[idx]
				trades, err := e.walkTicker(ctx, ticker)
				if err != nil {
					log.Printf("[WARN] backtest: skipping %s: %v", ticker, err)
				}
				select {
				case out <- tickerTrades{idx: idx, trades: trades}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range e.cfg.Universe {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	total := len(e.cfg.Universe)
	done := 0
	for tt := range out {
		result.Trades = append(result.Trades, tt.trades...)
		done++
		if progress != nil && done%5 == 0 {
			progress(done, total, fmt.Sprintf("Backtesting... (%d trades found)", len(result.Trades)))
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("backtest run %s: %w", result.RunID, err)
	}
	if progress != nil {
		progress(total, total, fmt.Sprintf("Backtest complete! %d trades evaluated.", len(result.Trades)))
	}

	result.FinishedAt = time.Now()
	result.Summary = summarize(result.Trades)
	result.FactorAnalysis = analyzeFactors(result.Trades)
	result.ActionBreakdown = breakdownByAction(result.Trades)
	return result, nil
}

// walkTicker steps through one ticker's history at the configured
// stride, recomputing every score on the truncated window and
// simulating forward from each buy-side signal.
func (e *Engine) walkTicker(ctx context.Context, ticker string) ([]model.Trade, error) {
	series, err := e.source.GetBars(ctx, ticker, e.cfg.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("get bars: %w", err)
	}
	if series.Len() < e.cfg.MinBars+e.cfg.HoldingDays {
		return nil, nil
	}

	var trades []model.Trade
	for i := e.cfg.MinBars; i < series.Len()-e.cfg.HoldingDays; i += e.cfg.Stride {
		if err := ctx.Err(); err != nil {
			return trades, err
		}

		window := series.Truncate(i + 1)
		ind := calculator.Compute(window)
		if ind == nil {
			continue
		}

		// Quick filter: the EMA score is cheap relative to the flow
		// and breakout passes.
		if ind.EMAScore < e.cfg.MinOverallScore {
			continue
		}

		flow := scoring.InstitutionalFlow(window)
		breakout := scoring.Breakout(window, ind)
		overall := scoring.Overall(ind, flow, breakout)
		if overall.Score < e.cfg.MinOverallScore {
			continue
		}

		bundle := model.NewScoreBundle(ind, flow, breakout, overall, 0)
		rec := strategy.Recommend(bundle)
		if !rec.Action.IsBuySide() {
			continue
		}

		entry := window.Last().Close
		fwd := simulateForward(series.Bars, i, entry, e.cfg.TargetPct, e.cfg.StopPct, e.cfg.HoldingDays)

		trades = append(trades, model.Trade{
			Ticker:             ticker,
			EntryDate:          window.Last().Date,
			EntryPrice:         entry,
			Action:             rec.Action,
			Confidence:         rec.Confidence,
			OverallScore:       overall.Score,
			EMAScore:           ind.EMAScore,
			RSI:                ind.RSI,
			InstitutionalScore: flow.Score,
			BreakoutScore:      breakout.Score,
			Squeeze:            ind.Squeeze,
			Outcome:            fwd.Outcome,
			ExitPrice:          fwd.ExitPrice,
			ReturnPct:          fwd.ReturnPct,
			DaysHeld:           fwd.DaysHeld,
			MaxFavorable:       fwd.MaxFavorable,
			MaxAdverse:         fwd.MaxAdverse,
		})
	}
	return trades, nil
}
