// Package scanner sweeps a ticker universe through the scoring
// pipeline and returns the candidates that clear the filter bar.
package scanner

import (
	"context"
	"log"
	"sort"
	"sync"

	"stockscope/internal/calculator"
	"stockscope/internal/collector"
	"stockscope/internal/fundamental"
	"stockscope/internal/model"
	"stockscope/internal/scoring"
)

// historyPad extends the fetch window past the lookback so warm-up
// periods do not eat into the bars the indicators score on.
const historyPad = 50

const progressEvery = 10

// Config holds the scan filters.
type Config struct {
	Universe     []string
	LookbackDays int
	MinPrice     float64
	MinVolume    float64
	MinScore     int
	MinEMAScore  int
	Workers      int
}

// DefaultConfig returns the standard scan filters.
func DefaultConfig() Config {
	return Config{
		LookbackDays: 200,
		MinPrice:     5.0,
		MinVolume:    500000,
		MinScore:     55,
		MinEMAScore:  70,
		Workers:      4,
	}
}

// ProgressFunc receives scan progress. current counts processed
// tickers out of total.
type ProgressFunc func(current, total int, message string)

// Scanner runs market scans over a bar source. The fundamentals
// fetcher is optional and only enriches passing rows with company
// metadata and a lightweight moat estimate.
type Scanner struct {
	bars         collector.BarFetcher
	fundamentals collector.FundamentalsFetcher
	cfg          Config
}

// New wires a scanner. Zero config fields fall back to defaults.
func New(bars collector.BarFetcher, fundamentals collector.FundamentalsFetcher, cfg Config) *Scanner {
	def := DefaultConfig()
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = def.LookbackDays
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	return &Scanner{bars: bars, fundamentals: fundamentals, cfg: cfg}
}

// Scan analyzes every ticker in the universe and returns the rows that
// pass all filters, sorted by overall score descending. Per-ticker
// fetch failures are logged and skipped rather than aborting the scan.
func (s *Scanner) Scan(ctx context.Context, progress ProgressFunc) ([]model.ScanResult, error) {
	total := len(s.cfg.Universe)
	if progress != nil {
		progress(0, total, "scan started")
	}

	type scanOut struct {
		row *model.ScanResult
	}

	jobs := make(chan string)
	out := make(chan scanOut)

	var wg sync.WaitGroup
	for w := 0; w < s.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range jobs {
				row, err := s.scanTicker(ctx, ticker)
				if err != nil {
					log.Printf("[WARN] scan %s: %v", ticker, err)
				}
				select {
				case out <- scanOut{row: row}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, ticker := range s.cfg.Universe {
			select {
			case jobs <- ticker:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	var results []model.ScanResult
	done := 0
	for o := range out {
		done++
		if o.row != nil {
			results = append(results, *o.row)
		}
		if progress != nil && (done%progressEvery == 0 || done == total) {
			progress(done, total, "scanning")
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Ticker < results[j].Ticker
	})
	return results, nil
}

// scanTicker scores one ticker against the filters. A nil row means
// the ticker did not qualify.
func (s *Scanner) scanTicker(ctx context.Context, ticker string) (*model.ScanResult, error) {
	series, err := s.bars.GetBars(ctx, ticker, s.cfg.LookbackDays+historyPad)
	if err != nil {
		return nil, err
	}

	ind := calculator.Compute(series)
	if ind == nil {
		return nil, nil
	}
	if ind.Price < s.cfg.MinPrice {
		return nil, nil
	}
	avgVolume := recentAvgVolume(series.Bars, 20)
	if avgVolume < s.cfg.MinVolume {
		return nil, nil
	}

	flow := scoring.InstitutionalFlow(series)
	breakout := scoring.Breakout(series, ind)
	overall := scoring.Overall(ind, flow, breakout)

	if overall.Score < s.cfg.MinScore || ind.EMAScore < s.cfg.MinEMAScore {
		return nil, nil
	}

	row := &model.ScanResult{
		Ticker:             ticker,
		Name:               ticker,
		Price:              ind.Price,
		AvgVolume:          avgVolume,
		Score:              overall.Score,
		EMAScore:           ind.EMAScore,
		BreakoutScore:      breakout.Score,
		InstitutionalScore: flow.Score,
		RSI:                ind.RSI,
		ADX:                ind.ADX,
		Momentum5d:         ind.Momentum5d,
		Momentum20d:        ind.Momentum20d,
		VolumeRatio:        ind.VolumeRatio,
		Squeeze:            ind.Squeeze,
		Pattern:            breakout.Label,
		FlowSignal:         flow.Label,
		Reasons:            overall.Reasons,
	}
	s.enrich(ctx, row)
	return row, nil
}

// enrich attaches company metadata and the lightweight moat to a
// passing row. Failures leave the row with ticker-only identity.
func (s *Scanner) enrich(ctx context.Context, row *model.ScanResult) {
	if s.fundamentals == nil {
		return
	}
	details, err := s.fundamentals.GetCompanyDetails(ctx, row.Ticker)
	if err != nil {
		log.Printf("[WARN] scan %s: details unavailable: %v", row.Ticker, err)
		return
	}
	row.Name = details.Name
	row.MarketCap = details.MarketCap
	row.Sector = details.SICDescription

	moat := fundamental.LightweightMoat(details)
	row.MoatScore = moat.Score
	row.MoatRating = moat.Rating
}

func recentAvgVolume(bars []model.OHLCV, window int) float64 {
	if len(bars) == 0 {
		return 0
	}
	if len(bars) > window {
		bars = bars[len(bars)-window:]
	}
	var sum float64
	for _, b := range bars {
		sum += b.Volume
	}
	return sum / float64(len(bars))
}
