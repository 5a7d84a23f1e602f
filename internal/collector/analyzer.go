package collector

import (
	"context"
	"fmt"
	"log"

	"stockscope/internal/calculator"
	"stockscope/internal/fundamental"
	"stockscope/internal/model"
	"stockscope/internal/options"
	"stockscope/internal/scoring"
	"stockscope/internal/strategy"
)

const (
	defaultLookbackDays = 250
	statementLimit      = 4
	minAnalysisBars     = 30
	avgVolumeWindow     = 20
)

// Analysis is the assembled single-ticker research view. Sections a
// provider could not supply are left at their zero value; Indicators
// is nil when the price history is too short to compute them.
type Analysis struct {
	Ticker string
	Price  float64

	Series     *model.PriceSeries
	Indicators *model.IndicatorSet
	Flow       model.ScoreResult
	Breakout   model.ScoreResult
	Overall    model.OverallScore
	AvgVolume  float64

	Recommendation model.Recommendation
	OptionsRating  options.Rating
	IV             options.IVEstimate
	OptionsPlay    options.StrategyPick

	Details    *model.CompanyDetails
	Financials *model.Metrics
	Moat       model.MoatScore
	FairValue  *model.FairValue
	Growth     int
	Derived    model.DerivedMetrics
}

// Analyzer assembles the full analysis for one ticker from pluggable
// data providers. Metrics is optional; when nil the fundamentals are
// derived from statements alone.
type Analyzer struct {
	Bars         BarFetcher
	Fundamentals FundamentalsFetcher
	Metrics      MetricsFetcher
	LookbackDays int
}

// NewAnalyzer wires an analyzer over the given providers.
func NewAnalyzer(bars BarFetcher, fundamentals FundamentalsFetcher, metrics MetricsFetcher) *Analyzer {
	return &Analyzer{
		Bars:         bars,
		Fundamentals: fundamentals,
		Metrics:      metrics,
		LookbackDays: defaultLookbackDays,
	}
}

// Analyze runs the full pipeline for one ticker. Each section is
// fetched and computed independently so one provider failure degrades
// the result instead of aborting it; failures are logged and the
// section stays empty. An error is returned only when the price
// history itself cannot be fetched.
func (a *Analyzer) Analyze(ctx context.Context, ticker string) (*Analysis, error) {
	result := &Analysis{Ticker: ticker}

	lookback := a.LookbackDays
	if lookback <= 0 {
		lookback = defaultLookbackDays
	}

	series, err := a.Bars.GetBars(ctx, ticker, lookback)
	if err != nil {
		return nil, fmt.Errorf("fetch bars for %s: %w", ticker, err)
	}
	result.Series = series

	if series.Len() >= minAnalysisBars {
		result.Indicators = calculator.Compute(series)
	}
	if result.Indicators != nil {
		result.Price = result.Indicators.Price
		result.Flow = scoring.InstitutionalFlow(series)
		result.Breakout = scoring.Breakout(series, result.Indicators)
		result.Overall = scoring.Overall(result.Indicators, result.Flow, result.Breakout)
		result.AvgVolume = recentAvgVolume(series.Bars, avgVolumeWindow)

		bundle := model.NewScoreBundle(result.Indicators, result.Flow, result.Breakout, result.Overall, result.AvgVolume)
		result.Recommendation = strategy.Recommend(bundle)
		result.OptionsRating = options.Rate(bundle)
		result.IV = options.EstimateIV(bundle.AvgDailyMove, bundle.Price)
		result.OptionsPlay = options.SuggestStrategy(bundle)
	} else {
		log.Printf("[WARN] %s: only %d bars, skipping technical analysis", ticker, series.Len())
	}

	if a.Fundamentals != nil {
		a.analyzeFundamentals(ctx, ticker, result)
	}

	return result, nil
}

func (a *Analyzer) analyzeFundamentals(ctx context.Context, ticker string, result *Analysis) {
	details, err := a.Fundamentals.GetCompanyDetails(ctx, ticker)
	if err != nil {
		log.Printf("[WARN] %s: company details unavailable: %v", ticker, err)
	} else {
		result.Details = details
	}

	statements, err := a.Fundamentals.GetFinancials(ctx, ticker, statementLimit)
	if err != nil {
		log.Printf("[WARN] %s: financials unavailable: %v", ticker, err)
	}

	var secondary *model.SecondaryMetrics
	if a.Metrics != nil {
		secondary, err = a.Metrics.GetMetrics(ctx, ticker)
		if err != nil {
			log.Printf("[WARN] %s: secondary metrics unavailable: %v", ticker, err)
			secondary = nil
		}
	}

	result.Financials = fundamental.ProcessFinancials(statements, secondary)
	result.Moat = fundamental.MoatScore(result.Financials, result.Details)
	result.Growth = fundamental.GrowthScore(result.Financials)

	if result.Price > 0 {
		result.FairValue = fundamental.FairValue(result.Financials, result.Price, result.Details)
		marketCap := 0.0
		if result.Details != nil {
			marketCap = result.Details.MarketCap
		}
		result.Derived = fundamental.DerivedMetrics(result.Financials, result.Price, marketCap)
	}
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
