package model

import "time"

// Outcome is the resolution of a simulated forward trade.
type Outcome string

const (
	OutcomeWin     Outcome = "WIN"
	OutcomeLoss    Outcome = "LOSS"
	OutcomeTimeout Outcome = "TIMEOUT"
)

// Trade is one signal detected during a backtest walk, finalized once
// the forward simulation resolves. Never mutated afterward.
type Trade struct {
	Ticker             string
	EntryDate          time.Time
	EntryPrice         float64
	Action             Action
	Confidence         Confidence
	OverallScore       int
	EMAScore           int
	RSI                float64
	InstitutionalScore int
	BreakoutScore      int
	Squeeze            bool
	Outcome            Outcome
	ExitPrice          float64
	ReturnPct          float64
	DaysHeld           int
	MaxFavorable       float64
	MaxAdverse         float64
}

// Summary aggregates trade statistics for one backtest run.
// ProfitFactor is +Inf when there are no losing trades.
type Summary struct {
	TotalTrades  int
	Wins         int
	Losses       int
	Timeouts     int
	WinRate      float64
	AvgReturn    float64
	ProfitFactor float64
	AvgDaysHeld  float64
	BestTrade    float64
	WorstTrade   float64
}

// FactorStats compares a score factor's average in winning vs losing trades.
type FactorStats struct {
	AvgInWins   float64
	AvgInLosses float64
	Differential float64
}

// ActionStats breaks down realized performance per recommendation level.
type ActionStats struct {
	Total           int
	Wins            int
	WinRate         float64
	AvgReturn       float64
	ExpectedWinRate float64
}

// BacktestResult is the full output of one backtest run.
type BacktestResult struct {
	RunID           string
	StartedAt       time.Time
	FinishedAt      time.Time
	Trades          []Trade
	Summary         Summary
	FactorAnalysis  map[string]FactorStats
	ActionBreakdown map[Action]ActionStats
}

// ScanResult is one row of a market scan, carrying everything the
// caller needs to rank and display candidates.
type ScanResult struct {
	Ticker             string
	Name               string
	Price              float64
	AvgVolume          float64
	Score              int
	EMAScore           int
	BreakoutScore      int
	InstitutionalScore int
	RSI                float64
	ADX                float64
	Momentum5d         float64
	Momentum20d        float64
	VolumeRatio        float64
	Squeeze            bool
	Pattern            string
	FlowSignal         string
	Reasons            []string
	MarketCap          float64
	Sector             string
	MoatScore          int
	MoatRating         string
}
