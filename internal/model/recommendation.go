package model

// Action is one of the nine discrete recommendation levels.
type Action string

const (
	ActionStrongBuy      Action = "STRONG BUY"
	ActionAccumulate     Action = "ACCUMULATE"
	ActionBuyDip         Action = "BUY DIP"
	ActionSpeculativeBuy Action = "SPECULATIVE BUY"
	ActionWatch          Action = "WATCH"
	ActionHold           Action = "HOLD"
	ActionReduce         Action = "REDUCE"
	ActionTakeProfits    Action = "TAKE PROFITS"
	ActionSell           Action = "SELL"
)

var actionPriority = map[Action]int{
	ActionStrongBuy:      1,
	ActionAccumulate:     2,
	ActionBuyDip:         3,
	ActionSpeculativeBuy: 4,
	ActionWatch:          5,
	ActionHold:           6,
	ActionReduce:         7,
	ActionTakeProfits:    8,
	ActionSell:           9,
}

// Priority returns the sort priority for the action (lower = more bullish).
func (a Action) Priority() int {
	if p, ok := actionPriority[a]; ok {
		return p
	}
	return 6
}

// IsBuySide reports whether the action opens a long position in a backtest.
func (a Action) IsBuySide() bool {
	switch a {
	case ActionStrongBuy, ActionAccumulate, ActionBuyDip, ActionSpeculativeBuy:
		return true
	}
	return false
}

// Adjustment is one additive win-probability delta with its display label.
type Adjustment struct {
	Label string
	Value float64
}

// WinProbability is the calibrated forward-success estimate for an action.
// Probability is clamped to [0,1]; ExpectedReturn is intentionally left
// unclamped to match the calibration source.
type WinProbability struct {
	Probability     float64
	ExpectedReturn  float64
	Confidence      float64
	HoldPeriodDays  int
	Adjustments     []Adjustment
	TotalAdjustment float64
}

// OptionHint is the coarse strategy hint attached to some recommendation
// branches. The richer selector lives in the options package.
type OptionHint struct {
	Type   string
	Strike string
	Expiry string
}

// Recommendation is the final output of the rule cascade, created fresh
// per analysis call.
type Recommendation struct {
	Action     Action
	Confidence Confidence
	Reasoning  []string
	OptionHint *OptionHint
	Win        WinProbability
}
