package model

// Confidence expresses how reliable a score or recommendation is.
type Confidence string

const (
	ConfidenceLow      Confidence = "Low"
	ConfidenceMedium   Confidence = "Medium"
	ConfidenceHigh     Confidence = "High"
	ConfidenceVeryHigh Confidence = "Very High"
)

// ScoreResult is the output of a single sub-score engine. Score is
// always clamped to [0,100]. Label carries the flow signal or breakout
// pattern name; Signals lists the contributing observations in the
// order their rules fired.
type ScoreResult struct {
	Score       int
	Label       string
	Signals     []string
	Confidence  Confidence
	VolumeRatio float64 // up-volume vs down-volume ratio (flow score only)
}

// OverallScore is the composite score built from additive point caps.
type OverallScore struct {
	Score              int
	Reasons            []string
	EMAScore           int
	InstitutionalScore int
	BreakoutScore      int
}

// ScoreBundle is the canonical, strongly-typed input for the
// recommendation and options engines. It is constructed once at the
// boundary after scoring so downstream rule cascades never chase
// alternative data shapes.
type ScoreBundle struct {
	Score              int
	EMAScore           int
	RSI                float64
	InstitutionalScore int
	BreakoutScore      int
	Momentum5d         float64
	Momentum20d        float64
	VolumeRatio        float64
	Squeeze            bool
	Price              float64
	Volume             float64 // average daily volume
	AvgDailyMove       float64 // ATR, used for IV estimation
}

// NewScoreBundle assembles the bundle from the three scoring outputs.
func NewScoreBundle(ind *IndicatorSet, flow, breakout ScoreResult, overall OverallScore, avgVolume float64) ScoreBundle {
	b := ScoreBundle{
		Score:              overall.Score,
		InstitutionalScore: flow.Score,
		BreakoutScore:      breakout.Score,
		Volume:             avgVolume,
	}
	if ind != nil {
		b.EMAScore = ind.EMAScore
		b.RSI = ind.RSI
		b.Momentum5d = ind.Momentum5d
		b.Momentum20d = ind.Momentum20d
		b.VolumeRatio = ind.VolumeRatio
		b.Squeeze = ind.Squeeze
		b.Price = ind.Price
		b.AvgDailyMove = ind.ATR
	}
	return b
}
