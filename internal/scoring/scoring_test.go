package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockscope/internal/model"
)

type barSpec struct {
	close  float64
	volume float64
	// fraction of the bar range the close sits at; 1.0 closes at the
	// high, 0.0 at the low.
	strength float64
}

func buildSeries(specs []barSpec) *model.PriceSeries {
	bars := make([]model.OHLCV, len(specs))
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	for i, s := range specs {
		span := s.close * 0.02
		low := s.close - s.strength*span
		bars[i] = model.OHLCV{
			Date:   day.AddDate(0, 0, i),
			Open:   low,
			High:   low + span,
			Low:    low,
			Close:  s.close,
			Volume: s.volume,
		}
	}
	return &model.PriceSeries{Ticker: "TEST", Bars: bars, FetchedAt: time.Now()}
}

func TestInstitutionalFlowShortHistory(t *testing.T) {
	specs := make([]barSpec, 10)
	for i := range specs {
		specs[i] = barSpec{close: 100, volume: 1e6, strength: 0.5}
	}
	res := InstitutionalFlow(buildSeries(specs))
	assert.Equal(t, 50, res.Score)
	assert.Equal(t, "Neutral", res.Label)
	assert.Equal(t, model.ConfidenceLow, res.Confidence)
	assert.Empty(t, res.Signals)
}

func TestInstitutionalFlowAccumulation(t *testing.T) {
	// Every bar closes up near its high on steadily rising volume.
	specs := make([]barSpec, 40)
	price := 100.0
	for i := range specs {
		specs[i] = barSpec{close: price, volume: 1e6 + float64(i)*1e4, strength: 0.9}
		price *= 1.01
	}
	res := InstitutionalFlow(buildSeries(specs))

	assert.Equal(t, 95, res.Score)
	assert.Equal(t, "Strong Accumulation", res.Label)
	assert.Equal(t, model.ConfidenceHigh, res.Confidence)
	assert.Contains(t, res.Signals, "OBV trending up (accumulation)")
	assert.Contains(t, res.Signals, "A/D Line rising (smart money buying)")
	assert.Contains(t, res.Signals, "10 consecutive up days on volume")
	assert.Greater(t, res.VolumeRatio, 1.5)
}

func TestInstitutionalFlowDistribution(t *testing.T) {
	// Every bar closes down near its low.
	specs := make([]barSpec, 40)
	price := 100.0
	for i := range specs {
		specs[i] = barSpec{close: price, volume: 1e6, strength: 0.1}
		price *= 0.99
	}
	res := InstitutionalFlow(buildSeries(specs))

	assert.Equal(t, 15, res.Score)
	assert.Equal(t, "Strong Distribution", res.Label)
	assert.Equal(t, model.ConfidenceHigh, res.Confidence)
	assert.Contains(t, res.Signals, "OBV trending down (distribution)")
	assert.Contains(t, res.Signals, "A/D Line falling (smart money selling)")
}

func TestBreakoutInsufficientData(t *testing.T) {
	specs := make([]barSpec, 20)
	for i := range specs {
		specs[i] = barSpec{close: 100, volume: 1e6, strength: 0.5}
	}
	res := Breakout(buildSeries(specs), &model.IndicatorSet{})
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, "Insufficient Data", res.Label)
	assert.Equal(t, model.ConfidenceLow, res.Confidence)
}

func TestBreakoutConsolidationWithSpike(t *testing.T) {
	// Flat, tight price action. Volume dries up for five bars, then
	// spikes on the final bar.
	specs := make([]barSpec, 40)
	for i := range specs {
		specs[i] = barSpec{close: 100, volume: 1e6, strength: 0.5}
	}
	for i := 34; i < 39; i++ {
		specs[i].volume = 0.7e6
	}
	specs[39].volume = 2e6

	ind := &model.IndicatorSet{ATRPct: 1.0, Squeeze: true, RSI: 55}
	res := Breakout(buildSeries(specs), ind)

	// Tight range 15, volume spike 15, volatility compression 12,
	// squeeze 15, RSI zone 8 = 65 raw, damped to 46.
	assert.Equal(t, 46, res.Score)
	assert.Equal(t, "Early Accumulation", res.Label)
	assert.Contains(t, res.Signals, "Volume spike after quiet period")
	assert.Contains(t, res.Signals, "Volatility compression")
	assert.Contains(t, res.Signals, "Bollinger Band squeeze detected")
}

func TestOverallBullishComposite(t *testing.T) {
	ind := &model.IndicatorSet{
		Price:       110,
		EMAScore:    80,
		EMAs:        map[int]float64{8: 108, 21: 105, 50: 100, 200: 90},
		RSI:         60,
		Momentum5d:  12,
		Momentum20d: 20,
		VolumeRatio: 2.5,
	}
	flow := model.ScoreResult{Score: 75}
	breakout := model.ScoreResult{Score: 55}

	res := Overall(ind, flow, breakout)

	// 28 + 8 + 18 + 8 + 4 + 8 + 12 + 8 = 94.
	assert.Equal(t, 94, res.Score)
	assert.Equal(t, 80, res.EMAScore)
	assert.Equal(t, 75, res.InstitutionalScore)
	assert.Equal(t, 55, res.BreakoutScore)
	require.NotEmpty(t, res.Reasons)
	assert.Contains(t, res.Reasons, "Strong EMA alignment (80)")
	assert.Contains(t, res.Reasons, "Price above multiple EMAs")
	assert.Contains(t, res.Reasons, "Strong institutional accumulation (75)")
	assert.Contains(t, res.Reasons, "Pre-breakout setup (55)")
	assert.Contains(t, res.Reasons, "Strong 20d momentum (+20.0%)")
	assert.Contains(t, res.Reasons, "High volume (2.5x avg)")
}

func TestOverallBearishClampsToZero(t *testing.T) {
	ind := &model.IndicatorSet{
		Price:       50,
		EMAScore:    20,
		EMAs:        map[int]float64{8: 55, 21: 58, 50: 60, 200: 65},
		RSI:         25,
		Momentum5d:  -5,
		Momentum20d: -20,
		VolumeRatio: 1.0,
	}
	flow := model.ScoreResult{Score: 25}
	breakout := model.ScoreResult{Score: 0}

	res := Overall(ind, flow, breakout)

	// 7 - 10 = -3, clamped to 0.
	assert.Equal(t, 0, res.Score)
	assert.Contains(t, res.Reasons, "Distribution detected")
	assert.Contains(t, res.Reasons, "RSI oversold (25)")
}

func TestOverallNilIndicators(t *testing.T) {
	res := Overall(nil, model.ScoreResult{Score: 50}, model.ScoreResult{Score: 0})
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 0, res.EMAScore)
}
