package model

// MACDSeries holds the full MACD line, signal line, and histogram.
type MACDSeries struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// BollingerBands holds the full band series plus the squeeze flag.
type BollingerBands struct {
	Upper     []float64
	Mid       []float64
	Lower     []float64
	Bandwidth []float64
	Squeeze   bool
}

// IndicatorSet holds the latest value of every computed technical
// indicator plus the raw series for charting. Derived deterministically
// from a PriceSeries; recomputed on every call.
type IndicatorSet struct {
	Price         float64
	EMAs          map[int]float64
	EMAScore      int
	RSI           float64
	MACDLine      float64
	MACDSignal    float64
	MACDHistogram float64
	Bandwidth     float64
	Squeeze       bool
	ATR           float64
	ATRPct        float64
	ADX           float64
	PlusDI        float64
	MinusDI       float64
	VolumeRatio   float64
	Supports      []float64
	Resistances   []float64
	Momentum5d    float64
	Momentum20d   float64

	// Full series, kept for charting callers. Not part of the
	// analytical contract.
	EMASeries map[int][]float64
	RSISeries []float64
	MACD      MACDSeries
	Bollinger BollingerBands
	ATRSeries []float64
}
