package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds raw price history for one ticker, oldest bar first.
// Immutable once fetched; analysis passes share the backing slice.
type PriceSeries struct {
	Ticker    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Closes extracts the close column.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Last returns the most recent bar. Callers must check Len first.
func (s *PriceSeries) Last() OHLCV {
	return s.Bars[len(s.Bars)-1]
}

// Truncate returns a view of the series containing bars [0, n).
// The backing array is shared so the backtest walk can truncate without
// copying; callers must not mutate the bars.
func (s *PriceSeries) Truncate(n int) *PriceSeries {
	if n > len(s.Bars) {
		n = len(s.Bars)
	}
	return &PriceSeries{Ticker: s.Ticker, Bars: s.Bars[:n], FetchedAt: s.FetchedAt}
}
