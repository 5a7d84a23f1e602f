package collector

import (
	"context"
	"math"
	"time"

	"stockscope/internal/model"
)

// MockFetcher returns controllable fixed data for development and
// testing. It satisfies BarFetcher, FundamentalsFetcher, and
// MetricsFetcher; unset fields fall back to generated data or nil.
type MockFetcher struct {
	Price      float64
	Bars       []model.OHLCV
	Statements []model.FinancialStatement
	Details    *model.CompanyDetails
	Metrics    *model.SecondaryMetrics
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) GetBars(_ context.Context, ticker string, days int) (*model.PriceSeries, error) {
	bars := m.Bars
	if bars == nil {
		bars = generateMockBars(m.Price, days)
	}
	return &model.PriceSeries{Ticker: ticker, Bars: bars, FetchedAt: time.Now()}, nil
}

func (m *MockFetcher) GetFinancials(_ context.Context, _ string, limit int) ([]model.FinancialStatement, error) {
	if limit > 0 && len(m.Statements) > limit {
		return m.Statements[:limit], nil
	}
	return m.Statements, nil
}

func (m *MockFetcher) GetCompanyDetails(_ context.Context, ticker string) (*model.CompanyDetails, error) {
	if m.Details != nil {
		return m.Details, nil
	}
	return &model.CompanyDetails{Ticker: ticker, Name: ticker}, nil
}

func (m *MockFetcher) GetMetrics(_ context.Context, _ string) (*model.SecondaryMetrics, error) {
	return m.Metrics, nil
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	if basePrice <= 0 {
		basePrice = 100
	}
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		wave := 1 + 0.003*math.Sin(float64(i)/4)
		bars[i] = model.OHLCV{
			Date:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999 * wave,
			High:   p * 1.005 * wave,
			Low:    p * 0.995 * wave,
			Close:  p * wave,
			Volume: 1000000,
		}
	}
	return bars
}
