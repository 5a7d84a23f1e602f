package collector

import (
	"context"

	"stockscope/internal/model"
)

// BarFetcher fetches daily OHLCV history for a ticker, oldest bar first.
type BarFetcher interface {
	GetBars(ctx context.Context, ticker string, days int) (*model.PriceSeries, error)
	Name() string
}

// FundamentalsFetcher fetches reported statements and company metadata.
type FundamentalsFetcher interface {
	GetFinancials(ctx context.Context, ticker string, limit int) ([]model.FinancialStatement, error)
	GetCompanyDetails(ctx context.Context, ticker string) (*model.CompanyDetails, error)
	Name() string
}

// MetricsFetcher supplies gap-filling ratios from a secondary provider.
type MetricsFetcher interface {
	GetMetrics(ctx context.Context, ticker string) (*model.SecondaryMetrics, error)
	Name() string
}
