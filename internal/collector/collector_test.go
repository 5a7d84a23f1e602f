package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockscope/internal/cache"
	"stockscope/internal/model"
)

func newTestPolygon(t *testing.T, handler http.HandlerFunc) *PolygonFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	f := NewPolygonFetcher("test-key", cache.NewMemory(), time.Millisecond)
	f.BaseURL = srv.URL
	return f
}

func TestPolygonGetBars(t *testing.T) {
	calls := 0
	f := newTestPolygon(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Contains(t, r.URL.Path, "/v2/aggs/ticker/AAPL/range/1/day/")
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		w.Write([]byte(`{
			"ticker": "AAPL",
			"resultsCount": 2,
			"results": [
				{"t": 1704153600000, "o": 186.1, "h": 188.4, "l": 185.2, "c": 187.7, "v": 52000000},
				{"t": 1704240000000, "o": 187.9, "h": 189.0, "l": 186.5, "c": 188.2, "v": 48000000}
			]
		}`))
	})

	series, err := f.GetBars(context.Background(), "AAPL", 30)
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())
	assert.Equal(t, "AAPL", series.Ticker)
	assert.Equal(t, 187.7, series.Bars[0].Close)
	assert.Equal(t, 52000000.0, series.Bars[0].Volume)
	assert.Equal(t, 188.2, series.Last().Close)
	assert.True(t, series.Bars[0].Date.Before(series.Bars[1].Date))

	// Second call within the TTL is served from the cache.
	_, err = f.GetBars(context.Background(), "AAPL", 30)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPolygonGetBarsEmpty(t *testing.T) {
	f := newTestPolygon(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ticker": "XXXX", "resultsCount": 0, "results": []}`))
	})

	_, err := f.GetBars(context.Background(), "XXXX", 30)
	assert.Error(t, err)
}

func TestPolygonGetBarsHTTPError(t *testing.T) {
	f := newTestPolygon(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	_, err := f.GetBars(context.Background(), "AAPL", 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestPolygonGetFinancials(t *testing.T) {
	f := newTestPolygon(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/vX/reference/financials")
		assert.Equal(t, "MSFT", r.URL.Query().Get("ticker"))
		w.Write([]byte(`{
			"results": [{
				"fiscal_period": "Q2",
				"fiscal_year": "2024",
				"financials": {
					"income_statement": {
						"revenues": {"value": 62000000000},
						"cost_of_revenue": {"value": 19000000000},
						"operating_income_loss": {"value": 27000000000},
						"net_income_loss": {"value": 21900000000},
						"interest_expense": {"value": 700000000},
						"basic_earnings_per_share": {"value": 2.94}
					},
					"balance_sheet": {
						"assets": {"value": 470000000000},
						"equity": {"value": 238000000000},
						"current_assets": {"value": 147000000000},
						"current_liabilities": {"value": 118000000000},
						"long_term_debt": {"value": 44000000000},
						"cash": {"value": 81000000000}
					},
					"cash_flow_statement": {
						"net_cash_flow_from_operating_activities": {"value": 18900000000},
						"net_cash_flow_from_investing_activities": {"value": -11000000000}
					}
				}
			}]
		}`))
	})

	statements, err := f.GetFinancials(context.Background(), "MSFT", 4)
	require.NoError(t, err)
	require.Len(t, statements, 1)

	s := statements[0]
	assert.Equal(t, "Q2", s.FiscalPeriod)
	assert.Equal(t, "2024", s.FiscalYear)
	assert.Equal(t, 62000000000.0, s.Revenues)
	assert.Equal(t, 2.94, s.EPSBasic)
	// interest_expense fallback path when the operating variant is absent
	assert.Equal(t, 700000000.0, s.InterestExpense)
	// cash fallback path when cash_and_cash_equivalents is absent
	assert.Equal(t, 81000000000.0, s.CashAndEquivalents)
	assert.Equal(t, -11000000000.0, s.InvestingCashFlow)
	// omitted line items stay zero
	assert.Equal(t, 0.0, s.Depreciation)
	assert.Equal(t, 0.0, s.DebtCurrent)
}

func TestPolygonGetCompanyDetails(t *testing.T) {
	f := newTestPolygon(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"results": {
				"ticker": "AAPL",
				"name": "Apple Inc.",
				"market_cap": 2900000000000,
				"sic_code": "3571",
				"sic_description": "Electronic Computers"
			}
		}`))
	})

	details, err := f.GetCompanyDetails(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", details.Name)
	assert.Equal(t, 2900000000000.0, details.MarketCap)
	assert.Equal(t, "3571", details.SICCode)
}

func TestFinnhubGetMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "NVDA", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("token"))
		w.Write([]byte(`{
			"metric": {
				"peNormalizedAnnual": 65.2,
				"roeTTM": 91.5,
				"currentRatioQuarterly": 4.17,
				"sharesOutstanding": 24600
			}
		}`))
	}))
	defer srv.Close()

	f := NewFinnhubFetcher("test-key", cache.NewMemory(), time.Millisecond)
	f.BaseURL = srv.URL

	m, err := f.GetMetrics(context.Background(), "NVDA")
	require.NoError(t, err)
	require.NotNil(t, m.PE)
	assert.Equal(t, 65.2, *m.PE)
	require.NotNil(t, m.ROE)
	assert.Equal(t, 91.5, *m.ROE)
	require.NotNil(t, m.SharesOutstanding)
	assert.Equal(t, 24600.0, *m.SharesOutstanding)
	// fields the provider did not report stay nil
	assert.Nil(t, m.EPS)
	assert.Nil(t, m.DividendYield)
}

func TestAnalyzerFullPipeline(t *testing.T) {
	mock := &MockFetcher{
		Price: 100,
		Statements: []model.FinancialStatement{
			{
				FiscalPeriod: "Q2", FiscalYear: "2024",
				EPSBasic: 2.0, Revenues: 1000e6, CostOfRevenue: 400e6,
				OperatingIncome: 300e6, NetIncome: 240e6,
				Equity: 1200e6, TotalAssets: 2400e6,
				CurrentAssets: 800e6, CurrentLiabilities: 400e6,
				OperatingCashFlow: 280e6, InvestingCashFlow: -80e6,
			},
			{
				FiscalPeriod: "Q1", FiscalYear: "2024",
				EPSBasic: 1.8, Revenues: 900e6, NetIncome: 200e6,
			},
		},
		Details: &model.CompanyDetails{
			Ticker: "TEST", Name: "Test Corp",
			MarketCap: 12e9, SICCode: "7372",
		},
	}

	a := NewAnalyzer(mock, mock, mock)
	result, err := a.Analyze(context.Background(), "TEST")
	require.NoError(t, err)

	require.NotNil(t, result.Indicators)
	assert.Greater(t, result.Price, 0.0)
	assert.GreaterOrEqual(t, result.Overall.Score, 0)
	assert.LessOrEqual(t, result.Overall.Score, 100)
	assert.NotEmpty(t, result.Recommendation.Action)
	assert.NotEmpty(t, result.OptionsPlay.Name)
	assert.Equal(t, 1000000.0, result.AvgVolume)

	require.NotNil(t, result.Financials)
	require.NotNil(t, result.Financials.FreeCashFlow)
	assert.InDelta(t, 200e6, *result.Financials.FreeCashFlow, 1)
	assert.True(t, result.Moat.Rated)
	require.NotNil(t, result.FairValue)
	assert.Greater(t, result.Growth, 0)
	assert.Equal(t, "Test Corp", result.Details.Name)
}

func TestAnalyzerShortHistory(t *testing.T) {
	mock := &MockFetcher{Bars: generateMockBars(50, 10)}

	a := NewAnalyzer(mock, mock, nil)
	result, err := a.Analyze(context.Background(), "THIN")
	require.NoError(t, err)

	assert.Nil(t, result.Indicators)
	assert.Equal(t, 0.0, result.Price)
	assert.Empty(t, result.Recommendation.Action)
	// fundamentals still run even without technicals
	assert.Nil(t, result.Financials)
	assert.NotNil(t, result.Details)
}
