package fundamental

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockscope/internal/model"
)

func fullStatement() model.FinancialStatement {
	return model.FinancialStatement{
		FiscalPeriod:       "Q2",
		FiscalYear:         "2026",
		EPSBasic:           2.0,
		Revenues:           1000e6,
		CostOfRevenue:      400e6,
		OperatingIncome:    300e6,
		NetIncome:          240e6,
		Equity:             1200e6,
		TotalAssets:        2400e6,
		CurrentAssets:      600e6,
		CurrentLiabilities: 300e6,
		LongTermDebt:       200e6,
		DebtCurrent:        50e6,
		OperatingCashFlow:  280e6,
		InvestingCashFlow:  -80e6,
		InterestExpense:    -20e6,
		Depreciation:       -60e6,
		CashAndEquivalents: 400e6,
	}
}

func TestProcessFinancialsFullStatement(t *testing.T) {
	prev := fullStatement()
	prev.EPSBasic = 1.6
	prev.Revenues = 800e6

	m := ProcessFinancials([]model.FinancialStatement{fullStatement(), prev}, nil)
	require.NotNil(t, m)

	require.NotNil(t, m.GrossMargin)
	assert.InDelta(t, 60.0, *m.GrossMargin, 1e-9)
	require.NotNil(t, m.OperatingMargin)
	assert.InDelta(t, 30.0, *m.OperatingMargin, 1e-9)
	require.NotNil(t, m.EPSGrowth)
	assert.InDelta(t, 25.0, *m.EPSGrowth, 1e-9)
	require.NotNil(t, m.RevenueGrowth)
	assert.InDelta(t, 25.0, *m.RevenueGrowth, 1e-9)
	require.NotNil(t, m.ROE)
	assert.InDelta(t, 20.0, *m.ROE, 1e-9)
	require.NotNil(t, m.ROA)
	assert.InDelta(t, 10.0, *m.ROA, 1e-9)
	require.NotNil(t, m.CurrentRatio)
	assert.InDelta(t, 2.0, *m.CurrentRatio, 1e-9)
	require.NotNil(t, m.TotalDebt)
	assert.InDelta(t, 250e6, *m.TotalDebt, 1)
	require.NotNil(t, m.DebtToEquity)
	assert.InDelta(t, 250.0/1200.0, *m.DebtToEquity, 1e-9)
	require.NotNil(t, m.FreeCashFlow)
	assert.InDelta(t, 200e6, *m.FreeCashFlow, 1)
	require.NotNil(t, m.CashConversionRatio)
	assert.InDelta(t, 280.0/240.0, *m.CashConversionRatio, 1e-9)
	require.NotNil(t, m.FCFMargin)
	assert.InDelta(t, 20.0, *m.FCFMargin, 1e-9)
	require.NotNil(t, m.InterestCoverage)
	assert.InDelta(t, 15.0, *m.InterestCoverage, 1e-9)
	require.NotNil(t, m.EBITDA)
	assert.InDelta(t, 360e6, *m.EBITDA, 1)

	// Effective tax 1 - 240/300 = 0.20; NOPAT 240M over 1450M invested.
	require.NotNil(t, m.ROIC)
	assert.InDelta(t, 240.0/1450.0*100, *m.ROIC, 1e-6)
}

func TestProcessFinancialsMissingFields(t *testing.T) {
	st := model.FinancialStatement{Revenues: 500e6, NetIncome: 50e6}
	m := ProcessFinancials([]model.FinancialStatement{st}, nil)
	require.NotNil(t, m)

	assert.Nil(t, m.EPS)
	assert.Nil(t, m.GrossMargin, "missing cost of revenue")
	assert.Nil(t, m.ROE, "missing equity")
	assert.Nil(t, m.TotalDebt)
	assert.Nil(t, m.EPSGrowth, "no prior period")
	assert.Nil(t, m.InterestCoverage)
}

func TestProcessFinancialsEmpty(t *testing.T) {
	assert.Nil(t, ProcessFinancials(nil, nil))
}

func TestProcessFinancialsSecondaryBackfill(t *testing.T) {
	st := fullStatement()
	st.EPSBasic = 0 // feed omitted EPS

	eps := 3.5
	roe := 99.0
	shares := 500.0
	sec := &model.SecondaryMetrics{EPS: &eps, ROE: &roe, SharesOutstanding: &shares}

	m := ProcessFinancials([]model.FinancialStatement{st}, sec)
	require.NotNil(t, m)

	require.NotNil(t, m.EPS)
	assert.Equal(t, 3.5, *m.EPS, "gap filled from secondary feed")
	require.NotNil(t, m.ROE)
	assert.InDelta(t, 20.0, *m.ROE, 1e-9, "computed ROE never overwritten")
	require.NotNil(t, m.SharesOutstanding)
	assert.Equal(t, 500.0, *m.SharesOutstanding)
}

func TestMoatScoreWideMoat(t *testing.T) {
	m := &model.Metrics{
		GrossMargin:         ptr(65.0),
		ROE:                 ptr(25.0),
		RevenueGrowth:       ptr(20.0),
		DebtToEquity:        ptr(0.2),
		FreeCashFlow:        ptr(200e6),
		Revenue:             ptr(1000e6),
		CashConversionRatio: ptr(1.3),
		ROIC:                ptr(22.0),
	}
	details := &model.CompanyDetails{MarketCap: 100e9}

	ms := MoatScore(m, details)
	assert.True(t, ms.Rated)
	assert.Equal(t, 100, ms.Score)
	assert.Equal(t, "Wide Moat", ms.Rating)
	assert.Len(t, ms.Factors, 8)
}

func TestMoatScorePartialDataRenormalizes(t *testing.T) {
	// Only gross margin available, at its maximum bucket. The score
	// normalizes over available factors, so this still reads 100.
	m := &model.Metrics{GrossMargin: ptr(65.0)}
	ms := MoatScore(m, nil)

	assert.True(t, ms.Rated)
	assert.Equal(t, 100, ms.Score)
	available := 0
	for _, f := range ms.Factors {
		if f.Available {
			available++
		}
	}
	assert.Equal(t, 1, available)
}

func TestMoatScoreNoData(t *testing.T) {
	ms := MoatScore(nil, nil)
	assert.False(t, ms.Rated)
	assert.Equal(t, "No Moat", ms.Rating)
}

func TestLightweightMoat(t *testing.T) {
	assert.Equal(t, 70, LightweightMoat(&model.CompanyDetails{MarketCap: 300e9}).Score)
	assert.Equal(t, 60, LightweightMoat(&model.CompanyDetails{MarketCap: 80e9}).Score)
	assert.Equal(t, 45, LightweightMoat(&model.CompanyDetails{MarketCap: 20e9}).Score)
	assert.Equal(t, 30, LightweightMoat(&model.CompanyDetails{MarketCap: 5e9}).Score)
	assert.False(t, LightweightMoat(nil).Rated)
}

func TestSectorFromSIC(t *testing.T) {
	tests := []struct {
		sic    string
		sector string
	}{
		{"7372", "Technology"},
		{"2834", "Healthcare"},
		{"6022", "Financial Services"},
		{"5411", "Consumer Cyclical"},
		{"1311", "Energy"},
		{"4911", "Utilities"},
		{"1040", "Basic Materials"},
		{"4813", "Communication Services"},
		// 6500 falls inside the financial services band, which is
		// checked before real estate.
		{"6500", "Financial Services"},
		{"9999", "default"},
		{"", "default"},
		{"abc", "default"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.sector, SectorFromSIC(tt.sic), "sic %q", tt.sic)
	}
}

func TestFairValuePEOnly(t *testing.T) {
	// Only EPS available; blend degrades gracefully to the P/E model.
	m := &model.Metrics{EPS: ptr(5.0)}
	fv := FairValue(m, 90, &model.CompanyDetails{SICCode: "7372"})
	require.NotNil(t, fv)

	require.Len(t, fv.Models, 1)
	assert.Equal(t, "P/E Multiple", fv.Models[0].Name)
	assert.Equal(t, 25, fv.TotalWeight)
	// 5 EPS x 28 tech P/E = 140 fair value; price 90 is a discount.
	assert.InDelta(t, 140.0, fv.WeightedFairValue, 1e-9)
	assert.InDelta(t, -35.7, fv.PremiumDiscountPct, 0.05)
}

func TestFairValueAllModels(t *testing.T) {
	m := &model.Metrics{
		EPS:                ptr(2.0),
		BookValue:          ptr(1200e6),
		Revenue:            ptr(1000e6),
		RevenueGrowth:      ptr(10.0),
		FreeCashFlow:       ptr(200e6),
		EBITDA:             ptr(360e6),
		TotalDebt:          ptr(250e6),
		CashAndEquivalents: ptr(400e6),
		SharesOutstanding:  ptr(100.0), // 100M shares
	}
	details := &model.CompanyDetails{SICCode: "7372", MarketCap: 5e9}

	fv := FairValue(m, 50, details)
	require.NotNil(t, fv)
	assert.Len(t, fv.Models, 5)
	assert.Equal(t, 100, fv.TotalWeight)
	assert.Greater(t, fv.WeightedFairValue, 0.0)
}

func TestFairValueNoPrice(t *testing.T) {
	assert.Nil(t, FairValue(&model.Metrics{EPS: ptr(5.0)}, 0, nil))
}

func TestFairValueNoModels(t *testing.T) {
	assert.Nil(t, FairValue(&model.Metrics{}, 100, nil))
}

func TestGrowthScore(t *testing.T) {
	m := &model.Metrics{
		RevenueGrowth:   ptr(25.0),
		OperatingMargin: ptr(25.0),
		ROE:             ptr(20.0),
		CurrentRatio:    ptr(2.0),
	}
	assert.Equal(t, 100, GrowthScore(m))

	weak := &model.Metrics{RevenueGrowth: ptr(-5.0)}
	assert.Equal(t, 40, GrowthScore(weak))

	assert.Equal(t, 50, GrowthScore(nil))
}

func TestDerivedMetrics(t *testing.T) {
	m := &model.Metrics{
		FreeCashFlow:       ptr(200e6),
		EPS:                ptr(2.0),
		EPSGrowth:          ptr(25.0),
		EBITDA:             ptr(360e6),
		TotalDebt:          ptr(250e6),
		CashAndEquivalents: ptr(400e6),
		SharesOutstanding:  ptr(100.0),
	}
	d := DerivedMetrics(m, 50, 5e9)

	require.NotNil(t, d.FCFYield)
	assert.InDelta(t, 4.0, *d.FCFYield, 1e-9) // $2/share FCF on $50
	require.NotNil(t, d.PEGRatio)
	assert.InDelta(t, 1.0, *d.PEGRatio, 1e-9) // P/E 25 over 25% growth
	require.NotNil(t, d.PriceToFCF)
	assert.InDelta(t, 25.0, *d.PriceToFCF, 1e-9)
	require.NotNil(t, d.EVEBITDA)
	assert.InDelta(t, (5e9+250e6-400e6)/360e6, *d.EVEBITDA, 1e-9)

	empty := DerivedMetrics(&model.Metrics{}, 50, 0)
	assert.Nil(t, empty.FCFYield)
	assert.Nil(t, empty.PEGRatio)
}
