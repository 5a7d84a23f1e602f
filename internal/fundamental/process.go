// Package fundamental computes ratio metrics, moat scores, fair value,
// and growth quality from raw financial statements.
package fundamental

import (
	"math"

	"stockscope/internal/model"
)

// defaultTaxRate applies when effective tax cannot be derived from the
// income statement.
const defaultTaxRate = 0.21

// ProcessFinancials converts the latest (and previous, for growth
// rates) reporting periods into derived ratios. Statements are expected
// newest first. Fields the feed omitted arrive as zero and are treated
// as not reported; computed metrics stay nil when an input is missing.
// Secondary metrics backfill gaps field by field without overwriting
// anything already computed.
func ProcessFinancials(statements []model.FinancialStatement, secondary *model.SecondaryMetrics) *model.Metrics {
	if len(statements) == 0 {
		return nil
	}

	latest := statements[0]
	var previous model.FinancialStatement
	if len(statements) > 1 {
		previous = statements[1]
	}

	m := &model.Metrics{}
	if latest.EPSBasic != 0 {
		m.EPS = ptr(latest.EPSBasic)
	}
	if latest.Revenues != 0 {
		m.Revenue = ptr(latest.Revenues)
	}
	if latest.NetIncome != 0 {
		m.NetIncome = ptr(latest.NetIncome)
	}
	if latest.OperatingIncome != 0 {
		m.OperatingIncome = ptr(latest.OperatingIncome)
	}
	if latest.Equity != 0 {
		m.BookValue = ptr(latest.Equity)
		m.TotalEquity = ptr(latest.Equity)
	}
	if latest.TotalAssets != 0 {
		m.TotalAssets = ptr(latest.TotalAssets)
	}
	if latest.CashAndEquivalents != 0 {
		m.CashAndEquivalents = ptr(latest.CashAndEquivalents)
	}

	if debt := latest.LongTermDebt + latest.DebtCurrent; debt != 0 {
		m.TotalDebt = ptr(debt)
	}

	if latest.Revenues > 0 && latest.CostOfRevenue != 0 {
		m.GrossMargin = ptr((latest.Revenues - latest.CostOfRevenue) / latest.Revenues * 100)
	}
	if latest.Revenues > 0 && latest.OperatingIncome != 0 {
		m.OperatingMargin = ptr(latest.OperatingIncome / latest.Revenues * 100)
	}

	if previous.EPSBasic != 0 && latest.EPSBasic != 0 {
		m.EPSGrowth = ptr((latest.EPSBasic - previous.EPSBasic) / math.Abs(previous.EPSBasic) * 100)
	}
	if previous.Revenues > 0 && latest.Revenues != 0 {
		m.RevenueGrowth = ptr((latest.Revenues - previous.Revenues) / previous.Revenues * 100)
	}

	if latest.NetIncome != 0 && latest.Equity != 0 {
		m.ROE = ptr(latest.NetIncome / latest.Equity * 100)
	}
	if latest.NetIncome != 0 && latest.TotalAssets != 0 {
		m.ROA = ptr(latest.NetIncome / latest.TotalAssets * 100)
	}
	if latest.CurrentLiabilities > 0 {
		m.CurrentRatio = ptr(latest.CurrentAssets / latest.CurrentLiabilities)
	}
	if latest.Equity != 0 && m.TotalDebt != nil {
		m.DebtToEquity = ptr(*m.TotalDebt / latest.Equity)
	}

	// FCF approximates capex as the magnitude of investing cash flow.
	fcf := latest.OperatingCashFlow - math.Abs(latest.InvestingCashFlow)
	m.FreeCashFlow = ptr(fcf)

	if latest.OperatingCashFlow != 0 && latest.NetIncome > 0 {
		m.CashConversionRatio = ptr(latest.OperatingCashFlow / latest.NetIncome)
	}
	if fcf != 0 && latest.Revenues > 0 {
		m.FCFMargin = ptr(fcf / latest.Revenues * 100)
	}

	if latest.OperatingIncome != 0 && latest.Equity != 0 {
		taxRate := defaultTaxRate
		if latest.NetIncome != 0 {
			taxRate = clamp(1-latest.NetIncome/latest.OperatingIncome, 0, 0.5)
		}
		nopat := latest.OperatingIncome * (1 - taxRate)
		invested := latest.Equity
		if m.TotalDebt != nil {
			invested += *m.TotalDebt
		}
		if invested > 0 {
			m.ROIC = ptr(nopat / invested * 100)
		}
	}

	if latest.OperatingIncome != 0 && latest.InterestExpense != 0 {
		m.InterestCoverage = ptr(latest.OperatingIncome / math.Abs(latest.InterestExpense))
	}

	if latest.OperatingIncome != 0 {
		m.EBITDA = ptr(latest.OperatingIncome + math.Abs(latest.Depreciation))
	}

	if secondary != nil {
		if m.DividendYield == nil {
			m.DividendYield = secondary.DividendYield
		}
		if m.SharesOutstanding == nil {
			m.SharesOutstanding = secondary.SharesOutstanding
		}
		if m.EPS == nil {
			m.EPS = secondary.EPS
		}
		if m.ROE == nil {
			m.ROE = secondary.ROE
		}
		if m.ROA == nil {
			m.ROA = secondary.ROA
		}
		if m.CurrentRatio == nil {
			m.CurrentRatio = secondary.CurrentRatio
		}
	}

	return m
}

func ptr(v float64) *float64 { return &v }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
