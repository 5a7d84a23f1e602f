package fundamental

import "stockscope/internal/model"

// DerivedMetrics computes the secondary valuation ratios: FCF yield,
// PEG, price-to-FCF, and EV/EBITDA. Each stays nil when its inputs are
// missing or would divide by a non-positive value.
func DerivedMetrics(m *model.Metrics, price, marketCap float64) model.DerivedMetrics {
	var d model.DerivedMetrics
	if m == nil {
		return d
	}

	var shares float64
	if m.SharesOutstanding != nil {
		shares = *m.SharesOutstanding
	}

	if m.FreeCashFlow != nil && shares > 0 && price > 0 {
		perShare := *m.FreeCashFlow / (shares * sharesScale)
		d.FCFYield = ptr(perShare / price * 100)
	}

	if m.EPS != nil && *m.EPS > 0 && m.EPSGrowth != nil && *m.EPSGrowth > 0 && price > 0 {
		pe := price / *m.EPS
		d.PEGRatio = ptr(pe / *m.EPSGrowth)
	}

	if m.FreeCashFlow != nil && *m.FreeCashFlow > 0 && shares > 0 && price > 0 {
		perShare := *m.FreeCashFlow / (shares * sharesScale)
		d.PriceToFCF = ptr(price / perShare)
	}

	if m.EBITDA != nil && *m.EBITDA > 0 && marketCap > 0 {
		var debt, cash float64
		if m.TotalDebt != nil {
			debt = *m.TotalDebt
		}
		if m.CashAndEquivalents != nil {
			cash = *m.CashAndEquivalents
		}
		ev := marketCap + debt - cash
		d.EVEBITDA = ptr(ev / *m.EBITDA)
	}

	return d
}
