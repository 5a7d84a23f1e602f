package fundamental

import (
	"fmt"
	"math"

	"stockscope/internal/model"
)

// DCF parameters for the simple five-year model.
const (
	dcfDiscountRate     = 0.10
	dcfYears            = 5
	dcfTerminalMultiple = 15
	dcfMaxGrowth        = 0.25
	dcfDefaultGrowthPct = 5
)

// sharesScale converts shares reported in millions to absolute counts.
const sharesScale = 1_000_000

// FairValue blends up to five valuation models, each weighted by how
// much signal it usually carries. Models whose inputs are missing or
// nonsensical drop out and the blend renormalizes over the weights
// that remain. Returns nil when no model qualifies or price is unknown.
func FairValue(m *model.Metrics, price float64, details *model.CompanyDetails) *model.FairValue {
	if m == nil || price <= 0 {
		return nil
	}

	sector := "default"
	marketCap := 0.0
	if details != nil {
		sector = SectorFromSIC(details.SICCode)
		marketCap = details.MarketCap
	}
	mult := MultiplesForSector(sector)

	var models []model.ValuationModel
	totalWeight := 0
	addModel := func(name string, value float64, weight int, details string) {
		models = append(models, model.ValuationModel{Name: name, Value: value, Weight: weight, Details: details})
		totalWeight += weight
	}

	var shares float64
	if m.SharesOutstanding != nil {
		shares = *m.SharesOutstanding
	}

	// P/E multiple.
	if m.EPS != nil && *m.EPS > 0 {
		addModel("P/E Multiple", *m.EPS*mult.PE, 25,
			fmt.Sprintf("EPS $%.2f x %g P/E", *m.EPS, mult.PE))
	}

	// P/B multiple.
	if m.BookValue != nil && shares > 0 {
		bvps := *m.BookValue / (shares * sharesScale)
		if bvps > 0 {
			addModel("P/B Multiple", bvps*mult.PB, 20,
				fmt.Sprintf("BVPS $%.2f x %g P/B", bvps, mult.PB))
		}
	}

	// P/S multiple.
	if m.Revenue != nil && shares > 0 {
		rps := *m.Revenue / (shares * sharesScale)
		if rps > 0 {
			addModel("P/S Multiple", rps*mult.PS, 20,
				fmt.Sprintf("RPS $%.2f x %g P/S", rps, mult.PS))
		}
	}

	// Simple five-year DCF with terminal multiple.
	if m.FreeCashFlow != nil && *m.FreeCashFlow > 0 && shares > 0 {
		growthPct := float64(dcfDefaultGrowthPct)
		if m.RevenueGrowth != nil && *m.RevenueGrowth != 0 {
			growthPct = *m.RevenueGrowth
		}
		growthRate := math.Min(growthPct/100, dcfMaxGrowth)

		var totalPV float64
		projected := *m.FreeCashFlow
		for year := 1; year <= dcfYears; year++ {
			projected *= 1 + growthRate
			totalPV += projected / math.Pow(1+dcfDiscountRate, float64(year))
		}
		terminal := projected * dcfTerminalMultiple / math.Pow(1+dcfDiscountRate, dcfYears)
		intrinsic := (totalPV + terminal) / (shares * sharesScale)

		if intrinsic > 0 {
			addModel("Simple DCF", intrinsic, 20,
				fmt.Sprintf("FCF $%.0fM, %.0f%% growth", *m.FreeCashFlow/1e6, growthRate*100))
		}
	}

	// EV/EBITDA reverse-out to equity value.
	if m.EBITDA != nil && *m.EBITDA > 0 && marketCap > 0 && shares > 0 {
		var debt, cash float64
		if m.TotalDebt != nil {
			debt = *m.TotalDebt
		}
		if m.CashAndEquivalents != nil {
			cash = *m.CashAndEquivalents
		}
		fairEV := *m.EBITDA * mult.EVEBITDA
		fairEquity := fairEV - debt + cash
		value := fairEquity / (shares * sharesScale)
		if value > 0 {
			addModel("EV/EBITDA", value, 15,
				fmt.Sprintf("EBITDA $%.0fM x %g", *m.EBITDA/1e6, mult.EVEBITDA))
		}
	}

	if len(models) == 0 {
		return nil
	}

	var weightedSum float64
	for _, v := range models {
		weightedSum += v.Value * float64(v.Weight)
	}
	fv := weightedSum / float64(totalWeight)

	return &model.FairValue{
		Models:             models,
		WeightedFairValue:  math.Round(fv*100) / 100,
		PremiumDiscountPct: math.Round((price-fv)/fv*100*10) / 10,
		TotalWeight:        totalWeight,
	}
}
