package model

// FinancialStatement holds one reporting period's raw statement fields.
// A zero value means the field was not reported, matching the upstream
// feed which omits unavailable line items.
type FinancialStatement struct {
	FiscalPeriod      string
	FiscalYear        string
	EPSBasic          float64
	Revenues          float64
	CostOfRevenue     float64
	OperatingIncome   float64
	NetIncome         float64
	Equity            float64
	TotalAssets       float64
	CurrentAssets     float64
	CurrentLiabilities float64
	LongTermDebt      float64
	DebtCurrent       float64
	OperatingCashFlow float64
	InvestingCashFlow float64
	InterestExpense   float64
	Depreciation      float64
	CashAndEquivalents float64
}

// Metrics holds the derived fundamental ratios. Nil means the metric
// could not be computed from the available inputs; consumers exclude
// nil metrics rather than treating them as zero.
type Metrics struct {
	EPS                 *float64
	EPSGrowth           *float64
	Revenue             *float64
	RevenueGrowth       *float64
	NetIncome           *float64
	OperatingIncome     *float64
	FreeCashFlow        *float64
	BookValue           *float64
	TotalDebt           *float64
	TotalEquity         *float64
	TotalAssets         *float64
	OperatingMargin     *float64
	GrossMargin         *float64
	ROE                 *float64
	ROA                 *float64
	CurrentRatio        *float64
	DebtToEquity        *float64
	DividendYield       *float64
	SharesOutstanding   *float64 // millions, as reported by the metrics feed
	CashConversionRatio *float64
	FCFMargin           *float64
	ROIC                *float64
	InterestCoverage    *float64
	EBITDA              *float64
	CashAndEquivalents  *float64
}

// SecondaryMetrics is the partial field mapping from the gap-filling
// metrics provider.
type SecondaryMetrics struct {
	PE                *float64
	EPS               *float64
	ROE               *float64
	ROA               *float64
	CurrentRatio      *float64
	DividendYield     *float64
	SharesOutstanding *float64 // millions
}

// CompanyDetails is the company metadata used for sector mapping and
// market-position scoring.
type CompanyDetails struct {
	Ticker         string
	Name           string
	MarketCap      float64
	SICCode        string
	SICDescription string
}

// MoatFactor is one bucketed moat contribution.
type MoatFactor struct {
	Name      string
	Points    int
	Max       int
	Available bool
}

// MoatScore is the 8-factor competitive-advantage estimate. Rated is
// false when no factor had input data.
type MoatScore struct {
	Score   int
	Rated   bool
	Rating  string
	Factors []MoatFactor
}

// ValuationModel is one named fair-value model that had sufficient inputs.
type ValuationModel struct {
	Name    string
	Value   float64
	Weight  int
	Details string
}

// FairValue is the blended intrinsic-value estimate. The weighted
// average is renormalized over only the models that qualified.
type FairValue struct {
	Models             []ValuationModel
	WeightedFairValue  float64
	PremiumDiscountPct float64
	TotalWeight        int
}

// DerivedMetrics are the secondary valuation ratios shown alongside
// fair value. Nil means insufficient inputs.
type DerivedMetrics struct {
	FCFYield   *float64
	PEGRatio   *float64
	PriceToFCF *float64
	EVEBITDA   *float64
}
