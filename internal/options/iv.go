package options

import "math"

// IVEstimate annualizes the average daily move into an implied
// volatility proxy.
type IVEstimate struct {
	EstimatedIV float64
	Percentile  string
	Label       string
}

// tradingDaysPerYear is the annualization factor for daily moves.
const tradingDaysPerYear = 252

// EstimateIV approximates implied volatility as the daily move percent
// scaled by sqrt(252). Zero inputs yield an unknown estimate.
func EstimateIV(avgDailyMove, price float64) IVEstimate {
	if price <= 0 || avgDailyMove <= 0 {
		return IVEstimate{Percentile: "unknown", Label: "N/A"}
	}

	dailyPct := avgDailyMove / price * 100
	iv := dailyPct * math.Sqrt(tradingDaysPerYear)

	est := IVEstimate{EstimatedIV: round1(iv)}
	switch {
	case iv < 20:
		est.Percentile = "low"
		est.Label = "Low IV"
	case iv < 35:
		est.Percentile = "moderate"
		est.Label = "Moderate IV"
	case iv < 50:
		est.Percentile = "high"
		est.Label = "High IV"
	default:
		est.Percentile = "extreme"
		est.Label = "Extreme IV"
	}
	return est
}
