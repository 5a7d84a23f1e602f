package fundamental

import (
	"math"

	"stockscope/internal/model"
)

// moatBucket scores one metric against descending thresholds: the
// first threshold the value exceeds wins its points.
type moatBucket struct {
	threshold float64
	points    int
}

func bucketPoints(v float64, buckets []moatBucket) int {
	for _, b := range buckets {
		if v > b.threshold {
			return b.points
		}
	}
	return 0
}

// invBucketPoints scores metrics where lower is better.
func invBucketPoints(v float64, buckets []moatBucket) int {
	for _, b := range buckets {
		if v < b.threshold {
			return b.points
		}
	}
	return 0
}

// MoatScore rates competitive advantage on eight factors. Factors with
// missing inputs are excluded and the total is renormalized over the
// factors that had data, so a partial statement still yields a 0-100
// score. Rated is false only when nothing could be scored.
func MoatScore(m *model.Metrics, details *model.CompanyDetails) model.MoatScore {
	var factors []model.MoatFactor
	add := func(name string, max int, points int, available bool) {
		factors = append(factors, model.MoatFactor{Name: name, Points: points, Max: max, Available: available})
	}

	if m != nil && m.GrossMargin != nil {
		add("grossMargin", 20, bucketPoints(*m.GrossMargin, []moatBucket{{60, 20}, {40, 15}, {25, 8}, {15, 4}}), true)
	} else {
		add("grossMargin", 20, 0, false)
	}

	if m != nil && m.ROE != nil {
		add("roe", 15, bucketPoints(*m.ROE, []moatBucket{{20, 15}, {15, 12}, {10, 7}, {5, 3}}), true)
	} else {
		add("roe", 15, 0, false)
	}

	if m != nil && m.RevenueGrowth != nil {
		add("revenueGrowth", 12, bucketPoints(*m.RevenueGrowth, []moatBucket{{15, 12}, {8, 8}, {0, 4}}), true)
	} else {
		add("revenueGrowth", 12, 0, false)
	}

	if m != nil && m.DebtToEquity != nil {
		add("lowDebt", 13, invBucketPoints(*m.DebtToEquity, []moatBucket{{0.3, 13}, {0.5, 10}, {1.0, 7}, {2.0, 3}}), true)
	} else {
		add("lowDebt", 13, 0, false)
	}

	if details != nil && details.MarketCap > 0 {
		points := 2
		switch {
		case details.MarketCap > 50e9:
			points = 12
		case details.MarketCap > 10e9:
			points = 8
		case details.MarketCap > 2e9:
			points = 4
		}
		add("marketPosition", 12, points, true)
	} else {
		add("marketPosition", 12, 0, false)
	}

	if m != nil && m.FreeCashFlow != nil {
		points := 0
		if *m.FreeCashFlow > 0 {
			points = 5
			if m.Revenue != nil && *m.Revenue > 0 && *m.FreeCashFlow / *m.Revenue > 0.15 {
				points = 8
			}
		}
		add("fcf", 8, points, true)
	} else {
		add("fcf", 8, 0, false)
	}

	if m != nil && m.CashConversionRatio != nil {
		add("ccr", 10, bucketPoints(*m.CashConversionRatio, []moatBucket{{1.2, 10}, {1.0, 8}, {0.8, 5}, {0.5, 2}}), true)
	} else {
		add("ccr", 10, 0, false)
	}

	if m != nil && m.ROIC != nil {
		add("roic", 10, bucketPoints(*m.ROIC, []moatBucket{{20, 10}, {15, 8}, {10, 5}, {5, 2}}), true)
	} else {
		add("roic", 10, 0, false)
	}

	total, maxAvailable := 0, 0
	for _, f := range factors {
		if f.Available {
			total += f.Points
			maxAvailable += f.Max
		}
	}

	if maxAvailable == 0 {
		return model.MoatScore{Rated: false, Rating: "No Moat", Factors: factors}
	}

	score := int(math.Round(float64(total) / float64(maxAvailable) * 100))
	return model.MoatScore{
		Score:   score,
		Rated:   true,
		Rating:  moatRating(score),
		Factors: factors,
	}
}

func moatRating(score int) string {
	switch {
	case score >= 75:
		return "Wide Moat"
	case score >= 55:
		return "Narrow Moat"
	}
	return "No Moat"
}

// LightweightMoat estimates moat from market cap alone, for scan passes
// that skip the statement fetch.
func LightweightMoat(details *model.CompanyDetails) model.MoatScore {
	if details == nil || details.MarketCap <= 0 {
		return model.MoatScore{Rated: false}
	}

	score := 30
	switch {
	case details.MarketCap > 200e9:
		score = 70
	case details.MarketCap > 50e9:
		score = 60
	case details.MarketCap > 10e9:
		score = 45
	}

	return model.MoatScore{Score: score, Rated: true, Rating: moatRating(score)}
}
