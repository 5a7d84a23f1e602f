package fundamental

import "stockscope/internal/model"

// GrowthScore rates growth quality 0-100 from a neutral 50 base.
// Metrics with no data contribute nothing either way.
func GrowthScore(m *model.Metrics) int {
	score := 50
	if m == nil {
		return score
	}

	if m.RevenueGrowth != nil {
		switch {
		case *m.RevenueGrowth > 20:
			score += 20
		case *m.RevenueGrowth > 10:
			score += 10
		case *m.RevenueGrowth < 0:
			score -= 10
		}
	}

	if m.OperatingMargin != nil {
		if *m.OperatingMargin > 20 {
			score += 15
		} else if *m.OperatingMargin > 10 {
			score += 8
		}
	}

	if m.ROE != nil && *m.ROE > 15 {
		score += 10
	}

	if m.CurrentRatio != nil && *m.CurrentRatio > 1.5 {
		score += 5
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
