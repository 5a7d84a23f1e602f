package calculator

import (
	"sort"

	"stockscope/internal/model"
)

const (
	swingWindow      = 5
	clusterTolerance = 0.01
	maxLevels        = 3
)

// CalculateLevels finds support and resistance levels from swing
// highs/lows. Nearby swings (within 1%) are clustered and averaged,
// clusters are ranked by how many swings touched them, and the top
// three on each side are returned: supports ascending, resistances
// descending.
func CalculateLevels(series *model.PriceSeries) (supports, resistances []float64) {
	bars := series.Bars
	var lows, highs []float64
	for i := swingWindow; i < len(bars)-swingWindow; i++ {
		isLow, isHigh := true, true
		for j := i - swingWindow; j <= i+swingWindow; j++ {
			if bars[j].Low < bars[i].Low {
				isLow = false
			}
			if bars[j].High > bars[i].High {
				isHigh = false
			}
		}
		if isLow {
			lows = append(lows, bars[i].Low)
		}
		if isHigh {
			highs = append(highs, bars[i].High)
		}
	}

	supports = clusterLevels(lows)
	resistances = clusterLevels(highs)
	sort.Float64s(supports)
	sort.Sort(sort.Reverse(sort.Float64Slice(resistances)))
	return supports, resistances
}

// clusterLevels groups ascending levels whose gap to the previous
// member stays under the tolerance, averages each group, and keeps the
// most-touched clusters.
func clusterLevels(levels []float64) []float64 {
	if len(levels) == 0 {
		return nil
	}
	sorted := append([]float64(nil), levels...)
	sort.Float64s(sorted)

	type cluster struct {
		members []float64
	}
	clusters := []cluster{{members: []float64{sorted[0]}}}
	for _, lv := range sorted[1:] {
		last := clusters[len(clusters)-1].members
		prev := last[len(last)-1]
		if (lv-prev)/prev < clusterTolerance {
			clusters[len(clusters)-1].members = append(last, lv)
		} else {
			clusters = append(clusters, cluster{members: []float64{lv}})
		}
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return len(clusters[i].members) > len(clusters[j].members)
	})
	if len(clusters) > maxLevels {
		clusters = clusters[:maxLevels]
	}
	out := make([]float64, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, mean(c.members))
	}
	return out
}
