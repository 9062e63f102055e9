package analysis

import (
	"sort"

	"battery-arbitrage/internal/model"
)

// TopDays returns up to n days sorted descending by profit. Equal profits
// keep the earlier date first.
func TopDays(daily []model.DailySummary, n int) []model.DailySummary {
	out := make([]model.DailySummary, len(daily))
	copy(out, daily)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalProfit.GreaterThan(out[j].TotalProfit)
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
