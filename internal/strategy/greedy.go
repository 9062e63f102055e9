package strategy

import (
	"fmt"
	"sort"
	"time"

	"battery-arbitrage/internal/model"
)

// MaxTradesPerDay bounds the greedy search. A day with three or more
// profitable swings only ever captures two of them.
const MaxTradesPerDay = 2

// Greedy is the bounded two-trade heuristic: buy at the day's minimum, sell at
// the highest price after it, then repeat once on the records after that sale.
// It is not a globally optimal arbitrage solver.
type Greedy struct{}

func NewGreedy() *Greedy { return &Greedy{} }

func (g *Greedy) Name() string { return "greedy_two_trade" }

// Opportunities validates that every record belongs to day.Date and then runs
// FindOpportunities.
func (g *Greedy) Opportunities(day model.Day) ([]model.Opportunity, error) {
	for i, r := range day.Records {
		if !model.SameDate(r.Timestamp, day.Date) {
			return nil, fmt.Errorf("record %d at %s does not belong to day %s",
				i, r.Timestamp.Format(time.RFC3339), day.Date.Format(model.DateLayout))
		}
	}
	return FindOpportunities(day.Records), nil
}

// FindOpportunities returns 0, 1 or 2 non-overlapping opportunities for one
// day's records. Ties on the minimum or maximum price resolve to the earliest
// timestamp. Only strictly positive spreads are returned.
func FindOpportunities(records []model.PriceRecord) []model.Opportunity {
	if len(records) < 2 {
		return nil
	}

	sorted := make([]model.PriceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var out []model.Opportunity
	window := sorted
	for len(out) < MaxTradesPerDay {
		opp, ok := bestTrade(window)
		if !ok {
			break
		}
		out = append(out, opp)
		window = after(window, opp.SellTime)
	}
	return out
}

// bestTrade picks the minimum of window and the maximum strictly after it.
func bestTrade(window []model.PriceRecord) (model.Opportunity, bool) {
	if len(window) == 0 {
		return model.Opportunity{}, false
	}
	buy := window[argMin(window)]

	rest := after(window, buy.Timestamp)
	if len(rest) == 0 {
		return model.Opportunity{}, false
	}
	sell := rest[argMax(rest)]

	profit := sell.Price.Sub(buy.Price)
	if !profit.IsPositive() {
		return model.Opportunity{}, false
	}
	return model.Opportunity{
		BuyTime:       buy.Timestamp,
		BuyPrice:      buy.Price,
		SellTime:      sell.Timestamp,
		SellPrice:     sell.Price,
		ProfitPerUnit: profit,
	}, true
}

// after returns the suffix of the time-sorted slice strictly later than t.
func after(sorted []model.PriceRecord, t time.Time) []model.PriceRecord {
	idx := sort.Search(len(sorted), func(i int) bool {
		return sorted[i].Timestamp.After(t)
	})
	return sorted[idx:]
}

func argMin(recs []model.PriceRecord) int {
	best := 0
	for i := 1; i < len(recs); i++ {
		if recs[i].Price.LessThan(recs[best].Price) {
			best = i
		}
	}
	return best
}

func argMax(recs []model.PriceRecord) int {
	best := 0
	for i := 1; i < len(recs); i++ {
		if recs[i].Price.GreaterThan(recs[best].Price) {
			best = i
		}
	}
	return best
}
