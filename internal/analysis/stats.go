package analysis

import (
	"math"
	"sort"
	"time"

	"battery-arbitrage/internal/model"

	"github.com/shopspring/decimal"
)

// PriceStats is a dataset-level summary of the quoted prices. It does not
// depend on battery parameters.
type PriceStats struct {
	Count int
	Days  int

	First time.Time
	Last  time.Time

	Min  decimal.Decimal
	Max  decimal.Decimal
	Mean decimal.Decimal
	P05  decimal.Decimal
	P95  decimal.Decimal

	SpreadP95P05 decimal.Decimal
}

func ComputePriceStats(ds *model.Dataset) PriceStats {
	s := PriceStats{}
	if ds == nil || len(ds.Records) == 0 {
		return s
	}
	s.Count = len(ds.Records)
	s.Days = len(ds.Days())
	s.First, s.Last = ds.Span()

	sum := decimal.Zero
	vals := make([]decimal.Decimal, 0, len(ds.Records))
	for _, r := range ds.Records {
		vals = append(vals, r.Price)
		sum = sum.Add(r.Price)
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i].LessThan(vals[j]) })

	s.Min = vals[0]
	s.Max = vals[len(vals)-1]
	s.Mean = sum.Div(decimal.NewFromInt(int64(len(vals)))).Round(model.PricePlaces)
	s.P05 = percentileSorted(vals, 0.05).Round(model.PricePlaces)
	s.P95 = percentileSorted(vals, 0.95).Round(model.PricePlaces)
	s.SpreadP95P05 = s.P95.Sub(s.P05)
	return s
}

func percentileSorted(sorted []decimal.Decimal, q float64) decimal.Decimal {
	if len(sorted) == 0 {
		return decimal.Zero
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := decimal.NewFromFloat(pos - float64(lo))
	return sorted[lo].Mul(decimal.NewFromInt(1).Sub(frac)).Add(sorted[hi].Mul(frac))
}
