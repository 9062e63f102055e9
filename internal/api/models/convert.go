package models

import (
	"battery-arbitrage/internal/analysis"
	"battery-arbitrage/internal/backtest"
	"battery-arbitrage/internal/model"
)

func NewDatasetInfo(ds *model.Dataset, stats analysis.PriceStats) DatasetInfo {
	info := DatasetInfo{
		ID:          ds.ID,
		Source:      ds.Source,
		LoadedAt:    ds.LoadedAt,
		RecordCount: stats.Count,
		DayCount:    stats.Days,
		First:       stats.First,
		Last:        stats.Last,
	}
	if stats.Count > 0 {
		info.Prices = &PriceStats{
			Min:          stats.Min.InexactFloat64(),
			Max:          stats.Max.InexactFloat64(),
			Mean:         stats.Mean.InexactFloat64(),
			P05:          stats.P05.InexactFloat64(),
			P95:          stats.P95.InexactFloat64(),
			SpreadP95P05: stats.SpreadP95P05.InexactFloat64(),
		}
	}
	return info
}

func NewAnalyzeResponse(res *backtest.Result, best []model.DailySummary) AnalyzeResponse {
	out := AnalyzeResponse{
		Daily:    make([]DailyResult, 0, len(res.Daily)),
		Monthly:  make([]MonthlyResult, 0, len(res.Monthly)),
		Yearly:   NewYearlyResult(res.Yearly),
		BestDays: make([]DailyResult, 0, len(best)),
	}
	for _, d := range res.Daily {
		out.Daily = append(out.Daily, NewDailyResult(d))
	}
	for _, m := range res.Monthly {
		out.Monthly = append(out.Monthly, MonthlyResult{
			Month:       m.Month,
			TotalProfit: m.TotalProfit.InexactFloat64(),
			AvgProfit:   m.AvgProfit.InexactFloat64(),
			MaxProfit:   m.MaxProfit.InexactFloat64(),
			MinProfit:   m.MinProfit.InexactFloat64(),
			TradingDays: m.TradingDayCount,
		})
	}
	for _, d := range best {
		out.BestDays = append(out.BestDays, NewDailyResult(d))
	}
	return out
}

func NewDailyResult(d model.DailySummary) DailyResult {
	r := DailyResult{
		Date:          d.Date.Format(model.DateLayout),
		Profit:        d.TotalProfit.InexactFloat64(),
		Transactions:  d.OpportunityCount,
		Opportunities: make([]Opportunity, 0, len(d.Opportunities)),
	}
	for _, o := range d.Opportunities {
		r.Opportunities = append(r.Opportunities, Opportunity{
			BuyTime:   o.BuyTime.Format(model.ClockLayout),
			BuyPrice:  o.BuyPrice.InexactFloat64(),
			SellTime:  o.SellTime.Format(model.ClockLayout),
			SellPrice: o.SellPrice.InexactFloat64(),
			Profit:    o.Profit.InexactFloat64(),
		})
	}
	return r
}

func NewYearlyResult(y model.YearlySummary) YearlyResult {
	r := YearlyResult{
		TotalProfit:            y.TotalProfit.InexactFloat64(),
		AnnualReturnPercentage: y.AnnualReturnPercentage.InexactFloat64(),
		MonthlyAverage:         y.MonthlyAverage.InexactFloat64(),
		ROIUnbounded:           y.Unbounded,
		TotalInvestment:        y.TotalInvestment.InexactFloat64(),
	}
	if !y.Unbounded {
		years := y.ROIYears.InexactFloat64()
		date := y.BreakevenDate.Format(model.DateLayout)
		r.ROIYears = &years
		r.BreakevenDate = &date
	}
	return r
}
