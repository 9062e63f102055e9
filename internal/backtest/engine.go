package backtest

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"battery-arbitrage/internal/analysis"
	"battery-arbitrage/internal/model"
	"battery-arbitrage/internal/strategy"

	"github.com/shopspring/decimal"
)

var errNoRecords = errors.New("dataset has no price records")

type Engine struct {
	strat strategy.Strategy
}

// New returns an engine using strat, or the greedy two-trade strategy when nil.
func New(strat strategy.Strategy) *Engine {
	if strat == nil {
		strat = strategy.NewGreedy()
	}
	return &Engine{strat: strat}
}

// Run computes daily, monthly and yearly results. now anchors the break-even date.
func (e *Engine) Run(ds *model.Dataset, params model.BatteryParams, now time.Time) (*Result, error) {
	daily, err := e.Daily(ds, params.Capacity)
	if err != nil {
		return nil, err
	}
	monthly, err := e.Monthly(daily)
	if err != nil {
		return nil, err
	}
	yearly, err := e.Yearly(monthly, params, now)
	if err != nil {
		return nil, err
	}
	return &Result{Daily: daily, Monthly: monthly, Yearly: yearly}, nil
}

// Daily runs the strategy once per calendar date, ascending. Any failing day
// aborts the whole computation.
func (e *Engine) Daily(ds *model.Dataset, capacity int) ([]model.DailySummary, error) {
	if capacity <= 0 {
		return nil, &AnalysisError{Stage: StageDaily, Err: fmt.Errorf("%w: capacity must be > 0", model.ErrInvalidParams)}
	}
	days := ds.Days()
	if len(days) == 0 {
		return nil, &AnalysisError{Stage: StageDaily, Err: errNoRecords}
	}

	capDec := decimal.NewFromInt(int64(capacity))
	out := make([]model.DailySummary, 0, len(days))
	for _, day := range days {
		opps, err := e.strat.Opportunities(day)
		if err != nil {
			return nil, &AnalysisError{Stage: StageDaily, Date: day.Date, Err: err}
		}

		total := decimal.Zero
		traded := make([]model.TradedOpportunity, 0, len(opps))
		for _, o := range opps {
			profit := o.ProfitPerUnit.Mul(capDec)
			total = total.Add(profit)
			traded = append(traded, model.TradedOpportunity{
				BuyTime:   o.BuyTime,
				BuyPrice:  o.BuyPrice.Round(model.PricePlaces),
				SellTime:  o.SellTime,
				SellPrice: o.SellPrice.Round(model.PricePlaces),
				Profit:    profit.Round(model.MoneyPlaces),
			})
		}

		out = append(out, model.DailySummary{
			Date:             day.Date,
			TotalProfit:      total.Round(model.MoneyPlaces),
			OpportunityCount: len(opps),
			Opportunities:    traded,
		})
	}
	return out, nil
}

// Monthly groups daily totals by calendar month. Zero-profit days count as
// trading days.
func (e *Engine) Monthly(daily []model.DailySummary) ([]model.MonthlySummary, error) {
	if len(daily) == 0 {
		return nil, &AnalysisError{Stage: StageMonthly, Err: errors.New("no daily results to aggregate")}
	}

	byMonth := make(map[string][]decimal.Decimal)
	for _, day := range daily {
		if day.Date.IsZero() {
			return nil, &AnalysisError{Stage: StageMonthly, Err: errors.New("daily result without a date")}
		}
		key := day.Date.Format(model.MonthLayout)
		byMonth[key] = append(byMonth[key], day.TotalProfit)
	}

	out := make([]model.MonthlySummary, 0, len(byMonth))
	for month, profits := range byMonth {
		sum, lo, hi := profits[0], profits[0], profits[0]
		for _, p := range profits[1:] {
			sum = sum.Add(p)
			lo = decimal.Min(lo, p)
			hi = decimal.Max(hi, p)
		}
		out = append(out, model.MonthlySummary{
			Month:           month,
			TotalProfit:     sum,
			AvgProfit:       sum.Div(decimal.NewFromInt(int64(len(profits)))).Round(model.MoneyPlaces),
			MaxProfit:       hi,
			MinProfit:       lo,
			TradingDayCount: len(profits),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

// Yearly sums all months and derives the ROI figures for params.
func (e *Engine) Yearly(monthly []model.MonthlySummary, params model.BatteryParams, now time.Time) (model.YearlySummary, error) {
	if len(monthly) == 0 {
		return model.YearlySummary{}, &AnalysisError{Stage: StageYearly, Err: errors.New("no monthly results to aggregate")}
	}

	total := decimal.Zero
	for _, m := range monthly {
		total = total.Add(m.TotalProfit)
	}

	roi, err := analysis.ComputeROI(total, params.Price, now)
	if err != nil {
		return model.YearlySummary{}, &AnalysisError{Stage: StageYearly, Err: err}
	}
	return model.YearlySummary{
		TotalProfit:            total.Round(model.MoneyPlaces),
		ROIYears:               roi.Years,
		AnnualReturnPercentage: roi.AnnualReturnPercentage,
		MonthlyAverage:         roi.MonthlyAverage,
		BreakevenDate:          roi.BreakevenDate,
		Unbounded:              roi.Unbounded,
		TotalInvestment:        params.Price,
	}, nil
}
