package backtest

import "battery-arbitrage/internal/model"

// Result is the full roll-up for one dataset and one battery configuration.
type Result struct {
	Daily   []model.DailySummary
	Monthly []model.MonthlySummary
	Yearly  model.YearlySummary
}
