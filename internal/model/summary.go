package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Display precision for monetary values and unit prices.
const (
	MoneyPlaces = 2
	PricePlaces = 4
)

// TradedOpportunity is an Opportunity scaled by battery capacity and rounded for display.
type TradedOpportunity struct {
	BuyTime   time.Time
	BuyPrice  decimal.Decimal // rounded to PricePlaces
	SellTime  time.Time
	SellPrice decimal.Decimal // rounded to PricePlaces
	Profit    decimal.Decimal // capacity * profit per unit, rounded to MoneyPlaces
}

// DailySummary is the traded result of one calendar date.
type DailySummary struct {
	Date             time.Time
	TotalProfit      decimal.Decimal
	OpportunityCount int
	Opportunities    []TradedOpportunity
}

// MonthlySummary aggregates DailySummary.TotalProfit by calendar month.
type MonthlySummary struct {
	Month           string // YYYY-MM
	TotalProfit     decimal.Decimal
	AvgProfit       decimal.Decimal
	MaxProfit       decimal.Decimal
	MinProfit       decimal.Decimal
	TradingDayCount int
}

// YearlySummary rolls all months into investment metrics.
// When Unbounded is true ROIYears and BreakevenDate carry no meaning.
type YearlySummary struct {
	TotalProfit            decimal.Decimal
	ROIYears               decimal.Decimal
	AnnualReturnPercentage decimal.Decimal
	MonthlyAverage         decimal.Decimal
	BreakevenDate          time.Time
	Unbounded              bool
	TotalInvestment        decimal.Decimal
}
