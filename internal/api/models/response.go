package models

import "time"

// UploadResponse is returned after a price file was accepted.
type UploadResponse struct {
	Message string      `json:"message"`
	Dataset DatasetInfo `json:"dataset"`
}

// DatasetInfo describes the currently loaded dataset.
type DatasetInfo struct {
	ID          string      `json:"id"`
	Source      string      `json:"source"`
	LoadedAt    time.Time   `json:"loaded_at"`
	RecordCount int         `json:"record_count"`
	DayCount    int         `json:"day_count"`
	First       time.Time   `json:"first"`
	Last        time.Time   `json:"last"`
	Prices      *PriceStats `json:"prices,omitempty"`
}

type PriceStats struct {
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	P05          float64 `json:"p05"`
	P95          float64 `json:"p95"`
	SpreadP95P05 float64 `json:"spread_p95_p05"`
}

// AnalyzeResponse carries the full daily, monthly and yearly roll-up.
type AnalyzeResponse struct {
	Daily    []DailyResult   `json:"daily"`
	Monthly  []MonthlyResult `json:"monthly"`
	Yearly   YearlyResult    `json:"yearly"`
	BestDays []DailyResult   `json:"best_days"`
}

type DailyResult struct {
	Date          string        `json:"date"` // YYYY-MM-DD
	Profit        float64       `json:"profit"`
	Transactions  int           `json:"transactions"`
	Opportunities []Opportunity `json:"opportunities"`
}

type Opportunity struct {
	BuyTime   string  `json:"buy_time"` // HH:MM
	BuyPrice  float64 `json:"buy_price"`
	SellTime  string  `json:"sell_time"` // HH:MM
	SellPrice float64 `json:"sell_price"`
	Profit    float64 `json:"profit"`
}

type MonthlyResult struct {
	Month       string  `json:"month"` // YYYY-MM
	TotalProfit float64 `json:"total_profit"`
	AvgProfit   float64 `json:"avg_profit"`
	MaxProfit   float64 `json:"max_profit"`
	MinProfit   float64 `json:"min_profit"`
	TradingDays int     `json:"trading_days"`
}

// YearlyResult reports roi_years and breakeven_date as null when yearly
// profit is not positive.
type YearlyResult struct {
	TotalProfit            float64  `json:"total_profit"`
	ROIYears               *float64 `json:"roi_years"`
	AnnualReturnPercentage float64  `json:"annual_return_percentage"`
	MonthlyAverage         float64  `json:"monthly_average"`
	BreakevenDate          *string  `json:"breakeven_date"` // YYYY-MM-DD
	ROIUnbounded           bool     `json:"roi_unbounded"`
	TotalInvestment        float64  `json:"total_investment"`
}

// BatteryInfo represents information about a battery preset
type BatteryInfo struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	File        string  `json:"file"`
	CapacityKWh int     `json:"capacity_kwh"`
	Price       float64 `json:"price"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
