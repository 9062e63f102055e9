package models

import "github.com/shopspring/decimal"

// AnalyzeRequest is the body of POST /api/analyze. Range checks happen in
// the session so that every caller gets the same INVALID_CONFIG error.
type AnalyzeRequest struct {
	Capacity int             `json:"capacity"` // kWh
	Price    decimal.Decimal `json:"price"`    // battery purchase price
}
