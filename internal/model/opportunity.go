package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Opportunity is one buy-low/sell-high pair inside a single calendar day.
// SellTime is strictly after BuyTime and ProfitPerUnit is strictly positive.
type Opportunity struct {
	BuyTime       time.Time
	BuyPrice      decimal.Decimal
	SellTime      time.Time
	SellPrice     decimal.Decimal
	ProfitPerUnit decimal.Decimal
}
