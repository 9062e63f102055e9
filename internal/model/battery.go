package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidParams is returned when capacity or battery price are out of range.
var ErrInvalidParams = errors.New("invalid battery parameters")

// BatteryParams defines what the arbitrage analysis needs to know about the battery.
// Units:
// - Capacity: kWh (integer, > 0), scales per-kWh spread into currency
// - Price: purchase price in the dataset currency (> 0)
type BatteryParams struct {
	Capacity int
	Price    decimal.Decimal
}

func NewBatteryParams(capacity int, price decimal.Decimal) (BatteryParams, error) {
	p := BatteryParams{Capacity: capacity, Price: price}
	if err := p.Validate(); err != nil {
		return BatteryParams{}, err
	}
	return p, nil
}

func (p BatteryParams) Validate() error {
	if p.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be > 0", ErrInvalidParams)
	}
	if !p.Price.IsPositive() {
		return fmt.Errorf("%w: price must be > 0", ErrInvalidParams)
	}
	return nil
}
