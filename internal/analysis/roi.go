package analysis

import (
	"errors"
	"fmt"
	"time"

	"battery-arbitrage/internal/model"

	"github.com/shopspring/decimal"
)

// ErrUnboundedROI signals that payback cannot be computed because yearly
// profit is zero or negative. It is a state, not a failure of the analysis.
var ErrUnboundedROI = errors.New("roi unbounded: yearly profit is not positive")

const daysPerYear = 365

var (
	hundred        = decimal.NewFromInt(100)
	monthsPerYear  = decimal.NewFromInt(12)
	daysPerYearDec = decimal.NewFromInt(daysPerYear)
)

// ROI is the investment view of one year of arbitrage profit.
// When Unbounded is true, Years and BreakevenDate are zero values and must
// not be presented.
type ROI struct {
	Years                  decimal.Decimal
	AnnualReturnPercentage decimal.Decimal
	MonthlyAverage         decimal.Decimal
	BreakevenDate          time.Time
	Unbounded              bool
}

// PaybackYears returns Years, or ErrUnboundedROI.
func (r ROI) PaybackYears() (decimal.Decimal, error) {
	if r.Unbounded {
		return decimal.Zero, ErrUnboundedROI
	}
	return r.Years, nil
}

// Breakeven returns BreakevenDate, or ErrUnboundedROI.
func (r ROI) Breakeven() (time.Time, error) {
	if r.Unbounded {
		return time.Time{}, ErrUnboundedROI
	}
	return r.BreakevenDate, nil
}

// ComputeROI derives payback period, annual return and break-even date from
// a yearly profit and the battery purchase price. now is the reference for
// the break-even projection.
//
// Values are rounded to model.MoneyPlaces.
func ComputeROI(yearlyProfit, batteryPrice decimal.Decimal, now time.Time) (ROI, error) {
	if !batteryPrice.IsPositive() {
		return ROI{}, fmt.Errorf("%w: battery price must be > 0, got %s", model.ErrInvalidParams, batteryPrice)
	}

	roi := ROI{
		AnnualReturnPercentage: yearlyProfit.Div(batteryPrice).Mul(hundred).Round(model.MoneyPlaces),
		MonthlyAverage:         yearlyProfit.Div(monthsPerYear).Round(model.MoneyPlaces),
	}
	if !yearlyProfit.IsPositive() {
		roi.Unbounded = true
		return roi, nil
	}

	roi.Years = batteryPrice.Div(yearlyProfit).Round(model.MoneyPlaces)

	daysToBreakeven := batteryPrice.Mul(daysPerYearDec).Div(yearlyProfit)
	roi.BreakevenDate = addDays(now, daysToBreakeven)
	return roi, nil
}

// addDays adds a fractional number of days without overflowing time.Duration
// on multi-century paybacks.
func addDays(t time.Time, days decimal.Decimal) time.Time {
	whole := days.IntPart()
	frac := days.Sub(decimal.NewFromInt(whole))
	fracDur := time.Duration(frac.Mul(decimal.NewFromInt(int64(24 * time.Hour))).IntPart())
	return t.AddDate(0, 0, int(whole)).Add(fracDur)
}
