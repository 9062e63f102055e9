package backtest

import (
	"fmt"
	"time"

	"battery-arbitrage/internal/model"
)

// Analysis stages.
const (
	StageDaily   = "daily"
	StageMonthly = "monthly"
	StageYearly  = "yearly"
)

// AnalysisError is an aggregation failure. It is fatal for the request that
// triggered it and is never retried.
type AnalysisError struct {
	Stage string
	Date  time.Time // zero unless the failure is tied to one day
	Err   error
}

func (e *AnalysisError) Error() string {
	if !e.Date.IsZero() {
		return fmt.Sprintf("%s analysis failed for %s: %v", e.Stage, e.Date.Format(model.DateLayout), e.Err)
	}
	return fmt.Sprintf("%s analysis failed: %v", e.Stage, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }
