package strategy

import "battery-arbitrage/internal/model"

// Strategy finds trading opportunities inside one calendar day.
type Strategy interface {
	Name() string
	Opportunities(day model.Day) ([]model.Opportunity, error)
}
