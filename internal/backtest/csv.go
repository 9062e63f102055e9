package backtest

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"battery-arbitrage/internal/model"
)

// WriteDailyCSV writes one row per trade, or a single row with empty trade
// columns for days without any.
func WriteDailyCSV(path string, daily []model.DailySummary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeDailyCSV(f, daily)
}

func EncodeDailyCSV(out io.Writer, daily []model.DailySummary) error {
	w := csv.NewWriter(out)

	header := []string{
		"date",
		"day_total_profit",
		"opportunity_count",
		"trade",
		"buy_time",
		"buy_price",
		"sell_time",
		"sell_price",
		"profit",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, d := range daily {
		prefix := []string{
			d.Date.Format(model.DateLayout),
			d.TotalProfit.StringFixed(model.MoneyPlaces),
			strconv.Itoa(d.OpportunityCount),
		}
		if len(d.Opportunities) == 0 {
			if err := w.Write(append(prefix, "", "", "", "", "", "")); err != nil {
				return err
			}
			continue
		}
		for i, o := range d.Opportunities {
			row := append(append([]string{}, prefix...),
				strconv.Itoa(i+1),
				fmtClock(o.BuyTime),
				o.BuyPrice.StringFixed(model.PricePlaces),
				fmtClock(o.SellTime),
				o.SellPrice.StringFixed(model.PricePlaces),
				o.Profit.StringFixed(model.MoneyPlaces),
			)
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func fmtClock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(model.ClockLayout)
}
