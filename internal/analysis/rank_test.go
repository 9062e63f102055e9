package analysis

import (
	"testing"
	"time"

	"battery-arbitrage/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestTopDays(t *testing.T) {
	day := func(n int, profit string) model.DailySummary {
		return model.DailySummary{
			Date:        time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC),
			TotalProfit: d(profit),
		}
	}
	daily := []model.DailySummary{day(1, "1.00"), day(2, "3.50"), day(3, "0"), day(4, "3.50"), day(5, "2.25")}

	top := TopDays(daily, 3)
	if assert.Len(t, top, 3) {
		assert.Equal(t, 2, top[0].Date.Day())
		assert.Equal(t, 4, top[1].Date.Day())
		assert.Equal(t, 5, top[2].Date.Day())
	}
	// input untouched
	assert.Equal(t, 1, daily[0].Date.Day())

	assert.Len(t, TopDays(daily, 10), 5)
	assert.Empty(t, TopDays(nil, 5))
}
