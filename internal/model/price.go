package model

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
	ClockLayout = "15:04"
)

// PriceRecord is one timestamped price quote (currency per kWh).
// Calendar fields are projections of Timestamp and are never stored.
type PriceRecord struct {
	Timestamp time.Time
	Price     decimal.Decimal
}

func (r PriceRecord) Hour() int { return r.Timestamp.Hour() }

func (r PriceRecord) Year() int { return r.Timestamp.Year() }

func (r PriceRecord) Month() time.Month { return r.Timestamp.Month() }

// Date returns midnight of the record's calendar day in the timestamp's location.
func (r PriceRecord) Date() time.Time {
	return Midnight(r.Timestamp)
}

// MonthKey returns the YYYY-MM grouping key.
func (r PriceRecord) MonthKey() string {
	return r.Timestamp.Format(MonthLayout)
}

func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Dataset is an immutable, loaded price series. Never mutate a Dataset after
// it has been published to a session; build a new one instead.
type Dataset struct {
	ID       string
	Source   string
	LoadedAt time.Time
	Records  []PriceRecord
}

// Day is one calendar date's records, sorted ascending by timestamp.
type Day struct {
	Date    time.Time
	Records []PriceRecord
}

// Days groups records by calendar date, ascending, with each day's records
// stable-sorted by timestamp. Grouping uses the wall-clock date of each
// timestamp, not the *time.Location, so zones parsed per row still share a day.
func (d *Dataset) Days() []Day {
	if d == nil || len(d.Records) == 0 {
		return nil
	}
	byDate := make(map[calendarDate][]PriceRecord)
	for _, r := range d.Records {
		key := dateOf(r.Timestamp)
		byDate[key] = append(byDate[key], r)
	}

	keys := make([]calendarDate, 0, len(byDate))
	for k := range byDate {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].before(keys[j]) })

	days := make([]Day, 0, len(keys))
	for _, k := range keys {
		recs := byDate[k]
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].Timestamp.Before(recs[j].Timestamp)
		})
		days = append(days, Day{Date: recs[0].Date(), Records: recs})
	}
	return days
}

// SameDate reports whether a and b fall on the same wall-clock date.
func SameDate(a, b time.Time) bool {
	return dateOf(a) == dateOf(b)
}

type calendarDate struct {
	year  int
	month time.Month
	day   int
}

func dateOf(t time.Time) calendarDate {
	y, m, d := t.Date()
	return calendarDate{year: y, month: m, day: d}
}

func (c calendarDate) before(o calendarDate) bool {
	if c.year != o.year {
		return c.year < o.year
	}
	if c.month != o.month {
		return c.month < o.month
	}
	return c.day < o.day
}

// Span returns the earliest and latest timestamps in the dataset.
func (d *Dataset) Span() (first, last time.Time) {
	if d == nil || len(d.Records) == 0 {
		return time.Time{}, time.Time{}
	}
	first, last = d.Records[0].Timestamp, d.Records[0].Timestamp
	for _, r := range d.Records[1:] {
		if r.Timestamp.Before(first) {
			first = r.Timestamp
		}
		if r.Timestamp.After(last) {
			last = r.Timestamp
		}
	}
	return first, last
}
