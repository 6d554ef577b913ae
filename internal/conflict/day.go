package conflict

import (
	"fmt"
	"time"
)

// DayLayout is the format of day bucket keys.
const DayLayout = "2006-01-02"

// Day is a civil calendar date with no time of day or zone.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day t falls on in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	y, m, d := t.In(loc).Date()
	return Day{Year: y, Month: m, Day: d}
}

// ParseDay parses a YYYY-MM-DD key.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayOf(t, time.UTC), nil
}

// Next returns the following calendar day.
func (d Day) Next() Day {
	return d.AddDays(1)
}

// AddDays returns d shifted by n days.
func (d Day) AddDays(n int) Day {
	return DayOf(d.midnightUTC().AddDate(0, 0, n), time.UTC)
}

// Key formats the day as a bucket key.
func (d Day) Key() string {
	return d.midnightUTC().Format(DayLayout)
}

func (d Day) String() string {
	return d.Key()
}

// Before reports whether d is earlier than other.
func (d Day) Before(other Day) bool {
	return d.midnightUTC().Before(other.midnightUTC())
}

// DaysBetween returns the number of day steps from a to b. It is negative
// when b is before a.
func DaysBetween(a, b Day) int {
	// Civil days in UTC are always exactly 24h long.
	return int(b.midnightUTC().Sub(a.midnightUTC()) / (24 * time.Hour))
}

func (d Day) midnightUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}
