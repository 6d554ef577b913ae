package conflict

import (
	"time"
)

// Entries this close to midnight are also filed under the neighbouring day
// so a window starting or ending late at night still finds them.
const midnightSpill = 2 * time.Hour

// BucketByDay files events under every day key in loc they are relevant to:
// the day they start, each following day they run into, the previous day
// when they start just after midnight and the next day when they end just
// before it. Events that ended before now are dropped.
func BucketByDay(events []Event, loc *time.Location, now time.Time) DayBuckets {
	if loc == nil {
		loc = time.Local
	}
	buckets := make(DayBuckets)
	for _, e := range events {
		if e.End.Before(now) && e.Start.Before(now) {
			continue
		}
		for _, d := range daysOf(e, loc) {
			buckets[d.Key()] = append(buckets[d.Key()], e)
		}
	}
	return buckets
}

func daysOf(e Event, loc *time.Location) []Day {
	start := e.Start.In(loc)
	end := e.End.In(loc)
	first := DayOf(start, loc)
	last := DayOf(end, loc)

	days := []Day{first}
	seen := map[Day]bool{first: true}
	add := func(d Day) {
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}

	if start.Hour() < 1 {
		add(DayOf(start.Add(-midnightSpill), loc))
	}
	if end.Hour() > 22 {
		add(DayOf(end.Add(midnightSpill), loc))
	}
	for d := first.Next(); !last.Before(d); d = d.Next() {
		add(d)
	}
	return days
}
