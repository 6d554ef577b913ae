package conflict

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

// nov returns a UTC timestamp in November 2026.
func nov(day, hour, minute int) time.Time {
	return time.Date(2026, time.November, day, hour, minute, 0, 0, time.UTC)
}

func ids(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

// evening is 17:00-22:00 on Nov 6, a solo show with doors at 18:00.
var evening = ComputeWindow(nov(6, 18, 0), nov(6, 19, 0), 1)

func TestScanEmpty(t *testing.T) {
	for name, days := range map[string]DayBuckets{
		"nil buckets":  nil,
		"no entries":   {},
		"empty bucket": {"2026-11-06": nil},
		"other days":   {"2026-11-05": {NewEvent("x", "Dentist", nov(5, 18, 0), nov(5, 19, 0))}},
	} {
		t.Run(name, func(t *testing.T) {
			got := Scan(evening, days)
			if got == nil || len(got) != 0 {
				t.Errorf("Scan() = %#v, want empty result", got)
			}
		})
	}
}

func TestScanBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  bool
	}{
		{name: "inside", event: NewEvent("1", "Dinner", nov(6, 18, 0), nov(6, 19, 0)), want: true},
		{name: "covers window", event: NewEvent("1", "Workshop", nov(6, 9, 0), nov(6, 23, 0)), want: true},
		{name: "straddles start", event: NewEvent("1", "Call", nov(6, 16, 30), nov(6, 17, 30)), want: true},
		{name: "straddles end", event: NewEvent("1", "Drinks", nov(6, 21, 30), nov(6, 23, 0)), want: true},
		{name: "ends at window start", event: NewEvent("1", "Standup", nov(6, 16, 0), nov(6, 17, 0)), want: true},
		{name: "starts at window end", event: NewEvent("1", "Late call", nov(6, 22, 0), nov(6, 22, 30)), want: true},
		{name: "entirely before", event: NewEvent("1", "Lunch", nov(6, 12, 0), nov(6, 16, 59)), want: false},
		{name: "entirely after", event: NewEvent("1", "Night shift", nov(6, 22, 1), nov(6, 23, 59)), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scan(evening, DayBuckets{"2026-11-06": {tt.event}})
			if found := len(got) == 1; found != tt.want {
				t.Errorf("Scan() found %v, want %v (result %v)", found, tt.want, ids(got))
			}
		})
	}
}

func TestScanMergesBracketPairs(t *testing.T) {
	// 21:00 Nov 6 to 02:00 Nov 7
	w := ComputeWindow(nov(6, 22, 0), nov(6, 23, 0), 1)

	tests := []struct {
		name string
		days DayBuckets
		want []Event
	}{
		{
			name: "open then start across midnight",
			days: DayBuckets{
				"2026-11-06": {{ID: "a", Name: "OPEN Trip", Start: nov(6, 22, 0), End: nov(6, 23, 59)}},
				"2026-11-07": {{ID: "b", Name: "START Trip", Start: nov(7, 0, 0), End: nov(7, 1, 0)}},
			},
			want: []Event{
				{ID: "a", Name: "Trip", Label: Label{Kind: Plain, Title: "Trip"}, Start: nov(6, 22, 0), End: nov(6, 23, 59)},
			},
		},
		{
			name: "start seen before open",
			days: DayBuckets{
				"2026-11-06": {
					NewEvent("b", "START Trip", nov(6, 23, 0), nov(7, 1, 0)),
					NewEvent("a", "OPEN Trip", nov(6, 22, 0), nov(6, 23, 0)),
				},
			},
			want: []Event{
				{ID: "b", Name: "Trip", Label: Label{Kind: Plain, Title: "Trip"}, Start: nov(6, 23, 0), End: nov(7, 1, 0)},
			},
		},
		{
			name: "different titles stay apart",
			days: DayBuckets{
				"2026-11-06": {
					NewEvent("c", "OPEN Gig", nov(6, 21, 0), nov(6, 22, 0)),
					NewEvent("d", "START Show", nov(6, 22, 0), nov(6, 23, 0)),
				},
			},
			want: []Event{
				NewEvent("c", "OPEN Gig", nov(6, 21, 0), nov(6, 22, 0)),
				NewEvent("d", "START Show", nov(6, 22, 0), nov(6, 23, 0)),
			},
		},
		{
			name: "two opens do not pair",
			days: DayBuckets{
				"2026-11-06": {
					NewEvent("e", "OPEN Trip", nov(6, 21, 0), nov(6, 22, 0)),
					NewEvent("f", "OPEN Trip", nov(6, 22, 0), nov(6, 23, 0)),
				},
			},
			want: []Event{
				NewEvent("e", "OPEN Trip", nov(6, 21, 0), nov(6, 22, 0)),
				NewEvent("f", "OPEN Trip", nov(6, 22, 0), nov(6, 23, 0)),
			},
		},
		{
			name: "first matching half wins",
			days: DayBuckets{
				"2026-11-06": {
					NewEvent("o1", "OPEN Trip", nov(6, 21, 0), nov(6, 22, 0)),
					NewEvent("o2", "OPEN Trip", nov(6, 21, 30), nov(6, 22, 0)),
					NewEvent("s1", "START Trip", nov(6, 22, 0), nov(6, 23, 0)),
				},
			},
			want: []Event{
				{ID: "o1", Name: "Trip", Label: Label{Kind: Plain, Title: "Trip"}, Start: nov(6, 21, 0), End: nov(6, 22, 0)},
				NewEvent("o2", "OPEN Trip", nov(6, 21, 30), nov(6, 22, 0)),
			},
		},
		{
			name: "plain entry with the bare title is untouched",
			days: DayBuckets{
				"2026-11-06": {
					NewEvent("p", "Trip", nov(6, 21, 0), nov(6, 22, 0)),
					NewEvent("s", "START Trip", nov(6, 22, 0), nov(6, 23, 0)),
				},
			},
			want: []Event{
				NewEvent("p", "Trip", nov(6, 21, 0), nov(6, 22, 0)),
				NewEvent("s", "START Trip", nov(6, 22, 0), nov(6, 23, 0)),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scan(w, tt.days)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Scan() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanTaggedLabels(t *testing.T) {
	// Titles that would not pair by prefix pair through their tags.
	open := Event{ID: "a", Name: "Doors: Zepp", Label: Label{Kind: BracketOpen, Title: "Zepp"}, Start: nov(6, 17, 0), End: nov(6, 18, 0)}
	start := Event{ID: "b", Name: "Zepp (show)", Label: Label{Kind: BracketStart, Title: "Zepp"}, Start: nov(6, 18, 0), End: nov(6, 20, 0)}
	// A plain tag keeps a literal "OPEN " title out of pairing.
	literal := Event{ID: "c", Name: "OPEN Zepp", Label: Label{Kind: Plain, Title: "OPEN Zepp"}, Start: nov(6, 19, 0), End: nov(6, 20, 0)}

	got := Scan(evening, DayBuckets{"2026-11-06": {literal, open, start}})

	want := []Event{
		literal,
		{ID: "a", Name: "Zepp", Label: Label{Kind: Plain, Title: "Zepp"}, Start: nov(6, 17, 0), End: nov(6, 18, 0)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Scan() mismatch (-want +got):\n%s", diff)
	}
}

func TestScanUniqueIDs(t *testing.T) {
	// 17:00 Nov 6 to 01:00 Nov 8
	w := Window{Start: nov(6, 17, 0), End: nov(8, 1, 0)}
	trip := NewEvent("t", "Road trip", nov(6, 10, 0), nov(8, 10, 0))
	updated := trip
	updated.End = nov(8, 12, 0)

	days := DayBuckets{
		"2026-11-06": {trip, NewEvent("x", "Dinner", nov(6, 19, 0), nov(6, 20, 0))},
		"2026-11-07": {trip, NewEvent("y", "Brunch", nov(7, 11, 0), nov(7, 12, 0))},
		"2026-11-08": {updated},
	}

	got := Scan(w, days)

	if diff := cmp.Diff([]string{"t", "x", "y"}, ids(got)); diff != "" {
		t.Errorf("Scan() ids mismatch (-want +got):\n%s", diff)
	}
	// Last write wins on content, first write on position.
	if !got[0].End.Equal(updated.End) {
		t.Errorf("Scan()[0].End = %v, want %v", got[0].End, updated.End)
	}
}

func TestScanAbsorbedHalfStaysAbsorbed(t *testing.T) {
	w := Window{Start: nov(6, 17, 0), End: nov(7, 3, 0)}
	open := NewEvent("a", "OPEN Trip", nov(6, 22, 0), nov(6, 23, 30))
	start := NewEvent("b", "START Trip", nov(6, 23, 30), nov(7, 1, 0))

	// Both halves spill into the next day's bucket.
	days := DayBuckets{
		"2026-11-06": {open, start},
		"2026-11-07": {start, open},
	}

	got := Scan(w, days)

	want := []Event{
		{ID: "a", Name: "Trip", Label: Label{Kind: Plain, Title: "Trip"}, Start: open.Start, End: open.End},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Scan() mismatch (-want +got):\n%s", diff)
	}
}

func TestScanIdempotent(t *testing.T) {
	w := ComputeWindow(nov(6, 22, 0), nov(6, 23, 0), 3)
	days := DayBuckets{
		"2026-11-06": {
			NewEvent("a", "OPEN Trip", nov(6, 22, 0), nov(6, 23, 59)),
			NewEvent("c", "Call", nov(6, 21, 0), nov(6, 22, 0)),
		},
		"2026-11-07": {
			NewEvent("b", "START Trip", nov(7, 0, 0), nov(7, 1, 0)),
			NewEvent("c", "Call", nov(6, 21, 0), nov(6, 22, 0)),
			NewEvent("d", "OPEN Gig", nov(7, 1, 0), nov(7, 2, 0)),
		},
	}

	first := Scan(w, days)
	second := Scan(w, days)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second Scan() differs (-first +second):\n%s", diff)
	}
	// Scanning must not modify the input buckets.
	if got := days["2026-11-06"][0].Name; got != "OPEN Trip" {
		t.Errorf("input bucket entry renamed to %q", got)
	}
}

func TestScanInvertedWindow(t *testing.T) {
	w := ComputeWindow(nov(6, 20, 0), nov(6, 10, 0), 1)
	days := DayBuckets{
		"2026-11-06": {NewEvent("a", "Dinner", nov(6, 12, 0), nov(6, 13, 0))},
	}

	got := Scan(w, days)
	if got == nil || len(got) != 0 {
		t.Errorf("Scan() = %v, want empty result", got)
	}
}

func TestScanVisitsEveryDay(t *testing.T) {
	// A festival weekend spanning four calendar days.
	w := Window{Start: nov(27, 12, 0), End: nov(30, 2, 0)}
	days := DayBuckets{
		"2026-11-26": {NewEvent("before", "Packing", nov(27, 11, 0), nov(27, 13, 0))},
		"2026-11-27": {NewEvent("fri", "Friday", nov(27, 13, 0), nov(27, 14, 0))},
		"2026-11-28": {NewEvent("sat", "Saturday", nov(28, 13, 0), nov(28, 14, 0))},
		"2026-11-29": {NewEvent("sun", "Sunday", nov(29, 13, 0), nov(29, 14, 0))},
		"2026-11-30": {NewEvent("mon", "Monday", nov(30, 1, 0), nov(30, 3, 0))},
		"2026-12-01": {NewEvent("after", "Tuesday", nov(30, 1, 0), nov(30, 3, 0))},
	}

	got := Scan(w, days)

	// Only buckets of days inside the window are read, even when an
	// entry filed elsewhere would overlap.
	if diff := cmp.Diff([]string{"fri", "sat", "sun", "mon"}, ids(got)); diff != "" {
		t.Errorf("Scan() ids mismatch (-want +got):\n%s", diff)
	}
}

func TestScannerLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 23:00 JST Nov 6 to 03:00 JST Nov 7
	w := Window{Start: nov(6, 14, 0), End: nov(6, 18, 0)}
	days := DayBuckets{
		"2026-11-07": {NewEvent("a", "Early flight", nov(6, 16, 0), nov(6, 17, 0))},
	}

	utc := Scanner{Logger: zerolog.Nop()}
	if got := utc.Scan(w, days); len(got) != 0 {
		t.Errorf("UTC scanner found %v, want nothing", ids(got))
	}

	local := Scanner{Logger: zerolog.Nop(), Location: tokyo}
	if diff := cmp.Diff([]string{"a"}, ids(local.Scan(w, days))); diff != "" {
		t.Errorf("JST scanner ids mismatch (-want +got):\n%s", diff)
	}
}

func TestScanSkipsUnusableTimestamps(t *testing.T) {
	var buf bytes.Buffer
	s := NewScanner(zerolog.New(&buf))

	days := DayBuckets{
		"2026-11-06": {
			{ID: "no-start", Name: "Broken", End: nov(6, 19, 0)},
			{ID: "no-end", Name: "Broken too", Start: nov(6, 18, 0)},
			NewEvent("ok", "Dinner", nov(6, 18, 0), nov(6, 19, 0)),
		},
	}

	got := s.Scan(evening, days)

	if diff := cmp.Diff([]string{"ok"}, ids(got)); diff != "" {
		t.Errorf("Scan() ids mismatch (-want +got):\n%s", diff)
	}
	if n := strings.Count(buf.String(), `"level":"warn"`); n != 2 {
		t.Errorf("logged %d warnings, want 2:\n%s", n, buf.String())
	}
}
