package conflict

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestEstimateDuration(t *testing.T) {
	tests := []struct {
		performers int
		want       int
	}{
		{performers: -1, want: 0},
		{performers: 0, want: 0},
		{performers: 1, want: 2},
		{performers: 2, want: 3},
		{performers: 3, want: 3},
		{performers: 5, want: 5},
		{performers: 10, want: 10},
		{performers: 15, want: 10},
	}

	for _, tt := range tests {
		if got := EstimateDuration(tt.performers); got != tt.want {
			t.Errorf("EstimateDuration(%d) = %d, want %d", tt.performers, got, tt.want)
		}
	}
}

func TestComputeWindow(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2026, time.November, 6, h, m, 0, 0, time.UTC)
	}

	tests := []struct {
		name       string
		open       time.Time
		start      time.Time
		performers int
		want       Window
	}{
		{
			name:       "solo act",
			open:       at(18, 0),
			start:      at(19, 0),
			performers: 1,
			want:       Window{Start: at(17, 0), End: at(22, 0)},
		},
		{
			name:       "two acts",
			open:       at(17, 30),
			start:      at(18, 30),
			performers: 2,
			want:       Window{Start: at(16, 30), End: at(22, 30)},
		},
		{
			name:       "festival bill runs past midnight",
			open:       at(12, 0),
			start:      at(14, 0),
			performers: 12,
			want:       Window{Start: at(11, 0), End: at(14, 0).Add(11 * time.Hour)},
		},
		{
			name:       "no performers pads start only",
			open:       at(18, 0),
			start:      at(19, 0),
			performers: 0,
			want:       Window{Start: at(17, 0), End: at(20, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeWindow(tt.open, tt.start, tt.performers)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ComputeWindow() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestShowWindow(t *testing.T) {
	show := Show{
		Venue:     "Zepp Shinjuku",
		OpenTime:  time.Date(2026, time.November, 6, 17, 30, 0, 0, time.UTC),
		StartTime: time.Date(2026, time.November, 6, 18, 30, 0, 0, time.UTC),
		Artists:   []string{"A", "B", "C", "D"},
	}

	w := show.Window()
	if want := time.Date(2026, time.November, 6, 16, 30, 0, 0, time.UTC); !w.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", w.Start, want)
	}
	if want := time.Date(2026, time.November, 6, 23, 30, 0, 0, time.UTC); !w.End.Equal(want) {
		t.Errorf("End = %v, want %v", w.End, want)
	}
	if want := time.Date(2026, time.November, 6, 22, 30, 0, 0, time.UTC); !show.EstimatedEnd().Equal(want) {
		t.Errorf("EstimatedEnd = %v, want %v", show.EstimatedEnd(), want)
	}
}

func TestWindowInverted(t *testing.T) {
	open := time.Date(2026, time.November, 6, 20, 0, 0, 0, time.UTC)
	start := time.Date(2026, time.November, 6, 10, 0, 0, 0, time.UTC)

	if w := ComputeWindow(open, start, 1); !w.Inverted() {
		t.Errorf("window %v - %v should be inverted", w.Start, w.End)
	}
	if w := ComputeWindow(start, open, 1); w.Inverted() {
		t.Errorf("window %v - %v should not be inverted", w.Start, w.End)
	}
}

func TestWindowOverlaps(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2026, time.November, 6, h, 0, 0, 0, time.UTC)
	}
	w := Window{Start: at(17), End: at(22)}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{name: "inside", start: at(18), end: at(19), want: true},
		{name: "covers window", start: at(10), end: at(23), want: true},
		{name: "overlaps start", start: at(16), end: at(18), want: true},
		{name: "overlaps end", start: at(21), end: at(23), want: true},
		{name: "ends at window start", start: at(15), end: at(17), want: true},
		{name: "starts at window end", start: at(22), end: at(23), want: true},
		{name: "entirely before", start: at(14), end: at(16), want: false},
		{name: "entirely after", start: at(23), end: at(23).Add(time.Hour), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Overlaps(tt.start, tt.end); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}
