package conflict

import (
	"time"
)

// Padding added on both sides of a show for early arrival and lingering.
const windowPadding = time.Hour

// Window is the closed time range [Start, End] an attendee is expected to
// be busy with a show.
type Window struct {
	Start time.Time
	End   time.Time
}

// Show describes a live event the attendee is considering.
type Show struct {
	Venue     string    `yaml:"venue" json:"venue"`
	OpenTime  time.Time `yaml:"open" json:"open"`
	StartTime time.Time `yaml:"start" json:"start"`
	Artists   []string  `yaml:"artists" json:"artists"`
}

// Window computes the attendance window of the show.
func (s Show) Window() Window {
	return ComputeWindow(s.OpenTime, s.StartTime, len(s.Artists))
}

// EstimatedEnd is when the last act is expected to finish.
func (s Show) EstimatedEnd() time.Time {
	return s.StartTime.Add(time.Duration(EstimateDuration(len(s.Artists))) * time.Hour)
}

// ComputeWindow pads the doors-open time and the estimated end of the show
// by one hour each. start is not required to follow open.
func ComputeWindow(open, start time.Time, performers int) Window {
	hours := time.Duration(EstimateDuration(performers)) * time.Hour
	return Window{
		Start: open.Add(-windowPadding),
		End:   start.Add(hours + windowPadding),
	}
}

// Inverted reports whether the window ends before it starts.
func (w Window) Inverted() bool {
	return w.End.Before(w.Start)
}

// Overlaps reports whether [start, end] touches the window. Touching a
// boundary counts.
func (w Window) Overlaps(start, end time.Time) bool {
	return !end.Before(w.Start) && !start.After(w.End)
}
