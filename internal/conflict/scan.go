package conflict

import (
	"time"

	"github.com/rs/zerolog"
)

// DayBuckets maps a YYYY-MM-DD day key in the attendee's zone to the
// calendar entries relevant to that day.
type DayBuckets map[string][]Event

// Scanner finds calendar entries that clash with a show window.
type Scanner struct {
	Logger zerolog.Logger

	// Location decides which calendar day a window boundary falls on.
	// Defaults to the location of the window start.
	Location *time.Location
}

// NewScanner returns a Scanner that reports data-quality problems to logger.
func NewScanner(logger zerolog.Logger) *Scanner {
	return &Scanner{Logger: logger}
}

// Scan runs a Scanner that does not log.
func Scan(w Window, days DayBuckets) []Event {
	s := Scanner{Logger: zerolog.Nop()}
	return s.Scan(w, days)
}

// Scan walks the window one calendar day at a time and returns every entry
// overlapping it, in the order first seen. Entries are unique by ID, and
// bracket halves with the same title collapse into one entry named by the
// bare title.
func (s *Scanner) Scan(w Window, days DayBuckets) []Event {
	if w.Inverted() {
		s.Logger.Debug().
			Time("start", w.Start).
			Time("end", w.End).
			Msg("window ends before it starts, nothing to scan")
		return []Event{}
	}

	loc := s.Location
	if loc == nil {
		loc = w.Start.Location()
	}
	first := DayOf(w.Start, loc)
	span := DaysBetween(first, DayOf(w.End, loc))

	acc := newAccumulator()
	day := first
	for i := 0; i <= span; i++ {
		for _, e := range days[day.Key()] {
			if !s.valid(day, e) {
				continue
			}
			if !w.Overlaps(e.Start, e.End) {
				continue
			}
			e.Label = e.label()
			if survivor, ok := acc.pair(e); ok {
				s.Logger.Debug().
					Str("day", day.Key()).
					Str("id", survivor.ID).
					Str("absorbed", e.ID).
					Str("title", survivor.Name).
					Msg("merged bracket pair")
				continue
			}
			acc.put(e)
		}
		day = day.Next()
	}
	return acc.values()
}

// valid drops entries whose timestamps never parsed.
func (s *Scanner) valid(day Day, e Event) bool {
	if e.Start.IsZero() || e.End.IsZero() {
		s.Logger.Warn().
			Str("day", day.Key()).
			Str("id", e.ID).
			Str("name", e.Name).
			Msg("calendar entry has no usable start or end, ignoring it")
		return false
	}
	return true
}

// accumulator is an ordered map of conflicts keyed by event ID. It lives
// for a single Scan call.
type accumulator struct {
	order   []string
	byID    map[string]*entry
	aliases map[string]string // absorbed half ID -> survivor ID
}

type entry struct {
	event  Event
	merged bool
}

func newAccumulator() *accumulator {
	return &accumulator{
		byID:    make(map[string]*entry),
		aliases: make(map[string]string),
	}
}

// pair merges e into an already collected opposite half. It returns the
// surviving entry and true if e was consumed.
func (a *accumulator) pair(e Event) (Event, bool) {
	if id, ok := a.aliases[e.ID]; ok {
		return a.byID[id].event, true
	}
	if e.Label.Kind == Plain {
		return Event{}, false
	}
	for _, id := range a.order {
		cur := a.byID[id]
		if cur.merged || id == e.ID || !e.Label.pairs(cur.event.Label) {
			continue
		}
		cur.event.Name = cur.event.Label.Title
		cur.event.Label = Label{Kind: Plain, Title: cur.event.Label.Title}
		cur.merged = true
		a.aliases[e.ID] = id
		return cur.event, true
	}
	return Event{}, false
}

// put inserts e, or overwrites the entry with the same ID in place. A
// merged survivor keeps its merged name.
func (a *accumulator) put(e Event) {
	cur, ok := a.byID[e.ID]
	if !ok {
		a.order = append(a.order, e.ID)
		a.byID[e.ID] = &entry{event: e}
		return
	}
	if cur.merged {
		e.Name = cur.event.Name
		e.Label = cur.event.Label
	}
	cur.event = e
}

func (a *accumulator) values() []Event {
	out := make([]Event, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.byID[id].event)
	}
	return out
}
