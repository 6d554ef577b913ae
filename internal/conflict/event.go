package conflict

import (
	"strings"
	"time"

	"github.com/theakshaypant/gigcheck/internal/core"
)

// Kind tells whether an entry is a regular calendar block or one half of a
// block that was split in two.
type Kind int

const (
	Plain Kind = iota
	// Doors to curtain, e.g. "OPEN Zepp Shinjuku"
	BracketOpen
	// The show itself, e.g. "START Zepp Shinjuku"
	BracketStart
)

// Name prefixes calendars use for bracket halves.
const (
	OpenPrefix  = "OPEN "
	StartPrefix = "START "
)

// MetadataBracket is the core.Event metadata key a provider sets when it
// knows the bracket kind without looking at the title ("open" or "start").
const MetadataBracket = "bracket"

func (k Kind) String() string {
	switch k {
	case BracketOpen:
		return "open"
	case BracketStart:
		return "start"
	default:
		return "plain"
	}
}

// Label is the bracket tag of an entry. Title is the title shared by both
// halves of a pair, or the full name for plain entries.
type Label struct {
	Kind  Kind
	Title string
}

// ParseLabel derives the bracket tag from a calendar entry name.
func ParseLabel(name string) Label {
	if title, ok := strings.CutPrefix(name, OpenPrefix); ok {
		return Label{Kind: BracketOpen, Title: title}
	}
	if title, ok := strings.CutPrefix(name, StartPrefix); ok {
		return Label{Kind: BracketStart, Title: title}
	}
	return Label{Kind: Plain, Title: name}
}

// pairs reports whether l and other are opposite halves of the same block.
func (l Label) pairs(other Label) bool {
	switch l.Kind {
	case BracketOpen:
		return other.Kind == BracketStart && other.Title == l.Title
	case BracketStart:
		return other.Kind == BracketOpen && other.Title == l.Title
	default:
		return false
	}
}

// Event is an existing entry on the attendee's calendar.
type Event struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Label Label     `json:"-"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// label returns the bracket tag, deriving it from the name when it was
// never set.
func (e Event) label() Label {
	if e.Label == (Label{}) {
		return ParseLabel(e.Name)
	}
	return e.Label
}

// NewEvent builds an Event and tags it from its name.
func NewEvent(id, name string, start, end time.Time) Event {
	return Event{
		ID:    id,
		Name:  name,
		Label: ParseLabel(name),
		Start: start,
		End:   end,
	}
}

// FromCore converts a provider event. A bracket kind recorded in the
// event's metadata wins over the title prefix.
func FromCore(e core.Event) Event {
	ev := NewEvent(e.ID, e.Title, e.Start, e.End)
	switch e.Metadata[MetadataBracket] {
	case BracketOpen.String():
		ev.Label = Label{Kind: BracketOpen, Title: strings.TrimPrefix(e.Title, OpenPrefix)}
	case BracketStart.String():
		ev.Label = Label{Kind: BracketStart, Title: strings.TrimPrefix(e.Title, StartPrefix)}
	}
	return ev
}

// BracketPair returns the two calendar entries a show is booked as: the
// wait between doors and curtain, then the show itself.
func BracketPair(s Show) (open, start Event) {
	open = Event{
		Name:  OpenPrefix + s.Venue,
		Label: Label{Kind: BracketOpen, Title: s.Venue},
		Start: s.OpenTime,
		End:   s.StartTime,
	}
	start = Event{
		Name:  StartPrefix + s.Venue,
		Label: Label{Kind: BracketStart, Title: s.Venue},
		Start: s.StartTime,
		End:   s.EstimatedEnd(),
	}
	return open, start
}
